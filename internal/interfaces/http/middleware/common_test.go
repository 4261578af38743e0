package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func corsRouter(cfg CORSConfig) *gin.Engine {
	router := gin.New()
	router.Use(CORSWithConfig(cfg))
	router.GET("/bills", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	return router
}

func TestCORS(t *testing.T) {
	router := gin.New()
	router.Use(CORS())
	router.GET("/bills", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	t.Run("default config sends no CORS headers", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/bills", nil)
		req.Header.Set("Origin", "http://elsewhere.example")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("preflight answers 204 without headers", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/bills", nil)
		req.Header.Set("Origin", "http://elsewhere.example")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	})
}

func TestCORSWithConfig(t *testing.T) {
	t.Run("allows listed origin with credentials", func(t *testing.T) {
		router := corsRouter(CORSConfig{
			AllowOrigins:     []string{"http://localhost:3000", "http://billing.example"},
			AllowMethods:     []string{"GET", "POST"},
			AllowHeaders:     []string{"Content-Type", HeaderIdempotencyKey},
			AllowCredentials: true,
		})

		for _, origin := range []string{"http://localhost:3000", "http://billing.example"} {
			req := httptest.NewRequest(http.MethodGet, "/bills", nil)
			req.Header.Set("Origin", origin)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, origin, w.Header().Get("Access-Control-Allow-Origin"))
			assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
			assert.Equal(t, "Content-Type, Idempotency-Key", w.Header().Get("Access-Control-Allow-Headers"))
		}
	})

	t.Run("ignores unlisted origin", func(t *testing.T) {
		router := corsRouter(CORSConfig{AllowOrigins: []string{"http://allowed.example"}})

		req := httptest.NewRequest(http.MethodGet, "/bills", nil)
		req.Header.Set("Origin", "http://not-allowed.example")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("wildcard never sends credentials", func(t *testing.T) {
		router := corsRouter(CORSConfig{AllowOrigins: []string{"*"}, AllowCredentials: true})

		req := httptest.NewRequest(http.MethodGet, "/bills", nil)
		req.Header.Set("Origin", "http://any.example")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Empty(t, w.Header().Get("Access-Control-Allow-Credentials"))
	})

	t.Run("preflight for listed origin", func(t *testing.T) {
		router := corsRouter(CORSConfig{
			AllowOrigins:  []string{"http://localhost:3000"},
			AllowMethods:  []string{"GET", "POST"},
			ExposeHeaders: []string{HeaderRequestID},
			MaxAge:        90 * time.Minute,
		})

		req := httptest.NewRequest(http.MethodOptions, "/bills", nil)
		req.Header.Set("Origin", "http://localhost:3000")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "GET, POST", w.Header().Get("Access-Control-Allow-Methods"))
		assert.Equal(t, HeaderRequestID, w.Header().Get("Access-Control-Expose-Headers"))
		assert.Equal(t, "5400", w.Header().Get("Access-Control-Max-Age"))
	})
}

func TestDefaultCORSConfig(t *testing.T) {
	cfg := DefaultCORSConfig()
	assert.Empty(t, cfg.AllowOrigins)
	assert.Contains(t, cfg.AllowHeaders, HeaderIdempotencyKey)
	assert.Contains(t, cfg.AllowMethods, http.MethodPut)
	assert.Contains(t, cfg.ExposeHeaders, HeaderRequestID)
}

func TestRequestID(t *testing.T) {
	router := gin.New()
	router.Use(RequestID())
	router.GET("/bills", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(RequestIDKey))
	})

	t.Run("generates a UUID", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/bills", nil))

		id := w.Header().Get(HeaderRequestID)
		_, err := uuid.Parse(id)
		assert.NoError(t, err)
		assert.Equal(t, id, w.Body.String())
	})

	t.Run("keeps caller id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/bills", nil)
		req.Header.Set(HeaderRequestID, "caller-123")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, "caller-123", w.Header().Get(HeaderRequestID))
		assert.Equal(t, "caller-123", w.Body.String())
	})

	t.Run("replaces oversized id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/bills", nil)
		req.Header.Set(HeaderRequestID, strings.Repeat("x", MaxRequestIDLength+1))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		_, err := uuid.Parse(w.Header().Get(HeaderRequestID))
		assert.NoError(t, err)
	})
}

func TestGetRequestID(t *testing.T) {
	t.Run("prefers context value", func(t *testing.T) {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
		c.Request.Header.Set(HeaderRequestID, "from-header")
		c.Set(RequestIDKey, "from-context")
		assert.Equal(t, "from-context", getRequestID(c))
	})

	t.Run("truncates long header", func(t *testing.T) {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
		c.Request.Header.Set(HeaderRequestID, strings.Repeat("a", 300))
		assert.Len(t, getRequestID(c), MaxRequestIDLength)
	})
}

func TestSecure(t *testing.T) {
	router := gin.New()
	router.Use(Secure())
	router.GET("/bills", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/bills", nil))

	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "no-referrer", w.Header().Get("Referrer-Policy"))
	assert.Contains(t, w.Header().Get("Content-Security-Policy"), "default-src 'none'")
	assert.Empty(t, w.Header().Get("Strict-Transport-Security"))
}

func TestSecureWithConfig_HSTS(t *testing.T) {
	tests := []struct {
		name string
		cfg  SecurityConfig
		want string
	}{
		{"with subdomains", SecurityConfig{HSTSEnabled: true, HSTSMaxAge: 600, HSTSIncludeSubdomains: true}, "max-age=600; includeSubDomains"},
		{"plain", SecurityConfig{HSTSEnabled: true, HSTSMaxAge: 600}, "max-age=600"},
		{"disabled", SecurityConfig{HSTSMaxAge: 600}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			router.Use(SecureWithConfig(tt.cfg))
			router.GET("/bills", func(c *gin.Context) { c.Status(http.StatusOK) })

			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/bills", nil))
			assert.Equal(t, tt.want, w.Header().Get("Strict-Transport-Security"))
		})
	}
}
