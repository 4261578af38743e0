package handler

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sid/billing-service/internal/interfaces/http/dto"
)

const healthCheckTimeout = 2 * time.Second

// Pinger reports whether a dependency is reachable
type Pinger interface {
	PingContext(ctx context.Context) error
}

// SystemHandler handles system-related API endpoints
type SystemHandler struct {
	BaseHandler
	name      string
	version   string
	db        Pinger
	startTime time.Time
}

// NewSystemHandler creates a new SystemHandler. db may be nil, in which
// case health only reports the process as up.
func NewSystemHandler(name, version string, db Pinger) *SystemHandler {
	return &SystemHandler{
		name:      name,
		version:   version,
		db:        db,
		startTime: time.Now(),
	}
}

// SystemInfoResponse represents the system information response
type SystemInfoResponse struct {
	Name      string `json:"name"`
	Version   string `json:"version"`
	GoVersion string `json:"goVersion"`
	Uptime    string `json:"uptime"`
}

// GetSystemInfo returns the service name, version and uptime.
// GET /system/info
func (h *SystemHandler) GetSystemInfo(c *gin.Context) {
	h.Success(c, SystemInfoResponse{
		Name:      h.name,
		Version:   h.version,
		GoVersion: runtime.Version(),
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
	})
}

// PingResponse represents the ping response
type PingResponse struct {
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

// Ping answers as long as the process serves requests.
// GET /system/ping
func (h *SystemHandler) Ping(c *gin.Context) {
	h.Success(c, PingResponse{
		Message:   "pong",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// HealthResponse reports the state of the service and its database
type HealthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
}

// Health pings the database.
// GET /health
func (h *SystemHandler) Health(c *gin.Context) {
	if h.db == nil {
		h.Success(c, HealthResponse{Status: "UP", Database: "unknown"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), healthCheckTimeout)
	defer cancel()

	if err := h.db.PingContext(ctx); err != nil {
		resp := dto.NewErrorResponseWithRequestID(dto.ErrCodeInternal, "Database unreachable", getRequestID(c))
		resp.Data = HealthResponse{Status: "DOWN", Database: "DOWN"}
		c.JSON(http.StatusServiceUnavailable, resp)
		return
	}
	h.Success(c, HealthResponse{Status: "UP", Database: "UP"})
}
