package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/sid/billing-service/internal/domain/shared"
	"github.com/sid/billing-service/internal/infrastructure/logger"
	"github.com/sid/billing-service/internal/interfaces/http/dto"
)

// MaxIdempotencyKeyLength bounds the Idempotency-Key header
const MaxIdempotencyKeyLength = 255

// Idempotency rejects a replayed Idempotency-Key on the routes it guards.
// Requests without the header pass through. A key whose request fails
// (status >= 400 or a panic) is released so the client can retry with it.
// If the store is unreachable the request proceeds without protection.
func Idempotency(store shared.IdempotencyStore, ttl time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader(HeaderIdempotencyKey)
		if header == "" || store == nil {
			c.Next()
			return
		}
		if len(header) > MaxIdempotencyKeyLength {
			c.AbortWithStatusJSON(http.StatusBadRequest, dto.NewErrorResponseWithRequestID(
				dto.ErrCodeBadRequest,
				"Idempotency-Key header is too long",
				getRequestID(c),
			))
			return
		}

		key := c.Request.Method + " " + c.FullPath() + " " + header
		ctx := c.Request.Context()
		log := logger.GetGinLogger(c)

		fresh, err := store.MarkProcessed(ctx, key, ttl)
		if err != nil {
			log.Warn("Idempotency store unavailable, processing request unguarded",
				zap.String("idempotency_key", header), zap.Error(err))
			c.Next()
			return
		}
		if !fresh {
			c.AbortWithStatusJSON(http.StatusConflict, dto.NewErrorResponseWithRequestID(
				dto.ErrCodeDuplicateRequest,
				"A request with this Idempotency-Key was already processed",
				getRequestID(c),
			))
			return
		}

		release := func() {
			if err := store.Release(context.WithoutCancel(ctx), key); err != nil {
				log.Warn("Failed to release idempotency key",
					zap.String("idempotency_key", header), zap.Error(err))
			}
		}
		// a panicking handler created nothing, so its key is released before unwinding
		defer func() {
			if r := recover(); r != nil {
				release()
				panic(r)
			}
		}()

		c.Next()

		if c.Writer.Status() >= http.StatusBadRequest {
			release()
		}
	}
}
