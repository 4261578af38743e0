package handler

import (
	"errors"
	"fmt"
	"net/http"
	"net/netip"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/sid/billing-service/internal/domain/billing"
	"github.com/sid/billing-service/internal/domain/shared"
	"github.com/sid/billing-service/internal/infrastructure/logger"
	"github.com/sid/billing-service/internal/interfaces/http/dto"
	"github.com/sid/billing-service/internal/interfaces/http/middleware"
)

// BaseHandler provides common handler utilities
type BaseHandler struct {
	// basePath prefixes every generated link, e.g. "/api"
	basePath string
	// trustedProxies may set X-Forwarded-Proto and X-Forwarded-Host
	trustedProxies []netip.Prefix
}

// NewBaseHandler creates a BaseHandler whose links are rooted at basePath.
// Forwarded headers are honoured only from peers in trustedProxies, given
// as IPs or CIDRs. Entries that do not parse are skipped.
func NewBaseHandler(basePath string, trustedProxies ...string) BaseHandler {
	h := BaseHandler{basePath: strings.TrimRight(basePath, "/")}
	for _, p := range trustedProxies {
		if prefix, err := netip.ParsePrefix(p); err == nil {
			h.trustedProxies = append(h.trustedProxies, prefix.Masked())
		} else if addr, err := netip.ParseAddr(p); err == nil {
			h.trustedProxies = append(h.trustedProxies, netip.PrefixFrom(addr, addr.BitLen()))
		}
	}
	return h
}

// getRequestID extracts the request ID from the context
func getRequestID(c *gin.Context) string {
	if id := c.GetString(middleware.RequestIDKey); id != "" {
		return id
	}
	id := c.GetHeader(middleware.HeaderRequestID)
	if len(id) > middleware.MaxRequestIDLength {
		return id[:middleware.MaxRequestIDLength]
	}
	return id
}

// parseID reads a positive int64 path parameter. It answers 400 and
// returns false when the parameter is malformed.
func (h *BaseHandler) parseID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		h.BadRequest(c, "Invalid "+name+": must be a positive integer")
		return 0, false
	}
	return id, true
}

// bindJSON decodes the body into req. Failures are answered directly and
// false is returned.
func (h *BaseHandler) bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		h.handleBindError(c, err)
		return false
	}
	return true
}

// bindQuery decodes query parameters into req
func (h *BaseHandler) bindQuery(c *gin.Context, req any) bool {
	if err := c.ShouldBindQuery(req); err != nil {
		h.handleBindError(c, err)
		return false
	}
	return true
}

func (h *BaseHandler) handleBindError(c *gin.Context, err error) {
	var validationErrs validator.ValidationErrors
	var maxBytesErr *http.MaxBytesError
	switch {
	case errors.As(err, &validationErrs):
		h.ValidationError(c, middleware.ValidationDetails(err))
	case errors.As(err, &maxBytesErr):
		h.Error(c, http.StatusRequestEntityTooLarge, dto.ErrCodePayloadTooLarge,
			fmt.Sprintf("Request body exceeds %d bytes", maxBytesErr.Limit))
	case c.Request.Method == http.MethodGet:
		h.BadRequest(c, "Invalid query parameters: "+err.Error())
	default:
		h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidJSON, "Malformed JSON body: "+err.Error())
	}
}

// Success sends a success response
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// Created sends a 201 created response with a Location header
func (h *BaseHandler) Created(c *gin.Context, location string, data any) {
	if location != "" {
		c.Header("Location", location)
	}
	c.JSON(http.StatusCreated, data)
}

// NoContent sends a 204 no content response
func (h *BaseHandler) NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// Error sends an error response with the appropriate status code
func (h *BaseHandler) Error(c *gin.Context, statusCode int, code, message string) {
	c.JSON(statusCode, dto.NewErrorResponseWithRequestID(code, message, getRequestID(c)))
}

// BadRequest sends a 400 bad request response
func (h *BaseHandler) BadRequest(c *gin.Context, message string) {
	h.Error(c, http.StatusBadRequest, dto.ErrCodeBadRequest, message)
}

// NotFound sends a 404 not found response
func (h *BaseHandler) NotFound(c *gin.Context, message string) {
	h.Error(c, http.StatusNotFound, dto.ErrCodeNotFound, message)
}

// InternalError sends a 500 internal server error response
func (h *BaseHandler) InternalError(c *gin.Context, message string) {
	h.Error(c, http.StatusInternalServerError, dto.ErrCodeInternal, message)
}

// ValidationError sends a 400 validation error response with details
func (h *BaseHandler) ValidationError(c *gin.Context, details []dto.ValidationDetail) {
	c.JSON(http.StatusBadRequest, dto.NewValidationErrorResponse(
		"Request validation failed",
		getRequestID(c),
		details,
	))
}

// HandleError maps service errors to HTTP responses. Domain errors keep
// their message; anything else is logged and answered with a generic 500.
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)

	// Timeouts also match ErrRemoteUnavailable
	if errors.Is(err, billing.ErrRemoteTimeout) {
		h.writeDomainError(c, billing.ErrRemoteTimeout)
		return
	}

	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		h.writeDomainError(c, domainErr)
		return
	}

	logger.GetGinLogger(c).Error("Unhandled request error",
		zap.String("request_id", getRequestID(c)),
		zap.Error(err),
	)
	h.InternalError(c, "An unexpected error occurred")
}

func (h *BaseHandler) writeDomainError(c *gin.Context, domainErr *shared.DomainError) {
	code := dto.NormalizeErrorCode(domainErr.Code)
	h.Error(c, dto.GetHTTPStatus(code), code, domainErr.Message)
}
