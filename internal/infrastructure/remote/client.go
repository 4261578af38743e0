package remote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"github.com/sid/billing-service/internal/domain/billing"
	"github.com/sid/billing-service/internal/infrastructure/telemetry"
)

// maxResponseSize is the maximum accepted response body (4MB)
const maxResponseSize = 4 * 1024 * 1024

// defaultTimeout applies when no per-call timeout is configured
const defaultTimeout = 5 * time.Second

// Config configures a remote client
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// Option configures optional client collaborators
type Option func(*client)

// WithLogger sets the logger used for remote failures
func WithLogger(logger *zap.Logger) Option {
	return func(c *client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithMetrics records every call on m
func WithMetrics(m *telemetry.BillingMetrics) Option {
	return func(c *client) {
		c.metrics = m
	}
}

// WithHTTPClient replaces the underlying HTTP client.
// The client's own Timeout is left untouched.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// client is the JSON-over-HTTP plumbing shared by the customer and inventory clients
type client struct {
	service    string
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
	metrics    *telemetry.BillingMetrics
}

func newClient(service string, cfg Config, opts ...Option) (*client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("%s: base URL is required", service)
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	c := &client{
		service: service,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.Named(service)
	return c, nil
}

// getJSON issues GET {baseURL}{path} and decodes the body into out.
// Failures are mapped onto the billing remote errors.
func (c *client) getJSON(ctx context.Context, path string, out any) error {
	start := time.Now()
	err := c.doGet(ctx, path, out)
	c.metrics.RecordRemoteCall(ctx, c.service, outcomeOf(err), time.Since(start))
	if err != nil && !errors.Is(err, billing.ErrRemoteNotFound) {
		c.logger.Warn("Remote call failed",
			zap.String("path", path),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err),
		)
	}
	return err
}

func (c *client) doGet(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("%s: failed to create request: %w", c.service, err)
	}
	req.Header.Set("Accept", "application/hal+json, application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return c.transportError(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return c.transportError(err)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%w: %s %s", billing.ErrRemoteNotFound, c.service, path)
	case resp.StatusCode >= 400:
		return fmt.Errorf("%w: %s: HTTP %d", billing.ErrRemoteUnavailable, c.service, resp.StatusCode)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: %s: failed to parse response: %v", billing.ErrRemoteUnavailable, c.service, err)
	}
	return nil
}

// transportError classifies a failed round trip. Deadline failures are
// reported as both ErrRemoteTimeout and ErrRemoteUnavailable.
func (c *client) transportError(err error) error {
	if isTimeout(err) {
		return fmt.Errorf("%w: %w: %s: %v", billing.ErrRemoteTimeout, billing.ErrRemoteUnavailable, c.service, err)
	}
	return fmt.Errorf("%w: %s: %v", billing.ErrRemoteUnavailable, c.service, err)
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return telemetry.OutcomeSuccess
	case errors.Is(err, billing.ErrRemoteNotFound):
		return telemetry.OutcomeNotFound
	case errors.Is(err, billing.ErrRemoteTimeout):
		return telemetry.OutcomeTimeout
	default:
		return telemetry.OutcomeUnavailable
	}
}
