// Package client is the batch trigger client: an HTTP front end that calls
// the batch API with trace context attached.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/trace"

	"github.com/light-bringer/procat-batch/internal/pkg/clock"
	"github.com/light-bringer/procat-batch/internal/pkg/telemetry"
)

const (
	startPath = "/api/batch/start"

	headerTraceParent = "traceparent"
	headerTraceID     = "X-Trace-Id"
	headerSpanID      = "X-Span-Id"

	noTrace = "none"
)

// APIClient calls the batch API.
type APIClient struct {
	baseURL string
	http    *http.Client
	clock   clock.Clock
	logger  *slog.Logger
}

// NewAPIClient creates a client for the batch API at baseURL. tp may be nil,
// in which case the global tracer provider is used.
func NewAPIClient(baseURL string, timeout time.Duration, tp trace.TracerProvider, clk clock.Clock, logger *slog.Logger) *APIClient {
	opts := []otelhttp.Option{otelhttp.WithPropagators(telemetry.Propagator())}
	if tp != nil {
		opts = append(opts, otelhttp.WithTracerProvider(tp))
	}

	return &APIClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport, opts...),
		},
		clock:  clk,
		logger: logger,
	}
}

// StartBatch triggers one batch run and returns the decoded response body.
// Transport failures and non-2xx answers yield an error body, not an error;
// the returned error is reserved for requests that cannot be built.
func (c *APIClient) StartBatch(ctx context.Context) (map[string]any, error) {
	fullURL := c.baseURL + startPath

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	traceID, spanID := telemetry.TraceIDs(ctx)
	if traceID != "" {
		req.Header.Set(headerTraceParent, fmt.Sprintf("00-%s-%s-01", traceID, spanID))
	} else {
		traceID, spanID = noTrace, noTrace
	}
	req.Header.Set(headerTraceID, traceID)
	req.Header.Set(headerSpanID, spanID)
	req.Header.Set("Content-Type", "application/json")

	c.logger.InfoContext(ctx, "calling batch api", "url", fullURL, "trace_id", traceID, "span_id", spanID)

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.ErrorContext(ctx, "batch api call failed", "url", fullURL, "error", err)
		return c.failure(fullURL), nil
	}
	defer resp.Body.Close()

	var body map[string]any
	decodeErr := json.NewDecoder(resp.Body).Decode(&body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.ErrorContext(ctx, "batch api returned error status",
			"url", fullURL, "status", resp.StatusCode, "body", body)
		return c.failure(fullURL), nil
	}
	if decodeErr != nil {
		c.logger.ErrorContext(ctx, "decode batch api response", "url", fullURL, "error", decodeErr)
		return c.failure(fullURL), nil
	}

	c.logger.InfoContext(ctx, "batch api call succeeded", "url", fullURL)
	return body, nil
}

func (c *APIClient) failure(uri string) map[string]any {
	return map[string]any{
		"status":    "error",
		"message":   "Failed to start batch job: API call failed",
		"timestamp": c.clock.Now().UnixMilli(),
		"uri":       uri,
	}
}
