// Package rest implements the backend over the portal's JSON HTTP API.
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/LuisRojas0923/Gestor-de-proyectos-Ti-sub000/pkg/backend"
	"github.com/LuisRojas0923/Gestor-de-proyectos-Ti-sub000/pkg/models"
	"github.com/LuisRojas0923/Gestor-de-proyectos-Ti-sub000/pkg/otelhelper"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// DefaultTimeout bounds every backend call.
const DefaultTimeout = 20 * time.Second

// maxErrorBody caps how much of a failed response is kept for the error message.
const maxErrorBody = 4 << 10

// Option configures a Client.
type Option func(*Client)

// WithToken sends the token as a bearer Authorization header.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// WithTimeout overrides DefaultTimeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) { c.timeout = timeout }
}

// WithHTTPClient replaces the underlying HTTP client. Its transport is used as is.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) { c.httpClient = httpClient }
}

// WithTracer sets the tracer used for backend spans.
func WithTracer(tracer trace.Tracer) Option {
	return func(c *Client) { c.tracer = tracer }
}

// Client implements backend.Backend against the portal API.
type Client struct {
	baseURL    string
	token      string
	timeout    time.Duration
	httpClient *http.Client
	tracer     trace.Tracer
	logger     *slog.Logger
}

// NewClient creates a client for the API rooted at baseURL.
func NewClient(baseURL string, logger *slog.Logger, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: DefaultTimeout,
		logger:  logger.With("module", "rest_backend"),
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.httpClient == nil {
		c.httpClient = &http.Client{
			Timeout:   c.timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}

	if c.tracer == nil {
		c.tracer = otelhelper.NoopTracer()
	}

	return c
}

// FetchStages calls GET /developments/{id}/stages.
func (c *Client) FetchStages(ctx context.Context, developmentID string) ([]models.Stage, error) {
	var stages []models.Stage

	err := c.do(ctx, "FetchStages", developmentID, http.MethodGet, c.developmentPath(developmentID, "stages"), nil, &stages,
		attribute.String(otelhelper.DevelopmentIDKey, developmentID))
	if err != nil {
		return nil, err
	}

	return stages, nil
}

// FetchStageFieldConfig calls GET /developments/{id}/stages/{stageId}/fields.
func (c *Client) FetchStageFieldConfig(ctx context.Context, developmentID string, stageID int) (*models.StageFieldConfig, error) {
	var cfg models.StageFieldConfig

	endpoint := c.developmentPath(developmentID, "stages", strconv.Itoa(stageID), "fields")

	err := c.do(ctx, "FetchStageFieldConfig", developmentID, http.MethodGet, endpoint, nil, &cfg,
		attribute.String(otelhelper.DevelopmentIDKey, developmentID),
		attribute.Int(otelhelper.StageIDKey, stageID))
	if err != nil {
		if backend.IsDevelopmentNotFound(err) {
			// the stage route 404s the same way a missing development does
			return nil, backend.NewRequestError("FetchStageFieldConfig", developmentID, http.StatusNotFound, backend.ErrStageNotFound)
		}

		return nil, err
	}

	return &cfg, nil
}

// SubmitActivity calls POST /developments/{id}/activities.
func (c *Client) SubmitActivity(ctx context.Context, developmentID string, payload models.ActivityPayload) (*models.Activity, error) {
	var activity models.Activity

	err := c.do(ctx, "SubmitActivity", developmentID, http.MethodPost, c.developmentPath(developmentID, "activities"), payload, &activity,
		attribute.String(otelhelper.DevelopmentIDKey, developmentID),
		attribute.Int(otelhelper.StageIDKey, payload.StageID))
	if err != nil {
		return nil, err
	}

	if activity.DevelopmentID == "" {
		activity.DevelopmentID = developmentID
	}

	return &activity, nil
}

// HealthCheck verifies the API answers on its root.
func (c *Client) HealthCheck(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/", nil)
	if err != nil {
		return fmt.Errorf("failed to build health request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("backend unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusInternalServerError {
		return fmt.Errorf("%w: %d", backend.ErrUnexpectedStatus, resp.StatusCode)
	}

	return nil
}

// Close releases idle connections.
func (c *Client) Close(_ context.Context) error {
	c.httpClient.CloseIdleConnections()

	return nil
}

func (c *Client) developmentPath(developmentID string, segments ...string) string {
	escaped := make([]string, 0, len(segments)+2)
	escaped = append(escaped, "developments", url.PathEscape(developmentID))

	for _, segment := range segments {
		escaped = append(escaped, url.PathEscape(segment))
	}

	return c.baseURL + "/" + strings.Join(escaped, "/")
}

func (c *Client) do(ctx context.Context, op, developmentID, method, endpoint string, body, out any, attrs ...attribute.KeyValue) error {
	ctx, span := otelhelper.StartSpan(ctx, c.tracer, "backend."+op, append(attrs,
		attribute.String(otelhelper.HTTPMethodKey, method),
		attribute.String(otelhelper.HTTPURLKey, endpoint),
	)...)
	defer span.End()

	var reader io.Reader

	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			otelhelper.SetError(span, err)

			return backend.NewRequestError(op, developmentID, 0, fmt.Errorf("failed to marshal request: %w", err))
		}

		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		otelhelper.SetError(span, err)

		return backend.NewRequestError(op, developmentID, 0, err)
	}

	req.Header.Set("Accept", "application/json")

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	started := time.Now()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		otelhelper.SetError(span, err)
		c.logger.ErrorContext(ctx, "Backend request failed", "op", op, "url", endpoint, "error", err)

		return backend.NewRequestError(op, developmentID, 0, err)
	}
	defer resp.Body.Close()

	span.SetAttributes(attribute.Int(otelhelper.HTTPStatusKey, resp.StatusCode))
	c.logger.DebugContext(ctx, "Backend request", "op", op, "status", resp.StatusCode, "duration", time.Since(started))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		statusErr := statusError(resp.StatusCode, detail)
		otelhelper.SetError(span, statusErr)

		return backend.NewRequestError(op, developmentID, resp.StatusCode, statusErr)
	}

	if out == nil {
		return nil
	}

	err = json.NewDecoder(resp.Body).Decode(out)
	if err != nil {
		otelhelper.SetError(span, err)

		return backend.NewRequestError(op, developmentID, resp.StatusCode, fmt.Errorf("failed to decode response: %w", err))
	}

	return nil
}

func statusError(status int, detail []byte) error {
	if status == http.StatusNotFound {
		return backend.ErrDevelopmentNotFound
	}

	message := strings.TrimSpace(string(detail))
	if message == "" {
		return fmt.Errorf("%w: %d", backend.ErrUnexpectedStatus, status)
	}

	return fmt.Errorf("%w: %d: %s", backend.ErrUnexpectedStatus, status, message)
}

var _ backend.Backend = (*Client)(nil)
