// Package remote is a thin client for a prediction server exposing the same
// model over HTTP. It lets a deployment delegate predictions to an external
// scoring service instead of the in-process model.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	spErrors "github.com/AbhayKTS/sales-prediction/pkg/errors"
	"github.com/AbhayKTS/sales-prediction/pkg/log"
)

const defaultTimeout = 10 * time.Second

// HTTPClient abstracts *http.Client for testing.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client calls a remote prediction server.
type Client struct {
	baseURL    string
	httpClient HTTPClient
	logger     log.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc HTTPClient) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithLogger overrides the default logger.
func WithLogger(logger log.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// NewClient creates a client for the prediction server at baseURL, e.g.
// "http://localhost:8000".
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: defaultTimeout},
		logger: log.GetLoggerWithName("remote").With(
			log.ComponentKey, "remote",
		),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ChannelsRequest carries per-channel spend in currency units.
type ChannelsRequest struct {
	TV           float64  `json:"tv"`
	Radio        float64  `json:"radio"`
	Newspaper    float64  `json:"newspaper"`
	PricePerUnit *float64 `json:"price_per_unit,omitempty"`
}

// TotalRequest carries an aggregate spend figure in currency units, optionally
// with explicit channel shares.
type TotalRequest struct {
	Total        float64   `json:"total"`
	Shares       []float64 `json:"shares,omitempty"`
	PricePerUnit *float64  `json:"price_per_unit,omitempty"`
}

// PointPrediction is the server's answer for one prediction call. PredictedK
// is in thousands of units; the remaining fields pass through when the server
// sends them.
type PointPrediction struct {
	PredictedK      float64
	PredictedROI    *float64
	PredictedROIPct *float64
	Metrics         json.RawMessage
	ROI             json.RawMessage
}

// rawPrediction mirrors the server's JSON. Pointer fields distinguish a
// missing field from a zero value.
type rawPrediction struct {
	PredictedK      *float64        `json:"predicted_k"`
	PredictedROI    *float64        `json:"predicted_roi"`
	PredictedROIPct *float64        `json:"predicted_roi_pct"`
	Metrics         json.RawMessage `json:"metrics"`
	ROI             json.RawMessage `json:"roi"`
}

// PredictChannels asks the server for a prediction from per-channel spend.
func (c *Client) PredictChannels(ctx context.Context, req ChannelsRequest) (*PointPrediction, error) {
	return c.predict(ctx, "/predict/channels", req, "predicted_k")
}

// PredictTotal asks the server for a prediction from aggregate spend.
func (c *Client) PredictTotal(ctx context.Context, req TotalRequest) (*PointPrediction, error) {
	return c.predict(ctx, "/predict/total", req, "predicted_k")
}

// PredictROIChannels asks the server for an ROI-centric prediction from
// per-channel spend.
func (c *Client) PredictROIChannels(ctx context.Context, req ChannelsRequest) (*PointPrediction, error) {
	return c.predict(ctx, "/predict/roi/channels", req, "predicted_roi")
}

// PredictROITotal asks the server for an ROI-centric prediction from aggregate
// spend.
func (c *Client) PredictROITotal(ctx context.Context, req TotalRequest) (*PointPrediction, error) {
	return c.predict(ctx, "/predict/roi/total", req, "predicted_roi")
}

// Health probes the server's health endpoint.
func (c *Client) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return spErrors.Wrap(err, "remote.Health")
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return spErrors.Wrapf(spErrors.ErrUpstreamUnavailable, "health check: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode/100 != 2 {
		return spErrors.Wrapf(spErrors.ErrUpstreamUnavailable, "health check: status %d", resp.StatusCode)
	}
	return nil
}

// predict posts a JSON payload and validates that the answer carries the
// required numeric field.
func (c *Client) predict(ctx context.Context, endpoint string, payload any, required string) (*PointPrediction, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, spErrors.Wrap(err, "remote: encode request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, spErrors.Wrap(err, "remote: build request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("Prediction server unreachable",
			log.EndpointKey, endpoint,
			"reason", err.Error(),
		)
		return nil, spErrors.Wrapf(spErrors.ErrUpstreamUnavailable, "%s: %v", endpoint, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode/100 != 2 {
		c.logger.Warn("Prediction server returned error status",
			log.EndpointKey, endpoint,
			"status", resp.StatusCode,
		)
		return nil, spErrors.Wrapf(spErrors.ErrUpstreamUnavailable, "%s: status %d", endpoint, resp.StatusCode)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, spErrors.Wrapf(spErrors.ErrUpstreamUnavailable, "%s: read response: %v", endpoint, err)
	}

	var rp rawPrediction
	if err := json.Unmarshal(raw, &rp); err != nil {
		return nil, spErrors.NewServerResponseError(endpoint, required)
	}

	switch required {
	case "predicted_k":
		if rp.PredictedK == nil {
			return nil, spErrors.NewServerResponseError(endpoint, "predicted_k")
		}
	case "predicted_roi":
		if rp.PredictedROI == nil {
			return nil, spErrors.NewServerResponseError(endpoint, "predicted_roi")
		}
	}

	pred := &PointPrediction{
		PredictedROI:    rp.PredictedROI,
		PredictedROIPct: rp.PredictedROIPct,
		Metrics:         rp.Metrics,
		ROI:             rp.ROI,
	}
	if rp.PredictedK != nil {
		pred.PredictedK = *rp.PredictedK
	}
	return pred, nil
}
