// Package httpapi exposes the prediction service over HTTP. Spend inputs are
// in currency units (dollars); predictions come back in thousands of units
// alongside the revenue breakdown and model metrics.
package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/AbhayKTS/sales-prediction/linear"
	"github.com/AbhayKTS/sales-prediction/predictor"
	spErrors "github.com/AbhayKTS/sales-prediction/pkg/errors"
	"github.com/AbhayKTS/sales-prediction/pkg/log"
)

// API serves predictions from a Provider.
type API struct {
	provider *predictor.Provider
	logger   log.Logger
}

// NewAPI wraps the provider for HTTP serving.
func NewAPI(provider *predictor.Provider) *API {
	return &API{
		provider: provider,
		logger: log.GetLoggerWithName("httpapi").With(
			log.ComponentKey, "httpapi",
		),
	}
}

// NewRouter builds the route table.
func NewRouter(provider *predictor.Provider) *mux.Router {
	api := NewAPI(provider)

	r := mux.NewRouter()
	r.Use(corsMiddleware)
	r.HandleFunc("/health", api.Health).Methods(http.MethodGet)
	r.HandleFunc("/predict/channels", api.PredictChannels).Methods(http.MethodPost, http.MethodOptions)
	r.HandleFunc("/predict/total", api.PredictTotal).Methods(http.MethodPost, http.MethodOptions)
	r.HandleFunc("/predict/roi/channels", api.PredictROIChannels).Methods(http.MethodPost, http.MethodOptions)
	r.HandleFunc("/predict/roi/total", api.PredictROITotal).Methods(http.MethodPost, http.MethodOptions)
	r.HandleFunc("/model/coefficients", api.Coefficients).Methods(http.MethodGet)
	r.HandleFunc("/model/metrics", api.Metrics).Methods(http.MethodGet)
	return r
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

type channelsInput struct {
	TV           float64  `json:"tv"`
	Radio        float64  `json:"radio"`
	Newspaper    float64  `json:"newspaper"`
	PricePerUnit *float64 `json:"price_per_unit"`
}

type totalInput struct {
	Total        float64   `json:"total"`
	Shares       []float64 `json:"shares"`
	PricePerUnit *float64  `json:"price_per_unit"`
}

type roiPayload struct {
	Units   float64  `json:"units"`
	Revenue float64  `json:"revenue"`
	Expense float64  `json:"expense"`
	ROI     *float64 `json:"roi"`
}

type channelsPayload struct {
	TV        float64 `json:"tv"`
	Radio     float64 `json:"radio"`
	Newspaper float64 `json:"newspaper"`
}

type errorPayload struct {
	Error string `json:"error"`
}

// Health reports server and model status.
func (a *API) Health(w http.ResponseWriter, r *http.Request) {
	_, err := a.provider.Get()
	writeJSON(w, http.StatusOK, map[string]any{
		"status":       "ok",
		"model_loaded": err == nil,
	})
}

// PredictChannels predicts sales from per-channel spend in currency.
func (a *API) PredictChannels(w http.ResponseWriter, r *http.Request) {
	var in channelsInput
	if !decodeJSON(w, r, &in) {
		return
	}

	predK, err := a.provider.PredictChannels(in.TV, in.Radio, in.Newspaper, predictor.UnitCurrency)
	if err != nil {
		a.writeError(w, err)
		return
	}

	expense := in.TV + in.Radio + in.Newspaper
	roi := predictor.ROI(predK, priceOrDefault(in.PricePerUnit), expense)
	writeJSON(w, http.StatusOK, map[string]any{
		"predicted_k":     predK,
		"predicted_units": roi.Units,
		"roi":             toROIPayload(roi),
		"metrics":         a.metricsPayload(),
	})
}

// PredictTotal predicts sales from an aggregate spend figure in currency,
// apportioned by explicit shares when given and the model's historical shares
// otherwise.
func (a *API) PredictTotal(w http.ResponseWriter, r *http.Request) {
	var in totalInput
	if !decodeJSON(w, r, &in) {
		return
	}

	split, err := a.splitTotal(in.Total, in.Shares)
	if err != nil {
		a.writeError(w, err)
		return
	}

	predK, err := a.provider.PredictChannels(split.TV, split.Radio, split.Newspaper, predictor.UnitCurrency)
	if err != nil {
		a.writeError(w, err)
		return
	}

	roi := predictor.ROI(predK, priceOrDefault(in.PricePerUnit), in.Total)
	writeJSON(w, http.StatusOK, map[string]any{
		"predicted_k":     predK,
		"predicted_units": roi.Units,
		"roi":             toROIPayload(roi),
		"channels":        split,
		"metrics":         a.metricsPayload(),
	})
}

// PredictROIChannels returns the return-on-spend for per-channel spend.
// ROI is a fraction, e.g. 2.61 = 261%.
func (a *API) PredictROIChannels(w http.ResponseWriter, r *http.Request) {
	var in channelsInput
	if !decodeJSON(w, r, &in) {
		return
	}

	predK, err := a.provider.PredictChannels(in.TV, in.Radio, in.Newspaper, predictor.UnitCurrency)
	if err != nil {
		a.writeError(w, err)
		return
	}

	a.writeROI(w, predK, priceOrDefault(in.PricePerUnit), in.TV+in.Radio+in.Newspaper, nil)
}

// PredictROITotal returns the return-on-spend for aggregate spend.
func (a *API) PredictROITotal(w http.ResponseWriter, r *http.Request) {
	var in totalInput
	if !decodeJSON(w, r, &in) {
		return
	}

	split, err := a.splitTotal(in.Total, in.Shares)
	if err != nil {
		a.writeError(w, err)
		return
	}

	predK, err := a.provider.PredictChannels(split.TV, split.Radio, split.Newspaper, predictor.UnitCurrency)
	if err != nil {
		a.writeError(w, err)
		return
	}

	a.writeROI(w, predK, priceOrDefault(in.PricePerUnit), in.Total, &split)
}

// Coefficients returns the active model's intercept, betas, and shares.
func (a *API) Coefficients(w http.ResponseWriter, r *http.Request) {
	intercept, betas, err := a.provider.Coefficients()
	if err != nil {
		a.writeError(w, err)
		return
	}
	shares, err := a.provider.Shares()
	if err != nil {
		a.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"intercept":     intercept,
		"betas":         betas[:],
		"channelShares": shares[:],
	})
}

// Metrics returns the active model's evaluation report.
func (a *API) Metrics(w http.ResponseWriter, r *http.Request) {
	rep, err := a.provider.Metrics()
	if err != nil {
		a.writeError(w, err)
		return
	}
	if rep == nil {
		writeJSON(w, http.StatusOK, map[string]any{})
		return
	}
	writeJSON(w, http.StatusOK, rep)
}

// splitTotal apportions an aggregate figure across channels. Explicit shares
// are normalized so proportions and percentages both work; without them the
// model's historical shares apply.
func (a *API) splitTotal(total float64, shares []float64) (channelsPayload, error) {
	var s [linear.NumChannels]float64
	switch {
	case len(shares) == linear.NumChannels:
		sum := shares[0] + shares[1] + shares[2]
		if sum <= 0 {
			return channelsPayload{}, spErrors.NewValueError("httpapi.splitTotal", "shares must sum to a positive value")
		}
		for i := range s {
			s[i] = shares[i] / sum
		}
	default:
		modelShares, err := a.provider.Shares()
		if err != nil {
			return channelsPayload{}, err
		}
		s = modelShares
	}
	return channelsPayload{
		TV:        total * s[0],
		Radio:     total * s[1],
		Newspaper: total * s[2],
	}, nil
}

func (a *API) writeROI(w http.ResponseWriter, predK, price, expense float64, split *channelsPayload) {
	b := predictor.ROI(predK, price, expense)
	if b.ROI == nil {
		a.writeError(w, spErrors.NewValueError("httpapi.writeROI", "roi undefined for zero expense"))
		return
	}
	body := map[string]any{
		"predicted_roi":     *b.ROI,
		"predicted_roi_pct": *b.ROI * 100.0,
		"metrics":           a.metricsPayload(),
	}
	if split != nil {
		body["channels"] = *split
	}
	writeJSON(w, http.StatusOK, body)
}

func (a *API) metricsPayload() any {
	rep, err := a.provider.Metrics()
	if err != nil || rep == nil {
		return nil
	}
	return rep
}

func toROIPayload(b predictor.Breakdown) roiPayload {
	return roiPayload{Units: b.Units, Revenue: b.Revenue, Expense: b.Expense, ROI: b.ROI}
}

func priceOrDefault(p *float64) float64 {
	if p == nil || *p <= 0 {
		return predictor.DefaultPricePerUnit
	}
	return *p
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeJSON(w, http.StatusBadRequest, errorPayload{Error: "invalid JSON payload: " + err.Error()})
		return false
	}
	return true
}

// writeError maps domain errors onto HTTP status codes.
func (a *API) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	var notInit *spErrors.NotInitializedError
	var valErr *spErrors.ValueError
	switch {
	case spErrors.As(err, &notInit):
		status = http.StatusServiceUnavailable
	case spErrors.As(err, &valErr):
		status = http.StatusBadRequest
	case spErrors.Is(err, spErrors.ErrUpstreamUnavailable):
		status = http.StatusBadGateway
	}

	a.logger.Warn("Request failed",
		"status", status,
		"reason", err.Error(),
	)
	writeJSON(w, status, errorPayload{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
