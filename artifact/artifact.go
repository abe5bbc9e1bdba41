// Package artifact reads and writes the serialized model document exchanged
// with the external training pipeline (model-coefs.json).
//
// Two historical metric shapes exist in the wild: flat fields at the payload
// root, and fields nested under a model-name key with a sibling aggregate
// mean-sales value. NormalizeMetrics reconciles both into the canonical
// metrics.Report so the ambiguity never leaks past this package.
package artifact

import (
	"encoding/json"
	"io"
	"os"

	"github.com/AbhayKTS/sales-prediction/metrics"
	"github.com/AbhayKTS/sales-prediction/pkg/errors"
)

// Artifact is the serialized model document.
type Artifact struct {
	Version       string            `json:"version,omitempty"`
	GeneratedAt   string            `json:"generated_at,omitempty"`
	Intercept     float64           `json:"intercept"`
	Betas         []float64         `json:"betas"`
	ChannelShares []float64         `json:"channelShares"`
	Metrics       json.RawMessage   `json:"metrics,omitempty"`
	BestModel     string            `json:"best_model,omitempty"`
	PricePerUnit  float64           `json:"price_per_unit,omitempty"`
	Plots         map[string]string `json:"plots,omitempty"`
	Removed       bool              `json:"removed,omitempty"`
}

// Load decodes an artifact from r and validates its payload.
//
// Errors:
//   - ArtifactUnusableError: if the document is malformed, marked removed, or
//     does not carry exactly three betas and three channel shares
func Load(r io.Reader) (*Artifact, error) {
	var a Artifact
	if err := json.NewDecoder(r).Decode(&a); err != nil {
		return nil, errors.NewArtifactUnusableError("malformed JSON: " + err.Error())
	}
	if a.Removed {
		return nil, errors.NewArtifactUnusableError("marked removed")
	}
	if len(a.Betas) != 3 {
		return nil, errors.NewArtifactUnusableError("betas must have exactly 3 elements")
	}
	if len(a.ChannelShares) != 3 {
		return nil, errors.NewArtifactUnusableError("channelShares must have exactly 3 elements")
	}
	return &a, nil
}

// LoadFile reads and decodes the artifact at path.
func LoadFile(path string) (*Artifact, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrUpstreamUnavailable, "artifact.LoadFile: %v", err)
	}
	defer func() { _ = f.Close() }()

	return Load(f)
}

// Write encodes the artifact to w as indented JSON.
func Write(w io.Writer, a *Artifact) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(a); err != nil {
		return errors.Wrap(err, "artifact.Write")
	}
	return nil
}

// rawMetrics captures the fields of either historical metrics shape. Pointer
// fields distinguish absent from zero.
type rawMetrics struct {
	R2         *float64 `json:"r2"`
	RMSE       *float64 `json:"rmse"`
	MAE        *float64 `json:"mae"`
	MeanSales  *float64 `json:"mean_sales"`
	RelRMSEPct *float64 `json:"rel_rmse_pct"`
	Precision  *float64 `json:"precision"`
	Recall     *float64 `json:"recall"`
	F1         *float64 `json:"f1"`
}

type metricsEnvelope struct {
	rawMetrics
	Linear *rawMetrics `json:"linear"`
}

// NormalizeMetrics reconciles the artifact's metrics payload into the
// canonical Report. When both the nested and the flat shape carry a field, the
// nested value wins. Returns nil when there is no payload or no primary score
// (r2), which signals the caller to recompute metrics from the dataset.
func (a *Artifact) NormalizeMetrics() *metrics.Report {
	if len(a.Metrics) == 0 {
		return nil
	}

	var env metricsEnvelope
	if err := json.Unmarshal(a.Metrics, &env); err != nil {
		return nil
	}

	merged := env.rawMetrics
	if env.Linear != nil {
		overlay(&merged, env.Linear)
	}
	if merged.R2 == nil {
		return nil
	}

	rep := &metrics.Report{
		R2:         *merged.R2,
		RelRMSEPct: merged.RelRMSEPct,
		Precision:  merged.Precision,
		Recall:     merged.Recall,
		F1:         merged.F1,
	}
	if merged.RMSE != nil {
		rep.RMSE = *merged.RMSE
	}
	if merged.MAE != nil {
		rep.MAE = *merged.MAE
	}
	if merged.MeanSales != nil {
		rep.MeanSales = *merged.MeanSales
	}
	if rep.RelRMSEPct == nil && merged.RMSE != nil && merged.MeanSales != nil && *merged.MeanSales != 0 {
		rel := *merged.RMSE / *merged.MeanSales * 100
		rep.RelRMSEPct = &rel
	}
	return rep
}

// overlay copies every non-nil field of src over dst.
func overlay(dst, src *rawMetrics) {
	if src.R2 != nil {
		dst.R2 = src.R2
	}
	if src.RMSE != nil {
		dst.RMSE = src.RMSE
	}
	if src.MAE != nil {
		dst.MAE = src.MAE
	}
	if src.MeanSales != nil {
		dst.MeanSales = src.MeanSales
	}
	if src.RelRMSEPct != nil {
		dst.RelRMSEPct = src.RelRMSEPct
	}
	if src.Precision != nil {
		dst.Precision = src.Precision
	}
	if src.Recall != nil {
		dst.Recall = src.Recall
	}
	if src.F1 != nil {
		dst.F1 = src.F1
	}
}
