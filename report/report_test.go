package report

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/AbhayKTS/sales-prediction/metrics"
)

func testVectors(t *testing.T) (*mat.VecDense, *mat.VecDense) {
	t.Helper()
	yTrue := mat.NewVecDense(8, []float64{10, 12, 9, 15, 22, 18, 11, 14})
	yPred := mat.NewVecDense(8, []float64{10.5, 11.2, 9.8, 14.1, 21.0, 18.9, 10.4, 14.6})
	return yTrue, yPred
}

func TestPredictedVsActual(t *testing.T) {
	yTrue, yPred := testVectors(t)
	path := filepath.Join(t.TempDir(), "pred_vs_actual.png")

	require.NoError(t, PredictedVsActual(yTrue, yPred, path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestResidualHistogram(t *testing.T) {
	yTrue, yPred := testVectors(t)
	path := filepath.Join(t.TempDir(), "residuals.png")

	require.NoError(t, ResidualHistogram(yTrue, yPred, path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestPlots_LengthMismatch(t *testing.T) {
	yTrue := mat.NewVecDense(3, []float64{1, 2, 3})
	yPred := mat.NewVecDense(2, []float64{1, 2})
	dir := t.TempDir()

	assert.Error(t, PredictedVsActual(yTrue, yPred, filepath.Join(dir, "a.png")))
	assert.Error(t, ResidualHistogram(yTrue, yPred, filepath.Join(dir, "b.png")))
}

func TestWriteMarkdown(t *testing.T) {
	rel := 11.4
	rep := &metrics.Report{R2: 0.897, RMSE: 1.6, MAE: 1.2, MeanSales: 14.02, RelRMSEPct: &rel}

	var buf bytes.Buffer
	require.NoError(t, WriteMarkdown(&buf, "linear", rep))

	out := buf.String()
	assert.Contains(t, out, "| linear | 0.8970 | 1.6000 | 1.2000 | 11.40% |")
	assert.Contains(t, out, "Mean sales: 14.0200")
}

func TestWriteMarkdown_NoRelRMSE(t *testing.T) {
	rep := &metrics.Report{R2: 0.9, RMSE: 1.0, MAE: 0.8}

	var buf bytes.Buffer
	require.NoError(t, WriteMarkdown(&buf, "linear", rep))
	assert.Contains(t, buf.String(), "n/a")
}

func TestWriteMarkdownFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model-report.md")
	rep := &metrics.Report{R2: 0.9, RMSE: 1.0, MAE: 0.8, MeanSales: 14}

	require.NoError(t, WriteMarkdownFile(path, "linear", rep))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "# Model Report")

	assert.Error(t, WriteMarkdownFile(path, "linear", nil))
}
