// Package report renders fit diagnostics: predicted-vs-actual and residual
// plots as PNGs, and a markdown summary table of the evaluation metrics.
package report

import (
	"fmt"
	"io"
	"math"
	"os"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/AbhayKTS/sales-prediction/metrics"
	spErrors "github.com/AbhayKTS/sales-prediction/pkg/errors"
)

const residualBins = 20

// PredictedVsActual writes a scatter of predicted against actual sales with
// the ideal y=x line, as a PNG at path.
func PredictedVsActual(yTrue, yPred *mat.VecDense, path string) error {
	n := yTrue.Len()
	if n == 0 || yPred.Len() != n {
		return spErrors.NewDimensionError("report.PredictedVsActual", n, yPred.Len(), 0)
	}

	pts := make(plotter.XYs, n)
	lo, hi := math.Inf(1), math.Inf(-1)
	for i := 0; i < n; i++ {
		pts[i].X = yTrue.AtVec(i)
		pts[i].Y = yPred.AtVec(i)
		lo = math.Min(lo, math.Min(pts[i].X, pts[i].Y))
		hi = math.Max(hi, math.Max(pts[i].X, pts[i].Y))
	}

	p := plot.New()
	p.Title.Text = "Predicted vs Actual Sales"
	p.X.Label.Text = "Actual (thousands of units)"
	p.Y.Label.Text = "Predicted (thousands of units)"

	scatter, err := plotter.NewScatter(pts)
	if err != nil {
		return spErrors.Wrap(err, "report.PredictedVsActual")
	}
	scatter.GlyphStyle.Radius = vg.Points(2)
	p.Add(scatter)

	ideal, err := plotter.NewLine(plotter.XYs{{X: lo, Y: lo}, {X: hi, Y: hi}})
	if err != nil {
		return spErrors.Wrap(err, "report.PredictedVsActual")
	}
	ideal.Width = vg.Points(1)
	ideal.Dashes = []vg.Length{vg.Points(4), vg.Points(4)}
	p.Add(ideal)
	p.Legend.Add("ideal", ideal)

	if err := p.Save(6*vg.Inch, 5*vg.Inch, path); err != nil {
		return spErrors.Wrap(err, "report.PredictedVsActual: save")
	}
	return nil
}

// ResidualHistogram writes a histogram of prediction residuals (actual minus
// predicted) as a PNG at path.
func ResidualHistogram(yTrue, yPred *mat.VecDense, path string) error {
	n := yTrue.Len()
	if n == 0 || yPred.Len() != n {
		return spErrors.NewDimensionError("report.ResidualHistogram", n, yPred.Len(), 0)
	}

	residuals := make(plotter.Values, n)
	for i := 0; i < n; i++ {
		residuals[i] = yTrue.AtVec(i) - yPred.AtVec(i)
	}

	p := plot.New()
	p.Title.Text = "Residual Distribution"
	p.X.Label.Text = "Residual (thousands of units)"
	p.Y.Label.Text = "Count"

	hist, err := plotter.NewHist(residuals, residualBins)
	if err != nil {
		return spErrors.Wrap(err, "report.ResidualHistogram")
	}
	p.Add(hist)

	if err := p.Save(6*vg.Inch, 5*vg.Inch, path); err != nil {
		return spErrors.Wrap(err, "report.ResidualHistogram: save")
	}
	return nil
}

// WriteMarkdown renders the model summary table to w.
func WriteMarkdown(w io.Writer, modelName string, rep *metrics.Report) error {
	if rep == nil {
		return spErrors.NewValueError("report.WriteMarkdown", "nil metrics report")
	}

	var relRMSE string
	if rep.RelRMSEPct != nil {
		relRMSE = fmt.Sprintf("%.2f%%", *rep.RelRMSEPct)
	} else {
		relRMSE = "n/a"
	}

	_, err := fmt.Fprintf(w, `# Model Report

| Model | R² | RMSE | MAE | Rel. RMSE |
|-------|----|------|-----|-----------|
| %s | %.4f | %.4f | %.4f | %s |

Mean sales: %.4f (thousands of units)
`, modelName, rep.R2, rep.RMSE, rep.MAE, relRMSE, rep.MeanSales)
	if err != nil {
		return spErrors.Wrap(err, "report.WriteMarkdown")
	}
	return nil
}

// WriteMarkdownFile renders the model summary table to the file at path.
func WriteMarkdownFile(path, modelName string, rep *metrics.Report) error {
	f, err := os.Create(path)
	if err != nil {
		return spErrors.Wrap(err, "report.WriteMarkdownFile")
	}
	defer func() { _ = f.Close() }()

	return WriteMarkdown(f, modelName, rep)
}
