// Command train fits the sales regression from the advertising CSV and writes
// the model artifact, the markdown report, and the diagnostic plots.
//
// The fit is rejected when the training-set R² falls below -min-r2, so a
// degenerate dataset never silently replaces a good artifact.
package main

import (
	"encoding/json"
	"flag"
	"os"
	"path/filepath"
	"time"

	"github.com/AbhayKTS/sales-prediction/artifact"
	"github.com/AbhayKTS/sales-prediction/dataset"
	"github.com/AbhayKTS/sales-prediction/linear"
	"github.com/AbhayKTS/sales-prediction/metrics"
	"github.com/AbhayKTS/sales-prediction/pkg/log"
	"github.com/AbhayKTS/sales-prediction/report"
)

const versionLayout = "v20060102-150405"

func main() {
	var (
		csvPath      = flag.String("csv", "advertising.csv", "path to the advertising dataset CSV")
		outPath      = flag.String("out", "model-coefs.json", "path for the artifact JSON")
		plotsDir     = flag.String("plots", "", "directory for diagnostic plots (skipped when empty)")
		reportPath   = flag.String("report", "", "path for the markdown model report (skipped when empty)")
		minR2        = flag.Float64("min-r2", 0.6, "minimum training-set R² required to accept the fit")
		pricePerUnit = flag.Float64("price-per-unit", 10, "unit price recorded in the artifact for ROI calculations")
	)
	flag.Parse()

	logger := log.GetLoggerWithName("train")

	table, err := dataset.LoadFile(*csvPath)
	if err != nil {
		logger.Error("Failed to load dataset", err, log.DatasetKey, *csvPath)
		os.Exit(1)
	}

	reg := linear.NewRegression()
	if err := reg.Fit(table); err != nil {
		logger.Error("Fit failed", err)
		os.Exit(1)
	}

	preds, err := reg.PredictVec(table.Features())
	if err != nil {
		logger.Error("Batch prediction failed", err)
		os.Exit(1)
	}
	rep, err := metrics.Evaluate(table.Target(), preds)
	if err != nil {
		logger.Error("Evaluation failed", err)
		os.Exit(1)
	}

	logger.Info("Fit evaluated",
		log.OperationKey, log.OperationEvaluate,
		log.R2ScoreKey, rep.R2,
		log.RMSEKey, rep.RMSE,
		log.SamplesKey, table.Len(),
	)

	if rep.R2 < *minR2 {
		logger.Error("Fit rejected: R² below threshold",
			log.R2ScoreKey, rep.R2,
			"min_r2", *minR2,
		)
		os.Exit(1)
	}

	plots := map[string]string{}
	if *plotsDir != "" {
		if err := os.MkdirAll(*plotsDir, 0o755); err != nil {
			logger.Error("Failed to create plots directory", err)
			os.Exit(1)
		}
		scatter := filepath.Join(*plotsDir, "pred_vs_actual.png")
		if err := report.PredictedVsActual(table.Target(), preds, scatter); err != nil {
			logger.Error("Failed to render scatter plot", err)
			os.Exit(1)
		}
		plots["pred_vs_actual"] = scatter

		residuals := filepath.Join(*plotsDir, "residuals.png")
		if err := report.ResidualHistogram(table.Target(), preds, residuals); err != nil {
			logger.Error("Failed to render residual histogram", err)
			os.Exit(1)
		}
		plots["residuals"] = residuals
	}

	if *reportPath != "" {
		if err := report.WriteMarkdownFile(*reportPath, "linear", rep); err != nil {
			logger.Error("Failed to write report", err)
			os.Exit(1)
		}
	}

	a, err := reg.Export()
	if err != nil {
		logger.Error("Failed to export coefficients", err)
		os.Exit(1)
	}

	rawMetrics, err := json.Marshal(rep)
	if err != nil {
		logger.Error("Failed to encode metrics", err)
		os.Exit(1)
	}

	now := time.Now().UTC()
	a.Version = now.Format(versionLayout)
	a.GeneratedAt = now.Format(time.RFC3339)
	a.Metrics = rawMetrics
	a.PricePerUnit = *pricePerUnit
	if len(plots) > 0 {
		a.Plots = plots
	}

	f, err := os.Create(*outPath)
	if err != nil {
		logger.Error("Failed to create artifact file", err)
		os.Exit(1)
	}
	defer func() { _ = f.Close() }()

	if err := artifact.Write(f, a); err != nil {
		logger.Error("Failed to write artifact", err)
		os.Exit(1)
	}

	logger.Info("Artifact written",
		log.ArtifactKey, *outPath,
		"version", a.Version,
	)
}
