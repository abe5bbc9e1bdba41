package linear

import (
	"math"
	"strconv"
	"strings"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/AbhayKTS/sales-prediction/dataset"
	"github.com/AbhayKTS/sales-prediction/metrics"
)

// exactTable builds a dataset where sales = 2 + 0.05*tv + 0.1*radio + 0.02*news
// holds exactly, so the fit should recover the coefficients to machine precision.
func exactTable(t *testing.T) *dataset.Table {
	t.Helper()

	csv := strings.Builder{}
	csv.WriteString("TV,Radio,Newspaper,Sales\n")
	rows := [][3]float64{
		{100, 20, 30}, {150, 25, 35}, {80, 40, 10}, {200, 10, 50},
		{50, 50, 20}, {120, 30, 40}, {90, 15, 25}, {170, 35, 15},
		{60, 45, 45}, {140, 5, 5}, {110, 28, 33}, {75, 12, 48},
	}
	for _, r := range rows {
		sales := 2 + 0.05*r[0] + 0.1*r[1] + 0.02*r[2]
		csv.WriteString(
			strings.Join([]string{
				formatFloat(r[0]), formatFloat(r[1]), formatFloat(r[2]), formatFloat(sales),
			}, ",") + "\n")
	}

	table, err := dataset.Load(strings.NewReader(csv.String()))
	if err != nil {
		t.Fatalf("failed to load table: %v", err)
	}
	return table
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func TestRegression_FitRecoversCoefficients(t *testing.T) {
	table := exactTable(t)

	reg := NewRegression()
	if err := reg.Fit(table); err != nil {
		t.Fatalf("Fit() error = %v", err)
	}
	if !reg.IsFitted() {
		t.Fatal("model should be fitted after successful Fit()")
	}

	intercept, betas := reg.Coefficients()
	wantBetas := [3]float64{0.05, 0.1, 0.02}
	if math.Abs(intercept-2.0) > 1e-8 {
		t.Errorf("intercept = %v, want 2.0", intercept)
	}
	for i, want := range wantBetas {
		if math.Abs(betas[i]-want) > 1e-8 {
			t.Errorf("betas[%d] = %v, want %v", i, betas[i], want)
		}
	}
}

// TestRegression_MatchesGonum cross-checks the hand-rolled normal-equations
// solve against gonum's LU-based inverse on the same data.
func TestRegression_MatchesGonum(t *testing.T) {
	table := exactTable(t)
	// Add some irregularity so the fit is not exact.
	table.Sales[0] += 1.5
	table.Sales[5] -= 2.0

	reg := NewRegression()
	if err := reg.Fit(table); err != nil {
		t.Fatalf("Fit() error = %v", err)
	}

	n := table.Len()
	x := mat.NewDense(n, 4, nil)
	y := mat.NewVecDense(n, nil)
	for i := 0; i < n; i++ {
		x.Set(i, 0, 1)
		x.Set(i, 1, table.TV[i])
		x.Set(i, 2, table.Radio[i])
		x.Set(i, 3, table.Newspaper[i])
		y.SetVec(i, table.Sales[i])
	}

	var xtx mat.Dense
	xtx.Mul(x.T(), x)
	var xtxInv mat.Dense
	if err := xtxInv.Inverse(&xtx); err != nil {
		t.Fatalf("gonum inverse failed: %v", err)
	}
	var xty mat.VecDense
	xty.MulVec(x.T(), y)
	var beta mat.VecDense
	beta.MulVec(&xtxInv, &xty)

	if relDiff(reg.Intercept, beta.AtVec(0)) > 1e-6 {
		t.Errorf("intercept = %v, gonum = %v", reg.Intercept, beta.AtVec(0))
	}
	for i := 0; i < 3; i++ {
		if relDiff(reg.Betas[i], beta.AtVec(i+1)) > 1e-6 {
			t.Errorf("betas[%d] = %v, gonum = %v", i, reg.Betas[i], beta.AtVec(i+1))
		}
	}
}

func relDiff(a, b float64) float64 {
	scale := math.Max(math.Abs(a), math.Abs(b))
	if scale == 0 {
		return 0
	}
	return math.Abs(a-b) / scale
}

func TestRegression_ChannelSharesSumToOne(t *testing.T) {
	table := exactTable(t)

	reg := NewRegression()
	if err := reg.Fit(table); err != nil {
		t.Fatalf("Fit() error = %v", err)
	}

	shares := reg.ChannelShares()
	sum := shares[0] + shares[1] + shares[2]
	if math.Abs(sum-1.0) > 1e-9 {
		t.Errorf("shares sum = %v, want 1.0", sum)
	}
	for i, s := range shares {
		if s < 0 || s > 1 {
			t.Errorf("shares[%d] = %v, want within [0,1]", i, s)
		}
	}
}

func TestRegression_ZeroSpendShares(t *testing.T) {
	table := &dataset.Table{
		TV:        make([]float64, 10),
		Radio:     make([]float64, 10),
		Newspaper: make([]float64, 10),
		Sales:     []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10},
	}

	reg := NewRegression()
	if err := reg.Fit(table); err == nil {
		t.Fatal("expected error when total spend is zero")
	}
}

func TestRegression_PredictNotFitted(t *testing.T) {
	reg := NewRegression()
	if _, err := reg.Predict(100, 20, 30); err == nil {
		t.Error("expected error when predicting with unfitted model")
	}
	if _, err := reg.PredictVec(mat.NewDense(1, 3, []float64{1, 2, 3})); err == nil {
		t.Error("expected error when batch-predicting with unfitted model")
	}
}

func TestRegression_TrainingSetR2(t *testing.T) {
	table := exactTable(t)
	// Perturb so the data is non-degenerate but still strongly linear.
	table.Sales[2] += 0.8
	table.Sales[7] -= 0.6

	reg := NewRegression()
	if err := reg.Fit(table); err != nil {
		t.Fatalf("Fit() error = %v", err)
	}

	preds, err := reg.PredictVec(table.Features())
	if err != nil {
		t.Fatalf("PredictVec() error = %v", err)
	}

	rep, err := metrics.Evaluate(table.Target(), preds)
	if err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}
	if rep.R2 <= 0 || rep.R2 > 1 {
		t.Errorf("training R² = %v, want within (0,1]", rep.R2)
	}
}

func TestRegression_Export(t *testing.T) {
	reg := NewRegression()
	if _, err := reg.Export(); err == nil {
		t.Fatal("expected error when exporting an unfitted model")
	}

	table := exactTable(t)
	if err := reg.Fit(table); err != nil {
		t.Fatalf("Fit() error = %v", err)
	}

	a, err := reg.Export()
	if err != nil {
		t.Fatalf("Export() error = %v", err)
	}
	if a.BestModel != "linear" {
		t.Errorf("BestModel = %q, want \"linear\"", a.BestModel)
	}
	if len(a.Betas) != NumChannels || len(a.ChannelShares) != NumChannels {
		t.Fatalf("exported lengths = %d/%d, want %d", len(a.Betas), len(a.ChannelShares), NumChannels)
	}
	if math.Abs(a.Intercept-reg.Intercept) > 1e-15 {
		t.Errorf("exported intercept = %v, want %v", a.Intercept, reg.Intercept)
	}

	// The export owns its slices.
	a.Betas[0] = 99
	if reg.Betas[0] == 99 {
		t.Error("export should copy coefficients, not alias them")
	}
}

func TestRegression_PredictVecMatchesPredict(t *testing.T) {
	table := exactTable(t)

	reg := NewRegression()
	if err := reg.Fit(table); err != nil {
		t.Fatalf("Fit() error = %v", err)
	}

	single, err := reg.Predict(table.TV[3], table.Radio[3], table.Newspaper[3])
	if err != nil {
		t.Fatalf("Predict() error = %v", err)
	}

	batch, err := reg.PredictVec(table.Features())
	if err != nil {
		t.Fatalf("PredictVec() error = %v", err)
	}
	if math.Abs(single-batch.AtVec(3)) > 1e-12 {
		t.Errorf("Predict = %v, PredictVec = %v, want equal", single, batch.AtVec(3))
	}
}
