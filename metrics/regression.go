// Package metrics evaluates sales predictions against observed values.
//
// The package computes the standard regression metrics (R², RMSE, MAE), the
// RMSE relative to the mean of the target, and a classification-style
// precision/recall/F1 obtained by binarizing both series at the mean of the
// true values. Evaluate bundles all of them into a Report, the canonical
// metrics shape used by the model provider and the artifact adapter.
//
// Example usage:
//
//	rep, err := metrics.Evaluate(yTrue, yPred)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("R²: %.4f RMSE: %.4f\n", rep.R2, rep.RMSE)
package metrics

import (
	"math"

	"gonum.org/v1/gonum/mat"

	spErrors "github.com/AbhayKTS/sales-prediction/pkg/errors"
)

// sstotEpsilon replaces a total sum of squares of exactly zero before the R²
// division. A numerical safety valve, not a statistical correction.
const sstotEpsilon = 1e-7

// Report is the canonical metrics record for a fitted model.
//
// RMSE, MAE, and MeanSales are in the unit of the target variable (thousands
// of units). RelRMSEPct is nil when MeanSales is zero; Precision, Recall, and
// F1 are nil when their defining counts are zero.
type Report struct {
	R2         float64  `json:"r2"`
	RMSE       float64  `json:"rmse"`
	MAE        float64  `json:"mae"`
	MeanSales  float64  `json:"mean_sales"`
	RelRMSEPct *float64 `json:"rel_rmse_pct"`
	Precision  *float64 `json:"precision,omitempty"`
	Recall     *float64 `json:"recall,omitempty"`
	F1         *float64 `json:"f1,omitempty"`
}

// Evaluate computes the full metrics Report for parallel vectors of true and
// predicted target values.
//
// Errors:
//   - ErrEmptyData: if the vectors are empty
//   - DimensionError: if the vectors have different lengths
func Evaluate(yTrue, yPred *mat.VecDense) (*Report, error) {
	n := yTrue.Len()
	if n == 0 {
		return nil, spErrors.NewModelError("metrics.Evaluate", "empty vector", spErrors.ErrEmptyData)
	}
	if yPred.Len() != n {
		return nil, spErrors.NewDimensionError("metrics.Evaluate", n, yPred.Len(), 0)
	}

	var meanY float64
	for i := 0; i < n; i++ {
		meanY += yTrue.AtVec(i)
	}
	meanY /= float64(n)

	var ssRes, ssTot, absSum float64
	for i := 0; i < n; i++ {
		yt := yTrue.AtVec(i)
		yp := yPred.AtVec(i)
		ssRes += (yt - yp) * (yt - yp)
		ssTot += (yt - meanY) * (yt - meanY)
		absSum += math.Abs(yt - yp)
	}
	if ssTot == 0 {
		ssTot = sstotEpsilon
	}

	rep := &Report{
		R2:        1 - ssRes/ssTot,
		RMSE:      math.Sqrt(ssRes / float64(n)),
		MAE:       absSum / float64(n),
		MeanSales: meanY,
	}
	if meanY != 0 {
		rel := rep.RMSE / meanY * 100
		rep.RelRMSEPct = &rel
	}

	rep.Precision, rep.Recall, rep.F1 = thresholdedScores(yTrue, yPred, meanY)
	return rep, nil
}

// thresholdedScores binarizes both series at the threshold (label 1 where the
// value is strictly greater) and derives precision, recall, and F1 from the
// resulting confusion counts. Undefined scores stay nil.
func thresholdedScores(yTrue, yPred *mat.VecDense, threshold float64) (precision, recall, f1 *float64) {
	var tp, fp, fn int
	for i := 0; i < yTrue.Len(); i++ {
		actual := yTrue.AtVec(i) > threshold
		predicted := yPred.AtVec(i) > threshold
		switch {
		case actual && predicted:
			tp++
		case !actual && predicted:
			fp++
		case actual && !predicted:
			fn++
		}
	}

	if tp+fp > 0 {
		p := float64(tp) / float64(tp+fp)
		precision = &p
	}
	if tp+fn > 0 {
		r := float64(tp) / float64(tp+fn)
		recall = &r
	}
	if precision != nil && recall != nil && *precision+*recall > 0 {
		f := 2 * *precision * *recall / (*precision + *recall)
		f1 = &f
	}
	return precision, recall, f1
}

// RMSE calculates the root-mean-squared error between true and predicted
// values. The result is in the same unit as the target variable.
func RMSE(yTrue, yPred *mat.VecDense) (float64, error) {
	n := yTrue.Len()
	if n == 0 {
		return 0, spErrors.NewModelError("metrics.RMSE", "empty vector", spErrors.ErrEmptyData)
	}
	if yPred.Len() != n {
		return 0, spErrors.NewDimensionError("metrics.RMSE", n, yPred.Len(), 0)
	}

	var sum float64
	for i := 0; i < n; i++ {
		diff := yTrue.AtVec(i) - yPred.AtVec(i)
		sum += diff * diff
	}
	return math.Sqrt(sum / float64(n)), nil
}

// MAE calculates the mean absolute error between true and predicted values.
// MAE is more robust to outliers than RMSE as it does not square differences.
func MAE(yTrue, yPred *mat.VecDense) (float64, error) {
	n := yTrue.Len()
	if n == 0 {
		return 0, spErrors.NewModelError("metrics.MAE", "empty vector", spErrors.ErrEmptyData)
	}
	if yPred.Len() != n {
		return 0, spErrors.NewDimensionError("metrics.MAE", n, yPred.Len(), 0)
	}

	var sum float64
	for i := 0; i < n; i++ {
		sum += math.Abs(yTrue.AtVec(i) - yPred.AtVec(i))
	}
	return sum / float64(n), nil
}

// R2Score calculates the coefficient of determination.
//
// Values range from negative infinity to 1, where 1 indicates perfect
// predictions and 0 indicates predictions no better than the mean. A target
// with zero variance is evaluated against the epsilon-substituted total sum
// of squares rather than failing, matching Evaluate.
func R2Score(yTrue, yPred *mat.VecDense) (float64, error) {
	n := yTrue.Len()
	if n == 0 {
		return 0, spErrors.NewModelError("metrics.R2Score", "empty vector", spErrors.ErrEmptyData)
	}
	if yPred.Len() != n {
		return 0, spErrors.NewDimensionError("metrics.R2Score", n, yPred.Len(), 0)
	}

	var meanY float64
	for i := 0; i < n; i++ {
		meanY += yTrue.AtVec(i)
	}
	meanY /= float64(n)

	var ssRes, ssTot float64
	for i := 0; i < n; i++ {
		yt := yTrue.AtVec(i)
		ssRes += (yt - yPred.AtVec(i)) * (yt - yPred.AtVec(i))
		ssTot += (yt - meanY) * (yt - meanY)
	}
	if ssTot == 0 {
		ssTot = sstotEpsilon
	}
	return 1 - ssRes/ssTot, nil
}
