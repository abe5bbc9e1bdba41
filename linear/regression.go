// Package linear fits the sales model: an ordinary-least-squares regression of
// sales on TV, Radio, and Newspaper spend.
//
// The feature count is fixed and small, so the coefficients are solved in
// closed form via the normal equations β = (XᵀX)⁻¹ Xᵀy, with no iterative
// convergence concerns. Alongside the coefficients the fit derives
// each channel's share of total historical spend, which the prediction service
// uses to apportion aggregate spend figures.
//
// Example usage:
//
//	reg := linear.NewRegression()
//	if err := reg.Fit(table); err != nil {
//	    log.Fatal(err)
//	}
//	predicted, err := reg.Predict(230.1, 37.8, 69.2)
package linear

import (
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/AbhayKTS/sales-prediction/artifact"
	"github.com/AbhayKTS/sales-prediction/core/algebra"
	"github.com/AbhayKTS/sales-prediction/dataset"
	spErrors "github.com/AbhayKTS/sales-prediction/pkg/errors"
	"github.com/AbhayKTS/sales-prediction/pkg/log"
)

// NumChannels is the fixed number of spend channels, in order TV, Radio,
// Newspaper.
const NumChannels = 3

// Regression is the OLS sales model.
type Regression struct {
	Intercept float64
	Betas     [NumChannels]float64
	Shares    [NumChannels]float64
	NSamples  int

	fitted bool
	logger log.Logger
}

// NewRegression creates a new untrained sales regression model.
func NewRegression() *Regression {
	return &Regression{
		logger: log.GetLoggerWithName("linear").With(
			log.ModelNameKey, "Regression",
			log.ComponentKey, "linear",
		),
	}
}

// Fit trains the model on the dataset table.
//
// The design matrix gets a leading column of ones for the intercept; the
// normal equations are solved with the algebra primitives. Channel shares are
// each channel's column sum divided by the grand total of all three channels.
//
// Errors:
//   - ErrEmptyData: if the table is empty
//   - ErrSingularMatrix: if XᵀX cannot be inverted
//   - ValueError: if total historical spend is zero (shares undefined)
func (r *Regression) Fit(t *dataset.Table) (err error) {
	defer spErrors.Recover(&err, "Regression.Fit")

	startTime := time.Now()
	n := t.Len()
	if n == 0 {
		return spErrors.NewModelError("Regression.Fit", "empty data", spErrors.ErrEmptyData)
	}

	r.logger.Info("Training started",
		log.OperationKey, log.OperationFit,
		log.SamplesKey, n,
		log.FeaturesKey, NumChannels,
	)

	// Design matrix [1, TV, Radio, Newspaper].
	x := make([][]float64, n)
	y := make([][]float64, n)
	for i := 0; i < n; i++ {
		x[i] = []float64{1, t.TV[i], t.Radio[i], t.Newspaper[i]}
		y[i] = []float64{t.Sales[i]}
	}

	xt, err := algebra.Transpose(x)
	if err != nil {
		return err
	}
	xtx, err := algebra.MatMul(xt, x)
	if err != nil {
		return err
	}
	xtxInv, err := algebra.Invert(xtx)
	if err != nil {
		return err
	}
	xty, err := algebra.MatMul(xt, y)
	if err != nil {
		return err
	}
	beta, err := algebra.MatMul(xtxInv, xty)
	if err != nil {
		return err
	}

	shares, err := channelShares(t)
	if err != nil {
		return err
	}

	r.Intercept = beta[0][0]
	for i := 0; i < NumChannels; i++ {
		r.Betas[i] = beta[i+1][0]
	}
	r.Shares = shares
	r.NSamples = n
	r.fitted = true

	r.logger.Info("Training completed",
		log.OperationKey, log.OperationFit,
		log.DurationMsKey, time.Since(startTime).Milliseconds(),
		log.SamplesKey, n,
	)
	return nil
}

// channelShares computes each channel's fraction of total historical spend.
func channelShares(t *dataset.Table) ([NumChannels]float64, error) {
	var shares [NumChannels]float64
	var sums [NumChannels]float64
	for i := 0; i < t.Len(); i++ {
		sums[0] += t.TV[i]
		sums[1] += t.Radio[i]
		sums[2] += t.Newspaper[i]
	}

	total := sums[0] + sums[1] + sums[2]
	if total == 0 {
		return shares, spErrors.NewValueError("Regression.Fit", "total historical spend is zero, channel shares undefined")
	}
	for i := range sums {
		shares[i] = sums[i] / total
	}
	return shares, nil
}

// Predict returns the predicted sales figure, in thousands of units, for
// per-channel spend expressed in dataset units (thousands).
func (r *Regression) Predict(tv, radio, newspaper float64) (float64, error) {
	if !r.fitted {
		return 0, spErrors.NewNotInitializedError("Regression", "Predict")
	}
	return r.Intercept + r.Betas[0]*tv + r.Betas[1]*radio + r.Betas[2]*newspaper, nil
}

// PredictVec predicts sales for every row of an n×3 feature matrix. Used for
// batch evaluation against the training set.
func (r *Regression) PredictVec(x *mat.Dense) (*mat.VecDense, error) {
	if !r.fitted {
		return nil, spErrors.NewNotInitializedError("Regression", "PredictVec")
	}

	rows, cols := x.Dims()
	if cols != NumChannels {
		return nil, spErrors.NewDimensionError("Regression.PredictVec", NumChannels, cols, 1)
	}

	out := mat.NewVecDense(rows, nil)
	for i := 0; i < rows; i++ {
		pred := r.Intercept
		for j := 0; j < NumChannels; j++ {
			pred += r.Betas[j] * x.At(i, j)
		}
		out.SetVec(i, pred)
	}
	return out, nil
}

// Export packages the fitted coefficients in the artifact document shape.
// Metrics and metadata are left for the caller to attach.
func (r *Regression) Export() (*artifact.Artifact, error) {
	if !r.fitted {
		return nil, spErrors.NewNotInitializedError("Regression", "Export")
	}
	return &artifact.Artifact{
		Intercept:     r.Intercept,
		Betas:         append([]float64(nil), r.Betas[:]...),
		ChannelShares: append([]float64(nil), r.Shares[:]...),
		BestModel:     "linear",
	}, nil
}

// Coefficients returns the fitted intercept and channel weights.
func (r *Regression) Coefficients() (intercept float64, betas [NumChannels]float64) {
	return r.Intercept, r.Betas
}

// ChannelShares returns each channel's share of total historical spend.
func (r *Regression) ChannelShares() [NumChannels]float64 {
	return r.Shares
}

// IsFitted returns whether the model has been fitted.
func (r *Regression) IsFitted() bool {
	return r.fitted
}
