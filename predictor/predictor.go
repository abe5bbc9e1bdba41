// Package predictor owns the active sales model and serves predictions from
// it.
//
// A Provider is created by the composition root with injected artifact and
// dataset sources. Initialize adopts a precomputed artifact when one is
// available and usable, and otherwise fits a fresh regression from the CSV
// dataset. The fitted model is cached for the life of the process; concurrent
// initializers share a single in-flight build, and a failed build leaves the
// cache empty so a later call can retry.
package predictor

import (
	"context"
	"io"
	"os"
	"sync"

	"gonum.org/v1/gonum/mat"

	"github.com/AbhayKTS/sales-prediction/artifact"
	"github.com/AbhayKTS/sales-prediction/dataset"
	"github.com/AbhayKTS/sales-prediction/linear"
	"github.com/AbhayKTS/sales-prediction/metrics"
	spErrors "github.com/AbhayKTS/sales-prediction/pkg/errors"
	"github.com/AbhayKTS/sales-prediction/pkg/log"
)

// currencyScale converts currency amounts (dollars) into dataset units
// (thousands).
const currencyScale = 1.0 / 1000.0

// DefaultPricePerUnit is the unit price assumed for ROI calculations when the
// caller does not supply one.
const DefaultPricePerUnit = 10.0

// Unit tags the unit of spend amounts passed to the prediction methods.
type Unit int

const (
	// UnitThousands means the amount is already in dataset units.
	UnitThousands Unit = iota
	// UnitCurrency means the amount is in currency units (dollars) and must
	// be scaled by 1/1000 before entering the model.
	UnitCurrency
)

// Channel identifies one of the three spend channels.
type Channel int

const (
	ChannelTV Channel = iota
	ChannelRadio
	ChannelNewspaper
)

// Model is the immutable fitted model held by the Provider.
type Model struct {
	Intercept float64
	Betas     [linear.NumChannels]float64
	Shares    [linear.NumChannels]float64
	Report    *metrics.Report
	Source    string // log.SourceArtifact or log.SourceDataset
}

// Opener supplies the bytes of an external resource (artifact or dataset).
type Opener func() (io.ReadCloser, error)

// FileOpener returns an Opener reading the file at path.
func FileOpener(path string) Opener {
	return func() (io.ReadCloser, error) {
		f, err := os.Open(path)
		if err != nil {
			return nil, spErrors.Wrapf(spErrors.ErrUpstreamUnavailable, "open %s: %v", path, err)
		}
		return f, nil
	}
}

// Provider builds and caches the active model.
type Provider struct {
	artifactSource Opener // optional
	datasetSource  Opener
	logger         log.Logger

	mu       sync.Mutex
	model    *Model
	inflight *flight
}

// flight tracks one in-progress initialization shared by concurrent callers.
type flight struct {
	done  chan struct{}
	model *Model
	err   error
}

// Option configures a Provider.
type Option func(*Provider)

// WithArtifactSource sets the opener for the precomputed artifact document.
func WithArtifactSource(open Opener) Option {
	return func(p *Provider) { p.artifactSource = open }
}

// WithLogger overrides the default logger.
func WithLogger(logger log.Logger) Option {
	return func(p *Provider) { p.logger = logger }
}

// NewProvider creates a Provider that fits from the given dataset source,
// preferring an artifact when one is configured.
func NewProvider(datasetSource Opener, opts ...Option) *Provider {
	p := &Provider{
		datasetSource: datasetSource,
		logger: log.GetLoggerWithName("predictor").With(
			log.ComponentKey, "predictor",
		),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Initialize returns the cached model, joining an in-flight build when one
// exists and starting one otherwise. It is safe to call from concurrent
// goroutines; the build runs at most once per (re)initialization.
func (p *Provider) Initialize(ctx context.Context) (*Model, error) {
	p.mu.Lock()
	if p.model != nil {
		m := p.model
		p.mu.Unlock()
		return m, nil
	}
	if p.inflight != nil {
		f := p.inflight
		p.mu.Unlock()
		select {
		case <-f.done:
			return f.model, f.err
		case <-ctx.Done():
			return nil, spErrors.Wrap(ctx.Err(), "predictor.Initialize")
		}
	}

	f := &flight{done: make(chan struct{})}
	p.inflight = f
	p.mu.Unlock()

	model, err := p.build()

	p.mu.Lock()
	if err == nil {
		p.model = model
	}
	p.inflight = nil
	p.mu.Unlock()

	f.model, f.err = model, err
	close(f.done)
	return model, err
}

// Get returns the cached model without triggering initialization.
func (p *Provider) Get() (*Model, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.model == nil {
		return nil, spErrors.NewNotInitializedError("Provider", "Get")
	}
	return p.model, nil
}

// Reset clears the cached model so the next Initialize rebuilds it.
func (p *Provider) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.model = nil
}

// build runs the load-or-fit chain: artifact first, dataset fit as fallback.
func (p *Provider) build() (*Model, error) {
	p.logger.Info("Initializing model", log.OperationKey, log.OperationInitialize)

	if p.artifactSource != nil {
		model, err := p.fromArtifact()
		if err == nil {
			p.logger.Info("Model adopted from artifact",
				log.OperationKey, log.OperationInitialize,
				log.ModelSourceKey, log.SourceArtifact,
			)
			return model, nil
		}
		// Recoverable: fall back to fitting from the raw dataset.
		p.logger.Warn("Artifact unusable, falling back to dataset fit",
			"reason", err.Error(),
		)
	}

	model, err := p.fromDataset()
	if err != nil {
		return nil, spErrors.Wrap(err, "predictor: initialization failed")
	}
	p.logger.Info("Model fitted from dataset",
		log.OperationKey, log.OperationInitialize,
		log.ModelSourceKey, log.SourceDataset,
	)
	return model, nil
}

func (p *Provider) fromArtifact() (*Model, error) {
	rc, err := p.artifactSource()
	if err != nil {
		return nil, err
	}
	defer func() { _ = rc.Close() }()

	a, err := artifact.Load(rc)
	if err != nil {
		return nil, err
	}

	model := &Model{
		Intercept: a.Intercept,
		Source:    log.SourceArtifact,
	}
	copy(model.Betas[:], a.Betas)
	copy(model.Shares[:], a.ChannelShares)

	model.Report = a.NormalizeMetrics()
	if model.Report == nil {
		// Best effort only: a model without metrics still predicts.
		rep, backfillErr := p.backfillMetrics(model)
		if backfillErr != nil {
			p.logger.Warn("Metrics backfill failed, continuing without metrics",
				"reason", backfillErr.Error(),
			)
		} else {
			model.Report = rep
		}
	}
	return model, nil
}

// backfillMetrics re-evaluates the artifact coefficients against the raw
// dataset when the artifact carries no usable metrics.
func (p *Provider) backfillMetrics(model *Model) (*metrics.Report, error) {
	table, err := p.loadTable()
	if err != nil {
		return nil, err
	}

	n := table.Len()
	preds := mat.NewVecDense(n, nil)
	for i := 0; i < n; i++ {
		preds.SetVec(i, model.Intercept+
			model.Betas[0]*table.TV[i]+
			model.Betas[1]*table.Radio[i]+
			model.Betas[2]*table.Newspaper[i])
	}
	return metrics.Evaluate(table.Target(), preds)
}

func (p *Provider) fromDataset() (*Model, error) {
	table, err := p.loadTable()
	if err != nil {
		return nil, err
	}

	reg := linear.NewRegression()
	if err := reg.Fit(table); err != nil {
		return nil, err
	}

	preds, err := reg.PredictVec(table.Features())
	if err != nil {
		return nil, err
	}
	rep, err := metrics.Evaluate(table.Target(), preds)
	if err != nil {
		return nil, err
	}

	intercept, betas := reg.Coefficients()
	return &Model{
		Intercept: intercept,
		Betas:     betas,
		Shares:    reg.ChannelShares(),
		Report:    rep,
		Source:    log.SourceDataset,
	}, nil
}

func (p *Provider) loadTable() (*dataset.Table, error) {
	if p.datasetSource == nil {
		return nil, spErrors.Wrap(spErrors.ErrUpstreamUnavailable, "no dataset source configured")
	}
	rc, err := p.datasetSource()
	if err != nil {
		return nil, err
	}
	defer func() { _ = rc.Close() }()

	return dataset.Load(rc)
}

// PredictChannels returns the predicted sales figure, in thousands of units,
// for per-channel spend. Currency amounts are scaled by 1/1000 before
// entering the model.
func (p *Provider) PredictChannels(tv, radio, newspaper float64, unit Unit) (float64, error) {
	model, err := p.Get()
	if err != nil {
		return 0, spErrors.NewNotInitializedError("Provider", "PredictChannels")
	}
	if unit == UnitCurrency {
		tv *= currencyScale
		radio *= currencyScale
		newspaper *= currencyScale
	}
	return model.Intercept +
		model.Betas[0]*tv +
		model.Betas[1]*radio +
		model.Betas[2]*newspaper, nil
}

// PredictTotal apportions an aggregate spend figure into per-channel amounts
// using the historical channel shares and predicts from those. The unit of
// the total is explicit; a currency total is scaled to dataset units before
// apportioning.
func (p *Provider) PredictTotal(total float64, unit Unit) (float64, error) {
	model, err := p.Get()
	if err != nil {
		return 0, spErrors.NewNotInitializedError("Provider", "PredictTotal")
	}
	if unit == UnitCurrency {
		total *= currencyScale
	}
	return p.PredictChannels(
		total*model.Shares[0],
		total*model.Shares[1],
		total*model.Shares[2],
		UnitThousands,
	)
}

// PredictChannel predicts sales for spend on a single channel, with the other
// two channels at zero.
func (p *Provider) PredictChannel(ch Channel, amount float64, unit Unit) (float64, error) {
	var tv, radio, newspaper float64
	switch ch {
	case ChannelTV:
		tv = amount
	case ChannelRadio:
		radio = amount
	case ChannelNewspaper:
		newspaper = amount
	default:
		return 0, spErrors.NewValueError("Provider.PredictChannel", "unknown channel")
	}
	return p.PredictChannels(tv, radio, newspaper, unit)
}

// Coefficients returns the active model's intercept and channel weights.
func (p *Provider) Coefficients() (float64, [linear.NumChannels]float64, error) {
	model, err := p.Get()
	if err != nil {
		return 0, [linear.NumChannels]float64{}, spErrors.NewNotInitializedError("Provider", "Coefficients")
	}
	return model.Intercept, model.Betas, nil
}

// Shares returns the active model's channel spend shares.
func (p *Provider) Shares() ([linear.NumChannels]float64, error) {
	model, err := p.Get()
	if err != nil {
		return [linear.NumChannels]float64{}, spErrors.NewNotInitializedError("Provider", "Shares")
	}
	return model.Shares, nil
}

// Metrics returns the active model's evaluation report. The report may be nil
// when the artifact carried no metrics and the backfill failed.
func (p *Provider) Metrics() (*metrics.Report, error) {
	model, err := p.Get()
	if err != nil {
		return nil, spErrors.NewNotInitializedError("Provider", "Metrics")
	}
	return model.Report, nil
}
