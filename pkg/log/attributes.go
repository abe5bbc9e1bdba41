// Standard attribute keys for sales-prediction operations. Using these keys
// everywhere keeps the emitted events filterable by field name.

package log

// Model and operation context.
const (
	// ModelNameKey identifies the model type, e.g. "Regression".
	ModelNameKey = "model.name"

	// ModelSourceKey records where the active model came from: "artifact" or "dataset".
	ModelSourceKey = "model.source"

	// OperationKey specifies the operation being performed.
	// Standard values: "fit", "predict", "evaluate", "initialize".
	OperationKey = "ml.operation"

	// ComponentKey identifies which package is performing the operation.
	ComponentKey = "ml.component"
)

// Data shape and characteristics.
const (
	// SamplesKey indicates the number of dataset rows being processed.
	SamplesKey = "data.samples"

	// FeaturesKey indicates the number of feature columns.
	FeaturesKey = "data.features"

	// DroppedRowsKey counts CSV rows discarded as malformed.
	DroppedRowsKey = "data.dropped_rows"
)

// Performance and metric context.
const (
	// DurationMsKey records the execution time of an operation in milliseconds.
	DurationMsKey = "perf.duration_ms"

	// R2ScoreKey records the coefficient of determination of a fit.
	R2ScoreKey = "metrics.r2_score"

	// RMSEKey records the root-mean-squared error of a fit.
	RMSEKey = "metrics.rmse"
)

// External resource context.
const (
	// ArtifactKey records the artifact source being loaded.
	ArtifactKey = "artifact.source"

	// DatasetKey records the dataset source being loaded.
	DatasetKey = "dataset.source"

	// EndpointKey records the remote endpoint path being called.
	EndpointKey = "remote.endpoint"
)

// Standard attribute value constants for common operations.
const (
	OperationFit        = "fit"
	OperationPredict    = "predict"
	OperationEvaluate   = "evaluate"
	OperationInitialize = "initialize"

	SourceArtifact = "artifact"
	SourceDataset  = "dataset"
)
