// Standard attribute keys for machine learning operations.
//
// Keys follow a hierarchical naming convention (e.g. "model.name",
// "data.samples") so that log lines from every package can be filtered the
// same way.

package log

// Model and Operation Context
const (
	// ModelNameKey identifies the type of machine learning model.
	// Examples: "KNeighborsClassifier"
	ModelNameKey = "model.name"

	// OperationKey specifies the machine learning operation being performed.
	// Standard values: "fit", "predict", "score", "kneighbors", "analyze"
	OperationKey = "ml.operation"

	// ComponentKey identifies which component or package is performing the operation.
	// Examples: "neighbors", "metrics", "eda"
	ComponentKey = "ml.component"

	// PhaseKey indicates the phase of model lifecycle.
	PhaseKey = "ml.phase"
)

// Data Shape and Characteristics
const (
	// SamplesKey indicates the number of samples (rows) in the dataset.
	SamplesKey = "data.samples"

	// FeaturesKey indicates the number of features (columns) in the dataset.
	FeaturesKey = "data.features"

	// ClassesKey indicates the number of distinct labels seen during fitting.
	ClassesKey = "data.classes"

	// ColumnsKey indicates the number of columns of a tabular dataset.
	ColumnsKey = "data.columns"

	// MissingKey indicates the number of missing cells.
	MissingKey = "data.missing"
)

// Performance Metrics
const (
	// DurationMsKey records the execution time of an operation in milliseconds.
	DurationMsKey = "perf.duration_ms"

	// AccuracyKey records model accuracy for evaluation operations.
	AccuracyKey = "metrics.accuracy"

	// R2ScoreKey records R² coefficient of determination for regression.
	R2ScoreKey = "metrics.r2_score"
)

// Prediction and Output Context
const (
	// PredsKey indicates the number of predictions made.
	PredsKey = "preds.count"

	// NeighborsKey records the k used for a neighbours query.
	NeighborsKey = "hyperparams.n_neighbors"

	// StrategyKey records the distance computation strategy.
	StrategyKey = "hyperparams.strategy"

	// VotingKey records which voting path produced the predictions ("binary" or "multiclass").
	VotingKey = "preds.voting"
)

// Error and Warning Context
const (
	// ErrorCodeKey provides a structured error code for programmatic handling.
	ErrorCodeKey = "error.code"

	// ErrorTypeKey categorizes the type of error encountered.
	ErrorTypeKey = "error.type"
)

// Standard attribute value constants for common operations.
const (
	OperationFit        = "fit"
	OperationPredict    = "predict"
	OperationScore      = "score"
	OperationKNeighbors = "kneighbors"
	OperationAnalyze    = "analyze"

	PhaseTraining      = "training"
	PhaseInference     = "inference"
	PhaseValidation    = "validation"
	PhasePreprocessing = "preprocessing"

	ErrorNotFitted         = "NOT_FITTED"
	ErrorDimensionMismatch = "DIMENSION_MISMATCH"
	ErrorEmptyData         = "EMPTY_DATA"
	ErrorInvalidInput      = "INVALID_INPUT"
)
