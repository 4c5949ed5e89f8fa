package model

// ParameterGetter is the interface for models that expose their parameters.
type ParameterGetter interface {
	// GetParams returns the model's hyperparameters.
	GetParams() map[string]interface{}
}

// ClassifierWithParams is a Classifier that also reports its hyperparameters.
type ClassifierWithParams interface {
	Classifier
	ParameterGetter
}
