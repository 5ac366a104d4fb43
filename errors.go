package mfe

// ExtractionError represents an error found while configuring or running an extraction
type ExtractionError string

const (
	// ErrUnknownGroup is the error for group names that are not registered
	ErrUnknownGroup = ExtractionError("unknown group")
	// ErrUnknownFeature is the error for feature names that are not registered
	ErrUnknownFeature = ExtractionError("unknown feature")
	// ErrAmbiguousFeature is the error for unqualified feature names registered in several groups
	ErrAmbiguousFeature = ExtractionError("feature registered in several groups, qualify it as group.feature")
	// ErrUnknownSummary is the error for summary function names that do not exist
	ErrUnknownSummary = ExtractionError("unknown summary function")
	// ErrContextOverride is the error for parameter overrides naming a value of the extraction context
	ErrContextOverride = ExtractionError("values of the extraction context cannot be overridden")
	// ErrInvalidDataset is the error for datasets whose views do not have the same number of instances
	ErrInvalidDataset = ExtractionError("invalid dataset")
	// ErrInvalidName is the error for routines and groups with names not following the naming convention
	ErrInvalidName = ExtractionError("invalid name")
	// ErrDuplicateName is the error for routines and groups whose name is already registered
	ErrDuplicateName = ExtractionError("name already registered")
	// ErrUnprovidedParam is the error for required parameters no value is ever supplied for
	ErrUnprovidedParam = ExtractionError("required parameter is neither a context value nor provided by any precomputation")
	// ErrNothingProvided is the error for precomputations that do not declare any key
	ErrNothingProvided = ExtractionError("precomputation does not provide any key")
	// ErrMissingFunction is the error for routines without a function
	ErrMissingFunction = ExtractionError("routine has no function")
)

func (ee ExtractionError) Error() string {
	return string(ee)
}
