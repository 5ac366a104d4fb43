package mfe

import (
	"fmt"
	"strings"

	mf "github.com/pbanos/mfe/metafeature"
)

/*
FailureKind classifies the reason a requested feature could not be
extracted
*/
type FailureKind string

// Kinds of failure
const (
	// KindConfiguration is the kind of failures caused by the configuration
	// of the extraction: unknown names, overrides of the wrong type.
	KindConfiguration FailureKind = "configuration"
	// KindParameterResolution is the kind of failures of features with a
	// required parameter no value could be found for.
	KindParameterResolution FailureKind = "parameter-resolution"
	// KindPrecomputation is the kind of failures of features requiring a
	// value whose precomputation failed.
	KindPrecomputation FailureKind = "precomputation"
	// KindRoutine is the kind of failures of the extraction routine itself.
	KindRoutine FailureKind = "routine"
)

/*
Entry is the value of an extracted feature. Name holds the feature name,
followed by the summary function name when the value is the summary of a
vector-valued feature (e.g. "cor.mean" or "cor.histogram.3").
*/
type Entry struct {
	Name  string
	Group string
	Value mf.Value
}

/*
QualifiedName returns the name of the entry prefixed by its group
*/
func (e Entry) QualifiedName() string {
	if e.Group == "" {
		return e.Name
	}
	return e.Group + "." + e.Name
}

func (e Entry) String() string {
	return fmt.Sprintf("%s\t%v", e.QualifiedName(), e.Value)
}

/*
Failure holds the reason why a requested feature was not extracted. Group is
empty for unknown features, and Feature is empty for failures concerning a
whole group or a parameter override.
*/
type Failure struct {
	Feature string
	Group   string
	Kind    FailureKind
	Err     error
}

func (f Failure) Error() string {
	var subject []string
	if f.Group != "" {
		subject = append(subject, f.Group)
	}
	if f.Feature != "" {
		subject = append(subject, f.Feature)
	}
	return fmt.Sprintf("%s: %s error: %v", strings.Join(subject, "."), f.Kind, f.Err)
}

/*
Result holds the outcome of an extraction: the entries of the extracted
features in order, the failures of those that could not be extracted and
the random state every randomized routine was seeded with.
*/
type Result struct {
	Entries     []Entry
	Failures    []Failure
	RandomState int64
}

/*
Get takes the name of an entry, qualified with its group or not, and returns
the value of the first entry with that name and whether there was one.
*/
func (r *Result) Get(name string) (mf.Value, bool) {
	for _, e := range r.Entries {
		if e.Name == name || e.QualifiedName() == name {
			return e.Value, true
		}
	}
	return mf.Value{}, false
}

/*
Failed takes the name of a feature, qualified with its group or not, and
returns the first failure recorded for it, if any.
*/
func (r *Result) Failed(name string) (Failure, bool) {
	for _, f := range r.Failures {
		if f.Feature == name || (f.Group != "" && f.Group+"."+f.Feature == name) {
			return f, true
		}
	}
	return Failure{}, false
}

/*
Names returns the names of the entries in order
*/
func (r *Result) Names() []string {
	names := make([]string, len(r.Entries))
	for i, e := range r.Entries {
		names[i] = e.Name
	}
	return names
}
