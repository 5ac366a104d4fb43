package metafeature

import (
	"context"
	"fmt"
	"strconv"

	"github.com/pbanos/mfe/dataset"
	"gonum.org/v1/gonum/mat"
)

/*
ArgumentError is the error returned by the accessors of Args when a
routine reads an argument it did not declare, or an argument whose value
does not have the expected type. The latter happens when users override a
parameter with a value of the wrong type.
*/
type ArgumentError struct {
	Routine string
	Param   string
	Reason  string
}

func (ae *ArgumentError) Error() string {
	return fmt.Sprintf("argument %s of %s: %s", ae.Param, ae.Routine, ae.Reason)
}

/*
Args holds the resolved arguments of a routine invocation, indexed by
parameter name. Parameters declared as optional without default that could
not be resolved are absent.
*/
type Args struct {
	ctx     context.Context
	routine string
	values  map[string]interface{}
}

/*
NewArgs takes the name of a routine and its resolved arguments and returns
the Args to invoke it with.
*/
func NewArgs(routine string, values map[string]interface{}) *Args {
	if values == nil {
		values = make(map[string]interface{})
	}
	return &Args{context.Background(), routine, values}
}

/*
WithContext returns a copy of the arguments carrying the given context, for
routines that perform long computations that should honor cancellation.
*/
func (a *Args) WithContext(ctx context.Context) *Args {
	return &Args{ctx, a.routine, a.values}
}

/*
Context returns the context of the invocation
*/
func (a *Args) Context() context.Context {
	return a.ctx
}

/*
Has returns whether an argument was resolved for the given parameter
*/
func (a *Args) Has(name string) bool {
	_, ok := a.values[name]
	return ok
}

/*
Get returns the argument for the given parameter or an ArgumentError if
there is none.
*/
func (a *Args) Get(name string) (interface{}, error) {
	v, ok := a.values[name]
	if !ok {
		return nil, a.errorf(name, "not resolved")
	}
	return v, nil
}

/*
Dataset returns the argument for the given parameter as a *dataset.Dataset
*/
func (a *Args) Dataset(name string) (*dataset.Dataset, error) {
	v, err := a.Get(name)
	if err != nil {
		return nil, err
	}
	d, ok := v.(*dataset.Dataset)
	if !ok || d == nil {
		return nil, a.errorf(name, fmt.Sprintf("expected dataset, got %T", v))
	}
	return d, nil
}

/*
Matrix returns the argument for the given parameter as a *mat.Dense, which
may be nil for empty matrices.
*/
func (a *Args) Matrix(name string) (*mat.Dense, error) {
	v, err := a.Get(name)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, nil
	}
	m, ok := v.(*mat.Dense)
	if !ok {
		return nil, a.errorf(name, fmt.Sprintf("expected matrix, got %T", v))
	}
	return m, nil
}

/*
SymMatrix returns the argument for the given parameter as a *mat.SymDense,
which may be nil for empty matrices.
*/
func (a *Args) SymMatrix(name string) (*mat.SymDense, error) {
	v, err := a.Get(name)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, nil
	}
	m, ok := v.(*mat.SymDense)
	if !ok {
		return nil, a.errorf(name, fmt.Sprintf("expected symmetric matrix, got %T", v))
	}
	return m, nil
}

/*
Strings returns the argument for the given parameter as a []string
*/
func (a *Args) Strings(name string) ([]string, error) {
	v, err := a.Get(name)
	if err != nil {
		return nil, err
	}
	switch s := v.(type) {
	case nil:
		return nil, nil
	case []string:
		return s, nil
	case []interface{}:
		result := make([]string, len(s))
		for i, e := range s {
			result[i] = fmt.Sprintf("%v", e)
		}
		return result, nil
	}
	return nil, a.errorf(name, fmt.Sprintf("expected string list, got %T", v))
}

/*
Ints returns the argument for the given parameter as an []int
*/
func (a *Args) Ints(name string) ([]int, error) {
	v, err := a.Get(name)
	if err != nil {
		return nil, err
	}
	switch s := v.(type) {
	case nil:
		return nil, nil
	case []int:
		return s, nil
	case []interface{}:
		result := make([]int, len(s))
		for i, e := range s {
			n, ok := toInt(e)
			if !ok {
				return nil, a.errorf(name, fmt.Sprintf("expected integer list, got element %v of type %T", e, e))
			}
			result[i] = n
		}
		return result, nil
	}
	return nil, a.errorf(name, fmt.Sprintf("expected integer list, got %T", v))
}

/*
Floats returns the argument for the given parameter as a []float64
*/
func (a *Args) Floats(name string) ([]float64, error) {
	v, err := a.Get(name)
	if err != nil {
		return nil, err
	}
	switch s := v.(type) {
	case nil:
		return nil, nil
	case []float64:
		return s, nil
	case []interface{}:
		result := make([]float64, len(s))
		for i, e := range s {
			f, ok := toFloat64(e)
			if !ok {
				return nil, a.errorf(name, fmt.Sprintf("expected number list, got element %v of type %T", e, e))
			}
			result[i] = f
		}
		return result, nil
	}
	return nil, a.errorf(name, fmt.Sprintf("expected number list, got %T", v))
}

/*
Float returns the argument for the given parameter as a float64. Integers and
numeric strings are converted.
*/
func (a *Args) Float(name string) (float64, error) {
	v, err := a.Get(name)
	if err != nil {
		return 0, err
	}
	f, ok := toFloat64(v)
	if !ok {
		return 0, a.errorf(name, fmt.Sprintf("expected number, got %T", v))
	}
	return f, nil
}

/*
Int returns the argument for the given parameter as an int. Integral floats
and integer strings are converted.
*/
func (a *Args) Int(name string) (int, error) {
	v, err := a.Get(name)
	if err != nil {
		return 0, err
	}
	n, ok := toInt(v)
	if !ok {
		return 0, a.errorf(name, fmt.Sprintf("expected integer, got %T", v))
	}
	return n, nil
}

/*
Int64 returns the argument for the given parameter as an int64
*/
func (a *Args) Int64(name string) (int64, error) {
	n, err := a.Int(name)
	return int64(n), err
}

/*
String returns the argument for the given parameter as a string
*/
func (a *Args) String(name string) (string, error) {
	v, err := a.Get(name)
	if err != nil {
		return "", err
	}
	s, ok := v.(string)
	if !ok {
		return "", a.errorf(name, fmt.Sprintf("expected string, got %T", v))
	}
	return s, nil
}

/*
Bool returns the argument for the given parameter as a bool
*/
func (a *Args) Bool(name string) (bool, error) {
	v, err := a.Get(name)
	if err != nil {
		return false, err
	}
	b, ok := v.(bool)
	if !ok {
		return false, a.errorf(name, fmt.Sprintf("expected boolean, got %T", v))
	}
	return b, nil
}

func (a *Args) errorf(name, reason string) error {
	return &ArgumentError{Routine: a.routine, Param: name, Reason: reason}
}

func toFloat64(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case int32:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(n, 64)
		return f, err == nil
	}
	return 0, false
}

func toInt(v interface{}) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case int32:
		return int(n), true
	case float64:
		if n != float64(int(n)) {
			return 0, false
		}
		return int(n), true
	case string:
		i, err := strconv.Atoi(n)
		return i, err == nil
	}
	return 0, false
}
