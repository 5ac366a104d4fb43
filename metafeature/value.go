package metafeature

import (
	"fmt"
	"math"
)

/*
Value is the result of an extraction routine: either a single number or a
sequence of numbers. NaN represents an undefined result.
*/
type Value struct {
	scalar   float64
	vector   []float64
	isVector bool
}

/*
Scalar returns a Value holding a single number
*/
func Scalar(f float64) Value {
	return Value{scalar: f}
}

/*
Count returns a Value holding an integer count
*/
func Count(n int) Value {
	return Value{scalar: float64(n)}
}

/*
Vector returns a Value holding a sequence of numbers
*/
func Vector(v []float64) Value {
	return Value{vector: v, isVector: true}
}

/*
Undefined returns a scalar Value holding NaN
*/
func Undefined() Value {
	return Value{scalar: math.NaN()}
}

/*
IsVector returns whether the value holds a sequence of numbers
*/
func (v Value) IsVector() bool {
	return v.isVector
}

/*
Scalar returns the number held by a scalar value, or NaN for vector values
*/
func (v Value) Scalar() float64 {
	if v.isVector {
		return math.NaN()
	}
	return v.scalar
}

/*
Vector returns the numbers held by the value: the sequence of a vector value
or a single-element slice for scalar values.
*/
func (v Value) Vector() []float64 {
	if v.isVector {
		return v.vector
	}
	return []float64{v.scalar}
}

func (v Value) String() string {
	if v.isVector {
		return fmt.Sprintf("%v", v.vector)
	}
	return fmt.Sprintf("%v", v.scalar)
}
