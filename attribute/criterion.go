package attribute

import (
	"fmt"
	"math"
)

/*
Criterion represents a constraint on the value of an attribute.

Its SatisfiedBy method takes a value of the attribute and returns a boolean
indicating if the value satisfies the criterion.

Its Attribute method returns the attribute on which the criterion is applied.
*/
type Criterion interface {
	Attribute() Attribute
	SatisfiedBy(value interface{}) bool
}

/*
IntervalCriterion represents a constraint on a continuous attribute, a
range [a, b) that delimits which values it may take. The interval can be open
on one end, thus representing -Infinity or +Infinity.

Its Interval method returns the start and end of the interval to which the
attribute is constrained as a pair of float64 values.
*/
type IntervalCriterion interface {
	Criterion
	Interval() (float64, float64)
}

/*
ValueCriterion represents a constraint on a discrete attribute, a
value it must take.
*/
type ValueCriterion interface {
	Criterion
	Value() string
}

type intervalCriterion struct {
	attribute *ContinuousAttribute
	a, b      float64
}

type valueCriterion struct {
	attribute *DiscreteAttribute
	value     string
}

/*
NewIntervalCriterion takes a ContinuousAttribute and a pair of float64 values
indicating the start and the end of an interval and returns an
IntervalCriterion with the attribute and interval. The interval can be
open on any end by providing -Inf and/or +Inf.
*/
func NewIntervalCriterion(attribute *ContinuousAttribute, a float64, b float64) IntervalCriterion {
	return &intervalCriterion{attribute, a, b}
}

/*
NewValueCriterion takes a DiscreteAttribute and one of its values and returns
a ValueCriterion satisfied only by that value.
*/
func NewValueCriterion(attribute *DiscreteAttribute, value string) ValueCriterion {
	return &valueCriterion{attribute, value}
}

func (ic *intervalCriterion) Attribute() Attribute {
	return ic.attribute
}

/*
SatisfiedBy returns false if the value is missing or not a float64, and
whether it falls in the range defined by the criterion otherwise.
*/
func (ic *intervalCriterion) SatisfiedBy(value interface{}) bool {
	floatVal, ok := value.(float64)
	if !ok || math.IsNaN(floatVal) {
		return false
	}
	return (math.IsInf(ic.a, -1) || ic.a <= floatVal) && (math.IsInf(ic.b, 1) || floatVal < ic.b)
}

func (ic *intervalCriterion) Interval() (float64, float64) {
	return ic.a, ic.b
}

func (ic *intervalCriterion) String() string {
	if math.IsInf(ic.a, 0) {
		return fmt.Sprintf("%s < %f", ic.attribute.Name(), ic.b)
	}
	if math.IsInf(ic.b, 0) {
		return fmt.Sprintf("%f <= %s", ic.a, ic.attribute.Name())
	}
	return fmt.Sprintf("%f <= %s < %f", ic.a, ic.attribute.Name(), ic.b)
}

func (vc *valueCriterion) Attribute() Attribute {
	return vc.attribute
}

/*
SatisfiedBy returns true only when the value is a string equal to the
value of the criterion.
*/
func (vc *valueCriterion) SatisfiedBy(value interface{}) bool {
	stringVal, ok := value.(string)
	if !ok {
		return false
	}
	return vc.value == stringVal
}

func (vc *valueCriterion) Value() string {
	return vc.value
}

func (vc *valueCriterion) String() string {
	return fmt.Sprintf("%s is %s", vc.attribute.Name(), vc.value)
}
