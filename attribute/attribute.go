/*
Package attribute describes the columns of a dataset: discrete (categorical)
attributes that take a value among a finite set and continuous (numeric)
attributes that take float64 values.
*/
package attribute

import "fmt"

/*
Attribute represents a property of the instances of a dataset
*/
type Attribute interface {
	Name() string
	Valid(interface{}) (bool, error)
}

/*
DiscreteAttribute represents a property that can only take a value among a
finite set.
*/
type DiscreteAttribute struct {
	name            string
	availableValues []string
}

/*
ContinuousAttribute represents a property that can take a numeric value
*/
type ContinuousAttribute struct {
	name string
}

/*
NewDiscrete takes a name string and a slice of available value strings
and returns a discrete attribute with the given name and available values.
*/
func NewDiscrete(name string, availableValues []string) *DiscreteAttribute {
	return &DiscreteAttribute{name, availableValues}
}

/*
NewContinuous takes a name string and returns a continuous attribute with
the given name.
*/
func NewContinuous(name string) *ContinuousAttribute {
	return &ContinuousAttribute{name}
}

/*
IsDiscrete returns whether the given attribute takes its values from a finite
set.
*/
func IsDiscrete(a Attribute) bool {
	_, ok := a.(*DiscreteAttribute)
	return ok
}

/*
Name returns a string with the name of the attribute
*/
func (da *DiscreteAttribute) Name() string {
	return da.name
}

/*
Valid receives an interface value and returns a boolean and an error. When the
value parameter is included in the available values of the attribute, the method
returns true and nil. Otherwise it returns false and an error describing the
reason. A nil value stands for a missing value and is always valid.
*/
func (da *DiscreteAttribute) Valid(value interface{}) (bool, error) {
	if value == nil {
		return true, nil
	}
	vs, ok := value.(string)
	if !ok {
		return false, fmt.Errorf("discrete attribute %s expects string value, got %T value", da.Name(), value)
	}
	for _, av := range da.availableValues {
		if av == vs {
			return true, nil
		}
	}
	return false, fmt.Errorf("discrete attribute %s got unknown value %s", da.Name(), vs)
}

/*
AvailableValues returns a string slice with the values available for the attribute
*/
func (da *DiscreteAttribute) AvailableValues() []string {
	return da.availableValues
}

func (da *DiscreteAttribute) String() string {
	return da.name
}

/*
Name returns a string with the name of the attribute
*/
func (ca *ContinuousAttribute) Name() string {
	return ca.name
}

/*
Valid receives an interface value and returns a boolean and an error. When the
value parameter is a float64 it returns true and nil, otherwise it returns
false and an error describing the reason.
*/
func (ca *ContinuousAttribute) Valid(value interface{}) (bool, error) {
	if value == nil {
		return true, nil
	}
	_, ok := value.(float64)
	if !ok {
		return false, fmt.Errorf("continuous attribute %s expects float64 value, got %T value", ca.Name(), value)
	}
	return true, nil
}

func (ca *ContinuousAttribute) String() string {
	return ca.name
}
