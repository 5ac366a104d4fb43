package dataset

import (
	"fmt"

	"github.com/pbanos/mfe/attribute"
)

/*
Sample represents an instance from which a dataset is built.

Its ValueFor method returns the value of the sample corresponding to the attribute
passed as parameter: a float64 for continuous attributes, a string for discrete
ones and nil when the value is missing.
*/
type Sample interface {
	ValueFor(attribute.Attribute) (interface{}, error)
}

type sample struct {
	attributeValues map[string]interface{}
}

/*
NewSample takes a map of attribute string names to values and returns
a sample.
*/
func NewSample(attributeValues map[string]interface{}) Sample {
	return &sample{attributeValues}
}

func (s *sample) ValueFor(a attribute.Attribute) (interface{}, error) {
	return s.attributeValues[a.Name()], nil
}

func (s *sample) String() string {
	return fmt.Sprintf("[%v]", s.attributeValues)
}
