/*
Package yaml provides methods to parse the description of the attributes of
a dataset, also known as metadata, from YAML documents.
*/
package yaml

import (
	"fmt"
	"io/ioutil"

	"github.com/pbanos/mfe/attribute"
	yaml "gopkg.in/yaml.v2"
)

// Continuous is the declaration of continuous attributes
const Continuous = "continuous"

/*
Metadata describes the attributes of a dataset in column order and the name
of its class label, empty for unlabelled datasets
*/
type Metadata struct {
	Attributes []attribute.Attribute
	Label      string
}

/*
Read takes a slice of bytes with a metadata specification in YAML and returns
the Metadata parsed from it or an error.

The YAML is expected to be an object containing a features property. The
value for this should be an object with a property for each attribute with
its name and either a string value of 'continuous' for continuous attributes
or a list of valid values for discrete attributes. Attributes keep the order
of the document. An optional label property names the attribute holding the
class label, which is then left out of the attributes.
*/
func Read(md []byte) (*Metadata, error) {
	doc := struct {
		Features yaml.MapSlice
		Label    string
	}{}
	err := yaml.Unmarshal(md, &doc)
	if err != nil {
		return nil, fmt.Errorf("parsing yml metadata: %v", err)
	}
	if doc.Features == nil {
		return nil, fmt.Errorf("metadata has no feature information")
	}
	m := &Metadata{Label: doc.Label}
	var labelFound bool
	for _, item := range doc.Features {
		name := fmt.Sprintf("%v", item.Key)
		if name == doc.Label {
			labelFound = true
			continue
		}
		switch values := item.Value.(type) {
		case string:
			if values != Continuous {
				return nil, fmt.Errorf("invalid declaration %q for feature %s", values, name)
			}
			m.Attributes = append(m.Attributes, attribute.NewContinuous(name))
		case []interface{}:
			stringVs := make([]string, 0, len(values))
			for _, v := range values {
				stringVs = append(stringVs, fmt.Sprintf("%v", v))
			}
			m.Attributes = append(m.Attributes, attribute.NewDiscrete(name, stringVs))
		default:
			return nil, fmt.Errorf("invalid declaration of type %T for feature %s", item.Value, name)
		}
	}
	if doc.Label != "" && !labelFound {
		return nil, fmt.Errorf("label %s is not a declared feature", doc.Label)
	}
	return m, nil
}

/*
ReadFile takes a filepath string, reads its contents and uses Read to parse
it and return the Metadata or an error. If the file indicated by the
filepath cannot be opened for reading an error will be returned.
*/
func ReadFile(filepath string) (*Metadata, error) {
	md, err := ioutil.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("reading metadata yml file %s: %v", filepath, err)
	}
	m, err := Read(md)
	if err != nil {
		err = fmt.Errorf("parsing metadata yml file %s: %v", filepath, err)
	}
	return m, err
}
