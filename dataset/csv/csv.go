/*
Package csv provides methods to read datasets from CSV streams.
*/
package csv

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/pbanos/mfe/attribute"
	"github.com/pbanos/mfe/dataset"
)

// Missing is the value that indicates an undefined value in CSV content
const Missing = "?"

/*
Read takes an io.Reader for a CSV stream, a slice of attributes, the name of
the column holding the class label and dataset.Options and returns the
dataset.Dataset built with the samples parsed from the reader, or an error.
The label may be empty for unlabelled datasets.

The header or first row of the CSV content is expected to consist of the names
of the attributes in the given slice and the label, in any order. The rest of
the rows should consist of valid values for all of them and/or the '?' string
or an empty string to indicate an undefined value. Rows without label are not
allowed in labelled datasets.
*/
func Read(reader io.Reader, attributes []attribute.Attribute, label string, opts dataset.Options) (*dataset.Dataset, error) {
	samples := []dataset.Sample{}
	err := ReadBySample(reader, attributes, label, func(_ int, s dataset.Sample) (bool, error) {
		samples = append(samples, s)
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	var labelAttribute attribute.Attribute
	if label != "" {
		labelAttribute = attribute.NewDiscrete(label, nil)
	}
	return dataset.New(attributes, labelAttribute, samples, opts)
}

/*
ReadBySample takes an io.Reader for a CSV stream, a slice of attributes, the
name of the label column and a lambda function on an integer and a
dataset.Sample that returns a boolean value. It parses the samples from the
reader and for each it calls the lambda function with the sample and its
index as parameters. If the lambda function returns true, it will continue
processing the next sample, otherwise it will stop. An error is returned if
something goes wrong when reading the stream or parsing a sample.
*/
func ReadBySample(reader io.Reader, attributes []attribute.Attribute, label string, lambda func(int, dataset.Sample) (bool, error)) error {
	r := csv.NewReader(reader)
	header, err := r.Read()
	if err != nil {
		return fmt.Errorf("reading header: %v", err)
	}
	columns, err := parseHeader(header, attributes, label)
	if err != nil {
		return err
	}
	for l := 2; ; l++ {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("reading body: %v", err)
		}
		sample, err := parseRow(row, columns, label)
		if err != nil {
			return fmt.Errorf("parsing line %d: %v", l, err)
		}
		ok, err := lambda(l-2, sample)
		if err != nil {
			return err
		}
		if !ok {
			break
		}
	}
	return nil
}

/*
ReadFile takes a filepath string, a slice of attributes, the name of the
label column and dataset.Options, opens the file to which the filepath
points to and uses Read to return the dataset.Dataset read from it. If the
filepath is empty os.Stdin is read instead.
*/
func ReadFile(filepath string, attributes []attribute.Attribute, label string, opts dataset.Options) (*dataset.Dataset, error) {
	var f *os.File
	var err error
	if filepath == "" {
		f = os.Stdin
	} else {
		f, err = os.Open(filepath)
		if err != nil {
			return nil, fmt.Errorf("reading dataset: %v", err)
		}
	}
	defer f.Close()
	d, err := Read(f, attributes, label, opts)
	if err != nil {
		err = fmt.Errorf("parsing CSV file %s: %v", filepath, err)
	}
	return d, err
}

// parseHeader returns the attribute of every column, nil for the label column
func parseHeader(header []string, attributes []attribute.Attribute, label string) ([]attribute.Attribute, error) {
	byName := make(map[string]attribute.Attribute, len(attributes))
	for _, a := range attributes {
		byName[a.Name()] = a
	}
	columns := make([]attribute.Attribute, len(header))
	seen := make(map[string]bool, len(header))
	for i, name := range header {
		if seen[name] {
			return nil, fmt.Errorf("parsing header: column %s appears twice", name)
		}
		seen[name] = true
		if name == label {
			continue
		}
		a, ok := byName[name]
		if !ok {
			return nil, fmt.Errorf("parsing header: reference to unknown attribute %s", name)
		}
		columns[i] = a
	}
	for _, a := range attributes {
		if !seen[a.Name()] {
			return nil, fmt.Errorf("parsing header: missing column for attribute %s", a.Name())
		}
	}
	if label != "" && !seen[label] {
		return nil, fmt.Errorf("parsing header: missing column for label %s", label)
	}
	return columns, nil
}

func parseRow(row []string, columns []attribute.Attribute, label string) (dataset.Sample, error) {
	values := make(map[string]interface{}, len(columns))
	for i, a := range columns {
		v := row[i]
		if a == nil {
			if v == Missing || v == "" {
				return nil, fmt.Errorf("missing label")
			}
			values[label] = v
			continue
		}
		var value interface{}
		if v != Missing && v != "" {
			if attribute.IsDiscrete(a) {
				value = v
			} else {
				f, err := strconv.ParseFloat(v, 64)
				if err != nil {
					return nil, fmt.Errorf("converting %s to float64: %v", v, err)
				}
				value = f
			}
		}
		if ok, err := a.Valid(value); !ok {
			return nil, fmt.Errorf("invalid value %v of type %T for attribute %s: %v", value, value, a.Name(), err)
		}
		values[a.Name()] = value
	}
	return dataset.NewSample(values), nil
}
