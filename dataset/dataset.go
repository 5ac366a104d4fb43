/*
Package dataset provides the Dataset from which meta-features are extracted:
the attribute matrix, the target vector and the numeric-only and
categorical-only views derived from them.
*/
package dataset

import (
	"fmt"
	"math"
	"sort"

	"github.com/pbanos/mfe/attribute"
	"gonum.org/v1/gonum/mat"
)

/*
Dataset represents a collection of instances described by attributes, with an
optional class label for each of them.

X holds the original values, row by row: float64 for continuous attributes,
string for discrete ones and nil for missing values.

Y holds the class label of each instance. It is empty for unlabelled
datasets.

N is the numeric-only view of X: its continuous columns followed, when the
categorical transformation is enabled, by the one-hot encoding of its
discrete columns. Missing values are NaN. N is nil when there are no rows or
no columns for it.

C is the categorical-only view of X: the category codes of its discrete
columns followed, when the numeric transformation is enabled, by the bin
codes of its discretized continuous columns. Missing values are NaN. C is nil
when there are no rows or no columns for it.

CatCols and NumCols hold the indices of the discrete and continuous columns
of X respectively.
*/
type Dataset struct {
	Attributes []attribute.Attribute
	X          [][]interface{}
	Y          []string
	N          *mat.Dense
	C          *mat.Dense
	NColumns   []string
	CColumns   []string
	CatCols    []int
	NumCols    []int
}

/*
Options holds the configuration of the transformations applied when
deriving N and C from X.
*/
type Options struct {
	// TransformCategorical enables the one-hot encoding of discrete
	// attributes into N.
	TransformCategorical bool
	// TransformNumeric enables the discretization of continuous
	// attributes into C.
	TransformNumeric bool
	// Bins is the number of equal-width bins used to discretize
	// continuous attributes. When 0, Sturges' rule is used.
	Bins int
}

/*
DefaultOptions returns Options with both transformations enabled and bins
computed with Sturges' rule.
*/
func DefaultOptions() Options {
	return Options{TransformCategorical: true, TransformNumeric: true}
}

/*
New takes a slice of attributes, a label attribute, a slice of samples and
Options and returns a Dataset built with the values of the samples for the
attributes and label, or an error if any value cannot be obtained or is not
valid for its attribute. The label may be nil to build an unlabelled dataset.
*/
func New(attributes []attribute.Attribute, label attribute.Attribute, samples []Sample, opts Options) (*Dataset, error) {
	x := make([][]interface{}, 0, len(samples))
	var y []string
	for i, s := range samples {
		row := make([]interface{}, len(attributes))
		for j, a := range attributes {
			v, err := s.ValueFor(a)
			if err != nil {
				return nil, fmt.Errorf("obtaining value of %s for sample %d: %v", a.Name(), i, err)
			}
			row[j] = v
		}
		x = append(x, row)
		if label == nil {
			continue
		}
		v, err := s.ValueFor(label)
		if err != nil {
			return nil, fmt.Errorf("obtaining label %s for sample %d: %v", label.Name(), i, err)
		}
		if v == nil {
			return nil, fmt.Errorf("sample %d has no value for label %s", i, label.Name())
		}
		vString, ok := v.(string)
		if !ok {
			vString = fmt.Sprintf("%v", v)
		}
		y = append(y, vString)
	}
	return FromRows(attributes, x, y, opts)
}

/*
FromRows takes a slice of attributes, the rows of the attribute matrix, the
target vector and Options and returns the Dataset for them or an error if the
rows or target do not match the attributes or the number of instances.
*/
func FromRows(attributes []attribute.Attribute, x [][]interface{}, y []string, opts Options) (*Dataset, error) {
	if len(y) != 0 && len(y) != len(x) {
		return nil, fmt.Errorf("target has %d values for %d instances", len(y), len(x))
	}
	for i, row := range x {
		if len(row) != len(attributes) {
			return nil, fmt.Errorf("instance %d has %d values for %d attributes", i, len(row), len(attributes))
		}
		for j, v := range row {
			if ok, err := attributes[j].Valid(v); !ok {
				return nil, fmt.Errorf("instance %d: %v", i, err)
			}
		}
	}
	d := &Dataset{Attributes: attributes, X: x, Y: y}
	for j, a := range attributes {
		if attribute.IsDiscrete(a) {
			d.CatCols = append(d.CatCols, j)
		} else {
			d.NumCols = append(d.NumCols, j)
		}
	}
	d.buildNumeric(opts)
	d.buildCategorical(opts)
	return d, nil
}

/*
Rows returns the number of instances in the dataset
*/
func (d *Dataset) Rows() int {
	return len(d.X)
}

/*
Cols returns the number of attributes in the dataset
*/
func (d *Dataset) Cols() int {
	return len(d.Attributes)
}

/*
Labelled returns whether the dataset has a class label for its instances
*/
func (d *Dataset) Labelled() bool {
	return len(d.Y) > 0
}

func (d *Dataset) buildNumeric(opts Options) {
	var columns [][]float64
	for _, j := range d.NumCols {
		col := make([]float64, len(d.X))
		for i, row := range d.X {
			col[i] = floatValue(row[j])
		}
		columns = append(columns, col)
		d.NColumns = append(d.NColumns, d.Attributes[j].Name())
	}
	if opts.TransformCategorical {
		for _, j := range d.CatCols {
			oneHot, names := encodeOneHot(d.Attributes[j].(*attribute.DiscreteAttribute), d.X, j)
			columns = append(columns, oneHot...)
			d.NColumns = append(d.NColumns, names...)
		}
	}
	d.N = denseFromColumns(len(d.X), columns)
}

func (d *Dataset) buildCategorical(opts Options) {
	var columns [][]float64
	for _, j := range d.CatCols {
		da := d.Attributes[j].(*attribute.DiscreteAttribute)
		codes := make(map[string]int)
		for k, v := range da.AvailableValues() {
			codes[v] = k
		}
		col := make([]float64, len(d.X))
		for i, row := range d.X {
			col[i] = math.NaN()
			if v, ok := row[j].(string); ok {
				col[i] = float64(codes[v])
			}
		}
		columns = append(columns, col)
		d.CColumns = append(d.CColumns, da.Name())
	}
	if opts.TransformNumeric {
		bins := opts.Bins
		if bins <= 0 {
			bins = SturgesBins(len(d.X))
		}
		for _, j := range d.NumCols {
			ca := d.Attributes[j].(*attribute.ContinuousAttribute)
			columns = append(columns, discretize(ca, d.X, j, bins))
			d.CColumns = append(d.CColumns, ca.Name())
		}
	}
	d.C = denseFromColumns(len(d.X), columns)
}

/*
EncodeLabels takes a target vector and returns its distinct classes in
ascending order and the index of the class of each instance in that slice.
*/
func EncodeLabels(y []string) ([]string, []int) {
	seen := make(map[string]bool)
	var classes []string
	for _, v := range y {
		if !seen[v] {
			seen[v] = true
			classes = append(classes, v)
		}
	}
	sort.Strings(classes)
	index := make(map[string]int, len(classes))
	for i, c := range classes {
		index[c] = i
	}
	codes := make([]int, len(y))
	for i, v := range y {
		codes[i] = index[v]
	}
	return classes, codes
}

func floatValue(v interface{}) float64 {
	f, ok := v.(float64)
	if !ok {
		return math.NaN()
	}
	return f
}

func denseFromColumns(rows int, columns [][]float64) *mat.Dense {
	if rows == 0 || len(columns) == 0 {
		return nil
	}
	m := mat.NewDense(rows, len(columns), nil)
	for j, col := range columns {
		m.SetCol(j, col)
	}
	return m
}
