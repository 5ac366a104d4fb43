/*
Package general provides the general meta-features: simple measures of the
shape of a dataset, such as its number of instances, attributes and classes.
*/
package general

import (
	"math"

	"github.com/pbanos/mfe/dataset"
	mf "github.com/pbanos/mfe/metafeature"
)

// Name is the name of the group
const Name = "general"

/*
Group returns the declaration of the general group
*/
func Group() mf.Group {
	return mf.Group{
		Name: Name,
		Extractors: []mf.Extractor{
			{Name: "attr_to_inst", Params: []mf.Param{mf.Required(mf.X)}, Extract: AttrToInst},
			{Name: "cat_to_num", Params: []mf.Param{mf.Required(mf.X), mf.Required(mf.CatCols)}, Extract: CatToNum},
			{Name: "freq_class", Params: []mf.Param{mf.Required(mf.Y), mf.Precomputed(mf.ClassFreqs)}, Extract: FreqClass},
			{Name: "inst_to_attr", Params: []mf.Param{mf.Required(mf.X)}, Extract: InstToAttr},
			{Name: "nr_attr", Params: []mf.Param{mf.Required(mf.X)}, Extract: NrAttr},
			{Name: "nr_bin", Params: []mf.Param{mf.Required(mf.X)}, Extract: NrBin},
			{Name: "nr_cat", Params: []mf.Param{mf.Required(mf.CatCols)}, Extract: NrCat},
			{Name: "nr_class", Params: []mf.Param{mf.Optional(string(mf.Y), nil), mf.Precomputed(mf.Classes)}, Extract: NrClass},
			{Name: "nr_inst", Params: []mf.Param{mf.Required(mf.X)}, Extract: NrInst},
			{Name: "nr_num", Params: []mf.Param{mf.Required(mf.X), mf.Required(mf.CatCols)}, Extract: NrNum},
			{Name: "num_to_cat", Params: []mf.Param{mf.Required(mf.X), mf.Required(mf.CatCols)}, Extract: NumToCat},
		},
		Precomputations: []mf.Precomputation{
			{
				Name:       "class",
				Params:     []mf.Param{mf.Optional(string(mf.Y), nil)},
				Provides:   []mf.Key{mf.Classes, mf.ClassFreqs},
				Precompute: PrecomputeClass,
			},
		},
	}
}

/*
PrecomputeClass contributes the distinct classes of the target vector in
ascending order and the number of instances of each of them. Nothing is
contributed for unsupervised datasets or when both values are already
present.
*/
func PrecomputeClass(args *mf.Args, pool mf.PoolReader) (map[mf.Key]interface{}, error) {
	if pool.Has(mf.Classes) && pool.Has(mf.ClassFreqs) {
		return nil, nil
	}
	if !args.Has(string(mf.Y)) {
		return nil, nil
	}
	y, err := args.Strings(string(mf.Y))
	if err != nil {
		return nil, err
	}
	if len(y) == 0 {
		return nil, nil
	}
	classes, freqs := ClassFrequencies(y)
	return map[mf.Key]interface{}{mf.Classes: classes, mf.ClassFreqs: freqs}, nil
}

/*
ClassFrequencies takes a target vector and returns its distinct classes in
ascending order and the number of instances of each of them.
*/
func ClassFrequencies(y []string) ([]string, []int) {
	classes, codes := dataset.EncodeLabels(y)
	freqs := make([]int, len(classes))
	for _, c := range codes {
		freqs[c]++
	}
	return classes, freqs
}

/*
AttrToInst returns the ratio between the number of attributes and the
number of instances, NaN for datasets without instances.
*/
func AttrToInst(args *mf.Args) (mf.Value, error) {
	d, err := args.Dataset(string(mf.X))
	if err != nil {
		return mf.Value{}, err
	}
	return mf.Scalar(ratio(d.Cols(), d.Rows())), nil
}

/*
InstToAttr returns the ratio between the number of instances and the
number of attributes, NaN for datasets without attributes.
*/
func InstToAttr(args *mf.Args) (mf.Value, error) {
	d, err := args.Dataset(string(mf.X))
	if err != nil {
		return mf.Value{}, err
	}
	return mf.Scalar(ratio(d.Rows(), d.Cols())), nil
}

/*
CatToNum returns the ratio between the number of categorical and numeric
attributes. It is NaN when the dataset lacks any of both kinds.
*/
func CatToNum(args *mf.Args) (mf.Value, error) {
	nCat, nNum, err := kinds(args)
	if err != nil {
		return mf.Value{}, err
	}
	if nCat == 0 {
		return mf.Undefined(), nil
	}
	return mf.Scalar(ratio(nCat, nNum)), nil
}

/*
NumToCat returns the ratio between the number of numeric and categorical
attributes. It is NaN when the dataset has no categorical attributes.
*/
func NumToCat(args *mf.Args) (mf.Value, error) {
	nCat, nNum, err := kinds(args)
	if err != nil {
		return mf.Value{}, err
	}
	return mf.Scalar(ratio(nNum, nCat)), nil
}

/*
FreqClass returns the relative frequency of each class, in ascending class
order, or a single NaN for an empty target vector.
*/
func FreqClass(args *mf.Args) (mf.Value, error) {
	y, err := args.Strings(string(mf.Y))
	if err != nil {
		return mf.Value{}, err
	}
	if len(y) == 0 {
		return mf.Vector([]float64{math.NaN()}), nil
	}
	var freqs []int
	if args.Has(string(mf.ClassFreqs)) {
		freqs, err = args.Ints(string(mf.ClassFreqs))
		if err != nil {
			return mf.Value{}, err
		}
	} else {
		_, freqs = ClassFrequencies(y)
	}
	result := make([]float64, len(freqs))
	for i, f := range freqs {
		result[i] = float64(f) / float64(len(y))
	}
	return mf.Vector(result), nil
}

/*
NrAttr returns the number of attributes
*/
func NrAttr(args *mf.Args) (mf.Value, error) {
	d, err := args.Dataset(string(mf.X))
	if err != nil {
		return mf.Value{}, err
	}
	return mf.Count(d.Cols()), nil
}

/*
NrBin returns the number of attributes with exactly two distinct values
*/
func NrBin(args *mf.Args) (mf.Value, error) {
	d, err := args.Dataset(string(mf.X))
	if err != nil {
		return mf.Value{}, err
	}
	var result int
	for j := 0; j < d.Cols(); j++ {
		distinct := make(map[interface{}]bool)
		for _, row := range d.X {
			if row[j] != nil {
				distinct[row[j]] = true
			}
		}
		if len(distinct) == 2 {
			result++
		}
	}
	return mf.Count(result), nil
}

/*
NrCat returns the number of categorical attributes
*/
func NrCat(args *mf.Args) (mf.Value, error) {
	catCols, err := args.Ints(string(mf.CatCols))
	if err != nil {
		return mf.Value{}, err
	}
	return mf.Count(len(catCols)), nil
}

/*
NrClass returns the number of distinct classes, taken from the precomputed
classes when available and from the target vector otherwise. It is NaN when
neither is available, as happens for unsupervised datasets.
*/
func NrClass(args *mf.Args) (mf.Value, error) {
	if args.Has(string(mf.Classes)) {
		classes, err := args.Strings(string(mf.Classes))
		if err != nil {
			return mf.Value{}, err
		}
		return mf.Count(len(classes)), nil
	}
	if !args.Has(string(mf.Y)) {
		return mf.Undefined(), nil
	}
	y, err := args.Strings(string(mf.Y))
	if err != nil {
		return mf.Value{}, err
	}
	if len(y) == 0 {
		return mf.Undefined(), nil
	}
	classes, _ := dataset.EncodeLabels(y)
	return mf.Count(len(classes)), nil
}

/*
NrInst returns the number of instances
*/
func NrInst(args *mf.Args) (mf.Value, error) {
	d, err := args.Dataset(string(mf.X))
	if err != nil {
		return mf.Value{}, err
	}
	return mf.Count(d.Rows()), nil
}

/*
NrNum returns the number of numeric attributes
*/
func NrNum(args *mf.Args) (mf.Value, error) {
	_, nNum, err := kinds(args)
	if err != nil {
		return mf.Value{}, err
	}
	return mf.Count(nNum), nil
}

func kinds(args *mf.Args) (int, int, error) {
	d, err := args.Dataset(string(mf.X))
	if err != nil {
		return 0, 0, err
	}
	catCols, err := args.Ints(string(mf.CatCols))
	if err != nil {
		return 0, 0, err
	}
	return len(catCols), d.Cols() - len(catCols), nil
}

func ratio(a, b int) float64 {
	if b == 0 {
		return math.NaN()
	}
	return float64(a) / float64(b)
}
