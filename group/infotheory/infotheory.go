/*
Package infotheory provides the information-theoretic meta-features, computed
over the categorical-only view of a dataset and its target vector. Entropies
are measured in bits. Instances with a missing value for an attribute are
ignored when computing measures involving that attribute.
*/
package infotheory

import (
	"math"
	"sort"

	"github.com/pbanos/mfe/dataset"
	mf "github.com/pbanos/mfe/metafeature"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// Name is the name of the group
const Name = "info-theory"

/*
Group returns the declaration of the info-theory group
*/
func Group() mf.Group {
	c, y := mf.Required(mf.C), mf.Required(mf.Y)
	return mf.Group{
		Name:          Name,
		Prerequisites: []string{"general"},
		Extractors: []mf.Extractor{
			{Name: "attr_conc", Params: []mf.Param{c}, Extract: AttrConc},
			{Name: "attr_ent", Params: []mf.Param{c, mf.Precomputed(mf.AttrEnt)}, Extract: AttrEntropy},
			{Name: "class_conc", Params: []mf.Param{c, y}, Extract: ClassConc},
			{Name: "class_ent", Params: []mf.Param{y, mf.Precomputed(mf.ClassEnt), mf.Precomputed(mf.ClassFreqs)}, Extract: ClassEntropy},
			{Name: "eq_num_attr", Params: []mf.Param{c, y, mf.Precomputed(mf.ClassEnt), mf.Precomputed(mf.MutInf)}, Extract: EqNumAttr},
			{Name: "joint_ent", Params: []mf.Param{c, y, mf.Precomputed(mf.JointEnt)}, Extract: JointEntropy},
			{Name: "mut_inf", Params: []mf.Param{c, y, mf.Precomputed(mf.MutInf)}, Extract: MutualInformation},
			{Name: "ns_ratio", Params: []mf.Param{c, y, mf.Precomputed(mf.AttrEnt), mf.Precomputed(mf.MutInf)}, Extract: NSRatio},
		},
		Precomputations: []mf.Precomputation{
			{
				Name:       "entropies",
				Params:     []mf.Param{c, mf.Optional(string(mf.Y), nil), mf.Precomputed(mf.ClassFreqs)},
				Provides:   []mf.Key{mf.ClassEnt, mf.AttrEnt, mf.JointEnt, mf.MutInf},
				Precompute: PrecomputeEntropies,
			},
		},
	}
}

/*
PrecomputeEntropies contributes the entropy of the classes, the entropy of
every attribute of C, the joint entropy of every attribute and the classes,
and the mutual information between every attribute and the classes. Only
the attribute entropies are contributed for unsupervised datasets.
*/
func PrecomputeEntropies(args *mf.Args, pool mf.PoolReader) (map[mf.Key]interface{}, error) {
	c, err := args.Matrix(string(mf.C))
	if err != nil {
		return nil, err
	}
	var y []string
	if args.Has(string(mf.Y)) {
		y, err = args.Strings(string(mf.Y))
		if err != nil {
			return nil, err
		}
	}
	result := make(map[mf.Key]interface{})
	attrEnt, _ := pool.Get(mf.AttrEnt)
	if !pool.Has(mf.AttrEnt) && c != nil {
		attrEnt = attributeEntropies(c)
		result[mf.AttrEnt] = attrEnt
	}
	if len(y) == 0 {
		return result, nil
	}
	classEnt, _ := pool.Get(mf.ClassEnt)
	if !pool.Has(mf.ClassEnt) {
		classEnt, err = classEntropy(args, y)
		if err != nil {
			return nil, err
		}
		result[mf.ClassEnt] = classEnt
	}
	if c == nil {
		return result, nil
	}
	jointEnt, _ := pool.Get(mf.JointEnt)
	if !pool.Has(mf.JointEnt) {
		jointEnt = jointEntropies(c, y)
		result[mf.JointEnt] = jointEnt
	}
	if !pool.Has(mf.MutInf) {
		ae, aeOK := attrEnt.([]float64)
		ce, ceOK := classEnt.(float64)
		je, jeOK := jointEnt.([]float64)
		if aeOK && ceOK && jeOK {
			result[mf.MutInf] = mutualInformation(ae, ce, je)
		}
	}
	return result, nil
}

/*
AttrEntropy returns the entropy of every attribute of C
*/
func AttrEntropy(args *mf.Args) (mf.Value, error) {
	ae, err := attrEnt(args)
	if err != nil || ae == nil {
		return mf.Undefined(), err
	}
	return mf.Vector(ae), nil
}

/*
ClassEntropy returns the entropy of the classes, NaN for unsupervised
datasets
*/
func ClassEntropy(args *mf.Args) (mf.Value, error) {
	ce, err := classEnt(args)
	if err != nil {
		return mf.Value{}, err
	}
	return mf.Scalar(ce), nil
}

/*
JointEntropy returns the joint entropy of every attribute of C and the
classes
*/
func JointEntropy(args *mf.Args) (mf.Value, error) {
	je, err := jointEnt(args)
	if err != nil || je == nil {
		return mf.Undefined(), err
	}
	return mf.Vector(je), nil
}

/*
MutualInformation returns the mutual information between every attribute of
C and the classes
*/
func MutualInformation(args *mf.Args) (mf.Value, error) {
	mi, err := mutInf(args)
	if err != nil || mi == nil {
		return mf.Undefined(), err
	}
	return mf.Vector(mi), nil
}

/*
EqNumAttr returns the number of attributes that would be needed to fully
describe the classes with the mean mutual information of the attributes:
the class entropy divided by that mean. It is NaN when the attributes carry
no information about the classes.
*/
func EqNumAttr(args *mf.Args) (mf.Value, error) {
	ce, err := classEnt(args)
	if err != nil {
		return mf.Value{}, err
	}
	mi, err := mutInf(args)
	if err != nil || mi == nil {
		return mf.Undefined(), err
	}
	return mf.Scalar(divide(ce, stat.Mean(mi, nil))), nil
}

/*
NSRatio returns the noise-signal ratio: the amount of information in the
attributes that is not related to the classes relative to the amount that
is, (mean(attr_ent) - mean(mut_inf)) / mean(mut_inf).
*/
func NSRatio(args *mf.Args) (mf.Value, error) {
	ae, err := attrEnt(args)
	if err != nil || ae == nil {
		return mf.Undefined(), err
	}
	mi, err := mutInf(args)
	if err != nil || mi == nil {
		return mf.Undefined(), err
	}
	meanMI := stat.Mean(mi, nil)
	return mf.Scalar(divide(stat.Mean(ae, nil)-meanMI, meanMI)), nil
}

/*
AttrConc returns the concentration coefficient of every ordered pair of
distinct attributes of C
*/
func AttrConc(args *mf.Args) (mf.Value, error) {
	c, err := args.Matrix(string(mf.C))
	if err != nil || c == nil {
		return mf.Undefined(), err
	}
	_, cols := c.Dims()
	var result []float64
	for i := 0; i < cols; i++ {
		for j := 0; j < cols; j++ {
			if i == j {
				continue
			}
			result = append(result, concentration(mat.Col(nil, i, c), codes(mat.Col(nil, j, c))))
		}
	}
	if result == nil {
		return mf.Undefined(), nil
	}
	return mf.Vector(result), nil
}

/*
ClassConc returns the concentration coefficient of every attribute of C and
the classes
*/
func ClassConc(args *mf.Args) (mf.Value, error) {
	c, err := args.Matrix(string(mf.C))
	if err != nil || c == nil {
		return mf.Undefined(), err
	}
	y, err := args.Strings(string(mf.Y))
	if err != nil {
		return mf.Value{}, err
	}
	if len(y) == 0 {
		return mf.Undefined(), nil
	}
	_, classes := dataset.EncodeLabels(y)
	_, cols := c.Dims()
	result := make([]float64, cols)
	for j := range result {
		result[j] = concentration(mat.Col(nil, j, c), classes)
	}
	return mf.Vector(result), nil
}

func attrEnt(args *mf.Args) ([]float64, error) {
	if args.Has(string(mf.AttrEnt)) {
		return args.Floats(string(mf.AttrEnt))
	}
	c, err := args.Matrix(string(mf.C))
	if err != nil || c == nil {
		return nil, err
	}
	return attributeEntropies(c), nil
}

func classEnt(args *mf.Args) (float64, error) {
	if args.Has(string(mf.ClassEnt)) {
		return args.Float(string(mf.ClassEnt))
	}
	y, err := args.Strings(string(mf.Y))
	if err != nil {
		return 0, err
	}
	if len(y) == 0 {
		return math.NaN(), nil
	}
	return classEntropy(args, y)
}

func jointEnt(args *mf.Args) ([]float64, error) {
	if args.Has(string(mf.JointEnt)) {
		return args.Floats(string(mf.JointEnt))
	}
	c, err := args.Matrix(string(mf.C))
	if err != nil || c == nil {
		return nil, err
	}
	y, err := args.Strings(string(mf.Y))
	if err != nil || len(y) == 0 {
		return nil, err
	}
	return jointEntropies(c, y), nil
}

func mutInf(args *mf.Args) ([]float64, error) {
	if args.Has(string(mf.MutInf)) {
		return args.Floats(string(mf.MutInf))
	}
	ae, err := attrEnt(args)
	if err != nil || ae == nil {
		return nil, err
	}
	je, err := jointEnt(args)
	if err != nil || je == nil {
		return nil, err
	}
	ce, err := classEnt(args)
	if err != nil {
		return nil, err
	}
	return mutualInformation(ae, ce, je), nil
}

func classEntropy(args *mf.Args, y []string) (float64, error) {
	var freqs []int
	if args.Has(string(mf.ClassFreqs)) {
		var err error
		freqs, err = args.Ints(string(mf.ClassFreqs))
		if err != nil {
			return 0, err
		}
	}
	if freqs == nil {
		_, classes := dataset.EncodeLabels(y)
		freqs = counts(classes)
	}
	return entropy(freqs), nil
}

func attributeEntropies(c *mat.Dense) []float64 {
	_, cols := c.Dims()
	result := make([]float64, cols)
	for j := range result {
		result[j] = entropy(counts(codes(mat.Col(nil, j, c))))
	}
	return result
}

func jointEntropies(c *mat.Dense, y []string) []float64 {
	_, classes := dataset.EncodeLabels(y)
	_, cols := c.Dims()
	result := make([]float64, cols)
	for j := range result {
		joint := make(map[[2]int]int)
		for i, v := range mat.Col(nil, j, c) {
			if math.IsNaN(v) {
				continue
			}
			joint[[2]int{int(v), classes[i]}]++
		}
		freqs := make([]int, 0, len(joint))
		for _, f := range joint {
			freqs = append(freqs, f)
		}
		sort.Ints(freqs)
		result[j] = entropy(freqs)
	}
	return result
}

func mutualInformation(attrEnt []float64, classEnt float64, jointEnt []float64) []float64 {
	result := make([]float64, len(attrEnt))
	for j := range result {
		result[j] = attrEnt[j] + classEnt - jointEnt[j]
	}
	return result
}

/*
concentration returns the concentration coefficient (Goodman and Kruskal's
tau) of the category codes in x with respect to the category codes in y,
ignoring instances with a missing value in x or y (-1 codes).
*/
func concentration(x []float64, y []int) float64 {
	joint := make(map[[2]int]float64)
	xMarginal := make(map[int]float64)
	yMarginal := make(map[int]float64)
	var n float64
	for i, v := range x {
		if math.IsNaN(v) || y[i] < 0 {
			continue
		}
		joint[[2]int{int(v), y[i]}]++
		xMarginal[int(v)]++
		yMarginal[y[i]]++
		n++
	}
	if n == 0 {
		return math.NaN()
	}
	keys := make([][2]int, 0, len(joint))
	for k := range joint {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		return keys[i][0] < keys[j][0] || (keys[i][0] == keys[j][0] && keys[i][1] < keys[j][1])
	})
	var jointTerm, yTerm float64
	for _, k := range keys {
		f := joint[k]
		jointTerm += (f / n) * (f / n) / (xMarginal[k[0]] / n)
	}
	yKeys := make([]int, 0, len(yMarginal))
	for k := range yMarginal {
		yKeys = append(yKeys, k)
	}
	sort.Ints(yKeys)
	for _, k := range yKeys {
		yTerm += (yMarginal[k] / n) * (yMarginal[k] / n)
	}
	return divide(jointTerm-yTerm, 1-yTerm)
}

// codes maps missing values to -1
func codes(col []float64) []int {
	result := make([]int, len(col))
	for i, v := range col {
		result[i] = -1
		if !math.IsNaN(v) {
			result[i] = int(v)
		}
	}
	return result
}

// counts ignores negative codes
func counts(codes []int) []int {
	freqs := make(map[int]int)
	for _, c := range codes {
		if c >= 0 {
			freqs[c]++
		}
	}
	result := make([]int, 0, len(freqs))
	for _, f := range freqs {
		result = append(result, f)
	}
	sort.Ints(result)
	return result
}

/*
entropy returns the entropy in bits of the distribution given by the
frequencies, which are summed in ascending order so that the result does
not depend on their order
*/
func entropy(freqs []int) float64 {
	var n float64
	for _, f := range freqs {
		n += float64(f)
	}
	if n == 0 {
		return math.NaN()
	}
	p := make([]float64, len(freqs))
	for i, f := range freqs {
		p[i] = float64(f) / n
	}
	sort.Float64s(p)
	return stat.Entropy(p) / math.Ln2
}

func divide(a, b float64) float64 {
	if b == 0 || math.IsNaN(b) {
		return math.NaN()
	}
	return a / b
}
