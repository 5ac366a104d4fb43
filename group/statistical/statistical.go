/*
Package statistical provides the statistical meta-features, computed over the
numeric-only view of a dataset: descriptive statistics of its attributes,
measures of their correlation and measures of how the classes relate to them.

Missing values are ignored column by column for statistics of a single
attribute, while statistics relating several attributes only use the
instances with no missing value.
*/
package statistical

import (
	"math"

	"github.com/pbanos/mfe/dataset"
	mf "github.com/pbanos/mfe/metafeature"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// Name is the name of the group
const Name = "statistical"

/*
Group returns the declaration of the statistical group
*/
func Group() mf.Group {
	n := mf.Required(mf.N)
	return mf.Group{
		Name: Name,
		Extractors: []mf.Extractor{
			{Name: "can_cor", Params: []mf.Param{n, mf.Required(mf.Y), mf.Precomputed(mf.CanCors)}, Extract: CanCor},
			{Name: "cor", Params: []mf.Param{n, mf.Precomputed(mf.AbsCorMat)}, Extract: Cor},
			{Name: "cov", Params: []mf.Param{n, mf.Precomputed(mf.CovMat)}, Extract: Cov},
			{Name: "eigenvalues", Params: []mf.Param{n, mf.Precomputed(mf.CovMat)}, Extract: Eigenvalues},
			{Name: "g_mean", Params: []mf.Param{n}, Extract: columnwise(geometricMean)},
			{Name: "gravity", Params: []mf.Param{n, mf.Required(mf.Y)}, Extract: Gravity},
			{Name: "h_mean", Params: []mf.Param{n}, Extract: columnwise(harmonicMean)},
			{Name: "iq_range", Params: []mf.Param{n}, Extract: columnwise(iqRange)},
			{Name: "kurtosis", Params: []mf.Param{n}, Extract: columnwise(kurtosis)},
			{Name: "mad", Params: []mf.Param{n, mf.Optional("factor", 1.4826)}, Extract: MAD},
			{Name: "max", Params: []mf.Param{n}, Extract: columnwise(floats.Max)},
			{Name: "mean", Params: []mf.Param{n}, Extract: columnwise(mean)},
			{Name: "median", Params: []mf.Param{n}, Extract: columnwise(median)},
			{Name: "min", Params: []mf.Param{n}, Extract: columnwise(floats.Min)},
			{Name: "nr_cor_attr", Params: []mf.Param{n, mf.Optional("threshold", 0.5), mf.Precomputed(mf.AbsCorMat)}, Extract: NrCorAttr},
			{Name: "nr_outliers", Params: []mf.Param{n, mf.Optional("whis", 1.5)}, Extract: NrOutliers},
			{Name: "range", Params: []mf.Param{n}, Extract: columnwise(valueRange)},
			{Name: "sd", Params: []mf.Param{n}, Extract: columnwise(sd)},
			{Name: "skewness", Params: []mf.Param{n}, Extract: columnwise(skewness)},
			{Name: "sparsity", Params: []mf.Param{mf.Required(mf.X)}, Extract: Sparsity},
			{Name: "t_mean", Params: []mf.Param{n, mf.Optional("pcut", 0.2)}, Extract: TMean},
			{Name: "var", Params: []mf.Param{n}, Extract: columnwise(variance)},
		},
		Precomputations: []mf.Precomputation{
			{
				Name:       "matrices",
				Params:     []mf.Param{n},
				Provides:   []mf.Key{mf.CovMat, mf.AbsCorMat},
				Precompute: PrecomputeMatrices,
			},
			{
				Name:       "can_cors",
				Params:     []mf.Param{n, mf.Required(mf.Y)},
				Provides:   []mf.Key{mf.CanCors},
				Precompute: PrecomputeCanCors,
			},
		},
	}
}

/*
PrecomputeMatrices contributes the covariance matrix of the attributes of N
and the matrix of absolute values of their correlations. Nothing is
contributed when N has less than 2 complete instances.
*/
func PrecomputeMatrices(args *mf.Args, pool mf.PoolReader) (map[mf.Key]interface{}, error) {
	n, err := args.Matrix(string(mf.N))
	if err != nil {
		return nil, err
	}
	complete, _ := completeRows(n, nil)
	if complete == nil {
		return nil, nil
	}
	result := make(map[mf.Key]interface{})
	if !pool.Has(mf.CovMat) {
		result[mf.CovMat] = covarianceMatrix(complete)
	}
	if !pool.Has(mf.AbsCorMat) {
		result[mf.AbsCorMat] = absCorrelationMatrix(complete)
	}
	return result, nil
}

/*
PrecomputeCanCors contributes the canonical correlations between the
attributes of N and the classes of the target vector. Nothing is contributed
for unsupervised datasets or when the correlations are not defined.
*/
func PrecomputeCanCors(args *mf.Args, pool mf.PoolReader) (map[mf.Key]interface{}, error) {
	if pool.Has(mf.CanCors) {
		return nil, nil
	}
	n, err := args.Matrix(string(mf.N))
	if err != nil {
		return nil, err
	}
	y, err := args.Strings(string(mf.Y))
	if err != nil {
		return nil, err
	}
	corrs, ok := canonicalCorrelations(n, y)
	if !ok {
		return nil, nil
	}
	return map[mf.Key]interface{}{mf.CanCors: corrs}, nil
}

/*
CanCor returns the canonical correlations between the attributes of N and
the one-hot encoded classes, NaN when they are not defined.
*/
func CanCor(args *mf.Args) (mf.Value, error) {
	if args.Has(string(mf.CanCors)) {
		corrs, err := args.Floats(string(mf.CanCors))
		if err != nil {
			return mf.Value{}, err
		}
		return mf.Vector(corrs), nil
	}
	n, err := args.Matrix(string(mf.N))
	if err != nil {
		return mf.Value{}, err
	}
	y, err := args.Strings(string(mf.Y))
	if err != nil {
		return mf.Value{}, err
	}
	corrs, ok := canonicalCorrelations(n, y)
	if !ok {
		return mf.Undefined(), nil
	}
	return mf.Vector(corrs), nil
}

/*
Cor returns the absolute correlation of every pair of distinct attributes
*/
func Cor(args *mf.Args) (mf.Value, error) {
	m, err := pairMatrix(args, mf.AbsCorMat, absCorrelationMatrix)
	if err != nil || m == nil {
		return mf.Undefined(), err
	}
	return mf.Vector(upperTriangle(m)), nil
}

/*
Cov returns the absolute covariance of every pair of distinct attributes
*/
func Cov(args *mf.Args) (mf.Value, error) {
	m, err := pairMatrix(args, mf.CovMat, covarianceMatrix)
	if err != nil || m == nil {
		return mf.Undefined(), err
	}
	result := upperTriangle(m)
	for i, v := range result {
		result[i] = math.Abs(v)
	}
	return mf.Vector(result), nil
}

/*
Eigenvalues returns the eigenvalues of the covariance matrix in ascending
order
*/
func Eigenvalues(args *mf.Args) (mf.Value, error) {
	m, err := pairMatrix(args, mf.CovMat, covarianceMatrix)
	if err != nil || m == nil {
		return mf.Undefined(), err
	}
	var es mat.EigenSym
	if ok := es.Factorize(m, false); !ok {
		return mf.Undefined(), nil
	}
	return mf.Vector(es.Values(nil)), nil
}

/*
NrCorAttr returns the proportion of pairs of distinct attributes whose
absolute correlation is greater or equal to the threshold parameter
*/
func NrCorAttr(args *mf.Args) (mf.Value, error) {
	threshold, err := args.Float("threshold")
	if err != nil {
		return mf.Value{}, err
	}
	m, err := pairMatrix(args, mf.AbsCorMat, absCorrelationMatrix)
	if err != nil || m == nil {
		return mf.Undefined(), err
	}
	pairs := upperTriangle(m)
	if len(pairs) == 0 {
		return mf.Undefined(), nil
	}
	var count int
	for _, v := range pairs {
		if v >= threshold {
			count++
		}
	}
	return mf.Scalar(float64(count) / float64(len(pairs))), nil
}

/*
Gravity returns the euclidean distance between the centers of mass of the
instances of the majority class and the minority class. Ties are broken in
favour of the class that comes first in ascending order.
*/
func Gravity(args *mf.Args) (mf.Value, error) {
	n, err := args.Matrix(string(mf.N))
	if err != nil {
		return mf.Value{}, err
	}
	y, err := args.Strings(string(mf.Y))
	if err != nil {
		return mf.Value{}, err
	}
	complete, labels := completeRows(n, y)
	if complete == nil || len(labels) == 0 {
		return mf.Undefined(), nil
	}
	classes, codes := dataset.EncodeLabels(labels)
	freqs := make([]int, len(classes))
	for _, c := range codes {
		freqs[c]++
	}
	var majority, minority int
	for c, f := range freqs {
		if f > freqs[majority] {
			majority = c
		}
		if f < freqs[minority] {
			minority = c
		}
	}
	return mf.Scalar(floats.Distance(centerOf(complete, codes, majority), centerOf(complete, codes, minority), 2)), nil
}

/*
NrOutliers returns the number of attributes with at least one value out of
the whiskers of Tukey's boxplot: further than whis times the interquartile
range from the first or third quartile.
*/
func NrOutliers(args *mf.Args) (mf.Value, error) {
	whis, err := args.Float("whis")
	if err != nil {
		return mf.Value{}, err
	}
	n, err := args.Matrix(string(mf.N))
	if err != nil {
		return mf.Value{}, err
	}
	if n == nil {
		return mf.Undefined(), nil
	}
	var count int
	for _, col := range columns(n) {
		if len(col) == 0 {
			continue
		}
		q1, q3 := quantile(col, 0.25), quantile(col, 0.75)
		whisker := whis * (q3 - q1)
		if col[0] < q1-whisker || col[len(col)-1] > q3+whisker {
			count++
		}
	}
	return mf.Count(count), nil
}

func pairMatrix(args *mf.Args, k mf.Key, compute func(*mat.Dense) *mat.SymDense) (*mat.SymDense, error) {
	if args.Has(string(k)) {
		return args.SymMatrix(string(k))
	}
	n, err := args.Matrix(string(mf.N))
	if err != nil {
		return nil, err
	}
	complete, _ := completeRows(n, nil)
	if complete == nil {
		return nil, nil
	}
	return compute(complete), nil
}

func covarianceMatrix(x *mat.Dense) *mat.SymDense {
	var cov mat.SymDense
	stat.CovarianceMatrix(&cov, x, nil)
	return &cov
}

func absCorrelationMatrix(x *mat.Dense) *mat.SymDense {
	var cor mat.SymDense
	stat.CorrelationMatrix(&cor, x, nil)
	r := cor.SymmetricDim()
	for i := 0; i < r; i++ {
		for j := i; j < r; j++ {
			cor.SetSym(i, j, math.Abs(cor.At(i, j)))
		}
	}
	return &cor
}

func upperTriangle(m *mat.SymDense) []float64 {
	r := m.SymmetricDim()
	result := make([]float64, 0, r*(r-1)/2)
	for i := 0; i < r; i++ {
		for j := i + 1; j < r; j++ {
			result = append(result, m.At(i, j))
		}
	}
	return result
}

/*
canonicalCorrelations returns the canonical correlations between x and the
one-hot encoding of y without its last class, whose column is a linear
combination of the others. The second value is false when they are not
defined: no complete instances, a single class or a singular matrix.
*/
func canonicalCorrelations(x *mat.Dense, y []string) ([]float64, bool) {
	complete, labels := completeRows(x, y)
	if complete == nil || len(labels) == 0 {
		return nil, false
	}
	classes, codes := dataset.EncodeLabels(labels)
	r, c := complete.Dims()
	k := len(classes) - 1
	if k < 1 || r <= c+k {
		return nil, false
	}
	oneHot := mat.NewDense(r, k, nil)
	for i, code := range codes {
		if code < k {
			oneHot.Set(i, code, 1)
		}
	}
	var cc stat.CC
	if err := cc.CanonicalCorrelations(complete, oneHot, nil); err != nil {
		return nil, false
	}
	return cc.CorrsTo(nil), true
}

func centerOf(x *mat.Dense, codes []int, class int) []float64 {
	_, c := x.Dims()
	result := make([]float64, c)
	var count float64
	for i, code := range codes {
		if code != class {
			continue
		}
		floats.Add(result, x.RawRowView(i))
		count++
	}
	floats.Scale(1/count, result)
	return result
}

/*
completeRows returns the rows of x that have no missing value, along with
their labels when y is not empty. It returns nil when there are less than 2
such rows.
*/
func completeRows(x *mat.Dense, y []string) (*mat.Dense, []string) {
	if x == nil {
		return nil, nil
	}
	r, c := x.Dims()
	var data []float64
	var labels []string
	for i := 0; i < r; i++ {
		row := x.RawRowView(i)
		if floats.HasNaN(row) {
			continue
		}
		data = append(data, row...)
		if len(y) > 0 {
			labels = append(labels, y[i])
		}
	}
	if len(data) < 2*c {
		return nil, nil
	}
	return mat.NewDense(len(data)/c, c, data), labels
}
