package statistical

import (
	"math"
	"sort"

	mf "github.com/pbanos/mfe/metafeature"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

/*
columnwise takes a statistic over the sorted non-missing values of an
attribute and returns the extraction routine computing it for every
attribute of N. Attributes with no values get NaN.
*/
func columnwise(f func([]float64) float64) mf.ExtractFunc {
	return func(args *mf.Args) (mf.Value, error) {
		n, err := args.Matrix(string(mf.N))
		if err != nil {
			return mf.Value{}, err
		}
		if n == nil {
			return mf.Undefined(), nil
		}
		cols := columns(n)
		result := make([]float64, len(cols))
		for j, col := range cols {
			if len(col) == 0 {
				result[j] = math.NaN()
				continue
			}
			result[j] = f(col)
		}
		return mf.Vector(result), nil
	}
}

/*
MAD returns the median absolute deviation of every attribute, scaled by the
factor parameter so that it estimates the standard deviation of normally
distributed data
*/
func MAD(args *mf.Args) (mf.Value, error) {
	factor, err := args.Float("factor")
	if err != nil {
		return mf.Value{}, err
	}
	return columnwise(func(col []float64) float64 {
		m := median(col)
		deviations := make([]float64, len(col))
		for i, v := range col {
			deviations[i] = math.Abs(v - m)
		}
		sort.Float64s(deviations)
		return factor * median(deviations)
	})(args)
}

/*
TMean returns the trimmed mean of every attribute: the mean of its values
after discarding the lowest and highest pcut proportion of them
*/
func TMean(args *mf.Args) (mf.Value, error) {
	pcut, err := args.Float("pcut")
	if err != nil {
		return mf.Value{}, err
	}
	if pcut < 0 || pcut >= 0.5 {
		return mf.Undefined(), nil
	}
	return columnwise(func(col []float64) float64 {
		cut := int(pcut * float64(len(col)))
		return stat.Mean(col[cut:len(col)-cut], nil)
	})(args)
}

/*
Sparsity returns, for every attribute of X, how far its number of distinct
values is from the number of instances, normalized to [0, 1]:
(n / distinct - 1) / (n - 1), ignoring missing values.
*/
func Sparsity(args *mf.Args) (mf.Value, error) {
	d, err := args.Dataset(string(mf.X))
	if err != nil {
		return mf.Value{}, err
	}
	result := make([]float64, d.Cols())
	for j := range result {
		distinct := make(map[interface{}]bool)
		var n int
		for _, row := range d.X {
			if row[j] == nil {
				continue
			}
			distinct[row[j]] = true
			n++
		}
		if n < 2 {
			result[j] = math.NaN()
			continue
		}
		result[j] = (float64(n)/float64(len(distinct)) - 1) / float64(n-1)
	}
	return mf.Vector(result), nil
}

func columns(n *mat.Dense) [][]float64 {
	_, c := n.Dims()
	result := make([][]float64, c)
	for j := range result {
		col := mat.Col(nil, j, n)
		values := col[:0]
		for _, v := range col {
			if !math.IsNaN(v) {
				values = append(values, v)
			}
		}
		sort.Float64s(values)
		result[j] = values
	}
	return result
}

/*
quantile returns the p-quantile of the given sorted values, interpolating
linearly between the two closest ranks
*/
func quantile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return math.NaN()
	}
	pos := p * float64(len(sorted)-1)
	lower := int(math.Floor(pos))
	upper := int(math.Ceil(pos))
	return sorted[lower] + (pos-float64(lower))*(sorted[upper]-sorted[lower])
}

func mean(col []float64) float64 {
	return stat.Mean(col, nil)
}

func median(col []float64) float64 {
	return quantile(col, 0.5)
}

func iqRange(col []float64) float64 {
	return quantile(col, 0.75) - quantile(col, 0.25)
}

func valueRange(col []float64) float64 {
	return floats.Max(col) - floats.Min(col)
}

func sd(col []float64) float64 {
	if len(col) < 2 {
		return math.NaN()
	}
	return stat.StdDev(col, nil)
}

func variance(col []float64) float64 {
	if len(col) < 2 {
		return math.NaN()
	}
	return stat.Variance(col, nil)
}

func skewness(col []float64) float64 {
	if len(col) < 3 {
		return math.NaN()
	}
	return stat.Skew(col, nil)
}

func kurtosis(col []float64) float64 {
	if len(col) < 4 {
		return math.NaN()
	}
	return stat.ExKurtosis(col, nil)
}

// geometric mean is 0 with any zero value and undefined with negative ones
func geometricMean(col []float64) float64 {
	if col[0] < 0 {
		return math.NaN()
	}
	if col[0] == 0 {
		return 0
	}
	return stat.GeometricMean(col, nil)
}

// harmonic mean is only defined for positive values
func harmonicMean(col []float64) float64 {
	if col[0] <= 0 {
		return math.NaN()
	}
	return stat.HarmonicMean(col, nil)
}
