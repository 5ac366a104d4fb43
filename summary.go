package mfe

import (
	"fmt"
	"math"
	"sort"

	mf "github.com/pbanos/mfe/metafeature"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// HistogramBins is the number of bins of the histogram summary
const HistogramBins = 10

/*
SummaryFunc reduces the values of a vector-valued feature. It returns a
single value, or several for summaries such as histograms whose entries get
their position appended to their name.
*/
type SummaryFunc func(v []float64) mf.Value

var summaries = map[string]SummaryFunc{
	"count":     func(v []float64) mf.Value { return mf.Count(len(v)) },
	"histogram": histogram,
	"kurtosis":  defined(func(v []float64) float64 { return stat.ExKurtosis(v, nil) }),
	"max":       defined(floats.Max),
	"mean":      defined(func(v []float64) float64 { return stat.Mean(v, nil) }),
	"median":    defined(median),
	"min":       defined(floats.Min),
	"range":     defined(func(v []float64) float64 { return floats.Max(v) - floats.Min(v) }),
	"sd":        defined(func(v []float64) float64 { return stat.StdDev(v, nil) }),
	"skewness":  defined(func(v []float64) float64 { return stat.Skew(v, nil) }),
	"var":       defined(func(v []float64) float64 { return stat.Variance(v, nil) }),
}

/*
Summaries returns the names of the available summary functions in
ascending order
*/
func Summaries() []string {
	names := make([]string, 0, len(summaries))
	for name := range summaries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

type namedSummary struct {
	name string
	f    SummaryFunc
}

func lookupSummaries(names []string) ([]namedSummary, error) {
	result := make([]namedSummary, 0, len(names))
	for _, name := range names {
		f, ok := summaries[name]
		if !ok {
			return nil, fmt.Errorf("%v: %s", ErrUnknownSummary, name)
		}
		result = append(result, namedSummary{name, f})
	}
	return result, nil
}

/*
summarize takes the entry of a feature and the summaries to apply and
returns the entries to add to the result: the entry itself for scalar
values or when there are no summaries, otherwise one entry per summary
value.
*/
func summarize(e Entry, ss []namedSummary) []Entry {
	if !e.Value.IsVector() || len(ss) == 0 {
		return []Entry{e}
	}
	var result []Entry
	v := e.Value.Vector()
	for _, s := range ss {
		sv := s.f(v)
		if !sv.IsVector() {
			result = append(result, Entry{e.Name + "." + s.name, e.Group, sv})
			continue
		}
		for i, x := range sv.Vector() {
			result = append(result, Entry{fmt.Sprintf("%s.%s.%d", e.Name, s.name, i), e.Group, mf.Scalar(x)})
		}
	}
	return result
}

// defined wraps a reduction so that it yields NaN for empty vectors or vectors holding NaN
func defined(f func([]float64) float64) SummaryFunc {
	return func(v []float64) mf.Value {
		if len(v) == 0 || floats.HasNaN(v) {
			return mf.Undefined()
		}
		return mf.Scalar(f(v))
	}
}

func median(v []float64) float64 {
	sorted := append([]float64(nil), v...)
	sort.Float64s(sorted)
	m := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[m]
	}
	return (sorted[m-1] + sorted[m]) / 2
}

/*
histogram returns the proportion of values falling in each of HistogramBins
equal-width bins spanning the range of the values. When all values are equal
they fall in the middle bin.
*/
func histogram(v []float64) mf.Value {
	result := make([]float64, HistogramBins)
	if len(v) == 0 || floats.HasNaN(v) {
		for i := range result {
			result[i] = math.NaN()
		}
		return mf.Vector(result)
	}
	min, max := floats.Min(v), floats.Max(v)
	for _, x := range v {
		bin := HistogramBins / 2
		if max > min {
			bin = int((x - min) / (max - min) * HistogramBins)
			if bin == HistogramBins {
				bin--
			}
		}
		result[bin]++
	}
	floats.Scale(1/float64(len(v)), result)
	return mf.Vector(result)
}
