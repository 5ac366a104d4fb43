package dataset

import (
	"math"

	"github.com/pbanos/mfe/attribute"
)

/*
SturgesBins returns the number of bins suggested by Sturges' rule for a
sample of n values: ceil(log2(n)) + 1, and 1 for samples with less than 2
values.
*/
func SturgesBins(n int) int {
	if n < 2 {
		return 1
	}
	return int(math.Ceil(math.Log2(float64(n)))) + 1
}

/*
Intervals takes a continuous attribute, the minimum and maximum values it
takes and a number of bins and returns the interval criteria of the
equal-width bins covering the range. The first and last intervals are open
so that every non-NaN value satisfies exactly one of them.
*/
func Intervals(a *attribute.ContinuousAttribute, min, max float64, bins int) []attribute.IntervalCriterion {
	if bins < 1 || !(max > min) {
		return []attribute.IntervalCriterion{attribute.NewIntervalCriterion(a, math.Inf(-1), math.Inf(1))}
	}
	width := (max - min) / float64(bins)
	result := make([]attribute.IntervalCriterion, 0, bins)
	lower := math.Inf(-1)
	for k := 1; k < bins; k++ {
		upper := min + float64(k)*width
		result = append(result, attribute.NewIntervalCriterion(a, lower, upper))
		lower = upper
	}
	return append(result, attribute.NewIntervalCriterion(a, lower, math.Inf(1)))
}

func discretize(a *attribute.ContinuousAttribute, x [][]interface{}, j, bins int) []float64 {
	min, max := math.Inf(1), math.Inf(-1)
	for _, row := range x {
		v := floatValue(row[j])
		if math.IsNaN(v) {
			continue
		}
		min = math.Min(min, v)
		max = math.Max(max, v)
	}
	intervals := Intervals(a, min, max, bins)
	codes := make([]float64, len(x))
	for i, row := range x {
		codes[i] = math.NaN()
		for k, ic := range intervals {
			if ic.SatisfiedBy(row[j]) {
				codes[i] = float64(k)
				break
			}
		}
	}
	return codes
}

// encodeOneHot returns one column per available value, NaN across all of them for missing values
func encodeOneHot(a *attribute.DiscreteAttribute, x [][]interface{}, j int) ([][]float64, []string) {
	values := a.AvailableValues()
	columns := make([][]float64, 0, len(values))
	names := make([]string, 0, len(values))
	for _, v := range values {
		vc := attribute.NewValueCriterion(a, v)
		col := make([]float64, len(x))
		for i, row := range x {
			switch {
			case row[j] == nil:
				col[i] = math.NaN()
			case vc.SatisfiedBy(row[j]):
				col[i] = 1
			}
		}
		columns = append(columns, col)
		names = append(names, a.Name()+"_"+v)
	}
	return columns, names
}
