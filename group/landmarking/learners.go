package landmarking

import (
	"context"
	"math"
	"math/rand"

	"github.com/pbanos/mfe/dataset"
	"github.com/pbanos/mfe/tree"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// bestNode is a decision stump on the most informative attribute
func bestNode(s *split, r *rand.Rand) ([]string, error) {
	return stumpOn(s, nil, r)
}

// randomNode is a decision stump on an attribute chosen at random
func randomNode(s *split, r *rand.Rand) ([]string, error) {
	_, c := s.train.Dims()
	return stumpOn(s, []int{r.Intn(c)}, r)
}

// worstNode is a decision stump on the least important attribute of a full tree
func worstNode(s *split, r *rand.Rand) ([]string, error) {
	importances, err := importances(s, r)
	if err != nil {
		return nil, err
	}
	return stumpOn(s, []int{floats.MinIdx(importances)}, r)
}

// eliteNN is 1-NN over the attributes with non-zero importance in a full tree
func eliteNN(s *split, r *rand.Rand) ([]string, error) {
	importances, err := importances(s, r)
	if err != nil {
		return nil, err
	}
	var elite []int
	for j, v := range importances {
		if v > 0 {
			elite = append(elite, j)
		}
	}
	if elite == nil {
		return oneNN(s, r)
	}
	return oneNN(&split{selectCols(s.train, elite), s.trainY, selectCols(s.test, elite)}, r)
}

/*
oneNN predicts the class of the closest training instance by euclidean
distance. Attributes missing on any of the two instances are ignored, and
ties go to the first training instance.
*/
func oneNN(s *split, r *rand.Rand) ([]string, error) {
	testRows, _ := s.test.Dims()
	trainRows, _ := s.train.Dims()
	result := make([]string, testRows)
	for i := 0; i < testRows; i++ {
		row := s.test.RawRowView(i)
		best, bestDist := 0, math.Inf(1)
		for k := 0; k < trainRows; k++ {
			d := distance(row, s.train.RawRowView(k))
			if d < bestDist {
				best, bestDist = k, d
			}
		}
		result[i] = s.trainY[best]
	}
	return result, nil
}

/*
naiveBayes is a gaussian naive Bayes classifier. Variances are smoothed by
a small fraction of the largest variance of any attribute so that constant
attributes do not yield infinite likelihoods.
*/
func naiveBayes(s *split, r *rand.Rand) ([]string, error) {
	classes, codes := dataset.EncodeLabels(s.trainY)
	_, c := s.train.Dims()
	means := make([][]float64, len(classes))
	variances := make([][]float64, len(classes))
	priors := make([]float64, len(classes))
	var smoothing float64
	for j := 0; j < c; j++ {
		col := present(mat.Col(nil, j, s.train))
		if len(col) > 0 {
			_, v := stat.PopMeanVariance(col, nil)
			smoothing = math.Max(smoothing, v)
		}
	}
	smoothing = math.Max(smoothing*1e-9, 1e-12)
	for k := range classes {
		var values [][]float64
		for i, code := range codes {
			if code == k {
				values = append(values, s.train.RawRowView(i))
			}
		}
		priors[k] = float64(len(values)) / float64(len(codes))
		means[k] = make([]float64, c)
		variances[k] = make([]float64, c)
		for j := 0; j < c; j++ {
			col := make([]float64, 0, len(values))
			for _, row := range values {
				if !math.IsNaN(row[j]) {
					col = append(col, row[j])
				}
			}
			if len(col) == 0 {
				means[k][j] = math.NaN()
				continue
			}
			means[k][j], variances[k][j] = stat.PopMeanVariance(col, nil)
			variances[k][j] += smoothing
		}
	}
	testRows, _ := s.test.Dims()
	result := make([]string, testRows)
	for i := 0; i < testRows; i++ {
		row := s.test.RawRowView(i)
		best, bestLog := 0, math.Inf(-1)
		for k := range classes {
			logp := math.Log(priors[k])
			for j, v := range row {
				if math.IsNaN(v) || math.IsNaN(means[k][j]) {
					continue
				}
				d := v - means[k][j]
				logp -= 0.5*math.Log(2*math.Pi*variances[k][j]) + d*d/(2*variances[k][j])
			}
			if logp > bestLog {
				best, bestLog = k, logp
			}
		}
		result[i] = classes[best]
	}
	return result, nil
}

/*
stumpOn fits a decision stump to the given attributes of the training split,
all of them when cols is nil, and predicts the test split with it
*/
func stumpOn(s *split, cols []int, r *rand.Rand) ([]string, error) {
	train, test := s.train, s.test
	if cols != nil {
		train, test = selectCols(train, cols), selectCols(test, cols)
	}
	c := tree.NewClassifier(r.Int63())
	c.Strategy.MaxDepth = 1
	m, err := c.Fit(context.Background(), train, s.trainY)
	if err != nil {
		return nil, err
	}
	return predictAll(m, test)
}

func importances(s *split, r *rand.Rand) ([]float64, error) {
	m, err := tree.NewClassifier(r.Int63()).Fit(context.Background(), s.train, s.trainY)
	if err != nil {
		return nil, err
	}
	return m.FeatureImportances(), nil
}

func predictAll(m *tree.Model, test *mat.Dense) ([]string, error) {
	rows, _ := test.Dims()
	result := make([]string, rows)
	for i := range result {
		p, err := m.Predict(test.RawRowView(i))
		if err != nil {
			return nil, err
		}
		result[i] = p
	}
	return result, nil
}

func selectCols(m *mat.Dense, cols []int) *mat.Dense {
	rows, _ := m.Dims()
	result := mat.NewDense(rows, len(cols), nil)
	for k, j := range cols {
		result.SetCol(k, mat.Col(nil, j, m))
	}
	return result
}

func distance(a, b []float64) float64 {
	var sum float64
	for j := range a {
		if math.IsNaN(a[j]) || math.IsNaN(b[j]) {
			continue
		}
		d := a[j] - b[j]
		sum += d * d
	}
	return math.Sqrt(sum)
}

func present(col []float64) []float64 {
	result := col[:0]
	for _, v := range col {
		if !math.IsNaN(v) {
			result = append(result, v)
		}
	}
	return result
}
