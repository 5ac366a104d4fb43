/*
Package landmarking provides the landmarking meta-features: the performance
of simple and fast learners on a dataset, measured on every fold of a
stratified cross-validation over its numeric-only view.

The fold assignment is precomputed once per extraction, seeded with the
random state of the extraction, so that every learner is evaluated on the
same folds.
*/
package landmarking

import (
	"fmt"
	"math/rand"

	"github.com/pbanos/mfe/dataset"
	mf "github.com/pbanos/mfe/metafeature"
	"gonum.org/v1/gonum/mat"
)

// Name is the name of the group
const Name = "landmarking"

// LandmarkingError represents an error of the landmarking group
type LandmarkingError string

/*
ErrTooFewFolds is the error returned when the cross-validation is configured
with less than 2 folds
*/
const ErrTooFewFolds = LandmarkingError("cross-validation needs at least 2 folds")

func (le LandmarkingError) Error() string {
	return string(le)
}

/*
Group returns the declaration of the landmarking group
*/
func Group() mf.Group {
	params := []mf.Param{
		mf.Required(mf.N),
		mf.Required(mf.Y),
		mf.Required(mf.Folds),
		mf.Required(mf.RandomState),
		mf.Optional("score", Accuracy),
	}
	return mf.Group{
		Name:          Name,
		Prerequisites: []string{"general"},
		Extractors: []mf.Extractor{
			{Name: "best_node", Params: params, Extract: evaluate(bestNode)},
			{Name: "elite_nn", Params: params, Extract: evaluate(eliteNN)},
			{Name: "naive_bayes", Params: params, Extract: evaluate(naiveBayes)},
			{Name: "one_nn", Params: params, Extract: evaluate(oneNN)},
			{Name: "random_node", Params: params, Extract: evaluate(randomNode)},
			{Name: "worst_node", Params: params, Extract: evaluate(worstNode)},
		},
		Precomputations: []mf.Precomputation{
			{
				Name: "folds",
				Params: []mf.Param{
					mf.Optional(string(mf.Y), nil),
					mf.Required(mf.RandomState),
					mf.Optional("num_cv_folds", 10),
				},
				Provides:   []mf.Key{mf.Folds},
				Precompute: PrecomputeFolds,
			},
		},
	}
}

/*
PrecomputeFolds contributes the fold of every instance in a stratified
k-fold cross-validation with num_cv_folds folds. Nothing is contributed for
unsupervised datasets.
*/
func PrecomputeFolds(args *mf.Args, pool mf.PoolReader) (map[mf.Key]interface{}, error) {
	if pool.Has(mf.Folds) || !args.Has(string(mf.Y)) {
		return nil, nil
	}
	y, err := args.Strings(string(mf.Y))
	if err != nil {
		return nil, err
	}
	if len(y) == 0 {
		return nil, nil
	}
	k, err := args.Int("num_cv_folds")
	if err != nil {
		return nil, err
	}
	seed, err := args.Int64(string(mf.RandomState))
	if err != nil {
		return nil, err
	}
	folds, err := StratifiedFolds(y, k, seed)
	if err != nil {
		return nil, err
	}
	return map[mf.Key]interface{}{mf.Folds: folds}, nil
}

/*
StratifiedFolds takes a target vector, a number of folds k and a seed and
returns the fold in [0, k) assigned to every instance. The instances of
every class are shuffled and dealt to the folds in turn, so that the class
proportions of every fold follow those of the whole target vector.
*/
func StratifiedFolds(y []string, k int, seed int64) ([]int, error) {
	if k < 2 {
		return nil, ErrTooFewFolds
	}
	classes, codes := dataset.EncodeLabels(y)
	byClass := make([][]int, len(classes))
	for i, c := range codes {
		byClass[c] = append(byClass[c], i)
	}
	r := rand.New(rand.NewSource(seed))
	folds := make([]int, len(y))
	var next int
	for _, idx := range byClass {
		r.Shuffle(len(idx), func(i, j int) { idx[i], idx[j] = idx[j], idx[i] })
		for _, i := range idx {
			folds[i] = next % k
			next++
		}
	}
	return folds, nil
}

/*
learner trains on the given training split and returns the predicted class
of every row of the test split. It receives a source of randomness seeded
with the random state of the extraction that it must use for every random
decision.
*/
type learner func(s *split, r *rand.Rand) ([]string, error)

type split struct {
	train  *mat.Dense
	trainY []string
	test   *mat.Dense
}

/*
evaluate returns the extraction routine computing the score of the given
learner on every fold of the precomputed cross-validation
*/
func evaluate(l learner) mf.ExtractFunc {
	return func(args *mf.Args) (mf.Value, error) {
		n, err := args.Matrix(string(mf.N))
		if err != nil {
			return mf.Value{}, err
		}
		y, err := args.Strings(string(mf.Y))
		if err != nil {
			return mf.Value{}, err
		}
		folds, err := args.Ints(string(mf.Folds))
		if err != nil {
			return mf.Value{}, err
		}
		seed, err := args.Int64(string(mf.RandomState))
		if err != nil {
			return mf.Value{}, err
		}
		scoreName, err := args.String("score")
		if err != nil {
			return mf.Value{}, err
		}
		score, ok := scores[scoreName]
		if !ok {
			return mf.Value{}, &mf.ArgumentError{Param: "score", Reason: fmt.Sprintf("unknown score %q", scoreName)}
		}
		if n == nil || len(y) == 0 {
			return mf.Undefined(), nil
		}
		rows, cols := n.Dims()
		if cols == 0 {
			return mf.Undefined(), nil
		}
		if len(y) != rows || len(folds) != rows {
			return mf.Value{}, fmt.Errorf("%d instances, %d labels and %d fold assignments", rows, len(y), len(folds))
		}
		r := rand.New(rand.NewSource(seed))
		var result []float64
		for f := 0; f <= maxOf(folds); f++ {
			if err := args.Context().Err(); err != nil {
				return mf.Value{}, err
			}
			var trainIdx, testIdx []int
			for i, fi := range folds {
				if fi == f {
					testIdx = append(testIdx, i)
				} else {
					trainIdx = append(trainIdx, i)
				}
			}
			if len(trainIdx) == 0 || len(testIdx) == 0 {
				continue
			}
			s := &split{
				train:  subRows(n, trainIdx),
				trainY: subLabels(y, trainIdx),
				test:   subRows(n, testIdx),
			}
			predicted, err := l(s, r)
			if err != nil {
				return mf.Value{}, err
			}
			result = append(result, score(subLabels(y, testIdx), predicted))
		}
		if result == nil {
			return mf.Undefined(), nil
		}
		return mf.Vector(result), nil
	}
}

func subRows(m *mat.Dense, idx []int) *mat.Dense {
	_, c := m.Dims()
	result := mat.NewDense(len(idx), c, nil)
	for i, r := range idx {
		result.SetRow(i, m.RawRowView(r))
	}
	return result
}

func subLabels(y []string, idx []int) []string {
	result := make([]string, len(idx))
	for i, r := range idx {
		result[i] = y[r]
	}
	return result
}

func maxOf(v []int) int {
	result := -1
	for _, e := range v {
		if e > result {
			result = e
		}
	}
	return result
}
