package landmarking

import (
	"context"
	"math"
	"testing"

	mf "github.com/pbanos/mfe/metafeature"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

// twoClusters returns 20 instances of two classes far apart on the first attribute.
func twoClusters() (*mat.Dense, []string) {
	data := make([]float64, 0, 40)
	y := make([]string, 0, 20)
	for i := 0; i < 20; i++ {
		x := float64(i % 10)
		class := "a"
		if i >= 10 {
			x += 100
			class = "b"
		}
		data = append(data, x, float64((i*7)%10))
		y = append(y, class)
	}
	return mat.NewDense(20, 2, data), y
}

func landmarkingArgs(t *testing.T, n *mat.Dense, y []string, score string) *mf.Args {
	t.Helper()
	folds, err := StratifiedFolds(y, 5, 3)
	require.NoError(t, err)
	return mf.NewArgs("test", map[string]interface{}{
		string(mf.N):           n,
		string(mf.Y):           y,
		string(mf.Folds):       folds,
		string(mf.RandomState): int64(3),
		"score":                score,
	})
}

func TestStratifiedFolds(t *testing.T) {
	y := []string{"a", "a", "a", "a", "a", "a", "b", "b", "b", "c", "c", "c"}
	folds, err := StratifiedFolds(y, 3, 42)
	require.NoError(t, err)
	require.Len(t, folds, len(y))

	perFold := make(map[int]map[string]int)
	for i, f := range folds {
		require.True(t, f >= 0 && f < 3)
		if perFold[f] == nil {
			perFold[f] = make(map[string]int)
		}
		perFold[f][y[i]]++
	}
	require.Len(t, perFold, 3)
	for f, counts := range perFold {
		assert.Equal(t, 2, counts["a"], "fold %d", f)
		assert.Equal(t, 1, counts["b"], "fold %d", f)
		assert.Equal(t, 1, counts["c"], "fold %d", f)
	}

	again, err := StratifiedFolds(y, 3, 42)
	require.NoError(t, err)
	assert.Equal(t, folds, again)
}

func TestStratifiedFolds_TooFewFolds(t *testing.T) {
	_, err := StratifiedFolds([]string{"a", "b"}, 1, 0)
	assert.Equal(t, ErrTooFewFolds, err)
}

func TestPrecomputeFolds(t *testing.T) {
	_, y := twoClusters()
	values := map[string]interface{}{
		string(mf.Y):           y,
		string(mf.RandomState): int64(1),
		"num_cv_folds":         4,
	}
	pooled, err := PrecomputeFolds(mf.NewArgs("folds", values), mf.NewPool())
	require.NoError(t, err)
	require.Contains(t, pooled, mf.Folds)
	assert.Len(t, pooled[mf.Folds], 20)

	delete(values, string(mf.Y))
	pooled, err = PrecomputeFolds(mf.NewArgs("folds", values), mf.NewPool())
	require.NoError(t, err)
	assert.Empty(t, pooled, "nothing is contributed for unsupervised data")
}

func TestLearners_SeparableData(t *testing.T) {
	n, y := twoClusters()
	args := landmarkingArgs(t, n, y, Accuracy)
	group := Group()
	for _, e := range group.Extractors {
		v, err := e.Extract(args)
		require.NoError(t, err, e.Name)
		require.True(t, v.IsVector(), e.Name)
		require.Len(t, v.Vector(), 5, e.Name)
		for _, s := range v.Vector() {
			assert.True(t, s >= 0 && s <= 1, "%s scored %v", e.Name, s)
		}
	}
	for _, f := range []mf.ExtractFunc{evaluate(bestNode), evaluate(oneNN), evaluate(naiveBayes), evaluate(eliteNN)} {
		v, err := f(args)
		require.NoError(t, err)
		assert.Equal(t, []float64{1, 1, 1, 1, 1}, v.Vector())
	}
}

func TestLearners_Deterministic(t *testing.T) {
	n, y := twoClusters()
	for _, f := range []mf.ExtractFunc{evaluate(randomNode), evaluate(worstNode)} {
		first, err := f(landmarkingArgs(t, n, y, Accuracy))
		require.NoError(t, err)
		second, err := f(landmarkingArgs(t, n, y, Accuracy))
		require.NoError(t, err)
		assert.Equal(t, first.Vector(), second.Vector())
	}
}

func TestLearners_UnknownScore(t *testing.T) {
	n, y := twoClusters()
	_, err := evaluate(oneNN)(landmarkingArgs(t, n, y, "f1"))
	require.Error(t, err)
	assert.IsType(t, &mf.ArgumentError{}, err)
}

func TestLearners_Cancelled(t *testing.T) {
	n, y := twoClusters()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := evaluate(oneNN)(landmarkingArgs(t, n, y, Accuracy).WithContext(ctx))
	assert.Equal(t, context.Canceled, err)
}

func TestLearners_EmptyNumericView(t *testing.T) {
	_, y := twoClusters()
	args := mf.NewArgs("test", map[string]interface{}{
		string(mf.N):           (*mat.Dense)(nil),
		string(mf.Y):           y,
		string(mf.Folds):       make([]int, len(y)),
		string(mf.RandomState): int64(0),
		"score":                Accuracy,
	})
	v, err := evaluate(oneNN)(args)
	require.NoError(t, err)
	assert.True(t, math.IsNaN(v.Scalar()))
}

func TestScores(t *testing.T) {
	expected := []string{"a", "a", "a", "b"}
	predicted := []string{"a", "a", "a", "a"}
	assert.Equal(t, 0.75, accuracy(expected, predicted))
	assert.Equal(t, 0.5, balancedAccuracy(expected, predicted))
}
