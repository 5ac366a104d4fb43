package tree

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func separableData() (*mat.Dense, []string) {
	x := mat.NewDense(8, 2, []float64{
		1, 10,
		2, 11,
		3, 10,
		4, 12,
		5, 10,
		6, 11,
		7, 12,
		8, 10,
	})
	y := []string{"a", "a", "a", "a", "b", "b", "b", "b"}
	return x, y
}

// TestFit_SeparableData verifies a single split separates two classes.
func TestFit_SeparableData(t *testing.T) {
	x, y := separableData()
	m, err := NewClassifier(0).Fit(context.Background(), x, y)
	require.NoError(t, err)

	require.Equal(t, 3, m.NodeCount())
	root := m.Node(0)
	require.False(t, root.IsLeaf())
	assert.Equal(t, 0, root.Split.Feature)
	assert.Equal(t, 4.5, root.Split.Threshold)
	assert.Equal(t, 1, root.Split.Left, "left child follows its parent in preorder")
	assert.Equal(t, []string{"a", "b"}, m.Classes())
	assert.Equal(t, []float64{1, 0}, m.FeatureImportances())
	assert.Equal(t, 1, m.Depth())

	c, err := m.Predict([]float64{2.5, 11})
	require.NoError(t, err)
	assert.Equal(t, "a", c)
	c, err = m.Predict([]float64{7.5, 11})
	require.NoError(t, err)
	assert.Equal(t, "b", c)
}

// TestFit_NaNGoesRight verifies missing values follow the right branch.
func TestFit_NaNGoesRight(t *testing.T) {
	x, y := separableData()
	m, err := NewClassifier(0).Fit(context.Background(), x, y)
	require.NoError(t, err)

	id, err := m.Apply([]float64{math.NaN(), 10})
	require.NoError(t, err)
	assert.Equal(t, m.Node(0).Split.Right, id)
}

// TestFit_PureSet verifies pure training sets grow a single leaf.
func TestFit_PureSet(t *testing.T) {
	x := mat.NewDense(3, 1, []float64{1, 2, 3})
	m, err := NewClassifier(0).Fit(context.Background(), x, []string{"a", "a", "a"})
	require.NoError(t, err)
	assert.Equal(t, 1, m.NodeCount())
	assert.True(t, m.Node(0).IsLeaf())
	assert.Equal(t, 0, m.Depth())
	assert.Equal(t, []float64{0}, m.FeatureImportances())
}

// TestFit_Errors verifies invalid training sets are rejected.
func TestFit_Errors(t *testing.T) {
	_, err := NewClassifier(0).Fit(context.Background(), nil, nil)
	assert.Equal(t, ErrEmptyTrainingSet, err)

	x := mat.NewDense(2, 1, []float64{1, 2})
	_, err = NewClassifier(0).Fit(context.Background(), x, []string{"a"})
	assert.Error(t, err)
}

// TestFit_MaxDepth verifies the depth limit of the pruning strategy.
func TestFit_MaxDepth(t *testing.T) {
	x := mat.NewDense(6, 1, []float64{1, 2, 3, 4, 5, 6})
	y := []string{"a", "b", "a", "b", "a", "b"}
	c := NewClassifier(3)
	c.Strategy.MaxDepth = 1
	m, err := c.Fit(context.Background(), x, y)
	require.NoError(t, err)
	assert.LessOrEqual(t, m.Depth(), 1)
	assert.LessOrEqual(t, m.NodeCount(), 3)
}

// TestFit_TreeInvariants verifies structural invariants on a noisy dataset.
func TestFit_TreeInvariants(t *testing.T) {
	x := mat.NewDense(10, 2, []float64{
		1, 5,
		2, 3,
		3, 8,
		4, 1,
		5, 9,
		6, 2,
		7, 7,
		8, 4,
		9, 6,
		10, 0,
	})
	y := []string{"a", "b", "a", "c", "b", "c", "a", "b", "c", "a"}
	m, err := NewClassifier(42).Fit(context.Background(), x, y)
	require.NoError(t, err)

	var leaves, internal, leafSamples int
	err = m.Traverse(context.Background(), false, func(ctx context.Context, n *Node) error {
		if n.IsLeaf() {
			leaves++
			leafSamples += n.Samples
			return nil
		}
		internal++
		assert.Equal(t, n.Samples, m.Node(n.Split.Left).Samples+m.Node(n.Split.Right).Samples)
		assert.Greater(t, n.Split.Left, n.ID)
		assert.Greater(t, n.Split.Right, n.Split.Left)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, internal+1, leaves, "binary trees have one more leaf than internal nodes")
	assert.Equal(t, 10, leafSamples)
	assert.Equal(t, m.NodeCount(), leaves+internal)

	var sum float64
	for _, v := range m.FeatureImportances() {
		sum += v
	}
	assert.InDelta(t, 1.0, sum, 1e-9)

	for i := 0; i < 10; i++ {
		c, err := m.Predict(x.RawRowView(i))
		require.NoError(t, err)
		assert.Equal(t, y[i], c, "fully grown trees fit distinct training points")
	}
}

// TestFit_Deterministic verifies the same seed grows the same tree.
func TestFit_Deterministic(t *testing.T) {
	x := mat.NewDense(4, 2, []float64{
		0, 0,
		0, 1,
		1, 0,
		1, 1,
	})
	y := []string{"a", "a", "b", "b"}
	m1, err := NewClassifier(7).Fit(context.Background(), x, y)
	require.NoError(t, err)
	m2, err := NewClassifier(7).Fit(context.Background(), x, y)
	require.NoError(t, err)
	assert.Equal(t, m1.String(), m2.String())
}

// TestTraverse_Cancelled verifies traversing stops on cancelled contexts.
func TestTraverse_Cancelled(t *testing.T) {
	x, y := separableData()
	m, err := NewClassifier(0).Fit(context.Background(), x, y)
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = m.Traverse(ctx, true, func(context.Context, *Node) error { return nil })
	assert.Equal(t, context.Canceled, err)
}

// TestPruners verifies the provided pruners.
func TestPruners(t *testing.T) {
	ctx := context.Background()
	p := &Partition{ImpurityDecrease: 0.1}

	prune, err := DefaultPruner().Prune(ctx, p)
	require.NoError(t, err)
	assert.False(t, prune)
	prune, err = DefaultPruner().Prune(ctx, &Partition{})
	require.NoError(t, err)
	assert.True(t, prune)
	prune, err = MinimumImpurityDecreasePruner(0.2).Prune(ctx, p)
	require.NoError(t, err)
	assert.True(t, prune)
	prune, err = NoPruner().Prune(ctx, &Partition{ImpurityDecrease: -1})
	require.NoError(t, err)
	assert.False(t, prune)
}

// TestPrediction verifies class probabilities of predictions.
func TestPrediction(t *testing.T) {
	p, err := NewPrediction([]int{1, 3, 0})
	require.NoError(t, err)
	assert.Equal(t, 1, p.Class())
	assert.Equal(t, 4, p.Weight())
	assert.Equal(t, 0.75, p.ProbabilityOf(1))
	assert.Equal(t, 0.0, p.ProbabilityOf(5))

	_, err = NewPrediction([]int{0, 0})
	assert.Equal(t, ErrCannotPredictFromEmptySet, err)
}
