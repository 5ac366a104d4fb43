package modelbased

import (
	"context"
	"testing"

	mf "github.com/pbanos/mfe/metafeature"
	"github.com/pbanos/mfe/tree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func precomputed(t *testing.T, n *mat.Dense, y []string) *mf.Args {
	t.Helper()
	values := map[string]interface{}{
		string(mf.N):           n,
		string(mf.Y):           y,
		string(mf.RandomState): int64(0),
		"max_depth":            0,
		"min_samples_leaf":     1,
	}
	pooled, err := PrecomputeModel(mf.NewArgs("model", values), mf.NewPool())
	require.NoError(t, err)
	require.Len(t, pooled, 3)
	for k, v := range pooled {
		values[string(k)] = v
	}
	return mf.NewArgs("test", values)
}

func stump(t *testing.T) *mf.Args {
	n := mat.NewDense(6, 2, []float64{
		1, 0,
		2, 1,
		3, 0,
		4, 1,
		5, 0,
		6, 1,
	})
	return precomputed(t, n, []string{"a", "a", "a", "b", "b", "b"})
}

func noisy(t *testing.T) *mf.Args {
	n := mat.NewDense(12, 3, []float64{
		1, 5, 0,
		2, 3, 1,
		3, 8, 0,
		4, 1, 1,
		5, 9, 0,
		6, 2, 1,
		7, 7, 0,
		8, 4, 1,
		9, 6, 0,
		10, 0, 1,
		11, 11, 0,
		12, 10, 1,
	})
	return precomputed(t, n, []string{"a", "b", "a", "c", "b", "c", "a", "b", "c", "a", "b", "c"})
}

func values(t *testing.T, f mf.ExtractFunc, args *mf.Args) []float64 {
	t.Helper()
	v, err := f(args)
	require.NoError(t, err)
	return v.Vector()
}

// TestStump verifies every meta-feature on a tree with a single split.
func TestStump(t *testing.T) {
	args := stump(t)

	assert.Equal(t, []float64{2}, values(t, Leaves, args))
	assert.Equal(t, []float64{1}, values(t, Nodes, args))
	assert.Equal(t, []float64{0, 1, 1}, values(t, TreeDepth, args))
	assert.Equal(t, []float64{1, 1}, values(t, LeavesBranch, args))
	assert.Equal(t, []float64{0.5, 0.5}, values(t, LeavesCorrob, args))
	assert.Equal(t, []float64{0.5, 0.5}, values(t, TreeShape, args))
	assert.Equal(t, []float64{4, 4}, values(t, LeavesHomo, args))
	assert.Equal(t, []float64{0.5}, values(t, TreeImbalance, args))
	assert.Equal(t, []float64{0.5, 0.5}, values(t, LeavesPerClass, args))
	assert.Equal(t, []float64{1}, values(t, NodesPerLevel, args))
	assert.Equal(t, []float64{1}, values(t, NodesRepeated, args), "splits on the first attribute are counted")
	assert.Equal(t, []float64{0.5}, values(t, NodesPerAttr, args))
	assert.Equal(t, []float64{1.0 / 6}, values(t, NodesPerInst, args))
	assert.Equal(t, []float64{1, 0}, values(t, VarImportance, args))
}

// TestTableInvariants verifies the tree property table of a deeper tree.
func TestTableInvariants(t *testing.T) {
	args := noisy(t)
	v, _ := args.Get(string(mf.Table))
	table := v.(Table)
	depths, err := args.Ints(string(mf.TreeDepth))
	require.NoError(t, err)

	var leafRows int
	for _, r := range table {
		if r.Leaf {
			leafRows++
			assert.Equal(t, -1, r.Feature)
		} else {
			assert.GreaterOrEqual(t, r.Feature, 0)
		}
	}
	assert.Equal(t, []float64{float64(leafRows)}, values(t, Leaves, args))

	var sum float64
	for _, p := range values(t, LeavesPerClass, args) {
		sum += p
	}
	assert.InDelta(t, 1.0, sum, 1e-12)

	m, _ := args.Get(string(mf.Model))
	require.Len(t, depths, m.(*tree.Model).NodeCount())
	assert.Equal(t, 0, depths[0])
	var levels float64
	for _, c := range values(t, NodesPerLevel, args) {
		levels += c
	}
	assert.Equal(t, float64(len(table)-leafRows), levels)
	var repeated float64
	for _, c := range values(t, NodesRepeated, args) {
		repeated += c
	}
	assert.Equal(t, float64(len(table)-leafRows), repeated)
}

// TestDepths verifies children are one level deeper than their parents.
func TestDepths(t *testing.T) {
	args := noisy(t)
	v, _ := args.Get(string(mf.Model))
	model := v.(*tree.Model)
	depths, err := args.Ints(string(mf.TreeDepth))
	require.NoError(t, err)

	assert.Equal(t, 0, depths[0])
	var maxDepth int
	for id := 0; id < model.NodeCount(); id++ {
		n := model.Node(id)
		if depths[id] > maxDepth {
			maxDepth = depths[id]
		}
		if n.IsLeaf() {
			continue
		}
		assert.Equal(t, depths[id]+1, depths[n.Split.Left])
		assert.Equal(t, depths[id]+1, depths[n.Split.Right])
	}
	assert.Equal(t, model.Depth(), maxDepth)
}

// TestPrecomputeModel_Unsupervised verifies nothing is contributed without classes.
func TestPrecomputeModel_Unsupervised(t *testing.T) {
	pooled, err := PrecomputeModel(mf.NewArgs("model", map[string]interface{}{
		string(mf.N):           mat.NewDense(2, 1, []float64{1, 2}),
		string(mf.Y):           []string{},
		string(mf.RandomState): int64(0),
		"max_depth":            0,
		"min_samples_leaf":     1,
	}), mf.NewPool())
	require.NoError(t, err)
	assert.Empty(t, pooled)
}

// TestPrecomputeModel_ReusesModel verifies a pooled model is not fitted again.
func TestPrecomputeModel_ReusesModel(t *testing.T) {
	args := stump(t)
	m, _ := args.Get(string(mf.Model))
	pool := mf.NewPool()
	pool.Merge([]mf.Key{mf.Model}, map[mf.Key]interface{}{mf.Model: m})

	pooled, err := PrecomputeModel(mf.NewArgs("model", nil), pool)
	require.NoError(t, err)
	assert.NotContains(t, pooled, mf.Model)
	assert.Contains(t, pooled, mf.Table)
	assert.Contains(t, pooled, mf.TreeDepth)
}

// TestDepths_Cancelled verifies the depth walk stops on a cancelled context.
func TestDepths_Cancelled(t *testing.T) {
	v, _ := noisy(t).Get(string(mf.Model))
	model := v.(*tree.Model)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Depths(ctx, model)
	assert.Equal(t, context.Canceled, err)

	pool := mf.NewPool()
	pool.Merge([]mf.Key{mf.Model}, map[mf.Key]interface{}{mf.Model: model})
	args := mf.NewArgs("model", map[string]interface{}{
		string(mf.N): mat.NewDense(1, 1, []float64{1}),
		string(mf.Y): []string{"a"},
	}).WithContext(ctx)
	_, err = PrecomputeModel(args, pool)
	assert.Equal(t, context.Canceled, err)
}
