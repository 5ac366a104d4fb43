package infotheory

import (
	"math"
	"testing"

	mf "github.com/pbanos/mfe/metafeature"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

// the first attribute determines the class, the second one is independent of it
func testArgs(extra map[string]interface{}) *mf.Args {
	values := map[string]interface{}{
		string(mf.C): mat.NewDense(4, 2, []float64{
			0, 0,
			0, 1,
			1, 0,
			1, 1,
		}),
		string(mf.Y): []string{"a", "a", "b", "b"},
	}
	for k, v := range extra {
		values[k] = v
	}
	return mf.NewArgs("test", values)
}

func extract(t *testing.T, f mf.ExtractFunc, args *mf.Args) mf.Value {
	t.Helper()
	v, err := f(args)
	require.NoError(t, err)
	return v
}

// TestEntropies verifies entropies and mutual information in bits.
func TestEntropies(t *testing.T) {
	args := testArgs(nil)

	assert.InDelta(t, 1.0, extract(t, ClassEntropy, args).Scalar(), 1e-12)
	assert.InDeltaSlice(t, []float64{1, 1}, extract(t, AttrEntropy, args).Vector(), 1e-12)
	assert.InDeltaSlice(t, []float64{1, 2}, extract(t, JointEntropy, args).Vector(), 1e-12)
	assert.InDeltaSlice(t, []float64{1, 0}, extract(t, MutualInformation, args).Vector(), 1e-12)
	assert.InDelta(t, 2.0, extract(t, EqNumAttr, args).Scalar(), 1e-12)
	assert.InDelta(t, 1.0, extract(t, NSRatio, args).Scalar(), 1e-12)
}

// TestEntropies_Precomputed verifies precomputed values match computed ones.
func TestEntropies_Precomputed(t *testing.T) {
	values, err := PrecomputeEntropies(testArgs(nil), mf.NewPool())
	require.NoError(t, err)
	require.Len(t, values, 4)

	args := mf.NewArgs("test", map[string]interface{}{
		string(mf.C):        mat.NewDense(1, 1, []float64{0}),
		string(mf.Y):        []string{"z"},
		string(mf.ClassEnt): values[mf.ClassEnt],
		string(mf.AttrEnt):  values[mf.AttrEnt],
		string(mf.JointEnt): values[mf.JointEnt],
		string(mf.MutInf):   values[mf.MutInf],
	})
	assert.InDeltaSlice(t, []float64{1, 0}, extract(t, MutualInformation, args).Vector(), 1e-12)
	assert.InDelta(t, 1.0, extract(t, NSRatio, args).Scalar(), 1e-12)
}

// TestPrecomputeEntropies_Unsupervised verifies only attribute entropies are contributed without classes.
func TestPrecomputeEntropies_Unsupervised(t *testing.T) {
	values, err := PrecomputeEntropies(testArgs(map[string]interface{}{string(mf.Y): []string{}}), mf.NewPool())
	require.NoError(t, err)
	assert.Len(t, values, 1)
	assert.Contains(t, values, mf.AttrEnt)

	assert.True(t, math.IsNaN(extract(t, ClassEntropy, testArgs(map[string]interface{}{string(mf.Y): []string{}})).Scalar()))
}

// TestPrecomputeEntropies_KeepsPresentValues verifies present keys are not recomputed.
func TestPrecomputeEntropies_KeepsPresentValues(t *testing.T) {
	pool := mf.NewPool()
	pool.Merge([]mf.Key{mf.ClassEnt}, map[mf.Key]interface{}{mf.ClassEnt: 3.0})
	values, err := PrecomputeEntropies(testArgs(nil), pool)
	require.NoError(t, err)
	assert.NotContains(t, values, mf.ClassEnt)
	assert.InDeltaSlice(t, []float64{3, 2}, values[mf.MutInf], 1e-12, "mutual information uses the pooled class entropy")
}

// TestConcentration verifies concentration coefficients.
func TestConcentration(t *testing.T) {
	args := testArgs(nil)
	assert.InDeltaSlice(t, []float64{1, 0}, extract(t, ClassConc, args).Vector(), 1e-12)
	assert.InDeltaSlice(t, []float64{0, 0}, extract(t, AttrConc, args).Vector(), 1e-12)
}

// TestMissingValues verifies missing categories are ignored.
func TestMissingValues(t *testing.T) {
	args := mf.NewArgs("test", map[string]interface{}{
		string(mf.C): mat.NewDense(5, 1, []float64{0, 0, 1, 1, math.NaN()}),
		string(mf.Y): []string{"a", "a", "b", "b", "b"},
	})
	assert.InDeltaSlice(t, []float64{1}, extract(t, AttrEntropy, args).Vector(), 1e-12)
	assert.InDeltaSlice(t, []float64{1}, extract(t, JointEntropy, args).Vector(), 1e-12)
	assert.InDeltaSlice(t, []float64{1}, extract(t, ClassConc, args).Vector(), 1e-12)
}

// TestAbsentC verifies meta-features over an absent C are undefined.
func TestAbsentC(t *testing.T) {
	args := mf.NewArgs("test", map[string]interface{}{
		string(mf.C): (*mat.Dense)(nil),
		string(mf.Y): []string{"a"},
	})
	assert.True(t, math.IsNaN(extract(t, AttrEntropy, args).Scalar()))
	assert.True(t, math.IsNaN(extract(t, AttrConc, args).Scalar()))
	assert.True(t, math.IsNaN(extract(t, EqNumAttr, args).Scalar()))
}

// TestClassFreqs_BadType verifies a badly typed class_freqs argument is reported.
func TestClassFreqs_BadType(t *testing.T) {
	args := testArgs(map[string]interface{}{string(mf.ClassFreqs): "not frequencies"})

	_, err := ClassEntropy(args)
	require.Error(t, err)
	_, ok := err.(*mf.ArgumentError)
	assert.True(t, ok)

	_, err = PrecomputeEntropies(args, mf.NewPool())
	require.Error(t, err)
	_, ok = err.(*mf.ArgumentError)
	assert.True(t, ok)
}
