package mfe

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"testing"

	"github.com/pbanos/mfe/attribute"
	"github.com/pbanos/mfe/dataset"
	mf "github.com/pbanos/mfe/metafeature"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// flowers returns a dataset with 150 instances of 4 continuous attributes and 3 classes.
func flowers(t *testing.T, labelled bool) *dataset.Dataset {
	t.Helper()
	attributes := []attribute.Attribute{
		attribute.NewContinuous("sepal_length"),
		attribute.NewContinuous("sepal_width"),
		attribute.NewContinuous("petal_length"),
		attribute.NewContinuous("petal_width"),
	}
	classes := []string{"setosa", "versicolor", "virginica"}
	var x [][]interface{}
	var y []string
	for i := 0; i < 150; i++ {
		k, j := float64(i/50), i%50
		x = append(x, []interface{}{
			4.5 + k + float64(j%10)*0.1,
			3.0 - k*0.3 + float64(j%7)*0.1,
			1.5 + k*2 + float64(j%5)*0.2,
			0.2 + k*0.8 + float64(j%3)*0.1,
		})
		if labelled {
			y = append(y, classes[i/50])
		}
	}
	d, err := dataset.FromRows(attributes, x, y, dataset.DefaultOptions())
	require.NoError(t, err)
	return d
}

func seed(s int64) *int64 {
	return &s
}

func extract(t *testing.T, cfg Config, d *dataset.Dataset, opts ...Option) *Result {
	t.Helper()
	e, err := New(cfg, opts...)
	require.NoError(t, err)
	r, err := e.Extract(context.Background(), d)
	require.NoError(t, err)
	return r
}

func scalar(t *testing.T, r *Result, name string) float64 {
	t.Helper()
	v, ok := r.Get(name)
	require.True(t, ok, "no entry for %s", name)
	return v.Scalar()
}

func entryStrings(r *Result) []string {
	s := make([]string, len(r.Entries))
	for i, e := range r.Entries {
		s[i] = e.String()
	}
	return s
}

func TestExtract_GeneralGroup(t *testing.T) {
	r := extract(t, Config{Groups: []string{"general"}, RandomState: seed(1)}, flowers(t, true))

	assert.Empty(t, r.Failures)
	assert.Equal(t, 4.0, scalar(t, r, "nr_attr"))
	assert.Equal(t, 150.0, scalar(t, r, "nr_inst"))
	assert.Equal(t, 3.0, scalar(t, r, "nr_class"))
	assert.Equal(t, int64(1), r.RandomState)
	for _, e := range r.Entries {
		assert.Equal(t, "general", e.Group)
	}
}

func TestExtract_FeaturesInRequestedOrder(t *testing.T) {
	r := extract(t, Config{Features: []string{"nr_attr", "nr_class"}}, flowers(t, true))

	assert.Empty(t, r.Failures)
	assert.Equal(t, []string{"nr_attr", "nr_class"}, r.Names())
	assert.Equal(t, 4.0, r.Entries[0].Value.Scalar())
	assert.Equal(t, 3.0, r.Entries[1].Value.Scalar())
}

func TestExtract_FreqClassWithoutTarget(t *testing.T) {
	r := extract(t, Config{Features: []string{"freq_class"}}, flowers(t, false))

	require.Empty(t, r.Failures)
	v, ok := r.Get("freq_class")
	require.True(t, ok)
	require.True(t, v.IsVector())
	require.Len(t, v.Vector(), 1)
	assert.True(t, math.IsNaN(v.Vector()[0]))
}

func TestExtract_CatToNumWithoutCategoricalAttributes(t *testing.T) {
	r := extract(t, Config{Features: []string{"cat_to_num"}}, flowers(t, true))

	require.Empty(t, r.Failures)
	assert.True(t, math.IsNaN(scalar(t, r, "cat_to_num")))
}

func TestExtract_FrequenciesSumToOne(t *testing.T) {
	r := extract(t, Config{Features: []string{"freq_class"}}, flowers(t, true))

	v, ok := r.Get("freq_class")
	require.True(t, ok)
	var sum float64
	for _, f := range v.Vector() {
		sum += f
	}
	assert.InDelta(t, 1.0, sum, 1e-12)
}

func TestExtract_InverseRatios(t *testing.T) {
	r := extract(t, Config{Features: []string{"attr_to_inst", "inst_to_attr"}}, flowers(t, true))

	assert.InDelta(t, 1.0, scalar(t, r, "attr_to_inst")*scalar(t, r, "inst_to_attr"), 1e-12)
}

func TestExtract_AllGroups(t *testing.T) {
	d := flowers(t, true)
	cfg := Config{RandomState: seed(7), Summary: []string{"mean", "sd"}}
	r := extract(t, cfg, d)

	for _, f := range r.Failures {
		t.Errorf("unexpected failure: %v", f)
	}
	for _, name := range []string{"nr_attr", "cor.mean", "class_ent", "leaves", "leaves_per_class.mean", "one_nn.mean", "best_node.sd"} {
		_, ok := r.Get(name)
		assert.True(t, ok, "missing %s", name)
	}
	v, ok := r.Get("one_nn.mean")
	require.True(t, ok)
	assert.True(t, v.Scalar() > 0.5, "one_nn accuracy %v", v.Scalar())

	again := extract(t, cfg, d)
	assert.Equal(t, entryStrings(r), entryStrings(again), "extractions with the same seed differ")
}

func TestExtract_DrawsRandomState(t *testing.T) {
	d := flowers(t, true)
	cfg := Config{Groups: []string{"landmarking"}, Features: []string{"random_node"}}
	r := extract(t, cfg, d)
	require.Empty(t, r.Failures)

	cfg.RandomState = seed(r.RandomState)
	again := extract(t, cfg, d)
	assert.Equal(t, entryStrings(r), entryStrings(again))
}

func TestExtract_UnknownNamesAreReported(t *testing.T) {
	r := extract(t, Config{Groups: []string{"general", "nonsense"}, Features: []string{"nr_attr", "bogus", "statistical.nope"}}, flowers(t, true))

	assert.Equal(t, []string{"nr_attr"}, r.Names())
	require.Len(t, r.Failures, 3)
	for _, f := range r.Failures {
		assert.Equal(t, KindConfiguration, f.Kind)
	}
	assert.Equal(t, ErrUnknownGroup, r.Failures[0].Err)
	f, ok := r.Failed("bogus")
	require.True(t, ok)
	assert.Equal(t, ErrUnknownFeature, f.Err)
}

func TestExtract_ModelBasedWithoutTarget(t *testing.T) {
	r := extract(t, Config{Features: []string{"nr_attr", "leaves"}}, flowers(t, false))

	assert.Equal(t, []string{"nr_attr"}, r.Names())
	f, ok := r.Failed("leaves")
	require.True(t, ok)
	assert.Equal(t, KindParameterResolution, f.Kind)
	assert.Equal(t, "model-based", f.Group)
}

func TestExtract_CancelledContext(t *testing.T) {
	e, err := New(Config{})
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = e.Extract(ctx, flowers(t, true))
	assert.Equal(t, context.Canceled, err)
}

func TestExtract_InvalidDataset(t *testing.T) {
	e, err := New(Config{})
	require.NoError(t, err)

	_, err = e.Extract(context.Background(), nil)
	assert.Error(t, err)

	d := flowers(t, true)
	d.Y = d.Y[:10]
	_, err = e.Extract(context.Background(), d)
	assert.Error(t, err)
}

func TestNew_UnknownSummary(t *testing.T) {
	_, err := New(Config{Summary: []string{"mean", "mode"}})
	assert.Error(t, err)
}

// testGroup returns a group exercising the engine: overrides, failures and summaries.
func testGroup() mf.Group {
	return mf.Group{
		Name: "test",
		Extractors: []mf.Extractor{
			{Name: "echo", Params: []mf.Param{mf.Optional("k", 1.0)}, Extract: func(args *mf.Args) (mf.Value, error) {
				k, err := args.Float("k")
				return mf.Scalar(k), err
			}},
			{Name: "needs_boom", Params: []mf.Param{mf.Required("boom")}, Extract: func(args *mf.Args) (mf.Value, error) {
				return mf.Scalar(1), nil
			}},
			{Name: "panics", Extract: func(args *mf.Args) (mf.Value, error) {
				panic("out of range")
			}},
			{Name: "vec", Params: []mf.Param{mf.Required("vec_values")}, Extract: func(args *mf.Args) (mf.Value, error) {
				v, err := args.Floats("vec_values")
				return mf.Vector(v), err
			}},
		},
		Precomputations: []mf.Precomputation{
			{Name: "boom", Provides: []mf.Key{"boom"}, Precompute: func(args *mf.Args, pool mf.PoolReader) (map[mf.Key]interface{}, error) {
				return nil, errors.New("exploded")
			}},
			{Name: "vec_values", Provides: []mf.Key{"vec_values"}, Precompute: func(args *mf.Args, pool mf.PoolReader) (map[mf.Key]interface{}, error) {
				return map[mf.Key]interface{}{
					"vec_values": []float64{1, 2, 3, 4},
					"undeclared": true,
					mf.Classes:   []string{"intruder"},
				}, nil
			}},
		},
	}
}

func testRegistry(t *testing.T) *Registry {
	t.Helper()
	r, err := NewRegistry(nil, testGroup())
	require.NoError(t, err)
	require.Empty(t, r.Rejected())
	return r
}

func TestExtract_FailuresAreIsolated(t *testing.T) {
	r := extract(t, Config{}, flowers(t, true), WithRegistry(testRegistry(t)))

	assert.Equal(t, []string{"echo", "vec"}, r.Names())
	f, ok := r.Failed("needs_boom")
	require.True(t, ok)
	assert.Equal(t, KindPrecomputation, f.Kind)
	assert.Contains(t, f.Err.Error(), "exploded")
	f, ok = r.Failed("test.panics")
	require.True(t, ok)
	assert.Equal(t, KindRoutine, f.Kind)
	assert.Contains(t, f.Err.Error(), "out of range")
}

func TestExtract_OverridePrecedence(t *testing.T) {
	reg := testRegistry(t)
	cases := []struct {
		params   map[string]map[string]interface{}
		expected float64
	}{
		{nil, 1},
		{map[string]map[string]interface{}{"*": {"k": 2}}, 2},
		{map[string]map[string]interface{}{"*": {"k": 2}, "echo": {"k": 3}}, 3},
		{map[string]map[string]interface{}{"echo": {"k": 3}, "test.echo": {"k": 4}}, 4},
	}
	for _, c := range cases {
		r := extract(t, Config{Features: []string{"echo"}, Params: c.params}, flowers(t, true), WithRegistry(reg))
		assert.Equal(t, c.expected, scalar(t, r, "echo"), "params %v", c.params)
	}
}

func TestExtract_InvalidOverrides(t *testing.T) {
	reg := testRegistry(t)
	r := extract(t, Config{
		Features: []string{"echo"},
		Params:   map[string]map[string]interface{}{"echo": {"k": "three", "y": []string{"a"}}},
	}, flowers(t, true), WithRegistry(reg))

	assert.Empty(t, r.Entries)
	require.Len(t, r.Failures, 2)
	assert.Equal(t, KindConfiguration, r.Failures[0].Kind)
	assert.Contains(t, r.Failures[0].Err.Error(), ErrContextOverride.Error())
	f, ok := r.Failed("echo")
	require.True(t, ok)
	assert.Equal(t, KindConfiguration, f.Kind)
}

func TestExtract_Summaries(t *testing.T) {
	r := extract(t, Config{Features: []string{"vec", "echo"}, Summary: []string{"mean", "max", "count", "histogram"}}, flowers(t, true), WithRegistry(testRegistry(t)))

	expected := []string{"vec.mean", "vec.max", "vec.count"}
	for i := 0; i < HistogramBins; i++ {
		expected = append(expected, fmt.Sprintf("vec.histogram.%d", i))
	}
	expected = append(expected, "echo")
	assert.Equal(t, expected, r.Names())
	assert.Equal(t, 2.5, scalar(t, r, "vec.mean"))
	assert.Equal(t, 4.0, scalar(t, r, "vec.max"))
	assert.Equal(t, 4.0, scalar(t, r, "vec.count"))
	assert.Equal(t, 0.25, scalar(t, r, "vec.histogram.0"))
	assert.Equal(t, 0.25, scalar(t, r, "vec.histogram.9"))
}

func TestExtract_Metrics(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())
	extract(t, Config{}, flowers(t, true), WithRegistry(testRegistry(t)), WithMetrics(m))

	assert.Equal(t, 2.0, testutil.ToFloat64(m.FeaturesTotal.WithLabelValues("test", OutcomeSucceeded)))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.FeaturesTotal.WithLabelValues("test", OutcomeFailed)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.DiscardedTotal.WithLabelValues("test", "undeclared")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.DiscardedTotal.WithLabelValues("test", string(mf.Classes))))
	assert.Equal(t, 1, testutil.CollectAndCount(m.PrecomputationSeconds), "one series for the test group")
}

func TestPrecompute_OrderIndependent(t *testing.T) {
	e, err := New(Config{})
	require.NoError(t, err)
	d := flowers(t, true)
	values := map[mf.Key]interface{}{
		mf.X:           d,
		mf.Y:           d.Y,
		mf.N:           d.N,
		mf.C:           d.C,
		mf.CatCols:     d.CatCols,
		mf.RandomState: int64(5),
	}
	ps := e.precomputations(e.registry.Groups())
	baseline, err := e.precompute(context.Background(), ps, values, nil)
	require.NoError(t, err)
	require.NotEmpty(t, baseline.Keys())

	for s := int64(0); s < 5; s++ {
		shuffled := append([]precomputation(nil), ps...)
		rand.New(rand.NewSource(s)).Shuffle(len(shuffled), func(i, j int) {
			shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
		})
		pool, err := e.precompute(context.Background(), shuffled, values, nil)
		require.NoError(t, err)
		assert.Equal(t, baseline.Keys(), pool.Keys())
		assert.Equal(t, baseline.Values(), pool.Values(), "pool differs under order %d", s)
	}
}
