package mfe

import (
	"testing"

	mf "github.com/pbanos/mfe/metafeature"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func constant(args *mf.Args) (mf.Value, error) {
	return mf.Scalar(0), nil
}

func nothing(args *mf.Args, pool mf.PoolReader) (map[mf.Key]interface{}, error) {
	return nil, nil
}

func TestDefaultRegistry(t *testing.T) {
	r := DefaultRegistry()

	assert.Empty(t, r.Rejected())
	assert.Equal(t, []string{"general", "statistical", "info-theory", "model-based", "landmarking"}, r.Groups())
	assert.Contains(t, r.Features("general"), "nr_attr")
	assert.Contains(t, r.Features("model-based"), "leaves_per_class")
	assert.Equal(t, []string{"folds"}, r.Precomputations("landmarking"))
	assert.Nil(t, r.Features("nonsense"))
}

func TestNewRegistry_RejectsInvalidRoutines(t *testing.T) {
	g := mf.Group{
		Name: "checked",
		Extractors: []mf.Extractor{
			{Name: "fine", Params: []mf.Param{mf.Required(mf.X), mf.Required("shared"), mf.Optional("p", 1)}, Extract: constant},
			{Name: "BadName", Extract: constant},
			{Name: "fine", Extract: constant},
			{Name: "orphan", Params: []mf.Param{mf.Required("nobody_provides_this")}, Extract: constant},
			{Name: "no_func"},
		},
		Precomputations: []mf.Precomputation{
			{Name: "shared", Provides: []mf.Key{"shared"}, Precompute: nothing},
			{Name: "provides_nothing", Precompute: nothing},
		},
	}
	var logged []string
	r, err := NewRegistry(loggerFunc(func(format string, a ...interface{}) { logged = append(logged, format) }), g)
	require.NoError(t, err)

	assert.Equal(t, []string{"fine"}, r.Features("checked"))
	assert.Equal(t, []string{"shared"}, r.Precomputations("checked"))
	rejected := make(map[string]error)
	for _, rj := range r.Rejected() {
		assert.Equal(t, "checked", rj.Group)
		rejected[rj.Routine] = rj.Err
	}
	assert.Len(t, r.Rejected(), 5)
	assert.Equal(t, ErrInvalidName, rejected["BadName"])
	assert.Equal(t, ErrDuplicateName, rejected["fine"])
	assert.Contains(t, rejected["orphan"].Error(), ErrUnprovidedParam.Error())
	assert.Equal(t, ErrMissingFunction, rejected["no_func"])
	assert.Equal(t, ErrNothingProvided, rejected["provides_nothing"])
	assert.Len(t, logged, 5)
}

func TestNewRegistry_InvalidGroups(t *testing.T) {
	_, err := NewRegistry(nil, mf.Group{Name: "Upper"})
	assert.Error(t, err)
	_, err = NewRegistry(nil, mf.Group{Name: "twice"}, mf.Group{Name: "twice"})
	assert.Error(t, err)
}

func TestRegistry_Lookup(t *testing.T) {
	r, err := NewRegistry(nil,
		mf.Group{Name: "one", Extractors: []mf.Extractor{{Name: "shared", Extract: constant}, {Name: "only_one", Extract: constant}}},
		mf.Group{Name: "two", Extractors: []mf.Extractor{{Name: "shared", Extract: constant}}},
	)
	require.NoError(t, err)

	group, x, err := r.Lookup("only_one")
	require.NoError(t, err)
	assert.Equal(t, "one", group)
	assert.Equal(t, "only_one", x.Name)

	_, _, err = r.Lookup("shared")
	require.Error(t, err)
	assert.Contains(t, err.Error(), ErrAmbiguousFeature.Error())

	group, _, err = r.Lookup("two.shared")
	require.NoError(t, err)
	assert.Equal(t, "two", group)

	group, _, err = r.Lookup("shared", "two")
	require.NoError(t, err)
	assert.Equal(t, "two", group)

	_, _, err = r.Lookup("two.only_one")
	assert.Equal(t, ErrUnknownFeature, err)
	_, _, err = r.Lookup("missing")
	assert.Equal(t, ErrUnknownFeature, err)
}

func TestRegistry_Resolve(t *testing.T) {
	r, err := NewRegistry(nil,
		mf.Group{Name: "base"},
		mf.Group{Name: "self", Prerequisites: []string{"self"}},
		mf.Group{Name: "loop-a", Prerequisites: []string{"loop-b"}},
		mf.Group{Name: "loop-b", Prerequisites: []string{"loop-a", "base"}},
		mf.Group{Name: "dangling", Prerequisites: []string{"", "ghost"}},
	)
	require.NoError(t, err)

	assert.Equal(t, []string{"base"}, r.Resolve("base"))
	assert.Equal(t, []string{"self"}, r.Resolve("self"))
	assert.Equal(t, []string{"dangling"}, r.Resolve("dangling"))
	assert.Equal(t, []string{"base", "loop-a", "loop-b"}, r.Resolve("loop-a"))
	assert.Equal(t, []string{"base", "loop-a", "loop-b"}, r.Resolve("loop-b", "loop-a", "loop-b"))
	assert.Empty(t, r.Resolve("ghost"))

	for _, requested := range [][]string{{"loop-a"}, {"self", "dangling"}, {"base"}} {
		closed := r.Resolve(requested...)
		assert.Equal(t, closed, r.Resolve(closed...), "resolving %v is not idempotent", requested)
	}
}

func TestDefaultRegistry_ResolvesPrerequisites(t *testing.T) {
	r := DefaultRegistry()

	assert.Equal(t, []string{"general", "model-based"}, r.Resolve("model-based"))
	assert.Equal(t, []string{"general", "info-theory", "landmarking"}, r.Resolve("landmarking", "info-theory"))
	assert.Equal(t, []string{"statistical"}, r.Resolve("statistical"))
}

type loggerFunc func(format string, a ...interface{})

func (lf loggerFunc) Logf(format string, a ...interface{}) {
	lf(format, a...)
}
