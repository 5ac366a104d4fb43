package mfe

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadConfig(t *testing.T) {
	c, err := ReadConfig(strings.NewReader(`
groups: [general, landmarking]
features: [nr_attr, landmarking.one_nn]
random_state: 12
summary: [mean, histogram]
params:
  "*":
    num_cv_folds: 5
  nr_cor_attr:
    threshold: 0.7
`))
	require.NoError(t, err)

	assert.Equal(t, []string{"general", "landmarking"}, c.Groups)
	assert.Equal(t, []string{"nr_attr", "landmarking.one_nn"}, c.Features)
	require.NotNil(t, c.RandomState)
	assert.Equal(t, int64(12), *c.RandomState)
	assert.Equal(t, []string{"mean", "histogram"}, c.Summary)
	assert.Equal(t, 5, c.Params["*"]["num_cv_folds"])
	assert.Equal(t, 0.7, c.Params["nr_cor_attr"]["threshold"])
}

func TestReadConfig_Invalid(t *testing.T) {
	_, err := ReadConfig(strings.NewReader("groups: {general: yes"))
	assert.Error(t, err)
}

func TestReadConfig_OverridesReachRoutines(t *testing.T) {
	c, err := ReadConfig(strings.NewReader(`
features: [one_nn]
random_state: 3
params:
  "*":
    num_cv_folds: 5
`))
	require.NoError(t, err)
	r := extract(t, *c, flowers(t, true))

	require.Empty(t, r.Failures)
	v, ok := r.Get("one_nn")
	require.True(t, ok)
	assert.Len(t, v.Vector(), 5)
}
