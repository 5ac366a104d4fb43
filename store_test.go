package mfe

import (
	"context"
	"errors"
	"math"
	"testing"

	mf "github.com/pbanos/mfe/metafeature"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleResult() *Result {
	return &Result{
		Entries: []Entry{
			{"nr_attr", "general", mf.Count(4)},
			{"cat_to_num", "general", mf.Undefined()},
			{"freq_class", "general", mf.Vector([]float64{0.25, 0.75})},
		},
		Failures: []Failure{
			{"leaves", "model-based", KindParameterResolution, errors.New("no model")},
		},
		RandomState: 42,
	}
}

func TestMemoryResultStore(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryResultStore()
	defer s.Close(ctx)

	r := sampleResult()
	id, err := s.Save(ctx, "flowers", r)
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	other, err := s.Save(ctx, "flowers", r)
	require.NoError(t, err)
	assert.NotEqual(t, id, other)

	record, err := s.Load(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, record)
	assert.Equal(t, "flowers", record.Name)
	assert.Same(t, r, record.Result)

	record, err = s.Load(ctx, "missing")
	require.NoError(t, err)
	assert.Nil(t, record)
}

func TestJSONRecordEncodeDecoder(t *testing.T) {
	ed := JSONRecordEncodeDecoder()
	data, err := ed.Encode(&Record{ID: "id", Name: "flowers", Result: sampleResult()})
	require.NoError(t, err)

	record, err := ed.Decode(data)
	require.NoError(t, err)
	assert.Equal(t, "id", record.ID)
	assert.Equal(t, "flowers", record.Name)
	r := record.Result
	assert.Equal(t, int64(42), r.RandomState)
	assert.Equal(t, []string{"nr_attr", "cat_to_num", "freq_class"}, r.Names())
	assert.Equal(t, 4.0, r.Entries[0].Value.Scalar())
	assert.False(t, r.Entries[1].Value.IsVector())
	assert.True(t, math.IsNaN(r.Entries[1].Value.Scalar()))
	assert.Equal(t, []float64{0.25, 0.75}, r.Entries[2].Value.Vector())
	require.Len(t, r.Failures, 1)
	assert.Equal(t, KindParameterResolution, r.Failures[0].Kind)
	assert.Equal(t, "no model", r.Failures[0].Err.Error())
}

func TestJSONRecordEncodeDecoder_InvalidData(t *testing.T) {
	_, err := JSONRecordEncodeDecoder().Decode([]byte(`{"entries": [{"n": "x", "s": "not a number"}]}`))
	assert.Error(t, err)
}
