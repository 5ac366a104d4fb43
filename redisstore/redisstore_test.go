package redisstore

import (
	"context"
	"os"
	"testing"

	"github.com/pbanos/mfe"
	mf "github.com/pbanos/mfe/metafeature"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/redis.v5"
)

// client returns a client for the redis server at MFE_TEST_REDIS, skipping the test if unset.
func client(t *testing.T) *redis.Client {
	addr := os.Getenv("MFE_TEST_REDIS")
	if addr == "" {
		t.Skip("MFE_TEST_REDIS not set")
	}
	rc := redis.NewClient(&redis.Options{Addr: addr})
	require.NoError(t, rc.Ping().Err())
	return rc
}

func TestRedisStore(t *testing.T) {
	ctx := context.Background()
	s := New(client(t), "mfe-test", nil)
	defer s.Close(ctx)

	r := &mfe.Result{
		Entries:     []mfe.Entry{{Name: "nr_attr", Group: "general", Value: mf.Count(4)}},
		RandomState: 9,
	}
	id, err := s.Save(ctx, "flowers", r)
	require.NoError(t, err)

	record, err := s.Load(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, record)
	assert.Equal(t, id, record.ID)
	assert.Equal(t, "flowers", record.Name)
	assert.Equal(t, int64(9), record.Result.RandomState)
	assert.Equal(t, []string{"nr_attr"}, record.Result.Names())

	record, err = s.Load(ctx, "missing")
	require.NoError(t, err)
	assert.Nil(t, record)
}

func TestRedisStore_CancelledContext(t *testing.T) {
	s := New(redis.NewClient(&redis.Options{Addr: "127.0.0.1:0"}), "mfe-test", nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.Save(ctx, "flowers", &mfe.Result{})
	assert.Equal(t, context.Canceled, err)
	_, err = s.Load(ctx, "id")
	assert.Equal(t, context.Canceled, err)
}
