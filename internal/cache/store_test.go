package cache

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreQuota(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(20)

	require.NoError(t, s.Set(ctx, "a", []byte("123456789")))
	assert.Equal(t, int64(10), s.Used())

	assert.ErrorIs(t, s.Set(ctx, "b", []byte("12345678901")), ErrQuotaExceeded)
	assert.Equal(t, int64(10), s.Used())

	// Replacing a value only counts the difference.
	require.NoError(t, s.Set(ctx, "a", []byte("1234567890123456789")))
	assert.Equal(t, int64(20), s.Used())

	require.NoError(t, s.Delete(ctx, "a"))
	assert.Equal(t, int64(0), s.Used())
	require.NoError(t, s.Set(ctx, "b", []byte("12345678901")))
}

func TestMemoryStoreUnlimited(t *testing.T) {
	s := NewMemoryStore(0)
	require.NoError(t, s.Set(context.Background(), "k", make([]byte, 1<<20)))
}

func TestMemoryStoreCopiesValues(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(0)
	v := []byte("abc")
	require.NoError(t, s.Set(ctx, "k", v))
	v[0] = 'x'

	got, ok, err := s.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "abc", string(got))

	got[1] = 'y'
	again, _, _ := s.Get(ctx, "k")
	assert.Equal(t, "abc", string(again))
}

func TestMemoryStoreKeysSorted(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(0)
	for _, k := range []string{"c", "a", "b"} {
		require.NoError(t, s.Set(ctx, k, nil))
	}
	keys, err := s.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, keys)

	require.NoError(t, s.Delete(ctx, "missing"))
}
