package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingKV struct {
	getErr error
	setErr error
}

func (f *failingKV) Get(context.Context, string) (string, bool, error) {
	return "", false, f.getErr
}

func (f *failingKV) Set(context.Context, string, string) error {
	return f.setErr
}

func (f *failingKV) Remove(context.Context, string) error {
	return nil
}

func TestMemoryKV_RoundTrip(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()

	_, ok, err := kv.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, kv.Set(ctx, "key", "value"))
	v, ok, err := kv.Get(ctx, "key")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "value", v)

	require.NoError(t, kv.Remove(ctx, "key"))
	_, ok, err = kv.Get(ctx, "key")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLoadJSON_MissingKey(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()

	out := map[string]int{"keep": 1}
	assert.False(t, LoadJSON(ctx, kv, "missing", &out))
	assert.Equal(t, 1, out["keep"])
}

func TestLoadJSON_CorruptedEntry(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()
	require.NoError(t, kv.Set(ctx, "state", "{not valid json"))

	var out struct{ Value int }
	out.Value = 42
	assert.False(t, LoadJSON(ctx, kv, "state", &out))
	// 损坏的持久化数据等同于无数据，目标值保持原样
	assert.Equal(t, 42, out.Value)
}

func TestLoadJSON_BackendError(t *testing.T) {
	ctx := context.Background()
	kv := &failingKV{getErr: errors.New("backend down")}

	var out struct{ Value int }
	assert.False(t, LoadJSON(ctx, kv, "state", &out))
}

func TestSaveJSON_WriteFailureDoesNotPropagate(t *testing.T) {
	ctx := context.Background()
	kv := &failingKV{setErr: errors.New("quota exceeded")}

	assert.NotPanics(t, func() {
		SaveJSON(ctx, kv, "state", map[string]string{"a": "b"})
	})
}

func TestSaveJSON_RoundTrip(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()

	type payload struct {
		Name  string `json:"name"`
		Count int    `json:"count"`
	}

	SaveJSON(ctx, kv, "state", payload{Name: "alice", Count: 3})

	var out payload
	require.True(t, LoadJSON(ctx, kv, "state", &out))
	assert.Equal(t, payload{Name: "alice", Count: 3}, out)
}
