package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type kvStore interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, value any) error
	setRaw(ctx context.Context, key string, raw []byte) error
	Remove(ctx context.Context, key string) error
	Clear(ctx context.Context, prefix string) (int64, error)
	Usage(ctx context.Context, prefix string) (int64, error)
	Keys(ctx context.Context, prefix string) ([]string, error)
}

type record struct {
	Speed int    `json:"speed"`
	Level string `json:"level"`
}

func openSQLite(t *testing.T) *SQLite {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "nested", "typetrainer.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = st.Close()
	})
	return st
}

func backends(t *testing.T) map[string]kvStore {
	return map[string]kvStore{
		"sqlite": openSQLite(t),
		"memory": NewMemory(),
	}
}

func TestGetSet(t *testing.T) {
	for name, st := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			var got record
			found, err := st.Get(ctx, "app_best", &got)
			require.NoError(t, err)
			assert.False(t, found)

			require.NoError(t, st.Set(ctx, "app_best", record{Speed: 120, Level: "хард"}))
			require.NoError(t, st.Set(ctx, "app_best", record{Speed: 150, Level: "хард"}))
			found, err = st.Get(ctx, "app_best", &got)
			require.NoError(t, err)
			assert.True(t, found)
			assert.Equal(t, record{Speed: 150, Level: "хард"}, got)

			require.NoError(t, st.Remove(ctx, "app_best"))
			require.NoError(t, st.Remove(ctx, "app_best"))
			found, err = st.Get(ctx, "app_best", &got)
			require.NoError(t, err)
			assert.False(t, found)
		})
	}
}

func TestCorruptValue(t *testing.T) {
	for name, st := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			require.NoError(t, st.setRaw(ctx, "app_history", []byte("{not json")))
			var got []record
			found, err := st.Get(ctx, "app_history", &got)
			assert.True(t, found)
			assert.Error(t, err)
		})
	}
}

func TestPrefixOperations(t *testing.T) {
	for name, st := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			require.NoError(t, st.setRaw(ctx, "app_b", []byte(`"xy"`)))
			require.NoError(t, st.setRaw(ctx, "app_a", []byte(`1`)))
			require.NoError(t, st.setRaw(ctx, "other", []byte(`true`)))

			keys, err := st.Keys(ctx, "app_")
			require.NoError(t, err)
			assert.Equal(t, []string{"app_a", "app_b"}, keys)

			usage, err := st.Usage(ctx, "app_")
			require.NoError(t, err)
			assert.Equal(t, int64(5), usage)

			n, err := st.Clear(ctx, "app_")
			require.NoError(t, err)
			assert.Equal(t, int64(2), n)

			keys, err = st.Keys(ctx, "")
			require.NoError(t, err)
			assert.Equal(t, []string{"other"}, keys)

			usage, err = st.Usage(ctx, "app_")
			require.NoError(t, err)
			assert.Zero(t, usage)
		})
	}
}

func TestSQLitePersistsAcrossOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "typetrainer.db")
	ctx := context.Background()

	st, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, st.Set(ctx, "app_level", "hard"))
	require.NoError(t, st.Close())

	st, err = Open(path)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = st.Close()
	})
	var level string
	found, err := st.Get(ctx, "app_level", &level)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "hard", level)
}

func TestMemoryFailWrites(t *testing.T) {
	st := NewMemory()
	st.FailWrites = true
	assert.Error(t, st.Set(context.Background(), "k", 1))
}
