package kv

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// exerciseStore checks the contract every backend shares.
func exerciseStore(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	require.NoError(t, s.Ping(ctx))

	_, found, err := s.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, s.Set(ctx, "brite_profile_id", "linux-abc"))
	v, found, err := s.Get(ctx, "brite_profile_id")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "linux-abc", v)

	require.NoError(t, s.Set(ctx, "brite_profile_id", "linux-def"))
	v, _, err = s.Get(ctx, "brite_profile_id")
	require.NoError(t, err)
	assert.Equal(t, "linux-def", v)

	require.NoError(t, s.Set(ctx, "list", `[]`))
	v, found, err = s.Get(ctx, "list")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, `[]`, v)
}

func TestMemStore(t *testing.T) {
	exerciseStore(t, NewMemStore())
}

func TestFileStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "kv.json")
	s, err := NewFileStore(path)
	require.NoError(t, err)

	exerciseStore(t, s)

	reopened, err := NewFileStore(path)
	require.NoError(t, err)
	v, found, err := reopened.Get(context.Background(), "brite_profile_id")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "linux-def", v)
}

func TestFileStore_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kv.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	s, err := NewFileStore(path)
	require.NoError(t, err)

	_, _, err = s.Get(context.Background(), "k")
	assert.Error(t, err)

	// Set must not clobber a file it cannot read.
	assert.Error(t, s.Set(context.Background(), "k", "v"))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "{not json", string(data))
}

func TestSQLiteStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kv.db")
	s, err := OpenSQLite(context.Background(), path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	exerciseStore(t, s)
}

func TestSQLiteStore_Reopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "kv.db")

	s, err := OpenSQLite(ctx, path)
	require.NoError(t, err)
	require.NoError(t, s.Set(ctx, "k", "v1"))
	require.NoError(t, s.Close())

	s, err = OpenSQLite(ctx, path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	v, found, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "v1", v)
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	s, err := Open(ctx, Options{})
	require.NoError(t, err)
	assert.IsType(t, &MemStore{}, s)

	s, err = Open(ctx, Options{Driver: "FILE", Path: filepath.Join(t.TempDir(), "kv.json")})
	require.NoError(t, err)
	assert.IsType(t, &FileStore{}, s)

	_, err = Open(ctx, Options{Driver: DriverFile})
	assert.ErrorIs(t, err, ErrMissingPath)

	_, err = Open(ctx, Options{Driver: DriverPostgres})
	assert.ErrorIs(t, err, ErrMissingDSN)

	_, err = Open(ctx, Options{Driver: "redis"})
	assert.True(t, errors.Is(err, ErrUnknownDriver), "err=%v", err)
}
