package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MadeAndikaPramana/GAPURA-HR-sub000/pkg/errors"
)

func TestFSStore_PutGetDelete(t *testing.T) {
	store, err := NewFSStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	data := []byte("certificate scan bytes")
	require.NoError(t, store.Put(ctx, "certificates/emp-1/type-1/abc", data))

	got, err := store.Get(ctx, "certificates/emp-1/type-1/abc")
	require.NoError(t, err)
	assert.Equal(t, data, got)

	exists, err := store.Exists(ctx, "certificates/emp-1/type-1/abc")
	require.NoError(t, err)
	assert.True(t, exists)

	require.NoError(t, store.Delete(ctx, "certificates/emp-1/type-1/abc"))

	exists, err = store.Exists(ctx, "certificates/emp-1/type-1/abc")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestFSStore_GetMissing(t *testing.T) {
	store, err := NewFSStore(t.TempDir())
	require.NoError(t, err)

	_, err = store.Get(context.Background(), "nope")
	assert.True(t, errors.Is(err, errors.ErrNotFound))
}

func TestFSStore_DeleteMissingIsNoError(t *testing.T) {
	store, err := NewFSStore(t.TempDir())
	require.NoError(t, err)

	assert.NoError(t, store.Delete(context.Background(), "nope"))
}

func TestFSStore_RejectsTraversal(t *testing.T) {
	store, err := NewFSStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	assert.Error(t, store.Put(ctx, "../outside", []byte("x")))
	_, err = store.Get(ctx, "/etc/passwd")
	assert.Error(t, err)
}

func TestHashBytes(t *testing.T) {
	// Deterministic and content-sensitive
	assert.Equal(t, HashBytes([]byte("a")), HashBytes([]byte("a")))
	assert.NotEqual(t, HashBytes([]byte("a")), HashBytes([]byte("b")))
	assert.Len(t, HashBytes([]byte("a")), 64)
}
