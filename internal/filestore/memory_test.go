package filestore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	path, err := store.Put(ctx, "datasets/x/v1/a.csv", []byte("Name,Age\n"))
	require.NoError(t, err)
	require.Equal(t, "datasets/x/v1/a.csv", path)

	data, err := store.Get(ctx, path)
	require.NoError(t, err)
	require.Equal(t, []byte("Name,Age\n"), data)

	require.NoError(t, store.Delete(ctx, path))
	_, err = store.Get(ctx, path)
	require.ErrorIs(t, err, ErrNotFound)

	// Deleting a missing object is not an error.
	require.NoError(t, store.Delete(ctx, path))
}

func TestMemoryStoreFailPuts(t *testing.T) {
	store := NewMemoryStore()
	store.FailPuts = true

	_, err := store.Put(context.Background(), "k", []byte("v"))
	require.Error(t, err)
	require.Equal(t, 0, store.Len())
}
