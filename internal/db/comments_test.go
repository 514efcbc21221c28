package db

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCommentStore(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryCommentStore()

	_, err := store.LoadComments(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	input := []string{"first", "second"}
	require.NoError(t, store.SaveComments(ctx, "1", input))
	input[0] = "changed"

	got, err := store.LoadComments(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, []string{"first", "second"}, got)

	require.NoError(t, store.SaveComments(ctx, "1", []string{"only"}))
	got, err = store.LoadComments(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, []string{"only"}, got)
}

func TestMemoryCommentStore_EmptyListIsStored(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryCommentStore()

	require.NoError(t, store.SaveComments(ctx, "1", nil))

	got, err := store.LoadComments(ctx, "1")
	require.NoError(t, err)
	assert.Empty(t, got)
}
