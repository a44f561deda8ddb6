package testutil

import (
	"context"
	"testing"

	"outofschool/internal/index"
	"outofschool/internal/types"

	"github.com/stretchr/testify/require"
)

// SetupTestIndex creates an in-memory search index holding workshops
func SetupTestIndex(t *testing.T, workshops ...types.Workshop) *index.Index {
	t.Helper()

	idx, err := index.NewMemory()
	require.NoError(t, err)
	t.Cleanup(func() {
		idx.Close()
	})

	require.NoError(t, idx.Upsert(context.Background(), workshops...))
	return idx
}
