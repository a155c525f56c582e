package transport_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bamsammich/sieve/internal/transport"
)

func TestThrottledFS_PassesThrough(t *testing.T) {
	t.Parallel()
	root := setupTestTree(t)

	fs := transport.NewThrottledFS(context.Background(), transport.NewLocalFS(), 1000)
	defer fs.Close()

	entry, err := fs.Lstat(filepath.Join(root, "file.txt"))
	require.NoError(t, err)
	assert.Equal(t, int64(5), entry.Size)

	children, err := fs.ReadDir(root)
	require.NoError(t, err)
	assert.Len(t, children, 2)

	same, err := fs.SameFile(root, root)
	require.NoError(t, err)
	assert.True(t, same)
}

func TestThrottledFS_Limits(t *testing.T) {
	t.Parallel()
	root := setupTestTree(t)

	// Burst of 10, then one token every 100ms: the last two calls wait.
	fs := transport.NewThrottledFS(context.Background(), transport.NewLocalFS(), 10)
	start := time.Now()
	for range 12 {
		_, err := fs.Lstat(root)
		require.NoError(t, err)
	}
	assert.GreaterOrEqual(t, time.Since(start), 150*time.Millisecond)
}

func TestThrottledFS_CanceledContext(t *testing.T) {
	t.Parallel()
	root := setupTestTree(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	fs := transport.NewThrottledFS(ctx, transport.NewLocalFS(), 1)
	_, err := fs.ReadDir(root)
	require.Error(t, err)
}
