package catalog_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bamsammich/sieve/internal/catalog"
	"github.com/bamsammich/sieve/internal/discovery"
)

func openCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	c, err := catalog.Open(filepath.Join(t.TempDir(), "state", "catalog.db"))
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c
}

func discover(t *testing.T) (string, *discovery.Engine, *discovery.Result) {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "sub"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.txt"), []byte("alpha"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "sub", "b.txt"), []byte("bravo!"), 0o600))
	require.NoError(t, os.Symlink("a.txt", filepath.Join(root, "ln")))

	eng := discovery.New(discovery.Options{})
	res, err := eng.Discover(context.Background(), []string{root}, true)
	require.NoError(t, err)
	return root, eng, res
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	t.Parallel()
	c := openCatalog(t)
	root, eng, res := discover(t)

	run, err := c.Save(context.Background(), []string{root}, true, res, eng.Stats())
	require.NoError(t, err)

	_, err = uuid.Parse(run.ID)
	require.NoError(t, err)
	assert.Equal(t, res.Len(), run.Entries)
	assert.Equal(t, int64(2), run.Files)
	assert.Equal(t, int64(11), run.Bytes)

	loaded, got, err := c.Load(context.Background(), run.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{root}, loaded.Roots)
	assert.True(t, loaded.Recursive)
	assert.Equal(t, res.Names(), got.Names())

	for i, want := range res.Entries() {
		e := got.At(i)
		assert.Equal(t, want.Path, e.Path)
		assert.Equal(t, want.Attrs.Size, e.Attrs.Size)
		assert.Equal(t, want.Attrs.Mode, e.Attrs.Mode)
		assert.Equal(t, want.Attrs.IsDir, e.Attrs.IsDir)
		assert.Equal(t, want.Attrs.IsSymlink, e.Attrs.IsSymlink)
		assert.True(t, want.Attrs.ModTime.Equal(e.Attrs.ModTime))
	}

	files, bytes := got.Totals()
	assert.Equal(t, run.Files, files)
	assert.Equal(t, run.Bytes, bytes)
}

func TestRuns(t *testing.T) {
	t.Parallel()
	c := openCatalog(t)
	root, eng, res := discover(t)

	first, err := c.Save(context.Background(), []string{root}, true, res, eng.Stats())
	require.NoError(t, err)
	time.Sleep(2 * time.Millisecond)
	second, err := c.Save(context.Background(), []string{root, "/elsewhere"}, false, res, eng.Stats())
	require.NoError(t, err)

	runs, err := c.Runs(context.Background())
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, second.ID, runs[0].ID)
	assert.Equal(t, []string{root, "/elsewhere"}, runs[0].Roots)
	assert.False(t, runs[0].Recursive)
	assert.Equal(t, first.ID, runs[1].ID)
}

func TestLoad_NotFound(t *testing.T) {
	t.Parallel()
	c := openCatalog(t)

	_, _, err := c.Load(context.Background(), uuid.NewString())
	require.ErrorIs(t, err, catalog.ErrNotFound)
}

func TestDelete(t *testing.T) {
	t.Parallel()
	c := openCatalog(t)
	root, eng, res := discover(t)

	run, err := c.Save(context.Background(), []string{root}, true, res, eng.Stats())
	require.NoError(t, err)
	require.NoError(t, c.Delete(context.Background(), run.ID))

	runs, err := c.Runs(context.Background())
	require.NoError(t, err)
	assert.Empty(t, runs)

	require.ErrorIs(t, c.Delete(context.Background(), run.ID), catalog.ErrNotFound)
}

func TestOpen_Reopen(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "catalog.db")
	root, eng, res := discover(t)

	c, err := catalog.Open(path)
	require.NoError(t, err)
	run, err := c.Save(context.Background(), []string{root}, true, res, eng.Stats())
	require.NoError(t, err)
	require.NoError(t, c.Close())

	c, err = catalog.Open(path)
	require.NoError(t, err)
	defer c.Close()
	_, got, err := c.Load(context.Background(), run.ID)
	require.NoError(t, err)
	assert.Equal(t, res.Len(), got.Len())
}
