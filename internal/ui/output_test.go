package ui_test

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bamsammich/sieve/internal/ui"
)

func TestOpenOutput_Stdout(t *testing.T) {
	t.Parallel()

	var stdout bytes.Buffer
	w, err := ui.OpenOutput("-", &stdout)
	require.NoError(t, err)
	_, err = io.WriteString(w, "hello")
	require.NoError(t, err)
	require.NoError(t, w.Close())
	assert.Equal(t, "hello", stdout.String())
}

func TestOpenOutput_File(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "out.json")

	w, err := ui.OpenOutput(path, nil)
	require.NoError(t, err)
	_, err = io.WriteString(w, `{"ok":true}`)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, `{"ok":true}`, string(data))
}

func TestOpenOutput_Zstd(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "out.json.zst")
	payload := bytes.Repeat([]byte("/srv/data/file\n"), 1000)

	w, err := ui.OpenOutput(path, nil)
	require.NoError(t, err)
	_, err = w.Write(payload)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	info, err := f.Stat()
	require.NoError(t, err)
	assert.Less(t, info.Size(), int64(len(payload)))

	dec, err := zstd.NewReader(f)
	require.NoError(t, err)
	defer dec.Close()

	got, err := io.ReadAll(dec)
	require.NoError(t, err)
	assert.Equal(t, payload, got)
}

func TestOpenOutput_BadPath(t *testing.T) {
	t.Parallel()

	_, err := ui.OpenOutput(filepath.Join(t.TempDir(), "missing", "out.json"), nil)
	assert.Error(t, err)
}
