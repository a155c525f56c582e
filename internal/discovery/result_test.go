package discovery_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bamsammich/sieve/internal/discovery"
)

func TestResult_FirstInsertionWins(t *testing.T) {
	t.Parallel()
	r := discovery.NewResult()

	assert.True(t, r.Put(discovery.Path{Name: "/a", Root: "/"}, discovery.Attributes{Size: 1, IsRegular: true}))
	assert.False(t, r.Put(discovery.Path{Name: "/a"}, discovery.Attributes{Size: 2, IsRegular: true}))
	assert.True(t, r.Put(discovery.Path{Name: "/b"}, discovery.Attributes{IsDir: true}))

	require.Equal(t, 2, r.Len())
	e, ok := r.Get("/a")
	require.True(t, ok)
	assert.Equal(t, "/", e.Path.Root)
	assert.Equal(t, int64(1), e.Attrs.Size)

	_, ok = r.Get("/missing")
	assert.False(t, ok)
}

func TestResult_Iteration(t *testing.T) {
	t.Parallel()
	r := discovery.NewResult()
	r.Put(discovery.Path{Name: "/d"}, discovery.Attributes{IsDir: true})
	r.Put(discovery.Path{Name: "/d/x"}, discovery.Attributes{IsRegular: true, Size: 7})
	r.Put(discovery.Path{Name: "/d/y"}, discovery.Attributes{IsRegular: true, Size: 5})

	assert.Equal(t, []string{"/d", "/d/x", "/d/y"}, r.Names())
	assert.Equal(t, "/d/x", r.At(1).Path.Name)

	var visited []string
	for p := range r.All() {
		visited = append(visited, p.String())
		if p.Name == "/d/x" {
			break
		}
	}
	assert.Equal(t, []string{"/d", "/d/x"}, visited)

	files, bytes := r.Totals()
	assert.Equal(t, int64(2), files)
	assert.Equal(t, int64(12), bytes)
}

func TestResult_EntriesIsCopy(t *testing.T) {
	t.Parallel()
	r := discovery.NewResult()
	r.Put(discovery.Path{Name: "/a"}, discovery.Attributes{})

	entries := r.Entries()
	entries[0].Path.Name = "/changed"
	assert.Equal(t, "/a", r.At(0).Path.Name)
}

func TestPath_Equal(t *testing.T) {
	t.Parallel()
	a := discovery.Path{Name: "/x", Root: "/"}
	b := discovery.Path{Name: "/x"}

	assert.True(t, a.Equal(b))
	assert.True(t, a.Tagged())
	assert.False(t, b.Tagged())
}

func TestResult_RootOf(t *testing.T) {
	t.Parallel()
	r := discovery.NewResult()
	r.Put(discovery.Path{Name: "/t/d", Root: "/t"}, discovery.Attributes{IsDir: true})
	r.Put(discovery.Path{Name: "/t/f", Root: "/t"}, discovery.Attributes{IsRegular: true})
	r.Put(discovery.Path{Name: "/t/d/e"}, discovery.Attributes{IsDir: true})
	r.Put(discovery.Path{Name: "/t/d/e/g"}, discovery.Attributes{IsRegular: true})
	r.Put(discovery.Path{Name: "/other/file"}, discovery.Attributes{IsRegular: true})

	assert.Equal(t, "/t", r.RootOf("/t/f"))
	assert.Equal(t, "/t", r.RootOf("/t/d/e/g"))
	assert.Empty(t, r.RootOf("/other/file"))
	assert.Empty(t, r.RootOf("/missing"))
}
