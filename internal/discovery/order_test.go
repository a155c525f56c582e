package discovery_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bamsammich/sieve/internal/discovery"
	"github.com/bamsammich/sieve/internal/transport"
)

func TestCompare(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		a      string
		b      string
		aIsDir bool
		bIsDir bool
		want   int
	}{
		{name: "dir before file", a: "/z", aIsDir: true, b: "/a", want: -1},
		{name: "file after dir", a: "/a", b: "/z", bIsDir: true, want: 1},
		{name: "files by name", a: "/a", b: "/b", want: -1},
		{name: "dirs by name", a: "/b", aIsDir: true, b: "/a", bIsDir: true, want: 1},
		{name: "byte order", a: "/B", b: "/a", want: -1},
		{name: "equal", a: "/a", b: "/a", want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, discovery.Compare(tt.a, tt.aIsDir, tt.b, tt.bIsDir))
		})
	}
}

func TestSortNodes(t *testing.T) {
	t.Parallel()

	nodes := []discovery.Node{
		{Path: "/t/b"},
		{Path: "/t/link", Entry: transport.FileEntry{IsSymlink: true}},
		{Path: "/t/z", Entry: transport.FileEntry{IsDir: true}},
		{Path: "/t/a"},
		{Path: "/t/c", Entry: transport.FileEntry{IsDir: true}},
	}
	discovery.SortNodes(nodes)

	var got []string
	for _, n := range nodes {
		got = append(got, n.Path)
	}
	assert.Equal(t, []string{"/t/c", "/t/z", "/t/a", "/t/b", "/t/link"}, got)
}
