package discovery

import (
	"slices"
	"strings"

	"github.com/bamsammich/sieve/internal/transport"
)

// Compare orders directories before everything else, then by name with
// plain string ordering. Symlinks and special files rank with regular
// files so the ordering stays total.
func Compare(aName string, aIsDir bool, bName string, bIsDir bool) int {
	if aIsDir != bIsDir {
		if aIsDir {
			return -1
		}
		return 1
	}
	return strings.Compare(aName, bName)
}

// Node is a path together with its Lstat metadata.
type Node struct {
	Path  string
	Entry transport.FileEntry
}

// SortNodes sorts nodes in place with Compare.
func SortNodes(nodes []Node) {
	slices.SortFunc(nodes, func(a, b Node) int {
		return Compare(a.Path, a.Entry.IsDir, b.Path, b.Entry.IsDir)
	})
}
