package discovery

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bamsammich/sieve/internal/transport"
)

// PrepareRoots validates caller-supplied paths and drops the redundant
// ones. It returns the retained roots in Compare order and the paths that
// were collapsed, also in Compare order.
//
// Empty strings, paths that do not exist (links are not followed) and
// exact duplicates after filepath.Clean are dropped silently. Every other
// candidate gets an identity: its canonical parent joined with its base
// name, so "a", "./a", "$PWD/a" and "link-to-parent/a" share one. A
// candidate is collapsed when its identity equals a retained root's, when
// its parent is a retained directory root (it is listed as one of that
// root's children) or, when recursive, when it lies below a retained
// directory root (it is reached by descending it). Candidates are decided
// shallowest identity first, so the outcome does not depend on how the
// paths are spelled or the order they are given in.
func PrepareRoots(fsys transport.FS, paths []string, recursive bool) ([]Node, []string, error) {
	if len(paths) == 0 {
		return nil, nil, fmt.Errorf("%w: no paths to enumerate", ErrInvalidArgument)
	}

	seen := make(map[string]struct{}, len(paths))
	candidates := make([]Node, 0, len(paths))
	for _, p := range paths {
		if p == "" {
			continue
		}
		p = filepath.Clean(p)
		if _, dup := seen[p]; dup {
			continue
		}
		seen[p] = struct{}{}

		entry, err := fsys.Lstat(p)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, nil, ioError("lstat", p, err)
		}
		candidates = append(candidates, Node{Path: p, Entry: entry})
	}

	if len(candidates) == 0 {
		return nil, nil, fmt.Errorf("%w: none of the %d paths name an existing file or folder",
			ErrInvalidArgument, len(paths))
	}

	SortNodes(candidates)

	c := collapser{fs: fsys, recursive: recursive, canon: make(map[string]string)}
	cands := make([]candidate, len(candidates))
	for i, cand := range candidates {
		id, err := c.identity(cand.Path)
		if err != nil {
			return nil, nil, err
		}
		cands[i] = candidate{Node: cand, parent: filepath.Dir(id), id: id}
	}

	// Ancestors are decided before their descendants; ties keep Compare order.
	byDepth := make([]int, len(cands))
	for i := range byDepth {
		byDepth[i] = i
	}
	slices.SortStableFunc(byDepth, func(a, b int) int {
		return depth(cands[a].id) - depth(cands[b].id)
	})

	var kept []*candidate
	for _, i := range byDepth {
		r := &cands[i]
		redundant, err := c.redundant(r, kept)
		if err != nil {
			return nil, nil, err
		}
		if redundant {
			r.collapsed = true
			continue
		}
		kept = append(kept, r)
	}

	retained := make([]Node, 0, len(kept))
	var collapsed []string
	for _, r := range cands {
		if r.collapsed {
			collapsed = append(collapsed, r.Path)
			continue
		}
		retained = append(retained, r.Node)
	}
	return retained, collapsed, nil
}

// candidate is a root path with its resolved identity.
type candidate struct {
	Node
	parent    string // canonical parent directory
	id        string // parent joined with the base name
	collapsed bool
}

type collapser struct {
	fs        transport.FS
	canon     map[string]string
	recursive bool
}

func (c *collapser) redundant(cand *candidate, kept []*candidate) (bool, error) {
	for _, r := range kept {
		if cand.id == r.id {
			return true, nil
		}
		if !r.Entry.IsDir {
			continue
		}

		if cand.id != cand.parent {
			same := cand.parent == r.id
			if !same {
				var err error
				same, err = c.fs.SameFile(cand.parent, r.Path)
				if err != nil {
					return false, ioError("samefile", cand.parent, err)
				}
			}
			if same {
				return true, nil
			}
		}

		if c.recursive && isNested(cand.id, r.id) {
			return true, nil
		}
	}
	return false, nil
}

// identity resolves p without following p itself when it is a link:
// the canonical parent joined with the base name. "." and ".." name
// directories reached through their parent, so they resolve fully.
func (c *collapser) identity(p string) (string, error) {
	base := filepath.Base(p)
	if base == "." || base == ".." {
		return c.canonical(p)
	}
	parent, err := c.canonical(filepath.Dir(p))
	if err != nil {
		return "", err
	}
	return filepath.Join(parent, base), nil
}

func (c *collapser) canonical(p string) (string, error) {
	if resolved, ok := c.canon[p]; ok {
		return resolved, nil
	}
	resolved, err := c.fs.Canonical(p)
	if err != nil {
		return "", ioError("canonical", p, err)
	}
	c.canon[p] = resolved
	return resolved, nil
}

// depth counts the separators below the filesystem root.
func depth(p string) int {
	if filepath.Dir(p) == p {
		return 0
	}
	return strings.Count(p, string(filepath.Separator))
}

// isNested reports whether p lies strictly below root, comparing whole
// path segments ("/a/bc" is not under "/a/b").
func isNested(p, root string) bool {
	rel, err := filepath.Rel(root, p)
	if err != nil {
		return false
	}
	return rel != "." && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
