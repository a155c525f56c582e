// Package plan turns a discovery result into copy and delete operations.
// Nothing is executed here; callers print or apply the operations.
package plan

import (
	"cmp"
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bamsammich/sieve/internal/discovery"
)

// Kind is the type of a copy operation.
type Kind int

const (
	Mkdir Kind = iota + 1
	Copy
	Link
)

func (k Kind) String() string {
	switch k {
	case Mkdir:
		return "mkdir"
	case Copy:
		return "copy"
	case Link:
		return "link"
	default:
		return "unknown"
	}
}

// Op is one step of a copy plan.
type Op struct {
	Src  string
	Dst  string
	Kind Kind
	Size int64
}

func (o Op) String() string {
	if o.Kind == Mkdir {
		return fmt.Sprintf("mkdir %s", o.Dst)
	}
	return fmt.Sprintf("%s %s -> %s", o.Kind, o.Src, o.Dst)
}

// ErrCollision is returned by CopyPlan when two sources map to one target,
// as with roots "/x/photos" and "/y/photos".
var ErrCollision = errors.New("destination collision")

// CopyPlan maps every entry of res under dst. An entry keeps its path
// relative to the parent of the root it was discovered under, so root
// "/src/photos" lands at dst/photos. File roots land directly in dst.
// Operations follow result order, so a directory's mkdir always precedes
// the operations for its contents.
func CopyPlan(res *discovery.Result, dst string) ([]Op, error) {
	ops := make([]Op, 0, res.Len())
	owner := make(map[string]string) // target -> source

	// claim reports whether target is new, failing when another source has it.
	claim := func(target, src string) (bool, error) {
		prev, taken := owner[target]
		if !taken {
			owner[target] = src
			return true, nil
		}
		if prev != src {
			return false, fmt.Errorf("%w: %s and %s both map to %s", ErrCollision, prev, src, target)
		}
		return false, nil
	}

	for p, a := range res.All() {
		root := res.RootOf(p.Name)
		var target string
		if root == "" {
			target = filepath.Join(dst, filepath.Base(p.Name))
		} else {
			rel, err := filepath.Rel(filepath.Dir(root), p.Name)
			if err != nil {
				return nil, fmt.Errorf("plan %s: %w", p.Name, err)
			}
			target = filepath.Join(dst, rel)

			rootDst := filepath.Join(dst, filepath.Base(root))
			fresh, err := claim(rootDst, root)
			if err != nil {
				return nil, err
			}
			if fresh {
				ops = append(ops, Op{Kind: Mkdir, Src: root, Dst: rootDst})
			}
		}

		fresh, err := claim(target, p.Name)
		if err != nil {
			return nil, err
		}
		if !fresh {
			continue
		}
		switch {
		case a.IsDir:
			ops = append(ops, Op{Kind: Mkdir, Src: p.Name, Dst: target})
		case a.IsSymlink:
			ops = append(ops, Op{Kind: Link, Src: p.Name, Dst: target})
		default:
			ops = append(ops, Op{Kind: Copy, Src: p.Name, Dst: target, Size: a.Size})
		}
	}
	return ops, nil
}

// Totals sums the copy operations of a plan.
func Totals(ops []Op) (files, bytes int64) {
	for _, op := range ops {
		if op.Kind == Copy {
			files++
			bytes += op.Size
		}
	}
	return files, bytes
}

// DeletePlan lists the paths to remove in a safe order: every
// non-directory in result order, then every directory deepest first,
// ending with the root directories entries were discovered under.
func DeletePlan(res *discovery.Result) []string {
	var (
		files []string
		dirs  []string
		seen  = make(map[string]bool)
	)
	for p, a := range res.All() {
		if p.Tagged() && !seen[p.Root] {
			seen[p.Root] = true
			dirs = append(dirs, p.Root)
		}
		if a.IsDir {
			dirs = append(dirs, p.Name)
		} else {
			files = append(files, p.Name)
		}
	}

	slices.SortStableFunc(dirs, func(a, b string) int {
		return cmp.Compare(depth(b), depth(a))
	})
	return append(files, dirs...)
}

func depth(p string) int {
	return strings.Count(filepath.Clean(p), string(filepath.Separator))
}
