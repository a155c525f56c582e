// Package dupes finds regular files with identical content among the
// entries of a discovery result.
//
// Candidates are narrowed in three passes: equal size, equal xxhash of the
// first PrefixSize bytes, then equal BLAKE3 digest of the whole file.
package dupes

import (
	"context"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"slices"

	"github.com/cespare/xxhash/v2"
	"github.com/zeebo/blake3"

	"github.com/bamsammich/sieve/internal/discovery"
)

// PrefixSize is how much of each candidate the quick pass reads.
const PrefixSize = 64 * 1024

// Opener opens a discovered file for reading. transport.FS satisfies it.
type Opener interface {
	OpenRead(path string) (io.ReadCloser, error)
}

// Group is a set of files with identical content.
type Group struct {
	Digest string // hex BLAKE3
	Paths  []string
	Size   int64
}

// Wasted returns the bytes that removing all but one copy would free.
func (g Group) Wasted() int64 {
	return g.Size * int64(len(g.Paths)-1)
}

// Options configures Find.
type Options struct {
	MinSize int64 // files smaller than this are ignored; 0 means 1 (skip empty files)
}

// Find returns the duplicate groups among the regular files of res,
// ordered by the position of each group's first file in res. Paths within
// a group keep result order.
func Find(ctx context.Context, res *discovery.Result, open Opener, opts Options) ([]Group, error) {
	minSize := max(opts.MinSize, 1)

	order := make(map[string]int, res.Len())
	bySize := make(map[int64][]string)
	var sizes []int64
	i := 0
	for p, a := range res.All() {
		i++
		if !a.IsRegular || a.Size < minSize {
			continue
		}
		order[p.Name] = i
		if _, ok := bySize[a.Size]; !ok {
			sizes = append(sizes, a.Size)
		}
		bySize[a.Size] = append(bySize[a.Size], p.Name)
	}

	var groups []Group
	for _, size := range sizes {
		candidates := bySize[size]
		if len(candidates) < 2 {
			continue
		}

		byPrefix, err := bucket(ctx, candidates, func(path string) (string, error) {
			return prefixHash(open, path)
		})
		if err != nil {
			return nil, err
		}
		for _, same := range byPrefix {
			if len(same.paths) < 2 {
				continue
			}
			byDigest, err := bucket(ctx, same.paths, func(path string) (string, error) {
				return fullHash(open, path)
			})
			if err != nil {
				return nil, err
			}
			for _, b := range byDigest {
				if len(b.paths) < 2 {
					continue
				}
				groups = append(groups, Group{Size: size, Digest: b.key, Paths: b.paths})
			}
		}
	}

	slices.SortFunc(groups, func(a, b Group) int {
		return order[a.Paths[0]] - order[b.Paths[0]]
	})
	slog.Debug("duplicate scan complete", "candidates", len(order), "groups", len(groups))
	return groups, nil
}

type keyed struct {
	key   string
	paths []string
}

// bucket groups paths by key, keeping the input order within each bucket
// and ordering buckets by first appearance.
func bucket(ctx context.Context, paths []string, key func(string) (string, error)) ([]keyed, error) {
	index := make(map[string]int)
	var out []keyed
	for _, p := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		k, err := key(p)
		if err != nil {
			return nil, err
		}
		i, ok := index[k]
		if !ok {
			i = len(out)
			index[k] = i
			out = append(out, keyed{key: k})
		}
		out[i].paths = append(out[i].paths, p)
	}
	return out, nil
}

func prefixHash(open Opener, path string) (string, error) {
	r, err := open.OpenRead(path)
	if err != nil {
		return "", fmt.Errorf("open %s: %w", path, err)
	}
	defer r.Close()

	h := xxhash.New()
	if _, err := io.CopyN(h, r, PrefixSize); err != nil && err != io.EOF {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return fmt.Sprintf("%016x", h.Sum64()), nil
}

func fullHash(open Opener, path string) (string, error) {
	r, err := open.OpenRead(path)
	if err != nil {
		return "", fmt.Errorf("open %s: %w", path, err)
	}
	defer r.Close()

	h := blake3.New()
	buf := make([]byte, 32*1024)
	if _, err := io.CopyBuffer(h, r, buf); err != nil {
		return "", fmt.Errorf("hash %s: %w", path, err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
