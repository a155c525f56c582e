package ui

import (
	"fmt"
	"io"

	"github.com/bamsammich/sieve/internal/discovery"
	"github.com/bamsammich/sieve/internal/stats"
)

// Renderer writes a completed discovery to its writer.
type Renderer interface {
	Render(res *discovery.Result, snap stats.Snapshot) error
}

// Config configures a Renderer.
type Config struct {
	Writer io.Writer
	Format string // tree, flat, json, yaml
	Theme  Theme
	Sizes  bool // show file sizes in tree and flat output
}

// NewRenderer creates the renderer for cfg.Format.
//
//nolint:ireturn // one renderer per output format
func NewRenderer(cfg Config) (Renderer, error) {
	switch cfg.Format {
	case "", "tree":
		return &treeRenderer{w: cfg.Writer, theme: cfg.Theme, sizes: cfg.Sizes}, nil
	case "flat":
		return &flatRenderer{w: cfg.Writer, sizes: cfg.Sizes}, nil
	case "json":
		return &documentRenderer{w: cfg.Writer, yaml: false}, nil
	case "yaml":
		return &documentRenderer{w: cfg.Writer, yaml: true}, nil
	default:
		return nil, fmt.Errorf("unknown output format %q", cfg.Format)
	}
}
