package ui

import (
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/bamsammich/sieve/internal/config"
)

// Default colors.
var (
	ColorBlue   = lipgloss.Color("#89b4fa")
	ColorBright = lipgloss.Color("#cdd6f4")
	ColorMauve  = lipgloss.Color("#cba6f7")
	ColorTeal   = lipgloss.Color("#94e2d5")
	ColorMuted  = lipgloss.Color("#5a6278")
)

// Theme holds the styles used by the tree renderer.
type Theme struct {
	Root  lipgloss.Style
	Dir   lipgloss.Style
	File  lipgloss.Style
	Link  lipgloss.Style
	Muted lipgloss.Style
}

// NewTheme builds styles for w. Colors are emitted only when w is a
// terminal that supports them; tc overrides the defaults.
func NewTheme(w io.Writer, tc config.ThemeConfig) Theme {
	r := lipgloss.NewRenderer(w)
	pick := func(override *string, def lipgloss.Color) lipgloss.Color {
		if override != nil {
			return lipgloss.Color(*override)
		}
		return def
	}
	return Theme{
		Root:  r.NewStyle().Bold(true).Foreground(pick(tc.Root, ColorMauve)),
		Dir:   r.NewStyle().Bold(true).Foreground(pick(tc.Dir, ColorBlue)),
		File:  r.NewStyle().Foreground(pick(tc.File, ColorBright)),
		Link:  r.NewStyle().Foreground(pick(tc.Link, ColorTeal)),
		Muted: r.NewStyle().Foreground(pick(tc.Muted, ColorMuted)),
	}
}

// PlainTheme renders everything unstyled.
func PlainTheme() Theme {
	s := lipgloss.NewStyle()
	return Theme{Root: s, Dir: s, File: s, Link: s, Muted: s}
}
