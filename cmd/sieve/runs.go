package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/bamsammich/sieve/internal/catalog"
	"github.com/bamsammich/sieve/internal/discovery"
	"github.com/bamsammich/sieve/internal/stats"
	"github.com/bamsammich/sieve/internal/ui"
)

func newRunsCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List discovery runs recorded with --catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := openCatalog(opts)
			if err != nil {
				return err
			}
			defer c.Close()

			runs, err := c.Runs(cmd.Context())
			if err != nil {
				return err
			}

			t := table.New().
				Border(lipgloss.HiddenBorder()).
				Headers("ID", "STARTED", "ENTRIES", "FILES", "SIZE", "ROOTS")
			for _, r := range runs {
				t.Row(
					r.ID,
					r.Started.Local().Format("2006-01-02 15:04:05"),
					ui.FormatCount(int64(r.Entries)),
					ui.FormatCount(r.Files),
					ui.FormatBytes(r.Bytes),
					strings.Join(r.Roots, " "),
				)
			}
			fmt.Fprintln(cmd.OutOrStdout(), t.Render())
			return nil
		},
	}

	cmd.AddCommand(newRunsShowCmd(opts), newRunsRmCmd(opts))
	return cmd
}

func newRunsShowCmd(opts *options) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Render a recorded run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := openCatalog(opts)
			if err != nil {
				return err
			}
			defer c.Close()

			run, res, err := c.Load(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			theme := ui.PlainTheme()
			if ui.IsTTY(os.Stdout.Fd()) {
				theme = ui.NewTheme(os.Stdout, opts.cfg.Theme)
			}
			r, err := ui.NewRenderer(ui.Config{Writer: cmd.OutOrStdout(), Format: output, Theme: theme})
			if err != nil {
				return &exitError{code: 2, err: err}
			}
			return r.Render(res, snapshotOf(run, res))
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "tree", "output format: tree, flat, json or yaml")
	return cmd
}

func newRunsRmCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>...",
		Short: "Delete recorded runs",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := openCatalog(opts)
			if err != nil {
				return err
			}
			defer c.Close()

			for _, id := range args {
				if err := c.Delete(cmd.Context(), id); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

// snapshotOf rebuilds the counters of a recorded run.
func snapshotOf(run catalog.Run, res *discovery.Result) stats.Snapshot {
	snap := stats.Snapshot{Files: run.Files, Bytes: run.Bytes}
	for _, a := range res.All() {
		if a.IsDir {
			snap.Dirs++
		}
	}
	return snap
}

func openCatalog(opts *options) (*catalog.Catalog, error) {
	if opts.catalogPath == "" {
		return nil, &exitError{code: 2, err: errors.New("no catalog: pass --catalog or set defaults.catalog")}
	}
	return catalog.Open(opts.catalogPath)
}
