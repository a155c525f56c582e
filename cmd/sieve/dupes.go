package main

import (
	"bufio"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bamsammich/sieve/internal/dupes"
	"github.com/bamsammich/sieve/internal/filter"
	"github.com/bamsammich/sieve/internal/ui"
)

func newDupesCmd(opts *options) *cobra.Command {
	var minSize string

	cmd := &cobra.Command{
		Use:   "dupes [flags] <path>...",
		Short: "Find files with identical content among the discovered paths",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var min int64
			if minSize != "" {
				n, err := filter.ParseSize(minSize)
				if err != nil {
					return &exitError{code: 2, err: fmt.Errorf("invalid --min: %w", err)}
				}
				min = n
			}

			ctx := cmd.Context()
			fsys, paths, err := opts.openFS(ctx, args)
			if err != nil {
				return err
			}
			defer fsys.Close()

			res, _, err := opts.discover(ctx, fsys, paths)
			if err != nil {
				return err
			}

			groups, err := dupes.Find(ctx, res, fsys, dupes.Options{MinSize: min})
			if err != nil {
				return fmt.Errorf("find duplicates: %w", err)
			}

			out := bufio.NewWriter(cmd.OutOrStdout())
			var wasted int64
			for _, g := range groups {
				wasted += g.Wasted()
				fmt.Fprintf(out, "%s  %s  x%d\n", g.Digest[:16], ui.FormatBytes(g.Size), len(g.Paths))
				for _, p := range g.Paths {
					fmt.Fprintf(out, "  %s\n", p)
				}
			}
			if err := out.Flush(); err != nil {
				return err
			}

			if !opts.quiet {
				fmt.Fprintf(cmd.ErrOrStderr(), "dupes: %s groups, %s reclaimable\n",
					ui.FormatCount(int64(len(groups))), ui.FormatBytes(wasted))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&minSize, "min", "", "ignore files smaller than SIZE (default: skip empty files)")
	return cmd
}
