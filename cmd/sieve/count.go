package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bamsammich/sieve/internal/census"
	"github.com/bamsammich/sieve/internal/transport"
	"github.com/bamsammich/sieve/internal/ui"
)

func newCountCmd(opts *options) *cobra.Command {
	var workers int

	cmd := &cobra.Command{
		Use:   "count [flags] <path>...",
		Short: "Print file, byte and directory totals using a parallel walk",
		Long: "count applies the same root handling and filters as discovery but walks " +
			"directories in parallel and keeps no listing, so it is faster on large local trees.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			loc, paths, err := transport.ParseLocations(args)
			if err != nil {
				return &exitError{code: 2, err: err}
			}
			if loc.IsRemote() {
				return &exitError{code: 2, err: errors.New("count works on local paths only; use sieve -o json for remote paths")}
			}

			snap, err := census.Count(cmd.Context(), paths, opts.recursive, census.Options{
				Filter:    opts.filter(),
				Workers:   workers,
				GitIgnore: opts.gitIgnore,
			})
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), ui.Summary(snap))
			return nil
		},
	}

	cmd.Flags().IntVarP(&workers, "workers", "n", 0, "number of walker goroutines (default: fastwalk's choice)")
	return cmd
}
