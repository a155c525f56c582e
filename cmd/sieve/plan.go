package main

import (
	"bufio"
	"fmt"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"github.com/bamsammich/sieve/internal/plan"
	"github.com/bamsammich/sieve/internal/ui"
)

func newPlanCmd(opts *options) *cobra.Command {
	var deleteMode bool

	cmd := &cobra.Command{
		Use:   "plan [flags] <path>... <destination>",
		Short: "Print the operations that would copy (or delete) the discovered paths",
		Long: heredoc.Doc(`
			plan discovers the given paths and prints one operation per entry.

			Each entry keeps its path relative to the parent of the root it was
			found under, so "sieve plan -r /src/photos /backup" maps
			/src/photos/2024/a.jpg to /backup/photos/2024/a.jpg. Nothing is copied.

			With --delete there is no destination: the output lists every file,
			then every directory deepest first, in an order that can be removed
			one by one.
		`),
		Args: func(cmd *cobra.Command, args []string) error {
			if deleteMode {
				return cobra.MinimumNArgs(1)(cmd, args)
			}
			return cobra.MinimumNArgs(2)(cmd, args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			sources := args
			var dst string
			if !deleteMode {
				sources, dst = args[:len(args)-1], args[len(args)-1]
			}

			ctx := cmd.Context()
			fsys, paths, err := opts.openFS(ctx, sources)
			if err != nil {
				return err
			}
			defer fsys.Close()

			res, _, err := opts.discover(ctx, fsys, paths)
			if err != nil {
				return err
			}

			out := bufio.NewWriter(cmd.OutOrStdout())
			if deleteMode {
				removals := plan.DeletePlan(res)
				for _, p := range removals {
					fmt.Fprintf(out, "delete %s\n", p)
				}
				if err := out.Flush(); err != nil {
					return err
				}
				if !opts.quiet {
					fmt.Fprintf(cmd.ErrOrStderr(), "plan: %s removals\n", ui.FormatCount(int64(len(removals))))
				}
				return nil
			}

			ops, err := plan.CopyPlan(res, dst)
			if err != nil {
				return err
			}
			for _, op := range ops {
				fmt.Fprintln(out, op)
			}
			if err := out.Flush(); err != nil {
				return err
			}
			if !opts.quiet {
				files, bytes := plan.Totals(ops)
				fmt.Fprintf(cmd.ErrOrStderr(), "plan: %s files, %s into %s\n",
					ui.FormatCount(files), ui.FormatBytes(bytes), dst)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&deleteMode, "delete", false, "plan removal of the discovered paths instead of a copy")
	return cmd
}
