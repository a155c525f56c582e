package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"github.com/bamsammich/sieve/internal/catalog"
	"github.com/bamsammich/sieve/internal/discovery"
	"github.com/bamsammich/sieve/internal/event"
	"github.com/bamsammich/sieve/internal/stats"
	"github.com/bamsammich/sieve/internal/ui"
)

var version = "dev"

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	opts := newOptions()
	defer opts.teardown()

	rootCmd := newRootCmd(opts)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(ctx)
	if err == nil {
		return 0
	}

	code := exitCode(err)
	var exitErr *exitError
	if !errors.As(err, &exitErr) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	return code
}

func newRootCmd(opts *options) *cobra.Command {
	var (
		output      string
		outFile     string
		sizes       bool
		showVersion bool
	)

	rootCmd := &cobra.Command{
		Use:   "sieve [flags] <path>...",
		Short: "Deterministic file and folder discovery",
		Long: heredoc.Doc(`
			sieve lists everything under the given paths exactly once and in a
			stable order: for each root, directories first and then files, each
			sorted by name; with -r, every subdirectory is then expanded in that
			same order.

			Paths already covered by another argument are dropped, symbolic links
			are listed but never followed, and remote paths (user@host:path) are
			read over SFTP.
		`),
		Example: heredoc.Doc(`
			sieve -r ~/Pictures ~/Pictures/2024
			sieve -r --exclude '*.tmp' --output json --out listing.json.zst /srv/data
			sieve -r backup@nas:/volume1/share
		`),
		Args: func(cmd *cobra.Command, args []string) error {
			if showVersion {
				return nil
			}
			return cobra.MinimumNArgs(1)(cmd, args)
		},
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: opts.setup,
		RunE: func(cmd *cobra.Command, args []string) error {
			if showVersion {
				fmt.Fprintf(cmd.OutOrStdout(), "sieve %s\n", version)
				return nil
			}
			if !cmd.Flags().Changed("output") && opts.cfg.Defaults.Output != nil {
				output = *opts.cfg.Defaults.Output
			}
			return runDiscover(cmd, opts, args, output, outFile, sizes)
		},
	}

	rootCmd.Flags().BoolVar(&showVersion, "version", false, "print version and exit")
	rootCmd.Flags().
		StringVarP(&output, "output", "o", "tree", "output format: tree, flat, json or yaml")
	rootCmd.Flags().
		StringVar(&outFile, "out", "", "write output to FILE instead of stdout (.zst compresses)")
	rootCmd.Flags().BoolVar(&sizes, "sizes", false, "show file sizes in tree and flat output")

	opts.register(rootCmd)

	rootCmd.AddCommand(newPlanCmd(opts))
	rootCmd.AddCommand(newDupesCmd(opts))
	rootCmd.AddCommand(newCountCmd(opts))
	rootCmd.AddCommand(newRunsCmd(opts))
	rootCmd.AddCommand(newDocsCmd())

	return rootCmd
}

// runDiscover is the root command: discover, render, optionally catalog.
func runDiscover(cmd *cobra.Command, opts *options, args []string, output, outFile string, sizes bool) error {
	ctx := cmd.Context()

	fsys, paths, err := opts.openFS(ctx, args)
	if err != nil {
		return err
	}
	defer fsys.Close()

	res, snap, err := opts.discover(ctx, fsys, paths)
	if err != nil {
		return err
	}

	w, err := ui.OpenOutput(outFile, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	theme := ui.PlainTheme()
	if outFile == "" && ui.IsTTY(os.Stdout.Fd()) {
		theme = ui.NewTheme(os.Stdout, opts.cfg.Theme)
	}
	renderer, err := ui.NewRenderer(ui.Config{Writer: w, Format: output, Theme: theme, Sizes: sizes})
	if err != nil {
		w.Close()
		return &exitError{code: 2, err: err}
	}
	if err := renderer.Render(res, snap); err != nil {
		w.Close()
		return fmt.Errorf("render: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("write output: %w", err)
	}

	if opts.catalogPath != "" {
		if err := saveRun(ctx, opts, args, res, snap); err != nil {
			return err
		}
	}

	if !opts.quiet {
		fmt.Fprintln(cmd.ErrOrStderr(), ui.Summary(snap))
	}
	return nil
}

func saveRun(ctx context.Context, opts *options, roots []string, res *discovery.Result, snap stats.Snapshot) error {
	c, err := catalog.Open(opts.catalogPath)
	if err != nil {
		return err
	}
	defer c.Close()

	run, err := c.Save(ctx, roots, opts.recursive, res, snap)
	if err != nil {
		return fmt.Errorf("save run: %w", err)
	}
	slog.Info("run saved", "id", run.ID, "catalog", c.Path())
	return nil
}

// watchEvents starts a ui.Watch consumer. The returned stop function closes
// the channel and waits for the consumer to finish.
func watchEvents(opts *options) (chan event.Event, func()) {
	events := make(chan event.Event, 256)
	done := make(chan struct{})
	cfg := ui.WatchConfig{Log: opts.logFile != ""}
	if !opts.quiet && ui.IsTTY(os.Stderr.Fd()) {
		cfg.Progress = os.Stderr
		cfg.Width = ui.TermWidth(os.Stderr.Fd())
	}
	go func() {
		defer close(done)
		ui.Watch(events, cfg)
	}()
	return events, func() {
		close(events)
		<-done
	}
}

type exitError struct {
	err  error
	code int
}

func (e *exitError) Error() string {
	if e.err != nil {
		return e.err.Error()
	}
	return fmt.Sprintf("exit code %d", e.code)
}

func (e *exitError) Unwrap() error { return e.err }

// exitCode maps an error to the process exit status: 1 for I/O failures
// and cancellation, 2 for usage errors and invalid arguments.
func exitCode(err error) int {
	var exitErr *exitError
	switch {
	case errors.As(err, &exitErr):
		return exitErr.code
	case errors.Is(err, discovery.ErrInvalidArgument):
		return 2
	case errors.Is(err, discovery.ErrIO),
		errors.Is(err, context.Canceled),
		errors.Is(err, catalog.ErrNotFound):
		return 1
	default:
		return 2
	}
}
