package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/bamsammich/sieve/internal/config"
	"github.com/bamsammich/sieve/internal/discovery"
	"github.com/bamsammich/sieve/internal/filter"
	"github.com/bamsammich/sieve/internal/stats"
	"github.com/bamsammich/sieve/internal/transport"
	"github.com/bamsammich/sieve/internal/ui"
)

// options holds the flags shared by every subcommand.
type options struct {
	chain       *filter.Chain
	cfg         config.Config
	logCloser   io.Closer
	configFile  string
	logFile     string
	filterFile  string
	minSize     string
	maxSize     string
	sshKey      string
	knownHosts  string
	catalogPath string
	sshPort     int
	opsLimit    int
	recursive   bool
	verbose     bool
	quiet       bool
	gitIgnore   bool
}

func newOptions() *options {
	return &options{chain: filter.NewChain()}
}

// filterFlag is a custom pflag.Value that preserves CLI ordering of
// --exclude and --include rules by appending to a shared filter.Chain.
type filterFlag struct {
	chain   *filter.Chain
	include bool
}

func (*filterFlag) String() string { return "" }
func (*filterFlag) Type() string   { return "string" }

func (f *filterFlag) Set(val string) error {
	if f.include {
		return f.chain.AddInclude(val)
	}
	return f.chain.AddExclude(val)
}

func (o *options) register(cmd *cobra.Command) {
	flags := cmd.PersistentFlags()

	flags.BoolVarP(&o.recursive, "recursive", "r", false, "descend into subdirectories")
	flags.BoolVarP(&o.verbose, "verbose", "v", false, "verbose output")
	flags.BoolVarP(&o.quiet, "quiet", "q", false, "suppress all output except errors and results")
	flags.StringVar(&o.logFile, "log", "", "write structured JSON log (including every discovery event) to FILE")
	flags.StringVar(&o.configFile, "config", "", "config file (default: $XDG_CONFIG_HOME/sieve/config.toml)")

	// Filter flags: custom pflag.Value to preserve CLI ordering.
	flags.Var(&filterFlag{chain: o.chain, include: false}, "exclude", "exclude entries matching PATTERN (repeatable)")
	flags.Var(&filterFlag{chain: o.chain, include: true}, "include", "include entries matching PATTERN (repeatable)")
	flags.StringVar(&o.filterFile, "filter", "", "read filter rules from FILE")
	flags.StringVar(&o.minSize, "min-size", "", "skip files smaller than SIZE (e.g. 1M, 100K)")
	flags.StringVar(&o.maxSize, "max-size", "", "skip files larger than SIZE (e.g. 1G, 500M)")
	flags.BoolVar(&o.gitIgnore, "gitignore", false, "skip entries matched by each root's .gitignore")

	flags.StringVar(&o.sshKey, "ssh-key", "", "SSH private key file (default: auto-detect)")
	flags.IntVar(&o.sshPort, "ssh-port", transport.DefaultSSHPort, "SSH port")
	flags.StringVar(&o.knownHosts, "known-hosts", "", "known_hosts file (default: ~/.ssh/known_hosts)")
	flags.IntVar(&o.opsLimit, "ops-limit", 0, "limit filesystem operations per second (0 = unlimited)")

	flags.StringVar(&o.catalogPath, "catalog", "", "SQLite catalog to record runs in")
}

// setup runs before every command: config defaults, logging, filters.
func (o *options) setup(cmd *cobra.Command, _ []string) error {
	var cfgErr error
	if o.configFile != "" {
		o.cfg, cfgErr = config.LoadFile(o.configFile)
		if cfgErr != nil {
			return &exitError{code: 2, err: fmt.Errorf("load config: %w", cfgErr)}
		}
	} else {
		o.cfg, cfgErr = config.Load()
	}
	applyConfigDefaults(cmd.Flags(), o.cfg.Defaults, o)

	if err := o.setupLogging(); err != nil {
		return err
	}
	if cfgErr != nil {
		slog.Warn("failed to load config", "error", cfgErr)
	}

	return o.setupFilter()
}

func (o *options) setupLogging() error {
	logLevel := slog.LevelInfo
	if o.verbose {
		logLevel = slog.LevelDebug
	} else if o.quiet {
		logLevel = slog.LevelWarn
	}
	textHandler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	})

	var logHandler slog.Handler = textHandler
	if o.logFile != "" {
		lf, err := os.Create(o.logFile)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		o.logCloser = lf
		jsonHandler := slog.NewJSONHandler(lf, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})
		logHandler = ui.NewMultiHandler(textHandler, jsonHandler)
	}
	slog.SetDefault(slog.New(logHandler))
	return nil
}

func (o *options) setupFilter() error {
	if o.filterFile != "" {
		if err := o.chain.LoadFile(o.filterFile); err != nil {
			return fmt.Errorf("load filter file: %w", err)
		}
	}

	// Config rules come after CLI rules, so the CLI wins on first match.
	for _, pat := range o.cfg.Defaults.Exclude {
		if err := o.chain.AddExclude(pat); err != nil {
			return fmt.Errorf("config exclude %q: %w", pat, err)
		}
	}
	for _, pat := range o.cfg.Defaults.Include {
		if err := o.chain.AddInclude(pat); err != nil {
			return fmt.Errorf("config include %q: %w", pat, err)
		}
	}

	if o.minSize != "" {
		n, err := filter.ParseSize(o.minSize)
		if err != nil {
			return &exitError{code: 2, err: fmt.Errorf("invalid --min-size: %w", err)}
		}
		o.chain.SetMinSize(n)
	}
	if o.maxSize != "" {
		n, err := filter.ParseSize(o.maxSize)
		if err != nil {
			return &exitError{code: 2, err: fmt.Errorf("invalid --max-size: %w", err)}
		}
		o.chain.SetMaxSize(n)
	}
	return nil
}

func (o *options) teardown() {
	if o.logCloser != nil {
		o.logCloser.Close()
		o.logCloser = nil
	}
}

// filter returns the chain, or nil when it has no rules.
func (o *options) filter() *filter.Chain {
	if o.chain.Empty() {
		return nil
	}
	return o.chain
}

// openFS resolves the path arguments to one filesystem: local, or an SFTP
// connection when they name a remote host.
//
//nolint:ireturn // local, SFTP or throttled
func (o *options) openFS(ctx context.Context, args []string) (transport.FS, []string, error) {
	loc, paths, err := transport.ParseLocations(args)
	if err != nil {
		return nil, nil, &exitError{code: 2, err: err}
	}

	var fsys transport.FS
	if loc.IsRemote() {
		slog.Debug("connecting", "host", loc.Host, "user", loc.User, "port", o.sshPort)
		sfs, err := transport.DialSFTP(loc, transport.SSHOpts{
			KeyFile:        o.sshKey,
			KnownHostsFile: o.knownHosts,
			Port:           o.sshPort,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("connect to %s: %w", loc, err)
		}
		fsys = sfs
	} else {
		fsys = transport.NewLocalFS()
	}

	if o.opsLimit > 0 {
		fsys = transport.NewThrottledFS(ctx, fsys, o.opsLimit)
	}
	return fsys, paths, nil
}

// discover runs one discovery over fsys with the shared options.
func (o *options) discover(
	ctx context.Context,
	fsys transport.FS,
	paths []string,
) (*discovery.Result, stats.Snapshot, error) {
	events, stopWatch := watchEvents(o)
	eng := discovery.New(discovery.Options{
		FS:        fsys,
		Filter:    o.filter(),
		Events:    events,
		GitIgnore: o.gitIgnore,
	})

	slog.Debug("starting discovery",
		"paths", paths,
		"recursive", o.recursive,
		"filters", o.chain.Len(),
		"gitignore", o.gitIgnore,
	)
	res, err := eng.Discover(ctx, paths, o.recursive)
	stopWatch()
	if err != nil {
		return nil, stats.Snapshot{}, err
	}
	return res, eng.Stats(), nil
}

// applyConfigDefaults applies config file defaults for flags not explicitly set on the CLI.
func applyConfigDefaults(flags *pflag.FlagSet, defaults config.DefaultsConfig, o *options) {
	if !flags.Changed("recursive") && defaults.Recursive != nil {
		o.recursive = *defaults.Recursive
	}
	if !flags.Changed("min-size") && defaults.MinSize != nil {
		o.minSize = *defaults.MinSize
	}
	if !flags.Changed("max-size") && defaults.MaxSize != nil {
		o.maxSize = *defaults.MaxSize
	}
	if !flags.Changed("ssh-port") && defaults.SSHPort != nil {
		o.sshPort = *defaults.SSHPort
	}
	if !flags.Changed("ops-limit") && defaults.OpsLimit != nil {
		o.opsLimit = *defaults.OpsLimit
	}
	if !flags.Changed("catalog") && defaults.Catalog != nil {
		o.catalogPath = *defaults.Catalog
	}
}
