package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"go-browser-topsites/db"
	"go-browser-topsites/internal/browsers"
	"go-browser-topsites/internal/config"
	"go-browser-topsites/internal/logging"
	"go-browser-topsites/internal/report"
	"go-browser-topsites/internal/topsites"
)

type rootOptions struct {
	configFile string
	browser    string
	root       string
	top        int
	strategy   string
	driver     string
	logLevel   string
	json       bool
	noColor    bool
	verbose    bool
	parallel   bool
}

// NewRootCmd builds the topsites command writing results to stdout and
// diagnostics to stderr.
func NewRootCmd(stdout, stderr io.Writer) *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "topsites",
		Short: "Show the most visited sites of every browser profile",
		Long: `topsites finds the browser's profile directories, reads the visit history of
each profile and prints the most visited domains per profile.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, opts, stdout, stderr)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.configFile, "config", "c", "", "YAML configuration file")
	flags.StringVarP(&opts.browser, "browser", "b", "firefox", "Browser to inspect (firefox)")
	flags.StringVar(&opts.root, "root", "", "Profile root directory (default: platform location)")
	flags.IntVarP(&opts.top, "top", "n", topsites.DefaultTop, "Number of domains per profile")
	flags.StringVar(&opts.strategy, "strategy", topsites.StrategyHeuristic, "Domain strategy (heuristic, publicsuffix)")
	flags.StringVar(&opts.driver, "driver", db.DriverSQLite3, "SQLite driver (sqlite3, sqlite)")
	flags.StringVar(&opts.logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")
	flags.BoolVar(&opts.json, "json", false, "Output in JSON format")
	flags.BoolVar(&opts.noColor, "no-color", false, "Disable coloured output")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "Show discovery details")
	flags.BoolVar(&opts.parallel, "parallel", false, "Search profile directories concurrently")

	return cmd
}

// Execute runs the root command and exits on failure. It is called by main.main().
func Execute() {
	if err := NewRootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, opts *rootOptions, stdout, stderr io.Writer) error {
	cfg, err := loadConfig(cmd, opts)
	if err != nil {
		return err
	}

	useColor := !opts.noColor && isTerminal(stdout)
	if cfg.Output.Color != nil && !opts.noColor {
		useColor = *cfg.Output.Color
	}

	logger, err := logging.New(cfg.Logger.Level, stderr, useColor && isTerminal(stderr))
	if err != nil {
		return err
	}

	browser, err := browsers.ConfigFor(cfg.Browser)
	if err != nil {
		return err
	}

	firefox, err := browsers.NewFirefox(
		browsers.WithRoot(cfg.Root),
		browsers.WithProfilePattern(cfg.ProfilePattern),
		browsers.WithDataStoreFile(cfg.DataStoreFile),
		browsers.WithParallel(cfg.Parallel),
		browsers.WithLogger(logger),
	)
	if err != nil {
		return err
	}

	discovery, err := firefox.Discover(cmd.Context())
	if err != nil {
		return err
	}

	history, err := db.NewHistory(cfg.Driver)
	if err != nil {
		return err
	}
	canon, err := topsites.StrategyByName(cfg.Strategy)
	if err != nil {
		return err
	}

	ranked := topsites.Summarize(cmd.Context(), discovery.Databases, history, canon, cfg.Top, logger)

	printer := report.NewPrinter(stdout, report.Options{
		JSON:    cfg.Output.JSON,
		Color:   useColor,
		Verbose: opts.verbose,
	})
	return printer.Print(browser.Name, discovery, ranked)
}

// loadConfig reads the optional config file and applies the flags that were
// set explicitly on top of it.
func loadConfig(cmd *cobra.Command, opts *rootOptions) (config.Config, error) {
	cfg := config.Default()
	if opts.configFile != "" {
		var err error
		if cfg, err = config.LoadFromYAML(opts.configFile); err != nil {
			return config.Config{}, err
		}
	}

	flags := cmd.Flags()
	if flags.Changed("browser") {
		cfg.Browser = opts.browser
	}
	if flags.Changed("root") {
		cfg.Root = opts.root
	}
	if flags.Changed("top") {
		cfg.Top = opts.top
	}
	if flags.Changed("strategy") {
		cfg.Strategy = opts.strategy
	}
	if flags.Changed("driver") {
		cfg.Driver = opts.driver
	}
	if flags.Changed("parallel") {
		cfg.Parallel = opts.parallel
	}
	if flags.Changed("json") {
		cfg.Output.JSON = opts.json
	}
	if flags.Changed("log-level") {
		cfg.Logger.Level = opts.logLevel
	} else if opts.verbose {
		cfg.Logger.Level = "debug"
	}

	return cfg, cfg.Validate()
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && report.IsTerminal(f)
}
