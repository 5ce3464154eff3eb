// Package cmd implements the railview CLI command tree.
// This file defines the root command and registers all global persistent flags.
package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/MurthyAvanithsa/railview/internal/app"
	"github.com/MurthyAvanithsa/railview/internal/config"
)

// globalFlags holds the parsed values of all persistent (global) flags.
// Commands read from this struct via the deps they receive.
var globalFlags struct {
	BaseURL string
	Format  string
	Out     string
	NoCache bool
	Refresh bool
	Timeout string
	TTL     string
	Rate    float64
	DBPath  string
	Quiet   bool
	Verbose bool
	Debug   bool
}

// rootCmd is the base command. Running `railview` with no subcommand
// prints help.
var rootCmd = &cobra.Command{
	Use:   "railview",
	Short: "railview — CMS card-style normalization and rail layout CLI",
	Long: `railview is a command-line tool for working with CMS-driven list settings:
it fetches list presets and card style descriptors from a Strapi backend,
normalizes the messy descriptor shapes into a uniform style model, resolves
content items against preset styles, and projects grid layouts for a given
viewport.

Quick start:
  railview config init           # create a config.toml with the CMS base URL
  railview settings fetch        # fetch and cache presets + card styles
  railview style list            # list normalized card styles
  railview layout project --preset hero --width 390 --columns 2`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute is the entry point called by main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// buildDeps resolves config and constructs the dependency container.
// Called at the start of each command's RunE.
func buildDeps() (*app.Deps, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	// Apply CLI flag overrides
	cfg.NoCache = globalFlags.NoCache
	cfg.Refresh = globalFlags.Refresh
	cfg.Quiet = globalFlags.Quiet
	cfg.Verbose = globalFlags.Verbose
	cfg.Debug = globalFlags.Debug

	if globalFlags.BaseURL != "" {
		cfg.BaseURL = globalFlags.BaseURL
	}
	if globalFlags.Format != "" {
		cfg.Format = globalFlags.Format
	}
	if globalFlags.DBPath != "" {
		cfg.DBPath = globalFlags.DBPath
	}
	if globalFlags.Timeout != "" {
		if d, err2 := time.ParseDuration(globalFlags.Timeout); err2 == nil {
			cfg.Timeout = d
		}
	}
	if globalFlags.TTL != "" {
		if d, err2 := time.ParseDuration(globalFlags.TTL); err2 == nil {
			cfg.TTL = d
		}
	}
	if globalFlags.Rate > 0 {
		cfg.Rate = globalFlags.Rate
	}

	return app.New(cfg), nil
}

func init() {
	pf := rootCmd.PersistentFlags()

	pf.StringVar(&globalFlags.BaseURL, "base-url", "",
		"CMS base URL (overrides env RAILVIEW_BASE_URL and config file)")
	pf.StringVar(&globalFlags.Format, "format", "",
		"output format: table|json|jsonl|csv|tsv|md (default: table)")
	pf.StringVar(&globalFlags.Out, "out", "",
		"write output to file instead of stdout")
	pf.BoolVar(&globalFlags.NoCache, "no-cache", false,
		"bypass the settings cache entirely (fetch live, do not persist)")
	pf.BoolVar(&globalFlags.Refresh, "refresh", false,
		"force re-fetch and overwrite cached settings")
	pf.StringVar(&globalFlags.Timeout, "timeout", "",
		"HTTP request timeout (e.g. 30s, 2m)")
	pf.StringVar(&globalFlags.TTL, "ttl", "",
		"settings cache freshness window (e.g. 10m, 1h)")
	pf.Float64Var(&globalFlags.Rate, "rate", 0,
		"max CMS requests per second (default: 5.0)")
	pf.StringVar(&globalFlags.DBPath, "db", "",
		"path to the local cache database (default: ~/.railview/railview.db)")
	pf.BoolVar(&globalFlags.Quiet, "quiet", false,
		"suppress all non-error output")
	pf.BoolVar(&globalFlags.Verbose, "verbose", false,
		"show cache/timing stats after output")
	pf.BoolVar(&globalFlags.Debug, "debug", false,
		"log HTTP requests and responses")
}
