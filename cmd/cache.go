package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/MurthyAvanithsa/railview/internal/store"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect and maintain the local settings cache",
	Long: `The cache is a bbolt database holding the last fetched settings payload
and any saved snapshots.

  railview cache stats
  railview cache clear --all
  railview cache clear --bucket presets`,
}

// ─── cache stats ──────────────────────────────────────────────────────────────

var cacheStatsCmd = &cobra.Command{
	Use:     "stats",
	Short:   "Show entry counts and sizes per bucket",
	Example: `  railview cache stats`,
	RunE: func(cmd *cobra.Command, args []string) error {
		deps, err := buildDeps()
		if err != nil {
			return err
		}
		if err := deps.RequireStore(); err != nil {
			return err
		}
		defer deps.Close()

		stats, err := deps.Store.Stats()
		if err != nil {
			return fmt.Errorf("reading cache stats: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Database: %s\n\n", deps.Store.Path())
		printSimpleTable(cmd.OutOrStdout(), []string{"BUCKET", "ROWS", "SIZE"}, func(add func(...string)) {
			for _, s := range stats {
				add(s.Name, strconv.Itoa(s.Count), humanBytes(s.Bytes))
			}
		})
		return nil
	},
}

// ─── cache clear ──────────────────────────────────────────────────────────────

var (
	cacheClearAll    bool
	cacheClearBucket string
)

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete cached entries",
	Example: `  railview cache clear --all
  railview cache clear --bucket presets`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !cacheClearAll && cacheClearBucket == "" {
			return fmt.Errorf("specify --all or --bucket <name> (buckets: %s)",
				strings.Join(store.AllBuckets, ", "))
		}

		deps, err := buildDeps()
		if err != nil {
			return err
		}
		if err := deps.RequireStore(); err != nil {
			return err
		}
		defer deps.Close()

		if cacheClearAll {
			if err := deps.Store.ClearAll(); err != nil {
				return fmt.Errorf("clearing cache: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "✓ Cleared all buckets")
			return nil
		}

		valid := false
		for _, name := range store.AllBuckets {
			if name == cacheClearBucket {
				valid = true
				break
			}
		}
		if !valid {
			return fmt.Errorf("unknown bucket %q (valid: %s)",
				cacheClearBucket, strings.Join(store.AllBuckets, ", "))
		}

		if err := deps.Store.ClearBucket(cacheClearBucket); err != nil {
			return fmt.Errorf("clearing bucket: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Cleared bucket %s\n", cacheClearBucket)
		return nil
	},
}

// ─── Registration ─────────────────────────────────────────────────────────────

func init() {
	rootCmd.AddCommand(cacheCmd)
	cacheCmd.AddCommand(cacheStatsCmd)
	cacheCmd.AddCommand(cacheClearCmd)

	cacheClearCmd.Flags().BoolVar(&cacheClearAll, "all", false, "clear every bucket")
	cacheClearCmd.Flags().StringVar(&cacheClearBucket, "bucket", "", "clear a single bucket by name")
}
