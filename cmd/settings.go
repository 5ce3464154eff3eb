package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/MurthyAvanithsa/railview/internal/audit"
	"github.com/MurthyAvanithsa/railview/internal/model"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Fetch, inspect, and audit CMS list settings",
	Long: `Settings are the combined CMS payload railview operates on: the list
presets plus the card style descriptors. They are fetched together and
cached together, so presets and styles always come from the same fetch.

  railview settings fetch          # fetch and cache (respects TTL)
  railview settings fetch --refresh
  railview settings show           # list cached presets
  railview settings audit          # consistency checks on the payload`,
}

// ─── settings fetch ───────────────────────────────────────────────────────────

var settingsFetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch list settings from the CMS and cache them",
	Long: `Fetch presets and card styles from the CMS. When the cached payload is
still within the TTL the cache is served instead; use --refresh to force a
live fetch, or --no-cache to fetch without touching the cache at all.`,
	Example: `  railview settings fetch
  railview settings fetch --refresh
  railview settings fetch --ttl 1h`,
	RunE: func(cmd *cobra.Command, args []string) error {
		deps, err := buildDeps()
		if err != nil {
			return err
		}
		defer deps.Close()

		start := time.Now()
		settings, cacheHit, err := loadSettings(cmd.Context(), deps)
		if err != nil {
			return err
		}

		if !deps.Config.Quiet {
			src := "fetched from CMS"
			if cacheHit {
				src = fmt.Sprintf("cache hit (fetched %s)", settings.FetchedAt.Format(time.RFC3339))
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ %d presets, %d card styles — %s\n",
				len(settings.ListSettings), len(settings.CardStyles), src)
		}
		if deps.Config.Verbose {
			fmt.Fprintf(cmd.OutOrStdout(), "[%dms]\n", time.Since(start).Milliseconds())
		}
		return nil
	},
}

// ─── settings show ────────────────────────────────────────────────────────────

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the cached presets and payload age",
	Example: `  railview settings show
  railview settings show --format json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		deps, err := buildDeps()
		if err != nil {
			return err
		}
		defer deps.Close()

		start := time.Now()
		settings, cacheHit, err := loadSettings(cmd.Context(), deps)
		if err != nil {
			return err
		}

		result := newResult(model.KindPresets, "settings show", settings.ListSettings, len(settings.ListSettings))
		return emit(cmd, deps, result, start, cacheHit)
	},
}

// ─── settings status ──────────────────────────────────────────────────────────

var settingsStatusCmd = &cobra.Command{
	Use:     "status",
	Short:   "Show cache freshness without fetching",
	Example: `  railview settings status`,
	RunE: func(cmd *cobra.Command, args []string) error {
		deps, err := buildDeps()
		if err != nil {
			return err
		}
		if err := deps.RequireStore(); err != nil {
			return err
		}
		defer deps.Close()

		state, err := deps.Gateway.State()
		if err != nil {
			return fmt.Errorf("reading cache state: %w", err)
		}

		pairs := [][2]string{
			{"State", state.String()},
			{"TTL", deps.Gateway.TTL().String()},
			{"DB path", deps.Config.DBPath},
		}
		if settings, ok, err := deps.Gateway.Cached(); err == nil && ok {
			pairs = append(pairs,
				[2]string{"Fetched", settings.FetchedAt.Format(time.RFC3339)},
				[2]string{"Age", settings.Age(time.Now()).Round(time.Second).String()},
				[2]string{"Presets", fmt.Sprintf("%d", len(settings.ListSettings))},
				[2]string{"Card styles", fmt.Sprintf("%d", len(settings.CardStyles))},
			)
		}
		printKVTable(cmd.OutOrStdout(), pairs)
		return nil
	},
}

// ─── settings audit ───────────────────────────────────────────────────────────

var settingsAuditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Run consistency checks on the settings payload",
	Long: `Audit the settings payload for configuration problems: duplicate preset
or style names, presets without a matching card style, styles no preset
references, and styles with no image source key.`,
	Example: `  railview settings audit
  railview settings audit --format jsonl`,
	RunE: func(cmd *cobra.Command, args []string) error {
		deps, err := buildDeps()
		if err != nil {
			return err
		}
		defer deps.Close()

		start := time.Now()
		settings, cacheHit, err := loadSettings(cmd.Context(), deps)
		if err != nil {
			return err
		}

		report := audit.Run(settings)
		result := newResult(model.KindAudit, "settings audit", report, len(report.Findings))
		for _, f := range report.Warnings() {
			result.Warnings = append(result.Warnings, fmt.Sprintf("%s: %s", f.Subject, f.Detail))
		}
		return emit(cmd, deps, result, start, cacheHit)
	},
}

// ─── Registration ─────────────────────────────────────────────────────────────

func init() {
	rootCmd.AddCommand(settingsCmd)
	settingsCmd.AddCommand(settingsFetchCmd)
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsStatusCmd)
	settingsCmd.AddCommand(settingsAuditCmd)
}
