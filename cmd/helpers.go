package cmd

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/MurthyAvanithsa/railview/internal/app"
	"github.com/MurthyAvanithsa/railview/internal/model"
	"github.com/MurthyAvanithsa/railview/internal/render"
)

// resolveFormat returns the effective format string, falling back to "table".
func resolveFormat(cfgFormat string) string {
	if globalFlags.Format != "" {
		return globalFlags.Format
	}
	if cfgFormat != "" {
		return cfgFormat
	}
	return render.FormatTable
}

// loadSettings returns the settings payload a command should operate on,
// honouring the cache flags:
//
//	--no-cache  fetch live from the CMS; the store is never touched
//	--refresh   fetch live and overwrite the cached payload
//	(default)   serve from cache when fresh, fetch when absent or stale
//
// The returned bool reports whether the payload came from the cache.
func loadSettings(ctx context.Context, deps *app.Deps) (model.CachedSettings, bool, error) {
	if deps.Config.NoCache {
		settings, err := deps.Client.FetchSettings(ctx)
		return settings, false, err
	}

	if err := deps.RequireStore(); err != nil {
		return model.CachedSettings{}, false, err
	}

	if deps.Config.Refresh {
		settings, err := deps.Gateway.Refresh(ctx)
		return settings, false, err
	}
	return deps.Gateway.Ensure(ctx)
}

// newResult wraps a command payload in the uniform Result envelope.
// Timing and cache stats are filled in by emit.
func newResult(kind, command string, data interface{}, items int) *model.Result {
	return &model.Result{
		Kind:        kind,
		GeneratedAt: time.Now(),
		Command:     command,
		Data:        data,
		Stats:       model.ResultStats{Items: items},
	}
}

// emit finalizes stats, renders the result in the effective format (to
// --out when set), and prints the footer unless --quiet.
func emit(cmd *cobra.Command, deps *app.Deps, result *model.Result, start time.Time, cacheHit bool) error {
	result.Stats.DurationMs = time.Since(start).Milliseconds()
	result.Stats.CacheHit = cacheHit

	format := resolveFormat(deps.Config.Format)
	if err := render.RenderTo(globalFlags.Out, result, format); err != nil {
		return err
	}
	if !deps.Config.Quiet {
		render.PrintFooter(cmd.OutOrStdout(), result, deps.Config.Verbose)
	}
	return nil
}

// printSimpleTable renders a simple table with headers using tablewriter.
// The add callback is called with row values as variadic strings.
func printSimpleTable(w io.Writer, headers []string, fill func(add func(...string))) {
	tw := tablewriter.NewWriter(w)
	tw.SetHeader(headers)
	tw.SetBorder(true)
	tw.SetRowLine(false)
	tw.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	tw.SetAlignment(tablewriter.ALIGN_LEFT)
	tw.SetAutoWrapText(false)

	fill(func(cols ...string) {
		tw.Append(cols)
	})
	tw.Render()
}

// printKVTable renders a two-column FIELD/VALUE table.
func printKVTable(w io.Writer, pairs [][2]string) {
	printSimpleTable(w, []string{"FIELD", "VALUE"}, func(add func(...string)) {
		for _, p := range pairs {
			add(p[0], p[1])
		}
	})
}

// humanBytes formats a byte count for table display.
func humanBytes(n int64) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%d B", n)
	}
}
