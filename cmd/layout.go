package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/MurthyAvanithsa/railview/internal/layout"
	"github.com/MurthyAvanithsa/railview/internal/model"
	"github.com/MurthyAvanithsa/railview/internal/preview"
	"github.com/MurthyAvanithsa/railview/internal/style"
)

var layoutCmd = &cobra.Command{
	Use:   "layout",
	Short: "Project grid geometry for a preset on a viewport",
	Long: `Layout projection turns a card style plus a viewport description into
concrete tile geometry: item width, tile height, text allowances, row
height, and scroll offsets.

  railview layout project hero --width 390 --columns 2
  railview layout preview hero --width 390 --columns 2 --count 6`,
}

// Viewport flags shared by project and preview.
var (
	layoutWidth   int
	layoutColumns int
	layoutGap     int
	layoutPadding int
	layoutCount   int
)

func layoutViewport() layout.Viewport {
	return layout.Viewport{
		Width:   layoutWidth,
		Columns: layoutColumns,
		Gap:     layoutGap,
		Padding: layoutPadding,
	}
}

// ─── layout project ───────────────────────────────────────────────────────────

var layoutProjectCmd = &cobra.Command{
	Use:   "project <preset>",
	Short: "Compute tile geometry for a preset on a viewport",
	Example: `  railview layout project hero --width 390 --columns 2
  railview layout project rail --width 1280 --columns 5 --gap 16 --format json`,
	Args: cobra.ExactArgs(1),
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

		s, ok := style.FindStyleForPreset(args[0], settings.CardStyles)
		if !ok {
			return fmt.Errorf("no card style matches preset %q", args[0])
		}

		proj, err := layout.Project(s, layoutViewport())
		if err != nil {
			return err
		}

		result := newResult(model.KindLayout, "layout project", proj, 1)
		if err := emit(cmd, deps, result, start, cacheHit); err != nil {
			return err
		}
		if layoutCount > 0 && !deps.Config.Quiet {
			fmt.Fprintf(cmd.OutOrStdout(), "\n%d items: %d rows, content height %dpx\n",
				layoutCount, proj.Rows(layoutCount), proj.ContentHeight(layoutCount))
		}
		return nil
	},
}

// ─── layout preview ───────────────────────────────────────────────────────────

var layoutPreviewSummary bool

var layoutPreviewCmd = &cobra.Command{
	Use:   "preview <preset>",
	Short: "Draw an ASCII preview of the projected grid",
	Example: `  railview layout preview hero --width 390 --columns 2
  railview layout preview rail --width 1280 --columns 5 --count 12 --summary`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		deps, err := buildDeps()
		if err != nil {
			return err
		}
		defer deps.Close()

		settings, _, err := loadSettings(cmd.Context(), deps)
		if err != nil {
			return err
		}

		s, ok := style.FindStyleForPreset(args[0], settings.CardStyles)
		if !ok {
			return fmt.Errorf("no card style matches preset %q", args[0])
		}

		vp := layoutViewport()
		proj, err := layout.Project(s, vp)
		if err != nil {
			return err
		}

		if err := preview.Grid(cmd.OutOrStdout(), proj, vp, preview.Options{Items: layoutCount}); err != nil {
			return err
		}
		if layoutPreviewSummary {
			fmt.Fprintln(cmd.OutOrStdout())
			preview.Summary(cmd.OutOrStdout(), proj, vp, layoutCount)
		}
		return nil
	},
}

// ─── Registration ─────────────────────────────────────────────────────────────

func init() {
	rootCmd.AddCommand(layoutCmd)
	layoutCmd.AddCommand(layoutProjectCmd)
	layoutCmd.AddCommand(layoutPreviewCmd)

	for _, c := range []*cobra.Command{layoutProjectCmd, layoutPreviewCmd} {
		c.Flags().IntVar(&layoutWidth, "width", 390, "viewport width in px")
		c.Flags().IntVar(&layoutColumns, "columns", 2, "tiles per row")
		c.Flags().IntVar(&layoutGap, "gap", 12, "spacing between tiles in px")
		c.Flags().IntVar(&layoutPadding, "padding", 16, "outer horizontal padding in px")
		c.Flags().IntVar(&layoutCount, "count", 0, "item count for row/height math (0 to omit)")
	}
	layoutPreviewCmd.Flags().BoolVar(&layoutPreviewSummary, "summary", false,
		"print the numeric geometry summary below the grid")
}
