package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/MurthyAvanithsa/railview/internal/model"
	"github.com/MurthyAvanithsa/railview/internal/pipeline"
	"github.com/MurthyAvanithsa/railview/internal/style"
)

var styleCmd = &cobra.Command{
	Use:   "style",
	Short: "Inspect normalized card styles and resolve content against them",
	Long: `Card styles arrive from the CMS as loosely-shaped descriptors; railview
normalizes them into a uniform model. These commands work on the
normalized view.

  railview style list                  # all normalized styles
  railview style show hero             # the style matching preset "hero"
  railview style resolve hero -i items.jsonl`,
}

// ─── style list ───────────────────────────────────────────────────────────────

var styleListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all normalized card styles",
	Example: `  railview style list
  railview style list --format json`,
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

		styles := style.NormalizeAll(settings.CardStyles)
		result := newResult(model.KindStyles, "style list", styles, len(styles))
		return emit(cmd, deps, result, start, cacheHit)
	},
}

// ─── style show ───────────────────────────────────────────────────────────────

var styleShowCmd = &cobra.Command{
	Use:   "show <preset>",
	Short: "Show the normalized style matching a preset name",
	Long: `Show the card style a preset resolves to. Preset matching is
case-insensitive; when several styles share a name the first wins.`,
	Example: `  railview style show hero
  railview style show "Continue Watching" --format json`,
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

		result := newResult(model.KindStyle, "style show", s, 1)
		return emit(cmd, deps, result, start, cacheHit)
	},
}

// ─── style resolve ────────────────────────────────────────────────────────────

var (
	styleResolveItems    string
	styleResolvePlaylist string
)

var styleResolveCmd = &cobra.Command{
	Use:   "resolve <preset>",
	Short: "Resolve content items against a preset's card style",
	Long: `Resolve content items against the card style a preset maps to, producing
one resolved card per item: image URL picked by the style's source key,
title and description carried only when the style shows them.

Items are read as JSONL (one JSON object per line) or a single JSON array,
from --items or stdin, or fetched live from a playlist feed with
--playlist.`,
	Example: `  railview style resolve hero --items items.jsonl
  cat items.jsonl | railview style resolve hero --format jsonl
  railview style resolve rail --playlist https://cms.example.com/playlists/42`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if styleResolveItems != "" && styleResolvePlaylist != "" {
			return fmt.Errorf("--items and --playlist are mutually exclusive")
		}
		if styleResolveItems == "" && styleResolvePlaylist == "" && pipeline.IsTTY() {
			return fmt.Errorf("no item source and stdin is a terminal; pipe items in or pass --items / --playlist")
		}

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

		var items []model.ContentItem
		if styleResolvePlaylist != "" {
			items, err = deps.Client.Playlist(cmd.Context(), styleResolvePlaylist)
		} else {
			items, err = pipeline.ReadItemsFile(styleResolveItems, os.Stdin)
		}
		if err != nil {
			return err
		}

		cards := style.ResolveCards(s, items)
		result := newResult(model.KindResolved, "style resolve", cards, len(cards))
		for _, c := range cards {
			if c.ImageURL == "" {
				result.Warnings = append(result.Warnings,
					fmt.Sprintf("item %s: no image for source key %q", c.ItemID, s.MainImage.SourceKey))
			}
		}
		return emit(cmd, deps, result, start, cacheHit)
	},
}

// ─── Registration ─────────────────────────────────────────────────────────────

func init() {
	rootCmd.AddCommand(styleCmd)
	styleCmd.AddCommand(styleListCmd)
	styleCmd.AddCommand(styleShowCmd)
	styleCmd.AddCommand(styleResolveCmd)

	styleResolveCmd.Flags().StringVarP(&styleResolveItems, "items", "i", "",
		"path to a JSONL or JSON-array items file (default: stdin, \"-\" reads stdin)")
	styleResolveCmd.Flags().StringVar(&styleResolvePlaylist, "playlist", "",
		"playlist feed URL to fetch items from instead of a file")
}
