package cmd

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/MurthyAvanithsa/railview/internal/model"
)

var feedCmd = &cobra.Command{
	Use:   "feed",
	Short: "Fetch playlist content from a feed URL",
}

var feedGetCmd = &cobra.Command{
	Use:   "get <url>",
	Short: "Fetch content items from a playlist feed",
	Long: `Fetch the entries of a playlist feed. Items come back in feed order
and can be piped straight into style resolve:

  railview feed get https://cms.example.com/playlists/42 --format jsonl \
    | railview style resolve hero`,
	Example: `  railview feed get https://cms.example.com/playlists/42
  railview feed get https://cms.example.com/playlists/42 --format jsonl`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		deps, err := buildDeps()
		if err != nil {
			return err
		}
		defer deps.Close()

		start := time.Now()
		items, err := deps.Client.Playlist(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		result := newResult(model.KindItems, "feed get", items, len(items))
		return emit(cmd, deps, result, start, false)
	},
}

func init() {
	rootCmd.AddCommand(feedCmd)
	feedCmd.AddCommand(feedGetCmd)
}
