package cmd

import (
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/MurthyAvanithsa/railview/internal/model"
	"github.com/MurthyAvanithsa/railview/internal/store"
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Save and replay resolve scenarios",
	Long: `Snapshots let you save a railview command line and replay it later,
producing reproducible output from the same parameters.

  railview snapshot save --name "phone-hero" --cmd "layout project hero --width 390 --columns 2"
  railview snapshot list
  railview snapshot run <ID>`,
}

// ─── snapshot save ────────────────────────────────────────────────────────────

var (
	snapshotSaveName   string
	snapshotSavePreset string
	snapshotSaveCmd    string
)

var snapshotSaveCommand = &cobra.Command{
	Use:   "save",
	Short: "Save a command line as a named snapshot",
	Example: `  railview snapshot save --name "phone-hero" --preset hero --cmd "layout project hero --width 390 --columns 2"
  railview snapshot save --name "tv-rail" --cmd "layout preview rail --width 1920 --columns 6"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		deps, err := buildDeps()
		if err != nil {
			return err
		}
		if err := deps.RequireStore(); err != nil {
			return err
		}
		defer deps.Close()

		snap := store.NewSnapshot(snapshotSaveName, snapshotSavePreset, snapshotSaveCmd)
		if err := deps.Store.PutSnapshot(snap); err != nil {
			return fmt.Errorf("saving snapshot: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Saved snapshot %s  (%s)\n", snap.ID, snap.Name)
		return nil
	},
}

// ─── snapshot list ────────────────────────────────────────────────────────────

var snapshotListCmd = &cobra.Command{
	Use:     "list",
	Short:   "List all saved snapshots",
	Example: `  railview snapshot list`,
	RunE: func(cmd *cobra.Command, args []string) error {
		deps, err := buildDeps()
		if err != nil {
			return err
		}
		if err := deps.RequireStore(); err != nil {
			return err
		}
		defer deps.Close()

		start := time.Now()
		snaps, err := deps.Store.ListSnapshots()
		if err != nil {
			return fmt.Errorf("listing snapshots: %w", err)
		}
		if len(snaps) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No snapshots saved.")
			fmt.Fprintln(cmd.OutOrStdout(), "  Use: railview snapshot save --name <name> --cmd \"<command>\"")
			return nil
		}

		result := newResult(model.KindSnapshots, "snapshot list", snaps, len(snaps))
		return emit(cmd, deps, result, start, true)
	},
}

// ─── snapshot show ────────────────────────────────────────────────────────────

var snapshotShowCmd = &cobra.Command{
	Use:     "show <ID>",
	Short:   "Show full details of a snapshot",
	Example: `  railview snapshot show 9f3c2a17-...`,
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		deps, err := buildDeps()
		if err != nil {
			return err
		}
		if err := deps.RequireStore(); err != nil {
			return err
		}
		defer deps.Close()

		snap, ok, err := findSnapshot(deps.Store, args[0])
		if err != nil {
			return fmt.Errorf("reading snapshot: %w", err)
		}
		if !ok {
			return fmt.Errorf("snapshot %q not found", args[0])
		}

		printKVTable(cmd.OutOrStdout(), [][2]string{
			{"ID", snap.ID},
			{"Name", snap.Name},
			{"Preset", snap.PresetName},
			{"Command", snap.CommandLine},
			{"Created", snap.CreatedAt.Format(time.RFC3339)},
		})
		return nil
	},
}

// ─── snapshot run ─────────────────────────────────────────────────────────────

var snapshotRunCmd = &cobra.Command{
	Use:     "run <ID>",
	Short:   "Re-execute a saved snapshot",
	Example: `  railview snapshot run 9f3c2a17-...`,
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		deps, err := buildDeps()
		if err != nil {
			return err
		}
		if err := deps.RequireStore(); err != nil {
			return err
		}

		// Read snapshot BEFORE closing the store
		snap, ok, err := findSnapshot(deps.Store, args[0])
		deps.Close() // Close now — child process will open its own handle
		if err != nil {
			return fmt.Errorf("reading snapshot: %w", err)
		}
		if !ok {
			return fmt.Errorf("snapshot %q not found", args[0])
		}

		// Re-execute using the current binary with the stored command line.
		self, err := os.Executable()
		if err != nil {
			return fmt.Errorf("finding executable: %w", err)
		}

		parts := strings.Fields(snap.CommandLine)
		c := exec.CommandContext(cmd.Context(), self, parts...)
		c.Stdin = os.Stdin
		c.Stdout = cmd.OutOrStdout()
		c.Stderr = cmd.ErrOrStderr()

		if !deps.Config.Quiet {
			fmt.Fprintf(cmd.OutOrStdout(), "▶ %s %s\n\n", self, snap.CommandLine)
		}
		return c.Run()
	},
}

// ─── snapshot delete ──────────────────────────────────────────────────────────

var snapshotDeleteCmd = &cobra.Command{
	Use:     "delete <ID>",
	Short:   "Delete a saved snapshot",
	Example: `  railview snapshot delete 9f3c2a17-...`,
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		deps, err := buildDeps()
		if err != nil {
			return err
		}
		if err := deps.RequireStore(); err != nil {
			return err
		}
		defer deps.Close()

		snap, ok, err := findSnapshot(deps.Store, args[0])
		if err != nil {
			return fmt.Errorf("reading snapshot: %w", err)
		}
		if !ok {
			return fmt.Errorf("snapshot %q not found", args[0])
		}

		if err := deps.Store.DeleteSnapshot(snap.ID); err != nil {
			return fmt.Errorf("deleting snapshot: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Deleted snapshot %s  (%s)\n", snap.ID, snap.Name)
		return nil
	},
}

// findSnapshot looks a snapshot up by full ID, then by unique ID prefix, so
// the short IDs printed by `snapshot list` work as arguments.
func findSnapshot(st *store.Store, id string) (store.Snapshot, bool, error) {
	snap, ok, err := st.GetSnapshot(id)
	if err != nil || ok {
		return snap, ok, err
	}

	snaps, err := st.ListSnapshots()
	if err != nil {
		return store.Snapshot{}, false, err
	}
	var match store.Snapshot
	var hits int
	for _, s := range snaps {
		if strings.HasPrefix(s.ID, id) {
			match = s
			hits++
		}
	}
	if hits == 1 {
		return match, true, nil
	}
	if hits > 1 {
		return store.Snapshot{}, false, fmt.Errorf("snapshot prefix %q is ambiguous (%d matches)", id, hits)
	}
	return store.Snapshot{}, false, nil
}

// ─── Registration ─────────────────────────────────────────────────────────────

func init() {
	rootCmd.AddCommand(snapshotCmd)
	snapshotCmd.AddCommand(snapshotSaveCommand)
	snapshotCmd.AddCommand(snapshotListCmd)
	snapshotCmd.AddCommand(snapshotShowCmd)
	snapshotCmd.AddCommand(snapshotRunCmd)
	snapshotCmd.AddCommand(snapshotDeleteCmd)

	snapshotSaveCommand.Flags().StringVar(&snapshotSaveName, "name", "", "human-readable name for the snapshot (required)")
	snapshotSaveCommand.Flags().StringVar(&snapshotSavePreset, "preset", "", "preset name the snapshot targets")
	snapshotSaveCommand.Flags().StringVar(&snapshotSaveCmd, "cmd", "", "command line to save, without the binary name (required)")
	snapshotSaveCommand.MarkFlagRequired("name")
	snapshotSaveCommand.MarkFlagRequired("cmd")
}
