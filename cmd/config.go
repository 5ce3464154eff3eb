package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"

	"github.com/MurthyAvanithsa/railview/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage railview configuration",
	Long: `Manage the railview config file (config.toml or config.json in the
current directory).

  railview config init            # create a starter config.toml
  railview config get             # show the resolved configuration
  railview config set ttl 30m     # update a single key`,
}

// ─── config init ──────────────────────────────────────────────────────────────

var configInitJSON bool

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a starter config file in the current directory",
	Example: `  railview config init
  railview config init --json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		name := config.DefaultConfigTOML
		if configInitJSON {
			name = config.DefaultConfigJSON
		}
		if _, err := os.Stat(name); err == nil {
			return fmt.Errorf("%s already exists; edit it directly or delete it first", name)
		}

		if err := config.WriteFile(name, config.Template()); err != nil {
			return fmt.Errorf("writing %s: %w", name, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Created %s\n", name)
		fmt.Fprintln(cmd.OutOrStdout(), "  Edit base_url to point at your CMS, then run: railview settings fetch")
		return nil
	},
}

// ─── config get ───────────────────────────────────────────────────────────────

var configGetCmd = &cobra.Command{
	Use:     "get",
	Aliases: []string{"show"},
	Short:   "Show the resolved configuration",
	Example: `  railview config get
  railview config get --format json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		source := cfg.ConfigPath
		if source == "" {
			source = "(defaults + environment)"
		}

		if resolveFormat(cfg.Format) == "json" {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(map[string]interface{}{
				"base_url": cfg.BaseURL,
				"format":   cfg.Format,
				"timeout":  cfg.Timeout.String(),
				"ttl":      cfg.TTL.String(),
				"rate":     cfg.Rate,
				"db_path":  cfg.DBPath,
				"source":   source,
			})
		}

		printKVTable(cmd.OutOrStdout(), [][2]string{
			{"Base URL", cfg.BaseURL},
			{"Format", cfg.Format},
			{"Timeout", cfg.Timeout.String()},
			{"TTL", cfg.TTL.String()},
			{"Rate", fmt.Sprintf("%.1f req/s", cfg.Rate)},
			{"DB path", cfg.DBPath},
			{"Source", source},
		})
		return nil
	},
}

// ─── config set ───────────────────────────────────────────────────────────────

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Update a single key in the config file",
	Long: `Update one key in the config file, creating config.toml if no config
file exists yet.

Keys: base_url, default_format, timeout, ttl, rate, db_path`,
	Example: `  railview config set base_url https://cms.example.com
  railview config set ttl 30m
  railview config set rate 2.5`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, value := strings.ToLower(args[0]), args[1]

		path, f, err := loadConfigFile()
		if err != nil {
			return err
		}

		switch key {
		case "base_url":
			f.BaseURL = value
		case "default_format", "format":
			f.DefaultFormat = value
		case "timeout":
			if _, err := time.ParseDuration(value); err != nil {
				return fmt.Errorf("invalid timeout %q: %w", value, err)
			}
			f.Timeout = value
		case "ttl":
			if d, err := time.ParseDuration(value); err != nil || d <= 0 {
				return fmt.Errorf("invalid ttl %q: expected a positive duration like 10m", value)
			}
			f.TTL = value
		case "rate":
			r, err := strconv.ParseFloat(value, 64)
			if err != nil || r <= 0 {
				return fmt.Errorf("invalid rate %q: expected a positive number", value)
			}
			f.Rate = r
		case "db_path":
			f.DBPath = value
		default:
			return fmt.Errorf("unknown config key %q (valid: base_url, default_format, timeout, ttl, rate, db_path)", key)
		}

		if err := config.WriteFile(path, f); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Set %s = %s  (%s)\n", key, value, path)
		return nil
	},
}

// loadConfigFile reads the existing config file for editing, preferring
// config.toml. When neither file exists a fresh template targeting
// config.toml is returned.
func loadConfigFile() (string, config.File, error) {
	for _, name := range []string{config.DefaultConfigTOML, config.DefaultConfigJSON} {
		data, err := os.ReadFile(name)
		if err != nil {
			continue
		}
		var f config.File
		if strings.HasSuffix(name, ".toml") {
			err = toml.Unmarshal(data, &f)
		} else {
			err = json.Unmarshal(data, &f)
		}
		if err != nil {
			return "", config.File{}, fmt.Errorf("parsing %s: %w", name, err)
		}
		return name, f, nil
	}
	return config.DefaultConfigTOML, config.Template(), nil
}

// ─── Registration ─────────────────────────────────────────────────────────────

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)

	configInitCmd.Flags().BoolVar(&configInitJSON, "json", false, "write config.json instead of config.toml")
}
