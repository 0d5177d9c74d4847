package main

import (
	"github.com/spf13/cobra"

	"github.com/cuemby/ariadne/pkg/config"
)

// loadConfig resolves the effective config.Config for cmd: the optional
// --config YAML file overlaid on defaults, then the persistent
// --log-level/--log-json flags overriding the file when the user set
// them explicitly (flags win over file, matching the teacher's
// cmd/warren convention of flags as the final source of truth).
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	if cmd.Flags().Changed("log-level") {
		level, _ := cmd.Flags().GetString("log-level")
		cfg.Logging.Level = level
	}
	if cmd.Flags().Changed("log-json") {
		jsonOut, _ := cmd.Flags().GetBool("log-json")
		cfg.Logging.JSON = jsonOut
	}

	return cfg, nil
}
