package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cuemby/ariadne/pkg/backend"
	"github.com/cuemby/ariadne/pkg/resolver"
	"github.com/cuemby/ariadne/pkg/snapshot"
)

var queryCmd = &cobra.Command{
	Use:   "query [cypher text]",
	Short: "Resolve one snapshot and run a single query against it",
	Long: `query loads one snapshot (replay mode, via --snapshot-dir or
cluster.snapshot_dir), resolves it to a graph, and runs the given query
text once, printing the resulting records as JSON. It opens no listener
and starts no loop — for a long-running queryable instance, use serve.`,
	Args: cobra.ExactArgs(1),
	RunE: runQuery,
}

func init() {
	queryCmd.Flags().String("snapshot-dir", "", "Directory of recorded snapshots to resolve (overrides cluster.snapshot_dir)")
}

func runQuery(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if dir, _ := cmd.Flags().GetString("snapshot-dir"); dir != "" {
		cfg.Cluster.SnapshotDir = dir
	}
	if cfg.Cluster.SnapshotDir == "" {
		return fmt.Errorf("no snapshot source configured: set cluster.snapshot_dir or --snapshot-dir")
	}

	observer := snapshot.NewDirectoryObserver(cfg.Cluster.SnapshotDir)
	snap, err := observer.Observe(cmd.Context())
	if err != nil {
		return fmt.Errorf("observe snapshot: %w", err)
	}

	state := resolver.Resolve(snap)

	mem := backend.NewMemory()
	if err := mem.Create(state); err != nil {
		return fmt.Errorf("install resolved state: %w", err)
	}
	defer mem.Shutdown()

	records, err := mem.ExecuteQuery(context.Background(), args[0], nil)
	if err != nil {
		return fmt.Errorf("query failed: %w", err)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	rows := make([]map[string]any, 0, len(records))
	for _, r := range records {
		rows = append(rows, r.Values)
	}
	return enc.Encode(rows)
}
