package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cuemby/ariadne/pkg/resolver"
	"github.com/cuemby/ariadne/pkg/snapshot"
	"github.com/cuemby/ariadne/pkg/snapshot/cache"
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Inspect recorded snapshots and the durable snapshot cache",
}

var snapshotReplayCmd = &cobra.Command{
	Use:   "replay <dir>",
	Short: "Resolve one snapshot directory and print per-kind object and edge counts",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		observer := snapshot.NewDirectoryObserver(args[0])
		snap, err := observer.Observe(cmd.Context())
		if err != nil {
			return fmt.Errorf("observe snapshot: %w", err)
		}

		state := resolver.Resolve(snap)

		nodeCounts := make(map[string]int)
		for _, obj := range state.IterNodes() {
			nodeCounts[string(obj.Kind)]++
		}
		edgeCounts := make(map[string]int)
		for _, edge := range state.IterEdges() {
			edgeCounts[string(edge.EdgeKind)]++
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(map[string]any{
			"nodes_by_kind": nodeCounts,
			"edges_by_kind": edgeCounts,
		})
	},
}

var snapshotCacheShowCmd = &cobra.Command{
	Use:   "cache-show <data-dir>",
	Short: "Print the cluster descriptor and per-kind object counts in the durable snapshot cache",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := cache.Open(args[0])
		if err != nil {
			return fmt.Errorf("open cache: %w", err)
		}
		defer store.Close()

		snap, err := store.Load()
		if err != nil {
			return fmt.Errorf("load cache: %w", err)
		}
		if snap == nil {
			return fmt.Errorf("cache at %s is empty", args[0])
		}

		counts := make(map[string]int)
		for _, obj := range snap.All() {
			counts[string(obj.Kind)]++
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(map[string]any{
			"cluster":         snap.Cluster,
			"objects_by_kind": counts,
		})
	},
}

func init() {
	snapshotCmd.AddCommand(snapshotReplayCmd)
	snapshotCmd.AddCommand(snapshotCacheShowCmd)
}
