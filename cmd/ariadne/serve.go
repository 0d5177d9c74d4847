package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/cuemby/ariadne/pkg/backend"
	"github.com/cuemby/ariadne/pkg/backend/remote"
	"github.com/cuemby/ariadne/pkg/clusterstate"
	"github.com/cuemby/ariadne/pkg/log"
	"github.com/cuemby/ariadne/pkg/metrics"
	"github.com/cuemby/ariadne/pkg/resolver"
	"github.com/cuemby/ariadne/pkg/snapshot"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the resolve loop against a snapshot source and serve queries",
	Long: `serve starts the diff loop (spec.md §4.5 step 5): it repeatedly observes
a snapshot source, resolves it to a graph, diffs against the previous
cycle, and keeps an in-memory Backend up to date. It also exposes the
backend to out-of-process clients over pkg/backend/wire and serves
Prometheus metrics and health endpoints.

Replay mode (--snapshot-dir / cluster.snapshot_dir) is the only
supported snapshot source; a live cluster connection is outside this
module's scope.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().String("snapshot-dir", "", "Directory of recorded snapshots to replay (overrides cluster.snapshot_dir)")
	serveCmd.Flags().Duration("interval", 0, "Resolve loop interval (defaults to 10s)")
}

func runServe(cmd *cobra.Command, args []string) error {
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

	logger := log.WithComponent("serve")
	observer := snapshot.NewDirectoryObserver(cfg.Cluster.SnapshotDir)

	loopGuard := clusterstate.NewGuard(clusterstate.New(clusterstate.Cluster{}))
	mem := backend.NewMemory()
	if err := mem.Create(clusterstate.New(clusterstate.Cluster{})); err != nil {
		return fmt.Errorf("initialize backend: %w", err)
	}

	interval, _ := cmd.Flags().GetDuration("interval")
	loop := &resolver.Loop{
		Observer: observer,
		Guard:    loopGuard,
		Backend:  mem,
		Interval: interval,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	loop.Start(ctx)
	defer loop.Stop()

	collector := metrics.NewCollector(loopGuard)
	collector.Start()
	defer collector.Stop()

	var queryListener net.Listener
	if cfg.Query.Addr != "" {
		queryListener, err = net.Listen("tcp", cfg.Query.Addr)
		if err != nil {
			return fmt.Errorf("listen on query addr %s: %w", cfg.Query.Addr, err)
		}
		go serveQueryListener(queryListener, mem)
		logger.Info().Str("addr", cfg.Query.Addr).Msg("query listener started")
	}

	var httpServer *http.Server
	if cfg.Metrics.Enabled {
		mux := http.NewServeMux()
		mux.Handle("/metrics", metrics.Handler())
		mux.HandleFunc("/health", metrics.HealthHandler())
		mux.HandleFunc("/ready", metrics.ReadyHandler())
		mux.HandleFunc("/live", metrics.LivenessHandler())
		httpServer = &http.Server{Addr: cfg.Metrics.Addr, Handler: mux}

		errCh := make(chan error, 1)
		go func() {
			if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				errCh <- err
			}
		}()
		logger.Info().Str("addr", cfg.Metrics.Addr).Msg("metrics server started")

		// observer/resolver readiness is reported by resolver.Loop.tick as
		// each cycle actually observes and resolves; backend readiness by
		// backend.Memory.Create/Shutdown. Nothing to register here: /ready
		// correctly answers not_ready until the first real transition.

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

		select {
		case <-sigCh:
			logger.Info().Msg("shutting down")
		case err := <-errCh:
			logger.Error().Err(err).Msg("metrics server failed")
		}

		_ = httpServer.Close()
	} else {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
		<-sigCh
		logger.Info().Msg("shutting down")
	}

	if queryListener != nil {
		_ = queryListener.Close()
	}
	if err := mem.Shutdown(); err != nil {
		logger.Error().Err(err).Msg("backend shutdown failed")
	}

	return nil
}

// serveQueryListener accepts connections on ln and serves each one
// against b until ln is closed.
func serveQueryListener(ln net.Listener, b backend.Backend) {
	logger := log.WithComponent("serve")
	for {
		conn, err := ln.Accept()
		if err != nil {
			logger.Debug().Err(err).Msg("query listener stopped")
			return
		}
		go remote.Serve(conn, b)
	}
}
