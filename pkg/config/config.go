package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/cuemby/ariadne/pkg/log"
)

// ClusterConfig selects and scopes the cluster the observer watches
// (spec.md §6.4).
type ClusterConfig struct {
	// Context names the cluster to connect to (a kubeconfig context name
	// or equivalent selector understood by the observer's source).
	Context string `yaml:"context"`
	// Namespace restricts ingestion to one namespace. Empty means all
	// namespaces.
	Namespace string `yaml:"namespace"`
	// SnapshotDir, if set, puts the observer into replay mode: it reads
	// recorded snapshots from this directory instead of watching a live
	// cluster.
	SnapshotDir string `yaml:"snapshot_dir"`
}

// LoggingConfig controls pkg/log.
type LoggingConfig struct {
	Level string `yaml:"level"`
	JSON  bool   `yaml:"json"`
}

// MetricsConfig controls pkg/metrics' HTTP exposition.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
}

// QueryConfig controls the pkg/backend/remote wire listener that lets an
// out-of-process client reach this instance's Backend.
type QueryConfig struct {
	// Addr is the TCP address the wire listener binds, e.g. ":7474".
	// Empty disables the listener; cmd/ariadne serve then only serves
	// queries in-process.
	Addr string `yaml:"addr"`
}

// Config is ariadne's top-level runtime configuration.
type Config struct {
	Cluster ClusterConfig `yaml:"cluster"`
	Logging LoggingConfig `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`
	Query   QueryConfig   `yaml:"query"`
}

// New returns a Config populated with defaults. The cancellation signal
// source named in spec.md §6.4 is not a config field: cmd/ariadne
// derives it from process signals: serve cancels its context when
// signal.Notify delivers SIGINT or SIGTERM.
func New() *Config {
	return &Config{
		Cluster: ClusterConfig{
			Namespace:   "",
			SnapshotDir: "",
		},
		Logging: LoggingConfig{
			Level: string(log.InfoLevel),
			JSON:  false,
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Addr:    ":9090",
		},
		Query: QueryConfig{
			Addr: ":7474",
		},
	}
}

// Load returns defaults overlaid with path's YAML contents. A missing
// file is not an error — New()'s defaults stand on their own.
func Load(path string) (*Config, error) {
	cfg := New()
	if err := loadFromFile(path, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadFromFile(path string, cfg *Config) error {
	if path == "" {
		return nil
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolve config path: %w", err)
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file %s: %w", abs, err)
	}
	return nil
}

// LogConfig adapts Config's logging knobs to pkg/log.Config.
func (c *Config) LogConfig() log.Config {
	return log.Config{
		Level:      log.Level(c.Logging.Level),
		JSONOutput: c.Logging.JSON,
	}
}
