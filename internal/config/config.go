package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Default values applied when fields are absent from the config file.
const (
	DefaultLogDir            = "data"
	DefaultActivitiesLog     = "activities.log"
	DefaultPresenceLog       = "presence.log"
	DefaultSnapshotsLog      = "snapshots.log"
	DefaultOutputDir         = "out"
	DefaultLeaderboardFile   = "leaderboard.json"
	DefaultSessionsFile      = "sessions.json"
	DefaultMarkdownFile      = "leaderboard.md"
	DefaultHTTPPort          = 8080
	DefaultBroadcastInterval = 5 * time.Second
	DefaultRecomputeDebounce = 2 * time.Second
	DefaultHistorySize       = 24
)

// Config is the top-level roompulse configuration.
type Config struct {
	Room   RoomConfig   `yaml:"room"`
	Logs   LogsConfig   `yaml:"logs"`
	Output OutputConfig `yaml:"output"`
	Serve  ServeConfig  `yaml:"serve"`
}

// RoomConfig identifies the room the logs were scraped from.
type RoomConfig struct {
	// Name is a label stamped into reports; it has no effect on computation.
	Name string `yaml:"name"`
}

// LogsConfig locates the three raw log tables written by the collector.
type LogsConfig struct {
	// Dir is the directory holding the log files.
	Dir string `yaml:"dir"`

	// Activities, Presence and Snapshots are filenames within Dir.
	Activities string `yaml:"activities"`
	Presence   string `yaml:"presence"`
	Snapshots  string `yaml:"snapshots"`
}

// ActivitiesPath returns the full path of the activities log.
func (l LogsConfig) ActivitiesPath() string { return filepath.Join(l.Dir, l.Activities) }

// PresencePath returns the full path of the presence log.
func (l LogsConfig) PresencePath() string { return filepath.Join(l.Dir, l.Presence) }

// SnapshotsPath returns the full path of the timer snapshot log.
func (l LogsConfig) SnapshotsPath() string { return filepath.Join(l.Dir, l.Snapshots) }

// OutputConfig locates the documents written after each run.
type OutputConfig struct {
	// Dir is the directory the documents are written into.
	Dir string `yaml:"dir"`

	// Leaderboard is the ranked JSON document consumed downstream.
	Leaderboard string `yaml:"leaderboard"`

	// Sessions is the JSON debug document with derived timer events and
	// per-user windows, for inspection only.
	Sessions string `yaml:"sessions"`

	// Markdown is the human-readable ranked table.
	Markdown string `yaml:"markdown"`
}

// LeaderboardPath returns the full path of the leaderboard document.
func (o OutputConfig) LeaderboardPath() string { return filepath.Join(o.Dir, o.Leaderboard) }

// SessionsPath returns the full path of the sessions document.
func (o OutputConfig) SessionsPath() string { return filepath.Join(o.Dir, o.Sessions) }

// MarkdownPath returns the full path of the markdown report.
func (o OutputConfig) MarkdownPath() string { return filepath.Join(o.Dir, o.Markdown) }

// ServeConfig holds settings for `roompulse serve`.
type ServeConfig struct {
	// HTTPPort is the port the REST API and WebSocket hub listen on.
	HTTPPort int `yaml:"http_port"`

	// BroadcastInterval controls how often the WebSocket hub re-sends the
	// current leaderboard to connected clients.
	BroadcastInterval time.Duration `yaml:"broadcast_interval"`

	// RecomputeDebounce batches rapid log-file writes into one recomputation.
	RecomputeDebounce time.Duration `yaml:"recompute_debounce"`

	// HistorySize is how many past runs the in-memory store keeps.
	HistorySize int `yaml:"history_size"`
}

// Load reads and parses the YAML config file at path.
// Missing optional fields are filled with sensible defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse yaml: %w", err)
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

// Default returns a Config pre-populated with default values. It is valid as
// is, so running without a config file works against the default layout.
func Default() *Config {
	return &Config{
		Logs: LogsConfig{
			Dir:        DefaultLogDir,
			Activities: DefaultActivitiesLog,
			Presence:   DefaultPresenceLog,
			Snapshots:  DefaultSnapshotsLog,
		},
		Output: OutputConfig{
			Dir:         DefaultOutputDir,
			Leaderboard: DefaultLeaderboardFile,
			Sessions:    DefaultSessionsFile,
			Markdown:    DefaultMarkdownFile,
		},
		Serve: ServeConfig{
			HTTPPort:          DefaultHTTPPort,
			BroadcastInterval: DefaultBroadcastInterval,
			RecomputeDebounce: DefaultRecomputeDebounce,
			HistorySize:       DefaultHistorySize,
		},
	}
}

// validate checks required fields and structural constraints.
func validate(cfg *Config) error {
	if cfg.Logs.Dir == "" {
		return fmt.Errorf("logs.dir is required")
	}
	for name, v := range map[string]string{
		"logs.activities":    cfg.Logs.Activities,
		"logs.presence":      cfg.Logs.Presence,
		"logs.snapshots":     cfg.Logs.Snapshots,
		"output.dir":         cfg.Output.Dir,
		"output.leaderboard": cfg.Output.Leaderboard,
		"output.sessions":    cfg.Output.Sessions,
		"output.markdown":    cfg.Output.Markdown,
	} {
		if v == "" {
			return fmt.Errorf("%s is required", name)
		}
	}
	if cfg.Serve.HTTPPort <= 0 || cfg.Serve.HTTPPort > 65535 {
		return fmt.Errorf("serve.http_port must be in 1..65535")
	}
	if cfg.Serve.BroadcastInterval <= 0 {
		return fmt.Errorf("serve.broadcast_interval must be positive")
	}
	if cfg.Serve.RecomputeDebounce <= 0 {
		return fmt.Errorf("serve.recompute_debounce must be positive")
	}
	if cfg.Serve.HistorySize <= 0 {
		return fmt.Errorf("serve.history_size must be positive")
	}
	return nil
}
