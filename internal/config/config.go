// Package config loads and validates csbench configuration. Settings
// merge from three layers, lowest to highest priority:
//  1. User config (~/.config/csbench/config.yaml) - personal defaults
//  2. Project config (.csbench.yaml) - per-experiment tuning
//  3. Env vars (CSBENCH_*) - highest priority
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/searchforge/csbench/internal/errors"
	"github.com/searchforge/csbench/internal/params"
)

// ProjectConfigName is the per-directory config file name.
const ProjectConfigName = ".csbench.yaml"

// Config represents the complete csbench configuration.
type Config struct {
	Version  int                    `yaml:"version"`
	Backend  BackendConfig          `yaml:"backend"`
	Sweep    SweepConfig            `yaml:"sweep"`
	Searcher params.Hyperparameters `yaml:"searcher"`
	History  HistoryConfig          `yaml:"history"`
}

// BackendConfig identifies the external retrieval framework invocation.
type BackendConfig struct {
	// Binary is the backend executable name or path.
	Binary string `yaml:"binary"`
	// Task is the backend task prefix commands are built from
	// (<task>.train, <task>.evaluate).
	Task string `yaml:"task"`
	// LockDir is the directory holding the cross-process accelerator
	// lock. Empty disables locking.
	LockDir string `yaml:"lock_dir"`
}

// SweepConfig configures the default sweep shape.
type SweepConfig struct {
	// Languages is the default axis, in sweep order.
	Languages []string `yaml:"languages"`
	// Train and Eval are the default phase flags; both false is the
	// parameter-preview mode.
	Train bool `yaml:"train"`
	Eval  bool `yaml:"eval"`
}

// HistoryConfig configures the sweep-history ledger.
type HistoryConfig struct {
	// Enabled turns outcome persistence on (default: true).
	Enabled bool `yaml:"enabled"`
	// Path is the SQLite database path. Defaults to
	// ~/.csbench/history.db.
	Path string `yaml:"path"`
}

// DataDir returns the csbench data directory (~/.csbench).
func DataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), ".csbench")
	}
	return filepath.Join(home, ".csbench")
}

// NewConfig creates a Config with sensible defaults: the full
// CodeSearchNet axis, evaluate-only phases, and the standard BM25+RM3
// hyperparameters.
func NewConfig() *Config {
	langs := params.AllLanguages()
	tags := make([]string, len(langs))
	for i, l := range langs {
		tags[i] = string(l)
	}

	return &Config{
		Version: 1,
		Backend: BackendConfig{
			Binary:  "capreolus",
			Task:    "rerank",
			LockDir: DataDir(),
		},
		Sweep: SweepConfig{
			Languages: tags,
			Train:     false,
			Eval:      true,
		},
		Searcher: params.DefaultHyperparameters(),
		History: HistoryConfig{
			Enabled: true,
			Path:    filepath.Join(DataDir(), "history.db"),
		},
	}
}

// GetUserConfigPath returns the path to the user/global configuration
// file, following the XDG Base Directory specification.
func GetUserConfigPath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "csbench", "config.yaml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), ".config", "csbench", "config.yaml")
	}
	return filepath.Join(home, ".config", "csbench", "config.yaml")
}

// Load returns the effective configuration for dir: defaults, then user
// config, then project config, then env overrides, validated once.
func Load(dir string) (*Config, error) {
	cfg := NewConfig()

	if err := cfg.loadYAML(GetUserConfigPath()); err != nil {
		return nil, err
	}
	if err := cfg.loadYAML(filepath.Join(dir, ProjectConfigName)); err != nil {
		return nil, err
	}
	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadYAML merges one config file into cfg. A missing file is fine;
// unparsable YAML is a configuration error.
func (c *Config) loadYAML(path string) error {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return errors.New(errors.ErrCodeConfigNotFound, "reading "+path, err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return errors.ConfigError("parsing "+path, err).
			WithSuggestion("check the YAML syntax in " + path)
	}
	return nil
}

// applyEnvOverrides applies CSBENCH_* environment overrides.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("CSBENCH_BACKEND"); v != "" {
		c.Backend.Binary = v
	}
	if v := os.Getenv("CSBENCH_TASK"); v != "" {
		c.Backend.Task = v
	}
	if v := os.Getenv("CSBENCH_LANGUAGES"); v != "" {
		c.Sweep.Languages = splitList(v)
	}
	if v := os.Getenv("CSBENCH_SEARCHER"); v != "" {
		c.Searcher.Searcher = v
	}
	if v := os.Getenv("CSBENCH_K1"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			c.Searcher.K1 = f
		}
	}
	if v := os.Getenv("CSBENCH_B"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			c.Searcher.B = f
		}
	}
	if v := os.Getenv("CSBENCH_HITS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Searcher.Hits = n
		}
	}
	if v := os.Getenv("CSBENCH_HISTORY"); v != "" {
		c.History.Enabled = v != "0" && !strings.EqualFold(v, "false")
	}
}

// Validate checks the whole configuration once at startup. It rejects
// unrecognized languages and malformed hyperparameters before any
// external invocation is attempted.
func (c *Config) Validate() error {
	if c.Backend.Binary == "" {
		return errors.ConfigError("backend.binary must not be empty", nil)
	}
	if c.Backend.Task == "" {
		return errors.ConfigError("backend.task must not be empty", nil)
	}
	if _, err := params.ParseLanguages(c.Sweep.Languages); err != nil {
		return err
	}
	if err := c.Searcher.Validate(); err != nil {
		return err
	}
	if c.History.Enabled && c.History.Path == "" {
		return errors.ConfigError("history.path must be set when history is enabled", nil)
	}
	return nil
}

// Axis returns the validated default sweep axis.
func (c *Config) Axis() ([]params.Language, error) {
	return params.ParseLanguages(c.Sweep.Languages)
}

// WriteYAML writes the configuration to path, creating parent
// directories as needed.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return errors.New(errors.ErrCodeInternal, "marshaling config", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.New(errors.ErrCodeFilePermission, "creating config directory", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.New(errors.ErrCodeFilePermission, "writing "+path, err)
	}
	return nil
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
