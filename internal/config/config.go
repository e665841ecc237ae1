// Package config loads the process configuration: sensitivity table
// overrides, blacklist rules, scoring weights, and storage paths.
// Configuration is read once at startup and passed into the entry points
// explicitly; nothing here is ambient state.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/albertopd/secureprompt/internal/classify"
	"github.com/albertopd/secureprompt/internal/merge"
	"github.com/albertopd/secureprompt/internal/score"
)

const (
	defaultStorePath = "~/.secureprompt/mappings.db"
	defaultAuditLog  = "~/.secureprompt/audit.log"

	envStorePath = "SECUREPROMPT_STORE"
	envAuditLog  = "SECUREPROMPT_AUDIT_LOG"
)

type Config struct {
	// Sensitivity overrides the built-in entity type → level table.
	Sensitivity map[string]classify.Level `yaml:"sensitivity"`
	Blacklist   []merge.Rule              `yaml:"blacklist"`
	Scoring     score.Weights             `yaml:"scoring"`
	StorePath   string                    `yaml:"store_path"`
	AuditLog    string                    `yaml:"audit_log"`
	Workers     int                       `yaml:"workers"`
}

func Default() Config {
	return Config{
		Scoring:   score.DefaultWeights(),
		StorePath: defaultStorePath,
		AuditLog:  defaultAuditLog,
	}
}

func ConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".secureprompt", "config.yaml"), nil
}

// Load reads the YAML config at path, falling back to defaults when the
// file does not exist. SECUREPROMPT_STORE and SECUREPROMPT_AUDIT_LOG
// override the file.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	} else if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if v := os.Getenv(envStorePath); v != "" {
		cfg.StorePath = v
	}
	if v := os.Getenv(envAuditLog); v != "" {
		cfg.AuditLog = v
	}

	if cfg.StorePath == "" {
		cfg.StorePath = defaultStorePath
	}
	if cfg.AuditLog == "" {
		cfg.AuditLog = defaultAuditLog
	}
	if cfg.Scoring == (score.Weights{}) {
		cfg.Scoring = score.DefaultWeights()
	}
	cfg.StorePath = expandHome(cfg.StorePath)
	cfg.AuditLog = expandHome(cfg.AuditLog)
	return cfg, nil
}

func EnsureConfigDir(path string) error {
	return os.MkdirAll(filepath.Dir(path), 0o755)
}

// Table builds the sensitivity table with the config's overrides applied.
func (c Config) Table() *classify.Table {
	return classify.NewTable(c.Sensitivity)
}

func expandHome(p string) string {
	if !strings.HasPrefix(p, "~/") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, p[2:])
}
