package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/albertopd/secureprompt/internal/classify"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	def := Default()
	assert.Equal(t, def.Scoring, cfg.Scoring)
	assert.NotEmpty(t, cfg.StorePath)
	assert.NotEmpty(t, cfg.AuditLog)
}

func TestLoadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
sensitivity:
  POSTAL_CODE: C4
  internal_ref: C3
blacklist:
  - text: "ACME Corp"
  - entity_type: POSTAL_CODE
scoring:
  perfect: 1.0
  over: 0.85
  under_max: 0.25
store_path: /tmp/secureprompt-test/mappings.db
audit_log: /tmp/secureprompt-test/audit.log
workers: 8
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 0.85, cfg.Scoring.Over)
	assert.Equal(t, 0.25, cfg.Scoring.UnderMax)
	assert.Equal(t, 8, cfg.Workers)
	assert.Len(t, cfg.Blacklist, 2)
	assert.Equal(t, "ACME Corp", cfg.Blacklist[0].Text)

	table := cfg.Table()
	assert.Equal(t, classify.C4, table.LevelFor("POSTAL_CODE"))
	assert.Equal(t, classify.C3, table.LevelFor("INTERNAL_REF"))
	// Built-ins not overridden stay intact.
	assert.Equal(t, classify.C4, table.LevelFor("CREDIT_CARD"))
}

func TestLoadRejectsBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("sensitivity: [not a map"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadRejectsBadLevel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("sensitivity:\n  FOO: C9\n"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("SECUREPROMPT_STORE", "/var/lib/sp/map.db")
	t.Setenv("SECUREPROMPT_AUDIT_LOG", "/var/log/sp/audit.log")

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "/var/lib/sp/map.db", cfg.StorePath)
	assert.Equal(t, "/var/log/sp/audit.log", cfg.AuditLog)
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "x.db"), expandHome("~/x.db"))
	assert.Equal(t, "/abs/x.db", expandHome("/abs/x.db"))
}
