package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/spaplan/core/spa"
)

func writeConfig(t *testing.T, name, data string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, "config.yaml", `workdir:
  path: "/srv/spa"
reader:
  add_missing_groups: false
merge:
  reconcile: "ignore"
wait:
  settle_ms: 250
  timeout_seconds: 30
logging:
  level: "debug"
metrics:
  sinks:
    - type: "prometheus"
      conf:
        textfile: "/var/lib/node_exporter/spaplan.prom"
history:
  backend: "sqlite"
  path: "/srv/spa/history.db"
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	checks := []struct {
		name string
		got  any
		want any
	}{
		{"workdir.path", cfg.Workdir.Path, "/srv/spa"},
		{"merge.reconcile", cfg.Merge.Reconcile, "ignore"},
		{"wait.settle", cfg.Wait.Settle(), 250 * time.Millisecond},
		{"wait.timeout", cfg.Wait.Timeout(), 30 * time.Second},
		{"logging.level", cfg.Logging.Level, "debug"},
		{"metrics_sink", len(cfg.Metrics.Sinks) == 1 && cfg.Metrics.Sinks[0].Type == "prometheus", true},
		{"metrics_conf", cfg.Metrics.Sinks[0].Conf["textfile"], "/var/lib/node_exporter/spaplan.prom"},
		{"history.backend", cfg.History.Backend, "sqlite"},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("%s mismatch: %v", c.name, c.got)
		}
	}

	opts := cfg.BridgeOptions()
	assert.True(t, opts.SkipCommentRows)
	assert.True(t, opts.ParseComments)
	assert.False(t, opts.AddMissingGroups)
	assert.Equal(t, spa.ReconcileIgnore, opts.Reconcile)
	assert.Equal(t, 250*time.Millisecond, opts.Settle)
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Empty(t, cfg.Workdir.Path)
	assert.Equal(t, "validate", cfg.Merge.Reconcile)
	require.NotNil(t, cfg.Wait.SettleMS)
	assert.Equal(t, 500, *cfg.Wait.SettleMS)
	assert.Equal(t, 500*time.Millisecond, cfg.Wait.Settle())
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "none", cfg.History.Backend)
	assert.Equal(t, spa.DefaultOptions(), cfg.BridgeOptions())
}

func TestLoadZeroSettle(t *testing.T) {
	cfg, err := Load(writeConfig(t, "config.yaml", "wait:\n  settle_ms: 0\n"))
	require.NoError(t, err)
	assert.Zero(t, cfg.Wait.Settle())
	assert.Zero(t, cfg.BridgeOptions().Settle)
}

func TestLoadJSON(t *testing.T) {
	path := writeConfig(t, "config.json", `{"history": {"backend": "jsonl"}, "reader": {"parse_comments": false}}`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "spaplan-history.jsonl", cfg.History.Path)
	assert.False(t, cfg.BridgeOptions().ParseComments)
}

func TestLoadEnvOverride(t *testing.T) {
	path := writeConfig(t, "config.yaml", "logging:\n  level: warn\n")
	t.Setenv("SPA_LOGGING__LEVEL", "error")
	t.Setenv("SPA_WORKDIR__PATH", "/tmp/spa-env")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "error", cfg.Logging.Level)
	assert.Equal(t, "/tmp/spa-env", cfg.Workdir.Path)
}

func TestLoadRejectsInvalid(t *testing.T) {
	cases := map[string]string{
		"reconcile": "merge:\n  reconcile: merge\n",
		"level":     "logging:\n  level: trace\n",
		"backend":   "history:\n  backend: postgres\n",
		"settle":    "wait:\n  settle_ms: -1\n",
	}
	for name, data := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeConfig(t, "config.yaml", data))
			assert.Error(t, err)
		})
	}
}

func TestLoadUnsupportedFormat(t *testing.T) {
	_, err := Load(writeConfig(t, "config.toml", "x = 1"))
	assert.ErrorContains(t, err, "unsupported config format")
}
