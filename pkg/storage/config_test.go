package storage

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, LogLevelInfo, cfg.LogLevel)
	assert.Equal(t, RepoKindFS, cfg.RepoKind)
	assert.Equal(t, uint64(20<<30), cfg.StorageQuota)
	assert.Equal(t, uint32(160), cfg.MaxPeers)
	require.NoError(t, cfg.Validate())
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad log level", func(c *Config) { c.LogLevel = "loud" }},
		{"bad log format", func(c *Config) { c.LogFormat = "rainbow" }},
		{"bad repo kind", func(c *Config) { c.RepoKind = "postgres" }},
		{"bad listen addr", func(c *Config) { c.ListenAddrs = []string{"127.0.0.1:8070"} }},
		{"empty bootstrap node", func(c *Config) { c.BootstrapNodes = []string{""} }},
		{"negative timeout", func(c *Config) { c.OpTimeout = -time.Second }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
		})
	}
}

func TestConfigEngineJSON(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DataDir = "/var/lib/storage"

	raw, err := cfg.engineJSON()
	require.NoError(t, err)

	var fields map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(raw), &fields))

	assert.Equal(t, "info", fields["log-level"])
	assert.Equal(t, "/var/lib/storage", fields["data-dir"])
	// The engine parses the quota from a decimal string.
	assert.Equal(t, "21474836480", fields["storage-quota"])
	assert.NotContains(t, fields, "net-privkey")
	assert.NotContains(t, fields, "log-file")
}

func TestConfigZeroFieldsOmitted(t *testing.T) {
	raw, err := (&Config{}).engineJSON()
	require.NoError(t, err)
	assert.Equal(t, "{}", raw)
}

func TestLoadConfigYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "node.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
log-level: debug
data-dir: /srv/storage
storage-quota: 1073741824
listen-addrs:
  - /ip4/0.0.0.0/tcp/8070
`), 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, LogLevelDebug, cfg.LogLevel)
	assert.Equal(t, "/srv/storage", cfg.DataDir)
	assert.Equal(t, uint64(1<<30), cfg.StorageQuota)
	assert.Equal(t, []string{"/ip4/0.0.0.0/tcp/8070"}, cfg.ListenAddrs)
}

func TestLoadConfigJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "node.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"log-level": "warn",
		"data-dir": "/srv/storage",
		"storage-quota": "2048"
	}`), 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, LogLevelWarn, cfg.LogLevel)
	assert.Equal(t, uint64(2048), cfg.StorageQuota)
}

func TestLoadConfigRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "node.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log-level: loud\n"), 0o600))

	_, err := LoadConfig(path)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestOpTimeoutDefault(t *testing.T) {
	cfg := &Config{}
	assert.Equal(t, DefaultOpTimeout, cfg.opTimeout())

	cfg.OpTimeout = time.Second
	assert.Equal(t, time.Second, cfg.opTimeout())
}
