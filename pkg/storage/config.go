package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// LogLevel controls the verbosity of the engine's own logging.
type LogLevel string

const (
	LogLevelTrace  LogLevel = "trace"
	LogLevelDebug  LogLevel = "debug"
	LogLevelInfo   LogLevel = "info"
	LogLevelNotice LogLevel = "notice"
	LogLevelWarn   LogLevel = "warn"
	LogLevelError  LogLevel = "error"
	LogLevelFatal  LogLevel = "fatal"
)

func (l LogLevel) valid() bool {
	switch l {
	case LogLevelTrace, LogLevelDebug, LogLevelInfo, LogLevelNotice,
		LogLevelWarn, LogLevelError, LogLevelFatal:
		return true
	}
	return false
}

// LogFormat controls how the engine formats its log output.
type LogFormat string

const (
	LogFormatAuto     LogFormat = "auto"
	LogFormatColors   LogFormat = "colors"
	LogFormatNoColors LogFormat = "nocolors"
	LogFormatJSON     LogFormat = "json"
)

func (f LogFormat) valid() bool {
	switch f {
	case LogFormatAuto, LogFormatColors, LogFormatNoColors, LogFormatJSON:
		return true
	}
	return false
}

// RepoKind selects the backend for the engine's block repository.
type RepoKind string

const (
	RepoKindFS      RepoKind = "fs"
	RepoKindSQLite  RepoKind = "sqlite"
	RepoKindLevelDB RepoKind = "leveldb"
)

func (k RepoKind) valid() bool {
	switch k {
	case RepoKindFS, RepoKindSQLite, RepoKindLevelDB:
		return true
	}
	return false
}

// Config describes a storage node. The JSON field names are the kebab-case
// keys the native engine expects; StorageQuota serializes as a decimal
// string because the engine parses it that way. Zero-valued fields are
// omitted so the engine applies its own defaults.
type Config struct {
	LogLevel  LogLevel  `json:"log-level,omitempty" yaml:"log-level"`
	LogFormat LogFormat `json:"log-format,omitempty" yaml:"log-format"`
	LogFile   string    `json:"log-file,omitempty" yaml:"log-file"`

	MetricsEnabled bool   `json:"metrics,omitempty" yaml:"metrics"`
	MetricsAddress string `json:"metrics-address,omitempty" yaml:"metrics-address"`
	MetricsPort    uint16 `json:"metrics-port,omitempty" yaml:"metrics-port"`

	DataDir        string   `json:"data-dir,omitempty" yaml:"data-dir"`
	ListenAddrs    []string `json:"listen-addrs,omitempty" yaml:"listen-addrs"`
	NAT            string   `json:"nat,omitempty" yaml:"nat"`
	DiscoveryPort  uint16   `json:"disc-port,omitempty" yaml:"disc-port"`
	NetPrivKeyFile string   `json:"net-privkey,omitempty" yaml:"net-privkey"`
	BootstrapNodes []string `json:"bootstrap-node,omitempty" yaml:"bootstrap-node"`
	MaxPeers       uint32   `json:"max-peers,omitempty" yaml:"max-peers"`
	NumThreads     uint32   `json:"num-threads,omitempty" yaml:"num-threads"`
	AgentString    string   `json:"agent-string,omitempty" yaml:"agent-string"`

	RepoKind     RepoKind `json:"repo-kind,omitempty" yaml:"repo-kind"`
	StorageQuota uint64   `json:"storage-quota,omitempty,string" yaml:"storage-quota"`
	BlockTTL     uint32   `json:"block-ttl,omitempty" yaml:"block-ttl"`
	// Seconds between block maintenance cycles.
	BlockMaintenanceInterval uint32 `json:"block-mi,omitempty" yaml:"block-mi"`
	// Blocks checked per maintenance cycle.
	BlockMaintenanceBlocks uint32 `json:"block-mn,omitempty" yaml:"block-mn"`
	BlockRetries           uint32 `json:"block-retries,omitempty" yaml:"block-retries"`
	CacheSize              uint64 `json:"cache-size,omitempty" yaml:"cache-size"`

	// OpTimeout bounds how long node operations wait for the engine's
	// terminal callback. It is local to the bindings and never sent to the
	// engine. Zero means DefaultOpTimeout.
	OpTimeout time.Duration `json:"-" yaml:"-"`
}

// DefaultOpTimeout bounds engine operations when Config.OpTimeout is zero.
const DefaultOpTimeout = 60 * time.Second

// DefaultConfig returns a configuration with the engine's documented
// defaults spelled out.
func DefaultConfig() *Config {
	return &Config{
		LogLevel:                 LogLevelInfo,
		LogFormat:                LogFormatAuto,
		MetricsAddress:           "127.0.0.1",
		MetricsPort:              8008,
		ListenAddrs:              []string{"/ip4/0.0.0.0/tcp/0"},
		NAT:                      "any",
		DiscoveryPort:            8090,
		MaxPeers:                 160,
		AgentString:              "Storage",
		RepoKind:                 RepoKindFS,
		StorageQuota:             20 << 30,
		BlockTTL:                 30 * 24 * 60 * 60,
		BlockMaintenanceInterval: 10 * 60,
		BlockMaintenanceBlocks:   1000,
		BlockRetries:             3000,
	}
}

// LoadConfig reads a Config from a YAML or JSON file, chosen by extension.
func LoadConfig(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("storage: read config: %w", err)
	}

	cfg := &Config{}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		if err := json.Unmarshal(raw, cfg); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
		}
	default:
		if err := yaml.Unmarshal(raw, cfg); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration for values the engine would reject.
func (c *Config) Validate() error {
	if c.LogLevel != "" && !c.LogLevel.valid() {
		return fmt.Errorf("%w: unknown log level %q", ErrInvalidConfig, c.LogLevel)
	}
	if c.LogFormat != "" && !c.LogFormat.valid() {
		return fmt.Errorf("%w: unknown log format %q", ErrInvalidConfig, c.LogFormat)
	}
	if c.RepoKind != "" && !c.RepoKind.valid() {
		return fmt.Errorf("%w: unknown repo kind %q", ErrInvalidConfig, c.RepoKind)
	}
	for _, addr := range c.ListenAddrs {
		if !strings.HasPrefix(addr, "/") {
			return fmt.Errorf("%w: listen address %q is not a multiaddress", ErrInvalidConfig, addr)
		}
	}
	for _, node := range c.BootstrapNodes {
		if node == "" {
			return fmt.Errorf("%w: empty bootstrap node", ErrInvalidConfig)
		}
	}
	if c.OpTimeout < 0 {
		return fmt.Errorf("%w: negative operation timeout", ErrInvalidConfig)
	}
	return nil
}

// engineJSON renders the configuration in the form storage_new expects.
func (c *Config) engineJSON() (string, error) {
	raw, err := json.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return string(raw), nil
}

func (c *Config) opTimeout() time.Duration {
	if c.OpTimeout > 0 {
		return c.OpTimeout
	}
	return DefaultOpTimeout
}
