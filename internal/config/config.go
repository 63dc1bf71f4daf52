package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const appName = "tempo"

type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Cache    CacheConfig    `koanf:"cache"`
	Playback PlaybackConfig `koanf:"playback"`
	Log      LogConfig      `koanf:"log"`
	Metrics  MetricsConfig  `koanf:"metrics"`
	Data     DataConfig     `koanf:"data"`
	Desktop  DesktopConfig  `koanf:"desktop"`
	Download DownloadConfig `koanf:"download"`
}

// ServerConfig points at the music server serving remote playlists.
type ServerConfig struct {
	URL     string        `koanf:"url"`     // e.g., "http://localhost:8080"
	Timeout time.Duration `koanf:"timeout"` // per request (default: 10s)
}

// CacheConfig controls the on-disk stream cache.
type CacheConfig struct {
	Dir     string `koanf:"dir"`     // default: $XDG_CACHE_HOME/tempo/streams
	Enabled *bool  `koanf:"enabled"` // default: true
}

// PlaybackConfig holds engine and sequencer settings.
type PlaybackConfig struct {
	ProgressInterval time.Duration `koanf:"progress_interval"` // default: 100ms
	MaxStreamMB      int           `koanf:"max_stream_mb"`     // remote buffer cap (default: 64)
	Mode             string        `koanf:"mode"`              // "sequential", "shuffle", "repeat_one"
}

// LogConfig selects where and how much to log.
type LogConfig struct {
	Level string `koanf:"level"` // logrus level name (default: "info")
	JSON  bool   `koanf:"json"`
	File  string `koanf:"file"` // default: $XDG_STATE_HOME/tempo/tempo.log
}

// MetricsConfig enables the Prometheus endpoint when Listen is set.
type MetricsConfig struct {
	Listen string `koanf:"listen"` // e.g., "127.0.0.1:9464"
}

// DataConfig locates the playlist database.
type DataConfig struct {
	DB string `koanf:"db"` // default: $XDG_DATA_HOME/tempo/tempo.db
}

// DesktopConfig controls desktop integration on Linux.
type DesktopConfig struct {
	MPRIS         *bool `koanf:"mpris"`         // default: true
	Notifications bool  `koanf:"notifications"` // announce each new track
}

// DownloadConfig sets where downloaded tracks are saved.
type DownloadConfig struct {
	Dir string `koanf:"dir"` // default: $XDG_MUSIC_DIR/tempo
}

func Load() (*Config, error) {
	return LoadFiles(getConfigPaths()...)
}

// LoadFiles reads the given TOML files in order (last wins).
// Missing files are skipped.
func LoadFiles(paths ...string) (*Config, error) {
	k := koanf.New(".")

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
				return nil, err
			}
		}
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, err
	}
	cfg.applyDefaults()

	return cfg, nil
}

func (c *Config) applyDefaults() {
	// Normalize server URL (remove trailing slash)
	c.Server.URL = strings.TrimSuffix(c.Server.URL, "/")
	if c.Server.Timeout <= 0 {
		c.Server.Timeout = 10 * time.Second
	}

	if c.Cache.Dir == "" {
		c.Cache.Dir = filepath.Join(xdg.CacheHome, appName, "streams")
	} else {
		c.Cache.Dir = expandPath(c.Cache.Dir)
	}

	if c.Playback.ProgressInterval <= 0 {
		c.Playback.ProgressInterval = 100 * time.Millisecond
	}
	if c.Playback.MaxStreamMB <= 0 {
		c.Playback.MaxStreamMB = 64
	}

	if c.Data.DB != "" {
		c.Data.DB = expandPath(c.Data.DB)
	}

	if c.Download.Dir == "" {
		c.Download.Dir = filepath.Join(xdg.UserDirs.Music, appName)
	} else {
		c.Download.Dir = expandPath(c.Download.Dir)
	}

	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.File == "" {
		c.Log.File = filepath.Join(xdg.StateHome, appName, appName+".log")
	} else {
		c.Log.File = expandPath(c.Log.File)
	}
}

func getConfigPaths() []string {
	paths := []string{}

	// 1. ~/.config/tempo/config.toml
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", appName, "config.toml"))
	}

	// 2. ./config.toml (pwd, highest priority)
	paths = append(paths, "config.toml")

	return paths
}

func expandPath(path string) string {
	if path != "" && path[0] == '~' {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}

// HasServer returns true if a music server is configured.
func (c *Config) HasServer() bool {
	return c.Server.URL != ""
}

// CacheEnabled reports whether remote tracks are kept on disk (default: true).
func (c *Config) CacheEnabled() bool {
	return c.Cache.Enabled == nil || *c.Cache.Enabled
}

// MaxStreamBytes returns the remote buffer cap in bytes.
func (c *Config) MaxStreamBytes() int64 {
	return int64(c.Playback.MaxStreamMB) << 20
}

// MPRISEnabled reports whether the player is exposed over MPRIS (default: true).
func (c *Config) MPRISEnabled() bool {
	return c.Desktop.MPRIS == nil || *c.Desktop.MPRIS
}
