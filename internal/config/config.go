package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const appName = "mediaplayerd"

type Config struct {
	MediaDirs     []string      `koanf:"media_dirs"`     // directories scanned and watched for media
	DefaultVolume *int          `koanf:"default_volume"` // 0-100 (default: 50)
	TickInterval  time.Duration `koanf:"tick_interval"`  // metadata refresh period (default: 1s)
	StateFile     string        `koanf:"state_file"`     // settings database (default: XDG data dir)

	Log LogConfig `koanf:"log"`

	// Remote control through a paired Bluetooth device (AVRCP)
	Bluetooth BluetoothConfig `koanf:"bluetooth"`

	// Desktop media keys through MPRIS
	MPRIS MPRISConfig `koanf:"mpris"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level      string `koanf:"level"`        // "debug", "info", "warn", "error" (default: "info")
	File       string `koanf:"file"`         // optional rotated log file
	MaxSizeMB  int    `koanf:"max_size_mb"`  // default: 10
	MaxBackups int    `koanf:"max_backups"`  // default: 3
	MaxAgeDays int    `koanf:"max_age_days"` // default: 28
	Compress   bool   `koanf:"compress"`
}

// BluetoothConfig holds the remote peer configuration.
type BluetoothConfig struct {
	Enabled bool   `koanf:"enabled"`
	Device  string `koanf:"device"` // MAC address or BlueZ object path
}

// MPRISConfig holds the MPRIS bridge configuration.
type MPRISConfig struct {
	Enabled *bool  `koanf:"enabled"` // default: true
	Name    string `koanf:"name"`    // bus name suffix (default: "mediaplayerd")
}

// Load reads the config files in order of priority (last wins). explicit,
// when set, is loaded last and must exist.
func Load(explicit string) (*Config, error) {
	k := koanf.New(".")

	for _, path := range getConfigPaths() {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
				return nil, fmt.Errorf("load %s: %w", path, err)
			}
		}
	}
	if explicit != "" {
		if err := k.Load(file.Provider(explicit), toml.Parser()); err != nil {
			return nil, fmt.Errorf("load %s: %w", explicit, err)
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
	if len(c.MediaDirs) == 0 && xdg.UserDirs.Music != "" {
		c.MediaDirs = []string{xdg.UserDirs.Music}
	}
	// Expand ~ in media_dirs
	for i, dir := range c.MediaDirs {
		c.MediaDirs[i] = expandPath(dir)
	}
	c.StateFile = expandPath(c.StateFile)
	c.Log.File = expandPath(c.Log.File)

	if c.TickInterval <= 0 {
		c.TickInterval = time.Second
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.MaxSizeMB <= 0 {
		c.Log.MaxSizeMB = 10
	}
	if c.Log.MaxBackups <= 0 {
		c.Log.MaxBackups = 3
	}
	if c.Log.MaxAgeDays <= 0 {
		c.Log.MaxAgeDays = 28
	}
	if c.MPRIS.Name == "" {
		c.MPRIS.Name = appName
	}
}

// Volume returns the startup volume clamped to 0-100.
func (c *Config) Volume() int {
	if c.DefaultVolume == nil {
		return 50
	}
	return max(0, min(100, *c.DefaultVolume))
}

// MPRISEnabled returns true unless the MPRIS bridge is explicitly disabled.
func (c *Config) MPRISEnabled() bool {
	return c.MPRIS.Enabled == nil || *c.MPRIS.Enabled
}

// HasBluetoothConfig returns true if a remote peer is configured.
func (c *Config) HasBluetoothConfig() bool {
	return c.Bluetooth.Enabled && c.Bluetooth.Device != ""
}

func getConfigPaths() []string {
	paths := []string{}

	// 1. ~/.config/mediaplayerd/config.toml
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
