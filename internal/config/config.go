// Package config reads and writes the user preferences file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/viper"

	"github.com/penwyp/go-claude-sessions/internal/util"
)

const (
	// DataDirName is the per-user directory holding preferences, logs and the project store.
	DataDirName    = ".go-claude-sessions"
	configFileName = "config.json"
	dbFileName     = "sessions.db"
	logFileName    = "app.log"
)

const (
	KeyLaunchOnStartup      = "launch_on_startup"
	KeySessionNotifications = "session_notifications"
	KeyErrorAlerts          = "error_alerts"
	KeySoundEnabled         = "sound_enabled"
	KeyDailyTokenLimit      = "daily_token_limit"
)

// ErrUnknownKey is returned by Set for a key the preferences record does not have.
var ErrUnknownKey = errors.New("unknown config key")

// Config is the preferences record.
type Config struct {
	LaunchOnStartup      bool   `mapstructure:"launch_on_startup" json:"launch_on_startup"`
	SessionNotifications bool   `mapstructure:"session_notifications" json:"session_notifications"`
	ErrorAlerts          bool   `mapstructure:"error_alerts" json:"error_alerts"`
	SoundEnabled         bool   `mapstructure:"sound_enabled" json:"sound_enabled"`
	DailyTokenLimit      uint32 `mapstructure:"daily_token_limit" json:"daily_token_limit"`
}

// Entry is one key/value pair of a Config, rendered as text.
type Entry struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Default returns the preferences used when no file exists.
func Default() Config {
	return Config{
		LaunchOnStartup:      true,
		SessionNotifications: true,
		ErrorAlerts:          true,
		SoundEnabled:         false,
		DailyTokenLimit:      50000,
	}
}

// Keys lists every preference key in display order.
func Keys() []string {
	return []string{
		KeyLaunchOnStartup,
		KeySessionNotifications,
		KeyErrorAlerts,
		KeySoundEnabled,
		KeyDailyTokenLimit,
	}
}

// Entries flattens the record in Keys order.
func (c Config) Entries() []Entry {
	return []Entry{
		{KeyLaunchOnStartup, strconv.FormatBool(c.LaunchOnStartup)},
		{KeySessionNotifications, strconv.FormatBool(c.SessionNotifications)},
		{KeyErrorAlerts, strconv.FormatBool(c.ErrorAlerts)},
		{KeySoundEnabled, strconv.FormatBool(c.SoundEnabled)},
		{KeyDailyTokenLimit, strconv.FormatUint(uint64(c.DailyTokenLimit), 10)},
	}
}

// DefaultDataDir returns ~/.go-claude-sessions for the given home.
func DefaultDataDir(home string) string {
	return filepath.Join(home, DataDirName)
}

// FilePath returns the preferences file inside dataDir.
func FilePath(dataDir string) string {
	return filepath.Join(dataDir, configFileName)
}

// DatabasePath returns the project store inside dataDir.
func DatabasePath(dataDir string) string {
	return filepath.Join(dataDir, dbFileName)
}

// LogPath returns the log file inside dataDir.
func LogPath(dataDir string) string {
	return filepath.Join(dataDir, "logs", logFileName)
}

func newViper(path string) *viper.Viper {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("json")
	d := Default()
	v.SetDefault(KeyLaunchOnStartup, d.LaunchOnStartup)
	v.SetDefault(KeySessionNotifications, d.SessionNotifications)
	v.SetDefault(KeyErrorAlerts, d.ErrorAlerts)
	v.SetDefault(KeySoundEnabled, d.SoundEnabled)
	v.SetDefault(KeyDailyTokenLimit, d.DailyTokenLimit)
	return v
}

func read(path string) (*viper.Viper, error) {
	v := newViper(path)
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			util.LogDebug("Config file not found, using defaults", util.F("path", path))
			return v, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	return v, nil
}

func decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}

// Load reads the preferences at path. A missing file yields Default(); absent
// keys take their default value.
func Load(path string) (*Config, error) {
	v, err := read(path)
	if err != nil {
		return nil, err
	}
	return decode(v)
}

// Save writes the full record to path, creating its directory.
func Save(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	v := viper.New()
	v.SetConfigType("json")
	v.Set(KeyLaunchOnStartup, cfg.LaunchOnStartup)
	v.Set(KeySessionNotifications, cfg.SessionNotifications)
	v.Set(KeyErrorAlerts, cfg.ErrorAlerts)
	v.Set(KeySoundEnabled, cfg.SoundEnabled)
	v.Set(KeyDailyTokenLimit, cfg.DailyTokenLimit)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	util.LogDebug("Config saved", util.F("path", path))
	return nil
}

// Set parses value for key, validates it against the record's field type and
// saves the updated preferences.
func Set(path, key, value string) (*Config, error) {
	if !isKey(key) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}

	v, err := read(path)
	if err != nil {
		return nil, err
	}
	v.Set(key, value)

	cfg, err := decode(v)
	if err != nil {
		return nil, fmt.Errorf("invalid value %q for %s: %w", value, key, err)
	}
	if err := Save(path, *cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func isKey(key string) bool {
	for _, k := range Keys() {
		if k == key {
			return true
		}
	}
	return false
}
