package config

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/viper"
)

// WorldEventSettings configures the world event correlator feeds.
type WorldEventSettings struct {
	Enabled           bool          `mapstructure:"enabled"`
	Timeout           time.Duration `mapstructure:"timeout"`
	MaxParallel       int           `mapstructure:"max_parallel"`
	RequestsPerSecond float64       `mapstructure:"requests_per_second"`
	WikipediaURL      string        `mapstructure:"wikipedia_url"`
	HistoryURL        string        `mapstructure:"history_url"`
	NewsArchiveURL    string        `mapstructure:"news_archive_url"`

	// NewsArchiveKey overrides the keyring entry when set (COSMIC_WORLD_EVENTS_NEWS_ARCHIVE_KEY).
	NewsArchiveKey string `mapstructure:"news_archive_key"`
}

// ServerSettings configures the `serve` command.
type ServerSettings struct {
	Port            string        `mapstructure:"port"`
	RefreshInterval time.Duration `mapstructure:"refresh_interval"`
}

// Settings holds the runtime configuration.
// Values are populated from .cosmic-codex.yaml, COSMIC_* env vars, and CLI flags.
type Settings struct {
	Language    string             `mapstructure:"language"`
	Server      ServerSettings     `mapstructure:"server"`
	WorldEvents WorldEventSettings `mapstructure:"world_events"`
}

// SetDefaults registers the built-in defaults on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(SettingLanguage, DefaultLanguage)
	v.SetDefault(SettingServerPort, DefaultPort)
	v.SetDefault(SettingRefresh, DefaultRefreshInterval)
	v.SetDefault(SettingWorldEnabled, true)
	v.SetDefault(SettingWorldTimeout, DefaultWorldTimeout)
	v.SetDefault(SettingWorldParallel, DefaultWorldParallel)
	v.SetDefault(SettingWorldRate, DefaultWorldRate)
	v.SetDefault(SettingWikipediaURL, DefaultWikipediaURL)
	v.SetDefault(SettingHistoryURL, DefaultHistoryURL)
	v.SetDefault(SettingNewsArchiveURL, DefaultNewsArchiveURL)
	v.SetDefault(SettingNewsArchiveKey, "")
}

// Load reads configuration from v, applying built-in defaults for any
// values not set by config file, environment, or flags.
// Values that do not decode (a non-boolean "enabled", a malformed duration)
// and out-of-range ports are errors; non-positive tunables fall back to
// their defaults.
func Load(v *viper.Viper) (Settings, error) {
	SetDefaults(v)

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return Settings{}, fmt.Errorf("%s: %w", ErrConfigRead, err)
	}

	if s.Language == "" {
		s.Language = DefaultLanguage
	}
	if s.Server.Port == "" {
		s.Server.Port = DefaultPort
	}
	if err := ValidatePort(s.Server.Port); err != nil {
		return Settings{}, fmt.Errorf("%s: %w", ErrConfigRead, err)
	}
	if s.Server.RefreshInterval <= 0 {
		s.Server.RefreshInterval = DefaultRefreshInterval
	}
	if s.WorldEvents.Timeout <= 0 {
		s.WorldEvents.Timeout = DefaultWorldTimeout
	}
	if s.WorldEvents.MaxParallel <= 0 {
		s.WorldEvents.MaxParallel = DefaultWorldParallel
	}
	if s.WorldEvents.RequestsPerSecond <= 0 {
		s.WorldEvents.RequestsPerSecond = DefaultWorldRate
	}
	return s, nil
}

// ValidatePort checks that port is a number within [MinPort, MaxPort].
func ValidatePort(port string) error {
	if port == "" {
		return errors.New(ErrPortRequired)
	}
	n, err := strconv.Atoi(port)
	if err != nil {
		return fmt.Errorf("%s: %q", ErrPortNumber, port)
	}
	if n < MinPort || n > MaxPort {
		return fmt.Errorf("%s: %d", ErrPortRange, n)
	}
	return nil
}
