package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"dario.cat/mergo"
	"github.com/BurntSushi/toml"
	"golang.org/x/text/language"

	"github.com/Nomadcxx/nasflix/internal/log"
	"github.com/Nomadcxx/nasflix/internal/titles"
)

// Config holds all nasflix configuration
type Config struct {
	Server   ServerConfig   `toml:"server"`
	Metadata MetadataConfig `toml:"metadata"`
	Player   PlayerConfig   `toml:"player"`
	History  HistoryConfig  `toml:"history"`
	Logging  LoggingConfig  `toml:"logging"`
	Rules    RulesConfig    `toml:"rules"`
}

// ServerConfig points at the NAS catalog server
type ServerConfig struct {
	BaseURL   string `toml:"base_url"`
	UserAgent string `toml:"user_agent,omitempty"`
	Timeout   string `toml:"timeout"` // Go duration, e.g. "15s"
	Workers   int    `toml:"workers"` // concurrent folder fetches; 0 = one per CPU
}

// MetadataConfig holds TMDB / AniList lookup settings
type MetadataConfig struct {
	TMDBToken      string `toml:"tmdb_token,omitempty"` // v3 API key or v4 read token
	Language       string `toml:"language"`             // BCP 47 tag
	DisableAniList bool   `toml:"disable_anilist"`
}

// PlayerConfig selects the video player
type PlayerConfig struct {
	Path    string `toml:"path"`
	Args    string `toml:"args,omitempty"`
	IPCPath string `toml:"ipc_path,omitempty"`
}

// HistoryConfig locates the history database
type HistoryConfig struct {
	DBPath string `toml:"db_path,omitempty"`
}

// LoggingConfig contains log related settings
type LoggingConfig struct {
	Level    string `toml:"level"`
	FilePath string `toml:"file_path,omitempty"`
}

// RulesConfig extends the built-in title cleaning rules
type RulesConfig struct {
	ExtraNoiseTokens    []string `toml:"extra_noise_tokens"`
	ExtraEpisodeMarkers []string `toml:"extra_episode_markers"`
}

// DefaultConfig returns a config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			BaseURL: "http://localhost:5000",
			Timeout: "15s",
		},
		Metadata: MetadataConfig{
			Language: "ko-KR",
		},
		Player: PlayerConfig{
			Path: "mpv",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		Rules: RulesConfig{
			ExtraNoiseTokens:    []string{},
			ExtraEpisodeMarkers: []string{},
		},
	}
}

// ConfigPath returns the path to the config file. NASFLIX_CONFIG_PATH
// overrides the OS default.
func ConfigPath() (string, error) {
	if path := os.Getenv(envConfigPath); path != "" {
		return path, nil
	}

	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to get config directory: %w", err)
	}
	return filepath.Join(configDir, "nasflix", "config.toml"), nil
}

// Load builds the configuration in layers:
//  1. built-in defaults
//  2. a default config file is written when none exists
//  3. runtime defaults (log and database locations)
//  4. the config file, merged over the defaults
//  5. NASFLIX_* environment overrides
func Load() (*Config, error) {
	configFile, err := ConfigPath()
	if err != nil {
		return nil, err
	}

	cfg := DefaultConfig()
	if _, err := os.Stat(configFile); errors.Is(err, os.ErrNotExist) {
		if err := SaveTo(cfg, configFile); err != nil {
			return nil, fmt.Errorf("failed to create default config: %w", err)
		}
	}

	applyDynamicDefaults(cfg)

	var fileCfg Config
	if _, err := toml.DecodeFile(configFile, &fileCfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := mergo.Merge(cfg, &fileCfg, mergo.WithOverride); err != nil {
		return nil, fmt.Errorf("failed to merge config: %w", err)
	}

	applyEnvVarOverrides(cfg)
	return cfg, nil
}

// Save writes the config to the default location
func Save(cfg *Config) error {
	configFile, err := ConfigPath()
	if err != nil {
		return err
	}
	return SaveTo(cfg, configFile)
}

// SaveTo writes the config to path, creating its directory
func SaveTo(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// Validate checks if the config is valid
func (c *Config) Validate() error {
	u, err := url.Parse(c.Server.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid server base_url: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid server base_url %q: must be an http(s) URL", c.Server.BaseURL)
	}

	if _, err := c.Timeout(); err != nil {
		return err
	}
	if c.Server.Workers < 0 {
		return fmt.Errorf("invalid server workers: %d", c.Server.Workers)
	}

	if _, err := language.Parse(c.Metadata.Language); err != nil {
		return fmt.Errorf("invalid metadata language %q: %w", c.Metadata.Language, err)
	}

	if !log.ValidLevel(c.Logging.Level) {
		return fmt.Errorf("invalid logging level %q (must be one of %v)", c.Logging.Level, log.Levels)
	}

	if _, err := titles.NewCleaner(c.TitleRules()); err != nil {
		return fmt.Errorf("invalid title rules: %w", err)
	}
	return nil
}

// Timeout parses the server timeout. Empty means no timeout override.
func (c *Config) Timeout() (time.Duration, error) {
	if c.Server.Timeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.Server.Timeout)
	if err != nil || d < 0 {
		return 0, fmt.Errorf("invalid server timeout %q", c.Server.Timeout)
	}
	return d, nil
}

// TitleRules returns the built-in rules extended with the configured ones
func (c *Config) TitleRules() titles.Rules {
	return titles.DefaultRules().Extend(c.Rules.ExtraNoiseTokens, c.Rules.ExtraEpisodeMarkers)
}

func applyDynamicDefaults(cfg *Config) {
	cfg.Logging.FilePath = filepath.Join(stateDir(), "nasflix.log")
	cfg.History.DBPath = filepath.Join(dataDir(), "history.db")
}

// stateDir is where logs go: XDG_STATE_HOME on Linux, the platform log
// directory elsewhere.
func stateDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "nasflix")
	}
	switch runtime.GOOS {
	case "windows":
		if appData := os.Getenv("LOCALAPPDATA"); appData != "" {
			return filepath.Join(appData, "nasflix", "logs")
		}
		return filepath.Join(home, "AppData", "Local", "nasflix", "logs")
	case "darwin":
		return filepath.Join(home, "Library", "Logs", "nasflix")
	default:
		if xdg := os.Getenv("XDG_STATE_HOME"); xdg != "" {
			return filepath.Join(xdg, "nasflix")
		}
		return filepath.Join(home, ".local", "state", "nasflix")
	}
}

func dataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "nasflix")
	}
	if runtime.GOOS == "windows" {
		if appData := os.Getenv("LOCALAPPDATA"); appData != "" {
			return filepath.Join(appData, "nasflix")
		}
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "nasflix")
	}
	return filepath.Join(home, ".local", "share", "nasflix")
}
