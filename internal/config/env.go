package config

import (
	"os"
	"strconv"
	"strings"
)

const envConfigPath = "NASFLIX_CONFIG_PATH"

// EnvVar documents one supported environment override.
type EnvVar struct {
	Name  string
	Desc  string
	apply func(*Config, string)
}

var supportedEnvVars = []EnvVar{
	{
		// Resolved by ConfigPath before anything is loaded.
		Name:  envConfigPath,
		Desc:  "Path to the config file. Default: OS-specific config directory",
		apply: func(c *Config, s string) {},
	},
	{
		Name:  "NASFLIX_SERVER_BASE_URL",
		Desc:  "Catalog server base URL",
		apply: func(c *Config, s string) { c.Server.BaseURL = s },
	},
	{
		Name:  "NASFLIX_SERVER_TIMEOUT",
		Desc:  "Catalog request timeout as a Go duration. Default: 15s",
		apply: func(c *Config, s string) { c.Server.Timeout = s },
	},
	{
		Name: "NASFLIX_SERVER_WORKERS",
		Desc: "Concurrent folder fetches. Default: one per CPU",
		apply: func(c *Config, s string) {
			if n, err := strconv.Atoi(s); err == nil {
				c.Server.Workers = n
			}
		},
	},
	{
		Name:  "NASFLIX_TMDB_TOKEN",
		Desc:  "TMDB API key or read access token. Default: none (metadata disabled)",
		apply: func(c *Config, s string) { c.Metadata.TMDBToken = s },
	},
	{
		Name:  "NASFLIX_METADATA_LANGUAGE",
		Desc:  "Metadata language tag. Default: ko-KR",
		apply: func(c *Config, s string) { c.Metadata.Language = s },
	},
	{
		Name: "NASFLIX_DISABLE_ANILIST",
		Desc: "Set to true to skip AniList lookups for animation",
		apply: func(c *Config, s string) {
			if b, err := strconv.ParseBool(s); err == nil {
				c.Metadata.DisableAniList = b
			}
		},
	},
	{
		Name:  "NASFLIX_PLAYER_PATH",
		Desc:  "Path to the mpv binary. Default: mpv",
		apply: func(c *Config, s string) { c.Player.Path = s },
	},
	{
		Name:  "NASFLIX_PLAYER_ARGS",
		Desc:  "Extra mpv arguments. Default: none",
		apply: func(c *Config, s string) { c.Player.Args = s },
	},
	{
		Name:  "NASFLIX_HISTORY_DB_PATH",
		Desc:  "History database file. Default: OS-specific data directory",
		apply: func(c *Config, s string) { c.History.DBPath = s },
	},
	{
		Name:  "NASFLIX_LOGGING_LEVEL",
		Desc:  "Logging level. One of: trace, debug, info, warn, error. Default: info",
		apply: func(c *Config, s string) { c.Logging.Level = strings.ToLower(s) },
	},
	{
		Name:  "NASFLIX_LOGGING_FILE_PATH",
		Desc:  "Log file path. Default: OS-specific state directory",
		apply: func(c *Config, s string) { c.Logging.FilePath = s },
	},
}

// EnvVars lists the supported environment overrides.
func EnvVars() []EnvVar {
	return supportedEnvVars
}

func applyEnvVarOverrides(c *Config) {
	for _, v := range supportedEnvVars {
		if value := os.Getenv(v.Name); value != "" {
			v.apply(c, value)
		}
	}
}
