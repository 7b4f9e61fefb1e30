// Package config loads squadcast-analyze settings.
//
// Sources are layered, later wins:
//
//  1. built-in defaults
//  2. an optional YAML settings file
//  3. a dotenv file (missing is fine)
//  4. the process environment
//
// Validation is per command against the CUE definitions in schema.cue.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment variable names.
const (
	EnvRefreshToken  = "SQUADCAST_REFRESH_TOKEN"
	EnvAuthURL       = "SQUADCAST_AUTH_URL"
	EnvBaseAPI       = "SQUADCAST_BASE_API"
	EnvTeamID        = "SQUADCAST_TEAM_ID"
	EnvStartTime     = "START_TIME"
	EnvEndTime       = "END_TIME"
	EnvAuthTimeout   = "SQUADCAST_AUTH_TIMEOUT"
	EnvExportTimeout = "SQUADCAST_EXPORT_TIMEOUT"
	EnvDataDir       = "SQUADCAST_DATA_DIR"
	EnvDatabase      = "SQUADCAST_DB"
)

// Defaults.
const (
	DefaultAuthURL       = "https://auth.squadcast.com/oauth/access-token"
	DefaultBaseAPI       = "https://api.squadcast.com/v3"
	DefaultAuthTimeout   = 60 * time.Second
	DefaultExportTimeout = 120 * time.Second
	DefaultDataDir       = "data"
	DefaultEnvFile       = ".env"
)

// Settings is the resolved configuration.
type Settings struct {
	RefreshToken  string
	AuthURL       string
	BaseAPI       string
	TeamID        string
	StartTime     string
	EndTime       string
	AuthTimeout   time.Duration
	ExportTimeout time.Duration
	DataDir       string

	// Database is the export ledger path; empty disables the ledger.
	Database string
}

// RawDir is where exported payloads are written.
func (s Settings) RawDir() string {
	return filepath.Join(s.DataDir, "raw")
}

// ProcessedDir is where analysis output goes by default.
func (s Settings) ProcessedDir() string {
	return filepath.Join(s.DataDir, "processed")
}

// Defaults returns the built-in settings.
func Defaults() Settings {
	return Settings{
		AuthURL:       DefaultAuthURL,
		BaseAPI:       DefaultBaseAPI,
		AuthTimeout:   DefaultAuthTimeout,
		ExportTimeout: DefaultExportTimeout,
		DataDir:       DefaultDataDir,
	}
}

// LoadOptions selects the sources Load reads.
type LoadOptions struct {
	// ConfigPath is an optional YAML file. Empty skips it; a set path
	// that does not exist is an error.
	ConfigPath string

	// EnvPath is a dotenv file. A missing file is skipped.
	EnvPath string

	// LookupEnv reads the process environment. Defaults to os.LookupEnv.
	LookupEnv func(string) (string, bool)
}

// fileSettings mirrors the YAML settings file.
type fileSettings struct {
	RefreshToken  string `yaml:"refresh_token"`
	AuthURL       string `yaml:"auth_url"`
	BaseAPI       string `yaml:"base_api"`
	TeamID        string `yaml:"team_id"`
	StartTime     string `yaml:"start_time"`
	EndTime       string `yaml:"end_time"`
	AuthTimeout   string `yaml:"auth_timeout"`
	ExportTimeout string `yaml:"export_timeout"`
	DataDir       string `yaml:"data_dir"`
	Database      string `yaml:"database"`
}

// Load resolves settings from opts.
func Load(opts LoadOptions) (Settings, error) {
	s := Defaults()

	if opts.ConfigPath != "" {
		data, err := os.ReadFile(opts.ConfigPath)
		if err != nil {
			return Settings{}, fmt.Errorf("read settings file: %w", err)
		}
		var fileCfg fileSettings
		if err := yaml.Unmarshal(data, &fileCfg); err != nil {
			return Settings{}, fmt.Errorf("parse settings file %s: %w", opts.ConfigPath, err)
		}
		if err := s.applyFile(fileCfg); err != nil {
			return Settings{}, fmt.Errorf("settings file %s: %w", opts.ConfigPath, err)
		}
	}

	if opts.EnvPath != "" {
		vars, err := godotenv.Read(opts.EnvPath)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return Settings{}, fmt.Errorf("read env file %s: %w", opts.EnvPath, err)
		default:
			if err := s.applyEnv(func(k string) (string, bool) {
				v, ok := vars[k]
				return v, ok
			}); err != nil {
				return Settings{}, fmt.Errorf("env file %s: %w", opts.EnvPath, err)
			}
		}
	}

	lookup := opts.LookupEnv
	if lookup == nil {
		lookup = os.LookupEnv
	}
	if err := s.applyEnv(lookup); err != nil {
		return Settings{}, err
	}

	return s, nil
}

func (s *Settings) applyFile(f fileSettings) error {
	setString(&s.RefreshToken, f.RefreshToken)
	setString(&s.AuthURL, f.AuthURL)
	setString(&s.BaseAPI, f.BaseAPI)
	setString(&s.TeamID, f.TeamID)
	setString(&s.StartTime, f.StartTime)
	setString(&s.EndTime, f.EndTime)
	setString(&s.DataDir, f.DataDir)
	setString(&s.Database, f.Database)

	if err := setDuration(&s.AuthTimeout, "auth_timeout", f.AuthTimeout); err != nil {
		return err
	}
	return setDuration(&s.ExportTimeout, "export_timeout", f.ExportTimeout)
}

func (s *Settings) applyEnv(lookup func(string) (string, bool)) error {
	get := func(key string) string {
		v, _ := lookup(key)
		return strings.TrimSpace(v)
	}

	setString(&s.RefreshToken, get(EnvRefreshToken))
	setString(&s.AuthURL, get(EnvAuthURL))
	setString(&s.BaseAPI, get(EnvBaseAPI))
	setString(&s.TeamID, get(EnvTeamID))
	setString(&s.StartTime, get(EnvStartTime))
	setString(&s.EndTime, get(EnvEndTime))
	setString(&s.DataDir, get(EnvDataDir))
	setString(&s.Database, get(EnvDatabase))

	if err := setDuration(&s.AuthTimeout, EnvAuthTimeout, get(EnvAuthTimeout)); err != nil {
		return err
	}
	return setDuration(&s.ExportTimeout, EnvExportTimeout, get(EnvExportTimeout))
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

// setDuration accepts Go durations ("90s", "2m") or bare seconds ("90").
func setDuration(dst *time.Duration, name, v string) error {
	if v == "" {
		return nil
	}
	d, err := ParseTimeout(v)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	*dst = d
	return nil
}

// ParseTimeout parses a Go duration or a whole number of seconds.
func ParseTimeout(v string) (time.Duration, error) {
	if secs, err := strconv.Atoi(v); err == nil {
		return time.Duration(secs) * time.Second, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid timeout %q", v)
	}
	return d, nil
}
