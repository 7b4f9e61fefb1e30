package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noEnv(string) (string, bool) { return "", false }

func envMap(m map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := m[k]
		return v, ok
	}
}

func TestLoad_Defaults(t *testing.T) {
	s, err := Load(LoadOptions{LookupEnv: noEnv})
	require.NoError(t, err)
	assert.Equal(t, Defaults(), s)
	assert.Equal(t, DefaultAuthURL, s.AuthURL)
	assert.Equal(t, 60*time.Second, s.AuthTimeout)
	assert.Equal(t, 120*time.Second, s.ExportTimeout)
	assert.Equal(t, filepath.Join("data", "raw"), s.RawDir())
	assert.Equal(t, filepath.Join("data", "processed"), s.ProcessedDir())
}

func TestLoad_Layering(t *testing.T) {
	s, err := Load(LoadOptions{
		ConfigPath: "testdata/settings.yaml",
		EnvPath:    "testdata/test.env",
		LookupEnv: envMap(map[string]string{
			EnvTeamID: "team-from-env",
		}),
	})
	require.NoError(t, err)

	// dotenv overrides the YAML file
	assert.Equal(t, "env-file-refresh", s.RefreshToken)
	assert.Equal(t, "https://api.eu.squadcast.com/v3", s.BaseAPI)
	assert.Equal(t, "2025-02-28T00:00:00Z", s.EndTime)

	// process env overrides both
	assert.Equal(t, "team-from-env", s.TeamID)

	// YAML-only values survive
	assert.Equal(t, "2025-01-01T00:00:00Z", s.StartTime)
	assert.Equal(t, 45*time.Second, s.AuthTimeout)
	assert.Equal(t, 300*time.Second, s.ExportTimeout)
	assert.Equal(t, "/var/lib/squadcast", s.DataDir)

	// untouched defaults
	assert.Equal(t, DefaultAuthURL, s.AuthURL)
}

func TestLoad_MissingEnvFileIsSkipped(t *testing.T) {
	s, err := Load(LoadOptions{
		EnvPath:   filepath.Join(t.TempDir(), "absent.env"),
		LookupEnv: noEnv,
	})
	require.NoError(t, err)
	assert.Equal(t, Defaults(), s)
}

func TestLoad_MissingConfigFileIsAnError(t *testing.T) {
	_, err := Load(LoadOptions{
		ConfigPath: filepath.Join(t.TempDir(), "absent.yaml"),
		LookupEnv:  noEnv,
	})
	assert.Error(t, err)
}

func TestLoad_BadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("refresh_token: [unclosed\n"), 0o644))

	_, err := Load(LoadOptions{ConfigPath: path, LookupEnv: noEnv})
	assert.Error(t, err)
}

func TestLoad_BadTimeout(t *testing.T) {
	_, err := Load(LoadOptions{LookupEnv: envMap(map[string]string{EnvAuthTimeout: "soon"})})
	require.Error(t, err)
	assert.Contains(t, err.Error(), EnvAuthTimeout)
}

func TestParseTimeout(t *testing.T) {
	tests := []struct {
		in   string
		want time.Duration
	}{
		{"90", 90 * time.Second},
		{"90s", 90 * time.Second},
		{"2m", 2 * time.Minute},
		{"1m30s", 90 * time.Second},
	}
	for _, tt := range tests {
		got, err := ParseTimeout(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := ParseTimeout("ninety")
	assert.Error(t, err)
}

func validFetchSettings() Settings {
	s := Defaults()
	s.RefreshToken = "refresh"
	s.TeamID = "team"
	s.StartTime = "2025-01-01T00:00:00Z"
	s.EndTime = "2025-01-02T00:00:00Z"
	return s
}

func TestValidate_Auth(t *testing.T) {
	s := Defaults()
	s.RefreshToken = "refresh"
	assert.NoError(t, s.Validate(RequireAuth))

	// Auth does not need a window or owner.
	assert.Empty(t, s.TeamID)
}

func TestValidate_AuthMissingToken(t *testing.T) {
	err := Defaults().Validate(RequireAuth)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []string{"refresh_token"}, verr.Fields())
	assert.Contains(t, err.Error(), EnvRefreshToken)
}

func TestValidate_Fetch(t *testing.T) {
	assert.NoError(t, validFetchSettings().Validate(RequireFetch))
}

func TestValidate_FetchMissingWindowAndOwner(t *testing.T) {
	s := validFetchSettings()
	s.TeamID = ""
	s.StartTime = ""
	s.EndTime = ""

	err := s.Validate(RequireFetch)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.ElementsMatch(t, []string{"team_id", "start_time", "end_time"}, verr.Fields())
	assert.Contains(t, err.Error(), "--team")
}

func TestValidate_BadURLAndTimeout(t *testing.T) {
	s := validFetchSettings()
	s.BaseAPI = "ftp://example.com"
	s.ExportTimeout = 0

	err := s.Validate(RequireFetch)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.ElementsMatch(t, []string{"base_api", "export_timeout"}, verr.Fields())
}

func TestValidate_NeverEchoesSecret(t *testing.T) {
	s := validFetchSettings()
	s.RefreshToken = "super-secret-value"
	s.AuthURL = "not a url"

	err := s.Validate(RequireFetch)
	require.Error(t, err)
	assert.NotContains(t, err.Error(), "super-secret-value")
}

func TestValidate_UnknownRequirement(t *testing.T) {
	err := Defaults().Validate(Requirement("#Nope"))
	require.Error(t, err)
	var verr *ValidationError
	assert.NotErrorAs(t, err, &verr)
}
