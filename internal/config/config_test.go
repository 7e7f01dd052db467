package config

import (
	"errors"
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/azdo-mcp/internal/adapters/driven/config/file"
	"github.com/custodia-labs/azdo-mcp/internal/core/domain"
)

// mockStore is an in-memory driven.ConfigStore.
type mockStore map[string]any

func (m mockStore) Get(key string) (any, bool) {
	v, ok := m[key]
	return v, ok
}

func (m mockStore) GetString(key string) string {
	s, _ := m[key].(string)
	return s
}

func (m mockStore) GetInt(key string) int {
	i, _ := m[key].(int)
	return i
}

func (m mockStore) GetFloat(key string) float64 {
	switch v := m[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	}
	return 0
}

func (m mockStore) Set(key string, value any) error {
	m[key] = value
	return nil
}

func (m mockStore) Keys() []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (m mockStore) Path() string { return "mock.toml" }

// clearEnv blanks every AZDO_* variable; empty values count as unset.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, s := range settings {
		t.Setenv(s.env, "")
	}
}

func setEnv(t *testing.T, values map[string]string) {
	t.Helper()
	clearEnv(t)
	for k, v := range values {
		t.Setenv(k, v)
	}
}

// orgFlags returns a flag set as the CLI defines it, parsed from args.
func orgFlags(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String(FlagOrganization, "", "organization")
	require.NoError(t, fs.Parse(args))
	return fs
}

func noDotEnv(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "missing.env")
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(nil, Options{DotEnvPath: noDotEnv(t)})

	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, domain.AuthMethodBearer, cfg.Auth)
	assert.Equal(t, 5, cfg.MaxFetches)
	assert.Equal(t, 30*time.Second, cfg.Timeout)
}

func TestLoad_Store(t *testing.T) {
	store := mockStore{
		KeyOrganization:     "contoso",
		KeySearchURL:        "https://search.example.com",
		KeySearchAPIVersion: "7.1-preview.1",
		KeyAuth:             "pat",
		KeyToken:            "file-token",
		KeyTimeout:          "10s",
		KeyRequestsPerSec:   2.5,
		KeyMaxFetches:       8,
		KeyPort:             8080,
	}

	clearEnv(t)
	cfg, err := Load(store, Options{DotEnvPath: noDotEnv(t)})

	require.NoError(t, err)
	assert.Equal(t, "contoso", cfg.Organization)
	assert.Equal(t, "https://search.example.com", cfg.SearchURL)
	assert.Equal(t, "7.1-preview.1", cfg.SearchAPIVersion)
	assert.Equal(t, domain.AuthMethodPAT, cfg.Auth)
	assert.Equal(t, "file-token", cfg.Token)
	assert.Equal(t, 10*time.Second, cfg.Timeout)
	assert.InDelta(t, 2.5, cfg.RequestsPerSecond, 0.0001)
	assert.Equal(t, 8, cfg.MaxFetches)
	assert.Equal(t, 8080, cfg.Port)
}

func TestLoad_Precedence(t *testing.T) {
	dir := t.TempDir()
	dotenv := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(dotenv, []byte(
		"AZDO_ORG=from-dotenv\nAZDO_MAX_FETCHES=3\nAZDO_TOKEN=dotenv-token\nAZDO_AUTH=pat\n"), 0o600))

	store := mockStore{
		KeyOrganization: "from-file",
		KeyMaxFetches:   8,
		KeyToken:        "file-token",
		KeyPort:         9000,
	}

	t.Run("dotenv over file", func(t *testing.T) {
		clearEnv(t)
		cfg, err := Load(store, Options{DotEnvPath: dotenv})
		require.NoError(t, err)
		assert.Equal(t, "from-dotenv", cfg.Organization)
		assert.Equal(t, 3, cfg.MaxFetches)
		assert.Equal(t, "dotenv-token", cfg.Token)
		assert.Equal(t, domain.AuthMethodPAT, cfg.Auth)
		assert.Equal(t, 9000, cfg.Port)
	})

	t.Run("environment over dotenv", func(t *testing.T) {
		setEnv(t, map[string]string{EnvOrganization: "from-env", EnvToken: "env-token"})
		cfg, err := Load(store, Options{DotEnvPath: dotenv})
		require.NoError(t, err)
		assert.Equal(t, "from-env", cfg.Organization)
		assert.Equal(t, 3, cfg.MaxFetches)
		// The live environment token is read per request, not stored.
		assert.Equal(t, "dotenv-token", cfg.Token)
	})

	t.Run("flags over environment", func(t *testing.T) {
		setEnv(t, map[string]string{EnvOrganization: "from-env"})
		cfg, err := Load(store, Options{DotEnvPath: dotenv, Flags: orgFlags(t, "--org", "from-flag")})
		require.NoError(t, err)
		assert.Equal(t, "from-flag", cfg.Organization)
	})

	t.Run("unchanged flag leaves environment", func(t *testing.T) {
		setEnv(t, map[string]string{EnvOrganization: "from-env"})
		cfg, err := Load(store, Options{DotEnvPath: dotenv, Flags: orgFlags(t)})
		require.NoError(t, err)
		assert.Equal(t, "from-env", cfg.Organization)
	})

	t.Run("typed environment values", func(t *testing.T) {
		setEnv(t, map[string]string{EnvTimeout: "45s", EnvRequestsPerSec: "2.5", EnvPort: "7070", EnvAuth: "NONE"})
		cfg, err := Load(store, Options{DotEnvPath: dotenv})
		require.NoError(t, err)
		assert.Equal(t, 45*time.Second, cfg.Timeout)
		assert.InDelta(t, 2.5, cfg.RequestsPerSecond, 0.0001)
		assert.Equal(t, 7070, cfg.Port)
		assert.Equal(t, domain.AuthMethodNone, cfg.Auth)
	})
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{"max fetches not a number", map[string]string{EnvMaxFetches: "many"}, "AZDO_MAX_FETCHES"},
		{"max fetches out of range", map[string]string{EnvMaxFetches: "0"}, "MaxFetches"},
		{"unknown auth", map[string]string{EnvAuth: "kerberos"}, "AZDO_AUTH"},
		{"bad timeout", map[string]string{EnvTimeout: "soon"}, "AZDO_TIMEOUT"},
		{"bad rate", map[string]string{EnvRequestsPerSec: "fast"}, "AZDO_RPS"},
		{"bad url", map[string]string{EnvSearchURL: "not a url"}, "SearchURL"},
		{"port out of range", map[string]string{EnvPort: "70000"}, "Port"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setEnv(t, tt.env)
			_, err := Load(nil, Options{DotEnvPath: noDotEnv(t)})
			require.Error(t, err)
			assert.True(t, errors.Is(err, domain.ErrInvalidInput))
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoad_InvalidStoreValue(t *testing.T) {
	clearEnv(t)
	_, err := Load(mockStore{KeyTimeout: "forever"}, Options{DotEnvPath: noDotEnv(t)})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "mock.toml")
	assert.Contains(t, err.Error(), KeyTimeout)
}

func TestLoad_FileStore(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(`
[azdo]
organization = "fabrikam"
requests_per_second = 4

[enrichment]
max_fetches = 10
`), 0o600))

	store, err := file.NewConfigStore(dir)
	require.NoError(t, err)
	clearEnv(t)

	cfg, err := Load(store, Options{DotEnvPath: noDotEnv(t)})
	require.NoError(t, err)
	assert.Equal(t, "fabrikam", cfg.Organization)
	assert.InDelta(t, 4.0, cfg.RequestsPerSecond, 0.0001)
	assert.Equal(t, 10, cfg.MaxFetches)
}

func TestLoad_InvalidDotEnvValue(t *testing.T) {
	clearEnv(t)
	dotenv := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(dotenv, []byte("AZDO_MAX_FETCHES=lots\n"), 0o600))

	_, err := Load(nil, Options{DotEnvPath: dotenv})

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Contains(t, err.Error(), "AZDO_MAX_FETCHES (.env)")
}

func TestRequireOrganization(t *testing.T) {
	err := Default().RequireOrganization()
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrMissingOrganization))
	assert.Contains(t, err.Error(), EnvOrganization)

	cfg := Default()
	cfg.Organization = "contoso"
	assert.NoError(t, cfg.RequireOrganization())
}
