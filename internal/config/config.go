// Package config assembles azdo-mcp settings with viper.
//
// Sources, highest precedence first: command-line flags, the process
// environment, a .env file, and the TOML settings file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/custodia-labs/azdo-mcp/internal/core/domain"
	"github.com/custodia-labs/azdo-mcp/internal/core/ports/driven"
)

// Environment variables.
const (
	EnvOrganization     = "AZDO_ORG"
	EnvOrgURL           = "AZDO_ORG_URL"
	EnvSearchURL        = "AZDO_SEARCH_URL"
	EnvSearchAPIVersion = "AZDO_API_VERSION"
	EnvGitAPIVersion    = "AZDO_GIT_API_VERSION"
	EnvAuth             = "AZDO_AUTH"
	EnvToken            = "AZDO_TOKEN"
	EnvTimeout          = "AZDO_TIMEOUT"
	EnvRequestsPerSec   = "AZDO_RPS"
	EnvMaxFetches       = "AZDO_MAX_FETCHES"
	EnvPort             = "AZDO_MCP_PORT"
)

// Settings file keys.
const (
	KeyOrganization     = "azdo.organization"
	KeyOrgURL           = "azdo.org_url"
	KeySearchURL        = "azdo.search_url"
	KeySearchAPIVersion = "azdo.search_api_version"
	KeyGitAPIVersion    = "azdo.git_api_version"
	KeyAuth             = "azdo.auth"
	KeyToken            = "azdo.token"
	KeyTimeout          = "azdo.timeout"
	KeyRequestsPerSec   = "azdo.requests_per_second"
	KeyMaxFetches       = "enrichment.max_fetches"
	KeyPort             = "mcp.port"
)

// FlagOrganization is the flag bound to KeyOrganization.
const FlagOrganization = "org"

// DefaultDotEnvPath is read relative to the working directory.
const DefaultDotEnvPath = ".env"

// Config is the resolved configuration.
type Config struct {
	Organization     string
	OrgURL           string `validate:"omitempty,url"`
	SearchURL        string `validate:"omitempty,url"`
	SearchAPIVersion string
	GitAPIVersion    string
	Auth             domain.AuthMethod `validate:"oneof=bearer pat none"`

	// Token comes from the settings file or .env. AZDO_TOKEN in the process
	// environment is not copied here; it is read per request so a rotated
	// token is picked up.
	Token string

	Timeout           time.Duration `validate:"gte=0"`
	RequestsPerSecond float64       `validate:"gte=0"`
	MaxFetches        int           `validate:"gte=1,lte=50"`
	Port              int           `validate:"gte=0,lte=65535"`
}

// Options controls Load.
type Options struct {
	// DotEnvPath defaults to DefaultDotEnvPath. A missing file is ignored.
	DotEnvPath string

	// Flags, when set, supplies the --org flag. Only flags the user
	// changed take effect.
	Flags *pflag.FlagSet
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Auth:       domain.AuthMethodBearer,
		Timeout:    30 * time.Second,
		MaxFetches: 5,
	}
}

// Load resolves the configuration from store, the .env file, the process
// environment and opts.Flags. store may be nil.
func Load(store driven.ConfigStore, opts Options) (Config, error) {
	dotenv, err := readDotEnv(opts.DotEnvPath)
	if err != nil {
		return Config{}, err
	}

	v := viper.New()
	setDefaults(v)

	// The settings file and .env form viper's config layer; .env wins.
	if err := v.MergeConfigMap(fileLayer(store, dotenv)); err != nil {
		return Config{}, fmt.Errorf("merge settings: %w", err)
	}

	for _, s := range settings {
		// The live token is read per request, see Config.Token.
		if s.key == KeyToken {
			continue
		}
		if err := v.BindEnv(s.key, s.env); err != nil {
			return Config{}, fmt.Errorf("bind %s: %w", s.env, err)
		}
	}

	if opts.Flags != nil {
		if f := opts.Flags.Lookup(FlagOrganization); f != nil {
			if err := v.BindPFlag(KeyOrganization, f); err != nil {
				return Config{}, fmt.Errorf("bind --%s: %w", FlagOrganization, err)
			}
		}
	}

	cfg, err := decode(v, sourceLabel(store, dotenv))
	if err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// setDefaults registers the values of Default with v.
func setDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault(KeyAuth, string(d.Auth))
	v.SetDefault(KeyTimeout, d.Timeout)
	v.SetDefault(KeyMaxFetches, d.MaxFetches)
}

// fileLayer nests the known keys of store, overlaid with non-empty .env
// values, into the map form viper merges as configuration.
func fileLayer(store driven.ConfigStore, dotenv map[string]string) map[string]any {
	layer := make(map[string]any)
	put := func(key string, value any) {
		section, name, _ := strings.Cut(key, ".")
		m, ok := layer[section].(map[string]any)
		if !ok {
			m = make(map[string]any)
			layer[section] = m
		}
		m[name] = value
	}

	for _, s := range settings {
		if store != nil {
			if value, ok := store.Get(s.key); ok {
				put(s.key, value)
			}
		}
		if value := strings.TrimSpace(dotenv[s.env]); value != "" {
			put(s.key, value)
		}
	}
	return layer
}

// sourceLabel names where a setting's effective value came from.
func sourceLabel(store driven.ConfigStore, dotenv map[string]string) func(setting) string {
	return func(s setting) string {
		if s.key != KeyToken {
			if v, ok := os.LookupEnv(s.env); ok && strings.TrimSpace(v) != "" {
				return s.env
			}
		}
		if strings.TrimSpace(dotenv[s.env]) != "" {
			return s.env + " (.env)"
		}
		if store != nil {
			if _, ok := store.Get(s.key); ok {
				return store.Path() + ": " + s.key
			}
		}
		return s.key
	}
}

// decode reads every setting from v, converting it to its Go type.
func decode(v *viper.Viper, label func(setting) string) (Config, error) {
	values := make(map[string]any, len(settings))
	for _, s := range settings {
		raw := v.Get(s.key)
		if raw == nil {
			continue
		}
		value, err := coerce(s.kind, label(s), raw)
		if err != nil {
			return Config{}, err
		}
		values[s.key] = value
	}

	str := func(key string) string {
		s, _ := values[key].(string)
		return s
	}
	num := func(key string) int {
		n, _ := values[key].(int)
		return n
	}
	cfg := Config{
		Organization:     str(KeyOrganization),
		OrgURL:           str(KeyOrgURL),
		SearchURL:        str(KeySearchURL),
		SearchAPIVersion: str(KeySearchAPIVersion),
		GitAPIVersion:    str(KeyGitAPIVersion),
		Token:            str(KeyToken),
		MaxFetches:       num(KeyMaxFetches),
		Port:             num(KeyPort),
	}
	cfg.Auth, _ = values[KeyAuth].(domain.AuthMethod)
	cfg.Timeout, _ = values[KeyTimeout].(time.Duration)
	cfg.RequestsPerSecond, _ = values[KeyRequestsPerSec].(float64)
	return cfg, nil
}

var validate = validator.New()

// Validate checks field ranges. It does not require an organization; see
// RequireOrganization.
func (c Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, fmt.Sprintf("%s=%v failed %q", fe.Field(), fe.Value(), fe.Tag()))
	}
	return fmt.Errorf("%w: invalid config: %s", domain.ErrInvalidInput, strings.Join(msgs, ", "))
}

// RequireOrganization reports domain.ErrMissingOrganization when no
// organization was configured.
func (c Config) RequireOrganization() error {
	if strings.TrimSpace(c.Organization) == "" {
		return fmt.Errorf("%w: set %s, %s in the settings file, or --%s",
			domain.ErrMissingOrganization, EnvOrganization, KeyOrganization, FlagOrganization)
	}
	return nil
}

func readDotEnv(path string) (map[string]string, error) {
	if path == "" {
		path = DefaultDotEnvPath
	}
	values, err := godotenv.Read(path)
	if errors.Is(err, fs.ErrNotExist) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return values, nil
}
