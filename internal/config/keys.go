package config

import (
	"fmt"
	"strings"

	"github.com/spf13/cast"

	"github.com/custodia-labs/azdo-mcp/internal/core/domain"
)

type valueKind int

const (
	kindString valueKind = iota
	kindInt
	kindFloat
	kindDuration
	kindAuth
)

// setting ties a settings file key to its environment variable.
type setting struct {
	key  string
	env  string
	kind valueKind
}

// settings is sorted by key.
var settings = []setting{
	{KeyAuth, EnvAuth, kindAuth},
	{KeyGitAPIVersion, EnvGitAPIVersion, kindString},
	{KeyOrgURL, EnvOrgURL, kindString},
	{KeyOrganization, EnvOrganization, kindString},
	{KeyRequestsPerSec, EnvRequestsPerSec, kindFloat},
	{KeySearchAPIVersion, EnvSearchAPIVersion, kindString},
	{KeySearchURL, EnvSearchURL, kindString},
	{KeyTimeout, EnvTimeout, kindDuration},
	{KeyToken, EnvToken, kindString},
	{KeyMaxFetches, EnvMaxFetches, kindInt},
	{KeyPort, EnvPort, kindInt},
}

// SettableKeys returns the settings file keys in sorted order.
func SettableKeys() []string {
	keys := make([]string, 0, len(settings))
	for _, s := range settings {
		keys = append(keys, s.key)
	}
	return keys
}

func lookupSetting(key string) (setting, bool) {
	for _, s := range settings {
		if s.key == key {
			return s, true
		}
	}
	return setting{}, false
}

// ParseValue converts raw to the value stored under key in the settings
// file. Durations are stored in their string form.
func ParseValue(key, raw string) (any, error) {
	s, ok := lookupSetting(key)
	if !ok {
		return nil, fmt.Errorf("%w: unknown key %q (known: %s)",
			domain.ErrInvalidInput, key, strings.Join(SettableKeys(), ", "))
	}

	switch s.kind {
	case kindDuration:
		if _, err := coerce(s.kind, key, raw); err != nil {
			return nil, err
		}
		return raw, nil
	case kindAuth:
		v, err := coerce(s.kind, key, raw)
		if err != nil {
			return nil, err
		}
		return string(v.(domain.AuthMethod)), nil
	default:
		return coerce(s.kind, key, raw)
	}
}

// coerce converts a raw value from any source to the Go type of kind.
// label names the source in error messages.
func coerce(kind valueKind, label string, raw any) (any, error) {
	switch kind {
	case kindInt:
		v, err := cast.ToIntE(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %s=%q is not an integer", domain.ErrInvalidInput, label, fmt.Sprint(raw))
		}
		return v, nil
	case kindFloat:
		v, err := cast.ToFloat64E(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %s=%q is not a number", domain.ErrInvalidInput, label, fmt.Sprint(raw))
		}
		return v, nil
	case kindDuration:
		v, err := cast.ToDurationE(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %s=%q is not a duration", domain.ErrInvalidInput, label, fmt.Sprint(raw))
		}
		return v, nil
	case kindAuth:
		s := strings.ToLower(strings.TrimSpace(cast.ToString(raw)))
		method, ok := domain.ParseAuthMethod(s)
		if !ok {
			return nil, fmt.Errorf("%w: %s=%q, want bearer, pat or none", domain.ErrInvalidInput, label, fmt.Sprint(raw))
		}
		return method, nil
	default:
		return strings.TrimSpace(cast.ToString(raw)), nil
	}
}
