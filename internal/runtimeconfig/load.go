package runtimeconfig

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// fileDurations carries duration settings as strings ("30s", "5m") since
// TOML has no duration type.
type fileDurations struct {
	Cache struct {
		DefaultTTL string `toml:"default_ttl"`
	} `toml:"cache"`
	Queries struct {
		Timeout string `toml:"timeout"`
	} `toml:"queries"`
}

// Load reads a TOML file on top of DefaultConfig and validates the result.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("ubiquo config: read %s: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("ubiquo config: %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes TOML on top of DefaultConfig and validates the result.
// Unknown keys are rejected.
func Parse(data []byte) (Config, error) {
	defaults := DefaultConfig()
	cfg := defaults
	cfg.I18N.Locales = nil

	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		var strict *toml.StrictMissingError
		if !errors.As(err, &strict) {
			return Config{}, err
		}
		if unknown := unknownKeys(strict); len(unknown) > 0 {
			return Config{}, fmt.Errorf("unknown keys: %s", strings.Join(unknown, ", "))
		}
	}

	if cfg.I18N.Locales == nil {
		cfg.I18N.Locales = defaults.I18N.Locales
	}

	var durations fileDurations
	if err := toml.Unmarshal(data, &durations); err != nil {
		return Config{}, err
	}
	if err := applyDuration(&cfg.Cache.DefaultTTL, durations.Cache.DefaultTTL, "cache.default_ttl"); err != nil {
		return Config{}, err
	}
	if err := applyDuration(&cfg.Queries.Timeout, durations.Queries.Timeout, "queries.timeout"); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// durationKeys are decoded separately and are not unknown to the main pass.
var durationKeys = map[string]struct{}{
	"cache.default_ttl": {},
	"queries.timeout":   {},
}

func unknownKeys(strict *toml.StrictMissingError) []string {
	var out []string
	for _, e := range strict.Errors {
		key := strings.Join(e.Key(), ".")
		if _, ok := durationKeys[key]; ok {
			continue
		}
		out = append(out, key)
	}
	return out
}

func applyDuration(dst *time.Duration, raw, key string) error {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = d
	return nil
}
