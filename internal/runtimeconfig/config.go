package runtimeconfig

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/language"
)

var ErrDefaultLocaleRequired = errors.New("ubiquo config: default locale is required")
var ErrLocaleInvalid = errors.New("ubiquo config: locale is not a valid language tag")

// ErrDefaultLocaleNotListed keeps the default locale inside the configured locale list.
var ErrDefaultLocaleNotListed = errors.New("ubiquo config: default locale must be listed in i18n locales")
var ErrStorageProviderUnknown = errors.New("ubiquo config: storage provider is invalid")
var ErrStorageDriverUnknown = errors.New("ubiquo config: storage driver is invalid")
var ErrStorageDSNRequired = errors.New("ubiquo config: storage dsn is required for the bun provider")

// ErrAutoMigrateRequiresPostgres reflects that bundled migrations target PostgreSQL only.
var ErrAutoMigrateRequiresPostgres = errors.New("ubiquo config: auto migrate requires the postgres driver")
var ErrCacheTTLInvalid = errors.New("ubiquo config: cache ttl must be positive when cache is enabled")
var ErrQueryTimeoutInvalid = errors.New("ubiquo config: query timeout must be zero or positive")
var ErrLoggingProviderRequired = errors.New("ubiquo config: logging provider is required when logging feature is enabled")
var ErrLoggingProviderUnknown = errors.New("ubiquo config: logging provider is invalid")
var ErrLoggingLevelInvalid = errors.New("ubiquo config: logging level is invalid")
var ErrLoggingFormatInvalid = errors.New("ubiquo config: logging format is invalid")

// Storage providers.
const (
	StorageMemory = "memory"
	StorageBun    = "bun"
)

// SQL drivers understood by the bun provider.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Logging providers.
const (
	LoggingConsole  = "console"
	LoggingGoLogger = "gologger"
	LoggingZap      = "zap"
)

// Config aggregates the settings of a ubiquo module instance.
type Config struct {
	DefaultLocale string        `toml:"default_locale"`
	I18N          I18NConfig    `toml:"i18n"`
	Storage       StorageConfig `toml:"storage"`
	Cache         CacheConfig   `toml:"cache"`
	Queries       QueriesConfig `toml:"queries"`
	Features      Features      `toml:"features"`
	Logging       LoggingConfig `toml:"logging"`
}

// I18NConfig lists the locales a deployment works with. CanonicalizeTags
// rewrites requested tags to BCP 47 canonical form before matching, so en-us
// finds records stored as en-US.
type I18NConfig struct {
	Locales          []string `toml:"locales"`
	CanonicalizeTags bool     `toml:"canonicalize_tags"`
}

// StorageConfig selects the record store.
type StorageConfig struct {
	Provider    string `toml:"provider"`
	Driver      string `toml:"driver"`
	DSN         string `toml:"dsn"`
	AutoMigrate bool   `toml:"auto_migrate"`
}

// CacheConfig toggles the go-repository-cache layer over bun lookups.
type CacheConfig struct {
	Enabled    bool          `toml:"enabled"`
	DefaultTTL time.Duration `toml:"-"`
}

// QueriesConfig bounds query handler execution. Zero disables the timeout.
type QueriesConfig struct {
	Timeout time.Duration `toml:"-"`
}

// Features gates optional subsystems.
type Features struct {
	Logger bool `toml:"logger"`
}

// LoggingConfig selects and configures the logging provider.
type LoggingConfig struct {
	Provider  string   `toml:"provider"`
	Level     string   `toml:"level"`
	Format    string   `toml:"format"`
	AddSource bool     `toml:"add_source"`
	Focus     []string `toml:"focus"`
}

// DefaultConfig returns an in-memory setup with caching and logging off.
func DefaultConfig() Config {
	return Config{
		DefaultLocale: "en",
		I18N: I18NConfig{
			Locales: []string{"en"},
		},
		Storage: StorageConfig{
			Provider: StorageMemory,
			Driver:   DriverSQLite,
		},
		Cache: CacheConfig{
			DefaultTTL: time.Minute,
		},
		Queries: QueriesConfig{
			Timeout: 5 * time.Second,
		},
		Logging: LoggingConfig{
			Provider: LoggingConsole,
			Level:    "info",
		},
	}
}

// Validate performs consistency checks across sections.
func (cfg Config) Validate() error {
	defaultLocale := strings.TrimSpace(cfg.DefaultLocale)
	if defaultLocale == "" {
		return ErrDefaultLocaleRequired
	}
	if _, err := language.Parse(defaultLocale); err != nil {
		return fmt.Errorf("%w: %s", ErrLocaleInvalid, defaultLocale)
	}
	if len(cfg.I18N.Locales) > 0 {
		listed := false
		for _, locale := range cfg.I18N.Locales {
			trimmed := strings.TrimSpace(locale)
			if _, err := language.Parse(trimmed); err != nil {
				return fmt.Errorf("%w: %s", ErrLocaleInvalid, locale)
			}
			if strings.EqualFold(trimmed, defaultLocale) {
				listed = true
			}
		}
		if !listed {
			return fmt.Errorf("%w: %s", ErrDefaultLocaleNotListed, defaultLocale)
		}
	}

	switch normalize(cfg.Storage.Provider) {
	case StorageMemory:
	case StorageBun:
		driver := normalize(cfg.Storage.Driver)
		if driver != DriverSQLite && driver != DriverPostgres {
			return fmt.Errorf("%w: %s", ErrStorageDriverUnknown, cfg.Storage.Driver)
		}
		if strings.TrimSpace(cfg.Storage.DSN) == "" {
			return ErrStorageDSNRequired
		}
		if cfg.Storage.AutoMigrate && driver != DriverPostgres {
			return ErrAutoMigrateRequiresPostgres
		}
	default:
		return fmt.Errorf("%w: %s", ErrStorageProviderUnknown, cfg.Storage.Provider)
	}

	if cfg.Cache.Enabled && cfg.Cache.DefaultTTL <= 0 {
		return ErrCacheTTLInvalid
	}
	if cfg.Queries.Timeout < 0 {
		return ErrQueryTimeoutInvalid
	}

	if cfg.Features.Logger {
		provider := normalize(cfg.Logging.Provider)
		if provider == "" {
			return ErrLoggingProviderRequired
		}
		if !isSupportedProvider(provider) {
			return fmt.Errorf("%w: %s", ErrLoggingProviderUnknown, provider)
		}
		if level := strings.TrimSpace(cfg.Logging.Level); level != "" && !isSupportedLevel(level) {
			return fmt.Errorf("%w: %s", ErrLoggingLevelInvalid, level)
		}
		if provider != LoggingConsole {
			if format := strings.TrimSpace(cfg.Logging.Format); format != "" && !isSupportedFormat(format) {
				return fmt.Errorf("%w: %s", ErrLoggingFormatInvalid, format)
			}
		}
	}
	return nil
}

func normalize(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

func isSupportedProvider(provider string) bool {
	switch provider {
	case LoggingConsole, LoggingGoLogger, LoggingZap:
		return true
	default:
		return false
	}
}

func isSupportedLevel(level string) bool {
	switch normalize(level) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal":
		return true
	default:
		return false
	}
}

func isSupportedFormat(format string) bool {
	switch normalize(format) {
	case "json", "console", "pretty":
		return true
	default:
		return false
	}
}
