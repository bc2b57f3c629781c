package ubiquo

import "github.com/wilhelser/ubiquo/internal/runtimeconfig"

var (
	ErrDefaultLocaleRequired       = runtimeconfig.ErrDefaultLocaleRequired
	ErrLocaleInvalid               = runtimeconfig.ErrLocaleInvalid
	ErrDefaultLocaleNotListed      = runtimeconfig.ErrDefaultLocaleNotListed
	ErrStorageProviderUnknown      = runtimeconfig.ErrStorageProviderUnknown
	ErrStorageDriverUnknown        = runtimeconfig.ErrStorageDriverUnknown
	ErrStorageDSNRequired          = runtimeconfig.ErrStorageDSNRequired
	ErrAutoMigrateRequiresPostgres = runtimeconfig.ErrAutoMigrateRequiresPostgres
	ErrCacheTTLInvalid             = runtimeconfig.ErrCacheTTLInvalid
	ErrQueryTimeoutInvalid         = runtimeconfig.ErrQueryTimeoutInvalid
	ErrLoggingProviderRequired     = runtimeconfig.ErrLoggingProviderRequired
	ErrLoggingProviderUnknown      = runtimeconfig.ErrLoggingProviderUnknown
	ErrLoggingLevelInvalid         = runtimeconfig.ErrLoggingLevelInvalid
	ErrLoggingFormatInvalid        = runtimeconfig.ErrLoggingFormatInvalid
)

type (
	Config        = runtimeconfig.Config
	I18NConfig    = runtimeconfig.I18NConfig
	StorageConfig = runtimeconfig.StorageConfig
	CacheConfig   = runtimeconfig.CacheConfig
	QueriesConfig = runtimeconfig.QueriesConfig
	Features      = runtimeconfig.Features
	LoggingConfig = runtimeconfig.LoggingConfig
)

// DefaultConfig returns an in-memory configuration with console logging off.
func DefaultConfig() Config {
	return runtimeconfig.DefaultConfig()
}

// LoadConfig reads a TOML file over DefaultConfig.
func LoadConfig(path string) (Config, error) {
	return runtimeconfig.Load(path)
}
