package runtimeconfig_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/wilhelser/ubiquo/internal/runtimeconfig"
)

func TestDefaultConfigIsValid(t *testing.T) {
	if err := runtimeconfig.DefaultConfig().Validate(); err != nil {
		t.Fatalf("Validate() returned unexpected error: %v", err)
	}
}

func TestConfigValidateRejections(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*runtimeconfig.Config)
		want   error
	}{
		{
			name:   "blank default locale",
			mutate: func(cfg *runtimeconfig.Config) { cfg.DefaultLocale = " " },
			want:   runtimeconfig.ErrDefaultLocaleRequired,
		},
		{
			name:   "malformed locale",
			mutate: func(cfg *runtimeconfig.Config) { cfg.I18N.Locales = []string{"en", "x y"} },
			want:   runtimeconfig.ErrLocaleInvalid,
		},
		{
			name:   "default locale not listed",
			mutate: func(cfg *runtimeconfig.Config) { cfg.I18N.Locales = []string{"es", "ca"} },
			want:   runtimeconfig.ErrDefaultLocaleNotListed,
		},
		{
			name:   "unknown storage provider",
			mutate: func(cfg *runtimeconfig.Config) { cfg.Storage.Provider = "redis" },
			want:   runtimeconfig.ErrStorageProviderUnknown,
		},
		{
			name: "unknown driver",
			mutate: func(cfg *runtimeconfig.Config) {
				cfg.Storage.Provider = runtimeconfig.StorageBun
				cfg.Storage.Driver = "mysql"
				cfg.Storage.DSN = "x"
			},
			want: runtimeconfig.ErrStorageDriverUnknown,
		},
		{
			name: "missing dsn",
			mutate: func(cfg *runtimeconfig.Config) {
				cfg.Storage.Provider = runtimeconfig.StorageBun
			},
			want: runtimeconfig.ErrStorageDSNRequired,
		},
		{
			name: "auto migrate on sqlite",
			mutate: func(cfg *runtimeconfig.Config) {
				cfg.Storage.Provider = runtimeconfig.StorageBun
				cfg.Storage.DSN = "file::memory:"
				cfg.Storage.AutoMigrate = true
			},
			want: runtimeconfig.ErrAutoMigrateRequiresPostgres,
		},
		{
			name: "cache without ttl",
			mutate: func(cfg *runtimeconfig.Config) {
				cfg.Cache.Enabled = true
				cfg.Cache.DefaultTTL = 0
			},
			want: runtimeconfig.ErrCacheTTLInvalid,
		},
		{
			name:   "negative timeout",
			mutate: func(cfg *runtimeconfig.Config) { cfg.Queries.Timeout = -time.Second },
			want:   runtimeconfig.ErrQueryTimeoutInvalid,
		},
		{
			name: "logger without provider",
			mutate: func(cfg *runtimeconfig.Config) {
				cfg.Features.Logger = true
				cfg.Logging.Provider = ""
			},
			want: runtimeconfig.ErrLoggingProviderRequired,
		},
		{
			name: "unknown logging provider",
			mutate: func(cfg *runtimeconfig.Config) {
				cfg.Features.Logger = true
				cfg.Logging.Provider = "syslog"
			},
			want: runtimeconfig.ErrLoggingProviderUnknown,
		},
		{
			name: "invalid level",
			mutate: func(cfg *runtimeconfig.Config) {
				cfg.Features.Logger = true
				cfg.Logging.Level = "loud"
			},
			want: runtimeconfig.ErrLoggingLevelInvalid,
		},
		{
			name: "invalid zap format",
			mutate: func(cfg *runtimeconfig.Config) {
				cfg.Features.Logger = true
				cfg.Logging.Provider = runtimeconfig.LoggingZap
				cfg.Logging.Format = "xml"
			},
			want: runtimeconfig.ErrLoggingFormatInvalid,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := runtimeconfig.DefaultConfig()
			tc.mutate(&cfg)
			if err := cfg.Validate(); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestConfigValidateIgnoresFormatForConsole(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Features.Logger = true
	cfg.Logging.Format = "anything"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() returned unexpected error: %v", err)
	}
}

func TestParseOverlaysDefaults(t *testing.T) {
	data := []byte(`
default_locale = "ca"

[i18n]
locales = ["ca", "es", "en"]
canonicalize_tags = true

[storage]
provider = "bun"
driver = "postgres"
dsn = "postgres://ubiquo@localhost/ubiquo?sslmode=disable"
auto_migrate = true

[cache]
enabled = true
default_ttl = "90s"

[queries]
timeout = "250ms"

[features]
logger = true

[logging]
provider = "zap"
level = "debug"
format = "console"
focus = ["ubiquo.translations"]
`)

	cfg, err := runtimeconfig.Parse(data)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	want := runtimeconfig.Config{
		DefaultLocale: "ca",
		I18N: runtimeconfig.I18NConfig{
			Locales:          []string{"ca", "es", "en"},
			CanonicalizeTags: true,
		},
		Storage: runtimeconfig.StorageConfig{
			Provider:    "bun",
			Driver:      "postgres",
			DSN:         "postgres://ubiquo@localhost/ubiquo?sslmode=disable",
			AutoMigrate: true,
		},
		Cache:    runtimeconfig.CacheConfig{Enabled: true, DefaultTTL: 90 * time.Second},
		Queries:  runtimeconfig.QueriesConfig{Timeout: 250 * time.Millisecond},
		Features: runtimeconfig.Features{Logger: true},
		Logging: runtimeconfig.LoggingConfig{
			Provider: "zap",
			Level:    "debug",
			Format:   "console",
			Focus:    []string{"ubiquo.translations"},
		},
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Fatalf("unexpected config (-want +got):\n%s", diff)
	}
}

func TestParseRejectsUnknownKeysAndBadDurations(t *testing.T) {
	if _, err := runtimeconfig.Parse([]byte("[storage]\nengine = \"x\"\n")); err == nil {
		t.Fatal("expected unknown key error")
	}
	if _, err := runtimeconfig.Parse([]byte("[queries]\ntimeout = \"soon\"\n")); err == nil {
		t.Fatal("expected duration error")
	}
}

func TestLoadReadsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ubiquo.toml")
	if err := os.WriteFile(path, []byte("default_locale = \"en\"\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg, err := runtimeconfig.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Storage.Provider != runtimeconfig.StorageMemory {
		t.Fatalf("expected default storage provider, got %q", cfg.Storage.Provider)
	}

	if _, err := runtimeconfig.Load(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
