package di

import (
	"context"
	"fmt"
	"strings"
	"time"

	repocache "github.com/goliatone/go-repository-cache/cache"
	"github.com/uptrace/bun"

	"github.com/wilhelser/ubiquo/internal/database"
	"github.com/wilhelser/ubiquo/internal/logging"
	"github.com/wilhelser/ubiquo/internal/logging/console"
	"github.com/wilhelser/ubiquo/internal/logging/gologger"
	"github.com/wilhelser/ubiquo/internal/logging/zaplogger"
	"github.com/wilhelser/ubiquo/internal/queries"
	"github.com/wilhelser/ubiquo/internal/runtimeconfig"
	"github.com/wilhelser/ubiquo/internal/translations"
	"github.com/wilhelser/ubiquo/pkg/interfaces"
)

// Container wires the record store, resolver and query handlers from a Config.
type Container struct {
	Config runtimeconfig.Config

	loggerProvider interfaces.LoggerProvider

	bunDB         *bun.DB
	ownsDB        bool
	cacheTTL      time.Duration
	cacheService  repocache.CacheService
	keySerializer repocache.KeySerializer

	store    translations.RecordRepository
	resolver translations.Resolver
	queries  *queries.Service
}

// Option mutates the container before it is finalised.
type Option func(*Container)

// WithLoggerProvider overrides the provider selected by Config.Logging.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(c *Container) {
		c.loggerProvider = provider
	}
}

// WithCache overrides the cache used in front of bun lookups.
func WithCache(service repocache.CacheService, serializer repocache.KeySerializer) Option {
	return func(c *Container) {
		c.cacheService = service
		c.keySerializer = serializer
	}
}

// WithBunDB supplies an open database. The container does not close it.
func WithBunDB(db *bun.DB) Option {
	return func(c *Container) {
		c.bunDB = db
	}
}

// WithRecordStore replaces the configured store entirely.
func WithRecordStore(store translations.RecordRepository) Option {
	return func(c *Container) {
		c.store = store
	}
}

// WithResolver replaces the resolver built over the store.
func WithResolver(resolver translations.Resolver) Option {
	return func(c *Container) {
		c.resolver = resolver
	}
}

// NewContainer validates cfg and builds every dependency. With the bun
// provider it opens the database unless WithBunDB was given, creates or
// migrates the schema, and wraps lookups with the repository cache when
// caching is enabled.
func NewContainer(cfg runtimeconfig.Config, opts ...Option) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	cacheTTL := cfg.Cache.DefaultTTL
	if cacheTTL <= 0 {
		cacheTTL = time.Minute
	}

	c := &Container{
		Config:   cfg,
		cacheTTL: cacheTTL,
	}
	for _, opt := range opts {
		opt(c)
	}

	if err := c.configureLogging(); err != nil {
		return nil, err
	}
	c.configureCacheDefaults()
	if err := c.configureStore(context.Background()); err != nil {
		return nil, err
	}

	if c.resolver == nil {
		c.resolver = translations.NewResolver(c.store,
			translations.WithLogger(logging.TranslationsLogger(c.loggerProvider)),
			translations.WithCanonicalTags(cfg.I18N.CanonicalizeTags),
		)
	}
	c.queries = queries.NewService(c.resolver,
		queries.WithServiceLogger(logging.QueriesLogger(c.loggerProvider)),
		queries.WithServiceTimeout(cfg.Queries.Timeout),
	)
	return c, nil
}

func (c *Container) configureLogging() error {
	if c.loggerProvider != nil || !c.Config.Features.Logger {
		return nil
	}

	logCfg := c.Config.Logging
	switch strings.ToLower(strings.TrimSpace(logCfg.Provider)) {
	case runtimeconfig.LoggingConsole:
		level, err := console.ParseLevel(logCfg.Level)
		if err != nil {
			return err
		}
		c.loggerProvider = console.NewProvider(console.Options{MinLevel: &level})
	case runtimeconfig.LoggingGoLogger:
		provider, err := gologger.NewProvider(gologger.Config{
			Level:     logCfg.Level,
			Format:    logCfg.Format,
			AddSource: logCfg.AddSource,
			Focus:     logCfg.Focus,
		})
		if err != nil {
			return err
		}
		c.loggerProvider = provider
	case runtimeconfig.LoggingZap:
		provider, err := zaplogger.NewProvider(zaplogger.Config{
			Level:     logCfg.Level,
			Format:    logCfg.Format,
			AddSource: logCfg.AddSource,
		})
		if err != nil {
			return err
		}
		c.loggerProvider = provider
	default:
		return fmt.Errorf("%w: %s", runtimeconfig.ErrLoggingProviderUnknown, logCfg.Provider)
	}
	return nil
}

func (c *Container) configureCacheDefaults() {
	if !c.Config.Cache.Enabled {
		return
	}

	if c.cacheService == nil {
		cfg := repocache.DefaultConfig()
		cfg.TTL = c.cacheTTL
		service, err := repocache.NewCacheService(cfg)
		if err == nil {
			c.cacheService = service
		}
	}

	if c.cacheService != nil && c.keySerializer == nil {
		c.keySerializer = repocache.NewDefaultKeySerializer()
	}
}

func (c *Container) configureStore(ctx context.Context) error {
	if c.store != nil {
		return nil
	}

	storageCfg := c.Config.Storage
	if strings.ToLower(strings.TrimSpace(storageCfg.Provider)) != runtimeconfig.StorageBun && c.bunDB == nil {
		c.store = translations.NewMemoryRecordStore()
		return nil
	}

	logger := logging.StorageLogger(c.loggerProvider)
	if c.bunDB == nil {
		db, err := database.Open(ctx, storageCfg, database.WithLogger(logger))
		if err != nil {
			return err
		}
		c.bunDB = db
		c.ownsDB = true
	}

	if err := c.prepareSchema(ctx, logger); err != nil {
		if c.ownsDB {
			_ = c.bunDB.Close()
		}
		return err
	}

	c.store = translations.NewBunRecordStoreWithCache(c.bunDB, c.cacheService, c.keySerializer)
	return nil
}

func (c *Container) prepareSchema(ctx context.Context, logger interfaces.Logger) error {
	if c.Config.Storage.AutoMigrate {
		return database.Migrate(c.Config.Storage.DSN, database.WithLogger(logger))
	}
	return database.EnsureSchema(ctx, c.bunDB)
}

// Close releases the database opened by the container.
func (c *Container) Close() error {
	if c == nil || c.bunDB == nil || !c.ownsDB {
		return nil
	}
	return c.bunDB.Close()
}

func (c *Container) LoggerProvider() interfaces.LoggerProvider {
	return c.loggerProvider
}

func (c *Container) RecordStore() translations.RecordRepository {
	return c.store
}

func (c *Container) Resolver() translations.Resolver {
	return c.resolver
}

func (c *Container) Queries() *queries.Service {
	return c.queries
}

// BunDB returns the database backing the store, nil for the memory provider.
func (c *Container) BunDB() *bun.DB {
	return c.bunDB
}
