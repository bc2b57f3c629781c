package ubiquo

import (
	"github.com/uptrace/bun"

	"github.com/wilhelser/ubiquo/internal/di"
	"github.com/wilhelser/ubiquo/internal/queries"
	"github.com/wilhelser/ubiquo/pkg/interfaces"
)

// QueryService exposes the validated query handlers.
type QueryService = *queries.Service

type (
	RecordsByLocale  = queries.RecordsByLocale
	RecordsByContent = queries.RecordsByContent
	TranslationsOf   = queries.TranslationsOf
	AvailableLocales = queries.AvailableLocales
)

// Option configures New.
type Option = di.Option

// WithLoggerProvider overrides the logger selected by Config.Logging.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return di.WithLoggerProvider(provider)
}

// WithBunDB runs the bun store over db. The module does not close it.
func WithBunDB(db *bun.DB) Option {
	return di.WithBunDB(db)
}

// WithRecordStore replaces the configured store.
func WithRecordStore(store RecordRepository) Option {
	return di.WithRecordStore(store)
}

// Module is the assembled resolver stack.
type Module struct {
	container *di.Container
}

// New validates cfg and wires the store, resolver and queries.
func New(cfg Config, opts ...Option) (*Module, error) {
	container, err := di.NewContainer(cfg, opts...)
	if err != nil {
		return nil, err
	}
	return &Module{container: container}, nil
}

func (m *Module) Resolver() Resolver {
	return m.container.Resolver()
}

// Records returns the store, for seeding and maintenance.
func (m *Module) Records() RecordRepository {
	return m.container.RecordStore()
}

func (m *Module) Queries() QueryService {
	return m.container.Queries()
}

// Config returns the validated configuration.
func (m *Module) Config() Config {
	return m.container.Config
}

// Close releases the database the module opened, if any.
func (m *Module) Close() error {
	return m.container.Close()
}
