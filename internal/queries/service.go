package queries

import (
	"context"
	"time"

	command "github.com/goliatone/go-command"
	"github.com/google/uuid"

	"github.com/wilhelser/ubiquo/internal/translations"
	"github.com/wilhelser/ubiquo/pkg/interfaces"
)

// Records is the result type of the record queries.
type Records = []*translations.Record

// Service bundles one handler per query message over a single resolver.
type Service struct {
	ByLocale         *Handler[RecordsByLocale, Records]
	ByContent        *Handler[RecordsByContent, Records]
	TranslationsOf   *Handler[TranslationsOf, Records]
	AvailableLocales *Handler[AvailableLocales, []string]
}

var (
	_ Querier[RecordsByLocale, Records]   = (*Handler[RecordsByLocale, Records])(nil)
	_ Querier[AvailableLocales, []string] = (*Handler[AvailableLocales, []string])(nil)
)

// ServiceOption configures NewService.
type ServiceOption func(*serviceOptions)

type serviceOptions struct {
	logger  interfaces.Logger
	timeout time.Duration
	set     bool
}

// WithServiceLogger sets the logger shared by every handler.
func WithServiceLogger(logger interfaces.Logger) ServiceOption {
	return func(o *serviceOptions) {
		o.logger = logger
	}
}

// WithServiceTimeout sets the per-query timeout. Zero disables it.
func WithServiceTimeout(timeout time.Duration) ServiceOption {
	return func(o *serviceOptions) {
		o.timeout = timeout
		o.set = true
	}
}

// NewService wires the query handlers to resolver.
func NewService(resolver translations.Resolver, opts ...ServiceOption) *Service {
	var o serviceOptions
	for _, opt := range opts {
		opt(&o)
	}
	q := &queries{resolver: resolver}

	return &Service{
		ByLocale:         NewHandler(q.byLocale, handlerOptions[RecordsByLocale, Records](o, "by_locale")...),
		ByContent:        NewHandler(q.byContent, handlerOptions[RecordsByContent, Records](o, "by_content")...),
		TranslationsOf:   NewHandler(q.translationsOf, handlerOptions[TranslationsOf, Records](o, "translations_of")...),
		AvailableLocales: NewHandler(q.availableLocales, handlerOptions[AvailableLocales, []string](o, "available_locales")...),
	}
}

func handlerOptions[T command.Message, R any](o serviceOptions, operation string) []HandlerOption[T, R] {
	opts := []HandlerOption[T, R]{
		WithLogger[T, R](o.logger),
		WithOperation[T, R](operation),
	}
	if o.set {
		opts = append(opts, WithTimeout[T, R](o.timeout))
	}
	return opts
}

type queries struct {
	resolver translations.Resolver
}

func (q *queries) byLocale(ctx context.Context, msg RecordsByLocale) (Records, error) {
	locales := translations.ParseLocales(msg.Locales...)
	var groups *translations.ContentSelector
	if len(msg.Groups) > 0 {
		selector := translations.Groups(msg.Groups...)
		groups = &selector
	}

	if msg.Preferred {
		return q.resolver.Preferred(ctx, locales, groups)
	}
	if groups == nil {
		return q.resolver.ByLocale(ctx, locales)
	}
	return q.resolver.Find(ctx, translations.Query{Locales: &locales, Content: groups})
}

func (q *queries) byContent(ctx context.Context, msg RecordsByContent) (Records, error) {
	return q.resolver.ByContent(ctx, translations.Groups(msg.Groups...))
}

func (q *queries) translationsOf(ctx context.Context, msg TranslationsOf) (Records, error) {
	var (
		record *translations.Record
		err    error
	)
	if msg.RecordID != uuid.Nil {
		record, err = q.resolver.FindByID(ctx, msg.RecordID)
	} else {
		record, err = q.resolver.FindByKey(ctx, msg.Key)
	}
	if err != nil {
		return nil, err
	}
	return q.resolver.TranslationsOf(ctx, record)
}

func (q *queries) availableLocales(ctx context.Context, msg AvailableLocales) ([]string, error) {
	return q.resolver.AvailableLocales(ctx, msg.GroupID)
}
