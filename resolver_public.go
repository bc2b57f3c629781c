package ubiquo

import (
	"github.com/google/uuid"

	"github.com/wilhelser/ubiquo/internal/translations"
)

// Record is one locale variant of a content group.
type Record = translations.Record

// Resolver answers locale and content-group queries.
type Resolver = translations.Resolver

// RecordRepository is the read/write store contract.
type RecordRepository = translations.RecordRepository

type (
	LocaleItem           = translations.LocaleItem
	LocaleSelector       = translations.LocaleSelector
	ContentSelector      = translations.ContentSelector
	Query                = translations.Query
	InvalidSelectorError = translations.InvalidSelectorError
	StoreError           = translations.StoreError
	NotFoundError        = translations.NotFoundError
)

var (
	ErrInvalidSelector   = translations.ErrInvalidSelector
	ErrStore             = translations.ErrStore
	ErrNotFound          = translations.ErrNotFound
	ErrDuplicateLocale   = translations.ErrDuplicateLocale
	ErrDuplicateKey      = translations.ErrDuplicateKey
	ErrLookupUnsupported = translations.ErrLookupUnsupported
)

// AllToken is the textual form of the wildcard locale.
const AllToken = translations.AllToken

func Literal(tag string) LocaleItem { return translations.Literal(tag) }

func All() LocaleItem { return translations.All() }

func Locales(items ...LocaleItem) LocaleSelector { return translations.Locales(items...) }

func LocaleTags(tags ...string) LocaleSelector { return translations.LocaleTags(tags...) }

// ParseLocales builds a selector from tokens, mapping AllToken to All().
func ParseLocales(tokens ...string) LocaleSelector { return translations.ParseLocales(tokens...) }

func Groups(ids ...uuid.UUID) ContentSelector { return translations.Groups(ids...) }

// GroupIDsOf returns the distinct group ids of records in first-seen order.
func GroupIDsOf(records []*Record) []uuid.UUID { return translations.GroupIDsOf(records) }

// NewMemoryRecordStore returns an empty in-memory store.
func NewMemoryRecordStore() RecordRepository { return translations.NewMemoryRecordStore() }

// NewResolver builds a resolver over store with default options.
func NewResolver(store translations.RecordStore) Resolver { return translations.NewResolver(store) }
