package translations

import (
	"cmp"
	"context"
	"errors"
	"slices"
	"strings"

	"github.com/google/uuid"
	"github.com/wilhelser/ubiquo/internal/logging"
	"github.com/wilhelser/ubiquo/pkg/interfaces"
)

// ErrLookupUnsupported indicates the configured store cannot resolve records by id or key.
var ErrLookupUnsupported = errors.New("translations: store does not support typed lookups")

// Resolver answers locale and content-group queries over a RecordStore.
type Resolver interface {
	ByLocale(ctx context.Context, locales LocaleSelector) ([]*Record, error)
	ByContent(ctx context.Context, groups ContentSelector) ([]*Record, error)
	Find(ctx context.Context, query Query) ([]*Record, error)
	TranslationsOf(ctx context.Context, record *Record) ([]*Record, error)
	Preferred(ctx context.Context, locales LocaleSelector, groups *ContentSelector) ([]*Record, error)
	AvailableLocales(ctx context.Context, groupID uuid.UUID) ([]string, error)
	FindByID(ctx context.Context, id uuid.UUID) (*Record, error)
	FindByKey(ctx context.Context, key string) (*Record, error)
}

// Query composes a locale filter with a content filter. Nil fields are
// unconstrained but at least one must be set.
type Query struct {
	Locales *LocaleSelector
	Content *ContentSelector
}

// ResolverOption configures the resolver at construction time.
type ResolverOption func(*resolver)

// WithLogger sets the logger used for per-operation debug entries.
func WithLogger(logger interfaces.Logger) ResolverOption {
	return func(r *resolver) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithCanonicalTags rewrites literal tags to their canonical BCP 47 form
// before querying.
func WithCanonicalTags(enabled bool) ResolverOption {
	return func(r *resolver) {
		r.canonical = enabled
	}
}

type resolver struct {
	store     RecordStore
	lookup    RecordLookup
	logger    interfaces.Logger
	canonical bool
}

// NewResolver builds a stateless resolver over store. When store also
// implements RecordLookup the typed lookups are enabled.
func NewResolver(store RecordStore, opts ...ResolverOption) Resolver {
	r := &resolver{
		store:  store,
		logger: logging.NoOp(),
	}
	if lookup, ok := store.(RecordLookup); ok {
		r.lookup = lookup
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *resolver) ByLocale(ctx context.Context, locales LocaleSelector) ([]*Record, error) {
	locales, err := r.prepareLocales(locales)
	if err != nil {
		return nil, err
	}

	var out []*Record
	if locales.HasAll() {
		out, err = r.expand(ctx, locales, nil)
	} else {
		var records []*Record
		records, err = r.store.FindByLocaleSet(ctx, locales.Literals())
		out = sortByLocale(records, locales.rank(), nil)
	}
	if err != nil {
		return nil, err
	}

	r.trace(ctx, "translations.by_locale", locales.String(), 0, "count", len(out))
	return out, nil
}

func (r *resolver) ByContent(ctx context.Context, groups ContentSelector) ([]*Record, error) {
	if err := groups.Validate(); err != nil {
		return nil, err
	}

	records, err := r.store.FindByContentSet(ctx, groups.IDs())
	if err != nil {
		return nil, err
	}
	out := sortByGroup(records, groups.rank())

	r.trace(ctx, "translations.by_content", "", len(groups.IDs()), "count", len(out))
	return out, nil
}

func (r *resolver) Find(ctx context.Context, query Query) ([]*Record, error) {
	switch {
	case query.Locales == nil && query.Content == nil:
		return nil, invalidSelector(SelectorQuery, "a locale or content selector is required")
	case query.Locales == nil:
		return r.ByContent(ctx, *query.Content)
	case query.Content == nil:
		return r.ByLocale(ctx, *query.Locales)
	}

	locales, err := r.prepareLocales(*query.Locales)
	if err != nil {
		return nil, err
	}
	content := *query.Content
	if err := content.Validate(); err != nil {
		return nil, err
	}

	var out []*Record
	if locales.HasAll() {
		out, err = r.expand(ctx, locales, &content)
	} else {
		var records []*Record
		records, err = r.store.FindWhere(ctx, Criteria{
			Locales: locales.Literals(),
			Groups:  content.IDs(),
		})
		out = sortByLocale(records, locales.rank(), content.rank())
	}
	if err != nil {
		return nil, err
	}

	r.trace(ctx, "translations.find", locales.String(), len(content.IDs()), "count", len(out))
	return out, nil
}

func (r *resolver) TranslationsOf(ctx context.Context, record *Record) ([]*Record, error) {
	if record == nil {
		return nil, invalidSelector(SelectorRecord, ErrRecordRequired.Error())
	}
	if !record.Linked() {
		return []*Record{}, nil
	}

	siblings, err := r.store.FindByContentSet(ctx, []uuid.UUID{record.GroupID})
	if err != nil {
		return nil, err
	}

	out := make([]*Record, 0, len(siblings))
	for _, sibling := range siblings {
		if sibling == nil || (record.ID != uuid.Nil && sibling.ID == record.ID) {
			continue
		}
		out = append(out, sibling)
	}

	r.trace(ctx, "translations.siblings", "", 1, "group_id", record.GroupID.String(), "count", len(out))
	return out, nil
}

func (r *resolver) Preferred(ctx context.Context, locales LocaleSelector, groups *ContentSelector) ([]*Record, error) {
	locales, err := r.prepareLocales(locales)
	if err != nil {
		return nil, err
	}

	criteria := Criteria{}
	if groups != nil {
		if err := groups.Validate(); err != nil {
			return nil, err
		}
		criteria.Groups = groups.IDs()
	}
	fallback := locales.HasAll()
	if !fallback {
		criteria.Locales = locales.Literals()
	}

	records, err := r.store.FindWhere(ctx, criteria)
	if err != nil {
		return nil, err
	}

	rank := locales.rank()
	out := make([]*Record, 0)
	for _, bucket := range bucketByGroup(records) {
		var best *Record
		bestRank := len(rank)
		for _, rec := range bucket {
			if pos, ok := rank[rec.Locale]; ok && pos < bestRank {
				best, bestRank = rec, pos
			}
		}
		if best == nil && fallback && len(bucket) > 0 {
			best = bucket[0]
		}
		if best != nil {
			out = append(out, best)
		}
	}

	r.trace(ctx, "translations.preferred", locales.String(), len(criteria.Groups), "count", len(out))
	return out, nil
}

func (r *resolver) AvailableLocales(ctx context.Context, groupID uuid.UUID) ([]string, error) {
	if groupID == uuid.Nil {
		return nil, invalidSelector(SelectorContent, "content group id cannot be nil")
	}
	records, err := r.store.FindByContentSet(ctx, []uuid.UUID{groupID})
	if err != nil {
		return nil, err
	}
	seen := make(map[string]struct{}, len(records))
	out := make([]string, 0, len(records))
	for _, rec := range records {
		if _, ok := seen[rec.Locale]; ok {
			continue
		}
		seen[rec.Locale] = struct{}{}
		out = append(out, rec.Locale)
	}
	return out, nil
}

func (r *resolver) FindByID(ctx context.Context, id uuid.UUID) (*Record, error) {
	if r.lookup == nil {
		return nil, ErrLookupUnsupported
	}
	if id == uuid.Nil {
		return nil, invalidSelector(SelectorRecord, "record id cannot be nil")
	}
	return r.lookup.GetByID(ctx, id)
}

func (r *resolver) FindByKey(ctx context.Context, key string) (*Record, error) {
	if r.lookup == nil {
		return nil, ErrLookupUnsupported
	}
	if strings.TrimSpace(key) == "" {
		return nil, invalidSelector(SelectorRecord, "record key cannot be blank")
	}
	return r.lookup.GetByKey(ctx, key)
}

func (r *resolver) prepareLocales(locales LocaleSelector) (LocaleSelector, error) {
	if r.canonical {
		locales = locales.Canonical()
	}
	if err := locales.Validate(); err != nil {
		return LocaleSelector{}, err
	}
	return locales, nil
}

// expand resolves a wildcard selector: the groups matched by any literal (or
// every group in scope when only ALL was given) contribute all their variants.
func (r *resolver) expand(ctx context.Context, locales LocaleSelector, content *ContentSelector) ([]*Record, error) {
	literals := locales.Literals()
	rank := locales.rank()

	if len(literals) == 0 {
		if content == nil {
			records, err := r.store.FindWhere(ctx, Criteria{})
			if err != nil {
				return nil, err
			}
			return arrangeGroups(records, rank), nil
		}
		records, err := r.store.FindByContentSet(ctx, content.IDs())
		if err != nil {
			return nil, err
		}
		return arrangeGroups(records, rank), nil
	}

	criteria := Criteria{Locales: literals}
	if content != nil {
		criteria.Groups = content.IDs()
	}
	matched, err := r.store.FindWhere(ctx, criteria)
	if err != nil {
		return nil, err
	}

	// Unlinked matches have no siblings to fetch; they stay as singleton groups.
	unlinked := make([]*Record, 0)
	for _, rec := range matched {
		if rec != nil && !rec.Linked() {
			unlinked = append(unlinked, rec)
		}
	}
	groups := GroupIDsOf(matched)
	if len(groups) == 0 {
		return arrangeGroups(unlinked, rank), nil
	}

	variants, err := r.store.FindByContentSet(ctx, groups)
	if err != nil {
		return nil, err
	}
	return arrangeGroups(mergeByPosition(compact(variants), unlinked), rank), nil
}

func (r *resolver) trace(ctx context.Context, msg, locales string, groups int, args ...any) {
	logging.WithSelector(r.logger.WithContext(ctx), locales, groups).Debug(msg, args...)
}

// sortByLocale orders records by literal rank, then by group rank when given.
// The sort is stable so store order breaks the remaining ties.
func sortByLocale(records []*Record, locales map[string]int, groups map[uuid.UUID]int) []*Record {
	out := compact(records)
	slices.SortStableFunc(out, func(a, b *Record) int {
		if c := cmp.Compare(locales[a.Locale], locales[b.Locale]); c != 0 {
			return c
		}
		if groups == nil {
			return 0
		}
		return cmp.Compare(groups[a.GroupID], groups[b.GroupID])
	})
	return out
}

func sortByGroup(records []*Record, groups map[uuid.UUID]int) []*Record {
	out := compact(records)
	slices.SortStableFunc(out, func(a, b *Record) int {
		return cmp.Compare(groups[a.GroupID], groups[b.GroupID])
	})
	return out
}

// arrangeGroups emits records group by group in order of first appearance.
// Inside a group, literal locales come first in literal order, followed by
// the other variants in store order.
func arrangeGroups(records []*Record, locales map[string]int) []*Record {
	out := make([]*Record, 0, len(records))
	for _, bucket := range bucketByGroup(records) {
		head := make([]*Record, 0, len(bucket))
		tail := make([]*Record, 0, len(bucket))
		for _, rec := range bucket {
			if _, ok := locales[rec.Locale]; ok {
				head = append(head, rec)
			} else {
				tail = append(tail, rec)
			}
		}
		slices.SortStableFunc(head, func(a, b *Record) int {
			return cmp.Compare(locales[a.Locale], locales[b.Locale])
		})
		out = append(out, head...)
		out = append(out, tail...)
	}
	return out
}

// bucketByGroup splits records by content group keeping first-appearance
// order. Unlinked records form a bucket of their own.
func bucketByGroup(records []*Record) [][]*Record {
	index := make(map[uuid.UUID]int)
	var buckets [][]*Record
	for _, rec := range records {
		if rec == nil {
			continue
		}
		key := rec.GroupID
		if !rec.Linked() {
			key = rec.ID
		}
		pos, ok := index[key]
		if !ok || key == uuid.Nil {
			index[key] = len(buckets)
			buckets = append(buckets, []*Record{rec})
			continue
		}
		buckets[pos] = append(buckets[pos], rec)
	}
	return buckets
}

// mergeByPosition merges two slices already in natural order.
func mergeByPosition(a, b []*Record) []*Record {
	out := make([]*Record, 0, len(a)+len(b))
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		if b[j].Position < a[i].Position {
			out = append(out, b[j])
			j++
			continue
		}
		out = append(out, a[i])
		i++
	}
	out = append(out, a[i:]...)
	return append(out, b[j:]...)
}

func compact(records []*Record) []*Record {
	out := make([]*Record, 0, len(records))
	for _, rec := range records {
		if rec != nil {
			out = append(out, rec)
		}
	}
	return out
}
