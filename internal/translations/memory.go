package translations

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/wilhelser/ubiquo/internal/identity"
)

// MemoryRecordStore is an in-memory RecordRepository for tests and embedded use.
// Natural order is creation order.
type MemoryRecordStore struct {
	mu       sync.RWMutex
	records  map[uuid.UUID]*Record
	keyIndex map[string]uuid.UUID
	next     int64
	now      func() time.Time
}

var _ RecordRepository = (*MemoryRecordStore)(nil)

// MemoryOption configures the in-memory store.
type MemoryOption func(*MemoryRecordStore)

// WithMemoryClock overrides the clock used to stamp records.
func WithMemoryClock(clock func() time.Time) MemoryOption {
	return func(m *MemoryRecordStore) {
		if clock != nil {
			m.now = clock
		}
	}
}

// NewMemoryRecordStore creates an empty store.
func NewMemoryRecordStore(opts ...MemoryOption) *MemoryRecordStore {
	m := &MemoryRecordStore{
		records:  make(map[uuid.UUID]*Record),
		keyIndex: make(map[string]uuid.UUID),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Create stores a copy of record, assigning id, position and timestamps.
func (m *MemoryRecordStore) Create(_ context.Context, record *Record) (*Record, error) {
	if record == nil {
		return nil, ErrRecordRequired
	}
	copied, err := prepareRecord(record)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.checkUniqueLocked(copied); err != nil {
		return nil, err
	}
	if copied.ID == uuid.Nil {
		id, err := newRecordID(copied, func(id uuid.UUID) (bool, error) {
			_, taken := m.records[id]
			return taken, nil
		})
		if err != nil {
			return nil, err
		}
		copied.ID = id
	} else if _, exists := m.records[copied.ID]; exists {
		return nil, ErrDuplicateID
	}

	m.next++
	copied.Position = m.next
	now := m.now().UTC()
	copied.CreatedAt = now
	copied.UpdatedAt = now

	m.records[copied.ID] = copied
	if copied.Key != "" {
		m.keyIndex[copied.Key] = copied.ID
	}
	return cloneRecord(copied), nil
}

// Update replaces the mutable fields of an existing record.
func (m *MemoryRecordStore) Update(_ context.Context, record *Record) (*Record, error) {
	if record == nil {
		return nil, ErrRecordRequired
	}
	copied, err := prepareRecord(record)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.records[record.ID]
	if !ok || record.ID == uuid.Nil {
		return nil, &NotFoundError{Resource: "record", Key: record.ID.String()}
	}
	if err := m.checkUniqueLocked(copied); err != nil {
		return nil, err
	}

	copied.ID = existing.ID
	copied.Position = existing.Position
	copied.CreatedAt = existing.CreatedAt
	copied.UpdatedAt = m.now().UTC()

	if existing.Key != "" {
		delete(m.keyIndex, existing.Key)
	}
	if copied.Key != "" {
		m.keyIndex[copied.Key] = copied.ID
	}
	m.records[copied.ID] = copied
	return cloneRecord(copied), nil
}

// Delete removes a record.
func (m *MemoryRecordStore) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.records[id]
	if !ok {
		return &NotFoundError{Resource: "record", Key: id.String()}
	}
	if existing.Key != "" {
		delete(m.keyIndex, existing.Key)
	}
	delete(m.records, id)
	return nil
}

// GetByID retrieves a record by identifier.
func (m *MemoryRecordStore) GetByID(_ context.Context, id uuid.UUID) (*Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rec, ok := m.records[id]
	if !ok {
		return nil, &NotFoundError{Resource: "record", Key: id.String()}
	}
	return cloneRecord(rec), nil
}

// GetByKey retrieves a record by its slug key.
func (m *MemoryRecordStore) GetByKey(_ context.Context, key string) (*Record, error) {
	normalized, err := normalizeKey(key)
	if err != nil {
		return nil, &NotFoundError{Resource: "record", Key: key}
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	id, ok := m.keyIndex[normalized]
	if !ok {
		return nil, &NotFoundError{Resource: "record", Key: key}
	}
	return cloneRecord(m.records[id]), nil
}

func (m *MemoryRecordStore) FindByLocaleSet(ctx context.Context, locales []string) ([]*Record, error) {
	if len(locales) == 0 {
		return []*Record{}, nil
	}
	return m.FindWhere(ctx, Criteria{Locales: locales})
}

func (m *MemoryRecordStore) FindByContentSet(ctx context.Context, groups []uuid.UUID) ([]*Record, error) {
	if len(groups) == 0 {
		return []*Record{}, nil
	}
	return m.FindWhere(ctx, Criteria{Groups: groups})
}

func (m *MemoryRecordStore) FindWhere(ctx context.Context, criteria Criteria) ([]*Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, storeError("find", err)
	}

	locales := toSet(criteria.Locales)
	groups := toSet(criteria.Groups)

	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*Record, 0, len(m.records))
	for _, rec := range m.records {
		if locales != nil {
			if _, ok := locales[rec.Locale]; !ok {
				continue
			}
		}
		if groups != nil {
			if _, ok := groups[rec.GroupID]; !ok {
				continue
			}
		}
		out = append(out, cloneRecord(rec))
	}
	slices.SortFunc(out, func(a, b *Record) int {
		switch {
		case a.Position < b.Position:
			return -1
		case a.Position > b.Position:
			return 1
		default:
			return 0
		}
	})
	return out, nil
}

// checkUniqueLocked enforces one variant per locale per group and unique
// keys. Callers hold mu.
func (m *MemoryRecordStore) checkUniqueLocked(candidate *Record) error {
	if candidate.Key != "" {
		if id, ok := m.keyIndex[candidate.Key]; ok && id != candidate.ID {
			return ErrDuplicateKey
		}
	}
	if !candidate.Linked() {
		return nil
	}
	for id, rec := range m.records {
		if id == candidate.ID {
			continue
		}
		if rec.GroupID == candidate.GroupID && rec.Locale == candidate.Locale {
			return ErrDuplicateLocale
		}
	}
	return nil
}

// prepareRecord validates and normalizes a record before it is written.
func prepareRecord(record *Record) (*Record, error) {
	copied := cloneRecord(record)
	copied.Locale = strings.TrimSpace(copied.Locale)
	if copied.Locale == "" {
		return nil, ErrLocaleRequired
	}
	if strings.TrimSpace(copied.Key) != "" {
		key, err := normalizeKey(copied.Key)
		if err != nil {
			return nil, err
		}
		copied.Key = key
	}
	return copied, nil
}

// newRecordID derives the id of a new linked record from its group and
// locale. A variant moved to another locale keeps its id, so when the derived
// id is already taken a random one is used instead.
func newRecordID(record *Record, taken func(uuid.UUID) (bool, error)) (uuid.UUID, error) {
	if !record.Linked() {
		return uuid.New(), nil
	}
	id := identity.RecordUUID(record.GroupID, record.Locale)
	used, err := taken(id)
	if err != nil {
		return uuid.Nil, err
	}
	if used {
		return uuid.New(), nil
	}
	return id, nil
}

func toSet[T comparable](values []T) map[T]struct{} {
	if len(values) == 0 {
		return nil
	}
	out := make(map[T]struct{}, len(values))
	for _, v := range values {
		out[v] = struct{}{}
	}
	return out
}
