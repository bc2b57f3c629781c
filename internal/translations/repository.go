package translations

import (
	"context"

	"github.com/google/uuid"
)

// Criteria restricts a store scan. An empty field leaves that dimension
// unconstrained; both empty matches every record.
type Criteria struct {
	Locales []string
	Groups  []uuid.UUID
}

// RecordStore is the read contract the resolver runs against. Every method
// returns records in the store's natural order, which must be stable across
// repeated identical queries absent writes.
type RecordStore interface {
	FindByLocaleSet(ctx context.Context, locales []string) ([]*Record, error)
	FindByContentSet(ctx context.Context, groups []uuid.UUID) ([]*Record, error)
	FindWhere(ctx context.Context, criteria Criteria) ([]*Record, error)
}

// RecordLookup resolves single records through typed accessors.
type RecordLookup interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Record, error)
	GetByKey(ctx context.Context, key string) (*Record, error)
}

// RecordRepository is the full persistence contract implemented by the
// bundled stores. The resolver only needs RecordStore and RecordLookup; the
// write methods serve the creation path.
type RecordRepository interface {
	RecordStore
	RecordLookup
	Create(ctx context.Context, record *Record) (*Record, error)
	Update(ctx context.Context, record *Record) (*Record, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// GroupIDsOf returns the distinct, non-nil group ids of records in order of
// first appearance.
func GroupIDsOf(records []*Record) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(records))
	out := make([]uuid.UUID, 0, len(records))
	for _, rec := range records {
		if !rec.Linked() {
			continue
		}
		if _, ok := seen[rec.GroupID]; ok {
			continue
		}
		seen[rec.GroupID] = struct{}{}
		out = append(out, rec.GroupID)
	}
	return out
}
