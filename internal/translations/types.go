package translations

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Record is one locale variant of a content group. Records sharing a GroupID
// are translations of each other.
type Record struct {
	bun.BaseModel `bun:"table:localized_records,alias:lr"`

	ID        uuid.UUID      `bun:",pk,type:uuid"                                  json:"id"`
	GroupID   uuid.UUID      `bun:"content_group_id,type:uuid,nullzero"            json:"content_group_id"`
	Locale    string         `bun:"locale,notnull"                                 json:"locale"`
	Key       string         `bun:"key"                                            json:"key,omitempty"`
	Position  int64          `bun:"position,notnull"                               json:"position"`
	Fields    map[string]any `bun:"fields,type:jsonb"                              json:"fields,omitempty"`
	CreatedAt time.Time      `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt time.Time      `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`
}

// Linked reports whether the record belongs to a content group.
func (r *Record) Linked() bool {
	return r != nil && r.GroupID != uuid.Nil
}

func cloneRecord(src *Record) *Record {
	if src == nil {
		return nil
	}
	copied := *src
	copied.Fields = cloneFields(src.Fields)
	return &copied
}

func cloneFields(src map[string]any) map[string]any {
	if src == nil {
		return nil
	}
	out := make(map[string]any, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}
