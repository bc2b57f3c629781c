package testsupport

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/google/uuid"

	"github.com/wilhelser/ubiquo/internal/identity"
	"github.com/wilhelser/ubiquo/internal/translations"
)

// Variant names one locale variant of a content group by group code.
type Variant struct {
	Group  string         `json:"group"`
	Locale string         `json:"locale"`
	Key    string         `json:"key,omitempty"`
	Fields map[string]any `json:"fields,omitempty"`
}

// ScenarioVariants is the reference store used across resolver tests:
// g1 in es, ca, de; g2 in es, en; g3 in en.
func ScenarioVariants() []Variant {
	return []Variant{
		{Group: "g1", Locale: "es"},
		{Group: "g1", Locale: "ca"},
		{Group: "g1", Locale: "de"},
		{Group: "g2", Locale: "es"},
		{Group: "g2", Locale: "en"},
		{Group: "g3", Locale: "en"},
	}
}

// GroupID returns the deterministic content group id for a group code.
func GroupID(code string) uuid.UUID {
	return identity.GroupUUID(code)
}

// Seed creates variants in order. A blank Group creates an unlinked record.
func Seed(ctx context.Context, repo translations.RecordRepository, variants ...Variant) ([]*translations.Record, error) {
	out := make([]*translations.Record, 0, len(variants))
	for _, v := range variants {
		created, err := repo.Create(ctx, &translations.Record{
			GroupID: identity.GroupUUID(v.Group),
			Locale:  v.Locale,
			Key:     v.Key,
			Fields:  v.Fields,
		})
		if err != nil {
			return nil, fmt.Errorf("seed %s/%s: %w", v.Group, v.Locale, err)
		}
		out = append(out, created)
	}
	return out, nil
}

// MustSeed is Seed for tests.
func MustSeed(t interface {
	Helper()
	Fatalf(string, ...any)
}, repo translations.RecordRepository, variants ...Variant) []*translations.Record {
	t.Helper()
	records, err := Seed(context.Background(), repo, variants...)
	if err != nil {
		t.Fatalf("%v", err)
	}
	return records
}

// LoadVariants reads a JSON array of variants from path.
func LoadVariants(path string) ([]Variant, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var variants []Variant
	if err := json.Unmarshal(data, &variants); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return variants, nil
}

// Labels renders records as "group/locale" using codes, for readable diffs.
func Labels(records []*translations.Record, codes ...string) []string {
	names := make(map[uuid.UUID]string, len(codes))
	for _, code := range codes {
		names[identity.GroupUUID(code)] = code
	}
	out := make([]string, 0, len(records))
	for _, rec := range records {
		name, ok := names[rec.GroupID]
		if !ok {
			name = "-"
		}
		out = append(out, name+"/"+rec.Locale)
	}
	return out
}
