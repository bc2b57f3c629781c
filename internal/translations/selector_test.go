package translations

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
)

func TestParseLocalesRecognisesWildcards(t *testing.T) {
	selector := ParseLocales(" ca ", "all", "*", "en")

	if !selector.HasAll() {
		t.Fatal("expected wildcard to be detected")
	}
	if diff := cmp.Diff([]string{"ca", "en"}, selector.Literals()); diff != "" {
		t.Fatalf("unexpected literals (-want +got):\n%s", diff)
	}
	if got := selector.String(); got != "ca,ALL,ALL,en" {
		t.Fatalf("unexpected string form %q", got)
	}
}

func TestLocaleSelectorRankUsesFirstOccurrence(t *testing.T) {
	selector := LocaleTags("en", "es", "en", "ca")
	want := map[string]int{"en": 0, "es": 1, "ca": 2}
	if diff := cmp.Diff(want, selector.rank()); diff != "" {
		t.Fatalf("unexpected rank (-want +got):\n%s", diff)
	}
}

func TestLocaleSelectorValidate(t *testing.T) {
	cases := []struct {
		name     string
		selector LocaleSelector
		wantErr  bool
	}{
		{name: "empty", selector: LocaleTags(), wantErr: true},
		{name: "blank tag", selector: LocaleTags("  "), wantErr: true},
		{name: "malformed tag", selector: LocaleTags("en_US!"), wantErr: true},
		{name: "wildcard only", selector: Locales(All())},
		{name: "literals", selector: LocaleTags("es", "ca-ES", "zh-Hant")},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.selector.Validate()
			if tc.wantErr {
				if !errors.Is(err, ErrInvalidSelector) {
					t.Fatalf("expected ErrInvalidSelector, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestLocaleSelectorCanonical(t *testing.T) {
	selector := Locales(Literal("EN-us"), All(), Literal("not a tag"))
	got := selector.Canonical()
	if got.String() != "en-US,ALL,not a tag" {
		t.Fatalf("unexpected canonical selector %q", got.String())
	}
	if selector.String() != "EN-us,ALL,not a tag" {
		t.Fatalf("expected Canonical to leave the receiver untouched, got %q", selector.String())
	}
}

func TestLocaleSelectorItemsIsACopy(t *testing.T) {
	selector := LocaleTags("es")
	items := selector.Items()
	items[0] = All()
	if selector.HasAll() {
		t.Fatal("expected Items to return a copy")
	}
}

func TestContentSelector(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	selector := Groups(b, a, b)

	if diff := cmp.Diff([]uuid.UUID{b, a}, selector.IDs()); diff != "" {
		t.Fatalf("unexpected ids (-want +got):\n%s", diff)
	}
	if err := selector.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var invalid *InvalidSelectorError
	if err := Groups().Validate(); !errors.As(err, &invalid) || invalid.Kind != SelectorContent {
		t.Fatalf("expected content selector error, got %v", err)
	}
	if err := Groups(a, uuid.Nil).Validate(); !errors.Is(err, ErrInvalidSelector) {
		t.Fatalf("expected nil id to be rejected, got %v", err)
	}
}

func TestInvalidSelectorErrorMessage(t *testing.T) {
	err := &InvalidSelectorError{Kind: SelectorLocale, Reason: "bad tag", Value: "x!"}
	want := `translations: invalid selector: locale: bad tag ("x!")`
	if err.Error() != want {
		t.Fatalf("unexpected message\nwant: %s\ngot:  %s", want, err.Error())
	}
}

func TestStoreErrorDoesNotDoubleWrap(t *testing.T) {
	inner := &StoreError{Op: "find", Err: errors.New("boom")}
	if got := storeError("scan", inner); got != inner {
		t.Fatalf("expected existing StoreError to be returned, got %v", got)
	}
	wrapped := storeError("scan", errors.New("boom"))
	if !errors.Is(wrapped, ErrStore) {
		t.Fatalf("expected ErrStore match, got %v", wrapped)
	}
	if storeError("scan", nil) != nil {
		t.Fatal("expected nil for nil error")
	}
}

func TestArrangeGroupsPutsLiteralsFirst(t *testing.T) {
	g1, g2 := uuid.New(), uuid.New()
	records := []*Record{
		{ID: uuid.New(), GroupID: g1, Locale: "es"},
		{ID: uuid.New(), GroupID: g2, Locale: "de"},
		{ID: uuid.New(), GroupID: g1, Locale: "ca"},
		nil,
		{ID: uuid.New(), GroupID: g1, Locale: "en"},
		{ID: uuid.New(), GroupID: g2, Locale: "en"},
	}

	got := arrangeGroups(records, map[string]int{"en": 0, "ca": 1})
	locales := make([]string, len(got))
	for i, rec := range got {
		locales[i] = rec.Locale
	}
	if diff := cmp.Diff([]string{"en", "ca", "es", "en", "de"}, locales); diff != "" {
		t.Fatalf("unexpected order (-want +got):\n%s", diff)
	}
}

func TestGroupIDsOfSkipsUnlinked(t *testing.T) {
	g1, g2 := uuid.New(), uuid.New()
	records := []*Record{
		{GroupID: g2},
		{GroupID: uuid.Nil},
		nil,
		{GroupID: g1},
		{GroupID: g2},
	}
	if diff := cmp.Diff([]uuid.UUID{g2, g1}, GroupIDsOf(records)); diff != "" {
		t.Fatalf("unexpected groups (-want +got):\n%s", diff)
	}
}

func TestNormalizeKey(t *testing.T) {
	got, err := NormalizeKey("  Hola Mundo ")
	if err != nil {
		t.Fatalf("NormalizeKey: %v", err)
	}
	if got != "hola-mundo" {
		t.Fatalf("expected hola-mundo, got %q", got)
	}
	if _, err := NormalizeKey("   "); !errors.Is(err, ErrKeyInvalid) {
		t.Fatalf("expected ErrKeyInvalid, got %v", err)
	}
}
