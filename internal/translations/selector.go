package translations

import (
	"errors"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"golang.org/x/text/language"
)

// AllToken is the textual form of the wildcard accepted by ParseLocales.
const AllToken = "ALL"

// LocaleItem is either a literal locale tag or the All wildcard.
type LocaleItem struct {
	tag string
	all bool
}

// Literal returns a selector item for a single locale tag.
func Literal(tag string) LocaleItem {
	return LocaleItem{tag: strings.TrimSpace(tag)}
}

// All returns the wildcard item: every locale present for the matched groups.
func All() LocaleItem {
	return LocaleItem{all: true}
}

// IsAll reports whether the item is the wildcard.
func (i LocaleItem) IsAll() bool { return i.all }

// Tag returns the literal tag, empty for the wildcard.
func (i LocaleItem) Tag() string { return i.tag }

func (i LocaleItem) String() string {
	if i.all {
		return AllToken
	}
	return i.tag
}

// LocaleSelector is an ordered list of requested locales.
type LocaleSelector struct {
	items []LocaleItem
}

// Locales builds a selector from explicit items.
func Locales(items ...LocaleItem) LocaleSelector {
	return LocaleSelector{items: append([]LocaleItem(nil), items...)}
}

// LocaleTags builds a selector made only of literal tags.
func LocaleTags(tags ...string) LocaleSelector {
	items := make([]LocaleItem, 0, len(tags))
	for _, tag := range tags {
		items = append(items, Literal(tag))
	}
	return LocaleSelector{items: items}
}

// ParseLocales builds a selector from raw tokens. "ALL" (any case) and "*"
// map to the wildcard; everything else is a literal tag.
func ParseLocales(tokens ...string) LocaleSelector {
	items := make([]LocaleItem, 0, len(tokens))
	for _, token := range tokens {
		trimmed := strings.TrimSpace(token)
		if trimmed == "*" || strings.EqualFold(trimmed, AllToken) {
			items = append(items, All())
			continue
		}
		items = append(items, Literal(trimmed))
	}
	return LocaleSelector{items: items}
}

// Items returns a copy of the selector items in their given order.
func (s LocaleSelector) Items() []LocaleItem {
	return append([]LocaleItem(nil), s.items...)
}

// IsEmpty reports whether the selector has neither literals nor the wildcard.
func (s LocaleSelector) IsEmpty() bool {
	return len(s.items) == 0
}

// HasAll reports whether the wildcard was requested anywhere in the selector.
func (s LocaleSelector) HasAll() bool {
	for _, item := range s.items {
		if item.all {
			return true
		}
	}
	return false
}

// Literals returns the literal tags in order with repeats removed.
func (s LocaleSelector) Literals() []string {
	seen := make(map[string]struct{}, len(s.items))
	out := make([]string, 0, len(s.items))
	for _, item := range s.items {
		if item.all {
			continue
		}
		if _, ok := seen[item.tag]; ok {
			continue
		}
		seen[item.tag] = struct{}{}
		out = append(out, item.tag)
	}
	return out
}

// Canonical rewrites literal tags into their BCP 47 canonical form.
// Tags that do not parse are kept untouched so Validate can report them.
func (s LocaleSelector) Canonical() LocaleSelector {
	items := make([]LocaleItem, len(s.items))
	for i, item := range s.items {
		if item.all {
			items[i] = item
			continue
		}
		tag, err := language.Parse(item.tag)
		if err != nil {
			items[i] = item
			continue
		}
		items[i] = LocaleItem{tag: tag.String()}
	}
	return LocaleSelector{items: items}
}

// Validate fails with *InvalidSelectorError when the selector is empty or
// carries a malformed tag.
func (s LocaleSelector) Validate() error {
	if s.IsEmpty() {
		return invalidSelector(SelectorLocale, "at least one locale or ALL is required")
	}
	for _, item := range s.items {
		if item.all {
			continue
		}
		if err := validation.Validate(item.tag, validation.Required, validation.By(wellFormedTag)); err != nil {
			return &InvalidSelectorError{Kind: SelectorLocale, Reason: err.Error(), Value: item.tag}
		}
	}
	return nil
}

func (s LocaleSelector) String() string {
	parts := make([]string, len(s.items))
	for i, item := range s.items {
		parts[i] = item.String()
	}
	return strings.Join(parts, ",")
}

func wellFormedTag(value any) error {
	tag, _ := value.(string)
	if _, err := language.Parse(tag); err != nil {
		return errors.New("not a well-formed language tag")
	}
	return nil
}

// rank maps each literal to the position of its first occurrence.
func (s LocaleSelector) rank() map[string]int {
	literals := s.Literals()
	out := make(map[string]int, len(literals))
	for i, tag := range literals {
		out[tag] = i
	}
	return out
}

// ContentSelector is a set of content group ids. The given order drives the
// sequencing of ByContent results.
type ContentSelector struct {
	groups []uuid.UUID
}

// Groups builds a content selector.
func Groups(ids ...uuid.UUID) ContentSelector {
	return ContentSelector{groups: append([]uuid.UUID(nil), ids...)}
}

// IDs returns the group ids in order with repeats removed.
func (s ContentSelector) IDs() []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(s.groups))
	out := make([]uuid.UUID, 0, len(s.groups))
	for _, id := range s.groups {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// IsEmpty reports whether no group was requested.
func (s ContentSelector) IsEmpty() bool {
	return len(s.groups) == 0
}

// Validate fails with *InvalidSelectorError when the set is empty or holds a
// nil group id.
func (s ContentSelector) Validate() error {
	if s.IsEmpty() {
		return invalidSelector(SelectorContent, "at least one content group is required")
	}
	for _, id := range s.groups {
		if id == uuid.Nil {
			return invalidSelector(SelectorContent, "content group id cannot be nil")
		}
	}
	return nil
}

func (s ContentSelector) rank() map[uuid.UUID]int {
	ids := s.IDs()
	out := make(map[uuid.UUID]int, len(ids))
	for i, id := range ids {
		out[id] = i
	}
	return out
}
