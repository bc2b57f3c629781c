package queries

import (
	"errors"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	command "github.com/goliatone/go-command"
	"github.com/google/uuid"
)

const (
	RecordsByLocaleType  = "translations.records.by_locale"
	RecordsByContentType = "translations.records.by_content"
	TranslationsOfType   = "translations.records.translations_of"
	AvailableLocalesType = "translations.groups.available_locales"
)

// RecordsByLocale asks for records matching a locale selector. Locales are
// raw tokens; "ALL" and "*" select the wildcard. Groups, when set, narrow
// the result to those content groups. Preferred returns one variant per
// group instead of every match.
type RecordsByLocale struct {
	Locales   []string    `json:"locales"`
	Groups    []uuid.UUID `json:"groups,omitempty"`
	Preferred bool        `json:"preferred,omitempty"`
}

var _ command.Message = RecordsByLocale{}

func (RecordsByLocale) Type() string { return RecordsByLocaleType }

func (m RecordsByLocale) Validate() error {
	return validation.ValidateStruct(&m,
		validation.Field(&m.Locales, validation.Required, validation.By(noBlankTokens)),
		validation.Field(&m.Groups, validation.By(noNilGroups)),
	)
}

// RecordsByContent asks for every variant of the listed content groups.
type RecordsByContent struct {
	Groups []uuid.UUID `json:"groups"`
}

var _ command.Message = RecordsByContent{}

func (RecordsByContent) Type() string { return RecordsByContentType }

func (m RecordsByContent) Validate() error {
	return validation.ValidateStruct(&m,
		validation.Field(&m.Groups, validation.Required, validation.By(noNilGroups)),
	)
}

// TranslationsOf asks for the other-locale variants of one record, named by
// id or key.
type TranslationsOf struct {
	RecordID uuid.UUID `json:"record_id,omitempty"`
	Key      string    `json:"key,omitempty"`
}

var _ command.Message = TranslationsOf{}

func (TranslationsOf) Type() string { return TranslationsOfType }

func (m TranslationsOf) Validate() error {
	if m.RecordID == uuid.Nil && strings.TrimSpace(m.Key) == "" {
		return errors.New("record_id or key is required")
	}
	return nil
}

// AvailableLocales asks for the locales a content group has variants in.
type AvailableLocales struct {
	GroupID uuid.UUID `json:"group_id"`
}

var _ command.Message = AvailableLocales{}

func (AvailableLocales) Type() string { return AvailableLocalesType }

func (m AvailableLocales) Validate() error {
	return validation.ValidateStruct(&m,
		validation.Field(&m.GroupID, validation.By(notNilGroup)),
	)
}

func noBlankTokens(value any) error {
	tokens, _ := value.([]string)
	for _, token := range tokens {
		if strings.TrimSpace(token) == "" {
			return errors.New("locale tokens cannot be blank")
		}
	}
	return nil
}

func noNilGroups(value any) error {
	groups, _ := value.([]uuid.UUID)
	for _, id := range groups {
		if id == uuid.Nil {
			return errors.New("group ids cannot be nil")
		}
	}
	return nil
}

func notNilGroup(value any) error {
	id, _ := value.(uuid.UUID)
	if id == uuid.Nil {
		return errors.New("group id is required")
	}
	return nil
}
