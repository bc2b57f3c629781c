package translations

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidSelector = errors.New("translations: invalid selector")
	ErrStore           = errors.New("translations: store failure")
	ErrNotFound        = errors.New("translations: record not found")
	ErrRecordRequired  = errors.New("translations: record is required")
	ErrLocaleRequired  = errors.New("translations: locale is required")
	ErrDuplicateLocale = errors.New("translations: content group already has a variant for locale")
	ErrDuplicateID     = errors.New("translations: record id already exists")
	ErrDuplicateKey    = errors.New("translations: record key already exists")
	ErrKeyInvalid      = errors.New("translations: record key is invalid")
)

// Selector kinds reported by InvalidSelectorError.
const (
	SelectorLocale  = "locale"
	SelectorContent = "content"
	SelectorRecord  = "record"
	SelectorQuery   = "query"
)

// InvalidSelectorError reports a selector that carries no usable criteria.
type InvalidSelectorError struct {
	Kind   string
	Reason string
	Value  string
}

func (e *InvalidSelectorError) Error() string {
	if e == nil {
		return ErrInvalidSelector.Error()
	}
	var b strings.Builder
	b.WriteString(ErrInvalidSelector.Error())
	if e.Kind != "" {
		b.WriteString(": ")
		b.WriteString(e.Kind)
	}
	if e.Reason != "" {
		b.WriteString(": ")
		b.WriteString(e.Reason)
	}
	if e.Value != "" {
		fmt.Fprintf(&b, " (%q)", e.Value)
	}
	return b.String()
}

func (e *InvalidSelectorError) Unwrap() error {
	return ErrInvalidSelector
}

func invalidSelector(kind, reason string) error {
	return &InvalidSelectorError{Kind: kind, Reason: reason}
}

// StoreError wraps failures raised by a record store. The resolver never
// rewraps it.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	if e == nil || e.Err == nil {
		return ErrStore.Error()
	}
	if e.Op == "" {
		return fmt.Sprintf("%s: %v", ErrStore.Error(), e.Err)
	}
	return fmt.Sprintf("%s: %s: %v", ErrStore.Error(), e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is lets errors.Is(err, ErrStore) match any StoreError.
func (e *StoreError) Is(target error) bool {
	return target == ErrStore
}

func storeError(op string, err error) error {
	if err == nil {
		return nil
	}
	var existing *StoreError
	if errors.As(err, &existing) {
		return err
	}
	return &StoreError{Op: op, Err: err}
}

// NotFoundError is returned by the typed lookups when no record matches.
type NotFoundError struct {
	Resource string
	Key      string
}

func (e *NotFoundError) Error() string {
	if e == nil {
		return ErrNotFound.Error()
	}
	resource := e.Resource
	if resource == "" {
		resource = "record"
	}
	return fmt.Sprintf("translations: %s %q not found", resource, e.Key)
}

func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}
