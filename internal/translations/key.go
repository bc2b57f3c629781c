package translations

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-slug"
)

// NormalizeKey applies the slug rules used for record keys.
func NormalizeKey(value string) (string, error) {
	return normalizeKey(value)
}

func normalizeKey(value string) (string, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "", fmt.Errorf("%w: key is blank", ErrKeyInvalid)
	}
	normalized, err := slug.Normalize(trimmed)
	if err != nil || normalized == "" {
		return "", fmt.Errorf("%w: %q", ErrKeyInvalid, value)
	}
	return normalized, nil
}
