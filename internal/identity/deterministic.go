package identity

import (
	"strings"

	hashid "github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
)

const namespace = "ubiquo:"

// UUID derives a deterministic UUID from a stable key using go-hashid.
//
// Callers must prefix keys by entity type so ids never collide across domains.
func UUID(key string) uuid.UUID {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return uuid.Nil
	}
	uid, err := hashid.NewUUID(trimmed, hashid.WithHashAlgorithm(hashid.SHA256), hashid.WithNormalization(true))
	if err != nil || uid == uuid.Nil {
		return uuid.NewSHA1(uuid.NameSpaceOID, []byte(trimmed))
	}
	return uid
}

// GroupUUID returns the content group id for a stable group code.
func GroupUUID(code string) uuid.UUID {
	code = strings.ToLower(strings.TrimSpace(code))
	if code == "" {
		return uuid.Nil
	}
	return UUID(namespace + "content_group:" + code)
}

// RecordUUID returns the id of the variant of groupID in locale. A group holds
// one variant per locale, so the pair is a stable identity.
func RecordUUID(groupID uuid.UUID, locale string) uuid.UUID {
	locale = strings.TrimSpace(locale)
	if groupID == uuid.Nil || locale == "" {
		return uuid.Nil
	}
	return UUID(namespace + "record:" + groupID.String() + ":" + locale)
}
