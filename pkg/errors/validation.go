package errors

import (
	"strings"
	"unicode"
)

const maxNameLength = 256

// ValidateArtistName validates a free-text artist search term.
// It rejects blank names so that no upstream call is made for them.
//
// The validation rules are intentionally conservative:
//   - No empty or whitespace-only names
//   - No control characters
//   - Maximum length of 256 characters
func ValidateArtistName(name string) error {
	if strings.TrimSpace(name) == "" {
		return New(ErrCodeInvalidInput, "artist name cannot be empty")
	}

	if len(name) > maxNameLength {
		return New(ErrCodeInvalidInput, "artist name too long (max %d characters)", maxNameLength)
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "artist name contains invalid control characters")
		}
	}

	return nil
}

// ValidateID validates an upstream catalog identifier.
// Catalog ids are positive decimal integers; anything else could be used to
// rewrite the upstream request path.
func ValidateID(kind, id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "%s id cannot be empty", kind)
	}
	if len(id) > 20 {
		return New(ErrCodeInvalidInput, "%s id too long", kind)
	}
	for _, r := range id {
		if r < '0' || r > '9' {
			return New(ErrCodeInvalidInput, "invalid %s id: %q", kind, id)
		}
	}
	if strings.TrimLeft(id, "0") == "" {
		return New(ErrCodeInvalidInput, "invalid %s id: %q", kind, id)
	}
	return nil
}

// ValidateNodeID validates a graph node identifier received from a client.
func ValidateNodeID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "node id cannot be empty")
	}
	if len(id) > maxNameLength {
		return New(ErrCodeInvalidInput, "node id too long (max %d characters)", maxNameLength)
	}
	for _, r := range id {
		if unicode.IsControl(r) || r == '/' || r == '\\' {
			return New(ErrCodeInvalidInput, "node id contains invalid characters")
		}
	}
	return nil
}
