package validator

import (
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
)

// htmlEscaper escapes the characters that are significant in HTML, quotes
// included, using the same entity forms browsers and most templating
// engines emit.
var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	`"`, "&quot;",
	"'", "&#039;",
	"<", "&lt;",
	">", "&gt;",
)

// SanitizeString trims surrounding whitespace from s and escapes HTML
// special characters. A nil pointer is returned unchanged; a string that is
// not valid UTF-8 becomes empty.
func SanitizeString(s *string) *string {
	if s == nil {
		return nil
	}
	if !utf8.ValidString(*s) {
		empty := ""
		return &empty
	}
	clean := htmlEscaper.Replace(strings.TrimSpace(*s))
	return &clean
}

// SanitizeFields replaces every string value stored under one of keys with
// its sanitized form. Missing keys and non-string values are left alone so
// that the type rules can still report them.
func SanitizeFields(data map[string]any, keys ...string) {
	for _, key := range keys {
		s, ok := data[key].(string)
		if !ok {
			continue
		}
		data[key] = *SanitizeString(&s)
	}
}

// IsValidUUID reports whether s is a UUID version 4 in its canonical
// 8-4-4-4-12 hexadecimal form (RFC 4122 variant), in any letter case.
func IsValidUUID(s string) bool {
	if len(s) != 36 {
		return false
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return false
	}
	return id.Version() == 4 && id.Variant() == uuid.RFC4122
}
