package validation

import (
	"errors"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// MaxNameLength is the longest file or tag name accepted, in characters
const MaxNameLength = 255

// NormalizeName trims a file or tag name and converts it to NFC so that
// visually identical names compare equal.
func NormalizeName(name string) (string, error) {
	normalized := norm.NFC.String(strings.TrimSpace(name))

	if normalized == "" {
		return "", errors.New("name is required")
	}

	if utf8.RuneCountInString(normalized) > MaxNameLength {
		return "", errors.New("name is too long (max 255 characters)")
	}

	for _, r := range normalized {
		if unicode.IsControl(r) {
			return "", errors.New("name must not contain control characters")
		}
	}

	return normalized, nil
}

// NormalizeQuery prepares free-text search input the same way names are stored
func NormalizeQuery(query string) string {
	return norm.NFC.String(strings.TrimSpace(query))
}
