package validation

import (
	"errors"
	"strings"
)

// NormalizeColor accepts #RGB or #RRGGBB (case-insensitive) and returns the
// uppercase six-digit form. An empty color yields def.
func NormalizeColor(color, def string) (string, error) {
	color = strings.TrimSpace(color)
	if color == "" {
		return def, nil
	}

	if !strings.HasPrefix(color, "#") {
		return "", errors.New("color must start with #")
	}

	hex := strings.ToUpper(color[1:])
	for _, r := range hex {
		if (r < '0' || r > '9') && (r < 'A' || r > 'F') {
			return "", errors.New("color must be a hex value like #C80000")
		}
	}

	switch len(hex) {
	case 3:
		return "#" + string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]}), nil
	case 6:
		return "#" + hex, nil
	default:
		return "", errors.New("color must be a hex value like #C80000")
	}
}

// MaxDescriptionLength is the longest tag description accepted, in bytes
const MaxDescriptionLength = 1000

func ValidateDescription(description string) error {
	if len(description) > MaxDescriptionLength {
		return errors.New("description is too long (max 1000 characters)")
	}
	return nil
}
