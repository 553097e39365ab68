package chat

import (
	"regexp"

	"github.com/kbukum/chatkit/errors"
)

// MaxNameLength is the longest accepted tool or participant name.
const MaxNameLength = 64

var (
	invalidNameChars = regexp.MustCompile(`[^a-zA-Z0-9_-]`)
	validName        = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)
)

// NormalizeName replaces every character outside [A-Za-z0-9_-] with '_' and
// truncates to MaxNameLength. Use it for names the model produces.
func NormalizeName(name string) string {
	out := invalidNameChars.ReplaceAllString(name, "_")
	if len(out) > MaxNameLength {
		out = out[:MaxNameLength]
	}
	return out
}

// ValidateName returns name unchanged if it is non-empty, uses only
// [A-Za-z0-9_-] and is at most MaxNameLength long. Use it for configured names.
func ValidateName(name string) (string, error) {
	if !validName.MatchString(name) {
		return "", errors.InvalidName(name, "Only letters, numbers, '_' and '-' are allowed.")
	}
	if len(name) > MaxNameLength {
		return "", errors.InvalidName(name, "Name must be at most 64 characters.")
	}
	return name, nil
}
