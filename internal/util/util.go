// internal/util/util.go
package util

import (
	"os"
	"strings"
	"unicode/utf8"
)

// TruncatedMarker is appended to file text cut at the per-file character cap.
const TruncatedMarker = "\n... [truncated]"

// WriteFile writes data to a file with 0o644 permissions.
func WriteFile(path string, data []byte) error {
	return os.WriteFile(path, data, 0o644)
}

// RuneLen returns the number of characters in text.
func RuneLen(text string) int {
	return utf8.RuneCountInString(text)
}

// RuneSlice returns the characters of text in [start, end), clamping end to
// the text length. ok is false when start is negative or not before the end
// of the text.
func RuneSlice(text string, start, end int) (string, bool) {
	runes := []rune(text)
	if start < 0 || start >= len(runes) {
		return "", false
	}
	if end > len(runes) {
		end = len(runes)
	}
	if end <= start {
		return "", true
	}
	return string(runes[start:end]), true
}

// TruncateRunes keeps the first maxRunes characters of text and appends
// marker when anything was cut.
func TruncateRunes(text string, maxRunes int, marker string) string {
	if maxRunes < 0 || utf8.RuneCountInString(text) <= maxRunes {
		return text
	}
	runes := []rune(text)
	return string(runes[:maxRunes]) + marker
}

// TruncateToWidth truncates each line of a string to a specified width in runes.
func TruncateToWidth(text string, width int) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if utf8.RuneCountInString(line) > width {
			lines[i] = TruncateRunes(line, width, "…")
		}
	}
	return strings.Join(lines, "\n")
}
