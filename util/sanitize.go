package util

import (
	"path/filepath"
	"strings"
	"unicode"
)

// SanitizeString replaces control characters (including newlines and tabs)
// with spaces, collapses runs of whitespace and trims the result.
func SanitizeString(s string) string {
	s = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return ' '
		}
		return r
	}, s)
	return strings.Join(strings.Fields(s), " ")
}

// SanitizeFileName keeps only the base name of a client-supplied file name
// and strips control characters. Empty or dot names become "upload".
func SanitizeFileName(name string) string {
	name = strings.ReplaceAll(name, `\`, "/")
	name = SanitizeString(filepath.Base(name))
	if name == "" || name == "." || name == "/" || name == ".." {
		return "upload"
	}
	return name
}

// SanitizeEnvValue cleans an environment variable value by removing surrounding
// quotes and trimming whitespace.
func SanitizeEnvValue(s string) string {
	s = strings.TrimSpace(s)
	// Strip matching surrounding quotes (single or double).
	if len(s) >= 2 {
		if (s[0] == '"' && s[len(s)-1] == '"') || (s[0] == '\'' && s[len(s)-1] == '\'') {
			s = s[1 : len(s)-1]
		}
	}
	return strings.TrimSpace(s)
}
