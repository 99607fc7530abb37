package util

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Capitalize upper-cases the first letter and lower-cases the rest, so "BIKE" and "bike" both become "Bike"
func Capitalize(s string) string {
	if s == "" {
		return s
	}

	first, size := utf8.DecodeRuneInString(s)

	return string(unicode.ToUpper(first)) + strings.ToLower(s[size:])
}

func MaskSecret(s string) string {
	if s == "" {
		return ""
	}

	if len(s) <= 4 {
		return strings.Repeat("*", len(s))
	}

	return s[:2] + strings.Repeat("*", len(s)-4) + s[len(s)-2:]
}
