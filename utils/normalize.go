package utils

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	whitespaceRun = regexp.MustCompile(`\s+`)
	wordRun       = regexp.MustCompile(`\w\S*`)
)

// FormatText trims s and collapses inner whitespace runs to one space.
func FormatText(s string) string {
	return whitespaceRun.ReplaceAllString(strings.TrimSpace(s), " ")
}

// ToTitleCase upper-cases the first letter of every word and lower-cases the rest.
func ToTitleCase(s string) string {
	return wordRun.ReplaceAllStringFunc(FormatText(s), func(word string) string {
		r, size := utf8.DecodeRuneInString(word)
		return string(unicode.ToUpper(r)) + strings.ToLower(word[size:])
	})
}

// NormalizeCategory produces the lookup key used for categories.
func NormalizeCategory(s string) string {
	return strings.ToLower(FormatText(s))
}

// NormalizeTags trims and lower-cases every tag, dropping empty ones.
func NormalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if t = strings.ToLower(strings.TrimSpace(t)); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// SplitTags accepts the "a, b ,c" form admins type into the tag field.
func SplitTags(raw string) []string {
	return NormalizeTags(strings.Split(raw, ","))
}
