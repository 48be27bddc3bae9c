package textutil

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var titleCaser = cases.Title(language.AmericanEnglish)

// NormalizeTitle canonicalizes a title for set membership checks:
// lowercased, surrounding whitespace removed, inner whitespace collapsed
// to single spaces. Two titles that normalize equal are treated as the
// same work regardless of formatting.
func NormalizeTitle(title string) string {
	fields := strings.Fields(strings.ToLower(title))
	return strings.Join(fields, " ")
}

// DisplayTitle renders a label in title case for user-facing text
// (e.g. "movie" -> "Movie", "tv show" -> "Tv Show").
func DisplayTitle(label string) string {
	return titleCaser.String(strings.TrimSpace(label))
}

// CollapseSpaces trims a string and collapses internal runs of
// whitespace to single spaces without changing case.
func CollapseSpaces(value string) string {
	return strings.Join(strings.Fields(value), " ")
}
