package textutil_test

import (
	"testing"

	"flickvault/internal/textutil"
)

func TestNormalizeTitle(t *testing.T) {
	cases := map[string]string{
		"  The  Matrix ":  "the matrix",
		"DUNE":            "dune",
		"Blade\tRunner":   "blade runner",
		"":                "",
		"  \n  ":          "",
		"Spirited   Away": "spirited away",
	}
	for input, want := range cases {
		if got := textutil.NormalizeTitle(input); got != want {
			t.Errorf("NormalizeTitle(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestNormalizeTitleEquivalence(t *testing.T) {
	if textutil.NormalizeTitle("The Matrix") != textutil.NormalizeTitle("  the   MATRIX ") {
		t.Fatal("expected formatting variants to normalize equal")
	}
}

func TestDisplayTitle(t *testing.T) {
	if got := textutil.DisplayTitle("movie"); got != "Movie" {
		t.Fatalf("DisplayTitle(movie) = %q", got)
	}
	if got := textutil.DisplayTitle(" tv show "); got != "Tv Show" {
		t.Fatalf("DisplayTitle(tv show) = %q", got)
	}
}

func TestCollapseSpaces(t *testing.T) {
	if got := textutil.CollapseSpaces("  a  b \t c "); got != "a b c" {
		t.Fatalf("CollapseSpaces = %q", got)
	}
}
