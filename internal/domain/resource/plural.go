package resource

import (
	"golang.org/x/text/feature/plural"
	"golang.org/x/text/language"
)

// pluralOrder is the CLDR category order used for suffixes.
var pluralOrder = []struct {
	form plural.Form
	name string
}{
	{plural.Zero, "zero"},
	{plural.One, "one"},
	{plural.Two, "two"},
	{plural.Few, "few"},
	{plural.Many, "many"},
	{plural.Other, "other"},
}

// PluralSuffixes returns the cardinal plural categories used by locale, in
// CLDR order. Unparseable locales only have "other".
func PluralSuffixes(locale string) []string {
	tag, err := language.Parse(locale)
	if err != nil {
		return []string{"other"}
	}

	seen := make(map[plural.Form]bool, len(pluralOrder))
	for i := 0; i <= 200; i++ {
		seen[plural.Cardinal.MatchPlural(tag, i, 0, 0, 0, 0)] = true
	}
	seen[plural.Cardinal.MatchPlural(tag, 1000000, 0, 0, 0, 0)] = true
	// One visible fraction digit covers the decimal-only categories.
	for i := 0; i <= 3; i++ {
		for f := 1; f <= 9; f++ {
			seen[plural.Cardinal.MatchPlural(tag, i, 1, 1, f, f)] = true
		}
	}

	out := make([]string, 0, len(pluralOrder))
	for _, p := range pluralOrder {
		if seen[p.form] {
			out = append(out, p.name)
		}
	}
	if len(out) == 0 {
		out = append(out, "other")
	}
	return out
}
