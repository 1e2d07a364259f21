// Package namematch provides the shared normalization and fuzzy matching
// rules used to join player and club names across data sources that spell
// them differently (diacritics, abbreviations, partial names).
package namematch

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var diacriticStripper = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Aliases maps common short forms to the canonical club spelling.
// Keys and values are compared post-normalization.
var clubAliases = map[string]string{
	"psg":            "paris saint germain",
	"paris sg":       "paris saint germain",
	"om":             "marseille",
	"ol":             "lyon",
	"ogc nice":       "nice",
	"losc":           "lille",
	"rc lens":        "lens",
	"stade rennais":  "rennes",
	"as monaco":      "monaco",
	"barca":          "barcelona",
	"man united":     "manchester united",
	"man city":       "manchester city",
	"spurs":          "tottenham",
	"wolves":         "wolverhampton",
	"inter":          "inter milan",
	"juve":           "juventus",
}

func stripDiacritics(s string) string {
	out, _, err := transform.String(diacriticStripper, s)
	if err != nil {
		return s
	}
	return out
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// NormalizeName lower-cases, strips diacritics and dots, and collapses
// whitespace, so that "Dembélé Ousmane" and "O. Dembele" share tokens.
func NormalizeName(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = stripDiacritics(s)
	s = strings.ReplaceAll(s, ".", "")
	return collapseWhitespace(s)
}

// NormalizeClub is NormalizeName plus removal of punctuation, so club
// names like "St-Étienne" and "saint etienne" converge.
func NormalizeClub(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = stripDiacritics(s)

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r == ' ' || unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return collapseWhitespace(b.String())
}

// Surname returns the final token of a normalized name.
func Surname(normalized string) string {
	fields := strings.Fields(normalized)
	if len(fields) == 0 {
		return normalized
	}
	return fields[len(fields)-1]
}

// SameName reports whether two raw player names refer to the same player:
// normalized equality, containment either way, or surname cross-containment.
func SameName(a, b string) bool {
	na := NormalizeName(a)
	nb := NormalizeName(b)
	if na == "" || nb == "" {
		return false
	}
	return sameNormalizedName(na, nb)
}

func sameNormalizedName(na, nb string) bool {
	if na == nb {
		return true
	}
	if strings.Contains(na, nb) || strings.Contains(nb, na) {
		return true
	}
	sa := Surname(na)
	sb := Surname(nb)
	if sa == "" || sb == "" {
		return false
	}
	return strings.Contains(sa, sb) || strings.Contains(sb, sa)
}

// NameInList reports whether rawName matches any of the candidate names.
func NameInList(rawName string, candidates []string) bool {
	na := NormalizeName(rawName)
	if na == "" {
		return false
	}
	for _, candidate := range candidates {
		nb := NormalizeName(candidate)
		if nb == "" {
			continue
		}
		if sameNormalizedName(na, nb) {
			return true
		}
	}
	return false
}

// SameClub reports whether two raw club names refer to the same club:
// normalized equality, containment (with and without spaces), or alias
// resolution against the known short forms.
func SameClub(a, b string) bool {
	na := NormalizeClub(a)
	nb := NormalizeClub(b)
	if na == "" || nb == "" {
		return false
	}
	if clubContains(na, nb) {
		return true
	}

	aliasA := resolveAlias(na)
	aliasB := resolveAlias(nb)
	return clubContains(aliasA, aliasB)
}

func clubContains(na, nb string) bool {
	if na == nb {
		return true
	}
	if strings.Contains(na, nb) || strings.Contains(nb, na) {
		return true
	}
	ca := strings.ReplaceAll(na, " ", "")
	cb := strings.ReplaceAll(nb, " ", "")
	return ca == cb || strings.Contains(ca, cb) || strings.Contains(cb, ca)
}

func resolveAlias(normalized string) string {
	if alias, ok := clubAliases[normalized]; ok {
		return alias
	}
	return normalized
}

// LookupByClub finds the value for a club in a map keyed by normalized club
// names, trying an exact hit before falling back to fuzzy comparison.
func LookupByClub[V any](club string, byClub map[string]V) (V, bool) {
	var zero V
	norm := NormalizeClub(club)
	if norm == "" {
		return zero, false
	}
	if v, ok := byClub[norm]; ok {
		return v, true
	}
	for key, v := range byClub {
		if SameClub(norm, key) {
			return v, true
		}
	}
	return zero, false
}
