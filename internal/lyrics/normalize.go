package lyrics

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Letters that carry no combining mark and so survive NFD decomposition.
var letterReplacer = strings.NewReplacer(
	"ł", "l", "Ł", "L",
	"đ", "d", "Đ", "D",
	"ø", "o", "Ø", "O",
	"ß", "ss",
	"æ", "ae", "Æ", "AE",
	"&", " and ",
)

// Normalize folds case, strips diacritics and collapses everything that is not a letter
// or a digit into single spaces, so "Metal i Honor!" and "metal-i-honór" compare equal.
func Normalize(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	stripped, _, err := transform.String(t, letterReplacer.Replace(s))
	if err != nil {
		stripped = s
	}
	folded := cases.Fold().String(stripped)

	return strings.Join(strings.FieldsFunc(folded, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	}), " ")
}

// Matches reports whether two names refer to the same thing: equal after
// normalization, or one contained in the other.
func Matches(a, b string) bool {
	na, nb := Normalize(a), Normalize(b)
	if na == "" || nb == "" {
		return false
	}
	return na == nb || containsWords(na, nb) || containsWords(nb, na)
}

// containsWords matches on word boundaries so "kat" is not found in "kathy".
func containsWords(haystack, needle string) bool {
	return strings.Contains(" "+haystack+" ", " "+needle+" ")
}

// slug joins the normalized words of s with sep.
func slug(s, sep string) string {
	return strings.ReplaceAll(Normalize(s), " ", sep)
}
