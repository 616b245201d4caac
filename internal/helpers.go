package internal

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

var upperCaser = cases.Upper(language.Und)

// Capitalize uppercases the first rune of s, leaving the rest untouched.
func Capitalize(s string) string {
	if s == "" {
		return s
	}
	runes := []rune(s)
	return upperCaser.String(string(runes[0])) + string(runes[1:])
}

// Deslugify turns an identifier like "pay_slip", "pay-slip" or "paySlip"
// into the human form "pay slip". The result is lowercase; callers that
// want a heading pass it through Capitalize.
func Deslugify(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 4)
	prevLower := false
	for _, r := range s {
		switch {
		case r == '_' || r == '-':
			b.WriteRune(' ')
			prevLower = false
		case unicode.IsUpper(r):
			if prevLower {
				b.WriteRune(' ')
			}
			b.WriteRune(unicode.ToLower(r))
			prevLower = false
		default:
			b.WriteRune(r)
			prevLower = unicode.IsLower(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// Pluralize applies basic English pluralization rules. Good enough for
// resource names used in headings; hosts needing irregular plurals set
// the heading texts explicitly.
func Pluralize(s string) string {
	switch {
	case s == "":
		return s
	case strings.HasSuffix(s, "y") && len(s) > 1 && !isVowel(lastRune(strings.TrimSuffix(s, "y"))):
		return strings.TrimSuffix(s, "y") + "ies"
	case strings.HasSuffix(s, "s") || strings.HasSuffix(s, "x") ||
		strings.HasSuffix(s, "z") || strings.HasSuffix(s, "ch") || strings.HasSuffix(s, "sh"):
		return s + "es"
	default:
		return s + "s"
	}
}

// lastRune decodes the final rune of s, not the final byte, so multibyte
// characters classify correctly.
func lastRune(s string) rune {
	r, _ := utf8.DecodeLastRuneInString(s)
	return r
}

// isVowel strips diacritics first so accented vowels count.
func isVowel(r rune) bool {
	base, _ := utf8.DecodeRuneInString(norm.NFD.String(string(r)))
	switch unicode.ToLower(base) {
	case 'a', 'e', 'i', 'o', 'u':
		return true
	}
	return false
}
