// Package textx canonicalizes inbound WhatsApp text before keyword and
// amount matching. Customers write in informal Arabic mixed with Latin
// letters and Arabic-Indic digits, so everything is folded into one
// comparable form first.
package textx

import (
	"strconv"
	"strings"
	"unicode"
)

// Normalize converts raw inbound text into its canonical form:
// trims whitespace, maps Arabic-Indic digits to Latin digits,
// lower-cases Latin letters, folds common Arabic letter variants
// (أ/إ/آ → ا, ة → ه) and strips every character outside
// {Arabic letters, Latin letters, digits, whitespace, '.', '-'}.
// The '.' and '-' survive so decimal and signed amounts reach the
// parser intact instead of being silently turned positive.
func Normalize(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))

	for _, r := range strings.TrimSpace(raw) {
		switch {
		case r >= '٠' && r <= '٩': // U+0660..U+0669
			b.WriteRune('0' + (r - '٠'))
		case r >= 'A' && r <= 'Z':
			b.WriteRune(unicode.ToLower(r))
		case r == 'أ' || r == 'إ' || r == 'آ':
			b.WriteRune('ا')
		case r == 'ة':
			b.WriteRune('ه')
		case isKept(r):
			b.WriteRune(r)
		}
	}

	return b.String()
}

func isKept(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z':
		return true
	case r >= '0' && r <= '9':
		return true
	case r >= 0x0620 && r <= 0x064A: // Arabic letters incl. hamza forms
		return true
	case r == '.' || r == '-' || unicode.IsSpace(r):
		return true
	}
	return false
}

// ParseAmount extracts a decimal number from normalized text. Everything
// except digits, '.' and a leading '-' is discarded before parsing. The
// second return value is false when no finite number remains.
func ParseAmount(normalized string) (float64, bool) {
	var b strings.Builder
	for _, r := range normalized {
		if (r >= '0' && r <= '9') || r == '.' || (r == '-' && b.Len() == 0) {
			b.WriteRune(r)
		}
	}

	s := b.String()
	if s == "" {
		return 0, false
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}

	return v, true
}
