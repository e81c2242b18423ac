package phone

import (
	"regexp"
	"strings"
)

// MaxLength is the length of a national mobile number including the leading zero.
const MaxLength = 11

const (
	persianZero     = '۰' // U+06F0
	arabicIndicZero = '٠' // U+0660
)

var reMobile = regexp.MustCompile(`^09[0-9]{9}$`)

// ToASCIIDigits maps Persian and Arabic-Indic digit glyphs to their ASCII
// equivalents and drops every character that is not a digit afterwards.
func ToASCIIDigits(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))

	for _, r := range raw {
		if d, ok := digitOf(r); ok {
			b.WriteByte('0' + d)
		}
	}

	return b.String()
}

// FoldDigits maps Persian and Arabic-Indic digit glyphs to ASCII and keeps
// every other character as is.
func FoldDigits(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))

	for _, r := range raw {
		if d, ok := digitOf(r); ok {
			b.WriteByte('0' + d)
			continue
		}
		b.WriteRune(r)
	}

	return b.String()
}

// Normalize returns the ASCII digits of raw truncated to MaxLength.
func Normalize(raw string) string {
	s := ToASCIIDigits(raw)
	if len(s) > MaxLength {
		s = s[:MaxLength]
	}

	return s
}

// IsMobile reports whether s is "09" followed by exactly nine more ASCII digits.
func IsMobile(s string) bool {
	return reMobile.MatchString(s)
}

// IsDigits reports whether s is non-empty and made only of ASCII digits.
func IsDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}

	return true
}

func digitOf(r rune) (byte, bool) {
	switch {
	case r >= '0' && r <= '9':
		return byte(r - '0'), true
	case r >= persianZero && r <= persianZero+9:
		return byte(r - persianZero), true
	case r >= arabicIndicZero && r <= arabicIndicZero+9:
		return byte(r - arabicIndicZero), true
	default:
		return 0, false
	}
}
