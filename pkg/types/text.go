package types

import "strings"

// CleanXMLText drops every rune that may not appear in an XML 1.0 document:
// C0 controls other than tab, newline and carriage return, surrogates, and
// U+FFFE/U+FFFF.
func CleanXMLText(s string) string {
	if strings.IndexFunc(s, isInvalidXMLRune) < 0 {
		return s
	}
	return strings.Map(func(r rune) rune {
		if isInvalidXMLRune(r) {
			return -1
		}
		return r
	}, s)
}

func isInvalidXMLRune(r rune) bool {
	switch {
	case r == '\t' || r == '\n' || r == '\r':
		return false
	case r < 0x20:
		return true
	case r >= 0xD800 && r <= 0xDFFF:
		return true
	case r == 0xFFFE || r == 0xFFFF:
		return true
	}
	return r > 0x10FFFF
}
