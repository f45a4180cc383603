package gen

import "strings"

// ToCapsCase upper-camel-cases a snake_case identifier: the first
// character is uppercased, and every character following an underscore
// is uppercased with the underscore discarded. It operates byte-wise
// (identifiers are constrained to [A-Za-z0-9_] and need no locale
// awareness).
func ToCapsCase(s string) string {
	var b strings.Builder
	upperNext := true
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '_' {
			upperNext = true
			continue
		}
		if upperNext {
			b.WriteByte(toUpper(c))
			upperNext = false
		} else {
			b.WriteByte(c)
		}
	}
	return b.String()
}

// ToSnakeCase lowercases an identifier, inserting an underscore before
// each interior uppercase letter before lowercasing it. The first
// character is lowercased without a leading underscore.
func ToSnakeCase(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if isUpper(c) {
			if i > 0 {
				b.WriteByte('_')
			}
			b.WriteByte(toLower(c))
		} else {
			b.WriteByte(c)
		}
	}
	return b.String()
}

func isUpper(c byte) bool { return c >= 'A' && c <= 'Z' }

func toUpper(c byte) byte {
	if c >= 'a' && c <= 'z' {
		return c - 'a' + 'A'
	}
	return c
}

func toLower(c byte) byte {
	if c >= 'A' && c <= 'Z' {
		return c - 'A' + 'a'
	}
	return c
}
