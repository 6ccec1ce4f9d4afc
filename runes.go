// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package hdlir

import (
	"unicode"
)

const (
	// CR and LF are control characters, respectively coded 0x0D (13 decimal) and 0x0A (10 decimal).
	// The lexer folds CR+LF into a single LF; both are whitespace to the grammar.

	// CR is 0x0D or '\r'
	CR rune = rune(13)

	// LF is 0x0A or '\n'
	LF rune = rune(10)

	// EOF is a sentinel for end of input
	EOF rune = rune(-1)
)

// isspace reports whether ch is whitespace in the grammar.
// Only space, tab, CR and LF count; other Unicode spaces do not.
func isspace(ch rune) bool {
	return ch == ' ' || ch == '\t' || ch == CR || ch == LF
}

// isletter reports whether ch may start an identifier.
func isletter(ch rune) bool {
	return ('a' <= ch && ch <= 'z') || ('A' <= ch && ch <= 'Z')
}

func isdigit(ch rune) bool {
	return '0' <= ch && ch <= '9'
}

// isidentrune reports whether ch may follow the first letter of an identifier.
func isidentrune(ch rune) bool {
	return ch == '_' || unicode.IsLetter(ch) || unicode.IsNumber(ch)
}
