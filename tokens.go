package hdlir

// Token represents a single lexical token from the input.
type Token struct {
	Position

	// End is the byte offset in the original input slice.
	// It is exclusive: input[Start:End] is the token's lexeme.
	End int

	Kind Kind // e.g. Identifier, Number, SEMICOLON, etc.

	LeadingTrivia []*Token
}

// Is reports whether tok.Kind matches the provided kind.
//
// It returns false if tok is nil.
func (tok *Token) Is(kind Kind) bool {
	if tok == nil {
		return false
	}
	return tok.Kind == kind
}

// IsOneOf reports whether tok.Kind matches any of the provided kinds.
//
// It returns false if tok is nil.
//
// This is useful when a caller accepts several token kinds at the same
// input position, e.g.:
//
//	if tok.IsOneOf(hdlir.KwInput, hdlir.KwOutput, hdlir.KwReg) {
//	    ...
//	}
func (tok *Token) IsOneOf(kinds ...Kind) bool {
	if tok == nil {
		return false
	}
	for _, kind := range kinds {
		if tok.Kind == kind {
			return true
		}
	}
	return false
}

// IsKeyword reports whether tok is one of the reserved words.
func (tok *Token) IsKeyword() bool {
	return tok.IsOneOf(KwInput, KwModule, KwOutput, KwReg)
}

// Length is the length of the lexeme, in bytes.
func (tok *Token) Length() int {
	return tok.End - tok.Position.Start
}

// Lexeme is a helper to return the original text of the token.
func (tok *Token) Lexeme(input []byte) []byte {
	return input[tok.Position.Start:tok.End]
}

// Position represents a position in the original source code.
type Position struct {
	Line   int // 1-based
	Column int // 1-based, character column
	Start  int // byte index into input (0-based); always required
}
