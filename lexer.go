// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package hdlir

import (
	"context"
	"fmt"
	"log/slog"
	"unicode/utf8"
)

// Lexer invariants and coordinate system
//
// The lexer gives tools a token view of a source. The parser does not use
// it; both share the identifier and number recognizers so they agree on
// what a word is.
//
// Fields:
//   input       - the original []byte
//   text        - the same bytes as a string, for the recognizers
//   length      - len(input)
//
//   r           - the current rune, or EOF when we have read past the end.
//                 "\r\n" is seen as a single "\n" rune.
//
//   posCurrRune - index into input of the first byte of r,
//                 or length when r == EOF.
//   posNextRune - index into input of the first byte of the *next* rune,
//                 or length when r == EOF.
//   anchorPos   - index into input where the current token starts.
//
// Invariants (must always hold):
//   0 <= posCurrRune <= posNextRune <= length
//
//   r == EOF  <=> posCurrRune == posNextRune == length
//
//   r != EOF  => posCurrRune < length && posNextRune > posCurrRune
//
// Scanners that produce a token should:
//   1. Check that the current rune is a valid start for that token;
//      if not, return UNKNOWN without moving.
//   2. Repeatedly call advance() while r belongs to the token.
//      When the loop stops, r is the first rune after the token (or EOF).
//   3. Let token() slice input[anchorPos:posCurrRune].

type Lexer struct {
	name        string // name of the input source
	r           rune   // current rune
	line        int    // line number of current rune
	column      int    // column number of current rune
	posCurrRune int    // position of current rune
	posNextRune int    // position of next rune
	length      int    // length of input buffer
	input       []byte
	text        string

	anchorPos    int
	anchorLine   int
	anchorColumn int

	// returns a canonical end of input token to preserve
	// spaces at the end of the file
	endToken *Token

	// logging
	ctx        context.Context
	logger     *slog.Logger
	errorCount int
	tokenCount int
}

func NewLexer(ctx context.Context, path string, input []byte, logger *slog.Logger) *Lexer {
	l := &Lexer{
		name:   path,
		input:  input,
		text:   string(input),
		length: len(input),
		line:   1,
		column: 0,
		ctx:    ctx,
		logger: logger,
	}
	// read the first character to initialize the lexer.
	l.advance()
	return l
}

// Scan returns the next token from the input buffer.
// Leading whitespace is put in the token's leading trivia.
//
// Once we reach end of input, we always return the same EOF token.
// A cancelled context is treated as end of input.
func (l *Lexer) Scan() *Token {
	if !l.iseof() && l.ctx != nil && l.ctx.Err() != nil {
		l.error("scan: %v", l.ctx.Err())
		l.seteof(nil)
	}
	if l.iseof() {
		if l.endToken == nil {
			l.seteof(nil)
		}
		return l.endToken
	}

	l.setAnchor()

	// capture leading spaces
	var leadingTrivia []*Token
	if l.scanSpaces() == SPACE {
		leadingTrivia = []*Token{l.token(SPACE, nil)}
		// check for end of input since we consumed some of the input
		if l.iseof() {
			l.seteof(leadingTrivia)
			return l.endToken
		}
		// reset the anchor
		l.setAnchor()
	}

	if kind, ok := punctuation[l.peekChar()]; ok {
		l.advance()
		return l.token(kind, leadingTrivia)
	}

	if kind := l.scanWord(); kind != UNKNOWN {
		return l.token(kind, leadingTrivia)
	}

	// accept the next character as an unknown token.
	l.error("unexpected %q", l.peekChar())
	l.advance()
	return l.token(UNKNOWN, leadingTrivia)
}

// Errors returns the number of unknown tokens scanned so far.
func (l *Lexer) Errors() int {
	return l.errorCount
}

// Tokens returns the number of tokens (not counting trivia) scanned so far.
func (l *Lexer) Tokens() int {
	return l.tokenCount
}

// token returns a token running from the anchor to the current rune.
func (l *Lexer) token(kind Kind, leadingTrivia []*Token) *Token {
	if kind != SPACE {
		l.tokenCount++
	}
	return &Token{
		Position: Position{
			Line:   l.anchorLine,
			Column: l.anchorColumn,
			Start:  l.anchorPos,
		},
		End:           l.posCurrRune,
		Kind:          kind,
		LeadingTrivia: leadingTrivia,
	}
}

// scanSpaces accepts a run of whitespace and returns SPACE.
func (l *Lexer) scanSpaces() Kind {
	if !isspace(l.peekChar()) {
		return UNKNOWN
	}
	for isspace(l.peekChar()) {
		l.advance()
	}
	return SPACE
}

// scanWord accepts an identifier, keyword or number.
// It uses the same recognizers as the parser.
func (l *Lexer) scanWord() Kind {
	in := Text{src: l.text, pos: l.posCurrRune}
	kind := Identifier
	word, rest, err := identifier(in)
	if err != nil {
		kind = Number
		if word, rest, err = unsignedInteger(in); err != nil {
			return UNKNOWN
		}
	}
	for l.posCurrRune < rest.pos {
		l.advance()
	}
	if kw, ok := keywords[word]; ok {
		return kw
	}
	return kind
}

// peekChar returns the current character without advancing the input.
func (l *Lexer) peekChar() rune {
	return l.r
}

// setAnchor marks the start of the current token.
func (l *Lexer) setAnchor() {
	l.anchorPos = l.posCurrRune
	l.anchorLine = l.line
	l.anchorColumn = l.column
}

// advance moves to the next rune and updates line/col.
// It normalizes "\r\n" into a single LF rune.
// On end of input, it sets r == EOF and both positions to length and returns.
func (l *Lexer) advance() {
	// update line/col wrt the *current* rune before stepping
	if l.r == LF {
		l.line++
		l.column = 1
	} else if l.r != EOF {
		l.column++
	}

	// already at or past the end?
	if l.posNextRune >= l.length {
		l.posCurrRune, l.posNextRune = l.length, l.length
		l.r = EOF
		return
	}

	l.posCurrRune = l.posNextRune

	// read the next rune, optimizing for ASCII grammars.
	r, w := rune(l.input[l.posCurrRune]), 1
	if r == CR && l.posCurrRune+1 < l.length && rune(l.input[l.posCurrRune+1]) == LF {
		// merge CR+LF into a single LF rune, but consume both bytes
		r, w = LF, 2
	} else if r >= utf8.RuneSelf {
		// the current rune must be decoded
		r, w = utf8.DecodeRune(l.input[l.posCurrRune:])
	}
	l.posNextRune = l.posCurrRune + w
	l.r = r
}

func (l *Lexer) iseof() bool {
	return l.r == EOF
}

func (l *Lexer) debug(format string, args ...any) {
	if l.logger == nil {
		return
	}
	l.logger.Debug(fmt.Sprintf("%s:%d:%d %s", l.name, l.line, l.column, fmt.Sprintf(format, args...)))
}

func (l *Lexer) error(format string, args ...any) {
	l.errorCount++
	if l.logger == nil {
		return
	}
	l.logger.Error(fmt.Sprintf("%s:%d:%d %s", l.name, l.line, l.column, fmt.Sprintf(format, args...)))
}

// seteof updates the Lexer state to enforce the end of input invariants:
// * r is EOF
// * posCurrRune = posNextRune = length
// * endToken is set to the canonical EOF token
func (l *Lexer) seteof(leadingTrivia []*Token) {
	l.r = EOF
	l.posCurrRune = l.length
	l.posNextRune = l.length
	if l.endToken == nil {
		l.endToken = &Token{
			Position: Position{
				Line:   l.line,
				Column: l.column,
				Start:  l.length,
			},
			End:           l.length,
			Kind:          EndOfInput,
			LeadingTrivia: leadingTrivia,
		}
		l.debug("end of input after %d tokens", l.tokenCount)
	}
}
