// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package hdlir_test

import (
	"context"
	"testing"

	"github.com/mdhender/hdlir"
)

func TestLexer_Positions(t *testing.T) {
	input := []byte("module m {\r\n  reg x: u1;\n}")
	l := hdlir.NewLexer(context.Background(), "test.hdl", input, nil)

	for i, tc := range []struct {
		kind   hdlir.Kind
		lexeme string
		line   int
		column int
		start  int
	}{
		{hdlir.KwModule, "module", 1, 1, 0},
		{hdlir.Identifier, "m", 1, 8, 7},
		{hdlir.LEFTBRACE, "{", 1, 10, 9},
		{hdlir.KwReg, "reg", 2, 3, 14},
		{hdlir.Identifier, "x", 2, 7, 18},
		{hdlir.COLON, ":", 2, 8, 19},
		{hdlir.Identifier, "u1", 2, 10, 21},
		{hdlir.SEMICOLON, ";", 2, 12, 23},
		{hdlir.RIGHTBRACE, "}", 3, 1, 25},
		{hdlir.EndOfInput, "", 3, 2, 26},
	} {
		tok := l.Scan()
		if tok == nil {
			t.Fatalf("%d: Scan returned nil", i)
		}
		if tok.Kind != tc.kind {
			t.Errorf("%d: kind: got %v, want %v", i, tok.Kind, tc.kind)
		}
		if got := string(tok.Lexeme(input)); got != tc.lexeme {
			t.Errorf("%d: lexeme: got %q, want %q", i, got, tc.lexeme)
		}
		if tok.Line != tc.line || tok.Column != tc.column {
			t.Errorf("%d: %q: position: got %d:%d, want %d:%d", i, tc.lexeme, tok.Line, tok.Column, tc.line, tc.column)
		}
		if tok.Start != tc.start {
			t.Errorf("%d: %q: start: got %d, want %d", i, tc.lexeme, tok.Start, tc.start)
		}
		if got, want := tok.Length(), len(tc.lexeme); got != want {
			t.Errorf("%d: %q: length: got %d, want %d", i, tc.lexeme, got, want)
		}
	}
	if got := l.Errors(); got != 0 {
		t.Errorf("errors: got %d, want 0", got)
	}
	if got, want := l.Tokens(), 9; got != want {
		t.Errorf("tokens: got %d, want %d", got, want)
	}
}

func TestLexer_LeadingTrivia(t *testing.T) {
	input := []byte("module m {\r\n  reg x: u1;\n}")
	l := hdlir.NewLexer(context.Background(), "test.hdl", input, nil)
	var tok *hdlir.Token
	for tok = l.Scan(); !tok.Is(hdlir.KwReg); tok = l.Scan() {
		if tok.Is(hdlir.EndOfInput) {
			t.Fatalf("reached end of input before reg")
		}
	}
	if len(tok.LeadingTrivia) != 1 {
		t.Fatalf("trivia: got %d tokens, want 1", len(tok.LeadingTrivia))
	}
	trivia := tok.LeadingTrivia[0]
	if trivia.Kind != hdlir.SPACE {
		t.Errorf("trivia: kind: got %v, want SPACE", trivia.Kind)
	}
	if trivia.Start != 10 || trivia.End != 14 {
		t.Errorf("trivia: span: got [%d,%d), want [10,14)", trivia.Start, trivia.End)
	}
	if got, want := string(trivia.Lexeme(input)), "\r\n  "; got != want {
		t.Errorf("trivia: lexeme: got %q, want %q", got, want)
	}
	if !tok.IsKeyword() {
		t.Errorf("reg: IsKeyword: got false, want true")
	}
}

func TestLexer_EndOfInputIsCanonical(t *testing.T) {
	input := []byte("module m {}  \n")
	l := hdlir.NewLexer(context.Background(), "test.hdl", input, nil)
	var eof *hdlir.Token
	for i := 0; i < 10; i++ {
		if tok := l.Scan(); tok.Is(hdlir.EndOfInput) {
			eof = tok
			break
		}
	}
	if eof == nil {
		t.Fatalf("no end of input token")
	}
	if eof.Start != len(input) || eof.End != len(input) {
		t.Errorf("eof: span: got [%d,%d), want [%d,%d)", eof.Start, eof.End, len(input), len(input))
	}
	if len(eof.LeadingTrivia) != 1 {
		t.Errorf("eof: trivia: got %d tokens, want 1", len(eof.LeadingTrivia))
	}
	if again := l.Scan(); again != eof {
		t.Errorf("eof: Scan after end returned a different token")
	}
}

func TestLexer_Unknown(t *testing.T) {
	input := []byte("a = b - c;")
	l := hdlir.NewLexer(context.Background(), "test.hdl", input, nil)
	var kinds []hdlir.Kind
	for tok := l.Scan(); !tok.Is(hdlir.EndOfInput); tok = l.Scan() {
		kinds = append(kinds, tok.Kind)
	}
	want := []hdlir.Kind{hdlir.Identifier, hdlir.EQUALS, hdlir.Identifier, hdlir.UNKNOWN, hdlir.Identifier, hdlir.SEMICOLON}
	if len(kinds) != len(want) {
		t.Fatalf("kinds: got %v, want %v", kinds, want)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Errorf("%d: kind: got %v, want %v", i, kinds[i], want[i])
		}
	}
	if got := l.Errors(); got != 1 {
		t.Errorf("errors: got %d, want 1", got)
	}
}

func TestLexer_NumbersAndKeywords(t *testing.T) {
	input := []byte("255 input output reg module inputs")
	l := hdlir.NewLexer(context.Background(), "test.hdl", input, nil)
	want := []hdlir.Kind{hdlir.Number, hdlir.KwInput, hdlir.KwOutput, hdlir.KwReg, hdlir.KwModule, hdlir.Identifier, hdlir.EndOfInput}
	for i, kind := range want {
		if tok := l.Scan(); tok.Kind != kind {
			t.Errorf("%d: kind: got %v, want %v", i, tok.Kind, kind)
		}
	}
}

func TestLexer_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	l := hdlir.NewLexer(ctx, "test.hdl", []byte("module m {}"), nil)
	if tok := l.Scan(); !tok.Is(hdlir.EndOfInput) {
		t.Errorf("cancelled: got %v, want EndOfInput", tok.Kind)
	}
}

func TestKind_String(t *testing.T) {
	for _, tc := range []struct {
		kind hdlir.Kind
		want string
	}{
		{hdlir.UNKNOWN, "UNKNOWN"},
		{hdlir.SEMICOLON, "SEMICOLON"},
		{hdlir.KwReg, "KwReg"},
		{hdlir.EndOfInput, "EndOfInput"},
		{hdlir.Kind(99), "Kind(99)"},
		{hdlir.Kind(-1), "Kind(-1)"},
	} {
		if got := tc.kind.String(); got != tc.want {
			t.Errorf("Kind(%d).String(): got %q, want %q", int(tc.kind), got, tc.want)
		}
	}
}

func TestToken_NilIsNothing(t *testing.T) {
	var tok *hdlir.Token
	if tok.Is(hdlir.UNKNOWN) || tok.IsOneOf(hdlir.UNKNOWN, hdlir.EndOfInput) || tok.IsKeyword() {
		t.Errorf("nil token matched a kind")
	}
}
