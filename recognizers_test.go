// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package hdlir

import (
	"errors"
	"strconv"
	"testing"
)

func TestIdentifier(t *testing.T) {
	for _, tc := range []struct {
		input string
		want  string
		rest  string
		ok    bool
	}{
		{"a", "a", "", true},
		{"sum = a", "sum", " = a", true},
		{"reg_1;", "reg_1", ";", true},
		{"x9y:", "x9y", ":", true},
		{"naïve+", "naïve", "+", true},
		{"1abc", "", "1abc", false},
		{"_abc", "", "_abc", false},
		{" abc", "", " abc", false},
		{"", "", "", false},
	} {
		got, rest, err := identifier(NewText(tc.input))
		if tc.ok != (err == nil) {
			t.Errorf("identifier(%q): err = %v, want ok %v", tc.input, err, tc.ok)
			continue
		}
		if got != tc.want {
			t.Errorf("identifier(%q) = %q, want %q", tc.input, got, tc.want)
		}
		if rest.String() != tc.rest {
			t.Errorf("identifier(%q): rest = %q, want %q", tc.input, rest.String(), tc.rest)
		}
		if err != nil && !errors.Is(err, ErrNoMatch) {
			t.Errorf("identifier(%q): want ErrNoMatch, got %v", tc.input, err)
		}
	}
}

func TestWhitespace(t *testing.T) {
	got, rest, err := ws0(NewText("x"))
	if err != nil || got != "" || rest.Offset() != 0 {
		t.Errorf("ws0(x) = %q, %d, %v", got, rest.Offset(), err)
	}
	got, rest, err = ws0(NewText(" \t\r\n x"))
	if err != nil || got != " \t\r\n " || rest.String() != "x" {
		t.Errorf("ws0 = %q, %q, %v", got, rest.String(), err)
	}
	if _, rest, err = ws1(NewText("x")); !errors.Is(err, ErrNoMatch) || rest.Offset() != 0 {
		t.Errorf("ws1(x): rest %d, err %v", rest.Offset(), err)
	}
	// a no-break space is not grammar whitespace.
	if _, _, err = ws1(NewText("\u00a0x")); err == nil {
		t.Errorf("ws1(nbsp): want error, got nil")
	}
}

func TestSignalType(t *testing.T) {
	for _, tc := range []struct {
		input string
		want  SignalType
		rest  string
	}{
		{"input a", Input, " a"},
		{"  output b", Output, " b"},
		{"reg c", Register, " c"},
		{"registers", Register, "isters"},
	} {
		got, rest, err := signalType(NewText(tc.input))
		if err != nil {
			t.Errorf("signalType(%q): %v", tc.input, err)
			continue
		}
		if got != tc.want {
			t.Errorf("signalType(%q) = %v, want %v", tc.input, got, tc.want)
		}
		if rest.String() != tc.rest {
			t.Errorf("signalType(%q): rest = %q, want %q", tc.input, rest.String(), tc.rest)
		}
	}
	if _, rest, err := signalType(NewText("  wire x")); !errors.Is(err, ErrNoMatch) || rest.Offset() != 0 {
		t.Errorf("signalType(wire): rest %d, err %v", rest.Offset(), err)
	}
}

func TestTypeWidth(t *testing.T) {
	for _, tc := range []struct {
		input string
		want  uint8
		rest  string
	}{
		{": u8;", 8, ";"},
		{":u16 ;", 16, " ;"},
		{"  :\tu255;", 255, ";"},
		{": u0", 0, ""},
	} {
		got, rest, err := typeWidth(NewText(tc.input))
		if err != nil {
			t.Errorf("typeWidth(%q): %v", tc.input, err)
			continue
		}
		if got != tc.want {
			t.Errorf("typeWidth(%q) = %d, want %d", tc.input, got, tc.want)
		}
		if rest.String() != tc.rest {
			t.Errorf("typeWidth(%q): rest = %q, want %q", tc.input, rest.String(), tc.rest)
		}
	}

	for _, input := range []string{"u8;", ": 8;", ": u;", ": ux;", ": u 8;"} {
		_, rest, err := typeWidth(NewText(input))
		if !errors.Is(err, ErrNoMatch) {
			t.Errorf("typeWidth(%q): want ErrNoMatch, got %v", input, err)
		}
		if rest.Offset() != 0 {
			t.Errorf("typeWidth(%q): consumed %d bytes on failure", input, rest.Offset())
		}
	}

	_, rest, err := typeWidth(NewText(": u256;"))
	if !errors.Is(err, ErrWidthOverflow) {
		t.Fatalf("typeWidth(u256): want ErrWidthOverflow, got %v", err)
	}
	if isSoft(err) {
		t.Fatalf("typeWidth(u256): overflow must be a hard error")
	}
	if rest.Offset() != 0 {
		t.Fatalf("typeWidth(u256): consumed %d bytes on failure", rest.Offset())
	}
}

func TestDeclarations_StopsAtFirstMismatch(t *testing.T) {
	got, rest, err := declarations(NewText("input a: u8; input b u8;"))
	if err != nil {
		t.Fatalf("declarations: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("declarations: got %d items, want 1", len(got))
	}
	if want := (Signal{Name: "a", Type: Input, Width: 8}); got[0] != want {
		t.Errorf("declarations[0] = %+v, want %+v", got[0], want)
	}
	if want := "input b u8;"; rest.String() != want {
		t.Errorf("declarations: rest = %q, want %q", rest.String(), want)
	}
}

func TestDeclarations_Empty(t *testing.T) {
	got, rest, err := declarations(NewText("}"))
	if err != nil {
		t.Fatalf("declarations: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Fatalf("declarations = %#v, want empty non-nil slice", got)
	}
	if rest.String() != "}" {
		t.Errorf("declarations: rest = %q, want %q", rest.String(), "}")
	}
}

func TestDeclarations_HardErrorStops(t *testing.T) {
	_, rest, err := declarations(NewText("input a: u8; input b: u300; input c: u1;"))
	if !errors.Is(err, ErrWidthOverflow) {
		t.Fatalf("declarations: want ErrWidthOverflow, got %v", err)
	}
	if want := "input b: u300; input c: u1;"; rest.String() != want {
		t.Errorf("declarations: rest = %q, want %q", rest.String(), want)
	}
}

func TestAssignment(t *testing.T) {
	got, rest, err := assignment(NewText("  y=a+b;rest"))
	if err != nil {
		t.Fatalf("assignment: %v", err)
	}
	if want := (Assignment{LHS: "y", RHS: "a + b"}); got != want {
		t.Errorf("assignment = %+v, want %+v", got, want)
	}
	if rest.String() != "rest" {
		t.Errorf("assignment: rest = %q, want %q", rest.String(), "rest")
	}

	for _, input := range []string{"y = a;", "y = a + ;", "y a + b;", "y = a * b;", "= a + b;"} {
		_, rest, err := assignment(NewText(input))
		if !errors.Is(err, ErrNoMatch) {
			t.Errorf("assignment(%q): want ErrNoMatch, got %v", input, err)
		}
		if rest.Offset() != 0 {
			t.Errorf("assignment(%q): consumed %d bytes on failure", input, rest.Offset())
		}
	}
}

func TestStatements(t *testing.T) {
	got, rest, err := statements(NewText(" x = a + b; reg r: u2; output o: u1; }"))
	if err != nil {
		t.Fatalf("statements: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("statements: got %d items, want 3", len(got))
	}
	if _, ok := got[0].(Assignment); !ok {
		t.Errorf("statements[0] = %T, want Assignment", got[0])
	}
	if s, ok := got[1].(Signal); !ok || s.Type != Register {
		t.Errorf("statements[1] = %#v, want reg Signal", got[1])
	}
	if s, ok := got[2].(Signal); !ok || s.Type != Output {
		t.Errorf("statements[2] = %#v, want output Signal", got[2])
	}
	if rest.String() != "}" {
		t.Errorf("statements: rest = %q, want %q", rest.String(), "}")
	}
}

func TestAlt_ReportsLastSoftError(t *testing.T) {
	r := alt(tag("a"), tag("b"))
	_, rest, err := r(NewText("c"))
	if !errors.Is(err, ErrNoMatch) {
		t.Fatalf("alt: want ErrNoMatch, got %v", err)
	}
	if got, want := err.Error(), `expected "b": no match`; got != want {
		t.Errorf("alt: err = %q, want %q", got, want)
	}
	if rest.Offset() != 0 {
		t.Errorf("alt: consumed %d bytes on failure", rest.Offset())
	}
}

func TestMany0_StopsOnEmptyMatch(t *testing.T) {
	got, rest, err := many0(ws0)(NewText("abc"))
	if err != nil {
		t.Fatalf("many0: %v", err)
	}
	if len(got) != 0 || rest.Offset() != 0 {
		t.Errorf("many0(ws0) = %d items, offset %d; want 0, 0", len(got), rest.Offset())
	}
}

func TestTypeWidth_OverflowKeepsNumError(t *testing.T) {
	_, _, err := typeWidth(NewText(": u123456789012345678901234567890;"))
	var ne *strconv.NumError
	if !errors.As(err, &ne) {
		t.Fatalf("typeWidth: want *strconv.NumError in the chain, got %v", err)
	}
	if got, want := ne.Num, "1234567890123456..."; got != want {
		t.Errorf("NumError.Num = %q, want %q", got, want)
	}
	if got, want := err.Error(), `width: width overflow: strconv.ParseUint: parsing "1234567890123456...": value out of range`; got != want {
		t.Errorf("err = %q, want %q", got, want)
	}
}

func TestText_IsEmpty(t *testing.T) {
	in := NewText("ab")
	if in.IsEmpty() {
		t.Errorf("IsEmpty(%q) = true, want false", in.String())
	}
	if rest := in.skip(2); !rest.IsEmpty() {
		t.Errorf("IsEmpty after consuming everything = false, want true")
	}
	if !NewText("").IsEmpty() {
		t.Errorf("IsEmpty(\"\") = false, want true")
	}
}
