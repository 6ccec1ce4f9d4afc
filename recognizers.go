// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package hdlir

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Text is the unconsumed remainder of the source.
//
// A Text is a value: recognizers never change the Text they are given.
// On success they return a new Text positioned after what they consumed;
// on failure they return the Text they were given, untouched.
type Text struct {
	src string
	pos int // byte offset of the first unconsumed byte
}

// NewText returns a Text positioned at the start of src.
func NewText(src string) Text {
	return Text{src: src}
}

// String returns the unconsumed text.
func (t Text) String() string {
	return t.src[t.pos:]
}

// Offset is the number of bytes consumed so far.
func (t Text) Offset() int {
	return t.pos
}

// IsEmpty reports whether everything has been consumed.
func (t Text) IsEmpty() bool {
	return t.pos >= len(t.src)
}

func (t Text) skip(n int) Text {
	t.pos += n
	return t
}

// Recognizer matches a grammar fragment at the start of in.
// It returns the value recognized and the remainder.
type Recognizer[T any] func(in Text) (T, Text, error)

// tag matches the literal lit.
func tag(lit string) Recognizer[string] {
	expected := strconv.Quote(lit)
	return func(in Text) (string, Text, error) {
		if !strings.HasPrefix(in.String(), lit) {
			return "", in, noMatch(expected)
		}
		return lit, in.skip(len(lit)), nil
	}
}

// takeWhile matches zero or more runes accepted by pred. It never fails.
func takeWhile(pred func(rune) bool) Recognizer[string] {
	return func(in Text) (string, Text, error) {
		rest, n := in.String(), 0
		for n < len(rest) {
			r, w := utf8.DecodeRuneInString(rest[n:])
			if !pred(r) {
				break
			}
			n += w
		}
		return rest[:n], in.skip(n), nil
	}
}

// takeWhile1 is takeWhile that requires at least one rune.
func takeWhile1(pred func(rune) bool, what string) Recognizer[string] {
	any0 := takeWhile(pred)
	return func(in Text) (string, Text, error) {
		s, rest, _ := any0(in)
		if s == "" {
			return "", in, noMatch(what)
		}
		return s, rest, nil
	}
}

var (
	// ws0 matches optional whitespace.
	ws0 = takeWhile(isspace)
	// ws1 matches mandatory whitespace.
	ws1 = takeWhile1(isspace, "whitespace")
)

// identifier matches one letter followed by letters, digits or underscores.
func identifier(in Text) (string, Text, error) {
	rest := in.String()
	r, w := utf8.DecodeRuneInString(rest)
	if w == 0 || !isletter(r) {
		return "", in, noMatch("identifier")
	}
	n := w
	for n < len(rest) {
		r, w = utf8.DecodeRuneInString(rest[n:])
		if !isidentrune(r) {
			break
		}
		n += w
	}
	return rest[:n], in.skip(n), nil
}

// unsignedInteger matches one or more decimal digits.
// Converting and range checking is up to the caller.
var unsignedInteger = takeWhile1(isdigit, "digits")

// mapped applies f to the value recognized by r.
func mapped[T, U any](r Recognizer[T], f func(T) U) Recognizer[U] {
	return func(in Text) (U, Text, error) {
		v, rest, err := r(in)
		if err != nil {
			var zero U
			return zero, in, err
		}
		return f(v), rest, nil
	}
}

// value returns v when r matches.
func value[T, U any](v U, r Recognizer[T]) Recognizer[U] {
	return mapped(r, func(T) U { return v })
}

// preceded matches prefix then r, keeping the value of r.
func preceded[P, T any](prefix Recognizer[P], r Recognizer[T]) Recognizer[T] {
	return func(in Text) (T, Text, error) {
		var zero T
		_, rest, err := prefix(in)
		if err != nil {
			return zero, in, err
		}
		v, rest, err := r(rest)
		if err != nil {
			return zero, in, err
		}
		return v, rest, nil
	}
}

// delimited matches open, r and closing, keeping the value of r.
func delimited[O, T, C any](open Recognizer[O], r Recognizer[T], closing Recognizer[C]) Recognizer[T] {
	inner := preceded(open, r)
	return func(in Text) (T, Text, error) {
		var zero T
		v, rest, err := inner(in)
		if err != nil {
			return zero, in, err
		}
		if _, rest, err = closing(rest); err != nil {
			return zero, in, err
		}
		return v, rest, nil
	}
}

// alt tries each recognizer in order and returns the first match.
// A hard failure stops the search.
func alt[T any](choices ...Recognizer[T]) Recognizer[T] {
	return func(in Text) (T, Text, error) {
		var zero T
		err := noMatch("one of the alternatives")
		for _, r := range choices {
			var v T
			var rest Text
			if v, rest, err = r(in); err == nil {
				return v, rest, nil
			} else if !isSoft(err) {
				return zero, in, err
			}
		}
		return zero, in, err
	}
}

// many0 applies r until it fails softly and returns the values in order.
// The failed attempt consumes nothing. A hard failure is returned as is.
// It also stops if r matches without consuming anything.
func many0[T any](r Recognizer[T]) Recognizer[[]T] {
	return func(in Text) ([]T, Text, error) {
		items := []T{}
		for {
			v, rest, err := r(in)
			if err != nil {
				if isSoft(err) {
					return items, in, nil
				}
				return nil, in, err
			}
			if rest.pos == in.pos {
				return items, in, nil
			}
			items, in = append(items, v), rest
		}
	}
}

// signalType matches one of the signal keywords after optional whitespace.
var signalType = preceded(ws0, alt(
	value(Input, tag("input")),
	value(Output, tag("output")),
	value(Register, tag("reg")),
))

// typeWidth matches ": u<N>" and returns N.
func typeWidth(in Text) (uint8, Text, error) {
	start := in
	var err error
	_, in, _ = ws0(in)
	if _, in, err = tag(":")(in); err != nil {
		return 0, start, err
	}
	_, in, _ = ws0(in)
	if _, in, err = tag("u")(in); err != nil {
		return 0, start, err
	}
	digits, in, err := unsignedInteger(in)
	if err != nil {
		return 0, start, err
	}
	width, err := strconv.ParseUint(digits, 10, 8)
	if err != nil {
		var ne *strconv.NumError
		if errors.As(err, &ne) {
			ne.Num = clip(ne.Num, maxQuotedDigits)
		}
		return 0, start, fmt.Errorf("width: %w: %w", ErrWidthOverflow, err)
	}
	return uint8(width), in, nil
}

// maxQuotedDigits bounds how much of an overflowing digit run is echoed in errors.
const maxQuotedDigits = 16

// clip shortens s to n bytes, marking the cut with an ellipsis.
func clip(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

// signalDecl matches "sig_type ws1 ident : u<N> ;".
func signalDecl(in Text) (Signal, Text, error) {
	start := in
	typ, in, err := signalType(in)
	if err != nil {
		return Signal{}, start, err
	}
	if _, in, err = ws1(in); err != nil {
		return Signal{}, start, err
	}
	name, in, err := identifier(in)
	if err != nil {
		return Signal{}, start, err
	}
	width, in, err := typeWidth(in)
	if err != nil {
		return Signal{}, start, err
	}
	_, in, _ = ws0(in)
	if _, in, err = tag(";")(in); err != nil {
		return Signal{}, start, err
	}
	return Signal{Name: name, Type: typ, Width: width}, in, nil
}

// assignment matches "ident = ident + ident ;" with optional whitespace between tokens.
func assignment(in Text) (Assignment, Text, error) {
	start := in
	lhs, in, err := preceded(ws0, identifier)(in)
	if err != nil {
		return Assignment{}, start, err
	}
	if _, in, err = preceded(ws0, tag("="))(in); err != nil {
		return Assignment{}, start, err
	}
	op1, in, err := preceded(ws0, identifier)(in)
	if err != nil {
		return Assignment{}, start, err
	}
	if _, in, err = preceded(ws0, tag("+"))(in); err != nil {
		return Assignment{}, start, err
	}
	op2, in, err := preceded(ws0, identifier)(in)
	if err != nil {
		return Assignment{}, start, err
	}
	if _, in, err = preceded(ws0, tag(";"))(in); err != nil {
		return Assignment{}, start, err
	}
	return Assignment{LHS: lhs, RHS: op1 + " + " + op2}, in, nil
}

// statement matches either a declaration or an assignment, declarations first.
var statement = alt(
	mapped(signalDecl, func(s Signal) Statement { return s }),
	mapped(assignment, func(a Assignment) Statement { return a }),
)

var (
	declarations = many0(delimited(ws0, signalDecl, ws0))
	assignments  = many0(delimited(ws0, assignment, ws0))
	statements   = many0(delimited(ws0, statement, ws0))
)
