// Copyright (c) 2025 Michael D Henderson. All rights reserved.

// Package hdlir parses a minimal hardware description language into an
// in-memory intermediate representation.
//
// A source holds exactly one module:
//
//	module adder {
//	    input a: u8;
//	    input b: u8;
//	    output sum: u8;
//	    sum = a + b;
//	}
//
// The parser is built from small recognizers. Each one takes the remaining
// text and returns what it recognized plus the new remainder.
package hdlir

import (
	"fmt"
	"log/slog"
)

type config struct {
	interleave     bool
	strictTrailing bool
	logger         *slog.Logger
}

type Option func(c *config) error

// WithInterleaving lets declarations and assignments appear in any order.
// The default requires every declaration to come before the first assignment.
func WithInterleaving(flag bool) Option {
	return func(c *config) error {
		c.interleave = flag
		return nil
	}
}

// WithStrictTrailing rejects anything but whitespace after the closing brace.
// The default ignores trailing text.
func WithStrictTrailing(flag bool) Option {
	return func(c *config) error {
		c.strictTrailing = flag
		return nil
	}
}

// WithLogger sets the logger used for debug output.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) error {
		if logger == nil {
			return fmt.Errorf("logger must not be nil")
		}
		c.logger = logger
		return nil
	}
}

// ParseModule parses text into a Module.
// Either the whole module is returned or an error is; never both.
func ParseModule(text string, options ...Option) (*Module, error) {
	c := &config{}
	for _, option := range options {
		if err := option(c); err != nil {
			return nil, err
		}
	}
	m, rest, err := c.module(NewText(text))
	if err != nil {
		return nil, fmt.Errorf("parse module: %w", err)
	}
	if _, rest, _ = ws0(rest); !rest.IsEmpty() {
		if c.strictTrailing {
			return nil, fmt.Errorf("parse module %q: %w after closing brace", m.Name, ErrTrailingInput)
		}
		c.debug("module %q: ignoring %d trailing bytes", m.Name, len(rest.String()))
	}
	return m, nil
}

// module is the entry recognizer:
//
//	ws 'module' ws1 ident ws '{' decl* assign* ws '}'
func (c *config) module(in Text) (*Module, Text, error) {
	start := in
	_, in, _ = ws0(in)
	_, in, err := tag("module")(in)
	if err != nil {
		return nil, start, err
	}
	if _, in, err = ws1(in); err != nil {
		return nil, start, err
	}
	name, in, err := identifier(in)
	if err != nil {
		return nil, start, err
	}
	_, in, _ = ws0(in)
	if _, in, err = tag("{")(in); err != nil {
		return nil, start, err
	}

	m := &Module{Name: name}
	if c.interleave {
		var stmts []Statement
		if stmts, in, err = statements(in); err != nil {
			return nil, start, err
		}
		m.Signals, m.Assignments = []Signal{}, []Assignment{}
		for _, stmt := range stmts {
			switch s := stmt.(type) {
			case Signal:
				m.Signals = append(m.Signals, s)
			case Assignment:
				m.Assignments = append(m.Assignments, s)
			}
		}
		c.debug("module %q: %d statements", name, len(stmts))
	} else {
		if m.Signals, in, err = declarations(in); err != nil {
			return nil, start, err
		}
		c.debug("module %q: %d declarations", name, len(m.Signals))
		if m.Assignments, in, err = assignments(in); err != nil {
			return nil, start, err
		}
		c.debug("module %q: %d assignments", name, len(m.Assignments))
	}

	// a body with no statements may still hold whitespace.
	_, in, _ = ws0(in)
	if _, in, err = tag("}")(in); err != nil {
		return nil, start, err
	}
	return m, in, nil
}

func (c *config) debug(format string, args ...any) {
	if c.logger == nil {
		return
	}
	c.logger.Debug(fmt.Sprintf(format, args...))
}
