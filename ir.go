// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package hdlir

import "fmt"

// SignalType classifies a declared signal.
type SignalType int

const (
	Input SignalType = iota
	Output
	Register
)

func (t SignalType) String() string {
	switch t {
	case Input:
		return "input"
	case Output:
		return "output"
	case Register:
		return "reg"
	}
	return fmt.Sprintf("SignalType(%d)", int(t))
}

// MarshalText implements encoding.TextMarshaler using the source keyword.
func (t SignalType) MarshalText() ([]byte, error) {
	switch t {
	case Input, Output, Register:
		return []byte(t.String()), nil
	}
	return nil, fmt.Errorf("invalid signal type %d", int(t))
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *SignalType) UnmarshalText(text []byte) error {
	switch string(text) {
	case "input":
		*t = Input
	case "output":
		*t = Output
	case "reg":
		*t = Register
	default:
		return fmt.Errorf("invalid signal type %q", string(text))
	}
	return nil
}

// Signal is one declared signal.
type Signal struct {
	Name  string     `json:"name"`
	Type  SignalType `json:"type"`
	Width uint8      `json:"width"` // bit count
}

// Assignment binds LHS to the sum of two operands.
// RHS is always rebuilt as "op1 + op2", whatever the spacing in the source was.
// Nothing checks that the names refer to declared signals.
type Assignment struct {
	LHS string `json:"lhs"`
	RHS string `json:"rhs"`
}

// Module is the root of the IR. Signals and Assignments are in source order.
type Module struct {
	Name        string       `json:"name"`
	Signals     []Signal     `json:"signals"`
	Assignments []Assignment `json:"assignments"`
}

// Statement is either a Signal declaration or an Assignment.
// It is only produced when interleaving is enabled.
type Statement interface {
	isStatement()
}

func (Signal) isStatement()     {}
func (Assignment) isStatement() {}
