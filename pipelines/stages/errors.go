// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package stages

import (
	"errors"
	"fmt"

	"github.com/mdhender/hdlir"
)

// ErrReadFile is returned when file I/O operations fail.
type ErrReadFile struct {
	Op   string // collect, read
	Path string
	Err  error
}

func (e *ErrReadFile) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *ErrReadFile) Unwrap() error {
	return e.Err
}

// ErrDatabase is returned when database operations fail.
type ErrDatabase struct {
	Op  string
	Err error
}

func (e *ErrDatabase) Error() string {
	return fmt.Sprintf("database %s: %v", e.Op, e.Err)
}

func (e *ErrDatabase) Unwrap() error {
	return e.Err
}

// ErrParseSyntax is returned when a source does not parse.
type ErrParseSyntax struct {
	Path string
	Err  error
}

func (e *ErrParseSyntax) Error() string {
	return fmt.Sprintf("parse %s: %v", e.Path, e.Err)
}

func (e *ErrParseSyntax) Unwrap() error {
	return e.Err
}

// ErrContract is returned when a parsed module fails schema validation.
type ErrContract struct {
	Path string
	Err  error
}

func (e *ErrContract) Error() string {
	return fmt.Sprintf("contract %s: %v", e.Path, e.Err)
}

func (e *ErrContract) Unwrap() error {
	return e.Err
}

// Error code constants for reporting.
const (
	ErrCodeReadFile      = "READ_FILE"
	ErrCodeDatabase      = "DATABASE"
	ErrCodeParseSyntax   = "PARSE_SYNTAX_ERROR"
	ErrCodeWidthOverflow = "WIDTH_OVERFLOW"
	ErrCodeContract      = "CONTRACT"
	ErrCodeUnknown       = "UNKNOWN"
)

// ErrorCode returns the error code string for a given error.
func ErrorCode(err error) string {
	switch e := err.(type) {
	case *ErrReadFile:
		return ErrCodeReadFile
	case *ErrDatabase:
		return ErrCodeDatabase
	case *ErrParseSyntax:
		if errors.Is(e.Err, hdlir.ErrWidthOverflow) {
			return ErrCodeWidthOverflow
		}
		return ErrCodeParseSyntax
	case *ErrContract:
		return ErrCodeContract
	default:
		return ErrCodeUnknown
	}
}
