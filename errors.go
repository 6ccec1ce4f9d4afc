// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package hdlir

import (
	"errors"
	"fmt"
)

var (
	// ErrNoMatch is a grammar mismatch: an expected literal or token was not found.
	// Repetition stops quietly on it.
	ErrNoMatch = errors.New("no match")

	// ErrWidthOverflow means a bit-width does not fit in 8 bits.
	// It is a hard failure and ends the parse.
	ErrWidthOverflow = errors.New("width overflow")

	// ErrTrailingInput is returned for text after the closing brace
	// when strict trailing is enabled.
	ErrTrailingInput = errors.New("trailing input")
)

func noMatch(expected string) error {
	return fmt.Errorf("expected %s: %w", expected, ErrNoMatch)
}

// isSoft reports whether err may be recovered from by trying another alternative.
func isSoft(err error) bool {
	return errors.Is(err, ErrNoMatch)
}
