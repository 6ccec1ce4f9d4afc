package hdlir

import "fmt"

// Kind implements enums for tokens
type Kind int

const (
	UNKNOWN Kind = iota

	COLON
	EQUALS
	LEFTBRACE
	PLUS
	RIGHTBRACE
	SEMICOLON
	SPACE // run of whitespace, including end of line

	Identifier
	KwInput
	KwModule
	KwOutput
	KwReg
	Number

	EndOfInput // end of input
)

var kindNames = [...]string{
	UNKNOWN:    "UNKNOWN",
	COLON:      "COLON",
	EQUALS:     "EQUALS",
	LEFTBRACE:  "LEFTBRACE",
	PLUS:       "PLUS",
	RIGHTBRACE: "RIGHTBRACE",
	SEMICOLON:  "SEMICOLON",
	SPACE:      "SPACE",
	Identifier: "Identifier",
	KwInput:    "KwInput",
	KwModule:   "KwModule",
	KwOutput:   "KwOutput",
	KwReg:      "KwReg",
	Number:     "Number",
	EndOfInput: "EndOfInput",
}

func (k Kind) String() string {
	if 0 <= k && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// keywords maps reserved words to their token kind.
var keywords = map[string]Kind{
	"input":  KwInput,
	"module": KwModule,
	"output": KwOutput,
	"reg":    KwReg,
}

// punctuation maps single-rune delimiters to their token kind.
var punctuation = map[rune]Kind{
	':': COLON,
	'=': EQUALS,
	'{': LEFTBRACE,
	'+': PLUS,
	'}': RIGHTBRACE,
	';': SEMICOLON,
}
