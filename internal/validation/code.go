package validation

import "fmt"

// Code is the outcome of comparing extracted text with the expected address.
type Code int

const (
	CodeMatch    Code = 0
	CodeEmpty    Code = 1
	CodeMismatch Code = 2
)

// Compare classifies extracted against expected.
func Compare(expected, extracted string) Code {
	if extracted == "" {
		return CodeEmpty
	}
	if extracted != expected {
		return CodeMismatch
	}
	return CodeMatch
}

func (c Code) String() string {
	switch c {
	case CodeMatch:
		return "match"
	case CodeEmpty:
		return "empty"
	case CodeMismatch:
		return "mismatch"
	default:
		return fmt.Sprintf("Code(%d)", int(c))
	}
}
