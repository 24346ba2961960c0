package validation

import (
	"errors"
	"fmt"

	"golang.org/x/text/cases"
)

// ErrValidationFailed matches every *Failure.
var ErrValidationFailed = errors.New("validation failed")

// Mode decides whether a non-match is an error.
type Mode int

const (
	// Strict turns every non-match into a *Failure.
	Strict Mode = iota
	// Passthrough only reports the code.
	Passthrough
)

// ParsePassthrough parses the host's "False"/"True" passthrough enum.
func ParsePassthrough(s string) (Mode, error) {
	switch cases.Fold().String(s) {
	case "false":
		return Strict, nil
	case "true":
		return Passthrough, nil
	default:
		return Strict, fmt.Errorf("%w: passthrough must be \"False\" or \"True\", got %q", ErrInvalidConfiguration, s)
	}
}

func (m Mode) String() string {
	if m == Passthrough {
		return "passthrough"
	}
	return "strict"
}

// Input is everything a validation needs. There is no other state.
type Input struct {
	Protocol  Protocol
	Text      string
	Extracted string
	Mode      Mode
}

// Result reports the outcome of a validation.
type Result struct {
	Code     Code   `json:"code"`
	Expected string `json:"expected"`
	Actual   string `json:"actual"`
}

// Failure is returned in strict mode when the code is not CodeMatch.
type Failure struct {
	Code     Code
	Expected string
	Actual   string
}

func (f *Failure) Error() string {
	if f.Code == CodeEmpty {
		return "there is no extracted_text to check"
	}
	return fmt.Sprintf("extracted_text of %q does not match input text of %q", f.Actual, f.Expected)
}

// Is reports whether target is ErrValidationFailed.
func (f *Failure) Is(target error) bool { return target == ErrValidationFailed }

// Validate computes the expected address, compares it with the extracted
// text and applies the mode.
//
// A configuration error returns a zero Result. Otherwise Result is always
// populated; in strict mode a non-match additionally returns a *Failure.
func Validate(in Input) (Result, error) {
	expected, err := ExpectedAddress(in.Protocol, in.Text)
	if err != nil {
		return Result{}, err
	}

	res := Result{
		Code:     Compare(expected, in.Extracted),
		Expected: expected,
		Actual:   in.Extracted,
	}
	if in.Mode == Strict && res.Code != CodeMatch {
		return res, &Failure{Code: res.Code, Expected: expected, Actual: in.Extracted}
	}
	return res, nil
}
