// Package validation compares decoded text against an expected address.
//
// The expected address is a protocol prefix followed by free text. The
// outcome is a tri-state Code; in strict mode any non-match is also reported
// as a *Failure error, in passthrough mode it never is.
package validation

import (
	"errors"
	"fmt"

	"golang.org/x/text/cases"
)

// ErrInvalidConfiguration reports an unknown protocol or passthrough value.
var ErrInvalidConfiguration = errors.New("validation: invalid configuration")

// Protocol selects the prefix of the expected address.
type Protocol int

const (
	ProtocolHTTPS Protocol = iota
	ProtocolHTTP
	ProtocolNone
)

// Protocols lists the valid protocols in the order the host presents them.
var Protocols = []Protocol{ProtocolHTTP, ProtocolHTTPS, ProtocolNone}

// ParseProtocol parses "Https", "Http" or "None". Matching ignores case.
func ParseProtocol(s string) (Protocol, error) {
	// A Caser is stateful, so each call gets its own.
	switch cases.Fold().String(s) {
	case "https":
		return ProtocolHTTPS, nil
	case "http":
		return ProtocolHTTP, nil
	case "none":
		return ProtocolNone, nil
	default:
		return 0, fmt.Errorf("%w: unknown protocol %q (must be one of Http, Https, None)", ErrInvalidConfiguration, s)
	}
}

// String returns the host spelling of the protocol.
func (p Protocol) String() string {
	switch p {
	case ProtocolHTTPS:
		return "Https"
	case ProtocolHTTP:
		return "Http"
	case ProtocolNone:
		return "None"
	default:
		return fmt.Sprintf("Protocol(%d)", int(p))
	}
}

// Prefix returns the address prefix for p.
func (p Protocol) Prefix() (string, error) {
	switch p {
	case ProtocolHTTPS:
		return "https://", nil
	case ProtocolHTTP:
		return "http://", nil
	case ProtocolNone:
		return "", nil
	default:
		return "", fmt.Errorf("%w: unknown protocol %d", ErrInvalidConfiguration, int(p))
	}
}

// ExpectedAddress joins the protocol prefix and text.
func ExpectedAddress(p Protocol, text string) (string, error) {
	prefix, err := p.Prefix()
	if err != nil {
		return "", err
	}
	return prefix + text, nil
}
