package barcode

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrMissingDependency reports that a decoding library is not available in
	// this build or on this system. It is distinct from "no code found".
	ErrMissingDependency = errors.New("barcode: decoder dependency missing")

	// ErrInvalidConfiguration reports an unsupported library or format name.
	ErrInvalidConfiguration = errors.New("barcode: invalid configuration")
)

// MissingDependencyError carries a remediation hint for a decoder that cannot run.
type MissingDependencyError struct {
	Library     string
	Remediation string
}

func (e *MissingDependencyError) Error() string {
	return fmt.Sprintf("barcode: the %s decoder is not available: %s", e.Library, e.Remediation)
}

// Is reports whether target is ErrMissingDependency.
func (e *MissingDependencyError) Is(target error) bool { return target == ErrMissingDependency }

// UnsupportedLibraryError is returned when a caller selects a library that has
// no registered backend.
type UnsupportedLibraryError struct {
	Library   string
	Supported []string
}

func (e *UnsupportedLibraryError) Error() string {
	return fmt.Sprintf("barcode: unsupported library %q (this build only supports: %s)",
		e.Library, strings.Join(e.Supported, ", "))
}

// Is reports whether target is ErrInvalidConfiguration.
func (e *UnsupportedLibraryError) Is(target error) bool { return target == ErrInvalidConfiguration }
