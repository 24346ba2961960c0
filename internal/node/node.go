// Package node exposes the QR read and validate operations as pipeline host
// nodes: static descriptors plus a registry keyed by stable identifiers.
package node

import (
	"context"
	"errors"
	"fmt"
	"image"
)

var (
	// ErrUnknownNode is returned for an identifier that is not registered.
	ErrUnknownNode = errors.New("node: unknown node")
	// ErrMissingInput is returned when a required input is absent.
	ErrMissingInput = errors.New("node: missing input")
	// ErrInputType is returned when an input value has the wrong Go type.
	ErrInputType = errors.New("node: wrong input type")
)

// Type is a host socket type.
type Type string

const (
	TypeImage  Type = "IMAGE"
	TypeString Type = "STRING"
	TypeInt    Type = "INT"
	TypeCombo  Type = "COMBO"
)

// Input describes one input socket or widget.
type Input struct {
	Name       string   `json:"name" yaml:"name"`
	Type       Type     `json:"type" yaml:"type"`
	Options    []string `json:"options,omitempty" yaml:"options,omitempty"`
	Default    string   `json:"default,omitempty" yaml:"default,omitempty"`
	Multiline  bool     `json:"multiline,omitempty" yaml:"multiline,omitempty"`
	ForceInput bool     `json:"force_input,omitempty" yaml:"force_input,omitempty"`
}

// Output describes one output socket.
type Output struct {
	Name string `json:"name" yaml:"name"`
	Type Type   `json:"type" yaml:"type"`
}

// Descriptor is the static metadata the host needs to present a node.
type Descriptor struct {
	ID          string   `json:"id" yaml:"id"`
	DisplayName string   `json:"display_name" yaml:"display_name"`
	Category    string   `json:"category" yaml:"category"`
	Function    string   `json:"function" yaml:"function"`
	Inputs      []Input  `json:"inputs" yaml:"inputs"`
	Outputs     []Output `json:"outputs" yaml:"outputs"`
}

// Node is a single executable host node.
type Node interface {
	Descriptor() Descriptor
	Run(ctx context.Context, in Values) (Values, error)
}

// Values maps socket names to values. Images are image.Image, strings are
// string and integers are int.
type Values map[string]any

// Image returns the named image input.
func (v Values) Image(name string) (image.Image, error) {
	raw, ok := v[name]
	if !ok || raw == nil {
		return nil, fmt.Errorf("%w: %s", ErrMissingInput, name)
	}
	img, ok := raw.(image.Image)
	if !ok {
		return nil, fmt.Errorf("%w: %s is %T, want image", ErrInputType, name, raw)
	}
	return img, nil
}

// String returns the named string input.
func (v Values) String(name string) (string, error) {
	raw, ok := v[name]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrMissingInput, name)
	}
	s, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("%w: %s is %T, want string", ErrInputType, name, raw)
	}
	return s, nil
}

// Int returns the named integer value.
func (v Values) Int(name string) (int, error) {
	raw, ok := v[name]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrMissingInput, name)
	}
	n, ok := raw.(int)
	if !ok {
		return 0, fmt.Errorf("%w: %s is %T, want int", ErrInputType, name, raw)
	}
	return n, nil
}

// withDefaults fills absent combo inputs with their declared default.
func withDefaults(d Descriptor, in Values) Values {
	out := make(Values, len(in)+len(d.Inputs))
	for k, v := range in {
		out[k] = v
	}
	for _, socket := range d.Inputs {
		if _, ok := out[socket.Name]; ok {
			continue
		}
		if socket.Type == TypeCombo && socket.Default != "" {
			out[socket.Name] = socket.Default
		}
	}
	return out
}
