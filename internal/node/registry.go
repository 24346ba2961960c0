package node

import (
	"context"
	"errors"
	"fmt"

	"github.com/MeKo-Tech/qrnode/internal/barcode"
)

// Registry is the read-only set of nodes, indexed by identifier.
type Registry struct {
	byID  map[string]Node
	order []string
}

// NewRegistry indexes nodes by descriptor ID. IDs must be unique and non-empty.
func NewRegistry(nodes ...Node) (*Registry, error) {
	r := &Registry{byID: make(map[string]Node, len(nodes))}
	for _, n := range nodes {
		if n == nil {
			return nil, errors.New("node: nil node")
		}
		id := n.Descriptor().ID
		if id == "" {
			return nil, errors.New("node: empty id")
		}
		if _, ok := r.byID[id]; ok {
			return nil, fmt.Errorf("node: duplicate id %q", id)
		}
		r.byID[id] = n
		r.order = append(r.order, id)
	}
	return r, nil
}

// NewDefaultRegistry returns the registry holding the read and validate nodes.
// library becomes the read node's default library ("" keeps the built-in one).
func NewDefaultRegistry(opts barcode.Options, library string) *Registry {
	r, err := NewRegistry(NewReadNode(opts).WithLibrary(library), NewValidateNode())
	if err != nil {
		// Both IDs are constants; a failure here is a programming error.
		panic(err)
	}
	return r
}

// IDs returns node identifiers in registration order.
func (r *Registry) IDs() []string {
	return append([]string(nil), r.order...)
}

// Get returns the node registered under id.
func (r *Registry) Get(id string) (Node, bool) {
	n, ok := r.byID[id]
	return n, ok
}

// ClassMappings maps each identifier to its node.
func (r *Registry) ClassMappings() map[string]Node {
	out := make(map[string]Node, len(r.byID))
	for id, n := range r.byID {
		out[id] = n
	}
	return out
}

// DisplayNameMappings maps each identifier to its human-readable name.
func (r *Registry) DisplayNameMappings() map[string]string {
	out := make(map[string]string, len(r.byID))
	for id, n := range r.byID {
		out[id] = n.Descriptor().DisplayName
	}
	return out
}

// Descriptors returns all descriptors in registration order.
func (r *Registry) Descriptors() []Descriptor {
	out := make([]Descriptor, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.byID[id].Descriptor())
	}
	return out
}

// Run executes the node registered under id. Absent combo inputs take
// their declared default.
func (r *Registry) Run(ctx context.Context, id string, in Values) (Values, error) {
	n, ok := r.Get(id)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownNode, id)
	}
	return n.Run(ctx, withDefaults(n.Descriptor(), in))
}
