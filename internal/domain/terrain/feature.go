// Package terrain defines the node type of a generated battlefield: a terrain
// feature that may own one chosen subtype or a fixed list of child features.
package terrain

import (
	terrerr "github.com/KirkDiggler/battlefield-terrain/internal/errors"
)

// Kind identifies a catalog entry such as "hill" or "mysterious-forest"
type Kind string

// Feature is a node of the generated terrain tree.
//
// A feature is built fully formed by one of the constructors. The only later
// mutation is Settle, which gives a mysterious feature its subtype exactly
// once. A feature owns its subtype and children; nothing is shared.
type Feature struct {
	kind        Kind
	name        string
	description string
	rules       string
	subtype     *Feature
	children    []*Feature
	mysterious  bool
}

// NewLeaf creates a feature with neither subtype nor children
func NewLeaf(kind Kind, name, description, rules string) (*Feature, error) {
	if err := validateIdentity(kind, name); err != nil {
		return nil, err
	}
	return &Feature{
		kind:        kind,
		name:        name,
		description: description,
		rules:       rules,
	}, nil
}

// NewWithSubtype creates a feature whose identity is completed by subtype
func NewWithSubtype(kind Kind, name, description, rules string, subtype *Feature) (*Feature, error) {
	f, err := NewLeaf(kind, name, description, rules)
	if err != nil {
		return nil, err
	}
	if subtype == nil {
		return nil, terrerr.InvariantViolationf("%s requires a subtype", name).
			WithMeta("kind", string(kind))
	}
	f.subtype = subtype
	return f, nil
}

// NewComposite creates a feature owning a fixed list of children
func NewComposite(kind Kind, name, description, rules string, children []*Feature) (*Feature, error) {
	f, err := NewLeaf(kind, name, description, rules)
	if err != nil {
		return nil, err
	}
	if len(children) == 0 {
		return nil, terrerr.InvariantViolationf("%s requires children", name).
			WithMeta("kind", string(kind))
	}
	owned := make([]*Feature, len(children))
	for i, child := range children {
		if child == nil {
			return nil, terrerr.InvariantViolationf("%s child %d is nil", name, i).
				WithMeta("kind", string(kind))
		}
		owned[i] = child
	}
	f.children = owned
	return f, nil
}

// NewMysterious creates a feature whose subtype is chosen later by Settle.
// rules should describe the feature category rather than a specific variant.
func NewMysterious(kind Kind, name, description, rules string) (*Feature, error) {
	f, err := NewLeaf(kind, name, description, rules)
	if err != nil {
		return nil, err
	}
	f.mysterious = true
	return f, nil
}

func validateIdentity(kind Kind, name string) error {
	if kind == "" {
		return terrerr.InvariantViolation("feature kind is required")
	}
	if name == "" {
		return terrerr.InvariantViolationf("feature %s has no name", kind).
			WithMeta("kind", string(kind))
	}
	return nil
}

// Settle gives a mysterious feature its subtype. It is the only transition a
// feature makes after construction and it happens once: calling it on a
// feature that is not mysterious, including one already settled, fails with
// an unsupported operation error and leaves the feature untouched.
func (f *Feature) Settle(subtype *Feature) error {
	if !f.mysterious {
		return terrerr.UnsupportedOperationf("%s cannot be resolved", f.name).
			WithMeta("kind", string(f.kind)).
			WithMeta("already_resolved", f.subtype != nil)
	}
	if subtype == nil {
		return terrerr.InvariantViolationf("%s resolved without a subtype", f.name).
			WithMeta("kind", string(f.kind))
	}
	f.subtype = subtype
	f.mysterious = false
	return nil
}

// Kind returns the catalog kind of the feature
func (f *Feature) Kind() Kind {
	return f.kind
}

// Name returns the display label
func (f *Feature) Name() string {
	return f.name
}

// Description returns the flavor text, possibly empty
func (f *Feature) Description() string {
	return f.description
}

// Rules returns the rule text and whether the feature has any
func (f *Feature) Rules() (string, bool) {
	return f.rules, f.rules != ""
}

// HasSubtype reports whether a subtype has been chosen
func (f *Feature) HasSubtype() bool {
	return f.subtype != nil
}

// Subtype returns the chosen subtype. ok is false while the feature has
// none, which includes a mysterious feature that has not been settled.
func (f *Feature) Subtype() (subtype *Feature, ok bool) {
	return f.subtype, f.subtype != nil
}

// HasChildren reports whether the feature is a composite site
func (f *Feature) HasChildren() bool {
	return f.children != nil
}

// Children returns the composite's children in generation order
func (f *Feature) Children() []*Feature {
	if f.children == nil {
		return nil
	}
	out := make([]*Feature, len(f.children))
	copy(out, f.children)
	return out
}

// Mysterious reports whether the subtype is still waiting to be resolved
func (f *Feature) Mysterious() bool {
	return f.mysterious
}
