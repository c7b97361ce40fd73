package terrain

import (
	"encoding/json"

	terrerr "github.com/KirkDiggler/battlefield-terrain/internal/errors"
)

type featureJSON struct {
	Kind        Kind       `json:"kind"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Rules       *string    `json:"rules,omitempty"`
	HasSubtype  bool       `json:"hasSubtype"`
	Subtype     *Feature   `json:"subtype,omitempty"`
	HasChildren bool       `json:"hasChildren"`
	Children    []*Feature `json:"children,omitempty"`
	Mysterious  bool       `json:"mysterious"`
}

// MarshalJSON implements json.Marshaler
func (f *Feature) MarshalJSON() ([]byte, error) {
	out := featureJSON{
		Kind:        f.kind,
		Name:        f.name,
		Description: f.description,
		HasSubtype:  f.HasSubtype(),
		Subtype:     f.subtype,
		HasChildren: f.HasChildren(),
		Children:    f.children,
		Mysterious:  f.mysterious,
	}
	if rules, ok := f.Rules(); ok {
		out.Rules = &rules
	}
	return json.Marshal(out)
}

// UnmarshalJSON implements json.Unmarshaler. The decoded node must satisfy
// the same invariants the constructors enforce.
func (f *Feature) UnmarshalJSON(data []byte) error {
	var in featureJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}

	if err := validateIdentity(in.Kind, in.Name); err != nil {
		return err
	}
	if in.HasSubtype && in.HasChildren {
		return terrerr.InvariantViolationf("%s has both a subtype and children", in.Name)
	}
	if in.HasSubtype != (in.Subtype != nil) {
		return terrerr.InvariantViolationf("%s subtype flag does not match its subtype", in.Name)
	}
	if in.Mysterious && in.Subtype != nil {
		return terrerr.InvariantViolationf("%s is mysterious but already has a subtype", in.Name)
	}
	if !in.HasChildren && len(in.Children) > 0 {
		return terrerr.InvariantViolationf("%s has children but is not a composite", in.Name)
	}
	if in.HasChildren && len(in.Children) == 0 {
		return terrerr.InvariantViolationf("composite %s has no children", in.Name)
	}
	if in.Mysterious && (in.HasChildren || in.HasSubtype) {
		return terrerr.InvariantViolationf("mysterious %s cannot carry a subtype or children", in.Name)
	}

	*f = Feature{
		kind:        in.Kind,
		name:        in.Name,
		description: in.Description,
		subtype:     in.Subtype,
		mysterious:  in.Mysterious,
	}
	if in.Rules != nil {
		f.rules = *in.Rules
	}
	if in.HasChildren {
		f.children = make([]*Feature, 0, len(in.Children))
		for i, child := range in.Children {
			if child == nil {
				return terrerr.InvariantViolationf("%s child %d is null", in.Name, i)
			}
			f.children = append(f.children, child)
		}
	}
	return nil
}
