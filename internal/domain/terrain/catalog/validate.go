package catalog

import (
	"github.com/KirkDiggler/battlefield-terrain/internal/dice"
	"github.com/KirkDiggler/battlefield-terrain/internal/domain/terrain"
	terrerr "github.com/KirkDiggler/battlefield-terrain/internal/errors"
)

// Validate checks the chart and builds its lookup indexes
func (c *Catalog) Validate() error {
	if c.Battlefield == nil {
		return terrerr.InvariantViolation("catalog has no battlefield section")
	}

	c.kinds = make(map[terrain.Kind]*Kind, len(c.Kinds))
	for _, k := range c.Kinds {
		if k == nil {
			return terrerr.InvariantViolation("catalog has an empty kind entry")
		}
		if k.Kind == "" || k.Name == "" {
			return terrerr.InvariantViolationf("kind %q needs both kind and name", k.Kind)
		}
		if _, dup := c.kinds[k.Kind]; dup {
			return terrerr.InvariantViolationf("duplicate kind %q", k.Kind)
		}
		c.kinds[k.Kind] = k
	}

	c.tables = make(map[string]*Table, len(c.Tables))
	for _, t := range c.Tables {
		if t == nil {
			return terrerr.InvariantViolation("catalog has an empty table entry")
		}
		if _, dup := c.tables[t.Name]; dup {
			return terrerr.InvariantViolationf("duplicate table %q", t.Name)
		}
		if err := c.validateTable(t); err != nil {
			return err
		}
		c.tables[t.Name] = t
	}

	for _, k := range c.Kinds {
		if err := c.validateKind(k); err != nil {
			return err
		}
	}

	n, err := dice.ParseNotation(c.Battlefield.Pieces)
	if err != nil {
		return terrerr.Wrap(err, "invalid battlefield piece count")
	}
	if n.Min() < 1 {
		return terrerr.InvariantViolationf("battlefield piece count %s can roll zero pieces", n)
	}
	c.Battlefield.notation = n

	if _, ok := c.tables[c.Battlefield.Table]; !ok {
		return terrerr.InvariantViolationf("battlefield table %q not found", c.Battlefield.Table)
	}

	return c.checkCycles()
}

func (c *Catalog) validateTable(t *Table) error {
	if t.Name == "" {
		return terrerr.InvariantViolation("table needs a name")
	}
	if len(t.Entries) == 0 {
		return terrerr.InvariantViolationf("table %q has no entries", t.Name)
	}
	if !dice.IsSupported(t.Sides) {
		return terrerr.InvariantViolationf("table %q uses unsupported d%d", t.Name, t.Sides)
	}
	if t.Dice < 1 {
		return terrerr.InvariantViolationf("table %q must roll at least one die", t.Name)
	}

	for _, e := range t.Entries {
		if _, ok := c.kinds[e]; !ok {
			return terrerr.InvariantViolationf("table %q references unknown kind %q", t.Name, e)
		}
	}

	switch t.Policy {
	case PolicyDirect:
		if t.Dice != 1 || len(t.Entries) != t.Sides {
			return terrerr.InvariantViolationf("direct table %q needs one d%d and %d entries, has %dd%d and %d",
				t.Name, t.Sides, t.Sides, t.Dice, t.Sides, len(t.Entries))
		}
	case PolicyOffsetSum:
		if span := t.Dice*t.Sides - t.Dice + 1; len(t.Entries) > span {
			return terrerr.InvariantViolationf("offset-sum table %q has %d entries but %dd%d only reaches %d",
				t.Name, len(t.Entries), t.Dice, t.Sides, span)
		}
	case PolicyRejection:
		if t.Dice != 1 || len(t.Entries) >= t.Sides {
			return terrerr.InvariantViolationf("rejection table %q needs one d%d and fewer than %d entries",
				t.Name, t.Sides, t.Sides)
		}
	default:
		return terrerr.InvariantViolationf("table %q has unknown policy %q", t.Name, t.Policy)
	}

	return nil
}

func (c *Catalog) validateKind(k *Kind) error {
	switch k.Shape {
	case ShapeLeaf:
		if k.Table != "" || k.Composite != nil {
			return terrerr.InvariantViolationf("leaf kind %q cannot have a table or parts", k.Kind)
		}
	case ShapeSubtype, ShapeMysterious:
		if k.Composite != nil {
			return terrerr.InvariantViolationf("kind %q cannot have parts", k.Kind)
		}
		if _, ok := c.tables[k.Table]; !ok {
			return terrerr.InvariantViolationf("kind %q references unknown table %q", k.Kind, k.Table)
		}
	case ShapeComposite:
		if k.Table != "" {
			return terrerr.InvariantViolationf("composite kind %q cannot have a table", k.Kind)
		}
		if k.Composite == nil || (len(k.Composite.Parts) == 0 && k.Composite.Closing == "") {
			return terrerr.InvariantViolationf("composite kind %q has no parts", k.Kind)
		}
		for _, p := range k.Composite.Parts {
			if p == nil {
				return terrerr.InvariantViolationf("composite kind %q has an empty part", k.Kind)
			}
			if _, ok := c.kinds[p.Kind]; !ok {
				return terrerr.InvariantViolationf("composite kind %q references unknown kind %q", k.Kind, p.Kind)
			}
			n, err := dice.ParseNotation(p.Dice)
			if err != nil {
				return terrerr.Wrapf(err, "composite kind %q part %q", k.Kind, p.Kind)
			}
			if n.Min() < 0 {
				return terrerr.InvariantViolationf("composite kind %q part %q can roll a negative count", k.Kind, p.Kind)
			}
			p.notation = n
		}
		if k.Composite.Closing != "" {
			if _, ok := c.kinds[k.Composite.Closing]; !ok {
				return terrerr.InvariantViolationf("composite kind %q closes with unknown kind %q",
					k.Kind, k.Composite.Closing)
			}
		}
	default:
		return terrerr.InvariantViolationf("kind %q has unknown shape %q", k.Kind, k.Shape)
	}

	return nil
}

// dependencies lists the kinds resolved immediately when k is resolved.
// Mysterious tables are deferred and do not recurse at generation time.
func (c *Catalog) dependencies(k *Kind) []terrain.Kind {
	switch k.Shape {
	case ShapeSubtype:
		return c.tables[k.Table].Entries
	case ShapeComposite:
		var deps []terrain.Kind
		for _, p := range k.Composite.Parts {
			deps = append(deps, p.Kind)
		}
		if k.Composite.Closing != "" {
			deps = append(deps, k.Composite.Closing)
		}
		return deps
	default:
		return nil
	}
}

func (c *Catalog) checkCycles() error {
	const (
		visiting = iota + 1
		done
	)
	state := make(map[terrain.Kind]int, len(c.kinds))

	var visit func(kind terrain.Kind) error
	visit = func(kind terrain.Kind) error {
		switch state[kind] {
		case visiting:
			return terrerr.InvariantViolationf("kind %q resolves into itself", kind)
		case done:
			return nil
		}
		state[kind] = visiting
		for _, dep := range c.dependencies(c.kinds[kind]) {
			if err := visit(dep); err != nil {
				return err
			}
		}
		state[kind] = done
		return nil
	}

	for _, k := range c.Kinds {
		if err := visit(k.Kind); err != nil {
			return err
		}
	}

	return nil
}
