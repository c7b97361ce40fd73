package engine

import (
	"github.com/KirkDiggler/battlefield-terrain/internal/dice"
	"github.com/KirkDiggler/battlefield-terrain/internal/domain/terrain"
	"github.com/KirkDiggler/battlefield-terrain/internal/domain/terrain/catalog"
	terrerr "github.com/KirkDiggler/battlefield-terrain/internal/errors"
)

// DirectIndex maps a single die roll onto a table of length entries
func DirectIndex(roll, length int) (int, error) {
	if length == 0 {
		return 0, terrerr.InvariantViolation("cannot roll on an empty table")
	}
	return checkIndex(roll-1, length)
}

// OffsetSumIndex maps the sum of dice rolls onto a table of length entries.
// The lowest possible sum selects the first entry and any sum past the end
// of the table selects the last one.
func OffsetSumIndex(sum, dice, length int) (int, error) {
	if length == 0 {
		return 0, terrerr.InvariantViolation("cannot roll on an empty table")
	}
	index := sum - dice
	if index >= length {
		index = length - 1
	}
	return checkIndex(index, length)
}

func checkIndex(index, length int) (int, error) {
	if index < 0 || index >= length {
		return 0, terrerr.InvariantViolationf("table index %d out of range for %d entries", index, length).
			WithMeta("index", index).
			WithMeta("length", length)
	}
	return index, nil
}

// rejectionIndex rerolls any face past the last entry. The loop gives up
// after maxRerolls rerolls.
func (g *Generator) rejectionIndex(t *catalog.Table) (int, error) {
	if len(t.Entries) == 0 {
		return 0, terrerr.InvariantViolationf("cannot roll on empty table %q", t.Name)
	}

	for attempt := 0; attempt <= g.maxRerolls; attempt++ {
		roll, err := g.cup.RollDie(t.Sides, t.Label)
		if err != nil {
			return 0, err
		}
		if roll-1 < len(t.Entries) {
			return checkIndex(roll-1, len(t.Entries))
		}
	}

	return 0, terrerr.InvariantViolationf("no usable roll on table %q after %d rerolls", t.Name, g.maxRerolls).
		WithMeta("table", t.Name)
}

func (g *Generator) directIndex(t *catalog.Table) (int, error) {
	roll, err := g.cup.RollDie(t.Sides, t.Label)
	if err != nil {
		return 0, err
	}
	return DirectIndex(roll, len(t.Entries))
}

// index rolls on a table with its policy
func (g *Generator) index(t *catalog.Table) (int, error) {
	switch t.Policy {
	case catalog.PolicyDirect:
		return g.directIndex(t)
	case catalog.PolicyOffsetSum:
		if len(t.Entries) == 0 {
			return 0, terrerr.InvariantViolationf("cannot roll on empty table %q", t.Name)
		}
		rolls, err := g.cup.RollDice(t.Sides, t.Dice, t.Label)
		if err != nil {
			return 0, err
		}
		return OffsetSumIndex(dice.Sum(rolls), t.Dice, len(t.Entries))
	case catalog.PolicyRejection:
		return g.rejectionIndex(t)
	default:
		return 0, terrerr.InvariantViolationf("table %q has unknown policy %q", t.Name, t.Policy)
	}
}

// resolveTable picks one entry of a table and instantiates it
func (g *Generator) resolveTable(t *catalog.Table) (*terrain.Feature, error) {
	i, err := g.index(t)
	if err != nil {
		return nil, err
	}
	return g.instantiate(t, i)
}

func (g *Generator) instantiate(t *catalog.Table, i int) (*terrain.Feature, error) {
	f, err := g.build(t.Entries[i])
	if err != nil {
		return nil, err
	}
	if t.LogResult {
		g.cup.Log().Appendf("Result: %s", f.Name())
	}
	return f, nil
}
