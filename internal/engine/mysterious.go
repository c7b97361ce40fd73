package engine

import (
	"github.com/KirkDiggler/battlefield-terrain/internal/domain/terrain"
	"github.com/KirkDiggler/battlefield-terrain/internal/domain/terrain/catalog"
	terrerr "github.com/KirkDiggler/battlefield-terrain/internal/errors"
)

// Resolve settles a mysterious feature by rolling on its kind's table.
// Anything that is not still mysterious, including a feature resolved
// earlier, fails with UnsupportedOperation and the log is left alone.
func (g *Generator) Resolve(f *terrain.Feature) error {
	if f == nil {
		return terrerr.InvalidArgument("feature is required")
	}
	if !f.Mysterious() {
		return terrerr.UnsupportedOperationf("%s cannot be resolved", f.Name()).
			WithMeta("kind", string(f.Kind())).
			WithMeta("already_resolved", f.HasSubtype())
	}

	spec, ok := g.catalog.Kind(f.Kind())
	if !ok || spec.Shape != catalog.ShapeMysterious {
		return terrerr.InvariantViolationf("terrain kind %q is not mysterious in the catalog", f.Kind())
	}
	table, err := g.table(spec)
	if err != nil {
		return err
	}

	log := g.cup.Log()
	mark := log.Len()
	subtype, err := g.settleRoll(table)
	if err == nil {
		err = f.Settle(subtype)
	}
	if err != nil {
		log.Truncate(mark)
		return err
	}
	return nil
}

// settleRoll writes the resolution trace and builds the chosen subtype
func (g *Generator) settleRoll(table *catalog.Table) (*terrain.Feature, error) {
	g.cup.Log().Separator()

	i, err := g.directIndex(table)
	if err != nil {
		return nil, err
	}
	subtype, err := g.build(table.Entries[i])
	if err != nil {
		return nil, err
	}
	g.cup.Log().Appendf("Result: %s", subtype.Name())
	return subtype, nil
}

// ResolvePending resolves every mysterious feature in the forest in
// generation order and returns the paths it resolved.
func (g *Generator) ResolvePending(features []*terrain.Feature) ([]string, error) {
	pending := terrain.Mysteries(features)
	for _, path := range pending {
		f, err := terrain.Locate(features, path)
		if err != nil {
			return nil, err
		}
		if err := g.Resolve(f); err != nil {
			return nil, terrerr.Wrapf(err, "failed to resolve %s", path)
		}
	}
	return pending, nil
}
