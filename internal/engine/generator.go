// Package engine turns the terrain catalog into feature trees by rolling on
// its tables. A Generator owns one roller and one roll log; concurrent runs
// each need their own Generator.
package engine

import (
	"github.com/KirkDiggler/battlefield-terrain/internal/dice"
	"github.com/KirkDiggler/battlefield-terrain/internal/domain/terrain"
	"github.com/KirkDiggler/battlefield-terrain/internal/domain/terrain/catalog"
	terrerr "github.com/KirkDiggler/battlefield-terrain/internal/errors"
	"github.com/KirkDiggler/battlefield-terrain/internal/rolllog"
)

// DefaultMaxRerolls bounds the rejection policy retry loop
const DefaultMaxRerolls = 100

// Config holds the dependencies for a Generator
type Config struct {
	Catalog    *catalog.Catalog
	Roller     dice.Roller
	Log        *rolllog.Log // optional, a fresh log when nil
	MaxRerolls int          // optional, DefaultMaxRerolls when zero
}

// Generator resolves catalog tables into terrain features
type Generator struct {
	catalog    *catalog.Catalog
	cup        *dice.Cup
	maxRerolls int
}

// New creates a generator. Catalog and Roller are required.
func New(cfg *Config) *Generator {
	if cfg == nil {
		panic("config cannot be nil")
	}
	if cfg.Catalog == nil {
		panic("catalog is required")
	}
	if cfg.Roller == nil {
		panic("roller is required")
	}

	maxRerolls := cfg.MaxRerolls
	if maxRerolls <= 0 {
		maxRerolls = DefaultMaxRerolls
	}

	return &Generator{
		catalog:    cfg.Catalog,
		cup:        dice.NewCup(cfg.Roller, cfg.Log),
		maxRerolls: maxRerolls,
	}
}

// Log returns the roll log this generator writes to
func (g *Generator) Log() *rolllog.Log {
	return g.cup.Log()
}

// ReadLog returns every trace recorded so far, oldest first
func (g *Generator) ReadLog() []string {
	return g.cup.Log().Entries()
}

// BattlefieldConfig selects the top-level table for a run
type BattlefieldConfig struct {
	// Kinds is the ordered top-level table. Empty means the catalog default.
	Kinds []terrain.Kind
}

// DefaultBattlefieldConfig uses the catalog's enabled kinds
func DefaultBattlefieldConfig(c *catalog.Catalog) *BattlefieldConfig {
	return &BattlefieldConfig{Kinds: c.Enabled()}
}

// GenerateBattlefield rolls the number of pieces and resolves each one on
// the top-level table, returning the features in generation order.
func (g *Generator) GenerateBattlefield(cfg *BattlefieldConfig) ([]*terrain.Feature, error) {
	run := g
	if cfg != nil && len(cfg.Kinds) > 0 {
		sub, err := g.catalog.Subset(cfg.Kinds)
		if err != nil {
			return nil, err
		}
		scoped := *g
		scoped.catalog = sub
		run = &scoped
	}

	field := run.catalog.Battlefield
	pieces, err := run.cup.RollNotation(field.Notation(), field.PiecesLabel)
	if err != nil {
		return nil, terrerr.Wrap(err, "failed to roll terrain pieces")
	}

	log := run.cup.Log()
	log.Separator()
	log.Appendf("Rolling for %d pieces of terrain...", pieces)

	top := run.catalog.TopLevel()
	features := make([]*terrain.Feature, 0, pieces)
	for i := 0; i < pieces; i++ {
		f, err := run.resolveTable(top)
		if err != nil {
			return nil, terrerr.Wrapf(err, "failed to generate terrain piece %d", i+1)
		}
		features = append(features, f)
	}

	return features, nil
}

// build instantiates a kind, resolving whatever it depends on
func (g *Generator) build(kind terrain.Kind) (*terrain.Feature, error) {
	spec, ok := g.catalog.Kind(kind)
	if !ok {
		return nil, terrerr.InvariantViolationf("unknown terrain kind %q", kind)
	}

	switch spec.Shape {
	case catalog.ShapeLeaf:
		return terrain.NewLeaf(spec.Kind, spec.Name, spec.Description, spec.Rules)
	case catalog.ShapeSubtype:
		table, err := g.table(spec)
		if err != nil {
			return nil, err
		}
		subtype, err := g.resolveTable(table)
		if err != nil {
			return nil, err
		}
		return terrain.NewWithSubtype(spec.Kind, spec.Name, spec.Description, spec.Rules, subtype)
	case catalog.ShapeComposite:
		return g.buildComposite(spec)
	case catalog.ShapeMysterious:
		return terrain.NewMysterious(spec.Kind, spec.Name, spec.Description, spec.Rules)
	default:
		return nil, terrerr.InvariantViolationf("terrain kind %q has unknown shape %q", kind, spec.Shape)
	}
}

func (g *Generator) table(spec *catalog.Kind) (*catalog.Table, error) {
	table, ok := g.catalog.Table(spec.Table)
	if !ok {
		return nil, terrerr.InvariantViolationf("terrain kind %q references missing table %q", spec.Kind, spec.Table)
	}
	return table, nil
}
