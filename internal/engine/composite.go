package engine

import (
	"github.com/KirkDiggler/battlefield-terrain/internal/domain/terrain"
	"github.com/KirkDiggler/battlefield-terrain/internal/domain/terrain/catalog"
	terrerr "github.com/KirkDiggler/battlefield-terrain/internal/errors"
)

// buildComposite rolls every part count first, then builds the parts in
// order followed by the closing kind.
func (g *Generator) buildComposite(spec *catalog.Kind) (*terrain.Feature, error) {
	if spec.Composite == nil {
		return nil, terrerr.InvariantViolationf("composite kind %q has no parts", spec.Kind)
	}

	counts := make([]int, len(spec.Composite.Parts))
	total := 0
	for i, part := range spec.Composite.Parts {
		count, err := g.cup.RollNotation(part.Notation(), part.Label)
		if err != nil {
			return nil, terrerr.Wrapf(err, "failed to roll %s count", part.Kind)
		}
		counts[i] = count
		total += count
	}

	children := make([]*terrain.Feature, 0, total+1)
	for i, part := range spec.Composite.Parts {
		for n := 0; n < counts[i]; n++ {
			child, err := g.build(part.Kind)
			if err != nil {
				return nil, err
			}
			children = append(children, child)
		}
	}

	if spec.Composite.Closing != "" {
		closing, err := g.build(spec.Composite.Closing)
		if err != nil {
			return nil, err
		}
		children = append(children, closing)
	}

	return terrain.NewComposite(spec.Kind, spec.Name, spec.Description, spec.Rules, children)
}
