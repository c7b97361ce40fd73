// Package catalog holds the terrain chart: every feature kind, its text, and
// the dice tables that pick between them. The chart is data, so adding a kind
// or rebalancing a table never touches the resolver.
package catalog

import (
	"bytes"
	_ "embed"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/KirkDiggler/battlefield-terrain/internal/dice"
	"github.com/KirkDiggler/battlefield-terrain/internal/domain/terrain"
	terrerr "github.com/KirkDiggler/battlefield-terrain/internal/errors"
)

//go:embed catalog.yaml
var defaultCatalog []byte

// Shape describes how a kind is resolved
type Shape string

const (
	ShapeLeaf       Shape = "leaf"
	ShapeSubtype    Shape = "subtype"
	ShapeComposite  Shape = "composite"
	ShapeMysterious Shape = "mysterious"
)

// Policy maps a roll on a table to an entry index
type Policy string

const (
	// PolicyDirect uses roll-1 and requires one entry per face
	PolicyDirect Policy = "direct"
	// PolicyOffsetSum uses sum-dice and clamps to the last entry
	PolicyOffsetSum Policy = "offset-sum"
	// PolicyRejection rerolls any face past the last entry
	PolicyRejection Policy = "rejection"
)

// Kind is one entry of the chart
type Kind struct {
	Kind        terrain.Kind `yaml:"kind"`
	Name        string       `yaml:"name"`
	Description string       `yaml:"description"`
	Rules       string       `yaml:"rules,omitempty"`
	Shape       Shape        `yaml:"shape"`
	Table       string       `yaml:"table,omitempty"`
	Composite   *Composite   `yaml:"composite,omitempty"`
}

// Composite lists the parts rolled for a composite kind. Each part rolls its
// dice for a count and resolves that many of its kind; the closing kind is
// resolved once at the end.
type Composite struct {
	Parts   []*Part      `yaml:"parts"`
	Closing terrain.Kind `yaml:"closing,omitempty"`
}

// Part is a counted group inside a composite
type Part struct {
	Kind  terrain.Kind `yaml:"kind"`
	Dice  string       `yaml:"dice"`
	Label string       `yaml:"label"`

	notation dice.Notation
}

// Notation returns the parsed count dice. Only valid after Validate.
func (p *Part) Notation() dice.Notation {
	return p.notation
}

// Table is a dice table over kinds
type Table struct {
	Name      string         `yaml:"name"`
	Label     string         `yaml:"label"`
	Policy    Policy         `yaml:"policy"`
	Sides     int            `yaml:"sides"`
	Dice      int            `yaml:"dice"`
	LogResult bool           `yaml:"log_result"`
	Entries   []terrain.Kind `yaml:"entries"`
}

// Battlefield configures top-level generation
type Battlefield struct {
	Pieces      string `yaml:"pieces"`
	PiecesLabel string `yaml:"pieces_label"`
	Table       string `yaml:"table"`

	notation dice.Notation
}

// Notation returns the parsed piece count dice. Only valid after Validate.
func (b *Battlefield) Notation() dice.Notation {
	return b.notation
}

// Catalog is a validated terrain chart
type Catalog struct {
	Battlefield *Battlefield `yaml:"battlefield"`
	Tables      []*Table     `yaml:"tables"`
	Kinds       []*Kind      `yaml:"kinds"`

	tables map[string]*Table
	kinds  map[terrain.Kind]*Kind
}

// Load returns the built-in chart
func Load() (*Catalog, error) {
	return Parse(defaultCatalog)
}

// MustLoad is Load for package-level wiring and tests
func MustLoad() *Catalog {
	c, err := Load()
	if err != nil {
		panic(err)
	}
	return c
}

// Parse decodes and validates a chart. Unknown fields are rejected.
func Parse(data []byte) (*Catalog, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var c Catalog
	if err := dec.Decode(&c); err != nil {
		if err == io.EOF {
			return nil, terrerr.InvalidArgument("catalog is empty")
		}
		return nil, terrerr.WrapWithCode(err, terrerr.CodeInvalidArgument, "failed to decode catalog")
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}

	return &c, nil
}

// Kind looks up a kind
func (c *Catalog) Kind(kind terrain.Kind) (*Kind, bool) {
	k, ok := c.kinds[kind]
	return k, ok
}

// Table looks up a table by name
func (c *Catalog) Table(name string) (*Table, bool) {
	t, ok := c.tables[name]
	return t, ok
}

// TopLevel returns the table battlefield pieces are rolled on
func (c *Catalog) TopLevel() *Table {
	return c.tables[c.Battlefield.Table]
}

// Enabled returns the kinds a battlefield can roll directly, in table order
func (c *Catalog) Enabled() []terrain.Kind {
	top := c.TopLevel()
	out := make([]terrain.Kind, len(top.Entries))
	copy(out, top.Entries)
	return out
}

// Subset returns a copy of the chart whose top-level table only holds kinds.
// Every kind must already be known to the chart.
func (c *Catalog) Subset(kinds []terrain.Kind) (*Catalog, error) {
	if len(kinds) == 0 {
		return nil, terrerr.InvalidArgument("subset needs at least one kind")
	}
	for _, k := range kinds {
		if _, ok := c.kinds[k]; !ok {
			return nil, terrerr.InvalidArgumentf("unknown terrain kind %q", k).
				WithMeta("kind", string(k))
		}
	}

	top := *c.TopLevel()
	top.Entries = make([]terrain.Kind, len(kinds))
	copy(top.Entries, kinds)

	battlefield := *c.Battlefield
	out := &Catalog{
		Battlefield: &battlefield,
		Tables:      make([]*Table, len(c.Tables)),
		Kinds:       make([]*Kind, len(c.Kinds)),
	}
	for i, k := range c.Kinds {
		out.Kinds[i] = k.clone()
	}
	for i, t := range c.Tables {
		if t.Name == top.Name {
			out.Tables[i] = &top
			continue
		}
		out.Tables[i] = t
	}

	if err := out.Validate(); err != nil {
		return nil, terrerr.Wrap(err, "invalid terrain subset")
	}

	return out, nil
}

func (k *Kind) clone() *Kind {
	out := *k
	if k.Composite != nil {
		composite := *k.Composite
		composite.Parts = make([]*Part, len(k.Composite.Parts))
		for i, p := range k.Composite.Parts {
			part := *p
			composite.Parts[i] = &part
		}
		out.Composite = &composite
	}
	return &out
}
