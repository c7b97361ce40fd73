package battlefield

import (
	"time"

	"github.com/KirkDiggler/battlefield-terrain/internal/domain/terrain"
	terrerr "github.com/KirkDiggler/battlefield-terrain/internal/errors"
)

// Battlefield is one generated set of terrain and the rolls that produced it
type Battlefield struct {
	ID        string             `json:"id"`
	OwnerID   string             `json:"owner_id"`   // Discord user or CLI user who generated it
	ChannelID string             `json:"channel_id"` // Discord channel the field was posted in
	Seed      int64              `json:"seed"`
	Draws     int64              `json:"draws"` // Values drawn from the seeded stream so far
	Kinds     []terrain.Kind     `json:"kinds,omitempty"`
	Features  []*terrain.Feature `json:"features"`
	Log       []string           `json:"log"`
	CreatedAt time.Time          `json:"created_at"`
	UpdatedAt time.Time          `json:"updated_at"`
}

// Pending returns the paths of features still waiting to be resolved
func (b *Battlefield) Pending() []string {
	return terrain.Mysteries(b.Features)
}

// IsSettled reports whether nothing is left to resolve
func (b *Battlefield) IsSettled() bool {
	return len(b.Pending()) == 0
}

// Feature finds a feature by its path
func (b *Battlefield) Feature(path string) (*terrain.Feature, error) {
	f, err := terrain.Locate(b.Features, path)
	if err != nil {
		return nil, terrerr.Wrapf(err, "battlefield %s", b.ID).WithMeta("battlefield_id", b.ID)
	}
	return f, nil
}

// PieceCount is the number of top-level terrain pieces
func (b *Battlefield) PieceCount() int {
	return len(b.Features)
}
