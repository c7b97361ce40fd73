package testutils

import (
	"time"

	"github.com/KirkDiggler/battlefield-terrain/internal/domain/battlefield"
	"github.com/KirkDiggler/battlefield-terrain/internal/domain/terrain"
)

// CreateTestFeatures builds a small settled-and-pending forest:
// a building, an obstacle with a wall, and an unresolved mysterious forest
func CreateTestFeatures() []*terrain.Feature {
	building, _ := terrain.NewLeaf("building", "Building", "A watchtower, mansion or other similar 'ordinary' building.", "")
	wall, _ := terrain.NewLeaf("wall", "Wall", "Walls are a common sight.", "Walls are obstacles that grant hard cover.")
	obstacle, _ := terrain.NewWithSubtype("obstacle", "Obstacle", "Three 6\" sections of one of the following obstacles, roll a D6:", "", wall)
	forest, _ := terrain.NewMysterious("mysterious-forest", "Mysterious Forest", "Roll a further D6:", "Soft cover.")

	return []*terrain.Feature{building, obstacle, forest}
}

// CreateTestBattlefield creates a fully formed test battlefield
func CreateTestBattlefield(id, ownerID string) *battlefield.Battlefield {
	created := time.Date(2025, time.March, 14, 18, 30, 0, 0, time.UTC)
	return &battlefield.Battlefield{
		ID:        id,
		OwnerID:   ownerID,
		ChannelID: "channel-1",
		Seed:      42,
		Draws:     9,
		Features:  CreateTestFeatures(),
		Log: []string{
			"D6+4 Terrain Pieces [1]",
			"",
			"Rolling for 5 pieces of terrain...",
		},
		CreatedAt: created,
		UpdatedAt: created,
	}
}
