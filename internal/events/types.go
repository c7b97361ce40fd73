package events

import (
	"time"
)

// EventType names something that happened to a battlefield
type EventType string

// Battlefield lifecycle events
const (
	EventTypeBattlefieldGenerated EventType = "battlefield_generated"
	EventTypeFeatureResolved      EventType = "feature_resolved"
	EventTypeBattlefieldSettled   EventType = "battlefield_settled"
	EventTypeBattlefieldDeleted   EventType = "battlefield_deleted"
)

// Event is emitted after the change it describes has been stored
type Event struct {
	Type          EventType
	BattlefieldID string
	OwnerID       string
	Seed          int64
	Path          string // resolved feature, empty for whole-battlefield events
	Result        string // name the feature resolved to
	Pending       int    // mysterious features still unresolved
	At            time.Time
}
