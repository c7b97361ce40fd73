package battlefields

//go:generate mockgen -destination=mock/mock_repository.go -package=mockbattlefields -source=repository.go

import (
	"context"

	"github.com/KirkDiggler/battlefield-terrain/internal/domain/battlefield"
)

// Repository defines the interface for battlefield storage
type Repository interface {
	// Create stores a new battlefield. An existing ID is AlreadyExists.
	Create(ctx context.Context, field *battlefield.Battlefield) error

	// Get retrieves a battlefield by ID. A missing ID is NotFound.
	Get(ctx context.Context, id string) (*battlefield.Battlefield, error)

	// Update replaces a stored battlefield. A missing ID is NotFound.
	Update(ctx context.Context, field *battlefield.Battlefield) error

	// Delete removes a battlefield
	Delete(ctx context.Context, id string) error

	// ListByOwner returns an owner's battlefields, oldest first
	ListByOwner(ctx context.Context, ownerID string) ([]*battlefield.Battlefield, error)
}
