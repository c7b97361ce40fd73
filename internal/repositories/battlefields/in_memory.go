package battlefields

import (
	"context"
	"sync"

	"github.com/KirkDiggler/battlefield-terrain/internal/domain/battlefield"
	terrerr "github.com/KirkDiggler/battlefield-terrain/internal/errors"
)

// inMemoryRepository implements Repository using in-memory storage
type inMemoryRepository struct {
	mu      sync.RWMutex
	fields  map[string]*battlefield.Battlefield
	byOwner map[string]map[string]bool // ownerID -> set of battlefield IDs
}

// NewInMemoryRepository creates a new in-memory battlefield repository
func NewInMemoryRepository() Repository {
	return &inMemoryRepository{
		fields:  make(map[string]*battlefield.Battlefield),
		byOwner: make(map[string]map[string]bool),
	}
}

// Create stores a copy of the battlefield
func (r *inMemoryRepository) Create(ctx context.Context, field *battlefield.Battlefield) error {
	if err := validate(field); err != nil {
		return err
	}

	stored, err := clone(field)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.fields[field.ID]; exists {
		return terrerr.AlreadyExistsf("battlefield %s already exists", field.ID)
	}

	r.fields[field.ID] = stored
	if r.byOwner[field.OwnerID] == nil {
		r.byOwner[field.OwnerID] = make(map[string]bool)
	}
	r.byOwner[field.OwnerID][field.ID] = true

	return nil
}

// Get returns a copy of the stored battlefield
func (r *inMemoryRepository) Get(ctx context.Context, id string) (*battlefield.Battlefield, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	field, exists := r.fields[id]
	if !exists {
		return nil, terrerr.NotFoundf("battlefield not found: %s", id)
	}

	return clone(field)
}

// Update replaces the stored battlefield
func (r *inMemoryRepository) Update(ctx context.Context, field *battlefield.Battlefield) error {
	if err := validate(field); err != nil {
		return err
	}

	stored, err := clone(field)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	existing, exists := r.fields[field.ID]
	if !exists {
		return terrerr.NotFoundf("battlefield not found: %s", field.ID)
	}

	if existing.OwnerID != field.OwnerID {
		delete(r.byOwner[existing.OwnerID], field.ID)
		if r.byOwner[field.OwnerID] == nil {
			r.byOwner[field.OwnerID] = make(map[string]bool)
		}
		r.byOwner[field.OwnerID][field.ID] = true
	}
	r.fields[field.ID] = stored

	return nil
}

// Delete removes a battlefield
func (r *inMemoryRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	field, exists := r.fields[id]
	if !exists {
		return terrerr.NotFoundf("battlefield not found: %s", id)
	}

	delete(r.fields, id)
	delete(r.byOwner[field.OwnerID], id)

	return nil
}

// ListByOwner returns copies of an owner's battlefields
func (r *inMemoryRepository) ListByOwner(ctx context.Context, ownerID string) ([]*battlefield.Battlefield, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	fields := make([]*battlefield.Battlefield, 0, len(r.byOwner[ownerID]))
	for id := range r.byOwner[ownerID] {
		field, err := clone(r.fields[id])
		if err != nil {
			return nil, err
		}
		fields = append(fields, field)
	}
	sortByCreated(fields)

	return fields, nil
}
