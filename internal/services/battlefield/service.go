package battlefield

//go:generate mockgen -destination=mock/mock_service.go -package=mockbattlefield -source=service.go

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/KirkDiggler/battlefield-terrain/internal/dice"
	"github.com/KirkDiggler/battlefield-terrain/internal/domain/battlefield"
	"github.com/KirkDiggler/battlefield-terrain/internal/domain/terrain"
	"github.com/KirkDiggler/battlefield-terrain/internal/domain/terrain/catalog"
	"github.com/KirkDiggler/battlefield-terrain/internal/engine"
	"github.com/KirkDiggler/battlefield-terrain/internal/events"
	terrerr "github.com/KirkDiggler/battlefield-terrain/internal/errors"
	"github.com/KirkDiggler/battlefield-terrain/internal/logging"
	"github.com/KirkDiggler/battlefield-terrain/internal/repositories/battlefields"
	"github.com/KirkDiggler/battlefield-terrain/internal/rolllog"
	"github.com/KirkDiggler/battlefield-terrain/internal/uuid"
)

// Repository is an alias for the battlefield repository interface
type Repository = battlefields.Repository

// Service defines the battlefield service interface
type Service interface {
	// Generate rolls a new battlefield and stores it
	Generate(ctx context.Context, input *GenerateInput) (*battlefield.Battlefield, error)

	// Get retrieves a battlefield by ID
	Get(ctx context.Context, id string) (*battlefield.Battlefield, error)

	// Resolve settles the mysterious feature at path
	Resolve(ctx context.Context, id, path string) (*ResolveResult, error)

	// ResolveAll settles every mysterious feature still pending
	ResolveAll(ctx context.Context, id string) (*battlefield.Battlefield, error)

	// ReadLog returns the roll log of a battlefield
	ReadLog(ctx context.Context, id string) ([]string, error)

	// ListByOwner returns an owner's battlefields, oldest first
	ListByOwner(ctx context.Context, ownerID string) ([]*battlefield.Battlefield, error)

	// Delete removes a battlefield
	Delete(ctx context.Context, id string) error
}

// GenerateInput contains the data needed to generate a battlefield
type GenerateInput struct {
	OwnerID   string
	ChannelID string
	Seed      *int64         // optional, drawn from SeedSource when nil
	Kinds     []terrain.Kind // optional top-level table, catalog default when empty
}

// ResolveResult is the outcome of resolving one feature
type ResolveResult struct {
	Battlefield *battlefield.Battlefield
	Feature     *terrain.Feature
	Path        string
}

// ServiceConfig holds configuration for the battlefield service
type ServiceConfig struct {
	Repository    Repository       // Required
	Catalog       *catalog.Catalog // Required
	UUIDGenerator uuid.Generator   // Optional
	SeedSource    func() (int64, error)
	Clock         func() time.Time
	MaxRerolls    int
	Logger        *slog.Logger
	Events        *events.Bus // Optional, receives lifecycle events after each write
}

type service struct {
	mu            sync.Mutex
	repository    Repository
	catalog       *catalog.Catalog
	uuidGenerator uuid.Generator
	seedSource    func() (int64, error)
	clock         func() time.Time
	maxRerolls    int
	logger        *slog.Logger
	events        *events.Bus
}

// NewService creates a new battlefield service
func NewService(cfg *ServiceConfig) Service {
	if cfg == nil {
		panic("config cannot be nil")
	}
	if cfg.Repository == nil {
		panic("repository is required")
	}
	if cfg.Catalog == nil {
		panic("catalog is required")
	}

	svc := &service{
		repository:    cfg.Repository,
		catalog:       cfg.Catalog,
		uuidGenerator: cfg.UUIDGenerator,
		seedSource:    cfg.SeedSource,
		clock:         cfg.Clock,
		maxRerolls:    cfg.MaxRerolls,
		logger:        cfg.Logger,
		events:        cfg.Events,
	}

	if svc.uuidGenerator == nil {
		svc.uuidGenerator = uuid.NewGoogleUUIDGenerator()
	}
	if svc.seedSource == nil {
		svc.seedSource = dice.NewSeed
	}
	if svc.clock == nil {
		svc.clock = func() time.Time { return time.Now().UTC() }
	}

	return svc
}

func (s *service) log(ctx context.Context) *slog.Logger {
	if s.logger != nil {
		return s.logger
	}
	return logging.FromContext(ctx)
}

// Generate rolls a new battlefield and stores it
func (s *service) Generate(ctx context.Context, input *GenerateInput) (*battlefield.Battlefield, error) {
	if input == nil {
		return nil, terrerr.InvalidArgument("input cannot be nil")
	}
	if strings.TrimSpace(input.OwnerID) == "" {
		return nil, terrerr.InvalidArgument("owner ID is required")
	}

	var seed int64
	if input.Seed != nil {
		seed = *input.Seed
	} else {
		var err error
		seed, err = s.seedSource()
		if err != nil {
			return nil, terrerr.Wrap(err, "failed to draw seed")
		}
	}

	var cfg *engine.BattlefieldConfig
	if len(input.Kinds) > 0 {
		if _, err := s.catalog.Subset(input.Kinds); err != nil {
			return nil, terrerr.WrapWithCode(err, terrerr.CodeInvalidArgument, "invalid terrain kinds")
		}
		cfg = &engine.BattlefieldConfig{Kinds: input.Kinds}
	}

	roller := dice.NewRandomRoller(seed)
	gen := engine.New(&engine.Config{
		Catalog:    s.catalog,
		Roller:     roller,
		Log:        rolllog.New(),
		MaxRerolls: s.maxRerolls,
	})

	features, err := gen.GenerateBattlefield(cfg)
	if err != nil {
		return nil, terrerr.Wrap(err, "failed to generate battlefield").WithMeta("seed", seed)
	}

	now := s.clock()
	field := &battlefield.Battlefield{
		ID:        s.uuidGenerator.New(),
		OwnerID:   input.OwnerID,
		ChannelID: input.ChannelID,
		Seed:      seed,
		Draws:     roller.Draws(),
		Kinds:     append([]terrain.Kind(nil), input.Kinds...),
		Features:  features,
		Log:       gen.ReadLog(),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repository.Create(ctx, field); err != nil {
		return nil, terrerr.Wrap(err, "failed to create battlefield").
			WithMeta("battlefield_id", field.ID)
	}

	s.log(ctx).InfoContext(ctx, "generated battlefield",
		"battlefield_id", field.ID,
		"owner_id", field.OwnerID,
		"seed", seed,
		"pieces", field.PieceCount(),
		"pending", len(field.Pending()))

	if err := s.emit(ctx, events.EventTypeBattlefieldGenerated, field, "", ""); err != nil {
		return nil, err
	}

	return field, nil
}

// Get retrieves a battlefield by ID
func (s *service) Get(ctx context.Context, id string) (*battlefield.Battlefield, error) {
	if strings.TrimSpace(id) == "" {
		return nil, terrerr.InvalidArgument("battlefield ID is required")
	}

	field, err := s.repository.Get(ctx, id)
	if err != nil {
		return nil, terrerr.Wrapf(err, "failed to get battlefield '%s'", id).
			WithMeta("battlefield_id", id)
	}

	return field, nil
}

// Resolve settles the mysterious feature at path
func (s *service) Resolve(ctx context.Context, id, path string) (*ResolveResult, error) {
	if strings.TrimSpace(path) == "" {
		return nil, terrerr.InvalidArgument("feature path is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	field, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	feature, err := field.Feature(path)
	if err != nil {
		return nil, err
	}

	roller := dice.RestoreRandomRoller(field.Seed, field.Draws)
	gen := s.restore(field, roller)
	if err := gen.Resolve(feature); err != nil {
		return nil, terrerr.Wrapf(err, "failed to resolve %s", path).
			WithMeta("battlefield_id", id).
			WithMeta("path", path)
	}

	if err := s.save(ctx, field, roller, gen); err != nil {
		return nil, err
	}

	s.log(ctx).InfoContext(ctx, "resolved feature",
		"battlefield_id", id,
		"path", path,
		"result", resolvedName(feature))

	if err := s.emit(ctx, events.EventTypeFeatureResolved, field, path, resolvedName(feature)); err != nil {
		return nil, err
	}
	if field.IsSettled() {
		if err := s.emit(ctx, events.EventTypeBattlefieldSettled, field, "", ""); err != nil {
			return nil, err
		}
	}

	return &ResolveResult{Battlefield: field, Feature: feature, Path: path}, nil
}

// ResolveAll settles every mysterious feature still pending
func (s *service) ResolveAll(ctx context.Context, id string) (*battlefield.Battlefield, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	field, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if field.IsSettled() {
		return field, nil
	}

	roller := dice.RestoreRandomRoller(field.Seed, field.Draws)
	gen := s.restore(field, roller)
	resolved, err := gen.ResolvePending(field.Features)
	if err != nil {
		return nil, terrerr.Wrap(err, "failed to resolve battlefield").
			WithMeta("battlefield_id", id)
	}

	if err := s.save(ctx, field, roller, gen); err != nil {
		return nil, err
	}

	s.log(ctx).InfoContext(ctx, "resolved battlefield",
		"battlefield_id", id,
		"resolved", len(resolved))

	for _, p := range resolved {
		f, err := field.Feature(p)
		if err != nil {
			return nil, err
		}
		if err := s.emit(ctx, events.EventTypeFeatureResolved, field, p, resolvedName(f)); err != nil {
			return nil, err
		}
	}
	if err := s.emit(ctx, events.EventTypeBattlefieldSettled, field, "", ""); err != nil {
		return nil, err
	}

	return field, nil
}

// ReadLog returns the roll log of a battlefield
func (s *service) ReadLog(ctx context.Context, id string) ([]string, error) {
	field, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return append([]string(nil), field.Log...), nil
}

// ListByOwner returns an owner's battlefields, oldest first
func (s *service) ListByOwner(ctx context.Context, ownerID string) ([]*battlefield.Battlefield, error) {
	if strings.TrimSpace(ownerID) == "" {
		return nil, terrerr.InvalidArgument("owner ID is required")
	}

	fields, err := s.repository.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, terrerr.Wrapf(err, "failed to list battlefields for '%s'", ownerID).
			WithMeta("owner_id", ownerID)
	}

	return fields, nil
}

// Delete removes a battlefield
func (s *service) Delete(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return terrerr.InvalidArgument("battlefield ID is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.repository.Delete(ctx, id); err != nil {
		return terrerr.Wrapf(err, "failed to delete battlefield '%s'", id).
			WithMeta("battlefield_id", id)
	}

	s.log(ctx).InfoContext(ctx, "deleted battlefield", "battlefield_id", id)
	return s.emit(ctx, events.EventTypeBattlefieldDeleted, &battlefield.Battlefield{ID: id}, "", "")
}

// restore rebuilds the generator a battlefield was rolled with, picking up
// the seeded stream and the log where they stopped.
func (s *service) restore(field *battlefield.Battlefield, roller dice.Roller) *engine.Generator {
	return engine.New(&engine.Config{
		Catalog:    s.catalog,
		Roller:     roller,
		Log:        rolllog.FromEntries(field.Log),
		MaxRerolls: s.maxRerolls,
	})
}

func (s *service) save(ctx context.Context, field *battlefield.Battlefield, roller *dice.RandomRoller, gen *engine.Generator) error {
	field.Draws = roller.Draws()
	field.Log = gen.ReadLog()
	field.UpdatedAt = s.clock()

	if err := s.repository.Update(ctx, field); err != nil {
		return terrerr.Wrap(err, "failed to update battlefield").
			WithMeta("battlefield_id", field.ID)
	}
	return nil
}

// emit runs after the write it reports, so a listener failure is returned
// but the stored battlefield stays as it is.
func (s *service) emit(ctx context.Context, eventType events.EventType, field *battlefield.Battlefield, path, result string) error {
	if s.events == nil {
		return nil
	}

	err := s.events.Emit(ctx, events.Event{
		Type:          eventType,
		BattlefieldID: field.ID,
		OwnerID:       field.OwnerID,
		Seed:          field.Seed,
		Path:          path,
		Result:        result,
		Pending:       len(field.Pending()),
		At:            s.clock(),
	})
	if err != nil {
		return terrerr.Wrap(err, "event listener failed").
			WithMeta("battlefield_id", field.ID).
			WithMeta("event", string(eventType))
	}
	return nil
}

func resolvedName(f *terrain.Feature) string {
	if subtype, ok := f.Subtype(); ok {
		return subtype.Name()
	}
	return f.Name()
}
