package battlefields

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/KirkDiggler/battlefield-terrain/internal/domain/battlefield"
	terrerr "github.com/KirkDiggler/battlefield-terrain/internal/errors"
)

const (
	// Key patterns
	battlefieldKeyPrefix = "battlefield:"
	ownerBattlefieldsKey = "owner:%s:battlefields"
)

// RedisRepoConfig holds configuration for the Redis repository
type RedisRepoConfig struct {
	Client redis.UniversalClient
}

// redisRepository implements Repository using Redis
type redisRepository struct {
	client redis.UniversalClient
}

// NewRedisRepository creates a new Redis-backed battlefield repository
func NewRedisRepository(cfg *RedisRepoConfig) Repository {
	if cfg == nil || cfg.Client == nil {
		panic("redis client is required")
	}

	return &redisRepository{
		client: cfg.Client,
	}
}

// NewRedis creates a Redis-backed repository with default configuration
func NewRedis(client redis.UniversalClient) Repository {
	return NewRedisRepository(&RedisRepoConfig{Client: client})
}

func battlefieldKey(id string) string {
	return battlefieldKeyPrefix + id
}

func ownerKey(ownerID string) string {
	return fmt.Sprintf(ownerBattlefieldsKey, ownerID)
}

// Create stores a new battlefield and indexes it by owner
func (r *redisRepository) Create(ctx context.Context, field *battlefield.Battlefield) error {
	if err := validate(field); err != nil {
		return err
	}

	data, err := marshal(field)
	if err != nil {
		return err
	}

	created, err := r.client.SetNX(ctx, battlefieldKey(field.ID), string(data), 0).Result()
	if err != nil {
		return terrerr.Wrap(err, "failed to create battlefield")
	}
	if !created {
		return terrerr.AlreadyExistsf("battlefield %s already exists", field.ID)
	}

	// SetNX is the existence guard, so the index write follows it. A failed
	// index write takes the battlefield back out.
	if err := r.client.SAdd(ctx, ownerKey(field.OwnerID), field.ID).Err(); err != nil {
		indexErr := terrerr.Wrap(err, "failed to index battlefield").
			WithMeta("battlefield_id", field.ID)
		if delErr := r.client.Del(ctx, battlefieldKey(field.ID)).Err(); delErr != nil {
			return indexErr.WithMeta("rollback_error", delErr.Error())
		}
		return indexErr
	}

	return nil
}

// Get retrieves a battlefield by ID
func (r *redisRepository) Get(ctx context.Context, id string) (*battlefield.Battlefield, error) {
	data, err := r.client.Get(ctx, battlefieldKey(id)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, terrerr.NotFoundf("battlefield not found: %s", id)
		}
		return nil, terrerr.Wrap(err, "failed to get battlefield")
	}

	return unmarshal(data)
}

// Update replaces an existing battlefield. Owners never change after
// creation, so the owner index is left alone.
func (r *redisRepository) Update(ctx context.Context, field *battlefield.Battlefield) error {
	if err := validate(field); err != nil {
		return err
	}

	data, err := marshal(field)
	if err != nil {
		return err
	}

	updated, err := r.client.SetXX(ctx, battlefieldKey(field.ID), string(data), 0).Result()
	if err != nil {
		return terrerr.Wrap(err, "failed to update battlefield")
	}
	if !updated {
		return terrerr.NotFoundf("battlefield not found: %s", field.ID)
	}

	return nil
}

// Delete removes a battlefield and its owner index entry
func (r *redisRepository) Delete(ctx context.Context, id string) error {
	field, err := r.Get(ctx, id)
	if err != nil {
		return err
	}

	pipe := r.client.TxPipeline()
	pipe.Del(ctx, battlefieldKey(id))
	pipe.SRem(ctx, ownerKey(field.OwnerID), id)
	if _, err := pipe.Exec(ctx); err != nil {
		return terrerr.Wrap(err, "failed to delete battlefield")
	}

	return nil
}

// ListByOwner loads every battlefield in the owner index concurrently.
// Index entries whose battlefield is gone are skipped.
func (r *redisRepository) ListByOwner(ctx context.Context, ownerID string) ([]*battlefield.Battlefield, error) {
	ids, err := r.client.SMembers(ctx, ownerKey(ownerID)).Result()
	if err != nil {
		return nil, terrerr.Wrap(err, "failed to get owner battlefields")
	}

	fields := make([]*battlefield.Battlefield, len(ids))

	g, gctx := errgroup.WithContext(ctx)
	for i, id := range ids {
		g.Go(func() error {
			field, err := r.Get(gctx, id)
			if err != nil {
				if terrerr.IsNotFound(err) {
					return nil
				}
				return terrerr.Wrapf(err, "failed to get battlefield %s", id)
			}
			fields[i] = field
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]*battlefield.Battlefield, 0, len(fields))
	for _, field := range fields {
		if field != nil {
			out = append(out, field)
		}
	}
	sortByCreated(out)

	return out, nil
}
