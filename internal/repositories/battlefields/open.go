package battlefields

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/KirkDiggler/battlefield-terrain/internal/config"
	terrerr "github.com/KirkDiggler/battlefield-terrain/internal/errors"
)

const redisPingTimeout = 5 * time.Second

// Store is a repository together with the connection behind it
type Store struct {
	Repository
	Driver string
	close  func() error
}

// Close releases the connection, if any
func (s *Store) Close() error {
	if s.close == nil {
		return nil
	}
	return s.close()
}

// Open builds the repository the storage config asks for. Redis is pinged
// before it is handed out.
func Open(ctx context.Context, cfg *config.StorageConfig) (*Store, error) {
	if cfg == nil {
		return nil, terrerr.InvalidArgument("storage config is required")
	}

	switch cfg.Driver {
	case config.DriverMemory, "":
		return &Store{Repository: NewInMemoryRepository(), Driver: config.DriverMemory}, nil

	case config.DriverRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})

		pingCtx, cancel := context.WithTimeout(ctx, redisPingTimeout)
		defer cancel()
		if err := client.Ping(pingCtx).Err(); err != nil {
			_ = client.Close()
			return nil, terrerr.Wrapf(err, "failed to connect to redis at %s", cfg.Redis.Addr).
				WithMeta("addr", cfg.Redis.Addr)
		}

		return &Store{Repository: NewRedis(client), Driver: config.DriverRedis, close: client.Close}, nil

	case config.DriverSQLite:
		repo, err := OpenSQLite(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		return &Store{Repository: repo, Driver: config.DriverSQLite, close: repo.Close}, nil

	default:
		return nil, terrerr.InvalidArgumentf("unknown storage driver %q", cfg.Driver)
	}
}
