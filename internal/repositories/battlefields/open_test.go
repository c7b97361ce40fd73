package battlefields_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KirkDiggler/battlefield-terrain/internal/config"
	terrerr "github.com/KirkDiggler/battlefield-terrain/internal/errors"
	"github.com/KirkDiggler/battlefield-terrain/internal/repositories/battlefields"
	"github.com/KirkDiggler/battlefield-terrain/internal/testutils"
)

func TestOpen(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name   string
		cfg    *config.StorageConfig
		driver string
	}{
		{
			name:   "memory",
			cfg:    &config.StorageConfig{Driver: config.DriverMemory},
			driver: config.DriverMemory,
		},
		{
			name:   "empty driver falls back to memory",
			cfg:    &config.StorageConfig{},
			driver: config.DriverMemory,
		},
		{
			name:   "sqlite",
			cfg:    &config.StorageConfig{Driver: config.DriverSQLite, SQLitePath: filepath.Join(t.TempDir(), "open.db")},
			driver: config.DriverSQLite,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, err := battlefields.Open(ctx, tt.cfg)
			require.NoError(t, err)
			defer func() { assert.NoError(t, store.Close()) }()

			assert.Equal(t, tt.driver, store.Driver)
			require.NoError(t, store.Create(ctx, testutils.CreateTestBattlefield("field-1", "user-1")))
			got, err := store.Get(ctx, "field-1")
			require.NoError(t, err)
			assert.Equal(t, "user-1", got.OwnerID)
		})
	}
}

func TestOpen_Errors(t *testing.T) {
	ctx := context.Background()

	_, err := battlefields.Open(ctx, nil)
	assert.True(t, terrerr.IsInvalidArgument(err))

	_, err = battlefields.Open(ctx, &config.StorageConfig{Driver: "postgres"})
	assert.True(t, terrerr.IsInvalidArgument(err))

	// nothing listens on port 1
	_, err = battlefields.Open(ctx, &config.StorageConfig{
		Driver: config.DriverRedis,
		Redis:  config.RedisConfig{Addr: "127.0.0.1:1"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to connect to redis")
}
