package cmd

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"skilllink/backend/cache"
	cachememory "skilllink/backend/cache/memory"
	"skilllink/backend/config"
	"skilllink/backend/events"
	"skilllink/backend/store/memory"
)

func TestLoadConfig_StoreFlagOverridesEnv(t *testing.T) {
	t.Setenv("STORE", "postgres")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("JWT_SECRET_KEY", "secret")

	storeFlag = ""
	_, err := loadConfig()
	require.Error(t, err, "postgres without DATABASE_URL is invalid")

	storeFlag = config.StoreMemory
	t.Cleanup(func() { storeFlag = "" })
	cfg, err := loadConfig()
	require.NoError(t, err)
	assert.Equal(t, config.StoreMemory, cfg.Store)
}

type pingBroker struct {
	*events.LocalBroker
	err error
}

func (b pingBroker) Ping() error { return b.err }

func TestProvideChecks(t *testing.T) {
	st := memory.New()

	checks := provideChecks(st, cachememory.New(cache.DefaultOptions()), events.NewLocalBroker())
	require.NotNil(t, checks.Database)
	assert.NoError(t, checks.Database(context.Background()))
	assert.Nil(t, checks.Cache, "in-process cache has nothing to ping")
	assert.Nil(t, checks.Broker, "local broker has nothing to ping")

	down := errors.New("nats: no servers available")
	checks = provideChecks(st, cachememory.New(cache.DefaultOptions()), pingBroker{events.NewLocalBroker(), down})
	require.NotNil(t, checks.Broker)
	assert.ErrorIs(t, checks.Broker(context.Background()), down)
}

func TestOpenStore_Memory(t *testing.T) {
	cfg := &config.Config{Store: config.StoreMemory}
	st, err := openStore(context.Background(), cfg, zap.NewNop(), true)
	require.NoError(t, err)
	assert.NoError(t, st.Ping(context.Background()))
	assert.NoError(t, st.Close())
}
