package redis

import (
	"context"
	"testing"
	"time"

	"github.com/ecofoods/ecofoods-backend/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDisabledRedisIsNoop(t *testing.T) {
	require.NoError(t, Init(&config.RedisConfig{}))
	assert.False(t, Enabled())

	ctx := context.Background()
	assert.NoError(t, RevokeToken(ctx, "token", time.Hour))

	revoked, err := IsTokenRevoked(ctx, "token")
	require.NoError(t, err)
	assert.False(t, revoked)
	assert.NoError(t, Close())
}
