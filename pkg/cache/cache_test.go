package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKey(t *testing.T) {
	assert.Equal(t, "rooms:all", Key("rooms", "all"))
	assert.Equal(t, "rooms:2025-06-01:2", Key("rooms", "2025-06-01", "", "2"))
	assert.Empty(t, Key())
}

func TestNoop(t *testing.T) {
	c := NewNoop()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", []int{1}, time.Minute))

	var out []int
	found, err := c.Get(ctx, "k", &out)
	require.NoError(t, err)
	assert.False(t, found)
	assert.Nil(t, out)
	assert.NoError(t, c.Delete(ctx, "k"))
	assert.NoError(t, c.Close())
}

func TestNewRedis_Unreachable(t *testing.T) {
	// nothing listens on port 1
	_, err := NewRedis(context.Background(), "127.0.0.1:1", "", 0)
	assert.Error(t, err)
}
