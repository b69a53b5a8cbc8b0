package session

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stemsi/erp-portal/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisBus(t *testing.T) {
	url := os.Getenv("TEST_REDIS_URL")
	if url == "" {
		t.Skip("TEST_REDIS_URL not set")
	}
	opt, err := redis.ParseURL(url)
	require.NoError(t, err)
	rdb := redis.NewClient(opt)
	defer rdb.Close()

	ctx := context.Background()
	bus := NewRedisBus(rdb, zerolog.Nop())
	events, cancel, err := bus.Subscribe(ctx, "redis-client")
	require.NoError(t, err)
	defer cancel()

	require.NoError(t, bus.Publish(ctx, Event{Type: EventSet, ClientID: "redis-client", Role: model.RoleAdmin}))

	select {
	case ev := <-events:
		assert.Equal(t, EventSet, ev.Type)
		assert.Equal(t, model.RoleAdmin, ev.Role)
	case <-time.After(5 * time.Second):
		t.Fatal("event not received")
	}
}
