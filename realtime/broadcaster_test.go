package realtime

import (
	"context"
	"encoding/json"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisBroadcaster_FansOutAcrossInstances(t *testing.T) {
	url := os.Getenv("TEST_REDIS_URL")
	if url == "" {
		t.Skip("Skipping Redis tests: TEST_REDIS_URL not set")
	}
	opts, err := redis.ParseURL(url)
	require.NoError(t, err)
	client := redis.NewClient(opts)
	defer client.Close()

	channel := "chamber-test:" + uuid.NewString()
	hubA, hubB := NewHub(), NewHub()
	a := &RedisBroadcaster{client: client, hub: hubA, channel: channel}
	b := &RedisBroadcaster{client: client, hub: hubB, channel: channel}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = a.Run(ctx) }()
	go func() { _ = b.Run(ctx) }()

	onA, onB := testClient(16), testClient(16)
	require.True(t, hubA.Register(onA))
	require.True(t, hubB.Register(onB))
	hubA.Join(onA, RoomUser)
	hubB.Join(onB, RoomUser)

	// Subscriptions start asynchronously; keep emitting until both hubs see one.
	require.Eventually(t, func() bool {
		a.Emit("notice-created", map[string]string{"title": "T"}, RoomUser)
		return len(onA.send) > 0 && len(onB.send) > 0
	}, 5*time.Second, 100*time.Millisecond)

	var frame map[string]any
	require.NoError(t, json.Unmarshal(<-onB.send, &frame))
	assert.Equal(t, "notice-created", frame["event"])
}
