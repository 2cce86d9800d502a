package brackets

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHub_PublishToRoom(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	tournamentID := uuid.New()
	room := RoomName(tournamentID)
	watcher := NewClient(hub, nil, room)
	other := NewClient(hub, nil, RoomName(uuid.New()))
	hub.Register <- watcher
	hub.Register <- other
	require.Eventually(t, func() bool { return hub.RoomSize(room) == 1 }, time.Second, 5*time.Millisecond)

	hub.Publish(tournamentID, EventMatchUpdated, map[string]string{"name": "Match #W1M1"})

	select {
	case raw := <-watcher.Send:
		var msg struct {
			Type    string            `json:"type"`
			Payload map[string]string `json:"payload"`
			RoomID  string            `json:"room_id"`
		}
		require.NoError(t, json.Unmarshal(raw, &msg))
		assert.Equal(t, EventMatchUpdated, msg.Type)
		assert.Equal(t, room, msg.RoomID)
		assert.Equal(t, "Match #W1M1", msg.Payload["name"])
	case <-time.After(time.Second):
		t.Fatal("watcher got nothing")
	}
	assert.Empty(t, other.Send)

	hub.Unregister <- watcher
	require.Eventually(t, func() bool { return hub.RoomSize(room) == 0 }, time.Second, 5*time.Millisecond)
	_, open := <-watcher.Send
	assert.False(t, open)
}

func TestRoomName(t *testing.T) {
	id := uuid.MustParse("6f1c2a9e-0a3b-4c55-9d2e-1b2c3d4e5f60")
	assert.Equal(t, "tournament_6f1c2a9e-0a3b-4c55-9d2e-1b2c3d4e5f60", RoomName(id))
}
