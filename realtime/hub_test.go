package realtime

import (
	"encoding/json"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/galera-volei/galera-system/models"
)

func testHub() *Hub {
	return NewHub(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// subscribe attaches a bare client to a room without a live connection;
// frames are read straight off the send channel.
func subscribe(h *Hub, room string) *Client {
	c := &Client{hub: h, send: make(chan []byte, 16), room: room}
	if _, ok := h.rooms[room]; !ok {
		h.rooms[room] = make(map[*Client]bool)
	}
	h.rooms[room][c] = true
	return c
}

func receive(t *testing.T, c *Client) Event {
	t.Helper()
	select {
	case frame := <-c.send:
		var event Event
		require.NoError(t, json.Unmarshal(frame, &event))
		return event
	default:
		t.Fatal("no frame delivered")
		return Event{}
	}
}

func TestNotifyMatchStatusReachesMatchRoomAndLobby(t *testing.T) {
	h := testHub()
	watcher := subscribe(h, MatchRoom(42))
	lobby := subscribe(h, LobbyRoom)
	other := subscribe(h, MatchRoom(99))

	h.NotifyMatchStatus(42, models.MatchStatusScheduled, models.MatchStatusInProgress)

	event := receive(t, watcher)
	assert.Equal(t, EventMatchStatus, event.Type)
	assert.Equal(t, MatchRoom(42), event.Room)

	lobbyEvent := receive(t, lobby)
	assert.Equal(t, LobbyRoom, lobbyEvent.Room)

	assert.Empty(t, other.send)
}

func TestNotifyMatchStatusPayload(t *testing.T) {
	h := testHub()
	watcher := subscribe(h, MatchRoom(7))

	h.NotifyMatchStatus(7, models.MatchStatusInProgress, models.MatchStatusFinished)

	event := receive(t, watcher)
	raw, err := json.Marshal(event.Payload)
	require.NoError(t, err)
	var payload MatchStatusPayload
	require.NoError(t, json.Unmarshal(raw, &payload))

	assert.Equal(t, 7, payload.MatchID)
	assert.Equal(t, models.MatchStatusInProgress, payload.From)
	assert.Equal(t, models.MatchStatusFinished, payload.To)
}

func TestSlowSubscriberDoesNotBlockBroadcast(t *testing.T) {
	h := testHub()
	slow := &Client{hub: h, send: make(chan []byte), room: LobbyRoom} // unbuffered, never read
	h.rooms[LobbyRoom] = map[*Client]bool{slow: true}
	healthy := subscribe(h, LobbyRoom)

	h.NotifyMatchStatus(1, models.MatchStatusScheduled, models.MatchStatusCancelled)

	// The healthy subscriber still gets the frame; the slow one is skipped.
	receive(t, healthy)
}

func TestClosedClientDropsFrames(t *testing.T) {
	h := testHub()
	c := subscribe(h, LobbyRoom)
	c.closeSend()

	h.NotifyMatchStatus(1, models.MatchStatusScheduled, models.MatchStatusConfirmed)
}
