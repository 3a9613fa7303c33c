package realtime

import (
	"encoding/json"
	"log/slog"
	"strconv"
	"sync"

	"github.com/galera-volei/galera-system/models"
)

// Event is the wire frame pushed to websocket subscribers.
type Event struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
	Room    string      `json:"room,omitempty"`
}

const EventMatchStatus = "MATCH_STATUS"

// MatchStatusPayload announces a lifecycle transition on a match.
type MatchStatusPayload struct {
	MatchID int                `json:"match_id"`
	From    models.MatchStatus `json:"from"`
	To      models.MatchStatus `json:"to"`
}

// Hub fans events out to subscribers. Clients subscribe to a single room,
// one per match; the hub drops frames for slow clients rather than block.
type Hub struct {
	register   chan *Client
	unregister chan *Client
	rooms      map[string]map[*Client]bool
	mu         sync.RWMutex
	logger     *slog.Logger
}

func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		rooms:      make(map[string]map[*Client]bool),
		logger:     logger,
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			if _, ok := h.rooms[client.room]; !ok {
				h.rooms[client.room] = make(map[*Client]bool)
			}
			h.rooms[client.room][client] = true
			h.logger.Debug("websocket client joined", "room", client.room, "clients", len(h.rooms[client.room]))
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			if clients, ok := h.rooms[client.room]; ok {
				if _, present := clients[client]; present {
					client.closeSend()
					delete(clients, client)
					if len(clients) == 0 {
						delete(h.rooms, client.room)
					}
					h.logger.Debug("websocket client left", "room", client.room)
				}
			}
			h.mu.Unlock()
		}
	}
}

// NotifyMatchStatus implements services.MatchStatusNotifier. Transitions are
// announced both to the match's own room and to the lobby room watching the
// whole list.
func (h *Hub) NotifyMatchStatus(matchID int, from, to models.MatchStatus) {
	payload := MatchStatusPayload{MatchID: matchID, From: from, To: to}
	h.broadcast(MatchRoom(matchID), Event{Type: EventMatchStatus, Payload: payload, Room: MatchRoom(matchID)})
	h.broadcast(LobbyRoom, Event{Type: EventMatchStatus, Payload: payload, Room: LobbyRoom})
}

// LobbyRoom receives every match event, for clients watching the match list.
const LobbyRoom = "lobby"

func MatchRoom(matchID int) string {
	return "match:" + strconv.Itoa(matchID)
}

func (h *Hub) broadcast(room string, event Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	clients, ok := h.rooms[room]
	if !ok {
		return
	}

	frame, err := json.Marshal(event)
	if err != nil {
		h.logger.Error("failed to marshal websocket event", "room", room, "error", err)
		return
	}

	for client := range clients {
		client.trySend(frame)
	}
}
