package http

import (
	"log"
	"net/http"

	"footyiq-service/internal/app"
	"footyiq-service/internal/domain"
	"github.com/gorilla/websocket"
)

// WSHandler streams live leaderboard snapshots to websocket clients. One
// snapshot is sent on connect, then one after every accepted submission.
type WSHandler struct {
	service  *app.QuizService
	feed     *app.LeaderboardFeed
	upgrader websocket.Upgrader
}

func NewWSHandler(service *app.QuizService, feed *app.LeaderboardFeed) *WSHandler {
	return &WSHandler{
		service: service,
		feed:    feed,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type outboundMessage struct {
	Type    string                     `json:"type"`
	Payload domain.LeaderboardSnapshot `json:"payload"`
}

// ServeWS upgrades the request and pumps feed snapshots until the client
// disconnects.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	updates, cancel := h.feed.Subscribe()
	defer cancel()

	entries, err := h.service.Leaderboard(r.Context(), 10)
	if err != nil {
		log.Printf("ws initial snapshot failed: %v", err)
		return
	}
	initial := domain.LeaderboardSnapshot{Entries: entries}
	if err := conn.WriteJSON(outboundMessage{Type: "leaderboard", Payload: initial}); err != nil {
		return
	}

	done := make(chan struct{})

	// Read pump exists only to observe the close handshake; inbound
	// payloads are ignored.
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case snapshot, ok := <-updates:
			if !ok {
				return
			}
			if err := conn.WriteJSON(outboundMessage{Type: "leaderboard", Payload: snapshot}); err != nil {
				log.Printf("ws write error: %v", err)
				return
			}
		case <-done:
			return
		}
	}
}
