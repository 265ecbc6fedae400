package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"footyiq-service/internal/app"
	"footyiq-service/internal/domain"
	"footyiq-service/internal/infra/memory"
	"github.com/gorilla/websocket"
)

func TestWebSocketLeaderboardStream(t *testing.T) {
	quizzes := memory.NewQuizStore(map[string]domain.Quiz{
		"quiz-1": {
			ID:    "quiz-1",
			Title: "Footy IQ round one",
			Questions: []domain.Question{
				{ID: "q1", Text: "Which country won the 2022 World Cup?", Options: []string{"France", "Argentina"}, AnswerIndex: domain.Int(1)},
			},
		},
	})
	feed := app.NewLeaderboardFeed()
	service := app.NewQuizService(quizzes, memory.NewAttemptLedger(), memory.NewLeaderboard(), feed)
	wsHandler := NewWSHandler(service, feed)

	mux := http.NewServeMux()
	mux.HandleFunc("/ws/leaderboard", wsHandler.ServeWS)
	server := httptest.NewServer(mux)
	defer server.Close()

	u := "ws" + server.URL[len("http"):] + "/ws/leaderboard"
	conn, _, err := websocket.DefaultDialer.Dial(u, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	// Initial snapshot is empty.
	snapshot := readSnapshot(t, conn)
	if len(snapshot.Entries) != 0 {
		t.Fatalf("expected empty initial snapshot, got %+v", snapshot.Entries)
	}

	if _, err := service.Submit(context.Background(), "quiz-1", "alice", []domain.SubmittedAnswer{
		{QuestionID: "q1", SelectedIndex: domain.Int(1)},
	}); err != nil {
		t.Fatalf("submit: %v", err)
	}

	snapshot = readSnapshot(t, conn)
	if len(snapshot.Entries) != 1 || snapshot.Entries[0].Username != "alice" || snapshot.Entries[0].TotalScore != 10 {
		t.Fatalf("expected alice with 10 points, got %+v", snapshot.Entries)
	}
}

func readSnapshot(t *testing.T, conn *websocket.Conn) domain.LeaderboardSnapshot {
	t.Helper()
	var msg struct {
		Type    string                     `json:"type"`
		Payload domain.LeaderboardSnapshot `json:"payload"`
	}
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read json: %v", err)
	}
	if msg.Type != "leaderboard" {
		t.Fatalf("expected leaderboard message, got %s", msg.Type)
	}
	return msg.Payload
}
