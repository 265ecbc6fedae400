package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"footyiq-service/internal/app"
	"footyiq-service/internal/domain"
	"footyiq-service/internal/infra/memory"
)

func TestGetQuizHidesAnswerKey(t *testing.T) {
	server := newTestServer(t, "")
	defer server.Close()

	resp, err := http.Get(server.URL + "/api/quizzes/quiz-1")
	if err != nil {
		t.Fatalf("get quiz: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(resp.Body); err != nil {
		t.Fatalf("read body: %v", err)
	}
	if strings.Contains(buf.String(), "answerIndex") {
		t.Fatalf("public quiz leaked the answer key: %s", buf.String())
	}
}

func TestGetQuizNotFound(t *testing.T) {
	server := newTestServer(t, "")
	defer server.Close()

	resp, err := http.Get(server.URL + "/api/quizzes/missing")
	if err != nil {
		t.Fatalf("get quiz: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
	var body struct {
		Code string `json:"code"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	if body.Code != "quiz_not_found" {
		t.Fatalf("expected quiz_not_found code, got %q", body.Code)
	}
}

func TestSubmitAndDuplicate(t *testing.T) {
	server := newTestServer(t, "")
	defer server.Close()

	payload := `{"username":"alice","answers":[{"questionId":"q1","selectedIndex":"1"}]}`
	resp := postJSON(t, server.URL+"/api/quizzes/quiz-1/submit", payload, "")
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var result domain.SubmissionResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	if result.Points != 10 || result.CorrectCount != 1 || result.TotalQuestions != 1 {
		t.Fatalf("unexpected result: %+v", result)
	}
	if result.Position == nil || *result.Position != 1 {
		t.Fatalf("expected position 1, got %v", result.Position)
	}

	dup := postJSON(t, server.URL+"/api/quizzes/quiz-1/submit", payload, "")
	defer dup.Body.Close()
	if dup.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409 on duplicate, got %d", dup.StatusCode)
	}
	var body struct {
		Code string `json:"code"`
	}
	if err := json.NewDecoder(dup.Body).Decode(&body); err != nil {
		t.Fatalf("decode dup body: %v", err)
	}
	if body.Code != "already_played" {
		t.Fatalf("expected already_played code, got %q", body.Code)
	}
}

func TestSubmitRequiresUsername(t *testing.T) {
	server := newTestServer(t, "")
	defer server.Close()

	resp := postJSON(t, server.URL+"/api/quizzes/quiz-1/submit", `{"answers":[]}`, "")
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestLeaderboardEndpoint(t *testing.T) {
	server := newTestServer(t, "")
	defer server.Close()

	for _, user := range []string{"alice", "bob"} {
		resp := postJSON(t, server.URL+"/api/quizzes/quiz-1/submit",
			`{"username":"`+user+`","answers":[{"questionId":"q1","selectedIndex":1}]}`, "")
		resp.Body.Close()
	}

	resp, err := http.Get(server.URL + "/api/leaderboard?limit=1")
	if err != nil {
		t.Fatalf("leaderboard: %v", err)
	}
	defer resp.Body.Close()

	var entries []domain.LeaderboardEntry
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(entries) != 1 || entries[0].TotalScore != 10 {
		t.Fatalf("expected one bounded entry, got %+v", entries)
	}
}

func TestQuizPlayersEndpoint(t *testing.T) {
	server := newTestServer(t, "")
	defer server.Close()

	resp := postJSON(t, server.URL+"/api/quizzes/quiz-1/submit",
		`{"username":"alice","answers":[{"questionId":"q1","selectedIndex":1}]}`, "")
	resp.Body.Close()

	players, err := http.Get(server.URL + "/api/quizzes/quiz-1/players")
	if err != nil {
		t.Fatalf("players: %v", err)
	}
	defer players.Body.Close()

	var attempts []domain.Attempt
	if err := json.NewDecoder(players.Body).Decode(&attempts); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(attempts) != 1 || attempts[0].Username != "alice" || attempts[0].Points != 10 {
		t.Fatalf("unexpected attempts: %+v", attempts)
	}
}

func TestCreateQuizAdminKey(t *testing.T) {
	server := newTestServer(t, "sekrit")
	defer server.Close()

	quiz := `{"title":"New quiz","questions":[{"id":"q1","text":"Prompt","options":["A","B"],"answerIndex":0}]}`

	denied := postJSON(t, server.URL+"/api/admin/quizzes", quiz, "wrong")
	defer denied.Body.Close()
	if denied.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 with wrong key, got %d", denied.StatusCode)
	}

	created := postJSON(t, server.URL+"/api/admin/quizzes", quiz, "sekrit")
	defer created.Body.Close()
	if created.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", created.StatusCode)
	}
	var out domain.Quiz
	if err := json.NewDecoder(created.Body).Decode(&out); err != nil {
		t.Fatalf("decode created quiz: %v", err)
	}
	if out.ID == "" {
		t.Fatalf("expected assigned quiz ID")
	}

	// The created quiz is immediately servable.
	resp, err := http.Get(server.URL + "/api/quizzes/" + out.ID)
	if err != nil {
		t.Fatalf("get created quiz: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 for created quiz, got %d", resp.StatusCode)
	}
}

func postJSON(t *testing.T, url, body, adminKey string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(http.MethodPost, url, strings.NewReader(body))
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if adminKey != "" {
		req.Header.Set("X-Admin-Key", adminKey)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("post %s: %v", url, err)
	}
	return resp
}

func newTestServer(t *testing.T, adminKey string) *httptest.Server {
	t.Helper()
	quizzes := memory.NewQuizStore(map[string]domain.Quiz{
		"quiz-1": {
			ID:    "quiz-1",
			Title: "Footy IQ round one",
			Questions: []domain.Question{
				{ID: "q1", Text: "Which country won the 2022 World Cup?", Options: []string{"France", "Argentina"}, AnswerIndex: domain.Int(1)},
			},
			DurationSeconds: 90,
		},
	})
	service := app.NewQuizService(quizzes, memory.NewAttemptLedger(), memory.NewLeaderboard(), nil)
	handler := NewHandler(service, adminKey)

	mux := http.NewServeMux()
	handler.Register(mux)
	return httptest.NewServer(mux)
}
