package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"footyiq-service/internal/app"
	"footyiq-service/internal/domain"
)

// Handler exposes the quiz API over JSON REST.
type Handler struct {
	service  *app.QuizService
	adminKey string
}

func NewHandler(service *app.QuizService, adminKey string) *Handler {
	return &Handler{service: service, adminKey: adminKey}
}

// Register wires every route onto the mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/quizzes/{id}", h.getQuiz)
	mux.HandleFunc("POST /api/quizzes/{id}/submit", h.submitQuiz)
	mux.HandleFunc("GET /api/quizzes/{id}/players", h.quizPlayers)
	mux.HandleFunc("GET /api/leaderboard", h.leaderboard)
	mux.HandleFunc("POST /api/admin/quizzes", h.createQuiz)
}

type submitRequest struct {
	Username string                   `json:"username"`
	Answers  []domain.SubmittedAnswer `json:"answers"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (h *Handler) getQuiz(w http.ResponseWriter, r *http.Request) {
	quiz, err := h.service.GetQuizPublic(r.Context(), r.PathValue("id"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, quiz)
}

func (h *Handler) submitQuiz(w http.ResponseWriter, r *http.Request) {
	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Code: "bad_request", Message: "invalid JSON body"})
		return
	}
	if req.Username == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Code: "bad_request", Message: "username is required"})
		return
	}

	result, err := h.service.Submit(r.Context(), r.PathValue("id"), req.Username, req.Answers)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) quizPlayers(w http.ResponseWriter, r *http.Request) {
	attempts, err := h.service.QuizAttempts(r.Context(), r.PathValue("id"), queryLimit(r))
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, attempts)
}

func (h *Handler) leaderboard(w http.ResponseWriter, r *http.Request) {
	entries, err := h.service.Leaderboard(r.Context(), queryLimit(r))
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

// createQuiz is guarded by a static shared secret. The check only applies
// when a key is configured, matching the original deployment behavior.
func (h *Handler) createQuiz(w http.ResponseWriter, r *http.Request) {
	if h.adminKey != "" && r.Header.Get("X-Admin-Key") != h.adminKey {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Code: "unauthorized", Message: "invalid admin key"})
		return
	}

	var quiz domain.Quiz
	if err := json.NewDecoder(r.Body).Decode(&quiz); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Code: "bad_request", Message: "invalid JSON body"})
		return
	}
	created, err := h.service.CreateQuiz(r.Context(), quiz)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrQuizNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Code: "quiz_not_found", Message: "quiz not found"})
	case errors.Is(err, domain.ErrAlreadyPlayed):
		writeJSON(w, http.StatusConflict, errorResponse{Code: "already_played", Message: "user has already played this quiz"})
	case errors.Is(err, domain.ErrInvalidQuiz):
		writeJSON(w, http.StatusBadRequest, errorResponse{Code: "invalid_quiz", Message: err.Error()})
	case errors.Is(err, domain.ErrQuizExists):
		writeJSON(w, http.StatusConflict, errorResponse{Code: "quiz_exists", Message: "quiz already exists"})
	default:
		log.Printf("internal error: %v", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Code: "internal", Message: "internal server error"})
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("write response: %v", err)
	}
}

func queryLimit(r *http.Request) int {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return 0
	}
	limit, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return limit
}
