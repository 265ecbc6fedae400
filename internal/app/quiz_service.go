package app

import (
	"context"
	"fmt"
	"log"
	"time"

	"footyiq-service/internal/domain"
	"github.com/google/uuid"
)

// feedTopN is the slice of the leaderboard pushed to live subscribers.
const feedTopN = 10

const defaultListLimit = 100

// QuizStore persists and loads quiz definitions. Cache layers wrap this
// interface transparently.
type QuizStore interface {
	GetQuiz(ctx context.Context, quizID string) (domain.Quiz, error)
	CreateQuiz(ctx context.Context, quiz domain.Quiz) error
}

// AttemptLedger records exactly one attempt per (quiz, username) pair. The
// uniqueness must be enforced by the backing store itself, not by a
// preceding read, so concurrent duplicates resolve to one winner.
type AttemptLedger interface {
	RecordAttempt(ctx context.Context, attempt domain.Attempt) error
	ListByQuiz(ctx context.Context, quizID string, limit int) ([]domain.Attempt, error)
}

// Leaderboard accumulates global scores. AddPoints must be a single atomic
// increment-or-create against the store.
type Leaderboard interface {
	AddPoints(ctx context.Context, username string, points int) error
	Rank(ctx context.Context, username string) (int, bool, error)
	Top(ctx context.Context, limit int) ([]domain.LeaderboardEntry, error)
}

// QuizService composes quiz storage, the attempt ledger and the leaderboard
// into the submission pipeline and its read-side queries.
type QuizService struct {
	quizzes     QuizStore
	attempts    AttemptLedger
	leaderboard Leaderboard
	feed        *LeaderboardFeed
	now         func() time.Time
}

func NewQuizService(quizzes QuizStore, attempts AttemptLedger, leaderboard Leaderboard, feed *LeaderboardFeed) *QuizService {
	return &QuizService{
		quizzes:     quizzes,
		attempts:    attempts,
		leaderboard: leaderboard,
		feed:        feed,
		now:         time.Now,
	}
}

// NewQuizServiceWithClock is test-only for deterministic timestamps.
func NewQuizServiceWithClock(quizzes QuizStore, attempts AttemptLedger, leaderboard Leaderboard, feed *LeaderboardFeed, now func() time.Time) *QuizService {
	s := NewQuizService(quizzes, attempts, leaderboard, feed)
	s.now = now
	return s
}

// CreateQuiz validates and stores a new quiz, assigning an ID when the
// caller did not provide one.
func (s *QuizService) CreateQuiz(ctx context.Context, quiz domain.Quiz) (domain.Quiz, error) {
	if err := ValidateQuiz(quiz); err != nil {
		return domain.Quiz{}, err
	}
	if quiz.ID == "" {
		quiz.ID = uuid.NewString()
	}
	if quiz.DurationSeconds <= 0 {
		quiz.DurationSeconds = 90
	}
	quiz.CreatedAt = s.now().UTC()
	if err := s.quizzes.CreateQuiz(ctx, quiz); err != nil {
		return domain.Quiz{}, err
	}
	return quiz, nil
}

// GetQuizPublic returns the participant-facing view of a quiz, with the
// answer key stripped.
func (s *QuizService) GetQuizPublic(ctx context.Context, quizID string) (domain.PublicQuiz, error) {
	quiz, err := s.quizzes.GetQuiz(ctx, quizID)
	if err != nil {
		return domain.PublicQuiz{}, err
	}
	return quiz.Public(), nil
}

// Submit scores one attempt and runs it through the ledger and leaderboard.
// Pipeline: load quiz, score, record attempt (store-enforced uniqueness),
// accumulate points, resolve rank. Failures surface as typed errors; there
// are no retries at this layer.
func (s *QuizService) Submit(ctx context.Context, quizID, username string, answers []domain.SubmittedAnswer) (domain.SubmissionResult, error) {
	quiz, err := s.quizzes.GetQuiz(ctx, quizID)
	if err != nil {
		return domain.SubmissionResult{}, err
	}

	correct := scoreAnswers(buildAnswerKey(quiz.Questions), answers)
	points := correct * pointsPerCorrect

	attempt := domain.Attempt{
		QuizID:         quizID,
		Username:       username,
		Points:         points,
		CorrectCount:   correct,
		TotalQuestions: len(quiz.Questions),
		SubmittedAt:    s.now().UTC(),
	}
	if err := s.attempts.RecordAttempt(ctx, attempt); err != nil {
		return domain.SubmissionResult{}, err
	}

	// The attempt is durable from here on. If the increment fails the
	// ledger and leaderboard diverge until the reconcile pass repairs it.
	if err := s.leaderboard.AddPoints(ctx, username, points); err != nil {
		log.Printf("attempt recorded but leaderboard not incremented for %q: %v", username, err)
		return domain.SubmissionResult{}, fmt.Errorf("accumulate points: %w", err)
	}

	result := domain.SubmissionResult{
		Username:       username,
		Points:         points,
		CorrectCount:   correct,
		TotalQuestions: len(quiz.Questions),
	}
	rank, ok, err := s.leaderboard.Rank(ctx, username)
	if err != nil {
		return domain.SubmissionResult{}, fmt.Errorf("resolve rank: %w", err)
	}
	if ok {
		result.Position = &rank
	}

	s.publishLeaderboard(ctx)
	return result, nil
}

// Leaderboard returns the top entries in descending score order.
func (s *QuizService) Leaderboard(ctx context.Context, limit int) ([]domain.LeaderboardEntry, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	return s.leaderboard.Top(ctx, limit)
}

// QuizAttempts lists recorded attempts for a quiz, most recent first.
func (s *QuizService) QuizAttempts(ctx context.Context, quizID string, limit int) ([]domain.Attempt, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	return s.attempts.ListByQuiz(ctx, quizID, limit)
}

func (s *QuizService) publishLeaderboard(ctx context.Context) {
	if s.feed == nil {
		return
	}
	entries, err := s.leaderboard.Top(ctx, feedTopN)
	if err != nil {
		log.Printf("leaderboard feed snapshot failed: %v", err)
		return
	}
	s.feed.Publish(domain.LeaderboardSnapshot{Entries: entries, UpdatedAt: s.now().UTC()})
}

// ValidateQuiz checks a quiz definition before it is persisted: every
// question needs an ID, text, at least two options and an in-range integer
// answer index.
func ValidateQuiz(quiz domain.Quiz) error {
	if quiz.Title == "" {
		return fmt.Errorf("%w: title is required", domain.ErrInvalidQuiz)
	}
	if len(quiz.Questions) == 0 {
		return fmt.Errorf("%w: at least one question is required", domain.ErrInvalidQuiz)
	}
	for i, q := range quiz.Questions {
		if q.ID == "" {
			return fmt.Errorf("%w: question %d missing id", domain.ErrInvalidQuiz, i+1)
		}
		if q.Text == "" {
			return fmt.Errorf("%w: question %d missing text", domain.ErrInvalidQuiz, i+1)
		}
		if len(q.Options) < 2 {
			return fmt.Errorf("%w: question %d must have at least 2 options", domain.ErrInvalidQuiz, i+1)
		}
		if !q.AnswerIndex.Valid {
			return fmt.Errorf("%w: question %d has invalid answerIndex", domain.ErrInvalidQuiz, i+1)
		}
		if q.AnswerIndex.Value < 0 || q.AnswerIndex.Value >= len(q.Options) {
			return fmt.Errorf("%w: question %d answerIndex out of range", domain.ErrInvalidQuiz, i+1)
		}
	}
	return nil
}
