package domain

import "time"

// Quiz is an immutable quiz definition. Start/end dates are stored for
// display but not enforced by the submission path.
type Quiz struct {
	ID              string     `json:"id"`
	Title           string     `json:"title"`
	Questions       []Question `json:"questions"`
	DurationSeconds int        `json:"durationSeconds"`
	StartDate       string     `json:"startDate,omitempty"`
	EndDate         string     `json:"endDate,omitempty"`
	CreatedAt       time.Time  `json:"createdAt,omitempty"`
}

// Question is a multiple-choice question. AnswerIndex is the 0-based
// position of the correct option; stored data may carry it as a number or
// a string, so it decodes leniently.
type Question struct {
	ID          string   `json:"id"`
	Text        string   `json:"text"`
	Options     []string `json:"options"`
	AnswerIndex FlexInt  `json:"answerIndex"`
}

// PublicQuiz is the participant-facing view of a quiz. It never carries
// answer indices.
type PublicQuiz struct {
	ID              string           `json:"id"`
	Title           string           `json:"title"`
	Questions       []PublicQuestion `json:"questions"`
	DurationSeconds int              `json:"durationSeconds"`
	StartDate       string           `json:"startDate,omitempty"`
	EndDate         string           `json:"endDate,omitempty"`
}

type PublicQuestion struct {
	ID      string   `json:"id"`
	Text    string   `json:"text"`
	Options []string `json:"options"`
}

// Public strips the answer key from a quiz.
func (q Quiz) Public() PublicQuiz {
	questions := make([]PublicQuestion, 0, len(q.Questions))
	for _, question := range q.Questions {
		questions = append(questions, PublicQuestion{
			ID:      question.ID,
			Text:    question.Text,
			Options: question.Options,
		})
	}
	return PublicQuiz{
		ID:              q.ID,
		Title:           q.Title,
		Questions:       questions,
		DurationSeconds: q.DurationSeconds,
		StartDate:       q.StartDate,
		EndDate:         q.EndDate,
	}
}

// SubmittedAnswer is one participant answer. Clients send selectedIndex as
// either a number or a string; decoding never fails, uncoercible values are
// simply never counted as correct.
type SubmittedAnswer struct {
	QuestionID    string  `json:"questionId"`
	SelectedIndex FlexInt `json:"selectedIndex"`
}

// Attempt is one scored submission, at most one per (quiz, username) pair.
type Attempt struct {
	QuizID         string    `json:"quizId"`
	Username       string    `json:"username"`
	Points         int       `json:"points"`
	CorrectCount   int       `json:"correctCount"`
	TotalQuestions int       `json:"totalQuestions"`
	SubmittedAt    time.Time `json:"timestamp"`
}

// LeaderboardEntry is a participant's cumulative score across all quizzes.
type LeaderboardEntry struct {
	Username   string `json:"username"`
	TotalScore int    `json:"totalScore"`
}

// LeaderboardSnapshot is a point-in-time top slice of the leaderboard,
// pushed to live subscribers after every accepted submission.
type LeaderboardSnapshot struct {
	Entries   []LeaderboardEntry `json:"entries"`
	UpdatedAt time.Time          `json:"updatedAt"`
}

// SubmissionResult is the outcome of one accepted submission. Position is
// nil when the participant has no resolvable rank.
type SubmissionResult struct {
	Username       string `json:"username"`
	Points         int    `json:"points"`
	CorrectCount   int    `json:"correctCount"`
	TotalQuestions int    `json:"totalQuestions"`
	Position       *int   `json:"position"`
}
