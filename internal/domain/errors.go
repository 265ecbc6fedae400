package domain

import "errors"

var (
	// ErrQuizNotFound indicates the referenced quiz does not exist.
	ErrQuizNotFound = errors.New("quiz not found")
	// ErrAlreadyPlayed is returned when a (quiz, username) pair already has a recorded attempt.
	ErrAlreadyPlayed = errors.New("user has already played this quiz")
	// ErrInvalidQuiz is returned when a quiz definition fails validation on creation.
	ErrInvalidQuiz = errors.New("invalid quiz definition")
	// ErrQuizExists is returned when creating a quiz with an ID that is already taken.
	ErrQuizExists = errors.New("quiz already exists")
)
