package domain

import "errors"

var (
	// ErrInvalidCategory is returned for unknown category ids.
	ErrInvalidCategory = errors.New("invalid category")
	// ErrSessionNotFound is returned when a quiz session does not exist (or expired).
	ErrSessionNotFound = errors.New("quiz session not found")
	// ErrQuizComplete is returned when every question of a session was already answered.
	ErrQuizComplete = errors.New("quiz already complete")
	// ErrNoActiveQuestion is returned for answers or timeouts without a served question.
	ErrNoActiveQuestion = errors.New("no active question")
	// ErrQuestionMismatch indicates an answer aimed at a question other than the pending one.
	ErrQuestionMismatch = errors.New("answer does not match the active question")
	// ErrValidation covers malformed or missing input.
	ErrValidation = errors.New("validation failed")
	// ErrPersistence wraps storage failures.
	ErrPersistence = errors.New("persistence failure")
	// ErrUnauthorized is returned for bad admin credentials or tokens.
	ErrUnauthorized = errors.New("unauthorized")
)
