package domain

import "errors"

var (
	// ErrContentUnavailable means a content fetch failed; callers fall back to an empty list.
	ErrContentUnavailable = errors.New("content unavailable")
	// ErrCategoryNotFound indicates no built-in category or saved game has the requested id.
	ErrCategoryNotFound = errors.New("category not found")
	// ErrGameNotFound indicates a saved game id is unknown.
	ErrGameNotFound = errors.New("saved game not found")
	// ErrInvalidSelection indicates a submitted option is not part of the current question.
	ErrInvalidSelection = errors.New("option does not belong to the current question")
	// ErrMalformedSavedGame marks a persisted record that cannot be played.
	ErrMalformedSavedGame = errors.New("malformed saved game")
	// ErrSessionNotFound is returned when a play session has not been started.
	ErrSessionNotFound = errors.New("game session not found")
	// ErrStaleLoad is returned when content arrives after the screen moved on.
	ErrStaleLoad = errors.New("content load superseded by navigation")

	ErrQuestionIndex   = errors.New("question index out of range")
	ErrOptionIndex     = errors.New("option index out of range")
	ErrMissingLabel    = errors.New("every option needs a label")
	ErrNoCorrectOption = errors.New("question has no correct option")
)
