package models

import (
	"errors"
	"time"
)

// ErrorKind classifies the user-visible error conditions.
type ErrorKind string

const (
	KindDataUnavailable  ErrorKind = "DataUnavailable"
	KindNoMatch          ErrorKind = "NoMatch"
	KindGenerationFailed ErrorKind = "GenerationFailed"
)

var (
	// ErrDataUnavailable means the exercise dataset could not be loaded.
	ErrDataUnavailable = errors.New("dataset not available")
	// ErrNoMatch means a body-part filter selected zero records.
	ErrNoMatch = errors.New("no exercises found for this body part")
	// ErrUnknownGoal means a goal name is not one of Goals().
	ErrUnknownGoal = errors.New("unknown goal")
)

// AdviceResult is the outcome of one advice generation. Exactly one of Text
// and Error is set.
type AdviceResult struct {
	ID         string    `json:"id"`
	Goal       Goal      `json:"goal"`
	Prompt     string    `json:"prompt"`
	Text       string    `json:"text,omitempty"`
	Error      string    `json:"error,omitempty"`
	Kind       ErrorKind `json:"kind,omitempty"`
	Model      string    `json:"model,omitempty"`
	DurationMs int       `json:"duration_ms"`
	CreatedAt  time.Time `json:"created_at"`
}

// Failed reports whether generation failed.
func (r AdviceResult) Failed() bool {
	return r.Kind == KindGenerationFailed
}
