package apperrors

import "errors"

var (
	ErrInvalidInput        = errors.New("invalid input")
	ErrNotFound            = errors.New("not found")
	ErrNoActiveSession     = errors.New("no active session")
	ErrActiveSessionExists = errors.New("active session already exists")

	ErrInvalidTransition = errors.New("invalid status transition")
	ErrAnalysisInFlight  = errors.New("analysis already in flight")

	ErrSourceFetch          = errors.New("source fetch failed")
	ErrAnalysis             = errors.New("analysis failed")
	ErrQuizGenerationFailed = errors.New("quiz generation failed")
	ErrQuizNotActive        = errors.New("quiz is not in a state that accepts this action")
	ErrMergeNotEligible     = errors.New("item has not passed its quiz")
	ErrMergeFailed          = errors.New("merge failed")
)
