package dto

import "time"

type SignInInput struct {
	UserID string `json:"user_id"`
}

type SessionOutput struct {
	Kind      string    `json:"kind"`
	UserID    string    `json:"user_id,omitempty"`
	Guest     bool      `json:"guest"`
	StartedAt time.Time `json:"started_at"`
}
