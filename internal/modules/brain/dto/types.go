package dto

import "time"

type EditInput struct {
	Content string `json:"content"`
}

type MergeInput struct {
	ItemID string `json:"item_id"`
}

type BrainOutput struct {
	Content   string    `json:"content"`
	Revision  int       `json:"revision"`
	UpdatedAt time.Time `json:"updated_at"`
}

type MergeOutput struct {
	Brain    BrainOutput `json:"brain"`
	ItemID   string      `json:"item_id"`
	Proposal string      `json:"proposal"`
}
