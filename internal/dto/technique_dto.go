package dto

import (
	"time"

	"github.com/google/uuid"
)

// EnrichedTechnique is a catalog entry merged with the caller's progress.
type EnrichedTechnique struct {
	ID         uuid.UUID  `json:"id"`
	Name       string     `json:"name"`
	Category   string     `json:"category"`
	VideoURL   *string    `json:"video_url,omitempty"`
	Note       *string    `json:"note,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	Learned    bool       `json:"learned"`
	LearnedAt  *time.Time `json:"learned_at,omitempty"`
	Notes      *string    `json:"notes,omitempty"`
	ProgressID *uuid.UUID `json:"progress_id,omitempty"`
}

type CompletionStat struct {
	Learned    int `json:"learned"`
	Total      int `json:"total"`
	Percentage int `json:"percentage"`
}

type CategoryProgress struct {
	Category string `json:"category"`
	CompletionStat
}

type ProgressSummary struct {
	Overall    CompletionStat     `json:"overall"`
	Categories []CategoryProgress `json:"categories"`
}

type SetLearnedRequest struct {
	Learned *bool `json:"learned"`
}

type SetNotesRequest struct {
	Notes *string `json:"notes"`
}

type ResetResponse struct {
	Reset int64 `json:"reset"`
}

type SeedResponse struct {
	Message  string `json:"message"`
	Inserted int    `json:"inserted"`
}
