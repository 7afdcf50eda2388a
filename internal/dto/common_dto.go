package dto

import "github.com/google/uuid"

type ErrorResponse struct {
	Error   bool   `json:"error"`
	Message string `json:"message"`
}

type IDResponse struct {
	ID uuid.UUID `json:"id"`
}

type HealthResponse struct {
	Status     string `json:"status"`
	Timestamp  string `json:"timestamp"`
	DB         string `json:"db"`
	Techniques int64  `json:"techniques"`
}
