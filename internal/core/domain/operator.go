package domain

import (
	"time"

	"github.com/google/uuid"
)

// Operator is a dashboard user allowed to read reports and trigger
// reconciliation retries.
type Operator struct {
	ID           uuid.UUID `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"` // Argon2id
	CreatedAt    time.Time `json:"created_at"`
}
