package models

import (
	"time"

	"github.com/google/uuid"
)

type AuditLog struct {
	ID         uuid.UUID `json:"id"`
	Actor      *string   `json:"actor,omitempty"` // wallet address, nil for system
	ActorType  string    `json:"actor_type"`      // user/system
	Action     string    `json:"action"`
	PropertyID *int64    `json:"property_id,omitempty"`
	Meta       any       `json:"meta,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}
