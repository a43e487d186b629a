package entity

import (
	"encoding/json"
	"time"
)

// ActivityLog entrada de auditoría de una acción de usuario.
type ActivityLog struct {
	ID         string
	UserID     string // opcional
	Action     string // CREATE, UPDATE, ...
	EntityType string
	EntityID   string
	EntityName string
	Details    json.RawMessage
	CreatedAt  time.Time
}
