package model

import "time"

// Event log levels
const (
	EventLevelInfo    = "info"
	EventLevelWarning = "warning"
	EventLevelError   = "error"
)

// Event log categories
const (
	EventCategoryPost    = "post"
	EventCategoryComment = "comment"
	EventCategoryUser    = "user"
	EventCategorySystem  = "system"
)

// Event represents an entry in the persistent event log.
// WARN and ERROR level slog records are mirrored here for auditing.
type Event struct {
	ID        int64     `db:"id" json:"id"`
	Level     string    `db:"level" json:"level"`
	Category  string    `db:"category" json:"category"`
	Message   string    `db:"message" json:"message"`
	Metadata  string    `db:"metadata" json:"metadata"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
