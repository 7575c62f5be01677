package domain

import "time"

// Log represents one ingested life-log entry. Exactly one of Content or
// AttachmentID is set: a log carries either text or a stored photo, never
// both and never neither. Logs are insert-only and never mutated.
type Log struct {
	ID           string    `json:"id"`
	CreatedAt    time.Time `json:"created_at"`
	Content      string    `json:"content,omitempty"`
	AttachmentID string    `json:"attachment_id,omitempty"`
}

// Attachment holds the raw bytes of a downloaded photo. An attachment is
// created before the log that references it and is insert-only.
type Attachment struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Data      []byte    `json:"-"`
}
