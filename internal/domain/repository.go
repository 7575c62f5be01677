package domain

import "context"

// LogRepository defines storage operations for log entries.
// This abstracts away the specific backend (PostgreSQL in production).
type LogRepository interface {
	// CreateLog persists a single log entry.
	CreateLog(ctx context.Context, log Log) error

	// ListLogs returns the most recent logs, newest first.
	ListLogs(ctx context.Context, limit int) ([]Log, error)

	// GetLogs resolves a set of log IDs to log entries. Missing IDs are
	// silently skipped; order follows the input IDs.
	GetLogs(ctx context.Context, ids []string) ([]Log, error)
}

// AttachmentRepository defines storage operations for binary attachments.
type AttachmentRepository interface {
	// CreateAttachment persists an attachment. It must be called before the
	// owning log is created.
	CreateAttachment(ctx context.Context, att Attachment) error

	// GetAttachment returns a stored attachment, or ErrNotFound.
	GetAttachment(ctx context.Context, id string) (Attachment, error)
}

// EventRepository defines storage operations for extracted events.
type EventRepository interface {
	// CreateEvents persists a batch of events in one operation. Every event
	// must reference an already-persisted log.
	CreateEvents(ctx context.Context, events []Event) error

	// ListEventsByLog returns all events belonging to one log.
	ListEventsByLog(ctx context.Context, logID string) ([]Event, error)
}

// MediaFetcher resolves photo variants to raw bytes via the chat platform.
type MediaFetcher interface {
	// Fetch downloads the highest-resolution variant from the given list.
	Fetch(ctx context.Context, photos []PhotoSize) ([]byte, error)
}

// FoodLookup is the nutrition enrichment service: free text in, zero or
// more structured food records out.
type FoodLookup interface {
	Lookup(ctx context.Context, query string) ([]FoodItem, error)
}

// Extractor is a named unit of logic that derives typed events from a
// log's text. Extractors are side-effect-free beyond network calls they
// may themselves issue.
type Extractor interface {
	Name() string
	Extract(ctx context.Context, text string) ([]EventOutput, error)
}

// SearchMatch is one semantic-search hit, resolvable back to a log.
type SearchMatch struct {
	LogID   string
	Snippet string
	Score   float64
}

// Indexer pushes log content into the semantic-search backend and queries
// it. Implementations attach the log ID as a retrievable property so hits
// map back to logs.
type Indexer interface {
	IndexText(ctx context.Context, logID, text string) error
	IndexImage(ctx context.Context, logID, imageURL string) error
	Search(ctx context.Context, query string, max int) ([]SearchMatch, error)
}

// UpdateDeduper suppresses webhook redeliveries of already-handled
// updates. Marking is separate from checking so that a failed request
// stays redeliverable: an update is marked only once its handling
// committed.
type UpdateDeduper interface {
	// Seen reports whether the update ID was already marked. Read-only.
	Seen(ctx context.Context, updateID int64) (bool, error)

	// Mark records the update ID as handled.
	Mark(ctx context.Context, updateID int64) error
}
