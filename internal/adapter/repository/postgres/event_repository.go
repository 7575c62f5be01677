package postgres

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/morgangallant/logs-old/internal/domain"
)

// EventRepository implements domain.EventRepository for PostgreSQL.
type EventRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewEventRepository creates a new PostgreSQL event repository.
func NewEventRepository(db *sql.DB, logger *slog.Logger) *EventRepository {
	return &EventRepository{db: db, logger: logger}
}

// CreateEvents inserts a batch of events in one transaction. Callers
// guarantee the referenced log is already committed.
func (r *EventRepository) CreateEvents(ctx context.Context, events []domain.Event) error {
	if len(events) == 0 {
		return nil
	}

	txn, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer txn.Rollback() // Rollback is a no-op if Commit() is called

	stmt, err := txn.PrepareContext(ctx, `INSERT INTO events (id, log_id, type, metadata, created_at) VALUES ($1, $2, $3, $4, $5)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, ev := range events {
		var metadata any
		if len(ev.Metadata) > 0 {
			metadata = []byte(ev.Metadata)
		}
		if _, err := stmt.ExecContext(ctx, ev.ID, ev.LogID, string(ev.Type), metadata, ev.CreatedAt); err != nil {
			return err
		}
	}

	return txn.Commit()
}

// ListEventsByLog returns all events for one log in creation order.
func (r *EventRepository) ListEventsByLog(ctx context.Context, logID string) ([]domain.Event, error) {
	query := `SELECT id, log_id, type, metadata, created_at FROM events WHERE log_id = $1 ORDER BY created_at ASC`
	rows, err := r.db.QueryContext(ctx, query, logID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []domain.Event
	for rows.Next() {
		var ev domain.Event
		var typ string
		var metadata []byte
		if err := rows.Scan(&ev.ID, &ev.LogID, &typ, &metadata, &ev.CreatedAt); err != nil {
			return nil, err
		}
		ev.Type = domain.EventType(typ)
		ev.Metadata = metadata
		events = append(events, ev)
	}
	return events, rows.Err()
}
