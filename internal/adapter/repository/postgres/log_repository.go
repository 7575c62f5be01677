package postgres

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/lib/pq"
	"github.com/morgangallant/logs-old/internal/domain"
)

// LogRepository implements domain.LogRepository for PostgreSQL.
type LogRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewLogRepository creates a new PostgreSQL log repository.
func NewLogRepository(db *sql.DB, logger *slog.Logger) *LogRepository {
	return &LogRepository{db: db, logger: logger}
}

// CreateLog inserts a single log row. Logs are insert-only; there is no
// update path.
func (r *LogRepository) CreateLog(ctx context.Context, log domain.Log) error {
	query := `INSERT INTO logs (id, created_at, content, attachment_id) VALUES ($1, $2, $3, $4)`
	_, err := r.db.ExecContext(ctx, query, log.ID, log.CreatedAt, nullString(log.Content), nullString(log.AttachmentID))
	return err
}

// ListLogs returns the most recent logs, newest first.
func (r *LogRepository) ListLogs(ctx context.Context, limit int) ([]domain.Log, error) {
	query := `SELECT id, created_at, content, attachment_id FROM logs ORDER BY created_at DESC LIMIT $1`
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanLogs(rows)
}

// GetLogs resolves a set of IDs to log rows, preserving input order.
// Missing IDs are skipped.
func (r *LogRepository) GetLogs(ctx context.Context, ids []string) ([]domain.Log, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query := `SELECT id, created_at, content, attachment_id FROM logs WHERE id = ANY($1)`
	rows, err := r.db.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	found, err := scanLogs(rows)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]domain.Log, len(found))
	for _, l := range found {
		byID[l.ID] = l
	}
	ordered := make([]domain.Log, 0, len(ids))
	for _, id := range ids {
		if l, ok := byID[id]; ok {
			ordered = append(ordered, l)
		}
	}
	return ordered, nil
}

func scanLogs(rows *sql.Rows) ([]domain.Log, error) {
	var logs []domain.Log
	for rows.Next() {
		var l domain.Log
		var content, attachmentID sql.NullString
		if err := rows.Scan(&l.ID, &l.CreatedAt, &content, &attachmentID); err != nil {
			return nil, err
		}
		l.Content = content.String
		l.AttachmentID = attachmentID.String
		logs = append(logs, l)
	}
	return logs, rows.Err()
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
