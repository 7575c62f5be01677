package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/morgangallant/logs-old/internal/domain"
)

// AttachmentRepository implements domain.AttachmentRepository for PostgreSQL.
type AttachmentRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewAttachmentRepository creates a new PostgreSQL attachment repository.
func NewAttachmentRepository(db *sql.DB, logger *slog.Logger) *AttachmentRepository {
	return &AttachmentRepository{db: db, logger: logger}
}

// CreateAttachment inserts a single attachment row. Must commit before the
// owning log is created so the log's foreign key always resolves.
func (r *AttachmentRepository) CreateAttachment(ctx context.Context, att domain.Attachment) error {
	query := `INSERT INTO attachments (id, created_at, data) VALUES ($1, $2, $3)`
	_, err := r.db.ExecContext(ctx, query, att.ID, att.CreatedAt, att.Data)
	return err
}

// GetAttachment returns a stored attachment, or domain.ErrNotFound.
func (r *AttachmentRepository) GetAttachment(ctx context.Context, id string) (domain.Attachment, error) {
	query := `SELECT id, created_at, data FROM attachments WHERE id = $1`
	var att domain.Attachment
	err := r.db.QueryRowContext(ctx, query, id).Scan(&att.ID, &att.CreatedAt, &att.Data)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Attachment{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.Attachment{}, err
	}
	return att, nil
}
