package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/morgangallant/logs-old/internal/adapter/metrics"
	"github.com/morgangallant/logs-old/internal/domain"
)

// IngestUpdateUseCase coordinates the handling of one inbound webhook
// update: authorization, classification, persistence, event extraction,
// and best-effort indexing.
type IngestUpdateUseCase struct {
	logs        domain.LogRepository
	attachments domain.AttachmentRepository
	events      domain.EventRepository
	media       domain.MediaFetcher
	pipeline    *Pipeline
	indexer     domain.Indexer       // nil when no index target is configured
	deduper     domain.UpdateDeduper // nil when Redis is not configured
	authorized  string
	baseURL     string
	logger      *slog.Logger
	metrics     *metrics.IngestMetrics
}

// NewIngestUpdateUseCase creates a new IngestUpdateUseCase. indexer and
// deduper may be nil to disable indexing and redelivery suppression.
func NewIngestUpdateUseCase(
	logs domain.LogRepository,
	attachments domain.AttachmentRepository,
	events domain.EventRepository,
	media domain.MediaFetcher,
	pipeline *Pipeline,
	indexer domain.Indexer,
	deduper domain.UpdateDeduper,
	authorizedUsername string,
	publicBaseURL string,
	logger *slog.Logger,
	m *metrics.IngestMetrics,
) *IngestUpdateUseCase {
	return &IngestUpdateUseCase{
		logs:        logs,
		attachments: attachments,
		events:      events,
		media:       media,
		pipeline:    pipeline,
		indexer:     indexer,
		deduper:     deduper,
		authorized:  authorizedUsername,
		baseURL:     strings.TrimRight(publicBaseURL, "/"),
		logger:      logger,
		metrics:     m,
	}
}

// Ingest processes one webhook update to completion. A nil return means
// the update was handled (or deliberately ignored) and the webhook should
// be acknowledged. Errors from the attachment fetch chain, extraction, or
// persistence are returned to the caller; indexing failures are logged and
// swallowed.
func (uc *IngestUpdateUseCase) Ingest(ctx context.Context, update *domain.Update) error {
	// Authorization is a precondition: a foreign sender is acknowledged
	// and otherwise ignored, with no persistence, no extraction, and no
	// dedupe bookkeeping.
	if update.Message == nil || update.Message.From.Username != uc.authorized {
		uc.logger.Info("ignoring update from unauthorized sender", "update_id", update.UpdateID)
		uc.count("unauthorized")
		return nil
	}

	if uc.deduper != nil {
		seen, err := uc.deduper.Seen(ctx, update.UpdateID)
		if err != nil {
			// Dedupe is advisory: availability beats suppression.
			uc.logger.Warn("update dedupe check failed, proceeding", "error", err, "update_id", update.UpdateID)
		} else if seen {
			uc.logger.Debug("skipping redelivered update", "update_id", update.UpdateID)
			uc.count("duplicate")
			return nil
		}
	}

	switch c := Classify(update.Message); c.Kind {
	case KindText:
		if err := uc.ingestText(ctx, c.Text); err != nil {
			return err
		}
	case KindPhoto:
		if err := uc.ingestPhoto(ctx, c.Photos); err != nil {
			return err
		}
	default:
		uc.logger.Info("ignoring update with no handleable content", "update_id", update.UpdateID)
		uc.count("unhandled")
	}

	// Mark only after handling committed. A failed request returns above
	// unmarked, so the platform's redelivery is processed, not skipped.
	uc.markHandled(ctx, update.UpdateID)
	return nil
}

func (uc *IngestUpdateUseCase) markHandled(ctx context.Context, updateID int64) {
	if uc.deduper == nil {
		return
	}
	if err := uc.deduper.Mark(ctx, updateID); err != nil {
		uc.logger.Warn("failed to mark update as handled", "error", err, "update_id", updateID)
	}
}

// ingestText persists the log first, then extracts events. The log commit
// happens-before any event commit, so extraction failures never leave
// orphan events and never undo the log itself.
func (uc *IngestUpdateUseCase) ingestText(ctx context.Context, text string) error {
	log := domain.Log{
		ID:        uuid.NewString(),
		CreatedAt: time.Now().UTC(),
		Content:   text,
	}
	if err := uc.logs.CreateLog(ctx, log); err != nil {
		uc.count("error_persist")
		return fmt.Errorf("persist log: %w", err)
	}
	uc.count("text")

	outputs, err := uc.pipeline.Run(ctx, text)
	if err != nil {
		uc.count("error_extract")
		return fmt.Errorf("extract events for log %s: %w", log.ID, err)
	}

	if len(outputs) > 0 {
		events := make([]domain.Event, len(outputs))
		for i, out := range outputs {
			events[i] = domain.Event{
				ID:        uuid.NewString(),
				LogID:     log.ID,
				Type:      out.Type,
				Metadata:  out.Metadata,
				CreatedAt: time.Now().UTC(),
			}
		}
		if err := uc.events.CreateEvents(ctx, events); err != nil {
			uc.count("error_persist")
			return fmt.Errorf("persist events for log %s: %w", log.ID, err)
		}
		for _, ev := range events {
			uc.countEvent(ev.Type)
		}
		uc.logger.Info("extracted events from log", "log_id", log.ID, "count", len(events))
	}

	uc.indexText(ctx, log.ID, text)
	return nil
}

// ingestPhoto downloads the photo before touching storage so that a failed
// fetch leaves no partial state behind.
func (uc *IngestUpdateUseCase) ingestPhoto(ctx context.Context, photos []domain.PhotoSize) error {
	data, err := uc.media.Fetch(ctx, photos)
	if err != nil {
		uc.count("error_fetch")
		return fmt.Errorf("fetch photo: %w", err)
	}

	att := domain.Attachment{
		ID:        uuid.NewString(),
		CreatedAt: time.Now().UTC(),
		Data:      data,
	}
	if err := uc.attachments.CreateAttachment(ctx, att); err != nil {
		uc.count("error_persist")
		return fmt.Errorf("persist attachment: %w", err)
	}

	log := domain.Log{
		ID:           uuid.NewString(),
		CreatedAt:    time.Now().UTC(),
		AttachmentID: att.ID,
	}
	if err := uc.logs.CreateLog(ctx, log); err != nil {
		uc.count("error_persist")
		return fmt.Errorf("persist log: %w", err)
	}
	uc.count("photo")
	uc.logger.Info("stored photo log", "log_id", log.ID, "attachment_id", att.ID, "bytes", len(data))

	uc.indexImage(ctx, log.ID, att.ID)
	return nil
}

// indexText forwards text content to the search backend. Best effort: the
// log and its events are already committed, so failures are only logged.
func (uc *IngestUpdateUseCase) indexText(ctx context.Context, logID, text string) {
	if uc.indexer == nil {
		return
	}
	if err := uc.indexer.IndexText(ctx, logID, text); err != nil {
		uc.count("error_index")
		uc.logger.Error("failed to index text log", "error", err, "log_id", logID)
		return
	}
	uc.logger.Debug("indexed text log", "log_id", logID)
}

func (uc *IngestUpdateUseCase) indexImage(ctx context.Context, logID, attachmentID string) {
	if uc.indexer == nil {
		return
	}
	if uc.baseURL == "" {
		uc.logger.Warn("no public base URL configured, skipping image indexing", "log_id", logID)
		return
	}
	url := uc.baseURL + "/media/" + attachmentID
	if err := uc.indexer.IndexImage(ctx, logID, url); err != nil {
		uc.count("error_index")
		uc.logger.Error("failed to index image log", "error", err, "log_id", logID)
		return
	}
	uc.logger.Debug("indexed image log", "log_id", logID)
}

func (uc *IngestUpdateUseCase) count(outcome string) {
	if uc.metrics != nil {
		uc.metrics.UpdatesTotal.WithLabelValues(outcome).Inc()
	}
}

func (uc *IngestUpdateUseCase) countEvent(typ domain.EventType) {
	if uc.metrics != nil {
		uc.metrics.EventsExtracted.WithLabelValues(string(typ)).Inc()
	}
}
