package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/morgangallant/logs-old/internal/domain"
)

const defaultSearchMax = 10

// LogView is one entry of the companion read path: a log plus any events
// derived from it, and the search snippet when the entry came from a query.
type LogView struct {
	Log     domain.Log     `json:"log"`
	Events  []domain.Event `json:"events,omitempty"`
	Snippet string         `json:"snippet,omitempty"`
}

// SearchLogsUseCase serves the read-only list/search view. Without a query
// it returns recent logs; with one it asks the semantic-search backend and
// resolves the hits back to stored logs.
type SearchLogsUseCase struct {
	logs    domain.LogRepository
	events  domain.EventRepository
	indexer domain.Indexer // nil when no index target is configured
	logger  *slog.Logger
}

// NewSearchLogsUseCase creates a new SearchLogsUseCase.
func NewSearchLogsUseCase(logs domain.LogRepository, events domain.EventRepository, indexer domain.Indexer, logger *slog.Logger) *SearchLogsUseCase {
	return &SearchLogsUseCase{logs: logs, events: events, indexer: indexer, logger: logger}
}

// Recent returns the newest logs with their events attached.
func (uc *SearchLogsUseCase) Recent(ctx context.Context, limit int) ([]LogView, error) {
	logs, err := uc.logs.ListLogs(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list logs: %w", err)
	}
	return uc.attachEvents(ctx, logs, nil)
}

// Search queries the semantic-search backend and maps matches back to logs
// via the log-id property attached at index time.
func (uc *SearchLogsUseCase) Search(ctx context.Context, query string, max int) ([]LogView, error) {
	if uc.indexer == nil {
		return nil, fmt.Errorf("search is not configured")
	}
	if max <= 0 {
		max = defaultSearchMax
	}

	matches, err := uc.indexer.Search(ctx, query, max)
	if err != nil {
		return nil, fmt.Errorf("search contents: %w", err)
	}

	ids := make([]string, 0, len(matches))
	snippets := make(map[string]string, len(matches))
	for _, m := range matches {
		if m.LogID == "" {
			continue
		}
		if _, dup := snippets[m.LogID]; !dup {
			ids = append(ids, m.LogID)
			snippets[m.LogID] = m.Snippet
		}
	}

	logs, err := uc.logs.GetLogs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("resolve logs: %w", err)
	}
	return uc.attachEvents(ctx, logs, snippets)
}

func (uc *SearchLogsUseCase) attachEvents(ctx context.Context, logs []domain.Log, snippets map[string]string) ([]LogView, error) {
	views := make([]LogView, 0, len(logs))
	for _, l := range logs {
		events, err := uc.events.ListEventsByLog(ctx, l.ID)
		if err != nil {
			// The view is still useful without events.
			uc.logger.Warn("failed to load events for log", "error", err, "log_id", l.ID)
		}
		views = append(views, LogView{Log: l, Events: events, Snippet: snippets[l.ID]})
	}
	return views, nil
}
