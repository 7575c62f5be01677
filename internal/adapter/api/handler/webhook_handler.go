package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/morgangallant/logs-old/internal/adapter/telegram"
	"github.com/morgangallant/logs-old/internal/domain"
)

// IngestUseCase is the contract the webhook handler needs from the
// ingestion orchestrator.
type IngestUseCase interface {
	Ingest(ctx context.Context, update *domain.Update) error
}

// WebhookHandler handles inbound chat-platform webhook requests.
type WebhookHandler struct {
	useCase IngestUseCase
	logger  *slog.Logger
	maxBody int64
}

// NewWebhookHandler creates a new WebhookHandler.
func NewWebhookHandler(uc IngestUseCase, logger *slog.Logger, maxBody int64) *WebhookHandler {
	return &WebhookHandler{useCase: uc, logger: logger, maxBody: maxBody}
}

// ServeHTTP processes one webhook delivery. Once a payload decodes, the
// platform expects a 200 acknowledgment for every handled-or-ignored
// update; only fetch, extraction, and persistence failures surface as
// non-2xx so the platform can redeliver.
func (h *WebhookHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBody)

	var update domain.Update
	decoder := json.NewDecoder(r.Body)
	if err := decoder.Decode(&update); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			http.Error(w, "Payload too large", http.StatusRequestEntityTooLarge)
			return
		}
		h.logger.Warn("failed to decode webhook payload", "error", err)
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}

	if err := h.useCase.Ingest(r.Context(), &update); err != nil {
		h.logger.Error("failed to ingest update", "error", err, "update_id", update.UpdateID)
		if errors.Is(err, telegram.ErrTransport) {
			http.Error(w, "Bad gateway", http.StatusBadGateway)
			return
		}
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
}
