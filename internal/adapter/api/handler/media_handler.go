package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/morgangallant/logs-old/internal/domain"
)

// MediaHandler serves stored attachment bytes.
type MediaHandler struct {
	attachments domain.AttachmentRepository
	logger      *slog.Logger
}

// NewMediaHandler creates a new MediaHandler.
func NewMediaHandler(attachments domain.AttachmentRepository, logger *slog.Logger) *MediaHandler {
	return &MediaHandler{attachments: attachments, logger: logger}
}

// ServeHTTP responds with the raw bytes of one attachment, 404 if absent.
func (h *MediaHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}

	att, err := h.attachments.GetAttachment(r.Context(), id)
	if errors.Is(err, domain.ErrNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		h.logger.Error("failed to load attachment", "error", err, "attachment_id", id)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", http.DetectContentType(att.Data))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(att.Data)
}
