package api

import (
	"log/slog"
	"net/http"

	"github.com/morgangallant/logs-old/internal/adapter/api/handler"
	"github.com/morgangallant/logs-old/internal/domain"
	"github.com/morgangallant/logs-old/internal/pkg/config"
	"github.com/morgangallant/logs-old/internal/usecase"
)

// NewRouter creates and configures the main HTTP router for the service.
func NewRouter(
	cfg *config.Config,
	logger *slog.Logger,
	ingestUseCase handler.IngestUseCase,
	searchUseCase *usecase.SearchLogsUseCase,
	attachments domain.AttachmentRepository,
) http.Handler {
	mux := http.NewServeMux()

	webhookHandler := handler.NewWebhookHandler(ingestUseCase, logger, cfg.MaxUpdateSize)
	mediaHandler := handler.NewMediaHandler(attachments, logger)
	logsHandler := handler.NewLogsHandler(searchUseCase, logger)

	// Routes
	mux.Handle("POST /webhook", webhookHandler)
	mux.Handle("GET /media/{id}", mediaHandler)
	mux.Handle("GET /logs", logsHandler)

	// Health check
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	return mux
}
