package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/morgangallant/logs-old/internal/usecase"
)

const defaultListLimit = 50

// LogsHandler serves the companion read path: recent logs, or semantic
// search when a query is supplied.
type LogsHandler struct {
	useCase *usecase.SearchLogsUseCase
	logger  *slog.Logger
}

// NewLogsHandler creates a new LogsHandler.
func NewLogsHandler(uc *usecase.SearchLogsUseCase, logger *slog.Logger) *LogsHandler {
	return &LogsHandler{useCase: uc, logger: logger}
}

func (h *LogsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	max, _ := strconv.Atoi(r.URL.Query().Get("max"))

	var (
		views []usecase.LogView
		err   error
	)
	if query != "" {
		views, err = h.useCase.Search(r.Context(), query, max)
	} else {
		if max <= 0 {
			max = defaultListLimit
		}
		views, err = h.useCase.Recent(r.Context(), max)
	}
	if err != nil {
		h.logger.Error("failed to serve logs view", "error", err, "query", query)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(views); err != nil {
		h.logger.Error("failed to encode logs view", "error", err)
	}
}
