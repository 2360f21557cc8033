package sweeper

import (
	"log/slog"
	"net/http"

	"github.com/JaimeStill/pdf-extractor/pkg/handlers"
	"github.com/JaimeStill/pdf-extractor/pkg/routes"
)

// Handler serves background worker status.
type Handler struct {
	reporter Reporter
	logger   *slog.Logger
}

// NewHandler creates a worker status handler for reporter.
func NewHandler(reporter Reporter, logger *slog.Logger) *Handler {
	return &Handler{
		reporter: reporter,
		logger:   logger.With("handler", "workers"),
	}
}

// Routes returns the worker status route group.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/workers",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "/status", Handler: h.Status},
		},
	}
}

// Status handles GET /workers/status.
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	st := Report(h.reporter)
	if st.Error != "" {
		h.logger.Warn("worker status unavailable", "error", st.Error)
	}

	handlers.RespondJSON(w, http.StatusOK, map[string]Status{
		"file_cleanup_worker": st,
	})
}
