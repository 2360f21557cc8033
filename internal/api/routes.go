package api

import (
	"net/http"

	"github.com/JaimeStill/pdf-extractor/internal/pdfs"
	"github.com/JaimeStill/pdf-extractor/internal/sweeper"
	"github.com/JaimeStill/pdf-extractor/pkg/handlers"
	"github.com/JaimeStill/pdf-extractor/pkg/lifecycle"
	"github.com/JaimeStill/pdf-extractor/pkg/routes"
)

func registerRoutes(mux *http.ServeMux, runtime *Runtime, domain *Domain) {
	pdfsHandler := pdfs.NewHandler(domain.PDFs, runtime.Logger, runtime.Pagination, runtime.MaxUploadSize)
	workersHandler := sweeper.NewHandler(domain.Sweeper, runtime.Logger)

	routes.Register(
		mux,
		runtime.BasePath,
		pdfsHandler.Routes(),
		workersHandler.Routes(),
	)

	mux.HandleFunc("GET /health", handleHealthCheck)
	mux.HandleFunc("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		handleReadinessCheck(w, runtime.Lifecycle)
	})
}

func handleHealthCheck(w http.ResponseWriter, r *http.Request) {
	handlers.RespondJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func handleReadinessCheck(w http.ResponseWriter, ready lifecycle.ReadinessChecker) {
	if !ready.Ready() {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte("NOT READY"))
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte("READY"))
}
