// Package api assembles the domain systems, their HTTP handlers, and the
// middleware stack into a single http.Handler.
package api

import (
	"net/http"

	"github.com/JaimeStill/pdf-extractor/internal/config"
	"github.com/JaimeStill/pdf-extractor/internal/infrastructure"
	"github.com/JaimeStill/pdf-extractor/pkg/middleware"
)

// Module is the wired HTTP surface of the service.
type Module struct {
	Runtime *Runtime
	Domain  *Domain
	handler http.Handler
}

// NewModule builds the domain systems and routes them behind the
// middleware chain: trailing slash trimming, request logging, then CORS.
func NewModule(cfg *config.Config, infra *infrastructure.Infrastructure) *Module {
	runtime := NewRuntime(cfg, infra)
	domain := NewDomain(runtime, cfg.Sweeper.Retention())

	mux := http.NewServeMux()
	registerRoutes(mux, runtime, domain)

	mw := middleware.New()
	mw.Use(middleware.TrimSlash())
	mw.Use(middleware.Logger(runtime.Logger))
	mw.Use(middleware.CORS(&cfg.API.CORS))

	return &Module{
		Runtime: runtime,
		Domain:  domain,
		handler: mw.Apply(mux),
	}
}

// Handler returns the routed, middleware-wrapped handler.
func (m *Module) Handler() http.Handler {
	return m.handler
}
