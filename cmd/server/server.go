package main

import (
	"time"

	"github.com/JaimeStill/pdf-extractor/internal/api"
	"github.com/JaimeStill/pdf-extractor/internal/config"
	"github.com/JaimeStill/pdf-extractor/internal/infrastructure"
	"github.com/JaimeStill/pdf-extractor/internal/server"
)

// Server coordinates the lifecycle of all subsystems.
type Server struct {
	infra  *infrastructure.Infrastructure
	module *api.Module
	http   server.System
}

// NewServer creates and initializes the service with all subsystems.
func NewServer(cfg *config.Config) (*Server, error) {
	infra, err := infrastructure.New(cfg)
	if err != nil {
		return nil, err
	}

	module := api.NewModule(cfg, infra)

	infra.Logger.Info(
		"server initialized",
		"addr", cfg.Server.Addr(),
		"version", cfg.Version,
		"uploads_path", cfg.Storage.UploadsPath,
		"images_path", cfg.Storage.ImagesPath,
		"retention_minutes", cfg.Sweeper.RetentionMinutes,
	)

	return &Server{
		infra:  infra,
		module: module,
		http:   server.New(&cfg.Server, module.Handler(), infra.Logger),
	}, nil
}

// Start begins all subsystems and returns once they are registered.
// Readiness is reported after every startup hook completes.
func (s *Server) Start() error {
	s.infra.Logger.Info("starting service")

	if err := s.infra.Start(); err != nil {
		return err
	}

	s.module.Domain.Sweeper.Register(s.infra.Lifecycle)

	if err := s.http.Start(s.infra.Lifecycle); err != nil {
		return err
	}

	go func() {
		s.infra.Lifecycle.WaitForStartup()
		s.infra.Logger.Info("all subsystems ready")
	}()

	return nil
}

// Shutdown gracefully stops all subsystems within timeout.
func (s *Server) Shutdown(timeout time.Duration) error {
	s.infra.Logger.Info("initiating shutdown")
	return s.infra.Lifecycle.Shutdown(timeout)
}
