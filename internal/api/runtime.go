package api

import (
	"github.com/JaimeStill/pdf-extractor/internal/config"
	"github.com/JaimeStill/pdf-extractor/internal/infrastructure"
	"github.com/JaimeStill/pdf-extractor/pkg/pagination"
)

// Runtime extends Infrastructure with API-specific configuration.
type Runtime struct {
	*infrastructure.Infrastructure
	Pagination    pagination.Config
	BasePath      string
	MaxUploadSize int64
}

// NewRuntime creates an API runtime with a module-scoped logger.
func NewRuntime(cfg *config.Config, infra *infrastructure.Infrastructure) *Runtime {
	return &Runtime{
		Infrastructure: &infrastructure.Infrastructure{
			Lifecycle: infra.Lifecycle,
			Logger:    infra.Logger.With("module", "api"),
			Database:  infra.Database,
			Uploads:   infra.Uploads,
			Images:    infra.Images,
		},
		Pagination:    cfg.API.Pagination,
		BasePath:      cfg.API.BasePath,
		MaxUploadSize: cfg.Storage.MaxUploadSizeBytes(),
	}
}
