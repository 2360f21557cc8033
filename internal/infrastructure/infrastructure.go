// Package infrastructure provides core service initialization for application startup.
// It assembles common dependencies (logging, database, storage) that domain systems require.
package infrastructure

import (
	"fmt"
	"log/slog"

	"github.com/JaimeStill/pdf-extractor/internal/config"
	"github.com/JaimeStill/pdf-extractor/internal/migrations"
	"github.com/JaimeStill/pdf-extractor/pkg/database"
	"github.com/JaimeStill/pdf-extractor/pkg/lifecycle"
	"github.com/JaimeStill/pdf-extractor/pkg/logging"
	"github.com/JaimeStill/pdf-extractor/pkg/storage"
)

// Infrastructure holds the core systems required by all domain modules:
// lifecycle coordination, logging, database access, and the two file stores.
type Infrastructure struct {
	Lifecycle *lifecycle.Coordinator
	Logger    *slog.Logger
	Database  database.System
	Uploads   storage.System
	Images    storage.System
}

// New creates an Infrastructure from the application configuration.
// It initializes all systems but does not start them; call Start separately.
func New(cfg *config.Config) (*Infrastructure, error) {
	lc := lifecycle.New()
	logger := logging.New(&cfg.Logging)

	db, err := database.New(&cfg.Database, migrations.FS, logger)
	if err != nil {
		return nil, fmt.Errorf("database init failed: %w", err)
	}

	uploads, err := storage.New("uploads", cfg.Storage.UploadsPath, logger)
	if err != nil {
		return nil, fmt.Errorf("uploads storage init failed: %w", err)
	}

	images, err := storage.New("images", cfg.Storage.ImagesPath, logger)
	if err != nil {
		return nil, fmt.Errorf("images storage init failed: %w", err)
	}

	return &Infrastructure{
		Lifecycle: lc,
		Logger:    logger,
		Database:  db,
		Uploads:   uploads,
		Images:    images,
	}, nil
}

// Start initializes all infrastructure systems and registers them with the lifecycle coordinator.
func (i *Infrastructure) Start() error {
	if err := i.Uploads.Start(i.Lifecycle); err != nil {
		return fmt.Errorf("uploads storage start failed: %w", err)
	}
	if err := i.Images.Start(i.Lifecycle); err != nil {
		return fmt.Errorf("images storage start failed: %w", err)
	}
	if err := i.Database.Start(i.Lifecycle); err != nil {
		return fmt.Errorf("database start failed: %w", err)
	}
	return nil
}
