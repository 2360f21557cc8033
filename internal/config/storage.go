package config

import (
	"fmt"
	"os"

	"github.com/docker/go-units"
)

const (
	EnvStorageUploadsPath   = "STORAGE_UPLOADS_PATH"
	EnvStorageImagesPath    = "STORAGE_IMAGES_PATH"
	EnvStorageMaxUploadSize = "STORAGE_MAX_UPLOAD_SIZE"
)

// StorageConfig locates the upload and extracted-image directories.
type StorageConfig struct {
	UploadsPath      string `toml:"uploads_path"`
	ImagesPath       string `toml:"images_path"`
	MaxUploadSize    string `toml:"max_upload_size"`
	maxUploadSizeVal int64
}

// MaxUploadSizeBytes returns max_upload_size in bytes. Valid after Finalize.
func (c *StorageConfig) MaxUploadSizeBytes() int64 {
	return c.maxUploadSizeVal
}

// Finalize applies defaults, loads environment overrides, and validates the storage configuration.
func (c *StorageConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge applies values from overlay configuration that differ from zero values.
func (c *StorageConfig) Merge(overlay *StorageConfig) {
	if overlay.UploadsPath != "" {
		c.UploadsPath = overlay.UploadsPath
	}
	if overlay.ImagesPath != "" {
		c.ImagesPath = overlay.ImagesPath
	}
	if overlay.MaxUploadSize != "" {
		c.MaxUploadSize = overlay.MaxUploadSize
	}
}

func (c *StorageConfig) loadDefaults() {
	if c.UploadsPath == "" {
		c.UploadsPath = "uploads/pdfs"
	}
	if c.ImagesPath == "" {
		c.ImagesPath = "uploads/images"
	}
	if c.MaxUploadSize == "" {
		c.MaxUploadSize = "50MB"
	}
}

func (c *StorageConfig) loadEnv() {
	if v := os.Getenv(EnvStorageUploadsPath); v != "" {
		c.UploadsPath = v
	}
	if v := os.Getenv(EnvStorageImagesPath); v != "" {
		c.ImagesPath = v
	}
	if v := os.Getenv(EnvStorageMaxUploadSize); v != "" {
		c.MaxUploadSize = v
	}
}

func (c *StorageConfig) validate() error {
	if c.UploadsPath == c.ImagesPath {
		return fmt.Errorf("uploads_path and images_path must differ")
	}

	size, err := units.FromHumanSize(c.MaxUploadSize)
	if err != nil {
		return fmt.Errorf("invalid max_upload_size: %w", err)
	}
	if size <= 0 {
		return fmt.Errorf("max_upload_size must be positive")
	}
	c.maxUploadSizeVal = size

	return nil
}
