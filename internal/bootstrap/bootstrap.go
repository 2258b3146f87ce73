// Package bootstrap provides dependency initialization for the Audiopolish API.
package bootstrap

import (
	"fmt"
	"log/slog"

	"github.com/audiopolish/audiopolish-api/internal/codec"
	"github.com/audiopolish/audiopolish-api/internal/config"
	"github.com/audiopolish/audiopolish-api/internal/enhancer"
	"github.com/audiopolish/audiopolish-api/internal/session"
	"github.com/audiopolish/audiopolish-api/internal/storage"
)

// Dependencies holds all initialized dependencies for the HTTP server.
type Dependencies struct {
	UploadService *enhancer.Service
	Sessions      *session.Manager
}

// NewDependencies creates and initializes all dependencies for the application.
func NewDependencies(cfg *config.Config, logger *slog.Logger) (*Dependencies, error) {
	store, err := initStorage(cfg, logger)
	if err != nil {
		return nil, err
	}

	ffmpeg := codec.NewFFmpegCodec(cfg.FFmpegPath)
	sessions := session.NewManager(cfg.SessionTTL)

	svc := enhancer.NewService(
		sessions,
		ffmpeg,
		ffmpeg,
		store,
		logger,
		enhancer.WithMaxUploadBytes(cfg.MaxUploadBytes),
		enhancer.WithPublishing(cfg.S3Enabled()),
	)

	return &Dependencies{
		UploadService: svc,
		Sessions:      sessions,
	}, nil
}

// initStorage creates the appropriate storage backend based on configuration.
func initStorage(cfg *config.Config, logger *slog.Logger) (storage.Storage, error) {
	if cfg.S3Enabled() {
		s3Cfg := storage.S3Config{
			Bucket:          cfg.S3Bucket,
			Region:          cfg.S3Region,
			AccessKeyID:     cfg.AWSAccessKeyID,
			SecretAccessKey: cfg.AWSSecretAccessKey,
		}
		s3Store, err := storage.NewS3Storage(cfg.TempDir, s3Cfg)
		if err != nil {
			return nil, fmt.Errorf("create S3 storage: %w", err)
		}
		logger.Info("S3 publication configured",
			slog.String("bucket", cfg.S3Bucket),
			slog.String("region", cfg.S3Region),
		)
		return s3Store, nil
	}

	localStore, err := storage.NewLocalStorage(cfg.TempDir)
	if err != nil {
		return nil, fmt.Errorf("create local storage: %w", err)
	}
	logger.Info("local storage configured",
		slog.String("temp_dir", cfg.TempDir),
	)
	return localStore, nil
}
