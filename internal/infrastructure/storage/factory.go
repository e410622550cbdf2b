package storage

import (
	"context"
	"fmt"

	"github.com/marketplace/backend/internal/application/media"
	"github.com/marketplace/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// New builds the store selected by cfg.Driver
func New(ctx context.Context, cfg config.StorageConfig, logger *zap.Logger) (media.ObjectStorage, error) {
	switch cfg.Driver {
	case "s3":
		s3store, err := NewS3ObjectStorage(ctx, &cfg, WithLogger(logger))
		if err != nil {
			return nil, err
		}
		if err := s3store.EnsureBucket(ctx); err != nil {
			return nil, err
		}
		logger.Info("Using S3 upload storage", zap.String("bucket", s3store.Bucket()))
		return s3store, nil
	case "local", "":
		local, err := NewLocalObjectStorage(cfg.LocalDir, cfg.PublicBaseURL)
		if err != nil {
			return nil, err
		}
		logger.Info("Using local upload storage", zap.String("dir", local.Root()))
		return local, nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}
