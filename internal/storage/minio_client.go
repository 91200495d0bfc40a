package storage

import (
	"context"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"twin-editor/internal/config"
)

// NewMinioClient initializes a MinIO client for the model bucket and ensures
// the bucket exists.
func NewMinioClient(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*minio.Client, error) {
	minioClient, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessKey, cfg.MinioSecretKey, ""),
		Secure: cfg.MinioSSL,
		Region: cfg.MinioRegion,
	})
	if err != nil {
		return nil, errors.Wrap(err, "create minio client")
	}
	exists, err := minioClient.BucketExists(ctx, cfg.MinioBucket)
	if err != nil {
		return nil, errors.Wrapf(err, "check bucket %s", cfg.MinioBucket)
	}
	if !exists {
		if err := minioClient.MakeBucket(ctx, cfg.MinioBucket, minio.MakeBucketOptions{Region: cfg.MinioRegion}); err != nil {
			return nil, errors.Wrapf(err, "create bucket %s", cfg.MinioBucket)
		}
		logger.Info("Created model bucket", zap.String("bucket", cfg.MinioBucket))
	}
	return minioClient, nil
}
