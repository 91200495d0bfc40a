package storage

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/pkg/errors"
)

// ModelResolver turns the file reference of a library asset into a URL the
// 3D view can fetch. Absolute URLs and server paths are returned unchanged;
// bare object keys are presigned against the model bucket. Without a MinIO
// client every reference passes through.
type ModelResolver struct {
	client *minio.Client
	bucket string
	ttl    time.Duration
}

func NewModelResolver(client *minio.Client, bucket string, ttl time.Duration) *ModelResolver {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &ModelResolver{client: client, bucket: bucket, ttl: ttl}
}

func (r *ModelResolver) ResolveModelURL(ctx context.Context, file string) (string, error) {
	file = strings.TrimSpace(file)
	if file == "" || r == nil || r.client == nil {
		return file, nil
	}
	if strings.HasPrefix(file, "/") {
		return file, nil
	}
	if u, err := url.Parse(file); err == nil && u.Scheme != "" {
		return file, nil
	}

	presigned, err := r.client.PresignedGetObject(ctx, r.bucket, file, r.ttl, nil)
	if err != nil {
		return "", errors.Wrapf(err, "presign model %s", file)
	}
	return presigned.String(), nil
}
