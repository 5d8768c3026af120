package app

import (
	"context"
	"fmt"

	"github.com/kugesan/eduquest/internal/blob"
)

func NewBlobStore(ctx context.Context, config *Config) (blob.Store, error) {
	switch config.Uploads.Backend {
	case "s3":
		return blob.NewS3Store(ctx, blob.S3Config{
			Endpoint:  config.Uploads.S3.Endpoint,
			Region:    config.Uploads.S3.Region,
			Bucket:    config.Uploads.S3.Bucket,
			AccessKey: config.Uploads.S3.AccessKey,
			SecretKey: config.Uploads.S3.SecretKey,
		})
	case "fs":
		return blob.NewFSStore(config.Uploads.Dir)
	default:
		return nil, fmt.Errorf("unknown uploads backend: %s", config.Uploads.Backend)
	}
}
