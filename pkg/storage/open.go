package storage

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
)

// Open splits a location into a store and the key inside it.
// "s3://bucket/path/key" yields an S3Store; anything else is a local file
// path whose directory becomes the LocalStore root.
func Open(ctx context.Context, location string, opts S3Options) (BlobStore, string, error) {
	if rest, ok := strings.CutPrefix(location, "s3://"); ok {
		bucket, key, _ := strings.Cut(rest, "/")
		if bucket == "" || key == "" {
			return nil, "", fmt.Errorf("location %q: %w", location, ErrInvalidKey)
		}

		cfg, err := awsconfig.LoadDefaultConfig(ctx)
		if err != nil {
			return nil, "", fmt.Errorf("failed to load AWS config: %w", err)
		}
		return NewS3Store(cfg, bucket, opts), key, nil
	}

	if location == "" {
		return nil, "", ErrInvalidKey
	}
	dir, file := filepath.Split(location)
	if dir == "" {
		dir = "."
	}
	return NewLocalStore(dir), file, nil
}
