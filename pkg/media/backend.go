package media

import (
	"fmt"
	"strings"
	"time"

	"isletmenum/pkg/config"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/storage/memory/v2"
	"github.com/gofiber/storage/s3/v2"
)

// NewBackend returns the storage backend selected by MEDIA_DRIVER.
func NewBackend(cfg *config.AppConfig) (fiber.Storage, error) {
	switch cfg.MediaDriver {
	case config.MediaDriverS3:
		return s3.New(s3.Config{
			Endpoint: cfg.AWSEndpoint,
			Bucket:   cfg.AWSBucket,
			Region:   cfg.AWSDefaultRegion,
			Credentials: s3.Credentials{
				AccessKey:       cfg.AWSAccessKey,
				SecretAccessKey: cfg.AWSSecretKey,
			},
			MaxAttempts:    3,
			RequestTimeout: time.Second * 10,
			Reset:          false,
		}), nil
	case config.MediaDriverMemory:
		return memory.New(memory.Config{
			GCInterval: time.Minute,
		}), nil
	default:
		return nil, fmt.Errorf("unknown media driver %q", cfg.MediaDriver)
	}
}

// PublicBaseURL is the prefix URLFor puts in front of stored paths.
func PublicBaseURL(cfg *config.AppConfig) string {
	if cfg.MediaPublicURL != "" {
		return cfg.MediaPublicURL
	}

	if cfg.MediaDriver == config.MediaDriverS3 {
		// For MinIO/S3 with a custom endpoint: endpoint/bucket/key
		if cfg.AWSEndpoint != "" {
			return fmt.Sprintf("%s/%s", strings.TrimRight(cfg.AWSEndpoint, "/"), cfg.AWSBucket)
		}
		if cfg.AWSDefaultRegion != "" {
			return fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.AWSBucket, cfg.AWSDefaultRegion)
		}
	}

	return strings.TrimRight(cfg.BaseURL, "/") + "/media"
}
