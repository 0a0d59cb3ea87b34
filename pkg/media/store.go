package media

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"isletmenum/pkg/apperror"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"go.uber.org/zap"
)

var ErrNotFound = errors.New("media: object not found")

type Object struct {
	Path        string
	ContentType string
	Data        []byte
}

// Store persists uploaded images in a fiber.Storage backend and maps stored
// paths to public URLs.
type Store struct {
	storage fiber.Storage
	baseURL string
}

func NewStore(storage fiber.Storage, publicBaseURL string) *Store {
	return &Store{
		storage: storage,
		baseURL: strings.TrimRight(publicBaseURL, "/"),
	}
}

// Key builds a storage prefix from path segments, slugifying free text
// such as business or item names.
func Key(segments ...string) string {
	parts := make([]string, 0, len(segments))
	for _, s := range segments {
		if s = slug.Make(s); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, "/")
}

// Save writes the upload under a random name below prefix and returns the
// stored path. The write is acknowledged by the backend before returning.
func (s *Store) Save(ctx context.Context, prefix string, upload *Upload) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", apperror.Storage("media.store.cancelled", "Upload was cancelled", nil).WithCause(err)
	}

	path := fmt.Sprintf("%s-%s%s", prefix, uuid.New().String(), extensionFor(upload.ContentType))

	if err := s.storage.Set(path, upload.Data, 0); err != nil {
		zap.L().Error("Failed to store media object", zap.String("path", path), zap.Error(err))
		return "", apperror.Storage("media.store.failed", "Failed to upload image to storage", nil).WithCause(err)
	}

	return path, nil
}

func (s *Store) Open(_ context.Context, path string) (*Object, error) {
	if path == "" {
		return nil, ErrNotFound
	}

	data, err := s.storage.Get(path)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", path, err)
	}
	if data == nil {
		return nil, ErrNotFound
	}

	return &Object{
		Path:        path,
		ContentType: contentTypeFor(path),
		Data:        data,
	}, nil
}

func (s *Store) Delete(_ context.Context, path string) error {
	if path == "" {
		return nil
	}
	if err := s.storage.Delete(path); err != nil {
		return fmt.Errorf("delete %s: %w", path, err)
	}
	return nil
}

// URLFor maps a stored path to its absolute URL. The mapping depends only
// on configuration, so the same path always yields the same URL.
func (s *Store) URLFor(path string) string {
	return s.baseURL + "/" + strings.TrimLeft(path, "/")
}

// ResolveURL is URLFor for nullable columns.
func (s *Store) ResolveURL(path *string) *string {
	if path == nil || *path == "" {
		return nil
	}
	url := s.URLFor(*path)
	return &url
}

func (s *Store) Close() error {
	return s.storage.Close()
}
