package media

import (
	"strings"

	"isletmenum/pkg/apperror"

	"github.com/gofiber/fiber/v2"
)

const MaxUploadSize = 5 * 1024 * 1024

var allowedContentTypes = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/jpg":  ".jpg",
	"image/webp": ".webp",
}

// Upload is a file received with a multipart request, fully read into memory.
type Upload struct {
	Field       string
	Filename    string
	ContentType string
	Data        []byte
}

// Validate checks size and content type. Handlers call it before any write.
func (u *Upload) Validate() error {
	if len(u.Data) == 0 {
		return apperror.Validation("upload.empty_file", "Uploaded file is empty", fiber.Map{"field": u.Field})
	}

	if len(u.Data) > MaxUploadSize {
		return apperror.Validation("upload.file_too_large", "File size must not exceed 5MB",
			fiber.Map{
				"field":   u.Field,
				"size_mb": float64(len(u.Data)) / 1024 / 1024,
				"max_mb":  5,
			})
	}

	if _, ok := allowedContentTypes[u.ContentType]; !ok {
		return apperror.Validation("upload.invalid_content_type", "Only PNG, JPEG/JPG and WEBP images are allowed",
			fiber.Map{
				"field":    u.Field,
				"received": u.ContentType,
				"allowed":  []string{"image/png", "image/jpeg", "image/jpg", "image/webp"},
			})
	}

	return nil
}

func extensionFor(contentType string) string {
	if ext, ok := allowedContentTypes[contentType]; ok {
		return ext
	}
	return ".jpg"
}

func contentTypeFor(path string) string {
	switch {
	case strings.HasSuffix(path, ".png"):
		return "image/png"
	case strings.HasSuffix(path, ".webp"):
		return "image/webp"
	default:
		return "image/jpeg"
	}
}
