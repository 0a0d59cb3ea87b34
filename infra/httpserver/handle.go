package httpserver

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"strings"

	"isletmenum/pkg/apperror"
	"isletmenum/pkg/media"

	"github.com/gofiber/fiber/v2"
)

type Request any
type Response any

type HandlerInterface[R Request, Res Response] interface {
	Handle(ctx context.Context, req *R) (*Res, error)
}

// fileReceiver is implemented by requests that accept one uploaded file.
type fileReceiver interface {
	FileField() string
	AttachFile(upload *media.Upload)
}

// clientIPReceiver is implemented by requests that need the caller's address.
type clientIPReceiver interface {
	SetClientIP(ip string)
}

func handle[R Request, Res Response](handler HandlerInterface[R, Res]) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req R

		if len(c.Body()) > 0 {
			if err := c.BodyParser(&req); err != nil && !errors.Is(err, fiber.ErrUnprocessableEntity) {
				return apperror.Validation("request.invalid_body", "Invalid body", fiber.Map{"error": err.Error()})
			}
		}

		if err := c.ParamsParser(&req); err != nil {
			return apperror.Validation("request.invalid_path_params", "Invalid path params", fiber.Map{"error": err.Error()})
		}

		if err := c.QueryParser(&req); err != nil {
			return apperror.Validation("request.invalid_query_params", "Invalid query params", fiber.Map{"error": err.Error()})
		}

		if err := c.ReqHeaderParser(&req); err != nil {
			return apperror.Validation("request.invalid_headers", "Invalid headers", fiber.Map{"error": err.Error()})
		}

		if receiver, ok := any(&req).(clientIPReceiver); ok {
			receiver.SetClientIP(c.IP())
		}

		if receiver, ok := any(&req).(fileReceiver); ok {
			if err := bindFile(c, receiver); err != nil {
				return err
			}
		}

		res, err := handler.Handle(c.UserContext(), &req)
		if err != nil {
			return err
		}

		return c.JSON(res)
	}
}

// bindFile reads the receiver's file field from a multipart body. A
// missing file is not an error; the handler decides whether it is required.
func bindFile(c *fiber.Ctx, receiver fileReceiver) error {
	if !strings.HasPrefix(string(c.Request().Header.ContentType()), fiber.MIMEMultipartForm) {
		return nil
	}

	form, err := c.MultipartForm()
	if err != nil {
		return apperror.Validation("request.invalid_multipart", "Invalid multipart body", fiber.Map{"error": err.Error()})
	}

	field := receiver.FileField()
	files := form.File[field]
	if len(files) == 0 {
		return nil
	}

	upload, err := readUpload(field, files[0])
	if err != nil {
		return err
	}
	receiver.AttachFile(upload)
	return nil
}

func readUpload(field string, fh *multipart.FileHeader) (*media.Upload, error) {
	if fh.Size > media.MaxUploadSize {
		return nil, apperror.Validation("media.upload.too_large", "Image must not exceed 5MB", fiber.Map{field: "size"})
	}

	f, err := fh.Open()
	if err != nil {
		return nil, apperror.Validation("request.invalid_file", "Uploaded file could not be read", fiber.Map{field: "file"}).WithCause(err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, media.MaxUploadSize+1))
	if err != nil {
		return nil, apperror.Internal("request.read_file_failed", "Uploaded file could not be read", nil).WithCause(fmt.Errorf("read %s: %w", field, err))
	}

	return &media.Upload{
		Field:       field,
		Filename:    fh.Filename,
		ContentType: fh.Header.Get(fiber.HeaderContentType),
		Data:        data,
	}, nil
}
