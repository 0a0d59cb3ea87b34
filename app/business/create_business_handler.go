package business

import (
	"context"
	"strings"

	"isletmenum/app"
	"isletmenum/app/auth"
	"isletmenum/domain"
	"isletmenum/pkg/apperror"
	"isletmenum/pkg/events"
	"isletmenum/pkg/media"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

type CreateBusinessHandler struct {
	repository     Repository
	media          MediaStore
	eventPublisher events.Publisher
	validate       *validator.Validate
}

type CreateBusinessRequest struct {
	Name        string        `json:"name" form:"name" validate:"required,max=255"`
	Description string        `json:"description" form:"description" validate:"required"`
	Type        string        `json:"type" form:"type" validate:"required,max=100"`
	Logo        *media.Upload `json:"-" form:"-"`
}

func (r *CreateBusinessRequest) FileField() string { return "logo" }

func (r *CreateBusinessRequest) AttachFile(upload *media.Upload) { r.Logo = upload }

type CreateBusinessResponse struct {
	Message  string          `json:"message"`
	Business domain.Business `json:"business"`
}

func NewCreateBusinessHandler(repository Repository, mediaStore MediaStore, eventPublisher events.Publisher) *CreateBusinessHandler {
	return &CreateBusinessHandler{
		repository:     repository,
		media:          mediaStore,
		eventPublisher: eventPublisher,
		validate:       app.NewValidator(),
	}
}

func (h *CreateBusinessHandler) Handle(ctx context.Context, req *CreateBusinessRequest) (*CreateBusinessResponse, error) {
	principal, ok := auth.PrincipalFrom(ctx)
	if !ok {
		return nil, apperror.Unauthorized("auth.unauthorized", "Missing bearer token", nil)
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Description = strings.TrimSpace(req.Description)
	req.Type = strings.TrimSpace(req.Type)

	if err := app.ValidateStruct(h.validate, "business.create.validation_failed", req); err != nil {
		return nil, err
	}
	if req.Logo != nil {
		if err := req.Logo.Validate(); err != nil {
			return nil, err
		}
	}

	business := domain.Business{
		Name:        req.Name,
		Description: req.Description,
		Type:        req.Type,
		OwnerUserID: principal.UserID,
	}

	if req.Logo != nil {
		path, err := h.media.Save(ctx, media.Key("businesses", req.Name, "logo"), req.Logo)
		if err != nil {
			return nil, err
		}
		business.Logo = &path
	}

	created, err := h.repository.CreateBusiness(ctx, business)
	if err != nil {
		h.discardLogo(ctx, business.Logo)
		return nil, apperror.Internal("business.create.create_failed", "An error occurred while creating the business", nil).WithCause(err)
	}

	_ = events.Emit(ctx, h.eventPublisher, events.BusinessCreatedEvent, events.BusinessCreatedPayload{
		ID:          created.ID,
		Name:        created.Name,
		Type:        created.Type,
		OwnerUserID: created.OwnerUserID,
		Logo:        created.Logo,
		CreatedAt:   created.CreatedAt,
	})

	return &CreateBusinessResponse{
		Message:  "Business created successfully",
		Business: withLogoURL(h.media, created),
	}, nil
}

func (h *CreateBusinessHandler) discardLogo(ctx context.Context, path *string) {
	if path == nil {
		return
	}
	if err := h.media.Delete(ctx, *path); err != nil {
		zap.L().Error("Failed to remove logo of unsaved business", zap.String("path", *path), zap.Error(err))
	}
}
