package grpc

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"isletmenum/domain"

	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

type CatalogRepository interface {
	GetBusiness(ctx context.Context, id int64) (domain.Business, error)
	GetBusinesses(ctx context.Context) ([]domain.Business, error)
	GetMenuCategories(ctx context.Context, menuID int64) ([]domain.MenuCategory, error)
	GetMenuItems(ctx context.Context, menuID int64) ([]domain.MenuItem, error)
}

type URLResolver interface {
	ResolveURL(path *string) *string
}

// CatalogService is the read-only view of menus for internal consumers.
type CatalogService struct {
	repository CatalogRepository
	media      URLResolver
}

var _ CatalogServer = (*CatalogService)(nil)

func NewCatalogService(repository CatalogRepository, media URLResolver) *CatalogService {
	return &CatalogService{
		repository: repository,
		media:      media,
	}
}

// GetMenu returns the menu with its categories in creation order, each
// carrying its items.
func (s *CatalogService) GetMenu(ctx context.Context, req *wrapperspb.Int64Value) (*structpb.Struct, error) {
	menuID := req.GetValue()
	if menuID <= 0 {
		return nil, status.Error(codes.InvalidArgument, "menu id is required")
	}

	business, err := s.repository.GetBusiness(ctx, menuID)
	if err != nil {
		return nil, s.mapError(err, "menu not found")
	}

	categories, err := s.repository.GetMenuCategories(ctx, menuID)
	if err != nil {
		return nil, s.mapError(err, "")
	}
	items, err := s.repository.GetMenuItems(ctx, menuID)
	if err != nil {
		return nil, s.mapError(err, "")
	}

	itemsByCategory := make(map[int64][]any)
	for _, group := range domain.GroupItemsByCategory(items) {
		for _, item := range group.Items {
			itemsByCategory[group.CategoryID] = append(itemsByCategory[group.CategoryID], s.itemValue(item))
		}
	}

	categoryValues := make([]any, 0, len(categories))
	for _, c := range categories {
		categoryItems := itemsByCategory[c.ID]
		if categoryItems == nil {
			categoryItems = []any{}
		}
		categoryValues = append(categoryValues, map[string]any{
			"id":    c.ID,
			"name":  c.Name,
			"items": categoryItems,
		})
	}

	menu, err := structpb.NewStruct(map[string]any{
		"menuId":       business.MenuID(),
		"businessName": business.Name,
		"categories":   categoryValues,
	})
	if err != nil {
		zap.L().Error("Failed to encode menu", zap.Int64("menuId", menuID), zap.Error(err))
		return nil, status.Error(codes.Internal, "internal error")
	}
	return menu, nil
}

func (s *CatalogService) ListBusinesses(ctx context.Context, _ *emptypb.Empty) (*structpb.ListValue, error) {
	businesses, err := s.repository.GetBusinesses(ctx)
	if err != nil {
		return nil, s.mapError(err, "")
	}

	values := make([]any, 0, len(businesses))
	for _, b := range businesses {
		values = append(values, map[string]any{
			"id":          b.ID,
			"name":        b.Name,
			"description": b.Description,
			"type":        b.Type,
			"logoUrl":     nullable(s.media.ResolveURL(b.Logo)),
			"ownerUserId": b.OwnerUserID,
			"createdAt":   b.CreatedAt.UTC().Format(time.RFC3339),
		})
	}

	list, err := structpb.NewList(values)
	if err != nil {
		zap.L().Error("Failed to encode businesses", zap.Error(err))
		return nil, status.Error(codes.Internal, "internal error")
	}
	return list, nil
}

func (s *CatalogService) itemValue(item domain.MenuItem) map[string]any {
	return map[string]any{
		"id":          item.ID,
		"name":        item.Name,
		"description": item.Description,
		"price":       item.Price.InexactFloat64(),
		"imageUrl":    nullable(s.media.ResolveURL(item.ImagePath)),
		"volume":      nullable(item.Volume),
		"ingredients": nullable(item.Ingredients),
		"categoryId":  item.CategoryID,
	}
}

func (s *CatalogService) mapError(err error, notFound string) error {
	if notFound != "" && errors.Is(err, sql.ErrNoRows) {
		return status.Error(codes.NotFound, notFound)
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return status.FromContextError(err).Err()
	}
	zap.L().Error("Catalog query failed", zap.Error(err))
	return status.Error(codes.Internal, "internal error")
}

// nullable converts an optional string into a value structpb accepts.
func nullable(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}
