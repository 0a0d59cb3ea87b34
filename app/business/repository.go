package business

import (
	"context"

	"isletmenum/domain"
	"isletmenum/pkg/media"
)

type Repository interface {
	CreateBusiness(ctx context.Context, business domain.Business) (domain.Business, error)
	GetBusinesses(ctx context.Context) ([]domain.Business, error)
	GetUserBusinesses(ctx context.Context, ownerID int64) ([]domain.Business, error)
	GetBusiness(ctx context.Context, id int64) (domain.Business, error)
	// DeleteBusiness removes the business with its categories and items and
	// returns the media paths those rows referenced.
	DeleteBusiness(ctx context.Context, id int64, ownerID int64) ([]string, error)
}

type MediaStore interface {
	Save(ctx context.Context, prefix string, upload *media.Upload) (string, error)
	Delete(ctx context.Context, path string) error
	ResolveURL(path *string) *string
}

func withLogoURL(store MediaStore, b domain.Business) domain.Business {
	b.LogoURL = store.ResolveURL(b.Logo)
	return b
}

func withLogoURLs(store MediaStore, businesses []domain.Business) []domain.Business {
	out := make([]domain.Business, 0, len(businesses))
	for _, b := range businesses {
		out = append(out, withLogoURL(store, b))
	}
	return out
}
