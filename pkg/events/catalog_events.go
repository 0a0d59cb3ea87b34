package events

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	ServiceName     = "isletmenum"
	CatalogExchange = "isletmenum.catalog"
)

const (
	BusinessCreatedEvent     = "business.created"
	BusinessDeletedEvent     = "business.deleted"
	MenuCategoryCreatedEvent = "menu.category.created"
	MenuItemCreatedEvent     = "menu.item.created"
)

const (
	EventVersionV1 = "v1"
)

type BusinessCreatedPayload struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Type        string    `json:"type"`
	OwnerUserID int64     `json:"ownerUserId"`
	Logo        *string   `json:"logo"`
	CreatedAt   time.Time `json:"createdAt"`
}

// BusinessDeletedPayload lists every media path that belonged to the
// deleted business so consumers can remove the blobs.
type BusinessDeletedPayload struct {
	ID          int64     `json:"id"`
	OwnerUserID int64     `json:"ownerUserId"`
	MediaPaths  []string  `json:"mediaPaths"`
	DeletedAt   time.Time `json:"deletedAt"`
}

type MenuCategoryCreatedPayload struct {
	ID        int64     `json:"id"`
	MenuID    int64     `json:"menuId"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

type MenuItemCreatedPayload struct {
	ID         int64           `json:"id"`
	MenuID     int64           `json:"menuId"`
	CategoryID int64           `json:"categoryId"`
	Name       string          `json:"name"`
	Price      decimal.Decimal `json:"price"`
	ImagePath  *string         `json:"imagePath"`
	CreatedAt  time.Time       `json:"createdAt"`
}
