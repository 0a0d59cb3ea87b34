package domain

import "time"

type Business struct {
	ID          int64     `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Description string    `db:"description" json:"description"`
	Type        string    `db:"type" json:"type"`
	Logo        *string   `db:"logo" json:"logo"`
	LogoURL     *string   `db:"-" json:"logoUrl"`
	OwnerUserID int64     `db:"owner_user_id" json:"ownerUserId"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time `db:"updated_at" json:"updatedAt"`
}

// MenuID returns the id of the business' implicit menu.
func (b Business) MenuID() int64 {
	return b.ID
}
