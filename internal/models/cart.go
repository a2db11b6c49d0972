package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// CartItem is one line of a cart or an order snapshot. A cart holds at most
// one item per (ProductID, Size, Color).
type CartItem struct {
	ProductID uuid.UUID `json:"product_id"`
	Quantity  int       `json:"quantity"`
	Size      string    `json:"size"`
	Color     string    `json:"color"`
}

// Matches reports whether both items share the same line key.
func (i CartItem) Matches(productID uuid.UUID, size, color string) bool {
	return i.ProductID == productID && i.Size == size && i.Color == color
}

// Valid rejects stored items that drifted from the line item shape.
func (i CartItem) Valid() bool {
	return i.ProductID != uuid.Nil && i.Quantity >= 1
}

type Cart struct {
	ID        uuid.UUID                     `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID                     `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
	Items     datatypes.JSONSlice[CartItem] `json:"items"`
	CreatedAt time.Time                     `json:"created_at"`
	UpdatedAt time.Time                     `json:"updated_at"`
}

func (c *Cart) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	if c.Items == nil {
		c.Items = datatypes.JSONSlice[CartItem]{}
	}
	return nil
}
