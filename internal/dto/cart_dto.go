package dto

import (
	"time"

	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CartItemRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
	Size      string `json:"size"`
	Color     string `json:"color"`
}

type PopulatedCartItem struct {
	models.CartItem
	Product models.Product `json:"product"`
}

// CartResponse is the populated view: items whose product no longer exists
// are omitted here but remain stored.
type CartResponse struct {
	ID        uuid.UUID           `json:"id"`
	UserID    uuid.UUID           `json:"user_id"`
	Items     []PopulatedCartItem `json:"items"`
	Subtotal  decimal.Decimal     `json:"subtotal"`
	UpdatedAt time.Time           `json:"updated_at"`
}
