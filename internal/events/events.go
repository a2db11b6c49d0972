// Package events carries order lifecycle notifications out of the checkout
// flow. Listeners run after the order is committed; their failures never
// affect the order.
package events

import (
	"context"
	"time"

	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const TypeOrderConfirmed = "order.confirmed"

type OrderConfirmed struct {
	Type        string            `json:"type"`
	OrderID     uuid.UUID         `json:"order_id"`
	UserID      uuid.UUID         `json:"user_id"`
	Email       string            `json:"email"`
	Name        string            `json:"name"`
	Items       []models.CartItem `json:"items"`
	Total       decimal.Decimal   `json:"total"`
	SessionID   string            `json:"payment_session_id"`
	ConfirmedAt time.Time         `json:"confirmed_at"`
}

func NewOrderConfirmed(order *models.Order, user *models.User) OrderConfirmed {
	ev := OrderConfirmed{
		Type:        TypeOrderConfirmed,
		OrderID:     order.ID,
		UserID:      order.UserID,
		Items:       []models.CartItem(order.Items),
		Total:       order.Total,
		SessionID:   order.PaymentSessionID,
		ConfirmedAt: order.CreatedAt,
	}
	if user != nil {
		ev.Email = user.Email
		ev.Name = user.Name
	}
	return ev
}

type OrderListener interface {
	Name() string
	OrderConfirmed(ctx context.Context, ev OrderConfirmed) error
}
