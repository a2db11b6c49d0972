package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const OrderStatusConfirmed = "confirmed"

// Order is created once per paid transaction and never updated.
type Order struct {
	ID               uuid.UUID                     `gorm:"type:uuid;primaryKey" json:"id"`
	UserID           uuid.UUID                     `gorm:"type:uuid;not null;index" json:"user_id"`
	Items            datatypes.JSONSlice[CartItem] `json:"items"`
	Total            decimal.Decimal               `gorm:"type:numeric(12,2);not null" json:"total"`
	Status           string                        `gorm:"size:20;not null" json:"status"`
	PaymentSessionID string                        `gorm:"size:255;not null;uniqueIndex" json:"payment_session_id"`
	CreatedAt        time.Time                     `gorm:"index" json:"created_at"`
}

func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	if o.Items == nil {
		o.Items = datatypes.JSONSlice[CartItem]{}
	}
	return nil
}
