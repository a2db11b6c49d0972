package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	TransactionStatusPending  = "pending"
	TransactionStatusComplete = "complete"

	PaymentStatusInitiated = "initiated"
	PaymentStatusPaid      = "paid"
)

type TransactionMetadata struct {
	CartID uuid.UUID `json:"cart_id"`
}

// PaymentTransaction records one hosted checkout session. It moves from
// pending/initiated to complete/paid exactly once.
type PaymentTransaction struct {
	ID            uuid.UUID                                `gorm:"type:uuid;primaryKey" json:"id"`
	SessionID     string                                   `gorm:"size:255;not null;uniqueIndex" json:"session_id"`
	UserID        uuid.UUID                                `gorm:"type:uuid;not null;index" json:"user_id"`
	Amount        decimal.Decimal                          `gorm:"type:numeric(12,2);not null" json:"amount"`
	Currency      string                                   `gorm:"size:10;not null" json:"currency"`
	Status        string                                   `gorm:"size:20;not null;default:'pending'" json:"status"`
	PaymentStatus string                                   `gorm:"size:20;not null;default:'initiated';index" json:"payment_status"`
	Metadata      datatypes.JSONType[TransactionMetadata] `json:"metadata"`
	CreatedAt     time.Time                                `json:"created_at"`
	UpdatedAt     time.Time                                `json:"updated_at"`
}

func (t *PaymentTransaction) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

func (t *PaymentTransaction) IsPaid() bool {
	return t.PaymentStatus == PaymentStatusPaid
}
