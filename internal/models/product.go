package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

func init() {
	// Prices go over the wire as JSON numbers, not quoted strings.
	decimal.MarshalJSONWithoutQuotes = true
}

type Product struct {
	ID          uuid.UUID                   `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string                      `gorm:"size:255;not null" json:"name"`
	Description string                      `gorm:"type:text" json:"description"`
	Price       decimal.Decimal             `gorm:"type:numeric(12,2);not null" json:"price"`
	Category    string                      `gorm:"size:50;not null;index" json:"category"`
	Images      datatypes.JSONSlice[string] `json:"images"`
	Sizes       datatypes.JSONSlice[string] `json:"sizes"`
	Colors      datatypes.JSONSlice[string] `json:"colors"`
	Brand       string                      `gorm:"size:255" json:"brand"`
	Stock       int                         `gorm:"not null;default:0" json:"stock"`
	Featured    bool                        `gorm:"not null;default:false;index" json:"featured"`
	CreatedAt   time.Time                   `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time                   `json:"updated_at"`
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
