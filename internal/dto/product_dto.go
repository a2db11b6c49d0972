package dto

import "github.com/shopspring/decimal"

type CreateProductRequest struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Category    string          `json:"category"`
	Images      []string        `json:"images"`
	Sizes       []string        `json:"sizes"`
	Colors      []string        `json:"colors"`
	Brand       string          `json:"brand"`
	Stock       *int            `json:"stock"`
	Featured    bool            `json:"featured"`
}

// UpdateProductRequest is a partial update: nil fields are left untouched.
type UpdateProductRequest struct {
	Name        *string          `json:"name"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	Category    *string          `json:"category"`
	Images      *[]string        `json:"images"`
	Sizes       *[]string        `json:"sizes"`
	Colors      *[]string        `json:"colors"`
	Brand       *string          `json:"brand"`
	Stock       *int             `json:"stock"`
	Featured    *bool            `json:"featured"`
}

type ProductFilter struct {
	Category *string
	Featured *bool
}
