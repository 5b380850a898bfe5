package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateVariantRequest entrada para cadastrar uma variante.
type CreateVariantRequest struct {
	SKU         string          `json:"sku" validate:"required,min=1,max=100"`
	Barcode     string          `json:"barcode" validate:"required,min=1,max=100"`
	Name        string          `json:"name" validate:"required,min=1,max=200"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
}

// UpdateVariantRequest entrada para atualizar uma variante (campos opcionais).
type UpdateVariantRequest struct {
	Barcode     *string          `json:"barcode" validate:"omitempty,min=1,max=100"`
	Name        *string          `json:"name" validate:"omitempty,min=1,max=200"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price"`
}

// VariantResponse saída de uma variante.
type VariantResponse struct {
	ID          int64           `json:"id"`
	SKU         string          `json:"sku"`
	Barcode     string          `json:"barcode"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// VariantListResponse lista paginada de variantes.
type VariantListResponse struct {
	Items []VariantResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
