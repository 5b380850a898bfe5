package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Variant representa uma configuração vendável de um produto (tamanho,
// tecido, acabamento). É a unidade de rastreamento de estoque.
type Variant struct {
	ID          int64
	SKU         string // código único
	Barcode     string // código de barras usado no balcão (scan)
	Name        string
	Description string
	Price       decimal.Decimal // preço de venda unitário
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
