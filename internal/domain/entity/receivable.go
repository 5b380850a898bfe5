package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Receivable é o título a receber criado na finalização de um pedido.
// Único ponto de contato do núcleo de estoque com o financeiro.
type Receivable struct {
	ID        string
	OrderID   int64
	Amount    decimal.Decimal
	Status    string // "aberta" na criação; o ciclo de cobrança é externo
	CreatedAt time.Time
}
