package entity

import "time"

// StockBalance é o saldo físico atual de uma variante em um depósito.
// Criado com quantidade zero para todo par (variante, depósito) no momento em
// que qualquer um dos dois é cadastrado; mutado somente pelo registrador de
// movimentos, dentro de transação e sob bloqueio de linha.
type StockBalance struct {
	VariantID   int64
	WarehouseID int64
	Quantity    int64
	UpdatedAt   time.Time
}
