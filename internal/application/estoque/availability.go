package estoque

import (
	"github.com/movelaria/estoque-api/internal/domain/repository"
)

// AvailabilityCalculator deriva a quantidade vendável:
// disponibilidade = saldo físico − reservas ativas.
// Leitura pura, sem bloqueio; construído sobre repositórios ligados ao pool
// (pré-checagens e telas) ou à transação corrente (read-your-writes dentro de
// um lote em andamento).
type AvailabilityCalculator struct {
	balances     repository.BalanceRepository
	reservations repository.ReservationRepository
}

// NewAvailabilityCalculator constrói o calculador sobre as duas fontes.
func NewAvailabilityCalculator(balances repository.BalanceRepository, reservations repository.ReservationRepository) *AvailabilityCalculator {
	return &AvailabilityCalculator{balances: balances, reservations: reservations}
}

// Available devolve a disponibilidade da variante. Com depósito preenchido,
// considera o saldo daquele depósito menos as reservas presas a ele; com
// depósito nulo, o saldo agregado de todos os depósitos menos todas as
// reservas ativas (inclusive as sem depósito, que debitam só o pool global).
func (c *AvailabilityCalculator) Available(variantID int64, warehouseID *int64) (int64, error) {
	if warehouseID == nil {
		total, err := c.balances.SumByVariant(variantID)
		if err != nil {
			return 0, err
		}
		reserved, err := c.reservations.SumActive(variantID, nil)
		if err != nil {
			return 0, err
		}
		return total - reserved, nil
	}

	balance, err := c.balances.Get(variantID, *warehouseID)
	if err != nil {
		return 0, err
	}
	reserved, err := c.reservations.SumActive(variantID, warehouseID)
	if err != nil {
		return 0, err
	}
	return balance.Quantity - reserved, nil
}
