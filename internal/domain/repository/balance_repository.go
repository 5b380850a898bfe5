package repository

import "github.com/movelaria/estoque-api/internal/domain/entity"

// BalanceRepository é a porta do razão de saldos por (variante, depósito).
// Todo par válido possui uma linha (provisionada com zero na criação da
// variante ou do depósito), então a ausência de linha significa referência a
// variante/depósito inexistente, não "ainda sem saldo".
type BalanceRepository interface {
	Get(variantID, warehouseID int64) (*entity.StockBalance, error)
	// GetForUpdate bloqueia a linha (SELECT ... FOR UPDATE) para serializar
	// movimentos concorrentes sobre o mesmo par.
	GetForUpdate(variantID, warehouseID int64) (*entity.StockBalance, error)
	Upsert(balance *entity.StockBalance) error
	// SumByVariant soma o saldo da variante em todos os depósitos.
	SumByVariant(variantID int64) (int64, error)
	ListByVariant(variantID int64) ([]*entity.StockBalance, error)
	// ProvisionVariant cria a linha zerada da variante em todos os depósitos
	// existentes; ProvisionWarehouse faz o fan-out inverso. Ambos rodam na
	// mesma transação do cadastro.
	ProvisionVariant(variantID int64) error
	ProvisionWarehouse(warehouseID int64) error
}
