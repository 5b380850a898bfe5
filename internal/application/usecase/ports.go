package usecase

import (
	"context"

	"github.com/movelaria/estoque-api/internal/domain/repository"
)

// CatalogTxRunner abre a transação dos cadastros de catálogo. A criação de
// variante ou depósito provisiona as linhas zeradas de saldo na mesma
// transação, para que todo par (variante, depósito) válido exista no razão.
type CatalogTxRunner interface {
	RunCatalogo(ctx context.Context, fn func(
		variantRepo repository.VariantRepository,
		warehouseRepo repository.WarehouseRepository,
		balanceRepo repository.BalanceRepository,
	) error) error
}
