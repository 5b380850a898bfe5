package repository

import "github.com/movelaria/estoque-api/internal/domain/entity"

// MovementRepository define a porta de persistência do razão de movimentos
// (append-only; não há Update nem Delete).
type MovementRepository interface {
	Create(movement *entity.Movement) error
	GetByID(id string) (*entity.Movement, error)
	ListByLot(lotID string) ([]*entity.Movement, error)
	ListByVariant(variantID int64, limit, offset int) ([]*entity.Movement, error)
	ListByWarehouse(warehouseID int64, limit, offset int) ([]*entity.Movement, error)
	// ListByOrder devolve os movimentos referenciando o pedido (Kind=pedido).
	ListByOrder(orderID int64) ([]*entity.Movement, error)
}
