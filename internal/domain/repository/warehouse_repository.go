package repository

import "github.com/movelaria/estoque-api/internal/domain/entity"

// WarehouseRepository define a porta de persistência para depósitos (DIP).
type WarehouseRepository interface {
	Create(warehouse *entity.Warehouse) error
	GetByID(id int64) (*entity.Warehouse, error)
	List(limit, offset int) ([]*entity.Warehouse, error)
}
