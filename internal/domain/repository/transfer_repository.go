package repository

import "github.com/movelaria/estoque-api/internal/domain/entity"

// TransferRepository define a porta de persistência para transferências.
type TransferRepository interface {
	Create(transfer *entity.Transfer) error
	GetByID(id string) (*entity.Transfer, error)
	List(limit, offset int) ([]*entity.Transfer, error)
}
