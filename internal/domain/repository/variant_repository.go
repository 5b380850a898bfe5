package repository

import "github.com/movelaria/estoque-api/internal/domain/entity"

// VariantRepository define a porta de persistência para variantes (DIP).
type VariantRepository interface {
	Create(variant *entity.Variant) error
	GetByID(id int64) (*entity.Variant, error)
	GetByBarcode(barcode string) (*entity.Variant, error)
	List(limit, offset int) ([]*entity.Variant, error)
	Update(variant *entity.Variant) error
}
