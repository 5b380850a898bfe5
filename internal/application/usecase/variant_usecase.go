package usecase

import (
	"context"
	"time"

	"github.com/movelaria/estoque-api/internal/application/dto"
	"github.com/movelaria/estoque-api/internal/domain/entity"
	"github.com/movelaria/estoque-api/internal/domain/repository"
)

// VariantUseCase casos de uso CRUD de variantes. Saldo nunca é editado aqui;
// toda mutação de estoque passa pelo registrador de movimentos.
type VariantUseCase struct {
	repo repository.VariantRepository
	tx   CatalogTxRunner
}

// NewVariantUseCase constrói o caso de uso.
func NewVariantUseCase(repo repository.VariantRepository, tx CatalogTxRunner) *VariantUseCase {
	return &VariantUseCase{repo: repo, tx: tx}
}

// Create cadastra a variante e provisiona saldo zero em todos os depósitos,
// na mesma transação.
func (uc *VariantUseCase) Create(ctx context.Context, in dto.CreateVariantRequest) (*dto.VariantResponse, error) {
	now := time.Now()
	variant := &entity.Variant{
		SKU:         in.SKU,
		Barcode:     in.Barcode,
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	err := uc.tx.RunCatalogo(ctx, func(
		variantRepo repository.VariantRepository,
		_ repository.WarehouseRepository,
		balanceRepo repository.BalanceRepository,
	) error {
		if err := variantRepo.Create(variant); err != nil {
			return err
		}
		return balanceRepo.ProvisionVariant(variant.ID)
	})
	if err != nil {
		return nil, err
	}
	return toVariantResponse(variant), nil
}

// GetByID obtém uma variante por ID.
func (uc *VariantUseCase) GetByID(id int64) (*dto.VariantResponse, error) {
	variant, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	return toVariantResponse(variant), nil
}

// List lista variantes paginadas.
func (uc *VariantUseCase) List(page dto.PageRequest) (*dto.VariantListResponse, error) {
	page.DefaultPage()
	variants, err := uc.repo.List(page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.VariantResponse, len(variants))
	for i, v := range variants {
		items[i] = *toVariantResponse(v)
	}
	return &dto.VariantListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}

// Update atualiza os campos enviados da variante. SKU é imutável.
func (uc *VariantUseCase) Update(id int64, in dto.UpdateVariantRequest) (*dto.VariantResponse, error) {
	variant, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if in.Barcode != nil {
		variant.Barcode = *in.Barcode
	}
	if in.Name != nil {
		variant.Name = *in.Name
	}
	if in.Description != nil {
		variant.Description = *in.Description
	}
	if in.Price != nil {
		variant.Price = *in.Price
	}
	variant.UpdatedAt = time.Now()
	if err := uc.repo.Update(variant); err != nil {
		return nil, err
	}
	return toVariantResponse(variant), nil
}

func toVariantResponse(v *entity.Variant) *dto.VariantResponse {
	return &dto.VariantResponse{
		ID:          v.ID,
		SKU:         v.SKU,
		Barcode:     v.Barcode,
		Name:        v.Name,
		Description: v.Description,
		Price:       v.Price,
		CreatedAt:   v.CreatedAt,
		UpdatedAt:   v.UpdatedAt,
	}
}
