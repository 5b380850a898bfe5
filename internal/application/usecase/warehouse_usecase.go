package usecase

import (
	"context"
	"time"

	"github.com/movelaria/estoque-api/internal/application/dto"
	"github.com/movelaria/estoque-api/internal/domain/entity"
	"github.com/movelaria/estoque-api/internal/domain/repository"
)

// WarehouseUseCase casos de uso de depósitos.
type WarehouseUseCase struct {
	repo repository.WarehouseRepository
	tx   CatalogTxRunner
}

// NewWarehouseUseCase constrói o caso de uso.
func NewWarehouseUseCase(repo repository.WarehouseRepository, tx CatalogTxRunner) *WarehouseUseCase {
	return &WarehouseUseCase{repo: repo, tx: tx}
}

// Create cadastra o depósito e provisiona saldo zero para todas as variantes,
// na mesma transação.
func (uc *WarehouseUseCase) Create(ctx context.Context, in dto.CreateWarehouseRequest) (*dto.WarehouseResponse, error) {
	now := time.Now()
	warehouse := &entity.Warehouse{
		Name:      in.Name,
		Address:   in.Address,
		CreatedAt: now,
		UpdatedAt: now,
	}
	err := uc.tx.RunCatalogo(ctx, func(
		_ repository.VariantRepository,
		warehouseRepo repository.WarehouseRepository,
		balanceRepo repository.BalanceRepository,
	) error {
		if err := warehouseRepo.Create(warehouse); err != nil {
			return err
		}
		return balanceRepo.ProvisionWarehouse(warehouse.ID)
	})
	if err != nil {
		return nil, err
	}
	return toWarehouseResponse(warehouse), nil
}

// GetByID obtém um depósito por ID.
func (uc *WarehouseUseCase) GetByID(id int64) (*dto.WarehouseResponse, error) {
	warehouse, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	return toWarehouseResponse(warehouse), nil
}

// List lista depósitos paginados.
func (uc *WarehouseUseCase) List(page dto.PageRequest) (*dto.WarehouseListResponse, error) {
	page.DefaultPage()
	warehouses, err := uc.repo.List(page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.WarehouseResponse, len(warehouses))
	for i, w := range warehouses {
		items[i] = *toWarehouseResponse(w)
	}
	return &dto.WarehouseListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}

func toWarehouseResponse(w *entity.Warehouse) *dto.WarehouseResponse {
	return &dto.WarehouseResponse{
		ID:        w.ID,
		Name:      w.Name,
		Address:   w.Address,
		CreatedAt: w.CreatedAt,
		UpdatedAt: w.UpdatedAt,
	}
}
