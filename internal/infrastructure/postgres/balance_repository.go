package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/movelaria/estoque-api/internal/domain"
	"github.com/movelaria/estoque-api/internal/domain/entity"
	"github.com/movelaria/estoque-api/internal/domain/repository"
)

var _ repository.BalanceRepository = (*BalanceRepo)(nil)

// BalanceRepo implementação de BalanceRepository sobre PostgreSQL (pool ou tx).
type BalanceRepo struct {
	q Querier
}

// NewBalanceRepository constrói o adaptador de saldos. Passar pool ou tx (Querier).
func NewBalanceRepository(q Querier) *BalanceRepo {
	return &BalanceRepo{q: q}
}

// Get obtém o saldo atual de uma variante em um depósito. A linha existe para
// todo par válido (fan-out no cadastro); ausência significa referência inválida.
func (r *BalanceRepo) Get(variantID, warehouseID int64) (*entity.StockBalance, error) {
	query := `
		SELECT variant_id, warehouse_id, quantity, updated_at
		FROM stock_balances WHERE variant_id = $1 AND warehouse_id = $2`
	var b entity.StockBalance
	err := r.q.QueryRow(context.Background(), query, variantID, warehouseID).Scan(
		&b.VariantID, &b.WarehouseID, &b.Quantity, &b.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get balance: %w", err)
	}
	return &b, nil
}

// GetForUpdate obtém o saldo bloqueando a linha (SELECT ... FOR UPDATE) para
// serializar movimentos concorrentes sobre o mesmo par.
func (r *BalanceRepo) GetForUpdate(variantID, warehouseID int64) (*entity.StockBalance, error) {
	query := `
		SELECT variant_id, warehouse_id, quantity, updated_at
		FROM stock_balances WHERE variant_id = $1 AND warehouse_id = $2
		FOR UPDATE`
	var b entity.StockBalance
	err := r.q.QueryRow(context.Background(), query, variantID, warehouseID).Scan(
		&b.VariantID, &b.WarehouseID, &b.Quantity, &b.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get balance for update: %w", err)
	}
	return &b, nil
}

// Upsert grava a quantidade do par (variante, depósito).
func (r *BalanceRepo) Upsert(balance *entity.StockBalance) error {
	query := `
		INSERT INTO stock_balances (variant_id, warehouse_id, quantity, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (variant_id, warehouse_id)
		DO UPDATE SET quantity = EXCLUDED.quantity, updated_at = now()`
	_, err := r.q.Exec(context.Background(), query, balance.VariantID, balance.WarehouseID, balance.Quantity)
	if err != nil {
		return fmt.Errorf("upsert balance: %w", err)
	}
	return nil
}

// SumByVariant soma o saldo da variante em todos os depósitos.
func (r *BalanceRepo) SumByVariant(variantID int64) (int64, error) {
	query := `SELECT COALESCE(SUM(quantity), 0) FROM stock_balances WHERE variant_id = $1`
	var total int64
	if err := r.q.QueryRow(context.Background(), query, variantID).Scan(&total); err != nil {
		return 0, fmt.Errorf("sum balance by variant: %w", err)
	}
	return total, nil
}

// ListByVariant lista os saldos da variante por depósito.
func (r *BalanceRepo) ListByVariant(variantID int64) ([]*entity.StockBalance, error) {
	query := `
		SELECT variant_id, warehouse_id, quantity, updated_at
		FROM stock_balances WHERE variant_id = $1
		ORDER BY warehouse_id`
	rows, err := r.q.Query(context.Background(), query, variantID)
	if err != nil {
		return nil, fmt.Errorf("list balances by variant: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockBalance
	for rows.Next() {
		var b entity.StockBalance
		if err := rows.Scan(&b.VariantID, &b.WarehouseID, &b.Quantity, &b.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan balance: %w", err)
		}
		list = append(list, &b)
	}
	return list, rows.Err()
}

// ProvisionVariant cria a linha zerada da variante em todos os depósitos.
func (r *BalanceRepo) ProvisionVariant(variantID int64) error {
	query := `
		INSERT INTO stock_balances (variant_id, warehouse_id, quantity, updated_at)
		SELECT $1, w.id, 0, now() FROM warehouses w
		ON CONFLICT (variant_id, warehouse_id) DO NOTHING`
	if _, err := r.q.Exec(context.Background(), query, variantID); err != nil {
		return fmt.Errorf("provision variant balances: %w", err)
	}
	return nil
}

// ProvisionWarehouse cria a linha zerada de todas as variantes no depósito.
func (r *BalanceRepo) ProvisionWarehouse(warehouseID int64) error {
	query := `
		INSERT INTO stock_balances (variant_id, warehouse_id, quantity, updated_at)
		SELECT v.id, $1, 0, now() FROM variants v
		ON CONFLICT (variant_id, warehouse_id) DO NOTHING`
	if _, err := r.q.Exec(context.Background(), query, warehouseID); err != nil {
		return fmt.Errorf("provision warehouse balances: %w", err)
	}
	return nil
}
