package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/movelaria/estoque-api/internal/application/estoque"
	"github.com/movelaria/estoque-api/internal/application/pedido"
	"github.com/movelaria/estoque-api/internal/application/usecase"
	"github.com/movelaria/estoque-api/internal/domain/repository"
)

// Garante que TxRunner implementa as portas transacionais das camadas de aplicação.
var _ estoque.TxRunner = (*TxRunner)(nil)
var _ pedido.TxRunner = (*TxRunner)(nil)
var _ usecase.CatalogTxRunner = (*TxRunner)(nil)

// TxRunner executa callbacks dentro de uma transação PostgreSQL, com os
// repositórios ligados à transação. Commit se o callback devolver nil,
// Rollback caso contrário — é o que garante lote tudo-ou-nada.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner constrói o runner com o pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run abre a transação do registrador de movimentos.
func (r *TxRunner) Run(ctx context.Context, fn func(
	balanceRepo repository.BalanceRepository,
	movementRepo repository.MovementRepository,
	transferRepo repository.TransferRepository,
	reservationRepo repository.ReservationRepository,
	auditRepo repository.AuditRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(
		NewBalanceRepository(tx),
		NewMovementRepository(tx),
		NewTransferRepository(tx),
		NewReservationRepository(tx),
		NewAuditRepository(tx),
	); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// RunPedido abre a transação dos fluxos de pedido (finalização, reconciliação
// e reservas), acrescentando reservas e títulos a receber.
func (r *TxRunner) RunPedido(ctx context.Context, fn func(
	balanceRepo repository.BalanceRepository,
	movementRepo repository.MovementRepository,
	transferRepo repository.TransferRepository,
	reservationRepo repository.ReservationRepository,
	receivableRepo repository.ReceivableRepository,
	auditRepo repository.AuditRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(
		NewBalanceRepository(tx),
		NewMovementRepository(tx),
		NewTransferRepository(tx),
		NewReservationRepository(tx),
		NewReceivableRepository(tx),
		NewAuditRepository(tx),
	); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// RunCatalogo abre a transação do cadastro de catálogo, onde o fan-out de
// saldos zerados precisa acontecer junto com o insert da variante/depósito.
func (r *TxRunner) RunCatalogo(ctx context.Context, fn func(
	variantRepo repository.VariantRepository,
	warehouseRepo repository.WarehouseRepository,
	balanceRepo repository.BalanceRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(
		NewVariantRepository(tx),
		NewWarehouseRepository(tx),
		NewBalanceRepository(tx),
	); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
