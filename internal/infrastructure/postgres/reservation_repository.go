package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/movelaria/estoque-api/internal/domain"
	"github.com/movelaria/estoque-api/internal/domain/entity"
	"github.com/movelaria/estoque-api/internal/domain/repository"
)

var _ repository.ReservationRepository = (*ReservationRepo)(nil)

// ReservationRepo implementação de ReservationRepository sobre PostgreSQL (pool ou tx).
type ReservationRepo struct {
	q Querier
}

// NewReservationRepository constrói o adaptador. Passar pool ou tx (Querier).
func NewReservationRepository(q Querier) *ReservationRepo {
	return &ReservationRepo{q: q}
}

const reservationColumns = `id, variant_id, warehouse_id, order_id, order_item_id,
		quantity, quantity_consumed, status, reason, expires_at, created_by, created_at, updated_at`

// Create persiste uma reserva.
func (r *ReservationRepo) Create(reservation *entity.Reservation) error {
	if reservation.ID == "" {
		reservation.ID = uuid.New().String()
	}
	query := `
		INSERT INTO reservations (` + reservationColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(context.Background(), query,
		reservation.ID, reservation.VariantID, reservation.WarehouseID,
		reservation.OrderID, reservation.OrderItemID,
		reservation.Quantity, reservation.QuantityConsumed,
		string(reservation.Status), reservation.Reason, reservation.ExpiresAt,
		reservation.CreatedBy, reservation.CreatedAt, reservation.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("create reservation: %w", err)
	}
	return nil
}

// GetByID obtém uma reserva por ID.
func (r *ReservationRepo) GetByID(id string) (*entity.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE id = $1`
	res, err := scanReservation(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get reservation: %w", err)
	}
	return res, nil
}

// Update grava status e consumo da reserva (as transições são validadas na entidade).
func (r *ReservationRepo) Update(reservation *entity.Reservation) error {
	query := `
		UPDATE reservations
		SET status = $2, quantity_consumed = $3, updated_at = now()
		WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query,
		reservation.ID, string(reservation.Status), reservation.QuantityConsumed,
	)
	if err != nil {
		return fmt.Errorf("update reservation: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListActiveByOrder lista as reservas ativas de um pedido.
func (r *ReservationRepo) ListActiveByOrder(orderID int64) ([]*entity.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations
		WHERE order_id = $1 AND status = 'ativa' ORDER BY created_at, id`
	rows, err := r.q.Query(context.Background(), query, orderID)
	if err != nil {
		return nil, fmt.Errorf("list active reservations: %w", err)
	}
	defer rows.Close()
	var list []*entity.Reservation
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan reservation: %w", err)
		}
		list = append(list, res)
	}
	return list, rows.Err()
}

// SumActive soma a quantidade remanescente das reservas ativas da variante.
// Com depósito nulo considera todas (pool global); com depósito preenchido,
// apenas as reservas daquele depósito (as sem depósito não penalizam nenhum
// depósito específico).
func (r *ReservationRepo) SumActive(variantID int64, warehouseID *int64) (int64, error) {
	var (
		query string
		args  []any
	)
	if warehouseID != nil {
		query = `
			SELECT COALESCE(SUM(quantity - quantity_consumed), 0) FROM reservations
			WHERE variant_id = $1 AND warehouse_id = $2 AND status = 'ativa'`
		args = []any{variantID, *warehouseID}
	} else {
		query = `
			SELECT COALESCE(SUM(quantity - quantity_consumed), 0) FROM reservations
			WHERE variant_id = $1 AND status = 'ativa'`
		args = []any{variantID}
	}
	var total int64
	if err := r.q.QueryRow(context.Background(), query, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("sum active reservations: %w", err)
	}
	return total, nil
}

// ExpireDue transiciona ativa→expirada as reservas vencidas e devolve o total
// afetado. O WHERE por status garante a transição válida mesmo em lote.
func (r *ReservationRepo) ExpireDue(now time.Time) (int64, error) {
	query := `
		UPDATE reservations SET status = 'expirada', updated_at = now()
		WHERE status = 'ativa' AND expires_at IS NOT NULL AND expires_at <= $1`
	tag, err := r.q.Exec(context.Background(), query, now)
	if err != nil {
		return 0, fmt.Errorf("expire reservations: %w", err)
	}
	return tag.RowsAffected(), nil
}

func scanReservation(row pgx.Row) (*entity.Reservation, error) {
	var (
		res    entity.Reservation
		status string
	)
	err := row.Scan(
		&res.ID, &res.VariantID, &res.WarehouseID, &res.OrderID, &res.OrderItemID,
		&res.Quantity, &res.QuantityConsumed, &status, &res.Reason, &res.ExpiresAt,
		&res.CreatedBy, &res.CreatedAt, &res.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	res.Status = entity.ReservationStatus(status)
	return &res, nil
}
