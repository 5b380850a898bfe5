package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/movelaria/estoque-api/internal/domain"
	"github.com/movelaria/estoque-api/internal/domain/entity"
	"github.com/movelaria/estoque-api/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

// MovementRepo implementação do razão de movimentos sobre PostgreSQL (pool ou tx).
// O razão é append-only: não há UPDATE nem DELETE neste adaptador.
type MovementRepo struct {
	q Querier
}

// NewMovementRepository constrói o adaptador. Passar pool ou tx (Querier).
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

const movementColumns = `id, lot_id, variant_id, origin_warehouse_id, destination_warehouse_id,
		type, quantity, actor_id, note, ref_kind, ref_order_id, ref_order_item_id, ref_reservation_id, created_at`

// Create persiste uma linha do razão.
func (r *MovementRepo) Create(movement *entity.Movement) error {
	if movement.ID == "" {
		movement.ID = uuid.New().String()
	}
	query := `
		INSERT INTO stock_movements (` + movementColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	var (
		refKind          *string
		refOrderID       *int64
		refOrderItemID   *int64
		refReservationID *string
	)
	switch movement.Reference.Kind {
	case entity.RefPedido:
		k := string(entity.RefPedido)
		refKind = &k
		refOrderID = &movement.Reference.OrderID
		refOrderItemID = &movement.Reference.OrderItemID
	case entity.RefReserva:
		k := string(entity.RefReserva)
		refKind = &k
		refReservationID = &movement.Reference.ReservationID
	}
	_, err := r.q.Exec(context.Background(), query,
		movement.ID, movement.LotID, movement.VariantID,
		movement.OriginWarehouseID, movement.DestinationWarehouseID,
		string(movement.Type), movement.Quantity, movement.ActorID, movement.Note,
		refKind, refOrderID, refOrderItemID, refReservationID,
		movement.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create movement: %w", err)
	}
	return nil
}

// GetByID obtém um movimento por ID.
func (r *MovementRepo) GetByID(id string) (*entity.Movement, error) {
	query := `SELECT ` + movementColumns + ` FROM stock_movements WHERE id = $1`
	m, err := scanMovement(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get movement: %w", err)
	}
	return m, nil
}

// ListByLot lista as linhas de um lote na ordem de criação.
func (r *MovementRepo) ListByLot(lotID string) ([]*entity.Movement, error) {
	query := `SELECT ` + movementColumns + ` FROM stock_movements WHERE lot_id = $1 ORDER BY created_at, id`
	return r.list(query, lotID)
}

// ListByVariant lista movimentos de uma variante, mais recentes primeiro.
func (r *MovementRepo) ListByVariant(variantID int64, limit, offset int) ([]*entity.Movement, error) {
	query := `SELECT ` + movementColumns + ` FROM stock_movements
		WHERE variant_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	return r.list(query, variantID, limit, offset)
}

// ListByWarehouse lista movimentos que tocam o depósito (origem ou destino).
func (r *MovementRepo) ListByWarehouse(warehouseID int64, limit, offset int) ([]*entity.Movement, error) {
	query := `SELECT ` + movementColumns + ` FROM stock_movements
		WHERE origin_warehouse_id = $1 OR destination_warehouse_id = $1
		ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	return r.list(query, warehouseID, limit, offset)
}

// ListByOrder lista os movimentos que referenciam o pedido.
func (r *MovementRepo) ListByOrder(orderID int64) ([]*entity.Movement, error) {
	query := `SELECT ` + movementColumns + ` FROM stock_movements
		WHERE ref_kind = 'pedido' AND ref_order_id = $1 ORDER BY created_at, id`
	return r.list(query, orderID)
}

func (r *MovementRepo) list(query string, args ...any) ([]*entity.Movement, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	defer rows.Close()
	var list []*entity.Movement
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		list = append(list, m)
	}
	return list, rows.Err()
}

func scanMovement(row pgx.Row) (*entity.Movement, error) {
	var (
		m                entity.Movement
		typ              string
		refKind          *string
		refOrderID       *int64
		refOrderItemID   *int64
		refReservationID *string
	)
	err := row.Scan(
		&m.ID, &m.LotID, &m.VariantID, &m.OriginWarehouseID, &m.DestinationWarehouseID,
		&typ, &m.Quantity, &m.ActorID, &m.Note,
		&refKind, &refOrderID, &refOrderItemID, &refReservationID,
		&m.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	m.Type = entity.MovementType(typ)
	if refKind != nil {
		switch entity.ReferenceKind(*refKind) {
		case entity.RefPedido:
			var itemID int64
			if refOrderItemID != nil {
				itemID = *refOrderItemID
			}
			if refOrderID != nil {
				m.Reference = entity.PedidoRef(*refOrderID, itemID)
			}
		case entity.RefReserva:
			if refReservationID != nil {
				m.Reference = entity.ReservaRef(*refReservationID)
			}
		}
	}
	return &m, nil
}
