package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/movelaria/estoque-api/internal/domain/entity"
	"github.com/movelaria/estoque-api/internal/domain/repository"
)

var _ repository.ReceivableRepository = (*ReceivableRepo)(nil)

// ReceivableRepo grava o título a receber criado na finalização do pedido.
type ReceivableRepo struct {
	q Querier
}

// NewReceivableRepository constrói o adaptador. Passar pool ou tx (Querier).
func NewReceivableRepository(q Querier) *ReceivableRepo {
	return &ReceivableRepo{q: q}
}

// Create persiste o título a receber.
func (r *ReceivableRepo) Create(receivable *entity.Receivable) error {
	if receivable.ID == "" {
		receivable.ID = uuid.New().String()
	}
	query := `
		INSERT INTO receivables (id, order_id, amount, status, created_at)
		VALUES ($1, $2, $3, $4, $5)`
	_, err := r.q.Exec(context.Background(), query,
		receivable.ID, receivable.OrderID, receivable.Amount, receivable.Status, receivable.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create receivable: %w", err)
	}
	return nil
}
