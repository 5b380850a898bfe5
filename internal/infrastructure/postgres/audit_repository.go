package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/movelaria/estoque-api/internal/domain/entity"
	"github.com/movelaria/estoque-api/internal/domain/repository"
)

var _ repository.AuditRepository = (*AuditRepo)(nil)

// AuditRepo implementação do coletor de auditoria sobre PostgreSQL (pool ou tx).
// Quando ligado à transação do movimento, o evento entra ou sai junto com o lote.
type AuditRepo struct {
	q Querier
}

// NewAuditRepository constrói o adaptador. Passar pool ou tx (Querier).
func NewAuditRepository(q Querier) *AuditRepo {
	return &AuditRepo{q: q}
}

// Append acrescenta um evento à trilha de auditoria.
func (r *AuditRepo) Append(event *entity.AuditEvent) error {
	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	query := `
		INSERT INTO audit_events (id, actor_id, action, lot_id, details, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	var lotID *string
	if event.LotID != "" {
		lotID = &event.LotID
	}
	_, err := r.q.Exec(context.Background(), query,
		event.ID, event.ActorID, event.Action, lotID, event.Details, event.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("append audit event: %w", err)
	}
	return nil
}
