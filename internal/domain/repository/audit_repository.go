package repository

import "github.com/movelaria/estoque-api/internal/domain/entity"

// AuditRepository é o coletor de auditoria: apenas acrescenta eventos.
type AuditRepository interface {
	Append(event *entity.AuditEvent) error
}
