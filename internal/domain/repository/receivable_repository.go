package repository

import "github.com/movelaria/estoque-api/internal/domain/entity"

// ReceivableRepository cria o título a receber na finalização do pedido
// (interface de colaboração com o financeiro; o ciclo de cobrança é externo).
type ReceivableRepository interface {
	Create(receivable *entity.Receivable) error
}
