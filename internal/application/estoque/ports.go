package estoque

import (
	"context"

	"github.com/movelaria/estoque-api/internal/domain/repository"
)

// TxRunner executa uma função dentro de uma transação de banco, passando
// repositórios ligados à transação. É o que garante atomicidade do motor de
// estoque: ou todas as linhas do lote persistem, ou nenhuma.
type TxRunner interface {
	// Run cobre os fluxos de movimento puro (lotes e transferências). As
	// reservas entram porque saída e transferência checam disponibilidade,
	// não apenas saldo físico, dentro da mesma transação.
	Run(ctx context.Context, fn func(
		balanceRepo repository.BalanceRepository,
		movementRepo repository.MovementRepository,
		transferRepo repository.TransferRepository,
		reservationRepo repository.ReservationRepository,
		auditRepo repository.AuditRepository,
	) error) error

	// RunPedido cobre os fluxos que também tocam reservas e títulos a receber.
	RunPedido(ctx context.Context, fn func(
		balanceRepo repository.BalanceRepository,
		movementRepo repository.MovementRepository,
		transferRepo repository.TransferRepository,
		reservationRepo repository.ReservationRepository,
		receivableRepo repository.ReceivableRepository,
		auditRepo repository.AuditRepository,
	) error) error
}
