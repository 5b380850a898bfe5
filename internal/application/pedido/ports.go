package pedido

import (
	"context"

	"github.com/movelaria/estoque-api/internal/domain/repository"
)

// TxRunner abre a transação única que cobre uma finalização ou reconciliação
// de pedido: saldos, movimentos, reservas, título a receber e auditoria
// confirmam juntos ou nada confirma.
type TxRunner interface {
	RunPedido(ctx context.Context, fn func(
		balanceRepo repository.BalanceRepository,
		movementRepo repository.MovementRepository,
		transferRepo repository.TransferRepository,
		reservationRepo repository.ReservationRepository,
		receivableRepo repository.ReceivableRepository,
		auditRepo repository.AuditRepository,
	) error) error
}
