package pedido

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/movelaria/estoque-api/internal/application/estoque"
	"github.com/movelaria/estoque-api/internal/domain"
	"github.com/movelaria/estoque-api/internal/domain/entity"
	"github.com/movelaria/estoque-api/internal/domain/repository"
	"github.com/movelaria/estoque-api/pkg/logger"
	"github.com/shopspring/decimal"
)

// Mode escolhe o caminho de consumo de estoque na finalização.
type Mode string

const (
	// ModeReserva cria retenções leves; o estoque físico só baixa na expedição.
	ModeReserva Mode = "reserva"
	// ModeMovimentacao baixa o estoque físico imediatamente (retirada no ato).
	ModeMovimentacao Mode = "movimentacao"
)

// OrderItem é um item de pedido na forma que o núcleo de estoque entende.
type OrderItem struct {
	OrderItemID int64
	VariantID   int64
	WarehouseID *int64
	Quantity    int64
	UnitPrice   decimal.Decimal
}

// FinalizeInput descreve a finalização de um pedido no checkout.
type FinalizeInput struct {
	OrderID   int64
	Items     []OrderItem
	Mode      Mode
	ExpiresAt *time.Time // prazo das reservas no modo reserva; nulo = sem prazo
	ActorID   int64
}

// FinalizeService executa a finalização de pedido: valida as linhas uma única
// vez (mesmo critério para os dois modos), então reserva ou movimenta e cria o
// título a receber, tudo na mesma transação.
type FinalizeService struct {
	tx        TxRunner
	validator *estoque.BatchValidator
	recorder  *estoque.MovementRecorder
	reservas  *estoque.ReservationManager
	log       *logger.Logger
}

// NewFinalizeService constrói o serviço de finalização.
func NewFinalizeService(tx TxRunner, validator *estoque.BatchValidator, recorder *estoque.MovementRecorder, reservas *estoque.ReservationManager, log *logger.Logger) *FinalizeService {
	return &FinalizeService{tx: tx, validator: validator, recorder: recorder, reservas: reservas, log: log}
}

// Finalize valida e efetiva o pedido conforme o modo escolhido.
func (s *FinalizeService) Finalize(ctx context.Context, input FinalizeInput) error {
	if input.Mode != ModeReserva && input.Mode != ModeMovimentacao {
		return fmt.Errorf("modo de finalização %q: %w", input.Mode, domain.ErrInvalidInput)
	}
	if len(input.Items) == 0 {
		return fmt.Errorf("pedido sem itens: %w", domain.ErrInvalidInput)
	}

	lines := make([]estoque.BatchLine, len(input.Items))
	for i, item := range input.Items {
		lines[i] = estoque.BatchLine{
			VariantID:   item.VariantID,
			WarehouseID: item.WarehouseID,
			Quantity:    item.Quantity,
		}
	}
	if err := s.validator.ValidateBatch(lines); err != nil {
		return err
	}

	total := decimal.Zero
	for _, item := range input.Items {
		total = total.Add(item.UnitPrice.Mul(decimal.NewFromInt(item.Quantity)))
	}

	err := s.tx.RunPedido(ctx, func(
		balanceRepo repository.BalanceRepository,
		movementRepo repository.MovementRepository,
		transferRepo repository.TransferRepository,
		reservationRepo repository.ReservationRepository,
		receivableRepo repository.ReceivableRepository,
		auditRepo repository.AuditRepository,
	) error {
		now := time.Now()

		switch input.Mode {
		case ModeReserva:
			for _, item := range input.Items {
				orderID, orderItemID := input.OrderID, item.OrderItemID
				_, err := s.reservas.ReserveInTx(reservationRepo, auditRepo, estoque.ReserveInput{
					VariantID:   item.VariantID,
					WarehouseID: item.WarehouseID,
					OrderID:     &orderID,
					OrderItemID: &orderItemID,
					Quantity:    item.Quantity,
					Reason:      "pedido_finalizado",
					ExpiresAt:   input.ExpiresAt,
					ActorID:     input.ActorID,
				})
				if err != nil {
					return err
				}
			}
		case ModeMovimentacao:
			batchItems := make([]estoque.BatchItem, len(input.Items))
			for i, item := range input.Items {
				batchItems[i] = estoque.BatchItem{
					VariantID:         item.VariantID,
					Quantity:          item.Quantity,
					OriginWarehouseID: item.WarehouseID,
				}
			}
			_, err := s.recorder.RecordBatchInTx(balanceRepo, movementRepo, transferRepo, reservationRepo, auditRepo, estoque.BatchInput{
				Type:      entity.MovementSaida,
				Items:     batchItems,
				ActorID:   input.ActorID,
				Note:      fmt.Sprintf("finalização do pedido %d", input.OrderID),
				Reference: entity.PedidoRef(input.OrderID, 0),
			})
			if err != nil {
				return err
			}
		}

		if err := receivableRepo.Create(&entity.Receivable{
			ID:        uuid.New().String(),
			OrderID:   input.OrderID,
			Amount:    total,
			Status:    "aberta",
			CreatedAt: now,
		}); err != nil {
			return err
		}

		details, _ := json.Marshal(map[string]any{
			"pedido": input.OrderID,
			"modo":   input.Mode,
			"linhas": len(input.Items),
			"total":  total,
		})
		return auditRepo.Append(&entity.AuditEvent{
			ActorID:   input.ActorID,
			Action:    entity.AuditPedidoFinalizado,
			Details:   details,
			CreatedAt: now,
		})
	})
	if err != nil {
		return err
	}

	s.log.Info().
		Int64("pedido", input.OrderID).
		Str("modo", string(input.Mode)).
		Int("linhas", len(input.Items)).
		Int64("actor_id", input.ActorID).
		Msg("pedido finalizado")
	return nil
}
