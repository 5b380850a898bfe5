package estoque

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/movelaria/estoque-api/internal/domain"
	"github.com/movelaria/estoque-api/internal/domain/entity"
	"github.com/movelaria/estoque-api/internal/domain/repository"
	"github.com/movelaria/estoque-api/pkg/logger"
)

// ReserveInput descreve uma reserva a criar. WarehouseID nulo cria uma reserva
// sem depósito, que debita apenas o pool global de disponibilidade.
type ReserveInput struct {
	VariantID   int64
	WarehouseID *int64
	OrderID     *int64
	OrderItemID *int64
	Quantity    int64
	Reason      string
	ExpiresAt   *time.Time
	ActorID     int64
}

// ReservationManager gerencia o ciclo de vida das reservas: criação,
// cancelamento por pedido e consumo na expedição. A criação não checa
// disponibilidade; reservar além do estoque é permitido e aparece como
// disponibilidade negativa, sinal de sobrevenda a resolver, não um estado
// proibido.
type ReservationManager struct {
	tx       TxRunner
	recorder *MovementRecorder
	log      *logger.Logger
}

// NewReservationManager constrói o gerenciador de reservas. O registrador é
// usado no consumo, que lança a saída correspondente no razão.
func NewReservationManager(tx TxRunner, recorder *MovementRecorder, log *logger.Logger) *ReservationManager {
	return &ReservationManager{tx: tx, recorder: recorder, log: log}
}

// Reserve cria uma reserva ativa em transação própria.
func (m *ReservationManager) Reserve(ctx context.Context, input ReserveInput) (*entity.Reservation, error) {
	var created *entity.Reservation
	err := m.tx.RunPedido(ctx, func(
		_ repository.BalanceRepository,
		_ repository.MovementRepository,
		_ repository.TransferRepository,
		reservationRepo repository.ReservationRepository,
		_ repository.ReceivableRepository,
		auditRepo repository.AuditRepository,
	) error {
		res, err := m.ReserveInTx(reservationRepo, auditRepo, input)
		if err != nil {
			return err
		}
		created = res
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// ReserveInTx cria a reserva usando repositórios ligados à transação do
// chamador (finalização e reconciliação de pedidos).
func (m *ReservationManager) ReserveInTx(reservationRepo repository.ReservationRepository, auditRepo repository.AuditRepository, input ReserveInput) (*entity.Reservation, error) {
	if input.Quantity <= 0 {
		return nil, fmt.Errorf("quantidade da reserva deve ser positiva: %w", domain.ErrInvalidInput)
	}
	if input.Reason == "" {
		return nil, fmt.Errorf("reserva exige motivo: %w", domain.ErrInvalidInput)
	}

	now := time.Now()
	res := &entity.Reservation{
		ID:          uuid.New().String(),
		VariantID:   input.VariantID,
		WarehouseID: input.WarehouseID,
		OrderID:     input.OrderID,
		OrderItemID: input.OrderItemID,
		Quantity:    input.Quantity,
		Status:      entity.ReservationAtiva,
		Reason:      input.Reason,
		ExpiresAt:   input.ExpiresAt,
		CreatedBy:   input.ActorID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := reservationRepo.Create(res); err != nil {
		return nil, err
	}

	details, _ := json.Marshal(map[string]any{
		"reserva_id": res.ID,
		"variante":   res.VariantID,
		"quantidade": res.Quantity,
		"motivo":     res.Reason,
	})
	if err := auditRepo.Append(&entity.AuditEvent{
		ActorID:   input.ActorID,
		Action:    entity.AuditReservaCriada,
		Details:   details,
		CreatedAt: now,
	}); err != nil {
		return nil, err
	}
	return res, nil
}

// CancelByOrder cancela todas as reservas ativas do pedido e devolve quantas
// foram canceladas. Pedido sem reservas ativas é no-op idempotente.
func (m *ReservationManager) CancelByOrder(ctx context.Context, orderID, actorID int64, reason string) (int, error) {
	var cancelled int
	err := m.tx.RunPedido(ctx, func(
		_ repository.BalanceRepository,
		_ repository.MovementRepository,
		_ repository.TransferRepository,
		reservationRepo repository.ReservationRepository,
		_ repository.ReceivableRepository,
		auditRepo repository.AuditRepository,
	) error {
		n, err := m.CancelByOrderInTx(reservationRepo, auditRepo, orderID, actorID, reason)
		if err != nil {
			return err
		}
		cancelled = n
		return nil
	})
	if err != nil {
		return 0, err
	}
	return cancelled, nil
}

// CancelByOrderInTx é a variante para composição dentro de transação aberta.
func (m *ReservationManager) CancelByOrderInTx(reservationRepo repository.ReservationRepository, auditRepo repository.AuditRepository, orderID, actorID int64, reason string) (int, error) {
	active, err := reservationRepo.ListActiveByOrder(orderID)
	if err != nil {
		return 0, err
	}
	now := time.Now()
	for _, res := range active {
		if err := res.Cancel(); err != nil {
			return 0, err
		}
		res.UpdatedAt = now
		if err := reservationRepo.Update(res); err != nil {
			return 0, err
		}
	}
	if len(active) == 0 {
		return 0, nil
	}

	details, _ := json.Marshal(map[string]any{
		"pedido": orderID,
		"total":  len(active),
		"motivo": reason,
	})
	if err := auditRepo.Append(&entity.AuditEvent{
		ActorID:   actorID,
		Action:    entity.AuditReservasCanceladas,
		Details:   details,
		CreatedAt: now,
	}); err != nil {
		return 0, err
	}
	return len(active), nil
}

// Consume abate qty de uma reserva ativa (expedição de mercadoria reservada) e
// lança a saída correspondente no razão, referenciando a reserva. Consumo
// parcial mantém a reserva ativa com o remanescente; consumo total a
// transiciona para "consumida". Para reserva sem depósito, warehouseID indica
// de onde a mercadoria sai; reserva com depósito expede do próprio depósito.
func (m *ReservationManager) Consume(ctx context.Context, reservationID string, qty int64, warehouseID *int64, actorID int64) (*entity.Reservation, error) {
	var updated *entity.Reservation
	err := m.tx.RunPedido(ctx, func(
		balanceRepo repository.BalanceRepository,
		movementRepo repository.MovementRepository,
		transferRepo repository.TransferRepository,
		reservationRepo repository.ReservationRepository,
		_ repository.ReceivableRepository,
		auditRepo repository.AuditRepository,
	) error {
		res, err := m.ConsumeInTx(balanceRepo, movementRepo, transferRepo, reservationRepo, auditRepo, reservationID, qty, warehouseID, actorID)
		if err != nil {
			return err
		}
		updated = res
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// ConsumeInTx é a variante para composição dentro de transação aberta. A
// reserva é abatida antes do lançamento da saída, para que as unidades
// consumidas não contem duas vezes contra a disponibilidade do depósito; se a
// saída falhar (saldo físico insuficiente), a transação desfaz o abate junto.
func (m *ReservationManager) ConsumeInTx(
	balanceRepo repository.BalanceRepository,
	movementRepo repository.MovementRepository,
	transferRepo repository.TransferRepository,
	reservationRepo repository.ReservationRepository,
	auditRepo repository.AuditRepository,
	reservationID string,
	qty int64,
	warehouseID *int64,
	actorID int64,
) (*entity.Reservation, error) {
	res, err := reservationRepo.GetByID(reservationID)
	if err != nil {
		return nil, err
	}
	expedition := res.WarehouseID
	if expedition == nil {
		expedition = warehouseID
	}
	if expedition == nil {
		return nil, fmt.Errorf("consumo de reserva sem depósito exige depósito de expedição: %w", domain.ErrInvalidInput)
	}
	if err := res.Consume(qty); err != nil {
		return nil, err
	}
	now := time.Now()
	res.UpdatedAt = now
	if err := reservationRepo.Update(res); err != nil {
		return nil, err
	}

	if _, err := m.recorder.RecordBatchInTx(balanceRepo, movementRepo, transferRepo, reservationRepo, auditRepo, BatchInput{
		Type:      entity.MovementSaida,
		Items:     []BatchItem{{VariantID: res.VariantID, Quantity: qty, OriginWarehouseID: expedition}},
		ActorID:   actorID,
		Note:      fmt.Sprintf("expedição da reserva %s", res.ID),
		Reference: entity.ReservaRef(res.ID),
	}); err != nil {
		return nil, err
	}

	details, _ := json.Marshal(map[string]any{
		"reserva_id":   res.ID,
		"consumido":    qty,
		"remanescente": res.Remaining(),
		"status":       res.Status,
		"deposito":     *expedition,
	})
	if err := auditRepo.Append(&entity.AuditEvent{
		ActorID:   actorID,
		Action:    entity.AuditReservaConsumida,
		Details:   details,
		CreatedAt: now,
	}); err != nil {
		return nil, err
	}
	return res, nil
}
