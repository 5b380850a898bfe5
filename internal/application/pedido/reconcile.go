package pedido

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/movelaria/estoque-api/internal/application/estoque"
	"github.com/movelaria/estoque-api/internal/domain"
	"github.com/movelaria/estoque-api/internal/domain/entity"
	"github.com/movelaria/estoque-api/internal/domain/repository"
	"github.com/movelaria/estoque-api/pkg/logger"
)

// ReconcileInput descreve a edição de um pedido já finalizado: o retrato dos
// itens antes e depois da troca.
type ReconcileInput struct {
	OrderID  int64
	OldItems []OrderItem
	NewItems []OrderItem
	ActorID  int64
}

// Reconciler absorve a edição de um pedido já finalizado sem rederivar o
// pedido inteiro: calcula o delta líquido por (variante, depósito) e emite
// compensações. Reservas são canceladas e reemitidas por inteiro (estratégia
// mais simples que é correta); movimentos já confirmados recebem linhas
// compensatórias, mantendo o razão aditivo.
type Reconciler struct {
	tx       TxRunner
	recorder *estoque.MovementRecorder
	reservas *estoque.ReservationManager
	log      *logger.Logger
}

// NewReconciler constrói o reconciliador de pedidos.
func NewReconciler(tx TxRunner, recorder *estoque.MovementRecorder, reservas *estoque.ReservationManager, log *logger.Logger) *Reconciler {
	return &Reconciler{tx: tx, recorder: recorder, reservas: reservas, log: log}
}

type diffKey struct {
	variantID   int64
	warehouseID int64
	global      bool // item sem depósito (só aparece no caminho de reservas)
}

// Reconcile aplica a edição. Edição sem efeito líquido (itens idênticos) é um
// no-op: nenhum movimento ou reserva é criado.
func (r *Reconciler) Reconcile(ctx context.Context, input ReconcileInput) error {
	diff := diffItems(input.OldItems, input.NewItems)
	if len(diff) == 0 {
		r.log.Debug().Int64("pedido", input.OrderID).Msg("edição de pedido sem delta de estoque")
		return nil
	}

	err := r.tx.RunPedido(ctx, func(
		balanceRepo repository.BalanceRepository,
		movementRepo repository.MovementRepository,
		transferRepo repository.TransferRepository,
		reservationRepo repository.ReservationRepository,
		receivableRepo repository.ReceivableRepository,
		auditRepo repository.AuditRepository,
	) error {
		now := time.Now()

		active, err := reservationRepo.ListActiveByOrder(input.OrderID)
		if err != nil {
			return err
		}
		committed, err := movementRepo.ListByOrder(input.OrderID)
		if err != nil {
			return err
		}

		// Caminho de reservas: cancela tudo e reemite uma reserva por linha
		// nova. Toda linha nova precisa de depósito definido.
		if len(active) > 0 {
			for i, item := range input.NewItems {
				if item.WarehouseID == nil {
					return fmt.Errorf("linha %d: edição de pedido reservado exige depósito em todas as linhas: %w", i+1, domain.ErrInvalidInput)
				}
			}
			if _, err := r.reservas.CancelByOrderInTx(reservationRepo, auditRepo, input.OrderID, input.ActorID, "pedido_editado"); err != nil {
				return err
			}
			for _, item := range input.NewItems {
				orderID, orderItemID := input.OrderID, item.OrderItemID
				if _, err := r.reservas.ReserveInTx(reservationRepo, auditRepo, estoque.ReserveInput{
					VariantID:   item.VariantID,
					WarehouseID: item.WarehouseID,
					OrderID:     &orderID,
					OrderItemID: &orderItemID,
					Quantity:    item.Quantity,
					Reason:      "pedido_editado",
					ActorID:     input.ActorID,
				}); err != nil {
					return err
				}
			}
		}

		// Caminho de movimentos: o pedido já expediu; cada chave com delta
		// não nulo recebe uma linha compensatória.
		if len(committed) > 0 {
			saidas, ajustes, err := compensations(diff)
			if err != nil {
				return err
			}
			note := fmt.Sprintf("reconciliação do pedido %d", input.OrderID)
			if len(saidas) > 0 {
				if _, err := r.recorder.RecordBatchInTx(balanceRepo, movementRepo, transferRepo, reservationRepo, auditRepo, estoque.BatchInput{
					Type:      entity.MovementSaida,
					Items:     saidas,
					ActorID:   input.ActorID,
					Note:      note,
					Reference: entity.PedidoRef(input.OrderID, 0),
				}); err != nil {
					return err
				}
			}
			if len(ajustes) > 0 {
				if _, err := r.recorder.RecordBatchInTx(balanceRepo, movementRepo, transferRepo, reservationRepo, auditRepo, estoque.BatchInput{
					Type:      entity.MovementAjuste,
					Items:     ajustes,
					ActorID:   input.ActorID,
					Note:      note,
					Reference: entity.PedidoRef(input.OrderID, 0),
				}); err != nil {
					return err
				}
			}
		}

		details, _ := json.Marshal(map[string]any{
			"pedido":            input.OrderID,
			"chaves_com_delta":  len(diff),
			"tinha_reservas":    len(active) > 0,
			"tinha_movimentos":  len(committed) > 0,
			"linhas_anteriores": len(input.OldItems),
			"linhas_novas":      len(input.NewItems),
		})
		return auditRepo.Append(&entity.AuditEvent{
			ActorID:   input.ActorID,
			Action:    entity.AuditPedidoReconciliado,
			Details:   details,
			CreatedAt: now,
		})
	})
	if err != nil {
		return err
	}

	r.log.Info().
		Int64("pedido", input.OrderID).
		Int("chaves_com_delta", len(diff)).
		Int64("actor_id", input.ActorID).
		Msg("pedido reconciliado")
	return nil
}

// diffItems monta o multiconjunto por (variante, depósito) dos dois retratos e
// devolve apenas as chaves com delta líquido não nulo (novo − antigo).
func diffItems(oldItems, newItems []OrderItem) map[diffKey]int64 {
	diff := make(map[diffKey]int64)
	accumulate := func(items []OrderItem, sign int64) {
		for _, item := range items {
			k := diffKey{variantID: item.VariantID, global: item.WarehouseID == nil}
			if item.WarehouseID != nil {
				k.warehouseID = *item.WarehouseID
			}
			diff[k] += sign * item.Quantity
		}
	}
	accumulate(oldItems, -1)
	accumulate(newItems, +1)
	for k, d := range diff {
		if d == 0 {
			delete(diff, k)
		}
	}
	return diff
}

// compensations traduz os deltas em linhas de lote: delta positivo vira saída
// (o pedido passa a expedir mais), delta negativo vira ajuste de entrada (o
// estoque retorna). Ordenação determinística por chave.
func compensations(diff map[diffKey]int64) (saidas, ajustes []estoque.BatchItem, err error) {
	keys := make([]diffKey, 0, len(diff))
	for k := range diff {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].variantID != keys[j].variantID {
			return keys[i].variantID < keys[j].variantID
		}
		return keys[i].warehouseID < keys[j].warehouseID
	})

	for _, k := range keys {
		if k.global {
			return nil, nil, fmt.Errorf("variante %d: edição de pedido expedido exige depósito em todas as linhas: %w", k.variantID, domain.ErrInvalidInput)
		}
		warehouseID := k.warehouseID
		d := diff[k]
		if d > 0 {
			saidas = append(saidas, estoque.BatchItem{
				VariantID:         k.variantID,
				Quantity:          d,
				OriginWarehouseID: &warehouseID,
			})
		} else {
			ajustes = append(ajustes, estoque.BatchItem{
				VariantID:              k.variantID,
				Quantity:               -d,
				DestinationWarehouseID: &warehouseID,
			})
		}
	}
	return saidas, ajustes, nil
}
