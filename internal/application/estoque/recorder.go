package estoque

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/movelaria/estoque-api/internal/domain"
	"github.com/movelaria/estoque-api/internal/domain/entity"
	"github.com/movelaria/estoque-api/internal/domain/repository"
	"github.com/movelaria/estoque-api/pkg/logger"
)

// BatchItem é uma linha de um lote de movimentos. Quantity é sempre positiva;
// o sentido vem do tipo do lote e de quais depósitos estão preenchidos. Em
// "ajuste", destino preenchido acerta para cima e origem preenchida acerta
// para baixo.
type BatchItem struct {
	VariantID              int64
	Quantity               int64
	OriginWarehouseID      *int64
	DestinationWarehouseID *int64
}

// BatchInput descreve um lote completo: todas as linhas compartilham tipo,
// ator, observação e referência documental.
type BatchInput struct {
	Type      entity.MovementType
	Items     []BatchItem
	ActorID   int64
	Note      string
	Reference entity.Reference
}

// BatchResult é o resultado do commit de um lote.
type BatchResult struct {
	LotID      string
	TransferID string // preenchido apenas em lotes de transferência
	Movements  []*entity.Movement
}

// MovementRecorder é o único caminho de escrita do razão de estoque: grava as
// linhas do lote e atualiza os saldos correspondentes na mesma transação, sob
// bloqueio de linha. Nenhum outro componente muta stock_balances.
type MovementRecorder struct {
	tx         TxRunner
	variants   repository.VariantRepository
	warehouses repository.WarehouseRepository
	log        *logger.Logger
}

// NewMovementRecorder constrói o registrador de movimentos.
func NewMovementRecorder(tx TxRunner, variants repository.VariantRepository, warehouses repository.WarehouseRepository, log *logger.Logger) *MovementRecorder {
	return &MovementRecorder{tx: tx, variants: variants, warehouses: warehouses, log: log}
}

// RecordBatch valida e grava um lote atomicamente. Qualquer linha inválida
// rejeita o lote inteiro; nada é persistido.
func (r *MovementRecorder) RecordBatch(ctx context.Context, input BatchInput) (*BatchResult, error) {
	if err := r.validateShape(input); err != nil {
		lotesRejeitados.WithLabelValues(rejectReason(err)).Inc()
		return nil, err
	}
	if err := r.checkReferences(input); err != nil {
		lotesRejeitados.WithLabelValues(rejectReason(err)).Inc()
		return nil, err
	}

	var result *BatchResult
	err := r.tx.Run(ctx, func(
		balanceRepo repository.BalanceRepository,
		movementRepo repository.MovementRepository,
		transferRepo repository.TransferRepository,
		reservationRepo repository.ReservationRepository,
		auditRepo repository.AuditRepository,
	) error {
		res, err := r.RecordBatchInTx(balanceRepo, movementRepo, transferRepo, reservationRepo, auditRepo, input)
		if err != nil {
			return err
		}
		result = res
		return nil
	})
	if err != nil {
		lotesRejeitados.WithLabelValues(rejectReason(err)).Inc()
		return nil, err
	}

	movimentosRegistrados.WithLabelValues(string(input.Type)).Add(float64(len(input.Items)))
	r.log.Info().
		Str("lot_id", result.LotID).
		Str("tipo", string(input.Type)).
		Int("linhas", len(input.Items)).
		Int64("actor_id", input.ActorID).
		Msg("lote de movimentos registrado")
	return result, nil
}

// RecordBatchInTx grava o lote usando repositórios já ligados a uma transação
// aberta pelo chamador. É o ponto de reuso dos fluxos de pedido (finalização e
// reconciliação), que precisam compor movimentos com reservas e títulos na
// mesma transação. O chamador é responsável por validar a forma do lote.
func (r *MovementRecorder) RecordBatchInTx(
	balanceRepo repository.BalanceRepository,
	movementRepo repository.MovementRepository,
	transferRepo repository.TransferRepository,
	reservationRepo repository.ReservationRepository,
	auditRepo repository.AuditRepository,
	input BatchInput,
) (*BatchResult, error) {
	now := time.Now()
	lotID := uuid.New().String()

	// Bloqueia os saldos tocados em ordem canônica (variante, depósito) para
	// que lotes concorrentes adquiram os mesmos bloqueios na mesma ordem.
	keys := touchedKeys(input.Items)
	locked := make(map[balanceKey]*entity.StockBalance, len(keys))
	for _, k := range keys {
		b, err := balanceRepo.GetForUpdate(k.variantID, k.warehouseID)
		if err != nil {
			return nil, err
		}
		if b.Quantity < 0 {
			r.logNegative(b, lotID, input.ActorID)
			return nil, domain.ErrNegativeBalance
		}
		locked[k] = b
	}

	// Saída e transferência debitam contra a disponibilidade, não contra o
	// saldo físico: unidades presas por reservas ativas do depósito de origem
	// não podem sair por outro caminho. Ajuste continua físico.
	reserved := make(map[balanceKey]int64)
	if input.Type == entity.MovementSaida || input.Type == entity.MovementTransferencia {
		for _, item := range input.Items {
			k := balanceKey{item.VariantID, *item.OriginWarehouseID}
			if _, ok := reserved[k]; ok {
				continue
			}
			sum, err := reservationRepo.SumActive(k.variantID, &k.warehouseID)
			if err != nil {
				return nil, err
			}
			reserved[k] = sum
		}
	}

	// Aplica as linhas na ordem do lote sobre os saldos em memória. Linhas
	// repetidas no mesmo par acumulam: a checagem de saída vale sobre o saldo
	// corrente, não sobre o inicial.
	movements := make([]*entity.Movement, 0, len(input.Items))
	var totalUnits int64
	for i, item := range input.Items {
		if err := applyItem(locked, reserved, input.Type, item, i); err != nil {
			return nil, err
		}
		mov := &entity.Movement{
			LotID:                  lotID,
			VariantID:              item.VariantID,
			OriginWarehouseID:      item.OriginWarehouseID,
			DestinationWarehouseID: item.DestinationWarehouseID,
			Type:                   input.Type,
			Quantity:               item.Quantity,
			ActorID:                input.ActorID,
			Note:                   input.Note,
			Reference:              input.Reference,
			CreatedAt:              now,
		}
		if err := movementRepo.Create(mov); err != nil {
			return nil, err
		}
		movements = append(movements, mov)
		totalUnits += item.Quantity
	}

	// Persiste os saldos finais, também em ordem canônica.
	for _, k := range keys {
		b := locked[k]
		if b.Quantity < 0 {
			r.logNegative(b, lotID, input.ActorID)
			return nil, domain.ErrNegativeBalance
		}
		b.UpdatedAt = now
		if err := balanceRepo.Upsert(b); err != nil {
			return nil, err
		}
	}

	result := &BatchResult{LotID: lotID, Movements: movements}

	action := entity.AuditMovimentoRegistrado
	if input.Type == entity.MovementTransferencia {
		transfer := &entity.Transfer{
			LotID:                  lotID,
			OriginWarehouseID:      *input.Items[0].OriginWarehouseID,
			DestinationWarehouseID: *input.Items[0].DestinationWarehouseID,
			Status:                 entity.TransferConcluida,
			TotalItems:             int64(len(input.Items)),
			TotalUnits:             totalUnits,
			Note:                   input.Note,
			ActorID:                input.ActorID,
			CreatedAt:              now,
		}
		if err := transferRepo.Create(transfer); err != nil {
			return nil, err
		}
		result.TransferID = transfer.ID
		action = entity.AuditTransferenciaCriada
	}

	details, _ := json.Marshal(map[string]any{
		"tipo":     input.Type,
		"linhas":   len(input.Items),
		"unidades": totalUnits,
	})
	if err := auditRepo.Append(&entity.AuditEvent{
		ActorID:   input.ActorID,
		Action:    action,
		LotID:     lotID,
		Details:   details,
		CreatedAt: now,
	}); err != nil {
		return nil, err
	}

	return result, nil
}

// validateShape checa a forma do lote sem tocar o banco: tipo conhecido,
// quantidades positivas e depósitos coerentes com o tipo.
func (r *MovementRecorder) validateShape(input BatchInput) error {
	if !input.Type.Valid() {
		return fmt.Errorf("tipo de movimento %q: %w", input.Type, domain.ErrInvalidInput)
	}
	if len(input.Items) == 0 {
		return fmt.Errorf("lote sem linhas: %w", domain.ErrInvalidInput)
	}
	for i, item := range input.Items {
		if item.Quantity <= 0 {
			return fmt.Errorf("linha %d: quantidade deve ser positiva: %w", i+1, domain.ErrInvalidInput)
		}
		origin, dest := item.OriginWarehouseID, item.DestinationWarehouseID
		switch input.Type {
		case entity.MovementEntrada:
			if dest == nil || origin != nil {
				return fmt.Errorf("linha %d: entrada exige apenas depósito de destino: %w", i+1, domain.ErrInvalidInput)
			}
		case entity.MovementSaida:
			if origin == nil || dest != nil {
				return fmt.Errorf("linha %d: saída exige apenas depósito de origem: %w", i+1, domain.ErrInvalidInput)
			}
		case entity.MovementTransferencia:
			if origin == nil || dest == nil {
				return fmt.Errorf("linha %d: transferência exige origem e destino: %w", i+1, domain.ErrInvalidInput)
			}
			if *origin == *dest {
				return fmt.Errorf("linha %d: %w", i+1, domain.ErrInvalidWarehousePair)
			}
			// Um lote de transferência forma uma transferência única: todas as
			// linhas compartilham o mesmo par origem/destino.
			if *origin != *input.Items[0].OriginWarehouseID || *dest != *input.Items[0].DestinationWarehouseID {
				return fmt.Errorf("linha %d: todas as linhas da transferência devem usar o mesmo par de depósitos: %w", i+1, domain.ErrInvalidInput)
			}
		case entity.MovementAjuste:
			if (origin == nil) == (dest == nil) {
				return fmt.Errorf("linha %d: ajuste exige exatamente um depósito (destino para acerto positivo, origem para negativo): %w", i+1, domain.ErrInvalidInput)
			}
		}
	}
	return nil
}

// checkReferences resolve variantes e depósitos fora da transação; referências
// inexistentes falham cedo com o sentinela específico.
func (r *MovementRecorder) checkReferences(input BatchInput) error {
	seenVariants := make(map[int64]bool)
	seenWarehouses := make(map[int64]bool)
	for _, item := range input.Items {
		if !seenVariants[item.VariantID] {
			if _, err := r.variants.GetByID(item.VariantID); err != nil {
				return err
			}
			seenVariants[item.VariantID] = true
		}
		for _, wid := range []*int64{item.OriginWarehouseID, item.DestinationWarehouseID} {
			if wid == nil || seenWarehouses[*wid] {
				continue
			}
			if _, err := r.warehouses.GetByID(*wid); err != nil {
				return err
			}
			seenWarehouses[*wid] = true
		}
	}
	return nil
}

func (r *MovementRecorder) logNegative(b *entity.StockBalance, lotID string, actorID int64) {
	r.log.Error().
		Str("lot_id", lotID).
		Int64("variant_id", b.VariantID).
		Int64("warehouse_id", b.WarehouseID).
		Int64("saldo", b.Quantity).
		Int64("actor_id", actorID).
		Msg("saldo negativo detectado no razão")
}

type balanceKey struct {
	variantID   int64
	warehouseID int64
}

// touchedKeys devolve os pares (variante, depósito) tocados pelo lote, sem
// repetição, ordenados por variante e depois depósito.
func touchedKeys(items []BatchItem) []balanceKey {
	seen := make(map[balanceKey]bool)
	var keys []balanceKey
	add := func(variantID int64, warehouseID *int64) {
		if warehouseID == nil {
			return
		}
		k := balanceKey{variantID: variantID, warehouseID: *warehouseID}
		if !seen[k] {
			seen[k] = true
			keys = append(keys, k)
		}
	}
	for _, item := range items {
		add(item.VariantID, item.OriginWarehouseID)
		add(item.VariantID, item.DestinationWarehouseID)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].variantID != keys[j].variantID {
			return keys[i].variantID < keys[j].variantID
		}
		return keys[i].warehouseID < keys[j].warehouseID
	})
	return keys
}

// applyItem aplica a linha i sobre os saldos bloqueados em memória. O débito
// compara com o saldo descontadas as reservas ativas do par; para tipos sem
// entrada no mapa, a comparação recai no saldo físico.
func applyItem(locked map[balanceKey]*entity.StockBalance, reserved map[balanceKey]int64, t entity.MovementType, item BatchItem, i int) error {
	debit := func(warehouseID int64) error {
		k := balanceKey{item.VariantID, warehouseID}
		b := locked[k]
		if b.Quantity-reserved[k] < item.Quantity {
			return fmt.Errorf("linha %d (variante %d, depósito %d): %w", i+1, item.VariantID, warehouseID, domain.ErrInsufficientStock)
		}
		b.Quantity -= item.Quantity
		return nil
	}
	credit := func(warehouseID int64) {
		locked[balanceKey{item.VariantID, warehouseID}].Quantity += item.Quantity
	}

	switch t {
	case entity.MovementEntrada:
		credit(*item.DestinationWarehouseID)
	case entity.MovementSaida:
		return debit(*item.OriginWarehouseID)
	case entity.MovementTransferencia:
		if err := debit(*item.OriginWarehouseID); err != nil {
			return err
		}
		credit(*item.DestinationWarehouseID)
	case entity.MovementAjuste:
		if item.DestinationWarehouseID != nil {
			credit(*item.DestinationWarehouseID)
		} else {
			return debit(*item.OriginWarehouseID)
		}
	}
	return nil
}
