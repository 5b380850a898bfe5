package estoque_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/movelaria/estoque-api/internal/application/estoque"
	"github.com/movelaria/estoque-api/internal/domain"
	"github.com/movelaria/estoque-api/internal/domain/entity"
)

func newReservationFixture() (*estoque.ReservationManager, *fakeTx) {
	tx := newFakeTx()
	recorder := estoque.NewMovementRecorder(
		tx,
		newFakeVariantRepo(1, 2, 3),
		newFakeWarehouseRepo(10, 20),
		testLogger(),
	)
	return estoque.NewReservationManager(tx, recorder, testLogger()), tx
}

// A criação não checa disponibilidade: reservar além do estoque é permitido e
// vira disponibilidade negativa (a validação roda antes, no caminho de
// finalização).
func TestReserve_NaoChecaDisponibilidade(t *testing.T) {
	manager, tx := newReservationFixture()

	res, err := manager.Reserve(context.Background(), estoque.ReserveInput{
		VariantID: 1,
		Quantity:  1000,
		Reason:    "pre_venda",
		ActorID:   99,
	})
	require.NoError(t, err)

	assert.Equal(t, entity.ReservationAtiva, res.Status)
	assert.Equal(t, int64(1000), res.Quantity)
	assert.Equal(t, []string{entity.AuditReservaCriada}, tx.audit.actions())
}

func TestReserve_EntradaInvalida(t *testing.T) {
	manager, _ := newReservationFixture()
	ctx := context.Background()

	_, err := manager.Reserve(ctx, estoque.ReserveInput{VariantID: 1, Quantity: 0, Reason: "x", ActorID: 99})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = manager.Reserve(ctx, estoque.ReserveInput{VariantID: 1, Quantity: 1, ActorID: 99})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "reserva exige motivo")
}

func TestCancelByOrder_CancelaTodasAsAtivas(t *testing.T) {
	manager, tx := newReservationFixture()
	ctx := context.Background()
	orderID := int64(42)

	for i := 0; i < 3; i++ {
		_, err := manager.Reserve(ctx, estoque.ReserveInput{
			VariantID: int64(i + 1),
			OrderID:   &orderID,
			Quantity:  2,
			Reason:    "pedido_finalizado",
			ActorID:   99,
		})
		require.NoError(t, err)
	}

	cancelled, err := manager.CancelByOrder(ctx, orderID, 99, "cliente desistiu")
	require.NoError(t, err)
	assert.Equal(t, 3, cancelled)

	for _, r := range tx.reservations.reservations {
		assert.Equal(t, entity.ReservationCancelada, r.Status)
	}
}

// Cancelar pedido sem reservas ativas é no-op idempotente, não erro.
func TestCancelByOrder_Idempotente(t *testing.T) {
	manager, tx := newReservationFixture()

	cancelled, err := manager.CancelByOrder(context.Background(), 42, 99, "repetido")
	require.NoError(t, err)
	assert.Zero(t, cancelled)
	assert.Empty(t, tx.audit.events, "no-op não gera evento de auditoria")
}

// Consumo parcial mantém a reserva ativa com o remanescente; o consumo final
// transiciona para consumida. Cada consumo lança a saída no razão.
func TestConsume_ParcialDepoisTotal(t *testing.T) {
	manager, tx := newReservationFixture()
	ctx := context.Background()
	tx.balances.seed(1, 10, 10)

	res, err := manager.Reserve(ctx, estoque.ReserveInput{
		VariantID: 1, WarehouseID: ptr(10), Quantity: 10, Reason: "pedido_finalizado", ActorID: 99,
	})
	require.NoError(t, err)

	parcial, err := manager.Consume(ctx, res.ID, 4, nil, 99)
	require.NoError(t, err)
	assert.Equal(t, entity.ReservationAtiva, parcial.Status)
	assert.Equal(t, int64(6), parcial.Remaining())
	assert.Equal(t, int64(6), tx.balances.quantity(1, 10))

	total, err := manager.Consume(ctx, res.ID, 6, nil, 99)
	require.NoError(t, err)
	assert.Equal(t, entity.ReservationConsumida, total.Status)
	assert.Zero(t, total.Remaining())
	assert.Equal(t, int64(0), tx.balances.quantity(1, 10))

	_, err = manager.Consume(ctx, res.ID, 1, nil, 99)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition, "reserva consumida não aceita novo consumo")

	require.Len(t, tx.movements.movements, 2)
	for _, m := range tx.movements.movements {
		assert.Equal(t, entity.MovementSaida, m.Type)
		assert.Equal(t, entity.ReservaRef(res.ID), m.Reference)
	}
	assert.Equal(t, []string{
		entity.AuditReservaCriada,
		entity.AuditMovimentoRegistrado,
		entity.AuditReservaConsumida,
		entity.AuditMovimentoRegistrado,
		entity.AuditReservaConsumida,
	}, tx.audit.actions())
}

func TestConsume_AlemDoRemanescente(t *testing.T) {
	manager, tx := newReservationFixture()
	ctx := context.Background()
	tx.balances.seed(1, 10, 10)

	res, err := manager.Reserve(ctx, estoque.ReserveInput{
		VariantID: 1, WarehouseID: ptr(10), Quantity: 3, Reason: "pedido_finalizado", ActorID: 99,
	})
	require.NoError(t, err)

	_, err = manager.Consume(ctx, res.ID, 5, nil, 99)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// O consumo baixa o físico e o reservado juntos: a disponibilidade vista pelos
// demais fluxos não volta a subir depois da expedição.
func TestConsume_DisponibilidadeNaoRessuscita(t *testing.T) {
	manager, tx := newReservationFixture()
	ctx := context.Background()
	avail := estoque.NewAvailabilityCalculator(tx.balances, tx.reservations)
	tx.balances.seed(1, 10, 10)

	res, err := manager.Reserve(ctx, estoque.ReserveInput{
		VariantID: 1, WarehouseID: ptr(10), Quantity: 4, Reason: "pedido_finalizado", ActorID: 99,
	})
	require.NoError(t, err)

	antes, err := avail.Available(1, ptr(10))
	require.NoError(t, err)
	assert.Equal(t, int64(6), antes)

	_, err = manager.Consume(ctx, res.ID, 4, nil, 99)
	require.NoError(t, err)

	depois, err := avail.Available(1, ptr(10))
	require.NoError(t, err)
	assert.Equal(t, int64(6), depois)
	assert.Equal(t, int64(6), tx.balances.quantity(1, 10))
}

// Reserva sem depósito fixado precisa do depósito de expedição no consumo.
func TestConsume_ReservaGlobalExigeDeposito(t *testing.T) {
	manager, tx := newReservationFixture()
	ctx := context.Background()
	tx.balances.seed(1, 10, 5)

	res, err := manager.Reserve(ctx, estoque.ReserveInput{
		VariantID: 1, Quantity: 2, Reason: "pre_venda", ActorID: 99,
	})
	require.NoError(t, err)

	_, err = manager.Consume(ctx, res.ID, 2, nil, 99)
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	consumida, err := manager.Consume(ctx, res.ID, 2, ptr(10), 99)
	require.NoError(t, err)
	assert.Equal(t, entity.ReservationConsumida, consumida.Status)
	assert.Equal(t, int64(3), tx.balances.quantity(1, 10))
	require.Len(t, tx.movements.movements, 1)
	assert.Equal(t, int64(10), *tx.movements.movements[0].OriginWarehouseID)
}

// Sobrevenda na expedição: sem saldo físico, a transação desfaz também o abate
// da reserva; nada muda.
func TestConsume_SemSaldoFisicoDesfazAbate(t *testing.T) {
	manager, tx := newReservationFixture()
	ctx := context.Background()
	tx.balances.seed(1, 10, 2)

	res, err := manager.Reserve(ctx, estoque.ReserveInput{
		VariantID: 1, WarehouseID: ptr(10), Quantity: 4, Reason: "pre_venda", ActorID: 99,
	})
	require.NoError(t, err)

	_, err = manager.Consume(ctx, res.ID, 4, nil, 99)
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	guardada := tx.reservations.reservations[res.ID]
	assert.Equal(t, entity.ReservationAtiva, guardada.Status)
	assert.Equal(t, int64(4), guardada.Remaining())
	assert.Equal(t, int64(2), tx.balances.quantity(1, 10))
	assert.Empty(t, tx.movements.movements)
}

func TestExpireDue_SoVencidasAtivas(t *testing.T) {
	_, tx := newReservationFixture()
	now := time.Now()
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	tx.reservations.reservations["vencida"] = entity.Reservation{
		ID: "vencida", VariantID: 1, Quantity: 1, Status: entity.ReservationAtiva, ExpiresAt: &past,
	}
	tx.reservations.reservations["no-prazo"] = entity.Reservation{
		ID: "no-prazo", VariantID: 1, Quantity: 1, Status: entity.ReservationAtiva, ExpiresAt: &future,
	}
	tx.reservations.reservations["sem-prazo"] = entity.Reservation{
		ID: "sem-prazo", VariantID: 1, Quantity: 1, Status: entity.ReservationAtiva,
	}

	n, err := tx.reservations.ExpireDue(now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.Equal(t, entity.ReservationExpirada, tx.reservations.reservations["vencida"].Status)
	assert.Equal(t, entity.ReservationAtiva, tx.reservations.reservations["no-prazo"].Status)
	assert.Equal(t, entity.ReservationAtiva, tx.reservations.reservations["sem-prazo"].Status)
}
