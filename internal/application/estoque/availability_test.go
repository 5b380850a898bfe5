package estoque_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/movelaria/estoque-api/internal/application/estoque"
	"github.com/movelaria/estoque-api/internal/domain"
)

func TestAvailable_PorDeposito(t *testing.T) {
	tx := newFakeTx()
	tx.balances.seed(1, 10, 12)
	tx.balances.seed(1, 20, 5)
	seedReservation(tx, 1, ptr(10), 4)
	seedReservation(tx, 1, ptr(20), 1)

	avail := estoque.NewAvailabilityCalculator(tx.balances, tx.reservations)

	got, err := avail.Available(1, ptr(10))
	require.NoError(t, err)
	assert.Equal(t, int64(8), got)
}

// Reserva sem depósito debita só o pool global; a disponibilidade por depósito
// não a enxerga.
func TestAvailable_ReservaSemDepositoDebitaSoOGlobal(t *testing.T) {
	tx := newFakeTx()
	tx.balances.seed(1, 10, 12)
	tx.balances.seed(1, 20, 5)
	seedReservation(tx, 1, nil, 6)

	avail := estoque.NewAvailabilityCalculator(tx.balances, tx.reservations)

	global, err := avail.Available(1, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(11), global, "17 de saldo - 6 reservados no pool")

	porDeposito, err := avail.Available(1, ptr(10))
	require.NoError(t, err)
	assert.Equal(t, int64(12), porDeposito)
}

// Reservar além do estoque é permitido; a sobrevenda aparece como
// disponibilidade negativa, não como erro.
func TestAvailable_PodeSerNegativa(t *testing.T) {
	tx := newFakeTx()
	tx.balances.seed(1, 10, 3)
	seedReservation(tx, 1, ptr(10), 5)

	avail := estoque.NewAvailabilityCalculator(tx.balances, tx.reservations)

	got, err := avail.Available(1, ptr(10))
	require.NoError(t, err)
	assert.Equal(t, int64(-2), got)
}

func TestAvailable_DepositoInexistente(t *testing.T) {
	tx := newFakeTx()
	avail := estoque.NewAvailabilityCalculator(tx.balances, tx.reservations)

	_, err := avail.Available(1, ptr(777))
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
