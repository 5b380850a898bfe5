package entity_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/movelaria/estoque-api/internal/domain/entity"
)

func TestMovementType_Valid(t *testing.T) {
	assert.True(t, entity.MovementEntrada.Valid())
	assert.True(t, entity.MovementSaida.Valid())
	assert.True(t, entity.MovementTransferencia.Valid())
	assert.True(t, entity.MovementAjuste.Valid())
	assert.False(t, entity.MovementType("devolucao").Valid())
	assert.False(t, entity.MovementType("").Valid())
}

// Uma linha de transferência carrega origem e destino juntos; o efeito por
// depósito sai do DeltaAt.
func TestMovement_DeltaAt(t *testing.T) {
	origin, dest := int64(10), int64(20)
	m := &entity.Movement{
		Type:                   entity.MovementTransferencia,
		Quantity:               5,
		OriginWarehouseID:      &origin,
		DestinationWarehouseID: &dest,
	}

	assert.Equal(t, int64(-5), m.DeltaAt(10))
	assert.Equal(t, int64(5), m.DeltaAt(20))
	assert.Equal(t, int64(0), m.DeltaAt(30))
}

func TestReference_Construtores(t *testing.T) {
	ref := entity.PedidoRef(42, 7)
	assert.Equal(t, entity.RefPedido, ref.Kind)
	assert.Equal(t, int64(42), ref.OrderID)
	assert.Equal(t, int64(7), ref.OrderItemID)

	ref = entity.ReservaRef("abc")
	assert.Equal(t, entity.RefReserva, ref.Kind)
	assert.Equal(t, "abc", ref.ReservationID)
}
