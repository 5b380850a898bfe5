package entity

import "time"

// MovementType é o tipo de um movimento de estoque.
type MovementType string

// Tipos de movimento do razão de estoque.
const (
	MovementEntrada       MovementType = "entrada"
	MovementSaida         MovementType = "saida"
	MovementTransferencia MovementType = "transferencia"
	MovementAjuste        MovementType = "ajuste"
)

// Valid indica se o tipo pertence ao conjunto fechado de tipos de movimento.
func (t MovementType) Valid() bool {
	switch t {
	case MovementEntrada, MovementSaida, MovementTransferencia, MovementAjuste:
		return true
	}
	return false
}

// ReferenceKind discrimina a que documento um movimento ou reserva aponta.
type ReferenceKind string

const (
	RefNenhuma ReferenceKind = ""        // sem referência
	RefPedido  ReferenceKind = "pedido"  // pedido de venda (+ item)
	RefReserva ReferenceKind = "reserva" // reserva consumida pela expedição
)

// Reference é a união etiquetada que substitui pares de FKs anuláveis:
// qual documento está referenciado fica explícito pelo Kind.
type Reference struct {
	Kind          ReferenceKind
	OrderID       int64  // válido quando Kind == RefPedido
	OrderItemID   int64  // válido quando Kind == RefPedido (0 = pedido inteiro)
	ReservationID string // válido quando Kind == RefReserva
}

// PedidoRef constrói a referência a um item de pedido.
func PedidoRef(orderID, orderItemID int64) Reference {
	return Reference{Kind: RefPedido, OrderID: orderID, OrderItemID: orderItemID}
}

// ReservaRef constrói a referência a uma reserva.
func ReservaRef(reservationID string) Reference {
	return Reference{Kind: RefReserva, ReservationID: reservationID}
}

// Movement é uma linha imutável do razão de estoque. Correções são novos
// movimentos compensatórios; linhas já gravadas nunca são editadas.
// Quantity é sempre positiva; o sentido vem do tipo e dos depósitos:
// entrada/ajuste+ preenchem destino, saida/ajuste- preenchem origem e
// transferencia preenche os dois na mesma linha.
type Movement struct {
	ID                     string
	LotID                  string // agrupa as linhas criadas por uma ação do usuário
	VariantID              int64
	OriginWarehouseID      *int64
	DestinationWarehouseID *int64
	Type                   MovementType
	Quantity               int64
	ActorID                int64
	Note                   string
	Reference              Reference
	CreatedAt              time.Time
}

// DeltaAt devolve o efeito do movimento sobre o saldo do depósito indicado:
// +Quantity no destino, -Quantity na origem, 0 se o depósito não participa.
func (m *Movement) DeltaAt(warehouseID int64) int64 {
	var delta int64
	if m.DestinationWarehouseID != nil && *m.DestinationWarehouseID == warehouseID {
		delta += m.Quantity
	}
	if m.OriginWarehouseID != nil && *m.OriginWarehouseID == warehouseID {
		delta -= m.Quantity
	}
	return delta
}
