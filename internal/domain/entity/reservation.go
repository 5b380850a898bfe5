package entity

import (
	"time"

	"github.com/movelaria/estoque-api/internal/domain"
)

// ReservationStatus é o status de uma reserva (enum fechado).
type ReservationStatus string

const (
	ReservationAtiva     ReservationStatus = "ativa"
	ReservationConsumida ReservationStatus = "consumida"
	ReservationCancelada ReservationStatus = "cancelada"
	ReservationExpirada  ReservationStatus = "expirada"
)

// reservationTransitions é a tabela de transições permitidas.
// Estados terminais não têm saída.
var reservationTransitions = map[ReservationStatus][]ReservationStatus{
	ReservationAtiva: {ReservationConsumida, ReservationCancelada, ReservationExpirada},
}

// CanTransitionTo informa se a transição de status é permitida.
func (s ReservationStatus) CanTransitionTo(to ReservationStatus) bool {
	for _, t := range reservationTransitions[s] {
		if t == to {
			return true
		}
	}
	return false
}

// Reserva de estoque: retenção "leve" que reduz a disponibilidade calculada
// sem alterar o saldo físico. Criada "ativa" na finalização de um pedido sem
// expedição imediata.
type Reservation struct {
	ID               string
	VariantID        int64
	WarehouseID      *int64 // nulo = debita apenas o pool global de disponibilidade
	OrderID          *int64
	OrderItemID      *int64
	Quantity         int64
	QuantityConsumed int64
	Status           ReservationStatus
	Reason           string
	ExpiresAt        *time.Time
	CreatedBy        int64
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Remaining devolve a quantidade ainda não consumida.
func (r *Reservation) Remaining() int64 {
	return r.Quantity - r.QuantityConsumed
}

// Consume abate qty da reserva. Consumo parcial mantém a reserva "ativa";
// ao consumir tudo, transiciona para "consumida".
func (r *Reservation) Consume(qty int64) error {
	if r.Status != ReservationAtiva {
		return domain.ErrInvalidTransition
	}
	if qty <= 0 || qty > r.Remaining() {
		return domain.ErrInvalidInput
	}
	r.QuantityConsumed += qty
	if r.QuantityConsumed == r.Quantity {
		r.Status = ReservationConsumida
	}
	return nil
}

// Cancel transiciona a reserva para "cancelada".
func (r *Reservation) Cancel() error {
	if !r.Status.CanTransitionTo(ReservationCancelada) {
		return domain.ErrInvalidTransition
	}
	r.Status = ReservationCancelada
	return nil
}

// Expire transiciona a reserva para "expirada" (varredura externa agendada).
func (r *Reservation) Expire() error {
	if !r.Status.CanTransitionTo(ReservationExpirada) {
		return domain.ErrInvalidTransition
	}
	r.Status = ReservationExpirada
	return nil
}
