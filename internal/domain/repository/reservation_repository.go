package repository

import (
	"time"

	"github.com/movelaria/estoque-api/internal/domain/entity"
)

// ReservationRepository define a porta de persistência para reservas.
type ReservationRepository interface {
	Create(reservation *entity.Reservation) error
	GetByID(id string) (*entity.Reservation, error)
	Update(reservation *entity.Reservation) error
	ListActiveByOrder(orderID int64) ([]*entity.Reservation, error)
	// SumActive soma a quantidade remanescente das reservas ativas da variante.
	// Com warehouseID nulo considera todas (inclusive as sem depósito, que só
	// debitam o pool global); com warehouseID preenchido considera apenas as
	// reservas daquele depósito.
	SumActive(variantID int64, warehouseID *int64) (int64, error)
	// ExpireDue transiciona ativa→expirada as reservas com expires_at vencido
	// e devolve quantas foram afetadas (varredura agendada externa ao núcleo).
	ExpireDue(now time.Time) (int64, error)
}
