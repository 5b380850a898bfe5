package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// BatchItemRequest linha de um lote de entrada/saída (depósito único no lote).
type BatchItemRequest struct {
	VariantID int64 `json:"variant_id" validate:"required"`
	Quantity  int64 `json:"quantity" validate:"required,gt=0"`
}

// CommitBatchRequest entrada para registrar um lote de entrada ou saída não
// ligado a pedido (recebimento, balanço, expedição avulsa).
type CommitBatchRequest struct {
	Type        string             `json:"type" validate:"required,oneof=entrada saida"`
	WarehouseID int64              `json:"warehouse_id" validate:"required"`
	Items       []BatchItemRequest `json:"items" validate:"required,min=1,dive"`
	Note        string             `json:"note"`
}

// CommitTransferRequest entrada para transferência entre depósitos.
type CommitTransferRequest struct {
	OriginWarehouseID      int64              `json:"origin_warehouse_id" validate:"required"`
	DestinationWarehouseID int64              `json:"destination_warehouse_id" validate:"required"`
	Items                  []BatchItemRequest `json:"items" validate:"required,min=1,dive"`
	Note                   string             `json:"note"`
}

// MovementResponse linha do razão de movimentos.
type MovementResponse struct {
	ID                     string    `json:"id"`
	LotID                  string    `json:"lot_id"`
	VariantID              int64     `json:"variant_id"`
	OriginWarehouseID      *int64    `json:"origin_warehouse_id,omitempty"`
	DestinationWarehouseID *int64    `json:"destination_warehouse_id,omitempty"`
	Type                   string    `json:"type"`
	Quantity               int64     `json:"quantity"`
	ActorID                int64     `json:"actor_id"`
	Note                   string    `json:"note,omitempty"`
	ReferenceKind          string    `json:"reference_kind,omitempty"`
	OrderID                *int64    `json:"order_id,omitempty"`
	ReservationID          *string   `json:"reservation_id,omitempty"`
	CreatedAt              time.Time `json:"created_at"`
}

// BatchResponse resultado do commit de um lote.
type BatchResponse struct {
	LotID      string             `json:"lot_id"`
	TransferID string             `json:"transfer_id,omitempty"`
	Movements  []MovementResponse `json:"movements"`
}

// AvailabilityResponse disponibilidade calculada de uma variante.
type AvailabilityResponse struct {
	VariantID    int64  `json:"variant_id"`
	WarehouseID  *int64 `json:"warehouse_id,omitempty"`
	Availability int64  `json:"availability"`
}

// BalanceResponse saldo físico por depósito.
type BalanceResponse struct {
	VariantID   int64     `json:"variant_id"`
	WarehouseID int64     `json:"warehouse_id"`
	Quantity    int64     `json:"quantity"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ScanResponse resposta da leitura de código de barras no balcão.
type ScanResponse struct {
	VariantID    int64           `json:"variant_id"`
	SKU          string          `json:"sku"`
	Name         string          `json:"name"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	Availability int64           `json:"availability"`
}

// ReserveRequest entrada para criar uma reserva avulsa.
type ReserveRequest struct {
	VariantID   int64      `json:"variant_id" validate:"required"`
	WarehouseID *int64     `json:"warehouse_id"`
	OrderID     *int64     `json:"order_id"`
	OrderItemID *int64     `json:"order_item_id"`
	Quantity    int64      `json:"quantity" validate:"required,gt=0"`
	Reason      string     `json:"reason" validate:"required"`
	ExpiresAt   *time.Time `json:"expires_at"`
}

// ConsumeReservationRequest entrada para consumir (parcialmente) uma reserva.
// WarehouseID indica o depósito de expedição quando a reserva não tem depósito
// fixado; é ignorado quando a reserva já tem depósito.
type ConsumeReservationRequest struct {
	Quantity    int64  `json:"quantity" validate:"required,gt=0"`
	WarehouseID *int64 `json:"warehouse_id"`
}

// ReservationResponse saída de uma reserva.
type ReservationResponse struct {
	ID               string     `json:"id"`
	VariantID        int64      `json:"variant_id"`
	WarehouseID      *int64     `json:"warehouse_id,omitempty"`
	OrderID          *int64     `json:"order_id,omitempty"`
	OrderItemID      *int64     `json:"order_item_id,omitempty"`
	Quantity         int64      `json:"quantity"`
	QuantityConsumed int64      `json:"quantity_consumed"`
	Status           string     `json:"status"`
	Reason           string     `json:"reason"`
	ExpiresAt        *time.Time `json:"expires_at,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
}

// TransferResponse saída de uma transferência.
type TransferResponse struct {
	ID                     string    `json:"id"`
	LotID                  string    `json:"lot_id"`
	OriginWarehouseID      int64     `json:"origin_warehouse_id"`
	DestinationWarehouseID int64     `json:"destination_warehouse_id"`
	Status                 string    `json:"status"`
	TotalItems             int64     `json:"total_items"`
	TotalUnits             int64     `json:"total_units"`
	Note                   string    `json:"note,omitempty"`
	CreatedAt              time.Time `json:"created_at"`
}
