package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderItemRequest item de pedido na finalização ou reconciliação.
type OrderItemRequest struct {
	OrderItemID int64           `json:"order_item_id"`
	VariantID   int64           `json:"variant_id" validate:"required"`
	WarehouseID *int64          `json:"warehouse_id"`
	Quantity    int64           `json:"quantity" validate:"required,gt=0"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}

// FinalizeOrderRequest entrada da finalização de pedido no checkout.
type FinalizeOrderRequest struct {
	OrderID   int64              `json:"order_id" validate:"required"`
	Items     []OrderItemRequest `json:"items" validate:"required,min=1,dive"`
	Mode      string             `json:"mode" validate:"required,oneof=reserva movimentacao"`
	ExpiresAt *time.Time         `json:"expires_at"`
}

// ReconcileOrderRequest entrada da reconciliação após edição de pedido.
type ReconcileOrderRequest struct {
	OrderID  int64              `json:"order_id" validate:"required"`
	OldItems []OrderItemRequest `json:"old_items" validate:"dive"`
	NewItems []OrderItemRequest `json:"new_items" validate:"dive"`
}

// CancelOrderReservationsRequest entrada do cancelamento de reservas do pedido.
type CancelOrderReservationsRequest struct {
	Reason string `json:"reason" validate:"required"`
}

// CancelOrderReservationsResponse quantas reservas foram canceladas.
type CancelOrderReservationsResponse struct {
	Cancelled int `json:"cancelled"`
}
