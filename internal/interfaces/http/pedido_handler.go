package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/movelaria/estoque-api/internal/application/dto"
	"github.com/movelaria/estoque-api/internal/application/estoque"
	"github.com/movelaria/estoque-api/internal/application/pedido"
)

// PedidoHandler trata as rotas de integração com pedidos: finalização no
// checkout, reconciliação após edição e cancelamento de reservas (protegido).
type PedidoHandler struct {
	finalize   *pedido.FinalizeService
	reconciler *pedido.Reconciler
	reservas   *estoque.ReservationManager
}

// NewPedidoHandler constrói o handler.
func NewPedidoHandler(finalize *pedido.FinalizeService, reconciler *pedido.Reconciler, reservas *estoque.ReservationManager) *PedidoHandler {
	return &PedidoHandler{finalize: finalize, reconciler: reconciler, reservas: reservas}
}

// Finalize godoc
// @Summary      Finalizar pedido (reserva ou movimentação)
// @Tags         pedidos
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.FinalizeOrderRequest  true  "order_id, items, mode (reserva|movimentacao)"
// @Success      204   "finalizado"
// @Failure      422   {object}  dto.ValidationErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/pedidos/finalizacao [post]
func (h *PedidoHandler) Finalize(c *fiber.Ctx) error {
	var in dto.FinalizeOrderRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "corpo inválido"})
	}
	err := h.finalize.Finalize(c.Context(), pedido.FinalizeInput{
		OrderID:   in.OrderID,
		Items:     toOrderItems(in.Items),
		Mode:      pedido.Mode(in.Mode),
		ExpiresAt: in.ExpiresAt,
		ActorID:   GetActorID(c),
	})
	if err != nil {
		return domainError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Reconcile godoc
// @Summary      Reconciliar edição de pedido finalizado
// @Tags         pedidos
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ReconcileOrderRequest  true  "order_id, old_items, new_items"
// @Success      204   "reconciliado"
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/pedidos/reconciliacao [post]
func (h *PedidoHandler) Reconcile(c *fiber.Ctx) error {
	var in dto.ReconcileOrderRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "corpo inválido"})
	}
	err := h.reconciler.Reconcile(c.Context(), pedido.ReconcileInput{
		OrderID:  in.OrderID,
		OldItems: toOrderItems(in.OldItems),
		NewItems: toOrderItems(in.NewItems),
		ActorID:  GetActorID(c),
	})
	if err != nil {
		return domainError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// CancelReservations godoc
// @Summary      Cancelar reservas ativas do pedido
// @Tags         pedidos
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  int                                 true  "id do pedido"
// @Param        body  body  dto.CancelOrderReservationsRequest  true  "reason"
// @Success      200   {object}  dto.CancelOrderReservationsResponse
// @Router       /api/pedidos/{id}/reservas/cancelamento [post]
func (h *PedidoHandler) CancelReservations(c *fiber.Ctx) error {
	orderID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id inválido"})
	}
	var in dto.CancelOrderReservationsRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "corpo inválido"})
	}
	cancelled, err := h.reservas.CancelByOrder(c.Context(), int64(orderID), GetActorID(c), in.Reason)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(dto.CancelOrderReservationsResponse{Cancelled: cancelled})
}

func toOrderItems(items []dto.OrderItemRequest) []pedido.OrderItem {
	out := make([]pedido.OrderItem, len(items))
	for i, item := range items {
		out[i] = pedido.OrderItem{
			OrderItemID: item.OrderItemID,
			VariantID:   item.VariantID,
			WarehouseID: item.WarehouseID,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
		}
	}
	return out
}
