package http

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/movelaria/estoque-api/internal/application/dto"
	"github.com/movelaria/estoque-api/internal/application/estoque"
	"github.com/movelaria/estoque-api/internal/domain"
	"github.com/movelaria/estoque-api/internal/domain/entity"
	"github.com/movelaria/estoque-api/internal/domain/repository"
)

// EstoqueHandler trata as rotas do núcleo de estoque: lotes, transferências,
// disponibilidade, leitura de código de barras e reservas (protegido).
type EstoqueHandler struct {
	recorder  *estoque.MovementRecorder
	reservas  *estoque.ReservationManager
	avail     *estoque.AvailabilityCalculator
	scan      *estoque.ScanService
	movements repository.MovementRepository
	balances  repository.BalanceRepository
	transfers repository.TransferRepository
}

// NewEstoqueHandler constrói o handler.
func NewEstoqueHandler(
	recorder *estoque.MovementRecorder,
	reservas *estoque.ReservationManager,
	avail *estoque.AvailabilityCalculator,
	scan *estoque.ScanService,
	movements repository.MovementRepository,
	balances repository.BalanceRepository,
	transfers repository.TransferRepository,
) *EstoqueHandler {
	return &EstoqueHandler{
		recorder:  recorder,
		reservas:  reservas,
		avail:     avail,
		scan:      scan,
		movements: movements,
		balances:  balances,
		transfers: transfers,
	}
}

// CommitBatch godoc
// @Summary      Registrar lote de entrada ou saída
// @Tags         estoque
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CommitBatchRequest  true  "type (entrada|saida), warehouse_id, items"
// @Success      201   {object}  dto.BatchResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/estoque/movimentos [post]
func (h *EstoqueHandler) CommitBatch(c *fiber.Ctx) error {
	var in dto.CommitBatchRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "corpo inválido"})
	}
	movType := entity.MovementType(in.Type)
	if movType != entity.MovementEntrada && movType != entity.MovementSaida {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "type deve ser entrada ou saida"})
	}

	warehouseID := in.WarehouseID
	items := make([]estoque.BatchItem, len(in.Items))
	for i, item := range in.Items {
		items[i] = estoque.BatchItem{VariantID: item.VariantID, Quantity: item.Quantity}
		if movType == entity.MovementEntrada {
			items[i].DestinationWarehouseID = &warehouseID
		} else {
			items[i].OriginWarehouseID = &warehouseID
		}
	}

	result, err := h.recorder.RecordBatch(c.Context(), estoque.BatchInput{
		Type:    movType,
		Items:   items,
		ActorID: GetActorID(c),
		Note:    in.Note,
	})
	if err != nil {
		return domainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toBatchResponse(result))
}

// CommitTransfer godoc
// @Summary      Transferir estoque entre depósitos
// @Tags         estoque
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CommitTransferRequest  true  "origin_warehouse_id, destination_warehouse_id, items"
// @Success      201   {object}  dto.BatchResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/estoque/transferencias [post]
func (h *EstoqueHandler) CommitTransfer(c *fiber.Ctx) error {
	var in dto.CommitTransferRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "corpo inválido"})
	}
	origin, dest := in.OriginWarehouseID, in.DestinationWarehouseID
	items := make([]estoque.BatchItem, len(in.Items))
	for i, item := range in.Items {
		items[i] = estoque.BatchItem{
			VariantID:              item.VariantID,
			Quantity:               item.Quantity,
			OriginWarehouseID:      &origin,
			DestinationWarehouseID: &dest,
		}
	}

	result, err := h.recorder.RecordBatch(c.Context(), estoque.BatchInput{
		Type:    entity.MovementTransferencia,
		Items:   items,
		ActorID: GetActorID(c),
		Note:    in.Note,
	})
	if err != nil {
		return domainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toBatchResponse(result))
}

// Scan godoc
// @Summary      Resolver código de barras no balcão
// @Tags         estoque
// @Security     Bearer
// @Produce      json
// @Param        barcode       path   string  true   "código de barras"
// @Param        warehouse_id  query  int     false  "disponibilidade por depósito; vazio = global"
// @Success      200  {object}  dto.ScanResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/estoque/scan/{barcode} [get]
func (h *EstoqueHandler) Scan(c *fiber.Ctx) error {
	warehouseID, err := optionalWarehouseQuery(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "warehouse_id inválido"})
	}
	result, err := h.scan.Scan(c.Params("barcode"), warehouseID, GetActorID(c))
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(dto.ScanResponse{
		VariantID:    result.VariantID,
		SKU:          result.SKU,
		Name:         result.Name,
		UnitPrice:    result.UnitPrice,
		Availability: result.Availability,
	})
}

// Availability godoc
// @Summary      Disponibilidade de uma variante
// @Tags         estoque
// @Security     Bearer
// @Produce      json
// @Param        id            path   int  true   "id da variante"
// @Param        warehouse_id  query  int  false  "por depósito; vazio = global"
// @Success      200  {object}  dto.AvailabilityResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/estoque/disponibilidade/{id} [get]
func (h *EstoqueHandler) Availability(c *fiber.Ctx) error {
	variantID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id inválido"})
	}
	warehouseID, err := optionalWarehouseQuery(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "warehouse_id inválido"})
	}
	available, err := h.avail.Available(int64(variantID), warehouseID)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(dto.AvailabilityResponse{
		VariantID:    int64(variantID),
		WarehouseID:  warehouseID,
		Availability: available,
	})
}

// Balances godoc
// @Summary      Saldos físicos da variante por depósito
// @Tags         estoque
// @Security     Bearer
// @Produce      json
// @Param        id  path  int  true  "id da variante"
// @Success      200  {array}  dto.BalanceResponse
// @Router       /api/estoque/saldos/{id} [get]
func (h *EstoqueHandler) Balances(c *fiber.Ctx) error {
	variantID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id inválido"})
	}
	balances, err := h.balances.ListByVariant(int64(variantID))
	if err != nil {
		return domainError(c, err)
	}
	out := make([]dto.BalanceResponse, len(balances))
	for i, b := range balances {
		out[i] = dto.BalanceResponse{
			VariantID:   b.VariantID,
			WarehouseID: b.WarehouseID,
			Quantity:    b.Quantity,
			UpdatedAt:   b.UpdatedAt,
		}
	}
	return c.JSON(out)
}

// MovementsByLot godoc
// @Summary      Movimentos de um lote
// @Tags         estoque
// @Security     Bearer
// @Produce      json
// @Param        lotId  path  string  true  "id do lote"
// @Success      200  {array}  dto.MovementResponse
// @Router       /api/estoque/lotes/{lotId}/movimentos [get]
func (h *EstoqueHandler) MovementsByLot(c *fiber.Ctx) error {
	movements, err := h.movements.ListByLot(c.Params("lotId"))
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(toMovementResponses(movements))
}

// MovementsByVariant godoc
// @Summary      Razão de movimentos de uma variante
// @Tags         estoque
// @Security     Bearer
// @Produce      json
// @Param        id      path   int  true   "id da variante"
// @Param        limit   query  int  false  "página"
// @Param        offset  query  int  false  "página"
// @Success      200  {array}  dto.MovementResponse
// @Router       /api/estoque/variantes/{id}/movimentos [get]
func (h *EstoqueHandler) MovementsByVariant(c *fiber.Ctx) error {
	variantID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id inválido"})
	}
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginação inválida"})
	}
	page.DefaultPage()
	movements, err := h.movements.ListByVariant(int64(variantID), page.Limit, page.Offset)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(toMovementResponses(movements))
}

// Transfers godoc
// @Summary      Listar transferências
// @Tags         estoque
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "página"
// @Param        offset  query  int  false  "página"
// @Success      200  {array}  dto.TransferResponse
// @Router       /api/estoque/transferencias [get]
func (h *EstoqueHandler) Transfers(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginação inválida"})
	}
	page.DefaultPage()
	transfers, err := h.transfers.List(page.Limit, page.Offset)
	if err != nil {
		return domainError(c, err)
	}
	out := make([]dto.TransferResponse, len(transfers))
	for i, t := range transfers {
		out[i] = dto.TransferResponse{
			ID:                     t.ID,
			LotID:                  t.LotID,
			OriginWarehouseID:      t.OriginWarehouseID,
			DestinationWarehouseID: t.DestinationWarehouseID,
			Status:                 string(t.Status),
			TotalItems:             t.TotalItems,
			TotalUnits:             t.TotalUnits,
			Note:                   t.Note,
			CreatedAt:              t.CreatedAt,
		}
	}
	return c.JSON(out)
}

// Reserve godoc
// @Summary      Criar reserva avulsa
// @Tags         reservas
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ReserveRequest  true  "variant_id, quantity, reason"
// @Success      201   {object}  dto.ReservationResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/reservas [post]
func (h *EstoqueHandler) Reserve(c *fiber.Ctx) error {
	var in dto.ReserveRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "corpo inválido"})
	}
	res, err := h.reservas.Reserve(c.Context(), estoque.ReserveInput{
		VariantID:   in.VariantID,
		WarehouseID: in.WarehouseID,
		OrderID:     in.OrderID,
		OrderItemID: in.OrderItemID,
		Quantity:    in.Quantity,
		Reason:      in.Reason,
		ExpiresAt:   in.ExpiresAt,
		ActorID:     GetActorID(c),
	})
	if err != nil {
		return domainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toReservationResponse(res))
}

// ConsumeReservation godoc
// @Summary      Consumir (parcialmente) uma reserva na expedição
// @Tags         reservas
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                         true  "id da reserva"
// @Param        body  body  dto.ConsumeReservationRequest  true  "quantity, warehouse_id (reserva sem depósito)"
// @Success      200   {object}  dto.ReservationResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/reservas/{id}/consumo [post]
func (h *EstoqueHandler) ConsumeReservation(c *fiber.Ctx) error {
	var in dto.ConsumeReservationRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "corpo inválido"})
	}
	res, err := h.reservas.Consume(c.Context(), c.Params("id"), in.Quantity, in.WarehouseID, GetActorID(c))
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(toReservationResponse(res))
}

func optionalWarehouseQuery(c *fiber.Ctx) (*int64, error) {
	raw := c.Query("warehouse_id")
	if raw == "" {
		return nil, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, domain.ErrInvalidInput
	}
	return &id, nil
}

func toBatchResponse(result *estoque.BatchResult) dto.BatchResponse {
	return dto.BatchResponse{
		LotID:      result.LotID,
		TransferID: result.TransferID,
		Movements:  toMovementResponses(result.Movements),
	}
}

func toMovementResponses(movements []*entity.Movement) []dto.MovementResponse {
	out := make([]dto.MovementResponse, len(movements))
	for i, m := range movements {
		out[i] = dto.MovementResponse{
			ID:                     m.ID,
			LotID:                  m.LotID,
			VariantID:              m.VariantID,
			OriginWarehouseID:      m.OriginWarehouseID,
			DestinationWarehouseID: m.DestinationWarehouseID,
			Type:                   string(m.Type),
			Quantity:               m.Quantity,
			ActorID:                m.ActorID,
			Note:                   m.Note,
			ReferenceKind:          string(m.Reference.Kind),
			CreatedAt:              m.CreatedAt,
		}
		switch m.Reference.Kind {
		case entity.RefPedido:
			orderID := m.Reference.OrderID
			out[i].OrderID = &orderID
		case entity.RefReserva:
			reservationID := m.Reference.ReservationID
			out[i].ReservationID = &reservationID
		}
	}
	return out
}

func toReservationResponse(r *entity.Reservation) dto.ReservationResponse {
	return dto.ReservationResponse{
		ID:               r.ID,
		VariantID:        r.VariantID,
		WarehouseID:      r.WarehouseID,
		OrderID:          r.OrderID,
		OrderItemID:      r.OrderItemID,
		Quantity:         r.Quantity,
		QuantityConsumed: r.QuantityConsumed,
		Status:           string(r.Status),
		Reason:           r.Reason,
		ExpiresAt:        r.ExpiresAt,
		CreatedAt:        r.CreatedAt,
	}
}
