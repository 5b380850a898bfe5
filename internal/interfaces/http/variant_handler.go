package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/movelaria/estoque-api/internal/application/dto"
	"github.com/movelaria/estoque-api/internal/application/usecase"
)

// VariantHandler trata o CRUD de variantes (protegido).
type VariantHandler struct {
	uc *usecase.VariantUseCase
}

// NewVariantHandler constrói o handler.
func NewVariantHandler(uc *usecase.VariantUseCase) *VariantHandler {
	return &VariantHandler{uc: uc}
}

// Create godoc
// @Summary      Cadastrar variante
// @Tags         variantes
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateVariantRequest  true  "sku, barcode, name, price"
// @Success      201   {object}  dto.VariantResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/variantes [post]
func (h *VariantHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateVariantRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "corpo inválido"})
	}
	variant, err := h.uc.Create(c.Context(), in)
	if err != nil {
		return domainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(variant)
}

// GetByID godoc
// @Summary      Obter variante por ID
// @Tags         variantes
// @Security     Bearer
// @Produce      json
// @Param        id  path  int  true  "id da variante"
// @Success      200  {object}  dto.VariantResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/variantes/{id} [get]
func (h *VariantHandler) GetByID(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id inválido"})
	}
	variant, err := h.uc.GetByID(int64(id))
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(variant)
}

// List godoc
// @Summary      Listar variantes
// @Tags         variantes
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "página"
// @Param        offset  query  int  false  "página"
// @Success      200  {object}  dto.VariantListResponse
// @Router       /api/variantes [get]
func (h *VariantHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginação inválida"})
	}
	list, err := h.uc.List(page)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(list)
}

// Update godoc
// @Summary      Atualizar variante
// @Tags         variantes
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  int                       true  "id da variante"
// @Param        body  body  dto.UpdateVariantRequest  true  "campos opcionais"
// @Success      200   {object}  dto.VariantResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/variantes/{id} [put]
func (h *VariantHandler) Update(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id inválido"})
	}
	var in dto.UpdateVariantRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "corpo inválido"})
	}
	variant, err := h.uc.Update(int64(id), in)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(variant)
}
