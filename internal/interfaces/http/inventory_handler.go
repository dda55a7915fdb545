package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Suministros-api/internal/application/dto"
	"github.com/jhoicas/Suministros-api/internal/application/inventory"
	"github.com/jhoicas/Suministros-api/pkg/validator"
)

// InventoryHandler maneja el ledger de inventario y sus vistas derivadas.
type InventoryHandler struct {
	uc *inventory.UseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(uc *inventory.UseCase) *InventoryHandler {
	return &InventoryHandler{uc: uc}
}

// Append fija la cantidad absoluta de un producto en un sitio agregando un
// registro nuevo al ledger.
// POST /api/sites/:number/inventory
func (h *InventoryHandler) Append(c *fiber.Ctx) error {
	number, err := c.ParamsInt("number")
	if err != nil || number <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_PARAM", Message: "número de sitio inválido"})
	}
	var in dto.AppendRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := validator.Struct(in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}
	record, err := h.uc.Append(c.Context(), number, in, GetUsername(c))
	if err != nil {
		return domainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toRecordResponse(record))
}

// Adjust aplica un delta (positivo o negativo) sobre la cantidad vigente.
// POST /api/sites/:number/inventory/adjust
func (h *InventoryHandler) Adjust(c *fiber.Ctx) error {
	number, err := c.ParamsInt("number")
	if err != nil || number <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_PARAM", Message: "número de sitio inválido"})
	}
	var in dto.AdjustRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := validator.Struct(in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}
	record, err := h.uc.Adjust(c.Context(), number, in, GetUsername(c))
	if err != nil {
		return domainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toRecordResponse(record))
}

// SiteState devuelve el inventario vigente de un sitio, opcionalmente a una
// fecha de corte (as_of) y filtrado por un campo del producto (field + value,
// con field en code, name o category).
// GET /api/sites/:number/inventory
func (h *InventoryHandler) SiteState(c *fiber.Ctx) error {
	number, err := c.ParamsInt("number")
	if err != nil || number <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_PARAM", Message: "número de sitio inválido"})
	}
	asOf, err := parseAsOf(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}
	filter := inventory.Filter{Field: c.Query("field"), Value: c.Query("value")}
	items, err := h.uc.SiteState(number, asOf, filter)
	if err != nil {
		return domainError(c, err)
	}
	out := make([]dto.InventoryItemResponse, 0, len(items))
	for _, item := range items {
		out = append(out, toItemResponse(item))
	}
	return c.JSON(out)
}

// History devuelve todas las versiones de un par (sitio, producto), de la más
// reciente a la más antigua.
// GET /api/sites/:number/inventory/:code/history
func (h *InventoryHandler) History(c *fiber.Ctx) error {
	number, err := c.ParamsInt("number")
	if err != nil || number <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_PARAM", Message: "número de sitio inválido"})
	}
	asOf, err := parseAsOf(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}
	records, err := h.uc.History(number, c.Params("code"), asOf)
	if err != nil {
		return domainError(c, err)
	}
	out := make([]dto.InventoryRecordResponse, 0, len(records))
	for _, r := range records {
		out = append(out, toRecordResponse(r))
	}
	return c.JSON(out)
}

// Status devuelve el consolidado por producto en todos los sitios,
// opcionalmente a una fecha de corte.
// GET /api/inventory/status
func (h *InventoryHandler) Status(c *fiber.Ctx) error {
	asOf, err := parseAsOf(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}
	status, err := h.uc.Status(asOf)
	if err != nil {
		return domainError(c, err)
	}
	out := make([]dto.ProductStatusResponse, 0, len(status))
	for _, st := range status {
		out = append(out, toStatusResponse(st))
	}
	return c.JSON(out)
}

// Recent devuelve los últimos cambios de inventario, uno por producto.
// GET /api/inventory/recent?limit=10
func (h *InventoryHandler) Recent(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 10)
	if limit <= 0 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}
	items, err := h.uc.RecentActivity(limit)
	if err != nil {
		return domainError(c, err)
	}
	out := make([]dto.InventoryItemResponse, 0, len(items))
	for _, item := range items {
		out = append(out, toItemResponse(item))
	}
	return c.JSON(out)
}

// SiteCount informa en cuántos sitios hay existencias del producto. Se usa
// para advertir antes de un borrado o recodificado.
// GET /api/products/:code/site-count
func (h *InventoryHandler) SiteCount(c *fiber.Ctx) error {
	code := c.Params("code")
	if code == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_PARAM", Message: "código requerido"})
	}
	count, err := h.uc.CountSitesContaining(code)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(dto.SiteCountResponse{ProductCode: code, Sites: count})
}
