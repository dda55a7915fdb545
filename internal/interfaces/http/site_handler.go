package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Suministros-api/internal/application/catalog"
	"github.com/jhoicas/Suministros-api/internal/application/dto"
	"github.com/jhoicas/Suministros-api/pkg/validator"
)

// SiteHandler maneja el catálogo de sitios.
type SiteHandler struct {
	uc *catalog.UseCase
}

// NewSiteHandler construye el handler.
func NewSiteHandler(uc *catalog.UseCase) *SiteHandler {
	return &SiteHandler{uc: uc}
}

// Upsert crea o sobrescribe un sitio por su número.
// PUT /api/sites
func (h *SiteHandler) Upsert(c *fiber.Ctx) error {
	var in dto.SiteRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := validator.Struct(in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}
	site, err := h.uc.UpsertSite(in, GetUsername(c))
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(toSiteResponse(site))
}

// List devuelve todos los sitios ordenados por número.
// GET /api/sites
func (h *SiteHandler) List(c *fiber.Ctx) error {
	sites, err := h.uc.ListSites()
	if err != nil {
		return domainError(c, err)
	}
	out := make([]dto.SiteResponse, 0, len(sites))
	for _, s := range sites {
		out = append(out, toSiteResponse(s))
	}
	return c.JSON(out)
}

// Get devuelve un sitio por número.
// GET /api/sites/:number
func (h *SiteHandler) Get(c *fiber.Ctx) error {
	number, err := c.ParamsInt("number")
	if err != nil || number <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_PARAM", Message: "número de sitio inválido"})
	}
	site, err := h.uc.GetSite(number)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(toSiteResponse(site))
}

// Delete elimina un sitio y todo su historial de inventario. Solo admin.
// DELETE /api/sites/:number
func (h *SiteHandler) Delete(c *fiber.Ctx) error {
	number, err := c.ParamsInt("number")
	if err != nil || number <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_PARAM", Message: "número de sitio inválido"})
	}
	if err := h.uc.DeleteSite(c.Context(), number); err != nil {
		return domainError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
