package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Suministros-api/internal/application/dto"
	"github.com/jhoicas/Suministros-api/internal/application/reports"
)

// ReportHandler maneja los reportes imprimibles.
type ReportHandler struct {
	uc *reports.UseCase
}

// NewReportHandler construye el handler.
func NewReportHandler(uc *reports.UseCase) *ReportHandler {
	return &ReportHandler{uc: uc}
}

// InventoryStatusPDF genera el consolidado de inventario en PDF, opcionalmente
// a una fecha de corte.
// GET /api/reports/inventory-status.pdf
func (h *ReportHandler) InventoryStatusPDF(c *fiber.Ctx) error {
	asOf, err := parseAsOf(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}
	data, err := h.uc.StatusPDF(asOf)
	if err != nil {
		return domainError(c, err)
	}
	filename := "inventory_status_" + time.Now().Format("20060102") + ".pdf"
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(data)
}
