package http

import (
	"errors"
	"io"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Suministros-api/internal/application/dto"
	"github.com/jhoicas/Suministros-api/internal/application/transfer"
	"github.com/jhoicas/Suministros-api/internal/domain"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// TransferHandler maneja importación, exportación, respaldo y restauración.
type TransferHandler struct {
	uc *transfer.UseCase
}

// NewTransferHandler construye el handler.
func NewTransferHandler(uc *transfer.UseCase) *TransferHandler {
	return &TransferHandler{uc: uc}
}

// readUpload lee el archivo del campo "file" de un multipart.
func readUpload(c *fiber.Ctx) ([]byte, error) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return nil, err
	}
	f, err := fileHeader.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

// Import carga una sección (sites, categories, products o inventory) desde un
// libro xlsx. Solo admin.
// POST /api/transfer/import/:kind (multipart, campo "file")
func (h *TransferHandler) Import(c *fiber.Ctx) error {
	kind, err := transfer.ParseKind(c.Params("kind"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_PARAM", Message: err.Error()})
	}
	payload, err := readUpload(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_FILE", Message: "se requiere el campo file"})
	}
	result, err := h.uc.ImportSection(c.Context(), kind, payload, GetUsername(c))
	if err != nil {
		if errors.Is(err, domain.ErrMissingReference) || errors.Is(err, domain.ErrInvalidInput) {
			return domainError(c, err)
		}
		// Errores de formato del libro: fila y causa en el mensaje.
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{Code: "PARSE_ERROR", Message: err.Error()})
	}
	return c.JSON(result)
}

// Export serializa una sección a xlsx, opcionalmente a una fecha de corte.
// GET /api/transfer/export/:kind
func (h *TransferHandler) Export(c *fiber.Ctx) error {
	kind, err := transfer.ParseKind(c.Params("kind"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_PARAM", Message: err.Error()})
	}
	asOf, err := parseAsOf(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}
	data, err := h.uc.ExportSection(kind, asOf)
	if err != nil {
		return domainError(c, err)
	}
	filename := string(kind) + "_" + time.Now().Format("20060102") + ".xlsx"
	c.Set(fiber.HeaderContentType, xlsxContentType)
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(data)
}

// Backup descarga un zip con el libro completo más las fotos. Solo admin.
// GET /api/transfer/backup
func (h *TransferHandler) Backup(c *fiber.Ctx) error {
	data, err := h.uc.Backup()
	if err != nil {
		return domainError(c, err)
	}
	filename := "backup_" + time.Now().Format("20060102_150405") + ".zip"
	c.Set(fiber.HeaderContentType, "application/zip")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(data)
}

// Restore reemplaza todo el estado con el contenido de un zip de respaldo.
// Todo o nada: cualquier error revierte y devuelve la etapa alcanzada.
// Solo admin.
// POST /api/transfer/restore (multipart, campo "file")
func (h *TransferHandler) Restore(c *fiber.Ctx) error {
	payload, err := readUpload(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_FILE", Message: "se requiere el campo file"})
	}
	result, err := h.uc.RestoreAll(c.Context(), payload)
	if err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error":  dto.ErrorResponse{Code: "RESTORE_FAILED", Message: err.Error()},
			"result": result,
		})
	}
	return c.JSON(result)
}
