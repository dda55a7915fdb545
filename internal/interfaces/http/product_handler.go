package http

import (
	"io"
	"path/filepath"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Suministros-api/internal/application/catalog"
	"github.com/jhoicas/Suministros-api/internal/application/dto"
	"github.com/jhoicas/Suministros-api/internal/infrastructure/media"
	"github.com/jhoicas/Suministros-api/pkg/validator"
)

// ProductHandler maneja el catálogo de productos y sus fotos.
type ProductHandler struct {
	uc    *catalog.UseCase
	media *media.Store
}

// NewProductHandler construye el handler. media puede ser nil cuando no hay
// almacén de fotos configurado.
func NewProductHandler(uc *catalog.UseCase, media *media.Store) *ProductHandler {
	return &ProductHandler{uc: uc, media: media}
}

// Save crea o edita un producto. Code vacío genera un código automático;
// NewCode distinto del código actual dispara el recodificado.
// POST /api/products
func (h *ProductHandler) Save(c *fiber.Ctx) error {
	var in dto.ProductRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := validator.Struct(in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}
	product, err := h.uc.SaveProduct(c.Context(), in, GetUsername(c))
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(toProductResponse(product))
}

// List devuelve todos los productos ordenados por nombre.
// GET /api/products
func (h *ProductHandler) List(c *fiber.Ctx) error {
	products, err := h.uc.ListProducts()
	if err != nil {
		return domainError(c, err)
	}
	out := make([]dto.ProductResponse, 0, len(products))
	for _, p := range products {
		out = append(out, toProductResponse(p))
	}
	return c.JSON(out)
}

// Get devuelve un producto por código.
// GET /api/products/:code
func (h *ProductHandler) Get(c *fiber.Ctx) error {
	code := c.Params("code")
	if code == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_PARAM", Message: "código requerido"})
	}
	product, err := h.uc.GetProduct(code)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(toProductResponse(product))
}

// Delete elimina un producto y todo su historial de inventario. Solo admin.
// DELETE /api/products/:code
func (h *ProductHandler) Delete(c *fiber.Ctx) error {
	code := c.Params("code")
	if code == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_PARAM", Message: "código requerido"})
	}
	if err := h.uc.DeleteProduct(c.Context(), code); err != nil {
		return domainError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// UploadPicture guarda la foto del producto y actualiza su referencia.
// POST /api/products/:code/picture (multipart, campo "picture")
func (h *ProductHandler) UploadPicture(c *fiber.Ctx) error {
	if h.media == nil {
		return c.Status(fiber.StatusNotImplemented).JSON(dto.ErrorResponse{Code: "NO_MEDIA", Message: "almacén de fotos no configurado"})
	}
	code := c.Params("code")
	if code == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_PARAM", Message: "código requerido"})
	}
	fileHeader, err := c.FormFile("picture")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_FILE", Message: "se requiere el campo picture"})
	}
	f, err := fileHeader.Open()
	if err != nil {
		return domainError(c, err)
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return domainError(c, err)
	}

	// El nombre en disco usa el código del producto; el original se conserva
	// como metadato para la exportación.
	stored := code + filepath.Ext(fileHeader.Filename)
	rel, err := h.media.Save(stored, data)
	if err != nil {
		return domainError(c, err)
	}
	product, err := h.uc.SetProductPicture(code, rel, fileHeader.Filename, GetUsername(c))
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(toProductResponse(product))
}

// GetPicture sirve la foto del producto.
// GET /api/products/:code/picture
func (h *ProductHandler) GetPicture(c *fiber.Ctx) error {
	if h.media == nil {
		return c.Status(fiber.StatusNotImplemented).JSON(dto.ErrorResponse{Code: "NO_MEDIA", Message: "almacén de fotos no configurado"})
	}
	code := c.Params("code")
	product, err := h.uc.GetProduct(code)
	if err != nil {
		return domainError(c, err)
	}
	if product.Picture == "" {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "el producto no tiene foto"})
	}
	data, err := h.media.Read(product.Picture)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "foto no encontrada en el almacén"})
	}
	c.Set(fiber.HeaderContentDisposition, `inline; filename="`+filepath.Base(product.Picture)+`"`)
	return c.Send(data)
}
