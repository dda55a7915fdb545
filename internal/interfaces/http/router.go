package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Suministros-api/internal/application/auth"
	"github.com/jhoicas/Suministros-api/internal/application/catalog"
	"github.com/jhoicas/Suministros-api/internal/application/dto"
	"github.com/jhoicas/Suministros-api/internal/application/inventory"
	"github.com/jhoicas/Suministros-api/internal/application/reports"
	"github.com/jhoicas/Suministros-api/internal/application/transfer"
	"github.com/jhoicas/Suministros-api/internal/domain/entity"
	"github.com/jhoicas/Suministros-api/internal/infrastructure/media"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC      *auth.UseCase
	CatalogUC   *catalog.UseCase
	InventoryUC *inventory.UseCase
	TransferUC  *transfer.UseCase
	ReportsUC   *reports.UseCase
	Media       *media.Store
	JWTSecret   string
}

// Router registra las rutas de la API. Lectura para cualquier usuario
// autenticado; escritura de catálogo e inventario para admin y operador;
// importación, restauración y borrados solo para admin.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	writers := RequireRole(entity.RoleAdmin, entity.RoleOperador)
	adminOnly := RequireRole(entity.RoleAdmin)

	// Auth. El login es público; el registro de usuarios lo hace un admin.
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/login", authHandler.Login)
	authGroup.Post("/register", AuthMiddleware(deps.JWTSecret), adminOnly, authHandler.Register)

	// Todo lo demás requiere Bearer Token.
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Sitios
	sites := protected.Group("/sites")
	siteHandler := NewSiteHandler(deps.CatalogUC)
	sites.Get("/", siteHandler.List)
	sites.Put("/", writers, siteHandler.Upsert)
	sites.Get("/:number", siteHandler.Get)
	sites.Delete("/:number", adminOnly, siteHandler.Delete)

	// Inventario por sitio
	inventoryHandler := NewInventoryHandler(deps.InventoryUC)
	sites.Get("/:number/inventory", inventoryHandler.SiteState)
	sites.Post("/:number/inventory", writers, inventoryHandler.Append)
	sites.Post("/:number/inventory/adjust", writers, inventoryHandler.Adjust)
	sites.Get("/:number/inventory/:code/history", inventoryHandler.History)

	// Categorías
	categories := protected.Group("/categories")
	categoryHandler := NewCategoryHandler(deps.CatalogUC)
	categories.Get("/", categoryHandler.List)
	categories.Put("/", writers, categoryHandler.Upsert)
	categories.Delete("/:category", adminOnly, categoryHandler.Delete)

	// Productos
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.CatalogUC, deps.Media)
	products.Get("/", productHandler.List)
	products.Post("/", writers, productHandler.Save)
	products.Get("/:code", productHandler.Get)
	products.Delete("/:code", adminOnly, productHandler.Delete)
	products.Get("/:code/site-count", inventoryHandler.SiteCount)
	products.Get("/:code/picture", productHandler.GetPicture)
	products.Post("/:code/picture", writers, productHandler.UploadPicture)

	// Vistas consolidadas
	invGroup := protected.Group("/inventory")
	invGroup.Get("/status", inventoryHandler.Status)
	invGroup.Get("/recent", inventoryHandler.Recent)

	// Transferencia de datos
	transferGroup := protected.Group("/transfer")
	transferHandler := NewTransferHandler(deps.TransferUC)
	transferGroup.Get("/export/:kind", transferHandler.Export)
	transferGroup.Post("/import/:kind", adminOnly, transferHandler.Import)
	transferGroup.Get("/backup", adminOnly, transferHandler.Backup)
	transferGroup.Post("/restore", adminOnly, transferHandler.Restore)

	// Reportes
	reportsGroup := protected.Group("/reports")
	reportHandler := NewReportHandler(deps.ReportsUC)
	reportsGroup.Get("/inventory-status.pdf", reportHandler.InventoryStatusPDF)

	// Contadores para la pantalla de inicio
	protected.Get("/counters", func(c *fiber.Ctx) error {
		sitesCount, productsCount, err := deps.CatalogUC.Counters()
		if err != nil {
			return domainError(c, err)
		}
		return c.JSON(dto.CountersResponse{Sites: sitesCount, Products: productsCount})
	})
}
