package transfer

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/Suministros-api/internal/application/dto"
	"github.com/jhoicas/Suministros-api/internal/domain"
	"github.com/jhoicas/Suministros-api/internal/domain/entity"
	"github.com/jhoicas/Suministros-api/internal/domain/repository"
	"github.com/jhoicas/Suministros-api/internal/infrastructure/spreadsheet"
	"github.com/jhoicas/Suministros-api/pkg/logger"
)

// Kind identifica la sección de un libro de intercambio.
type Kind string

const (
	KindSites      Kind = "sites"
	KindCategories Kind = "categories"
	KindProducts   Kind = "products"
	KindInventory  Kind = "inventory"
)

// ParseKind convierte el parámetro de ruta en un Kind válido.
func ParseKind(s string) (Kind, error) {
	switch Kind(strings.ToLower(s)) {
	case KindSites:
		return KindSites, nil
	case KindCategories:
		return KindCategories, nil
	case KindProducts:
		return KindProducts, nil
	case KindInventory:
		return KindInventory, nil
	}
	return "", fmt.Errorf("%w: sección desconocida %q", domain.ErrInvalidInput, s)
}

// Etapas de la restauración total, en orden.
const (
	StageStarted            = "started"
	StageDeleting           = "deleting"
	StageRestoringSites     = "restoring_sites"
	StageRestoringCategories = "restoring_categories"
	StageRestoringProducts  = "restoring_products"
	StageRestoringPictures  = "restoring_pictures"
	StageRestoringInventory = "restoring_inventory"
	StageCommitted          = "committed"
	StageRolledBack         = "rolled_back"
)

// Mensajes de duplicados del formato de intercambio. Para las secciones de
// catálogo la última fila gana; para inventario cada fila es un registro y el
// mensaje es solo informativo.
const (
	warnDuplicateSites      = "found duplicate sites"
	warnDuplicateCategories = "found duplicate categories"
	warnDuplicateProducts   = "found duplicate products"
	warnDuplicateInventory  = "found duplicate inventory items"
)

const backupWorkbookName = "Backup_Export.xlsx"

// UseCase implementa la carga masiva, la exportación, el respaldo y la
// restauración total.
type UseCase struct {
	txRunner     TxRunner
	siteRepo     repository.SiteRepository
	categoryRepo repository.CategoryRepository
	productRepo  repository.ProductRepository
	ledgerRepo   repository.LedgerRepository
	media        MediaStore
	log          *logger.Logger
}

// NewUseCase construye el caso de uso de transferencia. media puede ser nil
// cuando no hay almacén de fotos (el respaldo omite esa parte).
func NewUseCase(
	txRunner TxRunner,
	siteRepo repository.SiteRepository,
	categoryRepo repository.CategoryRepository,
	productRepo repository.ProductRepository,
	ledgerRepo repository.LedgerRepository,
	media MediaStore,
	log *logger.Logger,
) *UseCase {
	return &UseCase{
		txRunner:     txRunner,
		siteRepo:     siteRepo,
		categoryRepo: categoryRepo,
		productRepo:  productRepo,
		ledgerRepo:   ledgerRepo,
		media:        media,
		log:          log,
	}
}

// --- importación por sección ---

// ImportSection carga una sección desde un libro xlsx en una sola transacción.
// Un error de formato aborta sin tocar la base; los duplicados de catálogo se
// resuelven con la última fila y quedan como advertencia.
func (uc *UseCase) ImportSection(ctx context.Context, kind Kind, payload []byte, modifier string) (*dto.ImportResult, error) {
	switch kind {
	case KindSites:
		sites, err := spreadsheet.ParseSites(payload)
		if err != nil {
			return nil, err
		}
		return uc.importSites(ctx, sites, modifier, false)
	case KindCategories:
		categories, err := spreadsheet.ParseCategories(payload)
		if err != nil {
			return nil, err
		}
		return uc.importCategories(ctx, categories, modifier, false)
	case KindProducts:
		products, err := spreadsheet.ParseProducts(payload)
		if err != nil {
			return nil, err
		}
		return uc.importProducts(ctx, products, modifier, false)
	case KindInventory:
		records, err := spreadsheet.ParseInventory(payload)
		if err != nil {
			return nil, err
		}
		return uc.importInventory(ctx, records, modifier, false, false)
	}
	return nil, domain.ErrInvalidInput
}

// dedupSites se queda con la última fila por número de sitio, preservando el
// orden de aparición.
func dedupSites(sites []*entity.Site) ([]*entity.Site, bool) {
	index := make(map[int]int, len(sites))
	var out []*entity.Site
	dups := false
	for _, s := range sites {
		if i, ok := index[s.Number]; ok {
			out[i] = s
			dups = true
			continue
		}
		index[s.Number] = len(out)
		out = append(out, s)
	}
	return out, dups
}

func (uc *UseCase) importSites(ctx context.Context, sites []*entity.Site, modifier string, retainModDate bool) (*dto.ImportResult, error) {
	deduped, dups := dedupSites(sites)
	now := time.Now().UTC()
	err := uc.txRunner.Run(ctx, func(
		siteRepo repository.SiteRepository,
		_ repository.CategoryRepository,
		_ repository.ProductRepository,
		_ repository.LedgerRepository,
	) error {
		for _, s := range deduped {
			if !retainModDate {
				s.Modifier = modifier
				s.Modified = now
			}
			if err := siteRepo.Upsert(s); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	result := &dto.ImportResult{Imported: len(deduped)}
	if dups {
		result.Warnings = append(result.Warnings, warnDuplicateSites)
	}
	return result, nil
}

func dedupCategories(categories []*entity.ProductCategory) ([]*entity.ProductCategory, bool) {
	index := make(map[string]int, len(categories))
	var out []*entity.ProductCategory
	dups := false
	for _, c := range categories {
		if i, ok := index[c.Category]; ok {
			out[i] = c
			dups = true
			continue
		}
		index[c.Category] = len(out)
		out = append(out, c)
	}
	return out, dups
}

func (uc *UseCase) importCategories(ctx context.Context, categories []*entity.ProductCategory, modifier string, retainModDate bool) (*dto.ImportResult, error) {
	deduped, dups := dedupCategories(categories)
	now := time.Now().UTC()
	err := uc.txRunner.Run(ctx, func(
		_ repository.SiteRepository,
		categoryRepo repository.CategoryRepository,
		_ repository.ProductRepository,
		_ repository.LedgerRepository,
	) error {
		for _, c := range deduped {
			if !retainModDate {
				c.Modifier = modifier
				c.Modified = now
			}
			if err := categoryRepo.Upsert(c); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	result := &dto.ImportResult{Imported: len(deduped)}
	if dups {
		result.Warnings = append(result.Warnings, warnDuplicateCategories)
	}
	return result, nil
}

func dedupProducts(products []*entity.ProductInformation) ([]*entity.ProductInformation, bool) {
	index := make(map[string]int, len(products))
	var out []*entity.ProductInformation
	dups := false
	for _, p := range products {
		if i, ok := index[p.Code]; ok {
			out[i] = p
			dups = true
			continue
		}
		index[p.Code] = len(out)
		out = append(out, p)
	}
	return out, dups
}

func (uc *UseCase) importProducts(ctx context.Context, products []*entity.ProductInformation, modifier string, retainModDate bool) (*dto.ImportResult, error) {
	deduped, dups := dedupProducts(products)
	now := time.Now().UTC()
	err := uc.txRunner.Run(ctx, func(
		_ repository.SiteRepository,
		_ repository.CategoryRepository,
		productRepo repository.ProductRepository,
		_ repository.LedgerRepository,
	) error {
		for _, p := range deduped {
			if !retainModDate {
				p.Modifier = modifier
				p.Modified = now
			}
			if err := productRepo.Upsert(p); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	result := &dto.ImportResult{Imported: len(deduped)}
	if dups {
		result.Warnings = append(result.Warnings, warnDuplicateProducts)
	}
	return result, nil
}

// importInventory agrega cada fila como registro del ledger sin colapsar
// duplicados. quiet suprime el mensaje informativo (restauración).
func (uc *UseCase) importInventory(ctx context.Context, records []*entity.InventoryRecord, modifier string, retainModDate, quiet bool) (*dto.ImportResult, error) {
	now := time.Now().UTC()
	seen := make(map[string]bool, len(records))
	dups := false
	for _, r := range records {
		key := fmt.Sprintf("%d|%s|%d|%t|%d", r.SiteNumber, r.ProductCode, r.Quantity, r.Deleted, r.Modified.UnixNano())
		if seen[key] {
			dups = true
		}
		seen[key] = true
	}
	err := uc.txRunner.Run(ctx, func(
		sites repository.SiteRepository,
		_ repository.CategoryRepository,
		products repository.ProductRepository,
		ledgerRepo repository.LedgerRepository,
	) error {
		for _, r := range records {
			site, err := sites.GetByNumber(r.SiteNumber)
			if err != nil {
				return err
			}
			product, err := products.GetByCode(r.ProductCode)
			if err != nil {
				return err
			}
			if site == nil || product == nil {
				return fmt.Errorf("%w: sitio %d o producto %q", domain.ErrMissingReference, r.SiteNumber, r.ProductCode)
			}
			if !retainModDate {
				r.Modifier = modifier
				r.Modified = now
			}
			if err := ledgerRepo.Append(r); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	result := &dto.ImportResult{Imported: len(records)}
	if dups && !quiet {
		result.Warnings = append(result.Warnings, warnDuplicateInventory)
	}
	return result, nil
}

// --- exportación ---

// ExportSection serializa una sección a xlsx, opcionalmente a una fecha de
// corte para el ledger. La hoja de inventario lleva el historial completo.
func (uc *UseCase) ExportSection(kind Kind, asOf *time.Time) ([]byte, error) {
	snap := &spreadsheet.Snapshot{}
	var err error
	switch kind {
	case KindSites:
		snap.Sites, err = uc.siteRepo.List()
		if snap.Sites == nil {
			snap.Sites = []*entity.Site{}
		}
	case KindCategories:
		snap.Categories, err = uc.categoryRepo.List()
		if snap.Categories == nil {
			snap.Categories = []*entity.ProductCategory{}
		}
	case KindProducts:
		snap.Products, err = uc.productRepo.List()
		if snap.Products == nil {
			snap.Products = []*entity.ProductInformation{}
		}
	case KindInventory:
		snap.Records, err = uc.ledgerRepo.ListAll(asOf)
		if snap.Records == nil {
			snap.Records = []*entity.InventoryRecord{}
		}
		// La hoja lleva el nombre del producto como columna informativa.
		if err == nil {
			var products []*entity.ProductInformation
			products, err = uc.productRepo.List()
			snap.ProductNames = make(map[string]string, len(products))
			for _, p := range products {
				snap.ProductNames[p.Code] = p.Name
			}
		}
	default:
		return nil, domain.ErrInvalidInput
	}
	if err != nil {
		return nil, err
	}
	return spreadsheet.Build(snap)
}

// ensureSections evita hojas ausentes cuando una sección está vacía.
func ensureSections(snap *spreadsheet.Snapshot) {
	if snap.Sites == nil {
		snap.Sites = []*entity.Site{}
	}
	if snap.Categories == nil {
		snap.Categories = []*entity.ProductCategory{}
	}
	if snap.Products == nil {
		snap.Products = []*entity.ProductInformation{}
	}
	if snap.Records == nil {
		snap.Records = []*entity.InventoryRecord{}
	}
}

func (uc *UseCase) snapshot() (*spreadsheet.Snapshot, error) {
	sites, err := uc.siteRepo.List()
	if err != nil {
		return nil, err
	}
	categories, err := uc.categoryRepo.List()
	if err != nil {
		return nil, err
	}
	products, err := uc.productRepo.List()
	if err != nil {
		return nil, err
	}
	records, err := uc.ledgerRepo.ListAll(nil)
	if err != nil {
		return nil, err
	}
	snap := &spreadsheet.Snapshot{Sites: sites, Categories: categories, Products: products, Records: records}
	ensureSections(snap)
	return snap, nil
}

// Backup arma el zip de respaldo: el libro completo más todas las fotos.
func (uc *UseCase) Backup() ([]byte, error) {
	snap, err := uc.snapshot()
	if err != nil {
		return nil, err
	}
	workbook, err := spreadsheet.Build(snap)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create(backupWorkbookName)
	if err != nil {
		return nil, fmt.Errorf("crear entrada del libro: %w", err)
	}
	if _, err := w.Write(workbook); err != nil {
		return nil, fmt.Errorf("escribir libro de respaldo: %w", err)
	}
	if uc.media != nil {
		if err := uc.media.ArchiveTo(zw); err != nil {
			return nil, fmt.Errorf("agregar fotos al respaldo: %w", err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("cerrar zip de respaldo: %w", err)
	}
	return buf.Bytes(), nil
}

// --- restauración total ---

// RestoreAll reemplaza todo el estado con el contenido de un zip de respaldo.
// Primero parsea las cuatro secciones (cualquier error de formato aborta antes
// de tocar la base); después, en una sola transacción, borra ledger, sitios,
// productos y categorías y recarga cada sección preservando modifier y
// modified originales. Las fotos se reemplazan en su etapa; no participan de
// la transacción de BD. Cualquier error revierte los cambios de base y
// devuelve ErrRestoreFailed con la etapa alcanzada.
func (uc *UseCase) RestoreAll(ctx context.Context, archive []byte) (*dto.RestoreResult, error) {
	result := &dto.RestoreResult{Stage: StageStarted}

	zr, err := zip.NewReader(bytes.NewReader(archive), int64(len(archive)))
	if err != nil {
		return uc.failRestore(result, fmt.Errorf("abrir zip de respaldo: %w", err))
	}
	workbook, err := findWorkbook(zr)
	if err != nil {
		return uc.failRestore(result, err)
	}

	sites, err := spreadsheet.ParseSites(workbook)
	if err != nil {
		return uc.failRestore(result, err)
	}
	categories, err := spreadsheet.ParseCategories(workbook)
	if err != nil {
		return uc.failRestore(result, err)
	}
	products, err := spreadsheet.ParseProducts(workbook)
	if err != nil {
		return uc.failRestore(result, err)
	}
	records, err := spreadsheet.ParseInventory(workbook)
	if err != nil {
		return uc.failRestore(result, err)
	}

	sites, _ = dedupSites(sites)
	categories, _ = dedupCategories(categories)
	products, _ = dedupProducts(products)

	err = uc.txRunner.Run(ctx, func(
		siteRepo repository.SiteRepository,
		categoryRepo repository.CategoryRepository,
		productRepo repository.ProductRepository,
		ledgerRepo repository.LedgerRepository,
	) error {
		result.Stage = StageDeleting
		if err := ledgerRepo.DeleteAll(); err != nil {
			return err
		}
		if err := siteRepo.DeleteAll(); err != nil {
			return err
		}
		if err := productRepo.DeleteAll(); err != nil {
			return err
		}
		if err := categoryRepo.DeleteAll(); err != nil {
			return err
		}

		result.Stage = StageRestoringSites
		for _, s := range sites {
			if err := siteRepo.Upsert(s); err != nil {
				return err
			}
		}
		result.Sites = len(sites)

		result.Stage = StageRestoringCategories
		for _, c := range categories {
			if err := categoryRepo.Upsert(c); err != nil {
				return err
			}
		}
		result.Categories = len(categories)

		result.Stage = StageRestoringProducts
		for _, p := range products {
			if err := productRepo.Upsert(p); err != nil {
				return err
			}
		}
		result.Products = len(products)

		result.Stage = StageRestoringPictures
		if uc.media != nil {
			if err := uc.media.RestoreFromArchive(zr); err != nil {
				return err
			}
		}

		result.Stage = StageRestoringInventory
		for _, r := range records {
			site, err := siteRepo.GetByNumber(r.SiteNumber)
			if err != nil {
				return err
			}
			product, err := productRepo.GetByCode(r.ProductCode)
			if err != nil {
				return err
			}
			if site == nil || product == nil {
				return fmt.Errorf("%w: sitio %d o producto %q", domain.ErrMissingReference, r.SiteNumber, r.ProductCode)
			}
			if err := ledgerRepo.Append(r); err != nil {
				return err
			}
		}
		result.Records = len(records)
		return nil
	})
	if err != nil {
		return uc.failRestore(result, err)
	}

	result.Stage = StageCommitted
	if uc.log != nil {
		uc.log.Info().
			Int("sites", result.Sites).
			Int("categories", result.Categories).
			Int("products", result.Products).
			Int("records", result.Records).
			Msg("restauración total completada")
	}
	return result, nil
}

// failRestore marca la restauración como revertida; el texto del error
// acumulado es lo único que sale, nunca estado parcial.
func (uc *UseCase) failRestore(result *dto.RestoreResult, err error) (*dto.RestoreResult, error) {
	if uc.log != nil {
		uc.log.Err(err).Str("stage", result.Stage).Msg("restauración fallida")
	}
	result.Stage = StageRolledBack
	return result, fmt.Errorf("%w: %v", domain.ErrRestoreFailed, err)
}

func findWorkbook(zr *zip.Reader) ([]byte, error) {
	for _, entry := range zr.File {
		name := strings.ToLower(entry.Name)
		if strings.HasSuffix(name, ".xlsx") || strings.HasSuffix(name, ".xls") {
			rc, err := entry.Open()
			if err != nil {
				return nil, fmt.Errorf("abrir libro de respaldo: %w", err)
			}
			defer rc.Close()
			var buf bytes.Buffer
			if _, err := buf.ReadFrom(rc); err != nil {
				return nil, fmt.Errorf("leer libro de respaldo: %w", err)
			}
			return buf.Bytes(), nil
		}
	}
	return nil, fmt.Errorf("el respaldo no contiene libro de datos")
}
