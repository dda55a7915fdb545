package catalog

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Suministros-api/internal/application/dto"
	"github.com/jhoicas/Suministros-api/internal/domain"
	"github.com/jhoicas/Suministros-api/internal/domain/entity"
	"github.com/jhoicas/Suministros-api/internal/domain/repository"
)

// UseCase mantiene el catálogo: sitios, categorías y productos. Las escrituras
// simples van directo al repo; las cascadas y el recodificado pasan por el
// TxRunner para ser atómicos.
type UseCase struct {
	txRunner     TxRunner
	siteRepo     repository.SiteRepository
	categoryRepo repository.CategoryRepository
	productRepo  repository.ProductRepository
}

// NewUseCase construye el caso de uso de catálogo.
func NewUseCase(
	txRunner TxRunner,
	siteRepo repository.SiteRepository,
	categoryRepo repository.CategoryRepository,
	productRepo repository.ProductRepository,
) *UseCase {
	return &UseCase{
		txRunner:     txRunner,
		siteRepo:     siteRepo,
		categoryRepo: categoryRepo,
		productRepo:  productRepo,
	}
}

// UpsertSite crea o sobrescribe un sitio por su número.
func (uc *UseCase) UpsertSite(in dto.SiteRequest, modifier string) (*entity.Site, error) {
	if in.Number <= 0 || in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	site := &entity.Site{
		Number:       in.Number,
		Name:         in.Name,
		County:       in.County,
		Address1:     in.Address1,
		Address2:     in.Address2,
		Address3:     in.Address3,
		ContactName:  in.ContactName,
		ContactPhone: in.ContactPhone,
		Notes:        in.Notes,
		Modifier:     modifier,
		Modified:     time.Now().UTC(),
	}
	if err := uc.siteRepo.Upsert(site); err != nil {
		return nil, err
	}
	return site, nil
}

// GetSite obtiene un sitio por número.
func (uc *UseCase) GetSite(number int) (*entity.Site, error) {
	site, err := uc.siteRepo.GetByNumber(number)
	if err != nil {
		return nil, err
	}
	if site == nil {
		return nil, domain.ErrNotFound
	}
	return site, nil
}

// ListSites lista todos los sitios.
func (uc *UseCase) ListSites() ([]*entity.Site, error) {
	return uc.siteRepo.List()
}

// DeleteSite elimina un sitio y, en la misma transacción, todos los registros
// del ledger de ese sitio.
func (uc *UseCase) DeleteSite(ctx context.Context, number int) error {
	site, err := uc.siteRepo.GetByNumber(number)
	if err != nil {
		return err
	}
	if site == nil {
		return domain.ErrNotFound
	}
	return uc.txRunner.Run(ctx, func(
		sites repository.SiteRepository,
		_ repository.CategoryRepository,
		_ repository.ProductRepository,
		records repository.LedgerRepository,
	) error {
		if err := records.DeleteBySite(number); err != nil {
			return err
		}
		return sites.Delete(number)
	})
}

// UpsertCategory crea o sobrescribe una categoría por su etiqueta.
func (uc *UseCase) UpsertCategory(in dto.CategoryRequest, modifier string) (*entity.ProductCategory, error) {
	if in.Category == "" {
		return nil, domain.ErrInvalidInput
	}
	category := &entity.ProductCategory{
		Category: in.Category,
		Modifier: modifier,
		Modified: time.Now().UTC(),
	}
	if err := uc.categoryRepo.Upsert(category); err != nil {
		return nil, err
	}
	return category, nil
}

// ListCategories lista todas las categorías.
func (uc *UseCase) ListCategories() ([]*entity.ProductCategory, error) {
	return uc.categoryRepo.List()
}

// DeleteCategory elimina una categoría. Los productos conservan la etiqueta
// suelta; no hay cascada sobre el catálogo de productos.
func (uc *UseCase) DeleteCategory(category string) error {
	existing, err := uc.categoryRepo.GetByName(category)
	if err != nil {
		return err
	}
	if existing == nil {
		return domain.ErrNotFound
	}
	return uc.categoryRepo.Delete(category)
}

// SaveProduct crea o sobrescribe un producto. Con Code vacío se genera un
// código automático; con NewCode presente se recodifica de forma atómica.
func (uc *UseCase) SaveProduct(ctx context.Context, in dto.ProductRequest, modifier string) (*entity.ProductInformation, error) {
	product, err := uc.buildProduct(in, modifier)
	if err != nil {
		return nil, err
	}
	if in.NewCode != "" && in.NewCode != product.Code {
		return uc.rekeyProduct(ctx, product, in.NewCode)
	}
	if err := uc.productRepo.Upsert(product); err != nil {
		return nil, err
	}
	return product, nil
}

func (uc *UseCase) buildProduct(in dto.ProductRequest, modifier string) (*entity.ProductInformation, error) {
	code := in.Code
	if code == "" {
		code = entity.NewProductCode()
	}
	if !entity.ValidProductCode(code) || in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	unit := in.UnitOfMeasure
	if unit == "" {
		unit = entity.UnitEach
	}
	if !entity.ValidUnitOfMeasure(unit) {
		return nil, domain.ErrInvalidInput
	}
	qtyOfMeasure := decimal.NewFromInt(1)
	if in.QuantityOfMeasure != "" {
		var err error
		qtyOfMeasure, err = decimal.NewFromString(in.QuantityOfMeasure)
		if err != nil || qtyOfMeasure.LessThanOrEqual(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
	}
	cost := decimal.Zero
	if in.CostPerItem != "" {
		var err error
		cost, err = decimal.NewFromString(in.CostPerItem)
		if err != nil || cost.LessThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
	}
	var expiration *time.Time
	if in.ExpirationDate != nil && *in.ExpirationDate != "" {
		t, err := time.Parse("2006-01-02", *in.ExpirationDate)
		if err != nil {
			return nil, domain.ErrInvalidInput
		}
		expiration = &t
	}
	// La foto previa se conserva: el upsert de catálogo no toca los campos de
	// imagen salvo que el caller los haya cargado por el endpoint de medios.
	var picture, originalPictureName string
	if existing, err := uc.productRepo.GetByCode(code); err == nil && existing != nil {
		picture = existing.Picture
		originalPictureName = existing.OriginalPictureName
	}
	return &entity.ProductInformation{
		Code:                code,
		Name:                in.Name,
		Category:            in.Category,
		UnitOfMeasure:       unit,
		QuantityOfMeasure:   qtyOfMeasure,
		Expendable:          in.Expendable,
		CartonsPerPallet:    in.CartonsPerPallet,
		DoubleStackPallets:  in.DoubleStackPallets,
		WarehouseLocation:   in.WarehouseLocation,
		CanExpire:           expiration != nil,
		ExpirationDate:      expiration,
		ExpirationNotes:     in.ExpirationNotes,
		CostPerItem:         cost,
		Picture:             picture,
		OriginalPictureName: originalPictureName,
		Modifier:            modifier,
		Modified:            time.Now().UTC(),
	}, nil
}

// rekeyProduct cambia el código de un producto: inserta la fila nueva,
// re-apunta el ledger y borra la fila vieja, todo en una transacción. Una
// colisión con un código existente cancela los tres pasos.
func (uc *UseCase) rekeyProduct(ctx context.Context, product *entity.ProductInformation, newCode string) (*entity.ProductInformation, error) {
	if !entity.ValidProductCode(newCode) {
		return nil, domain.ErrInvalidInput
	}
	oldCode := product.Code
	existing, err := uc.productRepo.GetByCode(oldCode)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, domain.ErrNotFound
	}
	rekeyed := *product
	rekeyed.Code = newCode
	err = uc.txRunner.Run(ctx, func(
		_ repository.SiteRepository,
		_ repository.CategoryRepository,
		products repository.ProductRepository,
		records repository.LedgerRepository,
	) error {
		if err := products.Create(&rekeyed); err != nil {
			return err
		}
		if err := records.ReassignProduct(oldCode, newCode); err != nil {
			return err
		}
		return products.Delete(oldCode)
	})
	if err != nil {
		return nil, err
	}
	return &rekeyed, nil
}

// GetProduct obtiene un producto por código.
func (uc *UseCase) GetProduct(code string) (*entity.ProductInformation, error) {
	product, err := uc.productRepo.GetByCode(code)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	return product, nil
}

// ListProducts lista todos los productos.
func (uc *UseCase) ListProducts() ([]*entity.ProductInformation, error) {
	return uc.productRepo.List()
}

// DeleteProduct elimina un producto y, en la misma transacción, todos los
// registros del ledger que lo referencian.
func (uc *UseCase) DeleteProduct(ctx context.Context, code string) error {
	product, err := uc.productRepo.GetByCode(code)
	if err != nil {
		return err
	}
	if product == nil {
		return domain.ErrNotFound
	}
	return uc.txRunner.Run(ctx, func(
		_ repository.SiteRepository,
		_ repository.CategoryRepository,
		products repository.ProductRepository,
		records repository.LedgerRepository,
	) error {
		if err := records.DeleteByProduct(code); err != nil {
			return err
		}
		return products.Delete(code)
	})
}

// SetProductPicture asocia la foto ya guardada en el almacén de medios.
func (uc *UseCase) SetProductPicture(code, picturePath, originalName, modifier string) (*entity.ProductInformation, error) {
	product, err := uc.productRepo.GetByCode(code)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	product.Picture = picturePath
	product.OriginalPictureName = originalName
	product.Modifier = modifier
	product.Modified = time.Now().UTC()
	if err := uc.productRepo.Upsert(product); err != nil {
		return nil, err
	}
	return product, nil
}

// Counters devuelve los totales de sitios y productos para la pantalla principal.
func (uc *UseCase) Counters() (sites, products int, err error) {
	sites, err = uc.siteRepo.Count()
	if err != nil {
		return 0, 0, err
	}
	products, err = uc.productRepo.Count()
	if err != nil {
		return 0, 0, err
	}
	return sites, products, nil
}
