package inventory

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/Suministros-api/internal/application/dto"
	"github.com/jhoicas/Suministros-api/internal/domain"
	"github.com/jhoicas/Suministros-api/internal/domain/entity"
	"github.com/jhoicas/Suministros-api/internal/domain/ledger"
	"github.com/jhoicas/Suministros-api/internal/domain/repository"
)

// UseCase opera el ledger de inventario. Toda escritura es un registro nuevo;
// la cantidad vigente siempre se reconstruye con el motor de
// internal/domain/ledger, nunca se guarda precalculada.
type UseCase struct {
	txRunner    TxRunner
	siteRepo    repository.SiteRepository
	productRepo repository.ProductRepository
	ledgerRepo  repository.LedgerRepository
}

// NewUseCase construye el caso de uso de inventario.
func NewUseCase(
	txRunner TxRunner,
	siteRepo repository.SiteRepository,
	productRepo repository.ProductRepository,
	ledgerRepo repository.LedgerRepository,
) *UseCase {
	return &UseCase{
		txRunner:    txRunner,
		siteRepo:    siteRepo,
		productRepo: productRepo,
		ledgerRepo:  ledgerRepo,
	}
}

// Item combina un registro vigente con la información de catálogo del producto.
type Item struct {
	Record  *entity.InventoryRecord    `json:"record"`
	Product *entity.ProductInformation `json:"product"`
}

// Append agrega un registro con cantidad absoluta. Valida cantidad y la
// existencia de sitio y producto dentro de la misma transacción del insert.
func (uc *UseCase) Append(ctx context.Context, siteNumber int, in dto.AppendRequest, modifier string) (*entity.InventoryRecord, error) {
	if in.Quantity < 0 {
		return nil, domain.ErrInvalidQuantity
	}
	record := &entity.InventoryRecord{
		SiteNumber:  siteNumber,
		ProductCode: in.ProductCode,
		Quantity:    in.Quantity,
		Deleted:     in.Deleted,
		Modifier:    modifier,
		Modified:    time.Now().UTC(),
	}
	err := uc.txRunner.Run(ctx, func(
		sites repository.SiteRepository,
		_ repository.CategoryRepository,
		products repository.ProductRepository,
		records repository.LedgerRepository,
	) error {
		if err := checkReferences(sites, products, siteNumber, in.ProductCode); err != nil {
			return err
		}
		return records.Append(record)
	})
	if err != nil {
		return nil, err
	}
	return record, nil
}

// Adjust aplica un delta sobre la cantidad vigente y agrega el resultado como
// registro nuevo. Un resultado negativo rechaza la operación. La lectura y el
// insert comparten transacción; dos ajustes simultáneos sobre el mismo par
// pueden perder una actualización, igual que dos ediciones absolutas.
func (uc *UseCase) Adjust(ctx context.Context, siteNumber int, in dto.AdjustRequest, modifier string) (*entity.InventoryRecord, error) {
	var record *entity.InventoryRecord
	err := uc.txRunner.Run(ctx, func(
		sites repository.SiteRepository,
		_ repository.CategoryRepository,
		products repository.ProductRepository,
		records repository.LedgerRepository,
	) error {
		if err := checkReferences(sites, products, siteNumber, in.ProductCode); err != nil {
			return err
		}
		history, err := records.ListByPair(siteNumber, in.ProductCode, nil)
		if err != nil {
			return err
		}
		current := 0
		if latest := ledger.LatestForPair(history, siteNumber, in.ProductCode, nil); latest != nil {
			current = latest.Quantity
		}
		quantity := current + in.Delta
		if quantity < 0 {
			return domain.ErrInvalidQuantity
		}
		record = &entity.InventoryRecord{
			SiteNumber:  siteNumber,
			ProductCode: in.ProductCode,
			Quantity:    quantity,
			Modifier:    modifier,
			Modified:    time.Now().UTC(),
		}
		return records.Append(record)
	})
	if err != nil {
		return nil, err
	}
	return record, nil
}

func checkReferences(
	sites repository.SiteRepository,
	products repository.ProductRepository,
	siteNumber int,
	productCode string,
) error {
	site, err := sites.GetByNumber(siteNumber)
	if err != nil {
		return err
	}
	if site == nil {
		return domain.ErrMissingReference
	}
	product, err := products.GetByCode(productCode)
	if err != nil {
		return err
	}
	if product == nil {
		return domain.ErrMissingReference
	}
	return nil
}

// Filter restringe el estado vigente por un campo del producto. Vacío no
// filtra. code y category comparan por igualdad; name por contención sin
// distinguir mayúsculas.
type Filter struct {
	Field string // code, name o category
	Value string
}

func (f Filter) matches(p *entity.ProductInformation) (bool, error) {
	if f.Field == "" || f.Value == "" {
		return true, nil
	}
	if p == nil {
		return false, nil
	}
	switch f.Field {
	case "code":
		return p.Code == f.Value, nil
	case "name":
		return strings.Contains(strings.ToLower(p.Name), strings.ToLower(f.Value)), nil
	case "category":
		return p.Category == f.Value, nil
	}
	return false, fmt.Errorf("%w: campo de filtro desconocido %q", domain.ErrInvalidInput, f.Field)
}

// SiteState reconstruye el inventario vigente de un sitio, opcionalmente a una
// fecha de corte y filtrado por un campo del producto.
func (uc *UseCase) SiteState(siteNumber int, asOf *time.Time, filter Filter) ([]*Item, error) {
	site, err := uc.siteRepo.GetByNumber(siteNumber)
	if err != nil {
		return nil, err
	}
	if site == nil {
		return nil, domain.ErrNotFound
	}
	records, err := uc.ledgerRepo.ListBySite(siteNumber, asOf)
	if err != nil {
		return nil, err
	}
	state := ledger.LatestForSite(records, siteNumber, asOf)
	items := make([]*Item, 0, len(state))
	for _, rec := range state {
		product, err := uc.productRepo.GetByCode(rec.ProductCode)
		if err != nil {
			return nil, err
		}
		ok, err := filter.matches(product)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		items = append(items, &Item{Record: rec, Product: product})
	}
	return items, nil
}

// Status arma el consolidado de todos los productos a través de los sitios.
func (uc *UseCase) Status(asOf *time.Time) ([]*ledger.ProductStatus, error) {
	records, err := uc.ledgerRepo.ListAll(asOf)
	if err != nil {
		return nil, err
	}
	products, err := uc.productRepo.List()
	if err != nil {
		return nil, err
	}
	byCode := make(map[string]*entity.ProductInformation, len(products))
	for _, p := range products {
		byCode[p.Code] = p
	}
	sites, err := uc.siteRepo.List()
	if err != nil {
		return nil, err
	}
	siteNames := make(map[int]string, len(sites))
	for _, s := range sites {
		siteNames[s.Number] = s.Name
	}
	return ledger.Status(records, byCode, siteNames, asOf), nil
}

// History devuelve el historial completo de un par (sitio, producto).
func (uc *UseCase) History(siteNumber int, productCode string, asOf *time.Time) ([]*entity.InventoryRecord, error) {
	records, err := uc.ledgerRepo.ListByPair(siteNumber, productCode, asOf)
	if err != nil {
		return nil, err
	}
	return ledger.History(records, siteNumber, productCode, asOf), nil
}

// RecentActivity devuelve los últimos cambios por producto para la pantalla
// principal.
func (uc *UseCase) RecentActivity(limit int) ([]*Item, error) {
	records, err := uc.ledgerRepo.ListAll(nil)
	if err != nil {
		return nil, err
	}
	feed := ledger.RecentActivity(records, limit)
	items := make([]*Item, 0, len(feed))
	for _, rec := range feed {
		product, err := uc.productRepo.GetByCode(rec.ProductCode)
		if err != nil {
			return nil, err
		}
		items = append(items, &Item{Record: rec, Product: product})
	}
	return items, nil
}

// CountSitesContaining cuenta los sitios cuyo estado vigente incluye el
// producto (una cantidad cero cuenta; el borrado no).
func (uc *UseCase) CountSitesContaining(productCode string) (int, error) {
	records, err := uc.ledgerRepo.ListAll(nil)
	if err != nil {
		return 0, err
	}
	return ledger.CountSitesContaining(records, productCode, nil), nil
}
