package ledger

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Suministros-api/internal/domain/entity"
)

// pairKey identifica la combinación sitio/producto dentro del ledger.
type pairKey struct {
	siteNumber  int
	productCode string
}

// SiteQuantity es la cantidad vigente de un producto en un sitio.
// ExtendedQuantity = Quantity * QuantityOfMeasure del producto.
type SiteQuantity struct {
	SiteNumber       int             `json:"siteNumber"`
	SiteName         string          `json:"siteName"`
	Quantity         int             `json:"quantity"`
	ExtendedQuantity decimal.Decimal `json:"extendedQuantity"`
}

// ProductStatus agrega las cantidades vigentes de un producto en todos los
// sitios. ExtendedQuantity = TotalQuantity * QuantityOfMeasure del producto.
type ProductStatus struct {
	Code             string                     `json:"code"`
	Product          *entity.ProductInformation `json:"product"`
	Sites            []SiteQuantity             `json:"sites"`
	TotalQuantity    int                        `json:"totalQuantity"`
	ExtendedQuantity decimal.Decimal            `json:"extendedQuantity"`
}

// inWindow indica si el registro entra en el corte temporal. asOf nil = sin corte.
func inWindow(r *entity.InventoryRecord, asOf *time.Time) bool {
	return asOf == nil || !r.Modified.After(*asOf)
}

// latestByPair reduce el ledger al registro más reciente por (sitio, producto),
// incluyendo los marcados como borrados. El desempate es (modified, id).
func latestByPair(records []*entity.InventoryRecord, asOf *time.Time) map[pairKey]*entity.InventoryRecord {
	latest := make(map[pairKey]*entity.InventoryRecord)
	for _, r := range records {
		if !inWindow(r, asOf) {
			continue
		}
		key := pairKey{siteNumber: r.SiteNumber, productCode: r.ProductCode}
		if cur, ok := latest[key]; !ok || cur.Before(r) {
			latest[key] = r
		}
	}
	return latest
}

// LatestState reconstruye el estado vigente del inventario: el registro más
// reciente por (sitio, producto), descartando los pares cuya última versión
// está marcada como borrada. Es el único lugar donde se calcula la cantidad
// actual; el ledger nunca se colapsa al escribir.
func LatestState(records []*entity.InventoryRecord, asOf *time.Time) []*entity.InventoryRecord {
	latest := latestByPair(records, asOf)
	out := make([]*entity.InventoryRecord, 0, len(latest))
	for _, r := range latest {
		if r.Deleted {
			continue
		}
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].SiteNumber != out[j].SiteNumber {
			return out[i].SiteNumber < out[j].SiteNumber
		}
		return out[i].ProductCode < out[j].ProductCode
	})
	return out
}

// LatestForSite filtra LatestState a un solo sitio.
func LatestForSite(records []*entity.InventoryRecord, siteNumber int, asOf *time.Time) []*entity.InventoryRecord {
	out := make([]*entity.InventoryRecord, 0)
	for _, r := range LatestState(records, asOf) {
		if r.SiteNumber == siteNumber {
			out = append(out, r)
		}
	}
	return out
}

// LatestForPair devuelve el registro vigente de un par (sitio, producto),
// o nil si no existe o su última versión está borrada.
func LatestForPair(records []*entity.InventoryRecord, siteNumber int, productCode string, asOf *time.Time) *entity.InventoryRecord {
	latest := latestByPair(records, asOf)
	r, ok := latest[pairKey{siteNumber: siteNumber, productCode: productCode}]
	if !ok || r.Deleted {
		return nil
	}
	return r
}

// History devuelve todos los registros de un par (sitio, producto) del más
// reciente al más antiguo, incluidos los borrados. Es la vista de auditoría.
func History(records []*entity.InventoryRecord, siteNumber int, productCode string, asOf *time.Time) []*entity.InventoryRecord {
	out := make([]*entity.InventoryRecord, 0)
	for _, r := range records {
		if r.SiteNumber != siteNumber || r.ProductCode != productCode {
			continue
		}
		if !inWindow(r, asOf) {
			continue
		}
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[j].Before(out[i]) })
	return out
}

// RecentActivity devuelve el último registro de cada producto (en cualquier
// sitio), del más reciente al más antiguo, limitado a limit entradas.
// Alimenta el feed de actividad de la pantalla principal.
func RecentActivity(records []*entity.InventoryRecord, limit int) []*entity.InventoryRecord {
	latest := make(map[string]*entity.InventoryRecord)
	for _, r := range records {
		if cur, ok := latest[r.ProductCode]; !ok || cur.Before(r) {
			latest[r.ProductCode] = r
		}
	}
	out := make([]*entity.InventoryRecord, 0, len(latest))
	for _, r := range latest {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[j].Before(out[i]) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// CountSitesContaining cuenta en cuántos sitios el estado vigente incluye el
// producto. Un par con cantidad cero sigue contando; solo el borrado lo saca
// del estado vigente.
func CountSitesContaining(records []*entity.InventoryRecord, productCode string, asOf *time.Time) int {
	count := 0
	for _, r := range LatestState(records, asOf) {
		if r.ProductCode == productCode {
			count++
		}
	}
	return count
}

// Status arma el consolidado por producto a través de todos los sitios.
// products indexa la información de catálogo por código; siteNames el nombre
// por número de sitio (puede faltar). Los productos sin existencias vigentes
// no aparecen.
func Status(records []*entity.InventoryRecord, products map[string]*entity.ProductInformation, siteNames map[int]string, asOf *time.Time) []*ProductStatus {
	byCode := make(map[string]*ProductStatus)
	for _, r := range LatestState(records, asOf) {
		st, ok := byCode[r.ProductCode]
		if !ok {
			st = &ProductStatus{
				Code:    r.ProductCode,
				Product: products[r.ProductCode],
				Sites:   make([]SiteQuantity, 0, 1),
			}
			byCode[r.ProductCode] = st
		}
		sq := SiteQuantity{
			SiteNumber: r.SiteNumber,
			SiteName:   siteNames[r.SiteNumber],
			Quantity:   r.Quantity,
		}
		if p := products[r.ProductCode]; p != nil {
			sq.ExtendedQuantity = decimal.NewFromInt(int64(r.Quantity)).Mul(p.QuantityOfMeasure)
		}
		st.Sites = append(st.Sites, sq)
		st.TotalQuantity += r.Quantity
	}
	out := make([]*ProductStatus, 0, len(byCode))
	for code, st := range byCode {
		if p, ok := products[code]; ok {
			st.ExtendedQuantity = decimal.NewFromInt(int64(st.TotalQuantity)).Mul(p.QuantityOfMeasure)
		}
		out = append(out, st)
	}
	sort.Slice(out, func(i, j int) bool {
		ni, nj := "", ""
		if out[i].Product != nil {
			ni = out[i].Product.Name
		}
		if out[j].Product != nil {
			nj = out[j].Product.Name
		}
		if ni != nj {
			return ni < nj
		}
		return out[i].Code < out[j].Code
	})
	return out
}
