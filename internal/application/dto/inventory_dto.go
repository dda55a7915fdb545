package dto

import "time"

// AppendRequest fija la cantidad absoluta de un producto en un sitio
// (agrega un registro nuevo al ledger, nunca edita los anteriores).
type AppendRequest struct {
	ProductCode string `json:"productCode" validate:"required,max=36"`
	Quantity    int    `json:"quantity" validate:"gte=0"`
	Deleted     bool   `json:"deleted"`
}

// AdjustRequest aplica un delta sobre la cantidad vigente. Delta cero es
// válido (reafirma la cantidad actual con un registro nuevo).
type AdjustRequest struct {
	ProductCode string `json:"productCode" validate:"required,max=36"`
	Delta       int    `json:"delta"`
}

// InventoryRecordResponse un registro del ledger.
type InventoryRecordResponse struct {
	ID          int64     `json:"id"`
	SiteNumber  int       `json:"siteNumber"`
	ProductCode string    `json:"productCode"`
	Quantity    int       `json:"quantity"`
	Deleted     bool      `json:"deleted"`
	Modifier    string    `json:"modifier"`
	Modified    time.Time `json:"modified"`
}

// InventoryItemResponse registro vigente más los datos de catálogo del
// producto que lo acompañan en las vistas.
type InventoryItemResponse struct {
	Record            InventoryRecordResponse `json:"record"`
	ProductName       string                  `json:"productName"`
	Category          string                  `json:"category"`
	UnitOfMeasure     string                  `json:"unitOfMeasure"`
	QuantityOfMeasure string                  `json:"quantityOfMeasure"`
}

// SiteQuantityResponse cantidad vigente de un producto en un sitio.
type SiteQuantityResponse struct {
	SiteNumber       int    `json:"siteNumber"`
	SiteName         string `json:"siteName"`
	Quantity         int    `json:"quantity"`
	ExtendedQuantity string `json:"extendedQuantity"`
}

// ProductStatusResponse consolidado de un producto en todos los sitios.
type ProductStatusResponse struct {
	Code             string                 `json:"code"`
	CodeIsGenerated  bool                   `json:"codeIsGenerated"`
	Name             string                 `json:"name"`
	Category         string                 `json:"category"`
	Sites            []SiteQuantityResponse `json:"sites"`
	TotalQuantity    int                    `json:"totalQuantity"`
	ExtendedQuantity string                 `json:"extendedQuantity"`
}

// SiteCountResponse en cuántos sitios hay existencias de un producto.
type SiteCountResponse struct {
	ProductCode string `json:"productCode"`
	Sites       int    `json:"sites"`
}
