package dto

import "time"

// SiteRequest alta o edición de un sitio. El número es la clave de negocio.
type SiteRequest struct {
	Number       int    `json:"number" validate:"required,gt=0"`
	Name         string `json:"name" validate:"required"`
	County       string `json:"county"`
	Address1     string `json:"address1"`
	Address2     string `json:"address2"`
	Address3     string `json:"address3"`
	ContactName  string `json:"contactName"`
	ContactPhone string `json:"contactPhone"`
	Notes        string `json:"notes"`
}

// SiteResponse representación de un sitio.
type SiteResponse struct {
	Number       int       `json:"number"`
	Name         string    `json:"name"`
	County       string    `json:"county"`
	Address1     string    `json:"address1"`
	Address2     string    `json:"address2"`
	Address3     string    `json:"address3"`
	ContactName  string    `json:"contactName"`
	ContactPhone string    `json:"contactPhone"`
	Notes        string    `json:"notes"`
	Modifier     string    `json:"modifier"`
	Modified     time.Time `json:"modified"`
}

// CategoryRequest alta o edición de una categoría de producto.
type CategoryRequest struct {
	Category string `json:"category" validate:"required"`
}

// CategoryResponse representación de una categoría.
type CategoryResponse struct {
	Category string    `json:"category"`
	Modifier string    `json:"modifier"`
	Modified time.Time `json:"modified"`
}

// ProductRequest alta o edición de un producto. Code vacío genera un código
// automático; NewCode distinto de vacío en una edición dispara el recodificado.
type ProductRequest struct {
	Code               string  `json:"code" validate:"omitempty,max=36"`
	NewCode            string  `json:"newCode" validate:"omitempty,max=36"`
	Name               string  `json:"name" validate:"required"`
	Category           string  `json:"category"`
	UnitOfMeasure      string  `json:"unitOfMeasure"`
	QuantityOfMeasure  string  `json:"quantityOfMeasure"`
	Expendable         bool    `json:"expendable"`
	CartonsPerPallet   int     `json:"cartonsPerPallet" validate:"gte=0"`
	DoubleStackPallets bool    `json:"doubleStackPallets"`
	WarehouseLocation  string  `json:"warehouseLocation"`
	ExpirationDate     *string `json:"expirationDate"` // YYYY-MM-DD
	ExpirationNotes    string  `json:"expirationNotes"`
	CostPerItem        string  `json:"costPerItem"`
}

// ProductResponse representación de un producto. Los decimales viajan como
// string para no perder precisión en JSON.
type ProductResponse struct {
	Code                string    `json:"code"`
	CodeIsGenerated     bool      `json:"codeIsGenerated"`
	Name                string    `json:"name"`
	Category            string    `json:"category"`
	UnitOfMeasure       string    `json:"unitOfMeasure"`
	QuantityOfMeasure   string    `json:"quantityOfMeasure"`
	Expendable          bool      `json:"expendable"`
	CartonsPerPallet    int       `json:"cartonsPerPallet"`
	DoubleStackPallets  bool      `json:"doubleStackPallets"`
	WarehouseLocation   string    `json:"warehouseLocation"`
	CanExpire           bool      `json:"canExpire"`
	ExpirationDate      *string   `json:"expirationDate"`
	ExpirationNotes     string    `json:"expirationNotes"`
	CostPerItem         string    `json:"costPerItem"`
	Picture             string    `json:"picture"`
	OriginalPictureName string    `json:"originalPictureName"`
	Modifier            string    `json:"modifier"`
	Modified            time.Time `json:"modified"`
}

// CountersResponse totales para la pantalla de inicio.
type CountersResponse struct {
	Sites    int `json:"sites"`
	Products int `json:"products"`
}
