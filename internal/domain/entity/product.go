package entity

import (
	"regexp"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Unidades de medida soportadas para un producto.
const (
	UnitBag     = "BAG"
	UnitBale    = "BALE"
	UnitBottle  = "BOTTLE"
	UnitBox     = "BOX"
	UnitCarton  = "CARTON"
	UnitCase    = "CASE"
	UnitEach    = "EACH"
	UnitGallons = "GALLONS"
	UnitLiters  = "LITERS"
	UnitOunces  = "OUNCES"
	UnitPackage = "PACKAGE"
	UnitPairs   = "PAIRS"
	UnitPounds  = "POUNDS"
	UnitQuarts  = "QUARTS"
	UnitRolls   = "ROLLS"
)

// UnitsOfMeasure lista las unidades válidas en orden de presentación.
var UnitsOfMeasure = []string{
	UnitBag, UnitBale, UnitBottle, UnitBox, UnitCarton, UnitCase, UnitEach,
	UnitGallons, UnitLiters, UnitOunces, UnitPackage, UnitPairs, UnitPounds,
	UnitQuarts, UnitRolls,
}

// ValidUnitOfMeasure informa si unit pertenece al catálogo de unidades.
func ValidUnitOfMeasure(unit string) bool {
	for _, u := range UnitsOfMeasure {
		if u == unit {
			return true
		}
	}
	return false
}

var codePattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,36}$`)

// ValidProductCode informa si code cumple el formato de clave de negocio:
// 1 a 36 caracteres, letras, dígitos, guion o guion bajo.
func ValidProductCode(code string) bool {
	return codePattern.MatchString(code)
}

// NewProductCode genera un código de producto cuando el operador no asigna uno.
func NewProductCode() string {
	return uuid.New().String()
}

// ProductInformation describe un producto del catálogo. La clave de negocio es
// Code y puede editarse después de creada (rekey); en ese caso todos los
// registros del ledger que referencian el código anterior se re-apuntan al
// nuevo en el mismo paso atómico.
type ProductInformation struct {
	Code                string
	Name                string
	Category            string // vacío = sin categoría
	UnitOfMeasure       string
	QuantityOfMeasure   decimal.Decimal // multiplicador por unidad (ej. botellas por caja)
	Expendable          bool
	CartonsPerPallet    int
	DoubleStackPallets  bool
	WarehouseLocation   string
	CanExpire           bool
	ExpirationDate      *time.Time
	ExpirationNotes     string
	CostPerItem         decimal.Decimal
	Picture             string // ruta relativa bajo el media root
	OriginalPictureName string
	Modifier            string
	Modified            time.Time
}

// CodeIsGenerated informa si el código fue autogenerado (UUID) y por tanto
// no es significativo para reportes.
func (p *ProductInformation) CodeIsGenerated() bool {
	_, err := uuid.Parse(p.Code)
	return err == nil && len(p.Code) == 36
}
