package entity

import "time"

// InventoryRecord es un evento de conteo de inventario en el ledger.
// El ledger es append-only: un registro nunca se actualiza ni se borra
// individualmente; cualquier cambio lógico (ajuste de cantidad, "borrar del
// inventario") se materializa insertando un registro nuevo para el mismo par
// (sitio, producto). La cantidad vigente siempre se deriva en lectura.
type InventoryRecord struct {
	ID          int64 // secuencia monótona; desempata registros con igual Modified
	SiteNumber  int
	ProductCode string
	Quantity    int
	Deleted     bool
	Modifier    string
	Modified    time.Time
}

// Before informa si r es anterior a other según el par (Modified, ID).
// Define el orden total del ledger.
func (r *InventoryRecord) Before(other *InventoryRecord) bool {
	if r.Modified.Equal(other.Modified) {
		return r.ID < other.ID
	}
	return r.Modified.Before(other.Modified)
}
