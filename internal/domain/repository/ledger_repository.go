package repository

import (
	"time"

	"github.com/jhoicas/Suministros-api/internal/domain/entity"
)

// LedgerRepository define el puerto de persistencia del ledger de inventario.
// Append es la única escritura por registro: no existe Update. Los borrados
// masivos existen solo para las cascadas de catálogo y la restauración total.
// Un asOf nil significa "sin corte temporal" (todos los registros).
type LedgerRepository interface {
	Append(record *entity.InventoryRecord) error
	ListBySite(siteNumber int, asOf *time.Time) ([]*entity.InventoryRecord, error)
	ListByPair(siteNumber int, productCode string, asOf *time.Time) ([]*entity.InventoryRecord, error)
	ListAll(asOf *time.Time) ([]*entity.InventoryRecord, error)
	ReassignProduct(oldCode, newCode string) error
	DeleteBySite(siteNumber int) error
	DeleteByProduct(productCode string) error
	DeleteAll() error
}
