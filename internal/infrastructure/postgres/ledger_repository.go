package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/Suministros-api/internal/domain/entity"
	"github.com/jhoicas/Suministros-api/internal/domain/repository"
)

var _ repository.LedgerRepository = (*LedgerRepo)(nil)

// LedgerRepo implementación de LedgerRepository sobre PostgreSQL (usable con pool o tx).
// La tabla inventory_records solo recibe INSERT; no existe UPDATE de filas.
type LedgerRepo struct {
	q Querier
}

// NewLedgerRepository construye el adaptador del ledger. Pasar pool o tx (Querier).
func NewLedgerRepository(q Querier) *LedgerRepo {
	return &LedgerRepo{q: q}
}

const ledgerColumns = `id, site_number, product_code, quantity, deleted, modifier, modified`

// Append inserta un registro nuevo y asigna su id (bigserial, desempate de orden).
func (r *LedgerRepo) Append(record *entity.InventoryRecord) error {
	query := `
		INSERT INTO inventory_records (site_number, product_code, quantity, deleted, modifier, modified)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`
	err := r.q.QueryRow(context.Background(), query,
		record.SiteNumber, record.ProductCode, record.Quantity,
		record.Deleted, record.Modifier, record.Modified,
	).Scan(&record.ID)
	if err != nil {
		return fmt.Errorf("append inventory record: %w", err)
	}
	return nil
}

func (r *LedgerRepo) list(query string, args ...any) ([]*entity.InventoryRecord, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list inventory records: %w", err)
	}
	defer rows.Close()
	var list []*entity.InventoryRecord
	for rows.Next() {
		var rec entity.InventoryRecord
		if err := rows.Scan(&rec.ID, &rec.SiteNumber, &rec.ProductCode, &rec.Quantity,
			&rec.Deleted, &rec.Modifier, &rec.Modified); err != nil {
			return nil, fmt.Errorf("scan inventory record: %w", err)
		}
		list = append(list, &rec)
	}
	return list, rows.Err()
}

// ListBySite devuelve todos los registros de un sitio hasta asOf (nil = todos).
func (r *LedgerRepo) ListBySite(siteNumber int, asOf *time.Time) ([]*entity.InventoryRecord, error) {
	query := `SELECT ` + ledgerColumns + ` FROM inventory_records WHERE site_number = $1`
	args := []any{siteNumber}
	if asOf != nil {
		query += ` AND modified <= $2`
		args = append(args, *asOf)
	}
	return r.list(query+` ORDER BY modified, id`, args...)
}

// ListByPair devuelve el historial de un par (sitio, producto) hasta asOf.
func (r *LedgerRepo) ListByPair(siteNumber int, productCode string, asOf *time.Time) ([]*entity.InventoryRecord, error) {
	query := `SELECT ` + ledgerColumns + ` FROM inventory_records WHERE site_number = $1 AND product_code = $2`
	args := []any{siteNumber, productCode}
	if asOf != nil {
		query += ` AND modified <= $3`
		args = append(args, *asOf)
	}
	return r.list(query+` ORDER BY modified, id`, args...)
}

// ListAll devuelve el ledger completo hasta asOf (nil = todo).
func (r *LedgerRepo) ListAll(asOf *time.Time) ([]*entity.InventoryRecord, error) {
	query := `SELECT ` + ledgerColumns + ` FROM inventory_records`
	args := []any{}
	if asOf != nil {
		query += ` WHERE modified <= $1`
		args = append(args, *asOf)
	}
	return r.list(query+` ORDER BY modified, id`, args...)
}

// ReassignProduct re-apunta los registros de un código a otro (recodificado).
// No es una edición de inventario: el historial conserva cantidad y fechas.
func (r *LedgerRepo) ReassignProduct(oldCode, newCode string) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE inventory_records SET product_code = $2 WHERE product_code = $1`, oldCode, newCode)
	if err != nil {
		return fmt.Errorf("reassign inventory records: %w", err)
	}
	return nil
}

// DeleteBySite elimina los registros de un sitio (cascada del borrado de sitio).
func (r *LedgerRepo) DeleteBySite(siteNumber int) error {
	_, err := r.q.Exec(context.Background(),
		`DELETE FROM inventory_records WHERE site_number = $1`, siteNumber)
	if err != nil {
		return fmt.Errorf("delete inventory records by site: %w", err)
	}
	return nil
}

// DeleteByProduct elimina los registros de un producto (cascada del borrado de producto).
func (r *LedgerRepo) DeleteByProduct(productCode string) error {
	_, err := r.q.Exec(context.Background(),
		`DELETE FROM inventory_records WHERE product_code = $1`, productCode)
	if err != nil {
		return fmt.Errorf("delete inventory records by product: %w", err)
	}
	return nil
}

// DeleteAll vacía el ledger (solo restauración total).
func (r *LedgerRepo) DeleteAll() error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM inventory_records`)
	if err != nil {
		return fmt.Errorf("delete all inventory records: %w", err)
	}
	return nil
}
