package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Suministros-api/internal/domain"
	"github.com/jhoicas/Suministros-api/internal/domain/entity"
	"github.com/jhoicas/Suministros-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo implementación de ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

const productColumns = `code, name, category, unit_of_measure, quantity_of_measure, expendable,
		cartons_per_pallet, double_stack_pallets, warehouse_location, can_expire, expiration_date,
		expiration_notes, cost_per_item, picture, original_picture_name, modifier, modified`

// Create inserta un producto nuevo; falla con ErrDuplicateKeyOnRekey si el
// código ya existe (el único insert estricto es el paso inicial del recodificado).
func (r *ProductRepo) Create(product *entity.ProductInformation) error {
	query := `
		INSERT INTO products (` + productColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`
	_, err := r.q.Exec(context.Background(), query, productArgs(product)...)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateKeyOnRekey
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// Upsert inserta o sobrescribe un producto por su código (clave de negocio).
func (r *ProductRepo) Upsert(product *entity.ProductInformation) error {
	query := `
		INSERT INTO products (` + productColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		ON CONFLICT (code) DO UPDATE SET
			name = EXCLUDED.name, category = EXCLUDED.category,
			unit_of_measure = EXCLUDED.unit_of_measure, quantity_of_measure = EXCLUDED.quantity_of_measure,
			expendable = EXCLUDED.expendable, cartons_per_pallet = EXCLUDED.cartons_per_pallet,
			double_stack_pallets = EXCLUDED.double_stack_pallets, warehouse_location = EXCLUDED.warehouse_location,
			can_expire = EXCLUDED.can_expire, expiration_date = EXCLUDED.expiration_date,
			expiration_notes = EXCLUDED.expiration_notes, cost_per_item = EXCLUDED.cost_per_item,
			picture = EXCLUDED.picture, original_picture_name = EXCLUDED.original_picture_name,
			modifier = EXCLUDED.modifier, modified = EXCLUDED.modified`
	_, err := r.q.Exec(context.Background(), query, productArgs(product)...)
	if err != nil {
		return fmt.Errorf("upsert product: %w", err)
	}
	return nil
}

func productArgs(p *entity.ProductInformation) []any {
	return []any{
		p.Code, p.Name, p.Category, p.UnitOfMeasure, p.QuantityOfMeasure, p.Expendable,
		p.CartonsPerPallet, p.DoubleStackPallets, p.WarehouseLocation, p.CanExpire, p.ExpirationDate,
		p.ExpirationNotes, p.CostPerItem, p.Picture, p.OriginalPictureName, p.Modifier, p.Modified,
	}
}

func scanProduct(row pgx.Row) (*entity.ProductInformation, error) {
	var p entity.ProductInformation
	err := row.Scan(
		&p.Code, &p.Name, &p.Category, &p.UnitOfMeasure, &p.QuantityOfMeasure, &p.Expendable,
		&p.CartonsPerPallet, &p.DoubleStackPallets, &p.WarehouseLocation, &p.CanExpire, &p.ExpirationDate,
		&p.ExpirationNotes, &p.CostPerItem, &p.Picture, &p.OriginalPictureName, &p.Modifier, &p.Modified,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// GetByCode obtiene un producto por código. Devuelve (nil, nil) si no existe.
func (r *ProductRepo) GetByCode(code string) (*entity.ProductInformation, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE code = $1`
	p, err := scanProduct(r.q.QueryRow(context.Background(), query, code))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

// List devuelve todos los productos ordenados por nombre.
func (r *ProductRepo) List() ([]*entity.ProductInformation, error) {
	query := `SELECT ` + productColumns + ` FROM products ORDER BY name, code`
	rows, err := r.q.Query(context.Background(), query)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()
	var list []*entity.ProductInformation
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

// Count devuelve el total de productos.
func (r *ProductRepo) Count() (int, error) {
	var n int
	if err := r.q.QueryRow(context.Background(), `SELECT count(*) FROM products`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count products: %w", err)
	}
	return n, nil
}

// Delete elimina un producto por código. El borrado en cascada del ledger lo
// coordina el caso de uso dentro de la misma transacción.
func (r *ProductRepo) Delete(code string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM products WHERE code = $1`, code)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	return nil
}

// DeleteAll vacía la tabla de productos (solo restauración total).
func (r *ProductRepo) DeleteAll() error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM products`)
	if err != nil {
		return fmt.Errorf("delete all products: %w", err)
	}
	return nil
}
