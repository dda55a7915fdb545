package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Suministros-api/internal/domain/entity"
	"github.com/jhoicas/Suministros-api/internal/domain/repository"
)

var _ repository.CategoryRepository = (*CategoryRepo)(nil)

// CategoryRepo implementación de CategoryRepository sobre PostgreSQL (usable con pool o tx).
type CategoryRepo struct {
	q Querier
}

// NewCategoryRepository construye el adaptador de categorías. Pasar pool o tx (Querier).
func NewCategoryRepository(q Querier) *CategoryRepo {
	return &CategoryRepo{q: q}
}

// Upsert inserta o sobrescribe una categoría por su etiqueta (clave de negocio).
func (r *CategoryRepo) Upsert(category *entity.ProductCategory) error {
	query := `
		INSERT INTO product_categories (category, modifier, modified)
		VALUES ($1, $2, $3)
		ON CONFLICT (category) DO UPDATE SET
			modifier = EXCLUDED.modifier, modified = EXCLUDED.modified`
	_, err := r.q.Exec(context.Background(), query, category.Category, category.Modifier, category.Modified)
	if err != nil {
		return fmt.Errorf("upsert category: %w", err)
	}
	return nil
}

// GetByName obtiene una categoría por etiqueta. Devuelve (nil, nil) si no existe.
func (r *CategoryRepo) GetByName(category string) (*entity.ProductCategory, error) {
	query := `SELECT id, category, modifier, modified FROM product_categories WHERE category = $1`
	var c entity.ProductCategory
	err := r.q.QueryRow(context.Background(), query, category).Scan(&c.ID, &c.Category, &c.Modifier, &c.Modified)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get category: %w", err)
	}
	return &c, nil
}

// List devuelve todas las categorías en orden alfabético.
func (r *CategoryRepo) List() ([]*entity.ProductCategory, error) {
	query := `SELECT id, category, modifier, modified FROM product_categories ORDER BY category`
	rows, err := r.q.Query(context.Background(), query)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()
	var list []*entity.ProductCategory
	for rows.Next() {
		var c entity.ProductCategory
		if err := rows.Scan(&c.ID, &c.Category, &c.Modifier, &c.Modified); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		list = append(list, &c)
	}
	return list, rows.Err()
}

// Delete elimina una categoría. Los productos que la referencian quedan con
// la etiqueta suelta (la relación es informativa, no FK dura).
func (r *CategoryRepo) Delete(category string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM product_categories WHERE category = $1`, category)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	return nil
}

// DeleteAll vacía la tabla de categorías (solo restauración total).
func (r *CategoryRepo) DeleteAll() error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM product_categories`)
	if err != nil {
		return fmt.Errorf("delete all categories: %w", err)
	}
	return nil
}
