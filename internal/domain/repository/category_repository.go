package repository

import "github.com/jhoicas/Suministros-api/internal/domain/entity"

// CategoryRepository define el puerto de persistencia para ProductCategory.
// La clave de negocio es la etiqueta de la categoría.
type CategoryRepository interface {
	Upsert(category *entity.ProductCategory) error
	GetByName(category string) (*entity.ProductCategory, error)
	List() ([]*entity.ProductCategory, error)
	Delete(category string) error
	DeleteAll() error
}
