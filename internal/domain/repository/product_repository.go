package repository

import "github.com/jhoicas/Suministros-api/internal/domain/entity"

// ProductRepository define el puerto de persistencia para ProductInformation.
// La clave de negocio es el código de producto; Create falla si ya existe,
// Upsert inserta o sobrescribe.
type ProductRepository interface {
	Create(product *entity.ProductInformation) error
	Upsert(product *entity.ProductInformation) error
	GetByCode(code string) (*entity.ProductInformation, error)
	List() ([]*entity.ProductInformation, error)
	Count() (int, error)
	Delete(code string) error
	DeleteAll() error
}
