package repository

import "github.com/jhoicas/Suministros-api/internal/domain/entity"

// SiteRepository define el puerto de persistencia para Site (DIP).
// La clave de negocio es el número de sitio.
type SiteRepository interface {
	Upsert(site *entity.Site) error
	GetByNumber(number int) (*entity.Site, error)
	List() ([]*entity.Site, error)
	Count() (int, error)
	Delete(number int) error
	DeleteAll() error
}
