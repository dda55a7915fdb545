package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Suministros-api/internal/domain/entity"
	"github.com/jhoicas/Suministros-api/internal/domain/repository"
)

var _ repository.SiteRepository = (*SiteRepo)(nil)

// SiteRepo implementación de SiteRepository sobre PostgreSQL (usable con pool o tx).
type SiteRepo struct {
	q Querier
}

// NewSiteRepository construye el adaptador de sitios. Pasar pool o tx (Querier).
func NewSiteRepository(q Querier) *SiteRepo {
	return &SiteRepo{q: q}
}

const siteColumns = `number, name, county, address1, address2, address3, contact_name, contact_phone, notes, modifier, modified`

// Upsert inserta o sobrescribe un sitio por su número (clave de negocio).
func (r *SiteRepo) Upsert(site *entity.Site) error {
	query := `
		INSERT INTO sites (` + siteColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (number) DO UPDATE SET
			name = EXCLUDED.name, county = EXCLUDED.county,
			address1 = EXCLUDED.address1, address2 = EXCLUDED.address2, address3 = EXCLUDED.address3,
			contact_name = EXCLUDED.contact_name, contact_phone = EXCLUDED.contact_phone,
			notes = EXCLUDED.notes, modifier = EXCLUDED.modifier, modified = EXCLUDED.modified`
	_, err := r.q.Exec(context.Background(), query,
		site.Number, site.Name, site.County,
		site.Address1, site.Address2, site.Address3,
		site.ContactName, site.ContactPhone, site.Notes,
		site.Modifier, site.Modified,
	)
	if err != nil {
		return fmt.Errorf("upsert site: %w", err)
	}
	return nil
}

// GetByNumber obtiene un sitio por número. Devuelve (nil, nil) si no existe.
func (r *SiteRepo) GetByNumber(number int) (*entity.Site, error) {
	query := `SELECT ` + siteColumns + ` FROM sites WHERE number = $1`
	var s entity.Site
	err := r.q.QueryRow(context.Background(), query, number).Scan(
		&s.Number, &s.Name, &s.County, &s.Address1, &s.Address2, &s.Address3,
		&s.ContactName, &s.ContactPhone, &s.Notes, &s.Modifier, &s.Modified,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get site: %w", err)
	}
	return &s, nil
}

// List devuelve todos los sitios ordenados por nombre.
func (r *SiteRepo) List() ([]*entity.Site, error) {
	query := `SELECT ` + siteColumns + ` FROM sites ORDER BY name, number`
	rows, err := r.q.Query(context.Background(), query)
	if err != nil {
		return nil, fmt.Errorf("list sites: %w", err)
	}
	defer rows.Close()
	var list []*entity.Site
	for rows.Next() {
		var s entity.Site
		if err := rows.Scan(&s.Number, &s.Name, &s.County, &s.Address1, &s.Address2, &s.Address3,
			&s.ContactName, &s.ContactPhone, &s.Notes, &s.Modifier, &s.Modified); err != nil {
			return nil, fmt.Errorf("scan site: %w", err)
		}
		list = append(list, &s)
	}
	return list, rows.Err()
}

// Count devuelve el total de sitios.
func (r *SiteRepo) Count() (int, error) {
	var n int
	if err := r.q.QueryRow(context.Background(), `SELECT count(*) FROM sites`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count sites: %w", err)
	}
	return n, nil
}

// Delete elimina un sitio por número. El borrado en cascada del ledger lo
// coordina el caso de uso dentro de la misma transacción.
func (r *SiteRepo) Delete(number int) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM sites WHERE number = $1`, number)
	if err != nil {
		return fmt.Errorf("delete site: %w", err)
	}
	return nil
}

// DeleteAll vacía la tabla de sitios (solo restauración total).
func (r *SiteRepo) DeleteAll() error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM sites`)
	if err != nil {
		return fmt.Errorf("delete all sites: %w", err)
	}
	return nil
}
