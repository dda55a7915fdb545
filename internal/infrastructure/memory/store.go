package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/jhoicas/Suministros-api/internal/domain"
	"github.com/jhoicas/Suministros-api/internal/domain/entity"
	"github.com/jhoicas/Suministros-api/internal/domain/repository"
)

// Store guarda todo el estado en memoria. Implementa el mismo contrato que la
// capa PostgreSQL (los cuatro repos más el runner transaccional) y respalda
// los tests sin base de datos. Run trabaja sobre una copia y la adopta solo si
// el callback termina sin error: todo o nada.
type Store struct {
	mu   sync.Mutex
	txMu sync.Mutex

	sites      map[int]entity.Site
	categories map[string]entity.ProductCategory
	products   map[string]entity.ProductInformation
	records    []entity.InventoryRecord
	users      map[string]entity.User

	nextRecordID   int64
	nextCategoryID int
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{
		sites:      make(map[int]entity.Site),
		categories: make(map[string]entity.ProductCategory),
		products:   make(map[string]entity.ProductInformation),
		users:      make(map[string]entity.User),
	}
}

// Sites devuelve la vista SiteRepository del almacén.
func (s *Store) Sites() repository.SiteRepository { return &siteRepo{s: s} }

// Categories devuelve la vista CategoryRepository del almacén.
func (s *Store) Categories() repository.CategoryRepository { return &categoryRepo{s: s} }

// Products devuelve la vista ProductRepository del almacén.
func (s *Store) Products() repository.ProductRepository { return &productRepo{s: s} }

// Ledger devuelve la vista LedgerRepository del almacén.
func (s *Store) Ledger() repository.LedgerRepository { return &ledgerRepo{s: s} }

// Users devuelve la vista UserRepository del almacén.
func (s *Store) Users() repository.UserRepository { return &userRepo{s: s} }

// Run ejecuta fn contra una copia del estado y la adopta si no hay error.
// Las transacciones se serializan entre sí.
func (s *Store) Run(ctx context.Context, fn func(
	sites repository.SiteRepository,
	categories repository.CategoryRepository,
	products repository.ProductRepository,
	records repository.LedgerRepository,
) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.Lock()
	shadow := s.clone()
	s.mu.Unlock()

	if err := fn(shadow.Sites(), shadow.Categories(), shadow.Products(), shadow.Ledger()); err != nil {
		return err
	}

	s.mu.Lock()
	s.adopt(shadow)
	s.mu.Unlock()
	return nil
}

func (s *Store) clone() *Store {
	c := NewStore()
	for k, v := range s.sites {
		c.sites[k] = v
	}
	for k, v := range s.categories {
		c.categories[k] = v
	}
	for k, v := range s.products {
		c.products[k] = v
	}
	for k, v := range s.users {
		c.users[k] = v
	}
	c.records = append([]entity.InventoryRecord(nil), s.records...)
	c.nextRecordID = s.nextRecordID
	c.nextCategoryID = s.nextCategoryID
	return c
}

func (s *Store) adopt(from *Store) {
	s.sites = from.sites
	s.categories = from.categories
	s.products = from.products
	s.users = from.users
	s.records = from.records
	s.nextRecordID = from.nextRecordID
	s.nextCategoryID = from.nextCategoryID
}

// --- sitios ---

type siteRepo struct{ s *Store }

var _ repository.SiteRepository = (*siteRepo)(nil)

func (r *siteRepo) Upsert(site *entity.Site) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.sites[site.Number] = *site
	return nil
}

func (r *siteRepo) GetByNumber(number int) (*entity.Site, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if site, ok := r.s.sites[number]; ok {
		return &site, nil
	}
	return nil, nil
}

func (r *siteRepo) List() ([]*entity.Site, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	list := make([]*entity.Site, 0, len(r.s.sites))
	for _, site := range r.s.sites {
		site := site
		list = append(list, &site)
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].Name != list[j].Name {
			return list[i].Name < list[j].Name
		}
		return list[i].Number < list[j].Number
	})
	return list, nil
}

func (r *siteRepo) Count() (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return len(r.s.sites), nil
}

func (r *siteRepo) Delete(number int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.sites, number)
	return nil
}

func (r *siteRepo) DeleteAll() error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.sites = make(map[int]entity.Site)
	return nil
}

// --- categorías ---

type categoryRepo struct{ s *Store }

var _ repository.CategoryRepository = (*categoryRepo)(nil)

func (r *categoryRepo) Upsert(category *entity.ProductCategory) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if existing, ok := r.s.categories[category.Category]; ok {
		category.ID = existing.ID
	} else {
		r.s.nextCategoryID++
		category.ID = r.s.nextCategoryID
	}
	r.s.categories[category.Category] = *category
	return nil
}

func (r *categoryRepo) GetByName(category string) (*entity.ProductCategory, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if c, ok := r.s.categories[category]; ok {
		return &c, nil
	}
	return nil, nil
}

func (r *categoryRepo) List() ([]*entity.ProductCategory, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	list := make([]*entity.ProductCategory, 0, len(r.s.categories))
	for _, c := range r.s.categories {
		c := c
		list = append(list, &c)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Category < list[j].Category })
	return list, nil
}

func (r *categoryRepo) Delete(category string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.categories, category)
	return nil
}

func (r *categoryRepo) DeleteAll() error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.categories = make(map[string]entity.ProductCategory)
	return nil
}

// --- productos ---

type productRepo struct{ s *Store }

var _ repository.ProductRepository = (*productRepo)(nil)

func (r *productRepo) Create(product *entity.ProductInformation) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.products[product.Code]; ok {
		return domain.ErrDuplicateKeyOnRekey
	}
	r.s.products[product.Code] = *product
	return nil
}

func (r *productRepo) Upsert(product *entity.ProductInformation) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.products[product.Code] = *product
	return nil
}

func (r *productRepo) GetByCode(code string) (*entity.ProductInformation, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if p, ok := r.s.products[code]; ok {
		return &p, nil
	}
	return nil, nil
}

func (r *productRepo) List() ([]*entity.ProductInformation, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	list := make([]*entity.ProductInformation, 0, len(r.s.products))
	for _, p := range r.s.products {
		p := p
		list = append(list, &p)
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].Name != list[j].Name {
			return list[i].Name < list[j].Name
		}
		return list[i].Code < list[j].Code
	})
	return list, nil
}

func (r *productRepo) Count() (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return len(r.s.products), nil
}

func (r *productRepo) Delete(code string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.products, code)
	return nil
}

func (r *productRepo) DeleteAll() error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.products = make(map[string]entity.ProductInformation)
	return nil
}

// --- ledger ---

type ledgerRepo struct{ s *Store }

var _ repository.LedgerRepository = (*ledgerRepo)(nil)

func (r *ledgerRepo) Append(record *entity.InventoryRecord) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.nextRecordID++
	record.ID = r.s.nextRecordID
	r.s.records = append(r.s.records, *record)
	return nil
}

func (r *ledgerRepo) collect(match func(*entity.InventoryRecord) bool, asOf *time.Time) []*entity.InventoryRecord {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var list []*entity.InventoryRecord
	for i := range r.s.records {
		rec := r.s.records[i]
		if asOf != nil && rec.Modified.After(*asOf) {
			continue
		}
		if match != nil && !match(&rec) {
			continue
		}
		list = append(list, &rec)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Before(list[j]) })
	return list
}

func (r *ledgerRepo) ListBySite(siteNumber int, asOf *time.Time) ([]*entity.InventoryRecord, error) {
	return r.collect(func(rec *entity.InventoryRecord) bool { return rec.SiteNumber == siteNumber }, asOf), nil
}

func (r *ledgerRepo) ListByPair(siteNumber int, productCode string, asOf *time.Time) ([]*entity.InventoryRecord, error) {
	return r.collect(func(rec *entity.InventoryRecord) bool {
		return rec.SiteNumber == siteNumber && rec.ProductCode == productCode
	}, asOf), nil
}

func (r *ledgerRepo) ListAll(asOf *time.Time) ([]*entity.InventoryRecord, error) {
	return r.collect(nil, asOf), nil
}

func (r *ledgerRepo) ReassignProduct(oldCode, newCode string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.records {
		if r.s.records[i].ProductCode == oldCode {
			r.s.records[i].ProductCode = newCode
		}
	}
	return nil
}

func (r *ledgerRepo) deleteWhere(match func(*entity.InventoryRecord) bool) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	kept := r.s.records[:0]
	for i := range r.s.records {
		if !match(&r.s.records[i]) {
			kept = append(kept, r.s.records[i])
		}
	}
	r.s.records = kept
}

func (r *ledgerRepo) DeleteBySite(siteNumber int) error {
	r.deleteWhere(func(rec *entity.InventoryRecord) bool { return rec.SiteNumber == siteNumber })
	return nil
}

func (r *ledgerRepo) DeleteByProduct(productCode string) error {
	r.deleteWhere(func(rec *entity.InventoryRecord) bool { return rec.ProductCode == productCode })
	return nil
}

func (r *ledgerRepo) DeleteAll() error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.records = nil
	return nil
}

// --- usuarios ---

type userRepo struct{ s *Store }

var _ repository.UserRepository = (*userRepo)(nil)

func (r *userRepo) Create(user *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[user.Username]; ok {
		return domain.ErrDuplicateBusinessKey
	}
	r.s.users[user.Username] = *user
	return nil
}

func (r *userRepo) FindByUsername(username string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if u, ok := r.s.users[username]; ok {
		return &u, nil
	}
	return nil, nil
}
