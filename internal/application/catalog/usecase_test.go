package catalog_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Suministros-api/internal/application/catalog"
	"github.com/jhoicas/Suministros-api/internal/application/dto"
	"github.com/jhoicas/Suministros-api/internal/domain"
	"github.com/jhoicas/Suministros-api/internal/domain/entity"
	"github.com/jhoicas/Suministros-api/internal/infrastructure/memory"
)

func newFixture() (*memory.Store, *catalog.UseCase) {
	store := memory.NewStore()
	uc := catalog.NewUseCase(store, store.Sites(), store.Categories(), store.Products())
	return store, uc
}

func TestUpsertSite_CreaYSobrescribe(t *testing.T) {
	_, uc := newFixture()

	site, err := uc.UpsertSite(dto.SiteRequest{Number: 5, Name: "Depósito Norte", County: "Bolívar"}, "ana")
	require.NoError(t, err)
	assert.Equal(t, "ana", site.Modifier)

	// El mismo número sobrescribe, no duplica.
	_, err = uc.UpsertSite(dto.SiteRequest{Number: 5, Name: "Depósito Norte v2"}, "luis")
	require.NoError(t, err)

	sites, err := uc.ListSites()
	require.NoError(t, err)
	require.Len(t, sites, 1)
	assert.Equal(t, "Depósito Norte v2", sites[0].Name)
	assert.Equal(t, "luis", sites[0].Modifier)
}

func TestSaveProduct_GeneraCodigoCuandoFalta(t *testing.T) {
	_, uc := newFixture()

	product, err := uc.SaveProduct(context.Background(), dto.ProductRequest{Name: "Carpas"}, "ana")
	require.NoError(t, err)
	assert.True(t, product.CodeIsGenerated())
	assert.Equal(t, entity.UnitEach, product.UnitOfMeasure)
	assert.True(t, product.QuantityOfMeasure.IsPositive())
}

func TestSaveProduct_RechazaUnidadInvalida(t *testing.T) {
	_, uc := newFixture()
	_, err := uc.SaveProduct(context.Background(), dto.ProductRequest{
		Code: "X1", Name: "Carpas", UnitOfMeasure: "DOCENA",
	}, "ana")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func seedLedger(t *testing.T, store *memory.Store, site int, code string, qty int) {
	t.Helper()
	require.NoError(t, store.Ledger().Append(&entity.InventoryRecord{
		SiteNumber: site, ProductCode: code, Quantity: qty,
		Modifier: "ana", Modified: time.Now().UTC(),
	}))
}

func TestRekey_MueveLedgerYEliminaCodigoViejo(t *testing.T) {
	store, uc := newFixture()
	ctx := context.Background()

	_, err := uc.SaveProduct(ctx, dto.ProductRequest{Code: "D11", Name: "Agua"}, "ana")
	require.NoError(t, err)
	_, err = uc.UpsertSite(dto.SiteRequest{Number: 1, Name: "Depósito A"}, "ana")
	require.NoError(t, err)
	seedLedger(t, store, 1, "D11", 40)
	seedLedger(t, store, 1, "D11", 35)

	rekeyed, err := uc.SaveProduct(ctx, dto.ProductRequest{Code: "D11", NewCode: "W2", Name: "Agua"}, "ana")
	require.NoError(t, err)
	assert.Equal(t, "W2", rekeyed.Code)

	_, err = uc.GetProduct("D11")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	records, err := store.Ledger().ListAll(nil)
	require.NoError(t, err)
	require.Len(t, records, 2)
	for _, r := range records {
		assert.Equal(t, "W2", r.ProductCode, "todo el historial queda re-apuntado")
		assert.NotZero(t, r.Quantity, "el recodificado no altera cantidades")
	}
}

func TestRekey_ColisionNoDejaCambios(t *testing.T) {
	store, uc := newFixture()
	ctx := context.Background()

	_, err := uc.SaveProduct(ctx, dto.ProductRequest{Code: "D11", Name: "Agua"}, "ana")
	require.NoError(t, err)
	_, err = uc.SaveProduct(ctx, dto.ProductRequest{Code: "W2", Name: "Cobijas"}, "ana")
	require.NoError(t, err)
	_, err = uc.UpsertSite(dto.SiteRequest{Number: 1, Name: "Depósito A"}, "ana")
	require.NoError(t, err)
	seedLedger(t, store, 1, "D11", 40)

	_, err = uc.SaveProduct(ctx, dto.ProductRequest{Code: "D11", NewCode: "W2", Name: "Agua"}, "ana")
	assert.ErrorIs(t, err, domain.ErrDuplicateKeyOnRekey)

	// Nada cambió: el producto viejo sigue y su ledger intacto.
	product, err := uc.GetProduct("D11")
	require.NoError(t, err)
	assert.Equal(t, "Agua", product.Name)
	records, err := store.Ledger().ListAll(nil)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "D11", records[0].ProductCode)
}

func TestDeleteSite_CascadaSobreLedger(t *testing.T) {
	store, uc := newFixture()
	ctx := context.Background()

	_, err := uc.UpsertSite(dto.SiteRequest{Number: 1, Name: "Depósito A"}, "ana")
	require.NoError(t, err)
	_, err = uc.UpsertSite(dto.SiteRequest{Number: 2, Name: "Depósito B"}, "ana")
	require.NoError(t, err)
	_, err = uc.SaveProduct(ctx, dto.ProductRequest{Code: "D11", Name: "Agua"}, "ana")
	require.NoError(t, err)
	seedLedger(t, store, 1, "D11", 10)
	seedLedger(t, store, 2, "D11", 5)

	require.NoError(t, uc.DeleteSite(ctx, 1))

	records, err := store.Ledger().ListAll(nil)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, 2, records[0].SiteNumber, "solo sobrevive el ledger de otros sitios")

	_, err = uc.GetSite(1)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDeleteProduct_CascadaSobreLedger(t *testing.T) {
	store, uc := newFixture()
	ctx := context.Background()

	_, err := uc.UpsertSite(dto.SiteRequest{Number: 1, Name: "Depósito A"}, "ana")
	require.NoError(t, err)
	_, err = uc.SaveProduct(ctx, dto.ProductRequest{Code: "D11", Name: "Agua"}, "ana")
	require.NoError(t, err)
	_, err = uc.SaveProduct(ctx, dto.ProductRequest{Code: "C4", Name: "Cobijas"}, "ana")
	require.NoError(t, err)
	seedLedger(t, store, 1, "D11", 10)
	seedLedger(t, store, 1, "C4", 3)

	require.NoError(t, uc.DeleteProduct(ctx, "D11"))

	records, err := store.Ledger().ListAll(nil)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "C4", records[0].ProductCode)
}

func TestDeleteCategory_NoTocaProductos(t *testing.T) {
	_, uc := newFixture()
	ctx := context.Background()

	_, err := uc.UpsertCategory(dto.CategoryRequest{Category: "Agua"}, "ana")
	require.NoError(t, err)
	_, err = uc.SaveProduct(ctx, dto.ProductRequest{Code: "D11", Name: "Agua embotellada", Category: "Agua"}, "ana")
	require.NoError(t, err)

	require.NoError(t, uc.DeleteCategory("Agua"))

	product, err := uc.GetProduct("D11")
	require.NoError(t, err)
	assert.Equal(t, "Agua", product.Category, "la etiqueta queda suelta en el producto")
}
