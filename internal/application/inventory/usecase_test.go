package inventory_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Suministros-api/internal/application/dto"
	"github.com/jhoicas/Suministros-api/internal/application/inventory"
	"github.com/jhoicas/Suministros-api/internal/domain"
	"github.com/jhoicas/Suministros-api/internal/domain/entity"
	"github.com/jhoicas/Suministros-api/internal/infrastructure/memory"
	"github.com/jhoicas/Suministros-api/pkg/validator"
)

func newFixture(t *testing.T) (*memory.Store, *inventory.UseCase) {
	t.Helper()
	store := memory.NewStore()
	uc := inventory.NewUseCase(store, store.Sites(), store.Products(), store.Ledger())

	require.NoError(t, store.Sites().Upsert(&entity.Site{
		Number: 1, Name: "Depósito A", Modifier: "admin", Modified: time.Now().UTC(),
	}))
	require.NoError(t, store.Sites().Upsert(&entity.Site{
		Number: 2, Name: "Depósito B", Modifier: "admin", Modified: time.Now().UTC(),
	}))
	require.NoError(t, store.Products().Upsert(&entity.ProductInformation{
		Code: "D11", Name: "Agua embotellada", UnitOfMeasure: entity.UnitBottle,
		QuantityOfMeasure: decimal.NewFromInt(24), Modifier: "admin", Modified: time.Now().UTC(),
	}))
	return store, uc
}

func TestAppend_ActualizaEstadoVigente(t *testing.T) {
	_, uc := newFixture(t)
	ctx := context.Background()

	for _, qty := range []int{100, 120, 90} {
		rec, err := uc.Append(ctx, 1, dto.AppendRequest{ProductCode: "D11", Quantity: qty}, "ana")
		require.NoError(t, err)
		assert.NotZero(t, rec.ID)
	}

	items, err := uc.SiteState(1, nil, inventory.Filter{})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 90, items[0].Record.Quantity, "gana el registro más reciente, no una suma")
	assert.Equal(t, "ana", items[0].Record.Modifier)

	hist, err := uc.History(1, "D11", nil)
	require.NoError(t, err)
	assert.Len(t, hist, 3, "el ledger conserva todas las versiones")
}

func TestAppend_ValidaReferencias(t *testing.T) {
	store, uc := newFixture(t)
	ctx := context.Background()

	_, err := uc.Append(ctx, 99, dto.AppendRequest{ProductCode: "D11", Quantity: 10}, "ana")
	assert.ErrorIs(t, err, domain.ErrMissingReference)

	_, err = uc.Append(ctx, 1, dto.AppendRequest{ProductCode: "ZZ", Quantity: 10}, "ana")
	assert.ErrorIs(t, err, domain.ErrMissingReference)

	records, err := store.Ledger().ListAll(nil)
	require.NoError(t, err)
	assert.Empty(t, records, "un append rechazado no deja registros")
}

func TestAppend_CantidadNegativa(t *testing.T) {
	_, uc := newFixture(t)
	_, err := uc.Append(context.Background(), 1, dto.AppendRequest{ProductCode: "D11", Quantity: -1}, "ana")
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)
}

func TestAdjust_DeltaSobreCantidadVigente(t *testing.T) {
	_, uc := newFixture(t)
	ctx := context.Background()

	// Sin registros previos el delta parte de cero.
	rec, err := uc.Adjust(ctx, 1, dto.AdjustRequest{ProductCode: "D11", Delta: 40}, "ana")
	require.NoError(t, err)
	assert.Equal(t, 40, rec.Quantity)

	rec, err = uc.Adjust(ctx, 1, dto.AdjustRequest{ProductCode: "D11", Delta: -15}, "ana")
	require.NoError(t, err)
	assert.Equal(t, 25, rec.Quantity)

	// Un resultado negativo se rechaza y no agrega registro.
	_, err = uc.Adjust(ctx, 1, dto.AdjustRequest{ProductCode: "D11", Delta: -100}, "ana")
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)

	hist, err := uc.History(1, "D11", nil)
	require.NoError(t, err)
	require.Len(t, hist, 2)
	assert.Equal(t, 25, hist[0].Quantity)
}

func TestAdjust_DeltaCeroEsValido(t *testing.T) {
	_, uc := newFixture(t)
	ctx := context.Background()

	// Delta cero pasa la validación del DTO y reafirma la cantidad vigente
	// con un registro nuevo.
	require.NoError(t, validator.Struct(dto.AdjustRequest{ProductCode: "D11", Delta: 0}))

	_, err := uc.Adjust(ctx, 1, dto.AdjustRequest{ProductCode: "D11", Delta: 25}, "ana")
	require.NoError(t, err)
	rec, err := uc.Adjust(ctx, 1, dto.AdjustRequest{ProductCode: "D11", Delta: 0}, "ana")
	require.NoError(t, err)
	assert.Equal(t, 25, rec.Quantity)

	hist, err := uc.History(1, "D11", nil)
	require.NoError(t, err)
	assert.Len(t, hist, 2)
}

func TestAppend_BorradoYReingresado(t *testing.T) {
	_, uc := newFixture(t)
	ctx := context.Background()

	_, err := uc.Append(ctx, 1, dto.AppendRequest{ProductCode: "D11", Quantity: 50}, "ana")
	require.NoError(t, err)
	_, err = uc.Append(ctx, 1, dto.AppendRequest{ProductCode: "D11", Quantity: 50, Deleted: true}, "ana")
	require.NoError(t, err)

	items, err := uc.SiteState(1, nil, inventory.Filter{})
	require.NoError(t, err)
	assert.Empty(t, items, "el par borrado desaparece del estado vigente")

	_, err = uc.Append(ctx, 1, dto.AppendRequest{ProductCode: "D11", Quantity: 7}, "ana")
	require.NoError(t, err)
	items, err = uc.SiteState(1, nil, inventory.Filter{})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 7, items[0].Record.Quantity)

	hist, err := uc.History(1, "D11", nil)
	require.NoError(t, err)
	assert.Len(t, hist, 3, "el historial conserva el registro borrado")
}

func TestSiteState_FiltroPorCampo(t *testing.T) {
	store, uc := newFixture(t)
	ctx := context.Background()

	require.NoError(t, store.Products().Upsert(&entity.ProductInformation{
		Code: "C4", Name: "Cobijas térmicas", Category: "Abrigo", UnitOfMeasure: entity.UnitEach,
		QuantityOfMeasure: decimal.NewFromInt(1), Modifier: "admin", Modified: time.Now().UTC(),
	}))
	_, err := uc.Append(ctx, 1, dto.AppendRequest{ProductCode: "D11", Quantity: 10}, "ana")
	require.NoError(t, err)
	_, err = uc.Append(ctx, 1, dto.AppendRequest{ProductCode: "C4", Quantity: 3}, "ana")
	require.NoError(t, err)

	items, err := uc.SiteState(1, nil, inventory.Filter{Field: "category", Value: "Abrigo"})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "C4", items[0].Record.ProductCode)

	items, err = uc.SiteState(1, nil, inventory.Filter{Field: "name", Value: "cobijas"})
	require.NoError(t, err)
	require.Len(t, items, 1, "el filtro por nombre es por contención, sin mayúsculas")

	_, err = uc.SiteState(1, nil, inventory.Filter{Field: "warehouse", Value: "x"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestStatus_ConsolidadoEntreSitios(t *testing.T) {
	_, uc := newFixture(t)
	ctx := context.Background()

	_, err := uc.Append(ctx, 1, dto.AppendRequest{ProductCode: "D11", Quantity: 10}, "ana")
	require.NoError(t, err)
	_, err = uc.Append(ctx, 2, dto.AppendRequest{ProductCode: "D11", Quantity: 5}, "ana")
	require.NoError(t, err)

	status, err := uc.Status(nil)
	require.NoError(t, err)
	require.Len(t, status, 1)
	assert.Equal(t, 15, status[0].TotalQuantity)
	assert.True(t, status[0].ExtendedQuantity.Equal(decimal.NewFromInt(360)))
	assert.Len(t, status[0].Sites, 2)

	count, err := uc.CountSitesContaining("D11")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestRecentActivity_LimiteYOrden(t *testing.T) {
	store, uc := newFixture(t)
	ctx := context.Background()

	require.NoError(t, store.Products().Upsert(&entity.ProductInformation{
		Code: "C4", Name: "Cobijas", UnitOfMeasure: entity.UnitEach,
		QuantityOfMeasure: decimal.NewFromInt(1), Modifier: "admin", Modified: time.Now().UTC(),
	}))
	_, err := uc.Append(ctx, 1, dto.AppendRequest{ProductCode: "D11", Quantity: 10}, "ana")
	require.NoError(t, err)
	_, err = uc.Append(ctx, 1, dto.AppendRequest{ProductCode: "C4", Quantity: 3}, "ana")
	require.NoError(t, err)

	feed, err := uc.RecentActivity(1)
	require.NoError(t, err)
	require.Len(t, feed, 1)
	assert.Equal(t, "C4", feed[0].Record.ProductCode, "el cambio más reciente encabeza el feed")
	require.NotNil(t, feed[0].Product)
	assert.Equal(t, "Cobijas", feed[0].Product.Name)
}
