package ledger_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Suministros-api/internal/domain/entity"
	"github.com/jhoicas/Suministros-api/internal/domain/ledger"
)

var base = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

func rec(id int64, site int, code string, qty int, deleted bool, at time.Time) *entity.InventoryRecord {
	return &entity.InventoryRecord{
		ID:          id,
		SiteNumber:  site,
		ProductCode: code,
		Quantity:    qty,
		Deleted:     deleted,
		Modifier:    "tester",
		Modified:    at,
	}
}

// El escenario clásico: tres ediciones sucesivas de D11 en el depósito 1.
// La cantidad vigente es siempre la del registro más reciente, nunca una suma.
func TestLatestState_UltimoRegistroGana(t *testing.T) {
	records := []*entity.InventoryRecord{
		rec(1, 1, "D11", 100, false, base),
		rec(2, 1, "D11", 120, false, base.Add(time.Hour)),
		rec(3, 1, "D11", 90, false, base.Add(2*time.Hour)),
	}

	state := ledger.LatestState(records, nil)
	require.Len(t, state, 1)
	assert.Equal(t, 90, state[0].Quantity)
	assert.Equal(t, int64(3), state[0].ID)

	// Con corte temporal anterior a la última edición gana el registro intermedio.
	asOf := base.Add(90 * time.Minute)
	state = ledger.LatestState(records, &asOf)
	require.Len(t, state, 1)
	assert.Equal(t, 120, state[0].Quantity)
}

func TestLatestState_DesempatePorID(t *testing.T) {
	// Dos registros con el mismo timestamp: gana el de mayor id.
	records := []*entity.InventoryRecord{
		rec(7, 1, "D11", 50, false, base),
		rec(8, 1, "D11", 60, false, base),
	}

	state := ledger.LatestState(records, nil)
	require.Len(t, state, 1)
	assert.Equal(t, 60, state[0].Quantity)
}

func TestLatestState_BorradoYReingresado(t *testing.T) {
	records := []*entity.InventoryRecord{
		rec(1, 1, "D11", 100, false, base),
		rec(2, 1, "D11", 100, true, base.Add(time.Hour)),
	}

	// Tras el borrado el par desaparece del estado vigente.
	assert.Empty(t, ledger.LatestState(records, nil))
	assert.Nil(t, ledger.LatestForPair(records, 1, "D11", nil))

	// Un registro posterior no borrado lo revive.
	records = append(records, rec(3, 1, "D11", 30, false, base.Add(2*time.Hour)))
	state := ledger.LatestState(records, nil)
	require.Len(t, state, 1)
	assert.Equal(t, 30, state[0].Quantity)
	assert.False(t, state[0].Deleted)

	// El historial conserva las tres versiones, incluida la borrada.
	hist := ledger.History(records, 1, "D11", nil)
	require.Len(t, hist, 3)
	assert.Equal(t, int64(3), hist[0].ID)
	assert.True(t, hist[1].Deleted)
	assert.Equal(t, int64(1), hist[2].ID)
}

func TestLatestForSite_NoMezclaSitios(t *testing.T) {
	records := []*entity.InventoryRecord{
		rec(1, 1, "D11", 10, false, base),
		rec(2, 2, "D11", 20, false, base),
		rec(3, 2, "C4", 5, false, base),
	}

	state := ledger.LatestForSite(records, 2, nil)
	require.Len(t, state, 2)
	assert.Equal(t, "C4", state[0].ProductCode)
	assert.Equal(t, "D11", state[1].ProductCode)
	assert.Equal(t, 20, state[1].Quantity)
}

func TestRecentActivity_UltimoPorProductoConLimite(t *testing.T) {
	records := []*entity.InventoryRecord{
		rec(1, 1, "D11", 10, false, base),
		rec(2, 2, "D11", 20, false, base.Add(3*time.Hour)),
		rec(3, 1, "C4", 5, false, base.Add(2*time.Hour)),
		rec(4, 1, "M9", 7, false, base.Add(time.Hour)),
	}

	feed := ledger.RecentActivity(records, 2)
	require.Len(t, feed, 2)
	assert.Equal(t, "D11", feed[0].ProductCode)
	assert.Equal(t, 20, feed[0].Quantity)
	assert.Equal(t, "C4", feed[1].ProductCode)
}

func TestCountSitesContaining(t *testing.T) {
	records := []*entity.InventoryRecord{
		rec(1, 1, "D11", 10, false, base),
		rec(2, 2, "D11", 0, false, base),
		rec(3, 3, "D11", 4, false, base),
		rec(4, 3, "D11", 4, true, base.Add(time.Hour)),
	}

	// El sitio 2 cuenta aunque su cantidad vigente sea cero; el 3 está borrado
	// y por eso no aparece en el estado vigente.
	assert.Equal(t, 2, ledger.CountSitesContaining(records, "D11", nil))
	assert.Equal(t, 0, ledger.CountSitesContaining(records, "ZZ", nil))
}

func TestStatus_ConsolidadoConCantidadExtendida(t *testing.T) {
	records := []*entity.InventoryRecord{
		rec(1, 1, "D11", 10, false, base),
		rec(2, 2, "D11", 5, false, base),
		rec(3, 1, "C4", 2, false, base),
	}
	products := map[string]*entity.ProductInformation{
		"D11": {Code: "D11", Name: "Agua embotellada", QuantityOfMeasure: decimal.NewFromInt(24)},
		"C4":  {Code: "C4", Name: "Cobijas", QuantityOfMeasure: decimal.NewFromInt(1)},
	}
	siteNames := map[int]string{1: "Depósito A", 2: "Depósito B"}

	status := ledger.Status(records, products, siteNames, nil)
	require.Len(t, status, 2)

	// Orden alfabético por nombre de producto.
	assert.Equal(t, "D11", status[0].Code)
	assert.Equal(t, 15, status[0].TotalQuantity)
	assert.True(t, status[0].ExtendedQuantity.Equal(decimal.NewFromInt(360)),
		"15 cartones x 24 unidades = 360")
	require.Len(t, status[0].Sites, 2)
	assert.Equal(t, "Depósito A", status[0].Sites[0].SiteName)

	// La cantidad extendida también se calcula por sitio.
	assert.True(t, status[0].Sites[0].ExtendedQuantity.Equal(decimal.NewFromInt(240)),
		"10 cartones x 24 unidades = 240 en el Depósito A")
	assert.True(t, status[0].Sites[1].ExtendedQuantity.Equal(decimal.NewFromInt(120)))

	assert.Equal(t, "C4", status[1].Code)
	assert.Equal(t, 2, status[1].TotalQuantity)
}
