package spreadsheet_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/Suministros-api/internal/domain/entity"
	"github.com/jhoicas/Suministros-api/internal/infrastructure/spreadsheet"
)

var stamp = time.Date(2026, 2, 10, 8, 30, 0, 0, time.UTC)

func sampleSnapshot() *spreadsheet.Snapshot {
	expiration := time.Date(2027, 1, 15, 0, 0, 0, 0, time.UTC)
	return &spreadsheet.Snapshot{
		Sites: []*entity.Site{
			{Number: 1, Name: "Depósito A", County: "Atlántico", Address1: "Calle 1",
				ContactName: "Ana", ContactPhone: "300123", Notes: "principal",
				Modifier: "admin", Modified: stamp},
			{Number: 7, Name: "Depósito B", Modifier: "admin", Modified: stamp},
		},
		Categories: []*entity.ProductCategory{
			{ID: 1, Category: "Agua"},
			{ID: 2, Category: "Abrigo"},
		},
		Products: []*entity.ProductInformation{
			{Code: "D11", Name: "Agua embotellada", Category: "Agua", UnitOfMeasure: entity.UnitBottle,
				QuantityOfMeasure: decimal.NewFromInt(24), Expendable: true, CartonsPerPallet: 40,
				DoubleStackPallets: true, WarehouseLocation: "A-3", CanExpire: true,
				ExpirationDate: &expiration, ExpirationNotes: "rotar primero",
				CostPerItem: decimal.RequireFromString("3.50"), Modifier: "admin", Modified: stamp},
			{Code: "C4", Name: "Cobijas", UnitOfMeasure: entity.UnitEach,
				QuantityOfMeasure: decimal.NewFromInt(1), Modifier: "admin", Modified: stamp},
		},
		Records: []*entity.InventoryRecord{
			{ID: 1, SiteNumber: 1, ProductCode: "D11", Quantity: 100, Modifier: "admin", Modified: stamp},
			{ID: 2, SiteNumber: 1, ProductCode: "D11", Quantity: 90, Modifier: "admin", Modified: stamp.Add(time.Hour)},
			{ID: 3, SiteNumber: 7, ProductCode: "C4", Quantity: 12, Deleted: true, Modifier: "admin", Modified: stamp},
		},
	}
}

// El libro exportado debe poder leerse de vuelta sin pérdida: es la garantía
// de que respaldo y restauración son inversos.
func TestBuildParse_RoundTrip(t *testing.T) {
	snap := sampleSnapshot()
	data, err := spreadsheet.Build(snap)
	require.NoError(t, err)

	sites, err := spreadsheet.ParseSites(data)
	require.NoError(t, err)
	require.Len(t, sites, 2)
	assert.Equal(t, snap.Sites[0].Number, sites[0].Number)
	assert.Equal(t, snap.Sites[0].Name, sites[0].Name)
	assert.Equal(t, snap.Sites[0].County, sites[0].County)
	assert.True(t, snap.Sites[0].Modified.Equal(sites[0].Modified))

	categories, err := spreadsheet.ParseCategories(data)
	require.NoError(t, err)
	require.Len(t, categories, 2)
	assert.Equal(t, "Agua", categories[0].Category)

	products, err := spreadsheet.ParseProducts(data)
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, "D11", products[0].Code)
	assert.True(t, products[0].Expendable)
	assert.True(t, products[0].QuantityOfMeasure.Equal(decimal.NewFromInt(24)))
	assert.True(t, products[0].CostPerItem.Equal(decimal.RequireFromString("3.50")))
	require.NotNil(t, products[0].ExpirationDate)
	assert.Equal(t, "2027-01-15", products[0].ExpirationDate.Format("2006-01-02"))
	assert.True(t, products[0].CanExpire)
	assert.Nil(t, products[1].ExpirationDate)

	records, err := spreadsheet.ParseInventory(data)
	require.NoError(t, err)
	require.Len(t, records, 3, "las filas duplicadas del ledger no se colapsan")
	assert.Equal(t, 100, records[0].Quantity)
	assert.Equal(t, 90, records[1].Quantity)
	assert.True(t, records[2].Deleted)
}

// La columna de nombre de la hoja de inventario es informativa pero debe ir
// llena con el nombre de catálogo del producto.
func TestBuild_HojaInventarioLlevaNombreDeProducto(t *testing.T) {
	data, err := spreadsheet.Build(sampleSnapshot())
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	name, err := f.GetCellValue(spreadsheet.SheetInventory, "B2")
	require.NoError(t, err)
	assert.Equal(t, "Agua embotellada", name)
	name, err = f.GetCellValue(spreadsheet.SheetInventory, "B4")
	require.NoError(t, err)
	assert.Equal(t, "Cobijas", name)

	// Sin hoja de productos el nombre puede venir aparte.
	data, err = spreadsheet.Build(&spreadsheet.Snapshot{
		Records: []*entity.InventoryRecord{
			{ID: 1, SiteNumber: 1, ProductCode: "D11", Quantity: 10, Modifier: "admin", Modified: stamp},
		},
		ProductNames: map[string]string{"D11": "Agua embotellada"},
	})
	require.NoError(t, err)
	f, err = excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()
	name, err = f.GetCellValue(spreadsheet.SheetInventory, "B2")
	require.NoError(t, err)
	assert.Equal(t, "Agua embotellada", name)
}

func TestParseSites_EncabezadoIncorrecto(t *testing.T) {
	f := excelize.NewFile()
	require.NoError(t, f.SetSheetName("Sheet1", spreadsheet.SheetSites))
	row := []any{"Numero", "Nombre"}
	require.NoError(t, f.SetSheetRow(spreadsheet.SheetSites, "A1", &row))
	var buf bytes.Buffer
	_, err := f.WriteTo(&buf)
	require.NoError(t, err)

	sites, err := spreadsheet.ParseSites(buf.Bytes())
	require.Error(t, err)
	assert.Nil(t, sites, "un encabezado inválido no debe producir registros")
	assert.Contains(t, err.Error(), "encabezado inesperado")
}

func TestParseInventory_FechaMalformada(t *testing.T) {
	snap := sampleSnapshot()
	data, err := spreadsheet.Build(snap)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	require.NoError(t, f.SetCellValue(spreadsheet.SheetInventory, "F2", "no-es-fecha"))
	var buf bytes.Buffer
	_, err = f.WriteTo(&buf)
	require.NoError(t, err)

	records, err := spreadsheet.ParseInventory(buf.Bytes())
	require.Error(t, err)
	assert.Nil(t, records, "una fila malformada invalida la sección completa")
	assert.Contains(t, err.Error(), "fila 2")
}

func TestParseInventory_CantidadNegativa(t *testing.T) {
	snap := sampleSnapshot()
	data, err := spreadsheet.Build(snap)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	require.NoError(t, f.SetCellValue(spreadsheet.SheetInventory, "E3", -5))
	var buf bytes.Buffer
	_, err = f.WriteTo(&buf)
	require.NoError(t, err)

	_, err = spreadsheet.ParseInventory(buf.Bytes())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cantidad negativa")
}
