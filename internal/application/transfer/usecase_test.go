package transfer_test

import (
	"archive/zip"
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Suministros-api/internal/application/transfer"
	"github.com/jhoicas/Suministros-api/internal/domain"
	"github.com/jhoicas/Suministros-api/internal/domain/entity"
	"github.com/jhoicas/Suministros-api/internal/infrastructure/memory"
	"github.com/jhoicas/Suministros-api/internal/infrastructure/spreadsheet"
)

var stamp = time.Date(2026, 2, 10, 8, 30, 0, 0, time.UTC)

func newFixture() (*memory.Store, *transfer.UseCase) {
	store := memory.NewStore()
	uc := transfer.NewUseCase(store, store.Sites(), store.Categories(),
		store.Products(), store.Ledger(), nil, nil)
	return store, uc
}

func seedCatalog(t *testing.T, store *memory.Store) {
	t.Helper()
	require.NoError(t, store.Sites().Upsert(&entity.Site{
		Number: 1, Name: "Depósito A", Modifier: "admin", Modified: stamp,
	}))
	require.NoError(t, store.Products().Upsert(&entity.ProductInformation{
		Code: "D11", Name: "Agua embotellada", UnitOfMeasure: entity.UnitBottle,
		QuantityOfMeasure: decimal.NewFromInt(24), Modifier: "admin", Modified: stamp,
	}))
}

func buildWorkbook(t *testing.T, snap *spreadsheet.Snapshot) []byte {
	t.Helper()
	data, err := spreadsheet.Build(snap)
	require.NoError(t, err)
	return data
}

func buildArchive(t *testing.T, workbook []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("Backup_Export.xlsx")
	require.NoError(t, err)
	_, err = w.Write(workbook)
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestImportSites_DuplicadosUltimoGana(t *testing.T) {
	store, uc := newFixture()

	payload := buildWorkbook(t, &spreadsheet.Snapshot{Sites: []*entity.Site{
		{Number: 1, Name: "Depósito A", Modified: stamp, Modifier: "x"},
		{Number: 2, Name: "Depósito B", Modified: stamp, Modifier: "x"},
		{Number: 1, Name: "Depósito A corregido", Modified: stamp, Modifier: "x"},
	}})

	result, err := uc.ImportSection(context.Background(), transfer.KindSites, payload, "ana")
	require.NoError(t, err)
	assert.Equal(t, 2, result.Imported)
	assert.Contains(t, result.Warnings, "found duplicate sites")

	site, err := store.Sites().GetByNumber(1)
	require.NoError(t, err)
	require.NotNil(t, site)
	assert.Equal(t, "Depósito A corregido", site.Name)
	assert.Equal(t, "ana", site.Modifier, "la importación normal reescribe el modifier")
}

func TestImportInventory_NoColapsaDuplicados(t *testing.T) {
	store, uc := newFixture()
	seedCatalog(t, store)

	rec := &entity.InventoryRecord{SiteNumber: 1, ProductCode: "D11", Quantity: 10, Modifier: "x", Modified: stamp}
	payload := buildWorkbook(t, &spreadsheet.Snapshot{Records: []*entity.InventoryRecord{rec, rec}})

	result, err := uc.ImportSection(context.Background(), transfer.KindInventory, payload, "ana")
	require.NoError(t, err)
	assert.Equal(t, 2, result.Imported)
	assert.Contains(t, result.Warnings, "found duplicate inventory items")

	records, err := store.Ledger().ListAll(nil)
	require.NoError(t, err)
	assert.Len(t, records, 2, "cada fila del ledger es un registro")
}

func TestImportInventory_ReferenciaFaltanteRevierteTodo(t *testing.T) {
	store, uc := newFixture()
	seedCatalog(t, store)

	payload := buildWorkbook(t, &spreadsheet.Snapshot{Records: []*entity.InventoryRecord{
		{SiteNumber: 1, ProductCode: "D11", Quantity: 10, Modifier: "x", Modified: stamp},
		{SiteNumber: 1, ProductCode: "NO-EXISTE", Quantity: 5, Modifier: "x", Modified: stamp},
	}})

	_, err := uc.ImportSection(context.Background(), transfer.KindInventory, payload, "ana")
	require.ErrorIs(t, err, domain.ErrMissingReference)

	records, err := store.Ledger().ListAll(nil)
	require.NoError(t, err)
	assert.Empty(t, records, "la fila válida tampoco queda: todo o nada")
}

func TestExportSection_RoundTrip(t *testing.T) {
	store, uc := newFixture()
	seedCatalog(t, store)
	require.NoError(t, store.Ledger().Append(&entity.InventoryRecord{
		SiteNumber: 1, ProductCode: "D11", Quantity: 42, Modifier: "ana", Modified: stamp,
	}))

	data, err := uc.ExportSection(transfer.KindInventory, nil)
	require.NoError(t, err)
	records, err := spreadsheet.ParseInventory(data)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, 42, records[0].Quantity)
	assert.True(t, stamp.Equal(records[0].Modified))
}

func TestBackupRestore_RoundTrip(t *testing.T) {
	source, sourceUC := newFixture()
	seedCatalog(t, source)
	require.NoError(t, source.Categories().Upsert(&entity.ProductCategory{
		Category: "Agua", Modifier: "admin", Modified: stamp,
	}))
	require.NoError(t, source.Ledger().Append(&entity.InventoryRecord{
		SiteNumber: 1, ProductCode: "D11", Quantity: 100, Modifier: "ana", Modified: stamp,
	}))
	require.NoError(t, source.Ledger().Append(&entity.InventoryRecord{
		SiteNumber: 1, ProductCode: "D11", Quantity: 90, Modifier: "ana", Modified: stamp.Add(time.Hour),
	}))

	archive, err := sourceUC.Backup()
	require.NoError(t, err)

	target, targetUC := newFixture()
	result, err := targetUC.RestoreAll(context.Background(), archive)
	require.NoError(t, err)
	assert.Equal(t, transfer.StageCommitted, result.Stage)
	assert.Equal(t, 1, result.Sites)
	assert.Equal(t, 1, result.Categories)
	assert.Equal(t, 1, result.Products)
	assert.Equal(t, 2, result.Records)
	assert.Empty(t, result.Warnings, "los duplicados de inventario no se reportan al restaurar")

	records, err := target.Ledger().ListAll(nil)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "ana", records[0].Modifier, "la restauración preserva el modifier original")
	assert.True(t, stamp.Equal(records[0].Modified), "la restauración preserva las fechas")
	assert.Equal(t, 90, records[1].Quantity)

	site, err := target.Sites().GetByNumber(1)
	require.NoError(t, err)
	require.NotNil(t, site)
	assert.Equal(t, "Depósito A", site.Name)
}

func TestRestoreAll_SeccionMalformadaRevierteTodo(t *testing.T) {
	store, uc := newFixture()
	seedCatalog(t, store)
	require.NoError(t, store.Ledger().Append(&entity.InventoryRecord{
		SiteNumber: 1, ProductCode: "D11", Quantity: 100, Modifier: "ana", Modified: stamp,
	}))

	// Cantidad negativa en la hoja de inventario: el parseo de la sección falla.
	workbook := buildWorkbook(t, &spreadsheet.Snapshot{
		Sites:      []*entity.Site{{Number: 9, Name: "Nuevo", Modified: stamp, Modifier: "x"}},
		Categories: []*entity.ProductCategory{},
		Products: []*entity.ProductInformation{{
			Code: "Z9", Name: "Otro", UnitOfMeasure: entity.UnitEach,
			QuantityOfMeasure: decimal.NewFromInt(1), Modified: stamp, Modifier: "x",
		}},
		Records: []*entity.InventoryRecord{
			{SiteNumber: 9, ProductCode: "Z9", Quantity: -5, Modifier: "x", Modified: stamp},
		},
	})

	result, err := uc.RestoreAll(context.Background(), buildArchive(t, workbook))
	require.ErrorIs(t, err, domain.ErrRestoreFailed)
	assert.Equal(t, transfer.StageRolledBack, result.Stage)

	// El estado anterior sigue intacto.
	site, err := store.Sites().GetByNumber(1)
	require.NoError(t, err)
	require.NotNil(t, site)
	records, err := store.Ledger().ListAll(nil)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, 100, records[0].Quantity)

	_, err = store.Sites().GetByNumber(9)
	require.NoError(t, err)
}

func TestRestoreAll_ZipSinLibro(t *testing.T) {
	_, uc := newFixture()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	require.NoError(t, zw.Close())

	result, err := uc.RestoreAll(context.Background(), buf.Bytes())
	require.ErrorIs(t, err, domain.ErrRestoreFailed)
	assert.Equal(t, transfer.StageRolledBack, result.Stage)
}
