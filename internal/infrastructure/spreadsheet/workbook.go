package spreadsheet

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/Suministros-api/internal/domain/entity"
)

// Nombres de hoja y encabezados del formato de intercambio. Cualquier
// desviación en encabezado o celda aborta el parseo con cero registros.
const (
	SheetSites      = "Sites"
	SheetCategories = "Categories"
	SheetProducts   = "Products"
	SheetInventory  = "Inventory"
)

var (
	siteHeader = []string{"Site Number", "Site Name", "Site Address 1", "Site Address 2",
		"Site Address 3", "County", "Site Contact Name", "Site Phone", "Site Notes",
		"Modified", "Modifier"}
	categoryHeader = []string{"Category ID", "Category"}
	productHeader  = []string{"Product Code", "Product Name", "Product Category", "Expendable",
		"Unit of Measure", "Qty of Measure", "Cost Each", "Cartons per Pallet",
		"Double Stack Pallets", "Warehouse Location", "Expiration Date", "Expiration Notes",
		"Modified", "Modifier", "Picture", "Original Picture Name"}
	inventoryHeader = []string{"Product Code", "Product Name", "Prefix", "Site Number",
		"Cartons", "modified", "modifier", "deleted"}
)

const (
	timestampLayout = "2006-01-02 15:04:05"
	dateLayout      = "2006-01-02"
)

// timeLayouts acepta los formatos que producen este exportador, Excel y el
// sistema anterior.
var timeLayouts = []string{
	time.RFC3339,
	timestampLayout,
	dateLayout,
	"1/2/06 15:04",
	"01-02-06 15:04",
}

// Snapshot agrupa las cuatro secciones de un libro de intercambio.
// ProductNames alimenta la columna informativa de nombre en la hoja de
// inventario; si está vacío se deriva de Products.
type Snapshot struct {
	Sites        []*entity.Site
	Categories   []*entity.ProductCategory
	Products     []*entity.ProductInformation
	Records      []*entity.InventoryRecord
	ProductNames map[string]string
}

func (s *Snapshot) productNames() map[string]string {
	if s.ProductNames != nil {
		return s.ProductNames
	}
	names := make(map[string]string, len(s.Products))
	for _, p := range s.Products {
		names[p.Code] = p.Name
	}
	return names
}

// --- escritura ---

// Build arma el libro con una hoja por sección presente y lo serializa a xlsx.
func Build(snap *Snapshot) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	first := true
	addSheet := func(name string) error {
		if first {
			if err := f.SetSheetName("Sheet1", name); err != nil {
				return err
			}
			first = false
			return nil
		}
		_, err := f.NewSheet(name)
		return err
	}

	if snap.Sites != nil {
		if err := addSheet(SheetSites); err != nil {
			return nil, fmt.Errorf("crear hoja %s: %w", SheetSites, err)
		}
		if err := writeSites(f, snap.Sites); err != nil {
			return nil, err
		}
	}
	if snap.Categories != nil {
		if err := addSheet(SheetCategories); err != nil {
			return nil, fmt.Errorf("crear hoja %s: %w", SheetCategories, err)
		}
		if err := writeCategories(f, snap.Categories); err != nil {
			return nil, err
		}
	}
	if snap.Products != nil {
		if err := addSheet(SheetProducts); err != nil {
			return nil, fmt.Errorf("crear hoja %s: %w", SheetProducts, err)
		}
		if err := writeProducts(f, snap.Products); err != nil {
			return nil, err
		}
	}
	if snap.Records != nil {
		if err := addSheet(SheetInventory); err != nil {
			return nil, fmt.Errorf("crear hoja %s: %w", SheetInventory, err)
		}
		if err := writeInventory(f, snap.Records, snap.productNames()); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("serializar libro: %w", err)
	}
	return buf.Bytes(), nil
}

func writeRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &values)
}

func headerRow(header []string) []any {
	vals := make([]any, len(header))
	for i, h := range header {
		vals[i] = h
	}
	return vals
}

func writeSites(f *excelize.File, sites []*entity.Site) error {
	if err := writeRow(f, SheetSites, 1, headerRow(siteHeader)); err != nil {
		return fmt.Errorf("escribir encabezado de sitios: %w", err)
	}
	for i, s := range sites {
		vals := []any{
			s.Number, s.Name, s.Address1, s.Address2, s.Address3, s.County,
			s.ContactName, s.ContactPhone, s.Notes,
			s.Modified.UTC().Format(timestampLayout), s.Modifier,
		}
		if err := writeRow(f, SheetSites, i+2, vals); err != nil {
			return fmt.Errorf("escribir sitio %d: %w", s.Number, err)
		}
	}
	return nil
}

func writeCategories(f *excelize.File, categories []*entity.ProductCategory) error {
	if err := writeRow(f, SheetCategories, 1, headerRow(categoryHeader)); err != nil {
		return fmt.Errorf("escribir encabezado de categorías: %w", err)
	}
	for i, c := range categories {
		if err := writeRow(f, SheetCategories, i+2, []any{c.ID, c.Category}); err != nil {
			return fmt.Errorf("escribir categoría %q: %w", c.Category, err)
		}
	}
	return nil
}

func writeProducts(f *excelize.File, products []*entity.ProductInformation) error {
	if err := writeRow(f, SheetProducts, 1, headerRow(productHeader)); err != nil {
		return fmt.Errorf("escribir encabezado de productos: %w", err)
	}
	for i, p := range products {
		expiration := ""
		if p.ExpirationDate != nil {
			expiration = p.ExpirationDate.Format(dateLayout)
		}
		vals := []any{
			p.Code, p.Name, p.Category, boolNumber(p.Expendable), p.UnitOfMeasure,
			p.QuantityOfMeasure.String(), p.CostPerItem.String(), p.CartonsPerPallet,
			boolNumber(p.DoubleStackPallets), p.WarehouseLocation, expiration,
			p.ExpirationNotes, p.Modified.UTC().Format(timestampLayout), p.Modifier,
			p.Picture, p.OriginalPictureName,
		}
		if err := writeRow(f, SheetProducts, i+2, vals); err != nil {
			return fmt.Errorf("escribir producto %q: %w", p.Code, err)
		}
	}
	return nil
}

func writeInventory(f *excelize.File, records []*entity.InventoryRecord, names map[string]string) error {
	if err := writeRow(f, SheetInventory, 1, headerRow(inventoryHeader)); err != nil {
		return fmt.Errorf("escribir encabezado de inventario: %w", err)
	}
	for i, r := range records {
		// El nombre y el prefijo son informativos; el parseo los ignora.
		vals := []any{
			r.ProductCode, names[r.ProductCode], "p", r.SiteNumber, r.Quantity,
			r.Modified.UTC().Format(timestampLayout), r.Modifier, boolNumber(r.Deleted),
		}
		if err := writeRow(f, SheetInventory, i+2, vals); err != nil {
			return fmt.Errorf("escribir registro de inventario %d: %w", r.ID, err)
		}
	}
	return nil
}

func boolNumber(b bool) int {
	if b {
		return 1
	}
	return 0
}

// --- lectura ---

func sheetRows(data []byte, sheet string, header []string) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("abrir libro: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("hoja %q no encontrada: %w", sheet, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("hoja %q vacía", sheet)
	}
	if err := checkHeader(rows[0], header); err != nil {
		return nil, fmt.Errorf("hoja %q: %w", sheet, err)
	}
	return rows[1:], nil
}

func checkHeader(got, want []string) error {
	for i, h := range want {
		cell := ""
		if i < len(got) {
			cell = strings.TrimSpace(got[i])
		}
		if cell != h {
			return fmt.Errorf("encabezado inesperado en columna %d: %q (se esperaba %q)", i+1, cell, h)
		}
	}
	return nil
}

func cell(row []string, i int) string {
	if i < len(row) {
		return strings.TrimSpace(row[i])
	}
	return ""
}

func emptyRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func parseTimestamp(s string) (time.Time, error) {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("fecha inválida %q", s)
}

func parseFlag(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "1", "true", "yes":
		return true, nil
	case "", "0", "false", "no":
		return false, nil
	}
	return false, fmt.Errorf("valor booleano inválido %q", s)
}

type rowErrors struct {
	msgs []string
}

func (e *rowErrors) addf(row int, format string, args ...any) {
	e.msgs = append(e.msgs, fmt.Sprintf("fila %d: ", row)+fmt.Sprintf(format, args...))
}

func (e *rowErrors) err() error {
	if len(e.msgs) == 0 {
		return nil
	}
	return fmt.Errorf("%s", strings.Join(e.msgs, "; "))
}

// ParseSites lee la hoja de sitios. Cualquier fila malformada invalida el
// parseo completo.
func ParseSites(data []byte) ([]*entity.Site, error) {
	rows, err := sheetRows(data, SheetSites, siteHeader)
	if err != nil {
		return nil, err
	}
	var errs rowErrors
	var sites []*entity.Site
	for i, row := range rows {
		rowNum := i + 2
		if emptyRow(row) {
			continue
		}
		number, err := strconv.Atoi(cell(row, 0))
		if err != nil {
			errs.addf(rowNum, "número de sitio inválido %q", cell(row, 0))
			continue
		}
		modified, err := parseTimestamp(cell(row, 9))
		if err != nil {
			errs.addf(rowNum, "%v", err)
			continue
		}
		sites = append(sites, &entity.Site{
			Number:       number,
			Name:         cell(row, 1),
			Address1:     cell(row, 2),
			Address2:     cell(row, 3),
			Address3:     cell(row, 4),
			County:       cell(row, 5),
			ContactName:  cell(row, 6),
			ContactPhone: cell(row, 7),
			Notes:        cell(row, 8),
			Modified:     modified,
			Modifier:     cell(row, 10),
		})
	}
	if err := errs.err(); err != nil {
		return nil, err
	}
	return sites, nil
}

// ParseCategories lee la hoja de categorías.
func ParseCategories(data []byte) ([]*entity.ProductCategory, error) {
	rows, err := sheetRows(data, SheetCategories, categoryHeader)
	if err != nil {
		return nil, err
	}
	var errs rowErrors
	var categories []*entity.ProductCategory
	for i, row := range rows {
		rowNum := i + 2
		if emptyRow(row) {
			continue
		}
		id := 0
		if raw := cell(row, 0); raw != "" {
			id, err = strconv.Atoi(raw)
			if err != nil {
				errs.addf(rowNum, "id de categoría inválido %q", raw)
				continue
			}
		}
		name := cell(row, 1)
		if name == "" {
			errs.addf(rowNum, "categoría sin etiqueta")
			continue
		}
		categories = append(categories, &entity.ProductCategory{ID: id, Category: name})
	}
	if err := errs.err(); err != nil {
		return nil, err
	}
	return categories, nil
}

// ParseProducts lee la hoja de productos.
func ParseProducts(data []byte) ([]*entity.ProductInformation, error) {
	rows, err := sheetRows(data, SheetProducts, productHeader)
	if err != nil {
		return nil, err
	}
	var errs rowErrors
	var products []*entity.ProductInformation
	for i, row := range rows {
		rowNum := i + 2
		if emptyRow(row) {
			continue
		}
		code := cell(row, 0)
		if !entity.ValidProductCode(code) {
			errs.addf(rowNum, "código de producto inválido %q", code)
			continue
		}
		expendable, err := parseFlag(cell(row, 3))
		if err != nil {
			errs.addf(rowNum, "expendable: %v", err)
			continue
		}
		qtyOfMeasure, err := decimal.NewFromString(orDefault(cell(row, 5), "1"))
		if err != nil {
			errs.addf(rowNum, "cantidad por unidad inválida %q", cell(row, 5))
			continue
		}
		cost, err := decimal.NewFromString(orDefault(cell(row, 6), "0"))
		if err != nil {
			errs.addf(rowNum, "costo inválido %q", cell(row, 6))
			continue
		}
		cartons := 0
		if raw := cell(row, 7); raw != "" {
			cartons, err = strconv.Atoi(raw)
			if err != nil {
				errs.addf(rowNum, "cartones por estiba inválido %q", raw)
				continue
			}
		}
		doubleStack, err := parseFlag(cell(row, 8))
		if err != nil {
			errs.addf(rowNum, "double stack: %v", err)
			continue
		}
		var expiration *time.Time
		if raw := cell(row, 10); raw != "" {
			t, err := parseTimestamp(raw)
			if err != nil {
				errs.addf(rowNum, "fecha de vencimiento inválida %q", raw)
				continue
			}
			expiration = &t
		}
		modified, err := parseTimestamp(cell(row, 12))
		if err != nil {
			errs.addf(rowNum, "%v", err)
			continue
		}
		products = append(products, &entity.ProductInformation{
			Code:                code,
			Name:                cell(row, 1),
			Category:            cell(row, 2),
			Expendable:          expendable,
			UnitOfMeasure:       orDefault(cell(row, 4), entity.UnitEach),
			QuantityOfMeasure:   qtyOfMeasure,
			CostPerItem:         cost,
			CartonsPerPallet:    cartons,
			DoubleStackPallets:  doubleStack,
			WarehouseLocation:   cell(row, 9),
			CanExpire:           expiration != nil,
			ExpirationDate:      expiration,
			ExpirationNotes:     cell(row, 11),
			Modified:            modified,
			Modifier:            cell(row, 13),
			Picture:             cell(row, 14),
			OriginalPictureName: cell(row, 15),
		})
	}
	if err := errs.err(); err != nil {
		return nil, err
	}
	return products, nil
}

// ParseInventory lee la hoja de inventario. Las columnas de nombre y prefijo
// son informativas y se ignoran; las filas duplicadas NO se colapsan, cada
// una es un registro del ledger.
func ParseInventory(data []byte) ([]*entity.InventoryRecord, error) {
	rows, err := sheetRows(data, SheetInventory, inventoryHeader)
	if err != nil {
		return nil, err
	}
	var errs rowErrors
	var records []*entity.InventoryRecord
	for i, row := range rows {
		rowNum := i + 2
		if emptyRow(row) {
			continue
		}
		code := cell(row, 0)
		if code == "" {
			errs.addf(rowNum, "registro sin código de producto")
			continue
		}
		siteNumber, err := strconv.Atoi(cell(row, 3))
		if err != nil {
			errs.addf(rowNum, "número de sitio inválido %q", cell(row, 3))
			continue
		}
		quantity, err := strconv.Atoi(orDefault(cell(row, 4), "0"))
		if err != nil {
			errs.addf(rowNum, "cantidad inválida %q", cell(row, 4))
			continue
		}
		if quantity < 0 {
			errs.addf(rowNum, "cantidad negativa %d", quantity)
			continue
		}
		modified, err := parseTimestamp(cell(row, 5))
		if err != nil {
			errs.addf(rowNum, "%v", err)
			continue
		}
		deleted, err := parseFlag(cell(row, 7))
		if err != nil {
			errs.addf(rowNum, "deleted: %v", err)
			continue
		}
		records = append(records, &entity.InventoryRecord{
			SiteNumber:  siteNumber,
			ProductCode: code,
			Quantity:    quantity,
			Deleted:     deleted,
			Modifier:    cell(row, 6),
			Modified:    modified,
		})
	}
	if err := errs.err(); err != nil {
		return nil, err
	}
	return records, nil
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
