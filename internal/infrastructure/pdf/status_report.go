// Package pdf genera el reporte imprimible de estado de inventario.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Título + fecha de generación                        │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Código | Producto | Categoría | Sitios | Cartones |  │
//	│         Cantidad extendida                                   │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: cartones y productos con existencias               │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"fmt"
	"strconv"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jhoicas/Suministros-api/internal/domain/ledger"
)

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// StatusReportGenerator implementa reports.PDFGenerator usando Maroto v2.
type StatusReportGenerator struct{}

// NewStatusReportGenerator construye el generador.
func NewStatusReportGenerator() *StatusReportGenerator { return &StatusReportGenerator{} }

// GenerateStatusPDF genera el reporte consolidado y devuelve sus bytes.
func (g *StatusReportGenerator) GenerateStatusPDF(status []*ledger.ProductStatus, generatedAt time.Time) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Estado de Inventario", true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(generatedAt))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(tableHeaderRow())
	for _, r := range tableRows(status) {
		m.AddRows(r)
	}
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(status))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

func headerRow(generatedAt time.Time) core.Row {
	return row.New(14).Add(
		col.New(8).Add(
			text.New("ESTADO DE INVENTARIO", props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Consolidado por producto en todos los sitios", props.Text{
				Size: 8, Top: 9, Color: colorGray,
			}),
		),
		col.New(4).Add(
			text.New("Generado: "+generatedAt.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 2, Color: colorGray,
			}),
		),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Código", 2, align.Left),
		h("Producto", 4, align.Left),
		h("Categoría", 2, align.Left),
		h("Sitios", 1, align.Center),
		h("Cartones", 1, align.Right),
		h("Cant. ext.", 2, align.Right),
	)
}

func tableRows(status []*ledger.ProductStatus) []core.Row {
	result := make([]core.Row, 0, len(status))
	for _, st := range status {
		name, category := "", ""
		code := st.Code
		if st.Product != nil {
			name = st.Product.Name
			category = st.Product.Category
			// Los códigos autogenerados no aportan en un reporte impreso.
			if st.Product.CodeIsGenerated() {
				code = "(auto)"
			}
		}
		result = append(result, row.New(6).Add(
			col.New(2).Add(text.New(code, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(4).Add(text.New(name, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(2).Add(text.New(category, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(1).Add(text.New(strconv.Itoa(len(st.Sites)), props.Text{
				Size: 8, Align: align.Center, Top: 1,
			})),
			col.New(1).Add(text.New(strconv.Itoa(st.TotalQuantity), props.Text{
				Size: 8, Align: align.Right, Top: 1, Right: 1,
			})),
			col.New(2).Add(text.New(st.ExtendedQuantity.StringFixed(2), props.Text{
				Size: 8, Align: align.Right, Top: 1, Right: 1,
			})),
		))
	}
	return result
}

func totalsRow(status []*ledger.ProductStatus) core.Row {
	totalCartons := 0
	for _, st := range status {
		totalCartons += st.TotalQuantity
	}
	return row.New(10).Add(
		col.New(8).Add(text.New(
			fmt.Sprintf("%d productos con existencias", len(status)), props.Text{
				Style: fontstyle.Bold, Size: 9, Top: 2, Left: 1, Color: colorPrimary,
			},
		)),
		col.New(4).Add(text.New(
			fmt.Sprintf("Total cartones: %d", totalCartons), props.Text{
				Style: fontstyle.Bold, Size: 9, Align: align.Right, Top: 2,
				Right: 1, Color: colorPrimary,
			},
		)),
	)
}
