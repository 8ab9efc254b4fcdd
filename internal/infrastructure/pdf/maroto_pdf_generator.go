// Package pdf genera los reportes imprimibles del almacén.
//
// Layout de la página A4 del reporte de stock por categoría:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Título + nombre de la app  │  Fecha de generación   │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Categoría | Productos | Unidades | Valor | % valor   │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: productos / unidades / valor del inventario       │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strconv"
	"strings"
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
	"github.com/shopspring/decimal"

	"github.com/jhoicas/warehouse-ledger/internal/application/dto"
	"github.com/jhoicas/warehouse-ledger/internal/application/report"
)

var _ report.StockReportRenderer = (*MarotoReportGenerator)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoReportGenerator implementa report.StockReportRenderer usando Maroto v2.
type MarotoReportGenerator struct {
	appName string
}

// NewMarotoReportGenerator construye el generador.
func NewMarotoReportGenerator(appName string) *MarotoReportGenerator {
	return &MarotoReportGenerator{appName: appName}
}

// RenderStockByCategory genera el PDF y devuelve sus bytes.
func (g *MarotoReportGenerator) RenderStockByCategory(
	_ context.Context,
	rows []dto.StockByCategoryDTO,
	generatedAt time.Time,
) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Stock por categoría", true).
		WithAuthor(g.appName, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(g.appName, generatedAt))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	totals := summarize(rows)
	m.AddRows(tableHeaderRow())
	m.AddRows(tableRows(rows, totals.value)...)

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(totals))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(appName string, generatedAt time.Time) core.Row {
	return row.New(16).Add(
		col.New(8).Add(
			text.New("STOCK POR CATEGORÍA", props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New(appName, props.Text{Size: 9, Top: 9, Color: colorGray}),
		),
		col.New(4).Add(
			text.New("Generado: "+generatedAt.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 9, Color: colorGray,
			}),
		),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Categoría", 4, align.Left),
		h("Productos", 2, align.Center),
		h("Unidades", 2, align.Right),
		h("Valor", 3, align.Right),
		h("%", 1, align.Right),
	)
}

// tableRows una fila por categoría, incluidas las vacías.
func tableRows(rows []dto.StockByCategoryDTO, totalValue decimal.Decimal) []core.Row {
	out := make([]core.Row, 0, len(rows))
	for _, r := range rows {
		out = append(out, row.New(7).Add(
			col.New(4).Add(text.New(r.CategoryName, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(2).Add(text.New(strconv.Itoa(r.TotalProducts), props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(2).Add(text.New(formatThousands(strconv.FormatInt(r.TotalStock, 10)), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(3).Add(text.New("$"+FormatMoney(r.TotalValue), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(1).Add(text.New(share(r.TotalValue, totalValue), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1, Color: colorGray})),
		))
	}
	return out
}

type totals struct {
	products int
	stock    int64
	value    decimal.Decimal
}

func summarize(rows []dto.StockByCategoryDTO) totals {
	t := totals{value: decimal.Zero}
	for _, r := range rows {
		t.products += r.TotalProducts
		t.stock += r.TotalStock
		t.value = t.value.Add(r.TotalValue)
	}
	return t
}

func totalsRow(t totals) core.Row {
	label := func(s string) core.Component {
		return text.New(s, props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2})
	}
	value := func(s string) core.Component {
		return text.New(s, props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 1, Color: colorPrimary})
	}
	return row.New(8).Add(
		col.New(4).Add(label("TOTAL")),
		col.New(2).Add(text.New(strconv.Itoa(t.products), props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Center})),
		col.New(2).Add(value(formatThousands(strconv.FormatInt(t.stock, 10)))),
		col.New(3).Add(value("$"+FormatMoney(t.value))),
		col.New(1),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

// FormatMoney formatea con 2 decimales y puntos de miles: 1234.5 → "1.234,50".
func FormatMoney(d decimal.Decimal) string {
	s := d.StringFixed(2)
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")
	intPart, frac, _ := strings.Cut(s, ".")
	out := formatThousands(intPart) + "," + frac
	if neg {
		return "-" + out
	}
	return out
}

// formatThousands inserta puntos de miles en un string numérico sin decimales.
// Ej: "25000" → "25.000", "1000000" → "1.000.000"
func formatThousands(s string) string {
	n := len(s)
	if n <= 3 {
		return s
	}
	buf := make([]byte, 0, n+n/3)
	for i, c := range []byte(s) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	return string(buf)
}

func share(part, total decimal.Decimal) string {
	if total.IsZero() {
		return "0%"
	}
	return part.Div(total).Mul(decimal.NewFromInt(100)).StringFixed(0) + "%"
}
