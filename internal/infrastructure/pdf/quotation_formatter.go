// Package pdf formatea la cotización / proforma en un PDF A4 con Maroto v2.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: QUOTATION | PROFORMA INVOICE  │  N° + Fecha         │
//	│  ─────────────────────────────────────────────────────────  │
//	│  CLIENTE: Nombre / Dirección / Tel / Email                  │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Qty | Item + Material | Embellishments | Unit | Amt  │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: Total / Advance / Balance Payment                 │
//	│  FOOTER: leyenda                                            │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strings"

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
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/WMASewwandi/clovesis-sub003/internal/application/billing"
	"github.com/WMASewwandi/clovesis-sub003/internal/domain/entity"
)

var _ billing.DocumentFormatter = (*MarotoDocumentFormatter)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// ── Formatter ─────────────────────────────────────────────────────────────────

// MarotoDocumentFormatter implementa billing.DocumentFormatter usando Maroto v2.
type MarotoDocumentFormatter struct {
	issuer  string // nombre que firma el documento (APP_NAME)
	printer *message.Printer
}

// NewMarotoDocumentFormatter construye el formateador. Los montos se imprimen con
// separador de miles en inglés: 1,234.50.
func NewMarotoDocumentFormatter(issuer string) *MarotoDocumentFormatter {
	return &MarotoDocumentFormatter{
		issuer:  issuer,
		printer: message.NewPrinter(language.English),
	}
}

// FormatQuotation genera el PDF y devuelve sus bytes.
func (f *MarotoDocumentFormatter) FormatQuotation(ctx context.Context, doc entity.QuotationDocument) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(doc.Kind.Title()+" "+doc.Number, true).
		WithAuthor(f.issuer, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(f.headerRow(doc))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(customerRow(doc.Customer))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	for _, r := range f.tableLineRows(doc.Lines) {
		m.AddRows(r)
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(f.totalsRow(doc.Totals))

	m.AddRows(line.NewRow(3))
	m.AddRows(footerRow())

	out, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return out.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: tipo de documento + emisor (izq) y N° + fecha (der).
func (f *MarotoDocumentFormatter) headerRow(doc entity.QuotationDocument) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New(doc.Kind.Title(), props.Text{
				Style: fontstyle.Bold, Size: 14, Color: colorPrimary, Top: 1,
			}),
			text.New(f.issuer, props.Text{
				Size: 9, Top: 10, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("No. "+nonEmpty(doc.Number, "-"), props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 2,
			}),
			text.New("Date: "+doc.Date.Format("02/01/2006"), props.Text{
				Size: 8, Align: align.Right, Top: 10, Color: colorGray,
			}),
		),
	)
}

// customerRow: bloque del cliente.
func customerRow(c entity.DocumentCustomer) core.Row {
	return row.New(20).Add(
		col.New(12).Add(
			text.New("CUSTOMER", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(nonEmpty(c.Name, "-"), props.Text{
				Style: fontstyle.Bold, Size: 10, Top: 6,
			}),
			text.New(nonEmpty(c.Address, "-"), props.Text{Size: 8, Top: 11, Color: colorGray}),
			text.New(fmt.Sprintf("Tel: %s   |   Email: %s",
				nonEmpty(c.Phone, "-"),
				nonEmpty(c.Email, "-"),
			), props.Text{Size: 8, Top: 15, Color: colorGray}),
		),
	)
}

// tableHeaderRow: cabecera de la tabla de líneas.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Qty", 1, align.Center),
		h("Item", 4, align.Left),
		h("Embellishments", 3, align.Left),
		h("Unit Price", 2, align.Right),
		h("Amount", 2, align.Right),
	)
}

// tableLineRows: una fila por línea; la altura crece con la cantidad de acabados.
func (f *MarotoDocumentFormatter) tableLineRows(lines []entity.DocumentLine) []core.Row {
	result := make([]core.Row, 0, len(lines))
	for _, l := range lines {
		embellishments := splitLines(l.Embellishments)
		height := 11.0
		if h := 4.0*float64(len(embellishments)) + 3; h > height {
			height = h
		}

		embCol := col.New(3)
		for i, e := range embellishments {
			embCol.Add(text.New(e, props.Text{Size: 7.5, Top: 1 + 4*float64(i), Left: 1}))
		}

		result = append(result, row.New(height).Add(
			col.New(1).Add(text.New(
				l.Quantity.String(),
				props.Text{Size: 8, Align: align.Center, Top: 1},
			)),
			col.New(4).Add(
				text.New(nonEmpty(l.Label, "-"), props.Text{Size: 8, Top: 1, Left: 1}),
				text.New(l.Material, props.Text{Size: 7, Top: 5, Left: 1, Color: colorGray}),
			),
			embCol,
			col.New(2).Add(text.New(
				f.formatMoney(l.UnitPrice),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
			col.New(2).Add(text.New(
				f.formatMoney(l.Amount),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
		))
	}
	return result
}

// totalsRow: bloque de totales alineado a la derecha.
func (f *MarotoDocumentFormatter) totalsRow(t entity.DocumentTotals) core.Row {
	label := func(s string, top float64) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2, Top: top,
		})
	}
	value := func(s string, top float64) core.Component {
		return text.New(s, props.Text{Size: 9, Align: align.Right, Right: 1, Top: top})
	}

	return row.New(22).Add(
		col.New(6), // espacio izquierdo
		col.New(3).Add(
			label("Total:", 1),
			label("Advance:", 7),
			text.New("Balance Payment:", props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right,
				Color: colorPrimary, Right: 2, Top: 13,
			}),
		),
		col.New(3).Add(
			value(f.formatMoney(t.Total), 1),
			value(f.formatMoney(t.Advance), 7),
			text.New(f.formatMoney(t.Balance), props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right,
				Color: colorPrimary, Right: 1, Top: 13,
			}),
		),
	)
}

func footerRow() core.Row {
	return row.New(8).Add(col.New(12).Add(
		text.New("This is a computer generated document and does not require a signature.",
			props.Text{Size: 7, Color: colorGray, Top: 2, Align: align.Center},
		),
	))
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if strings.TrimSpace(s) != "" {
		return s
	}
	return fallback
}

// formatMoney monto con separador de miles y 2 decimales. Ej: 1234.5 → "1,234.50".
func (f *MarotoDocumentFormatter) formatMoney(d decimal.Decimal) string {
	return f.printer.Sprint(number.Decimal(d.Round(2).InexactFloat64(), number.Scale(2)))
}

func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}
