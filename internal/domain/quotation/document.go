package quotation

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/WMASewwandi/clovesis-sub003/internal/domain/entity"
)

// BuildDocument proyecta una cotización en el documento que consume el formateador.
// El saldo es total − anticipo y nunca baja de cero.
func BuildDocument(
	kind entity.DocumentKind,
	quote entity.Quote,
	customer entity.DocumentCustomer,
	advance decimal.Decimal,
	date time.Time,
) entity.QuotationDocument {
	if kind != entity.DocumentKindProforma {
		kind = entity.DocumentKindQuotation
	}
	if strings.TrimSpace(customer.Name) == "" {
		customer.Name = quote.CompanyName
	}

	lines := make([]entity.DocumentLine, 0, len(quote.LineItems))
	for _, item := range quote.LineItems {
		amount := item.TotalPrice
		if amount.IsZero() {
			amount = item.Quantity.Mul(item.UnitPrice)
		}
		lines = append(lines, entity.DocumentLine{
			Quantity:       item.Quantity,
			Label:          lineLabel(item),
			Material:       item.Material,
			Embellishments: FormatEmbellishments(item.Embellishments),
			UnitPrice:      item.UnitPrice.Round(2),
			Amount:         amount.Round(2),
		})
	}

	total := quote.Total.Round(2)
	if advance.IsNegative() {
		advance = decimal.Zero
	}
	balance := total.Sub(advance)
	if balance.IsNegative() {
		balance = decimal.Zero
	}

	return entity.QuotationDocument{
		Kind:     kind,
		Number:   quote.QuoteNumber,
		Date:     date,
		Customer: customer,
		Lines:    lines,
		Totals: entity.DocumentTotals{
			Total:   total,
			Advance: advance.Round(2),
			Balance: balance.Round(2),
		},
	}
}

// lineLabel "Categoría - Prenda", omitiendo la parte vacía.
func lineLabel(item entity.QuoteLineItem) string {
	parts := make([]string, 0, 2)
	for _, p := range []string{item.CategoryName, item.ItemName} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " - ")
}
