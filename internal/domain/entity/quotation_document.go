package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// DocumentKind tipo de documento imprimible.
type DocumentKind string

const (
	DocumentKindQuotation DocumentKind = "quotation"
	DocumentKindProforma  DocumentKind = "proforma"
)

// Title texto de cabecera del documento.
func (k DocumentKind) Title() string {
	if k == DocumentKindProforma {
		return "PROFORMA INVOICE"
	}
	return "QUOTATION"
}

// DocumentCustomer bloque de cliente del documento.
type DocumentCustomer struct {
	Name    string
	Address string
	Phone   string
	Email   string
}

// DocumentLine línea con precio ya formateada para imprimir.
type DocumentLine struct {
	Quantity       decimal.Decimal
	Label          string // categoría / prenda
	Material       string
	Embellishments string // lista numerada, ver quotation.FormatEmbellishments
	UnitPrice      decimal.Decimal
	Amount         decimal.Decimal
}

// DocumentTotals totales del pie del documento.
type DocumentTotals struct {
	Total   decimal.Decimal
	Advance decimal.Decimal
	Balance decimal.Decimal
}

// QuotationDocument proyección de solo lectura que consume el formateador de documentos.
type QuotationDocument struct {
	Kind     DocumentKind
	Number   string
	Date     time.Time
	Customer DocumentCustomer
	Lines    []DocumentLine
	Totals   DocumentTotals
}
