package entity

import "github.com/shopspring/decimal"

// Quote cotización del CRM que aún no tiene factura asociada.
type Quote struct {
	ID          int64
	QuoteNumber string
	CompanyName string
	SubTotal    decimal.Decimal
	Discount    decimal.Decimal
	Total       decimal.Decimal
	LineItems   []QuoteLineItem
}

// QuoteLineItem línea con precio de una cotización (prenda, material y acabados).
type QuoteLineItem struct {
	ID             int64
	CategoryName   string
	ItemName       string
	Material       string
	Quantity       decimal.Decimal
	UnitPrice      decimal.Decimal
	TotalPrice     decimal.Decimal
	Embellishments []int // códigos EmbellishmentType
}

// EmbellishmentType códigos de acabado/decoración de una prenda.
type EmbellishmentType int

const (
	EmbellishmentEmbroider   EmbellishmentType = 1
	EmbellishmentSublimation EmbellishmentType = 2
	EmbellishmentScreenPrint EmbellishmentType = 3
	EmbellishmentDTF         EmbellishmentType = 4
)
