package dto

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"github.com/WMASewwandi/clovesis-sub003/internal/domain/entity"
)

// ── Formato del backend CRM ───────────────────────────────────────────────────

// BackendEnvelope sobre de respuesta del backend: {result, message, statusCode}.
// Result queda crudo para decodificarlo estrictamente según el endpoint.
type BackendEnvelope struct {
	Result     json.RawMessage `json:"result"`
	Message    string          `json:"message,omitempty"`
	StatusCode int             `json:"statusCode,omitempty"`
}

// HasResult indica si el campo result vino y no es null.
func (e BackendEnvelope) HasResult() bool {
	return len(e.Result) > 0 && string(e.Result) != "null"
}

// BackendMessage respuesta de CreateCRMInvoice / UpdateCRMInvoice.
type BackendMessage struct {
	Message    string `json:"message"`
	StatusCode int    `json:"statusCode,omitempty"`
}

// QuoteDTO cotización tal como la devuelve GetCRMQuotesWithoutInvoice.
type QuoteDTO struct {
	ID          int64              `json:"id"`
	QuoteNumber string             `json:"quoteNumber"`
	CompanyName string             `json:"companyName"`
	SubTotal    decimal.Decimal    `json:"subTotal"`
	Discount    decimal.Decimal    `json:"discount"`
	Total       decimal.Decimal    `json:"total"`
	LineItems   []QuoteLineItemDTO `json:"lineItems"`
}

// QuoteLineItemDTO línea de cotización del backend.
type QuoteLineItemDTO struct {
	ID             int64           `json:"id"`
	CategoryName   string          `json:"categoryName"`
	ItemName       string          `json:"itemName"`
	Material       string          `json:"material"`
	Quantity       decimal.Decimal `json:"quantity"`
	UnitPrice      decimal.Decimal `json:"unitPrice"`
	TotalPrice     decimal.Decimal `json:"totalPrice"`
	Embellishments []int           `json:"embellishments"`
}

// ToEntity convierte la cotización del backend a la entidad de dominio.
func (q QuoteDTO) ToEntity() entity.Quote {
	items := make([]entity.QuoteLineItem, 0, len(q.LineItems))
	for _, it := range q.LineItems {
		items = append(items, entity.QuoteLineItem{
			ID:             it.ID,
			CategoryName:   it.CategoryName,
			ItemName:       it.ItemName,
			Material:       it.Material,
			Quantity:       it.Quantity,
			UnitPrice:      it.UnitPrice,
			TotalPrice:     it.TotalPrice,
			Embellishments: it.Embellishments,
		})
	}
	return entity.Quote{
		ID:          q.ID,
		QuoteNumber: q.QuoteNumber,
		CompanyName: q.CompanyName,
		SubTotal:    q.SubTotal,
		Discount:    q.Discount,
		Total:       q.Total,
		LineItems:   items,
	}
}

// ── Payload de persistencia de factura ────────────────────────────────────────

// InvoicePayload body de CreateCRMInvoice / UpdateCRMInvoice.
// Montos como números JSON redondeados a 2 decimales.
type InvoicePayload struct {
	ID                    int64                `json:"Id,omitempty"` // solo en UpdateCRMInvoice
	QuoteID               int64                `json:"QuoteId"`
	Status                int                  `json:"Status"`
	Amount                float64              `json:"Amount"`
	Discount              float64              `json:"Discount"`
	PaymentPlanType       int                  `json:"PaymentPlanType"`
	InitialPayment        float64              `json:"InitialPayment"`
	InitialPaymentDueDate *string              `json:"InitialPaymentDueDate"`
	InvoiceLines          []InvoiceLinePayload `json:"InvoiceLines"`
}

// InvoiceLinePayload línea del plan en el payload. PaymentType nil = sin seleccionar.
type InvoiceLinePayload struct {
	Description string  `json:"Description"`
	PaymentDate *string `json:"PaymentDate"`
	Amount      float64 `json:"Amount"`
	PaymentType *int    `json:"PaymentType"`
	IsPaid      bool    `json:"IsPaid"`
}

// NewInvoicePayload serializa el plan para el backend. Las marcas de tipo de línea
// (pago inicial / saldo automático) son estado del editor y no viajan.
func NewInvoicePayload(plan *entity.PaymentPlan) InvoicePayload {
	lines := make([]InvoiceLinePayload, 0, len(plan.Lines))
	for _, l := range plan.Lines {
		line := InvoiceLinePayload{
			Description: l.Description,
			PaymentDate: isoDate(l.PaymentDate),
			Amount:      money(l.Amount),
			IsPaid:      l.IsPaid,
		}
		if l.PaymentType != entity.PaymentTypeNone {
			pt := int(l.PaymentType)
			line.PaymentType = &pt
		}
		lines = append(lines, line)
	}
	return InvoicePayload{
		ID:                    plan.InvoiceID,
		QuoteID:               plan.QuoteID,
		Status:                int(plan.Status),
		Amount:                money(plan.Amount),
		Discount:              money(plan.Discount),
		PaymentPlanType:       int(plan.PaymentPlanType),
		InitialPayment:        money(plan.InitialPayment),
		InitialPaymentDueDate: isoDate(plan.InitialPaymentDueDate),
		InvoiceLines:          lines,
	}
}

func money(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}

func isoDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.UTC().Format(time.RFC3339)
	return &s
}

// ── Subida de documentos ──────────────────────────────────────────────────────

// DocumentUploadRequest campos del multipart de /AWS/DocumentUpload.
type DocumentUploadRequest struct {
	File                   []byte
	FileName               string
	InquiryID              string
	InqCode                string
	DocumentType           string
	DocumentContentType    string
	DocumentSubContentType string
}
