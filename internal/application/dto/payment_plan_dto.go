package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/WMASewwandi/clovesis-sub003/internal/domain/entity"
)

// CreatePlanRequest body opcional de POST /api/payment-plans. InvoiceID abre el borrador
// sobre una factura existente; el envío la actualiza.
type CreatePlanRequest struct {
	InvoiceID int64 `json:"invoice_id" validate:"omitempty,gt=0"`
}

// SelectQuoteRequest body para PUT /api/payment-plans/:id/quote.
type SelectQuoteRequest struct {
	QuoteID int64 `json:"quote_id" validate:"required,gt=0"`
}

// SetStatusRequest body para PUT /api/payment-plans/:id/status (1 = Pending, 2 = Paid).
type SetStatusRequest struct {
	Status int `json:"status" validate:"required,oneof=1 2"`
}

// SetPlanTypeRequest body para PUT /api/payment-plans/:id/plan-type (2 = PartPayments, 3 = FullPayment).
type SetPlanTypeRequest struct {
	PaymentPlanType int `json:"payment_plan_type" validate:"required,oneof=2 3"`
}

// SetInitialPaymentRequest body para PUT /api/payment-plans/:id/initial-payment.
// Amount vacío o "0" quita el pago inicial; DueDate en formato 2006-01-02 o RFC3339.
type SetInitialPaymentRequest struct {
	Amount  string `json:"amount" validate:"omitempty,numeric"`
	DueDate string `json:"due_date"`
}

// EditLineRequest body para PATCH /api/payment-plans/:id/lines/:index.
type EditLineRequest struct {
	Field string `json:"field" validate:"required,oneof=description amount paymentDate paymentType isPaid"`
	Value string `json:"value"`
}

// PaymentLineResponse línea del plan en respuestas.
type PaymentLineResponse struct {
	ID             string          `json:"id"`
	Description    string          `json:"description"`
	PaymentDate    *time.Time      `json:"payment_date,omitempty"`
	Amount         decimal.Decimal `json:"amount"`
	PaymentType    int             `json:"payment_type"`
	IsPaid         bool            `json:"is_paid"`
	InitialPayment bool            `json:"is_initial_payment"`
	AutoBalance    bool            `json:"is_auto_balance"`
}

// PaymentPlanResponse borrador de plan de pagos en respuestas.
type PaymentPlanResponse struct {
	ID                    string                `json:"id"`
	InvoiceID             int64                 `json:"invoice_id,omitempty"`
	QuoteID               int64                 `json:"quote_id"`
	QuoteNumber           string                `json:"quote_number,omitempty"`
	CompanyName           string                `json:"company_name,omitempty"`
	Status                int                   `json:"status"`
	Amount                decimal.Decimal       `json:"amount"`
	Discount              decimal.Decimal       `json:"discount"`
	PaymentPlanType       int                   `json:"payment_plan_type"`
	InitialPayment        decimal.Decimal       `json:"initial_payment"`
	InitialPaymentDueDate *time.Time            `json:"initial_payment_due_date,omitempty"`
	Target                decimal.Decimal       `json:"target"`
	LinesTotal            decimal.Decimal       `json:"lines_total"`
	Lines                 []PaymentLineResponse `json:"lines"`
	UpdatedAt             time.Time             `json:"updated_at"`
}

// NewPaymentPlanResponse arma la respuesta a partir del borrador.
func NewPaymentPlanResponse(plan *entity.PaymentPlan) PaymentPlanResponse {
	lines := make([]PaymentLineResponse, 0, len(plan.Lines))
	total := decimal.Zero
	for _, l := range plan.Lines {
		total = total.Add(l.Amount)
		lines = append(lines, PaymentLineResponse{
			ID:             l.ID,
			Description:    l.Description,
			PaymentDate:    l.PaymentDate,
			Amount:         l.Amount,
			PaymentType:    int(l.PaymentType),
			IsPaid:         l.IsPaid,
			InitialPayment: l.IsInitialPayment(),
			AutoBalance:    l.IsAutoBalance(),
		})
	}
	return PaymentPlanResponse{
		ID:                    plan.ID,
		InvoiceID:             plan.InvoiceID,
		QuoteID:               plan.QuoteID,
		QuoteNumber:           plan.QuoteNumber,
		CompanyName:           plan.CompanyName,
		Status:                int(plan.Status),
		Amount:                plan.Amount,
		Discount:              plan.Discount,
		PaymentPlanType:       int(plan.PaymentPlanType),
		InitialPayment:        plan.InitialPayment,
		InitialPaymentDueDate: plan.InitialPaymentDueDate,
		Target:                plan.Target,
		LinesTotal:            total,
		Lines:                 lines,
		UpdatedAt:             plan.UpdatedAt,
	}
}

// ValidationResponse resultado de POST /api/payment-plans/:id/validate.
type ValidationResponse struct {
	Valid      bool             `json:"valid"`
	Field      string           `json:"field,omitempty"`
	Message    string           `json:"message,omitempty"`
	Difference *decimal.Decimal `json:"difference,omitempty"`
}

// SubmitResponse resultado de POST /api/payment-plans/:id/submit.
type SubmitResponse struct {
	Message string `json:"message"`
	Updated bool   `json:"updated"` // true si fue UpdateCRMInvoice
}

// QuoteResponse cotización pendiente de facturar en respuestas.
type QuoteResponse struct {
	ID          int64           `json:"id"`
	QuoteNumber string          `json:"quote_number"`
	CompanyName string          `json:"company_name"`
	SubTotal    decimal.Decimal `json:"sub_total"`
	Discount    decimal.Decimal `json:"discount"`
	Total       decimal.Decimal `json:"total"`
	LineCount   int             `json:"line_count"`
}

// NewQuoteResponse convierte la entidad para listados.
func NewQuoteResponse(q entity.Quote) QuoteResponse {
	return QuoteResponse{
		ID:          q.ID,
		QuoteNumber: q.QuoteNumber,
		CompanyName: q.CompanyName,
		SubTotal:    q.SubTotal,
		Discount:    q.Discount,
		Total:       q.Total,
		LineCount:   len(q.LineItems),
	}
}
