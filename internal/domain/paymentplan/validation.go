package paymentplan

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/WMASewwandi/clovesis-sub003/internal/domain"
	"github.com/WMASewwandi/clovesis-sub003/internal/domain/entity"
)

// ValidationError primera regla incumplida del plan. Message es apto para mostrar al usuario.
type ValidationError struct {
	Field      string
	Message    string
	Difference decimal.Decimal // solo para el descuadre de totales: Σ líneas − objetivo
}

func (e *ValidationError) Error() string { return e.Message }

// Unwrap permite errors.Is(err, domain.ErrValidation).
func (e *ValidationError) Unwrap() error { return domain.ErrValidation }

func invalid(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// Validate revisa el plan antes del envío. Devuelve solo la primera regla incumplida.
func Validate(plan *entity.PaymentPlan) error {
	if plan == nil {
		return invalid("plan", "Payment plan is empty.")
	}
	if plan.QuoteID <= 0 {
		return invalid("quoteId", "Please select a quote.")
	}
	if !plan.Status.Valid() {
		return invalid("status", "Please select an invoice status.")
	}
	if plan.Amount.IsNegative() {
		return invalid("amount", "Amount cannot be negative.")
	}
	if plan.Discount.IsNegative() {
		return invalid("discount", "Discount cannot be negative.")
	}
	if !plan.PaymentPlanType.Valid() {
		return invalid("paymentPlanType", "Please select a payment plan type.")
	}
	if !plan.InitialPayment.IsPositive() {
		return invalid("initialPayment", "Initial payment is required and must be greater than zero.")
	}
	if plan.InitialPaymentDueDate == nil {
		return invalid("initialPaymentDueDate", "Initial payment due date is required.")
	}
	forcePaid := plan.Status == entity.InvoiceStatusPaid
	for i, l := range plan.Lines {
		n := i + 1
		if strings.TrimSpace(l.Description) == "" {
			return invalid(lineField(i, "description"), "Line %d: description is required.", n)
		}
		if !l.Amount.IsPositive() {
			return invalid(lineField(i, "amount"), "Line %d: amount must be greater than zero.", n)
		}
		if !l.IsPaid && !forcePaid {
			continue
		}
		if l.PaymentDate == nil {
			return invalid(lineField(i, "paymentDate"), "Line %d: payment date is required for paid lines.", n)
		}
		if !l.PaymentType.Valid() {
			return invalid(lineField(i, "paymentType"), "Line %d: payment type is required for paid lines.", n)
		}
	}

	// Con las reglas por línea cumplidas solo falla con una lista vacía.
	if !hasValidLine(plan.Lines) {
		return invalid("lines", "At least one payment line with a description and an amount is required.")
	}

	sum := SumLines(plan.Lines)
	diff := sum.Sub(plan.Target)
	if diff.Abs().GreaterThan(Epsilon) {
		verr := &ValidationError{Field: "lines", Difference: diff}
		if diff.IsNegative() {
			verr.Message = fmt.Sprintf("Payment lines total %s, which is %s less than the invoice total of %s.",
				sum.StringFixed(2), diff.Abs().StringFixed(2), plan.Target.StringFixed(2))
		} else {
			verr.Message = fmt.Sprintf("Payment lines total %s, which is %s more than the invoice total of %s.",
				sum.StringFixed(2), diff.StringFixed(2), plan.Target.StringFixed(2))
		}
		return verr
	}
	return nil
}

func hasValidLine(lines []entity.PaymentLine) bool {
	for _, l := range lines {
		if l.Amount.IsPositive() && strings.TrimSpace(l.Description) != "" {
			return true
		}
	}
	return false
}

func lineField(i int, name string) string {
	return fmt.Sprintf("lines[%d].%s", i, name)
}
