package paymentplan

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/WMASewwandi/clovesis-sub003/internal/domain"
	"github.com/WMASewwandi/clovesis-sub003/internal/domain/entity"
)

// NewPlan crea un plan en blanco: estado Pending y una sola línea vacía.
func NewPlan(now time.Time) *entity.PaymentPlan {
	return &entity.PaymentPlan{
		ID:        uuid.New().String(),
		Status:    entity.InvoiceStatusPending,
		Lines:     []entity.PaymentLine{BlankLine()},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Form es el formulario abierto sobre un plan: dueño exclusivo de sus líneas mientras dura
// la edición. Cada método deja las líneas en un estado consistente.
type Form struct {
	plan *entity.PaymentPlan
}

// NewForm envuelve un plan existente (por ejemplo, un borrador recuperado).
func NewForm(plan *entity.PaymentPlan) *Form {
	plan.Lines = ensureNotEmpty(plan.Lines)
	return &Form{plan: plan}
}

// Plan devuelve el plan subyacente.
func (f *Form) Plan() *entity.PaymentPlan { return f.plan }

// SelectQuote toma montos y objetivo de la cotización y recalcula el saldo si hay pago inicial.
func (f *Form) SelectQuote(q entity.Quote) {
	f.plan.QuoteID = q.ID
	f.plan.QuoteNumber = q.QuoteNumber
	f.plan.CompanyName = q.CompanyName
	f.plan.Amount = q.SubTotal
	f.plan.Discount = q.Discount
	f.plan.Target = q.Total
	if f.plan.InitialPayment.IsPositive() {
		f.setLines(RecomputeBalance(f.plan.Lines, f.plan.Target))
	}
}

// SetStatus cambia el estado de la factura. Paid fuerza todas las líneas como pagadas.
func (f *Form) SetStatus(s entity.InvoiceStatus) error {
	if !s.Valid() {
		return fmt.Errorf("%w: estado %d", domain.ErrInvalidInput, s)
	}
	f.plan.Status = s
	lines := cloneLines(f.plan.Lines)
	if idx := indexOfKind(lines, entity.LineKindInitialPayment); idx >= 0 {
		lines[idx].IsPaid = s == entity.InvoiceStatusPaid
	}
	f.setLines(lines)
	return nil
}

// SetPaymentPlanType selecciona el tipo de plan.
func (f *Form) SetPaymentPlanType(t entity.PaymentPlanType) error {
	if !t.Valid() {
		return fmt.Errorf("%w: tipo de plan %d", domain.ErrInvalidInput, t)
	}
	f.plan.PaymentPlanType = t
	return nil
}

// SetInitialPayment guarda el pago inicial de la factura y sincroniza sus líneas sintéticas.
func (f *Form) SetInitialPayment(amount decimal.Decimal, dueDate *time.Time) {
	f.plan.InitialPayment = amount
	f.plan.InitialPaymentDueDate = dueDate
	f.setLines(SetInitialPayment(f.plan.Lines, amount, dueDate, f.plan.Status, f.plan.Target))
}

// EditLine edita un campo de una línea. La línea de pago inicial refleja la cabecera:
// editar su monto o su fecha actualiza InitialPayment / InitialPaymentDueDate del plan.
func (f *Form) EditLine(index int, field LineField, value string) error {
	lines, err := EditLine(f.plan.Lines, index, field, value, f.plan.Target)
	if err != nil {
		return err
	}
	if edited := lines[index]; edited.Kind == entity.LineKindInitialPayment {
		switch field {
		case FieldAmount:
			f.plan.InitialPayment = edited.Amount
		case FieldPaymentDate:
			f.plan.InitialPaymentDueDate = edited.PaymentDate
		}
	}
	f.setLines(lines)
	return nil
}

// AddLine agrega una línea vacía.
func (f *Form) AddLine() {
	f.setLines(AddLine(f.plan.Lines, f.plan.InitialPayment, f.plan.Target))
}

// RemoveLine elimina una línea; ErrLastLine / ErrInitialPaymentLocked dejan el plan intacto.
func (f *Form) RemoveLine(index int) error {
	lines, err := RemoveLine(f.plan.Lines, index, f.plan.InitialPayment, f.plan.Target)
	if err != nil {
		return err
	}
	f.setLines(lines)
	return nil
}

// Validate valida el plan completo antes del envío.
func (f *Form) Validate() error { return Validate(f.plan) }

func (f *Form) setLines(lines []entity.PaymentLine) {
	f.plan.Lines = ApplyStatus(lines, f.plan.Status)
}
