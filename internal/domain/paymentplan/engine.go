// Package paymentplan contiene el motor de conciliación de líneas de un plan de pagos.
//
// El motor mantiene la suma de las líneas igual al total objetivo (el total de la
// cotización) insertando y actualizando dos líneas sintéticas:
//
//	┌───────────────────────────────────────────────┐
//	│ Initial Payment     (LineKindInitialPayment)  │  ← espejo del pago inicial
//	│ ...líneas del usuario (LineKindUser)          │
//	│ Second Payment      (LineKindAutoBalance)     │  ← objetivo − Σ(no automáticas)
//	└───────────────────────────────────────────────┘
//
// Todas las operaciones son copy-on-write: nunca modifican el slice de entrada.
package paymentplan

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/WMASewwandi/clovesis-sub003/internal/domain"
	"github.com/WMASewwandi/clovesis-sub003/internal/domain/entity"
)

// InitialPaymentLabel descripción fija de la línea de pago inicial.
const InitialPaymentLabel = "Initial Payment"

// Epsilon tolerancia de redondeo (un centavo) para saldos y validación.
var Epsilon = decimal.New(1, -2)

// LineField campo editable de una línea.
type LineField string

const (
	FieldDescription LineField = "description"
	FieldAmount      LineField = "amount"
	FieldPaymentDate LineField = "paymentDate"
	FieldPaymentType LineField = "paymentType"
	FieldIsPaid      LineField = "isPaid"
)

// ParseLineField valida el nombre de campo recibido del cliente.
func ParseLineField(s string) (LineField, error) {
	switch f := LineField(s); f {
	case FieldDescription, FieldAmount, FieldPaymentDate, FieldPaymentType, FieldIsPaid:
		return f, nil
	}
	return "", fmt.Errorf("%w: campo de línea desconocido %q", domain.ErrInvalidInput, s)
}

// newLineID genera identificadores de línea del lado cliente. Variable para tests.
var newLineID = func() string { return uuid.New().String() }

// BlankLine crea una línea de usuario vacía.
func BlankLine() entity.PaymentLine {
	return entity.PaymentLine{ID: newLineID(), Kind: entity.LineKindUser}
}

// BalanceLabel etiqueta de la línea de saldo según cuántas líneas no automáticas la preceden.
func BalanceLabel(preceding int) string {
	switch preceding {
	case 1:
		return "Second Payment"
	case 2:
		return "Third Payment"
	default:
		return "Payment " + strconv.Itoa(preceding+1)
	}
}

// SetInitialPayment sincroniza la línea de pago inicial con el monto y la fecha de la factura.
//
// Con monto > 0 actualiza (o antepone) la línea "Initial Payment" y recalcula el saldo.
// Con monto <= 0 elimina la línea de pago inicial y la de saldo; no agrega ninguna otra.
// Las líneas del usuario no se tocan.
func SetInitialPayment(
	lines []entity.PaymentLine,
	amount decimal.Decimal,
	dueDate *time.Time,
	status entity.InvoiceStatus,
	subtotal decimal.Decimal,
) []entity.PaymentLine {
	if !amount.IsPositive() {
		out := make([]entity.PaymentLine, 0, len(lines))
		for _, l := range lines {
			if l.Kind == entity.LineKindUser {
				out = append(out, l)
			}
		}
		return ensureNotEmpty(out)
	}

	out := cloneLines(lines)
	paid := status == entity.InvoiceStatusPaid
	if idx := indexOfKind(out, entity.LineKindInitialPayment); idx >= 0 {
		out[idx].Description = InitialPaymentLabel
		out[idx].Amount = amount
		out[idx].PaymentDate = dueDate
		out[idx].IsPaid = paid
		return RecomputeBalance(out, subtotal)
	}

	// El renglón vacío con el que abre el formulario es un marcador, no una línea del usuario.
	if len(out) == 1 && isPristine(out[0]) {
		out = out[:0]
	}
	initial := entity.PaymentLine{
		ID:          newLineID(),
		Kind:        entity.LineKindInitialPayment,
		Description: InitialPaymentLabel,
		Amount:      amount,
		PaymentDate: dueDate,
		IsPaid:      paid,
	}
	out = append([]entity.PaymentLine{initial}, out...)
	return RecomputeBalance(out, subtotal)
}

// RecomputeBalance descarta la línea de saldo existente y, si el restante contra subtotal
// supera Epsilon, agrega al final una nueva con el restante redondeado a 2 decimales.
// Reutiliza el ID de la línea de saldo anterior, por lo que es idempotente.
func RecomputeBalance(lines []entity.PaymentLine, subtotal decimal.Decimal) []entity.PaymentLine {
	out := make([]entity.PaymentLine, 0, len(lines)+1)
	balanceID := ""
	total := decimal.Zero
	for _, l := range lines {
		if l.Kind == entity.LineKindAutoBalance {
			if balanceID == "" {
				balanceID = l.ID
			}
			continue
		}
		out = append(out, l)
		total = total.Add(l.Amount)
	}

	remainder := subtotal.Sub(total)
	if remainder.GreaterThan(Epsilon) {
		if balanceID == "" {
			balanceID = newLineID()
		}
		out = append(out, entity.PaymentLine{
			ID:          balanceID,
			Kind:        entity.LineKindAutoBalance,
			Description: BalanceLabel(len(out)),
			Amount:      remainder.Round(2),
		})
	}
	return ensureNotEmpty(out)
}

// EditLine aplica la edición de un campo sobre la línea index.
//
// Editar monto o descripción de la línea de saldo la convierte en línea del usuario antes
// de aplicar el cambio, para que el motor no sobrescriba lo que el usuario acaba de escribir.
// Un cambio de monto fuera de la línea de pago inicial recalcula el saldo.
// Ante error devuelve lines sin cambios.
func EditLine(
	lines []entity.PaymentLine,
	index int,
	field LineField,
	value string,
	subtotal decimal.Decimal,
) ([]entity.PaymentLine, error) {
	if index < 0 || index >= len(lines) {
		return lines, fmt.Errorf("%w: índice %d", domain.ErrLineNotFound, index)
	}

	out := cloneLines(lines)
	line := &out[index]
	if line.Kind == entity.LineKindAutoBalance && (field == FieldAmount || field == FieldDescription) {
		line.Kind = entity.LineKindUser
	}

	switch field {
	case FieldDescription:
		line.Description = value
	case FieldAmount:
		amount, err := ParseAmount(value)
		if err != nil {
			return lines, err
		}
		line.Amount = amount
	case FieldPaymentDate:
		date, err := ParseDate(value)
		if err != nil {
			return lines, err
		}
		line.PaymentDate = date
	case FieldPaymentType:
		pt, err := ParsePaymentType(value)
		if err != nil {
			return lines, err
		}
		line.PaymentType = pt
	case FieldIsPaid:
		paid, err := strconv.ParseBool(strings.TrimSpace(value))
		if err != nil {
			return lines, fmt.Errorf("%w: isPaid %q", domain.ErrInvalidInput, value)
		}
		line.IsPaid = paid
	default:
		return lines, fmt.Errorf("%w: campo de línea desconocido %q", domain.ErrInvalidInput, field)
	}

	if field == FieldAmount && line.Kind != entity.LineKindInitialPayment {
		return RecomputeBalance(out, subtotal), nil
	}
	return out, nil
}

// AddLine quita la línea de saldo, agrega una línea vacía y, con pago inicial activo,
// vuelve a calcular el saldo para que quede detrás de la línea nueva.
func AddLine(lines []entity.PaymentLine, initialPayment, subtotal decimal.Decimal) []entity.PaymentLine {
	out := make([]entity.PaymentLine, 0, len(lines)+1)
	for _, l := range lines {
		if l.Kind != entity.LineKindAutoBalance {
			out = append(out, l)
		}
	}
	out = append(out, BlankLine())
	if initialPayment.IsPositive() {
		return RecomputeBalance(out, subtotal)
	}
	return out
}

// RemoveLine elimina la línea index.
//
// Se rechaza (devolviendo lines sin cambios) si es la única línea o si es la línea de pago
// inicial con monto > 0. Con pago inicial activo recalcula el saldo tras eliminar.
func RemoveLine(
	lines []entity.PaymentLine,
	index int,
	initialPayment, subtotal decimal.Decimal,
) ([]entity.PaymentLine, error) {
	if index < 0 || index >= len(lines) {
		return lines, fmt.Errorf("%w: índice %d", domain.ErrLineNotFound, index)
	}
	if len(lines) == 1 {
		return lines, domain.ErrLastLine
	}
	if target := lines[index]; target.IsInitialPayment() && target.Amount.IsPositive() {
		return lines, domain.ErrInitialPaymentLocked
	}

	out := make([]entity.PaymentLine, 0, len(lines)-1)
	out = append(out, lines[:index]...)
	out = append(out, lines[index+1:]...)
	if initialPayment.IsPositive() {
		return RecomputeBalance(out, subtotal), nil
	}
	return ensureNotEmpty(out), nil
}

// ApplyStatus con estado Paid marca todas las líneas como pagadas.
func ApplyStatus(lines []entity.PaymentLine, status entity.InvoiceStatus) []entity.PaymentLine {
	out := cloneLines(lines)
	if status != entity.InvoiceStatusPaid {
		return out
	}
	for i := range out {
		out[i].IsPaid = true
	}
	return out
}

// SumLines suma los montos de todas las líneas.
func SumLines(lines []entity.PaymentLine) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.Amount)
	}
	return total
}

// ── parsing de valores de formulario ──────────────────────────────────────────

// ParseAmount interpreta un monto del formulario. Vacío = 0; negativo o no numérico = error.
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: monto %q", domain.ErrInvalidInput, s)
	}
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: monto negativo %q", domain.ErrInvalidInput, s)
	}
	return d, nil
}

// ParseDate acepta "2006-01-02" o RFC3339. Vacío = sin fecha.
func ParseDate(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return &t, nil
		}
	}
	return nil, fmt.Errorf("%w: fecha %q", domain.ErrInvalidInput, s)
}

// ParsePaymentType interpreta el código numérico del medio de pago. Vacío = sin seleccionar.
func ParsePaymentType(s string) (entity.PaymentType, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return entity.PaymentTypeNone, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return entity.PaymentTypeNone, fmt.Errorf("%w: medio de pago %q", domain.ErrInvalidInput, s)
	}
	pt := entity.PaymentType(n)
	if pt != entity.PaymentTypeNone && !pt.Valid() {
		return entity.PaymentTypeNone, fmt.Errorf("%w: medio de pago %d", domain.ErrInvalidInput, n)
	}
	return pt, nil
}

// ── helpers ───────────────────────────────────────────────────────────────────

func cloneLines(lines []entity.PaymentLine) []entity.PaymentLine {
	out := make([]entity.PaymentLine, len(lines))
	copy(out, lines)
	return out
}

func indexOfKind(lines []entity.PaymentLine, kind entity.LineKind) int {
	for i, l := range lines {
		if l.Kind == kind {
			return i
		}
	}
	return -1
}

// ensureNotEmpty garantiza al menos una línea en la lista.
func ensureNotEmpty(lines []entity.PaymentLine) []entity.PaymentLine {
	if len(lines) == 0 {
		return []entity.PaymentLine{BlankLine()}
	}
	return lines
}

func isPristine(l entity.PaymentLine) bool {
	return l.Kind == entity.LineKindUser &&
		strings.TrimSpace(l.Description) == "" &&
		l.Amount.IsZero() &&
		l.PaymentDate == nil &&
		l.PaymentType == entity.PaymentTypeNone &&
		!l.IsPaid
}
