package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceStatus estado de la factura / plan de pagos (códigos del backend CRM).
type InvoiceStatus int

const (
	InvoiceStatusPending InvoiceStatus = 1
	InvoiceStatusPaid    InvoiceStatus = 2
)

// Valid indica si el código corresponde a un estado conocido.
func (s InvoiceStatus) Valid() bool {
	return s == InvoiceStatusPending || s == InvoiceStatusPaid
}

// PaymentPlanType tipo de plan de pagos (códigos del backend CRM).
type PaymentPlanType int

const (
	PaymentPlanPartPayments PaymentPlanType = 2
	PaymentPlanFullPayment  PaymentPlanType = 3
)

// Valid indica si el tipo de plan fue seleccionado y es conocido.
func (t PaymentPlanType) Valid() bool {
	return t == PaymentPlanPartPayments || t == PaymentPlanFullPayment
}

// PaymentType medio de pago de una línea. 0 = sin seleccionar.
type PaymentType int

const (
	PaymentTypeNone         PaymentType = 0
	PaymentTypeCash         PaymentType = 1
	PaymentTypeCard         PaymentType = 2
	PaymentTypeBankTransfer PaymentType = 3
	PaymentTypeCheque       PaymentType = 4
	PaymentTypeCredit       PaymentType = 5
)

// Valid indica si el medio de pago es uno de los códigos conocidos (excluye None).
func (t PaymentType) Valid() bool {
	return t >= PaymentTypeCash && t <= PaymentTypeCredit
}

// LineKind distingue las líneas del usuario de las líneas sintéticas que mantiene el motor.
// Una línea tiene exactamente un tipo: no puede ser a la vez pago inicial y saldo automático.
type LineKind int

const (
	LineKindUser           LineKind = iota // escrita por el usuario
	LineKindInitialPayment                 // espejo del pago inicial de la factura
	LineKindAutoBalance                    // saldo restante calculado contra el objetivo
)

func (k LineKind) String() string {
	switch k {
	case LineKindInitialPayment:
		return "initial_payment"
	case LineKindAutoBalance:
		return "auto_balance"
	default:
		return "user"
	}
}

// PaymentLine representa una línea del plan de pagos.
type PaymentLine struct {
	ID          string // generado en cliente; el backend asigna el definitivo al persistir
	Kind        LineKind
	Description string
	PaymentDate *time.Time
	Amount      decimal.Decimal
	PaymentType PaymentType
	IsPaid      bool
}

// IsInitialPayment indica si la línea es la línea sintética de pago inicial.
func (l PaymentLine) IsInitialPayment() bool { return l.Kind == LineKindInitialPayment }

// IsAutoBalance indica si la línea es la línea sintética de saldo automático.
func (l PaymentLine) IsAutoBalance() bool { return l.Kind == LineKindAutoBalance }

// PaymentPlan agregado padre: factura en edición con su plan de pagos.
// Target es el total de la cotización seleccionada contra el que se concilian las líneas.
type PaymentPlan struct {
	ID                    string
	InvoiceID             int64 // 0 = aún no persistida en el backend
	QuoteID               int64
	QuoteNumber           string
	CompanyName           string
	Status                InvoiceStatus
	Amount                decimal.Decimal
	Discount              decimal.Decimal
	PaymentPlanType       PaymentPlanType
	InitialPayment        decimal.Decimal
	InitialPaymentDueDate *time.Time
	Target                decimal.Decimal
	Lines                 []PaymentLine
	CreatedAt             time.Time
	UpdatedAt             time.Time
}
