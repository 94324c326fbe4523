package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound             = errors.New("recurso no encontrado")
	ErrInvalidInput         = errors.New("entrada inválida")
	ErrUnauthorized         = errors.New("no autorizado")
	ErrConflict             = errors.New("conflicto con el estado actual")
	ErrValidation           = errors.New("validación del plan de pagos fallida")
	ErrLineNotFound         = errors.New("línea de pago no encontrada")
	ErrLastLine             = errors.New("at least one payment line is required")
	ErrInitialPaymentLocked = errors.New("the initial payment line cannot be removed while an initial payment is set")
	ErrSubmitInProgress     = errors.New("ya hay un envío en curso para este plan")
	ErrQuoteNotFound        = errors.New("cotización no encontrada o ya facturada")
	ErrUpstream             = errors.New("error del backend CRM")
	ErrUnexpectedResponse   = errors.New("respuesta del backend con formato inesperado")
)
