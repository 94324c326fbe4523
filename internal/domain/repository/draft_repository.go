package repository

import (
	"context"

	"github.com/WMASewwandi/clovesis-sub003/internal/domain/entity"
)

// DraftRepository define el puerto de persistencia para los borradores de plan de pagos
// (el formulario abierto mientras el usuario lo edita).
type DraftRepository interface {
	// Save crea o reemplaza el borrador completo (cabecera y líneas, en orden).
	Save(ctx context.Context, plan *entity.PaymentPlan) error
	// GetByID devuelve nil, nil si el borrador no existe.
	GetByID(ctx context.Context, id string) (*entity.PaymentPlan, error)
	Delete(ctx context.Context, id string) error
}
