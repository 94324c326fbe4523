// Package memory guarda borradores en el proceso (desarrollo, CLI y tests).
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/WMASewwandi/clovesis-sub003/internal/domain/entity"
	"github.com/WMASewwandi/clovesis-sub003/internal/domain/repository"
)

var _ repository.DraftRepository = (*DraftRepo)(nil)

// DraftRepo repositorio de borradores en memoria. Guarda y devuelve copias para que
// quien llama no comparta líneas con el almacén.
type DraftRepo struct {
	mu     sync.RWMutex
	drafts map[string]*entity.PaymentPlan
}

// NewDraftRepository crea un repositorio vacío.
func NewDraftRepository() *DraftRepo {
	return &DraftRepo{drafts: make(map[string]*entity.PaymentPlan)}
}

func (r *DraftRepo) Save(ctx context.Context, plan *entity.PaymentPlan) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if plan.CreatedAt.IsZero() {
		plan.CreatedAt = time.Now()
	}
	plan.UpdatedAt = time.Now()

	r.mu.Lock()
	defer r.mu.Unlock()
	r.drafts[plan.ID] = clonePlan(plan)
	return nil
}

func (r *DraftRepo) GetByID(ctx context.Context, id string) (*entity.PaymentPlan, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	plan, ok := r.drafts[id]
	if !ok {
		return nil, nil
	}
	return clonePlan(plan), nil
}

func (r *DraftRepo) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.drafts, id)
	return nil
}

// Len cantidad de borradores guardados.
func (r *DraftRepo) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.drafts)
}

func clonePlan(p *entity.PaymentPlan) *entity.PaymentPlan {
	cp := *p
	cp.Lines = make([]entity.PaymentLine, len(p.Lines))
	copy(cp.Lines, p.Lines)
	return &cp
}
