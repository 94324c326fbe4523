package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/WMASewwandi/clovesis-sub003/internal/domain"
	"github.com/WMASewwandi/clovesis-sub003/internal/domain/entity"
	"github.com/WMASewwandi/clovesis-sub003/internal/domain/repository"
)

var _ repository.DraftRepository = (*DraftRepo)(nil)

// DraftRepo implementación de DraftRepository sobre payment_plan_drafts / payment_plan_draft_lines.
type DraftRepo struct {
	q  Querier
	tx *TxRunner // nil cuando el repo ya está atado a una transacción
}

// NewDraftRepository construye el adaptador sobre el pool. Save corre en su propia transacción.
func NewDraftRepository(pool *pgxpool.Pool) *DraftRepo {
	return newDraftRepo(pool, NewTxRunner(pool))
}

func newDraftRepo(q Querier, tx *TxRunner) *DraftRepo {
	return &DraftRepo{q: q, tx: tx}
}

// Save hace upsert de la cabecera y reemplaza todas las líneas.
func (r *DraftRepo) Save(ctx context.Context, plan *entity.PaymentPlan) error {
	if r.tx != nil {
		return r.tx.Run(ctx, func(drafts *DraftRepo) error {
			return drafts.Save(ctx, plan)
		})
	}

	if plan.CreatedAt.IsZero() {
		plan.CreatedAt = time.Now()
	}
	plan.UpdatedAt = time.Now()

	query := `
		INSERT INTO payment_plan_drafts (id, invoice_id, quote_id, quote_number, company_name, status,
			amount, discount, payment_plan_type, initial_payment, initial_payment_due_date, target,
			created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		ON CONFLICT (id) DO UPDATE
		SET invoice_id               = EXCLUDED.invoice_id,
		    quote_id                 = EXCLUDED.quote_id,
		    quote_number             = EXCLUDED.quote_number,
		    company_name             = EXCLUDED.company_name,
		    status                   = EXCLUDED.status,
		    amount                   = EXCLUDED.amount,
		    discount                 = EXCLUDED.discount,
		    payment_plan_type        = EXCLUDED.payment_plan_type,
		    initial_payment          = EXCLUDED.initial_payment,
		    initial_payment_due_date = EXCLUDED.initial_payment_due_date,
		    target                   = EXCLUDED.target,
		    updated_at               = EXCLUDED.updated_at`
	_, err := r.q.Exec(ctx, query,
		plan.ID, plan.InvoiceID, plan.QuoteID, nullIfEmpty(plan.QuoteNumber), nullIfEmpty(plan.CompanyName),
		int(plan.Status), plan.Amount, plan.Discount, int(plan.PaymentPlanType),
		plan.InitialPayment, plan.InitialPaymentDueDate, plan.Target,
		plan.CreatedAt, plan.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert payment plan draft: %w", err)
	}

	if _, err := r.q.Exec(ctx, `DELETE FROM payment_plan_draft_lines WHERE draft_id = $1`, plan.ID); err != nil {
		return fmt.Errorf("clear draft lines: %w", err)
	}

	lineQuery := `
		INSERT INTO payment_plan_draft_lines (draft_id, position, id, kind, description, payment_date,
			amount, payment_type, is_paid)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	for i, l := range plan.Lines {
		_, err := r.q.Exec(ctx, lineQuery,
			plan.ID, i, l.ID, int(l.Kind), l.Description, l.PaymentDate,
			l.Amount, int(l.PaymentType), l.IsPaid,
		)
		if err != nil {
			if isForeignKeyViolation(err) {
				return fmt.Errorf("%w: borrador %s", domain.ErrNotFound, plan.ID)
			}
			return fmt.Errorf("insert draft line %d: %w", i, err)
		}
	}
	return nil
}

// GetByID obtiene el borrador con sus líneas en orden.
func (r *DraftRepo) GetByID(ctx context.Context, id string) (*entity.PaymentPlan, error) {
	query := `
		SELECT id, invoice_id, quote_id, quote_number, company_name, status,
		       amount, discount, payment_plan_type, initial_payment, initial_payment_due_date, target,
		       created_at, updated_at
		FROM payment_plan_drafts WHERE id = $1`
	var plan entity.PaymentPlan
	var quoteNumber, companyName *string
	var status, planType int
	err := r.q.QueryRow(ctx, query, id).Scan(
		&plan.ID, &plan.InvoiceID, &plan.QuoteID, &quoteNumber, &companyName, &status,
		&plan.Amount, &plan.Discount, &planType, &plan.InitialPayment, &plan.InitialPaymentDueDate, &plan.Target,
		&plan.CreatedAt, &plan.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get payment plan draft: %w", err)
	}
	plan.QuoteNumber = derefStr(quoteNumber)
	plan.CompanyName = derefStr(companyName)
	plan.Status = entity.InvoiceStatus(status)
	plan.PaymentPlanType = entity.PaymentPlanType(planType)

	lines, err := r.linesByDraftID(ctx, id)
	if err != nil {
		return nil, err
	}
	plan.Lines = lines
	return &plan, nil
}

func (r *DraftRepo) linesByDraftID(ctx context.Context, id string) ([]entity.PaymentLine, error) {
	query := `
		SELECT id, kind, description, payment_date, amount, payment_type, is_paid
		FROM payment_plan_draft_lines WHERE draft_id = $1 ORDER BY position`
	rows, err := r.q.Query(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("list draft lines: %w", err)
	}
	defer rows.Close()
	var list []entity.PaymentLine
	for rows.Next() {
		var l entity.PaymentLine
		var kind, paymentType int
		if err := rows.Scan(&l.ID, &kind, &l.Description, &l.PaymentDate, &l.Amount, &paymentType, &l.IsPaid); err != nil {
			return nil, fmt.Errorf("scan draft line: %w", err)
		}
		l.Kind = entity.LineKind(kind)
		l.PaymentType = entity.PaymentType(paymentType)
		list = append(list, l)
	}
	return list, rows.Err()
}

// Delete elimina el borrador; las líneas caen por ON DELETE CASCADE.
func (r *DraftRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM payment_plan_drafts WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete payment plan draft: %w", err)
	}
	return nil
}
