package billing

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/WMASewwandi/clovesis-sub003/internal/application/dto"
	"github.com/WMASewwandi/clovesis-sub003/internal/domain"
	"github.com/WMASewwandi/clovesis-sub003/internal/domain/entity"
	"github.com/WMASewwandi/clovesis-sub003/internal/domain/paymentplan"
	"github.com/WMASewwandi/clovesis-sub003/internal/domain/repository"
)

// PaymentPlanUseCase orquesta el formulario de plan de pagos: borradores persistidos entre
// requests, conciliación de líneas en cada edición y envío atómico al backend.
type PaymentPlanUseCase struct {
	drafts   repository.DraftRepository
	quotes   QuoteProvider
	invoices InvoicePersistence
	log      zerolog.Logger
	now      func() time.Time

	mu         sync.Mutex
	submitting map[string]struct{}   // borradores con un envío en curso
	locks      map[string]*draftLock // serializa lectura-modificación-escritura por borrador
}

type draftLock struct {
	mu   sync.Mutex
	refs int
}

// NewPaymentPlanUseCase construye el caso de uso.
func NewPaymentPlanUseCase(
	drafts repository.DraftRepository,
	quotes QuoteProvider,
	invoices InvoicePersistence,
	log zerolog.Logger,
) *PaymentPlanUseCase {
	return &PaymentPlanUseCase{
		drafts:     drafts,
		quotes:     quotes,
		invoices:   invoices,
		log:        log.With().Str("component", "payment_plan").Logger(),
		now:        time.Now,
		submitting: make(map[string]struct{}),
		locks:      make(map[string]*draftLock),
	}
}

// NewDraft abre un formulario nuevo: estado Pending y una línea vacía. invoiceID > 0 abre
// el borrador sobre una factura existente y el envío la actualiza en lugar de crearla.
func (uc *PaymentPlanUseCase) NewDraft(ctx context.Context, invoiceID int64) (*entity.PaymentPlan, error) {
	if invoiceID < 0 {
		return nil, fmt.Errorf("%w: factura %d", domain.ErrInvalidInput, invoiceID)
	}
	plan := paymentplan.NewPlan(uc.now())
	plan.InvoiceID = invoiceID
	if err := uc.drafts.Save(ctx, plan); err != nil {
		return nil, fmt.Errorf("guardar borrador: %w", err)
	}
	return plan, nil
}

// GetDraft devuelve el borrador o domain.ErrNotFound.
func (uc *PaymentPlanUseCase) GetDraft(ctx context.Context, id string) (*entity.PaymentPlan, error) {
	plan, err := uc.drafts.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("obtener borrador: %w", err)
	}
	if plan == nil {
		return nil, domain.ErrNotFound
	}
	return plan, nil
}

// ListPendingQuotes cotizaciones sin factura, para el selector del formulario.
func (uc *PaymentPlanUseCase) ListPendingQuotes(ctx context.Context, token string) ([]entity.Quote, error) {
	quotes, err := uc.quotes.GetQuotesWithoutInvoice(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("obtener cotizaciones: %w", err)
	}
	return quotes, nil
}

// SelectQuote carga la cotización del backend y la asocia al borrador.
// Si la consulta falla el borrador queda intacto.
func (uc *PaymentPlanUseCase) SelectQuote(ctx context.Context, token, id string, quoteID int64) (*entity.PaymentPlan, error) {
	quote, err := findQuote(ctx, uc.quotes, token, quoteID)
	if err != nil {
		return nil, err
	}
	return uc.mutate(ctx, id, func(f *paymentplan.Form) error {
		f.SelectQuote(quote)
		return nil
	})
}

// SetStatus cambia el estado de la factura (Pending / Paid).
func (uc *PaymentPlanUseCase) SetStatus(ctx context.Context, id string, status entity.InvoiceStatus) (*entity.PaymentPlan, error) {
	return uc.mutate(ctx, id, func(f *paymentplan.Form) error {
		return f.SetStatus(status)
	})
}

// SetPaymentPlanType selecciona el tipo de plan.
func (uc *PaymentPlanUseCase) SetPaymentPlanType(ctx context.Context, id string, t entity.PaymentPlanType) (*entity.PaymentPlan, error) {
	return uc.mutate(ctx, id, func(f *paymentplan.Form) error {
		return f.SetPaymentPlanType(t)
	})
}

// SetInitialPayment recibe monto y fecha tal como vienen del formulario.
func (uc *PaymentPlanUseCase) SetInitialPayment(ctx context.Context, id, amount, dueDate string) (*entity.PaymentPlan, error) {
	value, err := paymentplan.ParseAmount(amount)
	if err != nil {
		return nil, err
	}
	date, err := paymentplan.ParseDate(dueDate)
	if err != nil {
		return nil, err
	}
	return uc.mutate(ctx, id, func(f *paymentplan.Form) error {
		f.SetInitialPayment(value, date)
		return nil
	})
}

// EditLine edita un campo de la línea index.
func (uc *PaymentPlanUseCase) EditLine(ctx context.Context, id string, index int, field, value string) (*entity.PaymentPlan, error) {
	lf, err := paymentplan.ParseLineField(field)
	if err != nil {
		return nil, err
	}
	return uc.mutate(ctx, id, func(f *paymentplan.Form) error {
		return f.EditLine(index, lf, value)
	})
}

// AddLine agrega una línea vacía.
func (uc *PaymentPlanUseCase) AddLine(ctx context.Context, id string) (*entity.PaymentPlan, error) {
	return uc.mutate(ctx, id, func(f *paymentplan.Form) error {
		f.AddLine()
		return nil
	})
}

// RemoveLine elimina la línea index. Las guardas (ErrLastLine, ErrInitialPaymentLocked)
// devuelven el borrador sin cambios junto con el error.
func (uc *PaymentPlanUseCase) RemoveLine(ctx context.Context, id string, index int) (*entity.PaymentPlan, error) {
	return uc.mutate(ctx, id, func(f *paymentplan.Form) error {
		return f.RemoveLine(index)
	})
}

// Validate corre las reglas de envío sobre el borrador.
func (uc *PaymentPlanUseCase) Validate(ctx context.Context, id string) error {
	plan, err := uc.GetDraft(ctx, id)
	if err != nil {
		return err
	}
	return paymentplan.Validate(plan)
}

// Submit valida el borrador y lo envía al backend en una sola llamada (Create, o Update si
// la factura ya existe). El borrador se elimina solo si el backend acepta; ante cualquier
// fallo queda como estaba. Un segundo envío del mismo borrador mientras el primero sigue en
// curso falla con domain.ErrSubmitInProgress, igual que cualquier edición en ese intervalo.
func (uc *PaymentPlanUseCase) Submit(ctx context.Context, token, id string) (*dto.SubmitResponse, error) {
	if !uc.acquire(id) {
		return nil, domain.ErrSubmitInProgress
	}
	defer uc.release(id)
	unlock := uc.lock(id)
	defer unlock()

	plan, err := uc.GetDraft(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := paymentplan.Validate(plan); err != nil {
		return nil, err
	}

	payload := dto.NewInvoicePayload(plan)
	updated := plan.InvoiceID != 0
	var msg *dto.BackendMessage
	if updated {
		msg, err = uc.invoices.UpdateInvoice(ctx, token, payload)
	} else {
		msg, err = uc.invoices.CreateInvoice(ctx, token, payload)
	}
	if err != nil {
		uc.log.Warn().Err(err).Str("plan_id", id).Int64("quote_id", plan.QuoteID).Msg("envío de plan de pagos rechazado")
		return nil, fmt.Errorf("enviar plan de pagos: %w", err)
	}

	if err := uc.drafts.Delete(ctx, id); err != nil {
		// La factura ya quedó en el backend; el borrador huérfano no invalida el envío.
		uc.log.Error().Err(err).Str("plan_id", id).Msg("no se pudo eliminar el borrador enviado")
	}
	uc.log.Info().Str("plan_id", id).Int64("quote_id", plan.QuoteID).Bool("updated", updated).Msg("plan de pagos enviado")

	out := &dto.SubmitResponse{Updated: updated}
	if msg != nil {
		out.Message = msg.Message
	}
	return out, nil
}

// mutate carga el borrador, aplica fn sobre el formulario y guarda. Las operaciones del
// formulario no tocan el plan cuando fallan, así que ante error se devuelve tal cual y sin guardar.
// Las ediciones del mismo borrador se aplican de a una; durante un envío se rechazan.
func (uc *PaymentPlanUseCase) mutate(ctx context.Context, id string, fn func(f *paymentplan.Form) error) (*entity.PaymentPlan, error) {
	if uc.isSubmitting(id) {
		return nil, domain.ErrSubmitInProgress
	}
	unlock := uc.lock(id)
	defer unlock()
	// Un envío pudo tomar el borrador mientras esperábamos el lock.
	if uc.isSubmitting(id) {
		return nil, domain.ErrSubmitInProgress
	}

	plan, err := uc.GetDraft(ctx, id)
	if err != nil {
		return nil, err
	}
	form := paymentplan.NewForm(plan)
	if err := fn(form); err != nil {
		return plan, err
	}
	if err := uc.drafts.Save(ctx, form.Plan()); err != nil {
		return nil, fmt.Errorf("guardar borrador: %w", err)
	}
	return form.Plan(), nil
}

func (uc *PaymentPlanUseCase) acquire(id string) bool {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	if _, busy := uc.submitting[id]; busy {
		return false
	}
	uc.submitting[id] = struct{}{}
	return true
}

func (uc *PaymentPlanUseCase) release(id string) {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	delete(uc.submitting, id)
}

func (uc *PaymentPlanUseCase) isSubmitting(id string) bool {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	_, busy := uc.submitting[id]
	return busy
}

// lock toma el lock del borrador id y devuelve la función que lo libera.
// La entrada del mapa se borra cuando nadie más la espera.
func (uc *PaymentPlanUseCase) lock(id string) func() {
	uc.mu.Lock()
	l, ok := uc.locks[id]
	if !ok {
		l = &draftLock{}
		uc.locks[id] = l
	}
	l.refs++
	uc.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		uc.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(uc.locks, id)
		}
		uc.mu.Unlock()
	}
}
