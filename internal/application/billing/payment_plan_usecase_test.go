package billing_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/WMASewwandi/clovesis-sub003/internal/application/billing"
	"github.com/WMASewwandi/clovesis-sub003/internal/domain"
	"github.com/WMASewwandi/clovesis-sub003/internal/domain/entity"
	"github.com/WMASewwandi/clovesis-sub003/internal/domain/paymentplan"
	"github.com/WMASewwandi/clovesis-sub003/internal/infrastructure/memory"
)

type planFixture struct {
	uc       *billing.PaymentPlanUseCase
	drafts   *memory.DraftRepo
	quotes   *fakeQuotes
	invoices *fakeInvoices
}

func newPlanFixture() planFixture {
	f := planFixture{
		drafts:   memory.NewDraftRepository(),
		quotes:   &fakeQuotes{quotes: []entity.Quote{sampleQuote()}},
		invoices: &fakeInvoices{},
	}
	f.uc = billing.NewPaymentPlanUseCase(f.drafts, f.quotes, f.invoices, zerolog.Nop())
	return f
}

// readyDraft borrador listo para enviar: cotización 42, pago inicial 300, saldo 700.
func readyDraft(t *testing.T, f planFixture) string {
	t.Helper()
	return readyDraftForInvoice(t, f, 0)
}

// readyDraftForInvoice igual que readyDraft pero abierto sobre una factura existente.
func readyDraftForInvoice(t *testing.T, f planFixture, invoiceID int64) string {
	t.Helper()
	ctx := context.Background()
	plan, err := f.uc.NewDraft(ctx, invoiceID)
	require.NoError(t, err)
	_, err = f.uc.SelectQuote(ctx, "tok", plan.ID, 42)
	require.NoError(t, err)
	_, err = f.uc.SetPaymentPlanType(ctx, plan.ID, entity.PaymentPlanPartPayments)
	require.NoError(t, err)
	_, err = f.uc.SetInitialPayment(ctx, plan.ID, "300", "2024-01-01")
	require.NoError(t, err)
	return plan.ID
}

func TestPaymentPlanUseCase_FlujoDeEdicion(t *testing.T) {
	f := newPlanFixture()
	ctx := context.Background()
	id := readyDraft(t, f)

	plan, err := f.uc.EditLine(ctx, id, 1, "amount", "400")
	require.NoError(t, err)

	require.Len(t, plan.Lines, 3)
	assert.Equal(t, "Third Payment", plan.Lines[2].Description)
	assert.Equal(t, "300.00", plan.Lines[2].Amount.StringFixed(2))

	stored, err := f.uc.GetDraft(ctx, id)
	require.NoError(t, err)
	assert.Len(t, stored.Lines, 3, "el borrador queda persistido")
	assert.NoError(t, f.uc.Validate(ctx, id))
}

func TestPaymentPlanUseCase_SelectQuote_NoEncontrada(t *testing.T) {
	f := newPlanFixture()
	ctx := context.Background()
	plan, err := f.uc.NewDraft(ctx, 0)
	require.NoError(t, err)

	_, err = f.uc.SelectQuote(ctx, "tok", plan.ID, 999)

	assert.ErrorIs(t, err, domain.ErrQuoteNotFound)
	assert.Equal(t, []string{"tok"}, f.quotes.tokens, "el token viaja explícito al proveedor")
}

func TestPaymentPlanUseCase_SelectQuote_FalloDeRedNoTocaElBorrador(t *testing.T) {
	f := newPlanFixture()
	ctx := context.Background()
	plan, err := f.uc.NewDraft(ctx, 0)
	require.NoError(t, err)
	f.quotes.err = errors.New("connection refused")

	_, err = f.uc.SelectQuote(ctx, "tok", plan.ID, 42)
	require.Error(t, err)

	stored, err := f.uc.GetDraft(ctx, plan.ID)
	require.NoError(t, err)
	assert.Zero(t, stored.QuoteID)
}

func TestPaymentPlanUseCase_GuardaDevuelveBorradorSinCambios(t *testing.T) {
	f := newPlanFixture()
	ctx := context.Background()
	id := readyDraft(t, f)

	plan, err := f.uc.RemoveLine(ctx, id, 0)

	assert.ErrorIs(t, err, domain.ErrInitialPaymentLocked)
	require.NotNil(t, plan)
	assert.Len(t, plan.Lines, 2)
}

func TestPaymentPlanUseCase_EntradasInvalidas(t *testing.T) {
	f := newPlanFixture()
	ctx := context.Background()
	id := readyDraft(t, f)

	_, err := f.uc.SetInitialPayment(ctx, id, "abc", "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = f.uc.SetInitialPayment(ctx, id, "100", "mañana")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = f.uc.EditLine(ctx, id, 0, "color", "red")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = f.uc.GetDraft(ctx, "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPaymentPlanUseCase_Submit_CreaYEliminaBorrador(t *testing.T) {
	f := newPlanFixture()
	ctx := context.Background()
	id := readyDraft(t, f)

	res, err := f.uc.Submit(ctx, "tok", id)
	require.NoError(t, err)

	assert.False(t, res.Updated)
	assert.Equal(t, "Invoice saved successfully", res.Message)
	require.Len(t, f.invoices.created, 1)
	payload := f.invoices.created[0]
	assert.Equal(t, int64(42), payload.QuoteID)
	assert.Equal(t, 300.0, payload.InitialPayment)
	require.Len(t, payload.InvoiceLines, 2)
	assert.Equal(t, 700.0, payload.InvoiceLines[1].Amount)
	assert.Equal(t, 0, f.drafts.Len())
}

func TestPaymentPlanUseCase_Submit_ActualizaSiYaTieneFactura(t *testing.T) {
	f := newPlanFixture()
	ctx := context.Background()
	id := readyDraftForInvoice(t, f, 77)

	res, err := f.uc.Submit(ctx, "tok", id)
	require.NoError(t, err)

	assert.True(t, res.Updated)
	require.Len(t, f.invoices.updated, 1)
	assert.Equal(t, int64(77), f.invoices.updated[0].ID)
}

func TestPaymentPlanUseCase_Submit_ValidacionBloquea(t *testing.T) {
	f := newPlanFixture()
	ctx := context.Background()
	id := readyDraft(t, f)
	// editar la línea de pago inicial no recalcula el saldo: queda un faltante de 50
	_, err := f.uc.EditLine(ctx, id, 0, "amount", "250")
	require.NoError(t, err)

	_, err = f.uc.Submit(ctx, "tok", id)

	var verr *paymentplan.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Message, "50.00")
	assert.Empty(t, f.invoices.created)
	assert.Equal(t, 1, f.drafts.Len())
}

func TestPaymentPlanUseCase_Submit_FalloDelBackendConservaBorrador(t *testing.T) {
	f := newPlanFixture()
	ctx := context.Background()
	id := readyDraft(t, f)
	before, err := f.uc.GetDraft(ctx, id)
	require.NoError(t, err)
	f.invoices.err = domain.ErrUpstream

	_, err = f.uc.Submit(ctx, "tok", id)

	assert.ErrorIs(t, err, domain.ErrUpstream)
	after, err := f.uc.GetDraft(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, before, after)

	// se puede reintentar manualmente
	f.invoices.err = nil
	_, err = f.uc.Submit(ctx, "tok", id)
	assert.NoError(t, err)
}

func TestPaymentPlanUseCase_Submit_EnCursoRechazaSegundoEnvio(t *testing.T) {
	f := newPlanFixture()
	ctx := context.Background()
	id := readyDraft(t, f)
	f.invoices.started = make(chan struct{})
	f.invoices.release = make(chan struct{})

	done := make(chan error, 1)
	go func() {
		_, err := f.uc.Submit(ctx, "tok", id)
		done <- err
	}()
	<-f.invoices.started

	_, err := f.uc.Submit(ctx, "tok", id)
	assert.ErrorIs(t, err, domain.ErrSubmitInProgress)

	close(f.invoices.release)
	require.NoError(t, <-done)
	assert.Len(t, f.invoices.created, 1)
}

// slowDrafts demora cada lectura para que dos requests se solapen sobre el mismo borrador.
type slowDrafts struct {
	*memory.DraftRepo
	delay time.Duration
}

func (r slowDrafts) GetByID(ctx context.Context, id string) (*entity.PaymentPlan, error) {
	time.Sleep(r.delay)
	return r.DraftRepo.GetByID(ctx, id)
}

func TestPaymentPlanUseCase_EdicionesConcurrentesNoSePierden(t *testing.T) {
	drafts := memory.NewDraftRepository()
	uc := billing.NewPaymentPlanUseCase(slowDrafts{DraftRepo: drafts, delay: 5 * time.Millisecond},
		&fakeQuotes{quotes: []entity.Quote{sampleQuote()}}, &fakeInvoices{}, zerolog.Nop())
	ctx := context.Background()
	plan, err := uc.NewDraft(ctx, 0)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := uc.AddLine(ctx, plan.ID)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	stored, err := uc.GetDraft(ctx, plan.ID)
	require.NoError(t, err)
	assert.Len(t, stored.Lines, 11)
}

func TestPaymentPlanUseCase_EdicionDuranteEnvioSeRechaza(t *testing.T) {
	f := newPlanFixture()
	ctx := context.Background()
	id := readyDraft(t, f)
	f.invoices.started = make(chan struct{})
	f.invoices.release = make(chan struct{})

	done := make(chan error, 1)
	go func() {
		_, err := f.uc.Submit(ctx, "tok", id)
		done <- err
	}()
	<-f.invoices.started

	_, err := f.uc.EditLine(ctx, id, 1, "description", "editada durante el envío")
	assert.ErrorIs(t, err, domain.ErrSubmitInProgress)
	_, err = f.uc.AddLine(ctx, id)
	assert.ErrorIs(t, err, domain.ErrSubmitInProgress)

	close(f.invoices.release)
	require.NoError(t, <-done)
	require.Len(t, f.invoices.created, 1)
	assert.Equal(t, "Second Payment", f.invoices.created[0].InvoiceLines[1].Description)

	// terminado el envío el borrador ya no existe
	_, err = f.uc.AddLine(ctx, id)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPaymentPlanUseCase_NewDraft_FacturaExistente(t *testing.T) {
	f := newPlanFixture()
	ctx := context.Background()

	plan, err := f.uc.NewDraft(ctx, 77)
	require.NoError(t, err)
	assert.Equal(t, int64(77), plan.InvoiceID)

	stored, err := f.uc.GetDraft(ctx, plan.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(77), stored.InvoiceID)

	_, err = f.uc.NewDraft(ctx, -1)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestPaymentPlanUseCase_EstadoPaid(t *testing.T) {
	f := newPlanFixture()
	ctx := context.Background()
	id := readyDraft(t, f)

	plan, err := f.uc.SetStatus(ctx, id, entity.InvoiceStatusPaid)
	require.NoError(t, err)

	for _, l := range plan.Lines {
		assert.True(t, l.IsPaid)
	}
	var verr *paymentplan.ValidationError
	require.True(t, errors.As(f.uc.Validate(ctx, id), &verr))
	assert.Equal(t, "lines[0].paymentType", verr.Field)
}

func TestPaymentPlanUseCase_ListPendingQuotes(t *testing.T) {
	f := newPlanFixture()

	quotes, err := f.uc.ListPendingQuotes(context.Background(), "tok")

	require.NoError(t, err)
	require.Len(t, quotes, 1)
	assert.Equal(t, "QT-0042", quotes[0].QuoteNumber)
}
