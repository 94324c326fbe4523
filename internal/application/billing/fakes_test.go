package billing_test

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/WMASewwandi/clovesis-sub003/internal/application/dto"
	"github.com/WMASewwandi/clovesis-sub003/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes de los puertos
// ──────────────────────────────────────────────────────────────────────────────

type fakeQuotes struct {
	quotes []entity.Quote
	err    error
	tokens []string
}

func (f *fakeQuotes) GetQuotesWithoutInvoice(_ context.Context, token string) ([]entity.Quote, error) {
	f.tokens = append(f.tokens, token)
	if f.err != nil {
		return nil, f.err
	}
	return f.quotes, nil
}

type fakeInvoices struct {
	mu       sync.Mutex
	created  []dto.InvoicePayload
	updated  []dto.InvoicePayload
	err      error
	started  chan struct{} // si no es nil, se cierra al entrar a CreateInvoice
	release  chan struct{} // si no es nil, CreateInvoice espera hasta que se cierre
	response *dto.BackendMessage
}

func (f *fakeInvoices) CreateInvoice(_ context.Context, _ string, payload dto.InvoicePayload) (*dto.BackendMessage, error) {
	if f.started != nil {
		close(f.started)
	}
	if f.release != nil {
		<-f.release
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	f.created = append(f.created, payload)
	return f.reply(), nil
}

func (f *fakeInvoices) UpdateInvoice(_ context.Context, _ string, payload dto.InvoicePayload) (*dto.BackendMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	f.updated = append(f.updated, payload)
	return f.reply(), nil
}

func (f *fakeInvoices) reply() *dto.BackendMessage {
	if f.response != nil {
		return f.response
	}
	return &dto.BackendMessage{Message: "Invoice saved successfully", StatusCode: 200}
}

type fakeUploader struct {
	requests []dto.DocumentUploadRequest
	url      string
	err      error
}

func (f *fakeUploader) UploadDocument(_ context.Context, _ string, req dto.DocumentUploadRequest) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.requests = append(f.requests, req)
	return f.url, nil
}

type fakeFormatter struct {
	docs []entity.QuotationDocument
	err  error
}

func (f *fakeFormatter) FormatQuotation(_ context.Context, doc entity.QuotationDocument) ([]byte, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.docs = append(f.docs, doc)
	return []byte("%PDF-1.3 fake"), nil
}

func sampleQuote() entity.Quote {
	return entity.Quote{
		ID:          42,
		QuoteNumber: "QT-0042",
		CompanyName: "Acme Sports",
		SubTotal:    decimal.RequireFromString("1100"),
		Discount:    decimal.RequireFromString("100"),
		Total:       decimal.RequireFromString("1000"),
		LineItems: []entity.QuoteLineItem{{
			CategoryName:   "T-Shirt",
			ItemName:       "Crew neck",
			Quantity:       decimal.NewFromInt(10),
			UnitPrice:      decimal.NewFromInt(100),
			TotalPrice:     decimal.NewFromInt(1000),
			Embellishments: []int{3, 1},
		}},
	}
}
