package pdf_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/WMASewwandi/clovesis-sub003/internal/domain/entity"
	"github.com/WMASewwandi/clovesis-sub003/internal/domain/quotation"
	"github.com/WMASewwandi/clovesis-sub003/internal/infrastructure/pdf"
)

func sampleDocument() entity.QuotationDocument {
	quote := entity.Quote{
		QuoteNumber: "QT-0042",
		CompanyName: "Acme Sports",
		Total:       decimal.RequireFromString("12500"),
		LineItems: []entity.QuoteLineItem{
			{
				CategoryName:   "T-Shirt",
				ItemName:       "Crew neck",
				Material:       "Cotton 180gsm",
				Quantity:       decimal.NewFromInt(100),
				UnitPrice:      decimal.RequireFromString("125"),
				TotalPrice:     decimal.RequireFromString("12500"),
				Embellishments: []int{4, 2, 1},
			},
		},
	}
	return quotation.BuildDocument(entity.DocumentKindQuotation, quote,
		entity.DocumentCustomer{Address: "12 Main St", Phone: "+94 77 1234567"},
		decimal.RequireFromString("2500"), time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC))
}

func TestFormatQuotation_GeneraPDF(t *testing.T) {
	f := pdf.NewMarotoDocumentFormatter("Clovesis")

	out, err := f.FormatQuotation(context.Background(), sampleDocument())
	require.NoError(t, err)

	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")), "debe empezar con la firma PDF")
	assert.Greater(t, len(out), 1000)
}

func TestFormatQuotation_SinLineas(t *testing.T) {
	f := pdf.NewMarotoDocumentFormatter("Clovesis")
	doc := sampleDocument()
	doc.Lines = nil
	doc.Kind = entity.DocumentKindProforma

	out, err := f.FormatQuotation(context.Background(), doc)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestFormatQuotation_ContextoCancelado(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := pdf.NewMarotoDocumentFormatter("Clovesis").FormatQuotation(ctx, sampleDocument())

	assert.ErrorIs(t, err, context.Canceled)
}
