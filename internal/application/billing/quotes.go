package billing

import (
	"context"
	"fmt"

	"github.com/WMASewwandi/clovesis-sub003/internal/domain"
	"github.com/WMASewwandi/clovesis-sub003/internal/domain/entity"
)

// findQuote busca la cotización entre las pendientes de facturar.
func findQuote(ctx context.Context, quotes QuoteProvider, token string, quoteID int64) (entity.Quote, error) {
	list, err := quotes.GetQuotesWithoutInvoice(ctx, token)
	if err != nil {
		return entity.Quote{}, fmt.Errorf("obtener cotizaciones: %w", err)
	}
	for _, q := range list {
		if q.ID == quoteID {
			return q, nil
		}
	}
	return entity.Quote{}, fmt.Errorf("%w: id %d", domain.ErrQuoteNotFound, quoteID)
}
