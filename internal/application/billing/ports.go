package billing

import (
	"context"

	"github.com/WMASewwandi/clovesis-sub003/internal/application/dto"
	"github.com/WMASewwandi/clovesis-sub003/internal/domain/entity"
)

// QuoteProvider consulta las cotizaciones del backend CRM que aún no tienen factura.
// El token del usuario viaja explícito en cada llamada.
type QuoteProvider interface {
	GetQuotesWithoutInvoice(ctx context.Context, token string) ([]entity.Quote, error)
}

// InvoicePersistence crea o actualiza la factura con su plan de pagos en una sola llamada.
type InvoicePersistence interface {
	CreateInvoice(ctx context.Context, token string, payload dto.InvoicePayload) (*dto.BackendMessage, error)
	UpdateInvoice(ctx context.Context, token string, payload dto.InvoicePayload) (*dto.BackendMessage, error)
}

// DocumentUploader sube un archivo al almacenamiento del backend y devuelve su URL pública.
type DocumentUploader interface {
	UploadDocument(ctx context.Context, token string, req dto.DocumentUploadRequest) (string, error)
}

// DocumentFormatter convierte la proyección de la cotización en un documento imprimible (PDF).
type DocumentFormatter interface {
	FormatQuotation(ctx context.Context, doc entity.QuotationDocument) ([]byte, error)
}
