package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/WMASewwandi/clovesis-sub003/internal/application/billing"
	"github.com/WMASewwandi/clovesis-sub003/internal/application/dto"
)

// QuoteHandler cotizaciones pendientes y sus documentos (protegido).
type QuoteHandler struct {
	plans *billing.PaymentPlanUseCase
	docs  *billing.DocumentUseCase
}

// NewQuoteHandler construye el handler.
func NewQuoteHandler(plans *billing.PaymentPlanUseCase, docs *billing.DocumentUseCase) *QuoteHandler {
	return &QuoteHandler{plans: plans, docs: docs}
}

// ListPending lista las cotizaciones sin factura.
// GET /api/quotes/pending
func (h *QuoteHandler) ListPending(c *fiber.Ctx) error {
	quotes, err := h.plans.ListPendingQuotes(c.Context(), GetToken(c))
	if err != nil {
		return respondError(c, err, nil)
	}
	out := make([]dto.QuoteResponse, 0, len(quotes))
	for _, q := range quotes {
		out = append(out, dto.NewQuoteResponse(q))
	}
	return c.JSON(out)
}

// Document genera la cotización o proforma en PDF.
// POST /api/quotes/:id/document
func (h *QuoteHandler) Document(c *fiber.Ctx) error {
	quoteID, ok, err := intParam(c, "id")
	if !ok {
		return err
	}
	var in dto.DocumentRequest
	if ok, err := bindBody(c, &in); !ok {
		return err
	}
	pdfBytes, filename, err := h.docs.RenderQuotation(c.Context(), GetToken(c), quoteID, in)
	if err != nil {
		return respondError(c, err, nil)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, filename))
	return c.Send(pdfBytes)
}

// Share sube el PDF al backend y devuelve el enlace para WhatsApp, correo o enlace directo.
// POST /api/quotes/:id/share
func (h *QuoteHandler) Share(c *fiber.Ctx) error {
	quoteID, ok, err := intParam(c, "id")
	if !ok {
		return err
	}
	var in dto.ShareRequest
	if ok, err := bindBody(c, &in); !ok {
		return err
	}
	out, err := h.docs.ShareQuotation(c.Context(), GetToken(c), quoteID, in)
	if err != nil {
		return respondError(c, err, nil)
	}
	return c.JSON(out)
}
