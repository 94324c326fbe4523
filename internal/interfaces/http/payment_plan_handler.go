package http

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/WMASewwandi/clovesis-sub003/internal/application/billing"
	"github.com/WMASewwandi/clovesis-sub003/internal/application/dto"
	"github.com/WMASewwandi/clovesis-sub003/internal/domain/entity"
	"github.com/WMASewwandi/clovesis-sub003/internal/domain/paymentplan"
)

// PaymentPlanHandler expone el formulario de plan de pagos sobre borradores (protegido).
type PaymentPlanHandler struct {
	uc *billing.PaymentPlanUseCase
}

// NewPaymentPlanHandler construye el handler.
func NewPaymentPlanHandler(uc *billing.PaymentPlanUseCase) *PaymentPlanHandler {
	return &PaymentPlanHandler{uc: uc}
}

// Create abre un borrador nuevo; con invoice_id en el body, sobre una factura existente.
// POST /api/payment-plans
func (h *PaymentPlanHandler) Create(c *fiber.Ctx) error {
	var in dto.CreatePlanRequest
	if len(c.Body()) > 0 {
		if ok, err := bindBody(c, &in); !ok {
			return err
		}
	}
	plan, err := h.uc.NewDraft(c.Context(), in.InvoiceID)
	if err != nil {
		return respondError(c, err, nil)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewPaymentPlanResponse(plan))
}

// GetByID devuelve el borrador.
// GET /api/payment-plans/:id
func (h *PaymentPlanHandler) GetByID(c *fiber.Ctx) error {
	plan, err := h.uc.GetDraft(c.Context(), c.Params("id"))
	return h.reply(c, plan, err)
}

// SelectQuote asocia la cotización al borrador.
// PUT /api/payment-plans/:id/quote
func (h *PaymentPlanHandler) SelectQuote(c *fiber.Ctx) error {
	var in dto.SelectQuoteRequest
	if ok, err := bindBody(c, &in); !ok {
		return err
	}
	plan, err := h.uc.SelectQuote(c.Context(), GetToken(c), c.Params("id"), in.QuoteID)
	return h.reply(c, plan, err)
}

// SetStatus PUT /api/payment-plans/:id/status
func (h *PaymentPlanHandler) SetStatus(c *fiber.Ctx) error {
	var in dto.SetStatusRequest
	if ok, err := bindBody(c, &in); !ok {
		return err
	}
	plan, err := h.uc.SetStatus(c.Context(), c.Params("id"), entity.InvoiceStatus(in.Status))
	return h.reply(c, plan, err)
}

// SetPlanType PUT /api/payment-plans/:id/plan-type
func (h *PaymentPlanHandler) SetPlanType(c *fiber.Ctx) error {
	var in dto.SetPlanTypeRequest
	if ok, err := bindBody(c, &in); !ok {
		return err
	}
	plan, err := h.uc.SetPaymentPlanType(c.Context(), c.Params("id"), entity.PaymentPlanType(in.PaymentPlanType))
	return h.reply(c, plan, err)
}

// SetInitialPayment fija (o quita, con monto 0) el pago inicial.
// PUT /api/payment-plans/:id/initial-payment
func (h *PaymentPlanHandler) SetInitialPayment(c *fiber.Ctx) error {
	var in dto.SetInitialPaymentRequest
	if ok, err := bindBody(c, &in); !ok {
		return err
	}
	plan, err := h.uc.SetInitialPayment(c.Context(), c.Params("id"), in.Amount, in.DueDate)
	return h.reply(c, plan, err)
}

// AddLine POST /api/payment-plans/:id/lines
func (h *PaymentPlanHandler) AddLine(c *fiber.Ctx) error {
	plan, err := h.uc.AddLine(c.Context(), c.Params("id"))
	return h.reply(c, plan, err)
}

// EditLine PATCH /api/payment-plans/:id/lines/:index
func (h *PaymentPlanHandler) EditLine(c *fiber.Ctx) error {
	index, ok, err := lineIndex(c)
	if !ok {
		return err
	}
	var in dto.EditLineRequest
	if ok, err := bindBody(c, &in); !ok {
		return err
	}
	plan, err := h.uc.EditLine(c.Context(), c.Params("id"), index, in.Field, in.Value)
	return h.reply(c, plan, err)
}

// RemoveLine DELETE /api/payment-plans/:id/lines/:index
func (h *PaymentPlanHandler) RemoveLine(c *fiber.Ctx) error {
	index, ok, err := lineIndex(c)
	if !ok {
		return err
	}
	plan, err := h.uc.RemoveLine(c.Context(), c.Params("id"), index)
	return h.reply(c, plan, err)
}

// Validate corre las reglas de envío. Un plan inválido no es error HTTP: 200 con valid=false.
// POST /api/payment-plans/:id/validate
func (h *PaymentPlanHandler) Validate(c *fiber.Ctx) error {
	err := h.uc.Validate(c.Context(), c.Params("id"))
	if err == nil {
		return c.JSON(dto.ValidationResponse{Valid: true})
	}
	var verr *paymentplan.ValidationError
	if !errors.As(err, &verr) {
		return respondError(c, err, nil)
	}
	out := dto.ValidationResponse{Field: verr.Field, Message: verr.Message}
	if !verr.Difference.IsZero() {
		diff := verr.Difference.Round(2)
		out.Difference = &diff
	}
	return c.JSON(out)
}

// Submit envía el plan al CRM (crear o actualizar factura) y descarta el borrador.
// POST /api/payment-plans/:id/submit
func (h *PaymentPlanHandler) Submit(c *fiber.Ctx) error {
	out, err := h.uc.Submit(c.Context(), GetToken(c), c.Params("id"))
	if err != nil {
		return respondError(c, err, nil)
	}
	return c.JSON(out)
}

func (h *PaymentPlanHandler) reply(c *fiber.Ctx, plan *entity.PaymentPlan, err error) error {
	if err != nil {
		return respondError(c, err, plan)
	}
	return c.JSON(dto.NewPaymentPlanResponse(plan))
}

func lineIndex(c *fiber.Ctx) (int, bool, error) {
	index, err := strconv.Atoi(c.Params("index"))
	if err != nil || index < 0 {
		return 0, false, c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_PARAM", Message: "index debe ser un entero no negativo"})
	}
	return index, true, nil
}
