package http

import (
	"context"
	"errors"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/WMASewwandi/clovesis-sub003/internal/application/dto"
	"github.com/WMASewwandi/clovesis-sub003/internal/domain"
	"github.com/WMASewwandi/clovesis-sub003/internal/domain/entity"
	"github.com/WMASewwandi/clovesis-sub003/internal/domain/paymentplan"
	"github.com/WMASewwandi/clovesis-sub003/internal/infrastructure/crmapi"
)

// GuardResponse aviso de una guarda del formulario: la operación no se aplicó y Plan
// es el borrador tal como quedó.
type GuardResponse struct {
	dto.ErrorResponse
	Plan *dto.PaymentPlanResponse `json:"plan,omitempty"`
}

// respondError traduce errores de los casos de uso a códigos HTTP.
// plan solo se usa para las guardas; puede ser nil.
func respondError(c *fiber.Ctx, err error, plan *entity.PaymentPlan) error {
	var verr *paymentplan.ValidationError
	switch {
	case errors.As(err, &verr):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: verr.Message, Field: verr.Field})
	case errors.Is(err, domain.ErrLastLine), errors.Is(err, domain.ErrInitialPaymentLocked):
		out := GuardResponse{ErrorResponse: dto.ErrorResponse{Code: "GUARD", Message: guardMessage(err)}}
		if plan != nil {
			resp := dto.NewPaymentPlanResponse(plan)
			out.Plan = &resp
		}
		return c.Status(fiber.StatusConflict).JSON(out)
	case errors.Is(err, domain.ErrSubmitInProgress):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "BUSY", Message: "el plan ya se está enviando"})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "borrador no encontrado"})
	case errors.Is(err, domain.ErrQuoteNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "QUOTE_NOT_FOUND", Message: "cotización no encontrada"})
	case errors.Is(err, domain.ErrLineNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "LINE_NOT_FOUND", Message: "línea no encontrada"})
	case errors.Is(err, domain.ErrUnauthorized):
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "sesión no válida"})
	case errors.Is(err, domain.ErrUpstream), errors.Is(err, domain.ErrUnexpectedResponse):
		return c.Status(fiber.StatusBadGateway).JSON(dto.ErrorResponse{Code: "UPSTREAM", Message: crmapi.UserMessage(err)})
	case errors.Is(err, context.DeadlineExceeded):
		return c.Status(fiber.StatusGatewayTimeout).JSON(dto.ErrorResponse{Code: "TIMEOUT", Message: crmapi.GenericErrorMessage})
	case errors.Is(err, context.Canceled):
		return c.Status(fiber.StatusBadGateway).JSON(dto.ErrorResponse{Code: "UPSTREAM", Message: crmapi.GenericErrorMessage})
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_INPUT", Message: err.Error()})
	default:
		// El detalle queda en el log; al cliente solo el mensaje genérico.
		log.Error().Err(err).Str("path", c.Path()).Msg("error no controlado")
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: crmapi.GenericErrorMessage})
	}
}

func guardMessage(err error) string {
	if errors.Is(err, domain.ErrLastLine) {
		return "You need at least one payment line."
	}
	return "The initial payment line cannot be removed. Set the initial payment to 0 instead."
}

// ── Body / params ────────────────────────────────────────────────────────────

var validate = validator.New()

// bindBody parsea y valida el body. Si falla ya respondió y devuelve ok=false.
func bindBody(c *fiber.Ctx, out interface{}) (bool, error) {
	if err := c.BodyParser(out); err != nil {
		return false, c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: err.Error()})
	}
	if err := validate.Struct(out); err != nil {
		resp := dto.ErrorResponse{Code: "INVALID_BODY", Message: err.Error()}
		var ferrs validator.ValidationErrors
		if errors.As(err, &ferrs) && len(ferrs) > 0 {
			resp.Field = ferrs[0].Field()
			resp.Message = ferrs[0].Field() + ": " + ferrs[0].Tag()
		}
		return false, c.Status(fiber.StatusBadRequest).JSON(resp)
	}
	return true, nil
}

// intParam lee un parámetro de ruta entero. Si falla ya respondió y devuelve ok=false.
func intParam(c *fiber.Ctx, name string) (int64, bool, error) {
	v, err := strconv.ParseInt(c.Params(name), 10, 64)
	if err != nil {
		return 0, false, c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_PARAM", Message: name + " debe ser numérico"})
	}
	return v, true, nil
}
