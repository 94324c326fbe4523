package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/WMASewwandi/clovesis-sub003/internal/application/billing"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	PaymentPlanUC *billing.PaymentPlanUseCase
	DocumentUC    *billing.DocumentUseCase
	Auth          AuthConfig
}

// Router registra las rutas de la API. Todas requieren Bearer Token: se reenvía al CRM.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api", AuthMiddleware(deps.Auth))

	// Cotizaciones pendientes y documentos
	quotes := api.Group("/quotes")
	quoteHandler := NewQuoteHandler(deps.PaymentPlanUC, deps.DocumentUC)
	quotes.Get("/pending", quoteHandler.ListPending)
	quotes.Post("/:id/document", quoteHandler.Document)
	quotes.Post("/:id/share", quoteHandler.Share)

	// Formulario de plan de pagos (borradores)
	plans := api.Group("/payment-plans")
	planHandler := NewPaymentPlanHandler(deps.PaymentPlanUC)
	plans.Post("/", planHandler.Create)
	plans.Get("/:id", planHandler.GetByID)
	plans.Put("/:id/quote", planHandler.SelectQuote)
	plans.Put("/:id/status", planHandler.SetStatus)
	plans.Put("/:id/plan-type", planHandler.SetPlanType)
	plans.Put("/:id/initial-payment", planHandler.SetInitialPayment)
	plans.Post("/:id/lines", planHandler.AddLine)
	plans.Patch("/:id/lines/:index", planHandler.EditLine)
	plans.Delete("/:id/lines/:index", planHandler.RemoveLine)
	plans.Post("/:id/validate", planHandler.Validate)
	plans.Post("/:id/submit", planHandler.Submit)
}
