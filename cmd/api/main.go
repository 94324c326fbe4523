package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/WMASewwandi/clovesis-sub003/internal/application/billing"
	"github.com/WMASewwandi/clovesis-sub003/internal/domain/repository"
	"github.com/WMASewwandi/clovesis-sub003/internal/infrastructure/crmapi"
	"github.com/WMASewwandi/clovesis-sub003/internal/infrastructure/memory"
	infrapdf "github.com/WMASewwandi/clovesis-sub003/internal/infrastructure/pdf"
	"github.com/WMASewwandi/clovesis-sub003/internal/infrastructure/postgres"
	httpRouter "github.com/WMASewwandi/clovesis-sub003/internal/interfaces/http"
	"github.com/WMASewwandi/clovesis-sub003/pkg/config"
	"github.com/WMASewwandi/clovesis-sub003/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("crm", cfg.CRM.BaseURL).
		Str("drafts", cfg.Drafts.Store).
		Msg("iniciando aplicación")

	ctx := context.Background()

	// Borradores: en memoria (una instancia) o PostgreSQL (varias instancias / reinicios).
	var drafts repository.DraftRepository
	switch cfg.Drafts.Store {
	case config.DraftStorePostgres:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		drafts = postgres.NewDraftRepository(pool)
	default:
		drafts = memory.NewDraftRepository()
	}

	crm := crmapi.NewClient(cfg.CRM.BaseURL, cfg.CRM.Timeout())
	formatter := infrapdf.NewMarotoDocumentFormatter(cfg.App.Name)

	paymentPlanUC := billing.NewPaymentPlanUseCase(drafts, crm, crm, log.Zerolog())
	documentUC := billing.NewDocumentUseCase(crm, formatter, crm, cfg.Share.Subject, log.Zerolog())

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: cfg.CRM.Timeout() + 10*time.Second, // envío y subida esperan al CRM
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Clovesis Invoicing API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		PaymentPlanUC: paymentPlanUC,
		DocumentUC:    documentUC,
		Auth: httpRouter.AuthConfig{
			Secret: cfg.JWT.Secret,
			Issuer: cfg.JWT.Issuer,
		},
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
