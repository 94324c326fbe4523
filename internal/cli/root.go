// Package cli comandos de la herramienta plan: consulta de cotizaciones, simulación del
// formulario de plan de pagos y generación de documentos desde la terminal.
package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/WMASewwandi/clovesis-sub003/internal/domain"
	"github.com/WMASewwandi/clovesis-sub003/internal/infrastructure/crmapi"
	"github.com/WMASewwandi/clovesis-sub003/pkg/config"
	"github.com/WMASewwandi/clovesis-sub003/pkg/logger"
)

var version = "1.0.0"

// NewRootCmd arma el árbol de comandos.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "plan",
		Short: "Planes de pago y cotizaciones del CRM desde la terminal",
		Long: `plan expone el formulario de plan de pagos y los documentos de cotización
fuera de la API HTTP.

Variables de entorno (o .env):
  CRM_API_BASE_URL         URL base del backend CRM
  CRM_API_TOKEN            Bearer token para las llamadas al CRM
  CRM_API_TIMEOUT_SECONDS  timeout por llamada (default 60)`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().String("token", "", "Bearer token del CRM (por defecto CRM_API_TOKEN)")

	root.AddCommand(newQuotesCmd(), newSimulateCmd(), newRenderCmd())
	return root
}

// Execute corre la CLI y termina el proceso con código 1 si el comando falla.
func Execute() {
	log := logger.New(logger.Config{Env: "development", Level: os.Getenv("LOG_LEVEL"), Output: os.Stderr}).
		WithComponent("cli")

	if err := NewRootCmd().Execute(); err != nil {
		log.Error().Err(err).Msg("comando fallido")
		msg := err.Error()
		if errors.Is(err, domain.ErrUpstream) {
			msg = crmapi.UserMessage(err)
		}
		fmt.Fprintf(os.Stderr, "Error: %s\n", msg)
		os.Exit(1)
	}
}

// backend configuración y cliente del CRM para los comandos que lo necesitan.
type backend struct {
	cfg    *config.Config
	client *crmapi.Client
	token  string
}

func loadBackend(cmd *cobra.Command) (*backend, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	token, _ := cmd.Flags().GetString("token")
	if token == "" {
		token = cfg.CRM.Token
	}
	if token == "" {
		return nil, fmt.Errorf("falta el token del CRM: use --token o CRM_API_TOKEN")
	}
	return &backend{
		cfg:    cfg,
		client: crmapi.NewClient(cfg.CRM.BaseURL, cfg.CRM.Timeout()),
		token:  token,
	}, nil
}
