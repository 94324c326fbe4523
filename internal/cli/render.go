package cli

import (
	"fmt"
	"os"
	"strconv"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/WMASewwandi/clovesis-sub003/internal/application/billing"
	"github.com/WMASewwandi/clovesis-sub003/internal/application/dto"
	infrapdf "github.com/WMASewwandi/clovesis-sub003/internal/infrastructure/pdf"
)

func newRenderCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render <quoteID>",
		Short: "Genera la cotización o proforma en PDF",
		Example: `  plan render 42 -o cotizacion.pdf
  plan render 42 --kind proforma --advance 250`,
		Args: cobra.ExactArgs(1),
		RunE: runRender,
	}
	cmd.Flags().StringP("output", "o", "", "Archivo de salida (por defecto <kind>_<número>.pdf)")
	cmd.Flags().String("kind", "quotation", "Tipo de documento: quotation | proforma")
	cmd.Flags().String("advance", "", "Anticipo recibido")
	cmd.Flags().String("customer", "", "Nombre del cliente (por defecto la empresa de la cotización)")
	return cmd
}

func runRender(cmd *cobra.Command, args []string) error {
	quoteID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("quoteID debe ser numérico: %q", args[0])
	}
	b, err := loadBackend(cmd)
	if err != nil {
		return err
	}

	kind, _ := cmd.Flags().GetString("kind")
	advance, _ := cmd.Flags().GetString("advance")
	customer, _ := cmd.Flags().GetString("customer")
	output, _ := cmd.Flags().GetString("output")

	// Solo se formatea: el uploader no se usa al renderizar.
	uc := billing.NewDocumentUseCase(b.client, infrapdf.NewMarotoDocumentFormatter(b.cfg.App.Name), b.client, b.cfg.Share.Subject, zerolog.Nop())
	pdfBytes, filename, err := uc.RenderQuotation(cmd.Context(), b.token, quoteID, dto.DocumentRequest{
		Kind:         kind,
		CustomerName: customer,
		Advance:      advance,
	})
	if err != nil {
		return err
	}
	if output == "" {
		output = filename
	}
	if err := os.WriteFile(output, pdfBytes, 0o644); err != nil {
		return fmt.Errorf("escribir %s: %w", output, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s (%d bytes)\n", output, len(pdfBytes))
	return nil
}
