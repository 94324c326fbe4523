package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newQuotesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "quotes",
		Short: "Lista las cotizaciones del CRM que aún no tienen factura",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			b, err := loadBackend(cmd)
			if err != nil {
				return err
			}
			quotes, err := b.client.GetQuotesWithoutInvoice(cmd.Context(), b.token)
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNUMBER\tCOMPANY\tSUBTOTAL\tDISCOUNT\tTOTAL\tITEMS")
			for _, q := range quotes {
				fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%d\n",
					q.ID, q.QuoteNumber, q.CompanyName,
					q.SubTotal.StringFixed(2), q.Discount.StringFixed(2), q.Total.StringFixed(2), len(q.LineItems))
			}
			return tw.Flush()
		},
	}
}
