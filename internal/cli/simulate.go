package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/WMASewwandi/clovesis-sub003/internal/domain"
	"github.com/WMASewwandi/clovesis-sub003/internal/domain/entity"
	"github.com/WMASewwandi/clovesis-sub003/internal/domain/paymentplan"
)

// Script secuencia de operaciones del formulario aplicada sobre un total objetivo.
//
//	{
//	  "target": "1000",
//	  "steps": [
//	    {"op": "initial_payment", "amount": "300", "due_date": "2024-01-01"},
//	    {"op": "edit", "index": 1, "field": "amount", "value": "400"},
//	    {"op": "add"},
//	    {"op": "remove", "index": 2},
//	    {"op": "status", "status": 2}
//	  ]
//	}
type Script struct {
	Target string `json:"target"`
	Steps  []Step `json:"steps"`
}

// Step una operación del script. Los campos usados dependen de Op.
type Step struct {
	Op      string `json:"op"` // initial_payment | edit | add | remove | status | plan_type
	Amount  string `json:"amount,omitempty"`
	DueDate string `json:"due_date,omitempty"`
	Index   int    `json:"index,omitempty"`
	Field   string `json:"field,omitempty"`
	Value   string `json:"value,omitempty"`
	Status  int    `json:"status,omitempty"`
	Type    int    `json:"type,omitempty"`
}

// SimulationResult plan final y avisos de las guardas que se dispararon en el camino.
type SimulationResult struct {
	Plan     *entity.PaymentPlan
	Warnings []string
}

// RunScript aplica los pasos en orden. Las guardas (última línea, pago inicial) no cortan
// la simulación: quedan como aviso y el plan sigue igual. Cualquier otro error la aborta.
func RunScript(s Script, now time.Time) (*SimulationResult, error) {
	target, err := paymentplan.ParseAmount(s.Target)
	if err != nil {
		return nil, err
	}
	plan := paymentplan.NewPlan(now)
	plan.Amount = target
	plan.Target = target
	form := paymentplan.NewForm(plan)

	res := &SimulationResult{}
	for i, step := range s.Steps {
		err := applyStep(form, step)
		switch {
		case err == nil:
		case errors.Is(err, domain.ErrLastLine), errors.Is(err, domain.ErrInitialPaymentLocked):
			res.Warnings = append(res.Warnings, fmt.Sprintf("paso %d (%s): %v", i+1, step.Op, err))
		default:
			return nil, fmt.Errorf("paso %d (%s): %w", i+1, step.Op, err)
		}
	}
	res.Plan = form.Plan()
	return res, nil
}

func applyStep(form *paymentplan.Form, step Step) error {
	switch step.Op {
	case "initial_payment":
		amount, err := paymentplan.ParseAmount(step.Amount)
		if err != nil {
			return err
		}
		date, err := paymentplan.ParseDate(step.DueDate)
		if err != nil {
			return err
		}
		form.SetInitialPayment(amount, date)
		return nil
	case "edit":
		field, err := paymentplan.ParseLineField(step.Field)
		if err != nil {
			return err
		}
		return form.EditLine(step.Index, field, step.Value)
	case "add":
		form.AddLine()
		return nil
	case "remove":
		return form.RemoveLine(step.Index)
	case "status":
		return form.SetStatus(entity.InvoiceStatus(step.Status))
	case "plan_type":
		return form.SetPaymentPlanType(entity.PaymentPlanType(step.Type))
	}
	return fmt.Errorf("%w: operación %q", domain.ErrInvalidInput, step.Op)
}

// PrintPlan imprime las líneas en columnas, el total contra el objetivo y los avisos.
func PrintPlan(w io.Writer, res *SimulationResult) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tKIND\tDESCRIPTION\tAMOUNT\tPAID")
	for i, l := range res.Plan.Lines {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%t\n", i, l.Kind, l.Description, l.Amount.StringFixed(2), l.IsPaid)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	total := paymentplan.SumLines(res.Plan.Lines)
	fmt.Fprintf(w, "\ntotal %s / target %s (diff %s)\n",
		total.StringFixed(2), res.Plan.Target.StringFixed(2), total.Sub(res.Plan.Target).StringFixed(2))
	for _, warn := range res.Warnings {
		fmt.Fprintf(w, "warning: %s\n", warn)
	}
	return nil
}

func newSimulateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "simulate <script.json>",
		Short: "Aplica un script de operaciones del plan de pagos y muestra las líneas",
		Long: `Simula el formulario de plan de pagos sin tocar el CRM.

El script define el total objetivo y la lista de pasos (initial_payment, edit, add,
remove, status, plan_type). Se imprime el estado final de las líneas y el descuadre
contra el objetivo.`,
		Example: `  plan simulate testdata/partial.json`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("leer script: %w", err)
			}
			var s Script
			if err := json.Unmarshal(raw, &s); err != nil {
				return fmt.Errorf("script inválido: %w", err)
			}
			res, err := RunScript(s, time.Now())
			if err != nil {
				return err
			}
			return PrintPlan(cmd.OutOrStdout(), res)
		},
	}
}
