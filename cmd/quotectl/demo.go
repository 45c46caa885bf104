package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/diewo77/quotes/internal/config"
	"github.com/diewo77/quotes/internal/services"
	pdfgen "github.com/diewo77/quotes/pdf"
)

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Render a synthetic quote without a database",
	Long:  `Builds a quote with the requested number of lines, useful to check pagination and themes.`,
	Args:  cobra.NoArgs,
	RunE:  runDemo,
}

var (
	demoItems int
	demoNotes int
	demoTaxID string
)

func init() {
	addRenderFlags(demoCmd)
	demoCmd.Flags().IntVar(&demoItems, "items", 12, "Number of line items")
	demoCmd.Flags().IntVar(&demoNotes, "notes", 3, "Number of note lines")
	demoCmd.Flags().StringVar(&demoTaxID, "tax-id", "20111111111", "Issuer tax id, selects the company theme")
	rootCmd.AddCommand(demoCmd)
}

// demoInput builds a consistent quote whose totals pass CheckTotals.
func demoInput(items, notes int, taxID string) pdfgen.Input {
	code := "COT-DEMO001"
	in := pdfgen.Input{
		Quote: pdfgen.Quote{
			ID:           1,
			Code:         &code,
			IssueDate:    time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC),
			ValidityDays: 15,
			Currency:     "PEN",
			Customer:     pdfgen.Customer{Name: "Cliente Demo SAC", TaxID: "20999999999", Address: "Av. Principal 100, Lima"},
			Conditions:   "Pago contra entrega. Precios válidos por el periodo indicado.",
		},
		Company: pdfgen.Company{Name: "Empresa Demo SRL", TaxID: taxID, Phone: "+51 1 000 0000", Email: "demo@example.com"},
	}
	var lines []string
	for i := 1; i <= notes; i++ {
		lines = append(lines, fmt.Sprintf("Nota de ejemplo número %d.", i))
	}
	in.Quote.Notes = strings.Join(lines, "\n")

	for i := 0; i < items; i++ {
		kind, value := pdfgen.DiscountPercent, float64(i%3*5)
		if i%4 == 3 {
			kind, value = pdfgen.DiscountAmount, 1
		}
		price := 10 + float64(i%7)*12.5
		qty := 1 + i%5
		taxable := i%6 != 5
		t := services.ComputeItemTotals(price, qty, kind, value, taxable, services.DefaultTaxRate)
		in.Items = append(in.Items, pdfgen.LineItem{
			Name:          fmt.Sprintf("Artículo de demostración %02d", i+1),
			Quantity:      qty,
			Unit:          "und",
			UnitPrice:     price,
			DiscountKind:  kind,
			DiscountValue: value,
			Subtotal:      t.Subtotal,
			Tax:           t.Tax,
			Total:         t.Total,
			Position:      i + 1,
		})
		in.Quote.Subtotal += t.Subtotal
		in.Quote.Tax += t.Tax
		in.Quote.Total += t.Total
	}
	return in
}

func runDemo(cmd *cobra.Command, _ []string) error {
	if demoItems < 0 || demoNotes < 0 {
		return fmt.Errorf("--items and --notes must not be negative")
	}
	cfg := config.Load()
	opts, themes, err := renderOptions(cfg.Render, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	in := demoInput(demoItems, demoNotes, demoTaxID)
	theme := themes.For(demoTaxID)
	opts.Theme = &theme
	data, err := pdfgen.QuotePDF(in, opts)
	if err != nil {
		return err
	}
	return writeOutput(cmd, data, pdfgen.FileName(in.Quote, opts.Lang))
}
