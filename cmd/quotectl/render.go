package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/diewo77/quotes/internal/config"
	"github.com/diewo77/quotes/internal/db"
	"github.com/diewo77/quotes/internal/services"
	pdfgen "github.com/diewo77/quotes/pdf"
	"github.com/diewo77/quotes/validation"
)

var renderCmd = &cobra.Command{
	Use:   "render [quote-id]",
	Short: "Render a stored quote to PDF",
	Args:  cobra.ExactArgs(1),
	RunE:  runRender,
}

func init() {
	addRenderFlags(renderCmd)
	rootCmd.AddCommand(renderCmd)
}

func runRender(cmd *cobra.Command, args []string) error {
	v := validation.Violations{}
	id := validation.ID("quote-id", args[0], v)
	if !v.Empty() {
		return fmt.Errorf("invalid quote id %q", args[0])
	}
	cfg := config.Load()
	conn, err := db.ConnectAndMigrate(cfg.Database)
	if err != nil {
		return err
	}
	if sqlDB, err := conn.DB(); err == nil {
		defer sqlDB.Close()
	}

	opts, themes, err := renderOptions(cfg.Render, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	in, err := services.NewQuoteService(conn).LoadInput(cmd.Context(), id)
	if err != nil {
		return err
	}
	if err := services.CheckTotals(in); err != nil {
		return err
	}
	theme := themes.For(in.Company.TaxID)
	opts.Theme = &theme
	data, err := pdfgen.QuotePDF(in, opts)
	if err != nil {
		return err
	}
	return writeOutput(cmd, data, pdfgen.FileName(in.Quote, opts.Lang))
}
