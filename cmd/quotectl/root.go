package main

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/diewo77/quotes/internal/config"
	pdfgen "github.com/diewo77/quotes/pdf"
)

var rootCmd = &cobra.Command{
	Use:           "quotectl",
	Short:         "Render and manage quotes",
	SilenceUsage:  true,
	SilenceErrors: false,
}

// render flags shared by render and demo
var (
	paperFlag       string
	orientationFlag string
	langFlag        string
	outputFlag      string
	themeFileFlag   string
)

func addRenderFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&paperFlag, "paper", "", "Paper size: a4, letter or legal")
	cmd.Flags().StringVar(&orientationFlag, "orientation", "", "Orientation: p or l")
	cmd.Flags().StringVar(&langFlag, "lang", "", "Label language: es or en")
	cmd.Flags().StringVarP(&outputFlag, "output", "o", "", "Output file (default: generated file name, - for stdout)")
	cmd.Flags().StringVar(&themeFileFlag, "themes", "", "TOML theme file (overrides PDF_THEME_FILE)")
}

// renderOptions merges flags over the configured defaults.
func renderOptions(cfg config.Render, stderr io.Writer) (pdfgen.Options, config.ThemeSet, error) {
	var opts pdfgen.Options
	paper, err := pdfgen.ParsePaperSize(firstSet(paperFlag, cfg.Paper))
	if err != nil {
		return opts, config.ThemeSet{}, err
	}
	orient, err := pdfgen.ParseOrientation(firstSet(orientationFlag, cfg.Orientation))
	if err != nil {
		return opts, config.ThemeSet{}, err
	}
	themes, err := config.LoadThemes(firstSet(themeFileFlag, cfg.ThemeFile))
	if err != nil {
		return opts, config.ThemeSet{}, err
	}
	opts = pdfgen.Options{
		Paper:       paper,
		Orientation: orient,
		Lang:        firstSet(langFlag, cfg.Lang),
		Images:      pdfgen.FileImageLoader{Root: cfg.AssetDir},
		Logger:      log.New(stderr, "quotectl: ", 0),
	}
	return opts, themes, nil
}

func firstSet(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

// writeOutput stores the document and reports where it went.
func writeOutput(cmd *cobra.Command, data []byte, defaultName string) error {
	name := firstSet(outputFlag, defaultName)
	if name == "-" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	if err := os.WriteFile(name, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d bytes)\n", name, len(data))
	return nil
}
