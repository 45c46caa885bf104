package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/diewo77/quotes/internal/config"
	"github.com/diewo77/quotes/internal/db"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Bring the database schema up to date",
	Args:  cobra.NoArgs,
	RunE:  runMigrate,
}

var migrateSeed bool

func init() {
	migrateCmd.Flags().BoolVar(&migrateSeed, "seed", false, "Load development data after migrating")
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	cfg := config.Load()
	if migrateSeed {
		cfg.Database.Seed = true
	}
	conn, err := db.ConnectAndMigrate(cfg.Database)
	if err != nil {
		return err
	}
	if sqlDB, err := conn.DB(); err == nil {
		defer sqlDB.Close()
	}
	fmt.Fprintf(cmd.OutOrStdout(), "database ready (%s)\n", db.MaskDSN(db.NormalizeDSN(cfg.Database.DSN)))
	return nil
}
