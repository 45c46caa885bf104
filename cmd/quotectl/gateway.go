package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/diewo77/quotes/internal/config"
	"github.com/diewo77/quotes/internal/messaging"
)

var gatewayCmd = &cobra.Command{
	Use:   "gateway-status",
	Short: "Show the state of the messaging gateway instance",
	Args:  cobra.NoArgs,
	RunE:  runGatewayStatus,
}

func init() {
	rootCmd.AddCommand(gatewayCmd)
}

func runGatewayStatus(cmd *cobra.Command, _ []string) error {
	cfg := config.Load().Messaging
	if !cfg.Enabled() {
		return errors.New("messaging gateway not configured (EVOLUTION_BASE_URL, EVOLUTION_INSTANCE, EVOLUTION_API_KEY)")
	}
	client := messaging.NewClient(messaging.Config{
		BaseURL:       cfg.BaseURL,
		Instance:      cfg.Instance,
		APIKey:        cfg.APIKey,
		RatePerSecond: cfg.RatePerSecond,
	})
	resp, err := client.Status(cmd.Context())
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s: %v\n", cfg.Instance, resp.Data)
	return nil
}
