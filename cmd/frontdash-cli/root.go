package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/frontdash/checkout/internal/config"
	"github.com/frontdash/checkout/internal/frontdash"
)

var rootCmd = &cobra.Command{
	Use:   "frontdash-cli",
	Short: "Inspect FrontDash restaurants and price carts from the terminal",
	Long:  `frontdash-cli queries the FrontDash restaurant API for hours and menus and quotes a cart with the same pricing and eligibility rules the checkout server applies.`,
}

func init() {
	rootCmd.PersistentFlags().String("api-base", "", "FrontDash API base URL (default from FRONTDASH_API_BASE)")
	rootCmd.PersistentFlags().Duration("timeout", 0, "API request timeout (default from FRONTDASH_API_TIMEOUT)")
	rootCmd.PersistentFlags().StringP("restaurant", "r", "", "Restaurant name")
	rootCmd.MarkPersistentFlagRequired("restaurant")

	rootCmd.AddCommand(hoursCmd, menuCmd, quoteCmd)
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newClient loads configuration and builds an API client. Flags override environment.
func newClient(cmd *cobra.Command) (*frontdash.Client, *config.Config, *zap.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if base, _ := cmd.Flags().GetString("api-base"); base != "" {
		cfg.Frontdash.BaseURL = base
	}
	if timeout, _ := cmd.Flags().GetDuration("timeout"); timeout > 0 {
		cfg.Frontdash.Timeout = timeout
	}

	logger, _ := zap.NewDevelopment()
	return frontdash.NewClient(cfg.Frontdash, logger), cfg, logger, nil
}

func restaurantFlag(cmd *cobra.Command) string {
	name, _ := cmd.Flags().GetString("restaurant")
	return name
}

func localNow(cfg *config.Config) time.Time {
	return time.Now().In(cfg.Checkout.Location)
}
