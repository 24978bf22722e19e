package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/frontdash/checkout/internal/checkout"
)

var hoursCmd = &cobra.Command{
	Use:   "hours",
	Short: "Show operating hours and whether orders are accepted right now",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, cfg, logger, err := newClient(cmd)
		if err != nil {
			return err
		}
		defer logger.Sync()

		restaurant := restaurantFlag(cmd)
		hours, err := client.GetHours(cmd.Context(), restaurant)
		if err != nil {
			return fmt.Errorf("failed to fetch hours: %w", err)
		}

		fmt.Printf("🕒 Hours for %s\n\n", restaurant)
		for _, h := range hours {
			if h.IsClosed {
				fmt.Printf("  %-10s closed\n", h.DayOfWeek)
				continue
			}
			fmt.Printf("  %-10s %s - %s\n", h.DayOfWeek, h.OpenTime, h.CloseTime)
		}

		eligibility := checkout.CheckEligibility(hours, localNow(cfg))
		fmt.Printf("\nStatus: %s\n", eligibility.Status)
		if msg := eligibility.Message(); msg != "" {
			fmt.Println(msg)
		}
		return nil
	},
}
