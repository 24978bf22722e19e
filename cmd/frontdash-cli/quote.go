package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/frontdash/checkout/internal/checkout"
	"github.com/frontdash/checkout/internal/domain"
)

var quoteCmd = &cobra.Command{
	Use:   "quote",
	Short: "Price a cart against the live menu",
	Example: `  frontdash-cli quote -r "Luigi's" --item 3:2 --item 7:1 --tip-preset 20
  frontdash-cli quote -r "Luigi's" --item 3:2 --tip 5.00`,
	RunE: func(cmd *cobra.Command, args []string) error {
		pairs, _ := cmd.Flags().GetStringSlice("item")
		quantities, err := parseItems(pairs)
		if err != nil {
			return err
		}

		preset, _ := cmd.Flags().GetInt("tip-preset")
		if preset != 0 && !checkout.IsTipPreset(preset) {
			return fmt.Errorf("tip preset must be one of %v", checkout.TipPresets)
		}
		amount, _ := cmd.Flags().GetString("tip")

		client, cfg, logger, err := newClient(cmd)
		if err != nil {
			return err
		}
		defer logger.Sync()

		restaurant := restaurantFlag(cmd)
		menu, err := client.GetMenu(cmd.Context(), restaurant)
		if err != nil {
			return fmt.Errorf("failed to fetch menu: %w", err)
		}

		lines, err := buildLines(restaurant, menu, quantities)
		if err != nil {
			return err
		}

		pricing := checkout.ComputePricing(lines, domain.TipSelection{Preset: preset, Amount: amount}).Rounded()

		fmt.Printf("🧾 Quote for %s\n\n", restaurant)
		for _, l := range lines {
			fmt.Printf("  %2d x %-30s $%s\n", l.Quantity, l.Name, l.LineTotal().StringFixed(2))
		}
		fmt.Printf("\n  %-20s $%s\n", "Subtotal", pricing.Subtotal.StringFixed(2))
		fmt.Printf("  %-20s $%s\n", "Service charge", pricing.ServiceCharge.StringFixed(2))
		fmt.Printf("  %-20s $%s\n", "Tip", pricing.TipAmount.StringFixed(2))
		fmt.Printf("  %-20s $%s\n", "Total", pricing.GrandTotal.StringFixed(2))

		hours, err := client.GetHours(cmd.Context(), restaurant)
		if err != nil {
			logger.Warn("Could not fetch hours")
			return nil
		}
		if e := checkout.CheckEligibility(hours, localNow(cfg)); !e.Allowed() {
			fmt.Printf("\n⚠️  %s\n", e.Message())
		}
		return nil
	},
}

func init() {
	quoteCmd.Flags().StringSlice("item", nil, "Menu item as <itemID>:<quantity> (repeatable)")
	quoteCmd.Flags().Int("tip-preset", 0, "Tip preset percentage (18, 20 or 25)")
	quoteCmd.Flags().String("tip", "", "Tip amount in dollars")
	quoteCmd.MarkFlagRequired("item")
}

// parseItems reads "<itemID>:<quantity>" pairs. A bare id means quantity 1.
func parseItems(pairs []string) (map[int]int, error) {
	quantities := make(map[int]int, len(pairs))
	for _, pair := range pairs {
		idPart, qtyPart, found := strings.Cut(pair, ":")
		id, err := strconv.Atoi(strings.TrimSpace(idPart))
		if err != nil {
			return nil, fmt.Errorf("invalid item %q: %w", pair, err)
		}
		qty := 1
		if found {
			qty, err = strconv.Atoi(strings.TrimSpace(qtyPart))
			if err != nil || qty < 1 {
				return nil, fmt.Errorf("invalid quantity in %q", pair)
			}
		}
		quantities[id] += qty
	}
	return quantities, nil
}

// buildLines resolves item ids against the menu. Lines follow menu order.
func buildLines(restaurant string, menu []domain.MenuItem, quantities map[int]int) ([]domain.CartLine, error) {
	lines := make([]domain.CartLine, 0, len(quantities))
	seen := make(map[int]bool, len(quantities))
	for _, item := range menu {
		qty, ok := quantities[item.ItemID]
		if !ok {
			continue
		}
		if !item.IsAvailable {
			return nil, fmt.Errorf("%s is currently unavailable", item.ItemName)
		}
		seen[item.ItemID] = true
		lines = append(lines, domain.CartLine{
			CatalogItemID:  item.ItemID,
			Name:           item.ItemName,
			UnitPrice:      item.ItemPrice,
			Quantity:       qty,
			RestaurantName: restaurant,
		})
	}
	for id := range quantities {
		if !seen[id] {
			return nil, fmt.Errorf("item %d is not on the menu", id)
		}
	}
	return lines, nil
}
