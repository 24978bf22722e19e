package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "List a restaurant's menu",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, _, logger, err := newClient(cmd)
		if err != nil {
			return err
		}
		defer logger.Sync()

		restaurant := restaurantFlag(cmd)
		menu, err := client.GetMenu(cmd.Context(), restaurant)
		if err != nil {
			return fmt.Errorf("failed to fetch menu: %w", err)
		}

		fmt.Printf("📋 Menu for %s (%d items)\n\n", restaurant, len(menu))
		for _, item := range menu {
			availability := ""
			if !item.IsAvailable {
				availability = " (unavailable)"
			}
			fmt.Printf("  #%-5d %-30s $%s%s\n", item.ItemID, item.ItemName, item.ItemPrice.StringFixed(2), availability)
		}
		return nil
	},
}
