package root

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"levelquest/internal/engine"
	"levelquest/internal/ui"
)

func newShopCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "shop",
		Short: "Browse the shop, buy and use items",
	}
	cmd.AddCommand(newShopListCmd(), newShopBuyCmd(), newShopUseCmd(), newShopInventoryCmd())
	return cmd
}

func newShopListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List shop items",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, ui.Heading(ui.IconPotion, "Shop"))
			for _, item := range engine.ShopCatalog {
				fmt.Fprintf(out, "%-20s %s %4d %s %s\n", item.ID, ui.IconGold, item.PriceGold,
					ui.RarityText(item.Rarity), ui.Muted.Render(item.Description))
			}
			return nil
		},
	}
}

func newShopBuyCmd() *cobra.Command {
	var quantity int

	cmd := &cobra.Command{
		Use:   "buy <item-id>",
		Short: "Buy an item",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("item id is required")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			svc, cleanup, err := openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			res, err := svc.PurchaseItem(ctx, args[0], quantity)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s Bought %dx %s for %s %d. Remaining: %d\n",
				ui.IconDone, res.Quantity, res.Item.Name, ui.IconGold, res.GoldSpent, res.GoldRemaining)
			return nil
		},
	}
	cmd.Flags().IntVarP(&quantity, "quantity", "n", 1, "How many to buy")
	return cmd
}

func newShopUseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "use <item-id>",
		Short: "Use an item from inventory",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("item id is required")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			svc, cleanup, err := openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			res, err := svc.UseItem(ctx, args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s Used %s.", ui.IconPotion, res.Item.Name)
			if res.XPGained > 0 {
				fmt.Fprintf(out, " +%d XP.", res.XPGained)
			}
			if res.GoldGained > 0 {
				fmt.Fprintf(out, " +%d gold.", res.GoldGained)
			}
			fmt.Fprintln(out)
			if res.LeveledUp {
				fmt.Fprintf(out, "%s %s You are now level %d!\n", ui.IconSparkle, ui.BadgeLevelUp, res.NewLevel)
			}
			return nil
		},
	}
}

func newShopInventoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "inventory",
		Aliases: []string{"inv"},
		Short:   "Show owned items",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			svc, cleanup, err := openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			inv, err := svc.Inventory(ctx)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, ui.Heading(ui.IconPotion, "Inventory"))
			if len(inv) == 0 {
				fmt.Fprintln(out, ui.Muted.Render("(empty)"))
				return nil
			}
			for _, e := range inv {
				fmt.Fprintf(out, "%3dx %-20s %s\n", e.Quantity, e.Item.Name, ui.Muted.Render(e.Item.Description))
			}
			return nil
		},
	}
}
