package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/nycolasmancini/pmcell-storefront/internal/app"
	"github.com/nycolasmancini/pmcell-storefront/internal/domain"
)

func newCartCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cart",
		Short: "Inspect and mutate the local cart",
	}
	cmd.AddCommand(
		newCartAddCmd(),
		newCartListCmd(),
		newCartUpdateCmd(),
		newCartRemoveCmd(),
		newCartClearCmd(),
	)
	return cmd
}

func newCartAddCmd() *cobra.Command {
	var (
		quantity    int
		variantID   int64
		productType string
	)
	cmd := &cobra.Command{
		Use:   "add <product-id>",
		Short: "Add a product to the cart",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			productID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("product-id must be an integer: %w", err)
			}
			return withApp(cmd.Context(), func(a *app.App) error {
				var variant *int64
				if variantID != 0 {
					variant = &variantID
				}
				if errAdd := a.Cart.Add(cmd.Context(), productID, productType, quantity, variant); errAdd != nil {
					return errAdd
				}
				count, errCount := a.Cart.Count(cmd.Context())
				if errCount != nil {
					return errCount
				}
				fmt.Fprintf(cmd.OutOrStdout(), "added product %d, cart now holds %d items\n", productID, count)
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&quantity, "qty", 1, "quantity to add")
	cmd.Flags().Int64Var(&variantID, "variant", 0, "phone model variant id")
	cmd.Flags().StringVar(&productType, "type", domain.ProductTypeAccessory, "product type")
	return cmd
}

func newCartListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List cart lines",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd.Context(), func(a *app.App) error {
				snapshot, err := a.Cart.Snapshot(cmd.Context())
				if err != nil {
					return err
				}
				if len(snapshot) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "cart is empty")
					return nil
				}
				for _, line := range snapshot {
					fmt.Fprintf(cmd.OutOrStdout(), "%-10s product=%d qty=%d added=%s\n",
						line.Key, line.ProductID, line.Quantity, line.AddedAt.Format("2006-01-02 15:04"))
				}
				fmt.Fprintf(cmd.OutOrStdout(), "total items: %d\n", snapshot.Count())
				return nil
			})
		},
	}
}

func newCartUpdateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "update <key> <quantity>",
		Short: "Set a cart line's quantity (0 removes it)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			quantity, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("quantity must be an integer: %w", err)
			}
			return withApp(cmd.Context(), func(a *app.App) error {
				return a.Cart.UpdateQuantity(cmd.Context(), args[0], quantity)
			})
		},
	}
}

func newCartRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <key>",
		Short: "Remove a cart line",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(a *app.App) error {
				return a.Cart.Remove(cmd.Context(), args[0])
			})
		},
	}
}

func newCartClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Empty the cart",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd.Context(), func(a *app.App) error {
				return a.Cart.Clear(cmd.Context())
			})
		},
	}
}
