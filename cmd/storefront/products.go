package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/nycolasmancini/pmcell-storefront/internal/app"
	"github.com/nycolasmancini/pmcell-storefront/internal/domain"
)

func newProductsCmd() *cobra.Command {
	var (
		search     string
		categoryID int64
		page       int
	)
	cmd := &cobra.Command{
		Use:   "products [product-id]",
		Short: "Browse the catalog",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(a *app.App) error {
				unlocked := a.Gate.IsUnlocked(cmd.Context())

				if len(args) == 1 {
					id, err := strconv.ParseInt(args[0], 10, 64)
					if err != nil {
						return fmt.Errorf("product-id must be an integer: %w", err)
					}
					product, err := a.API.GetProduct(cmd.Context(), id)
					if err != nil {
						return err
					}
					a.Tracker.RecordProductView(product.ID, product.Type, product.Name)
					printProduct(cmd, *product, unlocked)
					return nil
				}

				filters := domain.ProductFilters{Search: search, CategoryID: categoryID}
				result, err := a.API.ListProducts(cmd.Context(), filters, page)
				if err != nil {
					return err
				}
				if search != "" {
					a.Tracker.RecordSearch(search, len(result.Results))
				}
				if categoryID != 0 {
					a.Tracker.RecordCategoryVisit(strconv.FormatInt(categoryID, 10), "")
				}
				for _, product := range result.Results {
					printProduct(cmd, product, unlocked)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%d products\n", result.Count)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&search, "search", "", "search term")
	cmd.Flags().Int64Var(&categoryID, "category", 0, "filter by category id")
	cmd.Flags().IntVar(&page, "page", 1, "result page")
	return cmd
}

func printProduct(cmd *cobra.Command, product domain.Product, unlocked bool) {
	price := "locked"
	if unlocked && product.WholesalePrice != "" {
		price = product.WholesalePrice
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%4d  %-30s %-12s %s\n", product.ID, product.Name, product.Category.Name, price)
}
