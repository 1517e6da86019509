package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nycolasmancini/pmcell-storefront/internal/app"
	"github.com/nycolasmancini/pmcell-storefront/internal/domain"
)

func newCheckoutCmd() *cobra.Command {
	var (
		name     string
		whatsapp string
		notes    string
	)
	cmd := &cobra.Command{
		Use:   "checkout",
		Short: "Submit the local cart as an order",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd.Context(), func(a *app.App) error {
				snapshot, err := a.Cart.Snapshot(cmd.Context())
				if err != nil {
					return err
				}
				if len(snapshot) == 0 {
					return errors.New("cart is empty, nothing to checkout")
				}

				a.Tracker.Track(domain.EventCheckoutStarted, map[string]any{
					"cart_items": len(snapshot),
				})

				order, err := a.API.CreateOrder(cmd.Context(), domain.CheckoutForm{
					Name:            name,
					WhatsAppConfirm: whatsapp,
					Notes:           notes,
				}, snapshot)
				if err != nil {
					return err
				}

				if errClear := a.Cart.Clear(cmd.Context()); errClear != nil {
					return errClear
				}
				fmt.Fprintf(cmd.OutOrStdout(), "order %s created, total %s\n", order.OrderNumber, order.Total)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "customer name")
	cmd.Flags().StringVar(&whatsapp, "whatsapp", "", "whatsapp confirmation number")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("whatsapp")
	cmd.Flags().StringVar(&notes, "notes", "", "order notes")
	return cmd
}
