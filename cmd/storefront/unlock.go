package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nycolasmancini/pmcell-storefront/internal/app"
	"github.com/nycolasmancini/pmcell-storefront/internal/unlock"
)

func newUnlockCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "unlock",
		Short: "Wholesale price unlock flow",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "status",
			Short: "Show whether prices are unlocked",
			RunE: func(cmd *cobra.Command, _ []string) error {
				return withApp(cmd.Context(), func(a *app.App) error {
					if a.Gate.IsUnlocked(cmd.Context()) {
						number := unlock.FormatNumber(a.Gate.ContactNumber(cmd.Context()))
						fmt.Fprintf(cmd.OutOrStdout(), "prices unlocked for %s\n", number)
					} else {
						fmt.Fprintln(cmd.OutOrStdout(), "prices locked")
					}
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "submit <whatsapp-number>",
			Short: "Submit a WhatsApp number to unlock prices",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return withApp(cmd.Context(), func(a *app.App) error {
					err := a.Gate.Submit(cmd.Context(), args[0])
					var validationErr *unlock.ValidationError
					switch {
					case errors.As(err, &validationErr):
						return fmt.Errorf("invalid number: %s", validationErr.Message)
					case errors.Is(err, unlock.ErrSubmissionFailed):
						return errors.New("could not unlock prices, please try again")
					case err != nil:
						return err
					}
					fmt.Fprintln(cmd.OutOrStdout(), "prices unlocked")
					return nil
				})
			},
		},
	)
	return cmd
}
