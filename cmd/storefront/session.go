package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nycolasmancini/pmcell-storefront/internal/app"
)

func newSessionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "session",
		Short: "Print the session identity token",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd.Context(), func(a *app.App) error {
				fmt.Fprintln(cmd.OutOrStdout(), a.SessionID)
				return nil
			})
		},
	}
}
