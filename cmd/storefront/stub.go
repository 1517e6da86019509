package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/nycolasmancini/pmcell-storefront/internal/stub"
)

func newStubCmd() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "stub",
		Short: "Run the development catalog backend",
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger, err := zap.NewProduction()
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			server := &http.Server{
				Addr:    addr,
				Handler: stub.NewServer(logger).Handler(),
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			go func() {
				logger.Info("stub backend listening", zap.String("addr", addr))
				if errServe := server.ListenAndServe(); !errors.Is(errServe, http.ErrServerClosed) {
					logger.Error("stub backend failed", zap.Error(errServe))
				}
			}()

			<-ctx.Done()
			logger.Info("shutting down stub backend")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", ":8000", "listen address")
	return cmd
}
