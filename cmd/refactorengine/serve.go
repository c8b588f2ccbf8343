package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"refactorengine/internal/gateway/app"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the workspace API and run event stream",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, log, done, err := setup()
		if err != nil {
			return err
		}
		defer done()

		a, err := app.New(cmd.Context(), cfg, log)
		if err != nil {
			return err
		}

		errCh := make(chan error, 1)
		go func() { errCh <- a.Start() }()

		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		select {
		case err := <-errCh:
			return err
		case <-quit:
		}

		log.Info("shutting down server")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := a.Shutdown(ctx); err != nil {
			return err
		}
		log.Info("server exited")
		return nil
	},
}
