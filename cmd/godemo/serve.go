package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/labstack/echo/v5"
	"github.com/spf13/cobra"

	"github.com/datallboy/godemo/internal/api"
	"github.com/datallboy/godemo/internal/progress"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API with a server-sent event stream",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		hub := progress.NewHub(appCtx.Logger)
		e := echo.New()
		demoCtrl := api.RegisterRoutes(ctx, e, appCtx, hub)

		srv := &http.Server{
			Addr:              ":" + appCtx.Config.Port,
			Handler:           e,
			ReadHeaderTimeout: 10 * time.Second,
			// Open event streams end when ctx is cancelled
			BaseContext: func(net.Listener) context.Context { return ctx },
		}

		errCh := make(chan error, 1)
		go func() {
			appCtx.Logger.Info("Listening on %s", srv.Addr)
			errCh <- srv.ListenAndServe()
		}()

		select {
		case err := <-errCh:
			if !errors.Is(err, http.ErrServerClosed) {
				return err
			}
		case <-ctx.Done():
			appCtx.Logger.Info("Shutting down...")
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			appCtx.Logger.Warn("Server shutdown: %v", err)
		}

		// ctx is cancelled, so running jobs stop claiming work and return
		demoCtrl.Wait()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
