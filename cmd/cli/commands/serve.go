package commands

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/coe-onsite/onsite-manager/internal/web"
	"github.com/coe-onsite/onsite-manager/pkg/core/workspace"
)

const shutdownTimeout = 10 * time.Second

// ServeCmd creates the serve command
func ServeCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the application form and record list over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			host, _ := cmd.Flags().GetString("host")
			port, _ := cmd.Flags().GetInt("port")
			if !cmd.Flags().Changed("host") {
				host = app.Cfg.Server.Host
			}
			if !cmd.Flags().Changed("port") {
				port = app.Cfg.Server.Port
			}

			ws := workspace.New(app.Store, app.extractorOrUnavailable(), app.Logger, workspace.Options{
				DefaultStartTime: app.Cfg.DefaultStartTime,
				DefaultEndTime:   app.Cfg.DefaultEndTime,
				StaffPresets:     app.Cfg.StaffPresets,
				Location:         app.Cfg.Location(),
			})

			server, err := web.NewServer(ws, app.Logger, &web.Config{Host: host, Port: port})
			if err != nil {
				return fmt.Errorf("failed to create server: %w", err)
			}

			ctx, cancel := signal.NotifyContext(app.Ctx, syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			errCh := make(chan error, 1)
			go func() {
				errCh <- server.Start()
			}()

			fmt.Printf("\n🚀 Serving on http://%s:%d (Ctrl+C to stop)\n\n", host, port)

			select {
			case err := <-errCh:
				if err != nil && !errors.Is(err, http.ErrServerClosed) {
					return fmt.Errorf("server failed: %w", err)
				}
				return nil
			case <-ctx.Done():
			}

			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer shutdownCancel()

			if err := server.Shutdown(shutdownCtx); err != nil {
				app.Logger.Error("Server shutdown failed", zap.Error(err))
				return fmt.Errorf("failed to shut down server: %w", err)
			}

			return nil
		},
	}

	cmd.Flags().String("host", "", "Host to listen on (defaults to server.host from config)")
	cmd.Flags().Int("port", 0, "Port to listen on (defaults to server.port from config)")

	return cmd
}
