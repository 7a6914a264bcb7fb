package cli

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/example/stratdesk/internal/adapters/httpapi"
	"github.com/example/stratdesk/internal/config"
	"github.com/example/stratdesk/internal/wire"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the dashboard HTTP API",
	Long: `Serve the read-mostly dashboard API over HTTP.

The listen address comes from --addr, then config.yaml, then the default.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		addr, _ := cmd.Flags().GetString("addr")
		if addr == "" {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			addr = cfg.ResolveListenAddr()
		}

		server := httpapi.NewServer(
			wire.ClientService(),
			wire.TaskService(),
			wire.NotificationService(),
			wire.ReportService(),
			addr,
		)

		// Shut down cleanly on SIGINT/SIGTERM.
		done := make(chan os.Signal, 1)
		signal.Notify(done, syscall.SIGINT, syscall.SIGTERM)
		go func() {
			<-done
			slog.Info("shutting down")
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := server.Shutdown(ctx); err != nil {
				slog.Error("shutdown failed", "error", err)
			}
		}()

		if err := server.Start(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (host:port)")
}

// ServeCmd returns the serve command.
func ServeCmd() *cobra.Command {
	return serveCmd
}
