package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/iburimskiy/constellation/internal/server"
	"github.com/iburimskiy/constellation/internal/ui"
)

func serveCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve PNG snapshots over HTTP",
		Long:  "Serve GET /background.png?width=&height=&frames=&seed= and GET /healthz. PORT overrides the configured address.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = serveAddr(cfg.Serve.Addr)
			}
			if !cfg.Log.Debug {
				gin.SetMode(gin.ReleaseMode)
			}

			srv := &http.Server{
				Addr:              addr,
				Handler:           server.NewRouter(cfg),
				ReadHeaderTimeout: 10 * time.Second,
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			errc := make(chan error, 1)
			go func() {
				errc <- srv.ListenAndServe()
			}()
			fmt.Printf("  %s serving on %s\n", ui.Brand.Sprint(ui.Star), ui.Info.Sprint(addr))
			log.Printf("serve: listening on %s", addr)

			select {
			case err := <-errc:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return fmt.Errorf("serve: %w", err)
			case <-ctx.Done():
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			log.Printf("serve: shutting down")
			return srv.Shutdown(shutdownCtx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default $PORT or config)")

	return cmd
}

// serveAddr prefers the PORT environment variable over the configured address.
func serveAddr(configured string) string {
	if port := os.Getenv("PORT"); port != "" {
		return ":" + port
	}
	return configured
}
