package cli

import (
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/cetrics/nexdawn-storefront/internal/stubapi"
	"github.com/cetrics/nexdawn-storefront/pkg/config"
	"github.com/cetrics/nexdawn-storefront/pkg/logger"
)

var serveStubCmd = &cobra.Command{
	Use:   "serve-stub",
	Short: "Run the local stub backend",
	Long: `Run a local fake of the storefront API with seeded catalog, orders,
and budget data. Point the client at it with NEXDAWN_API_BASE_URL.`,
	RunE: runServeStub,
}

func init() {
	rootCmd.AddCommand(serveStubCmd)
}

func runServeStub(cmd *cobra.Command, args []string) error {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logg := logger.New(logger.Options{
		ServiceName: "nexdawn-stub",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
	})

	server, err := stubapi.NewServer(stubapi.ServerParams{Config: cfg.Stub, Logger: logg})
	if err != nil {
		return err
	}

	addr := net.JoinHostPort("127.0.0.1", cfg.Stub.Port)
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           server.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Stub API listening on http://%s\n", addr)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}
