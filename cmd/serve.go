package cmd

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/scatterbrainlabs/scatterbrain/engine"
	"github.com/scatterbrainlabs/scatterbrain/internal/server"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server",
	Long: `Run the scatterbrain HTTP server: the JSON API under /api and the
server-sent-event feed under /ui/events/{id}. Plans live in memory for the
lifetime of the process.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		config := GetConfig()
		port, _ := cmd.Flags().GetInt("port")
		if port == 0 {
			port = config.Server.Port
		}

		level := slog.LevelInfo
		if config.Verbose {
			level = slog.LevelDebug
		}
		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

		registry := engine.NewRegistry(logger)
		srv := server.New(port, config.Server.AllowedOrigins, registry, logger)

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		errs := make(chan error, 1)
		go func() { errs <- srv.Start() }()

		select {
		case err := <-errs:
			return err
		case <-ctx.Done():
			logger.Info("shutting down")
			return srv.Shutdown(context.Background())
		}
	},
}

func init() {
	serveCmd.Flags().Int("port", 0, "port to listen on (default from config, 3000)")
	rootCmd.AddCommand(serveCmd)
}
