package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/codenest/codenest/internal/server"

	"github.com/gofiber/fiber/v3"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func NewServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe()
		},
	}

	return cmd
}

func runServe() error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	config, err := LoadConfig()
	if err != nil {
		return err
	}

	deps, err := BuildServiceDependencies(ctx, config)
	if err != nil {
		return err
	}

	app := server.NewHTTPServer(ctx, server.HTTPServerDependencies{
		WorkspaceController: deps.WorkspaceController,
		FolderController:    deps.FolderController,
		FileController:      deps.FileController,
	})

	log.Info().Msgf("Starting HTTP server on %s", config.HTTPAddress)

	if err := app.Listen(config.HTTPAddress, fiber.ListenConfig{
		GracefulContext:       ctx,
		DisableStartupMessage: true,
	}); err != nil {
		log.Error().Err(err).Msg("HTTP server failed")

		return err
	}

	log.Info().Msg("Server stopped")

	return nil
}
