package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/idescope/idescope/internal/api"
	"github.com/idescope/idescope/internal/ide"
	"github.com/idescope/idescope/internal/logger"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the idescope HTTP server",
	Long: `Start the HTTP server exposing window discovery, layout analysis,
and capture operations over a REST API.`,
	Example: `  # Start server on the default port (8080)
  idescope serve

  # Start server on a custom port with debug logging
  idescope serve --port 9090 --log-level debug`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	configMgr, err := loadConfig()
	if err != nil {
		return err
	}
	cfg := configMgr.Get()

	log := logger.WithComponent("serve")
	log.Info().Str("config", configMgr.GetConfigPath()).Msg("Configuration loaded")

	service, err := ide.New(cfg)
	if err != nil {
		return fmt.Errorf("failed to connect to X11: %w", err)
	}
	defer service.Close()

	server := api.NewServer(service, configMgr)

	go func() {
		if err := server.Start(cfg.ServerPort); err != nil {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	log.Info().Int("port", cfg.ServerPort).Msg("idescope is running, press Ctrl+C to stop")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	log.Info().Msg("Shutting down")
	return nil
}
