package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"AgroSim/internal/config"
	"AgroSim/internal/logging"
	"AgroSim/internal/server"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var configPath string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the AgroSim HTTP API",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVarP(&configPath, "config", "c", "agrosim.yaml", "config file (missing file means defaults)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if !cmd.Flags().Changed("log-level") {
		if logger, err = logging.New(cfg.Logging.Level); err != nil {
			return err
		}
	}
	zap.ReplaceGlobals(logger)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	return server.Run(ctx, cfg, logger)
}
