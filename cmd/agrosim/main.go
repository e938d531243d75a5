package main

import (
	"fmt"
	"os"

	"AgroSim/internal/logging"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Global flags
	logLevel string

	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "agrosim",
	Short: "AgroSim - agricultural planting and payback simulator",
	Long: `AgroSim projects a perennial crop investment over 20 years: three
implantation years followed by seventeen operational years. It computes
production, revenue, costs, cash flow and the payback year.

Run "agrosim calc" on a scenario file or "agrosim serve" to start the API.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		logger, err = logging.New(logLevel)
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	rootCmd.AddCommand(calcCmd, serveCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
