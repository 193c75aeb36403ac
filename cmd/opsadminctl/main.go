package main

import (
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/doodlesbykumbi/opsadmin/pkg/audit"
	"github.com/doodlesbykumbi/opsadmin/pkg/config"
	"github.com/doodlesbykumbi/opsadmin/pkg/logging"
)

// logger is built from the loaded configuration before any subcommand runs
var logger = zap.NewNop()

var rootCmd = &cobra.Command{
	Use:          "opsadminctl",
	Short:        "Run and manage the opsadmin record service",
	Long:         `Run the opsadmin REST and GraphQL service and manage its database and fixtures.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := config.Reload(); err != nil {
			return err
		}
		cfg := config.Get()
		if err := cfg.Validate(); err != nil {
			return err
		}

		l, err := logging.New(cfg.LogLevel)
		if err != nil {
			return err
		}
		logger = l
		audit.SetEnabled(cfg.AuditEnabled)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func main() {
	Execute()
}
