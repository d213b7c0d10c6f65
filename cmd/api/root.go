package main

import (
	"os"

	"harambee_billing/internal/config"
	"harambee_billing/internal/infrastructure/logging"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// cliEnv is shared by every subcommand once the root pre-run has loaded it.
type cliEnv struct {
	cfg config.Config
	log *logrus.Logger
}

func newRootCmd() *cobra.Command {
	rt := &cliEnv{}

	rootCmd := &cobra.Command{
		Use:           "harambee-billing",
		Short:         "Campaign donation payments over M-Pesa",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			rt.cfg = cfg
			rt.log = logging.New(cfg.LogLevel, cfg.LogFormat, os.Stdout)
			return nil
		},
	}

	rootCmd.AddCommand(serveCmd(rt))
	rootCmd.AddCommand(migrateCmd(rt))
	rootCmd.AddCommand(sweepCmd(rt))
	rootCmd.AddCommand(seedCmd(rt))
	return rootCmd
}
