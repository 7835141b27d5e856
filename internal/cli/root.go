package cli

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/nmxmxh/contractchain/internal/config"
)

// RootCmd runs the sample ledger and hosts the version command.
var RootCmd = &cobra.Command{
	Use:   "contractchain",
	Short: "Run a hash-linked ledger with executable blocks",
	Long: `contractchain builds a fresh chain, appends a data block and a program block,
prints the chain and runs the programs attached to its blocks.`,
	Args: cobra.NoArgs,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.LoadConfigFromCLI()
		if err := cfg.Validate(); err != nil {
			return err
		}
		logger.SetLevel(cfg.Level())
		logger.SetOutput(cmd.ErrOrStderr())
		logger.WithField("version", Version).Debug("Application started")
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.LoadConfigFromCLI()
		fs := afero.NewOsFs()
		if err := cfg.ValidateModuleDir(fs); err != nil {
			return err
		}
		return run(cmd.Context(), cmd.OutOrStdout(), cfg, fs, logger)
	},
}

// logger is handed to every component the command builds.
var logger = logrus.New()

func init() {
	RootCmd.PersistentFlags().StringP(config.KeyLogLevel, "l", "info", fmt.Sprintf("set log level (%s)", config.ValidLogLevelsStr))
	RootCmd.PersistentFlags().String(config.KeyModuleDir, ".", "directory holding <identifier>.wasm program modules")
	RootCmd.PersistentFlags().String(config.KeyMetricsAddr, "", "serve Prometheus metrics on this address and wait for a signal after the run")
	if err := viper.BindPFlags(RootCmd.PersistentFlags()); err != nil {
		logrus.WithError(err).Error("Failed to bind rootCmd flags")
	}

	RootCmd.SilenceUsage = true
	RootCmd.SilenceErrors = true

	RootCmd.AddCommand(versionCmd)
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		logger.WithError(err).Error("An error occurred")
		os.Exit(1)
	}
}
