package cli

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/swagftw/minichain/utl/logging"
)

func init() {
	viper.SetConfigName("config")
	viper.AddConfigPath(".")
	viper.AddConfigPath("$HOME/.minichain")
	viper.AddConfigPath("/etc/minichain")

	viper.SetEnvPrefix("minichain")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

// NewRootCmd builds the minichain command tree.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "minichain",
		Short: "Mine and verify a hash-linked ledger",
		Long: `minichain builds blocks of transactions, links them by SHA-256 digest,
mines them with a proof-of-work search and verifies the resulting chain.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := viper.BindPFlags(cmd.Root().PersistentFlags()); err != nil {
				return errors.Wrap(err, "failed to bind root flags")
			}

			err := logging.Setup(cmd.ErrOrStderr(), viper.GetString("logLevel"), viper.GetString("log-format"))
			if err != nil {
				return err
			}

			slog.Debug("Application started", "version", Version)

			return nil
		},
	}

	root.PersistentFlags().StringP("logLevel", "l", "info", fmt.Sprintf("set log level (%s)", logging.ValidLevels))
	root.PersistentFlags().String("log-format", logging.FormatPretty,
		fmt.Sprintf("set log format (%s|%s)", logging.FormatJSON, logging.FormatPretty))

	root.AddCommand(
		newDemoCmd(),
		newMineCmd(),
		newServeCmd(),
		newTokenCmd(),
		newAuditCmd(),
		newRemoteCmd(),
		newVersionCmd(),
	)

	return root
}

// bindFlags points viper at the flags of the running command. Several
// commands share keys such as journal or max-attempts, so binding happens at
// run time instead of in init.
func bindFlags(cmd *cobra.Command) error {
	return errors.Wrapf(viper.BindPFlags(cmd.Flags()), "failed to bind %s flags", cmd.Name())
}

// Execute runs the root command.
func Execute() {
	execute(nil)
}

// ExecuteServe runs the serve command with the process arguments as its flags.
func ExecuteServe() {
	execute(append([]string{"serve"}, os.Args[1:]...))
}

func execute(args []string) {
	if err := viper.ReadInConfig(); err == nil {
		slog.Info("Using config file", "file", viper.ConfigFileUsed())
	} else {
		slog.Debug("No config file found")
	}

	root := NewRootCmd()
	if args != nil {
		root.SetArgs(args)
	}

	if err := root.Execute(); err != nil {
		slog.Error("An error occurred", "error", err)
		os.Exit(1)
	}
}
