package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"onchaindice/internal/app"
	"onchaindice/internal/config"
)

// Version is set at build time with -ldflags "-X onchaindice/cmd/dicebetd/cmd.Version=...".
var Version = "dev"

// NewRootCmd creates the dicebetd root command. It is called once in main.
func NewRootCmd() *cobra.Command {
	v := config.NewViper()

	rootCmd := &cobra.Command{
		Use:           "dicebetd",
		Short:         "On-chain dice ABCI application",
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SetOut(cmd.OutOrStdout())
			cmd.SetErr(cmd.ErrOrStderr())
			return bindFlags(v, cmd)
		},
	}
	rootCmd.PersistentFlags().String(config.KeyHome, config.DefaultHome, "node home directory (state under <home>/data)")
	rootCmd.PersistentFlags().String("log_level", "info", "log level, or module filter such as dice:debug,*:info")
	rootCmd.PersistentFlags().String("log_format", config.LogFormatPlain, "log output format (plain|json)")

	rootCmd.AddCommand(
		startCmd(v),
		versionCmd(),
	)
	return rootCmd
}

// bindFlags lets explicitly set flags override env and file values.
func bindFlags(v *viper.Viper, cmd *cobra.Command) error {
	for key, flag := range map[string]string{
		config.KeyHome:          config.KeyHome,
		config.KeyLogLevel:      "log_level",
		config.KeyLogFormat:     "log_format",
		config.KeyABCIAddr:      "addr",
		config.KeyABCITransport: "transport",
		config.KeyDBBackend:     "db_backend",
		config.KeyMetricsAddr:   "metrics_addr",
		config.KeyFaucet:        "faucet",
	} {
		f := cmd.Flags().Lookup(flag)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return err
		}
	}
	return nil
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the application version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Printf("%s %s (app version %d)\n", app.AppName, Version, app.AppVersion)
		},
	}
}
