package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	verbose bool

	boardPath  string
	strict     bool
	format     string
	outFile    string
	filterExpr string
)

// rootCmd is the application entry point. The root command is the validator
// itself: there is nothing to do with a configuration except validate it.
var rootCmd = &cobra.Command{
	Use:   "validate-config <config.yaml>...",
	Short: "Validate firmware boot configuration before the scheduler starts",
	Long: `validate-config checks the static configuration of an embedded firmware
image: the memory region map, the section-to-region assignments, and the
real-time scheduler parameters, cross-checked against a board profile.

Every finding is reported in one run; errors block boot, warnings are
advisory unless escalated with --strict.

Exit codes:
  0  no findings (or warnings only, without --strict)
  1  warnings only, with --strict
  2  one or more error findings
  3  malformed or unparseable input`,
	Args: cobra.MinimumNArgs(1),
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		setupLogging()
	},
	SilenceUsage: true,
}

func init() {
	// Assigned here rather than in the composite literal to avoid an
	// initialization cycle (rootCmd -> runValidateAction -> rootCmd).
	rootCmd.RunE = func(cmd *cobra.Command, args []string) error {
		return runValidateAction(cmd.Context(), args)
	}

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.preflight.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")

	rootCmd.Flags().StringVar(&boardPath, "board", "", "board profile YAML describing the target hardware")
	rootCmd.Flags().BoolVar(&strict, "strict", false, "escalate warnings to a non-zero exit code")
	rootCmd.Flags().StringVar(&format, "format", "table", "Output format: table, json, yaml, sarif")
	rootCmd.Flags().StringVarP(&outFile, "output", "o", "", "Output file path (default: stdout)")
	rootCmd.Flags().StringVar(&filterExpr, "filter", "", "Finding filter expression (e.g. \"severity == 'error'\")")
}

// initConfig loads tool configuration from the config file and environment.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			slog.Error("failed to find home directory", "error", err)
			os.Exit(1)
		}

		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".preflight")
	}

	viper.SetEnvPrefix("PREFLIGHT")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		slog.Debug("using config file", "file", viper.ConfigFileUsed())
	}
}

func setupLogging() {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}

	// Using TextHandler for CLI friendliness
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)
}
