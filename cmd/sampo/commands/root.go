package commands

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	sampoerrors "github.com/yairfalse/sampo/internal/errors"
	"github.com/yairfalse/sampo/internal/logger"
	"github.com/yairfalse/sampo/pkg/config"
)

var (
	cfgFile string
	cfg     *config.Config
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "sampo",
	Short: "Grind workflow artifacts into reports",
	Long: `SAMPO - The mill of the Kalevala, rebuilt for CI artifacts.

The Sampo ground flour, salt, and gold out of nothing. This one grinds
something humbler but more useful: downloaded workflow artifacts become
classified events, per-run analyses, and cross-run comparative reports.

WHAT THE MILL PRODUCES:
  sampo analyze <run-dir>      # one run: classified lines, counts, findings
  sampo compare <artifacts>    # all runs: timeline, rollups, correlations
  sampo runs <artifacts>       # chronological browse with a timeline graph

WHAT IT GRINDS:
  🔒 Security scan runs (findings summaries, SARIF payloads)
  🏢 Companies House compliance checks (live, sandbox, weekly)
  📜 Raw workflow logs, line by line

"From the mill flowed three good things; every run a measure ground."`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initConfig()
	},
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command, displaying structured errors and
// mapping them to sysexits-style exit codes.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		sampoerrors.DisplayError(err)
		os.Exit(sampoerrors.GetExitCode(err))
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.sampo/config.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "suppress terminal summaries")
	rootCmd.PersistentFlags().Bool("no-color", false, "disable colored output")

	viper.BindPFlag("output.no_color", rootCmd.PersistentFlags().Lookup("no-color"))

	rootCmd.AddCommand(newAnalyzeCommand())
	rootCmd.AddCommand(newCompareCommand())
	rootCmd.AddCommand(newRunsCommand())
	rootCmd.AddCommand(newVersionCommand())
}

// initConfig reads in config file and ENV variables if set.
func initConfig() error {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	}

	var err error
	cfg, err = config.Load()
	if err != nil {
		return sampoerrors.ConfigFileError(cfgFile, err)
	}

	if err := cfg.Validate(); err != nil {
		return sampoerrors.ConfigFileError(cfgFile, err)
	}

	if err := cfg.ExpandPaths(); err != nil {
		return fmt.Errorf("failed to expand config paths: %w", err)
	}

	if cfg.Output.NoColor || os.Getenv("NO_COLOR") != "" {
		color.NoColor = true
	}

	return nil
}

// GetConfig returns the loaded configuration
func GetConfig() *config.Config {
	return cfg
}

// newLogger builds the command logger, honoring --verbose over the
// configured level.
func newLogger(cmd *cobra.Command) logger.Logger {
	level := cfg.Log.Level
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		level = "debug"
	}
	return logger.NewLogrusWithLevel(level)
}
