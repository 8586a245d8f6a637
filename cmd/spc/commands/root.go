package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/emsqi/spc/internal/config"
	"github.com/emsqi/spc/internal/logging"
)

var (
	// Global flags
	configFile string
	verbose    bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "spc",
	Short: "Statistical process control charts for quality metrics",
	Long: `SPC computes control charts for reported quality metrics.

Proportions get a p-chart, rates a u-chart and continuous measurements an
individuals and moving range (I-MR) chart. Every point is annotated with its
control limits and the special-cause rules it triggers.

Examples:
  spc calc --type proportion --input falls.json
  spc calc --type continuous --entries --division north < entries.json
  spc chart-type rate`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and runs it with ctx.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// SetVersion sets the version reported by --version
func SetVersion(version, commit string) {
	rootCmd.Version = fmt.Sprintf("%s (%s)", version, commit)
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default is ./spc.yaml, ./configs/spc.yaml or /etc/spc/spc.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
}

// setup loads the configuration and installs the configured logger globally
func setup() (*config.Config, *logging.Logger, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	if verbose {
		cfg.Logging.Level = "debug"
	}

	logger, err := logging.NewFromConfig(cfg.Logging)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	logging.SetGlobal(logger)

	return cfg, logger, nil
}
