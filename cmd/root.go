package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/dt-pm-tools/jsm-panel/internal/config"
	"github.com/dt-pm-tools/jsm-panel/internal/logger"
)

var (
	cfgFile   string
	envFile   string
	verbose   bool
	appConfig config.Config
	version   = "0.1.0"
)

var rootCmd = &cobra.Command{
	Use:   "jsm-panel",
	Short: "Subtask status panel for JIRA Service Management requests",
	Long: `Collects the subtasks behind a JIRA Service Management request, shows their
status as a board, and lets agents approve, reject, comment on and attach files
to them. Run 'jsm-panel serve' to expose the panel handlers over HTTP.`,
	Version:       version,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("loading %s: %w", envFile, err)
		}

		cfg, err := config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		if verbose {
			cfg.Log.Level = "debug"
		}
		logger.Setup(os.Stderr, cfg.Log.Level, cfg.Log.Format)
		appConfig = cfg
		return nil
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.jsm-panel.yaml)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file loaded before reading the environment")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log at debug level")
}

// requireConfig validates the loaded configuration. Commands that need JIRA
// access call this.
func requireConfig() error {
	if err := appConfig.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w\nRun 'jsm-panel config' to set up credentials", err)
	}
	return nil
}
