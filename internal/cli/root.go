// Package cli implements the citewatch command line.
package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/ppiankov/citewatch/internal/logging"
	"github.com/ppiankov/citewatch/internal/model"
	"github.com/ppiankov/citewatch/internal/pipeline"
)

// Version is set at build time with -ldflags "-X .../internal/cli.Version=..."
var Version = "v0.1.0"

var (
	cfgFile string
	verbose bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "citewatch",
	Short: "citewatch - citation source tracking for AI answers and web content",
	Long: `citewatch finds the sources cited in AI-generated answers and web content,
classifies them by type and authority, and shows which authoritative source
types are missing for a brand.

Citations are detected by pattern matching. A listed source is a reference
found in the text, not a verified fact.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "citewatch %s\n", Version)
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.citewatch/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output (also enables debug logging)")

	rootCmd.AddCommand(versionCmd)
}

// initConfig reads in config file and ENV variables
func initConfig() {
	setupViper()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
			return
		}

		viper.AddConfigPath(home + "/.citewatch")
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	if err := viper.ReadInConfig(); err == nil && verbose {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}

// setupViper registers defaults and environment bindings (CITEWATCH_*)
func setupViper() {
	viper.SetEnvPrefix("CITEWATCH")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Provider-native variables work without the prefix
	_ = viper.BindEnv("llm.api_key", "CITEWATCH_LLM_API_KEY", "OPENAI_API_KEY")
	_ = viper.BindEnv("llm.base_url", "CITEWATCH_LLM_BASE_URL", "OLLAMA_BASE_URL")

	if err := registerDefaults(model.DefaultConfig()); err != nil {
		fmt.Fprintf(os.Stderr, "Error registering config defaults: %v\n", err)
	}
}

// buildLogger creates the zap logger from config; --verbose forces debug
func buildLogger(cfg *model.Config) *zap.Logger {
	level := cfg.Logging.Level
	if verbose {
		level = "debug"
	}
	logger, err := logging.New(logging.Config{Level: level, Development: cfg.Logging.Development})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v (logging disabled)\n", err)
		return logging.Nop()
	}
	return logger
}

// newPipeline loads config for cmd and builds a pipeline and a renderer
func newPipeline(cmd *cobra.Command) (*pipeline.Pipeline, *pipeline.Renderer, *model.Config, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, nil, err
	}

	p, err := pipeline.NewPipeline(cfg, pipeline.WithLogger(buildLogger(cfg)))
	if err != nil {
		return nil, nil, nil, err
	}

	renderer := pipeline.NewRenderer(cfg.Output.IncludeFooter, cfg.Output.MaxRows)
	renderer.SetOutput(cmd.OutOrStdout())
	return p, renderer, cfg, nil
}
