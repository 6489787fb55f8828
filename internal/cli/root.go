// Package cli provides the vantage command-line interface. Configuration
// comes from multiple sources with clear precedence: command-line flags,
// then VANTAGE_-prefixed environment variables, then a .vantage.yml file.
package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/vantage-web/vantage/internal/logging"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "vantage",
	Short: "A Django-style web framework and dev server for Go",
	Long: `Vantage is a small web framework in the Django mold: URL patterns
dispatch requests to views, views return response objects, and template
rendering, sessions, and forms come batteries-included.

Quick Start:
  vantage init                    Scaffold a .vantage.yml and templates dir
  vantage serve                   Start the dev server with live reload
  vantage routes                  Print the URL pattern table

Configuration precedence: flags, then VANTAGE_* environment variables
(VANTAGE_SERVER_PORT, VANTAGE_DEVELOPMENT_DEBUG, ...), then .vantage.yml.`,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is .vantage.yml, can also use VANTAGE_CONFIG_FILE env var)")
	rootCmd.PersistentFlags().StringP("log-level", "l", "info", "log level (debug, info, warn, error)")
	_ = viper.BindPFlag("log-level", rootCmd.PersistentFlags().Lookup("log-level"))
}

// initConfig wires viper to the config file and environment. Missing or
// malformed config files degrade to defaults rather than failing here;
// Load reports validation problems when a command actually needs config.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else if envConfigFile := os.Getenv("VANTAGE_CONFIG_FILE"); envConfigFile != "" {
		viper.SetConfigFile(envConfigFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".vantage")
	}

	viper.SetEnvPrefix("VANTAGE")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func newLogger() logging.Logger {
	return logging.NewLogger(&logging.LoggerConfig{
		Level:  logging.ParseLevel(viper.GetString("log-level")),
		Format: "text",
		Output: os.Stderr,
	})
}
