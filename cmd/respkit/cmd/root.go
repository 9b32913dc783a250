package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "respkit",
	Short: "HTTP response layer demo server and tooling",
	Long: `respkit serves an HTTP API through the respkit response layer: buffered
responses with deferred status, charset and locale handling, and an
observation chain (access log, metrics, tracing) built on response wrappers.`,
}

// Execute adds all child commands to the root command and sets flags appropriately
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.respkit/config.yaml)")
}

// initConfig reads in config file and ENV variables if set
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
			os.Exit(1)
		}

		// Search config in $HOME/.respkit with name "config" (without extension)
		viper.AddConfigPath(filepath.Join(home, ".respkit"))
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("respkit")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv() // read in environment variables that match

	setDefaults()

	// Missing config file is fine; defaults and environment apply
	_ = viper.ReadInConfig()
}

func setDefaults() {
	viper.SetDefault("server.addr", ":8080")
	viper.SetDefault("server.buffer_size", 8192)
	viper.SetDefault("server.charset", "utf-8")
	viper.SetDefault("server.read_timeout", "10s")
	viper.SetDefault("server.write_timeout", "30s")
	viper.SetDefault("server.shutdown_timeout", "15s")
	viper.SetDefault("server.tls.enabled", false)
	viper.SetDefault("server.tls.cert_file", "server.crt")
	viper.SetDefault("server.tls.key_file", "server.key")
	viper.SetDefault("server.tls.ca_file", "")

	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.json", false)

	viper.SetDefault("ratelimit.enabled", true)
	viper.SetDefault("ratelimit.rps", 50.0)
	viper.SetDefault("ratelimit.burst", 100)
	viper.SetDefault("ratelimit.key", "ip")

	viper.SetDefault("tracing.enabled", false)
	viper.SetDefault("tracing.endpoint", "localhost:4318")
	viper.SetDefault("tracing.environment", "development")
}
