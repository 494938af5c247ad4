package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	_ "time/tzdata"

	"github.com/rgdevment/service-report/internal/config"
)

var configFile string

var rootCmd = &cobra.Command{
	Use:   "reporter",
	Short: "Operator tools for the service report form",
	Long: `reporter masks raw input the way the form does and can send one
service report through the configured relay.

Configuration comes from .env, configs/config.yaml and the environment,
exactly as for the HTTP service.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "YAML config file (default: configs/config.yaml when present)")

	maskCmd.AddCommand(maskPhoneCmd, maskCurrencyCmd)
	rootCmd.AddCommand(maskCmd, submitCmd)
}

func loadConfig() (*config.Config, error) {
	if configFile != "" {
		return config.LoadFromFile(configFile)
	}
	return config.Load()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "❌", err)
		os.Exit(1)
	}
}
