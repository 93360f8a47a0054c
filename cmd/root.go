package cmd

import (
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "plenosite",
	Short: "Pleno documentation site and PII API gateway",
	Long: `Plenosite serves the Pleno web site: documentation with OAuth sign-in,
the PII analyze/redact API, and a redacting proxy in front of OpenAI.`,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", ".plenosite.yml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
