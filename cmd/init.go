package cmd

import (
	"github.com/spf13/cobra"

	"github.com/plenohq/plenosite/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize plenosite configuration with an interactive wizard",
	Long:  `Runs an interactive wizard to configure plenosite and generates a .plenosite.yml file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := config.RunWizard()
		return err
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
