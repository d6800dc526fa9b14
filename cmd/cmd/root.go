package cmd

import (
	"github.com/spf13/cobra"
)

const AppName = "avgif"

func Execute() error {
	rootCmd := &cobra.Command{
		Use:   AppName,
		Short: AppName + " - GIF container inspection and encoding tool",
	}

	rootCmd.AddCommand(DefineInfoCommand())
	rootCmd.AddCommand(DefineLintCommand())
	rootCmd.AddCommand(DefineBuildCommand())

	return rootCmd.Execute()
}
