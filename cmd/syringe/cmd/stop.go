package cmd

import (
	"github.com/spf13/cobra"
)

// stopCmd represents the stop command
var stopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Quick stop and release the motor",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := connect(); err != nil {
			return err
		}
		return device.Stop()
	},
}

// disableCmd represents the disable command
var disableCmd = &cobra.Command{
	Use:     "disable",
	Aliases: []string{"free"},
	Short:   "Release the motor so the plunger can be moved by hand",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := connect(); err != nil {
			return err
		}
		return device.DisableActuator()
	},
}

func init() {
	rootCmd.AddCommand(stopCmd)
	rootCmd.AddCommand(disableCmd)
}
