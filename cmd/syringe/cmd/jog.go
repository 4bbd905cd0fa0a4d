package cmd

import (
	"fmt"
	"github.com/jt05610/syringe/marlin"
	"github.com/spf13/cobra"
)

// jogCmd represents the jog command
var jogCmd = &cobra.Command{
	Use:       "jog forward|backward",
	Short:     fmt.Sprintf("Move the plunger %d mm", marlin.JogDistanceMM),
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"forward", "backward"},
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := marlin.ParseDirection(args[0])
		if err != nil {
			return err
		}
		if err := connect(); err != nil {
			return err
		}
		return device.Jog(d)
	},
}

func init() {
	rootCmd.AddCommand(jogCmd)
}
