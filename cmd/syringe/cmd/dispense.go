package cmd

import (
	"github.com/jt05610/syringe/marlin"
	"github.com/spf13/cobra"
)

var dispenseParams params

// dispenseCmd represents the dispense command
var dispenseCmd = &cobra.Command{
	Use:   "dispense",
	Short: "Dispense a volume at a flow rate",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		g, r, err := dispenseParams.resolve(cmd)
		if err != nil {
			return err
		}
		plan, err := device.ComputePlan(g, r)
		if err != nil {
			return err
		}
		if _, err := marlin.Dispense(plan); err != nil {
			return err
		}
		if err := connect(); err != nil {
			return err
		}
		_, err = device.Dispense(g, r)
		return err
	},
}

func init() {
	rootCmd.AddCommand(dispenseCmd)
	dispenseParams.register(dispenseCmd)
}
