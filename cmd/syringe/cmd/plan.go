package cmd

import (
	"fmt"
	"github.com/spf13/cobra"
)

var planParams params

// planCmd represents the plan command
var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Show the Z travel, feed rate and duration for a dispense",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		g, r, err := planParams.resolve(cmd)
		if err != nil {
			return err
		}
		plan, err := device.ComputePlan(g, r)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "diameter:  %.2f mm\n", g.DiameterMM)
		fmt.Fprintf(out, "volume:    %.2f mL\n", r.VolumeML)
		fmt.Fprintf(out, "flow rate: %.2f mL/min\n", r.FlowRateMLPerMin)
		fmt.Fprintf(out, "feed rate: %.3f mm/min\n", plan.FeedRateMMPerMin)
		fmt.Fprintln(out, plan)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(planCmd)
	planParams.register(planCmd)
}
