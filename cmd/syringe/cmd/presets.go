package cmd

import (
	"fmt"
	"github.com/jt05610/syringe/syringe"
	"github.com/spf13/cobra"
)

// presetsCmd represents the presets command
var presetsCmd = &cobra.Command{
	Use:   "presets",
	Short: "List the built in syringe sizes",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		c := syringe.Builtin()
		for _, name := range c.Names() {
			g, _ := c.Lookup(name)
			fmt.Fprintf(cmd.OutOrStdout(), "%-10s %6.2f mm\n", name, g.DiameterMM)
		}
	},
}

func init() {
	rootCmd.AddCommand(presetsCmd)
}
