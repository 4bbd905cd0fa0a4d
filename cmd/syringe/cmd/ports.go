package cmd

import (
	"fmt"
	"github.com/spf13/cobra"
	"text/tabwriter"
)

// portsCmd represents the ports command
var portsCmd = &cobra.Command{
	Use:   "ports",
	Short: "List serial ports and mark the one matching the controller id",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ports, err := manager.Locator().ListPorts()
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "PORT\tVID\tPID\tPRODUCT\tMATCH")
		for _, p := range ports {
			match := ""
			if environ.Serial.Identity.Matches(p) {
				match = "*"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", p.Name, p.VID, p.PID, p.Product, match)
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(portsCmd)
}
