package cmd

import (
	"github.com/jt05610/syringe/cmd/syringe/console"
	"github.com/spf13/cobra"
	"os"
	"os/signal"
)

var consoleParams params

// consoleCmd represents the console command
var consoleCmd = &cobra.Command{
	Use:   "console",
	Short: "Interactive front panel",
	Long: `Connects to the controller and reads commands from the terminal. The
syringe parameters can be changed at any time, every change prints the
resulting travel and duration.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		g, r, err := consoleParams.resolve(cmd)
		if err != nil {
			return err
		}
		ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer cancel()
		c := console.New(device, g, r)
		// A missing device is reported and can be retried from the prompt.
		_, _ = device.Connect()
		return c.Run(ctx)
	},
}

func init() {
	rootCmd.AddCommand(consoleCmd)
	consoleParams.register(consoleCmd)
}
