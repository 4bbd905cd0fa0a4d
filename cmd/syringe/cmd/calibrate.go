package cmd

import (
	"fmt"
	"github.com/jt05610/syringe/marlin"
	"github.com/spf13/cobra"
	"strings"
)

var confirmCalibration bool

// calibrateCmd represents the calibrate command
var calibrateCmd = &cobra.Command{
	Use:   "calibrate",
	Short: "Store motor currents and Z steps/mm in the controller EEPROM",
	Long: fmt.Sprintf(`Sends, in order:

  %s

and saves them to EEPROM. This only needs to run once for a new assembly.`,
		strings.Join(marlin.Calibration(), "\n  ")),
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !confirmCalibration {
			return fmt.Errorf("calibration overwrites the controller EEPROM, pass --yes to continue")
		}
		if err := connect(); err != nil {
			return err
		}
		return device.Calibrate()
	},
}

func init() {
	rootCmd.AddCommand(calibrateCmd)
	calibrateCmd.Flags().BoolVarP(&confirmCalibration, "yes", "y", false, "confirm the EEPROM write")
}
