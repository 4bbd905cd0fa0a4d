package cmd

import (
	"errors"
	"fmt"
	"github.com/jt05610/syringe/comm/serial"
	"github.com/jt05610/syringe/env"
	"github.com/jt05610/syringe/pump"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"os"
)

var (
	envFiles []string
	portName string
	identity string
	jsonLogs bool
	verbose  bool

	// listPorts enumerates the host serial ports, nil for the system enumerator.
	listPorts serial.Lister

	environ *env.Environment
	logger  *zap.Logger
	manager *serial.Manager
	device  *pump.Pump
)

var errDeviceNotFound = errors.New("device not found")

// rootCmd represents the root command
var rootCmd = &cobra.Command{
	Use:   "syringe",
	Short: "syringe drives a G-code syringe pump over USB serial",
	Long: `syringe converts a syringe diameter, flow rate and volume into Z axis
motion for a Marlin motion controller and sends it over the serial port
matching the configured USB vendor and product id.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		environ, err = env.Load(envFiles...)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("port") {
			environ.Serial.PortName = portName
		}
		if cmd.Flags().Changed("id") {
			environ.Serial.Identity, err = serial.ParseIdentity(identity)
			if err != nil {
				return err
			}
		}
		if cmd.Flags().Changed("json") {
			environ.JSONLogs = jsonLogs
		}
		logger, err = newLogger(environ.JSONLogs, verbose)
		if err != nil {
			return err
		}
		manager = serial.NewManager(environ.Serial, serial.NewLocator(listPorts), nil, logger)
		device = pump.New(manager, logger, func(e pump.Event) {
			fmt.Fprintln(cmd.OutOrStdout(), e)
		})
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if device != nil {
			if err := device.Disconnect(); err != nil {
				return err
			}
		}
		if logger != nil {
			_ = logger.Sync()
		}
		return nil
	},
}

func newLogger(json, verbose bool) (*zap.Logger, error) {
	if json {
		cfg := zap.NewProductionConfig()
		if verbose {
			cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
		}
		return cfg.Build()
	}
	cfg := zap.NewDevelopmentConfig()
	if !verbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	}
	return cfg.Build()
}

// connect opens the controller for one-shot commands.
func connect() error {
	found, err := device.Connect()
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("%w: %s", errDeviceNotFound, environ.Serial.Identity)
	}
	return nil
}

func init() {
	rootCmd.PersistentFlags().StringSliceVarP(&envFiles, "env", "e", nil, "dotenv files to load (default .env)")
	rootCmd.PersistentFlags().StringVarP(&portName, "port", "p", "", "serial port, skips USB discovery")
	rootCmd.PersistentFlags().StringVar(&identity, "id", "", "USB VID:PID of the controller in hex (default 1eaf:0004)")
	rootCmd.PersistentFlags().BoolVar(&jsonLogs, "json", false, "JSON logs")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
