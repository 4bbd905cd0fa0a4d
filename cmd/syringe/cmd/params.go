package cmd

import (
	"fmt"
	"github.com/jt05610/syringe/syringe"
	"github.com/spf13/cobra"
)

type params struct {
	diameter float64
	flow     float64
	volume   float64
	preset   string
}

func (p *params) register(cmd *cobra.Command) {
	cmd.Flags().Float64VarP(&p.diameter, "diameter", "d", 0, "syringe inner diameter in mm (default from env, 20)")
	cmd.Flags().Float64VarP(&p.flow, "flow", "f", 0, "flow rate in mL/min (default from env, 5)")
	cmd.Flags().Float64VarP(&p.volume, "volume", "V", 0, "volume to dispense in mL (default from env, 1)")
	cmd.Flags().StringVar(&p.preset, "preset", "", "named syringe size, see the presets command")
}

// resolve layers the flags the user set over the environment.
func (p *params) resolve(cmd *cobra.Command) (syringe.Geometry, syringe.DispenseRequest, error) {
	g, r := environ.Geometry, environ.Request
	if cmd.Flags().Changed("preset") {
		preset, ok := syringe.Builtin().Lookup(p.preset)
		if !ok {
			return g, r, fmt.Errorf("unknown preset %q", p.preset)
		}
		g = preset
	}
	if cmd.Flags().Changed("diameter") {
		g.DiameterMM = p.diameter
	}
	if cmd.Flags().Changed("flow") {
		r.FlowRateMLPerMin = p.flow
	}
	if cmd.Flags().Changed("volume") {
		r.VolumeML = p.volume
	}
	return g, r, nil
}
