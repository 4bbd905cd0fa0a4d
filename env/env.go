package env

import (
	"errors"
	"fmt"
	"github.com/joho/godotenv"
	"github.com/jt05610/syringe/comm/serial"
	"github.com/jt05610/syringe/syringe"
	"io/fs"
	"os"
	"strconv"
)

type Environment struct {
	Serial   serial.Config
	Geometry syringe.Geometry
	Request  syringe.DispenseRequest
	JSONLogs bool
}

// Defaults are a 20 mm barrel dispensing 1 mL at 5 mL/min.
func Defaults() *Environment {
	return &Environment{
		Serial:   serial.DefaultConfig(),
		Geometry: syringe.Geometry{DiameterMM: 20},
		Request:  syringe.DispenseRequest{VolumeML: 1, FlowRateMLPerMin: 5},
	}
}

// Load reads the given dotenv files (".env" when none are named) into the
// process environment and builds the configuration from it. Missing files
// are ignored.
func Load(files ...string) (*Environment, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", f, err)
		}
	}
	return FromLookup(os.LookupEnv)
}

// FromLookup builds the configuration from a variable lookup.
func FromLookup(lookup func(string) (string, bool)) (*Environment, error) {
	e := Defaults()
	var err error
	if v, ok := lookup("SYRINGE_VID"); ok {
		if e.Serial.Identity.VendorID, err = parseHex16("SYRINGE_VID", v); err != nil {
			return nil, err
		}
	}
	if v, ok := lookup("SYRINGE_PID"); ok {
		if e.Serial.Identity.ProductID, err = parseHex16("SYRINGE_PID", v); err != nil {
			return nil, err
		}
	}
	if v, ok := lookup("SERIAL_PORT"); ok {
		e.Serial.PortName = v
	}
	if v, ok := lookup("SERIAL_BAUD"); ok {
		baud, err := strconv.ParseInt(v, 10, 64)
		if err != nil || baud <= 0 {
			return nil, fmt.Errorf("SERIAL_BAUD %q: must be a positive integer", v)
		}
		e.Serial.Baud = int(baud)
	}
	if v, ok := lookup("SYRINGE_PRESET"); ok {
		g, found := syringe.Builtin().Lookup(v)
		if !found {
			return nil, fmt.Errorf("SYRINGE_PRESET %q: unknown preset", v)
		}
		e.Geometry = g
	}
	if v, ok := lookup("SYRINGE_DIAMETER"); ok {
		if e.Geometry.DiameterMM, err = parseFloat("SYRINGE_DIAMETER", v); err != nil {
			return nil, err
		}
	}
	if v, ok := lookup("SYRINGE_FLOW_RATE"); ok {
		if e.Request.FlowRateMLPerMin, err = parseFloat("SYRINGE_FLOW_RATE", v); err != nil {
			return nil, err
		}
	}
	if v, ok := lookup("SYRINGE_VOLUME"); ok {
		if e.Request.VolumeML, err = parseFloat("SYRINGE_VOLUME", v); err != nil {
			return nil, err
		}
	}
	if v, ok := lookup("LOG_JSON"); ok {
		if e.JSONLogs, err = strconv.ParseBool(v); err != nil {
			return nil, fmt.Errorf("LOG_JSON %q: %w", v, err)
		}
	}
	return e, nil
}

func parseHex16(name, v string) (uint16, error) {
	id, err := serial.ParseID(v)
	if err != nil {
		return 0, fmt.Errorf("%s %q: expected a hex id", name, v)
	}
	return id, nil
}

func parseFloat(name, v string) (float64, error) {
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("%s %q: %w", name, v, err)
	}
	return f, nil
}
