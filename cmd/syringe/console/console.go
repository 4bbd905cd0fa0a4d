// Package console is the interactive front panel of the syringe pump.
package console

import (
	"context"
	"errors"
	"fmt"
	"github.com/chzyer/readline"
	"github.com/jt05610/syringe/comm/serial"
	"github.com/jt05610/syringe/marlin"
	"github.com/jt05610/syringe/pump"
	"github.com/jt05610/syringe/syringe"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"
)

// Console holds the operator parameters between commands.
type Console struct {
	pump     *pump.Pump
	presets  syringe.Catalog
	geometry syringe.Geometry
	request  syringe.DispenseRequest
	in       io.ReadCloser
	out      io.Writer
}

// New returns a console writing to stdout. Status events of p are routed to
// the console output.
func New(p *pump.Pump, g syringe.Geometry, r syringe.DispenseRequest) *Console {
	c := &Console{
		pump:     p,
		presets:  syringe.Builtin(),
		geometry: g,
		request:  r,
	}
	c.SetOutput(os.Stdout)
	return c
}

func (c *Console) SetOutput(w io.Writer) {
	c.out = w
	c.pump.Observe(func(e pump.Event) {
		fmt.Fprintln(c.out, e)
	})
}

// SetInput reads commands from r instead of the terminal. Output goes to the
// current console output.
func (c *Console) SetInput(r io.ReadCloser) {
	c.in = r
}

func (c *Console) config() *readline.Config {
	cfg := &readline.Config{
		Prompt:          "syringe> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
		AutoComplete:    completer,
	}
	if c.in != nil {
		cfg.Stdin = c.in
		cfg.Stdout = c.out
		cfg.Stderr = c.out
		cfg.FuncIsTerminal = func() bool { return false }
	}
	return cfg
}

// Run reads commands until exit, EOF, ^C on an empty line or ctx is done.
func (c *Console) Run(ctx context.Context) error {
	rl, err := readline.NewEx(c.config())
	if err != nil {
		return fmt.Errorf("failed to create readline: %w", err)
	}
	var once sync.Once
	closeRL := func() { once.Do(func() { _ = rl.Close() }) }
	defer closeRL()
	defer c.SetOutput(c.out)
	c.SetOutput(rl.Stdout())

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			// Unblocks a pending Readline.
			closeRL()
		case <-done:
		}
	}()

	c.printHelp()
	c.showPlan()
	for {
		if ctx.Err() != nil {
			return nil
		}
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			if strings.TrimSpace(line) == "" {
				return nil
			}
			continue
		}
		if err != nil {
			return nil
		}
		if c.Exec(line) {
			return nil
		}
	}
}

var completer = readline.NewPrefixCompleter(
	readline.PcItem("set",
		readline.PcItem("diameter"),
		readline.PcItem("flow"),
		readline.PcItem("volume"),
	),
	readline.PcItem("preset"),
	readline.PcItem("presets"),
	readline.PcItem("plan"),
	readline.PcItem("start"),
	readline.PcItem("stop"),
	readline.PcItem("free"),
	readline.PcItem("jog", readline.PcItem("forward"), readline.PcItem("backward")),
	readline.PcItem("connect"),
	readline.PcItem("reconnect"),
	readline.PcItem("disconnect"),
	readline.PcItem("status"),
	readline.PcItem("calibrate"),
	readline.PcItem("help"),
	readline.PcItem("exit"),
)

// Exec runs one command line and reports whether the console should exit.
// Failures are already reported through the pump status events.
func (c *Console) Exec(line string) (quit bool) {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return false
	}
	cmd := strings.ToLower(parts[0])
	args := parts[1:]

	switch cmd {
	case "help", "?":
		c.printHelp()
	case "exit", "quit", "q":
		return true
	case "set":
		c.cmdSet(args)
	case "preset":
		c.cmdPreset(args)
	case "presets":
		for _, name := range c.presets.Names() {
			g, _ := c.presets.Lookup(name)
			fmt.Fprintf(c.out, "  %-10s %6.2f mm\n", name, g.DiameterMM)
		}
	case "plan", "show":
		c.showPlan()
	case "start", "dispense":
		_, _ = c.pump.Dispense(c.geometry, c.request)
	case "stop", "s":
		_ = c.pump.Stop()
	case "free", "disable":
		_ = c.pump.DisableActuator()
	case "jog", "+", "-":
		dir := cmd
		if cmd == "jog" {
			if len(args) != 1 {
				fmt.Fprintln(c.out, "usage: jog forward|backward")
				return false
			}
			dir = args[0]
		}
		d, err := marlin.ParseDirection(dir)
		if err != nil {
			fmt.Fprintln(c.out, err)
			return false
		}
		_ = c.pump.Jog(d)
	case "connect":
		_, _ = c.pump.Connect()
	case "reconnect":
		_, _ = c.pump.Reconnect()
	case "disconnect":
		_ = c.pump.Disconnect()
	case "status":
		c.printStatus()
	case "calibrate":
		if len(args) != 1 || args[0] != "yes" {
			fmt.Fprintln(c.out, "calibration overwrites the controller EEPROM, type 'calibrate yes' to continue")
			return false
		}
		_ = c.pump.Calibrate()
	default:
		fmt.Fprintf(c.out, "unknown command %q, type 'help'\n", cmd)
	}
	return false
}

func (c *Console) cmdSet(args []string) {
	if len(args) != 2 {
		fmt.Fprintln(c.out, "usage: set diameter|flow|volume <value>")
		return
	}
	v, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		fmt.Fprintf(c.out, "invalid value %q\n", args[1])
		return
	}
	switch strings.ToLower(args[0]) {
	case "diameter", "d":
		c.geometry.DiameterMM = v
	case "flow", "speed", "f":
		c.request.FlowRateMLPerMin = v
	case "volume", "v":
		c.request.VolumeML = v
	default:
		fmt.Fprintf(c.out, "unknown parameter %q\n", args[0])
		return
	}
	c.showPlan()
}

func (c *Console) cmdPreset(args []string) {
	if len(args) != 1 {
		fmt.Fprintln(c.out, "usage: preset <name>")
		return
	}
	g, ok := c.presets.Lookup(args[0])
	if !ok {
		fmt.Fprintf(c.out, "unknown preset %q, type 'presets'\n", args[0])
		return
	}
	c.geometry = g
	c.showPlan()
}

func (c *Console) showPlan() {
	fmt.Fprintf(c.out, "diameter %.2f mm, flow %.2f mL/min, volume %.2f mL\n",
		c.geometry.DiameterMM, c.request.FlowRateMLPerMin, c.request.VolumeML)
	plan, err := c.pump.ComputePlan(c.geometry, c.request)
	if err != nil {
		return
	}
	fmt.Fprintln(c.out, plan)
}

func (c *Console) printStatus() {
	if c.pump.State() == serial.Connected {
		fmt.Fprintln(c.out, "connected")
		return
	}
	fmt.Fprintln(c.out, "disconnected")
}

func (c *Console) printHelp() {
	fmt.Fprint(c.out, `Commands:
  set diameter|flow|volume <v>   change a parameter (mm, mL/min, mL)
  preset <name> | presets        use a named syringe size
  plan                           show travel and duration
  start                          dispense the volume
  stop                           quick stop and release the motor
  free                           release the motor
  jog forward|backward (+|-)     move the plunger 10 mm
  connect | reconnect | disconnect | status
  calibrate yes                  store motor settings in EEPROM (once)
  exit
`)
}
