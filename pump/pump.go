package pump

import (
	"errors"
	"fmt"
	"github.com/jt05610/syringe/comm/serial"
	"github.com/jt05610/syringe/marlin"
	"github.com/jt05610/syringe/syringe"
	"go.uber.org/zap"
)

// Link is the connection the pump drives. *serial.Manager implements it.
type Link interface {
	Connect() (bool, error)
	Send(lines []string) error
	Close() error
	State() serial.State
	PortName() string
	Config() serial.Config
}

var _ Link = (*serial.Manager)(nil)

// Pump turns operator actions into command sequences for the controller.
type Pump struct {
	link    Link
	logger  *zap.Logger
	observe Observer
}

func New(link Link, logger *zap.Logger, observe Observer) *Pump {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pump{
		link:    link,
		logger:  logger,
		observe: observe,
	}
}

// Observe replaces the status observer.
func (p *Pump) Observe(o Observer) {
	p.observe = o
}

func (p *Pump) emit(level Level, format string, args ...interface{}) {
	e := Event{Level: level, Message: fmt.Sprintf(format, args...)}
	p.logger.Debug("Status", zap.Stringer("level", level), zap.String("message", e.Message))
	if p.observe != nil {
		p.observe(e)
	}
}

func (p *Pump) State() serial.State {
	return p.link.State()
}

// ComputePlan converts the operator parameters for display. Nothing is sent.
func (p *Pump) ComputePlan(g syringe.Geometry, r syringe.DispenseRequest) (syringe.MotionPlan, error) {
	plan, err := syringe.Plan(g, r)
	if err != nil {
		p.emit(Error, "Invalid parameters: %v", err)
		return syringe.MotionPlan{}, err
	}
	return plan, nil
}

// Dispense pushes the requested volume at the requested flow rate.
func (p *Pump) Dispense(g syringe.Geometry, r syringe.DispenseRequest) (syringe.MotionPlan, error) {
	plan, err := p.ComputePlan(g, r)
	if err != nil {
		return plan, err
	}
	seq, err := marlin.Dispense(plan)
	if err != nil {
		p.emit(Error, "Cannot dispense: %v", err)
		return plan, err
	}
	if err := p.send(seq); err != nil {
		return plan, err
	}
	p.emit(Info, "Sent G-code: %s", plan)
	return plan, nil
}

// Jog moves the plunger a fixed distance.
func (p *Pump) Jog(d marlin.Direction) error {
	seq, err := marlin.Jog(d)
	if err != nil {
		p.emit(Error, "Cannot jog: %v", err)
		return err
	}
	if err := p.send(seq); err != nil {
		return err
	}
	p.emit(Info, "Jogged %s %d mm", d, marlin.JogDistanceMM)
	return nil
}

// Stop halts the axis and frees the motor.
func (p *Pump) Stop() error {
	if err := p.send(marlin.Stop()); err != nil {
		return err
	}
	p.emit(Stop, "Sent stop (%s)", marlin.QuickStop)
	return nil
}

func (p *Pump) DisableActuator() error {
	if err := p.send(marlin.DisableActuator()); err != nil {
		return err
	}
	p.emit(Info, "Motor is off")
	return nil
}

// Calibrate writes motor currents and Z steps/mm to the controller EEPROM.
// It only needs to run once per assembly.
func (p *Pump) Calibrate() error {
	if err := p.send(marlin.Calibration()); err != nil {
		return err
	}
	p.emit(Info, "Applied current limit calibration: %d mA", marlin.CurrentMA)
	p.emit(Info, "Applied steps/mm calibration: %d steps/mm", marlin.ZStepsPerMM)
	p.emit(Info, "Saved calibration to EEPROM")
	return nil
}

// Connect opens the controller. found is false when no matching device is
// attached, which is not an error.
func (p *Pump) Connect() (found bool, err error) {
	cfg := p.link.Config()
	found, err = p.link.Connect()
	var oe *serial.OpenError
	switch {
	case errors.As(err, &oe):
		p.emit(Error, "Failed to open %s: %v", oe.Port, oe.Err)
	case err != nil:
		p.emit(Error, "Failed to search for device: %v", err)
	case !found:
		p.emit(Warn, "No device found with %s", cfg.Identity)
	default:
		p.emit(OK, "Connected to %s (%s)", p.link.PortName(), cfg.Identity)
	}
	return found, err
}

func (p *Pump) Disconnect() error {
	if p.link.State() == serial.Disconnected {
		return nil
	}
	name := p.link.PortName()
	if err := p.link.Close(); err != nil {
		p.emit(Error, "Failed to close %s: %v", name, err)
		return err
	}
	p.emit(Info, "Disconnected from %s", name)
	return nil
}

// Reconnect closes any open session and searches for the device again.
func (p *Pump) Reconnect() (bool, error) {
	if err := p.Disconnect(); err != nil {
		return false, err
	}
	return p.Connect()
}

func (p *Pump) send(seq marlin.Sequence) error {
	err := p.link.Send(seq)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, serial.ErrNotConnected):
		p.emit(Warn, "Serial not connected!")
	case errors.Is(err, serial.ErrWriteFailed):
		p.emit(Error, "Write failed, connection closed: %v", err)
	default:
		p.emit(Error, "Send failed: %v", err)
	}
	return err
}
