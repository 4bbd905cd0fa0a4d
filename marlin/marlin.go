package marlin

import (
	"bytes"
	"errors"
	"fmt"
	"github.com/jt05610/syringe/syringe"
	"github.com/shopspring/decimal"
	"math"
	"strings"
)

type Code int

const (
	SetPosition Code = iota
	Relative
	Absolute
	LinearMove
	DisableSteppers
	QuickStop
	MotorCurrent
	StepsPerUnit
	StoreSettings
)

var codes = []string{
	SetPosition:     "G92",
	Relative:        "G91",
	Absolute:        "G90",
	LinearMove:      "G1",
	DisableSteppers: "M18",
	QuickStop:       "M410",
	MotorCurrent:    "M906",
	StepsPerUnit:    "M92",
	StoreSettings:   "M500",
}

func (c Code) String() string {
	return codes[c]
}

const (
	// FeedScale multiplies the per-minute feed rate into the F word of a
	// dispense move.
	FeedScale = 60

	JogDistanceMM = 10
	JogFeed       = 1000

	CurrentMA      = 400
	AuxCurrentMA   = 20
	ZStepsPerMM    = 400
	distanceDigits = 3
	feedDigits     = 1
)

var (
	ErrZeroFeedRate     = errors.New("feed rate must be positive to move")
	ErrInvalidDirection = errors.New("invalid jog direction")
)

type Direction int

const (
	Forward Direction = iota + 1
	Backward
)

func (d Direction) String() string {
	switch d {
	case Forward:
		return "forward"
	case Backward:
		return "backward"
	}
	return fmt.Sprintf("Direction(%d)", int(d))
}

// ParseDirection accepts forward/backward and the +/- shorthands.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "forward", "fwd", "f", "+":
		return Forward, nil
	case "backward", "back", "b", "-":
		return Backward, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidDirection, s)
}

func (d Direction) sign() (float64, error) {
	switch d {
	case Forward:
		return 1, nil
	case Backward:
		return -1, nil
	}
	return 0, fmt.Errorf("%w: %v", ErrInvalidDirection, d)
}

// Word is a single letter/value pair of a command line.
type Word struct {
	Letter byte
	Value  string
}

func word(letter byte, v decimal.Decimal, digits int32) Word {
	return Word{Letter: letter, Value: v.StringFixed(digits)}
}

func intWord(letter byte, v int64) Word {
	return Word{Letter: letter, Value: decimal.NewFromInt(v).String()}
}

func line(c Code, words ...Word) string {
	bld := bytes.NewBufferString(c.String())
	for _, w := range words {
		bld.WriteByte(' ')
		bld.WriteByte(w.Letter)
		bld.WriteString(w.Value)
	}
	return bld.String()
}

// Sequence is an ordered group of command lines that must reach the
// controller together.
type Sequence []string

func (s Sequence) String() string {
	return strings.Join(s, "; ")
}

// relativeMove zeroes Z, switches to relative mode for one move and restores
// absolute mode.
func relativeMove(dist Word, feed Word) Sequence {
	return Sequence{
		line(SetPosition, intWord('Z', 0)),
		Relative.String(),
		line(LinearMove, dist, feed),
		Absolute.String(),
	}
}

// Dispense encodes a plan as a relative Z move.
func Dispense(plan syringe.MotionPlan) (Sequence, error) {
	if !plan.Movable() {
		return nil, fmt.Errorf("%w: got %v mm/min", ErrZeroFeedRate, plan.FeedRateMMPerMin)
	}
	if math.IsNaN(plan.DistanceMM) || math.IsInf(plan.DistanceMM, 0) {
		return nil, fmt.Errorf("invalid distance %v mm", plan.DistanceMM)
	}
	feed := decimal.NewFromFloat(plan.FeedRateMMPerMin).Mul(decimal.NewFromInt(FeedScale))
	// The controller ignores F0 and keeps the previous feed rate.
	if !feed.Round(feedDigits).IsPositive() {
		return nil, fmt.Errorf("%w: F%s rounds to zero", ErrZeroFeedRate, feed.String())
	}
	return relativeMove(
		word('Z', decimal.NewFromFloat(plan.DistanceMM), distanceDigits),
		word('F', feed, feedDigits),
	), nil
}

// Jog moves the plunger JogDistanceMM in the given direction.
func Jog(d Direction) (Sequence, error) {
	sign, err := d.sign()
	if err != nil {
		return nil, err
	}
	return relativeMove(
		word('Z', decimal.NewFromFloat(sign*JogDistanceMM), distanceDigits),
		intWord('F', JogFeed),
	), nil
}

// Stop halts motion and releases the motor so it does not hold against a
// jam.
func Stop() Sequence {
	return Sequence{QuickStop.String(), DisableSteppers.String()}
}

func DisableActuator() Sequence {
	return Sequence{DisableSteppers.String()}
}

// Calibration sets motor currents and Z steps/mm and stores them in EEPROM.
func Calibration() Sequence {
	return Sequence{
		line(MotorCurrent,
			intWord('X', CurrentMA),
			intWord('Y', CurrentMA),
			intWord('Z', CurrentMA),
			intWord('E', CurrentMA),
			intWord('H', AuxCurrentMA),
		),
		line(StepsPerUnit, intWord('Z', ZStepsPerMM)),
		StoreSettings.String(),
	}
}
