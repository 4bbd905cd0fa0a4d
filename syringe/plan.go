package syringe

import (
	"errors"
	"fmt"
	"math"
)

var (
	ErrInvalidGeometry = errors.New("syringe diameter must be positive")
	ErrInvalidRequest  = errors.New("volume and flow rate must be non-negative")
)

// Geometry describes the syringe barrel.
type Geometry struct {
	DiameterMM float64 `json:"diameter_mm" yaml:"diameter_mm"`
}

// Area returns the barrel cross-section in mm².
func (g Geometry) Area() float64 {
	return math.Pi * math.Pow(g.DiameterMM/2, 2)
}

func (g Geometry) validate() error {
	if math.IsNaN(g.DiameterMM) || math.IsInf(g.DiameterMM, 0) || g.DiameterMM <= 0 {
		return fmt.Errorf("%w: got %v mm", ErrInvalidGeometry, g.DiameterMM)
	}
	return nil
}

type DispenseRequest struct {
	VolumeML         float64 `json:"volume_ml"`
	FlowRateMLPerMin float64 `json:"flow_rate_ml_per_min"`
}

func (r DispenseRequest) validate() error {
	for _, v := range []float64{r.VolumeML, r.FlowRateMLPerMin} {
		if math.IsNaN(v) || v < 0 {
			return fmt.Errorf("%w: volume %v mL, flow %v mL/min", ErrInvalidRequest, r.VolumeML, r.FlowRateMLPerMin)
		}
	}
	return nil
}

// MotionPlan is the Z axis travel for one dispense. DurationS is +Inf when
// the flow rate is zero.
type MotionPlan struct {
	DistanceMM       float64 `json:"distance_mm"`
	FeedRateMMPerMin float64 `json:"feed_rate_mm_per_min"`
	DurationS        float64 `json:"duration_s"`
}

// Movable reports whether the plan carries a feed rate a move can be
// commanded with.
func (p MotionPlan) Movable() bool {
	return p.FeedRateMMPerMin > 0 && !math.IsInf(p.FeedRateMMPerMin, 0)
}

func (p MotionPlan) String() string {
	speed := 0.0
	if p.DurationS > 0 && !math.IsInf(p.DurationS, 0) {
		speed = p.DistanceMM / p.DurationS
	}
	return fmt.Sprintf("%.2fmm in %.1fs (%.2f mm/s)", p.DistanceMM, p.DurationS, speed)
}

// Plan converts a volume and flow rate into axis travel for the given
// barrel. 1 mL is 1000 mm³.
func Plan(g Geometry, r DispenseRequest) (MotionPlan, error) {
	if err := g.validate(); err != nil {
		return MotionPlan{}, err
	}
	if err := r.validate(); err != nil {
		return MotionPlan{}, err
	}
	area := g.Area()
	plan := MotionPlan{
		DistanceMM:       r.VolumeML * 1000 / area,
		FeedRateMMPerMin: r.FlowRateMLPerMin * 1000 / area,
		DurationS:        math.Inf(1),
	}
	if r.FlowRateMLPerMin > 0 {
		plan.DurationS = r.VolumeML / r.FlowRateMLPerMin * 60
	}
	return plan, nil
}
