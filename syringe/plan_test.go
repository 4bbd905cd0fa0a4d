package syringe_test

import (
	"errors"
	"github.com/jt05610/syringe/syringe"
	"gonum.org/v1/gonum/floats/scalar"
	"math"
	"testing"
)

const tol = 1e-4

func TestPlan(t *testing.T) {
	for _, tc := range []struct {
		name     string
		geometry syringe.Geometry
		request  syringe.DispenseRequest
		expected syringe.MotionPlan
	}{
		{
			name:     "20mm_1ml_5mlmin",
			geometry: syringe.Geometry{DiameterMM: 20},
			request:  syringe.DispenseRequest{VolumeML: 1, FlowRateMLPerMin: 5},
			expected: syringe.MotionPlan{
				DistanceMM:       3.18310,
				FeedRateMMPerMin: 15.91549,
				DurationS:        12,
			},
		},
		{
			name:     "zero_volume",
			geometry: syringe.Geometry{DiameterMM: 20},
			request:  syringe.DispenseRequest{VolumeML: 0, FlowRateMLPerMin: 5},
			expected: syringe.MotionPlan{
				DistanceMM:       0,
				FeedRateMMPerMin: 15.91549,
				DurationS:        0,
			},
		},
		{
			name:     "60ml_barrel",
			geometry: syringe.Geometry{DiameterMM: 26.7},
			request:  syringe.DispenseRequest{VolumeML: 10, FlowRateMLPerMin: 2},
			expected: syringe.MotionPlan{
				DistanceMM:       10000 / (math.Pi * 13.35 * 13.35),
				FeedRateMMPerMin: 2000 / (math.Pi * 13.35 * 13.35),
				DurationS:        300,
			},
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			actual, err := syringe.Plan(tc.geometry, tc.request)
			if err != nil {
				t.Fatal(err)
			}
			if !scalar.EqualWithinAbs(actual.DistanceMM, tc.expected.DistanceMM, tol) {
				t.Errorf("expected distance %f, got %f", tc.expected.DistanceMM, actual.DistanceMM)
			}
			if !scalar.EqualWithinAbs(actual.FeedRateMMPerMin, tc.expected.FeedRateMMPerMin, tol) {
				t.Errorf("expected feed %f, got %f", tc.expected.FeedRateMMPerMin, actual.FeedRateMMPerMin)
			}
			if !scalar.EqualWithinAbs(actual.DurationS, tc.expected.DurationS, tol) {
				t.Errorf("expected duration %f, got %f", tc.expected.DurationS, actual.DurationS)
			}
		})
	}
}

func TestPlanMatchesFormula(t *testing.T) {
	for _, d := range []float64{0.5, 4.78, 12.06, 20, 26.7, 100} {
		for _, v := range []float64{0, 0.01, 1, 7.5, 60} {
			for _, q := range []float64{0.1, 1, 5, 30} {
				p, err := syringe.Plan(syringe.Geometry{DiameterMM: d}, syringe.DispenseRequest{VolumeML: v, FlowRateMLPerMin: q})
				if err != nil {
					t.Fatal(err)
				}
				area := math.Pi * (d / 2) * (d / 2)
				if !scalar.EqualWithinRel(p.DistanceMM, v*1000/area, 1e-12) {
					t.Fatalf("d=%v v=%v: distance %v", d, v, p.DistanceMM)
				}
				if !scalar.EqualWithinRel(p.FeedRateMMPerMin, q*1000/area, 1e-12) {
					t.Fatalf("d=%v q=%v: feed %v", d, q, p.FeedRateMMPerMin)
				}
				if !scalar.EqualWithinRel(p.DurationS, v/q*60, 1e-12) {
					t.Fatalf("v=%v q=%v: duration %v", v, q, p.DurationS)
				}
				if v == 0 && p.DistanceMM != 0 {
					t.Fatalf("zero volume moved %v mm", p.DistanceMM)
				}
			}
		}
	}
}

func TestPlanZeroFlow(t *testing.T) {
	p, err := syringe.Plan(syringe.Geometry{DiameterMM: 20}, syringe.DispenseRequest{VolumeML: 1})
	if err != nil {
		t.Fatal(err)
	}
	if !math.IsInf(p.DurationS, 1) {
		t.Errorf("expected +Inf duration, got %v", p.DurationS)
	}
	if p.Movable() {
		t.Error("zero flow plan must not be movable")
	}
}

func TestPlanRejects(t *testing.T) {
	for _, tc := range []struct {
		name     string
		geometry syringe.Geometry
		request  syringe.DispenseRequest
		expected error
	}{
		{"zero_diameter", syringe.Geometry{}, syringe.DispenseRequest{VolumeML: 1, FlowRateMLPerMin: 1}, syringe.ErrInvalidGeometry},
		{"negative_diameter", syringe.Geometry{DiameterMM: -3}, syringe.DispenseRequest{VolumeML: 1, FlowRateMLPerMin: 1}, syringe.ErrInvalidGeometry},
		{"nan_diameter", syringe.Geometry{DiameterMM: math.NaN()}, syringe.DispenseRequest{VolumeML: 1, FlowRateMLPerMin: 1}, syringe.ErrInvalidGeometry},
		{"negative_volume", syringe.Geometry{DiameterMM: 20}, syringe.DispenseRequest{VolumeML: -1, FlowRateMLPerMin: 1}, syringe.ErrInvalidRequest},
		{"negative_flow", syringe.Geometry{DiameterMM: 20}, syringe.DispenseRequest{VolumeML: 1, FlowRateMLPerMin: -1}, syringe.ErrInvalidRequest},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, err := syringe.Plan(tc.geometry, tc.request)
			if !errors.Is(err, tc.expected) {
				t.Fatalf("expected %v, got %v", tc.expected, err)
			}
		})
	}
}

func TestMotionPlanString(t *testing.T) {
	p, err := syringe.Plan(syringe.Geometry{DiameterMM: 20}, syringe.DispenseRequest{VolumeML: 1, FlowRateMLPerMin: 5})
	if err != nil {
		t.Fatal(err)
	}
	if s := p.String(); s != "3.18mm in 12.0s (0.27 mm/s)" {
		t.Errorf("unexpected summary %q", s)
	}
}
