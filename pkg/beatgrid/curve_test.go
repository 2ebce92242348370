package beatgrid

import (
	"math"
	"testing"
)

func TestNewCurveRejectsBadHop(t *testing.T) {
	tests := []struct {
		name string
		hop  float64
	}{
		{"zero", 0},
		{"negative", -0.01},
		{"nan", math.NaN()},
		{"inf", math.Inf(1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewCurve([]float64{0.5}, tt.hop); err == nil {
				t.Errorf("NewCurve accepted hop %v", tt.hop)
			}
		})
	}
}

func TestCurveDuration(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		want   float64
	}{
		{"empty", nil, 0},
		{"single sample", []float64{1}, 0},
		{"three samples", []float64{0, 1, 0}, 0.02},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := NewCurve(tt.values, 0.01)
			if err != nil {
				t.Fatalf("NewCurve: %v", err)
			}
			if got := c.Duration(); got != tt.want {
				t.Errorf("Duration() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCurveAtInterpolates(t *testing.T) {
	c, err := NewCurve([]float64{0, 1, 0.5}, 0.1)
	if err != nil {
		t.Fatalf("NewCurve: %v", err)
	}

	tests := []struct {
		t    float64
		want float64
	}{
		{0, 0},
		{0.1, 1},
		{0.05, 0.5},
		{0.15, 0.75},
		{0.2, 0.5},
	}
	for _, tt := range tests {
		if got := c.At(tt.t); math.Abs(got-tt.want) > 1e-12 {
			t.Errorf("At(%v) = %v, want %v", tt.t, got, tt.want)
		}
	}
}

func TestCurveAtOutsideRangeIsZero(t *testing.T) {
	c, err := NewCurve([]float64{1, 1, 1}, 0.1)
	if err != nil {
		t.Fatalf("NewCurve: %v", err)
	}
	for _, q := range []float64{-0.5, -1e-9, 0.2001, 100} {
		if got := c.At(q); got != 0 {
			t.Errorf("At(%v) = %v, want 0", q, got)
		}
	}
}

func TestCurveFrame(t *testing.T) {
	c, err := NewCurve([]float64{0.1, 0.2, 0.3}, 0.01)
	if err != nil {
		t.Fatalf("NewCurve: %v", err)
	}
	if got := c.Frame(1); got != 0.2 {
		t.Errorf("Frame(1) = %v, want 0.2", got)
	}
	if got := c.Frame(-1); got != 0 {
		t.Errorf("Frame(-1) = %v, want 0", got)
	}
	if got := c.Frame(3); got != 0 {
		t.Errorf("Frame(3) = %v, want 0", got)
	}
}

func TestNewCurveCopiesValues(t *testing.T) {
	values := []float64{0.5, 0.5}
	c, err := NewCurve(values, 0.01)
	if err != nil {
		t.Fatalf("NewCurve: %v", err)
	}
	values[0] = 0.9
	if got := c.Frame(0); got != 0.5 {
		t.Errorf("curve shares caller buffer: Frame(0) = %v", got)
	}
}
