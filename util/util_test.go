package util_test

import (
	"fmt"
	"math"
	"testing"

	"github.com/nasa-jpl/cobolt/util"
)

func ExampleLimiter_Check() {
	l := util.Limiter{Min: 0, Max: 0.08}
	fmt.Println(l.Check(0.03), l.Check(0.1), l.Check(-0.01))
	// Output: true false false
}

func TestCheckInclusive(t *testing.T) {
	l := util.Limiter{Min: 0, Max: 250}
	for _, f := range []float64{0, 250} {
		if !l.Check(f) {
			t.Errorf("expected endpoint %f to be in %s", f, l)
		}
	}
}

func TestCheckNaN(t *testing.T) {
	l := util.Limiter{Min: 0, Max: 1}
	if l.Check(math.NaN()) {
		t.Error("expected NaN to be out of range")
	}
}

func TestClampHigh(t *testing.T) {
	var (
		l     = util.Limiter{Min: 0, Max: 10}
		input = 20.
	)
	clamped := l.Clamp(input)
	if clamped != l.Max {
		t.Errorf("expected out of range value %f to be clipped to %s, got %f", input, l, clamped)
	}
}

func TestClampLow(t *testing.T) {
	var (
		l     = util.Limiter{Min: 0, Max: 10}
		input = -1.
	)
	clamped := l.Clamp(input)
	if clamped != l.Min {
		t.Errorf("expected out of range value %f to be clipped to %s, got %f", input, l, clamped)
	}
}
