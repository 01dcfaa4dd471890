// Package util contains misc internal utilities.
package util

import "fmt"

// Limiter is a closed interval [Min, Max]
type Limiter struct {
	Min float64 `yaml:"Min"`
	Max float64 `yaml:"Max"`
}

// Check returns true if Min <= f <= Max.  NaN is never in range
func (l Limiter) Check(f float64) bool {
	return f >= l.Min && f <= l.Max
}

// Clamp limits f to the interval
func (l Limiter) Clamp(f float64) float64 {
	if f < l.Min {
		return l.Min
	}
	if f > l.Max {
		return l.Max
	}
	return f
}

func (l Limiter) String() string {
	return fmt.Sprintf("[%g, %g]", l.Min, l.Max)
}
