// Copyright 2024 Nick White.
// Use of this source code is governed by the GPLv3
// license that can be found in the LICENSE file.

package search

import (
	"errors"
)

// Policy holds the constants that steer the threshold search
type Policy struct {
	// Border is the width of white padding added around an image
	// before searching, so a page flush with the frame still has a
	// closed outline
	Border int

	// Contours are only considered if their area is strictly between
	// total/AreaMinDivisor and total/AreaMaxDivisor
	AreaMinDivisor float64
	AreaMaxDivisor float64

	// Epsilon is the polygon approximation tolerance, as a proportion
	// of the contour's length
	Epsilon float64

	// DownStep is subtracted from the threshold when a contour has
	// too many corners, UpStep added when it has too few, and
	// EmptyStep added when no contour is of a plausible size
	DownStep  int
	UpStep    int
	EmptyStep int

	// MaxReversals is the number of consecutive changes of direction
	// after which the search is considered to be oscillating. Zero
	// disables the check.
	MaxReversals int
}

// DefaultPolicy returns the policy autocrop uses unless told
// otherwise
func DefaultPolicy() Policy {
	return Policy{
		Border:         100,
		AreaMinDivisor: 6,
		AreaMaxDivisor: 1.01,
		Epsilon:        0.1,
		DownStep:       1,
		UpStep:         5,
		EmptyStep:      5,
		MaxReversals:   2,
	}
}

// Validate checks that a search run with p is guaranteed to make
// progress
func (p Policy) Validate() error {
	switch {
	case p.Border < 0:
		return errors.New("border must not be negative")
	case p.AreaMaxDivisor <= 0 || p.AreaMinDivisor <= p.AreaMaxDivisor:
		return errors.New("area divisors must be positive, with the minimum divisor larger than the maximum")
	case p.Epsilon <= 0:
		return errors.New("epsilon must be positive")
	case p.DownStep < 1 || p.UpStep < 1 || p.EmptyStep < 1:
		return errors.New("threshold steps must be at least 1")
	case p.MaxReversals < 0:
		return errors.New("max reversals must not be negative")
	}
	return nil
}
