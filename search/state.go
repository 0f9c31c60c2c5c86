// Copyright 2024 Nick White.
// Use of this source code is governed by the GPLv3
// license that can be found in the LICENSE file.

package search

import (
	"rescribe.xyz/autocrop/contour"
	"rescribe.xyz/autocrop/geom"
)

// Thresholds outside of this range are never searched
const (
	MinThreshold = 1
	MaxThreshold = 255
)

type Status int

const (
	Searching Status = iota
	Found
	Oscillating
	Exhausted
)

func (s Status) String() string {
	switch s {
	case Searching:
		return "searching"
	case Found:
		return "found"
	case Oscillating:
		return "oscillating"
	case Exhausted:
		return "exhausted"
	}
	return "unknown"
}

// State is the progress of a search, carried from one iteration to
// the next
type State struct {
	Threshold int
	// Previous is the threshold of the iteration before this one, or
	// 0 before the first adjustment. A new threshold equal to it
	// means the search is flipping between two values.
	Previous  int
	Iteration int
	// Direction is the sign of the last adjustment
	Direction int
	// Reversals counts consecutive changes of Direction
	Reversals int
	Status    Status

	tried [4]uint64
}

// NewState starts a search at threshold. A threshold outside of
// MinThreshold to MaxThreshold is exhausted before it starts.
func NewState(threshold int) State {
	s := State{Threshold: threshold}
	if threshold < MinThreshold || threshold > MaxThreshold {
		s.Status = Exhausted
		return s
	}
	s.mark(threshold)
	return s
}

func (s *State) mark(t int) {
	s.tried[t/64] |= 1 << (t % 64)
}

// Tried reports whether the search has already binarized at t
func (s State) Tried(t int) bool {
	if t < 0 || t > 255 {
		return false
	}
	return s.tried[t/64]&(1<<(t%64)) != 0
}

type Kind int

const (
	NoContour Kind = iota
	FoundQuad
	AdjustDown
	AdjustUp
)

func (k Kind) String() string {
	switch k {
	case NoContour:
		return "no contour"
	case FoundQuad:
		return "found quad"
	case AdjustDown:
		return "adjust down"
	case AdjustUp:
		return "adjust up"
	}
	return "unknown"
}

// Decision is the outcome of examining the contours of one
// binarization
type Decision struct {
	Kind Kind
	// Quad holds the unordered corners when Kind is FoundQuad
	Quad geom.Quad
	// Vertices is the corner count of the contour that decided
	Vertices int
}

// Decide examines contours in order and lets the first one with a
// plausible area decide: four corners is a find, more means the
// threshold should come down, fewer that it should go up. Contours
// after the first plausible one are ignored.
func Decide(contours []contour.Contour, total float64, p Policy) Decision {
	lo := total / p.AreaMinDivisor
	hi := total / p.AreaMaxDivisor
	for _, c := range contours {
		a := contour.Area(c)
		if a <= lo || a >= hi {
			continue
		}
		poly := contour.ApproxPoly(c, p.Epsilon*contour.ArcLength(c, true), true)
		n := len(poly)
		switch {
		case n == 4:
			var q geom.Quad
			for i, pt := range poly {
				q[i] = geom.Pt(pt)
			}
			return Decision{Kind: FoundQuad, Quad: q, Vertices: n}
		case n > 4:
			return Decision{Kind: AdjustDown, Vertices: n}
		default:
			return Decision{Kind: AdjustUp, Vertices: n}
		}
	}
	return Decision{Kind: NoContour}
}

// Advance applies a decision to s, returning the new state. Once s
// is no longer Searching it is returned unchanged.
func Advance(s State, d Decision, p Policy) State {
	if s.Status != Searching {
		return s
	}
	s.Iteration++

	var delta int
	switch d.Kind {
	case FoundQuad:
		s.Status = Found
		return s
	case AdjustDown:
		delta = -p.DownStep
	case AdjustUp:
		delta = p.UpStep
	default:
		delta = p.EmptyStep
	}

	next := s.Threshold + delta
	if next < MinThreshold || next > MaxThreshold {
		s.Status = Exhausted
		return s
	}

	dir := 1
	if delta < 0 {
		dir = -1
	}
	if s.Direction != 0 && dir != s.Direction {
		s.Reversals++
	} else {
		s.Reversals = 0
	}

	switch {
	case next == s.Previous:
		s.Status = Oscillating
	case p.MaxReversals > 0 && s.Reversals >= p.MaxReversals:
		s.Status = Oscillating
	case s.Tried(next):
		// the outcome at a threshold never changes, so coming back
		// to one would repeat forever
		s.Status = Oscillating
	}
	if s.Status != Searching {
		return s
	}

	s.Previous = s.Threshold
	s.Threshold = next
	s.Direction = dir
	s.mark(next)
	return s
}
