// Copyright 2024 Nick White.
// Use of this source code is governed by the GPLv3
// license that can be found in the LICENSE file.

package contour

import (
	"image"
	"math"
)

// Area returns the area enclosed by c, using the shoelace formula
func Area(c Contour) float64 {
	n := len(c)
	if n < 3 {
		return 0
	}
	var a float64
	for i := range n {
		j := (i + 1) % n
		a += float64(c[i].X*c[j].Y - c[j].X*c[i].Y)
	}
	return math.Abs(a) / 2
}

// ArcLength returns the length of c, including the segment from the
// last point back to the first if closed is set
func ArcLength(c Contour, closed bool) float64 {
	if len(c) < 2 {
		return 0
	}
	var l float64
	for i := 1; i < len(c); i++ {
		l += dist(c[i-1], c[i])
	}
	if closed {
		l += dist(c[len(c)-1], c[0])
	}
	return l
}

func dist(a, b image.Point) float64 {
	return math.Hypot(float64(a.X-b.X), float64(a.Y-b.Y))
}

// lineDist is the distance of p from the line through a and b
func lineDist(p, a, b image.Point) float64 {
	dx, dy := float64(b.X-a.X), float64(b.Y-a.Y)
	norm := math.Hypot(dx, dy)
	if norm == 0 {
		return dist(p, a)
	}
	return math.Abs(dy*float64(p.X-a.X)-dx*float64(p.Y-a.Y)) / norm
}

// ApproxPoly reduces c to a polygon whose edges stay within epsilon
// of the original curve, using the Ramer-Douglas-Peucker algorithm.
// The vertices returned are points of c, in the order they appear on
// the curve.
func ApproxPoly(c Contour, epsilon float64, closed bool) Contour {
	if len(c) < 3 {
		return append(Contour(nil), c...)
	}
	if !closed {
		return rdp(c, epsilon)
	}

	// split the closed curve at two points far apart from each other,
	// and simplify both halves as open chains
	a := farthest(c, 0)
	b := farthest(c, a)
	if a == b {
		return Contour{c[a]}
	}
	first := rdp(chain(c, a, b), epsilon)
	second := rdp(chain(c, b, a), epsilon)
	poly := append(first, second[1:len(second)-1]...)

	return cleanup(poly, epsilon)
}

// farthest returns the index of the point in c farthest from c[from]
func farthest(c Contour, from int) int {
	best, bestd := from, -1.0
	for i, p := range c {
		if d := dist(p, c[from]); d > bestd {
			best, bestd = i, d
		}
	}
	return best
}

// chain returns the points of the closed curve c from index start
// to index end inclusive, wrapping around if needed
func chain(c Contour, start, end int) Contour {
	n := len(c)
	l := (end-start+n)%n + 1
	out := make(Contour, l)
	for i := range l {
		out[i] = c[(start+i)%n]
	}
	return out
}

// rdp simplifies an open chain, always keeping both end points
func rdp(c Contour, epsilon float64) Contour {
	n := len(c)
	if n < 3 {
		return append(Contour(nil), c...)
	}
	keep := make([]bool, n)
	keep[0], keep[n-1] = true, true

	type span struct{ start, end int }
	stack := []span{{0, n - 1}}
	for len(stack) > 0 {
		s := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if s.end-s.start < 2 {
			continue
		}
		maxd, maxi := -1.0, s.start
		for i := s.start + 1; i < s.end; i++ {
			if d := lineDist(c[i], c[s.start], c[s.end]); d > maxd {
				maxd, maxi = d, i
			}
		}
		if maxd > epsilon {
			keep[maxi] = true
			stack = append(stack, span{s.start, maxi}, span{maxi, s.end})
		}
	}

	var out Contour
	for i, k := range keep {
		if k {
			out = append(out, c[i])
		}
	}
	return out
}

// cleanup drops repeated vertices and vertices lying within epsilon
// of the line joining their neighbours, which the split into two
// chains can leave behind
func cleanup(poly Contour, epsilon float64) Contour {
	for {
		n := len(poly)
		if n <= 3 {
			return poly
		}
		removed := false
		for i := range n {
			prev := poly[(i+n-1)%n]
			next := poly[(i+1)%n]
			if poly[i] == next || lineDist(poly[i], prev, next) <= epsilon {
				poly = append(poly[:i], poly[i+1:]...)
				removed = true
				break
			}
		}
		if !removed {
			return poly
		}
	}
}
