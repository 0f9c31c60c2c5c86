// Copyright 2024 Nick White.
// Use of this source code is governed by the GPLv3
// license that can be found in the LICENSE file.

// geom contains the small amount of plane geometry needed to
// rectify a photographed document: points, quadrilaterals, corner
// ordering and projective transforms.
package geom

import (
	"image"
	"math"
)

// Point is a position in image space
type Point struct {
	X, Y float64
}

// Pt converts an integer image point into a Point
func Pt(p image.Point) Point {
	return Point{X: float64(p.X), Y: float64(p.Y)}
}

// Dist returns the Euclidean distance between a and b
func Dist(a, b Point) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}

// Quad is a quadrilateral. Once passed through Order its corners
// are in top-left, top-right, bottom-right, bottom-left order.
type Quad [4]Point

const (
	TL = iota
	TR
	BR
	BL
)

// Order assigns the four points of q to their corner roles.
// The top-left point has the smallest x+y and the bottom-right the
// largest; the top-right has the smallest y-x and the bottom-left the
// largest. When two points tie the one earliest in q wins.
func Order(q Quad) Quad {
	var minSum, maxSum, minDiff, maxDiff int
	for i := 1; i < len(q); i++ {
		s := q[i].X + q[i].Y
		d := q[i].Y - q[i].X
		if s < q[minSum].X+q[minSum].Y {
			minSum = i
		}
		if s > q[maxSum].X+q[maxSum].Y {
			maxSum = i
		}
		if d < q[minDiff].Y-q[minDiff].X {
			minDiff = i
		}
		if d > q[maxDiff].Y-q[maxDiff].X {
			maxDiff = i
		}
	}

	var o Quad
	o[TL] = q[minSum]
	o[TR] = q[minDiff]
	o[BR] = q[maxSum]
	o[BL] = q[maxDiff]
	return o
}
