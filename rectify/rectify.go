// Copyright 2024 Nick White.
// Use of this source code is governed by the GPLv3
// license that can be found in the LICENSE file.

// rectify undoes the perspective distortion of a quadrilateral
// region of an image, producing an upright rectangular image of it.
package rectify

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"

	"rescribe.xyz/autocrop/geom"
)

// ErrDegenerate is returned when a quadrilateral cannot be
// rectified into an image with any pixels
var ErrDegenerate = errors.New("degenerate geometry")

// Size returns the dimensions of the rectangle an ordered
// quadrilateral is rectified into: the longer of each pair of
// opposite edges, truncated to whole pixels
func Size(q geom.Quad) (int, int) {
	w := max(int(geom.Dist(q[geom.BR], q[geom.BL])), int(geom.Dist(q[geom.TR], q[geom.TL])))
	h := max(int(geom.Dist(q[geom.TR], q[geom.BR])), int(geom.Dist(q[geom.TL], q[geom.BL])))
	return w, h
}

// Rectify warps the region of img bounded by q, whose corners must
// already be in geom.Order order, into an upright rectangle. Source
// samples falling outside img are black.
func Rectify(img image.Image, q geom.Quad) (*image.NRGBA, error) {
	w, h := Size(q)
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("rectifying to %dx%d: %w", w, h, ErrDegenerate)
	}

	dst := geom.Quad{
		{X: 0, Y: 0},
		{X: float64(w - 1), Y: 0},
		{X: float64(w - 1), Y: float64(h - 1)},
		{X: 0, Y: float64(h - 1)},
	}
	m, err := geom.PerspectiveTransform(q, dst)
	if err != nil {
		return nil, fmt.Errorf("%v: %w", err, ErrDegenerate)
	}
	inv, err := m.Inverse()
	if err != nil {
		return nil, fmt.Errorf("%v: %w", err, ErrDegenerate)
	}

	// sample from a zero-origin NRGBA copy so pixels can be read
	// directly
	b := img.Bounds()
	src := imaging.Clone(img)
	off := geom.Point{X: float64(b.Min.X), Y: float64(b.Min.Y)}

	out := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			p := inv.Apply(geom.Point{X: float64(x), Y: float64(y)})
			out.SetNRGBA(x, y, bilinear(src, p.X-off.X, p.Y-off.Y))
		}
	}

	return out, nil
}

// bilinear samples src at a fractional position
func bilinear(src *image.NRGBA, x, y float64) color.NRGBA {
	b := src.Bounds()
	if math.IsNaN(x) || math.IsNaN(y) || x < 0 || y < 0 || x > float64(b.Dx()-1) || y > float64(b.Dy()-1) {
		return color.NRGBA{0, 0, 0, 255}
	}

	x0, y0 := int(x), int(y)
	x1, y1 := min(x0+1, b.Dx()-1), min(y0+1, b.Dy()-1)
	fx, fy := x-float64(x0), y-float64(y0)

	p00 := src.Pix[src.PixOffset(x0, y0):]
	p10 := src.Pix[src.PixOffset(x1, y0):]
	p01 := src.Pix[src.PixOffset(x0, y1):]
	p11 := src.Pix[src.PixOffset(x1, y1):]

	var c [4]uint8
	for i := range c {
		top := float64(p00[i]) + (float64(p10[i])-float64(p00[i]))*fx
		bottom := float64(p01[i]) + (float64(p11[i])-float64(p01[i]))*fx
		c[i] = uint8(top + (bottom-top)*fy + 0.5)
	}
	return color.NRGBA{c[0], c[1], c[2], c[3]}
}

// Trim removes margin pixels from every side of img
func Trim(img image.Image, margin int) (*image.NRGBA, error) {
	b := img.Bounds()
	r := image.Rect(b.Min.X+margin, b.Min.Y+margin, b.Max.X-margin, b.Max.Y-margin)
	if margin < 0 || r.Empty() {
		return nil, fmt.Errorf("trimming %d pixels from %dx%d: %w", margin, b.Dx(), b.Dy(), ErrDegenerate)
	}
	return imaging.Crop(img, r), nil
}
