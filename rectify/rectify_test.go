// Copyright 2024 Nick White.
// Use of this source code is governed by the GPLv3
// license that can be found in the LICENSE file.

package rectify

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"
	"testing"

	"rescribe.xyz/autocrop/geom"
)

func gradient(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{uint8(x), uint8(y), 100, 255})
		}
	}
	return img
}

func corners(cx, cy, w, h, deg float64) geom.Quad {
	rad := deg * math.Pi / 180
	cos, sin := math.Cos(rad), math.Sin(rad)
	var q geom.Quad
	for i, c := range [][2]float64{{-w / 2, -h / 2}, {w / 2, -h / 2}, {w / 2, h / 2}, {-w / 2, h / 2}} {
		q[i] = geom.Point{X: cx + c[0]*cos - c[1]*sin, Y: cy + c[0]*sin + c[1]*cos}
	}
	return q
}

func TestRectifyAxisAligned(t *testing.T) {
	src := gradient(100, 80)
	q := geom.Quad{{X: 10, Y: 10}, {X: 60, Y: 10}, {X: 60, Y: 40}, {X: 10, Y: 40}}
	out, err := Rectify(src, q)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	b := out.Bounds()
	if b.Dx() != 50 || b.Dy() != 30 {
		t.Fatalf("Expected 50x30, got %dx%d", b.Dx(), b.Dy())
	}
	for _, c := range []struct{ x, y, sx, sy int }{
		{0, 0, 10, 10},
		{49, 0, 60, 10},
		{49, 29, 60, 40},
		{0, 29, 10, 40},
	} {
		got := out.NRGBAAt(c.x, c.y)
		want := src.NRGBAAt(c.sx, c.sy)
		if got != want {
			t.Errorf("Pixel %d,%d: expected %v, got %v", c.x, c.y, want, got)
		}
	}
}

func TestRectifyRotated(t *testing.T) {
	cases := []struct {
		w, h, deg float64
	}{
		{400, 200, 20},
		{300, 300, -10},
		{250, 400, 35},
	}

	for _, c := range cases {
		t.Run(fmt.Sprintf("%0.0fx%0.0f_%0.0f", c.w, c.h, c.deg), func(t *testing.T) {
			src := image.NewNRGBA(image.Rect(0, 0, 800, 800))
			fg := color.NRGBA{90, 120, 150, 255}
			for y := 0; y < 800; y++ {
				for x := 0; x < 800; x++ {
					src.SetNRGBA(x, y, color.NRGBA{255, 255, 255, 255})
				}
			}
			q := corners(400, 400, c.w, c.h, c.deg)
			rad := c.deg * math.Pi / 180
			for y := 0; y < 800; y++ {
				for x := 0; x < 800; x++ {
					dx, dy := float64(x)-400, float64(y)-400
					u := dx*math.Cos(rad) + dy*math.Sin(rad)
					v := -dx*math.Sin(rad) + dy*math.Cos(rad)
					if math.Abs(u) <= c.w/2 && math.Abs(v) <= c.h/2 {
						src.SetNRGBA(x, y, fg)
					}
				}
			}

			out, err := Rectify(src, geom.Order(q))
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			b := out.Bounds()
			ratio := float64(b.Dx()) / float64(b.Dy())
			if math.Abs(ratio-c.w/c.h) > 0.02 {
				t.Errorf("Expected aspect ratio %0.3f, got %0.3f (%dx%d)", c.w/c.h, ratio, b.Dx(), b.Dy())
			}
			if got := out.NRGBAAt(b.Dx()/2, b.Dy()/2); got != fg {
				t.Errorf("Expected centre to be %v, got %v", fg, got)
			}
			if got := out.NRGBAAt(5, 5); got != fg {
				t.Errorf("Expected pixel inside the top left corner to be %v, got %v", fg, got)
			}
		})
	}
}

func TestRectifyDegenerate(t *testing.T) {
	src := gradient(50, 50)
	cases := []struct {
		name string
		q    geom.Quad
	}{
		{"point", geom.Quad{{X: 5, Y: 5}, {X: 5, Y: 5}, {X: 5, Y: 5}, {X: 5, Y: 5}}},
		{"line", geom.Quad{{X: 0, Y: 5}, {X: 20, Y: 5}, {X: 20, Y: 5.5}, {X: 0, Y: 5.5}}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := Rectify(src, c.q)
			if !errors.Is(err, ErrDegenerate) {
				t.Errorf("Expected ErrDegenerate, got %v", err)
			}
		})
	}
}

func TestTrim(t *testing.T) {
	src := gradient(100, 80)
	out, err := Trim(src, 15)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if b := out.Bounds(); b.Dx() != 70 || b.Dy() != 50 {
		t.Errorf("Expected 70x50, got %dx%d", b.Dx(), b.Dy())
	}
	if got, want := out.NRGBAAt(0, 0), src.NRGBAAt(15, 15); got != want {
		t.Errorf("Expected first pixel %v, got %v", want, got)
	}

	_, err = Trim(src, 40)
	if !errors.Is(err, ErrDegenerate) {
		t.Errorf("Expected ErrDegenerate trimming everything, got %v", err)
	}
}
