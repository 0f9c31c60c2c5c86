// Copyright 2024 Nick White.
// Use of this source code is governed by the GPLv3
// license that can be found in the LICENSE file.

// contour extracts the borders of the white regions of a binary
// image and reduces them to polygons, so that a photograph or page
// lying on a contrasting background can be found.
package contour

import (
	"image"
)

// Contour is a closed boundary, listed one pixel at a time
type Contour []image.Point

// neighbour offsets in clockwise order starting east; y grows
// downwards
var dirs = [8]image.Point{
	{1, 0}, {1, 1}, {0, 1}, {-1, 1},
	{-1, 0}, {-1, -1}, {0, -1}, {1, -1},
}

func dirOf(from, to image.Point) int {
	d := to.Sub(from)
	for i, v := range dirs {
		if v == d {
			return i
		}
	}
	return -1
}

// grid holds the working labels for border following, with a one
// pixel frame of zeros around the image
type grid struct {
	f []int32
	w int
}

func (g grid) at(p image.Point) int32 {
	return g.f[p.Y*g.w+p.X]
}

func (g grid) set(p image.Point, v int32) {
	g.f[p.Y*g.w+p.X] = v
}

// Find returns every border in img, treating any non-zero pixel as
// foreground and using 8-connectivity. Both the outer borders of
// white regions and the borders of the holes inside them are
// returned, in the raster order of their first pixel, with no
// hierarchy. This is the border following algorithm of Suzuki and
// Abe, "Topological structural analysis of digitized binary images
// by border following" (1985).
func Find(img *image.Gray) []Contour {
	b := img.Bounds()
	g := grid{f: make([]int32, (b.Dx()+2)*(b.Dy()+2)), w: b.Dx() + 2}
	h := b.Dy() + 2

	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			if img.GrayAt(b.Min.X+x, b.Min.Y+y).Y != 0 {
				g.f[(y+1)*g.w+x+1] = 1
			}
		}
	}

	// translates grid coordinates back into image coordinates
	off := b.Min.Sub(image.Pt(1, 1))

	var contours []Contour
	nbd := int32(1)
	for y := 1; y < h-1; y++ {
		for x := 1; x < g.w-1; x++ {
			v := g.f[y*g.w+x]
			if v == 0 {
				continue
			}
			var from image.Point
			switch {
			case v == 1 && g.f[y*g.w+x-1] == 0:
				// outer border
				from = image.Pt(x-1, y)
			case v >= 1 && g.f[y*g.w+x+1] == 0:
				// hole border
				from = image.Pt(x+1, y)
			default:
				continue
			}
			nbd++
			contours = append(contours, g.follow(image.Pt(x, y), from, nbd, off))
		}
	}

	return contours
}

// follow traces a single border starting at start, whose zero
// neighbour from marks the side the border was entered from
func (g grid) follow(start, from image.Point, nbd int32, off image.Point) Contour {
	var first image.Point
	found := false
	d0 := dirOf(start, from)
	for i := range 8 {
		q := start.Add(dirs[(d0+i)%8])
		if g.at(q) != 0 {
			first = q
			found = true
			break
		}
	}
	if !found {
		// isolated pixel
		g.set(start, -nbd)
		return Contour{start.Add(off)}
	}

	var c Contour
	prev, cur := first, start
	for {
		d := dirOf(cur, prev)
		eastZero := false
		var next image.Point
		for i := 1; i <= 8; i++ {
			dd := (d - i + 8) % 8
			q := cur.Add(dirs[dd])
			if g.at(q) != 0 {
				next = q
				break
			}
			if dd == 0 {
				eastZero = true
			}
		}

		c = append(c, cur.Add(off))

		if eastZero {
			g.set(cur, -nbd)
		} else if g.at(cur) == 1 {
			g.set(cur, nbd)
		}

		if next == start && cur == first {
			break
		}
		prev, cur = cur, next
	}

	return c
}
