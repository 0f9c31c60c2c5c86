// Copyright 2024 Nick White.
// Use of this source code is governed by the GPLv3
// license that can be found in the LICENSE file.

package contour

import (
	"image"
	"image/color"
)

// Threshold binarizes img at a fixed level: pixels at or above
// thresh become white, everything else black
func Threshold(img *image.Gray, thresh int) *image.Gray {
	b := img.Bounds()
	new := image.NewGray(b)

	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if int(img.GrayAt(x, y).Y) >= thresh {
				new.SetGray(x, y, color.Gray{255})
			} else {
				new.SetGray(x, y, color.Gray{0})
			}
		}
	}

	return new
}
