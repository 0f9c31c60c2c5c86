// Copyright 2024 Nick White.
// Use of this source code is governed by the GPLv3
// license that can be found in the LICENSE file.

// search looks for a single document in an image by binarizing it
// at a threshold, tracing the outlines that result, and adjusting
// the threshold until one plausibly sized outline has exactly four
// corners.
package search

import (
	"context"
	"image"
	"io"
	"log"

	"rescribe.xyz/autocrop/contour"
	"rescribe.xyz/autocrop/geom"
	"rescribe.xyz/autocrop/rectify"
)

// Result is the outcome of a search
type Result struct {
	// Found is true if a document was found and rectified
	Found bool
	// Image is the rectified and trimmed document if Found, and
	// the image searched otherwise
	Image image.Image
	// Quad holds the ordered corners of the document if Found
	Quad  geom.Quad
	State State
	// Trace lists every threshold that was tried, in order
	Trace []int
}

// Searcher runs threshold searches with a given Policy
type Searcher struct {
	Policy Policy
	Logger *log.Logger
}

// Search looks for a document in img, starting at threshold. gray
// is the grayscale version of img that is binarized, and must share
// its bounds. When a document is found it is rectified from img and
// margin pixels are trimmed from each side.
func (s Searcher) Search(ctx context.Context, img image.Image, gray *image.Gray, threshold, margin int) (Result, error) {
	res := Result{Image: img}
	if err := s.Policy.Validate(); err != nil {
		return res, err
	}

	logger := s.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}

	b := gray.Bounds()
	total := float64(b.Dx() * b.Dy())

	st := NewState(threshold)
	for st.Status == Searching {
		select {
		case <-ctx.Done():
			res.State = st
			return res, ctx.Err()
		default:
		}

		res.Trace = append(res.Trace, st.Threshold)
		d := Decide(contour.Find(contour.Threshold(gray, st.Threshold)), total, s.Policy)

		if d.Kind == FoundQuad {
			q := geom.Order(d.Quad)
			cropped, err := crop(img, q, margin)
			if err == nil {
				st = Advance(st, d, s.Policy)
				res.Found = true
				res.Image = cropped
				res.Quad = q
				break
			}
			logger.Printf("Ignoring outline at threshold %d: %v\n", st.Threshold, err)
			d = Decision{Kind: NoContour, Vertices: d.Vertices}
		}

		st = Advance(st, d, s.Policy)
		if st.Status == Searching {
			logger.Printf("Adjust threshold: %d\n", st.Threshold)
		}
	}

	res.State = st
	return res, nil
}

func crop(img image.Image, q geom.Quad, margin int) (image.Image, error) {
	warped, err := rectify.Rectify(img, q)
	if err != nil {
		return nil, err
	}
	return rectify.Trim(warped, margin)
}
