// Copyright 2024 Nick White.
// Use of this source code is governed by the GPLv3
// license that can be found in the LICENSE file.

// crop runs the threshold search over image files, writing a
// cropped version of each one in which a document was found, and a
// copy of the original of each one in which none was.
package crop

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"

	"rescribe.xyz/autocrop/search"
)

var (
	ErrDecode = errors.New("cannot decode image")
	ErrIO     = errors.New("cannot write output")
)

// Uploader is somewhere output files can be copied to once they
// have been written, such as an S3 bucket or a local mirror
type Uploader interface {
	Upload(bucket string, key string, path string) error
}

// Config holds the settings for cropping a set of files
type Config struct {
	OutDir    string
	Threshold int
	Margin    int
	// Workers is the number of files processed at once by Run
	Workers int
	// Timeout limits the search of a single file; zero means no
	// limit. A file whose search times out is treated as one in
	// which no document was found.
	Timeout time.Duration
	Policy  search.Policy
	Log     *log.Logger

	// If Uploader is set each output file is uploaded to Bucket,
	// with a key of its path relative to OutDir
	Uploader Uploader
	Bucket   string
}

// DefaultConfig returns the settings autocrop uses if none are
// given
func DefaultConfig() Config {
	var n NullWriter
	return Config{
		OutDir:    "crop/",
		Threshold: 200,
		Margin:    15,
		Workers:   1,
		Policy:    search.DefaultPolicy(),
		Log:       log.New(n, "", 0),
	}
}

func (c Config) logger() *log.Logger {
	if c.Log == nil {
		var n NullWriter
		return log.New(n, "", 0)
	}
	return c.Log
}

// Outcome describes what happened to one file
type Outcome struct {
	Path string
	// Output is the file written, either the crop or the copy in the
	// failed directory
	Output string
	Found  bool
	Status search.Status
	// Trace lists the thresholds tried
	Trace []int
	Err   error
}

// Process searches for a document in the image at path, saving it
// to crop_<name> in cfg.OutDir if found, and otherwise copying the
// original file to failed/<name> in cfg.OutDir.
func Process(ctx context.Context, path string, cfg Config) (Outcome, error) {
	logger := cfg.logger()
	name := filepath.Base(path)
	out := Outcome{Path: path}

	logger.Printf("Opening: %s\n", path)
	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return out, fmt.Errorf("%w %s: %w", ErrDecode, path, err)
	}

	padded := pad(img, cfg.Policy.Border)
	gray := grayscale(padded)

	sctx := ctx
	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		sctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}

	s := search.Searcher{Policy: cfg.Policy, Logger: logger}
	res, err := s.Search(sctx, padded, gray, cfg.Threshold, cfg.Margin)
	out.Status = res.State.Status
	out.Trace = res.Trace
	if err != nil {
		if ctx.Err() != nil {
			return out, ctx.Err()
		}
		if !errors.Is(err, context.DeadlineExceeded) {
			return out, fmt.Errorf("Error searching %s: %w", path, err)
		}
		logger.Printf("Timed out searching %s after %s\n", path, cfg.Timeout)
	}

	if res.Found {
		out.Found = true
		out.Output = filepath.Join(cfg.OutDir, "crop_"+name)
		logger.Printf("Saving to: %s\n", out.Output)
		err = save(res.Image, out.Output)
	} else {
		out.Output = filepath.Join(cfg.OutDir, "failed", name)
		logger.Printf("Failed finding any contour. Saving original file to %s\n", out.Output)
		err = copyFile(path, out.Output)
	}
	if err != nil {
		return out, err
	}

	if cfg.Uploader != nil {
		key, err := filepath.Rel(cfg.OutDir, out.Output)
		if err != nil {
			key = filepath.Base(out.Output)
		}
		err = cfg.Uploader.Upload(cfg.Bucket, filepath.ToSlash(key), out.Output)
		if err != nil {
			return out, fmt.Errorf("Failed to upload %s: %w", out.Output, err)
		}
	}

	return out, nil
}

// pad surrounds img with border white pixels on every side, so that
// a document touching the edge of the image still has a closed
// outline. Transparent areas become white.
func pad(img image.Image, border int) *image.NRGBA {
	b := img.Bounds()
	bg := imaging.New(b.Dx()+2*border, b.Dy()+2*border, color.White)
	return imaging.Overlay(bg, img, image.Pt(border, border), 1.0)
}

// grayscale returns a new grayscale copy of img, with bounds starting
// at the origin
func grayscale(img image.Image) *image.Gray {
	b := img.Bounds()
	gray := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(gray, gray.Bounds(), img, b.Min, draw.Src)
	return gray
}

// save writes img to path as a JPEG of the highest quality,
// whatever the extension of path
func save(img image.Image, path string) error {
	err := os.MkdirAll(filepath.Dir(path), 0755)
	if err != nil {
		return fmt.Errorf("%w %s: %w", ErrIO, path, err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w %s: %w", ErrIO, path, err)
	}
	err = imaging.Encode(f, img, imaging.JPEG, imaging.JPEGQuality(100))
	if err != nil {
		f.Close()
		return fmt.Errorf("%w %s: %w", ErrIO, path, err)
	}
	err = f.Close()
	if err != nil {
		return fmt.Errorf("%w %s: %w", ErrIO, path, err)
	}
	return nil
}

// copyFile copies the bytes of src to dst, creating the directory
// of dst if needed
func copyFile(src, dst string) error {
	err := os.MkdirAll(filepath.Dir(dst), 0755)
	if err != nil {
		return fmt.Errorf("%w %s: %w", ErrIO, dst, err)
	}
	fin, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("%w %s: %w", ErrIO, dst, err)
	}
	defer fin.Close()

	f, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("%w %s: %w", ErrIO, dst, err)
	}
	_, err = io.Copy(f, fin)
	if err != nil {
		f.Close()
		return fmt.Errorf("%w %s: %w", ErrIO, dst, err)
	}
	err = f.Close()
	if err != nil {
		return fmt.Errorf("%w %s: %w", ErrIO, dst, err)
	}
	return nil
}
