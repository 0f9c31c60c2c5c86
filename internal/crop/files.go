// Copyright 2024 Nick White.
// Use of this source code is governed by the GPLv3
// license that can be found in the LICENSE file.

package crop

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// null writer to enable non-verbose logging to be discarded
type NullWriter bool

func (w NullWriter) Write(p []byte) (n int, err error) {
	return len(p), nil
}

// imageGlobs are the file patterns searched for, in order
var imageGlobs = []string{
	"*.bmp", "*.BMP",
	"*.tiff", "*.TIFF", "*.tif", "*.TIF",
	"*.jpg", "*.JPG", "*.JPEG", "*.jpeg",
	"*.png", "*.PNG",
}

// FindImages lists the image files directly inside dir, grouped by
// extension in the order of imageGlobs. Directories are ignored, and
// files starting with "." are skipped, to prevent automatically
// generated files like ._img.jpg getting in the way.
func FindImages(dir string) ([]string, error) {
	var files []string
	seen := make(map[string]bool)
	for _, g := range imageGlobs {
		matches, err := filepath.Glob(filepath.Join(dir, g))
		if err != nil {
			return files, fmt.Errorf("Failed to search %s for %s: %v", dir, g, err)
		}
		for _, m := range matches {
			if strings.HasPrefix(filepath.Base(m), ".") {
				continue
			}
			if seen[m] {
				continue
			}
			seen[m] = true
			info, err := os.Stat(m)
			if err != nil || info.IsDir() {
				continue
			}
			files = append(files, m)
		}
	}
	return files, nil
}
