// Copyright 2024 Nick White.
// Use of this source code is governed by the GPLv3
// license that can be found in the LICENSE file.

package crop

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFindImages(t *testing.T) {
	dir := t.TempDir()
	for _, n := range []string{"a.jpg", "b.PNG", "c.tif", "d.jpeg", ".hidden.jpg", "notes.txt", "e.gif"} {
		err := os.WriteFile(filepath.Join(dir, n), []byte{}, 0644)
		if err != nil {
			t.Fatalf("Could not create test file %s: %v", n, err)
		}
	}
	err := os.Mkdir(filepath.Join(dir, "sub.jpg"), 0755)
	if err != nil {
		t.Fatalf("Could not create test directory: %v", err)
	}
	err = os.WriteFile(filepath.Join(dir, "sub.jpg", "f.jpg"), []byte{}, 0644)
	if err != nil {
		t.Fatalf("Could not create test file: %v", err)
	}

	files, err := FindImages(dir)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	want := []string{"c.tif", "a.jpg", "d.jpeg", "b.PNG"}
	if len(files) != len(want) {
		t.Fatalf("Expected %v, got %v", want, files)
	}
	for i, w := range want {
		if files[i] != filepath.Join(dir, w) {
			t.Errorf("File %d: expected %s, got %s", i, filepath.Join(dir, w), files[i])
		}
	}
}

func TestFindImagesEmpty(t *testing.T) {
	files, err := FindImages(t.TempDir())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(files) != 0 {
		t.Errorf("Expected no files, got %v", files)
	}
}
