// Copyright 2024 Nick White.
// Use of this source code is governed by the GPLv3
// license that can be found in the LICENSE file.

package main

import (
	"errors"
	"image/color"
	"log"
	"os"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"

	"rescribe.xyz/autocrop"
)

// readOnlyConn is a LocalConn which refuses to create its storage,
// like a bucket the user can only read from
type readOnlyConn struct {
	*autocrop.LocalConn
	inits int
}

func (c *readOnlyConn) Init() error {
	c.inits++
	return errors.New("not allowed to create storage")
}

func Test_fetch(t *testing.T) {
	var n NullWriter
	logger := log.New(n, "", 0)
	storage := t.TempDir()

	// publish some crops as autocrop would
	pub := &autocrop.LocalConn{TempDir: storage, Logger: logger}
	err := pub.Init()
	if err != nil {
		t.Fatalf("Could not initialise local connection: %v", err)
	}
	src := filepath.Join(t.TempDir(), "src")
	err = os.WriteFile(src, []byte("crop"), 0600)
	if err != nil {
		t.Fatalf("Could not create test file: %v", err)
	}
	keys := []string{"crop_a.jpg", "failed/b.tif"}
	for _, k := range keys {
		err = pub.Upload(pub.CropStorageId(), k, src)
		if err != nil {
			t.Fatalf("Could not upload %s: %v", k, err)
		}
	}

	conn := &readOnlyConn{LocalConn: &autocrop.LocalConn{TempDir: storage, Logger: logger}}
	dir := t.TempDir()
	err = fetch(conn, dir)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if conn.inits != 0 {
		t.Errorf("Expected storage not to be created, but Init was called %d times", conn.inits)
	}
	for _, k := range keys {
		b, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(k)))
		if err != nil {
			t.Errorf("Expected %s to be downloaded: %v", k, err)
			continue
		}
		if string(b) != "crop" {
			t.Errorf("Downloaded %s differs: got '%s'", k, b)
		}
	}
}

func Test_walkerFailed(t *testing.T) {
	dir := t.TempDir()
	for _, n := range []string{"a.bmp", "b.tif", "c.png"} {
		err := imaging.Save(imaging.New(40, 30, color.White), filepath.Join(dir, n))
		if err != nil {
			t.Fatalf("Could not save %s: %v", n, err)
		}
	}
	err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("not an image"), 0600)
	if err != nil {
		t.Fatalf("Could not create test file: %v", err)
	}

	pdf := new(autocrop.Fpdf)
	err = pdf.Setup()
	if err != nil {
		t.Fatalf("Setup failed: %v", err)
	}
	err = filepath.Walk(dir, walker(pdf, ""))
	if err != nil {
		t.Fatalf("Unexpected error walking %s: %v", dir, err)
	}
	if pdf.Pages() != 3 {
		t.Errorf("Expected 3 pages, got %d", pdf.Pages())
	}
}
