// Copyright 2021 Nick White.
// Use of this source code is governed by the GPLv3
// license that can be found in the LICENSE file.

package autocrop

import (
	"bytes"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// StrLog is a simple logger that saves to a string,
// so it can be printed out only when needed.
type StrLog struct {
	log string
}

func (t *StrLog) Write(p []byte) (n int, err error) {
	t.log += string(p)
	return len(p), nil
}

type connection struct {
	name string
	c    Storer
}

// testConns returns the connections to test: always a local one,
// and an S3 one when AUTOCROP_TEST_BUCKET names a bucket to use
func testConns(t *testing.T, vlog *log.Logger) []connection {
	conns := []connection{{name: "local", c: &LocalConn{TempDir: t.TempDir(), Logger: vlog}}}
	if b := os.Getenv("AUTOCROP_TEST_BUCKET"); b != "" && !testing.Short() {
		conns = append(conns, connection{name: "aws", c: &AwsConn{Bucket: b, Logger: vlog}})
	}
	return conns
}

// Test_roundtrip tests uploading, listing, downloading and deleting
// objects
func Test_roundtrip(t *testing.T) {
	var slog StrLog
	vlog := log.New(&slog, "", 0)

	cases := []struct {
		key      string
		contents []byte
	}{
		{"crop_empty.jpg", []byte{}},
		{"crop_justastring.jpg", []byte("I am just a basic string")},
		{"failed/nested.png", []byte("I am in a subdirectory")},
	}

	for _, conn := range testConns(t, vlog) {
		err := conn.c.Init()
		if err != nil {
			t.Fatalf("Could not initialise %s connection: %v\nLog: %s", conn.name, err, slog.log)
		}
		bucket := conn.c.CropStorageId()
		prefix := fmt.Sprintf("autocroptest%d/", os.Getpid())
		tempDir := t.TempDir()

		for _, c := range cases {
			t.Run(fmt.Sprintf("%s/%s", conn.name, c.key), func(t *testing.T) {
				slog.log = ""
				up := filepath.Join(tempDir, "up")
				err := os.WriteFile(up, c.contents, 0600)
				if err != nil {
					t.Fatalf("Could not create test file %s: %v", up, err)
				}

				key := prefix + c.key
				err = conn.c.Upload(bucket, key, up)
				if err != nil {
					t.Fatalf("Could not upload %s: %v\nLog: %s", key, err, slog.log)
				}

				names, err := conn.c.ListObjects(bucket, key)
				if err != nil {
					t.Fatalf("Could not list objects: %v", err)
				}
				if len(names) != 1 || names[0] != key {
					t.Fatalf("Expected to list just %s, got %v", key, names)
				}

				down := filepath.Join(tempDir, "down")
				err = conn.c.Download(bucket, key, down)
				if err != nil {
					t.Fatalf("Could not download %s: %v", key, err)
				}
				got, err := os.ReadFile(down)
				if err != nil {
					t.Fatalf("Could not read downloaded file: %v", err)
				}
				if !bytes.Equal(got, c.contents) {
					t.Errorf("Downloaded contents differ: expected '%s', got '%s'", c.contents, got)
				}

				err = conn.c.DeleteObjects(bucket, []string{key})
				if err != nil {
					t.Fatalf("Could not delete %s: %v", key, err)
				}
				names, err = conn.c.ListObjects(bucket, key)
				if err != nil {
					t.Fatalf("Could not list objects: %v", err)
				}
				if len(names) != 0 {
					t.Errorf("Expected %s to be deleted, but still listed: %v", key, names)
				}
			})
		}
	}
}

func Test_localListPrefix(t *testing.T) {
	var slog StrLog
	conn := &LocalConn{TempDir: t.TempDir(), Logger: log.New(&slog, "", 0)}
	err := conn.Init()
	if err != nil {
		t.Fatalf("Could not initialise local connection: %v", err)
	}

	src := filepath.Join(t.TempDir(), "src")
	err = os.WriteFile(src, []byte("x"), 0600)
	if err != nil {
		t.Fatalf("Could not create test file: %v", err)
	}
	for _, k := range []string{"crop_b.jpg", "crop_a.jpg", "failed/c.jpg"} {
		err = conn.Upload(conn.CropStorageId(), k, src)
		if err != nil {
			t.Fatalf("Could not upload %s: %v", k, err)
		}
	}

	cases := []struct {
		prefix string
		names  []string
	}{
		{"", []string{"crop_a.jpg", "crop_b.jpg", "failed/c.jpg"}},
		{"crop_", []string{"crop_a.jpg", "crop_b.jpg"}},
		{"failed/", []string{"failed/c.jpg"}},
		{"nothing", nil},
	}
	for _, c := range cases {
		t.Run(c.prefix, func(t *testing.T) {
			names, err := conn.ListObjects(conn.CropStorageId(), c.prefix)
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if fmt.Sprint(names) != fmt.Sprint(c.names) {
				t.Errorf("Expected %v, got %v", c.names, names)
			}
		})
	}
}

func Test_Latest(t *testing.T) {
	var slog StrLog
	conn := &LocalConn{TempDir: t.TempDir(), Logger: log.New(&slog, "", 0)}
	err := conn.Init()
	if err != nil {
		t.Fatalf("Could not initialise local connection: %v", err)
	}

	_, err = Latest(conn, "")
	if err == nil {
		t.Errorf("Expected an error from empty storage")
	}

	src := filepath.Join(t.TempDir(), "src")
	err = os.WriteFile(src, []byte("x"), 0600)
	if err != nil {
		t.Fatalf("Could not create test file: %v", err)
	}
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	dates := map[string]time.Time{
		"crop_a.jpg":   base,
		"crop_b.jpg":   base.Add(2 * time.Hour),
		"failed/c.jpg": base.Add(5 * time.Hour),
		"crop_d.jpg":   base.Add(time.Hour),
	}
	for k, d := range dates {
		err = conn.Upload(conn.CropStorageId(), k, src)
		if err != nil {
			t.Fatalf("Could not upload %s: %v", k, err)
		}
		err = os.Chtimes(filepath.Join(conn.TempDir, conn.CropStorageId(), filepath.FromSlash(k)), d, d)
		if err != nil {
			t.Fatalf("Could not set time of %s: %v", k, err)
		}
	}

	cases := []struct {
		prefix string
		name   string
	}{
		{"", "failed/c.jpg"},
		{"crop_", "crop_b.jpg"},
		{"crop_d", "crop_d.jpg"},
	}
	for _, c := range cases {
		t.Run(c.prefix, func(t *testing.T) {
			o, err := Latest(conn, c.prefix)
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if o.Name != c.name {
				t.Errorf("Expected %s, got %s", c.name, o.Name)
			}
			if !o.Date.Equal(dates[c.name]) {
				t.Errorf("Expected date %s, got %s", dates[c.name], o.Date)
			}
		})
	}
}
