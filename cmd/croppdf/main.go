// Copyright 2019 Nick White.
// Use of this source code is governed by the GPLv3
// license that can be found in the LICENSE file.

package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"rescribe.xyz/autocrop"
)

const usage = `Usage: croppdf [-v] [-failed] [-bucket name] cropdir out.pdf

croppdf collects the crops made by autocrop into a PDF, one image per
page, to make them easy to check or share.

With -failed, the originals autocrop could not find a document in
are collected instead, from cropdir/failed.

With -bucket, the crops are first downloaded from an S3 bucket they
were published to, into cropdir. The bucket is only read from.
`

type Pdfer interface {
	Setup() error
	AddPage(imgpath string) error
	Save(path string) error
}

// null writer to enable non-verbose logging to be discarded
type NullWriter bool

func (w NullWriter) Write(p []byte) (n int, err error) {
	return len(p), nil
}

func walker(pdf Pdfer, prefix string) filepath.WalkFunc {
	return func(fpath string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		if !strings.HasPrefix(filepath.Base(fpath), prefix) {
			return nil
		}
		err = pdf.AddPage(fpath)
		if err != nil {
			log.Println("Skipping", fpath, err)
		}
		return nil
	}
}

// fetch sets up conn for reading, without creating any storage, and
// downloads everything in it into dir
func fetch(conn autocrop.Storer, dir string) error {
	err := conn.MinimalInit()
	if err != nil {
		return fmt.Errorf("Error setting up connection: %v", err)
	}
	return download(conn, dir)
}

// download fetches every object in the storage of conn into dir
func download(conn autocrop.Storer, dir string) error {
	names, err := conn.ListObjects(conn.CropStorageId(), "")
	if err != nil {
		return fmt.Errorf("Failed to list crops: %v", err)
	}
	for _, n := range names {
		fn := filepath.Join(dir, filepath.FromSlash(n))
		err = os.MkdirAll(filepath.Dir(fn), 0755)
		if err != nil {
			return fmt.Errorf("Failed to create directory for %s: %v", fn, err)
		}
		conn.Log("Downloading", n)
		err = conn.Download(conn.CropStorageId(), n, fn)
		if err != nil {
			return fmt.Errorf("Failed to download %s: %v", n, err)
		}
	}
	return nil
}

func main() {
	verbose := flag.Bool("v", false, "verbose")
	failed := flag.Bool("failed", false, "make a pdf of the failed images rather than the crops")
	bucket := flag.String("bucket", "", "download crops from this S3 bucket first")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), usage)
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 2 {
		flag.Usage()
		return
	}

	var verboselog *log.Logger
	if *verbose {
		verboselog = log.New(os.Stdout, "", 0)
	} else {
		var n NullWriter
		verboselog = log.New(n, "", 0)
	}

	dir := flag.Arg(0)
	if *bucket != "" {
		conn := &autocrop.AwsConn{Bucket: *bucket, Logger: verboselog}
		err := fetch(conn, dir)
		if err != nil {
			log.Fatalln(err)
		}
	}

	prefix := "crop_"
	if *failed {
		dir = filepath.Join(dir, "failed")
		prefix = ""
	}

	pdf := new(autocrop.Fpdf)
	err := pdf.Setup()
	if err != nil {
		log.Fatalln("Failed to set up pdf", err)
	}

	err = filepath.Walk(dir, walker(pdf, prefix))
	if err != nil {
		log.Fatalln("Failed to walk", dir, err)
	}

	err = pdf.Save(flag.Arg(1))
	if err != nil {
		log.Fatalln("Failed to save", flag.Arg(1), err)
	}
	verboselog.Printf("Saved %d pages to %s\n", pdf.Pages(), flag.Arg(1))
}
