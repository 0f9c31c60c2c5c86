// Copyright 2019 Nick White.
// Use of this source code is governed by the GPLv3
// license that can be found in the LICENSE file.

// autocrop finds a single document, such as a photo or a page, lying
// on a light background in each image it is given, and saves an
// upright, tightly cropped version of it.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"rescribe.xyz/autocrop"
	"rescribe.xyz/autocrop/internal/crop"
)

const usage = `Usage: autocrop [-v] [-s] [-i input] [-o outdir] [-t threshold] [-c crop] [-j workers]

Crop and rotate images automatically. Each image should contain a single
photo or document on a light background.

Cropped images are saved to outdir as crop_<name>. Images in which no
document could be found are copied unchanged to outdir/failed/.
`

// publisher uploads each output file to every one of its Storers
type publisher []autocrop.Storer

func (p publisher) Upload(_ string, key string, path string) error {
	for _, c := range p {
		err := c.Upload(c.CropStorageId(), key, path)
		if err != nil {
			return err
		}
	}
	return nil
}

func main() {
	verbose := flag.Bool("v", false, "verbose")
	in := flag.String("i", ".", "input path; the directory containing the images to process, or a single image with -s")
	out := flag.String("o", "crop/", "output path; the directory processed images are written to")
	thresh := flag.Int("t", 200, "threshold to start searching from; higher values make a less aggressive search, but too high a value leaves a white border")
	margin := flag.Int("c", 15, "extra crop; pixels to remove from each side after cropping, to remove any remaining border")
	single := flag.Bool("s", false, "process a single image, given with -i")
	workers := flag.Int("j", 1, "number of images to process at once")
	timeout := flag.Duration("timeout", 0, "give up searching an image after this long, e.g. 30s (0 for no limit)")
	graph := flag.String("graph", "", "save a graph of the thresholds tried for each image to this png file")
	mirror := flag.String("mirror", "", "also copy output files to a crops directory inside this local directory")
	bucket := flag.String("bucket", "", "also upload output files to this S3 bucket")

	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), usage)
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 0 {
		flag.Usage()
		return
	}

	var verboselog *log.Logger
	if *verbose {
		verboselog = log.New(os.Stdout, "", 0)
	} else {
		var n crop.NullWriter
		verboselog = log.New(n, "", 0)
	}

	err := os.MkdirAll(*out, 0755)
	if err != nil {
		log.Fatalln("Error creating output directory", *out, err)
	}

	var files []string
	if *single {
		files = []string{*in}
	} else {
		files, err = crop.FindImages(*in)
		if err != nil {
			log.Fatalln("Error finding images:", err)
		}
	}
	if len(files) == 0 {
		fmt.Printf("No image files found in %s\n Exiting.\n", *in)
		return
	}

	cfg := crop.DefaultConfig()
	cfg.OutDir = *out
	cfg.Threshold = *thresh
	cfg.Margin = *margin
	cfg.Workers = *workers
	cfg.Timeout = *timeout
	cfg.Log = verboselog

	var pub publisher
	if *mirror != "" {
		pub = append(pub, &autocrop.LocalConn{TempDir: *mirror, Logger: verboselog})
	}
	if *bucket != "" {
		pub = append(pub, &autocrop.AwsConn{Bucket: *bucket, Logger: verboselog})
	}
	for _, conn := range pub {
		conn.Log("Setting up session")
		err = conn.Init()
		if err != nil {
			log.Fatalln("Error setting up connection:", err)
		}
		conn.Log("Finished setting up session")
	}
	if len(pub) > 0 {
		cfg.Uploader = pub
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	start := time.Now()
	outcomes, err := crop.Run(ctx, files, cfg)
	for _, o := range outcomes {
		if o.Err != nil {
			log.Printf("Error processing %s: %v\n", o.Path, o.Err)
		}
	}
	if err != nil {
		log.Fatalln("Cropping stopped:", err)
	}
	verboselog.Printf("Processed %d images in %s\n", len(outcomes), time.Since(start).Round(time.Millisecond))

	if *graph != "" {
		f, err := os.Create(*graph)
		if err != nil {
			log.Fatalln("Error creating file", *graph, err)
		}
		defer f.Close()
		err = autocrop.GraphSearch(crop.Traces(outcomes), *thresh, filepath.Base(filepath.Clean(*in)), f)
		if err != nil {
			log.Println("Error creating graph", err)
		}
	}

	fmt.Println(crop.Summarise(outcomes))

	for _, conn := range pub {
		latest, err := autocrop.Latest(conn, "")
		if err != nil {
			log.Println("Error checking published files:", err)
			continue
		}
		fmt.Printf("Latest published to %s: %s (%s)\n", conn.CropStorageId(), latest.Name, latest.Date.Format(time.RFC1123))
	}
}
