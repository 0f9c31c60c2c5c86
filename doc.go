// Copyright 2020 Nick White.
// Use of this source code is governed by the GPLv3
// license that can be found in the LICENSE file.

/*
The autocrop package contains tools and functions for cropping photographs
or scans of a single document, such as a photo, postcard or page, lying on a
light background. It finds the edges of the document, corrects any rotation
or perspective distortion, and trims it tightly.

Introduction

The autocrop command is the main tool. Presuming you have the go tools
installed, you can install it, and the other tools in the package, with this
command:
  go install rescribe.xyz/autocrop/cmd/...

All of the tools will give information on what they do and how they work
with the '-h' flag, so for example to get usage information on autocrop
simply run the following:
  autocrop -h

Cropping images

By default autocrop processes every image in the current directory, saving
the results to a directory called crop/:
  autocrop -i scans/ -o crops/

A single file can be processed with the -s flag:
  autocrop -s -i scans/photo1.jpg -o crops/

Each image is padded with a white border, converted to grayscale and
binarized at a threshold (200 by default, set with -t). The outlines of the
white regions are traced, and the first outline whose area is between a
sixth of the image and nearly all of it is simplified into a polygon. If the
polygon has four corners the document is found; with more corners the
threshold is lowered, and with fewer it is raised, until a four cornered
outline is found or the search stops making progress. A found document is
warped into an upright rectangle, and a further margin (15 pixels by
default, set with -c) is trimmed from every side to remove any remaining
background.

Found documents are saved as high quality JPEGs named crop_<name>. The
original files of images in which no document was found are copied to a
failed/ directory inside the output directory, so they can be cropped by
hand or tried again with a different threshold.

Publishing results

The cropped files can also be copied elsewhere as they are written, either
to a local directory with -mirror, or to an S3 bucket with -bucket. To use
S3, set up your ~/.aws/credentials appropriately, and change the settings
in cloudsettings.go if the defaults don't suit you.

Checking and sharing results

The -graph flag of autocrop saves a graph of the thresholds tried for each
image, which is useful for choosing a better starting threshold for a
collection. The croppdf tool collects a directory of crops into a PDF, one
image per page, which is a convenient way to check or share them.
*/
package autocrop
