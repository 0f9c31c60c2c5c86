package autocrop

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"github.com/disintegration/imaging"
	"github.com/jung-kurt/gofpdf"
)

const pageWidth = 5 // pageWidth in inches

// pxToPt converts a pixel value into a pt value (72 pts per inch)
// This uses pageWidth to determine the appropriate value
func pxToPt(i int) float64 {
	return float64(i) / pageWidth
}

// imageTypes maps the formats image.Decode reports to the image
// types gofpdf understands
var imageTypes = map[string]string{
	"jpeg": "JPG",
	"png":  "PNG",
	"gif":  "GIF",
}

// Fpdf is an album of images, one per page, each page sized to fit
// its image
type Fpdf struct {
	fpdf  *gofpdf.Fpdf
	pages int
}

// Setup creates a new PDF with appropriate settings
func (p *Fpdf) Setup() error {
	p.fpdf = gofpdf.New("P", "pt", "A4", "")
	p.fpdf.SetAutoPageBreak(false, float64(0))
	p.pages = 0
	return p.fpdf.Error()
}

// AddPage adds a page to the pdf containing the image at imgpath.
// The type of image is detected from its contents rather than its
// name, as crops are always JPEGs whatever they are called. Formats
// gofpdf can't embed, like BMP and TIFF originals, are converted to
// PNG first.
func (p *Fpdf) AddPage(imgpath string) error {
	f, err := os.Open(imgpath)
	if err != nil {
		return errors.New(fmt.Sprintf("Could not open file %s: %v", imgpath, err))
	}
	defer f.Close()
	cfg, format, err := image.DecodeConfig(f)
	if err != nil {
		return errors.New(fmt.Sprintf("Could not decode image %s: %v", imgpath, err))
	}

	opts := gofpdf.ImageOptions{ImageType: imageTypes[format], ReadDpi: false}
	if opts.ImageType == "" {
		img, err := imaging.Open(imgpath)
		if err != nil {
			return errors.New(fmt.Sprintf("Could not decode image %s: %v", imgpath, err))
		}
		var buf bytes.Buffer
		err = imaging.Encode(&buf, img, imaging.PNG)
		if err != nil {
			return errors.New(fmt.Sprintf("Could not convert %s image %s: %v", format, imgpath, err))
		}
		opts.ImageType = "PNG"
		_ = p.fpdf.RegisterImageOptionsReader(imgpath, opts, &buf)
	} else {
		_ = p.fpdf.RegisterImageOptions(imgpath, opts)
	}
	if err = p.fpdf.Error(); err != nil {
		return err
	}

	p.fpdf.AddPageFormat("P", gofpdf.SizeType{Wd: pxToPt(cfg.Width), Ht: pxToPt(cfg.Height)})
	p.fpdf.ImageOptions(imgpath, 0, 0, pxToPt(cfg.Width), pxToPt(cfg.Height), false, opts, 0, "")
	p.pages++

	return p.fpdf.Error()
}

// Pages returns the number of pages added so far
func (p *Fpdf) Pages() int {
	return p.pages
}

// Save saves the PDF to the file at path
func (p *Fpdf) Save(path string) error {
	if p.pages == 0 {
		return errors.New("No pages to save")
	}
	return p.fpdf.OutputFileAndClose(path)
}
