package assemble

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"github.com/quillback/scalebind/internal/imagemeta"
	"github.com/quillback/scalebind/internal/naming"
)

var (
	ErrNoImages        = errors.New("no images found")
	ErrAllImagesFailed = errors.New("no image could be added")
)

// imageExtensions is the fixed set of recognized raster extensions, matched
// case-insensitively.
var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
	".bmp":  true,
	".tiff": true,
}

// IsImage reports whether name carries a recognized raster-image extension.
func IsImage(name string) bool {
	return imageExtensions[strings.ToLower(filepath.Ext(name))]
}

// Assembler builds one multi-page PDF per directory: one page per image in
// natural filename order, each page sized in points to the image's pixel
// dimensions (72 DPI assumption, so pixels map to points one to one).
type Assembler struct {
	// OnSkip, when set, is told about files that could not be read or
	// embedded. Assembly continues without them.
	OnSkip func(path string, reason error)
}

// Assemble writes the document for sourceDir's images to destFile and
// returns the number of pages written. Unreadable files are skipped; the
// document is only written once every remaining page has been appended.
// Nothing is written when no page could be produced.
func (a *Assembler) Assemble(sourceDir, destFile string) (int, error) {
	files, err := listImages(sourceDir)
	if err != nil {
		return 0, err
	}
	if len(files) == 0 {
		return 0, fmt.Errorf("%w in %s", ErrNoImages, sourceDir)
	}
	naming.SortNatural(files)

	pdf := gofpdf.New("P", "pt", "A4", "")
	pdf.SetAutoPageBreak(false, 0)

	pages := 0
	for _, path := range files {
		if a.addPage(pdf, path) {
			pages++
		}
	}
	if pages == 0 {
		return 0, fmt.Errorf("%w in %s", ErrAllImagesFailed, sourceDir)
	}

	if err := pdf.OutputFileAndClose(destFile); err != nil {
		return 0, fmt.Errorf("write %s: %w", destFile, err)
	}
	return pages, nil
}

// addPage appends one page holding the image stretched to fill it exactly.
// The image is registered before the page is added so a parse failure skips
// the file without leaving a blank page behind.
func (a *Assembler) addPage(pdf *gofpdf.Fpdf, path string) bool {
	dims, err := imagemeta.Read(path)
	if err != nil {
		a.skip(path, err)
		return false
	}

	opts, err := registerImage(pdf, path)
	if err != nil {
		a.skip(path, err)
		return false
	}

	w, h := float64(dims.Width), float64(dims.Height)
	pdf.AddPageFormat("P", gofpdf.SizeType{Wd: w, Ht: h})
	pdf.ImageOptions(path, 0, 0, w, h, false, opts, 0, "")
	if pdf.Err() {
		err := fmt.Errorf("embed: %v", pdf.Error())
		pdf.ClearError()
		a.skip(path, err)
		return false
	}
	return true
}

// registerImage parses the image into the document under the file's path as
// its name. Formats the PDF writer cannot embed directly (webp, bmp, tiff)
// are transcoded to PNG in memory first. A failed registration clears the
// writer's sticky error so later images are unaffected.
func registerImage(pdf *gofpdf.Fpdf, path string) (gofpdf.ImageOptions, error) {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")

	var opts gofpdf.ImageOptions
	switch ext {
	case "jpg", "jpeg", "png":
		opts = gofpdf.ImageOptions{ImageType: ext}
		pdf.RegisterImageOptions(path, opts)
	default:
		r, err := transcodePNG(path)
		if err != nil {
			return opts, err
		}
		opts = gofpdf.ImageOptions{ImageType: "png"}
		pdf.RegisterImageOptionsReader(path, opts, r)
	}

	if pdf.Err() {
		err := fmt.Errorf("register: %v", pdf.Error())
		pdf.ClearError()
		return opts, err
	}
	return opts, nil
}

// transcodePNG decodes an image and re-encodes it as PNG in memory.
func transcodePNG(path string) (io.Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return &buf, nil
}

func (a *Assembler) skip(path string, reason error) {
	if a.OnSkip != nil {
		a.OnSkip(path, reason)
	}
}

// listImages returns the full paths of recognized image files directly in dir.
func listImages(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", dir, err)
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() || !IsImage(e.Name()) {
			continue
		}
		files = append(files, filepath.Join(dir, e.Name()))
	}
	return files, nil
}
