// Package imagemeta reads pixel dimensions from raster image headers.
//
// Only image.DecodeConfig is used, so at most a file's header is parsed;
// full pixel data is never decoded here. The blank imports register every
// format the assembler recognizes: JPEG, PNG, WebP, BMP and TIFF.
package imagemeta

import (
	"fmt"
	"image"
	"os"
	"path/filepath"

	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Dimensions holds an image's pixel size.
type Dimensions struct {
	Width  int
	Height int
}

// Read returns the pixel dimensions of the image at path. The format is
// detected from file content, not the extension, so a mislabeled file
// still reads correctly as long as the content is a registered format.
func Read(path string) (Dimensions, error) {
	f, err := os.Open(path)
	if err != nil {
		return Dimensions{}, err
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return Dimensions{}, fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}
	return Dimensions{Width: cfg.Width, Height: cfg.Height}, nil
}
