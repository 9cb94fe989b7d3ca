package raster

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
)

// Load reads a PNG or BMP file from path and returns its pixels as a
// Raster. The format is chosen by file extension.
func Load(path string) (*Raster, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("raster: failed to open %s: %w", path, err)
	}
	defer file.Close()

	img, err := decodeByExtension(file, path)
	if err != nil {
		return nil, fmt.Errorf("raster: failed to decode %s: %w", path, err)
	}
	return FromImage(img), nil
}

// Save writes the raster to path as a PNG or BMP file, chosen by file
// extension.
func (r *Raster) Save(path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("raster: failed to create %s: %w", path, err)
	}
	defer file.Close()

	return r.encodeByExtension(file, path)
}

func decodeByExtension(r io.Reader, path string) (image.Image, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return png.Decode(r)
	case ".bmp":
		return bmp.Decode(r)
	default:
		return nil, fmt.Errorf("unsupported raster extension %q", filepath.Ext(path))
	}
}

func (r *Raster) encodeByExtension(w io.Writer, path string) error {
	img := r.ToImage()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return png.Encode(w, img)
	case ".bmp":
		return bmp.Encode(w, img)
	default:
		return fmt.Errorf("unsupported raster extension %q", filepath.Ext(path))
	}
}
