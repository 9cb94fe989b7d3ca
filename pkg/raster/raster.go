// Package raster adapts TMX pixel data to and from the standard
// library's image formats, so textures can round-trip through ordinary
// PNG and BMP files during authoring.
package raster

import (
	"fmt"
	"image"
	"image/color"

	"github.com/hansbonini/tmxtools/pkg/gs"
)

// Raster is a row-major true-color buffer, the common currency between
// a TMX image and an on-disk picture file.
type Raster struct {
	Width, Height int
	Pixels        []gs.Color

	// embeddedPalette and embeddedIndices are populated by FromImage when
	// the source image is already palette-indexed (an *image.Paletted,
	// e.g. a paletted PNG). They let a caller reuse the host's own CLUT
	// and index stream instead of re-quantizing a flattened true-color
	// buffer. Both are nil when the source carried no palette.
	embeddedPalette []gs.Color
	embeddedIndices []byte
}

// New allocates a blank (fully transparent) raster of the given size.
func New(width, height int) *Raster {
	return &Raster{Width: width, Height: height, Pixels: make([]gs.Color, width*height)}
}

// At returns the color at (x, y).
func (r *Raster) At(x, y int) gs.Color {
	return r.Pixels[y*r.Width+x]
}

// Set stores the color at (x, y).
func (r *Raster) Set(x, y int, c gs.Color) {
	r.Pixels[y*r.Width+x] = c
}

// FromImage copies img into a new Raster, converting every pixel
// through color.RGBAModel.
// If img is already an *image.Paletted, its palette and index stream
// are captured too, so FromRaster callers can skip quantization
// entirely (see EmbeddedPalette/EmbeddedIndices).
func FromImage(img image.Image) *Raster {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	r := New(width, height)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			c := color.RGBAModel.Convert(img.At(bounds.Min.X+x, bounds.Min.Y+y)).(color.RGBA)
			r.Set(x, y, gs.Color{R: c.R, G: c.G, B: c.B, A: c.A})
		}
	}

	if p, ok := img.(*image.Paletted); ok {
		r.embeddedPalette = make([]gs.Color, len(p.Palette))
		for i, entry := range p.Palette {
			c := color.RGBAModel.Convert(entry).(color.RGBA)
			r.embeddedPalette[i] = gs.Color{R: c.R, G: c.G, B: c.B, A: c.A}
		}
		r.embeddedIndices = make([]byte, width*height)
		for y := 0; y < height; y++ {
			for x := 0; x < width; x++ {
				r.embeddedIndices[y*width+x] = p.ColorIndexAt(bounds.Min.X+x, bounds.Min.Y+y)
			}
		}
	}
	return r
}

// EmbeddedPalette returns the host raster's own CLUT, up to max entries,
// matching the raster-adapter's "read the embedded palette up to a
// maximum entry count" operation. ok is false when the source wasn't
// already palette-indexed, or its palette has more than max entries.
func (r *Raster) EmbeddedPalette(max int) ([]gs.Color, bool) {
	if len(r.embeddedPalette) == 0 || len(r.embeddedPalette) > max {
		return nil, false
	}
	return r.embeddedPalette, true
}

// EmbeddedIndices returns the per-pixel indices paired with
// EmbeddedPalette, under the same availability conditions.
func (r *Raster) EmbeddedIndices(max int) ([]byte, bool) {
	if len(r.embeddedPalette) == 0 || len(r.embeddedPalette) > max {
		return nil, false
	}
	return r.embeddedIndices, true
}

// ToImage renders the raster as a standard *image.RGBA.
func (r *Raster) ToImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, r.Width, r.Height))
	for y := 0; y < r.Height; y++ {
		for x := 0; x < r.Width; x++ {
			c := r.At(x, y)
			img.SetRGBA(x, y, color.RGBA{R: c.R, G: c.G, B: c.B, A: c.A})
		}
	}
	return img
}

// FromPaletted builds a Raster by resolving each index in idx (row-major,
// width*height entries) against palette. An index beyond the palette's
// bounds is an error, since it indicates corrupt or mismatched input.
func FromPaletted(width, height int, idx []byte, palette []gs.Color) (*Raster, error) {
	if len(idx) != width*height {
		return nil, fmt.Errorf("raster: index buffer has %d entries, want %d", len(idx), width*height)
	}
	r := New(width, height)
	for i, v := range idx {
		if int(v) >= len(palette) {
			return nil, fmt.Errorf("raster: index %d at pixel %d exceeds palette size %d", v, i, len(palette))
		}
		r.Pixels[i] = palette[v]
	}
	return r, nil
}

// ToPaletted builds an *image.Paletted of r's dimensions from indices
// (row-major, width*height entries), using palette as the exact color
// table so the original palette order is visible to standard tools.
// r's own pixels are not consulted.
func (r *Raster) ToPaletted(indices []byte, palette []gs.Color) (*image.Paletted, error) {
	if len(indices) != r.Width*r.Height {
		return nil, fmt.Errorf("raster: index buffer has %d entries, want %d", len(indices), r.Width*r.Height)
	}
	pal := make(color.Palette, len(palette))
	for i, c := range palette {
		pal[i] = color.RGBA{R: c.R, G: c.G, B: c.B, A: c.A}
	}

	img := image.NewPaletted(image.Rect(0, 0, r.Width, r.Height), pal)
	copy(img.Pix, indices)
	return img, nil
}
