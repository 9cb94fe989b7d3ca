package tmx

import (
	"image/color"

	"github.com/hansbonini/tmxtools/pkg/common"
	"github.com/hansbonini/tmxtools/pkg/gs"
	"github.com/hansbonini/tmxtools/pkg/quant"
	"github.com/hansbonini/tmxtools/pkg/raster"
	"github.com/pkg/errors"
)

// FromRaster encodes a host raster into a new TMX image targeting
// format. Indexed formats are produced via Wu quantization into a
// single palette; direct formats copy the raster's colors unchanged.
func FromRaster(r *raster.Raster, format gs.PixelFormat, comment string) (*Image, error) {
	if !format.IsKnown() {
		return nil, errors.Wrapf(ErrUnsupportedPixelFormat, "pixel_format 0x%02X", uint8(format))
	}

	width, err := common.SafeIntToUint16(r.Width)
	if err != nil {
		return nil, errors.Wrap(err, "tmx: raster width exceeds on-wire field width")
	}
	height, err := common.SafeIntToUint16(r.Height)
	if err != nil {
		return nil, errors.Wrap(err, "tmx: raster height exceeds on-wire field width")
	}

	img := &Image{
		Width:       width,
		Height:      height,
		PixelFormat: format,
		MipKL:       mipKLUnset,
		WrapModes:   wrapModesUnset,
	}
	img.SetComment(comment)

	if format.IsIndexed() {
		colorCount := format.PaletteColorCount()

		if embedded, ok := r.EmbeddedPalette(colorCount); ok {
			indices, _ := r.EmbeddedIndices(colorCount)
			common.LogInfo(common.InfoUsedEmbeddedPalette, len(embedded), colorCount)

			palette := make(Palette, colorCount)
			copy(palette, embedded)
			img.Palettes = []Palette{palette}
			img.Indices = indices
			img.PaletteFormat = gs.PSMCT32
		} else {
			rgba := make([]color.RGBA, len(r.Pixels))
			for i, c := range r.Pixels {
				rgba[i] = color.RGBA{R: c.R, G: c.G, B: c.B, A: c.A}
			}

			result, err := quant.Quantize(rgba, colorCount)
			if err != nil {
				return nil, errors.Wrap(err, "tmx: failed to quantize raster")
			}
			common.LogInfo(common.InfoQuantizedColors, len(result.Palette), colorCount)

			palette := make(Palette, colorCount)
			for i, c := range result.Palette {
				palette[i] = gs.Color{R: c.R, G: c.G, B: c.B, A: c.A}
			}
			img.Palettes = []Palette{palette}
			img.Indices = result.Indices
			img.PaletteFormat = gs.PSMCT32
		}
	} else {
		img.Pixels = append([]gs.Color(nil), r.Pixels...)
	}

	return img, nil
}

// ToRaster decodes img into a host raster using the given palette
// (ignored for direct formats) and mip level (-1 selects the base
// level). Repeated calls with the same arguments return the same
// buffer identity; any other arguments invalidate that cache.
func ToRaster(img *Image, paletteIndex int, mipIndex int) (*raster.Raster, error) {
	if img.cache.valid && img.cache.paletteIndex == paletteIndex && img.cache.mipIndex == mipIndex {
		return img.cache.buffer, nil
	}
	if img.cache.valid {
		common.LogWarn(common.WarnCacheInvalidated, paletteIndex, mipIndex, img.cache.paletteIndex, img.cache.mipIndex)
	}

	width, height := int(img.Width), int(img.Height)
	var pixels []gs.Color
	var indices []byte

	if mipIndex < 0 {
		pixels, indices = img.Pixels, img.Indices
	} else {
		width, height = mipDimensions(img.Width, img.Height, mipIndex+1)
		if img.IsIndexed() {
			if mipIndex >= len(img.MipIndices) {
				return nil, errors.Errorf("tmx: mip index %d out of range (have %d)", mipIndex, len(img.MipIndices))
			}
			indices = img.MipIndices[mipIndex]
		} else {
			if mipIndex >= len(img.MipPixels) {
				return nil, errors.Errorf("tmx: mip index %d out of range (have %d)", mipIndex, len(img.MipPixels))
			}
			pixels = img.MipPixels[mipIndex]
		}
	}

	var out *raster.Raster
	if img.IsIndexed() {
		if paletteIndex < 0 || paletteIndex >= len(img.Palettes) {
			return nil, errors.Errorf("tmx: palette index %d out of range (have %d)", paletteIndex, len(img.Palettes))
		}
		r, err := raster.FromPaletted(width, height, indices, []gs.Color(img.Palettes[paletteIndex]))
		if err != nil {
			return nil, errors.Wrap(err, "tmx: failed to resolve indices against palette")
		}
		out = r
	} else {
		out = &raster.Raster{Width: width, Height: height, Pixels: pixels}
	}

	img.cache = rasterCache{valid: true, paletteIndex: paletteIndex, mipIndex: mipIndex, buffer: out}
	return out, nil
}
