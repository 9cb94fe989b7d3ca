package tmx

import (
	"io"

	"github.com/hansbonini/tmxtools/pkg/common"
	"github.com/hansbonini/tmxtools/pkg/gs"
	"github.com/pkg/errors"
)

// readPalettes reads count palettes of colorCount entries each, in the
// given direct pixel format, applying CLUT untiling to 256-entry
// palettes.
func readPalettes(r io.Reader, format gs.PixelFormat, count, colorCount int) ([]Palette, error) {
	palettes := make([]Palette, count)
	gw, gh := paletteGridDimensions(colorCount)

	for i := 0; i < count; i++ {
		colors, err := gs.DecodeDirect(format, r, gw, gh)
		if err != nil {
			return nil, errors.Wrapf(err, "tmx: failed to read palette %d/%d", i+1, count)
		}
		if colorCount == 256 {
			colors = gs.UntilePalette(colors)
		}
		palettes[i] = Palette(colors)
		common.LogDebug(common.DebugPaletteRead, i+1, count, colorCount)
	}
	return palettes, nil
}

// writePalettes writes palettes in the given direct pixel format,
// tiling 256-entry palettes before encoding.
func writePalettes(w io.Writer, format gs.PixelFormat, palettes []Palette) error {
	for i, p := range palettes {
		colors := []gs.Color(p)
		if len(colors) == 256 {
			colors = gs.TilePalette(colors)
		}
		gw, gh := paletteGridDimensions(len(p))
		if err := gs.EncodeDirect(format, w, gw, gh, colors); err != nil {
			return errors.Wrapf(err, "tmx: failed to write palette %d/%d", i+1, len(palettes))
		}
	}
	return nil
}
