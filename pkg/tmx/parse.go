package tmx

import (
	"io"

	"github.com/hansbonini/tmxtools/pkg/common"
	"github.com/hansbonini/tmxtools/pkg/gs"
	"github.com/pkg/errors"
)

// countingReader tracks how many bytes have been read since the start
// of the TMX region, so the post-header realignment can be computed
// without requiring a seekable reader.
type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}

// Parse reads a TMX image from r, which must be positioned at the start
// of the TMX region.
func Parse(r io.Reader) (*Image, error) {
	cr := &countingReader{r: r}

	hdr, err := readContainerHeader(cr)
	if err != nil {
		return nil, errors.Wrap(err, "tmx: failed to read container header")
	}
	if err := common.ValidateTag(hdr.Tag, containerTag); err != nil {
		return nil, errors.Wrap(ErrInvalidFormat, err.Error())
	}

	if padding := common.AlignUp(cr.n, alignment) - cr.n; padding > 0 {
		if err := common.SkipBytes(cr, int(padding)); err != nil {
			return nil, errors.Wrap(err, "tmx: failed to skip header realignment padding")
		}
	}

	ih, err := readImageHeader(cr)
	if err != nil {
		return nil, errors.Wrap(err, "tmx: failed to read image header")
	}

	img := &Image{
		Width:         ih.Width,
		Height:        ih.Height,
		PixelFormat:   gs.PixelFormat(ih.PixelFormat),
		PaletteFormat: gs.PixelFormat(ih.PaletteFormat),
		MipCount:      ih.MipCount,
		MipKL:         ih.MipKL,
		Reserved:      ih.Reserved,
		WrapModes:     ih.WrapModes,
		UserTextureID: ih.UserTextureID,
		UserClutID:    ih.UserClutID,
	}
	img.SetComment(ih.Comment)

	if !img.PixelFormat.IsKnown() {
		return nil, errors.Wrapf(ErrInvalidFormat, "unknown pixel_format 0x%02X", ih.PixelFormat)
	}
	if img.IsIndexed() != (ih.PaletteCount > 0) {
		return nil, errors.Wrapf(ErrInvalidFormat,
			"pixel_format %s indexed=%v but palette_count=%d", img.PixelFormat, img.IsIndexed(), ih.PaletteCount)
	}

	if img.IsIndexed() {
		palettes, err := readPalettes(cr, img.PaletteFormat, int(ih.PaletteCount), img.PaletteColorCount())
		if err != nil {
			return nil, err
		}
		img.Palettes = palettes
	}

	if err := readPixelBlock(cr, img); err != nil {
		return nil, err
	}

	common.LogInfo(common.InfoParsedTMX, img.Width, img.Height, img.PixelFormat, img.MipCount)
	return img, nil
}
