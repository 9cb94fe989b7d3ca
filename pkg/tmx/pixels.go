package tmx

import (
	"io"

	"github.com/hansbonini/tmxtools/pkg/common"
	"github.com/hansbonini/tmxtools/pkg/gs"
	"github.com/pkg/errors"
)

// needsSwizzle reports whether format's on-wire index stream passes
// through the PSMT8 address permutation.
func needsSwizzle(format gs.PixelFormat) bool {
	return format == gs.PSMT8 || format == gs.PSMT8H
}

// readIndexLevel reads one level (base or mip) of indexed pixel data,
// reversing the PSMT8 swizzle where it applies.
func readIndexLevel(r io.Reader, format gs.PixelFormat, width, height int) ([]byte, error) {
	idx, err := gs.DecodeIndices(format, r, width, height)
	if err != nil {
		return nil, err
	}
	if needsSwizzle(format) {
		idx = gs.Unswizzle8(idx, width, height)
	}
	return idx, nil
}

// writeIndexLevel writes one level of indexed pixel data, applying the
// PSMT8 swizzle where it applies.
func writeIndexLevel(w io.Writer, format gs.PixelFormat, width, height int, idx []byte) error {
	if needsSwizzle(format) {
		idx = gs.Swizzle8(idx, width, height)
	}
	return gs.EncodeIndices(format, w, width, height, idx)
}

// readPixelBlock reads the base level and mip chain, dispatching to the
// indexed or direct routines per img.PixelFormat.
func readPixelBlock(r io.Reader, img *Image) error {
	width, height := int(img.Width), int(img.Height)

	if img.IsIndexed() {
		idx, err := readIndexLevel(r, img.PixelFormat, width, height)
		if err != nil {
			return errors.Wrap(err, "tmx: failed to read base indices")
		}
		img.Indices = idx
	} else {
		pixels, err := gs.DecodeDirect(img.PixelFormat, r, width, height)
		if err != nil {
			return errors.Wrap(err, "tmx: failed to read base pixels")
		}
		img.Pixels = pixels
	}

	for k := 1; k <= int(img.MipCount); k++ {
		mw, mh := mipDimensions(img.Width, img.Height, k)
		if mw == 0 || mh == 0 {
			common.LogWarn(common.WarnZeroSizedMip, k)
		}

		if img.IsIndexed() {
			idx, err := readIndexLevel(r, img.PixelFormat, mw, mh)
			if err != nil {
				return errors.Wrapf(err, "tmx: failed to read mip %d indices", k)
			}
			img.MipIndices = append(img.MipIndices, idx)
		} else {
			pixels, err := gs.DecodeDirect(img.PixelFormat, r, mw, mh)
			if err != nil {
				return errors.Wrapf(err, "tmx: failed to read mip %d pixels", k)
			}
			img.MipPixels = append(img.MipPixels, pixels)
		}
		common.LogDebug(common.DebugMipRead, k, mw, mh)
	}

	return nil
}

// writePixelBlock writes the base level and mip chain.
func writePixelBlock(w io.Writer, img *Image) error {
	width, height := int(img.Width), int(img.Height)

	if img.IsIndexed() {
		if err := writeIndexLevel(w, img.PixelFormat, width, height, img.Indices); err != nil {
			return errors.Wrap(err, "tmx: failed to write base indices")
		}
	} else {
		if err := gs.EncodeDirect(img.PixelFormat, w, width, height, img.Pixels); err != nil {
			return errors.Wrap(err, "tmx: failed to write base pixels")
		}
	}

	for k := 1; k <= int(img.MipCount); k++ {
		mw, mh := mipDimensions(img.Width, img.Height, k)
		if mw == 0 || mh == 0 {
			return errors.Wrapf(ErrZeroSizedMip, "mip %d", k)
		}

		if img.IsIndexed() {
			if err := writeIndexLevel(w, img.PixelFormat, mw, mh, img.MipIndices[k-1]); err != nil {
				return errors.Wrapf(err, "tmx: failed to write mip %d indices", k)
			}
		} else {
			if err := gs.EncodeDirect(img.PixelFormat, w, mw, mh, img.MipPixels[k-1]); err != nil {
				return errors.Wrapf(err, "tmx: failed to write mip %d pixels", k)
			}
		}
	}

	return nil
}
