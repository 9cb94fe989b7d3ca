package tmx

import (
	"io"

	"github.com/hansbonini/tmxtools/pkg/common"
	"github.com/pkg/errors"
)

// Serialize writes img to w, which must support Seek: the container's
// total_length_in_bytes field isn't known until the body has been
// written, so the header is reserved, the body is written, and the
// header is then patched in place before the writer is returned to the
// end of the written region.
func Serialize(w io.WriteSeeker, img *Image) error {
	if !img.PixelFormat.IsKnown() {
		return errors.Wrapf(ErrUnsupportedPixelFormat, "pixel_format 0x%02X", uint8(img.PixelFormat))
	}
	if err := validateForEncode(img); err != nil {
		return err
	}

	start, err := w.Seek(0, io.SeekCurrent)
	if err != nil {
		return errors.Wrap(err, "tmx: failed to query writer position")
	}

	if _, err := w.Seek(containerHdrSize, io.SeekCurrent); err != nil {
		return errors.Wrap(err, "tmx: failed to reserve container header")
	}

	bodyStart, err := w.Seek(0, io.SeekCurrent)
	if err != nil {
		return err
	}
	if padding := common.AlignUp(bodyStart-start, alignment) - (bodyStart - start); padding > 0 {
		if _, err := w.Write(make([]byte, padding)); err != nil {
			return errors.Wrap(err, "tmx: failed to write header realignment padding")
		}
	}

	paletteCount, err := common.SafeIntToUint8(len(img.Palettes))
	if err != nil {
		return errors.Wrap(err, "tmx: too many palettes for palette_count field")
	}
	ih := imageHeader{
		PaletteCount:  paletteCount,
		PaletteFormat: uint8(img.PaletteFormat),
		Width:         img.Width,
		Height:        img.Height,
		PixelFormat:   uint8(img.PixelFormat),
		MipCount:      img.MipCount,
		MipKL:         img.MipKL,
		Reserved:      img.Reserved,
		WrapModes:     img.WrapModes,
		UserTextureID: img.UserTextureID,
		UserClutID:    img.UserClutID,
		Comment:       img.Comment(),
	}
	if err := writeImageHeader(w, ih); err != nil {
		return errors.Wrap(err, "tmx: failed to write image header")
	}

	if img.IsIndexed() {
		if err := writePalettes(w, img.PaletteFormat, img.Palettes); err != nil {
			return err
		}
	}

	if err := writePixelBlock(w, img); err != nil {
		return err
	}

	end, err := w.Seek(0, io.SeekCurrent)
	if err != nil {
		return errors.Wrap(err, "tmx: failed to query end position")
	}

	if _, err := w.Seek(start, io.SeekStart); err != nil {
		return errors.Wrap(err, "tmx: failed to seek back to header")
	}
	totalLength, err := common.SafeInt64ToUint32(end - start)
	if err != nil {
		return errors.Wrap(err, "tmx: encoded image is too large for total_length_in_bytes")
	}
	hdr := containerHeader{
		Flag:        containerFlag,
		UserID:      0,
		TotalLength: int32(totalLength),
		Tag:         [4]byte{'T', 'M', 'X', '0'},
	}
	if err := writeContainerHeader(w, hdr); err != nil {
		return errors.Wrap(err, "tmx: failed to write container header")
	}

	if _, err := w.Seek(end, io.SeekStart); err != nil {
		return errors.Wrap(err, "tmx: failed to seek to end of written region")
	}

	common.LogInfo(common.InfoWroteTMX, end-start)
	return nil
}

// validateForEncode rejects mip configurations that would write a
// zero-sized mip level; such files may exist in the wild (parse accepts
// them) but the codec never produces new ones.
func validateForEncode(img *Image) error {
	for k := 1; k <= int(img.MipCount); k++ {
		mw, mh := mipDimensions(img.Width, img.Height, k)
		if mw == 0 || mh == 0 {
			return errors.Wrapf(ErrZeroSizedMip, "mip %d of %dx%d", k, img.Width, img.Height)
		}
	}
	return nil
}
