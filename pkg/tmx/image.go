// Package tmx implements the PlayStation 2 era TMX texture container:
// header and mip-chain framing, palette dispatch, and the accessors a
// caller needs to inspect or edit a parsed image.
package tmx

import (
	"github.com/hansbonini/tmxtools/pkg/common"
	"github.com/hansbonini/tmxtools/pkg/gs"
	"github.com/hansbonini/tmxtools/pkg/raster"
)

// WrapMode is the GS texture wrap behavior along one axis.
type WrapMode uint8

const (
	WrapRepeat WrapMode = 0
	WrapClamp  WrapMode = 1
)

// wrapModesUnset is the sentinel byte meaning "no wrap mode recorded".
const wrapModesUnset = 0xFF

// mipKLUnset is the sentinel mip_kl value. It happens to decode, under
// the regular K/L formula below, to the exact K=-0.0625, L=3 pair the
// format uses as its default, so the accessors need no special case.
const mipKLUnset = 0xFFFF

// commentFieldSize is the on-wire width of user_comment, including its
// terminating NUL.
const commentFieldSize = 28

// Palette is a CLUT: a fixed-size table of colors indexed by a pixel
// format's index value.
type Palette []gs.Color

// Image is a parsed or freshly-encoded TMX texture: its header fields,
// zero or more palettes, and the base level plus mip chain of either
// direct pixels or palette indices.
type Image struct {
	Width, Height uint16
	PixelFormat   gs.PixelFormat

	// PaletteFormat is the direct pixel format palette entries are
	// stored in. It is meaningless (and left zero) when PixelFormat is
	// not indexed.
	PaletteFormat gs.PixelFormat
	Palettes      []Palette

	MipCount  uint8
	MipKL     uint16
	Reserved  uint8
	WrapModes uint8

	UserTextureID int32
	UserClutID    int32
	comment       string

	// Pixels/MipPixels hold direct color data; Indices/MipIndices hold
	// palette indices. Exactly one pair is populated, per PixelFormat.
	Pixels    []gs.Color
	MipPixels [][]gs.Color

	Indices    []byte
	MipIndices [][]byte

	cache rasterCache
}

type rasterCache struct {
	valid        bool
	paletteIndex int
	mipIndex     int
	buffer       *raster.Raster
}

// IsIndexed reports whether the image stores palette indices rather
// than direct colors.
func (img *Image) IsIndexed() bool {
	return img.PixelFormat.IsIndexed()
}

// PaletteColorCount returns the number of entries each of the image's
// palettes holds (0 for direct-color images).
func (img *Image) PaletteColorCount() int {
	return img.PixelFormat.PaletteColorCount()
}

// Comment returns the decoded user_comment string.
func (img *Image) Comment() string {
	return img.comment
}

// SetComment stores s as the user_comment, silently truncating to 27
// bytes (leaving room for the terminating NUL) if it doesn't fit.
// Truncation is an explicit non-error per the format's error policy.
func (img *Image) SetComment(s string) {
	if len(s) > commentFieldSize-1 {
		common.LogWarn(common.WarnCommentTruncated, len(s), commentFieldSize-1)
		s = s[:commentFieldSize-1]
	}
	img.comment = s
	img.invalidateCache()
}

// MipK returns the mip K fractional value: the signed 12-bit low field
// of mip_kl, divided by 16.
func (img *Image) MipK() float64 {
	raw := int32(img.MipKL & 0x0FFF)
	if raw >= 0x800 {
		raw -= 0x1000
	}
	return float64(raw) / 16.0
}

// MipL returns the mip L field: the 2-bit value in bits 12-13 of
// mip_kl.
func (img *Image) MipL() int {
	return int((img.MipKL >> 12) & 0x3)
}

// WrapModeX returns the horizontal wrap mode, or WrapRepeat if
// wrap_modes is the sentinel "unset" byte.
func (img *Image) WrapModeX() WrapMode {
	if img.WrapModes == wrapModesUnset {
		return WrapRepeat
	}
	return WrapMode((img.WrapModes >> 2) & 0x3)
}

// WrapModeY returns the vertical wrap mode, or WrapRepeat if
// wrap_modes is the sentinel "unset" byte.
func (img *Image) WrapModeY() WrapMode {
	if img.WrapModes == wrapModesUnset {
		return WrapRepeat
	}
	return WrapMode(img.WrapModes & 0x3)
}

// SetWrapModeX sets the horizontal wrap mode. The call is silently
// ignored when wrap_modes is the sentinel "unset" byte, per format
// policy: an unset image never gains an explicit wrap mode through the
// accessor alone.
func (img *Image) SetWrapModeX(w WrapMode) {
	if img.WrapModes == wrapModesUnset {
		common.LogWarn(common.WarnSentinelWrapModes)
		return
	}
	img.WrapModes = (img.WrapModes &^ 0x0C) | (uint8(w)<<2)&0x0C
	img.invalidateCache()
}

// SetWrapModeY sets the vertical wrap mode, with the same sentinel
// behavior as SetWrapModeX.
func (img *Image) SetWrapModeY(w WrapMode) {
	if img.WrapModes == wrapModesUnset {
		common.LogWarn(common.WarnSentinelWrapModes)
		return
	}
	img.WrapModes = (img.WrapModes &^ 0x03) | uint8(w)&0x03
	img.invalidateCache()
}

// mipDimensions returns the width and height of mip level k (1-based).
func mipDimensions(width, height uint16, k int) (int, int) {
	return int(width) / (4 * k), int(height) / (4 * k)
}

func (img *Image) invalidateCache() {
	img.cache = rasterCache{}
}
