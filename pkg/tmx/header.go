package tmx

import (
	"io"

	"github.com/hansbonini/tmxtools/pkg/common"
)

const (
	containerFlag    = 0x0002
	containerTag     = "TMX0"
	containerHdrSize = 16
	alignment        = 16
)

// containerHeader is the fixed 16-byte outer envelope every TMX file
// starts with.
type containerHeader struct {
	Flag          int16
	UserID        int16
	TotalLength   int32
	Tag           [4]byte
}

func readContainerHeader(r io.Reader) (containerHeader, error) {
	var h containerHeader

	flag, err := common.ReadUint16LE(r)
	if err != nil {
		return h, err
	}
	h.Flag = int16(flag)

	userID, err := common.ReadUint16LE(r)
	if err != nil {
		return h, err
	}
	h.UserID = int16(userID)

	length, err := common.ReadUint32LE(r)
	if err != nil {
		return h, err
	}
	h.TotalLength = int32(length)

	tagBytes, err := common.ReadBytes(r, 4)
	if err != nil {
		return h, err
	}
	copy(h.Tag[:], tagBytes)

	common.LogDebug(common.DebugHeaderFields, uint16(h.Flag), h.UserID, h.TotalLength, string(h.Tag[:]))
	return h, nil
}

func writeContainerHeader(w io.Writer, h containerHeader) error {
	if err := common.WriteUint16LE(w, uint16(h.Flag)); err != nil {
		return err
	}
	if err := common.WriteUint16LE(w, uint16(h.UserID)); err != nil {
		return err
	}
	if err := common.WriteUint32LE(w, uint32(h.TotalLength)); err != nil {
		return err
	}
	_, err := w.Write(h.Tag[:])
	return err
}

// imageHeader is the fixed-layout block of fields that follows the
// container header and its 16-byte realignment padding.
type imageHeader struct {
	PaletteCount  uint8
	PaletteFormat uint8
	Width         uint16
	Height        uint16
	PixelFormat   uint8
	MipCount      uint8
	MipKL         uint16
	Reserved      uint8
	WrapModes     uint8
	UserTextureID int32
	UserClutID    int32
	Comment       string
}

// imageHeaderSize is the exact on-wire size of imageHeader (48 bytes).
const imageHeaderSize = 1 + 1 + 2 + 2 + 1 + 1 + 2 + 1 + 1 + 4 + 4 + commentFieldSize

func readImageHeader(r io.Reader) (imageHeader, error) {
	var ih imageHeader
	var err error

	if ih.PaletteCount, err = readUint8(r); err != nil {
		return ih, err
	}
	if ih.PaletteFormat, err = readUint8(r); err != nil {
		return ih, err
	}
	if ih.Width, err = common.ReadUint16LE(r); err != nil {
		return ih, err
	}
	if ih.Height, err = common.ReadUint16LE(r); err != nil {
		return ih, err
	}
	if ih.PixelFormat, err = readUint8(r); err != nil {
		return ih, err
	}
	if ih.MipCount, err = readUint8(r); err != nil {
		return ih, err
	}
	if ih.MipKL, err = common.ReadUint16LE(r); err != nil {
		return ih, err
	}
	if ih.Reserved, err = readUint8(r); err != nil {
		return ih, err
	}
	if ih.WrapModes, err = readUint8(r); err != nil {
		return ih, err
	}
	userTextureID, err := common.ReadUint32LE(r)
	if err != nil {
		return ih, err
	}
	ih.UserTextureID = int32(userTextureID)

	userClutID, err := common.ReadUint32LE(r)
	if err != nil {
		return ih, err
	}
	ih.UserClutID = int32(userClutID)

	comment, err := common.ReadFixedString(r, commentFieldSize)
	if err != nil {
		return ih, err
	}
	ih.Comment = comment

	return ih, nil
}

func writeImageHeader(w io.Writer, ih imageHeader) error {
	if err := writeUint8(w, ih.PaletteCount); err != nil {
		return err
	}
	if err := writeUint8(w, ih.PaletteFormat); err != nil {
		return err
	}
	if err := common.WriteUint16LE(w, ih.Width); err != nil {
		return err
	}
	if err := common.WriteUint16LE(w, ih.Height); err != nil {
		return err
	}
	if err := writeUint8(w, ih.PixelFormat); err != nil {
		return err
	}
	if err := writeUint8(w, ih.MipCount); err != nil {
		return err
	}
	if err := common.WriteUint16LE(w, ih.MipKL); err != nil {
		return err
	}
	if err := writeUint8(w, ih.Reserved); err != nil {
		return err
	}
	if err := writeUint8(w, ih.WrapModes); err != nil {
		return err
	}
	if err := common.WriteUint32LE(w, uint32(ih.UserTextureID)); err != nil {
		return err
	}
	if err := common.WriteUint32LE(w, uint32(ih.UserClutID)); err != nil {
		return err
	}
	return common.WriteFixedString(w, ih.Comment, commentFieldSize)
}

func readUint8(r io.Reader) (uint8, error) {
	b, err := common.ReadBytes(r, 1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func writeUint8(w io.Writer, v uint8) error {
	_, err := w.Write([]byte{v})
	return err
}

// paletteGridDimensions returns the width and height, in colors, that a
// palette of colorCount entries is written as: 16x16 for 256-color
// palettes, 4x4 for 16-color palettes.
func paletteGridDimensions(colorCount int) (int, int) {
	if colorCount == 256 {
		return 16, 16
	}
	return 4, 4
}
