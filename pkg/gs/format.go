package gs

import (
	"fmt"
	"strings"
)

// PixelFormat identifies one of the thirteen PS2 GS pixel storage modes
// a TMX image can carry.
type PixelFormat uint8

// Pixel storage modes. Numeric values follow the GS PSM register
// encoding; header fields store them as raw bytes.
const (
	PSMCT32  PixelFormat = 0x00
	PSMCT24  PixelFormat = 0x01
	PSMCT16  PixelFormat = 0x02
	PSMCT16S PixelFormat = 0x0A
	PSMT8    PixelFormat = 0x13
	PSMT4    PixelFormat = 0x14
	PSMT8H   PixelFormat = 0x1B
	PSMT4HL  PixelFormat = 0x24
	PSMT4HH  PixelFormat = 0x2C
	PSMZ32   PixelFormat = 0x30
	PSMZ24   PixelFormat = 0x31
	PSMZ16   PixelFormat = 0x32
	PSMZ16S  PixelFormat = 0x3A
)

// String renders the canonical tag for a pixel format, falling back to
// a numeric form for anything outside the known set.
func (f PixelFormat) String() string {
	if s, ok := formatNames[f]; ok {
		return s
	}
	return fmt.Sprintf("PSM(0x%02X)", uint8(f))
}

var formatNames = map[PixelFormat]string{
	PSMCT32:  "PSMCT32",
	PSMCT24:  "PSMCT24",
	PSMCT16:  "PSMCT16",
	PSMCT16S: "PSMCT16S",
	PSMT8:    "PSMT8",
	PSMT4:    "PSMT4",
	PSMT8H:   "PSMT8H",
	PSMT4HL:  "PSMT4HL",
	PSMT4HH:  "PSMT4HH",
	PSMZ32:   "PSMZ32",
	PSMZ24:   "PSMZ24",
	PSMZ16:   "PSMZ16",
	PSMZ16S:  "PSMZ16S",
}

// IsKnown reports whether f is one of the thirteen supported formats.
func (f PixelFormat) IsKnown() bool {
	_, ok := formatNames[f]
	return ok
}

// IsIndexed reports whether f stores palette indices rather than direct
// color values on the wire.
func (f PixelFormat) IsIndexed() bool {
	switch f {
	case PSMT8, PSMT8H, PSMT4, PSMT4HL, PSMT4HH:
		return true
	default:
		return false
	}
}

// PaletteColorCount returns how many entries an indexed format's palette
// holds (16 for 4-bit formats, 256 for 8-bit formats, 0 for direct
// formats).
func (f PixelFormat) PaletteColorCount() int {
	switch f {
	case PSMT8, PSMT8H:
		return 256
	case PSMT4, PSMT4HL, PSMT4HH:
		return 16
	default:
		return 0
	}
}

// BitsPerElement returns the on-wire width in bits of one pixel (direct
// formats) or one index (indexed formats).
func (f PixelFormat) BitsPerElement() int {
	switch f {
	case PSMCT32, PSMZ32:
		return 32
	case PSMCT24, PSMZ24:
		return 24
	case PSMCT16, PSMCT16S, PSMZ16, PSMZ16S:
		return 16
	case PSMT8, PSMT8H:
		return 8
	case PSMT4, PSMT4HL, PSMT4HH:
		return 4
	default:
		return 0
	}
}

// ParsePixelFormat looks up a PixelFormat by its canonical tag (e.g.
// "PSMCT32"), case-insensitively.
func ParsePixelFormat(name string) (PixelFormat, error) {
	upper := strings.ToUpper(name)
	for f, s := range formatNames {
		if s == upper {
			return f, nil
		}
	}
	return 0, fmt.Errorf("gs: unrecognized pixel format %q", name)
}
