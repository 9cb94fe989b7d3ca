package gs

import (
	"fmt"
	"io"
)

// DecodeDirect reads width*height direct-color pixels for format f from
// r, in row-major order. f must not be an indexed format.
func DecodeDirect(f PixelFormat, r io.Reader, width, height int) ([]Color, error) {
	n := width * height
	switch f {
	case PSMCT32, PSMZ32:
		return decodeCT32(r, n)
	case PSMCT24, PSMZ24:
		return decodeCT24(r, n)
	case PSMCT16, PSMCT16S, PSMZ16, PSMZ16S:
		return decodeCT16(r, n)
	default:
		return nil, fmt.Errorf("gs: %s is not a direct-color format", f)
	}
}

// EncodeDirect writes colors (exactly width*height entries) to w in the
// wire layout for format f.
func EncodeDirect(f PixelFormat, w io.Writer, width, height int, colors []Color) error {
	n := width * height
	if len(colors) != n {
		return fmt.Errorf("gs: expected %d colors, got %d", n, len(colors))
	}
	switch f {
	case PSMCT32, PSMZ32:
		return encodeCT32(w, colors)
	case PSMCT24, PSMZ24:
		return encodeCT24(w, colors)
	case PSMCT16, PSMCT16S, PSMZ16, PSMZ16S:
		return encodeCT16(w, colors)
	default:
		return fmt.Errorf("gs: %s is not a direct-color format", f)
	}
}

// --- PSMCT32 / PSMZ32: 4 bytes/pixel, R,G,B,A with GS-scaled alpha. ---

func decodeCT32(r io.Reader, n int) ([]Color, error) {
	buf := make([]byte, 4*n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, fmt.Errorf("gs: short read decoding PSMCT32: %w", err)
	}
	out := make([]Color, n)
	for i := 0; i < n; i++ {
		b := buf[i*4 : i*4+4]
		out[i] = Color{R: b[0], G: b[1], B: b[2], A: gsAlphaDecode(b[3])}
	}
	return out, nil
}

func encodeCT32(w io.Writer, colors []Color) error {
	buf := make([]byte, 4*len(colors))
	for i, c := range colors {
		buf[i*4+0] = c.R
		buf[i*4+1] = c.G
		buf[i*4+2] = c.B
		buf[i*4+3] = gsAlphaEncode(c.A)
	}
	_, err := w.Write(buf)
	return err
}

// --- PSMCT24 / PSMZ24: 3 bytes/pixel, R,G,B; alpha is always opaque. ---

func decodeCT24(r io.Reader, n int) ([]Color, error) {
	buf := make([]byte, 3*n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, fmt.Errorf("gs: short read decoding PSMCT24: %w", err)
	}
	out := make([]Color, n)
	for i := 0; i < n; i++ {
		b := buf[i*3 : i*3+3]
		out[i] = Color{R: b[0], G: b[1], B: b[2], A: 0xFF}
	}
	return out, nil
}

func encodeCT24(w io.Writer, colors []Color) error {
	buf := make([]byte, 3*len(colors))
	for i, c := range colors {
		buf[i*3+0] = c.R
		buf[i*3+1] = c.G
		buf[i*3+2] = c.B
	}
	_, err := w.Write(buf)
	return err
}

// --- PSMCT16 / PSMCT16S / PSMZ16 / PSMZ16S: 2 bytes/pixel, little-endian
// R5 G5 B5 A1 (LSB first). The "S" and "Z" distinctions are GS memory
// addressing properties, not pixel-value properties, so all four share
// this routine.

func decodeCT16(r io.Reader, n int) ([]Color, error) {
	buf := make([]byte, 2*n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, fmt.Errorf("gs: short read decoding PSMCT16: %w", err)
	}
	out := make([]Color, n)
	for i := 0; i < n; i++ {
		v := uint16(buf[i*2]) | uint16(buf[i*2+1])<<8
		out[i] = decodeCT16Value(v)
	}
	return out, nil
}

func decodeCT16Value(v uint16) Color {
	r := uint8(v&0x1F) << 3
	g := uint8((v>>5)&0x1F) << 3
	b := uint8((v>>10)&0x1F) << 3
	var a uint8
	if v&0x8000 != 0 {
		a = 0xFF
	}
	return Color{R: r, G: g, B: b, A: a}
}

func encodeCT16(w io.Writer, colors []Color) error {
	buf := make([]byte, 2*len(colors))
	for i, c := range colors {
		v := encodeCT16Value(c)
		buf[i*2] = byte(v)
		buf[i*2+1] = byte(v >> 8)
	}
	_, err := w.Write(buf)
	return err
}

func encodeCT16Value(c Color) uint16 {
	r5 := uint16(c.R>>3) & 0x1F
	g5 := uint16(c.G>>3) & 0x1F
	b5 := uint16(c.B>>3) & 0x1F
	v := r5 | g5<<5 | b5<<10
	if c.A >= 0x80 {
		v |= 0x8000
	}
	return v
}
