package tmx

import (
	"bytes"
	"image"
	"image/color"
	"strings"
	"testing"

	"github.com/hansbonini/tmxtools/pkg/gs"
	"github.com/hansbonini/tmxtools/pkg/raster"
)

// seekBuffer is an in-memory io.WriteSeeker backed by a plain byte
// slice, enough for Serialize's reserve/patch/return dance.
type seekBuffer struct {
	buf []byte
	pos int64
}

func (s *seekBuffer) Write(p []byte) (int, error) {
	end := s.pos + int64(len(p))
	if end > int64(len(s.buf)) {
		grown := make([]byte, end)
		copy(grown, s.buf)
		s.buf = grown
	}
	copy(s.buf[s.pos:end], p)
	s.pos = end
	return len(p), nil
}

func (s *seekBuffer) Seek(offset int64, whence int) (int64, error) {
	switch whence {
	case 0:
		s.pos = offset
	case 1:
		s.pos += offset
	case 2:
		s.pos = int64(len(s.buf)) + offset
	}
	return s.pos, nil
}

func scenario2x2PSMCT32() *Image {
	img := &Image{
		Width:       2,
		Height:      2,
		PixelFormat: gs.PSMCT32,
		MipKL:       mipKLUnset,
		WrapModes:   wrapModesUnset,
		Pixels: []gs.Color{
			{R: 255, G: 0, B: 0, A: 128},
			{R: 0, G: 255, B: 0, A: 128},
			{R: 0, G: 0, B: 255, A: 128},
			{R: 255, G: 255, B: 255, A: 255},
		},
	}
	return img
}

func TestScenario2x2PSMCT32ExactBytes(t *testing.T) {
	img := scenario2x2PSMCT32()

	var sb seekBuffer
	if err := Serialize(&sb, img); err != nil {
		t.Fatalf("Serialize: %v", err)
	}

	// 16-byte container header + 48-byte image header + 4 pixels * 4 bytes.
	if len(sb.buf) != 80 {
		t.Fatalf("file length = %d, want 80", len(sb.buf))
	}

	body := sb.buf[containerHdrSize+imageHeaderSize:]
	// A=128 encodes to round(128*128/255) = 0x40, not 0x80; only A=255
	// (the last pixel) lands exactly on the GS "opaque" value 0x80.
	wantFirst := []byte{0xFF, 0x00, 0x00, 0x40}
	wantLast := []byte{0xFF, 0xFF, 0xFF, 0x80}
	if !bytes.Equal(body[:4], wantFirst) {
		t.Errorf("first body bytes = % X, want % X", body[:4], wantFirst)
	}
	if !bytes.Equal(body[len(body)-4:], wantLast) {
		t.Errorf("last body bytes = % X, want % X", body[len(body)-4:], wantLast)
	}
}

func TestParseSerializeRoundTrip2x2PSMCT32(t *testing.T) {
	img := scenario2x2PSMCT32()

	var sb seekBuffer
	if err := Serialize(&sb, img); err != nil {
		t.Fatalf("Serialize: %v", err)
	}

	parsed, err := Parse(bytes.NewReader(sb.buf))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if parsed.Width != img.Width || parsed.Height != img.Height {
		t.Fatalf("dimensions = %dx%d, want %dx%d", parsed.Width, parsed.Height, img.Width, img.Height)
	}
	if parsed.PixelFormat != img.PixelFormat {
		t.Fatalf("pixel format = %s, want %s", parsed.PixelFormat, img.PixelFormat)
	}
	for i := range img.Pixels {
		if parsed.Pixels[i] != img.Pixels[i] {
			t.Errorf("pixel %d = %+v, want %+v", i, parsed.Pixels[i], img.Pixels[i])
		}
	}
}

func TestScenario4x4PSMT4SixteenIndices(t *testing.T) {
	palette := make(Palette, 16)
	for i := range palette {
		palette[i] = gs.Color{R: uint8(i * 16), G: uint8(i * 16), B: uint8(i * 16), A: 0xFF}
	}
	indices := make([]byte, 16)
	for i := range indices {
		indices[i] = byte(i)
	}

	img := &Image{
		Width:         4,
		Height:        4,
		PixelFormat:   gs.PSMT4,
		PaletteFormat: gs.PSMCT32,
		Palettes:      []Palette{palette},
		Indices:       indices,
		MipKL:         mipKLUnset,
		WrapModes:     wrapModesUnset,
	}

	var sb seekBuffer
	if err := Serialize(&sb, img); err != nil {
		t.Fatalf("Serialize: %v", err)
	}

	// After the container and image headers: palette block (16 entries *
	// 4 bytes PSMCT32) + 8 index bytes.
	paletteBytes := 16 * 4
	indexBytes := sb.buf[containerHdrSize+imageHeaderSize+paletteBytes:]
	want := []byte{0x10, 0x32, 0x54, 0x76, 0x98, 0xBA, 0xDC, 0xFE}
	if !bytes.Equal(indexBytes, want) {
		t.Fatalf("index bytes = % X, want % X", indexBytes, want)
	}
}

func TestScenario1x1PSMCT16RoundTrip(t *testing.T) {
	img := &Image{
		Width:       1,
		Height:      1,
		PixelFormat: gs.PSMCT16,
		MipKL:       mipKLUnset,
		WrapModes:   wrapModesUnset,
		Pixels:      []gs.Color{{R: 248, G: 0, B: 0, A: 255}},
	}

	var sb seekBuffer
	if err := Serialize(&sb, img); err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	parsed, err := Parse(bytes.NewReader(sb.buf))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	want := gs.Color{R: 248, G: 0, B: 0, A: 255}
	if parsed.Pixels[0] != want {
		t.Errorf("round trip = %+v, want %+v", parsed.Pixels[0], want)
	}
}

func TestScenario256EntryPaletteTileRoundTrip(t *testing.T) {
	palette := make(Palette, 256)
	for i := range palette {
		palette[i] = gs.Color{R: uint8(i), G: uint8(i), B: uint8(i), A: 128}
	}
	indices := make([]byte, 16)

	img := &Image{
		Width:         4,
		Height:        4,
		PixelFormat:   gs.PSMT8,
		PaletteFormat: gs.PSMCT32,
		Palettes:      []Palette{palette},
		Indices:       indices,
		MipKL:         mipKLUnset,
		WrapModes:     wrapModesUnset,
	}

	var sb seekBuffer
	if err := Serialize(&sb, img); err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	parsed, err := Parse(bytes.NewReader(sb.buf))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	for i := range palette {
		if parsed.Palettes[0][i] != palette[i] {
			t.Fatalf("palette entry %d = %+v, want %+v", i, parsed.Palettes[0][i], palette[i])
		}
	}
}

func TestScenarioCommentTruncation(t *testing.T) {
	img := &Image{
		Width:       1,
		Height:      1,
		PixelFormat: gs.PSMCT32,
		MipKL:       mipKLUnset,
		WrapModes:   wrapModesUnset,
		Pixels:      []gs.Color{{}},
	}
	img.SetComment(strings.Repeat("A", 40))

	var sb seekBuffer
	if err := Serialize(&sb, img); err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	parsed, err := Parse(bytes.NewReader(sb.buf))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	want := strings.Repeat("A", 27)
	if parsed.Comment() != want {
		t.Errorf("comment = %q, want %q", parsed.Comment(), want)
	}
}

func TestScenarioPSMZ32ReadsAsPSMCT32(t *testing.T) {
	img := &Image{
		Width:       1,
		Height:      1,
		PixelFormat: gs.PSMCT32,
		MipKL:       mipKLUnset,
		WrapModes:   wrapModesUnset,
		Pixels:      []gs.Color{{R: 1, G: 2, B: 3, A: 128}},
	}

	var sb seekBuffer
	if err := Serialize(&sb, img); err != nil {
		t.Fatalf("Serialize: %v", err)
	}

	// Flip the on-wire pixel_format byte from PSMCT32 to PSMZ32 and
	// re-parse: the pixel values must decode identically.
	patched := append([]byte(nil), sb.buf...)
	pixelFormatOffset := containerHdrSize + 1 + 1 + 2 + 2 // palette_count, palette_format, width, height
	patched[pixelFormatOffset] = byte(gs.PSMZ32)

	parsed, err := Parse(bytes.NewReader(patched))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if parsed.Pixels[0] != img.Pixels[0] {
		t.Errorf("PSMZ32 decode = %+v, want %+v", parsed.Pixels[0], img.Pixels[0])
	}
}

func TestMipKLSentinelAccessors(t *testing.T) {
	img := &Image{MipKL: mipKLUnset}
	if got := img.MipL(); got != 3 {
		t.Errorf("MipL() = %d, want 3", got)
	}
	if got := img.MipK(); got != -0.0625 {
		t.Errorf("MipK() = %v, want -0.0625", got)
	}
}

func TestWrapModeSentinel(t *testing.T) {
	img := &Image{WrapModes: wrapModesUnset}
	if img.WrapModeX() != WrapRepeat || img.WrapModeY() != WrapRepeat {
		t.Fatalf("sentinel wrap modes should report Repeat/Repeat")
	}
	img.SetWrapModeX(WrapClamp)
	if img.WrapModeX() != WrapRepeat {
		t.Errorf("SetWrapModeX should be ignored while sentinel, got %v", img.WrapModeX())
	}
}

func TestWrapModeExplicit(t *testing.T) {
	img := &Image{WrapModes: 0x00}
	img.SetWrapModeX(WrapClamp)
	img.SetWrapModeY(WrapClamp)
	if img.WrapModeX() != WrapClamp {
		t.Errorf("WrapModeX() = %v, want Clamp", img.WrapModeX())
	}
	if img.WrapModeY() != WrapClamp {
		t.Errorf("WrapModeY() = %v, want Clamp", img.WrapModeY())
	}
}

func TestParseRejectsWrongTag(t *testing.T) {
	var sb seekBuffer
	img := scenario2x2PSMCT32()
	if err := Serialize(&sb, img); err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	corrupt := append([]byte(nil), sb.buf...)
	corrupt[8] = 'X'

	if _, err := Parse(bytes.NewReader(corrupt)); err == nil {
		t.Fatal("expected parse error for corrupted tag")
	}
}

func TestSerializeRejectsZeroSizedMip(t *testing.T) {
	img := &Image{
		Width:       2,
		Height:      2,
		PixelFormat: gs.PSMCT32,
		MipCount:    1, // mip 1 dims = 2/4, 2/4 = 0, 0
		MipKL:       mipKLUnset,
		WrapModes:   wrapModesUnset,
		Pixels:      []gs.Color{{}, {}, {}, {}},
	}

	var sb seekBuffer
	if err := Serialize(&sb, img); err == nil {
		t.Fatal("expected ErrZeroSizedMip")
	}
}

func TestFromRasterToRasterDirectFormat(t *testing.T) {
	r := &raster.Raster{Width: 2, Height: 1, Pixels: []gs.Color{
		{R: 1, G: 2, B: 3, A: 255},
		{R: 4, G: 5, B: 6, A: 255},
	}}

	img, err := FromRaster(r, gs.PSMCT32, "hello")
	if err != nil {
		t.Fatalf("FromRaster: %v", err)
	}
	if img.Comment() != "hello" {
		t.Errorf("comment = %q, want hello", img.Comment())
	}

	back, err := ToRaster(img, 0, -1)
	if err != nil {
		t.Fatalf("ToRaster: %v", err)
	}
	for i := range r.Pixels {
		if back.Pixels[i] != r.Pixels[i] {
			t.Errorf("pixel %d = %+v, want %+v", i, back.Pixels[i], r.Pixels[i])
		}
	}
}

func TestFromRasterIndexedQuantizes(t *testing.T) {
	r := &raster.Raster{Width: 2, Height: 2, Pixels: []gs.Color{
		{R: 255, G: 0, B: 0, A: 255},
		{R: 0, G: 255, B: 0, A: 255},
		{R: 0, G: 0, B: 255, A: 255},
		{R: 255, G: 255, B: 0, A: 255},
	}}

	img, err := FromRaster(r, gs.PSMT4, "")
	if err != nil {
		t.Fatalf("FromRaster: %v", err)
	}
	if len(img.Palettes) != 1 || len(img.Palettes[0]) != 16 {
		t.Fatalf("expected a single 16-entry palette, got %d palettes of %d", len(img.Palettes), len(img.Palettes[0]))
	}
	for _, idx := range img.Indices {
		if int(idx) >= 16 {
			t.Fatalf("index %d exceeds palette_color_count 16", idx)
		}
	}
}

func TestFromRasterReusesEmbeddedPalette(t *testing.T) {
	pal := color.Palette{
		color.RGBA{R: 255, G: 0, B: 0, A: 255},
		color.RGBA{R: 0, G: 255, B: 0, A: 255},
		color.RGBA{R: 0, G: 0, B: 255, A: 255},
	}
	src := image.NewPaletted(image.Rect(0, 0, 2, 2), pal)
	src.SetColorIndex(0, 0, 2)
	src.SetColorIndex(1, 0, 1)
	src.SetColorIndex(0, 1, 0)
	src.SetColorIndex(1, 1, 2)

	r := raster.FromImage(src)

	img, err := FromRaster(r, gs.PSMT4, "")
	if err != nil {
		t.Fatalf("FromRaster: %v", err)
	}
	if len(img.Palettes) != 1 || len(img.Palettes[0]) != 16 {
		t.Fatalf("expected a single 16-entry palette, got %d palettes of %d", len(img.Palettes), len(img.Palettes[0]))
	}
	for i, c := range pal {
		want := color.RGBAModel.Convert(c).(color.RGBA)
		got := img.Palettes[0][i]
		if got != (gs.Color{R: want.R, G: want.G, B: want.B, A: want.A}) {
			t.Errorf("palette entry %d = %+v, want %+v (quantization should have been skipped)", i, got, want)
		}
	}

	wantIndices := []byte{2, 1, 0, 2}
	for i := range wantIndices {
		if img.Indices[i] != wantIndices[i] {
			t.Errorf("index %d = %d, want %d (source's own indices, not re-quantized)", i, img.Indices[i], wantIndices[i])
		}
	}
}

// stableColor picks channel values that survive every lossy wire
// transform: multiples of 8 for the 5-bit channels and an alpha of 0xFF
// so the 1-bit and GS-scaled alpha conventions all land back exactly.
func stableColor(i int) gs.Color {
	return gs.Color{R: uint8(i*8) % 248, G: uint8(i*16) % 248, B: uint8(i*24) % 248, A: 0xFF}
}

func buildTestImage(f gs.PixelFormat, width, height uint16) *Image {
	img := &Image{
		Width:       width,
		Height:      height,
		PixelFormat: f,
		MipKL:       mipKLUnset,
		WrapModes:   wrapModesUnset,
	}
	n := int(width) * int(height)
	if f.IsIndexed() {
		colorCount := f.PaletteColorCount()
		palette := make(Palette, colorCount)
		for i := range palette {
			palette[i] = stableColor(i)
		}
		indices := make([]byte, n)
		for i := range indices {
			indices[i] = byte(i % colorCount)
		}
		img.PaletteFormat = gs.PSMCT32
		img.Palettes = []Palette{palette}
		img.Indices = indices
	} else {
		pixels := make([]gs.Color, n)
		for i := range pixels {
			pixels[i] = stableColor(i)
		}
		img.Pixels = pixels
	}
	return img
}

// Every pixel format must round-trip structurally at 1x1, the smallest
// boundary dimensions, and again at a size that exercises more than one
// wire element.
func TestRoundTripEveryPixelFormat(t *testing.T) {
	formats := []gs.PixelFormat{
		gs.PSMCT32, gs.PSMCT24, gs.PSMCT16, gs.PSMCT16S,
		gs.PSMZ32, gs.PSMZ24, gs.PSMZ16, gs.PSMZ16S,
		gs.PSMT8, gs.PSMT8H, gs.PSMT4, gs.PSMT4HL, gs.PSMT4HH,
	}
	dims := []struct{ w, h uint16 }{{1, 1}, {4, 2}}

	for _, f := range formats {
		for _, d := range dims {
			t.Run(f.String(), func(t *testing.T) {
				img := buildTestImage(f, d.w, d.h)

				var sb seekBuffer
				if err := Serialize(&sb, img); err != nil {
					t.Fatalf("Serialize: %v", err)
				}
				parsed, err := Parse(bytes.NewReader(sb.buf))
				if err != nil {
					t.Fatalf("Parse: %v", err)
				}

				if parsed.PixelFormat != f || parsed.Width != d.w || parsed.Height != d.h {
					t.Fatalf("header = %s %dx%d, want %s %dx%d",
						parsed.PixelFormat, parsed.Width, parsed.Height, f, d.w, d.h)
				}
				if parsed.MipKL != mipKLUnset {
					t.Errorf("mip_kl = 0x%04X, want sentinel 0x%04X", parsed.MipKL, uint16(mipKLUnset))
				}
				if parsed.WrapModes != wrapModesUnset {
					t.Errorf("wrap_modes = 0x%02X, want sentinel 0x%02X", parsed.WrapModes, uint8(wrapModesUnset))
				}

				if f.IsIndexed() {
					if !bytes.Equal(parsed.Indices, img.Indices) {
						t.Errorf("indices = %v, want %v", parsed.Indices, img.Indices)
					}
					for i := range img.Palettes[0] {
						if parsed.Palettes[0][i] != img.Palettes[0][i] {
							t.Fatalf("palette entry %d = %+v, want %+v", i, parsed.Palettes[0][i], img.Palettes[0][i])
						}
					}
				} else {
					for i := range img.Pixels {
						if parsed.Pixels[i] != img.Pixels[i] {
							t.Fatalf("pixel %d = %+v, want %+v", i, parsed.Pixels[i], img.Pixels[i])
						}
					}
				}

				// Serializing the parsed image must reproduce the bytes.
				var sb2 seekBuffer
				if err := Serialize(&sb2, parsed); err != nil {
					t.Fatalf("Serialize (2nd pass): %v", err)
				}
				if !bytes.Equal(sb2.buf, sb.buf) {
					t.Error("re-serialized bytes differ from the original")
				}
			})
		}
	}
}

// An 8x8 image supports at most two mips (8/(4*3) rounds to zero); this
// is the maximum-mip-count boundary for these dimensions.
func TestRoundTripDirectMipChain(t *testing.T) {
	img := buildTestImage(gs.PSMCT32, 8, 8)
	img.MipCount = 2
	img.MipPixels = [][]gs.Color{
		make([]gs.Color, 2*2),
		make([]gs.Color, 1*1),
	}
	for k := range img.MipPixels {
		for i := range img.MipPixels[k] {
			img.MipPixels[k][i] = stableColor(i + k)
		}
	}

	var sb seekBuffer
	if err := Serialize(&sb, img); err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	parsed, err := Parse(bytes.NewReader(sb.buf))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if parsed.MipCount != 2 || len(parsed.MipPixels) != 2 {
		t.Fatalf("mip chain = count %d, %d levels, want 2, 2", parsed.MipCount, len(parsed.MipPixels))
	}
	for k := range img.MipPixels {
		for i := range img.MipPixels[k] {
			if parsed.MipPixels[k][i] != img.MipPixels[k][i] {
				t.Fatalf("mip %d pixel %d = %+v, want %+v", k+1, i, parsed.MipPixels[k][i], img.MipPixels[k][i])
			}
		}
	}
}

// A 16x16 PSMT8 base level contains complete 16x4 swizzle tiles; its
// mips (4x4 and 2x2) do not. Both must survive the round trip.
func TestRoundTripIndexedMipChainWithSwizzle(t *testing.T) {
	img := buildTestImage(gs.PSMT8, 16, 16)
	img.MipCount = 2
	img.MipIndices = [][]byte{
		make([]byte, 4*4),
		make([]byte, 2*2),
	}
	for k := range img.MipIndices {
		for i := range img.MipIndices[k] {
			img.MipIndices[k][i] = byte((i + k) % 256)
		}
	}

	var sb seekBuffer
	if err := Serialize(&sb, img); err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	parsed, err := Parse(bytes.NewReader(sb.buf))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if !bytes.Equal(parsed.Indices, img.Indices) {
		t.Error("base indices did not survive the swizzled round trip")
	}
	for k := range img.MipIndices {
		if !bytes.Equal(parsed.MipIndices[k], img.MipIndices[k]) {
			t.Errorf("mip %d indices = %v, want %v", k+1, parsed.MipIndices[k], img.MipIndices[k])
		}
	}
}

func TestToRasterCacheIdentity(t *testing.T) {
	img := scenario2x2PSMCT32()

	a, err := ToRaster(img, 0, -1)
	if err != nil {
		t.Fatalf("ToRaster: %v", err)
	}
	b, err := ToRaster(img, 0, -1)
	if err != nil {
		t.Fatalf("ToRaster: %v", err)
	}
	if a != b {
		t.Error("expected the same buffer identity for repeated identical calls")
	}
}
