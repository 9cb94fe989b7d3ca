package gs

import "testing"

func palette256() []Color {
	p := make([]Color, 256)
	for i := range p {
		p[i] = Color{R: uint8(i), G: uint8(i), B: uint8(i), A: 0xFF}
	}
	return p
}

func TestTilePaletteSelfInverse(t *testing.T) {
	p := palette256()
	tiled := TilePalette(p)
	back := UntilePalette(tiled)
	for i := range p {
		if back[i] != p[i] {
			t.Fatalf("entry %d = %+v, want %+v", i, back[i], p[i])
		}
	}
}

func TestTilePaletteSwapsExpectedBlocks(t *testing.T) {
	p := palette256()
	tiled := TilePalette(p)

	if tiled[8].R != 16 {
		t.Errorf("tiled[8] = %d, want 16", tiled[8].R)
	}
	if tiled[16].R != 8 {
		t.Errorf("tiled[16] = %d, want 8", tiled[16].R)
	}
	// Entries outside [8:16) and [16:24) within a block stay put.
	if tiled[0].R != 0 {
		t.Errorf("tiled[0] = %d, want 0", tiled[0].R)
	}
	if tiled[31].R != 31 {
		t.Errorf("tiled[31] = %d, want 31", tiled[31].R)
	}
}

func TestTilePaletteLeaves16EntryPaletteUnchanged(t *testing.T) {
	p := make([]Color, 16)
	for i := range p {
		p[i] = Color{R: uint8(i)}
	}
	tiled := TilePalette(p)
	for i := range p {
		if tiled[i] != p[i] {
			t.Fatalf("16-entry palette should be untouched, entry %d = %+v, want %+v", i, tiled[i], p[i])
		}
	}
}
