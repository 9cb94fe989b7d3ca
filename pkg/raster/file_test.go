package raster

import (
	"path/filepath"
	"testing"

	"github.com/hansbonini/tmxtools/pkg/gs"
)

func TestSaveLoadPNGRoundTrip(t *testing.T) {
	r := New(2, 2)
	r.Set(0, 0, gs.Color{R: 1, G: 2, B: 3, A: 255})
	r.Set(1, 1, gs.Color{R: 254, G: 253, B: 252, A: 255})

	path := filepath.Join(t.TempDir(), "out.png")
	if err := r.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Width != r.Width || loaded.Height != r.Height {
		t.Fatalf("dimensions = %dx%d, want %dx%d", loaded.Width, loaded.Height, r.Width, r.Height)
	}
	if loaded.At(0, 0) != r.At(0, 0) {
		t.Errorf("(0,0) = %+v, want %+v", loaded.At(0, 0), r.At(0, 0))
	}
	if loaded.At(1, 1) != r.At(1, 1) {
		t.Errorf("(1,1) = %+v, want %+v", loaded.At(1, 1), r.At(1, 1))
	}
}

func TestSaveLoadBMPRoundTrip(t *testing.T) {
	r := New(2, 1)
	r.Set(0, 0, gs.Color{R: 10, G: 20, B: 30, A: 255})
	r.Set(1, 0, gs.Color{R: 40, G: 50, B: 60, A: 255})

	path := filepath.Join(t.TempDir(), "out.bmp")
	if err := r.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	// BMP has no alpha channel; compare only RGB.
	got, want := loaded.At(0, 0), r.At(0, 0)
	if got.R != want.R || got.G != want.G || got.B != want.B {
		t.Errorf("(0,0) = %+v, want rgb %+v", got, want)
	}
}

func TestLoadUnsupportedExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.tga")
	r := New(1, 1)
	if err := r.Save(path); err == nil {
		t.Fatal("expected error saving unsupported extension")
	}
	_ = r
	if _, err := Load(path); err == nil {
		t.Fatal("expected error loading nonexistent/unsupported file")
	}
}
