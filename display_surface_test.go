// display_surface_test.go - RGBA fill and blend behaviour

package main

import (
	"image/color"
	"testing"
)

func TestFillRectOpaqueOverwrites(t *testing.T) {
	s := NewFrameSurface(16, 16)

	s.SetFillStyle(color.RGBA{10, 20, 30, 255})
	s.FillRect(2, 3, 4, 5)

	if got := s.PixelAt(2, 3); got != (color.RGBA{10, 20, 30, 255}) {
		t.Errorf("inside pixel = %v", got)
	}
	if got := s.PixelAt(5, 7); got != (color.RGBA{10, 20, 30, 255}) {
		t.Errorf("far corner pixel = %v", got)
	}
	if got := s.PixelAt(6, 3); got != (color.RGBA{}) {
		t.Errorf("outside pixel = %v, want untouched", got)
	}
	if got := s.PixelAt(2, 8); got != (color.RGBA{}) {
		t.Errorf("outside pixel = %v, want untouched", got)
	}
}

func TestFillRectBlendsSrcOver(t *testing.T) {
	s := NewFrameSurface(8, 8)

	s.SetFillStyle(color.RGBA{0, 0, 0, 255})
	s.FillRect(0, 0, 8, 8)

	s.SetFillStyle(color.RGBA{255, 0, 0, 128})
	s.FillRect(0, 0, 8, 8)

	got := s.PixelAt(4, 4)
	if got.R != 128 {
		t.Errorf("blended R = %d, want 128", got.R)
	}
	if got.G != 0 || got.B != 0 {
		t.Errorf("blend leaked into other channels: %v", got)
	}
	if got.A != 255 {
		t.Errorf("alpha = %d, must stay opaque over an opaque base", got.A)
	}
}

func TestFillRectZeroAlphaIsNoOp(t *testing.T) {
	s := NewFrameSurface(8, 8)
	s.SetFillStyle(color.RGBA{255, 255, 255, 255})
	s.FillRect(0, 0, 8, 8)

	s.SetFillStyle(color.RGBA{0, 0, 0, 0})
	s.FillRect(0, 0, 8, 8)

	if got := s.PixelAt(1, 1); got != (color.RGBA{255, 255, 255, 255}) {
		t.Errorf("zero-alpha fill changed pixel to %v", got)
	}
}

func TestFillRectClips(t *testing.T) {
	s := NewFrameSurface(8, 8)
	s.SetFillStyle(color.RGBA{255, 255, 255, 255})

	s.FillRect(-4, -4, 100, 100) // must not panic or write out of range
	if got := s.PixelAt(0, 0); got != (color.RGBA{255, 255, 255, 255}) {
		t.Errorf("clipped fill missed in-bounds pixel: %v", got)
	}

	s.FillRect(20, 20, 4, 4) // fully off-surface
}

func TestFillRectRoundsEdges(t *testing.T) {
	s := NewFrameSurface(8, 8)
	s.SetFillStyle(color.RGBA{255, 255, 255, 255})

	s.FillRect(0.4, 0, 2, 1)

	if got := s.PixelAt(0, 0); got.R != 255 {
		t.Error("pixel 0 should be covered after rounding")
	}
	if got := s.PixelAt(1, 0); got.R != 255 {
		t.Error("pixel 1 should be covered")
	}
	if got := s.PixelAt(2, 0); got.R != 0 {
		t.Error("pixel 2 should stay dark")
	}
}

func TestPixelAtOutOfBounds(t *testing.T) {
	s := NewFrameSurface(4, 4)
	if got := s.PixelAt(-1, 0); got != (color.RGBA{}) {
		t.Errorf("got %v", got)
	}
	if got := s.PixelAt(4, 4); got != (color.RGBA{}) {
		t.Errorf("got %v", got)
	}
}
