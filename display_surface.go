// display_surface.go - RGBA frame surface the pixel core draws into

/*
 ██▓███   ██░ ██  ▒█████    ██████  ██▓███   ██░ ██  ▒█████   ██▀███
▓██░  ██▒▓██░ ██▒▒██▒  ██▒▒██    ▒ ▓██░  ██▒▓██░ ██▒▒██▒  ██▒▓██ ▒ ██▒
▓██░ ██▓▒▒██▀▀██░▒██░  ██▒░ ▓██▄   ▓██░ ██▓▒▒██▀▀██░▒██░  ██▒▓██ ░▄█ ▒
▒██▄█▓▒ ▒░▓█ ░██ ▒██   ██░  ▒   ██▒▒██▄█▓▒ ▒░▓█ ░██ ▒██   ██░▒██▀▀█▄
▒██▒ ░  ░░▓█▒░██▓░ ████▓▒░▒██████▒▒▒██▒ ░  ░░▓█▒░██▓░ ████▓▒░░██▓ ▒██▒
▒▓▒░ ░  ░ ▒ ░░▒░▒░ ▒░▒░▒░ ▒ ▒▓▒ ▒ ░▒▓▒░ ░  ░ ▒ ░░▒░▒░ ▒░▒░▒░ ░ ▒▓ ░▒▓░
░▒ ░      ▒ ░▒░ ░  ░ ▒ ▒░ ░ ░▒  ░ ░░▒ ░      ▒ ░▒░ ░  ░ ▒ ▒░   ░▒ ░ ▒░
░░        ░  ░░ ░░ ░ ░ ▒  ░  ░  ░  ░░        ░  ░░ ░░ ░ ░ ▒    ░░   ░
          ░  ░  ░    ░ ░        ░            ░  ░  ░    ░ ░     ░

(c) 2025 - 2026 Retrobeam Labs
https://github.com/retrobeam/phosphor
License: GPLv3 or later
*/

package main

import (
	"image/color"
	"math"
)

// FrameSurface implements DrawSurface over a raw RGBA byte buffer, the frame
// format every VideoOutput consumes. Fills with a translucent style blend
// src-over; opaque fills overwrite. The buffer stays opaque once the base
// coat is down, so backends can ship it as-is.
type FrameSurface struct {
	width  int
	height int
	fill   color.RGBA
	pix    []byte // RGBA, row-major
}

func NewFrameSurface(width, height int) *FrameSurface {
	return &FrameSurface{
		width:  width,
		height: height,
		fill:   color.RGBA{A: 255},
		pix:    make([]byte, width*height*4),
	}
}

func (s *FrameSurface) Size() (int, int) {
	return s.width, s.height
}

func (s *FrameSurface) SetFillStyle(c color.RGBA) {
	s.fill = c
}

// FillRect rasterizes the rectangle by rounding its edges to the pixel grid
// and blends the current fill style over the covered span. Fully clipped or
// zero-alpha fills are no-ops.
func (s *FrameSurface) FillRect(x, y, w, h float64) {
	if s.fill.A == 0 {
		return
	}
	x0 := max(int(math.Round(x)), 0)
	y0 := max(int(math.Round(y)), 0)
	x1 := min(int(math.Round(x+w)), s.width)
	y1 := min(int(math.Round(y+h)), s.height)
	if x0 >= x1 || y0 >= y1 {
		return
	}

	if s.fill.A == 255 {
		for py := y0; py < y1; py++ {
			row := py * s.width * 4
			for px := x0; px < x1; px++ {
				i := row + px*4
				s.pix[i] = s.fill.R
				s.pix[i+1] = s.fill.G
				s.pix[i+2] = s.fill.B
				s.pix[i+3] = 255
			}
		}
		return
	}

	a := uint32(s.fill.A)
	ia := 255 - a
	for py := y0; py < y1; py++ {
		row := py * s.width * 4
		for px := x0; px < x1; px++ {
			i := row + px*4
			s.pix[i] = byte((uint32(s.fill.R)*a + uint32(s.pix[i])*ia + 127) / 255)
			s.pix[i+1] = byte((uint32(s.fill.G)*a + uint32(s.pix[i+1])*ia + 127) / 255)
			s.pix[i+2] = byte((uint32(s.fill.B)*a + uint32(s.pix[i+2])*ia + 127) / 255)
			s.pix[i+3] = byte(min(255, a+(uint32(s.pix[i+3])*ia+127)/255))
		}
	}
}

// Pix exposes the live RGBA buffer for presentation. Callers must not hold
// it across a Render.
func (s *FrameSurface) Pix() []byte {
	return s.pix
}

// PixelAt samples one physical pixel.
func (s *FrameSurface) PixelAt(x, y int) color.RGBA {
	if x < 0 || y < 0 || x >= s.width || y >= s.height {
		return color.RGBA{}
	}
	i := (y*s.width + x) * 4
	return color.RGBA{s.pix[i], s.pix[i+1], s.pix[i+2], s.pix[i+3]}
}
