// display_pixel.go - Monochrome CRT pixel grid with phosphor persistence

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
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

const (
	EMULATED_WIDTH  = 300
	EMULATED_HEIGHT = 200
	DISPLAY_WIDTH   = 800
	DISPLAY_HEIGHT  = 600

	// Physical gap between neighbouring cells, in surface units
	PIXEL_GAP = 1.0

	// The one colour a lit cell can have
	ON_COLOR = "#33FF66"
)

const (
	FADE_IN_DURATION  = 50 * time.Millisecond
	FADE_OUT_DURATION = 200 * time.Millisecond

	// Exponent of the fade-out decel curve: fast initial drop, long faint tail
	fadeOutExponent = 6
)

// Cell is one element of the emulated low-resolution grid. Timestamps are
// power-on-relative; the zero Duration means the edge never happened.
type Cell struct {
	on    bool
	onAt  time.Duration // most recent off->on transition
	offAt time.Duration // most recent on->off transition, also set by clears
}

// PixelDisplay owns a fixed grid of logical cells, the phosphor fade model
// and the degauss effect, and renders into a DrawSurface. All state is
// single-owner; callers thread an explicit monotonic timestamp through every
// time-sensitive operation, so the whole core is deterministic under test.
type PixelDisplay struct {
	surface DrawSurface

	emuWidth   int
	emuHeight  int
	dispWidth  int
	dispHeight int
	pitchX     float64 // physical cell width, gap excluded
	pitchY     float64

	cells []Cell // row-major, emuWidth*emuHeight

	onR, onG, onB uint8

	degauss degaussState

	tickFn   func(now time.Duration)
	frameFn  func()
	loopDone chan struct{}
}

// NewPixelDisplay maps an emuWidth x emuHeight logical grid onto the
// surface's physical size. Grid dimensions are immutable afterwards and all
// cells start dark with zero timestamps.
func NewPixelDisplay(surface DrawSurface, emuWidth, emuHeight int) (*PixelDisplay, error) {
	if emuWidth <= 0 || emuHeight <= 0 {
		return nil, &DisplayError{
			Operation: "display creation",
			Details:   fmt.Sprintf("invalid grid dimensions %dx%d", emuWidth, emuHeight),
		}
	}
	dispWidth, dispHeight := surface.Size()
	if dispWidth <= 0 || dispHeight <= 0 {
		return nil, &DisplayError{
			Operation: "display creation",
			Details:   fmt.Sprintf("invalid surface dimensions %dx%d", dispWidth, dispHeight),
		}
	}

	r, g, b, err := parseHexColor(ON_COLOR)
	if err != nil {
		return nil, &DisplayError{Operation: "display creation", Details: "bad on-colour", Err: err}
	}

	return &PixelDisplay{
		surface:    surface,
		emuWidth:   emuWidth,
		emuHeight:  emuHeight,
		dispWidth:  dispWidth,
		dispHeight: dispHeight,
		pitchX:     (float64(dispWidth) - float64(emuWidth-1)*PIXEL_GAP) / float64(emuWidth),
		pitchY:     (float64(dispHeight) - float64(emuHeight-1)*PIXEL_GAP) / float64(emuHeight),
		cells:      make([]Cell, emuWidth*emuHeight),
		onR:        r,
		onG:        g,
		onB:        b,
	}, nil
}

// Width returns the logical grid width.
func (d *PixelDisplay) Width() int { return d.emuWidth }

// Height returns the logical grid height.
func (d *PixelDisplay) Height() int { return d.emuHeight }

// SetPixel switches a cell on or off. Out-of-bounds coordinates are ignored.
// Writing a cell's current value is a no-op and leaves its fade timers
// untouched; only a real edge updates the matching timestamp.
func (d *PixelDisplay) SetPixel(x, y int, on bool, now time.Duration) {
	if x < 0 || y < 0 || x >= d.emuWidth || y >= d.emuHeight {
		return
	}
	c := &d.cells[y*d.emuWidth+x]
	if c.on == on {
		return
	}
	c.on = on
	if on {
		c.onAt = now
	} else {
		c.offAt = now
	}
}

// GetPixel reports a cell's logical state, false when out of bounds.
func (d *PixelDisplay) GetPixel(x, y int) bool {
	if x < 0 || y < 0 || x >= d.emuWidth || y >= d.emuHeight {
		return false
	}
	return d.cells[y*d.emuWidth+x].on
}

// Clear switches every cell off and restarts its fade-out timer, including
// cells that were already dark.
func (d *PixelDisplay) Clear(now time.Duration) {
	for i := range d.cells {
		d.cells[i].on = false
		d.cells[i].offAt = now
	}
}

// ClearRect applies Clear's off-plus-restart semantics to a sub-rectangle,
// clipped to the grid.
func (d *PixelDisplay) ClearRect(x, y, w, h int, now time.Duration) {
	x0 := max(x, 0)
	y0 := max(y, 0)
	x1 := min(x+w, d.emuWidth)
	y1 := min(y+h, d.emuHeight)
	for cy := y0; cy < y1; cy++ {
		base := cy * d.emuWidth
		for cx := x0; cx < x1; cx++ {
			c := &d.cells[base+cx]
			c.on = false
			c.offAt = now
		}
	}
}

// DrawPattern bulk-sets pixels from a glyph bitmap: '#' lights a cell, '.'
// darkens it, anything else leaves the cell alone. Rows may have uneven
// lengths; everything clips against the grid through SetPixel.
func (d *PixelDisplay) DrawPattern(x, y int, rows []string, now time.Duration) {
	for dy, row := range rows {
		for dx, ch := range row {
			switch ch {
			case '#':
				d.SetPixel(x+dx, y+dy, true, now)
			case '.':
				d.SetPixel(x+dx, y+dy, false, now)
			}
		}
	}
}

// DumpASCII renders a sub-rectangle of logical state as '#'/'.' rows.
// Out-of-bounds samples read as dark.
func (d *PixelDisplay) DumpASCII(x, y, w, h int) string {
	var sb strings.Builder
	for dy := 0; dy < h; dy++ {
		if dy > 0 {
			sb.WriteByte('\n')
		}
		for dx := 0; dx < w; dx++ {
			if d.GetPixel(x+dx, y+dy) {
				sb.WriteByte('#')
			} else {
				sb.WriteByte('.')
			}
		}
	}
	return sb.String()
}

// cellBrightness models phosphor persistence. A lit cell ramps up linearly
// over the fade-in window; any cell with an off edge decays along a steep
// power curve regardless of its current state, so a cell relit mid-decay
// still carries its trailing glow. The larger contribution wins.
func cellBrightness(c Cell, now time.Duration) float64 {
	var fadeIn float64
	if c.on && c.onAt > 0 {
		e := now - c.onAt
		if e >= FADE_IN_DURATION {
			fadeIn = 1
		} else if e > 0 {
			fadeIn = float64(e) / float64(FADE_IN_DURATION)
		}
	}

	var fadeOut float64
	if c.offAt > 0 {
		e := now - c.offAt
		if e >= 0 && e < FADE_OUT_DURATION {
			f := 1 - float64(e)/float64(FADE_OUT_DURATION)
			fadeOut = math.Pow(f, fadeOutExponent)
		}
	}

	return min(1, max(fadeIn, fadeOut))
}

func (d *PixelDisplay) brightnessAt(col, row int, now time.Duration) float64 {
	return cellBrightness(d.cells[row*d.emuWidth+col], now)
}

// parseHexColor decodes "#RRGGBB".
func parseHexColor(s string) (r, g, b uint8, err error) {
	if len(s) != 7 || s[0] != '#' {
		return 0, 0, 0, fmt.Errorf("malformed colour %q", s)
	}
	v, err := strconv.ParseUint(s[1:], 16, 32)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("malformed colour %q: %w", s, err)
	}
	return uint8(v >> 16), uint8(v >> 8), uint8(v), nil
}
