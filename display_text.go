package main

import (
	"image/color"
	"time"

	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyfont/proggy"
)

// gridDisplayer adapts the logical pixel grid to tinyfont's displayer
// contract, so bitmap text lands in cells rather than physical pixels.
type gridDisplayer struct {
	d   *PixelDisplay
	now time.Duration
}

func (g *gridDisplayer) Size() (int16, int16) {
	return int16(g.d.Width()), int16(g.d.Height())
}

func (g *gridDisplayer) SetPixel(x, y int16, c color.RGBA) {
	on := c.R != 0 || c.G != 0 || c.B != 0
	g.d.SetPixel(int(x), int(y), on, g.now)
}

func (g *gridDisplayer) Display() error { return nil }

var gridFont = &proggy.TinySZ8pt7b

// DrawText writes s into the grid starting at x with baseline y. The font
// only touches set bits, so callers clear the region first when redrawing.
func (d *PixelDisplay) DrawText(x, y int, s string, now time.Duration) {
	disp := &gridDisplayer{d: d, now: now}
	tinyfont.WriteLine(disp, gridFont, int16(x), int16(y), s, color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF})
}

// TextWidth reports the advance width of s in grid cells.
func TextWidth(s string) int {
	_, w := tinyfont.LineWidth(gridFont, s)
	return int(w)
}
