// pong_sprites.go - Court decor and blocky scoreboard digits

package main

import "time"

// 3x5 digit masks, scaled up at draw time for the scoreboard.
var digitRows = [10][5]string{
	{"###", "#.#", "#.#", "#.#", "###"}, // 0
	{"..#", "..#", "..#", "..#", "..#"}, // 1
	{"###", "..#", "###", "#..", "###"}, // 2
	{"###", "..#", "###", "..#", "###"}, // 3
	{"#.#", "#.#", "###", "..#", "..#"}, // 4
	{"###", "#..", "###", "..#", "###"}, // 5
	{"###", "#..", "###", "#.#", "###"}, // 6
	{"###", "..#", "..#", "..#", "..#"}, // 7
	{"###", "#.#", "###", "#.#", "###"}, // 8
	{"###", "#.#", "###", "..#", "###"}, // 9
}

const (
	digitScale  = 3
	digitWidth  = 3 * digitScale
	digitHeight = 5 * digitScale
	digitGap    = digitScale
)

// fillCells sets a solid rectangle of logical cells.
func (g *Pong) fillCells(x, y, w, h int, on bool, now time.Duration) {
	for dy := 0; dy < h; dy++ {
		for dx := 0; dx < w; dx++ {
			g.disp.SetPixel(x+dx, y+dy, on, now)
		}
	}
}

// drawDigit paints one scaled digit, clearing the unset bits of its box so a
// changed digit fully replaces its predecessor.
func (g *Pong) drawDigit(x, y, d int, now time.Duration) {
	if d < 0 || d > 9 {
		return
	}
	for ry, row := range digitRows[d] {
		for rx := 0; rx < len(row); rx++ {
			on := row[rx] == '#'
			g.fillCells(x+rx*digitScale, y+ry*digitScale, digitScale, digitScale, on, now)
		}
	}
}

// drawNumber right-aligns n (0..99) so a rollover to two digits grows left.
func (g *Pong) drawNumber(right, y, n int, now time.Duration) {
	if n < 0 {
		n = 0
	}
	x := right - digitWidth
	g.drawDigit(x, y, n%10, now)
	if n >= 10 {
		g.drawDigit(x-digitWidth-digitGap, y, (n/10)%10, now)
	}
}

// drawCourt paints the static decor: border rails and the dashed net.
// Redrawing it every tick is free because unchanged cells are no-ops.
func (g *Pong) drawCourt(now time.Duration) {
	g.fillCells(0, 0, FIELD_WIDTH, BORDER_HEIGHT, true, now)
	g.fillCells(0, FIELD_HEIGHT-BORDER_HEIGHT, FIELD_WIDTH, BORDER_HEIGHT, true, now)

	for y := BORDER_HEIGHT; y < FIELD_HEIGHT-BORDER_HEIGHT; y++ {
		on := (y/4)%2 == 0 // 4-cell dashes
		g.disp.SetPixel(NET_X, y, on, now)
		g.disp.SetPixel(NET_X+1, y, on, now)
	}
}

func (g *Pong) drawScores(now time.Duration) {
	// Clear both score boxes, then redraw right-aligned toward the net.
	g.disp.ClearRect(scoreLeftRight-2*digitWidth-digitGap, scoreY, 2*digitWidth+digitGap, digitHeight, now)
	g.disp.ClearRect(scoreRightRight-2*digitWidth-digitGap, scoreY, 2*digitWidth+digitGap, digitHeight, now)
	g.drawNumber(scoreLeftRight, scoreY, g.scoreLeft, now)
	g.drawNumber(scoreRightRight, scoreY, g.scoreRight, now)
}

const (
	scoreY          = 10
	scoreLeftRight  = NET_X - 24 // right edge of the left score block
	scoreRightRight = NET_X + 24 + 2*digitWidth + digitGap
)

// drawCenteredText writes s centred on the net column at baseline y.
func (g *Pong) drawCenteredText(y int, s string, now time.Duration) {
	x := NET_X + 1 - TextWidth(s)/2
	g.disp.DrawText(x, y, s, now)
}

// clearMessageArea wipes the band the attract/game-over text occupies.
func (g *Pong) clearMessageArea(now time.Duration) {
	g.disp.ClearRect(0, 70, FIELD_WIDTH, 60, now)
}
