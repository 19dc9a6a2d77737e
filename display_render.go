// display_render.go - Frame rendering and the scheduled refresh loop

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
	"time"
)

// Render draws one complete frame for the given timestamp. It is idempotent
// in now: apart from the degauss expiry transition, itself a pure function
// of now, two calls with equal timestamps paint identical frames.
func (d *PixelDisplay) Render(now time.Duration) {
	d.degaussExpire(now)

	w, h := d.surface.Size()
	d.surface.SetFillStyle(color.RGBA{0, 0, 0, 255})
	d.surface.FillRect(0, 0, float64(w), float64(h))

	if d.degauss.startedAt != 0 {
		d.renderWarped(now)
		d.renderOverlay(now)
		return
	}
	d.renderDirect(now)
}

func (d *PixelDisplay) renderDirect(now time.Duration) {
	strideX := d.pitchX + PIXEL_GAP
	strideY := d.pitchY + PIXEL_GAP
	for row := 0; row < d.emuHeight; row++ {
		py := float64(row) * strideY
		base := row * d.emuWidth
		for col := 0; col < d.emuWidth; col++ {
			b := cellBrightness(d.cells[base+col], now)
			if b <= 0 {
				continue
			}
			d.surface.SetFillStyle(d.onColorAlpha(b))
			d.surface.FillRect(float64(col)*strideX, py, d.pitchX, d.pitchY)
		}
	}
}

// renderWarped paints every physical cell position from a backward-displaced
// source cell, so content lags the nominal grid and the image wobbles.
// Distortion is strongest near the surface edges, floored at the centre.
func (d *PixelDisplay) renderWarped(now time.Duration) {
	g := d.degauss
	tSec := (now - g.startedAt).Seconds()
	amp := degaussWarpAmpPx * g.strength
	phase := 2 * math.Pi * degaussWarpFreqHz * tSec

	strideX := d.pitchX + PIXEL_GAP
	strideY := d.pitchY + PIXEL_GAP
	for row := 0; row < d.emuHeight; row++ {
		py := float64(row) * strideY
		ny := py / float64(d.dispHeight)
		for col := 0; col < d.emuWidth; col++ {
			px := float64(col) * strideX
			nx := px / float64(d.dispWidth)

			dist := math.Hypot(nx-0.5, ny-0.5)
			edge := 0.4 + 0.6*min(1, 2*dist)

			dx := amp * edge * math.Sin(phase+2*math.Pi*degaussWarpWavenumber*ny)
			dy := amp * edge * math.Sin(phase+2*math.Pi*degaussWarpWavenumber*nx+math.Pi/2)

			srcCol := min(max(int((px-dx)/strideX), 0), d.emuWidth-1)
			srcRow := min(max(int((py-dy)/strideY), 0), d.emuHeight-1)

			b := cellBrightness(d.cells[srcRow*d.emuWidth+srcCol], now)
			if b <= 0 {
				continue
			}
			d.surface.SetFillStyle(d.onColorAlpha(b))
			d.surface.FillRect(px, py, d.pitchX, d.pitchY)
		}
	}
}

// renderOverlay composites the full-surface magenta flash while degauss is
// active, decaying exponentially over the run.
func (d *PixelDisplay) renderOverlay(now time.Duration) {
	g := d.degauss
	tSec := (now - g.startedAt).Seconds()
	alpha := math.Exp(-degaussDecayRate*tSec) * g.strength * degaussOverlayAlphaMax
	if alpha <= 0 {
		return
	}
	w, h := d.surface.Size()
	d.surface.SetFillStyle(color.RGBA{0xFF, 0x00, 0xFF, uint8(alpha*255 + 0.5)})
	d.surface.FillRect(0, 0, float64(w), float64(h))
}

func (d *PixelDisplay) onColorAlpha(b float64) color.RGBA {
	return color.RGBA{d.onR, d.onG, d.onB, uint8(b*255 + 0.5)}
}

// SetTickFunc registers fn to run before each scheduled Render. The game
// layer hangs its fixed-rate update here so display and game state share one
// owner goroutine.
func (d *PixelDisplay) SetTickFunc(fn func(now time.Duration)) {
	d.tickFn = fn
}

// SetFrameFunc registers fn to run after each scheduled Render, typically to
// ship the finished surface to a video output.
func (d *PixelDisplay) SetFrameFunc(fn func()) {
	d.frameFn = fn
}

// Start runs the refresh loop: tick, render, frame, at refreshHz until Stop.
// Calling Start on a running display is a no-op.
func (d *PixelDisplay) Start(clock Clock, refreshHz int) {
	if d.loopDone != nil {
		return
	}
	if refreshHz <= 0 {
		refreshHz = 60
	}
	done := make(chan struct{})
	d.loopDone = done

	go func() {
		ticker := time.NewTicker(time.Second / time.Duration(refreshHz))
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				now := clock.Now()
				if d.tickFn != nil {
					d.tickFn(now)
				}
				d.Render(now)
				if d.frameFn != nil {
					d.frameFn()
				}
			}
		}
	}()
}

// Stop cancels the refresh loop. The display can be started again afterwards.
func (d *PixelDisplay) Stop() {
	if d.loopDone != nil {
		close(d.loopDone)
		d.loopDone = nil
	}
}
