// display_degauss.go - Cooldown-gated one-shot degauss effect

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
	"math"
	"time"
)

const (
	DEGAUSS_COOLDOWN_MIN  = 1 * time.Second  // below this since the last run, a trigger does nothing visible
	DEGAUSS_COOLDOWN_FULL = 30 * time.Second // at this and beyond, strength saturates to 1
	DEGAUSS_BASE_DURATION = 2 * time.Second  // active duration at full strength
)

const (
	// Cooldown-to-strength curve; >1 ramps in slowly then accelerates
	degaussStrengthCurve = 1.5

	// Runs weaker than this are swallowed: cooldown consumed, no activation
	degaussMinStrength = 0.01

	degaussDecayRate       = 2.5  // overlay decay, per second
	degaussOverlayAlphaMax = 0.35 // magenta flash peak alpha
	degaussWarpAmpPx       = 12.0 // warp amplitude at full strength
	degaussWarpFreqHz      = 50.0 // traveling wave temporal frequency
	degaussWarpWavenumber  = 2.5  // traveling wave spatial frequency
)

// degaussState is a one-shot Idle -> Active -> Idle machine. startedAt == 0
// means idle; lastEndedAt feeds the cooldown strength of the next trigger.
type degaussState struct {
	startedAt   time.Duration
	duration    time.Duration
	strength    float64 // fixed for the whole run, in [0,1]
	lastEndedAt time.Duration // 0 = never completed a run
}

// Degauss triggers one distortion run. An in-flight run is never interrupted,
// restarted or stacked. Strength grows with the cooldown elapsed since the
// previous run ended; a display that never ran gets full strength.
func (d *PixelDisplay) Degauss(now time.Duration) {
	g := &d.degauss
	if g.startedAt != 0 {
		return
	}

	strength := degaussStrength(g.lastEndedAt, now)
	if strength < degaussMinStrength {
		// Not worth animating, but the trigger still resets the cooldown.
		g.lastEndedAt = now
		return
	}

	g.startedAt = now
	g.strength = strength
	g.duration = time.Duration(float64(DEGAUSS_BASE_DURATION) * strength)
}

// DegaussActive reports whether a run is currently in flight. The flag only
// falls back to idle once Render has observed the run's end.
func (d *PixelDisplay) DegaussActive() bool {
	return d.degauss.startedAt != 0
}

// degaussExpire runs at the top of every Render and retires a finished run.
func (d *PixelDisplay) degaussExpire(now time.Duration) {
	g := &d.degauss
	if g.startedAt != 0 && now-g.startedAt >= g.duration {
		g.startedAt = 0
		g.lastEndedAt = now
	}
}

func degaussStrength(lastEndedAt, now time.Duration) float64 {
	if lastEndedAt == 0 {
		return 1
	}
	elapsed := now - lastEndedAt
	x := float64(elapsed-DEGAUSS_COOLDOWN_MIN) / float64(DEGAUSS_COOLDOWN_FULL-DEGAUSS_COOLDOWN_MIN)
	x = min(1, max(0, x))
	return math.Pow(x, degaussStrengthCurve)
}
