// audio_beeper.go - Single-channel square-wave beeper

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
	"sync"
	"time"
)

const SAMPLE_RATE = 44100

// Classic table-tennis voice: three tones and a mains hum.
const (
	BEEP_PADDLE_HZ  = 459.0
	BEEP_WALL_HZ    = 226.0
	BEEP_SCORE_HZ   = 490.0
	BEEP_DEGAUSS_HZ = 60.0
)

const (
	beeperMasterVolume = 0.25
	// Attack/release ramp keeping tone edges click-free
	beeperRampSeconds = 0.002
)

type tone struct {
	freq      float64
	remaining int // samples left to play
	volume    float32
}

// Beeper is a one-channel square-wave generator with a short tone queue.
// Game code enqueues tones; the audio backend pulls rendered samples from
// its own goroutine, so all synth state stays behind one mutex taken once
// per buffer, not per sample.
type Beeper struct {
	mutex   sync.Mutex
	output  AudioOutput
	enabled bool
	muted   bool

	queue    []tone
	phase    float64
	level    float32 // current envelope level, chased toward the target
	lastFreq float64 // carries the oscillator through the release tail
}

// AudioOutput is the minimal lifecycle contract audio backends implement.
type AudioOutput interface {
	Start()
	Stop()
	Close()
	IsStarted() bool
}

func NewBeeper() (*Beeper, error) {
	b := &Beeper{}
	player, err := NewOtoPlayer(SAMPLE_RATE)
	if err != nil {
		return nil, err
	}
	player.SetupPlayer(b)
	b.output = player
	return b, nil
}

func (b *Beeper) Start() {
	b.mutex.Lock()
	b.enabled = true
	b.mutex.Unlock()
	if b.output != nil {
		b.output.Start()
	}
}

func (b *Beeper) Stop() {
	b.mutex.Lock()
	b.enabled = false
	b.mutex.Unlock()
	if b.output != nil {
		b.output.Stop()
	}
}

func (b *Beeper) Close() {
	b.Stop()
	if b.output != nil {
		b.output.Close()
	}
}

func (b *Beeper) SetMuted(muted bool) {
	b.mutex.Lock()
	b.muted = muted
	b.mutex.Unlock()
}

func (b *Beeper) IsMuted() bool {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	return b.muted
}

// Beep enqueues one tone. The queue is capped; a flood of events drops the
// newest tones rather than backing up the mixer.
func (b *Beeper) Beep(freq float64, dur time.Duration, volume float32) {
	if freq <= 0 || dur <= 0 {
		return
	}
	b.mutex.Lock()
	defer b.mutex.Unlock()
	if len(b.queue) >= 8 {
		return
	}
	b.queue = append(b.queue, tone{
		freq:      freq,
		remaining: int(float64(SAMPLE_RATE) * dur.Seconds()),
		volume:    volume,
	})
}

func (b *Beeper) PaddleBeep() {
	b.Beep(BEEP_PADDLE_HZ, 96*time.Millisecond, 1.0)
}

func (b *Beeper) WallBeep() {
	b.Beep(BEEP_WALL_HZ, 96*time.Millisecond, 1.0)
}

func (b *Beeper) ScoreBeep() {
	b.Beep(BEEP_SCORE_HZ, 257*time.Millisecond, 1.0)
}

func (b *Beeper) DegaussHum() {
	b.Beep(BEEP_DEGAUSS_HZ, 300*time.Millisecond, 0.8)
}

// FillSamples renders the next len(buf) mono float32 samples. Called by the
// audio backend on its pull goroutine.
func (b *Beeper) FillSamples(buf []float32) {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	rampStep := float32(1.0 / (beeperRampSeconds * SAMPLE_RATE))
	for i := range buf {
		var target float32
		if b.enabled && !b.muted && len(b.queue) > 0 {
			t := &b.queue[0]
			target = t.volume
			b.lastFreq = t.freq
			t.remaining--
			if t.remaining <= 0 {
				b.queue = b.queue[1:]
			}
		}
		freq := b.lastFreq

		// Chase the envelope toward the target so edges don't click.
		if b.level < target {
			b.level = min(target, b.level+rampStep)
		} else if b.level > target {
			b.level = max(0, b.level-rampStep)
		}

		var s float32
		if b.level > 0 && freq > 0 {
			b.phase += freq / SAMPLE_RATE
			if b.phase >= 1 {
				b.phase -= 1
			}
			if b.phase < 0.5 {
				s = 1
			} else {
				s = -1
			}
		}
		buf[i] = s * b.level * beeperMasterVolume
	}
}

// PendingTones reports how many tones are queued or playing.
func (b *Beeper) PendingTones() int {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	return len(b.queue)
}
