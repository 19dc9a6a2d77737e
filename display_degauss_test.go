// display_degauss_test.go - One-shot degauss state machine and cooldown

package main

import (
	"math"
	"testing"
	"time"
)

func TestDegaussFirstRunIsFullStrength(t *testing.T) {
	d, _ := newTestDisplay(t, 8, 6)

	d.Degauss(5 * time.Second)

	if !d.DegaussActive() {
		t.Fatal("first trigger should activate")
	}
	if d.degauss.strength != 1 {
		t.Errorf("strength = %v, want 1 for a never-run display", d.degauss.strength)
	}
	if d.degauss.duration != DEGAUSS_BASE_DURATION {
		t.Errorf("duration = %v, want %v", d.degauss.duration, DEGAUSS_BASE_DURATION)
	}
}

func TestDegaussIgnoredWhileActive(t *testing.T) {
	d, _ := newTestDisplay(t, 8, 6)

	d.Degauss(5 * time.Second)
	started := d.degauss.startedAt
	d.Degauss(6 * time.Second)

	if d.degauss.startedAt != started {
		t.Error("re-trigger restarted the run")
	}
	if d.degauss.strength != 1 {
		t.Error("re-trigger mutated strength")
	}
}

func TestDegaussExpiresThroughRender(t *testing.T) {
	d, _ := newTestDisplay(t, 8, 6)

	d.Degauss(5 * time.Second)

	// Just shy of the end the run is still in flight.
	d.Render(5*time.Second + DEGAUSS_BASE_DURATION - time.Millisecond)
	if !d.DegaussActive() {
		t.Fatal("run ended early")
	}

	end := 5*time.Second + DEGAUSS_BASE_DURATION
	d.Render(end)
	if d.DegaussActive() {
		t.Fatal("run should have expired")
	}
	if d.degauss.lastEndedAt != end {
		t.Errorf("lastEndedAt = %v, want %v", d.degauss.lastEndedAt, end)
	}
}

func TestDegaussWeakTriggerConsumesCooldown(t *testing.T) {
	d, _ := newTestDisplay(t, 8, 6)

	d.Degauss(5 * time.Second)
	d.Render(5*time.Second + DEGAUSS_BASE_DURATION)
	ended := d.degauss.lastEndedAt

	// Within the minimum cooldown the strength is zero: no run, but the
	// cooldown clock restarts anyway.
	again := ended + 500*time.Millisecond
	d.Degauss(again)
	if d.DegaussActive() {
		t.Fatal("sub-threshold trigger should not activate")
	}
	if d.degauss.lastEndedAt != again {
		t.Error("sub-threshold trigger should still reset the cooldown")
	}
}

func TestDegaussCooldownScalesStrengthAndDuration(t *testing.T) {
	d, _ := newTestDisplay(t, 8, 6)

	d.Degauss(time.Second)
	end := time.Second + DEGAUSS_BASE_DURATION
	d.Render(end)

	// Halfway up the cooldown curve.
	elapsed := DEGAUSS_COOLDOWN_MIN + (DEGAUSS_COOLDOWN_FULL-DEGAUSS_COOLDOWN_MIN)/2
	d.Degauss(end + elapsed)

	want := math.Pow(0.5, degaussStrengthCurve)
	if math.Abs(d.degauss.strength-want) > 1e-9 {
		t.Errorf("strength = %v, want %v", d.degauss.strength, want)
	}
	wantDur := time.Duration(float64(DEGAUSS_BASE_DURATION) * want)
	if d.degauss.duration != wantDur {
		t.Errorf("duration = %v, want %v", d.degauss.duration, wantDur)
	}
}

func TestDegaussStrengthCurve(t *testing.T) {
	if got := degaussStrength(0, 42*time.Hour); got != 1 {
		t.Errorf("never-run strength = %v, want 1", got)
	}

	last := 10 * time.Second
	cases := []struct {
		elapsed time.Duration
		want    float64
	}{
		{0, 0},
		{DEGAUSS_COOLDOWN_MIN, 0},
		{DEGAUSS_COOLDOWN_FULL, 1},
		{2 * DEGAUSS_COOLDOWN_FULL, 1},
	}
	for _, tc := range cases {
		if got := degaussStrength(last, last+tc.elapsed); math.Abs(got-tc.want) > 1e-9 {
			t.Errorf("strength after %v = %v, want %v", tc.elapsed, got, tc.want)
		}
	}

	// Monotonic between the cooldown bounds.
	prev := -1.0
	for e := DEGAUSS_COOLDOWN_MIN; e <= DEGAUSS_COOLDOWN_FULL; e += time.Second {
		got := degaussStrength(last, last+e)
		if got < prev {
			t.Fatalf("strength not monotonic at %v: %v < %v", e, got, prev)
		}
		prev = got
	}
}

func TestDegaussStrengthSaturatesAtFullCooldown(t *testing.T) {
	d, _ := newTestDisplay(t, 8, 6)

	d.Degauss(time.Second)
	end := time.Second + DEGAUSS_BASE_DURATION
	d.Render(end)

	d.Degauss(end + DEGAUSS_COOLDOWN_FULL + time.Minute)
	if d.degauss.strength != 1 {
		t.Errorf("strength = %v, want saturated 1", d.degauss.strength)
	}
}
