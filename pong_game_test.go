// pong_game_test.go - Match state machine, physics and input handling

package main

import (
	"testing"
	"time"
)

func newTestGame(t *testing.T) *Pong {
	t.Helper()
	surface := NewFrameSurface(DISPLAY_WIDTH, DISPLAY_HEIGHT)
	d, err := NewPixelDisplay(surface, EMULATED_WIDTH, EMULATED_HEIGHT)
	if err != nil {
		t.Fatalf("NewPixelDisplay: %v", err)
	}
	return NewPong(d, &Beeper{enabled: true}, NewTrackingAI())
}

func TestGameStartsInAttractMode(t *testing.T) {
	g := newTestGame(t)
	if g.State() != GAME_ATTRACT {
		t.Fatalf("state = %v, want attract", g.State())
	}

	g.Update(time.Millisecond)
	// The court border must be standing after the first tick.
	if !g.disp.GetPixel(0, 0) || !g.disp.GetPixel(FIELD_WIDTH-1, FIELD_HEIGHT-1) {
		t.Error("court border not drawn")
	}
}

func TestSpaceStartsMatch(t *testing.T) {
	g := newTestGame(t)
	g.Update(time.Millisecond)

	g.HandleKey(' ', 2*time.Millisecond)
	if g.State() != GAME_SERVE {
		t.Fatalf("state = %v, want serve", g.State())
	}
	if l, r := g.Scores(); l != 0 || r != 0 {
		t.Errorf("scores = %d:%d, want 0:0", l, r)
	}
}

func TestServeReleasesAfterDelay(t *testing.T) {
	g := newTestGame(t)
	g.Update(time.Millisecond)
	g.HandleKey(' ', 2*time.Millisecond)

	g.Update(10 * time.Millisecond)
	if g.State() != GAME_SERVE {
		t.Fatal("served before the delay elapsed")
	}

	g.Update(2*time.Millisecond + serveDelay)
	if g.State() != GAME_RALLY {
		t.Fatalf("state = %v, want rally", g.State())
	}
	if g.velX == 0 {
		t.Error("ball has no horizontal speed after serving")
	}
}

func TestSpaceDuringServeServesImmediately(t *testing.T) {
	g := newTestGame(t)
	g.Update(time.Millisecond)
	g.HandleKey(' ', 2*time.Millisecond)

	g.HandleKey(' ', 3*time.Millisecond)
	g.Update(4 * time.Millisecond)
	if g.State() != GAME_RALLY {
		t.Fatalf("state = %v, want immediate rally", g.State())
	}
}

func TestWallBounceReflectsBall(t *testing.T) {
	g := newTestGame(t)
	g.state = GAME_RALLY
	g.drawn = true
	g.lastNow = time.Second
	g.ballX = float64(FIELD_WIDTH) / 2
	g.ballY = BORDER_HEIGHT + 1
	g.velX = 0
	g.velY = -100

	g.Update(time.Second + 16*time.Millisecond)

	if g.velY <= 0 {
		t.Errorf("velY = %v, want reflected downward", g.velY)
	}
	if g.ballY < BORDER_HEIGHT {
		t.Errorf("ballY = %v, clipped into the rail", g.ballY)
	}
	if g.beeper.PendingTones() == 0 {
		t.Error("wall bounce produced no beep")
	}
}

func TestPaddleBounceSpeedsUpAndDeflects(t *testing.T) {
	g := newTestGame(t)
	g.velX = -100
	g.velY = 0
	paddleY := 80.0
	g.ballY = paddleY - 1 // strikes near the paddle's top edge

	g.bounceOffPaddle(paddleY)

	if g.velX <= 100 {
		t.Errorf("velX = %v, want reversed and faster than 100", g.velX)
	}
	if g.velY >= 0 {
		t.Errorf("velY = %v, top-edge hit should deflect upward", g.velY)
	}
	if g.beeper.PendingTones() == 0 {
		t.Error("paddle bounce produced no beep")
	}
}

func TestPaddleBounceCapsSpeed(t *testing.T) {
	g := newTestGame(t)
	g.velX = -ballMaxSpeed
	g.velY = 0
	g.ballY = 100
	g.bounceOffPaddle(100 - float64(PADDLE_HEIGHT-BALL_SIZE)/2)

	if g.velX > ballMaxSpeed {
		t.Errorf("velX = %v exceeds the speed cap", g.velX)
	}
}

func TestPointScoredAdvancesToNextServe(t *testing.T) {
	g := newTestGame(t)
	g.Update(time.Millisecond)
	g.state = GAME_RALLY

	g.pointScored(1, 5*time.Second)

	if l, _ := g.Scores(); l != 1 {
		t.Errorf("left score = %d, want 1", l)
	}
	if g.State() != GAME_SERVE {
		t.Fatalf("state = %v, want serve", g.State())
	}
	if g.serveDir != 1 {
		t.Errorf("serveDir = %v, conceding side should receive", g.serveDir)
	}
	if !g.disp.DegaussActive() {
		t.Error("scoring should have triggered a degauss run")
	}
}

func TestDegaussOnScoreCanBeDisabled(t *testing.T) {
	g := newTestGame(t)
	g.Update(time.Millisecond)
	g.state = GAME_RALLY
	g.SetDegaussOnScore(false)

	g.pointScored(-1, 5*time.Second)
	if g.disp.DegaussActive() {
		t.Error("degauss ran despite being disabled")
	}
}

func TestMatchEndsAtWinScore(t *testing.T) {
	g := newTestGame(t)
	g.Update(time.Millisecond)
	g.state = GAME_RALLY
	g.scoreLeft = WIN_SCORE - 1

	g.pointScored(1, 5*time.Second)

	if g.State() != GAME_OVER {
		t.Fatalf("state = %v, want game over", g.State())
	}
	if !g.leftWon {
		t.Error("left player should have won")
	}

	g.HandleKey(' ', 6*time.Second)
	if g.State() != GAME_ATTRACT {
		t.Errorf("state = %v, want attract after restart", g.State())
	}
}

func TestArrowKeysNudgePlayerPaddle(t *testing.T) {
	g := newTestGame(t)
	g.Update(time.Millisecond)
	g.state = GAME_SERVE
	g.stateAt = time.Second
	g.lastNow = time.Second

	for _, b := range []byte{0x1B, '[', 'A'} {
		g.HandleKey(b, time.Second)
	}
	if g.playerDir != -1 {
		t.Fatalf("playerDir = %d, want -1 after up arrow", g.playerDir)
	}

	before := g.leftY
	g.Update(time.Second + 16*time.Millisecond)
	if g.leftY >= before {
		t.Errorf("leftY = %v, want above %v", g.leftY, before)
	}
}

func TestNudgeExpiresAfterHold(t *testing.T) {
	g := newTestGame(t)
	g.Update(time.Millisecond)
	g.state = GAME_SERVE
	g.stateAt = time.Second
	g.lastNow = time.Second

	g.HandleKey('s', time.Second)
	g.Update(time.Second + nudgeHold + 50*time.Millisecond)
	if g.playerDir != 0 {
		t.Errorf("playerDir = %d, want 0 after the hold window", g.playerDir)
	}
}

func TestUnknownEscapeSequenceIgnored(t *testing.T) {
	g := newTestGame(t)
	for _, b := range []byte{0x1B, '[', 'Z'} {
		g.HandleKey(b, time.Second)
	}
	if g.playerDir != 0 {
		t.Errorf("playerDir = %d, want 0", g.playerDir)
	}
	if g.escState != 0 {
		t.Errorf("escState = %d, want reset", g.escState)
	}
}

func TestMuteKeyToggles(t *testing.T) {
	g := newTestGame(t)
	g.HandleKey('m', time.Second)
	if !g.beeper.IsMuted() {
		t.Fatal("m should mute")
	}
	g.HandleKey('M', 2*time.Second)
	if g.beeper.IsMuted() {
		t.Fatal("M should unmute")
	}
}

func TestQuitKeyInvokesQuitFunc(t *testing.T) {
	g := newTestGame(t)
	quit := false
	g.SetQuitFunc(func() { quit = true })
	g.HandleKey('q', time.Second)
	if !quit {
		t.Error("q did not invoke the quit func")
	}
}

func TestPaddleClampedToCourt(t *testing.T) {
	g := newTestGame(t)
	if y := g.movePaddle(g.leftY, -10000); y != BORDER_HEIGHT {
		t.Errorf("paddle top = %v, want clamped to %d", y, BORDER_HEIGHT)
	}
	want := float64(FIELD_HEIGHT - BORDER_HEIGHT - PADDLE_HEIGHT)
	if y := g.movePaddle(g.leftY, 10000); y != want {
		t.Errorf("paddle top = %v, want clamped to %v", y, want)
	}
}

func TestDrawDigitShape(t *testing.T) {
	g := newTestGame(t)
	now := time.Millisecond

	g.drawDigit(30, 30, 1, now)

	// '1' only occupies the rightmost digit column.
	if g.disp.GetPixel(30, 30) {
		t.Error("left column of '1' should be dark")
	}
	if !g.disp.GetPixel(30+2*digitScale, 30) {
		t.Error("right column of '1' should be lit")
	}
}

func TestDrawNumberRightAligned(t *testing.T) {
	g := newTestGame(t)
	now := time.Millisecond
	right := 120

	g.drawNumber(right, 50, 7, now)
	if !g.disp.GetPixel(right-1, 50) {
		t.Error("units digit should end at the right edge")
	}
	if g.disp.GetPixel(right-digitWidth-digitGap-1, 50) {
		t.Error("single digit should not spill into the tens cell")
	}

	g.drawNumber(right, 50, 10, now)
	if !g.disp.GetPixel(right-digitWidth-digitGap-1, 50) {
		t.Error("tens digit missing for a two-digit score")
	}
}
