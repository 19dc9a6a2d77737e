// pong_ai_test.go - Tracking controller prediction and Lua scripting

package main

import (
	"math"
	"os"
	"path/filepath"
	"testing"
)

func TestTrackingAIMovesTowardIncomingBall(t *testing.T) {
	ai := NewTrackingAI()

	// Ball heading straight for the paddle column, well below the paddle.
	ball := BallState{X: 100, Y: 150, VX: 120, VY: 0}
	dy := ai.Move(ball, 40, 0.1)

	if dy <= 0 {
		t.Errorf("dy = %v, want downward movement", dy)
	}
	step := aiMaxSpeed * 0.1
	if dy > step {
		t.Errorf("dy = %v exceeds the per-tick speed limit %v", dy, step)
	}
}

func TestTrackingAIDeadzone(t *testing.T) {
	ai := NewTrackingAI()

	// Ball arrives exactly at the paddle centre: no twitching.
	paddleY := 150 - float64(PADDLE_HEIGHT)/2
	ball := BallState{X: 200, Y: 150 - float64(BALL_SIZE)/2, VX: 120, VY: 0}
	if dy := ai.Move(ball, paddleY, 0.1); dy != 0 {
		t.Errorf("dy = %v, want 0 inside the deadzone", dy)
	}
}

func TestTrackingAIDriftsToCenterWhenBallLeaving(t *testing.T) {
	ai := NewTrackingAI()

	ball := BallState{X: 100, Y: 20, VX: -120, VY: 0}
	lowPaddle := float64(FIELD_HEIGHT - BORDER_HEIGHT - PADDLE_HEIGHT)
	if dy := ai.Move(ball, lowPaddle, 0.1); dy >= 0 {
		t.Errorf("dy = %v, want drift up toward centre", dy)
	}
}

func TestPredictYFoldsWallBounces(t *testing.T) {
	ai := NewTrackingAI()

	lo := float64(BORDER_HEIGHT)
	hi := float64(FIELD_HEIGHT - BORDER_HEIGHT)
	// Steep trajectory guaranteed to hit a rail before the paddle column.
	ball := BallState{X: 20, Y: 100, VX: 60, VY: 400}
	y := ai.predictY(ball)

	if y < lo || y > hi {
		t.Errorf("predicted y = %v outside the court [%v, %v]", y, lo, hi)
	}

	// A flat trajectory predicts the ball's own centre line.
	flat := BallState{X: 20, Y: 100, VX: 60, VY: 0}
	want := 100 + float64(BALL_SIZE)/2
	if y := ai.predictY(flat); math.Abs(y-want) > 1e-9 {
		t.Errorf("flat prediction = %v, want %v", y, want)
	}
}

func writeLuaScript(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "paddle.lua")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write script: %v", err)
	}
	return path
}

func TestLuaAIDrivesPaddle(t *testing.T) {
	path := writeLuaScript(t, `
function paddle(bx, by, vx, vy, py)
    return by - py
end
`)
	ai, err := NewLuaAI(path)
	if err != nil {
		t.Fatalf("NewLuaAI: %v", err)
	}
	defer ai.Close()

	ball := BallState{X: 100, Y: 150, VX: 120, VY: 0}
	dy := ai.Move(ball, 100, 0.1)
	if dy <= 0 {
		t.Errorf("dy = %v, want downward toward the ball", dy)
	}
	step := aiMaxSpeed * 0.1
	if dy > step {
		t.Errorf("dy = %v, script must obey the speed limit %v", dy, step)
	}
}

func TestLuaAIClampsScriptOutput(t *testing.T) {
	path := writeLuaScript(t, `
function paddle(bx, by, vx, vy, py)
    return -100000
end
`)
	ai, err := NewLuaAI(path)
	if err != nil {
		t.Fatalf("NewLuaAI: %v", err)
	}
	defer ai.Close()

	dy := ai.Move(BallState{}, 100, 0.05)
	want := -aiMaxSpeed * 0.05
	if math.Abs(dy-want) > 1e-9 {
		t.Errorf("dy = %v, want clamped to %v", dy, want)
	}
}

func TestLuaAIRequiresPaddleFunction(t *testing.T) {
	path := writeLuaScript(t, `x = 1`)
	if _, err := NewLuaAI(path); err == nil {
		t.Fatal("expected an error for a script with no paddle()")
	}
}

func TestLuaAIRejectsMissingFile(t *testing.T) {
	if _, err := NewLuaAI(filepath.Join(t.TempDir(), "nope.lua")); err == nil {
		t.Fatal("expected an error for a missing script")
	}
}

func TestLuaAIFallsBackOnRuntimeError(t *testing.T) {
	path := writeLuaScript(t, `
function paddle(bx, by, vx, vy, py)
    error("boom")
end
`)
	ai, err := NewLuaAI(path)
	if err != nil {
		t.Fatalf("NewLuaAI: %v", err)
	}
	defer ai.Close()

	ball := BallState{X: 100, Y: 150, VX: 120, VY: 0}
	dy := ai.Move(ball, 40, 0.1)
	if !ai.broken {
		t.Fatal("controller should mark itself broken after a script error")
	}
	if dy <= 0 {
		t.Errorf("dy = %v, fallback tracker should chase the ball", dy)
	}

	// Subsequent calls keep using the fallback without touching Lua.
	if dy := ai.Move(ball, 40, 0.1); dy <= 0 {
		t.Errorf("dy = %v on second call", dy)
	}
}

func TestLuaAIFallsBackOnNonNumericReturn(t *testing.T) {
	path := writeLuaScript(t, `
function paddle(bx, by, vx, vy, py)
    return "sideways"
end
`)
	ai, err := NewLuaAI(path)
	if err != nil {
		t.Fatalf("NewLuaAI: %v", err)
	}
	defer ai.Close()

	ai.Move(BallState{}, 100, 0.1)
	if !ai.broken {
		t.Error("non-numeric return should mark the controller broken")
	}
}
