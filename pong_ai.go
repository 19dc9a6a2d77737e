// pong_ai.go - Paddle controllers: built-in tracker and Lua-scripted

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
	"os"

	lua "github.com/yuin/gopher-lua"
)

// BallState is the snapshot a controller sees each tick, in logical cells
// and cells per second.
type BallState struct {
	X, Y   float64
	VX, VY float64
}

// AIController decides how far a paddle moves this tick. Implementations
// return the desired vertical delta in cells; the game clamps it against
// the court.
type AIController interface {
	Move(ball BallState, paddleY float64, dt float64) float64
}

const (
	aiMaxSpeed = 120.0 // slower than the player, so it can be beaten
	aiDeadzone = 3.0   // cells of slack before the paddle reacts
)

// TrackingAI aims the paddle centre at where the ball will cross its
// column, folding wall bounces into the prediction. When the ball moves
// away it drifts back to the court centre.
type TrackingAI struct {
	speed float64
}

func NewTrackingAI() *TrackingAI {
	return &TrackingAI{speed: aiMaxSpeed}
}

func (a *TrackingAI) Move(ball BallState, paddleY float64, dt float64) float64 {
	target := float64(FIELD_HEIGHT) / 2
	if ball.VX > 0 {
		target = a.predictY(ball)
	}

	center := paddleY + float64(PADDLE_HEIGHT)/2
	diff := target - center
	if diff > -aiDeadzone && diff < aiDeadzone {
		return 0
	}
	step := a.speed * dt
	return min(max(diff, -step), step)
}

// predictY walks the ball forward to the right paddle column and reflects
// the result off the rails until it lands inside the court.
func (a *TrackingAI) predictY(ball BallState) float64 {
	face := float64(FIELD_WIDTH - PADDLE_MARGIN - PADDLE_WIDTH)
	if ball.VX <= 0 {
		return ball.Y
	}
	t := (face - ball.X) / ball.VX
	y := ball.Y + ball.VY*t

	lo := float64(BORDER_HEIGHT)
	hi := float64(FIELD_HEIGHT - BORDER_HEIGHT - BALL_SIZE)
	span := hi - lo
	// Reflect across the rails: unfold y into [lo, lo+2*span) and mirror.
	y = y - lo
	for y < 0 {
		y += 2 * span
	}
	for y >= 2*span {
		y -= 2 * span
	}
	if y > span {
		y = 2*span - y
	}
	return y + lo + float64(BALL_SIZE)/2
}

// LuaAI delegates paddle decisions to a user script. The script defines
//
//	function paddle(bx, by, vx, vy, py) return dy end
//
// with the same units Move uses, called once per tick. Script errors fall
// back to the built-in tracker for the rest of the match so a typo doesn't
// freeze the paddle mid-rally.
type LuaAI struct {
	state    *lua.LState
	fallback *TrackingAI
	broken   bool
}

func NewLuaAI(path string) (*LuaAI, error) {
	L := lua.NewState(lua.Options{SkipOpenLibs: false})
	if err := L.DoFile(path); err != nil {
		L.Close()
		return nil, fmt.Errorf("ai script %s: %w", path, err)
	}
	fn := L.GetGlobal("paddle")
	if fn.Type() != lua.LTFunction {
		L.Close()
		return nil, fmt.Errorf("ai script %s: no paddle() function defined", path)
	}
	return &LuaAI{state: L, fallback: NewTrackingAI()}, nil
}

func (a *LuaAI) Move(ball BallState, paddleY float64, dt float64) float64 {
	if a.broken {
		return a.fallback.Move(ball, paddleY, dt)
	}

	L := a.state
	err := L.CallByParam(lua.P{
		Fn:      L.GetGlobal("paddle"),
		NRet:    1,
		Protect: true,
	},
		lua.LNumber(ball.X), lua.LNumber(ball.Y),
		lua.LNumber(ball.VX), lua.LNumber(ball.VY),
		lua.LNumber(paddleY))
	if err != nil {
		fmt.Fprintf(os.Stderr, "lua ai error, switching to tracker: %v\n", err)
		a.broken = true
		return a.fallback.Move(ball, paddleY, dt)
	}

	ret := L.Get(-1)
	L.Pop(1)
	dy, ok := ret.(lua.LNumber)
	if !ok {
		a.broken = true
		return a.fallback.Move(ball, paddleY, dt)
	}

	// Scripts get the same speed limit as the built-in controller.
	step := aiMaxSpeed * dt
	return min(max(float64(dy), -step), step)
}

func (a *LuaAI) Close() {
	if a.state != nil {
		a.state.Close()
		a.state = nil
	}
}
