// pong_game.go - Pong match logic over the pixel display

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
	"math/rand"
	"time"
)

const (
	FIELD_WIDTH   = EMULATED_WIDTH
	FIELD_HEIGHT  = EMULATED_HEIGHT
	BORDER_HEIGHT = 2
	PADDLE_WIDTH  = 3
	PADDLE_HEIGHT = 24
	PADDLE_MARGIN = 6
	BALL_SIZE     = 3
	NET_X         = FIELD_WIDTH/2 - 1
	WIN_SCORE     = 11
)

const (
	paddleSpeed    = 150.0 // player paddle, cells per second
	ballServeSpeed = 100.0
	ballSpeedup    = 1.04 // per paddle hit
	ballMaxSpeed   = 340.0
	deflectMax     = 140.0 // vertical speed imparted by an edge hit
	serveDelay     = 900 * time.Millisecond
	nudgeHold      = 130 * time.Millisecond
	maxTickDelta   = 50 * time.Millisecond
)

type GameState int

const (
	GAME_ATTRACT GameState = iota
	GAME_SERVE
	GAME_RALLY
	GAME_OVER
)

// Pong drives a match on the logical grid. It draws exclusively through the
// display's pixel operations and is ticked from the display's refresh loop,
// so game and display state share a single owner goroutine.
type Pong struct {
	disp   *PixelDisplay
	beeper *Beeper
	ai     AIController // right paddle
	idleAI AIController // left paddle during attract mode
	rng    *rand.Rand

	state   GameState
	stateAt time.Duration
	lastNow time.Duration
	drawn   bool

	leftY, rightY float64 // paddle top edges
	ballX, ballY  float64 // ball top-left
	velX, velY    float64
	serveDir      float64 // -1 serves toward the left player

	scoreLeft  int
	scoreRight int
	leftWon    bool

	prevLeftY  int
	prevRightY int
	prevBallX  int
	prevBallY  int

	playerDir      int // -1 up, +1 down, 0 idle
	playerDirUntil time.Duration
	escState       int

	degaussOnScore bool
	quitFn         func()
}

func NewPong(disp *PixelDisplay, beeper *Beeper, ai AIController) *Pong {
	g := &Pong{
		disp:           disp,
		beeper:         beeper,
		ai:             ai,
		idleAI:         NewTrackingAI(),
		rng:            rand.New(rand.NewSource(time.Now().UnixNano())),
		serveDir:       -1,
		degaussOnScore: true,
	}
	g.resetPositions()
	return g
}

func (g *Pong) SetQuitFunc(fn func()) {
	g.quitFn = fn
}

// SetDegaussOnScore controls whether every point triggers a degauss run.
func (g *Pong) SetDegaussOnScore(enabled bool) {
	g.degaussOnScore = enabled
}

func (g *Pong) State() GameState { return g.state }

func (g *Pong) Scores() (left, right int) { return g.scoreLeft, g.scoreRight }

func (g *Pong) resetPositions() {
	g.leftY = float64(FIELD_HEIGHT-PADDLE_HEIGHT) / 2
	g.rightY = g.leftY
	g.centerBall()
	g.prevLeftY = int(g.leftY)
	g.prevRightY = int(g.rightY)
	g.prevBallX = int(g.ballX)
	g.prevBallY = int(g.ballY)
}

func (g *Pong) centerBall() {
	g.ballX = float64(FIELD_WIDTH-BALL_SIZE) / 2
	g.ballY = float64(FIELD_HEIGHT-BALL_SIZE) / 2
	g.velX = 0
	g.velY = 0
}

// Update advances the match to now. Call rate sets the simulation rate;
// wall-clock stalls are capped so the ball never tunnels.
func (g *Pong) Update(now time.Duration) {
	dt := (now - g.lastNow).Seconds()
	if g.lastNow == 0 || dt < 0 {
		dt = 0
	}
	dt = min(dt, maxTickDelta.Seconds())
	g.lastNow = now

	if !g.drawn {
		g.enterState(g.state, now)
	}

	switch g.state {
	case GAME_ATTRACT:
		g.updateAttract(now, dt)
	case GAME_SERVE:
		g.updateServe(now, dt)
	case GAME_RALLY:
		g.updateRally(now, dt)
	case GAME_OVER:
		// Static scene until space restarts.
	}
}

func (g *Pong) enterState(s GameState, now time.Duration) {
	g.state = s
	g.stateAt = now
	g.drawn = true

	switch s {
	case GAME_ATTRACT:
		g.disp.Clear(now)
		g.resetPositions()
		g.velX = ballServeSpeed * g.serveChoice()
		g.velY = g.randomServeVY()
		g.drawCourt(now)
		g.drawCenteredText(90, "PHOSPHOR PONG", now)
		g.drawCenteredText(110, "PRESS SPACE TO PLAY", now)
	case GAME_SERVE:
		g.clearMessageArea(now)
		g.drawCourt(now)
		g.drawScores(now)
		g.centerBall()
	case GAME_RALLY:
		// Court already standing; nothing to repaint.
	case GAME_OVER:
		msg := "CRT WINS"
		if g.leftWon {
			msg = "YOU WIN"
		}
		g.clearMessageArea(now)
		g.drawCenteredText(90, msg, now)
		g.drawCenteredText(110, "PRESS SPACE", now)
	}
	g.redrawMoving(now)
}

func (g *Pong) serveChoice() float64 {
	if g.rng.Intn(2) == 0 {
		return -1
	}
	return 1
}

func (g *Pong) randomServeVY() float64 {
	v := 20 + g.rng.Float64()*50
	if g.rng.Intn(2) == 0 {
		return -v
	}
	return v
}

func (g *Pong) updateAttract(now time.Duration, dt float64) {
	ball := g.ballState()
	g.leftY = g.movePaddle(g.leftY, g.idleAI.Move(ball, g.leftY, dt))
	g.rightY = g.movePaddle(g.rightY, g.ai.Move(ball, g.rightY, dt))

	if out := g.moveBall(dt); out != 0 {
		g.centerBall()
		g.velX = ballServeSpeed * g.serveChoice()
		g.velY = g.randomServeVY()
	}
	g.redrawMoving(now)
}

func (g *Pong) updateServe(now time.Duration, dt float64) {
	g.movePlayer(now, dt)
	g.rightY = g.movePaddle(g.rightY, g.ai.Move(g.ballState(), g.rightY, dt))

	if now-g.stateAt >= serveDelay {
		g.velX = ballServeSpeed * g.serveDir
		g.velY = g.randomServeVY()
		g.enterState(GAME_RALLY, now)
		return
	}
	g.redrawMoving(now)
}

func (g *Pong) updateRally(now time.Duration, dt float64) {
	g.movePlayer(now, dt)
	g.rightY = g.movePaddle(g.rightY, g.ai.Move(g.ballState(), g.rightY, dt))

	if out := g.moveBall(dt); out != 0 {
		g.pointScored(out, now)
		return
	}
	g.redrawMoving(now)
}

func (g *Pong) pointScored(out int, now time.Duration) {
	if out < 0 {
		g.scoreRight++
		g.serveDir = -1 // conceding side receives the next serve
	} else {
		g.scoreLeft++
		g.serveDir = 1
	}
	g.beeper.ScoreBeep()
	if g.degaussOnScore {
		g.disp.Degauss(now)
	}
	g.drawScores(now)

	if g.scoreLeft >= WIN_SCORE || g.scoreRight >= WIN_SCORE {
		g.leftWon = g.scoreLeft > g.scoreRight
		g.enterState(GAME_OVER, now)
		return
	}
	g.enterState(GAME_SERVE, now)
}

func (g *Pong) movePlayer(now time.Duration, dt float64) {
	if g.playerDir != 0 && now > g.playerDirUntil {
		g.playerDir = 0
	}
	g.leftY = g.movePaddle(g.leftY, float64(g.playerDir)*paddleSpeed*dt)
}

func (g *Pong) movePaddle(y, dy float64) float64 {
	y += dy
	return min(max(y, BORDER_HEIGHT), float64(FIELD_HEIGHT-BORDER_HEIGHT-PADDLE_HEIGHT))
}

func (g *Pong) ballState() BallState {
	return BallState{X: g.ballX, Y: g.ballY, VX: g.velX, VY: g.velY}
}

// moveBall integrates one step and resolves wall and paddle contacts.
// Returns -1/+1 when the ball leaves the court on that side, 0 otherwise.
func (g *Pong) moveBall(dt float64) int {
	g.ballX += g.velX * dt
	g.ballY += g.velY * dt

	// Rails
	if g.ballY <= BORDER_HEIGHT {
		g.ballY = BORDER_HEIGHT
		g.velY = -g.velY
		g.beeper.WallBeep()
	} else if g.ballY >= float64(FIELD_HEIGHT-BORDER_HEIGHT-BALL_SIZE) {
		g.ballY = float64(FIELD_HEIGHT - BORDER_HEIGHT - BALL_SIZE)
		g.velY = -g.velY
		g.beeper.WallBeep()
	}

	// Left paddle face
	leftFace := float64(PADDLE_MARGIN + PADDLE_WIDTH)
	if g.velX < 0 && g.ballX <= leftFace && g.ballX >= float64(PADDLE_MARGIN)-1 {
		if g.paddleOverlap(g.leftY) {
			g.ballX = leftFace
			g.bounceOffPaddle(g.leftY)
		}
	}

	// Right paddle face
	rightFace := float64(FIELD_WIDTH - PADDLE_MARGIN - PADDLE_WIDTH - BALL_SIZE)
	if g.velX > 0 && g.ballX >= rightFace && g.ballX <= float64(FIELD_WIDTH-PADDLE_MARGIN)+1 {
		if g.paddleOverlap(g.rightY) {
			g.ballX = rightFace
			g.bounceOffPaddle(g.rightY)
		}
	}

	if g.ballX < -BALL_SIZE {
		return -1
	}
	if g.ballX > FIELD_WIDTH {
		return 1
	}
	return 0
}

func (g *Pong) paddleOverlap(paddleY float64) bool {
	return g.ballY+BALL_SIZE > paddleY && g.ballY < paddleY+PADDLE_HEIGHT
}

// bounceOffPaddle reverses the ball with a speed-up and deflects it by how
// far off-centre it struck, so edge hits go out hot.
func (g *Pong) bounceOffPaddle(paddleY float64) {
	g.velX = -g.velX * ballSpeedup
	g.velX = min(max(g.velX, -ballMaxSpeed), ballMaxSpeed)

	ballCenter := g.ballY + float64(BALL_SIZE)/2
	paddleCenter := paddleY + float64(PADDLE_HEIGHT)/2
	offset := (ballCenter - paddleCenter) / (float64(PADDLE_HEIGHT) / 2)
	offset = min(max(offset, -1), 1)
	g.velY = offset*deflectMax + g.velY*0.25

	g.beeper.PaddleBeep()
}

// redrawMoving erases the previous paddle and ball cells, repairs the court
// decor underneath, and paints the new positions. Erasure goes through
// SetPixel so already-dark cells stay untouched and keep their fade tails.
func (g *Pong) redrawMoving(now time.Duration) {
	g.fillCells(PADDLE_MARGIN, g.prevLeftY, PADDLE_WIDTH, PADDLE_HEIGHT, false, now)
	g.fillCells(FIELD_WIDTH-PADDLE_MARGIN-PADDLE_WIDTH, g.prevRightY, PADDLE_WIDTH, PADDLE_HEIGHT, false, now)
	g.fillCells(g.prevBallX, g.prevBallY, BALL_SIZE, BALL_SIZE, false, now)

	g.drawCourt(now)

	lY := int(g.leftY)
	rY := int(g.rightY)
	bX := int(g.ballX)
	bY := int(g.ballY)
	g.fillCells(PADDLE_MARGIN, lY, PADDLE_WIDTH, PADDLE_HEIGHT, true, now)
	g.fillCells(FIELD_WIDTH-PADDLE_MARGIN-PADDLE_WIDTH, rY, PADDLE_WIDTH, PADDLE_HEIGHT, true, now)
	if g.state != GAME_OVER {
		g.fillCells(bX, bY, BALL_SIZE, BALL_SIZE, true, now)
	}

	g.prevLeftY = lY
	g.prevRightY = rY
	g.prevBallX = bX
	g.prevBallY = bY
}

// HandleKey consumes one input byte. Arrow keys arrive as ESC [ A/B
// sequences from both backends; a small state machine folds them onto the
// letter bindings.
func (g *Pong) HandleKey(b byte, now time.Duration) {
	switch g.escState {
	case 1:
		if b == '[' {
			g.escState = 2
			return
		}
		g.escState = 0
	case 2:
		g.escState = 0
		switch b {
		case 'A':
			b = 'w'
		case 'B':
			b = 's'
		default:
			return
		}
	}

	switch b {
	case 0x1B:
		g.escState = 1
	case 'w', 'W':
		g.playerDir = -1
		g.playerDirUntil = now + nudgeHold
	case 's', 'S':
		g.playerDir = 1
		g.playerDirUntil = now + nudgeHold
	case ' ', '\n':
		g.handleStart(now)
	case 'd', 'D':
		g.disp.Degauss(now)
		if g.disp.DegaussActive() {
			g.beeper.DegaussHum()
		}
	case 'm', 'M':
		g.beeper.SetMuted(!g.beeper.IsMuted())
	case 'q', 'Q':
		if g.quitFn != nil {
			g.quitFn()
		}
	}
}

func (g *Pong) handleStart(now time.Duration) {
	switch g.state {
	case GAME_ATTRACT:
		g.scoreLeft = 0
		g.scoreRight = 0
		g.disp.Clear(now)
		g.resetPositions()
		g.enterState(GAME_SERVE, now)
	case GAME_SERVE:
		g.stateAt = now - serveDelay // serve immediately
	case GAME_OVER:
		g.enterState(GAME_ATTRACT, now)
	}
}
