// main.go - Main entry point for the Phosphor CRT display engine

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
	"flag"
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

func boilerPlate() {
	fmt.Println("\n\033[38;2;51;255;102m ██▓███   ██░ ██  ▒█████    ██████  ██▓███   ██░ ██  ▒█████   ██▀███\033[0m\n\033[38;2;60;240;102m▓██░  ██▒▓██░ ██▒▒██▒  ██▒▒██    ▒ ▓██░  ██▒▓██░ ██▒▒██▒  ██▒▓██ ▒ ██▒\033[0m\n\033[38;2;70;225;102m▓██░ ██▓▒▒██▀▀██░▒██░  ██▒░ ▓██▄   ▓██░ ██▓▒▒██▀▀██░▒██░  ██▒▓██ ░▄█ ▒\033[0m\n\033[38;2;80;210;102m▒██▄█▓▒ ▒░▓█ ░██ ▒██   ██░  ▒   ██▒▒██▄█▓▒ ▒░▓█ ░██ ▒██   ██░▒██▀▀█▄\033[0m\n\033[38;2;90;195;102m▒██▒ ░  ░░▓█▒░██▓░ ████▓▒░▒██████▒▒▒██▒ ░  ░░▓█▒░██▓░ ████▓▒░░██▓ ▒██▒\033[0m\n\033[38;2;100;180;102m▒▓▒░ ░  ░ ▒ ░░▒░▒░ ▒░▒░▒░ ▒ ▒▓▒ ▒ ░▒▓▒░ ░  ░ ▒ ░░▒░▒░ ▒░▒░▒░ ░ ▒▓ ░▒▓░\033[0m\n\033[38;2;110;165;102m░▒ ░      ▒ ░▒░ ░  ░ ▒ ▒░ ░ ░▒  ░ ░░▒ ░      ▒ ░▒░ ░  ░ ▒ ▒░   ░▒ ░ ▒░\033[0m\n\033[38;2;120;150;102m░░        ░  ░░ ░░ ░ ░ ▒  ░  ░  ░  ░░        ░  ░░ ░░ ░ ░ ▒    ░░   ░\033[0m\n\033[38;2;130;140;102m          ░  ░  ░    ░ ░        ░            ░  ░  ░    ░ ░     ░\033[0m")
	fmt.Println("\nA monochrome phosphor display engine with a game of table tennis burned in.")
	fmt.Println("(c) 2025 - 2026 Retrobeam Labs")
	fmt.Println("https://github.com/retrobeam/phosphor")
	fmt.Println("License: GPLv3 or later")
}

func main() {
	var (
		useTerminal bool
		scale       int
		fullscreen  bool
		startMuted  bool
		noDegauss   bool
		aiScript    string
		refreshRate int
		demoFrames  int
	)

	flagSet := flag.NewFlagSet(os.Args[0], flag.ContinueOnError)
	flagSet.SetOutput(io.Discard)
	flagSet.BoolVar(&useTerminal, "term", false, "Render to the terminal instead of a window")
	flagSet.IntVar(&scale, "scale", 1, "Integer window scale factor (1-4)")
	flagSet.BoolVar(&fullscreen, "fullscreen", false, "Start fullscreen")
	flagSet.BoolVar(&startMuted, "mute", false, "Start with sound muted")
	flagSet.BoolVar(&noDegauss, "no-degauss", false, "Disable the degauss effect on scoring")
	flagSet.StringVar(&aiScript, "ai", "", "Lua script driving the right paddle")
	flagSet.IntVar(&refreshRate, "fps", 60, "Refresh rate in Hz")
	flagSet.IntVar(&demoFrames, "frames", 0, "Render N frames headless and dump the grid as text")

	flagSet.Usage = func() {
		flagSet.SetOutput(os.Stdout)
		fmt.Println("Usage: ./phosphor [-term] [-scale N] [-fullscreen] [-mute] [-no-degauss] [-ai script.lua] [-fps N] [-frames N]")
		flagSet.PrintDefaults()
	}

	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if err == flag.ErrHelp {
			os.Exit(0)
		}
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	if !useTerminal {
		boilerPlate()
	}

	surface := NewFrameSurface(DISPLAY_WIDTH, DISPLAY_HEIGHT)
	display, err := NewPixelDisplay(surface, EMULATED_WIDTH, EMULATED_HEIGHT)
	if err != nil {
		fmt.Printf("Failed to initialize display: %v\n", err)
		os.Exit(1)
	}

	var ai AIController = NewTrackingAI()
	if aiScript != "" {
		luaAI, err := NewLuaAI(aiScript)
		if err != nil {
			fmt.Printf("Failed to load AI script: %v\n", err)
			os.Exit(1)
		}
		defer luaAI.Close()
		ai = luaAI
	}

	// Sound is best-effort: a machine with no audio device still gets a game.
	beeper, err := NewBeeper()
	if err != nil {
		fmt.Printf("Sound unavailable, continuing silent: %v\n", err)
		beeper = &Beeper{muted: true}
	}
	beeper.SetMuted(startMuted)

	game := NewPong(display, beeper, ai)
	game.SetDegaussOnScore(!noDegauss)

	if demoFrames > 0 {
		runHeadlessDemo(display, game, demoFrames)
		return
	}

	backend := VIDEO_BACKEND_EBITEN
	if useTerminal {
		backend = VIDEO_BACKEND_TERMINAL
	}
	output, err := NewVideoOutput(backend)
	if err != nil {
		fmt.Printf("Failed to initialize video: %v\n", err)
		os.Exit(1)
	}

	if err := output.SetDisplayConfig(DisplayConfig{
		Width:       DISPLAY_WIDTH,
		Height:      DISPLAY_HEIGHT,
		Scale:       scale,
		RefreshRate: refreshRate,
		VSync:       true,
		Fullscreen:  fullscreen,
	}); err != nil {
		fmt.Printf("Failed to configure video: %v\n", err)
		os.Exit(1)
	}

	quit := make(chan struct{})
	var quitOnce sync.Once
	requestQuit := func() {
		quitOnce.Do(func() { close(quit) })
	}
	game.SetQuitFunc(requestQuit)

	// Input bytes cross from the backend goroutine to the display loop
	// through a buffered channel; the tick drains it before updating.
	keys := make(chan byte, 64)
	if kc, ok := output.(KeyCapable); ok {
		kc.SetKeyHandler(func(b byte) {
			select {
			case keys <- b:
			default:
			}
		})
	}
	if sc, ok := output.(StatusCapable); ok {
		sc.SetStatusFunc(func() []statusToken {
			return []statusToken{
				{name: "SND", enabled: !beeper.IsMuted()},
				{name: "DEGAUSS", enabled: display.DegaussActive()},
			}
		})
	}
	if sn, ok := output.(SnapshotCapable); ok {
		sn.SetSnapshotFunc(func() string {
			return display.DumpASCII(0, 0, EMULATED_WIDTH, EMULATED_HEIGHT)
		})
	}
	if cn, ok := output.(CloseNotifier); ok {
		cn.SetCloseHandler(requestQuit)
	}

	display.SetTickFunc(func(now time.Duration) {
		for {
			select {
			case b := <-keys:
				game.HandleKey(b, now)
			default:
				game.Update(now)
				return
			}
		}
	})
	display.SetFrameFunc(func() {
		_ = output.UpdateFrame(surface.Pix())
	})

	if err := output.Start(); err != nil {
		fmt.Printf("Failed to start video: %v\n", err)
		os.Exit(1)
	}
	beeper.Start()
	display.Start(NewMonotonicClock(), refreshRate)

	<-quit

	display.Stop()
	beeper.Close()
	_ = output.Stop()
	_ = output.Close()
}

// runHeadlessDemo steps the match under a manual clock and prints the final
// grid, which makes smoke-testing possible on a machine with no display.
func runHeadlessDemo(display *PixelDisplay, game *Pong, frames int) {
	clock := &ManualClock{}
	clock.Set(time.Millisecond) // keep zero free as the "never" timestamp

	game.HandleKey(' ', clock.Now()) // skip attract mode
	for i := 0; i < frames; i++ {
		now := clock.Now()
		game.Update(now)
		display.Render(now)
		clock.Advance(16 * time.Millisecond)
	}
	fmt.Println(display.DumpASCII(0, 0, EMULATED_WIDTH, EMULATED_HEIGHT))
	left, right := game.Scores()
	fmt.Printf("score %d:%d after %d frames\n", left, right, frames)
}
