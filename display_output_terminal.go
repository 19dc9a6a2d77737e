// display_output_terminal.go - ANSI half-block terminal presentation backend
//
// Renders the RGBA frame into a true-colour terminal using U+2580 upper
// half blocks, two frame rows per character cell. Stdin is switched to raw
// non-blocking mode so game keys arrive byte-by-byte; Stop restores it.

package main

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"syscall"
	"time"

	"golang.org/x/term"
)

type TerminalOutput struct {
	mu          sync.RWMutex
	started     bool
	config      DisplayConfig
	frame       []byte
	frameCount  uint64
	refreshRate int

	keyHandler func(byte)

	stopCh   chan struct{}
	done     chan struct{}
	stopped  sync.Once
	fd       int
	oldState *term.State
	nonblock bool

	cols int
	rows int
}

func NewTerminalOutput() (VideoOutput, error) {
	return &TerminalOutput{
		config:      DisplayConfig{Width: DISPLAY_WIDTH, Height: DISPLAY_HEIGHT},
		frame:       make([]byte, DISPLAY_WIDTH*DISPLAY_HEIGHT*4),
		refreshRate: 30, // terminals choke well before 60Hz full redraws
	}, nil
}

func (to *TerminalOutput) Start() error {
	to.mu.Lock()
	defer to.mu.Unlock()
	if to.started {
		return nil
	}

	to.fd = int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(to.fd)
	if err != nil {
		return &DisplayError{Operation: "terminal start", Details: "failed to set raw mode", Err: err}
	}
	to.oldState = oldState

	if err := syscall.SetNonblock(to.fd, true); err != nil {
		_ = term.Restore(to.fd, to.oldState)
		to.oldState = nil
		return &DisplayError{Operation: "terminal start", Details: "failed to set nonblocking stdin", Err: err}
	}
	to.nonblock = true

	cols, rows, err := term.GetSize(to.fd)
	if err != nil || cols <= 0 || rows <= 0 {
		cols, rows = 80, 24
	}
	to.cols = cols
	to.rows = rows - 1 // keep the last line for the shell

	fmt.Print("\x1b[?25l\x1b[2J") // hide cursor, clear screen

	to.stopCh = make(chan struct{})
	to.done = make(chan struct{})
	to.stopped = sync.Once{}
	to.started = true

	go to.readKeys()
	go to.presentLoop()
	return nil
}

func (to *TerminalOutput) Stop() error {
	to.mu.Lock()
	if !to.started {
		to.mu.Unlock()
		return nil
	}
	to.started = false
	to.mu.Unlock()

	to.stopped.Do(func() {
		close(to.stopCh)
	})
	<-to.done

	if to.nonblock {
		_ = syscall.SetNonblock(to.fd, false)
		to.nonblock = false
	}
	if to.oldState != nil {
		_ = term.Restore(to.fd, to.oldState)
		to.oldState = nil
	}
	fmt.Print("\x1b[?25h\x1b[0m\n") // cursor back, attributes off
	return nil
}

func (to *TerminalOutput) Close() error {
	return to.Stop()
}

func (to *TerminalOutput) IsStarted() bool {
	to.mu.RLock()
	defer to.mu.RUnlock()
	return to.started
}

func (to *TerminalOutput) SetDisplayConfig(config DisplayConfig) error {
	to.mu.Lock()
	defer to.mu.Unlock()
	if config.Width <= 0 || config.Height <= 0 {
		return &DisplayError{
			Operation: "terminal config",
			Details:   fmt.Sprintf("invalid dimensions %dx%d", config.Width, config.Height),
		}
	}
	to.config = config
	newSize := config.Width * config.Height * 4
	if len(to.frame) != newSize {
		to.frame = make([]byte, newSize)
	}
	return nil
}

func (to *TerminalOutput) GetDisplayConfig() DisplayConfig {
	to.mu.RLock()
	defer to.mu.RUnlock()
	return to.config
}

func (to *TerminalOutput) UpdateFrame(buffer []byte) error {
	to.mu.Lock()
	copy(to.frame, buffer)
	to.frameCount++
	to.mu.Unlock()
	return nil
}

func (to *TerminalOutput) GetFrameCount() uint64 {
	to.mu.RLock()
	defer to.mu.RUnlock()
	return to.frameCount
}

func (to *TerminalOutput) GetRefreshRate() int {
	return to.refreshRate
}

func (to *TerminalOutput) SetKeyHandler(fn func(byte)) {
	to.mu.Lock()
	to.keyHandler = fn
	to.mu.Unlock()
}

func (to *TerminalOutput) readKeys() {
	buf := make([]byte, 1)
	for {
		select {
		case <-to.stopCh:
			return
		default:
		}

		n, err := syscall.Read(to.fd, buf)
		if n > 0 {
			b := buf[0]
			// Raw mode sends CR for Enter and DEL for Backspace.
			if b == '\r' {
				b = '\n'
			}
			if b == 0x7F {
				b = 0x08
			}
			to.mu.RLock()
			handler := to.keyHandler
			to.mu.RUnlock()
			if handler != nil {
				handler(b)
			}
		}
		if err == syscall.EAGAIN || err == syscall.EWOULDBLOCK || n == 0 {
			time.Sleep(5 * time.Millisecond)
			continue
		}
		if err != nil {
			return
		}
	}
}

func (to *TerminalOutput) presentLoop() {
	defer close(to.done)
	ticker := time.NewTicker(time.Second / time.Duration(to.refreshRate))
	defer ticker.Stop()
	for {
		select {
		case <-to.stopCh:
			return
		case <-ticker.C:
			to.present()
		}
	}
}

// present maps the frame onto cols x (2*rows) samples, one half block per
// character cell, nearest-neighbour. Everything is batched into one write
// to keep tearing down.
func (to *TerminalOutput) present() {
	to.mu.RLock()
	w := to.config.Width
	h := to.config.Height
	frame := to.frame
	cols := to.cols
	rows := to.rows
	to.mu.RUnlock()
	if w <= 0 || h <= 0 || cols <= 0 || rows <= 0 {
		return
	}

	var sb strings.Builder
	sb.Grow(cols * rows * 24)
	sb.WriteString("\x1b[H")
	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			tr, tg, tb := samplePixel(frame, w, h, col, row*2, cols, rows*2)
			br, bg, bb := samplePixel(frame, w, h, col, row*2+1, cols, rows*2)
			fmt.Fprintf(&sb, "\x1b[38;2;%d;%d;%dm\x1b[48;2;%d;%d;%dm▀", tr, tg, tb, br, bg, bb)
		}
		sb.WriteString("\x1b[0m\r\n")
	}
	os.Stdout.WriteString(sb.String())
}

func samplePixel(frame []byte, w, h, sx, sy, gridW, gridH int) (byte, byte, byte) {
	px := sx * w / gridW
	py := sy * h / gridH
	i := (py*w + px) * 4
	if i < 0 || i+2 >= len(frame) {
		return 0, 0, 0
	}
	return frame[i], frame[i+1], frame[i+2]
}
