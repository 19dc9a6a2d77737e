// display_interface.go - Drawing surface and video output contracts for Phosphor

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
	"image/color"
)

// DisplayError provides detailed error context for display operations
type DisplayError struct {
	Operation string // What operation was being attempted
	Details   string // Additional error context
	Err       error  // Underlying error if any
}

func (e *DisplayError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("display %s failed: %s: %v", e.Operation, e.Details, e.Err)
	}
	return fmt.Sprintf("display %s failed: %s", e.Operation, e.Details)
}

// DrawSurface is the only rendering capability the pixel core knows about:
// a fill style, filled rectangles, and a fixed physical size. Tests
// substitute a FrameSurface and never touch a real backend.
type DrawSurface interface {
	SetFillStyle(c color.RGBA)
	FillRect(x, y, w, h float64)
	Size() (width, height int)
}

// DisplayConfig contains hardware-independent output configuration
type DisplayConfig struct {
	Width       int
	Height      int
	Scale       int // Integer scaling factor for output
	RefreshRate int // Target refresh rate in Hz
	VSync       bool
	Fullscreen  bool
}

// VideoOutput defines the minimal interface presentation backends implement.
// Frames arrive as raw RGBA bytes; everything else is lifecycle.
type VideoOutput interface {
	Start() error
	Stop() error
	Close() error
	IsStarted() bool

	SetDisplayConfig(config DisplayConfig) error
	GetDisplayConfig() DisplayConfig
	UpdateFrame(buffer []byte) error // Raw RGBA pixels only

	GetFrameCount() uint64
	GetRefreshRate() int
}

// Optional backend capabilities. Frontends probe for these with type
// assertions; a backend that lacks one simply loses the feature.

// KeyCapable is implemented by backends that can deliver keyboard bytes.
type KeyCapable interface {
	SetKeyHandler(fn func(byte))
}

// StatusCapable backends draw a status bar from caller-supplied tokens.
type StatusCapable interface {
	SetStatusFunc(fn func() []statusToken)
}

// SnapshotCapable backends can copy an ASCII screen dump to the clipboard.
type SnapshotCapable interface {
	SetSnapshotFunc(fn func() string)
}

// CloseNotifier backends report the user closing the presentation window.
type CloseNotifier interface {
	SetCloseHandler(fn func())
}

type statusToken struct {
	name    string
	enabled bool
}

// Predefined video backend types
const (
	VIDEO_BACKEND_EBITEN   = iota // Windowed Ebiten backend
	VIDEO_BACKEND_TERMINAL        // ANSI half-block terminal backend
)

// NewVideoOutput creates a new video output instance using the specified backend
func NewVideoOutput(backend int) (VideoOutput, error) {
	switch backend {
	case VIDEO_BACKEND_EBITEN:
		return NewEbitenOutput()
	case VIDEO_BACKEND_TERMINAL:
		return NewTerminalOutput()
	}
	return nil, &DisplayError{
		Operation: "backend creation",
		Details:   fmt.Sprintf("unknown backend type: %d", backend),
	}
}
