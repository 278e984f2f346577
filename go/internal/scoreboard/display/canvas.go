// Package display paints scoreboard snapshots onto an LED matrix.
//
// The render loop only ever reads snapshots; it never mutates the board.
// Hardware drivers plug in through Panel and Canvas. MemoryPanel is the
// in-process implementation used by the server binary and the tests.
package display

import (
	"github.com/mcdev12/scoreboard/go/internal/scoreboard"
)

// SnapshotSource hands the renderer the latest published snapshot.
// *scoreboard.Store satisfies it.
type SnapshotSource interface {
	Snapshot() scoreboard.Snapshot
}

// Font names a bitmap font by its BDF file stem.
type Font string

const (
	FontScore Font = "10x20"
	FontClock Font = "7x13B"
)

// Width is the advance of one glyph in pixels.
func (f Font) Width() int {
	switch f {
	case FontScore:
		return 10
	case FontClock:
		return 7
	default:
		return 0
	}
}

// Canvas is one frame buffer. Coordinates outside the canvas are ignored.
type Canvas interface {
	Width() int
	Height() int
	Fill(c scoreboard.RGB)
	SetPixel(x, y int, c scoreboard.RGB)
	DrawLine(x0, y0, x1, y1 int, c scoreboard.RGB)
	// DrawText draws text with its baseline at y and returns the advance.
	DrawText(font Font, x, y int, c scoreboard.RGB, text string) int
}

// Panel owns the frame buffers of a matrix.
type Panel interface {
	// CreateFrameCanvas returns an off-screen canvas to draw into.
	CreateFrameCanvas() Canvas
	// SwapOnVSync shows c and returns the canvas to draw the next frame in.
	SwapOnVSync(c Canvas) Canvas
}
