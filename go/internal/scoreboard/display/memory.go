package display

import (
	"unicode/utf8"

	"github.com/sasha-s/go-deadlock"

	"github.com/mcdev12/scoreboard/go/internal/scoreboard"
)

// TextOp is a recorded DrawText call.
type TextOp struct {
	Font  Font
	X, Y  int
	Color scoreboard.RGB
	Text  string
}

// MemoryCanvas is a software frame buffer. Pixels are stored; text is
// recorded as operations rather than rasterized.
type MemoryCanvas struct {
	width  int
	height int
	pixels []scoreboard.RGB
	texts  []TextOp
}

// NewMemoryCanvas creates a black canvas
func NewMemoryCanvas(width, height int) *MemoryCanvas {
	return &MemoryCanvas{
		width:  width,
		height: height,
		pixels: make([]scoreboard.RGB, width*height),
	}
}

func (c *MemoryCanvas) Width() int  { return c.width }
func (c *MemoryCanvas) Height() int { return c.height }

// Fill paints every pixel and discards recorded text.
func (c *MemoryCanvas) Fill(color scoreboard.RGB) {
	for i := range c.pixels {
		c.pixels[i] = color
	}
	c.texts = c.texts[:0]
}

func (c *MemoryCanvas) SetPixel(x, y int, color scoreboard.RGB) {
	if x < 0 || y < 0 || x >= c.width || y >= c.height {
		return
	}
	c.pixels[y*c.width+x] = color
}

// DrawLine draws a straight line with Bresenham's algorithm.
func (c *MemoryCanvas) DrawLine(x0, y0, x1, y1 int, color scoreboard.RGB) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	e := dx + dy

	for {
		c.SetPixel(x0, y0, color)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x0 += sx
		}
		if e2 <= dx {
			e += dx
			y0 += sy
		}
	}
}

func (c *MemoryCanvas) DrawText(font Font, x, y int, color scoreboard.RGB, text string) int {
	c.texts = append(c.texts, TextOp{Font: font, X: x, Y: y, Color: color, Text: text})
	return font.Width() * utf8.RuneCountInString(text)
}

// Pixel returns the color at (x, y), or black outside the canvas.
func (c *MemoryCanvas) Pixel(x, y int) scoreboard.RGB {
	if x < 0 || y < 0 || x >= c.width || y >= c.height {
		return scoreboard.RGB{}
	}
	return c.pixels[y*c.width+x]
}

// Texts returns the text drawn since the last Fill.
func (c *MemoryCanvas) Texts() []TextOp {
	return append([]TextOp(nil), c.texts...)
}

func (c *MemoryCanvas) clone() *MemoryCanvas {
	return &MemoryCanvas{
		width:  c.width,
		height: c.height,
		pixels: append([]scoreboard.RGB(nil), c.pixels...),
		texts:  append([]TextOp(nil), c.texts...),
	}
}

// MemoryPanel is a double-buffered panel backed by MemoryCanvas.
type MemoryPanel struct {
	mu    deadlock.Mutex
	front *MemoryCanvas
	back  *MemoryCanvas
	swaps uint64
}

// NewMemoryPanel creates a panel of the given geometry
func NewMemoryPanel(width, height int) *MemoryPanel {
	return &MemoryPanel{
		front: NewMemoryCanvas(width, height),
		back:  NewMemoryCanvas(width, height),
	}
}

func (p *MemoryPanel) CreateFrameCanvas() Canvas {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.back
}

// SwapOnVSync makes c the visible frame. c must have come from this panel.
func (p *MemoryPanel) SwapOnVSync(c Canvas) Canvas {
	p.mu.Lock()
	defer p.mu.Unlock()

	if mc, ok := c.(*MemoryCanvas); ok && mc != p.front {
		p.back = p.front
		p.front = mc
	}
	p.swaps++
	return p.back
}

// Front returns a copy of the visible frame.
func (p *MemoryPanel) Front() *MemoryCanvas {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.front.clone()
}

// Swaps returns how many frames have been shown.
func (p *MemoryPanel) Swaps() uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.swaps
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
