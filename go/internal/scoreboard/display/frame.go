package display

import (
	"strconv"

	"github.com/mcdev12/scoreboard/go/internal/scoreboard"
)

// Layout positions, tuned for a 64x32 panel. Team halves split the canvas
// at Width()/2, so wider chains keep the same shape.
const (
	clockBandRows = 12
	dividerRow    = 12
	teamTopRow    = 13

	scoreBaseline = 29
	scoreOffsetX  = 6
	nameBaseline  = scoreBaseline - 18
	nameOffsetX   = scoreOffsetX - 4
	nameMaxLength = 5

	clockX = 15
	clockY = 10
)

var (
	clockBandColor = scoreboard.RGB{R: 20, G: 20, B: 20}
	dividerColor   = scoreboard.RGB{R: 100, G: 100, B: 100}
	textColor      = scoreboard.White
)

// DrawFrame paints s onto canvas.
func DrawFrame(canvas Canvas, s scoreboard.State) {
	width, height := canvas.Width(), canvas.Height()
	half := width / 2

	canvas.Fill(s.BgColor)

	fillRect(canvas, 0, teamTopRow, half, height, s.HomeBgColor)
	fillRect(canvas, half, teamTopRow, width, height, s.AwayBgColor)
	fillRect(canvas, 0, 0, width, clockBandRows, clockBandColor)
	canvas.DrawLine(0, dividerRow, width-1, dividerRow, dividerColor)

	canvas.DrawText(FontScore, nameOffsetX, nameBaseline, textColor, scoreboard.TruncateName(s.HomeName, nameMaxLength))
	canvas.DrawText(FontScore, half+nameOffsetX, nameBaseline, textColor, scoreboard.TruncateName(s.AwayName, nameMaxLength))

	canvas.DrawText(FontScore, scoreOffsetX, scoreBaseline, textColor, strconv.Itoa(s.HomeScore))
	canvas.DrawText(FontScore, half+scoreOffsetX, scoreBaseline, textColor, strconv.Itoa(s.AwayScore))

	canvas.DrawText(FontClock, clockX, clockY, textColor, s.ClockText())
}

// fillRect paints the half-open rectangle [x0,x1) x [y0,y1).
func fillRect(canvas Canvas, x0, y0, x1, y1 int, c scoreboard.RGB) {
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			canvas.SetPixel(x, y, c)
		}
	}
}
