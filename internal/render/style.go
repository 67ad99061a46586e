package render

import (
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// Chart styling. Sizes are in points and scaled by the output DPI.
const (
	Title = "Single-factor Explanation Power (q-value)"

	figureInches = 8
	defaultDPI   = 100

	lineWidthPt   = 1.5
	markerSizePt  = 4
	fillAlpha     = 0.15
	gridWidthPt   = 0.8
	spineWidthPt  = 1.0
	labelPadPt    = 14
	legendLinePt  = 22
	legendGapPt   = 6
	legendRowMult = 1.5

	labelFontPt  = 16
	tickFontPt   = 14
	legendFontPt = 14
	titleFontPt  = 16

	// RadialLimit is the q-value drawn at the outer ring.
	RadialLimit = 0.70
	tickStart   = 0.10
	tickStep    = 0.10

	pointsPerInch = 72

	// vertices per grid ring and per marker
	ringSteps   = 360
	markerSteps = 16
)

// red-to-blue ramp, one per series in declaration order
var seriesHex = []string{"d73027", "fc8d59", "fee090", "91bfdb", "4575b4"}

var (
	colorBackground = drawing.ColorWhite
	colorText       = drawing.ColorBlack
	colorSpine      = drawing.ColorBlack
	colorGrid       = drawing.ColorFromHex("b0b0b0")
)

// SeriesColor returns the color of the i-th series; colors repeat past the
// end of the palette.
func SeriesColor(i int) drawing.Color {
	if i < 0 {
		i = -i
	}
	return drawing.ColorFromHex(seriesHex[i%len(seriesHex)])
}

func withAlpha(c drawing.Color, alpha float64) drawing.Color {
	c.A = uint8(alpha*255 + 0.5)
	return c
}
