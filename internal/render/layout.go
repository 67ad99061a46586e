package render

import (
	"math"

	"github.com/okian/qradar/internal/domain/polar"
)

// Fractions of the canvas used to place the plot, title and legend. They
// leave room for the factor labels around the ring and keep the legend clear
// of the polygon in the upper right corner.
const (
	radiusFrac  = 0.34
	centerXFrac = 0.46
	centerYFrac = 0.54
	titleYFrac  = 0.07
	legendXFrac = 0.80
	legendYFrac = 0.11
)

// Layout is the pixel geometry of one chart.
type Layout struct {
	Width, Height int
	DPI           float64

	// Projection maps (theta, q-value) to pixels.
	Projection polar.Projection

	// TitleY is the title baseline; the title is centred on the plot.
	TitleY float64
	// LegendX, LegendY is the top-left corner of the first legend row.
	LegendX, LegendY float64
}

// NewLayout computes the layout for a canvas of the given size.
func NewLayout(width, height int, dpi float64) Layout {
	w, h := float64(width), float64(height)
	side := math.Min(w, h)
	return Layout{
		Width:      width,
		Height:     height,
		DPI:        dpi,
		Projection: polar.NewProjection(w*centerXFrac, h*centerYFrac, side*radiusFrac, RadialLimit),
		TitleY:     h * titleYFrac,
		LegendX:    w * legendXFrac,
		LegendY:    h * legendYFrac,
	}
}

// Px converts points to pixels at the layout's DPI.
func (l Layout) Px(pt float64) float64 {
	return pt * l.DPI / pointsPerInch
}

// LabelAnchor returns where the label for the spoke at theta is centred.
func (l Layout) LabelAnchor(theta float64) (x, y float64) {
	return l.Projection.PointPx(theta, l.Projection.Radius+l.Px(labelPadPt))
}

// TickAnchors returns the centre of each radial tick label. The labels sit on
// the theta = 0 spoke where it crosses each grid ring.
func (l Layout) TickAnchors() (ticks []float64, xs, ys []float64) {
	ticks = polar.Ticks(tickStart, RadialLimit, tickStep)
	xs = make([]float64, len(ticks))
	ys = make([]float64, len(ticks))
	for i, t := range ticks {
		xs[i], ys[i] = l.Projection.Point(0, t)
	}
	return ticks, xs, ys
}

// LegendRowHeight is the vertical distance between legend entries.
func (l Layout) LegendRowHeight() float64 {
	return l.Px(legendFontPt * legendRowMult)
}
