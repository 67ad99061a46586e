// Package polar holds the angle arithmetic behind radar charts: evenly spaced
// spokes, closed polygons and the mapping from (theta, r) to pixels.
package polar

import (
	"fmt"
	"math"
)

// tickEpsilon absorbs float drift when stepping through radial ticks.
const tickEpsilon = 1e-9

// Direction is the sense in which theta grows on screen.
type Direction int

// Directions.
const (
	Clockwise        Direction = -1
	CounterClockwise Direction = 1
)

// Angles returns n angles evenly spaced over [0, 2π), endpoint excluded.
func Angles(n int) []float64 {
	if n <= 0 {
		return nil
	}
	out := make([]float64, n)
	step := 2 * math.Pi / float64(n)
	for i := range out {
		out[i] = float64(i) * step
	}
	return out
}

// Close returns a copy of xs with its first element appended.
func Close[T any](xs []T) []T {
	if len(xs) == 0 {
		return nil
	}
	out := make([]T, 0, len(xs)+1)
	out = append(out, xs...)
	return append(out, xs[0])
}

// Degrees converts radians to degrees.
func Degrees(rad float64) float64 { return rad * 180 / math.Pi }

// Ticks returns start, start+step, ... up to and including stop.
func Ticks(start, stop, step float64) []float64 {
	if step <= 0 || stop < start {
		return nil
	}
	n := int(math.Floor((stop-start)/step+tickEpsilon)) + 1
	out := make([]float64, n)
	for i := range out {
		// strip float drift so 0.1+2*0.1 compares equal to 0.3
		out[i] = math.Round((start+float64(i)*step)*1e9) / 1e9
	}
	return out
}

// TickLabel formats a radial tick the way the chart prints it.
func TickLabel(v float64) string { return fmt.Sprintf("%.2f", v) }

// Projection maps data-space polar coordinates onto a pixel canvas whose y
// axis grows downward.
type Projection struct {
	CenterX, CenterY float64
	// Radius is the pixel length of RMax.
	Radius float64
	// RMax is the data value drawn at the outer ring.
	RMax float64
	// Offset is where theta = 0 points, in standard math orientation.
	Offset    float64
	Direction Direction
}

// Option applies a configuration option to a Projection.
type Option func(*Projection)

// WithOffset sets where theta = 0 points.
func WithOffset(rad float64) Option {
	return func(p *Projection) { p.Offset = rad }
}

// WithDirection sets the sense in which theta grows.
func WithDirection(d Direction) Option {
	return func(p *Projection) {
		if d == Clockwise || d == CounterClockwise {
			p.Direction = d
		}
	}
}

// NewProjection returns a projection centred on (cx, cy). By default zero
// points up and theta grows clockwise.
func NewProjection(cx, cy, radius, rmax float64, opts ...Option) Projection {
	p := Projection{
		CenterX:   cx,
		CenterY:   cy,
		Radius:    radius,
		RMax:      rmax,
		Offset:    math.Pi / 2,
		Direction: Clockwise,
	}
	for _, opt := range opts {
		opt(&p)
	}
	return p
}

// Scale converts a data radius to pixels, clamped to [0, RMax].
func (p Projection) Scale(r float64) float64 {
	if p.RMax <= 0 || math.IsNaN(r) {
		return 0
	}
	r = math.Max(0, math.Min(p.RMax, r))
	return r / p.RMax * p.Radius
}

// ScreenAngle returns the math-orientation angle theta is drawn at.
func (p Projection) ScreenAngle(theta float64) float64 {
	return p.Offset + float64(p.Direction)*theta
}

// Point returns the pixel position of (theta, r).
func (p Projection) Point(theta, r float64) (x, y float64) {
	return p.PointPx(theta, p.Scale(r))
}

// PointPx returns the pixel position at theta, px pixels from the centre.
// It is used for decorations placed beyond the outer ring.
func (p Projection) PointPx(theta, px float64) (x, y float64) {
	phi := p.ScreenAngle(theta)
	return p.CenterX + px*math.Cos(phi), p.CenterY - px*math.Sin(phi)
}

// Polygon projects values at the matching angles and closes the ring.
func (p Projection) Polygon(angles, values []float64) ([][2]float64, error) {
	if len(angles) != len(values) {
		return nil, fmt.Errorf("%d angles for %d values: %w", len(angles), len(values), ErrLengthMismatch)
	}
	pts := make([][2]float64, len(values))
	for i := range values {
		x, y := p.Point(angles[i], values[i])
		pts[i] = [2]float64{x, y}
	}
	return Close(pts), nil
}
