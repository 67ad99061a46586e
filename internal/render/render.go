// Package render draws the q-value radar chart onto go-chart renderers,
// producing PNG or SVG output.
package render

import (
	"context"
	"fmt"
	"io"
	"math"

	"github.com/golang/freetype/truetype"
	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
	"golang.org/x/image/font/gofont/gobold"

	"github.com/okian/qradar/internal/domain/polar"
	"github.com/okian/qradar/internal/domain/qvalue"
)

// Default canvas: an 8x8 inch figure at 100 DPI.
const (
	DefaultWidth  = figureInches * defaultDPI
	DefaultHeight = figureInches * defaultDPI
	DefaultDPI    = defaultDPI
)

// Option applies a configuration option to the Renderer.
type Option func(*Renderer)

// WithSize sets the canvas size in pixels.
func WithSize(width, height int) Option {
	return func(r *Renderer) {
		if width > 0 && height > 0 {
			r.width = width
			r.height = height
		}
	}
}

// WithDPI sets the resolution used to scale point sizes.
func WithDPI(dpi float64) Option {
	return func(r *Renderer) {
		if dpi > 0 {
			r.dpi = dpi
		}
	}
}

// WithFont replaces the bold face used for all text.
func WithFont(f *truetype.Font) Option {
	return func(r *Renderer) {
		if f != nil {
			r.font = f
		}
	}
}

// Renderer draws radar charts. It is safe for concurrent use; every call to
// Render gets its own go-chart renderer.
type Renderer struct {
	width, height int
	dpi           float64
	font          *truetype.Font
}

// New creates a Renderer with the default canvas and Go Bold as its face.
// go-chart's default font is used if Go Bold cannot be parsed.
func New(opts ...Option) (*Renderer, error) {
	r := &Renderer{
		width:  DefaultWidth,
		height: DefaultHeight,
		dpi:    DefaultDPI,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.font == nil {
		f, err := loadBold()
		if err != nil {
			return nil, fmt.Errorf("load font: %w", err)
		}
		r.font = f
	}
	return r, nil
}

func loadBold() (*truetype.Font, error) {
	if f, err := truetype.Parse(gobold.TTF); err == nil {
		return f, nil
	}
	return chart.GetDefaultFont()
}

// Size returns the canvas size in pixels.
func (r *Renderer) Size() (width, height int) { return r.width, r.height }

// DPI returns the output resolution.
func (r *Renderer) DPI() float64 { return r.dpi }

// Layout returns the geometry Render uses.
func (r *Renderer) Layout() Layout { return NewLayout(r.width, r.height, r.dpi) }

// Render validates ds, draws the chart and writes it to w in the given format.
func (r *Renderer) Render(ctx context.Context, ds qvalue.Dataset, format Format, w io.Writer) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("render cancelled: %w", err)
	}
	if err := ds.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidDataset, err)
	}
	provider, err := format.provider()
	if err != nil {
		return err
	}
	out, err := provider(r.width, r.height)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrRender, err)
	}
	out.SetDPI(r.dpi)

	c := &canvas{
		out:    out,
		layout: r.Layout(),
		font:   r.font,
		angles: polar.Angles(len(ds.Factors)),
	}
	c.background()
	if err := c.fills(ds); err != nil {
		return err
	}
	c.grid()
	if err := c.lines(ds); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("render cancelled: %w", err)
	}
	c.factorLabels(ds)
	c.tickLabels()
	c.legend(ds)
	c.title()

	if err := out.Save(w); err != nil {
		return fmt.Errorf("%w: encode %s: %w", ErrRender, format, err)
	}
	return nil
}

// canvas carries the state of one Render call.
type canvas struct {
	out    chart.Renderer
	layout Layout
	font   *truetype.Font
	angles []float64
}

func (c *canvas) px(pt float64) float64 { return c.layout.Px(pt) }

func (c *canvas) path(pts [][2]float64) {
	for i, p := range pts {
		x, y := round(p[0]), round(p[1])
		if i == 0 {
			c.out.MoveTo(x, y)
			continue
		}
		c.out.LineTo(x, y)
	}
	c.out.Close()
}

// circle traces a closed polyline of the given pixel radius around (cx, cy).
// go-chart's raster Circle overshoots on the diagonals, so it is not used.
func (c *canvas) circle(cx, cy, radius float64, steps int) {
	pts := make([][2]float64, 0, steps)
	for _, phi := range polar.Angles(steps) {
		pts = append(pts, [2]float64{cx + radius*math.Cos(phi), cy - radius*math.Sin(phi)})
	}
	c.path(pts)
}

func (c *canvas) background() {
	w, h := c.layout.Width, c.layout.Height
	c.out.SetFillColor(colorBackground)
	c.out.MoveTo(0, 0)
	c.out.LineTo(w, 0)
	c.out.LineTo(w, h)
	c.out.LineTo(0, h)
	c.out.Close()
	c.out.Fill()
}

func (c *canvas) polygon(s qvalue.Series) ([][2]float64, error) {
	pts, err := c.layout.Projection.Polygon(c.angles, s.Values)
	if err != nil {
		return nil, fmt.Errorf("%w: series %s: %w", ErrRender, s.Year, err)
	}
	return pts, nil
}

// fills paints every series area first so lines and markers stay on top.
func (c *canvas) fills(ds qvalue.Dataset) error {
	for i, s := range ds.Series {
		pts, err := c.polygon(s)
		if err != nil {
			return err
		}
		c.out.SetFillColor(withAlpha(SeriesColor(i), fillAlpha))
		c.path(pts)
		c.out.Fill()
	}
	return nil
}

func (c *canvas) grid() {
	p := c.layout.Projection
	cx, cy := round(p.CenterX), round(p.CenterY)

	c.out.SetFillColor(drawing.ColorTransparent)
	c.out.SetStrokeColor(colorGrid)
	c.out.SetStrokeWidth(c.px(gridWidthPt))
	for _, t := range polar.Ticks(tickStart, RadialLimit, tickStep) {
		c.circle(p.CenterX, p.CenterY, p.Scale(t), ringSteps)
		c.out.Stroke()
	}
	for _, theta := range c.angles {
		x, y := p.Point(theta, p.RMax)
		c.out.MoveTo(cx, cy)
		c.out.LineTo(round(x), round(y))
		c.out.Stroke()
	}

	c.out.SetStrokeColor(colorSpine)
	c.out.SetStrokeWidth(c.px(spineWidthPt))
	c.circle(p.CenterX, p.CenterY, p.Radius, ringSteps)
	c.out.Stroke()
}

func (c *canvas) lines(ds qvalue.Dataset) error {
	markerRadius := c.px(markerSizePt) / 2
	for i, s := range ds.Series {
		pts, err := c.polygon(s)
		if err != nil {
			return err
		}
		col := SeriesColor(i)
		c.out.SetStrokeColor(col)
		c.out.SetStrokeWidth(c.px(lineWidthPt))
		c.path(pts)
		c.out.Stroke()

		c.out.SetFillColor(col)
		for _, pt := range pts[:len(pts)-1] {
			c.circle(pt[0], pt[1], markerRadius, markerSteps)
			c.out.FillStroke()
		}
	}
	return nil
}

// text draws body centred on (x, y).
func (c *canvas) text(body string, sizePt, x, y float64) {
	c.out.SetFont(c.font)
	c.out.SetFontColor(colorText)
	c.out.SetFontSize(sizePt)
	box := c.out.MeasureText(body)
	c.out.Text(body, round(x-float64(box.Width())/2), round(y+float64(box.Height())/2))
}

func (c *canvas) factorLabels(ds qvalue.Dataset) {
	for i, f := range ds.Factors {
		x, y := c.layout.LabelAnchor(c.angles[i])
		c.text(string(f), labelFontPt, x, y)
	}
}

func (c *canvas) tickLabels() {
	ticks, xs, ys := c.layout.TickAnchors()
	for i, t := range ticks {
		c.text(polar.TickLabel(t), tickFontPt, xs[i], ys[i])
	}
}

func (c *canvas) legend(ds qvalue.Dataset) {
	lineLen := c.px(legendLinePt)
	gap := c.px(legendGapPt)
	row := c.layout.LegendRowHeight()
	markerRadius := c.px(markerSizePt) / 2

	c.out.SetFont(c.font)
	c.out.SetFontColor(colorText)
	c.out.SetFontSize(legendFontPt)
	for i, s := range ds.Series {
		col := SeriesColor(i)
		x0 := c.layout.LegendX
		yMid := c.layout.LegendY + row*float64(i) + row/2

		c.out.SetStrokeColor(col)
		c.out.SetStrokeWidth(c.px(lineWidthPt))
		c.out.MoveTo(round(x0), round(yMid))
		c.out.LineTo(round(x0+lineLen), round(yMid))
		c.out.Stroke()

		c.out.SetFillColor(col)
		c.circle(x0+lineLen/2, yMid, markerRadius, markerSteps)
		c.out.FillStroke()

		box := c.out.MeasureText(s.Year)
		c.out.Text(s.Year, round(x0+lineLen+gap), round(yMid+float64(box.Height())/2))
	}
}

func (c *canvas) title() {
	c.text(Title, titleFontPt, c.layout.Projection.CenterX, c.layout.TitleY)
}

func round(v float64) int { return int(math.Round(v)) }
