package render_test

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"math"
	"strings"
	"testing"

	chart "github.com/wcharczuk/go-chart/v2"

	"github.com/okian/qradar/internal/domain/polar"
	"github.com/okian/qradar/internal/domain/qvalue"
	"github.com/okian/qradar/internal/render"
	. "github.com/smartystreets/goconvey/convey"
)

func TestRenderer_PNG(t *testing.T) {
	Convey("Given a renderer with the default canvas", t, func() {
		r, err := render.New()
		So(err, ShouldBeNil)

		Convey("When rendering the built-in dataset as PNG", func() {
			var buf bytes.Buffer
			err := r.Render(context.Background(), qvalue.Default(), render.FormatPNG, &buf)
			So(err, ShouldBeNil)

			img, decodeErr := png.Decode(&buf)

			Convey("Then it should decode to an 800x800 image", func() {
				So(decodeErr, ShouldBeNil)
				So(img.Bounds().Dx(), ShouldEqual, 800)
				So(img.Bounds().Dy(), ShouldEqual, 800)
			})

			Convey("And the corner should be the white background", func() {
				cr, cg, cb, ca := img.At(2, 2).RGBA()
				So([]uint32{cr, cg, cb, ca}, ShouldResemble, []uint32{0xffff, 0xffff, 0xffff, 0xffff})
			})

			Convey("And the outer spine should be round", func() {
				So(decodeErr, ShouldBeNil)
				p := r.Layout().Projection
				for _, deg := range []float64{0, 45, 135, 225, 315} {
					d := firstDarkRadius(img, p.CenterX, p.CenterY, deg*math.Pi/180, 0.95*p.Radius, 1.1*p.Radius)
					So(d, ShouldAlmostEqual, p.Radius, 2.0)
				}
			})

			Convey("And the area near the centre should be tinted by the series fills", func() {
				x, y := r.Layout().Projection.Point(math.Pi/5, 0.05)
				cr, cg, cb, _ := img.At(int(math.Round(x)), int(math.Round(y))).RGBA()
				So(cr == 0xffff && cg == 0xffff && cb == 0xffff, ShouldBeFalse)
			})
		})
	})

	Convey("Given a renderer with a custom size and DPI", t, func() {
		r, err := render.New(render.WithSize(400, 300), render.WithDPI(72))
		So(err, ShouldBeNil)

		Convey("When rendering as PNG", func() {
			var buf bytes.Buffer
			So(r.Render(context.Background(), qvalue.Default(), render.FormatPNG, &buf), ShouldBeNil)

			Convey("Then the image should have the custom size", func() {
				img, err := png.Decode(&buf)
				So(err, ShouldBeNil)
				So(img.Bounds().Dx(), ShouldEqual, 400)
				So(img.Bounds().Dy(), ShouldEqual, 300)
			})
		})
	})
}

// firstDarkRadius walks outward from (cx, cy) along the screen angle phi and
// returns the distance of the first near-black pixel, or -1.
func firstDarkRadius(img image.Image, cx, cy, phi, from, to float64) float64 {
	for d := from; d <= to; d += 0.5 {
		x := int(math.Round(cx + d*math.Cos(phi)))
		y := int(math.Round(cy - d*math.Sin(phi)))
		cr, cg, cb, _ := img.At(x, y).RGBA()
		if cr < 0x8000 && cg < 0x8000 && cb < 0x8000 {
			return d
		}
	}
	return -1
}

func TestRenderer_SVG(t *testing.T) {
	Convey("Given a renderer", t, func() {
		r, err := render.New()
		So(err, ShouldBeNil)

		Convey("When rendering as SVG", func() {
			var buf bytes.Buffer
			err := r.Render(context.Background(), qvalue.Default(), render.FormatSVG, &buf)

			Convey("Then it should produce an SVG document with the labels", func() {
				So(err, ShouldBeNil)
				out := buf.String()
				So(out, ShouldContainSubstring, "<svg")
				So(out, ShouldContainSubstring, "Single-factor Explanation Power")
				for _, label := range []string{"X1", "X5", "0.10", "0.70", "1982", "2022"} {
					So(out, ShouldContainSubstring, label)
				}
			})

			Convey("And every path should have drawing commands", func() {
				So(err, ShouldBeNil)
				So(buf.String(), ShouldNotContainSubstring, `d=""`)
			})

			Convey("And fills should carry go-chart's one-decimal alpha", func() {
				So(err, ShouldBeNil)
				So(buf.String(), ShouldContainSubstring, "rgba(215,48,39,0.1)")
			})
		})
	})
}

func TestRenderer_Errors(t *testing.T) {
	Convey("Given a renderer", t, func() {
		r, err := render.New()
		So(err, ShouldBeNil)
		var buf bytes.Buffer

		Convey("When the format is unknown", func() {
			err := r.Render(context.Background(), qvalue.Default(), render.Format("gif"), &buf)
			So(errors.Is(err, render.ErrUnsupportedFormat), ShouldBeTrue)
		})

		Convey("When the dataset is malformed", func() {
			ds := qvalue.Default()
			ds.Series[2].Values = ds.Series[2].Values[:4]
			err := r.Render(context.Background(), ds, render.FormatPNG, &buf)

			Convey("Then it should report both the render and dataset error kinds", func() {
				So(errors.Is(err, render.ErrInvalidDataset), ShouldBeTrue)
				So(errors.Is(err, qvalue.ErrLengthMismatch), ShouldBeTrue)
				So(buf.Len(), ShouldEqual, 0)
			})
		})

		Convey("When the context is already cancelled", func() {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			err := r.Render(ctx, qvalue.Default(), render.FormatPNG, &buf)
			So(errors.Is(err, context.Canceled), ShouldBeTrue)
		})
	})
}

func TestRenderer_Font(t *testing.T) {
	Convey("Given go-chart's default font", t, func() {
		f, err := chart.GetDefaultFont()
		So(err, ShouldBeNil)

		Convey("When building a renderer with it", func() {
			r, err := render.New(render.WithFont(f))
			So(err, ShouldBeNil)

			Convey("Then rendering should still succeed", func() {
				var buf bytes.Buffer
				So(r.Render(context.Background(), qvalue.Default(), render.FormatSVG, &buf), ShouldBeNil)
				So(buf.Len(), ShouldBeGreaterThan, 0)
			})
		})
	})
}

func TestLayout(t *testing.T) {
	Convey("Given the default layout", t, func() {
		l := render.NewLayout(render.DefaultWidth, render.DefaultHeight, render.DefaultDPI)
		p := l.Projection

		Convey("Then the radial limit should be 0.70", func() {
			So(p.RMax, ShouldEqual, render.RadialLimit)
		})

		Convey("And the tick labels should sit on the upward spoke", func() {
			ticks, xs, ys := l.TickAnchors()
			So(len(ticks), ShouldEqual, 7)
			for i := range ticks {
				So(xs[i], ShouldAlmostEqual, p.CenterX, 1e-9)
				So(ys[i], ShouldBeLessThan, p.CenterY)
			}
			So(ys[6], ShouldAlmostEqual, p.CenterY-p.Radius, 1e-9)
		})

		Convey("And factor labels should sit outside the outer ring", func() {
			for _, theta := range polar.Angles(5) {
				x, y := l.LabelAnchor(theta)
				So(math.Hypot(x-p.CenterX, y-p.CenterY), ShouldBeGreaterThan, p.Radius)
			}
		})

		Convey("And the legend rows should clear the ring", func() {
			So(l.LegendX, ShouldBeGreaterThan, p.CenterX)
			bottom := l.LegendY + 5*l.LegendRowHeight()
			dy := p.CenterY - bottom
			reach := p.CenterX + math.Sqrt(math.Max(0, p.Radius*p.Radius-dy*dy))
			So(l.LegendX, ShouldBeGreaterThan, reach)
		})

		Convey("And the title should be above the plot", func() {
			So(l.TitleY, ShouldBeLessThan, p.CenterY-p.Radius)
		})
	})
}

func TestFormat(t *testing.T) {
	Convey("Given format names", t, func() {
		f, err := render.ParseFormat(" PNG ")
		So(err, ShouldBeNil)
		So(f, ShouldEqual, render.FormatPNG)

		_, err = render.ParseFormat("jpeg")
		So(errors.Is(err, render.ErrUnsupportedFormat), ShouldBeTrue)
	})

	Convey("Given file paths", t, func() {
		f, err := render.FormatFromPath("out/radar_chart.svg")
		So(err, ShouldBeNil)
		So(f, ShouldEqual, render.FormatSVG)

		_, err = render.FormatFromPath("radar_chart")
		So(errors.Is(err, render.ErrUnsupportedFormat), ShouldBeTrue)
	})

	Convey("Given content types", t, func() {
		So(render.FormatPNG.ContentType(), ShouldEqual, "image/png")
		So(strings.HasPrefix(render.FormatSVG.ContentType(), "image/svg"), ShouldBeTrue)
	})
}

func TestSeriesColor(t *testing.T) {
	Convey("Given the palette", t, func() {
		first := render.SeriesColor(0)
		So(first.R, ShouldEqual, uint8(0xd7))
		So(first.G, ShouldEqual, uint8(0x30))
		So(first.B, ShouldEqual, uint8(0x27))
		So(render.SeriesColor(5), ShouldResemble, first)
	})
}
