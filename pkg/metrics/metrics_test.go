package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMetricsManagerCreation(t *testing.T) {
	Convey("Given metrics manager creation", t, func() {
		Convey("When creating with a private registry", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(WithPrometheusRegistry(registry))

			Convey("Then it should register its collectors there", func() {
				So(manager, ShouldNotBeNil)
				manager.RecordSave()
				families, err := registry.Gather()
				So(err, ShouldBeNil)
				So(len(families), ShouldBeGreaterThan, 0)
			})
		})

		Convey("When creating with custom options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace("test"),
				WithSubsystem("radar"),
				WithHistogramBuckets([]float64{1, 10, 100}),
				WithConstLabels(map[string]string{"env": "test"}),
				WithPrometheusRegistry(registry),
			)
			manager.RecordSave()
			manager.RecordHTTPRequest("/chart.png", "GET", "200", 3)

			Convey("Then metric names and labels should follow them", func() {
				families, err := registry.Gather()
				So(err, ShouldBeNil)
				var found bool
				for _, f := range families {
					if f.GetName() == "test_radar_saves_total" {
						found = true
						So(f.GetMetric()[0].GetLabel()[0].GetName(), ShouldEqual, "env")
					}
				}
				So(found, ShouldBeTrue)
			})

			Convey("And the subsystem should only rename the chart metrics", func() {
				families, err := registry.Gather()
				So(err, ShouldBeNil)
				names := make([]string, 0, len(families))
				for _, f := range families {
					names = append(names, f.GetName())
				}
				So(names, ShouldContain, "test_http_requests_total")
				So(names, ShouldNotContain, "test_radar_requests_total")
			})
		})
	})
}

func TestMetricsRecording(t *testing.T) {
	Convey("Given a manager on a private registry", t, func() {
		m := NewManager(WithPrometheusRegistry(prometheus.NewRegistry()))

		Convey("When recording renders", func() {
			m.RecordRender("png", 12.5, 40_000)
			m.RecordRender("png", 8.0, 41_000)
			m.RecordRender("svg", 3.0, 9_000)

			Convey("Then counters should be tracked per format", func() {
				So(testutil.ToFloat64(m.renders.WithLabelValues("png")), ShouldEqual, 2.0)
				So(testutil.ToFloat64(m.renders.WithLabelValues("svg")), ShouldEqual, 1.0)
			})

			Convey("And the size gauge should hold the last value", func() {
				So(testutil.ToFloat64(m.renderBytes.WithLabelValues("png")), ShouldEqual, 41_000.0)
			})
		})

		Convey("When recording errors and cache hits", func() {
			m.RecordRenderError("svg")
			m.RecordCacheHit("png")
			m.RecordCacheHit("png")
			m.RecordError("chart", "GET", "server_error", "high")

			So(testutil.ToFloat64(m.renderErrors.WithLabelValues("svg")), ShouldEqual, 1.0)
			So(testutil.ToFloat64(m.cacheHits.WithLabelValues("png")), ShouldEqual, 2.0)
			So(testutil.ToFloat64(m.errorRateByType.WithLabelValues("server_error", "high")), ShouldEqual, 1.0)
			So(testutil.ToFloat64(m.errorRateByEndpoint.WithLabelValues("chart", "GET", "server_error")), ShouldEqual, 1.0)
		})

		Convey("When recording HTTP requests and system gauges", func() {
			m.RecordHTTPRequest("dataset", "GET", "200", 1.5)
			m.UpdateSystem(1<<20, 12)

			So(testutil.ToFloat64(m.httpRequests.WithLabelValues("dataset", "GET", "200")), ShouldEqual, 1.0)
			So(testutil.ToFloat64(m.systemMemoryUsage), ShouldEqual, float64(1<<20))
			So(testutil.ToFloat64(m.systemGoroutineCount), ShouldEqual, 12.0)
		})
	})
}

func TestGlobalRecorders(t *testing.T) {
	Convey("Given the global manager", t, func() {
		Convey("Then the package-level recorders should not panic", func() {
			So(func() {
				RecordRender("png", 10, 1024)
				RecordRenderError("png")
				RecordCacheHit("png")
				RecordSave()
				RecordHTTPRequest("healthz", "GET", "200", 0.5)
				RecordError("chart", "GET", "client_error", "medium")
				UpdateSystem(1024, 4)
			}, ShouldNotPanic)
		})

		Convey("And the custom registry should expose them", func() {
			families, err := GetRegistry().Gather()
			So(err, ShouldBeNil)
			So(len(families), ShouldBeGreaterThan, 0)
		})
	})
}
