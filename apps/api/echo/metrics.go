package echoapi

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/trezcool/eduscan/core/attendance"
)

const metricsNamespace = "eduscan"

type metrics struct {
	registry     *prometheus.Registry
	scans        *prometheus.CounterVec
	scanDuration prometheus.Histogram
}

func newMetrics() *metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(prometheus.NewGoCollector())
	factory := promauto.With(reg)

	return &metrics{
		registry: reg,
		scans: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "scans_total",
			Help:      "Number of barcode scans handled, by direction and outcome.",
		}, []string{"direction", "outcome"}),
		scanDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "scan_duration_seconds",
			Help:      "Time spent handling a barcode scan.",
			Buckets:   prometheus.DefBuckets,
		}),
	}
}

func (m *metrics) observeScan(dir attendance.Direction, res attendance.ScanResult, seconds float64) {
	outcome := res.Reason
	if res.OK {
		outcome = res.Status.String()
	}
	m.scans.WithLabelValues(string(dir), outcome).Inc()
	m.scanDuration.Observe(seconds)
}

func (m *metrics) handler() echo.HandlerFunc {
	return echo.WrapHandler(promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))
}
