// Package iometrics exposes pipeline runs as Prometheus metrics. There is
// no HTTP endpoint, metrics go to a node-exporter textfile.
package iometrics

import (
	"fmt"
	"time"

	"github.com/gnames/nemamap/pkg/pipeline"
	"github.com/prometheus/client_golang/prometheus"
)

// Collector bundles pipeline metrics.
type Collector struct {
	gatherer prometheus.Gatherer

	Observations  *prometheus.CounterVec
	Displaced     prometheus.Counter
	ShadedRegions prometheus.Gauge
	Regions       prometheus.Gauge
	Duration      prometheus.Histogram
}

// NewCollector registers metrics against reg, the global registry is
// used when reg is nil.
func NewCollector(reg prometheus.Registerer) (*Collector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	obs, err := register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "nemamap_observations_total",
		Help: "Processed nematode records by placement status.",
	}, []string{"status"}), "nemamap_observations_total")
	if err != nil {
		return nil, err
	}

	displaced, err := register(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "nemamap_displaced_points_total",
		Help: "Markers moved off coincident coordinates.",
	}), "nemamap_displaced_points_total")
	if err != nil {
		return nil, err
	}

	shaded, err := register(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "nemamap_shaded_regions",
		Help: "Regions with at least one selected record in the last run.",
	}), "nemamap_shaded_regions")
	if err != nil {
		return nil, err
	}

	regions, err := register(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "nemamap_regions",
		Help: "Loaded region polygons.",
	}), "nemamap_regions")
	if err != nil {
		return nil, err
	}

	duration, err := register(reg, prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "nemamap_recompute_duration_seconds",
		Help:    "Time of one pipeline recompute.",
		Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
	}), "nemamap_recompute_duration_seconds")
	if err != nil {
		return nil, err
	}

	return &Collector{
		gatherer:      gatherer,
		Observations:  obs,
		Displaced:     displaced,
		ShadedRegions: shaded,
		Regions:       regions,
		Duration:      duration,
	}, nil
}

// Record adds results of one recompute.
func (c *Collector) Record(st pipeline.Stats, regions int, dur time.Duration) {
	if c == nil {
		return
	}
	c.Observations.WithLabelValues("located").Add(float64(st.Located))
	c.Observations.WithLabelValues("outside").Add(float64(st.Placeable - st.Located))
	c.Observations.WithLabelValues("unplaceable").Add(float64(st.Unplaceable))
	c.Displaced.Add(float64(st.Displaced))
	c.ShadedRegions.Set(float64(st.ShadedRegions))
	c.Regions.Set(float64(regions))
	c.Duration.Observe(dur.Seconds())
}

// WriteTextfile saves current metrics in the Prometheus text format.
func (c *Collector) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, c.gatherer); err != nil {
		return WriteError(path, err)
	}
	return nil
}

func register[T prometheus.Collector](
	reg prometheus.Registerer,
	col T,
	name string,
) (T, error) {
	if err := reg.Register(col); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(T); ok {
				return existing, nil
			}
			var zero T
			return zero, fmt.Errorf(
				"collector %s already registered with incompatible type", name,
			)
		}
		var zero T
		return zero, err
	}
	return col, nil
}
