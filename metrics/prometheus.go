// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/bundlr/validators/log"
)

const namespace = "validators"

var logger = log.WithContext("pkg", "metrics")

// InitializePrometheusMetrics creates a new instance of the Prometheus service and
// sets the implementation as the default metrics services
func InitializePrometheusMetrics() {
	// don't allow for reset
	if _, ok := metrics.(*prometheusMetrics); !ok {
		metrics = newPrometheusMetrics()
	}
}

// Gatherer returns the registry meters are registered on, nil when metrics are disabled.
func Gatherer() prometheus.Gatherer {
	if m, ok := metrics.(*prometheusMetrics); ok {
		return m.registry
	}
	return nil
}

type prometheusMetrics struct {
	registry *prometheus.Registry

	mu     sync.Mutex
	meters map[string]any
}

func newPrometheusMetrics() *prometheusMetrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return &prometheusMetrics{
		registry: registry,
		meters:   make(map[string]any),
	}
}

// getOrCreate returns the meter registered under kind and name, creating it on first use.
func getOrCreate[T any](o *prometheusMetrics, kind, name string, create func() T) T {
	o.mu.Lock()
	defer o.mu.Unlock()

	key := kind + ":" + name
	if meter, ok := o.meters[key]; ok {
		return meter.(T)
	}
	meter := create()
	o.meters[key] = meter
	return meter
}

func (o *prometheusMetrics) register(c prometheus.Collector) {
	if err := o.registry.Register(c); err != nil {
		logger.Warn("unable to register metric", "err", err)
	}
}

func (o *prometheusMetrics) GetOrCreateHandler() http.Handler {
	return promhttp.HandlerFor(o.registry, promhttp.HandlerOpts{})
}

func (o *prometheusMetrics) GetOrCreateCountMeter(name string) CountMeter {
	return getOrCreate(o, "counter", name, func() CountMeter {
		meter := prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      name,
		})
		o.register(meter)
		return &promCountMeter{counter: meter}
	})
}

func (o *prometheusMetrics) GetOrCreateCountVecMeter(name string, labels []string) CountVecMeter {
	return getOrCreate(o, "counterVec", name, func() CountVecMeter {
		meter := prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      name,
		}, labels)
		o.register(meter)
		return &promCountVecMeter{counter: meter}
	})
}

func (o *prometheusMetrics) GetOrCreateGaugeMeter(name string) GaugeMeter {
	return getOrCreate(o, "gauge", name, func() GaugeMeter {
		meter := prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      name,
		})
		o.register(meter)
		return &promGaugeMeter{gauge: meter}
	})
}

func (o *prometheusMetrics) GetOrCreateHistogramMeter(name string, buckets []int64) HistogramMeter {
	return getOrCreate(o, "histogram", name, func() HistogramMeter {
		floatBuckets := make([]float64, 0, len(buckets))
		for _, bucket := range buckets {
			floatBuckets = append(floatBuckets, float64(bucket))
		}
		meter := prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      name,
			Buckets:   floatBuckets,
		})
		o.register(meter)
		return &promHistogramMeter{histogram: meter}
	})
}

type promCountMeter struct {
	counter prometheus.Counter
}

func (c *promCountMeter) Add(i int64) {
	c.counter.Add(float64(i))
}

type promCountVecMeter struct {
	counter *prometheus.CounterVec
}

func (c *promCountVecMeter) AddWithLabel(i int64, labels map[string]string) {
	c.counter.With(labels).Add(float64(i))
}

type promGaugeMeter struct {
	gauge prometheus.Gauge
}

func (c *promGaugeMeter) Add(i int64) {
	c.gauge.Add(float64(i))
}

func (c *promGaugeMeter) Set(i int64) {
	c.gauge.Set(float64(i))
}

type promHistogramMeter struct {
	histogram prometheus.Histogram
}

func (c *promHistogramMeter) Observe(i int64) {
	c.histogram.Observe(float64(i))
}
