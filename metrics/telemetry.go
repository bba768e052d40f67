// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package metrics counts what the processor does: calls per function, reverts per kind, call
// latency, the current epoch and closed slash votings. Meters are free to use before start up
// decides whether they are exported; until InitializePrometheusMetrics runs they discard.
package metrics

import (
	"net/http"
	"sync"
)

var metrics = defaultNoopMetrics()

// Metrics creates meters by name. Asking twice for the same name returns the same meter.
type Metrics interface {
	GetOrCreateCountMeter(name string) CountMeter
	GetOrCreateCountVecMeter(name string, labels []string) CountVecMeter
	GetOrCreateGaugeMeter(name string) GaugeMeter
	GetOrCreateHistogramMeter(name string, buckets []int64) HistogramMeter
	GetOrCreateHandler() http.Handler
}

type (
	// CountMeter only goes up.
	CountMeter interface{ Add(int64) }
	// CountVecMeter only goes up, per label set.
	CountVecMeter interface {
		AddWithLabel(int64, map[string]string)
	}
	// GaugeMeter holds the last value set.
	GaugeMeter interface {
		Add(int64)
		Set(int64)
	}
	// HistogramMeter buckets observations.
	HistogramMeter interface{ Observe(int64) }
)

// BucketCallMicros spans the duration of a single call in microseconds.
var BucketCallMicros = []int64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000, 10_000}

// HTTPHandler serves the exported meters, nil while metrics are off.
func HTTPHandler() http.Handler { return metrics.GetOrCreateHandler() }

func Counter(name string) CountMeter { return metrics.GetOrCreateCountMeter(name) }

func CounterVec(name string, labels []string) CountVecMeter {
	return metrics.GetOrCreateCountVecMeter(name, labels)
}

func Gauge(name string) GaugeMeter { return metrics.GetOrCreateGaugeMeter(name) }

func Histogram(name string, buckets []int64) HistogramMeter {
	return metrics.GetOrCreateHistogramMeter(name, buckets)
}

// LazyLoad resolves a meter on first use. Package level meters are declared with it so that they
// bind to the service chosen at start up rather than to the one active at init time.
func LazyLoad[T any](f func() T) func() T {
	return sync.OnceValue(f)
}

func LazyLoadCounter(name string) func() CountMeter {
	return LazyLoad(func() CountMeter { return Counter(name) })
}

func LazyLoadCounterVec(name string, labels []string) func() CountVecMeter {
	return LazyLoad(func() CountVecMeter { return CounterVec(name, labels) })
}

func LazyLoadGauge(name string) func() GaugeMeter {
	return LazyLoad(func() GaugeMeter { return Gauge(name) })
}

func LazyLoadHistogram(name string, buckets []int64) func() HistogramMeter {
	return LazyLoad(func() HistogramMeter { return Histogram(name, buckets) })
}
