// Package otel bridges lifegate metrics into OpenTelemetry observable
// instruments. The exporter registers one callback that reads a snapshot on
// every collection; the resolver's hot path stays untouched.
package otel

import (
	"context"
	"errors"
	"fmt"

	lifegate "github.com/orvanta/lifegate"
	"github.com/orvanta/lifegate/metrics/export/internaldefs"
	"go.opentelemetry.io/otel/metric"
)

var (
	ErrNilMeter  = errors.New("nil meter")
	ErrNilSource = errors.New("nil metrics source")
)

type metricsSource interface {
	MetricsSnapshot() lifegate.MetricsSnapshot
	AuditDropped() uint64
}

// collection is the data gathered once per OTel collect cycle. The
// cumulative histogram conversion is memoized so every bucket gauge of the
// same histogram shares one pass.
type collection struct {
	snapshot lifegate.MetricsSnapshot
	dropped  uint64
	cum      map[lifegate.MetricID][8]uint64
}

func (c *collection) cumulative(id lifegate.MetricID) [8]uint64 {
	if buckets, ok := c.cum[id]; ok {
		return buckets
	}
	buckets := internaldefs.CumulativeBuckets(internaldefs.NormalizeBuckets(c.snapshot.Histograms[id]))
	c.cum[id] = buckets
	return buckets
}

// instrumentSet accumulates instruments and the closure that feeds each one.
// The first creation error sticks and turns later registrations into no-ops,
// so the caller checks the error once at the end.
type instrumentSet struct {
	meter       metric.Meter
	observables []metric.Observable
	feed        []func(metric.Observer, *collection)
	err         error
}

func (s *instrumentSet) counter(name, help string, read func(*collection) int64) {
	if s.err != nil {
		return
	}
	ins, err := s.meter.Int64ObservableCounter(name, metric.WithDescription(help))
	if err != nil {
		s.err = fmt.Errorf("observable counter %s: %w", name, err)
		return
	}
	s.observables = append(s.observables, ins)
	s.feed = append(s.feed, func(o metric.Observer, c *collection) {
		o.ObserveInt64(ins, read(c))
	})
}

func (s *instrumentSet) gauge(name, help string, read func(*collection) int64) {
	if s.err != nil {
		return
	}
	ins, err := s.meter.Int64ObservableGauge(name, metric.WithDescription(help))
	if err != nil {
		s.err = fmt.Errorf("observable gauge %s: %w", name, err)
		return
	}
	s.observables = append(s.observables, ins)
	s.feed = append(s.feed, func(o metric.Observer, c *collection) {
		o.ObserveInt64(ins, read(c))
	})
}

// Exporter mirrors resolver metrics into OTel observable instruments.
type Exporter struct {
	registration metric.Registration
}

// NewExporter registers observable instruments for the given resolver.
func NewExporter(meter metric.Meter, resolver *lifegate.Resolver) (*Exporter, error) {
	return NewExporterFromSource(meter, resolver)
}

// NewExporterFromSource registers observable instruments for a custom
// metrics source.
func NewExporterFromSource(meter metric.Meter, source metricsSource) (*Exporter, error) {
	if meter == nil {
		return nil, ErrNilMeter
	}
	if source == nil {
		return nil, ErrNilSource
	}

	set := &instrumentSet{meter: meter}

	for _, def := range internaldefs.CounterDefs {
		id := def.ID
		set.counter(def.Name, def.Help, func(c *collection) int64 {
			return int64(c.snapshot.Counters[id])
		})
	}

	for _, def := range internaldefs.HistogramDefs {
		id := def.ID
		for i, suffix := range internaldefs.HistogramBoundSuffix {
			bucket := i
			set.gauge(def.Name+"_bucket_le_"+suffix, "Cumulative histogram bucket count.", func(c *collection) int64 {
				return int64(c.cumulative(id)[bucket])
			})
		}
		set.gauge(def.Name+"_count", "Histogram total sample count.", func(c *collection) int64 {
			buckets := c.cumulative(id)
			return int64(buckets[len(buckets)-1])
		})
	}

	set.counter("lifegate_audit_dropped_total",
		"Dropped audit events due to dispatcher backpressure.",
		func(c *collection) int64 { return int64(c.dropped) })

	if set.err != nil {
		return nil, set.err
	}

	registration, err := meter.RegisterCallback(func(_ context.Context, observer metric.Observer) error {
		col := &collection{
			snapshot: source.MetricsSnapshot(),
			dropped:  source.AuditDropped(),
			cum:      make(map[lifegate.MetricID][8]uint64, len(internaldefs.HistogramDefs)),
		}
		for _, feed := range set.feed {
			feed(observer, col)
		}
		return nil
	}, set.observables...)
	if err != nil {
		return nil, fmt.Errorf("register callback: %w", err)
	}

	return &Exporter{registration: registration}, nil
}

// Close unregisters the collection callback.
func (e *Exporter) Close() error {
	if e == nil || e.registration == nil {
		return nil
	}
	return e.registration.Unregister()
}
