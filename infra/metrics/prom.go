package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	coremetrics "github.com/kilianp07/spaplan/core/metrics"
)

// PromSink records bridge operations in Prometheus metrics. Since spaplan
// runs as a short lived command, the metrics are written to a node exporter
// textfile on Flush instead of being served over HTTP.
type PromSink struct {
	reg      *prometheus.Registry
	ops      *prometheus.CounterVec
	duration *prometheus.HistogramVec
	rows     *prometheus.GaugeVec
	last     *prometheus.GaugeVec
	textfile string
}

// NewPromSink creates a sink with its own registry. An empty textfile
// disables Flush.
func NewPromSink(textfile string) (*PromSink, error) {
	return NewPromSinkWithRegistry(prometheus.NewRegistry(), textfile)
}

// NewPromSinkWithRegistry registers the metrics on reg. Collectors already
// registered on reg are reused.
func NewPromSinkWithRegistry(reg *prometheus.Registry, textfile string) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	ops := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "spaplan_operations_total",
		Help: "Total number of bridge operations by outcome",
	}, []string{"operation", "outcome"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "spaplan_operation_duration_seconds",
		Help:    "Duration of bridge operations",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})
	rows := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "spaplan_operation_rows",
		Help: "Number of CSV rows handled by the last operation",
	}, []string{"operation"})
	last := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "spaplan_last_success_timestamp_seconds",
		Help: "Unix time of the last successful operation",
	}, []string{"operation"})

	var err error
	if ops, err = register(reg, ops); err != nil {
		return nil, err
	}
	if duration, err = register(reg, duration); err != nil {
		return nil, err
	}
	if rows, err = register(reg, rows); err != nil {
		return nil, err
	}
	if last, err = register(reg, last); err != nil {
		return nil, err
	}
	return &PromSink{reg: reg, ops: ops, duration: duration, rows: rows, last: last, textfile: textfile}, nil
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

// RecordOperation updates the counters for ev.
func (s *PromSink) RecordOperation(ev coremetrics.OperationEvent) error {
	s.ops.WithLabelValues(ev.Operation, ev.Outcome).Inc()
	s.duration.WithLabelValues(ev.Operation).Observe(ev.Duration.Seconds())
	s.rows.WithLabelValues(ev.Operation).Set(float64(ev.Rows))
	if ev.Outcome == coremetrics.OutcomeOK {
		s.last.WithLabelValues(ev.Operation).Set(float64(ev.Time.Unix()))
	}
	return nil
}

// Registry exposes the underlying registry.
func (s *PromSink) Registry() *prometheus.Registry { return s.reg }

// Flush writes all metrics to the configured textfile.
func (s *PromSink) Flush() error {
	if s.textfile == "" {
		return nil
	}
	return prometheus.WriteToTextfile(s.textfile, s.reg)
}
