package metrics

import "time"

// Outcome values recorded for successful or cancelled operations. Failed
// operations record the error kind instead.
const (
	OutcomeOK       = "ok"
	OutcomeCanceled = "canceled"
)

// OperationEvent describes one completed bridge operation.
type OperationEvent struct {
	Operation string
	Outcome   string
	Dir       string
	Files     int
	Rows      int
	Duration  time.Duration
	Time      time.Time
}

// Recorder records bridge operations for observability purposes.
type Recorder interface {
	RecordOperation(ev OperationEvent) error
}

// Flusher is implemented by recorders that buffer data and need an explicit
// flush before the process exits.
type Flusher interface {
	Flush() error
}

// NopRecorder discards all events.
type NopRecorder struct{}

func (NopRecorder) RecordOperation(OperationEvent) error { return nil }

// MultiRecorder fans out events to multiple recorders.
type MultiRecorder struct {
	Recorders []Recorder
}

// NewMultiRecorder creates a MultiRecorder with the provided recorders.
func NewMultiRecorder(recs ...Recorder) *MultiRecorder {
	return &MultiRecorder{Recorders: recs}
}

// RecordOperation forwards the event to all recorders, returning the first
// error encountered. Every recorder sees the event even if an earlier one
// fails.
func (m *MultiRecorder) RecordOperation(ev OperationEvent) error {
	var first error
	for _, r := range m.Recorders {
		if err := r.RecordOperation(ev); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// Flush flushes every recorder implementing Flusher.
func (m *MultiRecorder) Flush() error {
	var first error
	for _, r := range m.Recorders {
		if f, ok := r.(Flusher); ok {
			if err := f.Flush(); err != nil && first == nil {
				first = err
			}
		}
	}
	return first
}
