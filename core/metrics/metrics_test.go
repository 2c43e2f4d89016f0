package metrics

import (
	"errors"
	"testing"

	"github.com/kilianp07/spaplan/core/factory"
)

type countingRecorder struct {
	count   int
	flushed int
	err     error
}

func (r *countingRecorder) RecordOperation(OperationEvent) error {
	r.count++
	return r.err
}

func (r *countingRecorder) Flush() error {
	r.flushed++
	return nil
}

func TestMultiRecorder(t *testing.T) {
	r1 := &countingRecorder{err: errors.New("boom")}
	r2 := &countingRecorder{}
	m := NewMultiRecorder(r1, r2, NopRecorder{})
	if err := m.RecordOperation(OperationEvent{Operation: "write_plan"}); err == nil {
		t.Fatal("expected error from first recorder")
	}
	if r1.count != 1 || r2.count != 1 {
		t.Fatalf("event not forwarded to every recorder")
	}
	if err := m.Flush(); err != nil {
		t.Fatalf("flush: %v", err)
	}
	if r1.flushed != 1 || r2.flushed != 1 {
		t.Fatalf("flush not forwarded")
	}
}

func TestNewRecorder(t *testing.T) {
	if err := RegisterRecorder("counting-test", func(map[string]any) (Recorder, error) {
		return &countingRecorder{}, nil
	}); err != nil {
		t.Fatalf("register: %v", err)
	}

	r, err := NewRecorder(nil)
	if err != nil {
		t.Fatalf("create default: %v", err)
	}
	if _, ok := r.(NopRecorder); !ok {
		t.Fatalf("expected NopRecorder, got %T", r)
	}

	r, err = NewRecorder([]factory.ModuleConfig{{Type: "counting-test"}})
	if err != nil {
		t.Fatalf("create single: %v", err)
	}
	if _, ok := r.(*countingRecorder); !ok {
		t.Fatalf("expected countingRecorder, got %T", r)
	}

	r, err = NewRecorder([]factory.ModuleConfig{{Type: "counting-test"}, {Type: "counting-test"}})
	if err != nil {
		t.Fatalf("create multi: %v", err)
	}
	m, ok := r.(*MultiRecorder)
	if !ok || len(m.Recorders) != 2 {
		t.Fatalf("expected MultiRecorder with 2 recorders, got %T", r)
	}

	if _, err := NewRecorder([]factory.ModuleConfig{{Type: "missing"}}); err == nil {
		t.Fatal("expected error for unknown type")
	}
}
