package app

import (
	"errors"
	"fmt"

	"github.com/kilianp07/spaplan/config"
	coremetrics "github.com/kilianp07/spaplan/core/metrics"
	"github.com/kilianp07/spaplan/core/runlog"
	"github.com/kilianp07/spaplan/core/spa"
	"github.com/kilianp07/spaplan/core/workdir"
	"github.com/kilianp07/spaplan/infra/logger"
	_ "github.com/kilianp07/spaplan/infra/metrics" // registers metrics sinks
)

// Service wires a Bridge to the configured recorder and run history.
type Service struct {
	Bridge  *spa.Bridge
	History runlog.Store
	rec     coremetrics.Recorder
	log     logger.Logger
}

// New creates a Service from the configuration. dir overrides the
// configured working directory when not empty.
func New(cfg *config.Config, dir string) (*Service, error) {
	logg := logger.New("service")

	rec, err := coremetrics.NewRecorder(cfg.Metrics.Sinks)
	if err != nil {
		return nil, fmt.Errorf("metrics: %w", err)
	}
	hist, err := runlog.Open(cfg.History)
	if err != nil {
		closeRecorder(rec)
		return nil, fmt.Errorf("history: %w", err)
	}

	if dir == "" {
		dir = cfg.Workdir.Path
	}
	var wd *workdir.Dir
	if dir == "" {
		wd, err = workdir.NewTemp()
		if err != nil {
			closeRecorder(rec)
			_ = hist.Close()
			return nil, err
		}
		logg.Infof("using temporary directory %s", wd.Path())
	} else {
		wd = workdir.Open(dir)
	}

	b := spa.New(wd,
		spa.WithOptions(cfg.BridgeOptions()),
		spa.WithLogger(logger.New("spa")),
		spa.WithRecorder(rec),
		spa.WithHistory(hist),
	)
	return &Service{Bridge: b, History: hist, rec: rec, log: logg}, nil
}

// Close flushes metrics and releases the directory and the history store.
func (s *Service) Close() error {
	var errs []error
	if f, ok := s.rec.(coremetrics.Flusher); ok {
		if err := f.Flush(); err != nil {
			errs = append(errs, fmt.Errorf("flush metrics: %w", err))
		}
	}
	closeRecorder(s.rec)
	if err := s.History.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close history: %w", err))
	}
	if err := s.Bridge.Close(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

type closer interface{ Close() }

func closeRecorder(r coremetrics.Recorder) {
	if m, ok := r.(*coremetrics.MultiRecorder); ok {
		for _, sub := range m.Recorders {
			closeRecorder(sub)
		}
		return
	}
	if c, ok := r.(closer); ok {
		c.Close()
	}
}
