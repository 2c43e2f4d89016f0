package spa

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// pollInterval bounds how long a missed filesystem event can delay
// WaitScheduled.
const pollInterval = time.Second

// WaitScheduled blocks until both result files exist, then waits the
// configured settle delay so the scheduler can finish writing them. It
// returns ctx.Err() if ctx ends first.
func (b *Bridge) WaitScheduled(ctx context.Context) error {
	start := time.Now()
	err := b.waitScheduled(ctx)
	b.observe(OpWait, start, stats{}, err)
	return err
}

func (b *Bridge) waitScheduled(ctx context.Context) error {
	if !b.dir.Exists() {
		return &Error{Kind: KindMissingTarget, Op: OpWait, Err: fmt.Errorf("directory %s does not exist", b.dir.Path())}
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return &Error{Kind: KindIOFailure, Op: OpWait, Err: err}
	}
	defer func() { _ = w.Close() }()

	if err := w.Add(b.dir.Path()); err != nil {
		return &Error{Kind: KindIOFailure, Op: OpWait, Err: err}
	}
	resultDir := filepath.Clean(b.dir.ResultDirPath())
	watchingResults := false
	watchResults := func() {
		if watchingResults {
			return
		}
		if err := w.Add(resultDir); err == nil {
			watchingResults = true
			b.log.Debugf("watching %s", resultDir)
		}
	}
	watchResults()

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		if b.IsScheduled() {
			settled, err := b.settle(ctx)
			if err != nil {
				return err
			}
			if settled {
				return nil
			}
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-w.Events:
			if !ok {
				return &Error{Kind: KindIOFailure, Op: OpWait, Err: errors.New("watcher closed")}
			}
			if filepath.Clean(ev.Name) == resultDir && ev.Has(fsnotify.Create) {
				watchResults()
			}
			if ev.Has(fsnotify.Remove) && filepath.Clean(ev.Name) == resultDir {
				watchingResults = false
			}
		case err, ok := <-w.Errors:
			if !ok {
				return &Error{Kind: KindIOFailure, Op: OpWait, Err: errors.New("watcher closed")}
			}
			return &Error{Kind: KindIOFailure, Op: OpWait, Err: err}
		case <-ticker.C:
			watchResults()
		}
	}
}

// settle waits the settle delay and reports whether the result files are
// still present afterwards.
func (b *Bridge) settle(ctx context.Context) (bool, error) {
	if b.opts.Settle <= 0 {
		return true, nil
	}
	t := time.NewTimer(b.opts.Settle)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false, ctx.Err()
	case <-t.C:
	}
	return b.IsScheduled(), nil
}
