package spa

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kilianp07/spaplan/core/logger"
	"github.com/kilianp07/spaplan/core/metrics"
	"github.com/kilianp07/spaplan/core/runlog"
	"github.com/kilianp07/spaplan/core/workdir"
)

// Operation names used in logs, metrics and the run history.
const (
	OpWritePlan    = "write_plan"
	OpReadPlan     = "read_plan"
	OpReadSchedule = "read_schedule"
	OpWait         = "wait_scheduled"
)

// ReconcileMode decides how the group result file is used when merging.
type ReconcileMode string

const (
	// ReconcileValidate requires every group result row to agree with the
	// module schedule.
	ReconcileValidate ReconcileMode = "validate"
	// ReconcileIgnore only checks the group result file's layout.
	ReconcileIgnore ReconcileMode = "ignore"
)

// Valid reports whether m is a known mode.
func (m ReconcileMode) Valid() bool { return m == ReconcileValidate || m == ReconcileIgnore }

// Options tunes how files are read.
type Options struct {
	// SkipCommentRows ignores lines starting with '#' in every file.
	SkipCommentRows bool `json:"skip_comment_rows"`
	// ParseComments reads group membership from the exams file's comment
	// column.
	ParseComments bool `json:"parse_comments"`
	// AddMissingGroups creates unselected placeholder groups for names that
	// appear in comments but not in the group exams file.
	AddMissingGroups bool `json:"add_missing_groups"`
	// Reconcile selects how the group result file is checked.
	Reconcile ReconcileMode `json:"reconcile"`
	// Settle is waited after the result files appeared, giving the
	// scheduler time to finish writing them.
	Settle time.Duration `json:"-"`
}

// DefaultOptions returns the options used when none are configured.
func DefaultOptions() Options {
	return Options{
		SkipCommentRows:  true,
		ParseComments:    true,
		AddMissingGroups: true,
		Reconcile:        ReconcileValidate,
		Settle:           500 * time.Millisecond,
	}
}

// Bridge converts plans to the SPA exchange files in one working directory
// and merges the scheduler's results back. It is not safe for concurrent
// use; operations on one directory must run one after another.
type Bridge struct {
	dir     *workdir.Dir
	opts    Options
	log     logger.Logger
	rec     metrics.Recorder
	history runlog.Store
}

// Option configures a Bridge.
type Option func(*Bridge)

func WithOptions(o Options) Option { return func(b *Bridge) { b.opts = o } }

func WithLogger(l logger.Logger) Option {
	return func(b *Bridge) {
		if l != nil {
			b.log = l
		}
	}
}

func WithRecorder(r metrics.Recorder) Option {
	return func(b *Bridge) {
		if r != nil {
			b.rec = r
		}
	}
}

func WithHistory(s runlog.Store) Option {
	return func(b *Bridge) {
		if s != nil {
			b.history = s
		}
	}
}

// New creates a Bridge on dir.
func New(dir *workdir.Dir, opts ...Option) *Bridge {
	b := &Bridge{
		dir:     dir,
		opts:    DefaultOptions(),
		log:     nopLogger{},
		rec:     metrics.NopRecorder{},
		history: runlog.NopStore{},
	}
	for _, o := range opts {
		o(b)
	}
	return b
}

// Dir returns the working directory.
func (b *Bridge) Dir() *workdir.Dir { return b.dir }

// Options returns the active options.
func (b *Bridge) Options() Options { return b.opts }

// Close releases the working directory. Owned temporary directories are
// removed.
func (b *Bridge) Close() error { return b.dir.Close() }

// stats counts what an operation touched.
type stats struct {
	files int
	rows  int
}

func (b *Bridge) observe(op string, start time.Time, st stats, err error) {
	dur := time.Since(start)
	outcome := outcomeOf(err)
	ev := metrics.OperationEvent{
		Operation: op,
		Outcome:   outcome,
		Dir:       b.dir.Path(),
		Files:     st.files,
		Rows:      st.rows,
		Duration:  dur,
		Time:      start,
	}
	if rerr := b.rec.RecordOperation(ev); rerr != nil {
		b.log.Warnf("record %s metrics: %v", op, rerr)
	}

	rec := runlog.NewRecord(op, start)
	rec.Dir = ev.Dir
	rec.Outcome = outcome
	rec.Files = st.files
	rec.Rows = st.rows
	rec.DurationMS = dur.Milliseconds()
	if err != nil {
		rec.Error = err.Error()
	}
	if herr := b.history.Append(context.Background(), rec); herr != nil {
		b.log.Warnf("append %s to history: %v", op, herr)
	}

	if err != nil {
		b.log.Errorf("%v", err)
		return
	}
	b.log.Infow(fmt.Sprintf("%s done", op), map[string]any{
		"dir":   ev.Dir,
		"files": st.files,
		"rows":  st.rows,
	})
}

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeOK
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return metrics.OutcomeCanceled
	}
	return KindOf(err).String()
}

type nopLogger struct{}

func (nopLogger) Debugf(string, ...any)         {}
func (nopLogger) Debugw(string, map[string]any) {}
func (nopLogger) Infof(string, ...any)          {}
func (nopLogger) Infow(string, map[string]any)  {}
func (nopLogger) Warnf(string, ...any)          {}
func (nopLogger) Errorf(string, ...any)         {}
