package spa

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/kilianp07/spaplan/core/blockcode"
	"github.com/kilianp07/spaplan/core/model"
	"github.com/kilianp07/spaplan/core/workdir"
)

// ReadSchedule merges the scheduler's result files into plan. Both files
// are parsed and checked before plan is touched; on error plan is left
// unchanged. Every module named in the schedule is removed from all of its
// current timeslots before it is placed into its new one.
func (b *Bridge) ReadSchedule(plan *model.Plan) error {
	start := time.Now()
	st, err := b.readSchedule(plan)
	b.observe(OpReadSchedule, start, st, err)
	return err
}

// assignment is a staged placement of one module.
type assignment struct {
	module *model.Module
	at     blockcode.Coordinate
	line   int
}

func (b *Bridge) readSchedule(plan *model.Plan) (stats, error) {
	var st stats
	if plan == nil {
		return st, &Error{Kind: KindInvalidArgument, Op: OpReadSchedule, Err: errors.New("plan is nil")}
	}
	if !b.dir.Exists() {
		return st, &Error{Kind: KindMissingTarget, Op: OpReadSchedule, Err: fmt.Errorf("directory %s does not exist", b.dir.Path())}
	}
	for _, f := range workdir.ResultFiles {
		if !b.dir.Has(f) {
			return st, &Error{Kind: KindMissingTarget, Op: OpReadSchedule, File: f.Name(), Err: errors.New("file does not exist")}
		}
	}

	staged, n, err := b.stageSchedule(plan)
	if err != nil {
		return st, err
	}
	st.files++
	st.rows += n

	n, err = b.checkGroupSchedule(plan, staged)
	if err != nil {
		return st, err
	}
	st.files++
	st.rows += n

	for _, a := range staged {
		if cleared := plan.Unschedule(a.module); cleared > 0 {
			b.log.Debugf("cleared %d earlier placements of %s", cleared, a.module.Number)
		}
	}
	for _, a := range staged {
		plan.Timeslot(a.at).Add(a.module)
	}
	return st, nil
}

func scheduleFail(kind Kind, file workdir.File, line int, format string, args ...any) error {
	return &Error{Kind: kind, Op: OpReadSchedule, File: file.Name(), Line: line, Err: fmt.Errorf(format, args...)}
}

// stageSchedule parses the module schedule into assignments in file order.
func (b *Bridge) stageSchedule(plan *model.Plan) ([]assignment, int, error) {
	const file = workdir.PlanningExamsResult
	rows, err := readRows[scheduleRow](OpReadSchedule, b.dir.PathOf(file), b.opts.SkipCommentRows)
	if err != nil {
		return nil, 0, err
	}
	var staged []assignment
	index := make(map[*model.Module]int)
	for _, row := range rows {
		number := strings.TrimSpace(row.v.Number)
		m, ok := plan.Module(number)
		if !ok {
			return nil, 0, scheduleFail(KindUnknownReference, file, row.line, "unknown module %q", number)
		}
		at, err := blockcode.Lookup(strings.TrimSpace(row.v.Block))
		if err != nil {
			return nil, 0, scheduleFail(KindUnknownReference, file, row.line, "%v", err)
		}
		if i, dup := index[m]; dup {
			if staged[i].at != at {
				return nil, 0, scheduleFail(KindMalformedRecord, file, row.line, "module %q placed at %s and %s", number, staged[i].at, at)
			}
			continue
		}
		index[m] = len(staged)
		staged = append(staged, assignment{module: m, at: at, line: row.line})
	}
	return staged, len(rows), nil
}

// checkGroupSchedule parses the group schedule. In validate mode every row
// must repeat the placement of its module from the module schedule.
func (b *Bridge) checkGroupSchedule(plan *model.Plan, staged []assignment) (int, error) {
	const file = workdir.GroupsExamsResult
	rows, err := readRows[groupScheduleRow](OpReadSchedule, b.dir.PathOf(file), b.opts.SkipCommentRows)
	if err != nil {
		return 0, err
	}
	if b.opts.Reconcile == ReconcileIgnore {
		return len(rows), nil
	}

	placed := make(map[*model.Module]blockcode.Coordinate, len(staged))
	for _, a := range staged {
		placed[a.module] = a.at
	}
	for _, row := range rows {
		gname := strings.TrimSpace(row.v.Group)
		number := strings.TrimSpace(row.v.Number)
		m, ok := plan.Module(number)
		if !ok {
			return 0, scheduleFail(KindUnknownReference, file, row.line, "unknown module %q", number)
		}
		at, err := blockcode.Lookup(strings.TrimSpace(row.v.Block))
		if err != nil {
			return 0, scheduleFail(KindUnknownReference, file, row.line, "%v", err)
		}
		want, ok := placed[m]
		if !ok {
			return 0, scheduleFail(KindConflict, file, row.line, "module %q of group %q is missing from %s", number, gname, workdir.PlanningExamsResult.Name())
		}
		if want != at {
			return 0, scheduleFail(KindConflict, file, row.line, "group %q has module %q at %s, schedule says %s", gname, number, at, want)
		}
		if _, ok := plan.Group(gname); !ok {
			b.log.Debugf("group %q in %s is not part of the plan", gname, file.Name())
		}
	}
	return len(rows), nil
}
