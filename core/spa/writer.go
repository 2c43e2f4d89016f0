package spa

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/kilianp07/spaplan/core/blockcode"
	"github.com/kilianp07/spaplan/core/model"
	"github.com/kilianp07/spaplan/core/workdir"
)

// WritePlan writes the four request files for plan. If plan already carries
// assignments, the exam result file is written as well; otherwise stale
// result files are removed. The group result file is never written.
//
// Each file is replaced atomically, but a failure on a later file does not
// roll back earlier ones.
func (b *Bridge) WritePlan(plan *model.Plan) error {
	start := time.Now()
	st, err := b.writePlan(plan)
	b.observe(OpWritePlan, start, st, err)
	return err
}

func (b *Bridge) writePlan(plan *model.Plan) (stats, error) {
	var st stats
	if plan == nil {
		return st, &Error{Kind: KindInvalidArgument, Op: OpWritePlan, Err: errors.New("plan is nil")}
	}
	if err := checkPlan(plan); err != nil {
		return st, &Error{Kind: KindInvalidArgument, Op: OpWritePlan, Err: err}
	}
	if !b.dir.Exists() {
		return st, &Error{Kind: KindMissingTarget, Op: OpWritePlan, Err: fmt.Errorf("directory %s does not exist", b.dir.Path())}
	}

	steps := []struct {
		file  workdir.File
		write func(path string) (int, error)
	}{
		{workdir.ExamsIntervals, func(p string) (int, error) { return writeAll(p, intervalRows(plan)) }},
		{workdir.Exams, func(p string) (int, error) { return writeAll(p, examRows(plan)) }},
		{workdir.GroupsExams, func(p string) (int, error) { return writeAll(p, groupExamRows(plan)) }},
		{workdir.GroupsExamsPref, func(p string) (int, error) { return writeAll(p, groupPrefRows(plan)) }},
	}
	for _, s := range steps {
		n, err := s.write(b.dir.PathOf(s.file))
		if err != nil {
			return st, &Error{Kind: KindIOFailure, Op: OpWritePlan, File: s.file.Name(), Err: err}
		}
		b.log.Debugw("file written", map[string]any{"file": s.file.Name(), "rows": n})
		st.files++
		st.rows += n
	}

	if !plan.Scheduled() {
		for _, f := range workdir.ResultFiles {
			if err := os.Remove(b.dir.PathOf(f)); err != nil && !errors.Is(err, os.ErrNotExist) {
				return st, &Error{Kind: KindIOFailure, Op: OpWritePlan, File: f.Name(), Err: err}
			}
		}
		return st, nil
	}

	rows, err := scheduleRows(plan)
	if err != nil {
		return st, &Error{Kind: KindInvalidArgument, Op: OpWritePlan, File: workdir.PlanningExamsResult.Name(), Err: err}
	}
	if err := os.MkdirAll(b.dir.ResultDirPath(), 0o755); err != nil {
		return st, &Error{Kind: KindIOFailure, Op: OpWritePlan, File: workdir.ResultDir, Err: err}
	}
	// A group result file left from an earlier run would make the directory
	// look scheduled.
	if err := os.Remove(b.dir.PathOf(workdir.GroupsExamsResult)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return st, &Error{Kind: KindIOFailure, Op: OpWritePlan, File: workdir.GroupsExamsResult.Name(), Err: err}
	}
	n, err := writeAll(b.dir.PathOf(workdir.PlanningExamsResult), rows)
	if err != nil {
		return st, &Error{Kind: KindIOFailure, Op: OpWritePlan, File: workdir.PlanningExamsResult.Name(), Err: err}
	}
	st.files++
	st.rows += n
	return st, nil
}

// checkPlan rejects plans whose files would not read back into the same
// plan. Nothing is written when it fails.
func checkPlan(plan *model.Plan) error {
	numbers := make(map[string]bool)
	for _, m := range plan.Modules() {
		if !m.Exported() {
			continue
		}
		if err := checkField("module number", m.Number); err != nil {
			return err
		}
		if numbers[m.Number] {
			return fmt.Errorf("module %s: %w", m.Number, model.ErrDuplicateModule)
		}
		numbers[m.Number] = true
		if !m.ExamType.Valid() {
			return fmt.Errorf("module %s: unknown exam type %q", m.Number, m.ExamType)
		}
		if m.ExamDuration <= 0 {
			return fmt.Errorf("module %s: exam duration %d is not positive", m.Number, m.ExamDuration)
		}
	}
	names := make(map[string]bool)
	for _, g := range plan.Groups() {
		if !written(g) {
			continue
		}
		name := g.Name()
		if err := checkField("group name", name); err != nil {
			return err
		}
		if strings.Contains(name, commentSeparator) {
			return fmt.Errorf("group name %q contains %q", name, commentSeparator)
		}
		if names[name] {
			return fmt.Errorf("group %q: %w", name, model.ErrDuplicateGroup)
		}
		names[name] = true
	}
	return nil
}

// written reports whether g appears in any request file.
func written(g *model.Group) bool {
	if g.Selected() {
		return true
	}
	for _, e := range g.Exams() {
		if e.Module.Exported() {
			return true
		}
	}
	return false
}

// checkField rejects values the reader would trim, skip as a comment row or
// split into several fields.
func checkField(what, v string) error {
	switch {
	case v == "":
		return fmt.Errorf("empty %s", what)
	case v != strings.TrimSpace(v):
		return fmt.Errorf("%s %q has surrounding blanks", what, v)
	case v[0] == commentRune:
		return fmt.Errorf("%s %q starts with %q", what, v, commentRune)
	case strings.ContainsAny(v, string(delimiter)+"\r\n"):
		return fmt.Errorf("%s %q contains a delimiter or line break", what, v)
	}
	return nil
}

func writeAll[T any](path string, rows []T) (int, error) {
	return len(rows), writeRows(path, rows)
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(dateLayout)
}

func intervalRows(plan *model.Plan) []intervalRow {
	rows := make([]intervalRow, 0, len(plan.Intervals))
	for i, iv := range plan.Intervals {
		rows = append(rows, intervalRow{Week: i + 1, From: formatDate(iv.Start), To: formatDate(iv.End)})
	}
	return rows
}

func examRows(plan *model.Plan) []examRow {
	var rows []examRow
	for _, m := range plan.Modules() {
		if !m.Exported() {
			continue
		}
		var names []string
		for _, g := range plan.GroupsOf(m) {
			names = append(names, g.Name())
		}
		rows = append(rows, examRow{
			Number:   m.Number,
			Name:     m.Name,
			Form:     string(m.ExamType),
			Duration: m.ExamDuration,
			Comment:  strings.Join(names, commentSeparator),
		})
	}
	return rows
}

func groupExamRows(plan *model.Plan) []groupExamRow {
	var rows []groupExamRow
	for _, g := range plan.Groups() {
		if !g.Selected() {
			continue
		}
		for _, e := range g.Exams() {
			if !e.Module.Exported() {
				continue
			}
			rows = append(rows, groupExamRow{Group: g.Name(), Number: e.Module.Number, PerDay: g.ExamsPerDay()})
		}
	}
	return rows
}

func groupPrefRows(plan *model.Plan) []groupPrefRow {
	var rows []groupPrefRow
	for _, g := range plan.Groups() {
		if !g.Selected() {
			continue
		}
		for _, e := range g.Exams() {
			if !e.Module.Exported() {
				continue
			}
			rows = append(rows, groupPrefRow{Group: g.Name(), Number: e.Module.Number, Rank: e.Rank})
		}
	}
	return rows
}

// scheduleRows emits one row per (timeslot, module) in grid order. Modules
// excluded from export are skipped since the scheduler does not know them.
func scheduleRows(plan *model.Plan) ([]scheduleRow, error) {
	var rows []scheduleRow
	var err error
	plan.EachTimeslot(func(ts *model.Timeslot) {
		if err != nil || ts.Len() == 0 {
			return
		}
		code, cerr := blockcode.Code(ts.Coordinate)
		if cerr != nil {
			err = cerr
			return
		}
		for _, m := range ts.Modules() {
			if m.Exported() {
				rows = append(rows, scheduleRow{Number: m.Number, Block: code})
			}
		}
	})
	return rows, err
}
