package spa

import (
	"fmt"
	"strings"
	"time"

	"github.com/kilianp07/spaplan/core/blockcode"
	"github.com/kilianp07/spaplan/core/logger"
	"github.com/kilianp07/spaplan/core/model"
	"github.com/kilianp07/spaplan/core/workdir"
)

// ReadPlan builds a new plan from the four request files. The plan carries
// no assignments; use ReadSchedule for those. On any error no plan is
// returned.
func (b *Bridge) ReadPlan() (*model.Plan, error) {
	start := time.Now()
	plan, st, err := b.readPlan()
	b.observe(OpReadPlan, start, st, err)
	if err != nil {
		return nil, err
	}
	return plan, nil
}

func (b *Bridge) readPlan() (*model.Plan, stats, error) {
	var st stats
	if !b.dir.Exists() {
		return nil, st, &Error{Kind: KindMissingTarget, Op: OpReadPlan, Err: fmt.Errorf("directory %s does not exist", b.dir.Path())}
	}
	for _, f := range workdir.RequestFiles {
		if !b.dir.Has(f) {
			return nil, st, &Error{Kind: KindMissingTarget, Op: OpReadPlan, File: f.Name(), Err: fmt.Errorf("file does not exist")}
		}
	}

	r := &planReader{
		plan:     model.NewPlan(),
		opts:     b.opts,
		log:      b.log,
		comments: make(map[*model.Module][]string),
	}
	steps := []struct {
		file workdir.File
		read func(path string) (int, error)
	}{
		{workdir.ExamsIntervals, r.readIntervals},
		{workdir.Exams, r.readExams},
		{workdir.GroupsExams, r.readGroupsExams},
		{workdir.GroupsExamsPref, r.readGroupsExamsPref},
	}
	for _, s := range steps {
		n, err := s.read(b.dir.PathOf(s.file))
		if err != nil {
			return nil, st, err
		}
		st.files++
		st.rows += n
	}
	r.resolveComments()
	return r.plan, st, nil
}

// planReader fills a scratch plan. The plan is only handed out when every
// file was read successfully.
type planReader struct {
	plan     *model.Plan
	opts     Options
	log      logger.Logger
	comments map[*model.Module][]string
}

func (r *planReader) fail(kind Kind, file string, line int, format string, args ...any) error {
	return &Error{Kind: kind, Op: OpReadPlan, File: file, Line: line, Err: fmt.Errorf(format, args...)}
}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	return time.Parse(dateLayout, s)
}

func (r *planReader) readIntervals(path string) (int, error) {
	name := workdir.ExamsIntervals.Name()
	rows, err := readRows[intervalRow](OpReadPlan, path, r.opts.SkipCommentRows)
	if err != nil {
		return 0, err
	}
	seen := make(map[int]bool)
	for _, row := range rows {
		w := row.v.Week
		if w < 1 || w > blockcode.Weeks {
			return 0, r.fail(KindMalformedRecord, name, row.line, "week %d out of range", w)
		}
		if seen[w] {
			return 0, r.fail(KindMalformedRecord, name, row.line, "week %d listed twice", w)
		}
		seen[w] = true
		from, err := parseDate(row.v.From)
		if err != nil {
			return 0, r.fail(KindMalformedRecord, name, row.line, "start date: %v", err)
		}
		to, err := parseDate(row.v.To)
		if err != nil {
			return 0, r.fail(KindMalformedRecord, name, row.line, "end date: %v", err)
		}
		if !from.IsZero() && !to.IsZero() && to.Before(from) {
			return 0, r.fail(KindMalformedRecord, name, row.line, "interval ends before it starts")
		}
		r.plan.Intervals[w-1] = model.ExamInterval{Start: from, End: to}
	}
	return len(rows), nil
}

func (r *planReader) readExams(path string) (int, error) {
	name := workdir.Exams.Name()
	rows, err := readRows[examRow](OpReadPlan, path, r.opts.SkipCommentRows)
	if err != nil {
		return 0, err
	}
	for _, row := range rows {
		number := strings.TrimSpace(row.v.Number)
		if number == "" {
			return 0, r.fail(KindMalformedRecord, name, row.line, "empty module number")
		}
		et, err := model.ParseExamType(strings.TrimSpace(row.v.Form))
		if err != nil {
			return 0, r.fail(KindMalformedRecord, name, row.line, "%v", err)
		}
		if row.v.Duration <= 0 {
			return 0, r.fail(KindMalformedRecord, name, row.line, "exam duration must be positive, got %d", row.v.Duration)
		}
		m := &model.Module{
			Number:       number,
			Name:         strings.TrimSpace(row.v.Name),
			ExamType:     et,
			ExamDuration: row.v.Duration,
		}
		if err := r.plan.AddModule(m); err != nil {
			return 0, r.fail(KindMalformedRecord, name, row.line, "%v", err)
		}
		if r.opts.ParseComments {
			r.comments[m] = splitComment(row.v.Comment)
		}
	}
	return len(rows), nil
}

func splitComment(s string) []string {
	var names []string
	for _, part := range strings.Split(s, commentSeparator) {
		if n := strings.TrimSpace(part); n != "" {
			names = append(names, n)
		}
	}
	return names
}

func (r *planReader) readGroupsExams(path string) (int, error) {
	name := workdir.GroupsExams.Name()
	rows, err := readRows[groupExamRow](OpReadPlan, path, r.opts.SkipCommentRows)
	if err != nil {
		return 0, err
	}
	for _, row := range rows {
		gname := strings.TrimSpace(row.v.Group)
		if gname == "" {
			return 0, r.fail(KindMalformedRecord, name, row.line, "empty group name")
		}
		number := strings.TrimSpace(row.v.Number)
		m, ok := r.plan.Module(number)
		if !ok {
			return 0, r.fail(KindUnknownReference, name, row.line, "module %q is not listed in %s", number, workdir.Exams.Name())
		}
		if row.v.PerDay < 0 {
			return 0, r.fail(KindMalformedRecord, name, row.line, "exams per day must not be negative, got %d", row.v.PerDay)
		}
		g, ok := r.plan.Group(gname)
		if !ok {
			g = model.NewGroup(gname)
			g.SetSelected(true)
			_ = g.SetExamsPerDay(row.v.PerDay)
			if err := r.plan.AddGroup(g); err != nil {
				return 0, r.fail(KindMalformedRecord, name, row.line, "%v", err)
			}
		} else if g.ExamsPerDay() != row.v.PerDay {
			return 0, r.fail(KindMalformedRecord, name, row.line, "group %q has conflicting exams per day %d and %d", gname, g.ExamsPerDay(), row.v.PerDay)
		}
		if g.HasExam(m) {
			return 0, r.fail(KindMalformedRecord, name, row.line, "group %q lists module %q twice", gname, number)
		}
		g.AddExam(m, 0)
	}
	return len(rows), nil
}

func (r *planReader) readGroupsExamsPref(path string) (int, error) {
	name := workdir.GroupsExamsPref.Name()
	rows, err := readRows[groupPrefRow](OpReadPlan, path, r.opts.SkipCommentRows)
	if err != nil {
		return 0, err
	}
	for _, row := range rows {
		gname := strings.TrimSpace(row.v.Group)
		number := strings.TrimSpace(row.v.Number)
		g, ok := r.plan.Group(gname)
		if !ok {
			return 0, r.fail(KindUnknownReference, name, row.line, "group %q is not listed in %s", gname, workdir.GroupsExams.Name())
		}
		m, ok := r.plan.Module(number)
		if !ok {
			return 0, r.fail(KindUnknownReference, name, row.line, "module %q is not listed in %s", number, workdir.Exams.Name())
		}
		if row.v.Rank < 0 {
			return 0, r.fail(KindMalformedRecord, name, row.line, "rank must not be negative, got %d", row.v.Rank)
		}
		if !g.SetRank(m, row.v.Rank) {
			return 0, r.fail(KindUnknownReference, name, row.line, "group %q does not take module %q", gname, number)
		}
	}
	return len(rows), nil
}

// resolveComments links the groups named in the exams file's comment
// column. Undeclared groups become unselected placeholders when
// AddMissingGroups is set.
func (r *planReader) resolveComments() {
	for _, m := range r.plan.Modules() {
		for _, gname := range r.comments[m] {
			g, ok := r.plan.Group(gname)
			if !ok {
				if !r.opts.AddMissingGroups {
					r.log.Debugf("ignoring undeclared group %q of module %s", gname, m.Number)
					continue
				}
				g = model.NewGroup(gname)
				_ = r.plan.AddGroup(g)
			}
			if !g.HasExam(m) {
				g.AddExam(m, 0)
			}
		}
	}
}
