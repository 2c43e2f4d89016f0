package spa

import (
	"os"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/spaplan/core/model"
	"github.com/kilianp07/spaplan/core/workdir"
)

func moduleValues(p *model.Plan) []model.Module {
	var out []model.Module
	for _, m := range p.Modules() {
		out = append(out, *m)
	}
	return out
}

func TestReadPlanRoundTrip(t *testing.T) {
	b := newTestBridge(t)
	src := fixturePlan(t)
	require.NoError(t, b.WritePlan(src))

	got, err := b.ReadPlan()
	require.NoError(t, err)

	var want []model.Module
	for _, m := range moduleValues(src) {
		if m.Exported() {
			want = append(want, m)
		}
	}
	require.Empty(t, cmp.Diff(want, moduleValues(got)), "modules mismatch (-want +got)")
	assert.Equal(t, src.Intervals, got.Intervals)
	assert.False(t, got.Scheduled())

	inf1, ok := got.Group("INF 1")
	require.True(t, ok)
	assert.True(t, inf1.Selected())
	assert.Equal(t, 2, inf1.ExamsPerDay())
	require.Len(t, inf1.Exams(), 2)
	assert.Equal(t, "30.2476", inf1.Exams()[1].Module.Number)
	assert.Equal(t, 2, inf1.Exams()[1].Rank)

	wi2, ok := got.Group("WI 2")
	require.True(t, ok, "group named only in comments must be added")
	assert.False(t, wi2.Selected())
	assert.True(t, wi2.HasExam(mustModule(t, got, "30.2342")))
}

func TestReadPlanWithoutMissingGroups(t *testing.T) {
	opts := DefaultOptions()
	opts.AddMissingGroups = false
	b := newTestBridge(t, WithOptions(opts))
	require.NoError(t, b.WritePlan(fixturePlan(t)))

	got, err := b.ReadPlan()
	require.NoError(t, err)
	_, ok := got.Group("WI 2")
	assert.False(t, ok)
	assert.Len(t, got.Groups(), 2)
}

func TestReadPlanMissingFiles(t *testing.T) {
	b := newTestBridge(t)
	_, err := b.ReadPlan()
	assert.ErrorIs(t, err, ErrMissingTarget)

	require.NoError(t, b.WritePlan(fixturePlan(t)))
	require.NoError(t, os.Remove(b.Dir().PathOf(workdir.GroupsExamsPref)))
	plan, err := b.ReadPlan()
	assert.Nil(t, plan)
	var e *Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, KindMissingTarget, e.Kind)
	assert.Equal(t, workdir.GroupsExamsPref.Name(), e.File)
}

func TestReadPlanEmptyFile(t *testing.T) {
	b := newTestBridge(t)
	require.NoError(t, b.WritePlan(fixturePlan(t)))
	writeFile(t, b, workdir.Exams)

	_, err := b.ReadPlan()
	assert.Equal(t, KindMalformedRecord, KindOf(err))
}

func TestReadPlanSkipsCommentRows(t *testing.T) {
	b := newTestBridge(t)
	require.NoError(t, b.WritePlan(fixturePlan(t)))
	writeFile(t, b, workdir.GroupsExamsPref,
		"Zug;Nummer;Rang",
		"# edited by hand",
		"INF 1;30.2342;4",
	)
	got, err := b.ReadPlan()
	require.NoError(t, err)
	inf1, _ := got.Group("INF 1")
	assert.Equal(t, 4, inf1.Exams()[0].Rank)
}

func TestReadPlanRejectsBadRows(t *testing.T) {
	cases := []struct {
		name  string
		file  workdir.File
		lines []string
		kind  Kind
		line  int
	}{
		{
			name:  "missing column",
			file:  workdir.Exams,
			lines: []string{"Nummer;Name;Form", "30.2342;Mathematik 1;K"},
			kind:  KindMalformedRecord,
			line:  1,
		},
		{
			name:  "unknown exam type",
			file:  workdir.Exams,
			lines: []string{"Nummer;Name;Form;Dauer;Kommentar", "30.2342;Mathematik 1;K;2;", "30.2476;Programmieren;X;1;"},
			kind:  KindMalformedRecord,
			line:  3,
		},
		{
			name:  "non numeric duration",
			file:  workdir.Exams,
			lines: []string{"Nummer;Name;Form;Dauer;Kommentar", "30.2342;Mathematik 1;K;zwei;"},
			kind:  KindMalformedRecord,
			line:  2,
		},
		{
			name:  "duplicate module",
			file:  workdir.Exams,
			lines: []string{"Nummer;Name;Form;Dauer;Kommentar", "30.2342;A;K;2;", "30.2342;B;K;2;"},
			kind:  KindMalformedRecord,
			line:  3,
		},
		{
			name:  "week out of range",
			file:  workdir.ExamsIntervals,
			lines: []string{"Woche;Von;Bis", "4;01.01.2025;02.01.2025"},
			kind:  KindMalformedRecord,
			line:  2,
		},
		{
			name:  "bad date",
			file:  workdir.ExamsIntervals,
			lines: []string{"Woche;Von;Bis", "1;2025-02-03;"},
			kind:  KindMalformedRecord,
			line:  2,
		},
		{
			name:  "unknown module in group file",
			file:  workdir.GroupsExams,
			lines: []string{"Zug;Nummer;ProTag", "INF 1;30.2342;2", "INF 1;99.9999;2"},
			kind:  KindUnknownReference,
			line:  3,
		},
		{
			name:  "conflicting exams per day",
			file:  workdir.GroupsExams,
			lines: []string{"Zug;Nummer;ProTag", "INF 1;30.2342;2", "INF 1;30.2476;3"},
			kind:  KindMalformedRecord,
			line:  3,
		},
		{
			name:  "preference for unknown group",
			file:  workdir.GroupsExamsPref,
			lines: []string{"Zug;Nummer;Rang", "MB 5;30.2342;1"},
			kind:  KindUnknownReference,
			line:  2,
		},
		{
			name:  "preference for unlinked module",
			file:  workdir.GroupsExamsPref,
			lines: []string{"Zug;Nummer;Rang", "INF 3;30.2342;1"},
			kind:  KindUnknownReference,
			line:  2,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			b := newTestBridge(t)
			require.NoError(t, b.WritePlan(fixturePlan(t)))
			writeFile(t, b, tc.file, tc.lines...)

			plan, err := b.ReadPlan()
			require.Error(t, err)
			assert.Nil(t, plan)
			var e *Error
			require.ErrorAs(t, err, &e)
			assert.Equal(t, tc.kind, e.Kind, "error: %v", err)
			assert.Equal(t, tc.file.Name(), e.File)
			assert.Equal(t, tc.line, e.Line)
			assert.Equal(t, OpReadPlan, e.Op)
		})
	}
}
