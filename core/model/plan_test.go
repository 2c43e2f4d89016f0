package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/spaplan/core/blockcode"
	"github.com/kilianp07/spaplan/internal/eventbus"
)

func TestNewPlanGrid(t *testing.T) {
	p := NewPlan()
	require.Len(t, p.Weeks, 3)
	require.Len(t, p.Intervals, 3)
	cells := 0
	p.EachTimeslot(func(ts *Timeslot) {
		cells++
		assert.Same(t, ts, p.Timeslot(ts.Coordinate))
	})
	assert.Equal(t, blockcode.Size, cells)
	assert.Equal(t, blockcode.Thursday, p.Weeks[1].Days[3].Weekday)
	assert.Nil(t, p.Timeslot(blockcode.Coordinate{Week: 4, Day: blockcode.Monday, Slot: 1}))
}

func TestAddModuleRejectsDuplicates(t *testing.T) {
	p := NewPlan()
	require.NoError(t, p.AddModule(&Module{Number: "30.2342"}))
	assert.ErrorIs(t, p.AddModule(&Module{Number: "30.2342"}), ErrDuplicateModule)
	assert.Len(t, p.Modules(), 1)
}

func TestAddGroupRejectsDuplicates(t *testing.T) {
	p := NewPlan()
	require.NoError(t, p.AddGroup(NewGroup("INF 1")))
	assert.ErrorIs(t, p.AddGroup(NewGroup("INF 1")), ErrDuplicateGroup)
}

func TestRenameGroupKeepsNamesUnique(t *testing.T) {
	p := NewPlan()
	a, c := NewGroup("A"), NewGroup("C")
	require.NoError(t, p.AddGroup(a))
	require.NoError(t, p.AddGroup(c))

	assert.ErrorIs(t, p.RenameGroup(c, "A"), ErrDuplicateGroup)
	assert.Equal(t, "C", c.Name())
	require.NoError(t, p.RenameGroup(a, "A"))
	require.NoError(t, p.RenameGroup(c, "B"))
	got, ok := p.Group("B")
	require.True(t, ok)
	assert.Same(t, c, got)
}

func TestTimeslotAddRemove(t *testing.T) {
	m := &Module{Number: "1"}
	ts := &Timeslot{}
	assert.True(t, ts.Add(m))
	assert.False(t, ts.Add(m))
	assert.False(t, ts.Add(nil))
	assert.True(t, ts.Contains(m))
	assert.True(t, ts.Remove(m))
	assert.False(t, ts.Remove(m))
	assert.Equal(t, 0, ts.Len())
}

func TestUnscheduleClearsEveryPlacement(t *testing.T) {
	p := NewPlan()
	m := &Module{Number: "30.2342"}
	require.NoError(t, p.AddModule(m))
	a := blockcode.Coordinate{Week: 1, Day: blockcode.Monday, Slot: 1}
	b := blockcode.Coordinate{Week: 1, Day: blockcode.Monday, Slot: 2}
	p.Timeslot(a).Add(m)
	p.Timeslot(b).Add(m)
	assert.Equal(t, []blockcode.Coordinate{a, b}, p.Placements(m))
	assert.True(t, p.Scheduled())
	assert.Equal(t, 2, p.Unschedule(m))
	assert.Empty(t, p.Placements(m))
	assert.False(t, p.Scheduled())
}

func TestGroupExams(t *testing.T) {
	m1 := &Module{Number: "1"}
	m2 := &Module{Number: "2"}
	g := NewGroup("g")
	g.AddExam(m1, 0)
	g.AddExam(m2, 2)
	g.AddExam(m1, 5)
	exams := g.Exams()
	require.Len(t, exams, 2)
	assert.Equal(t, GroupExam{Module: m1, Rank: 5}, exams[0])
	assert.True(t, g.SetRank(m2, 1))
	assert.False(t, g.SetRank(&Module{}, 1))
	assert.True(t, g.RemoveExam(m1))
	assert.False(t, g.HasExam(m1))

	p := NewPlan()
	require.NoError(t, p.AddGroup(g))
	assert.Equal(t, []*Group{g}, p.GroupsOf(m2))
	assert.Empty(t, p.GroupsOf(m1))
}

func TestGroupNotifiesOnChange(t *testing.T) {
	n := eventbus.NewNotifier[GroupChange]()
	var fields []GroupField
	n.Subscribe(func(c GroupChange) { fields = append(fields, c.Field) })

	g := NewGroup("a")
	g.Observe(n)
	g.SetName("a")
	g.SetName("b")
	g.SetSelected(false)
	g.SetSelected(true)
	require.NoError(t, g.SetExamsPerDay(2))
	require.NoError(t, g.SetExamsPerDay(2))
	assert.Error(t, g.SetExamsPerDay(-1))

	assert.Equal(t, []GroupField{FieldName, FieldSelected, FieldExamsPerDay}, fields)
	assert.Equal(t, 2, g.ExamsPerDay())
}

func TestParseExamType(t *testing.T) {
	for _, s := range []string{"K", "P"} {
		et, err := ParseExamType(s)
		require.NoError(t, err)
		assert.Equal(t, s, string(et))
	}
	_, err := ParseExamType("M")
	assert.Error(t, err)
	assert.False(t, (&Module{Origin: OriginEIT}).Exported())
	assert.True(t, (&Module{Origin: "FB2"}).Exported())
}
