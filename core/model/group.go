package model

import (
	"fmt"

	"github.com/kilianp07/spaplan/internal/eventbus"
)

// GroupField names a Group property in change notifications.
type GroupField string

const (
	FieldName        GroupField = "name"
	FieldSelected    GroupField = "selected"
	FieldExamsPerDay GroupField = "examsPerDay"
)

// GroupChange is published when a Group property changes value.
type GroupChange struct {
	Group *Group
	Field GroupField
}

// GroupExam links a group to a module it has to take. Rank expresses the
// relative preference for an early exam date; 0 means no preference.
type GroupExam struct {
	Module *Module
	Rank   int
}

// Group is a cohort of students taking a common set of exams.
type Group struct {
	name        string
	selected    bool
	examsPerDay int
	exams       []GroupExam
	changes     *eventbus.Notifier[GroupChange]
}

// NewGroup returns an unselected group without exams.
func NewGroup(name string) *Group {
	return &Group{name: name}
}

// Observe attaches n to the group. Setters publish to n when a value changes.
// A nil notifier detaches.
func (g *Group) Observe(n *eventbus.Notifier[GroupChange]) { g.changes = n }

func (g *Group) notify(f GroupField) {
	if g.changes != nil {
		g.changes.Publish(GroupChange{Group: g, Field: f})
	}
}

func (g *Group) Name() string { return g.name }

// SetName renames g without checking other groups; use Plan.RenameGroup for
// groups already in a plan.
func (g *Group) SetName(name string) {
	if g.name == name {
		return
	}
	g.name = name
	g.notify(FieldName)
}

// Selected reports whether the group takes part in the current scheduling run.
func (g *Group) Selected() bool { return g.selected }

func (g *Group) SetSelected(selected bool) {
	if g.selected == selected {
		return
	}
	g.selected = selected
	g.notify(FieldSelected)
}

// ExamsPerDay is the maximum number of exams the group may sit on one day.
func (g *Group) ExamsPerDay() int { return g.examsPerDay }

func (g *Group) SetExamsPerDay(n int) error {
	if n < 0 {
		return fmt.Errorf("exams per day must not be negative, got %d", n)
	}
	if g.examsPerDay == n {
		return nil
	}
	g.examsPerDay = n
	g.notify(FieldExamsPerDay)
	return nil
}

// Exams returns a copy of the group's module links in insertion order.
func (g *Group) Exams() []GroupExam {
	out := make([]GroupExam, len(g.exams))
	copy(out, g.exams)
	return out
}

// AddExam links m to the group. An existing link keeps its position and gets
// the new rank.
func (g *Group) AddExam(m *Module, rank int) {
	for i := range g.exams {
		if g.exams[i].Module == m {
			g.exams[i].Rank = rank
			return
		}
	}
	g.exams = append(g.exams, GroupExam{Module: m, Rank: rank})
}

// HasExam reports whether m is linked to the group.
func (g *Group) HasExam(m *Module) bool {
	_, ok := g.exam(m)
	return ok
}

func (g *Group) exam(m *Module) (int, bool) {
	for i, e := range g.exams {
		if e.Module == m {
			return i, true
		}
	}
	return -1, false
}

// SetRank changes the rank of an existing link. It returns false if m is
// not linked.
func (g *Group) SetRank(m *Module, rank int) bool {
	i, ok := g.exam(m)
	if !ok {
		return false
	}
	g.exams[i].Rank = rank
	return true
}

// RemoveExam unlinks m.
func (g *Group) RemoveExam(m *Module) bool {
	i, ok := g.exam(m)
	if !ok {
		return false
	}
	g.exams = append(g.exams[:i], g.exams[i+1:]...)
	return true
}
