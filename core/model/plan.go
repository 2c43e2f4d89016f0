// Package model holds the exam planning domain: a plan with its modules,
// student groups and the three week scheduling grid.
package model

import (
	"errors"
	"fmt"
	"time"

	"github.com/kilianp07/spaplan/core/blockcode"
)

var (
	// ErrDuplicateModule is returned when a module number is already taken.
	ErrDuplicateModule = errors.New("duplicate module number")
	// ErrDuplicateGroup is returned when a group name is already taken.
	ErrDuplicateGroup = errors.New("duplicate group name")
)

// ExamInterval is the date range in which a week's exams take place.
// Zero values mean the bound is not set.
type ExamInterval struct {
	Start time.Time
	End   time.Time
}

// Timeslot is one cell of the grid and holds the modules assigned to it.
type Timeslot struct {
	Coordinate blockcode.Coordinate
	modules    []*Module
}

// Modules returns a copy of the assigned modules in assignment order.
func (t *Timeslot) Modules() []*Module {
	out := make([]*Module, len(t.modules))
	copy(out, t.modules)
	return out
}

// Len returns the number of assigned modules.
func (t *Timeslot) Len() int { return len(t.modules) }

// Contains reports whether m is assigned to t.
func (t *Timeslot) Contains(m *Module) bool {
	for _, x := range t.modules {
		if x == m {
			return true
		}
	}
	return false
}

// Add assigns m to t. It returns false if m was already assigned here.
func (t *Timeslot) Add(m *Module) bool {
	if m == nil || t.Contains(m) {
		return false
	}
	t.modules = append(t.modules, m)
	return true
}

// Remove unassigns m from t.
func (t *Timeslot) Remove(m *Module) bool {
	for i, x := range t.modules {
		if x == m {
			t.modules = append(t.modules[:i], t.modules[i+1:]...)
			return true
		}
	}
	return false
}

// Day is one exam day with its slots.
type Day struct {
	Weekday   blockcode.Weekday
	Timeslots []*Timeslot
}

// Week is one exam week.
type Week struct {
	Number int
	Days   []*Day
}

// Plan is the complete model of one planning run.
type Plan struct {
	Weeks []*Week
	// Intervals holds one entry per week, index 0 is week 1.
	Intervals []ExamInterval

	modules []*Module
	groups  []*Group
}

// NewPlan returns an empty plan with the full grid allocated.
func NewPlan() *Plan {
	p := &Plan{
		Weeks:     make([]*Week, blockcode.Weeks),
		Intervals: make([]ExamInterval, blockcode.Weeks),
	}
	for w := range p.Weeks {
		week := &Week{Number: w + 1, Days: make([]*Day, blockcode.DaysPerWeek)}
		for d := range week.Days {
			day := &Day{Weekday: blockcode.Weekday(d), Timeslots: make([]*Timeslot, blockcode.SlotsPerDay)}
			for s := range day.Timeslots {
				day.Timeslots[s] = &Timeslot{Coordinate: blockcode.Coordinate{Week: w + 1, Day: blockcode.Weekday(d), Slot: s + 1}}
			}
			week.Days[d] = day
		}
		p.Weeks[w] = week
	}
	return p
}

// Modules returns the module registry in insertion order.
func (p *Plan) Modules() []*Module {
	out := make([]*Module, len(p.modules))
	copy(out, p.modules)
	return out
}

// Groups returns the group registry in insertion order.
func (p *Plan) Groups() []*Group {
	out := make([]*Group, len(p.groups))
	copy(out, p.groups)
	return out
}

// AddModule registers m. Module numbers must be unique.
func (p *Plan) AddModule(m *Module) error {
	if m == nil {
		return errors.New("nil module")
	}
	if _, ok := p.Module(m.Number); ok {
		return fmt.Errorf("%w: %s", ErrDuplicateModule, m.Number)
	}
	p.modules = append(p.modules, m)
	return nil
}

// AddGroup registers g. Group names must be unique.
func (p *Plan) AddGroup(g *Group) error {
	if g == nil {
		return errors.New("nil group")
	}
	if _, ok := p.Group(g.Name()); ok {
		return fmt.Errorf("%w: %s", ErrDuplicateGroup, g.Name())
	}
	p.groups = append(p.groups, g)
	return nil
}

// RenameGroup renames g, keeping group names unique.
func (p *Plan) RenameGroup(g *Group, name string) error {
	if other, ok := p.Group(name); ok && other != g {
		return fmt.Errorf("%w: %s", ErrDuplicateGroup, name)
	}
	g.SetName(name)
	return nil
}

// Module looks up a module by number.
func (p *Plan) Module(number string) (*Module, bool) {
	for _, m := range p.modules {
		if m.Number == number {
			return m, true
		}
	}
	return nil, false
}

// Group looks up a group by name.
func (p *Plan) Group(name string) (*Group, bool) {
	for _, g := range p.groups {
		if g.Name() == name {
			return g, true
		}
	}
	return nil, false
}

// GroupsOf returns the groups linked to m in registry order.
func (p *Plan) GroupsOf(m *Module) []*Group {
	var out []*Group
	for _, g := range p.groups {
		if g.HasExam(m) {
			out = append(out, g)
		}
	}
	return out
}

// Timeslot returns the cell at c or nil if c is outside the grid.
func (p *Plan) Timeslot(c blockcode.Coordinate) *Timeslot {
	if !c.Valid() {
		return nil
	}
	return p.Weeks[c.Week-1].Days[c.Day].Timeslots[c.Slot-1]
}

// EachTimeslot calls fn for every cell in grid order.
func (p *Plan) EachTimeslot(fn func(*Timeslot)) {
	for _, w := range p.Weeks {
		for _, d := range w.Days {
			for _, t := range d.Timeslots {
				fn(t)
			}
		}
	}
}

// Placements returns the coordinates of every cell holding m.
func (p *Plan) Placements(m *Module) []blockcode.Coordinate {
	var out []blockcode.Coordinate
	p.EachTimeslot(func(t *Timeslot) {
		if t.Contains(m) {
			out = append(out, t.Coordinate)
		}
	})
	return out
}

// Unschedule removes m from every cell and returns how many were cleared.
func (p *Plan) Unschedule(m *Module) int {
	n := 0
	p.EachTimeslot(func(t *Timeslot) {
		if t.Remove(m) {
			n++
		}
	})
	return n
}

// Scheduled reports whether any cell holds a module.
func (p *Plan) Scheduled() bool {
	found := false
	p.EachTimeslot(func(t *Timeslot) {
		if t.Len() > 0 {
			found = true
		}
	})
	return found
}
