// Package manifest reads and writes YAML descriptions of exam plans. The CLI
// uses manifests as its input and output format in place of the
// application's own save files.
package manifest

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/kilianp07/spaplan/core/blockcode"
	"github.com/kilianp07/spaplan/core/model"
)

// DateLayout is the layout of interval dates.
const DateLayout = "2006-01-02"

type Manifest struct {
	Intervals []Interval  `yaml:"intervals,omitempty" validate:"max=3,dive"`
	Modules   []Module    `yaml:"modules" validate:"dive"`
	Groups    []Group     `yaml:"groups,omitempty" validate:"dive"`
	Schedule  []Placement `yaml:"schedule,omitempty" validate:"dive"`
}

type Interval struct {
	Week  int    `yaml:"week" validate:"min=1,max=3"`
	Start string `yaml:"start,omitempty" validate:"omitempty,datetime=2006-01-02"`
	End   string `yaml:"end,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

type Module struct {
	Number   string `yaml:"number" validate:"required"`
	Name     string `yaml:"name"`
	Origin   string `yaml:"origin,omitempty"`
	ExamType string `yaml:"exam_type" validate:"oneof=K P"`
	Duration int    `yaml:"duration" validate:"min=1"`
}

type Group struct {
	Name        string      `yaml:"name" validate:"required"`
	Selected    bool        `yaml:"selected"`
	ExamsPerDay int         `yaml:"exams_per_day" validate:"min=0"`
	Exams       []GroupExam `yaml:"exams,omitempty" validate:"dive"`
}

type GroupExam struct {
	Module string `yaml:"module" validate:"required"`
	Rank   int    `yaml:"rank" validate:"min=0"`
}

// Placement assigns a module to the timeslot named by a block code.
type Placement struct {
	Module string `yaml:"module" validate:"required"`
	Block  string `yaml:"block" validate:"required"`
}

var validate = validator.New()

// Validate checks field constraints. References between sections are
// checked by Plan.
func (m *Manifest) Validate() error {
	if err := validate.Struct(m); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("invalid manifest: %s fails %q", fe.Namespace(), fe.Tag())
		}
		return fmt.Errorf("invalid manifest: %w", err)
	}
	return nil
}

// Decode reads and validates a manifest from r. Unknown keys are rejected.
func Decode(r io.Reader) (*Manifest, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var m Manifest
	if err := dec.Decode(&m); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("manifest is empty")
		}
		return nil, fmt.Errorf("decode manifest: %w", err)
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// Load reads the manifest at path.
func Load(path string) (*Manifest, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	m, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// Encode writes m as YAML.
func Encode(w io.Writer, m *Manifest) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(m); err != nil {
		return err
	}
	return enc.Close()
}

// Save writes m to path.
func Save(path string, m *Manifest) error {
	var buf bytes.Buffer
	if err := Encode(&buf, m); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}

func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return time.Parse(DateLayout, s)
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(DateLayout)
}

// Plan builds the model described by m.
func (m *Manifest) Plan() (*model.Plan, error) {
	p := model.NewPlan()
	for _, iv := range m.Intervals {
		if iv.Week < 1 || iv.Week > blockcode.Weeks {
			return nil, fmt.Errorf("interval week %d out of range", iv.Week)
		}
		start, err := parseDate(iv.Start)
		if err != nil {
			return nil, fmt.Errorf("interval week %d: %w", iv.Week, err)
		}
		end, err := parseDate(iv.End)
		if err != nil {
			return nil, fmt.Errorf("interval week %d: %w", iv.Week, err)
		}
		p.Intervals[iv.Week-1] = model.ExamInterval{Start: start, End: end}
	}
	for _, mod := range m.Modules {
		et, err := model.ParseExamType(mod.ExamType)
		if err != nil {
			return nil, fmt.Errorf("module %s: %w", mod.Number, err)
		}
		if err := p.AddModule(&model.Module{
			Number:       mod.Number,
			Name:         mod.Name,
			Origin:       mod.Origin,
			ExamType:     et,
			ExamDuration: mod.Duration,
		}); err != nil {
			return nil, err
		}
	}
	for _, grp := range m.Groups {
		g := model.NewGroup(grp.Name)
		g.SetSelected(grp.Selected)
		if err := g.SetExamsPerDay(grp.ExamsPerDay); err != nil {
			return nil, fmt.Errorf("group %s: %w", grp.Name, err)
		}
		for _, e := range grp.Exams {
			mod, ok := p.Module(e.Module)
			if !ok {
				return nil, fmt.Errorf("group %s: unknown module %s", grp.Name, e.Module)
			}
			g.AddExam(mod, e.Rank)
		}
		if err := p.AddGroup(g); err != nil {
			return nil, err
		}
	}
	for _, pl := range m.Schedule {
		mod, ok := p.Module(pl.Module)
		if !ok {
			return nil, fmt.Errorf("schedule: unknown module %s", pl.Module)
		}
		at, err := blockcode.Lookup(pl.Block)
		if err != nil {
			return nil, fmt.Errorf("schedule: module %s: %w", pl.Module, err)
		}
		p.Timeslot(at).Add(mod)
	}
	return p, nil
}

// FromPlan describes p. Intervals without dates and empty timeslots are
// left out.
func FromPlan(p *model.Plan) (*Manifest, error) {
	m := &Manifest{}
	for i, iv := range p.Intervals {
		if iv.Start.IsZero() && iv.End.IsZero() {
			continue
		}
		m.Intervals = append(m.Intervals, Interval{Week: i + 1, Start: formatDate(iv.Start), End: formatDate(iv.End)})
	}
	for _, mod := range p.Modules() {
		m.Modules = append(m.Modules, Module{
			Number:   mod.Number,
			Name:     mod.Name,
			Origin:   mod.Origin,
			ExamType: string(mod.ExamType),
			Duration: mod.ExamDuration,
		})
	}
	for _, g := range p.Groups() {
		grp := Group{Name: g.Name(), Selected: g.Selected(), ExamsPerDay: g.ExamsPerDay()}
		for _, e := range g.Exams() {
			grp.Exams = append(grp.Exams, GroupExam{Module: e.Module.Number, Rank: e.Rank})
		}
		m.Groups = append(m.Groups, grp)
	}
	var err error
	p.EachTimeslot(func(ts *model.Timeslot) {
		if err != nil || ts.Len() == 0 {
			return
		}
		code, cerr := blockcode.Code(ts.Coordinate)
		if cerr != nil {
			err = cerr
			return
		}
		for _, mod := range ts.Modules() {
			m.Schedule = append(m.Schedule, Placement{Module: mod.Number, Block: code})
		}
	})
	if err != nil {
		return nil, err
	}
	return m, nil
}
