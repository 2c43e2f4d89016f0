package model

import "fmt"

// OriginEIT marks modules planned by a separate process. They are never
// handed to the SPA scheduler.
const OriginEIT = "EIT"

// ExamType is the form of an exam.
type ExamType string

const (
	// ExamWritten is a written exam ("Klausur").
	ExamWritten ExamType = "K"
	// ExamOral is an oral exam ("Pruefung muendlich").
	ExamOral ExamType = "P"
)

// Valid reports whether t is a known exam type.
func (t ExamType) Valid() bool { return t == ExamWritten || t == ExamOral }

// ParseExamType converts the file representation into an ExamType.
func ParseExamType(s string) (ExamType, error) {
	t := ExamType(s)
	if !t.Valid() {
		return "", fmt.Errorf("unknown exam type %q", s)
	}
	return t, nil
}

// Module is one examinable course unit.
type Module struct {
	Number       string
	Name         string
	Origin       string
	ExamType     ExamType
	ExamDuration int // exam periods, always positive
}

// Exported reports whether the module takes part in SPA scheduling.
func (m *Module) Exported() bool { return m.Origin != OriginEIT }

func (m *Module) String() string {
	return fmt.Sprintf("%s %s", m.Number, m.Name)
}
