// Package workdir resolves the well-known SPA exchange files inside a
// working directory. A Dir either points at a caller supplied directory or
// owns a temporary one that is removed on Close.
package workdir

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// ResultDir is the subdirectory in which SPA writes its results.
const ResultDir = "SPA-ERGEBNIS-PP"

// File identifies one of the six exchange files.
type File int

const (
	ExamsIntervals File = iota
	Exams
	GroupsExams
	GroupsExamsPref
	PlanningExamsResult
	GroupsExamsResult
)

var fileNames = map[File]string{
	ExamsIntervals:      "pruef-intervalle.csv",
	Exams:               "pruefungen.csv",
	GroupsExams:         "zuege-pruef.csv",
	GroupsExamsPref:     "zuege-pruef-pref2.csv",
	PlanningExamsResult: "SPA-planung-pruef.csv",
	GroupsExamsResult:   "SPA-zuege-pruef.csv",
}

// RequestFiles are written for the scheduler, in write order.
var RequestFiles = []File{ExamsIntervals, Exams, GroupsExams, GroupsExamsPref}

// ResultFiles are produced by the scheduler.
var ResultFiles = []File{PlanningExamsResult, GroupsExamsResult}

// Name returns the base file name.
func (f File) Name() string {
	if n, ok := fileNames[f]; ok {
		return n
	}
	return fmt.Sprintf("File(%d)", int(f))
}

// IsResult reports whether f lives in ResultDir.
func (f File) IsResult() bool { return f == PlanningExamsResult || f == GroupsExamsResult }

func (f File) String() string { return f.Name() }

// Dir is a handle to a working directory.
type Dir struct {
	path  string
	owned bool

	mu     sync.Mutex
	closed bool
}

// Open binds to path without taking ownership. The directory is neither
// created nor checked here.
func Open(path string) *Dir {
	return &Dir{path: filepath.Clean(path)}
}

// NewTemp creates a temporary directory owned by the returned Dir.
func NewTemp() (*Dir, error) {
	p, err := os.MkdirTemp("", "spaplan-")
	if err != nil {
		return nil, fmt.Errorf("create temp dir: %w", err)
	}
	return &Dir{path: p, owned: true}, nil
}

// Path returns the directory path.
func (d *Dir) Path() string { return d.path }

// Owned reports whether Close removes the directory.
func (d *Dir) Owned() bool { return d.owned }

// PathOf returns the location of f. Result files are resolved inside
// ResultDir.
func (d *Dir) PathOf(f File) string {
	if f.IsResult() {
		return d.ResultPathOf(f)
	}
	return filepath.Join(d.path, f.Name())
}

// ResultPathOf returns the location of f one level below the directory.
func (d *Dir) ResultPathOf(f File) string {
	return filepath.Join(d.path, ResultDir, f.Name())
}

// ResultDirPath returns the path of ResultDir.
func (d *Dir) ResultDirPath() string { return filepath.Join(d.path, ResultDir) }

// Exists reports whether the directory exists.
func (d *Dir) Exists() bool {
	fi, err := os.Stat(d.path)
	return err == nil && fi.IsDir()
}

// Has reports whether f exists. Content is not inspected.
func (d *Dir) Has(f File) bool {
	_, err := os.Stat(d.PathOf(f))
	return err == nil
}

// Close removes an owned directory. It is safe to call more than once and
// does nothing for directories bound with Open.
func (d *Dir) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return nil
	}
	d.closed = true
	if !d.owned {
		return nil
	}
	if err := os.RemoveAll(d.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove temp dir: %w", err)
	}
	return nil
}
