package workdir

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenKeepsPath(t *testing.T) {
	dir := t.TempDir()
	d := Open(dir)
	assert.Equal(t, dir, d.Path())
	assert.False(t, d.Owned())
	assert.True(t, d.Exists())
}

func TestNewTempCreatesDirectory(t *testing.T) {
	d, err := NewTemp()
	require.NoError(t, err)
	defer func() { _ = d.Close() }()
	assert.NotEmpty(t, d.Path())
	assert.True(t, d.Owned())
	assert.DirExists(t, d.Path())
}

func TestTempDirectoryRemovedOnClose(t *testing.T) {
	d, err := NewTemp()
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(d.PathOf(Exams), []byte("x"), 0o644))
	path := d.Path()
	require.NoError(t, d.Close())
	assert.NoDirExists(t, path)
	assert.NoError(t, d.Close())
}

func TestBoundDirectoryKeptOnClose(t *testing.T) {
	dir := t.TempDir()
	d := Open(dir)
	require.NoError(t, d.Close())
	assert.DirExists(t, dir)
}

func TestPaths(t *testing.T) {
	d := Open("/data/plan")
	cases := map[File]string{
		ExamsIntervals:      "/data/plan/pruef-intervalle.csv",
		Exams:               "/data/plan/pruefungen.csv",
		GroupsExams:         "/data/plan/zuege-pruef.csv",
		GroupsExamsPref:     "/data/plan/zuege-pruef-pref2.csv",
		PlanningExamsResult: "/data/plan/SPA-ERGEBNIS-PP/SPA-planung-pruef.csv",
		GroupsExamsResult:   "/data/plan/SPA-ERGEBNIS-PP/SPA-zuege-pruef.csv",
	}
	for f, want := range cases {
		assert.Equal(t, filepath.FromSlash(want), d.PathOf(f), f.Name())
	}
	assert.Equal(t, filepath.FromSlash("/data/plan/SPA-ERGEBNIS-PP/pruefungen.csv"), d.ResultPathOf(Exams))
}

func TestHas(t *testing.T) {
	dir := t.TempDir()
	d := Open(dir)
	assert.False(t, d.Has(Exams))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "pruefungen.csv"), nil, 0o644))
	assert.True(t, d.Has(Exams))
	assert.False(t, Open(filepath.Join(dir, "missing")).Exists())
}
