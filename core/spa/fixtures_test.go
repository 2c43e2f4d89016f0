package spa

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/kilianp07/spaplan/core/blockcode"
	"github.com/kilianp07/spaplan/core/model"
	"github.com/kilianp07/spaplan/core/workdir"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func date(y int, mo time.Month, d int) time.Time {
	return time.Date(y, mo, d, 0, 0, 0, 0, time.UTC)
}

// fixturePlan returns three exported modules, one EIT module and three
// groups, the last of them unselected.
func fixturePlan(t *testing.T) *model.Plan {
	t.Helper()
	p := model.NewPlan()
	p.Intervals[0] = model.ExamInterval{Start: date(2025, 2, 3), End: date(2025, 2, 8)}
	p.Intervals[1] = model.ExamInterval{Start: date(2025, 2, 10), End: date(2025, 2, 15)}

	modules := []*model.Module{
		{Number: "30.2342", Name: "Mathematik 1", ExamType: model.ExamWritten, ExamDuration: 2},
		{Number: "30.2476", Name: "Programmieren", ExamType: model.ExamWritten, ExamDuration: 1},
		{Number: "30.2510", Name: "Datenbanken", ExamType: model.ExamOral, ExamDuration: 1},
		{Number: "40.1000", Name: "Englisch", Origin: model.OriginEIT, ExamType: model.ExamWritten, ExamDuration: 1},
	}
	for _, m := range modules {
		require.NoError(t, p.AddModule(m))
	}

	inf1 := model.NewGroup("INF 1")
	inf1.SetSelected(true)
	_ = inf1.SetExamsPerDay(2)
	inf1.AddExam(modules[0], 1)
	inf1.AddExam(modules[1], 2)
	inf1.AddExam(modules[3], 0)

	inf3 := model.NewGroup("INF 3")
	inf3.SetSelected(true)
	_ = inf3.SetExamsPerDay(1)
	inf3.AddExam(modules[2], 0)
	inf3.AddExam(modules[1], 1)

	wi2 := model.NewGroup("WI 2")
	wi2.AddExam(modules[0], 0)

	for _, g := range []*model.Group{inf1, inf3, wi2} {
		require.NoError(t, p.AddGroup(g))
	}
	return p
}

func mustModule(t *testing.T, p *model.Plan, number string) *model.Module {
	t.Helper()
	m, ok := p.Module(number)
	require.True(t, ok, "module %s not in plan", number)
	return m
}

func mustLookup(t *testing.T, code string) blockcode.Coordinate {
	t.Helper()
	c, err := blockcode.Lookup(code)
	require.NoError(t, err)
	return c
}

func newTestBridge(t *testing.T, opts ...Option) *Bridge {
	t.Helper()
	b := New(workdir.Open(t.TempDir()), opts...)
	t.Cleanup(func() { _ = b.Close() })
	return b
}

func writeFile(t *testing.T, b *Bridge, f workdir.File, lines ...string) {
	t.Helper()
	path := b.Dir().PathOf(f)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	content := strings.Join(lines, "\n")
	if len(lines) > 0 {
		content += "\n"
	}
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func readLines(t *testing.T, b *Bridge, f workdir.File) []string {
	t.Helper()
	data, err := os.ReadFile(b.Dir().PathOf(f))
	require.NoError(t, err)
	return strings.Split(strings.TrimRight(string(data), "\n"), "\n")
}

// prepareScheduledDirectory writes the request files for the fixture plan
// and the scheduler's answer: 30.2342 at MI2_5 and 30.2476 at DI2_3.
func prepareScheduledDirectory(t *testing.T, b *Bridge) *model.Plan {
	t.Helper()
	p := fixturePlan(t)
	require.NoError(t, b.WritePlan(p))
	writeFile(t, b, workdir.PlanningExamsResult,
		"Nummer;Block",
		"30.2342;MI2_5",
		"30.2476;DI2_3",
	)
	writeFile(t, b, workdir.GroupsExamsResult,
		"Zug;Nummer;Block",
		"INF 1;30.2342;MI2_5",
		"INF 1;30.2476;DI2_3",
		"INF 3;30.2476;DI2_3",
	)
	return p
}
