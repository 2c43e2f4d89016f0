package spa

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/spaplan/core/workdir"
)

func fastSettle() Option {
	opts := DefaultOptions()
	opts.Settle = 10 * time.Millisecond
	return WithOptions(opts)
}

func TestWaitScheduledAlreadyDone(t *testing.T) {
	b := newTestBridge(t, fastSettle())
	prepareScheduledDirectory(t, b)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, b.WaitScheduled(ctx))
}

func TestWaitScheduledSeesResults(t *testing.T) {
	b := newTestBridge(t, fastSettle())
	require.NoError(t, b.WritePlan(fixturePlan(t)))

	done := make(chan error, 1)
	go func() {
		time.Sleep(50 * time.Millisecond)
		if err := os.MkdirAll(b.Dir().ResultDirPath(), 0o755); err != nil {
			done <- err
			return
		}
		if err := os.WriteFile(b.Dir().PathOf(workdir.PlanningExamsResult), []byte("Nummer;Block\n30.2342;MI2_5\n"), 0o644); err != nil {
			done <- err
			return
		}
		done <- os.WriteFile(b.Dir().PathOf(workdir.GroupsExamsResult), []byte("Zug;Nummer;Block\nINF 1;30.2342;MI2_5\n"), 0o644)
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, b.WaitScheduled(ctx))
	require.NoError(t, <-done)
	assert.True(t, b.IsScheduled())
}

func TestWaitScheduledTimeout(t *testing.T) {
	b := newTestBridge(t, fastSettle())
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	assert.ErrorIs(t, b.WaitScheduled(ctx), context.DeadlineExceeded)
}

func TestWaitScheduledMissingDirectory(t *testing.T) {
	b := New(workdir.Open(t.TempDir() + "/gone"))
	err := b.WaitScheduled(context.Background())
	assert.Equal(t, KindMissingTarget, KindOf(err))
}
