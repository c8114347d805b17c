package background

import (
	"context"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/BradenHooton/roster/internal/throttle"
	"github.com/stretchr/testify/assert"
)

type countingSweeper struct {
	calls atomic.Int32
}

func (s *countingSweeper) Sweep() int {
	s.calls.Add(1)
	return 1
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestCleanupManager_SweepsOnTick(t *testing.T) {
	sweeper := &countingSweeper{}
	cm := NewCleanupManager(sweeper, discardLogger(), 5*time.Millisecond)

	done := make(chan struct{})
	go func() {
		cm.Start(context.Background())
		close(done)
	}()

	assert.Eventually(t, func() bool { return sweeper.calls.Load() >= 2 }, time.Second, 5*time.Millisecond)

	cm.Stop()
	cm.Stop()
	<-done
}

func TestCleanupManager_StopsOnContextCancel(t *testing.T) {
	cm := NewCleanupManager(&countingSweeper{}, discardLogger(), time.Hour)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		cm.Start(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Start did not return after cancel")
	}
}

func TestCleanupManager_EvictsExpiredGuardRecords(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	guard := throttle.NewGuard(throttle.Config{Threshold: 5, Window: 30 * time.Minute}, discardLogger())
	guard.SetClock(func() time.Time { return now })

	_, err := guard.CheckAndRecordAttempt("a@example.com")
	assert.NoError(t, err)
	assert.Equal(t, 1, guard.Len())

	now = now.Add(31 * time.Minute)
	cm := NewCleanupManager(guard, discardLogger(), time.Hour)
	cm.runCleanup()

	assert.Equal(t, 0, guard.Len())
}
