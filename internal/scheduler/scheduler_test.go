package scheduler

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/cruizviquez/multi-platform-blog-poster/internal/content"
	"github.com/cruizviquez/multi-platform-blog-poster/internal/dispatch"
	"github.com/cruizviquez/multi-platform-blog-poster/internal/platforms"
	"github.com/cruizviquez/multi-platform-blog-poster/internal/queue"
)

type countingAdapter struct {
	calls int64
}

func (a *countingAdapter) Name() string { return "counting" }

func (a *countingAdapter) Publish(ctx context.Context, rec content.Record) platforms.Result {
	atomic.AddInt64(&a.calls, 1)
	return platforms.Result{Success: true, ID: "1"}
}

func newTestLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func newTestCoordinator(t *testing.T, adapter platforms.Adapter, texts ...string) *dispatch.Coordinator {
	t.Helper()
	store := queue.NewStore(filepath.Join(t.TempDir(), "queue.json"), newTestLogger())
	records := make([]content.Record, 0, len(texts))
	for _, text := range texts {
		records = append(records, content.Record{Content: text, Hash: content.Fingerprint(text)})
	}
	if len(records) > 0 {
		if err := store.Append(records); err != nil {
			t.Fatalf("seed queue: %v", err)
		}
	}
	return dispatch.NewCoordinator([]platforms.Adapter{adapter}, store, "", newTestLogger())
}

func TestIntervalDriverStopsOnCancel(t *testing.T) {
	adapter := &countingAdapter{}
	driver := NewIntervalDriver(newTestCoordinator(t, adapter, "a", "b", "c"), time.Millisecond, newTestLogger())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- driver.Run(ctx) }()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context.Canceled, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("driver did not stop after cancel")
	}

	if atomic.LoadInt64(&adapter.calls) == 0 {
		t.Fatal("driver never ran a posting cycle")
	}
}

func TestDailyDriverFiresSlotOncePerMinute(t *testing.T) {
	var generated int64
	generate := func(ctx context.Context) error {
		atomic.AddInt64(&generated, 1)
		return nil
	}

	adapter := &countingAdapter{}
	driver := NewDailyDriver(newTestCoordinator(t, adapter), generate, DailySchedule{GenerateAt: "07:00"}, newTestLogger()).
		WithClock(func() time.Time {
			return time.Date(2025, 3, 9, 7, 0, 30, 0, time.UTC)
		}, time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- driver.Run(ctx) }()

	time.Sleep(30 * time.Millisecond)
	cancel()
	<-done

	if got := atomic.LoadInt64(&generated); got != 1 {
		t.Fatalf("generation must fire once per matching minute, fired %d times", got)
	}
}

func TestDailyDriverPostsAtSlot(t *testing.T) {
	adapter := &countingAdapter{}
	driver := NewDailyDriver(newTestCoordinator(t, adapter, "queued"), nil, DailySchedule{PostTimes: []string{"09:00"}}, newTestLogger()).
		WithClock(func() time.Time {
			return time.Date(2025, 3, 9, 9, 0, 0, 0, time.UTC)
		}, time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- driver.Run(ctx) }()

	time.Sleep(30 * time.Millisecond)
	cancel()
	<-done

	if got := atomic.LoadInt64(&adapter.calls); got != 1 {
		t.Fatalf("slot must post exactly once, posted %d times", got)
	}
}

func TestDailyDriverFiresSameSlotOnConsecutiveDays(t *testing.T) {
	adapter := &countingAdapter{}
	var step int64
	driver := NewDailyDriver(newTestCoordinator(t, adapter, "day one", "day two"), nil, DailySchedule{PostTimes: []string{"09:00"}}, newTestLogger()).
		WithClock(func() time.Time {
			if atomic.AddInt64(&step, 1) < 10 {
				return time.Date(2025, 3, 9, 9, 0, 0, 0, time.UTC)
			}
			return time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
		}, time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- driver.Run(ctx) }()

	time.Sleep(60 * time.Millisecond)
	cancel()
	<-done

	if got := atomic.LoadInt64(&adapter.calls); got != 2 {
		t.Fatalf("single slot must fire once per day, fired %d time(s) across two days", got)
	}
}

func TestDailyDriverSkipsOffSlotMinutes(t *testing.T) {
	var generated int64
	driver := NewDailyDriver(newTestCoordinator(t, &countingAdapter{}), func(ctx context.Context) error {
		atomic.AddInt64(&generated, 1)
		return nil
	}, DefaultDailySchedule(), newTestLogger()).
		WithClock(func() time.Time {
			return time.Date(2025, 3, 9, 7, 13, 0, 0, time.UTC)
		}, time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_ = driver.Run(ctx)

	if atomic.LoadInt64(&generated) != 0 {
		t.Fatal("off-slot minute must not fire generation")
	}
}
