package schedule

import (
	"context"
	"errors"
	"storefront-delivery-service/internal/domain"
	"sync/atomic"
	"testing"
	"time"
)

type stubSource struct {
	calls atomic.Int32
	fetch func(ctx context.Context) (domain.Week, error)
}

func (s *stubSource) FetchWeek(ctx context.Context) (domain.Week, error) {
	s.calls.Add(1)
	return s.fetch(ctx)
}

func newTestMonitor(t *testing.T, src *stubSource, timeout time.Duration) *Monitor {
	t.Helper()
	m, err := NewMonitor(src, MonitorConfig{
		Location:     bogota,
		Messages:     EnglishMessages(),
		Interval:     10 * time.Millisecond,
		FetchTimeout: timeout,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return m
}

func TestMonitorStartsWithDefaultWeek(t *testing.T) {
	m := newTestMonitor(t, &stubSource{}, time.Second)

	snap := m.Snapshot()
	if !snap.Fallback || len(snap.Week) != 7 {
		t.Fatalf("unexpected initial snapshot: %+v", snap)
	}
	if !m.Status(on(9, 3, 0)).IsOpen {
		t.Fatalf("default week should be open at 03:00")
	}
}

func TestMonitorRefreshInstallsFetchedWeek(t *testing.T) {
	src := &stubSource{fetch: func(context.Context) (domain.Week, error) { return testWeek(), nil }}
	m := newTestMonitor(t, src, time.Second)

	if err := m.Refresh(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if m.Snapshot().Fallback {
		t.Fatalf("expected fetched snapshot")
	}
	if m.Status(on(9, 12, 0)).IsOpen {
		t.Fatalf("Monday is closed in the fetched week")
	}
}

func TestMonitorFallsBackOnError(t *testing.T) {
	src := &stubSource{fetch: func(context.Context) (domain.Week, error) { return nil, errors.New("upstream down") }}
	m := newTestMonitor(t, src, time.Second)

	if err := m.Refresh(context.Background()); err == nil {
		t.Fatalf("expected error")
	}

	snap := m.Snapshot()
	if !snap.Fallback || snap.Stale {
		t.Fatalf("expected default week after failure, got %+v", snap)
	}
	if !m.Status(on(9, 12, 0)).IsOpen {
		t.Fatalf("default week should be open on Monday")
	}
}

func TestMonitorKeepsFetchedWeekOnLaterError(t *testing.T) {
	fail := false
	src := &stubSource{fetch: func(context.Context) (domain.Week, error) {
		if fail {
			return nil, errors.New("upstream down")
		}
		return testWeek(), nil
	}}
	m := newTestMonitor(t, src, time.Second)

	if err := m.Refresh(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	fail = true
	if err := m.Refresh(context.Background()); err == nil {
		t.Fatalf("expected error")
	}

	snap := m.Snapshot()
	if snap.Fallback || !snap.Stale {
		t.Fatalf("expected the fetched week kept as stale, got %+v", snap)
	}
	if m.Status(on(9, 12, 0)).IsOpen {
		t.Fatalf("Monday is closed in the fetched week")
	}

	fail = false
	if err := m.Refresh(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.Snapshot().Stale {
		t.Fatalf("a successful refresh should clear the stale flag")
	}
}

func TestMonitorFallsBackOnTimeout(t *testing.T) {
	src := &stubSource{fetch: func(ctx context.Context) (domain.Week, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	}}
	m := newTestMonitor(t, src, 20*time.Millisecond)

	start := time.Now()
	err := m.Refresh(context.Background())
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("err = %v, want deadline exceeded", err)
	}
	if time.Since(start) > time.Second {
		t.Fatalf("refresh did not honour its timeout")
	}
	if !m.Snapshot().Fallback {
		t.Fatalf("expected default week after timeout")
	}
}

func TestMonitorEmptyWeekFallsBack(t *testing.T) {
	src := &stubSource{fetch: func(context.Context) (domain.Week, error) { return domain.Week{}, nil }}
	m := newTestMonitor(t, src, time.Second)

	if err := m.Refresh(context.Background()); err == nil {
		t.Fatalf("expected error for empty week")
	}
	if !m.Snapshot().Fallback {
		t.Fatalf("expected default week")
	}
}

func TestMonitorRunStopsOnCancel(t *testing.T) {
	src := &stubSource{fetch: func(context.Context) (domain.Week, error) { return testWeek(), nil }}
	m := newTestMonitor(t, src, time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		m.Run(ctx)
		close(done)
	}()

	deadline := time.After(2 * time.Second)
	for src.calls.Load() < 2 {
		select {
		case <-deadline:
			t.Fatalf("expected periodic refreshes, got %d", src.calls.Load())
		case <-time.After(5 * time.Millisecond):
		}
	}

	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("Run did not return after cancel")
	}
}

func TestNewMonitorRequiresSource(t *testing.T) {
	if _, err := NewMonitor(nil, MonitorConfig{}); err == nil {
		t.Fatalf("expected error")
	}
}
