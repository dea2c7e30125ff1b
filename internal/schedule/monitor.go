package schedule

import (
	"context"
	"fmt"
	"storefront-delivery-service/internal/domain"
	"storefront-delivery-service/internal/platform/metrics"
	"storefront-delivery-service/internal/ports"
	"sync/atomic"
	"time"

	log "github.com/sirupsen/logrus"
)

const (
	DefaultRefreshInterval = 60 * time.Second
	DefaultFetchTimeout    = 3 * time.Second
)

// DefaultWeek is the schedule used until a fetch succeeds: every day open
// 00:00 to 23:59.
func DefaultWeek() domain.Week {
	week := make(domain.Week, 0, 7)
	for wd := time.Sunday; wd <= time.Saturday; wd++ {
		week = append(week, domain.DaySchedule{
			Day:       wd,
			Open:      domain.TimeOfDay{Hour: 0, Minute: 0},
			Close:     domain.TimeOfDay{Hour: 23, Minute: 59},
			IsOpenDay: true,
		})
	}
	return week
}

// Snapshot is an immutable view of the week the monitor last settled on.
// Stale marks a fetched week kept after later refreshes failed.
type Snapshot struct {
	Week      domain.Week
	Fallback  bool
	Stale     bool
	FetchedAt time.Time
}

type MonitorConfig struct {
	Location     *time.Location
	Messages     Messages
	Interval     time.Duration
	FetchTimeout time.Duration
}

// Monitor keeps the store schedule current. Readers never block: the
// snapshot is replaced wholesale on every refresh.
type Monitor struct {
	source   ports.ScheduleSource
	loc      *time.Location
	msgs     Messages
	interval time.Duration
	timeout  time.Duration

	snap     atomic.Pointer[Snapshot]
	lastOpen atomic.Int32 // -1 unknown, 0 closed, 1 open

	now func() time.Time
}

func NewMonitor(source ports.ScheduleSource, cfg MonitorConfig) (*Monitor, error) {
	if source == nil {
		return nil, fmt.Errorf("NewMonitor: schedule source is required")
	}
	if cfg.Location == nil {
		cfg.Location, _ = LoadLocation(DefaultTimezone)
	}
	if cfg.Messages.ClosesIn == nil {
		cfg.Messages = EnglishMessages()
	}
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultRefreshInterval
	}
	if cfg.FetchTimeout <= 0 {
		cfg.FetchTimeout = DefaultFetchTimeout
	}

	m := &Monitor{
		source:   source,
		loc:      cfg.Location,
		msgs:     cfg.Messages,
		interval: cfg.Interval,
		timeout:  cfg.FetchTimeout,
		now:      time.Now,
	}
	m.snap.Store(&Snapshot{Week: DefaultWeek(), Fallback: true})
	m.lastOpen.Store(-1)

	return m, nil
}

func (m *Monitor) Location() *time.Location { return m.loc }

// Snapshot returns the current schedule snapshot.
func (m *Monitor) Snapshot() Snapshot {
	return *m.snap.Load()
}

// Status evaluates the current snapshot at now.
func (m *Monitor) Status(now time.Time) domain.StoreStatus {
	return Evaluate(m.snap.Load().Week, now, m.loc, m.msgs)
}

// Refresh fetches the week once. On any failure, including the fetch timeout,
// a previously fetched week stays installed (marked stale); with none yet, the
// default week is installed. The error is returned for the caller's logs.
func (m *Monitor) Refresh(ctx context.Context) error {
	fetchCtx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	week, err := m.source.FetchWeek(fetchCtx)
	if err == nil && len(week) == 0 {
		err = fmt.Errorf("empty schedule")
	}
	if err != nil {
		if cur := m.snap.Load(); !cur.Fallback {
			stale := *cur
			stale.Stale = true
			m.snap.Store(&stale)
			metrics.ScheduleRefreshes.WithLabelValues("stale").Inc()
			log.WithError(err).WithField("fetched_at", cur.FetchedAt).
				Warn("schedule refresh failed, keeping last fetched week")
			return fmt.Errorf("Refresh: fetch week: %w", err)
		}

		m.snap.Store(&Snapshot{Week: DefaultWeek(), Fallback: true, FetchedAt: m.now()})
		metrics.ScheduleRefreshes.WithLabelValues("fallback").Inc()
		log.WithError(err).Warn("schedule refresh failed, using default week")
		return fmt.Errorf("Refresh: fetch week: %w", err)
	}

	m.snap.Store(&Snapshot{Week: week, FetchedAt: m.now()})
	metrics.ScheduleRefreshes.WithLabelValues("ok").Inc()
	log.WithField("days", len(week)).Debug("schedule refreshed")
	return nil
}

// Run refreshes immediately and then every interval until ctx is done.
func (m *Monitor) Run(ctx context.Context) {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		_ = m.Refresh(ctx)
		m.observe()

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (m *Monitor) observe() {
	status := m.Status(m.now())

	var open int32
	if status.IsOpen {
		open = 1
	}
	prev := m.lastOpen.Swap(open)
	if prev == open {
		return
	}

	log.WithFields(log.Fields{
		"open":        status.IsOpen,
		"message":     status.Message,
		"sub_message": status.SubMessage,
	}).Info("store state changed")
}
