package scheduler

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/cruizviquez/multi-platform-blog-poster/internal/dispatch"
)

// defaultPostTimes spreads seven posts across the working day.
var defaultPostTimes = []string{"09:00", "10:30", "11:45", "14:00", "15:30", "17:00", "18:30"}

const defaultGenerateAt = "07:00"

// DailySchedule names the wall-clock slots, as "15:04" strings in local time.
type DailySchedule struct {
	GenerateAt string
	PostTimes  []string
}

// DefaultDailySchedule generates at 07:00 and posts at the default slots.
func DefaultDailySchedule() DailySchedule {
	return DailySchedule{GenerateAt: defaultGenerateAt, PostTimes: defaultPostTimes}
}

// DailyDriver fires a generation hook once each morning and a posting cycle
// at each configured slot. The clock is checked once a minute; each slot
// fires at most once per minute, so a slow cycle cannot double-fire.
type DailyDriver struct {
	coordinator *dispatch.Coordinator
	generate    func(ctx context.Context) error
	schedule    DailySchedule
	logger      *logrus.Logger
	now         func() time.Time
	tick        time.Duration
}

func NewDailyDriver(coordinator *dispatch.Coordinator, generate func(ctx context.Context) error, schedule DailySchedule, logger *logrus.Logger) *DailyDriver {
	if schedule.GenerateAt == "" {
		schedule.GenerateAt = defaultGenerateAt
	}
	if len(schedule.PostTimes) == 0 {
		schedule.PostTimes = defaultPostTimes
	}
	return &DailyDriver{
		coordinator: coordinator,
		generate:    generate,
		schedule:    schedule,
		logger:      logger,
		now:         time.Now,
		tick:        time.Minute,
	}
}

// WithClock replaces the clock and tick, for tests.
func (d *DailyDriver) WithClock(now func() time.Time, tick time.Duration) *DailyDriver {
	d.now = now
	d.tick = tick
	return d
}

// Run loops until the context is cancelled.
func (d *DailyDriver) Run(ctx context.Context) error {
	d.logger.WithFields(logrus.Fields{
		"generate_at": d.schedule.GenerateAt,
		"post_times":  d.schedule.PostTimes,
	}).Info("Starting daily schedule")

	lastFired := ""
	for {
		// Dedup on date+minute so a slot suppressed today still fires
		// tomorrow.
		stamp := d.now().Format("2006-01-02 15:04")
		if stamp != lastFired {
			if fired := d.runSlots(ctx, stamp[len(stamp)-5:]); fired {
				lastFired = stamp
			}
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(d.tick):
		}
	}
}

func (d *DailyDriver) runSlots(ctx context.Context, minute string) bool {
	fired := false

	if minute == d.schedule.GenerateAt && d.generate != nil {
		fired = true
		d.logger.Info("Generating daily content")
		if err := d.generate(ctx); err != nil {
			d.logger.WithError(err).Error("Daily generation failed")
		}
	}

	for _, slot := range d.schedule.PostTimes {
		if minute != slot {
			continue
		}
		fired = true
		if _, err := d.coordinator.PostNext(ctx); err != nil {
			d.logger.WithError(err).Error("Scheduled posting cycle failed")
		}
	}
	return fired
}
