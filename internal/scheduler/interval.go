// Package scheduler runs the posting loops: a fixed-interval driver that
// works through the queue one record per cycle, and a daily driver that
// generates content each morning and posts at fixed time slots.
package scheduler

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/cruizviquez/multi-platform-blog-poster/internal/dispatch"
)

// IntervalDriver posts the front of the queue every interval. Cycle errors
// are logged and absorbed; the driver waits a full interval and tries again
// rather than exiting.
type IntervalDriver struct {
	coordinator *dispatch.Coordinator
	interval    time.Duration
	logger      *logrus.Logger
}

func NewIntervalDriver(coordinator *dispatch.Coordinator, interval time.Duration, logger *logrus.Logger) *IntervalDriver {
	return &IntervalDriver{coordinator: coordinator, interval: interval, logger: logger}
}

// Run loops until the context is cancelled, starting with an immediate cycle.
func (d *IntervalDriver) Run(ctx context.Context) error {
	d.logger.WithField("interval", d.interval.String()).Info("Starting interval posting loop")

	for {
		if _, err := d.coordinator.PostNext(ctx); err != nil {
			d.logger.WithError(err).Error("Posting cycle failed, retrying next interval")
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(d.interval):
		}
	}
}
