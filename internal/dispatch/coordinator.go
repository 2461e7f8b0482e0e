// Package dispatch fans queued records out to the configured platform
// adapters and applies the queue retention policy: a record leaves the queue
// only once every adapter reported success. Delivery is at-least-once; a
// retried record is re-posted to every platform, including those that already
// succeeded.
package dispatch

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/cruizviquez/multi-platform-blog-poster/internal/content"
	"github.com/cruizviquez/multi-platform-blog-poster/internal/platforms"
	"github.com/cruizviquez/multi-platform-blog-poster/internal/queue"
)

// Outcome reports one posting cycle: the record taken from the front of the
// queue, the per-platform results, and whether the record was removed.
type Outcome struct {
	Record  content.Record              `json:"record"`
	Results map[string]platforms.Result `json:"results"`
	Posted  bool                        `json:"posted"`
}

type Coordinator struct {
	adapters []platforms.Adapter
	queue    *queue.Store
	logPath  string
	logger   *logrus.Logger
	now      func() time.Time
}

// NewCoordinator wires the adapter set to the queue store. logPath names the
// posting history file; empty disables the history log.
func NewCoordinator(adapters []platforms.Adapter, store *queue.Store, logPath string, logger *logrus.Logger) *Coordinator {
	return &Coordinator{
		adapters: adapters,
		queue:    store,
		logPath:  logPath,
		logger:   logger,
		now:      time.Now,
	}
}

// WithClock replaces the timestamp source, for tests.
func (c *Coordinator) WithClock(now func() time.Time) *Coordinator {
	c.now = now
	return c
}

// DispatchToAll publishes the record on every configured adapter. Every
// adapter is invoked regardless of earlier failures; the map holds exactly
// one entry per adapter.
func (c *Coordinator) DispatchToAll(ctx context.Context, rec content.Record) map[string]platforms.Result {
	results := make(map[string]platforms.Result, len(c.adapters))
	for _, adapter := range c.adapters {
		result := adapter.Publish(ctx, rec)
		results[adapter.Name()] = result

		fields := logrus.Fields{"platform": adapter.Name(), "hash": rec.Hash}
		if result.Success {
			c.logger.WithFields(fields).Info("Post published")
		} else {
			fields["error"] = result.Error
			c.logger.WithFields(fields).Warn("Post failed")
		}
	}
	return results
}

// DispatchToSubset restricts the fan-out to the named adapters. Unknown
// names are ignored.
func (c *Coordinator) DispatchToSubset(ctx context.Context, rec content.Record, names []string) map[string]platforms.Result {
	wanted := make(map[string]bool, len(names))
	for _, name := range names {
		wanted[name] = true
	}

	results := make(map[string]platforms.Result, len(names))
	for _, adapter := range c.adapters {
		if !wanted[adapter.Name()] {
			continue
		}
		results[adapter.Name()] = adapter.Publish(ctx, rec)
	}
	return results
}

// PostNext runs one posting cycle: take the front of the queue, dispatch to
// every adapter, and persist the queue without the record only if every
// adapter succeeded. An empty queue is a no-op and leaves the file untouched.
func (c *Coordinator) PostNext(ctx context.Context) (*Outcome, error) {
	records := c.queue.Load()
	if len(records) == 0 {
		c.logger.Info("Queue empty, nothing to post")
		return nil, nil
	}

	front := records[0]
	results := c.DispatchToAll(ctx, front)

	posted := len(results) > 0
	for _, result := range results {
		if !result.Success {
			posted = false
			break
		}
	}

	outcome := &Outcome{Record: front, Results: results, Posted: posted}
	c.appendHistory(outcome)

	if !posted {
		// The record stays at the front; the next cycle retries it against
		// every platform.
		c.logger.WithFields(logrus.Fields{"hash": front.Hash, "queue_length": len(records)}).
			Warn("Keeping record in queue after failed dispatch")
		return outcome, nil
	}

	if err := c.queue.Save(records[1:]); err != nil {
		return outcome, fmt.Errorf("save queue: %w", err)
	}
	c.logger.WithFields(logrus.Fields{"hash": front.Hash, "queue_length": len(records) - 1}).
		Info("Record posted and removed from queue")
	return outcome, nil
}

// appendHistory writes one JSON line per posting cycle. History failures are
// logged and swallowed: the log is an audit trail, not part of queue state.
func (c *Coordinator) appendHistory(outcome *Outcome) {
	if c.logPath == "" {
		return
	}

	entry := struct {
		Timestamp time.Time                   `json:"timestamp"`
		Record    content.Record              `json:"record"`
		Results   map[string]platforms.Result `json:"results"`
	}{Timestamp: c.now(), Record: outcome.Record, Results: outcome.Results}

	data, err := json.Marshal(entry)
	if err != nil {
		c.logger.WithError(err).Warn("Failed to encode posting history entry")
		return
	}

	f, err := os.OpenFile(c.logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		c.logger.WithError(err).Warn("Failed to open posting history log")
		return
	}
	defer f.Close()

	if _, err := f.Write(append(data, '\n')); err != nil {
		c.logger.WithError(err).Warn("Failed to append posting history entry")
	}
}
