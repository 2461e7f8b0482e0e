// Package content owns the generated-post domain model: records, the
// duplicate-detection history, and the generator that turns completion-service
// output into queueable records.
package content

import (
	"crypto/md5"
	"encoding/hex"
	"strings"
	"time"
)

// Record is one generated post and its metadata, the unit of work flowing
// through the queue. A record is immutable once generated; only queue
// bookkeeping (QueuePosition, AddedToQueue) is set later, at enqueue time.
type Record struct {
	ID             string    `json:"id,omitempty"`
	Title          string    `json:"title,omitempty"`
	Content        string    `json:"content"`
	URL            string    `json:"url,omitempty"`
	Type           string    `json:"type,omitempty"`
	Topic          string    `json:"topic,omitempty"`
	Hash           string    `json:"hash,omitempty"`
	ThreadPosition string    `json:"thread_position,omitempty"`
	GeneratedAt    time.Time `json:"generated_at"`

	// Queue bookkeeping, zero until enqueued.
	QueuePosition int       `json:"queue_position,omitempty"`
	AddedToQueue  time.Time `json:"added_to_queue,omitzero"`
}

// Normalize lower-cases text so that case-only variants fingerprint
// identically.
func Normalize(text string) string {
	return strings.ToLower(text)
}

// Fingerprint returns the deterministic content hash used for duplicate
// detection: md5 of the normalized text. Uniqueness is probabilistic only.
func Fingerprint(text string) string {
	sum := md5.Sum([]byte(Normalize(text)))
	return hex.EncodeToString(sum[:])
}
