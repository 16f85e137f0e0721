// Package events records roster changes and delivers them to Kafka.
package events

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Action identifies the kind of roster mutation.
type Action string

const (
	ActionSignedUp     Action = "signed_up"
	ActionUnregistered Action = "unregistered"
)

// RosterChange is the event emitted for every successful roster mutation.
type RosterChange struct {
	EventID    string    `json:"event_id"`
	Activity   string    `json:"activity"`
	Email      string    `json:"email"`
	Action     Action    `json:"action"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Journal is a bounded in-memory change log. It retains the most recent
// changes for the events endpoint and queues every change for delivery.
type Journal struct {
	mu       sync.Mutex
	recent   []RosterChange
	pending  []RosterChange
	capacity int
}

// NewJournal creates a Journal retaining up to capacity recent changes.
func NewJournal(capacity int) *Journal {
	if capacity <= 0 {
		capacity = 256
	}
	return &Journal{capacity: capacity}
}

// RecordSignup records a signup change.
func (j *Journal) RecordSignup(activity, email string) {
	j.record(activity, email, ActionSignedUp)
}

// RecordUnregister records an unregistration change.
func (j *Journal) RecordUnregister(activity, email string) {
	j.record(activity, email, ActionUnregistered)
}

func (j *Journal) record(activity, email string, action Action) {
	change := RosterChange{
		EventID:    uuid.NewString(),
		Activity:   activity,
		Email:      email,
		Action:     action,
		OccurredAt: time.Now().UTC(),
	}

	j.mu.Lock()
	defer j.mu.Unlock()

	j.recent = append(j.recent, change)
	if len(j.recent) > j.capacity {
		j.recent = j.recent[len(j.recent)-j.capacity:]
	}
	j.pending = append(j.pending, change)
}

// Recent returns up to limit changes, newest first.
func (j *Journal) Recent(limit int) []RosterChange {
	j.mu.Lock()
	defer j.mu.Unlock()

	if limit <= 0 || limit > len(j.recent) {
		limit = len(j.recent)
	}

	out := make([]RosterChange, 0, limit)
	for i := len(j.recent) - 1; i >= len(j.recent)-limit; i-- {
		out = append(out, j.recent[i])
	}
	return out
}

// Claim removes and returns up to max pending changes in record order.
func (j *Journal) Claim(max int) []RosterChange {
	j.mu.Lock()
	defer j.mu.Unlock()

	if len(j.pending) == 0 {
		return nil
	}
	if max <= 0 || max > len(j.pending) {
		max = len(j.pending)
	}

	out := make([]RosterChange, max)
	copy(out, j.pending[:max])
	j.pending = j.pending[max:]
	return out
}

// Requeue puts claimed changes back at the front of the pending queue after a
// delivery failure.
func (j *Journal) Requeue(changes []RosterChange) {
	if len(changes) == 0 {
		return
	}

	j.mu.Lock()
	defer j.mu.Unlock()
	j.pending = append(append([]RosterChange(nil), changes...), j.pending...)
}

// PendingCount reports the number of changes waiting for delivery.
func (j *Journal) PendingCount() int {
	j.mu.Lock()
	defer j.mu.Unlock()
	return len(j.pending)
}
