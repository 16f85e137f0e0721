package domain

import (
	"context"
	"errors"

	"example.com/roster/internal/observability"
)

// Store captures roster persistence operations. The in-memory store is the
// only implementation today; signatures keep ctx and error so a driver-backed
// store could be swapped in.
type Store interface {
	Snapshot(ctx context.Context) (map[string]Activity, error)
	Signup(ctx context.Context, activity, email string) (int, error)
	Unregister(ctx context.Context, activity, email string) (int, error)
}

// ChangeLog receives a record of every successful roster mutation.
type ChangeLog interface {
	RecordSignup(activity, email string)
	RecordUnregister(activity, email string)
}

// Service orchestrates roster workflows.
type Service struct {
	store   Store
	changes ChangeLog
}

// NewService constructs a Service. changes may be nil when no change feed is wired.
func NewService(store Store, changes ChangeLog) *Service {
	return &Service{store: store, changes: changes}
}

// ListActivities returns the full catalog keyed by activity name.
func (s *Service) ListActivities(ctx context.Context) (map[string]Activity, error) {
	return s.store.Snapshot(ctx)
}

// Signup adds email to the end of the activity's roster.
func (s *Service) Signup(ctx context.Context, activity, email string) error {
	size, err := s.store.Signup(ctx, activity, email)
	if err != nil {
		observability.RecordRejection("signup", rejectionReason(err))
		return err
	}

	observability.RecordSignup(activity, size)
	if s.changes != nil {
		s.changes.RecordSignup(activity, email)
	}
	return nil
}

// Unregister removes email from the activity's roster, preserving the
// relative order of the remaining participants.
func (s *Service) Unregister(ctx context.Context, activity, email string) error {
	size, err := s.store.Unregister(ctx, activity, email)
	if err != nil {
		observability.RecordRejection("unregister", rejectionReason(err))
		return err
	}

	observability.RecordUnregister(activity, size)
	if s.changes != nil {
		s.changes.RecordUnregister(activity, email)
	}
	return nil
}

func rejectionReason(err error) string {
	switch {
	case errors.Is(err, ErrActivityNotFound):
		return "unknown_activity"
	case errors.Is(err, ErrAlreadySignedUp):
		return "already_signed_up"
	case errors.Is(err, ErrNotSignedUp):
		return "not_signed_up"
	default:
		return "internal"
	}
}
