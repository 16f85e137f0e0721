// Package roster provides the in-memory activity store. The catalog lives and
// dies with the process: it is seeded once at startup and mutated in place.
package roster

import (
	"context"
	"sync"

	"example.com/roster/internal/domain"
)

// Store guards the activity catalog with a mutex so concurrent signup and
// unregister calls check and mutate the roster atomically.
type Store struct {
	mu         sync.Mutex
	activities map[string]*domain.Activity
}

// NewStore builds a Store from seed activities. Activity names are immutable
// after this point; there is no create or delete operation.
func NewStore(seed []domain.Activity) *Store {
	activities := make(map[string]*domain.Activity, len(seed))
	for _, activity := range seed {
		a := activity
		a.Participants = append([]string(nil), activity.Participants...)
		activities[a.Name] = &a
	}
	return &Store{activities: activities}
}

// Snapshot returns a deep copy of the catalog keyed by activity name.
func (s *Store) Snapshot(ctx context.Context) (map[string]domain.Activity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(map[string]domain.Activity, len(s.activities))
	for name, activity := range s.activities {
		copied := *activity
		copied.Participants = append([]string(nil), activity.Participants...)
		out[name] = copied
	}
	return out, nil
}

// Signup appends email to the end of the activity's participant list and
// returns the new roster size. MaxParticipants is not checked; an activity
// can be over-subscribed.
func (s *Store) Signup(ctx context.Context, activity, email string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.activities[activity]
	if !ok {
		return 0, domain.ErrActivityNotFound
	}
	if contains(rec.Participants, email) {
		return 0, domain.ErrAlreadySignedUp
	}

	rec.Participants = append(rec.Participants, email)
	return len(rec.Participants), nil
}

// Unregister removes email from the activity's participant list, preserving
// the relative order of the remaining participants, and returns the new
// roster size.
func (s *Store) Unregister(ctx context.Context, activity, email string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.activities[activity]
	if !ok {
		return 0, domain.ErrActivityNotFound
	}

	for i, participant := range rec.Participants {
		if participant == email {
			rec.Participants = append(rec.Participants[:i], rec.Participants[i+1:]...)
			return len(rec.Participants), nil
		}
	}
	return 0, domain.ErrNotSignedUp
}

func contains(participants []string, email string) bool {
	for _, participant := range participants {
		if participant == email {
			return true
		}
	}
	return false
}
