// Package domain defines the business logic for the activity roster service.
package domain

import "errors"

var (
	// ErrActivityNotFound is returned when an activity name is not in the catalog.
	ErrActivityNotFound = errors.New("activity not found")
	// ErrAlreadySignedUp indicates the student is already on the activity's roster.
	ErrAlreadySignedUp = errors.New("student is already signed up")
	// ErrNotSignedUp indicates the student is not on the activity's roster.
	ErrNotSignedUp = errors.New("student is not signed up for this activity")
)

// Activity is an extracurricular offering and its roster. Participants is
// insertion-ordered and never contains the same email twice.
type Activity struct {
	Name            string
	Description     string
	Schedule        string
	MaxParticipants int
	Participants    []string
}
