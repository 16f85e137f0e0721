package events

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestJournalRecentNewestFirst(t *testing.T) {
	journal := NewJournal(16)
	journal.RecordSignup("Chess Club", "a@mergington.edu")
	journal.RecordSignup("Chess Club", "b@mergington.edu")
	journal.RecordUnregister("Chess Club", "a@mergington.edu")

	recent := journal.Recent(2)
	require.Len(t, recent, 2)
	require.Equal(t, ActionUnregistered, recent[0].Action)
	require.Equal(t, "a@mergington.edu", recent[0].Email)
	require.Equal(t, ActionSignedUp, recent[1].Action)
	require.Equal(t, "b@mergington.edu", recent[1].Email)
}

func TestJournalRecentLimitExceedsSize(t *testing.T) {
	journal := NewJournal(16)
	journal.RecordSignup("Chess Club", "a@mergington.edu")

	recent := journal.Recent(100)
	require.Len(t, recent, 1)
}

func TestJournalCapacityTrimsOldest(t *testing.T) {
	journal := NewJournal(2)
	journal.RecordSignup("Chess Club", "a@mergington.edu")
	journal.RecordSignup("Chess Club", "b@mergington.edu")
	journal.RecordSignup("Chess Club", "c@mergington.edu")

	recent := journal.Recent(0)
	require.Len(t, recent, 2)
	require.Equal(t, "c@mergington.edu", recent[0].Email)
	require.Equal(t, "b@mergington.edu", recent[1].Email)

	// Pending delivery queue is not trimmed by the retention cap.
	require.Equal(t, 3, journal.PendingCount())
}

func TestJournalClaimDrainsInOrder(t *testing.T) {
	journal := NewJournal(16)
	journal.RecordSignup("Chess Club", "a@mergington.edu")
	journal.RecordSignup("Chess Club", "b@mergington.edu")
	journal.RecordSignup("Chess Club", "c@mergington.edu")

	first := journal.Claim(2)
	require.Len(t, first, 2)
	require.Equal(t, "a@mergington.edu", first[0].Email)
	require.Equal(t, "b@mergington.edu", first[1].Email)

	second := journal.Claim(2)
	require.Len(t, second, 1)
	require.Equal(t, "c@mergington.edu", second[0].Email)

	require.Nil(t, journal.Claim(2))
}

func TestJournalRequeuePreservesOrder(t *testing.T) {
	journal := NewJournal(16)
	journal.RecordSignup("Chess Club", "a@mergington.edu")
	journal.RecordSignup("Chess Club", "b@mergington.edu")

	claimed := journal.Claim(1)
	require.Len(t, claimed, 1)

	journal.Requeue(claimed)

	all := journal.Claim(0)
	require.Len(t, all, 2)
	require.Equal(t, "a@mergington.edu", all[0].Email)
	require.Equal(t, "b@mergington.edu", all[1].Email)
}

func TestJournalChangesCarryIdentity(t *testing.T) {
	journal := NewJournal(16)
	journal.RecordSignup("Drama Club", "grace@mergington.edu")

	recent := journal.Recent(1)
	require.Len(t, recent, 1)
	change := recent[0]
	require.NotEmpty(t, change.EventID)
	require.Equal(t, "Drama Club", change.Activity)
	require.Equal(t, "grace@mergington.edu", change.Email)
	require.False(t, change.OccurredAt.IsZero())
}
