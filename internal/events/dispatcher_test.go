package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"
)

type stubWriter struct {
	err    error
	topics []string
	msgs   []kafka.Message
}

func (w *stubWriter) WriteMessages(ctx context.Context, topic string, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.topics = append(w.topics, topic)
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func TestDispatcherDeliversBatch(t *testing.T) {
	journal := NewJournal(16)
	journal.RecordSignup("Basketball", "alex@mergington.edu")
	journal.RecordUnregister("Basketball", "alex@mergington.edu")

	writer := &stubWriter{}
	dispatcher := NewDispatcher(journal, writer, "roster_events", time.Second, 25)

	require.NoError(t, dispatcher.processBatch(context.Background()))

	require.Equal(t, []string{"roster_events"}, writer.topics)
	require.Len(t, writer.msgs, 2)
	require.Equal(t, 0, journal.PendingCount())

	first := writer.msgs[0]
	require.Equal(t, []byte("Basketball"), first.Key)

	var change RosterChange
	require.NoError(t, json.Unmarshal(first.Value, &change))
	require.Equal(t, ActionSignedUp, change.Action)
	require.Equal(t, "alex@mergington.edu", change.Email)

	eventType, found := headerLookup(first, "event_type")
	require.True(t, found)
	require.Equal(t, "roster.signed_up", string(eventType))
}

func TestDispatcherRequeuesOnFailure(t *testing.T) {
	journal := NewJournal(16)
	journal.RecordSignup("Chess Club", "a@mergington.edu")
	journal.RecordSignup("Chess Club", "b@mergington.edu")

	writer := &stubWriter{err: errors.New("broker unavailable")}
	dispatcher := NewDispatcher(journal, writer, "roster_events", time.Second, 25)

	err := dispatcher.processBatch(context.Background())
	require.Error(t, err)
	require.Equal(t, 2, journal.PendingCount())

	// Order survives the requeue.
	pending := journal.Claim(0)
	require.Equal(t, "a@mergington.edu", pending[0].Email)
	require.Equal(t, "b@mergington.edu", pending[1].Email)
}

func TestDispatcherEmptyJournalNoop(t *testing.T) {
	journal := NewJournal(16)
	writer := &stubWriter{}
	dispatcher := NewDispatcher(journal, writer, "roster_events", time.Second, 25)

	require.NoError(t, dispatcher.processBatch(context.Background()))
	require.Empty(t, writer.msgs)
}

func TestDispatcherStopsOnCancel(t *testing.T) {
	journal := NewJournal(16)
	writer := &stubWriter{}
	dispatcher := NewDispatcher(journal, writer, "roster_events", 10*time.Millisecond, 25)

	ctx, cancel := context.WithCancel(context.Background())
	go dispatcher.Start(ctx)

	journal.RecordSignup("Gym Class", "john@mergington.edu")
	require.Eventually(t, func() bool {
		return journal.PendingCount() == 0
	}, time.Second, 5*time.Millisecond)

	cancel()
	done := make(chan struct{})
	go func() {
		dispatcher.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("dispatcher did not stop after cancel")
	}
}

func headerLookup(msg kafka.Message, key string) ([]byte, bool) {
	for _, header := range msg.Headers {
		if header.Key == key {
			return header.Value, true
		}
	}
	return nil, false
}
