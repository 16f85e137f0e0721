package events

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/apex/log"
	"github.com/segmentio/kafka-go"
)

type messageWriter interface {
	WriteMessages(context.Context, string, ...kafka.Message) error
}

// Dispatcher drains the change journal and delivers roster events to Kafka.
type Dispatcher struct {
	journal          *Journal
	producer         messageWriter
	topic            string
	pollInterval     time.Duration
	batchSize        int
	logger           log.Interface
	shutdownComplete chan struct{}
}

// NewDispatcher constructs a Dispatcher.
func NewDispatcher(journal *Journal, producer messageWriter, topic string, pollInterval time.Duration, batchSize int) *Dispatcher {
	return &Dispatcher{
		journal:          journal,
		producer:         producer,
		topic:            topic,
		pollInterval:     pollInterval,
		batchSize:        batchSize,
		logger:           log.WithField("component", "events.dispatcher"),
		shutdownComplete: make(chan struct{}),
	}
}

// Start launches the polling loop. It should be called in a goroutine.
func (d *Dispatcher) Start(ctx context.Context) {
	ticker := time.NewTicker(d.pollInterval)
	defer func() {
		ticker.Stop()
		close(d.shutdownComplete)
	}()

	for {
		if err := d.processBatch(ctx); err != nil && !errors.Is(err, context.Canceled) {
			d.logger.WithError(err).Error("delivery failure")
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// Wait blocks until the dispatcher stops.
func (d *Dispatcher) Wait() {
	<-d.shutdownComplete
}

func (d *Dispatcher) processBatch(ctx context.Context) error {
	start := time.Now()

	changes := d.journal.Claim(d.batchSize)
	if len(changes) == 0 {
		return nil
	}
	defer batchDuration.Observe(time.Since(start).Seconds())

	messages := make([]kafka.Message, 0, len(changes))
	for _, change := range changes {
		payload, err := json.Marshal(change)
		if err != nil {
			// Changes are plain structs; a marshal failure is a programming error.
			return err
		}
		messages = append(messages, kafka.Message{
			Key:   []byte(change.Activity),
			Value: payload,
			Time:  change.OccurredAt,
			Headers: []kafka.Header{
				{Key: "event_type", Value: []byte("roster." + string(change.Action))},
				{Key: "event_id", Value: []byte(change.EventID)},
			},
		})
	}

	if err := d.producer.WriteMessages(ctx, d.topic, messages...); err != nil {
		failedCounter.Add(float64(len(changes)))
		// Keep ordering: the whole batch goes back to the front of the queue.
		d.journal.Requeue(changes)
		return err
	}

	deliveredCounter.Add(float64(len(changes)))
	return nil
}
