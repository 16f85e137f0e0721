// Package audit consumes roster change events from Kafka for the audit trail.
package audit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/apex/log"
	"github.com/segmentio/kafka-go"

	"example.com/roster/internal/events"
)

// Reader exposes the minimal kafka.Reader interface needed by the processor.
type Reader interface {
	FetchMessage(context.Context) (kafka.Message, error)
	CommitMessages(context.Context, ...kafka.Message) error
	Close() error
}

// Handler receives decoded roster changes.
type Handler interface {
	Handle(context.Context, Entry) error
}

// Entry is the decoded representation of a Kafka record emitted by the
// events dispatcher.
type Entry struct {
	Topic     string
	Partition int
	Offset    int64
	Timestamp time.Time
	EventType string
	Change    events.RosterChange
}

// Option configures optional behaviour for the Processor.
type Option func(*Processor)

// WithLogger overrides the logger used to report errors.
func WithLogger(logger log.Interface) Option {
	return func(p *Processor) {
		p.logger = logger
	}
}

// Processor pulls messages from Kafka, decodes them, and dispatches to a Handler.
type Processor struct {
	reader  Reader
	handler Handler
	logger  log.Interface
}

// NewProcessor constructs a Processor with the provided reader and handler.
func NewProcessor(reader Reader, handler Handler, opts ...Option) *Processor {
	p := &Processor{
		reader:  reader,
		handler: handler,
		logger:  log.WithField("component", "audit.processor"),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run starts a blocking loop that processes Kafka messages until the context
// is cancelled.
func (p *Processor) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		msg, err := p.reader.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return err
			}
			p.logger.WithError(err).Error("fetch error")
			continue
		}

		entry, decodeErr := decodeMessage(msg)
		if decodeErr != nil {
			p.logger.WithError(decodeErr).
				WithField("topic", msg.Topic).
				WithField("partition", msg.Partition).
				WithField("offset", msg.Offset).
				Error("decode error")
			recordDecodeError(msg.Topic)
			// Commit malformed messages to avoid poison-pill loops.
			if commitErr := p.reader.CommitMessages(ctx, msg); commitErr != nil {
				p.logger.WithError(commitErr).Error("commit error after decode failure")
			}
			continue
		}

		if handleErr := p.handler.Handle(ctx, entry); handleErr != nil {
			p.logger.WithError(handleErr).
				WithField("event_type", entry.EventType).
				WithField("activity", entry.Change.Activity).
				Error("handler error")
			recordHandlerError(entry)
			continue
		}

		if commitErr := p.reader.CommitMessages(ctx, msg); commitErr != nil {
			p.logger.WithError(commitErr).Error("commit error")
		} else {
			recordProcessed(entry)
		}
	}
}

func decodeMessage(msg kafka.Message) (Entry, error) {
	eventType, ok := headerValue(msg, "event_type")
	if !ok {
		return Entry{}, errors.New("missing event_type header")
	}

	var change events.RosterChange
	if err := json.Unmarshal(msg.Value, &change); err != nil {
		return Entry{}, fmt.Errorf("decode roster change: %w", err)
	}
	if change.Activity == "" || change.Email == "" {
		return Entry{}, errors.New("roster change missing activity or email")
	}

	return Entry{
		Topic:     msg.Topic,
		Partition: msg.Partition,
		Offset:    msg.Offset,
		Timestamp: msg.Time,
		EventType: string(eventType),
		Change:    change,
	}, nil
}

func headerValue(msg kafka.Message, key string) ([]byte, bool) {
	for _, header := range msg.Headers {
		if header.Key == key {
			return header.Value, true
		}
	}
	return nil, false
}
