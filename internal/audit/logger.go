package audit

import (
	"context"

	"github.com/apex/log"
)

// LogHandler writes each roster change to the structured log. It is the
// terminal consumer of the audit trail.
type LogHandler struct {
	logger log.Interface
}

// NewLogHandler constructs a LogHandler.
func NewLogHandler(logger log.Interface) *LogHandler {
	if logger == nil {
		logger = log.WithField("component", "audit.log")
	}
	return &LogHandler{logger: logger}
}

// Handle logs one roster change entry.
func (h *LogHandler) Handle(ctx context.Context, entry Entry) error {
	h.logger.WithFields(log.Fields{
		"event_id": entry.Change.EventID,
		"activity": entry.Change.Activity,
		"email":    entry.Change.Email,
		"action":   string(entry.Change.Action),
		"occurred": entry.Change.OccurredAt,
	}).Info("roster change")
	return nil
}
