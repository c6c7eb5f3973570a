// Package audit appends business events to the persistent audit trail.
// Recording is best-effort: a failed insert is logged and swallowed so an
// audit outage never fails the operation being audited.
package audit

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/Thalanas110/CarRentalAPI/internal/model"
)

// Inserter is the slice of event log data access the recorder needs.
type Inserter interface {
	Insert(ctx context.Context, entry *model.EventLog) error
}

// Recorder writes audit entries. A nil Recorder records nothing, which
// keeps tests free of audit wiring.
type Recorder struct {
	logs Inserter
}

// NewRecorder creates a Recorder backed by the given event log store.
func NewRecorder(logs Inserter) *Recorder {
	return &Recorder{logs: logs}
}

// Record appends one entry to the audit trail.
func (r *Recorder) Record(ctx context.Context, entry *model.EventLog) {
	if r == nil || r.logs == nil {
		return
	}
	if err := r.logs.Insert(ctx, entry); err != nil {
		log.Warn().
			Err(err).
			Str("event_type", entry.EventType).
			Str("event_category", entry.Category).
			Msg("audit entry dropped")
	}
}
