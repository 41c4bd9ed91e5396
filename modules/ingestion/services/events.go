package services

import (
	"github.com/google/uuid"

	"github.com/deskflow-io/deskflow/modules/ingestion/domain/ticket"
)

// TicketIngestedEvent is published after every successful merge.
type TicketIngestedEvent struct {
	IncidentID string
	Outcome    ticket.MergeOutcome
	SessionID  uuid.UUID
}

// SessionCompletedEvent is published once a batch reaches a terminal state.
type SessionCompletedEvent struct {
	SessionID uuid.UUID
	Result    BatchResult
}
