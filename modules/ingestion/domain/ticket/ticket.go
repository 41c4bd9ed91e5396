package ticket

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MergeOutcome reports whether an upsert created a fresh row or replaced
// an existing one.
type MergeOutcome int

const (
	OutcomeInserted MergeOutcome = iota
	OutcomeUpdated
)

func (o MergeOutcome) String() string {
	if o == OutcomeInserted {
		return "inserted"
	}
	return "updated"
}

// Ticket is the canonical unit of work produced by export ingestion.
// IncidentID is the source-system business key and is unique across all
// tickets; everything else is overwritten wholesale on re-ingestion.
//
// Optional text attributes use "" for absent (the normalizer never yields a
// non-blank empty value); optional numeric and temporal attributes use nil.
type Ticket struct {
	ID         uint
	TenantID   uuid.UUID
	IncidentID string

	// Provenance.
	SourceID  string
	MappingID *int
	ProjectID string

	// Actors.
	Organization      string
	Company           string
	Location          string
	Caller            string
	OpenedBy          string
	ResolvedBy        string
	ClosedBy          string
	AssignmentGroup   string
	Assignee          string
	AssignedUserEmail string

	// Classification.
	ContactType       string
	State             string
	Impact            string
	Urgency           string
	Priority          string
	Category          string
	Subcategory       string
	ServiceOffering   string
	ConfigurationItem string

	// Narrative.
	ShortDescription string
	Description      string
	CloseCode        string
	CloseNotes       string

	// Related records.
	CausedBy      string
	ProblemID     string
	ChangeRequest string

	// Counters and flags.
	MadeSLA           *bool
	ReassignmentCount *int
	ReopenCount       *int

	// Timeline.
	OpenedAt   *time.Time
	ResolvedAt *time.Time
	ClosedAt   *time.Time
	DueAt      *time.Time

	// Duration triples: the original human-readable value plus its derived
	// integer-seconds and decimal-minutes companions.
	ResponseTime        string
	ResponseTimeSeconds *int
	ResponseTimeMinutes *decimal.Decimal
	ResolvedTime        string
	ResolvedTimeSeconds *int
	ResolvedTimeMinutes *decimal.Decimal

	CreatedAt time.Time
	UpdatedAt time.Time
}

type FindParams struct {
	SourceID  string
	ProjectID string
	State     string
	Limit     int
	Offset    int
}

type Repository interface {
	// Upsert writes the full attribute set for t.IncidentID as a single
	// atomic insert-or-replace. At most one row per incident id exists
	// regardless of concurrent callers.
	Upsert(ctx context.Context, t *Ticket) (MergeOutcome, error)
	GetByIncidentID(ctx context.Context, incidentID string) (*Ticket, error)
	ExistsByIncidentID(ctx context.Context, incidentID string) (bool, error)
	List(ctx context.Context, params *FindParams) ([]*Ticket, error)
	Count(ctx context.Context, params *FindParams) (int64, error)
}
