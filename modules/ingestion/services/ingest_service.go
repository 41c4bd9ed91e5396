package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/deskflow-io/deskflow/modules/ingestion/domain/ticket"
	"github.com/deskflow-io/deskflow/pkg/composables"
	"github.com/deskflow-io/deskflow/pkg/eventbus"
)

// IngestOptions parameterize one batch run.
type IngestOptions struct {
	// SourceID identifies the exporting system; mapping rules are scoped
	// by it and it is stamped on every ticket as provenance.
	SourceID string
	// InsertOnly rejects records whose business key already exists instead
	// of merging them. Off by default; merge is the production path.
	InsertOnly bool
	// DryRun runs the full pipeline but skips the merge.
	DryRun bool
	// SessionID, when set, receives progress updates as rows are processed.
	SessionID uuid.UUID
	// ProgressEvery is the row interval between progress writes. Zero
	// disables mid-batch progress.
	ProgressEvery int
}

// RecordError describes one rejected record.
type RecordError struct {
	Key    string
	Reason ReasonCode
	Detail string
}

// BatchResult is the complete summary of one batch. There is no silent
// partial success: every record lands in exactly one counter.
type BatchResult struct {
	Inserted int
	Updated  int
	Failed   int
	Errors   []RecordError
}

// IngestService drives the ingestion pipeline over a batch of records. It
// is the only pipeline component with persistence side effects; each
// record's merge is its own transaction, so a batch can partially succeed.
type IngestService struct {
	tickets   ticket.Repository
	validator *RecordValidator
	resolver  *MappingResolver
	parser    *TemporalParser
	sessions  *SessionService
	publisher eventbus.EventBus
	log       *logrus.Logger
}

func NewIngestService(
	tickets ticket.Repository,
	validator *RecordValidator,
	resolver *MappingResolver,
	parser *TemporalParser,
	sessions *SessionService,
	publisher eventbus.EventBus,
	log *logrus.Logger,
) *IngestService {
	return &IngestService{
		tickets:   tickets,
		validator: validator,
		resolver:  resolver,
		parser:    parser,
		sessions:  sessions,
		publisher: publisher,
		log:       log,
	}
}

// Ingest processes every record in input order and returns a complete
// summary. A single record's failure never aborts the batch.
func (s *IngestService) Ingest(ctx context.Context, records []RawRecord, opts IngestOptions) (*BatchResult, error) {
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return nil, err
	}

	result := &BatchResult{}
	for i, raw := range records {
		s.ingestOne(ctx, raw, tenantID, opts, result)

		if opts.ProgressEvery > 0 && opts.SessionID != uuid.Nil && (i+1)%opts.ProgressEvery == 0 {
			if err := s.sessions.Progress(ctx, opts.SessionID, i+1); err != nil {
				s.log.WithError(err).WithField("session_id", opts.SessionID).
					Warn("failed to record batch progress")
			}
		}
	}
	return result, nil
}

func (s *IngestService) ingestOne(ctx context.Context, raw RawRecord, tenantID uuid.UUID, opts IngestOptions, result *BatchResult) {
	rec := NormalizeRecord(raw)
	key := rec.Get(FieldIncidentID).String()

	validation, err := s.validator.Validate(ctx, rec, opts.InsertOnly)
	if err != nil {
		s.recordFailure(result, key, ReasonStorage, describeStorageError(err))
		return
	}
	if !validation.OK {
		s.recordFailure(result, key, validation.Reason, validation.Detail)
		return
	}

	t := buildTicket(rec, s.parser)
	t.TenantID = tenantID
	t.SourceID = opts.SourceID

	orgMapping, ok, err := s.resolver.ResolveProject(ctx, opts.SourceID, rec.Get(FieldOrganization))
	if err != nil {
		s.recordFailure(result, key, ReasonStorage, describeStorageError(err))
		return
	}
	if ok {
		mappingID := int(orgMapping.ID)
		t.MappingID = &mappingID
		t.ProjectID = orgMapping.ProjectID
	}

	email, ok, err := s.resolver.ResolveUser(ctx, opts.SourceID, rec.Get(FieldAssignee))
	if err != nil {
		s.recordFailure(result, key, ReasonStorage, describeStorageError(err))
		return
	}
	if ok {
		t.AssignedUserEmail = email
	}

	DeriveMetrics(t, s.parser)

	outcome, err := s.mergeTicket(ctx, t, opts.DryRun)
	if err != nil {
		s.recordFailure(result, key, ReasonStorage, describeStorageError(err))
		return
	}

	switch outcome {
	case ticket.OutcomeInserted:
		result.Inserted++
	case ticket.OutcomeUpdated:
		result.Updated++
	}

	if !opts.DryRun {
		s.publisher.Publish(TicketIngestedEvent{
			IncidentID: t.IncidentID,
			Outcome:    outcome,
			SessionID:  opts.SessionID,
		})
	}
}

// mergeTicket is each record's own atomic unit: the upsert is a single
// keyed write, so no explicit transaction spans it, and nothing spans the
// batch.
func (s *IngestService) mergeTicket(ctx context.Context, t *ticket.Ticket, dryRun bool) (ticket.MergeOutcome, error) {
	if dryRun {
		exists, err := s.tickets.ExistsByIncidentID(ctx, t.IncidentID)
		if err != nil {
			return 0, err
		}
		if exists {
			return ticket.OutcomeUpdated, nil
		}
		return ticket.OutcomeInserted, nil
	}
	return s.tickets.Upsert(ctx, t)
}

func (s *IngestService) recordFailure(result *BatchResult, key string, reason ReasonCode, detail string) {
	result.Failed++
	result.Errors = append(result.Errors, RecordError{Key: key, Reason: reason, Detail: detail})
	s.log.WithFields(logrus.Fields{
		"incident_id": key,
		"reason":      reason,
	}).Debug("record rejected")
}
