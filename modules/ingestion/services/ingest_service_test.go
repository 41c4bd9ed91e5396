package services

import (
	"context"
	"testing"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deskflow-io/deskflow/modules/ingestion/domain/mappingrule"
	"github.com/deskflow-io/deskflow/modules/ingestion/domain/ticket"
	"github.com/deskflow-io/deskflow/modules/ingestion/infrastructure/persistence"
	"github.com/deskflow-io/deskflow/pkg/composables"
	"github.com/deskflow-io/deskflow/pkg/eventbus"
)

type memoryTicketRepository struct {
	byIncidentID map[string]*ticket.Ticket
	nextID       uint
	failKeys     map[string]error
}

func newMemoryTicketRepository() *memoryTicketRepository {
	return &memoryTicketRepository{
		byIncidentID: map[string]*ticket.Ticket{},
		failKeys:     map[string]error{},
	}
}

func (m *memoryTicketRepository) Upsert(_ context.Context, t *ticket.Ticket) (ticket.MergeOutcome, error) {
	if err := m.failKeys[t.IncidentID]; err != nil {
		return 0, err
	}
	stored := *t
	if existing, ok := m.byIncidentID[t.IncidentID]; ok {
		stored.ID = existing.ID
		m.byIncidentID[t.IncidentID] = &stored
		return ticket.OutcomeUpdated, nil
	}
	m.nextID++
	stored.ID = m.nextID
	m.byIncidentID[t.IncidentID] = &stored
	return ticket.OutcomeInserted, nil
}

func (m *memoryTicketRepository) GetByIncidentID(_ context.Context, incidentID string) (*ticket.Ticket, error) {
	t, ok := m.byIncidentID[incidentID]
	if !ok {
		return nil, persistence.ErrTicketNotFound
	}
	return t, nil
}

func (m *memoryTicketRepository) ExistsByIncidentID(_ context.Context, incidentID string) (bool, error) {
	_, ok := m.byIncidentID[incidentID]
	return ok, nil
}

func (m *memoryTicketRepository) List(_ context.Context, _ *ticket.FindParams) ([]*ticket.Ticket, error) {
	out := make([]*ticket.Ticket, 0, len(m.byIncidentID))
	for _, t := range m.byIncidentID {
		out = append(out, t)
	}
	return out, nil
}

func (m *memoryTicketRepository) Count(_ context.Context, _ *ticket.FindParams) (int64, error) {
	return int64(len(m.byIncidentID)), nil
}

type memoryMappingRepository struct {
	organizations map[string]*mappingrule.OrganizationMapping
	users         map[string]*mappingrule.UserMapping
}

func newMemoryMappingRepository() *memoryMappingRepository {
	return &memoryMappingRepository{
		organizations: map[string]*mappingrule.OrganizationMapping{},
		users:         map[string]*mappingrule.UserMapping{},
	}
}

func mappingKey(sourceID, value string) string {
	return sourceID + "\x00" + value
}

func (m *memoryMappingRepository) FindOrganizationMapping(_ context.Context, sourceID, organization string) (*mappingrule.OrganizationMapping, error) {
	if rule, ok := m.organizations[mappingKey(sourceID, organization)]; ok {
		return rule, nil
	}
	return nil, persistence.ErrMappingNotFound
}

func (m *memoryMappingRepository) FindUserMapping(_ context.Context, sourceID, assignee string) (*mappingrule.UserMapping, error) {
	if rule, ok := m.users[mappingKey(sourceID, assignee)]; ok {
		return rule, nil
	}
	return nil, persistence.ErrMappingNotFound
}

func (m *memoryMappingRepository) ListOrganizationMappings(_ context.Context, _ string) ([]*mappingrule.OrganizationMapping, error) {
	return nil, nil
}

func (m *memoryMappingRepository) ListUserMappings(_ context.Context, _ string) ([]*mappingrule.UserMapping, error) {
	return nil, nil
}

type ingestFixture struct {
	service  *IngestService
	tickets  *memoryTicketRepository
	mappings *memoryMappingRepository
	ctx      context.Context
}

func newIngestFixture(t *testing.T) *ingestFixture {
	t.Helper()

	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)

	tickets := newMemoryTicketRepository()
	mappings := newMemoryMappingRepository()
	parser := NewTemporalParser(time.UTC)
	validator := NewRecordValidator(tickets, parser, testPriorities)
	resolver := NewMappingResolver(mappings)
	publisher := eventbus.NewEventPublisher(log)

	return &ingestFixture{
		service:  NewIngestService(tickets, validator, resolver, parser, nil, publisher, log),
		tickets:  tickets,
		mappings: mappings,
		ctx:      composables.WithTenantID(context.Background(), uuid.New()),
	}
}

func defaultOpts() IngestOptions {
	return IngestOptions{SourceID: "servicedesk"}
}

func TestIngest_InsertThenUpdateForSameKey(t *testing.T) {
	t.Parallel()
	f := newIngestFixture(t)

	first := RawRecord{"incident_id": "INC001", "state": "Open", "priority": "2 - High"}
	second := RawRecord{"incident_id": "INC001", "state": "Resolved", "priority": "2 - High"}

	result, err := f.service.Ingest(f.ctx, []RawRecord{first, second}, defaultOpts())
	require.NoError(t, err)
	assert.Equal(t, 1, result.Inserted)
	assert.Equal(t, 1, result.Updated)
	assert.Equal(t, 0, result.Failed)

	count, err := f.tickets.Count(f.ctx, nil)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)

	stored, err := f.tickets.GetByIncidentID(f.ctx, "INC001")
	require.NoError(t, err)
	assert.Equal(t, "Resolved", stored.State)
}

func TestIngest_ReingestIdenticalRecordIsIdempotent(t *testing.T) {
	t.Parallel()
	f := newIngestFixture(t)

	rec := RawRecord{"incident_id": "INC001", "state": "Open", "resolved_time": "02:58:25"}

	_, err := f.service.Ingest(f.ctx, []RawRecord{rec}, defaultOpts())
	require.NoError(t, err)
	result, err := f.service.Ingest(f.ctx, []RawRecord{rec}, defaultOpts())
	require.NoError(t, err)
	assert.Equal(t, 0, result.Inserted)
	assert.Equal(t, 1, result.Updated)

	count, err := f.tickets.Count(f.ctx, nil)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)

	stored, err := f.tickets.GetByIncidentID(f.ctx, "INC001")
	require.NoError(t, err)
	assert.Equal(t, "Open", stored.State)
	require.NotNil(t, stored.ResolvedTimeSeconds)
	assert.Equal(t, 10705, *stored.ResolvedTimeSeconds)
}

func TestIngest_MissingKeyIsCountedAndNothingWritten(t *testing.T) {
	t.Parallel()
	f := newIngestFixture(t)

	result, err := f.service.Ingest(f.ctx, []RawRecord{{"state": "Open"}}, defaultOpts())
	require.NoError(t, err)
	assert.Equal(t, 0, result.Inserted)
	assert.Equal(t, 1, result.Failed)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, ReasonMissingKey, result.Errors[0].Reason)

	count, err := f.tickets.Count(f.ctx, nil)
	require.NoError(t, err)
	assert.EqualValues(t, 0, count)
}

func TestIngest_InvalidEnumIsRejected(t *testing.T) {
	t.Parallel()
	f := newIngestFixture(t)

	result, err := f.service.Ingest(f.ctx, []RawRecord{
		{"incident_id": "INC001", "priority": "BOGUS"},
	}, defaultOpts())
	require.NoError(t, err)
	assert.Equal(t, 1, result.Failed)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "INC001", result.Errors[0].Key)
	assert.Equal(t, ReasonInvalidEnum, result.Errors[0].Reason)
}

func TestIngest_MixedBatchProducesCompleteSummary(t *testing.T) {
	t.Parallel()
	f := newIngestFixture(t)

	records := []RawRecord{
		{"incident_id": "INC001"},
		{"incident_id": "INC002", "priority": "BOGUS"},
		{"incident_id": "INC003"},
		{"state": "Open"},
		{"incident_id": "INC004"},
	}

	result, err := f.service.Ingest(f.ctx, records, defaultOpts())
	require.NoError(t, err)
	assert.Equal(t, 3, result.Inserted)
	assert.Equal(t, 0, result.Updated)
	assert.Equal(t, 2, result.Failed)
	assert.Len(t, result.Errors, 2)
}

func TestIngest_UnmappedActorsAreAcceptedUnmapped(t *testing.T) {
	t.Parallel()
	f := newIngestFixture(t)

	result, err := f.service.Ingest(f.ctx, []RawRecord{
		{"incident_id": "INC001", "organization": "Acme Corp", "assignee": "J. Doe"},
	}, defaultOpts())
	require.NoError(t, err)
	assert.Equal(t, 1, result.Inserted)
	assert.Equal(t, 0, result.Failed)

	stored, err := f.tickets.GetByIncidentID(f.ctx, "INC001")
	require.NoError(t, err)
	assert.Empty(t, stored.ProjectID)
	assert.Nil(t, stored.MappingID)
	assert.Empty(t, stored.AssignedUserEmail)
	assert.Equal(t, "Acme Corp", stored.Organization)
	assert.Equal(t, "J. Doe", stored.Assignee)
}

func TestIngest_MappedActorsAreResolved(t *testing.T) {
	t.Parallel()
	f := newIngestFixture(t)
	f.mappings.organizations[mappingKey("servicedesk", "Acme Corp")] = &mappingrule.OrganizationMapping{
		ID:           7,
		SourceID:     "servicedesk",
		Organization: "Acme Corp",
		ProjectID:    "ACME",
	}
	f.mappings.users[mappingKey("servicedesk", "J. Doe")] = &mappingrule.UserMapping{
		SourceID:  "servicedesk",
		Assignee:  "J. Doe",
		UserEmail: "jdoe@example.com",
	}

	_, err := f.service.Ingest(f.ctx, []RawRecord{
		{"incident_id": "INC001", "organization": "Acme Corp", "assignee": "J. Doe"},
	}, defaultOpts())
	require.NoError(t, err)

	stored, err := f.tickets.GetByIncidentID(f.ctx, "INC001")
	require.NoError(t, err)
	assert.Equal(t, "ACME", stored.ProjectID)
	require.NotNil(t, stored.MappingID)
	assert.Equal(t, 7, *stored.MappingID)
	assert.Equal(t, "jdoe@example.com", stored.AssignedUserEmail)
}

func TestIngest_MappingLookupIsCaseSensitive(t *testing.T) {
	t.Parallel()
	f := newIngestFixture(t)
	f.mappings.users[mappingKey("servicedesk", "J. Doe")] = &mappingrule.UserMapping{
		UserEmail: "jdoe@example.com",
	}

	_, err := f.service.Ingest(f.ctx, []RawRecord{
		{"incident_id": "INC001", "assignee": "j. doe"},
	}, defaultOpts())
	require.NoError(t, err)

	stored, err := f.tickets.GetByIncidentID(f.ctx, "INC001")
	require.NoError(t, err)
	assert.Empty(t, stored.AssignedUserEmail)
}

func TestIngest_StorageFailureDoesNotAbortBatch(t *testing.T) {
	t.Parallel()
	f := newIngestFixture(t)
	f.tickets.failKeys["INC002"] = errors.New("connection reset")

	result, err := f.service.Ingest(f.ctx, []RawRecord{
		{"incident_id": "INC001"},
		{"incident_id": "INC002"},
		{"incident_id": "INC003"},
	}, defaultOpts())
	require.NoError(t, err)
	assert.Equal(t, 2, result.Inserted)
	assert.Equal(t, 1, result.Failed)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "INC002", result.Errors[0].Key)
	assert.Equal(t, ReasonStorage, result.Errors[0].Reason)
	assert.Contains(t, result.Errors[0].Detail, "connection reset")
}

func TestIngest_InsertOnlyModeRejectsExistingKey(t *testing.T) {
	t.Parallel()
	f := newIngestFixture(t)

	_, err := f.service.Ingest(f.ctx, []RawRecord{{"incident_id": "INC001"}}, defaultOpts())
	require.NoError(t, err)

	o := defaultOpts()
	o.InsertOnly = true
	result, err := f.service.Ingest(f.ctx, []RawRecord{{"incident_id": "INC001"}}, o)
	require.NoError(t, err)
	assert.Equal(t, 0, result.Inserted)
	assert.Equal(t, 1, result.Failed)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, ReasonDuplicateKey, result.Errors[0].Reason)
}

func TestIngest_DryRunWritesNothing(t *testing.T) {
	t.Parallel()
	f := newIngestFixture(t)

	_, err := f.service.Ingest(f.ctx, []RawRecord{{"incident_id": "INC001"}}, defaultOpts())
	require.NoError(t, err)

	o := defaultOpts()
	o.DryRun = true
	result, err := f.service.Ingest(f.ctx, []RawRecord{
		{"incident_id": "INC001"},
		{"incident_id": "INC002"},
	}, o)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Inserted)
	assert.Equal(t, 1, result.Updated)

	count, err := f.tickets.Count(f.ctx, nil)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}

func TestIngest_RequiresTenant(t *testing.T) {
	t.Parallel()
	f := newIngestFixture(t)

	_, err := f.service.Ingest(context.Background(), []RawRecord{{"incident_id": "INC001"}}, defaultOpts())
	require.ErrorIs(t, err, composables.ErrNoTenantID)
}

func TestIngest_PublishesTicketIngestedEvents(t *testing.T) {
	t.Parallel()
	f := newIngestFixture(t)

	var events []TicketIngestedEvent
	publisher := eventbus.NewEventPublisher(logrus.New())
	publisher.Subscribe(func(e TicketIngestedEvent) {
		events = append(events, e)
	})
	f.service.publisher = publisher

	_, err := f.service.Ingest(f.ctx, []RawRecord{
		{"incident_id": "INC001"},
		{"incident_id": "INC001"},
	}, defaultOpts())
	require.NoError(t, err)

	require.Len(t, events, 2)
	assert.Equal(t, ticket.OutcomeInserted, events[0].Outcome)
	assert.Equal(t, ticket.OutcomeUpdated, events[1].Outcome)
}
