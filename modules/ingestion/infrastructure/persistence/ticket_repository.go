package persistence

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"

	"github.com/deskflow-io/deskflow/modules/ingestion/domain/ticket"
	"github.com/deskflow-io/deskflow/modules/ingestion/infrastructure/persistence/models"
	"github.com/deskflow-io/deskflow/pkg/composables"
	"github.com/deskflow-io/deskflow/pkg/repo"
)

var (
	ErrTicketNotFound = errors.New("ticket not found")
)

const ticketColumns = `
	tenant_id, incident_id, source_id, mapping_id, project_id,
	organization, company, location, caller,
	opened_by, resolved_by, closed_by,
	assignment_group, assignee, assigned_user_email,
	contact_type, state, impact, urgency, priority,
	category, subcategory, service_offering, configuration_item,
	short_description, description, close_code, close_notes,
	caused_by, problem_id, change_request,
	made_sla, reassignment_count, reopen_count,
	opened_at, resolved_at, closed_at, due_at,
	response_time, response_time_seconds, response_time_minutes,
	resolved_time, resolved_time_seconds, resolved_time_minutes`

const (
	ticketFindQuery = `SELECT id,` + ticketColumns + `, created_at, updated_at FROM tickets`

	ticketCountQuery = `SELECT COUNT(*) FROM tickets`

	ticketExistsQuery = `SELECT EXISTS (SELECT 1 FROM tickets WHERE incident_id = $1)`

	// The upsert is a single atomic statement keyed on the unique business
	// key: no row yet means insert, an existing row has every attribute
	// overwritten. "xmax = 0" is true only for freshly inserted rows,
	// which is how insert-vs-update is reported without a second query.
	ticketUpsertQuery = `
		INSERT INTO tickets (` + ticketColumns + `)
		VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10,
			$11, $12, $13, $14, $15, $16, $17, $18, $19, $20,
			$21, $22, $23, $24, $25, $26, $27, $28, $29, $30,
			$31, $32, $33, $34, $35, $36, $37, $38, $39, $40,
			$41, $42, $43, $44
		)
		ON CONFLICT (incident_id) DO UPDATE SET
			tenant_id = EXCLUDED.tenant_id,
			source_id = EXCLUDED.source_id,
			mapping_id = EXCLUDED.mapping_id,
			project_id = EXCLUDED.project_id,
			organization = EXCLUDED.organization,
			company = EXCLUDED.company,
			location = EXCLUDED.location,
			caller = EXCLUDED.caller,
			opened_by = EXCLUDED.opened_by,
			resolved_by = EXCLUDED.resolved_by,
			closed_by = EXCLUDED.closed_by,
			assignment_group = EXCLUDED.assignment_group,
			assignee = EXCLUDED.assignee,
			assigned_user_email = EXCLUDED.assigned_user_email,
			contact_type = EXCLUDED.contact_type,
			state = EXCLUDED.state,
			impact = EXCLUDED.impact,
			urgency = EXCLUDED.urgency,
			priority = EXCLUDED.priority,
			category = EXCLUDED.category,
			subcategory = EXCLUDED.subcategory,
			service_offering = EXCLUDED.service_offering,
			configuration_item = EXCLUDED.configuration_item,
			short_description = EXCLUDED.short_description,
			description = EXCLUDED.description,
			close_code = EXCLUDED.close_code,
			close_notes = EXCLUDED.close_notes,
			caused_by = EXCLUDED.caused_by,
			problem_id = EXCLUDED.problem_id,
			change_request = EXCLUDED.change_request,
			made_sla = EXCLUDED.made_sla,
			reassignment_count = EXCLUDED.reassignment_count,
			reopen_count = EXCLUDED.reopen_count,
			opened_at = EXCLUDED.opened_at,
			resolved_at = EXCLUDED.resolved_at,
			closed_at = EXCLUDED.closed_at,
			due_at = EXCLUDED.due_at,
			response_time = EXCLUDED.response_time,
			response_time_seconds = EXCLUDED.response_time_seconds,
			response_time_minutes = EXCLUDED.response_time_minutes,
			resolved_time = EXCLUDED.resolved_time,
			resolved_time_seconds = EXCLUDED.resolved_time_seconds,
			resolved_time_minutes = EXCLUDED.resolved_time_minutes,
			updated_at = NOW()
		RETURNING id, (xmax = 0) AS inserted`
)

type PgTicketRepository struct{}

func NewTicketRepository() ticket.Repository {
	return &PgTicketRepository{}
}

func (r *PgTicketRepository) Upsert(ctx context.Context, t *ticket.Ticket) (ticket.MergeOutcome, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, err
	}

	row := toDBTicket(t)
	var (
		id       uint
		inserted bool
	)
	if err := tx.QueryRow(
		ctx,
		ticketUpsertQuery,
		row.TenantID,
		row.IncidentID,
		row.SourceID,
		row.MappingID,
		row.ProjectID,
		row.Organization,
		row.Company,
		row.Location,
		row.Caller,
		row.OpenedBy,
		row.ResolvedBy,
		row.ClosedBy,
		row.AssignmentGroup,
		row.Assignee,
		row.AssignedUserEmail,
		row.ContactType,
		row.State,
		row.Impact,
		row.Urgency,
		row.Priority,
		row.Category,
		row.Subcategory,
		row.ServiceOffering,
		row.ConfigurationItem,
		row.ShortDescription,
		row.Description,
		row.CloseCode,
		row.CloseNotes,
		row.CausedBy,
		row.ProblemID,
		row.ChangeRequest,
		row.MadeSLA,
		row.ReassignmentCount,
		row.ReopenCount,
		row.OpenedAt,
		row.ResolvedAt,
		row.ClosedAt,
		row.DueAt,
		row.ResponseTime,
		row.ResponseTimeSeconds,
		row.ResponseTimeMinutes,
		row.ResolvedTime,
		row.ResolvedTimeSeconds,
		row.ResolvedTimeMinutes,
	).Scan(&id, &inserted); err != nil {
		return 0, errors.Wrap(err, "ticket upsert failed")
	}

	t.ID = id
	if inserted {
		return ticket.OutcomeInserted, nil
	}
	return ticket.OutcomeUpdated, nil
}

func (r *PgTicketRepository) GetByIncidentID(ctx context.Context, incidentID string) (*ticket.Ticket, error) {
	tickets, err := r.queryTickets(ctx, ticketFindQuery+" WHERE incident_id = $1", incidentID)
	if err != nil {
		return nil, err
	}
	if len(tickets) == 0 {
		return nil, ErrTicketNotFound
	}
	return tickets[0], nil
}

func (r *PgTicketRepository) ExistsByIncidentID(ctx context.Context, incidentID string) (bool, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return false, err
	}
	var exists bool
	if err := tx.QueryRow(ctx, ticketExistsQuery, incidentID).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *PgTicketRepository) List(ctx context.Context, params *ticket.FindParams) ([]*ticket.Ticket, error) {
	if params == nil {
		params = &ticket.FindParams{}
	}
	where, args := buildTicketFilters(params)
	query := ticketFindQuery + " WHERE " + strings.Join(where, " AND ") + " ORDER BY incident_id"
	if clause := repo.FormatLimitOffset(params.Limit, params.Offset); clause != "" {
		query += " " + clause
	}
	return r.queryTickets(ctx, query, args...)
}

func (r *PgTicketRepository) Count(ctx context.Context, params *ticket.FindParams) (int64, error) {
	if params == nil {
		params = &ticket.FindParams{}
	}
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, err
	}
	where, args := buildTicketFilters(params)
	var count int64
	if err := tx.QueryRow(ctx, ticketCountQuery+" WHERE "+strings.Join(where, " AND "), args...).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func buildTicketFilters(params *ticket.FindParams) ([]string, []interface{}) {
	where := []string{"1 = 1"}
	var args []interface{}
	if params.SourceID != "" {
		args = append(args, params.SourceID)
		where = append(where, fmt.Sprintf("source_id = $%d", len(args)))
	}
	if params.ProjectID != "" {
		args = append(args, params.ProjectID)
		where = append(where, fmt.Sprintf("project_id = $%d", len(args)))
	}
	if params.State != "" {
		args = append(args, params.State)
		where = append(where, fmt.Sprintf("state = $%d", len(args)))
	}
	return where, args
}

func (r *PgTicketRepository) queryTickets(ctx context.Context, query string, args ...interface{}) ([]*ticket.Ticket, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tickets []*ticket.Ticket
	for rows.Next() {
		row, err := scanTicket(rows)
		if err != nil {
			return nil, err
		}
		tickets = append(tickets, toDomainTicket(row))
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return tickets, nil
}

func scanTicket(rows pgx.Rows) (*models.Ticket, error) {
	var row models.Ticket
	if err := rows.Scan(
		&row.ID,
		&row.TenantID,
		&row.IncidentID,
		&row.SourceID,
		&row.MappingID,
		&row.ProjectID,
		&row.Organization,
		&row.Company,
		&row.Location,
		&row.Caller,
		&row.OpenedBy,
		&row.ResolvedBy,
		&row.ClosedBy,
		&row.AssignmentGroup,
		&row.Assignee,
		&row.AssignedUserEmail,
		&row.ContactType,
		&row.State,
		&row.Impact,
		&row.Urgency,
		&row.Priority,
		&row.Category,
		&row.Subcategory,
		&row.ServiceOffering,
		&row.ConfigurationItem,
		&row.ShortDescription,
		&row.Description,
		&row.CloseCode,
		&row.CloseNotes,
		&row.CausedBy,
		&row.ProblemID,
		&row.ChangeRequest,
		&row.MadeSLA,
		&row.ReassignmentCount,
		&row.ReopenCount,
		&row.OpenedAt,
		&row.ResolvedAt,
		&row.ClosedAt,
		&row.DueAt,
		&row.ResponseTime,
		&row.ResponseTimeSeconds,
		&row.ResponseTimeMinutes,
		&row.ResolvedTime,
		&row.ResolvedTimeSeconds,
		&row.ResolvedTimeMinutes,
		&row.CreatedAt,
		&row.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &row, nil
}
