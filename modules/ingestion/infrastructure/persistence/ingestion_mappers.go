package persistence

import (
	"database/sql"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/deskflow-io/deskflow/modules/ingestion/domain/mappingrule"
	"github.com/deskflow-io/deskflow/modules/ingestion/domain/ticket"
	"github.com/deskflow-io/deskflow/modules/ingestion/domain/uploadsession"
	"github.com/deskflow-io/deskflow/modules/ingestion/infrastructure/persistence/models"
	"github.com/deskflow-io/deskflow/pkg/mapping"
)

func toDBTicket(t *ticket.Ticket) *models.Ticket {
	return &models.Ticket{
		ID:         t.ID,
		TenantID:   t.TenantID.String(),
		IncidentID: t.IncidentID,

		SourceID:  mapping.ValueToSQLNullString(t.SourceID),
		MappingID: mapping.PointerToSQLNullInt64(t.MappingID),
		ProjectID: mapping.ValueToSQLNullString(t.ProjectID),

		Organization:      mapping.ValueToSQLNullString(t.Organization),
		Company:           mapping.ValueToSQLNullString(t.Company),
		Location:          mapping.ValueToSQLNullString(t.Location),
		Caller:            mapping.ValueToSQLNullString(t.Caller),
		OpenedBy:          mapping.ValueToSQLNullString(t.OpenedBy),
		ResolvedBy:        mapping.ValueToSQLNullString(t.ResolvedBy),
		ClosedBy:          mapping.ValueToSQLNullString(t.ClosedBy),
		AssignmentGroup:   mapping.ValueToSQLNullString(t.AssignmentGroup),
		Assignee:          mapping.ValueToSQLNullString(t.Assignee),
		AssignedUserEmail: mapping.ValueToSQLNullString(t.AssignedUserEmail),

		ContactType:       mapping.ValueToSQLNullString(t.ContactType),
		State:             mapping.ValueToSQLNullString(t.State),
		Impact:            mapping.ValueToSQLNullString(t.Impact),
		Urgency:           mapping.ValueToSQLNullString(t.Urgency),
		Priority:          mapping.ValueToSQLNullString(t.Priority),
		Category:          mapping.ValueToSQLNullString(t.Category),
		Subcategory:       mapping.ValueToSQLNullString(t.Subcategory),
		ServiceOffering:   mapping.ValueToSQLNullString(t.ServiceOffering),
		ConfigurationItem: mapping.ValueToSQLNullString(t.ConfigurationItem),

		ShortDescription: mapping.ValueToSQLNullString(t.ShortDescription),
		Description:      mapping.ValueToSQLNullString(t.Description),
		CloseCode:        mapping.ValueToSQLNullString(t.CloseCode),
		CloseNotes:       mapping.ValueToSQLNullString(t.CloseNotes),

		CausedBy:      mapping.ValueToSQLNullString(t.CausedBy),
		ProblemID:     mapping.ValueToSQLNullString(t.ProblemID),
		ChangeRequest: mapping.ValueToSQLNullString(t.ChangeRequest),

		MadeSLA:           pointerToSQLNullBool(t.MadeSLA),
		ReassignmentCount: mapping.PointerToSQLNullInt64(t.ReassignmentCount),
		ReopenCount:       mapping.PointerToSQLNullInt64(t.ReopenCount),

		OpenedAt:   mapping.PointerToSQLNullTime(t.OpenedAt),
		ResolvedAt: mapping.PointerToSQLNullTime(t.ResolvedAt),
		ClosedAt:   mapping.PointerToSQLNullTime(t.ClosedAt),
		DueAt:      mapping.PointerToSQLNullTime(t.DueAt),

		ResponseTime:        mapping.ValueToSQLNullString(t.ResponseTime),
		ResponseTimeSeconds: mapping.PointerToSQLNullInt64(t.ResponseTimeSeconds),
		ResponseTimeMinutes: decimalToSQLNullString(t.ResponseTimeMinutes),
		ResolvedTime:        mapping.ValueToSQLNullString(t.ResolvedTime),
		ResolvedTimeSeconds: mapping.PointerToSQLNullInt64(t.ResolvedTimeSeconds),
		ResolvedTimeMinutes: decimalToSQLNullString(t.ResolvedTimeMinutes),

		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}

func toDomainTicket(row *models.Ticket) *ticket.Ticket {
	tenantID, err := uuid.Parse(row.TenantID)
	if err != nil {
		tenantID = uuid.Nil
	}

	return &ticket.Ticket{
		ID:         row.ID,
		TenantID:   tenantID,
		IncidentID: row.IncidentID,

		SourceID:  mapping.SQLNullStringToValue(row.SourceID),
		MappingID: mapping.SQLNullInt64ToPointer(row.MappingID),
		ProjectID: mapping.SQLNullStringToValue(row.ProjectID),

		Organization:      mapping.SQLNullStringToValue(row.Organization),
		Company:           mapping.SQLNullStringToValue(row.Company),
		Location:          mapping.SQLNullStringToValue(row.Location),
		Caller:            mapping.SQLNullStringToValue(row.Caller),
		OpenedBy:          mapping.SQLNullStringToValue(row.OpenedBy),
		ResolvedBy:        mapping.SQLNullStringToValue(row.ResolvedBy),
		ClosedBy:          mapping.SQLNullStringToValue(row.ClosedBy),
		AssignmentGroup:   mapping.SQLNullStringToValue(row.AssignmentGroup),
		Assignee:          mapping.SQLNullStringToValue(row.Assignee),
		AssignedUserEmail: mapping.SQLNullStringToValue(row.AssignedUserEmail),

		ContactType:       mapping.SQLNullStringToValue(row.ContactType),
		State:             mapping.SQLNullStringToValue(row.State),
		Impact:            mapping.SQLNullStringToValue(row.Impact),
		Urgency:           mapping.SQLNullStringToValue(row.Urgency),
		Priority:          mapping.SQLNullStringToValue(row.Priority),
		Category:          mapping.SQLNullStringToValue(row.Category),
		Subcategory:       mapping.SQLNullStringToValue(row.Subcategory),
		ServiceOffering:   mapping.SQLNullStringToValue(row.ServiceOffering),
		ConfigurationItem: mapping.SQLNullStringToValue(row.ConfigurationItem),

		ShortDescription: mapping.SQLNullStringToValue(row.ShortDescription),
		Description:      mapping.SQLNullStringToValue(row.Description),
		CloseCode:        mapping.SQLNullStringToValue(row.CloseCode),
		CloseNotes:       mapping.SQLNullStringToValue(row.CloseNotes),

		CausedBy:      mapping.SQLNullStringToValue(row.CausedBy),
		ProblemID:     mapping.SQLNullStringToValue(row.ProblemID),
		ChangeRequest: mapping.SQLNullStringToValue(row.ChangeRequest),

		MadeSLA:           sqlNullBoolToPointer(row.MadeSLA),
		ReassignmentCount: mapping.SQLNullInt64ToPointer(row.ReassignmentCount),
		ReopenCount:       mapping.SQLNullInt64ToPointer(row.ReopenCount),

		OpenedAt:   mapping.SQLNullTimeToPointer(row.OpenedAt),
		ResolvedAt: mapping.SQLNullTimeToPointer(row.ResolvedAt),
		ClosedAt:   mapping.SQLNullTimeToPointer(row.ClosedAt),
		DueAt:      mapping.SQLNullTimeToPointer(row.DueAt),

		ResponseTime:        mapping.SQLNullStringToValue(row.ResponseTime),
		ResponseTimeSeconds: mapping.SQLNullInt64ToPointer(row.ResponseTimeSeconds),
		ResponseTimeMinutes: sqlNullStringToDecimal(row.ResponseTimeMinutes),
		ResolvedTime:        mapping.SQLNullStringToValue(row.ResolvedTime),
		ResolvedTimeSeconds: mapping.SQLNullInt64ToPointer(row.ResolvedTimeSeconds),
		ResolvedTimeMinutes: sqlNullStringToDecimal(row.ResolvedTimeMinutes),

		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
}

func toDBUploadSession(s *uploadsession.UploadSession) *models.UploadSession {
	return &models.UploadSession{
		ID:            s.ID.String(),
		TenantID:      s.TenantID.String(),
		SourceID:      s.SourceID,
		Filename:      mapping.ValueToSQLNullString(s.Filename),
		TotalRows:     s.TotalRows,
		ProcessedRows: s.ProcessedRows,
		Status:        string(s.Status),
		ErrorMessage:  mapping.ValueToSQLNullString(s.ErrorMessage),
		CreatedAt:     s.CreatedAt,
		UpdatedAt:     s.UpdatedAt,
		CompletedAt:   mapping.PointerToSQLNullTime(s.CompletedAt),
	}
}

func toDomainUploadSession(row *models.UploadSession) *uploadsession.UploadSession {
	id, err := uuid.Parse(row.ID)
	if err != nil {
		id = uuid.Nil
	}
	tenantID, err := uuid.Parse(row.TenantID)
	if err != nil {
		tenantID = uuid.Nil
	}
	return &uploadsession.UploadSession{
		ID:            id,
		TenantID:      tenantID,
		SourceID:      row.SourceID,
		Filename:      mapping.SQLNullStringToValue(row.Filename),
		TotalRows:     row.TotalRows,
		ProcessedRows: row.ProcessedRows,
		Status:        uploadsession.Status(row.Status),
		ErrorMessage:  mapping.SQLNullStringToValue(row.ErrorMessage),
		CreatedAt:     row.CreatedAt,
		UpdatedAt:     row.UpdatedAt,
		CompletedAt:   mapping.SQLNullTimeToPointer(row.CompletedAt),
	}
}

func toDomainOrganizationMapping(row *models.OrganizationMapping) *mappingrule.OrganizationMapping {
	tenantID, err := uuid.Parse(row.TenantID)
	if err != nil {
		tenantID = uuid.Nil
	}
	return &mappingrule.OrganizationMapping{
		ID:           row.ID,
		TenantID:     tenantID,
		SourceID:     row.SourceID,
		Organization: row.Organization,
		ProjectID:    row.ProjectID,
		CreatedAt:    row.CreatedAt,
		UpdatedAt:    row.UpdatedAt,
	}
}

func toDomainUserMapping(row *models.UserMapping) *mappingrule.UserMapping {
	tenantID, err := uuid.Parse(row.TenantID)
	if err != nil {
		tenantID = uuid.Nil
	}
	return &mappingrule.UserMapping{
		ID:        row.ID,
		TenantID:  tenantID,
		SourceID:  row.SourceID,
		Assignee:  row.Assignee,
		UserEmail: row.UserEmail,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
}

func pointerToSQLNullBool(value *bool) sql.NullBool {
	if value == nil {
		return sql.NullBool{}
	}
	return sql.NullBool{Bool: *value, Valid: true}
}

func sqlNullBoolToPointer(nb sql.NullBool) *bool {
	if !nb.Valid {
		return nil
	}
	b := nb.Bool
	return &b
}

func decimalToSQLNullString(d *decimal.Decimal) sql.NullString {
	if d == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: d.StringFixed(2), Valid: true}
}

func sqlNullStringToDecimal(ns sql.NullString) *decimal.Decimal {
	if !ns.Valid {
		return nil
	}
	d, err := decimal.NewFromString(ns.String)
	if err != nil {
		return nil
	}
	return &d
}
