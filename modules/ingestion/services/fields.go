package services

import (
	"strconv"
	"strings"
	"time"

	"github.com/deskflow-io/deskflow/modules/ingestion/domain/ticket"
)

// Canonical field names of an export row. Readers map source column
// headers onto these; anything a reader emits outside this set is ignored
// by the record builder.
const (
	FieldIncidentID        = "incident_id"
	FieldOrganization      = "organization"
	FieldCompany           = "company"
	FieldLocation          = "location"
	FieldCaller            = "caller"
	FieldOpenedBy          = "opened_by"
	FieldResolvedBy        = "resolved_by"
	FieldClosedBy          = "closed_by"
	FieldAssignmentGroup   = "assignment_group"
	FieldAssignee          = "assignee"
	FieldContactType       = "contact_type"
	FieldState             = "state"
	FieldImpact            = "impact"
	FieldUrgency           = "urgency"
	FieldPriority          = "priority"
	FieldCategory          = "category"
	FieldSubcategory       = "subcategory"
	FieldServiceOffering   = "service_offering"
	FieldConfigurationItem = "configuration_item"
	FieldShortDescription  = "short_description"
	FieldDescription       = "description"
	FieldCloseCode         = "close_code"
	FieldCloseNotes        = "close_notes"
	FieldCausedBy          = "caused_by"
	FieldProblemID         = "problem_id"
	FieldChangeRequest     = "change_request"
	FieldMadeSLA           = "made_sla"
	FieldReassignmentCount = "reassignment_count"
	FieldReopenCount       = "reopen_count"
	FieldOpenedAt          = "opened_at"
	FieldResolvedAt        = "resolved_at"
	FieldClosedAt          = "closed_at"
	FieldDueAt             = "due_at"
	FieldResponseTime      = "response_time"
	FieldResolvedTime      = "resolved_time"
)

// buildTicket maps a normalized record onto a Ticket. Timestamps and
// counters that fail to parse degrade to nil; partial data beats a
// rejected record here.
func buildTicket(rec NormalizedRecord, parser *TemporalParser) *ticket.Ticket {
	t := &ticket.Ticket{
		IncidentID:        rec.Get(FieldIncidentID).String(),
		Organization:      rec.Get(FieldOrganization).String(),
		Company:           rec.Get(FieldCompany).String(),
		Location:          rec.Get(FieldLocation).String(),
		Caller:            rec.Get(FieldCaller).String(),
		OpenedBy:          rec.Get(FieldOpenedBy).String(),
		ResolvedBy:        rec.Get(FieldResolvedBy).String(),
		ClosedBy:          rec.Get(FieldClosedBy).String(),
		AssignmentGroup:   rec.Get(FieldAssignmentGroup).String(),
		Assignee:          rec.Get(FieldAssignee).String(),
		ContactType:       rec.Get(FieldContactType).String(),
		State:             rec.Get(FieldState).String(),
		Impact:            rec.Get(FieldImpact).String(),
		Urgency:           rec.Get(FieldUrgency).String(),
		Priority:          rec.Get(FieldPriority).String(),
		Category:          rec.Get(FieldCategory).String(),
		Subcategory:       rec.Get(FieldSubcategory).String(),
		ServiceOffering:   rec.Get(FieldServiceOffering).String(),
		ConfigurationItem: rec.Get(FieldConfigurationItem).String(),
		ShortDescription:  rec.Get(FieldShortDescription).String(),
		Description:       rec.Get(FieldDescription).String(),
		CloseCode:         rec.Get(FieldCloseCode).String(),
		CloseNotes:        rec.Get(FieldCloseNotes).String(),
		CausedBy:          rec.Get(FieldCausedBy).String(),
		ProblemID:         rec.Get(FieldProblemID).String(),
		ChangeRequest:     rec.Get(FieldChangeRequest).String(),
		ResponseTime:      rec.Get(FieldResponseTime).String(),
		ResolvedTime:      rec.Get(FieldResolvedTime).String(),
	}

	t.MadeSLA = parseBool(rec.Get(FieldMadeSLA))
	t.ReassignmentCount = parseCount(rec.Get(FieldReassignmentCount))
	t.ReopenCount = parseCount(rec.Get(FieldReopenCount))

	t.OpenedAt = parseTime(rec.Get(FieldOpenedAt), parser)
	t.ResolvedAt = parseTime(rec.Get(FieldResolvedAt), parser)
	t.ClosedAt = parseTime(rec.Get(FieldClosedAt), parser)
	t.DueAt = parseTime(rec.Get(FieldDueAt), parser)

	return t
}

func parseTime(v Value, parser *TemporalParser) *time.Time {
	if t, ok := parser.ParseTimestamp(v); ok {
		return &t
	}
	return nil
}

func parseCount(v Value) *int {
	if !v.IsPresent() {
		return nil
	}
	n, err := strconv.Atoi(v.String())
	if err != nil || n < 0 {
		return nil
	}
	return &n
}

func parseBool(v Value) *bool {
	if !v.IsPresent() {
		return nil
	}
	switch strings.ToLower(v.String()) {
	case "true", "yes", "1":
		b := true
		return &b
	case "false", "no", "0":
		b := false
		return &b
	}
	return nil
}
